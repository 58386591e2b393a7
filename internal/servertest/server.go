package servertest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/notebooklm-sdk-go/internal/config"
)

// Compile-time verification that Launcher implements config.Launcher.
var _ config.Launcher = (*Launcher)(nil)

// Launcher starts an in-memory MCP server per Launch, standing in for the
// notebooklm-mcp subprocess. Tools are registered once and served by every
// launched server.
type Launcher struct {
	mu        sync.Mutex
	tools     []*tool
	procs     []*Process
	launchErr error
	gate      chan struct{}

	launches atomic.Int32
}

type tool struct {
	tool    *mcp.Tool
	handler mcp.ToolHandler
}

// NewLauncher creates a launcher with no tools.
func NewLauncher() *Launcher {
	return &Launcher{}
}

// AddTool registers a tool. A nil schema accepts any object.
func (l *Launcher) AddTool(name string, schema *jsonschema.Schema, handler mcp.ToolHandler) {
	if schema == nil {
		schema = &jsonschema.Schema{Type: "object"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.tools = append(l.tools, &tool{
		tool:    &mcp.Tool{Name: name, InputSchema: schema},
		handler: handler,
	})
}

// Handle registers a tool whose handler sees decoded arguments.
func (l *Launcher) Handle(name string, fn func(ctx context.Context, args map[string]any) *mcp.CallToolResult) {
	l.AddTool(name, nil, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return fn(ctx, Arguments(req)), nil
	})
}

// FailLaunch makes every subsequent Launch return err. Pass nil to reset.
func (l *Launcher) FailLaunch(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.launchErr = err
}

// Hold makes subsequent Launch calls block until the returned release
// function is called or their context ends.
func (l *Launcher) Hold() (release func()) {
	gate := make(chan struct{})

	l.mu.Lock()
	l.gate = gate
	l.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			l.mu.Lock()
			if l.gate == gate {
				l.gate = nil
			}
			l.mu.Unlock()

			close(gate)
		})
	}
}

// Launches returns how many times Launch was called.
func (l *Launcher) Launches() int {
	return int(l.launches.Load())
}

// Processes returns every process launched so far, oldest first.
func (l *Launcher) Processes() []*Process {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]*Process(nil), l.procs...)
}

// Last returns the most recently launched process, or nil.
func (l *Launcher) Last() *Process {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.procs) == 0 {
		return nil
	}

	return l.procs[len(l.procs)-1]
}

// Launch implements config.Launcher.
func (l *Launcher) Launch(ctx context.Context, _ *config.LaunchSpec) (config.Process, error) {
	l.launches.Add(1)

	l.mu.Lock()
	gate, launchErr := l.gate, l.launchErr
	tools := append([]*tool(nil), l.tools...)
	l.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if launchErr != nil {
		return nil, launchErr
	}

	server := mcp.NewServer(&mcp.Implementation{Name: "notebooklm-mcp", Version: "test"}, nil)
	for _, t := range tools {
		server.AddTool(t.tool, t.handler)
	}

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ss, err := server.Connect(context.Background(), serverTransport, nil)
	if err != nil {
		return nil, fmt.Errorf("connect in-memory server: %w", err)
	}

	proc := &Process{
		transport: &faultyTransport{inner: clientTransport},
		server:    ss,
		done:      make(chan struct{}),
	}

	l.mu.Lock()
	l.procs = append(l.procs, proc)
	l.mu.Unlock()

	return proc, nil
}

// Arguments decodes the raw arguments of a tool request.
func Arguments(req *mcp.CallToolRequest) map[string]any {
	args := map[string]any{}

	if req.Params != nil && len(req.Params.Arguments) > 0 {
		_ = json.Unmarshal(req.Params.Arguments, &args)
	}

	return args
}

// TextResult creates a CallToolResult with text content.
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// JSONResult creates a CallToolResult whose single text block is v encoded
// as JSON, the way notebooklm-mcp answers.
func JSONResult(v any) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("servertest: marshal result: %v", err))
	}

	return TextResult(string(data))
}

// StructuredResult creates a CallToolResult carrying structured content.
func StructuredResult(v map[string]any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content:           []mcp.Content{},
		StructuredContent: v,
	}
}

// ErrorResult creates a CallToolResult indicating an error.
func ErrorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: message},
		},
		IsError: true,
	}
}

// SimpleSchema creates an object schema whose properties are all required.
//
// Input format: {"notebook_id": "string", "count": "integer"}
func SimpleSchema(props map[string]string) *jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema, len(props))
	required := make([]string, 0, len(props))

	for name, typ := range props {
		properties[name] = &jsonschema.Schema{Type: typ}
		required = append(required, name)
	}

	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}
