package client

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wagiedev/notebooklm-sdk-go/internal/config"
	"github.com/wagiedev/notebooklm-sdk-go/internal/errors"
	"github.com/wagiedev/notebooklm-sdk-go/internal/servertest"
	"github.com/wagiedev/notebooklm-sdk-go/internal/session"
)

func newTestClient(t *testing.T, launcher *servertest.Launcher, opts ...func(*config.Options)) *Client {
	t.Helper()

	options := &config.Options{
		Logger:            slog.New(slog.DiscardHandler),
		Launcher:          launcher,
		InitializeTimeout: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(options)
	}

	c := New(options)
	t.Cleanup(func() { _ = c.Disconnect(context.Background()) })

	return c
}

// authLauncher records the arguments of every credential operation.
func authLauncher(received chan<- map[string]any) *servertest.Launcher {
	launcher := servertest.NewLauncher()

	launcher.Handle("refresh_auth", func(_ context.Context, args map[string]any) *mcp.CallToolResult {
		received <- args

		return servertest.JSONResult(map[string]any{"status": "success", "message": "Auth tokens reloaded"})
	})
	launcher.Handle("save_auth_tokens", func(_ context.Context, args map[string]any) *mcp.CallToolResult {
		received <- args

		return servertest.JSONResult(map[string]any{"status": "success"})
	})

	return launcher
}

func TestClient_LazyConnect(t *testing.T) {
	launcher := servertest.NewLauncher()
	launcher.Handle("notebook_list", func(context.Context, map[string]any) *mcp.CallToolResult {
		return servertest.JSONResult(map[string]any{"notebooks": []any{map[string]any{"id": "nb1"}}})
	})

	c := newTestClient(t, launcher)
	require.Equal(t, session.StateDisconnected, c.State())
	require.Zero(t, launcher.Launches())

	result, err := c.Invoke(context.Background(), "notebook_list", nil)
	require.NoError(t, err)
	require.Len(t, result["notebooks"], 1)
	require.Equal(t, session.StateReady, c.State())
	require.Equal(t, 1, launcher.Launches())
}

func TestClient_ConnectDisconnectReconnect(t *testing.T) {
	launcher := servertest.NewLauncher()
	c := newTestClient(t, launcher)

	require.NoError(t, c.Connect(context.Background()))
	require.NoError(t, c.Connect(context.Background()))
	require.Equal(t, 1, launcher.Launches())

	require.NoError(t, c.Disconnect(context.Background()))
	require.Equal(t, session.StateDisconnected, c.State())
	require.True(t, launcher.Last().Terminated())

	require.NoError(t, c.Connect(context.Background()))
	require.Equal(t, 2, launcher.Launches())
}

func TestClient_RefreshAuth(t *testing.T) {
	received := make(chan map[string]any, 1)
	c := newTestClient(t, authLauncher(received))

	result, err := c.RefreshAuth(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Auth tokens reloaded", result["message"])
	require.Empty(t, <-received)
}

func TestClient_SaveAuthTokens(t *testing.T) {
	received := make(chan map[string]any, 2)
	c := newTestClient(t, authLauncher(received))

	_, err := c.SaveAuthTokens(context.Background(), &AuthTokens{Cookies: "SID=abc; HSID=def"})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"cookies": "SID=abc; HSID=def"}, <-received)

	_, err = c.SaveAuthTokens(context.Background(), &AuthTokens{
		Cookies:    "SID=abc",
		CSRFToken:  "csrf",
		SessionID:  "1234",
		RequestURL: "https://notebooklm.google.com/_/LabsTailwindUi/data/batchexecute",
	})
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"cookies":     "SID=abc",
		"csrf_token":  "csrf",
		"session_id":  "1234",
		"request_url": "https://notebooklm.google.com/_/LabsTailwindUi/data/batchexecute",
	}, <-received)
}

func TestClient_Go(t *testing.T) {
	launcher := servertest.NewLauncher()
	launcher.Handle("notebook_create", func(_ context.Context, args map[string]any) *mcp.CallToolResult {
		return servertest.JSONResult(map[string]any{"notebook_id": "nb1", "title": args["title"]})
	})
	launcher.Handle("notebook_delete", func(context.Context, map[string]any) *mcp.CallToolResult {
		return servertest.JSONResult(nil)
	})

	c := newTestClient(t, launcher)

	done := make(chan *Call, 2)
	first := c.Go(context.Background(), "notebook_create", map[string]any{"title": "Research"}, done)
	second := c.Go(context.Background(), "notebook_delete", map[string]any{"notebook_id": "nb1"}, done)

	completed := map[*Call]bool{}
	for range 2 {
		select {
		case call := <-done:
			completed[call] = true
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for calls")
		}
	}

	require.True(t, completed[first])
	require.True(t, completed[second])

	require.NoError(t, first.Error)
	require.Equal(t, "Research", first.Result["title"])
	require.Equal(t, "notebook_create", first.Operation)

	require.ErrorIs(t, second.Error, errors.ErrNoConfirmation)
	require.Nil(t, second.Result)

	// All calls shared one session.
	require.Equal(t, 1, launcher.Launches())
}

func TestClient_GoAllocatesDoneChannel(t *testing.T) {
	launcher := servertest.NewLauncher()
	launcher.Handle("echo", func(_ context.Context, args map[string]any) *mcp.CallToolResult {
		return servertest.JSONResult(args)
	})

	c := newTestClient(t, launcher)

	call := <-c.Go(context.Background(), "echo", map[string]any{"n": 1}, nil).Done
	require.NoError(t, call.Error)
	assert.InDelta(t, 1, call.Result["n"], 0)
}

// logBuffer is an io.Writer safe for concurrent loggers.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestClient_GoFullDoneChannelLogsDiscard(t *testing.T) {
	launcher := servertest.NewLauncher()
	launcher.Handle("echo", func(_ context.Context, args map[string]any) *mcp.CallToolResult {
		return servertest.JSONResult(args)
	})

	logs := &logBuffer{}
	c := newTestClient(t, launcher, func(o *config.Options) {
		o.Logger = slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelWarn}))
	})

	done := make(chan *Call, 1)
	done <- &Call{Operation: "placeholder"}

	call := c.Go(context.Background(), "echo", map[string]any{"n": 1}, done)

	require.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "Discarding Call reply")
	}, 5*time.Second, 5*time.Millisecond)

	require.Contains(t, logs.String(), "operation=echo")
	require.Equal(t, "placeholder", (<-done).Operation, "the queued call is untouched")
	require.NoError(t, call.Error)
}

func TestClient_GoUnbufferedDonePanics(t *testing.T) {
	c := newTestClient(t, servertest.NewLauncher())

	require.Panics(t, func() {
		c.Go(context.Background(), "echo", nil, make(chan *Call))
	})
}

func TestClient_Profile(t *testing.T) {
	c := newTestClient(t, servertest.NewLauncher(), func(o *config.Options) {
		o.Profile = "work"
	})

	require.Equal(t, "work", c.Profile())
}

func TestClient_OptionsAreCopied(t *testing.T) {
	options := &config.Options{
		Launcher: servertest.NewLauncher(),
		Profile:  "work",
		Env:      map[string]string{"A": "1"},
	}

	c := New(options)
	options.Profile = "personal"
	options.Env["A"] = "2"

	require.Equal(t, "work", c.Profile())
	require.Equal(t, "1", c.options.Env["A"])
}

func TestAuthTokens_OmitsEmptyOptionalFields(t *testing.T) {
	tokens := &AuthTokens{Cookies: "SID=abc", SessionID: "42"}

	require.Equal(t, map[string]any{"cookies": "SID=abc", "session_id": "42"}, tokens.args())
}
