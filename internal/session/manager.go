package session

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/singleflight"

	"github.com/wagiedev/notebooklm-sdk-go/internal/config"
	"github.com/wagiedev/notebooklm-sdk-go/internal/errors"
)

// ErrDisconnectedDuringConnect is wrapped in the ConnectionError returned to
// callers whose connect attempt was overtaken by Disconnect.
var ErrDisconnectedDuringConnect = stderrors.New("disconnected while connecting")

const connectKey = "connect"

// Config configures a Manager.
type Config struct {
	// Logger receives lifecycle logs. Required.
	Logger *slog.Logger
	// Launcher starts the server process. Required.
	Launcher config.Launcher
	// Spec is the launch description passed to every Launch.
	Spec *config.LaunchSpec
	// ClientInfo identifies this client in the handshake.
	ClientInfo *mcp.Implementation
	// InitializeTimeout bounds launch plus handshake.
	InitializeTimeout time.Duration
}

// Manager owns at most one live Session and (re)establishes it on demand.
// All methods are safe for concurrent use.
type Manager struct {
	log *slog.Logger
	cfg Config

	flight singleflight.Group

	mu         sync.Mutex
	state      State
	current    *Session
	generation uint64
}

// NewManager creates a disconnected manager.
func NewManager(cfg Config) *Manager {
	if cfg.InitializeTimeout <= 0 {
		cfg.InitializeTimeout = config.DefaultInitializeTimeout
	}

	if cfg.ClientInfo == nil {
		cfg.ClientInfo = &mcp.Implementation{Name: "notebooklm-sdk-go"}
	}

	return &Manager{
		log: cfg.Logger.With("component", "session"),
		cfg: cfg,
	}
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateReady && m.current != nil && m.current.Broken() {
		return StateFailing
	}

	return m.state
}

// Current returns the live session, or nil.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.current
}

// EnsureConnected returns the ready session, connecting first if needed.
//
// Concurrent callers share a single connect attempt. A caller whose ctx
// ends stops waiting without cancelling the shared attempt; the attempt
// itself is bounded by InitializeTimeout.
//
// Launch failures are returned as *errors.ExecutableNotFoundError or
// *errors.ProcessStartError; handshake failures as *errors.ConnectionError.
func (m *Manager) EnsureConnected(ctx context.Context) (*Session, error) {
	if sess := m.ready(); sess != nil {
		return sess, nil
	}

	ch := m.flight.DoChan(connectKey, func() (any, error) {
		return m.connect(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		return res.Val.(*Session), nil
	case <-ctx.Done():
		return nil, &errors.ConnectionError{Err: ctx.Err()}
	}
}

// MarkFailing records that sess suffered a transport failure. The next
// EnsureConnected replaces it.
func (m *Manager) MarkFailing(sess *Session, cause error) {
	sess.markBroken(cause)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == sess && m.state == StateReady {
		m.state = StateFailing
	}
}

// Disconnect closes the live session, if any, and terminates its process.
// Safe to call from any state and multiple times. A connect that is in
// flight is discarded when it completes.
//
// If ctx ends first, Disconnect returns ctx.Err() while shutdown finishes
// in the background.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	m.generation++
	sess := m.current
	m.current = nil
	m.state = StateDisconnected
	m.mu.Unlock()

	// Callers arriving after this point start a fresh attempt instead of
	// joining the one being discarded.
	m.flight.Forget(connectKey)

	if sess == nil {
		return nil
	}

	m.log.Info("Disconnecting", "session_id", sess.ID())

	done := make(chan struct{})

	go func() {
		defer close(done)

		sess.close()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) ready() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil && !m.current.Broken() {
		return m.current
	}

	return nil
}

func (m *Manager) connect(ctx context.Context) (*Session, error) {
	m.mu.Lock()

	if m.current != nil && !m.current.Broken() {
		sess := m.current
		m.mu.Unlock()

		return sess, nil
	}

	stale := m.current
	m.current = nil
	m.state = StateConnecting
	gen := m.generation
	m.mu.Unlock()

	if stale != nil {
		m.log.Info("Replacing broken session", "session_id", stale.ID(), "cause", stale.Cause())
		stale.close()
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.InitializeTimeout)
	defer cancel()

	sess, err := m.open(ctx)

	m.mu.Lock()

	if err != nil {
		if m.generation == gen {
			m.state = StateDisconnected
		}

		m.mu.Unlock()

		m.log.Warn("Connect failed", "error", err)

		return nil, err
	}

	if m.generation != gen {
		m.mu.Unlock()

		m.log.Info("Discarding session opened during disconnect", "session_id", sess.ID())
		sess.close()

		return nil, &errors.ConnectionError{Err: ErrDisconnectedDuringConnect}
	}

	if live := m.current; live != nil && !live.Broken() {
		m.mu.Unlock()

		sess.close()

		return live, nil
	}

	m.current = sess
	m.state = StateReady
	m.mu.Unlock()

	return sess, nil
}

type connectResult struct {
	cs  *mcp.ClientSession
	err error
}

// open launches a process and performs the MCP handshake within ctx.
func (m *Manager) open(ctx context.Context) (*Session, error) {
	proc, err := m.cfg.Launcher.Launch(ctx, m.cfg.Spec)
	if err != nil {
		return nil, launchError(m.cfg.Spec, err)
	}

	sess := &Session{
		id:      ulid.Make().String(),
		process: proc,
	}
	sess.log = m.log.With("session_id", sess.id)

	transport := &trackedTransport{inner: proc.Transport(), onFailure: sess.markBroken}
	client := mcp.NewClient(m.cfg.ClientInfo, nil)

	// The handshake runs detached so that a timeout is enforced by tearing
	// down the process, which unblocks it regardless of where it is stuck.
	results := make(chan connectResult, 1)

	go func() {
		cs, err := client.Connect(context.WithoutCancel(ctx), transport, nil)
		results <- connectResult{cs: cs, err: err}
	}()

	var res connectResult

	select {
	case res = <-results:
	case <-ctx.Done():
		_ = proc.Terminate()

		if late := <-results; late.cs != nil {
			_ = late.cs.Close()
		}

		return nil, &errors.ConnectionError{Err: ctx.Err()}
	}

	if res.err != nil {
		_ = proc.Terminate()

		return nil, &errors.ConnectionError{Err: res.err}
	}

	sess.cs = res.cs
	go sess.watch()

	info := res.cs.InitializeResult()
	if info != nil && info.ServerInfo != nil {
		sess.log.Info("Session ready",
			"pid", proc.Pid(),
			"server", info.ServerInfo.Name,
			"server_version", info.ServerInfo.Version,
			"protocol_version", info.ProtocolVersion,
		)
	} else {
		sess.log.Info("Session ready", "pid", proc.Pid())
	}

	return sess, nil
}

// launchError normalizes launcher failures to the startup error types.
func launchError(spec *config.LaunchSpec, err error) error {
	if _, ok := stderrors.AsType[*errors.ExecutableNotFoundError](err); ok {
		return err
	}

	if _, ok := stderrors.AsType[*errors.ProcessStartError](err); ok {
		return err
	}

	path := ""
	if spec != nil {
		path = spec.Executable
	}

	return &errors.ProcessStartError{Path: path, Err: err}
}
