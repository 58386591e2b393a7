package notebooklm_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	notebooklm "github.com/wagiedev/notebooklm-sdk-go"
	"github.com/wagiedev/notebooklm-sdk-go/internal/servertest"
)

// fakeNotebookLM serves a small slice of the notebooklm-mcp tool surface.
func fakeNotebookLM() *servertest.Launcher {
	launcher := servertest.NewLauncher()

	launcher.Handle("notebook_list", func(context.Context, map[string]any) *mcp.CallToolResult {
		return servertest.JSONResult(map[string]any{
			"status":    "success",
			"notebooks": []any{map[string]any{"id": "nb1", "title": "Research"}},
		})
	})
	launcher.Handle("notebook_get", func(_ context.Context, args map[string]any) *mcp.CallToolResult {
		if args["notebook_id"] != "nb1" {
			return servertest.JSONResult(map[string]any{"status": "error", "error": "Notebook not found"})
		}

		return servertest.JSONResult(map[string]any{"id": "nb1", "title": "Research"})
	})
	launcher.Handle("notebook_query", func(context.Context, map[string]any) *mcp.CallToolResult {
		return servertest.JSONResult(map[string]any{
			"status": "error",
			"error":  "Authentication expired. Run notebooklm-mcp-auth.",
		})
	})
	launcher.Handle("notebook_delete", func(context.Context, map[string]any) *mcp.CallToolResult {
		return servertest.JSONResult(map[string]any{})
	})
	launcher.Handle("refresh_auth", func(context.Context, map[string]any) *mcp.CallToolResult {
		return servertest.JSONResult(map[string]any{"status": "success"})
	})
	launcher.Handle("save_auth_tokens", func(_ context.Context, args map[string]any) *mcp.CallToolResult {
		return servertest.JSONResult(map[string]any{"status": "success", "saved": args["cookies"]})
	})

	return launcher
}

func newAsync(t *testing.T, launcher notebooklm.Launcher, opts ...notebooklm.Option) notebooklm.AsyncClient {
	t.Helper()

	opts = append([]notebooklm.Option{
		notebooklm.WithLauncher(launcher),
		notebooklm.WithInitializeTimeout(5 * time.Second),
	}, opts...)

	client := notebooklm.NewAsyncClient(opts...)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	return client
}

func newSync(t *testing.T, launcher notebooklm.Launcher, opts ...notebooklm.Option) notebooklm.Client {
	t.Helper()

	opts = append([]notebooklm.Option{
		notebooklm.WithLauncher(launcher),
		notebooklm.WithInitializeTimeout(5 * time.Second),
	}, opts...)

	client := notebooklm.New(opts...)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestAsyncClient_Invoke(t *testing.T) {
	launcher := fakeNotebookLM()
	client := newAsync(t, launcher)

	require.Equal(t, notebooklm.StateDisconnected, client.State())

	result, err := client.Invoke(context.Background(), "notebook_list", nil)
	require.NoError(t, err)
	require.Equal(t, "success", result["status"])
	require.Equal(t, notebooklm.StateReady, client.State())

	_, err = client.Invoke(context.Background(), "notebook_get", notebooklm.Result{"notebook_id": "nb9"})
	require.ErrorIs(t, err, notebooklm.ErrNotFound)
	require.Equal(t, "[notebook_get] Notebook not found", err.Error())

	_, err = client.Invoke(context.Background(), "notebook_query", notebooklm.Result{"query": "hi"})
	require.ErrorIs(t, err, notebooklm.ErrAuthentication)

	_, err = client.Invoke(context.Background(), "notebook_delete", notebooklm.Result{"notebook_id": "nb1"})
	require.ErrorIs(t, err, notebooklm.ErrNoConfirmation)

	sdkErr, ok := errors.AsType[*notebooklm.Error](err)
	require.True(t, ok)
	require.Equal(t, notebooklm.KindOperation, sdkErr.Kind)

	require.Equal(t, 1, launcher.Launches())
}

func TestAsyncClient_ReconnectsAfterBrokenPipe(t *testing.T) {
	launcher := fakeNotebookLM()
	client := newAsync(t, launcher)

	require.NoError(t, client.Connect(context.Background()))

	launcher.Last().BreakPipe()

	_, err := client.Invoke(context.Background(), "notebook_list", nil)
	require.ErrorIs(t, err, notebooklm.ErrTransport)
	require.Equal(t, notebooklm.StateFailing, client.State())

	_, err = client.Invoke(context.Background(), "notebook_list", nil)
	require.NoError(t, err)
	require.Equal(t, 2, launcher.Launches())
}

func TestAsyncClient_StartupFailure(t *testing.T) {
	client := notebooklm.NewAsyncClient(
		notebooklm.WithExecutablePath("/nonexistent/notebooklm-mcp"),
	)

	err := client.Connect(context.Background())
	require.ErrorIs(t, err, notebooklm.ErrStartup)

	notFound, ok := errors.AsType[*notebooklm.ExecutableNotFoundError](err)
	require.True(t, ok)
	require.Contains(t, notFound.SearchedPaths, "/nonexistent/notebooklm-mcp")
	require.Equal(t, notebooklm.StateDisconnected, client.State())
}

func TestAsyncClient_AuthHelpers(t *testing.T) {
	client := newAsync(t, fakeNotebookLM(), notebooklm.WithProfile("work"))

	require.Equal(t, "work", client.Profile())

	_, err := client.RefreshAuth(context.Background())
	require.NoError(t, err)

	result, err := client.SaveAuthTokens(context.Background(), &notebooklm.AuthTokens{Cookies: "SID=abc"})
	require.NoError(t, err)
	require.Equal(t, "SID=abc", result["saved"])
}

func TestAsyncClient_ServerInfo(t *testing.T) {
	client := newAsync(t, fakeNotebookLM())

	require.Nil(t, client.ServerInfo())

	_, err := client.Invoke(context.Background(), "notebook_list", nil)
	require.NoError(t, err)

	info := client.ServerInfo()
	require.NotNil(t, info)
	require.Equal(t, "notebooklm-mcp", info.Name)
	require.NotEmpty(t, info.ProtocolVersion)
	require.NotEmpty(t, info.SessionID)
	require.Equal(t, uint64(1), info.Requests)

	require.NoError(t, client.Disconnect(context.Background()))
	require.Nil(t, client.ServerInfo())
}

func TestAsyncClient_Operations(t *testing.T) {
	client := newAsync(t, fakeNotebookLM())

	ops, err := client.Operations(context.Background())
	require.NoError(t, err)
	require.Contains(t, ops, "notebook_list")
	require.Contains(t, ops, "save_auth_tokens")
	require.IsIncreasing(t, ops)
}

// Sync and async clients over identical servers return identical outcomes.
func TestClient_MatchesAsyncClient(t *testing.T) {
	async := newAsync(t, fakeNotebookLM())
	sync := newSync(t, fakeNotebookLM())

	calls := []struct {
		name string
		args notebooklm.Result
	}{
		{"notebook_list", nil},
		{"notebook_get", notebooklm.Result{"notebook_id": "nb1"}},
		{"notebook_get", notebooklm.Result{"notebook_id": "missing"}},
		{"notebook_query", notebooklm.Result{"query": "hi"}},
		{"notebook_delete", notebooklm.Result{"notebook_id": "nb1"}},
	}

	for _, call := range calls {
		t.Run(fmt.Sprintf("%s %v", call.name, call.args), func(t *testing.T) {
			asyncResult, asyncErr := async.Invoke(context.Background(), call.name, call.args)
			syncResult, syncErr := sync.Invoke(call.name, call.args)

			require.Equal(t, asyncResult, syncResult)

			if asyncErr == nil {
				require.NoError(t, syncErr)

				return
			}

			asyncSDKErr, ok := errors.AsType[*notebooklm.Error](asyncErr)
			require.True(t, ok)

			syncSDKErr, ok := errors.AsType[*notebooklm.Error](syncErr)
			require.True(t, ok)

			require.Equal(t, asyncSDKErr.Kind, syncSDKErr.Kind)
			require.Equal(t, asyncSDKErr.Error(), syncSDKErr.Error())
		})
	}
}

func TestClient_ConcurrentCallers(t *testing.T) {
	launcher := fakeNotebookLM()
	client := newSync(t, launcher)

	var g errgroup.Group
	for range 16 {
		g.Go(func() error {
			_, err := client.Invoke("notebook_list", nil)

			return err
		})
	}

	require.NoError(t, g.Wait())
	require.Equal(t, 1, launcher.Launches())
}

func TestClient_Close(t *testing.T) {
	launcher := fakeNotebookLM()
	client := notebooklm.New(notebooklm.WithLauncher(launcher))

	require.NoError(t, client.Connect())
	require.NoError(t, client.Close())
	require.NoError(t, client.Close(), "close is idempotent")
	require.True(t, launcher.Last().Terminated())
	require.Equal(t, notebooklm.StateDisconnected, client.State())

	require.ErrorIs(t, client.Connect(), notebooklm.ErrClientClosed)

	_, err := client.Invoke("notebook_list", nil)
	require.ErrorIs(t, err, notebooklm.ErrClientClosed)

	_, err = client.Operations()
	require.ErrorIs(t, err, notebooklm.ErrClientClosed)

	_, err = client.RefreshAuth()
	require.ErrorIs(t, err, notebooklm.ErrClientClosed)

	_, err = client.SaveAuthTokens(&notebooklm.AuthTokens{Cookies: "SID=abc"})
	require.ErrorIs(t, err, notebooklm.ErrClientClosed)

	require.Equal(t, 1, launcher.Launches(), "a closed client never starts a server")
}

func TestClient_CloseWithoutConnect(t *testing.T) {
	launcher := fakeNotebookLM()
	client := notebooklm.New(notebooklm.WithLauncher(launcher))

	require.NoError(t, client.Close())
	require.Zero(t, launcher.Launches())
}

// Closing one client does not disturb a call in flight on another.
func TestClient_InstancesAreIsolated(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	launcherA := fakeNotebookLM()
	launcherA.Handle("research_status", func(context.Context, map[string]any) *mcp.CallToolResult {
		close(entered)
		<-release

		return servertest.JSONResult(map[string]any{"status": "completed"})
	})

	launcherB := fakeNotebookLM()

	clientA := newSync(t, launcherA)
	clientB := notebooklm.New(notebooklm.WithLauncher(launcherB))

	require.NoError(t, clientB.Connect())

	type outcome struct {
		result notebooklm.Result
		err    error
	}

	done := make(chan outcome, 1)

	go func() {
		result, err := clientA.Invoke("research_status", nil)
		done <- outcome{result, err}
	}()

	<-entered
	require.NoError(t, clientB.Close())
	require.True(t, launcherB.Last().Terminated())
	require.False(t, launcherA.Last().Terminated())

	close(release)

	got := <-done
	require.NoError(t, got.err)
	require.Equal(t, "completed", got.result["status"])
	assert.Equal(t, notebooklm.StateReady, clientA.State())
}

func TestClient_Profile(t *testing.T) {
	client := newSync(t, fakeNotebookLM(), notebooklm.WithProfile("personal"))

	require.Equal(t, "personal", client.Profile())
}
