// Package notebooklm provides a Go client for NotebookLM through the
// notebooklm-mcp server.
//
// The client starts notebooklm-mcp as a subprocess, speaks MCP to it over
// stdio, and exposes every server tool as a remote operation: a name plus
// an argument mapping in, a result mapping out. Typed per-operation
// wrappers are left to callers; Operations lists what the server offers.
//
// # Basic Usage
//
// AsyncClient is safe for concurrent use and takes a context on every
// blocking call:
//
//	ctx := context.Background()
//	client := notebooklm.NewAsyncClient(notebooklm.WithProfile("work"))
//	defer client.Disconnect(ctx)
//
//	result, err := client.Invoke(ctx, "notebook_query", notebooklm.Result{
//	    "notebook_id": "abc123",
//	    "query":       "Summarize the sources",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result["answer"])
//
// Client is the blocking variant, backed by a goroutine it owns:
//
//	err := notebooklm.WithClient(func(c notebooklm.Client) error {
//	    result, err := c.Invoke("notebook_list", nil)
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(result["notebooks"])
//	    return nil
//	})
//
// # Sessions
//
// The server is started by the first call, not by the constructor. When the
// stream to it breaks or the process exits, the failing call returns a
// KindTransport error and the next call starts a fresh server. Nothing is
// retried automatically.
//
// # Configuration
//
// Options are given as functional options. LoadOptions reads the same
// settings from a TOML file and NOTEBOOKLM_* environment variables:
//
//	opt, err := notebooklm.LoadOptions("~/.config/notebooklm/sdk.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := notebooklm.New(opt, notebooklm.WithLogger(logger))
//
// # Logging
//
// For detailed operation tracking, use WithLogger:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	client := notebooklm.NewAsyncClient(notebooklm.WithLogger(logger))
//
// # Error Handling
//
// Operation failures are *Error values. Test their kind with errors.Is
// against the kind sentinels, or inspect them with errors.AsType:
//
//	_, err := client.Invoke(ctx, "notebook_get", notebooklm.Result{"notebook_id": id})
//	switch {
//	case errors.Is(err, notebooklm.ErrNotFound):
//	    // ...
//	case errors.Is(err, notebooklm.ErrRateLimit):
//	    e, _ := errors.AsType[*notebooklm.Error](err)
//	    time.Sleep(e.RetryAfter)
//	case errors.Is(err, notebooklm.ErrStartup):
//	    if nf, ok := errors.AsType[*notebooklm.ExecutableNotFoundError](err); ok {
//	        log.Fatalf("notebooklm-mcp not installed, searched: %v", nf.SearchedPaths)
//	    }
//	}
//
// # Requirements
//
// This SDK requires notebooklm-mcp to be installed and authenticated
// (notebooklm-mcp-auth). It is looked up in PATH and common install
// locations; use WithExecutablePath to point at a specific binary.
package notebooklm
