package notebooklm

import (
	"context"
)

// WithClient manages client lifecycle with automatic cleanup.
//
// This helper creates a Client, connects it, executes the callback, and
// ensures the server is shut down via Close() when done.
//
// If the callback returns an error, it is returned to the caller.
// If Close() fails, a warning is logged but does not override the callback's error.
//
// Example usage:
//
//	err := notebooklm.WithClient(func(c notebooklm.Client) error {
//	    result, err := c.Invoke("notebook_list", nil)
//	    if err != nil {
//	        return err
//	    }
//	    // process result...
//	    return nil
//	},
//	    notebooklm.WithLogger(log),
//	    notebooklm.WithProfile("work"),
//	)
func WithClient(fn func(Client) error, opts ...Option) error {
	options := applyOptions(opts)

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	client := newClientImpl(options)

	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			log.Warn("failed to close client", "error", closeErr)
		}
	}()

	if err := client.Connect(); err != nil {
		return err
	}

	return fn(client)
}

// WithAsyncClient is WithClient for AsyncClient. The server is connected
// with ctx before fn runs and disconnected when fn returns, even if ctx has
// been cancelled by then.
func WithAsyncClient(ctx context.Context, fn func(AsyncClient) error, opts ...Option) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	options := applyOptions(opts)

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	client := newAsyncClientImpl(options)

	defer func() {
		if err := client.Disconnect(context.WithoutCancel(ctx)); err != nil {
			log.Warn("failed to disconnect client", "error", err)
		}
	}()

	if err := client.Connect(ctx); err != nil {
		return err
	}

	return fn(client)
}
