package notebooklm

import (
	"context"

	"github.com/wagiedev/notebooklm-sdk-go/internal/bridge"
	"github.com/wagiedev/notebooklm-sdk-go/internal/client"
)

// asyncClientWrapper adapts the internal client to the public interface.
type asyncClientWrapper struct {
	impl *client.Client
}

// Compile-time check that *asyncClientWrapper implements the AsyncClient interface.
var _ AsyncClient = (*asyncClientWrapper)(nil)

func newAsyncClientImpl(options *Options) *asyncClientWrapper {
	return &asyncClientWrapper{impl: client.New(options)}
}

func (c *asyncClientWrapper) Connect(ctx context.Context) error {
	return c.impl.Connect(ctx)
}

func (c *asyncClientWrapper) Invoke(ctx context.Context, name string, args map[string]any) (Result, error) {
	return c.impl.Invoke(ctx, name, args)
}

func (c *asyncClientWrapper) Go(ctx context.Context, name string, args map[string]any, done chan *Call) *Call {
	return c.impl.Go(ctx, name, args, done)
}

func (c *asyncClientWrapper) Operations(ctx context.Context) ([]string, error) {
	return c.impl.Operations(ctx)
}

func (c *asyncClientWrapper) RefreshAuth(ctx context.Context) (Result, error) {
	return c.impl.RefreshAuth(ctx)
}

func (c *asyncClientWrapper) SaveAuthTokens(ctx context.Context, tokens *AuthTokens) (Result, error) {
	return c.impl.SaveAuthTokens(ctx, tokens)
}

func (c *asyncClientWrapper) Disconnect(ctx context.Context) error {
	return c.impl.Disconnect(ctx)
}

func (c *asyncClientWrapper) State() State {
	return c.impl.State()
}

func (c *asyncClientWrapper) ServerInfo() *ServerInfo {
	return c.impl.ServerInfo()
}

func (c *asyncClientWrapper) Profile() string {
	return c.impl.Profile()
}

// syncClient runs every call of an internal client on its own bridge loop.
type syncClient struct {
	async *client.Client
	loop  *bridge.Loop
}

// Compile-time check that *syncClient implements the Client interface.
var _ Client = (*syncClient)(nil)

func newClientImpl(options *Options) *syncClient {
	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	return &syncClient{
		async: client.New(options),
		loop:  bridge.New(log),
	}
}

func (c *syncClient) Connect() error {
	_, err := bridge.Run(c.loop, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.async.Connect(ctx)
	})

	return err
}

func (c *syncClient) Invoke(name string, args map[string]any) (Result, error) {
	return bridge.Run(c.loop, func(ctx context.Context) (Result, error) {
		return c.async.Invoke(ctx, name, args)
	})
}

func (c *syncClient) Operations() ([]string, error) {
	return bridge.Run(c.loop, c.async.Operations)
}

func (c *syncClient) RefreshAuth() (Result, error) {
	return bridge.Run(c.loop, c.async.RefreshAuth)
}

func (c *syncClient) SaveAuthTokens(tokens *AuthTokens) (Result, error) {
	return bridge.Run(c.loop, func(ctx context.Context) (Result, error) {
		return c.async.SaveAuthTokens(ctx, tokens)
	})
}

func (c *syncClient) State() State {
	return c.async.State()
}

func (c *syncClient) ServerInfo() *ServerInfo {
	return c.async.ServerInfo()
}

func (c *syncClient) Profile() string {
	return c.async.Profile()
}

func (c *syncClient) Close() error {
	return c.loop.Close(c.async.Disconnect)
}
