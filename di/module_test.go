package di_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaygraph/godi/di"
)

type pluginService struct{ label string }

func TestDynamicModuleGatesFactoryUntilLoaded(t *testing.T) {
	loaded := make(chan struct{})
	module := di.NewDynamicModule("plugin",
		func(ctx context.Context) (any, error) {
			<-loaded
			return "plugin-config", nil
		},
		func(b di.Binder) error {
			b.BindFactory(di.TypeOf[*pluginService](), func(r di.Resolver, _ []string) (any, error) {
				return &pluginService{label: "ready"}, nil
			})
			return nil
		},
	)

	b := di.NewBuilder()
	b.Include(module)
	c, err := b.Build()
	require.NoError(t, err)

	_, err = c.Get(di.TypeOf[*pluginService]())
	var notLoaded di.ErrDynamicModuleNotLoaded
	require.ErrorAs(t, err, &notLoaded)

	future := module.LoadAsync(context.Background())
	close(loaded)
	_, err = future.Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, module.IsLoaded())

	svc, err := c.Get(di.TypeOf[*pluginService]())
	require.NoError(t, err)
	assert.Equal(t, "ready", svc.(*pluginService).label)
}

func TestDynamicModuleLoadAsyncIsIdempotent(t *testing.T) {
	calls := 0
	module := di.NewDynamicModule("plugin2",
		func(ctx context.Context) (any, error) {
			calls++
			return nil, nil
		},
		func(b di.Binder) error { return nil },
	)

	f1 := module.LoadAsync(context.Background())
	f2 := module.LoadAsync(context.Background())
	_, _ = f1.Wait(context.Background())
	_, _ = f2.Wait(context.Background())
	assert.Equal(t, 1, calls, "expected a second LoadAsync call to return the same in-flight Future")
}

func TestFutureWaitRespectsContextCancellation(t *testing.T) {
	block := make(chan struct{})
	f := di.NewFuture(context.Background(), func(ctx context.Context) (any, error) {
		<-block
		return nil, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	close(block)
}
