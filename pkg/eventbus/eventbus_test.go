package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type pingEvent struct{}

func (pingEvent) Name() string { return "ping" }

func TestBus_PublishReachesEveryListener(t *testing.T) {
	bus := New(zap.NewNop())
	var calls int32

	bus.Subscribe("ping", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	bus.Subscribe("ping", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("falla")
	})
	bus.Subscribe("pong", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 100)
		return nil
	})

	bus.Publish(context.Background(), pingEvent{})
	bus.Wait()

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestBus_ListenerSurvivesCanceledRequest(t *testing.T) {
	bus := New(zap.NewNop())
	var ctxErr atomic.Value

	bus.Subscribe("ping", func(ctx context.Context, e Event) error {
		ctxErr.Store(ctx.Err() == nil)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, pingEvent{})
	bus.Wait()

	assert.Equal(t, true, ctxErr.Load())
}

func TestBus_PanicIsContained(t *testing.T) {
	bus := New(zap.NewNop())
	bus.Subscribe("ping", func(ctx context.Context, e Event) error {
		panic("boom")
	})

	bus.Publish(context.Background(), pingEvent{})
	bus.Wait()
}
