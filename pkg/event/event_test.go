package event_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/kashvi-shop/pkg/event"
)

func TestFire(t *testing.T) {
	bus := event.NewBus()
	var got []interface{}
	bus.Listen("order.created", func(_ context.Context, p interface{}) { got = append(got, p) })
	bus.Listen("order.created", func(context.Context, interface{}) { panic("boom") })
	bus.Listen("order.created", func(_ context.Context, p interface{}) { got = append(got, p) })

	bus.Fire(context.Background(), "order.created", 7)
	bus.Fire(context.Background(), "other", 8)

	assert.Equal(t, []interface{}{7, 7}, got)
}

func TestFireAsync(t *testing.T) {
	bus := event.NewBus()
	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		bus.Listen("tick", func(context.Context, interface{}) { wg.Done() })
	}

	ctx, cancel := context.WithCancel(context.Background())
	bus.FireAsync(ctx, "tick", nil)
	cancel()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listeners were not called")
	}
}

func TestNilBus(t *testing.T) {
	var bus *event.Bus
	assert.NotPanics(t, func() { bus.Fire(context.Background(), "x", nil) })
}
