// Package event provides a small in-process event dispatcher.
package event

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload interface{})

// Bus routes named events to their listeners.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (b *Bus) Listen(event string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], handler)
}

func (b *Bus) listeners(event string) []Handler {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	hs := make([]Handler, len(b.handlers[event]))
	copy(hs, b.handlers[event])
	return hs
}

// Fire dispatches an event synchronously to all registered listeners.
// A panicking listener is logged and does not stop the others.
func (b *Bus) Fire(ctx context.Context, event string, payload interface{}) {
	for _, h := range b.listeners(event) {
		call(ctx, event, h, payload)
	}
}

// FireAsync dispatches the event to all listeners concurrently and returns
// immediately. Listeners get a context that outlives the request.
func (b *Bus) FireAsync(ctx context.Context, event string, payload interface{}) {
	ctx = context.WithoutCancel(ctx)
	for _, h := range b.listeners(event) {
		go call(ctx, event, h, payload)
	}
}

func call(ctx context.Context, event string, h Handler, payload interface{}) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.WithCtx(ctx).Error("event: listener panicked", "event", event, "panic", rec)
		}
	}()
	h(ctx, payload)
}
