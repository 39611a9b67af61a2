package event

import (
	"context"
	"fmt"
	"sync"
)

// Handler reacts to a UserManipulated event.
type Handler interface {
	Handle(ctx context.Context, evt UserManipulated) error
	Name() string
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, evt UserManipulated) error

func (f HandlerFunc) Handle(ctx context.Context, evt UserManipulated) error {
	return f(ctx, evt)
}

func (f HandlerFunc) Name() string {
	return "func"
}

// Publisher is what mutating use cases depend on.
type Publisher interface {
	Publish(ctx context.Context, evt UserManipulated) error
}

// Bus dispatches events synchronously to its handlers, in the order they were
// subscribed, on the publishing goroutine. Dispatch stops at the first handler
// error, which is returned to the publisher.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

func (b *Bus) Publish(ctx context.Context, evt UserManipulated) error {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h.Handle(ctx, evt); err != nil {
			return fmt.Errorf("handle %s event in %s: %w", evt.Action, h.Name(), err)
		}
	}
	return nil
}
