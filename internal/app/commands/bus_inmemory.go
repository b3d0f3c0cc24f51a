package commands

import (
	"context"
	"fmt"
)

type rawHandler func(ctx context.Context, cmd Command) (any, error)

// InMemoryBus routes commands through a key-indexed registry. Registration
// happens once at startup; dispatch is read-only after that, so no locking.
type InMemoryBus struct {
	registry map[string]rawHandler
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{registry: make(map[string]rawHandler)}
}

// RegisterRaw binds an untyped handler to a key. Registering twice on the
// same key is a wiring bug and panics.
func (b *InMemoryBus) RegisterRaw(key string, handler rawHandler) {
	if key == "" {
		panic("commands: empty key registration")
	}
	if _, dup := b.registry[key]; dup {
		panic(fmt.Sprintf("commands: duplicate registration for %q", key))
	}
	b.registry[key] = handler
}

func (b *InMemoryBus) Dispatch(ctx context.Context, cmd Command) (any, error) {
	handler, ok := b.registry[cmd.Key()]
	if !ok {
		return nil, ErrHandlerNotFound
	}
	return handler(ctx, cmd)
}

// RegisterHandler wraps a typed handler so the bus can carry it untyped.
func RegisterHandler[C Command, R any](bus *InMemoryBus, key string, handler Handler[C, R]) {
	if bus == nil {
		panic("commands: nil bus")
	}
	bus.RegisterRaw(key, func(ctx context.Context, raw Command) (any, error) {
		cmd, ok := any(raw).(C)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCommand, key)
		}
		return handler.Handle(ctx, cmd)
	})
}
