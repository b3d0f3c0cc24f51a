package queries

import (
	"context"
	"fmt"
)

type rawHandler func(ctx context.Context, q Query) (any, error)

// InMemoryBus routes queries through a key-indexed registry. Registration
// happens once at startup; asking is read-only after that, so no locking.
type InMemoryBus struct {
	registry map[string]rawHandler
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{registry: make(map[string]rawHandler)}
}

func (b *InMemoryBus) RegisterRaw(key string, handler rawHandler) {
	if key == "" {
		panic("queries: empty key registration")
	}
	if _, dup := b.registry[key]; dup {
		panic(fmt.Sprintf("queries: duplicate registration for %q", key))
	}
	b.registry[key] = handler
}

func (b *InMemoryBus) Ask(ctx context.Context, query Query) (any, error) {
	handler, ok := b.registry[query.Key()]
	if !ok {
		return nil, ErrHandlerNotFound
	}
	return handler(ctx, query)
}

// RegisterHandler wraps a typed handler so the bus can carry it untyped.
func RegisterHandler[Q Query, R any](bus *InMemoryBus, key string, handler Handler[Q, R]) {
	if bus == nil {
		panic("queries: nil bus")
	}
	bus.RegisterRaw(key, func(ctx context.Context, raw Query) (any, error) {
		q, ok := any(raw).(Q)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidQuery, key)
		}
		return handler.Handle(ctx, q)
	})
}
