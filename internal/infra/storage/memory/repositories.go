package memory

import (
	"context"
	"sort"
	"sync"

	domainproperty "staycal/internal/domain/property"
	domainuser "staycal/internal/domain/user"
)

// PropertyRepository is an in-memory implementation for tests and local runs.
type PropertyRepository struct {
	mu    sync.RWMutex
	items map[domainproperty.ID]*domainproperty.Property
	order []domainproperty.ID
}

func NewPropertyRepository() *PropertyRepository {
	return &PropertyRepository{items: make(map[domainproperty.ID]*domainproperty.Property)}
}

func (r *PropertyRepository) ByID(ctx context.Context, id domainproperty.ID) (*domainproperty.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, domainproperty.ErrNotFound
	}
	return cloneProperty(p), nil
}

// All returns the properties in insertion order.
func (r *PropertyRepository) All(ctx context.Context) ([]*domainproperty.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainproperty.Property, 0, len(r.order))
	for _, id := range r.order {
		if p, ok := r.items[id]; ok {
			out = append(out, cloneProperty(p))
		}
	}
	return out, nil
}

// Save writes conditionally on the aggregate version, the same contract the
// document store enforces: a stale copy yields ErrConcurrentUpdate instead
// of overwriting a concurrent writer's change.
func (r *PropertyRepository) Save(ctx context.Context, p *domainproperty.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, exists := r.items[p.ID]
	if exists && stored.Version != p.Version {
		return domainproperty.ErrConcurrentUpdate
	}
	if !exists {
		r.order = append(r.order, p.ID)
	}
	p.Version++
	r.items[p.ID] = cloneProperty(p)
	return nil
}

func (r *PropertyRepository) Delete(ctx context.Context, id domainproperty.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainproperty.ErrNotFound
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func cloneProperty(p *domainproperty.Property) *domainproperty.Property {
	copied := *p
	copied.Prices = append([]domainproperty.Price(nil), p.Prices...)
	copied.Availability.BlockedDates = append(copied.Availability.BlockedDates[:0:0], p.Availability.BlockedDates...)
	copied.Availability.UnavailableDays = append(copied.Availability.UnavailableDays[:0:0], p.Availability.UnavailableDays...)
	for i, day := range copied.Availability.UnavailableDays {
		if day.Booking != nil {
			booking := *day.Booking
			copied.Availability.UnavailableDays[i].Booking = &booking
		}
	}
	return &copied
}

// UserRepository keeps users in memory.
type UserRepository struct {
	mu    sync.RWMutex
	items map[domainuser.ID]*domainuser.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{items: make(map[domainuser.ID]*domainuser.User)}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.items[id]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.items {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domainuser.ErrNotFound
}

func (r *UserRepository) All(ctx context.Context) ([]*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainuser.User, 0, len(r.items))
	for _, u := range r.items {
		copied := *u
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *UserRepository) Save(ctx context.Context, u *domainuser.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *u
	r.items[u.ID] = &copied
	return nil
}
