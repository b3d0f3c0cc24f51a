package property

import (
	"context"
	"errors"
	"strings"
	"time"

	"staycal/internal/domain/availability"
)

var (
	ErrIDRequired       = errors.New("property: id is required")
	ErrNameRequired     = errors.New("property: name is required")
	ErrBadCapacity      = errors.New("property: capacity must be positive")
	ErrNotFound         = errors.New("property: not found")
	ErrConcurrentUpdate = errors.New("property: concurrent update detected")
)

type ID string

type Address struct {
	Line1   string
	Line2   string
	City    string
	Country string
}

// Price is a nightly rate in one currency; a property may advertise several.
type Price struct {
	AmountCents int64
	Currency    string
}

// Property is the aggregate root. The availability record is owned
// exclusively by the property and travels with it.
type Property struct {
	ID           ID
	Name         string
	Description  string
	Address      Address
	Prices       []Price
	MaxPeople    int
	Active       bool
	Availability availability.Availability
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int64
}

// Repository persists property documents, availability sub-record included.
// Save performs a conditional write on Version; a stale aggregate yields
// ErrConcurrentUpdate.
type Repository interface {
	ByID(ctx context.Context, id ID) (*Property, error)
	All(ctx context.Context) ([]*Property, error)
	Save(ctx context.Context, p *Property) error
	Delete(ctx context.Context, id ID) error
}

type CreateParams struct {
	ID          ID
	Name        string
	Description string
	Address     Address
	Prices      []Price
	MaxPeople   int
	Now         time.Time
}

func New(params CreateParams) (*Property, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if params.MaxPeople <= 0 {
		return nil, ErrBadCapacity
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	return &Property{
		ID:          ID(id),
		Name:        name,
		Description: params.Description,
		Address:     params.Address,
		Prices:      append([]Price(nil), params.Prices...),
		MaxPeople:   params.MaxPeople,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

type UpdateParams struct {
	Name        string
	Description string
	Address     Address
	Prices      []Price
	MaxPeople   int
	Active      bool
}

// ApplyUpdate replaces the descriptive fields wholesale, the way the admin
// form submits them. Blocked dates are updated separately via the
// availability record.
func (p *Property) ApplyUpdate(params UpdateParams, now time.Time) error {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return ErrNameRequired
	}
	if params.MaxPeople <= 0 {
		return ErrBadCapacity
	}
	p.Name = name
	p.Description = params.Description
	p.Address = params.Address
	p.Prices = append([]Price(nil), params.Prices...)
	p.MaxPeople = params.MaxPeople
	p.Active = params.Active
	p.touch(now)
	return nil
}

func (p *Property) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	p.UpdatedAt = now.UTC()
}
