package properties

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"staycal/internal/app/commands"
	"staycal/internal/app/dto"
	"staycal/internal/app/queries"
	"staycal/internal/domain/calendar"
	domainproperty "staycal/internal/domain/property"
)

const (
	listPropertiesKey = "properties.list"
	getPropertyKey    = "properties.get"
	createPropertyKey = "properties.create"
	updatePropertyKey = "properties.update"
	deletePropertyKey = "properties.delete"
)

type ListQuery struct{}

func (q ListQuery) Key() string { return listPropertiesKey }

type GetQuery struct {
	PropertyID string
}

func (q GetQuery) Key() string { return getPropertyKey }

// Payload carries the scheduling-relevant property fields the admin form
// submits. BlockedDates replace the coarse ranges wholesale on update.
type Payload struct {
	Name         string
	Description  string
	Address      domainproperty.Address
	Prices       []domainproperty.Price
	MaxPeople    int
	Active       bool
	BlockedDates []calendar.DateRange
}

type CreateCommand struct {
	Payload Payload
}

func (c CreateCommand) Key() string { return createPropertyKey }

type UpdateCommand struct {
	PropertyID string
	Payload    Payload
}

func (c UpdateCommand) Key() string { return updatePropertyKey }

type DeleteCommand struct {
	PropertyID string
}

func (c DeleteCommand) Key() string { return deletePropertyKey }

type DeleteResult struct {
	Deleted bool `json:"deleted"`
}

type ListHandler struct {
	Properties domainproperty.Repository
}

func (h *ListHandler) Handle(ctx context.Context, _ ListQuery) ([]dto.Property, error) {
	props, err := h.Properties.All(ctx)
	if err != nil {
		return nil, err
	}
	return dto.MapProperties(props), nil
}

type GetHandler struct {
	Properties domainproperty.Repository
}

func (h *GetHandler) Handle(ctx context.Context, q GetQuery) (dto.Property, error) {
	prop, err := h.Properties.ByID(ctx, domainproperty.ID(q.PropertyID))
	if err != nil {
		return dto.Property{}, err
	}
	return dto.MapProperty(prop), nil
}

// CrudHandler owns the admin mutations on the property aggregate.
type CrudHandler struct {
	Properties domainproperty.Repository
	Logger     *slog.Logger
}

func (h *CrudHandler) HandleCreate(ctx context.Context, cmd CreateCommand) (dto.Property, error) {
	prop, err := domainproperty.New(domainproperty.CreateParams{
		ID:          domainproperty.ID(uuid.NewString()),
		Name:        cmd.Payload.Name,
		Description: cmd.Payload.Description,
		Address:     cmd.Payload.Address,
		Prices:      cmd.Payload.Prices,
		MaxPeople:   cmd.Payload.MaxPeople,
		Now:         time.Now(),
	})
	if err != nil {
		return dto.Property{}, err
	}
	if err := prop.Availability.SetBlockedDates(cmd.Payload.BlockedDates); err != nil {
		return dto.Property{}, err
	}
	if err := h.Properties.Save(ctx, prop); err != nil {
		return dto.Property{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("property created", "property_id", prop.ID, "name", prop.Name)
	}
	return dto.MapProperty(prop), nil
}

func (h *CrudHandler) HandleUpdate(ctx context.Context, cmd UpdateCommand) (dto.Property, error) {
	prop, err := h.Properties.ByID(ctx, domainproperty.ID(cmd.PropertyID))
	if err != nil {
		return dto.Property{}, err
	}
	err = prop.ApplyUpdate(domainproperty.UpdateParams{
		Name:        cmd.Payload.Name,
		Description: cmd.Payload.Description,
		Address:     cmd.Payload.Address,
		Prices:      cmd.Payload.Prices,
		MaxPeople:   cmd.Payload.MaxPeople,
		Active:      cmd.Payload.Active,
	}, time.Now())
	if err != nil {
		return dto.Property{}, err
	}
	if err := prop.Availability.SetBlockedDates(cmd.Payload.BlockedDates); err != nil {
		return dto.Property{}, err
	}
	if err := h.Properties.Save(ctx, prop); err != nil {
		return dto.Property{}, err
	}
	return dto.MapProperty(prop), nil
}

func (h *CrudHandler) HandleDelete(ctx context.Context, cmd DeleteCommand) (DeleteResult, error) {
	if err := h.Properties.Delete(ctx, domainproperty.ID(cmd.PropertyID)); err != nil {
		return DeleteResult{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("property deleted", "property_id", cmd.PropertyID)
	}
	return DeleteResult{Deleted: true}, nil
}

type createAdapter struct{ h *CrudHandler }

func (a createAdapter) Handle(ctx context.Context, cmd CreateCommand) (dto.Property, error) {
	return a.h.HandleCreate(ctx, cmd)
}

type updateAdapter struct{ h *CrudHandler }

func (a updateAdapter) Handle(ctx context.Context, cmd UpdateCommand) (dto.Property, error) {
	return a.h.HandleUpdate(ctx, cmd)
}

type deleteAdapter struct{ h *CrudHandler }

func (a deleteAdapter) Handle(ctx context.Context, cmd DeleteCommand) (DeleteResult, error) {
	return a.h.HandleDelete(ctx, cmd)
}

// Register wires the property mutations onto a command bus.
func (h *CrudHandler) Register(bus *commands.InMemoryBus) {
	commands.RegisterHandler[CreateCommand, dto.Property](bus, createPropertyKey, createAdapter{h})
	commands.RegisterHandler[UpdateCommand, dto.Property](bus, updatePropertyKey, updateAdapter{h})
	commands.RegisterHandler[DeleteCommand, DeleteResult](bus, deletePropertyKey, deleteAdapter{h})
}

var (
	_ queries.Handler[ListQuery, []dto.Property] = (*ListHandler)(nil)
	_ queries.Handler[GetQuery, dto.Property]    = (*GetHandler)(nil)
)
