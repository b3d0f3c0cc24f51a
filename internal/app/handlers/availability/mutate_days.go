package availability

import (
	"context"
	"log/slog"
	"time"

	"staycal/internal/app/commands"
	"staycal/internal/app/dto"
	"staycal/internal/app/policies"
	domainavailability "staycal/internal/domain/availability"
	"staycal/internal/domain/calendar"
	domainproperty "staycal/internal/domain/property"
)

const (
	addDaysKey    = "availability.days.add"
	updateDayKey  = "availability.days.update"
	removeDaysKey = "availability.days.remove"
)

// AddDaysCommand inserts unavailable-day entries for one or more dates with a
// uniform reason and metadata. A date that already has an entry is replaced.
type AddDaysCommand struct {
	PropertyID  string
	Dates       []calendar.Date
	Reason      domainavailability.Reason
	Description string
	Booking     *domainavailability.BookingInfo
	ActorID     string
}

func (c AddDaysCommand) Key() string { return addDaysKey }

// UpdateDayCommand edits the entry matching Date in place. The date is the
// entry's identity and cannot move; missing entries are an error.
type UpdateDayCommand struct {
	PropertyID  string
	Date        calendar.Date
	Reason      domainavailability.Reason
	Description string
	Booking     *domainavailability.BookingInfo
}

func (c UpdateDayCommand) Key() string { return updateDayKey }

// RemoveDaysCommand deletes the entries matching the given dates.
type RemoveDaysCommand struct {
	PropertyID string
	Dates      []calendar.Date
}

func (c RemoveDaysCommand) Key() string { return removeDaysKey }

type RemoveDaysResult struct {
	Removed int `json:"removed"`
}

// MutateDaysHandler serves all three admin mutations. Each is a
// read-modify-write on one property; the repository's conditional write on
// the aggregate version turns concurrent edits into a conflict instead of a
// silent lost update.
type MutateDaysHandler struct {
	Properties domainproperty.Repository
	Notifier   policies.Notifier
	Logger     *slog.Logger
}

func (h *MutateDaysHandler) HandleAdd(ctx context.Context, cmd AddDaysCommand) ([]dto.UnavailableDay, error) {
	prop, err := h.Properties.ByID(ctx, domainproperty.ID(cmd.PropertyID))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inserted := make([]dto.UnavailableDay, 0, len(cmd.Dates))
	for _, date := range cmd.Dates {
		day := domainavailability.UnavailableDay{
			Date:        date,
			Reason:      cmd.Reason,
			Description: cmd.Description,
			Booking:     cloneBooking(cmd.Booking),
			CreatedAt:   now,
			CreatedBy:   cmd.ActorID,
		}
		if err := prop.Availability.SetDay(day); err != nil {
			return nil, err
		}
		inserted = append(inserted, dto.MapUnavailableDay(day))
	}

	if err := h.Properties.Save(ctx, prop); err != nil {
		return nil, err
	}
	h.notifyChanged(ctx, cmd.PropertyID, "add", len(cmd.Dates))
	return inserted, nil
}

func (h *MutateDaysHandler) HandleUpdate(ctx context.Context, cmd UpdateDayCommand) (dto.UnavailableDay, error) {
	prop, err := h.Properties.ByID(ctx, domainproperty.ID(cmd.PropertyID))
	if err != nil {
		return dto.UnavailableDay{}, err
	}
	if err := prop.Availability.UpdateDay(cmd.Date, cmd.Reason, cmd.Description, cloneBooking(cmd.Booking)); err != nil {
		return dto.UnavailableDay{}, err
	}
	if err := h.Properties.Save(ctx, prop); err != nil {
		return dto.UnavailableDay{}, err
	}
	day, _ := prop.Availability.DayByDate(cmd.Date)
	h.notifyChanged(ctx, cmd.PropertyID, "update", 1)
	return dto.MapUnavailableDay(day), nil
}

func (h *MutateDaysHandler) HandleRemove(ctx context.Context, cmd RemoveDaysCommand) (RemoveDaysResult, error) {
	prop, err := h.Properties.ByID(ctx, domainproperty.ID(cmd.PropertyID))
	if err != nil {
		return RemoveDaysResult{}, err
	}
	removed := prop.Availability.RemoveDays(cmd.Dates)
	if removed > 0 {
		if err := h.Properties.Save(ctx, prop); err != nil {
			return RemoveDaysResult{}, err
		}
		h.notifyChanged(ctx, cmd.PropertyID, "remove", removed)
	}
	return RemoveDaysResult{Removed: removed}, nil
}

// notifyChanged is best-effort; a notifier failure never fails the mutation.
func (h *MutateDaysHandler) notifyChanged(ctx context.Context, propertyID, op string, count int) {
	if h.Notifier == nil {
		return
	}
	payload := map[string]any{"property_id": propertyID, "op": op, "days": count}
	if err := h.Notifier.Send(ctx, policies.EventAvailabilityChanged, payload); err != nil && h.Logger != nil {
		h.Logger.Warn("availability change notification failed", "property_id", propertyID, "error", err)
	}
}

func cloneBooking(b *domainavailability.BookingInfo) *domainavailability.BookingInfo {
	if b == nil {
		return nil
	}
	copied := *b
	return &copied
}

type addDaysAdapter struct{ h *MutateDaysHandler }

func (a addDaysAdapter) Handle(ctx context.Context, cmd AddDaysCommand) ([]dto.UnavailableDay, error) {
	return a.h.HandleAdd(ctx, cmd)
}

type updateDayAdapter struct{ h *MutateDaysHandler }

func (a updateDayAdapter) Handle(ctx context.Context, cmd UpdateDayCommand) (dto.UnavailableDay, error) {
	return a.h.HandleUpdate(ctx, cmd)
}

type removeDaysAdapter struct{ h *MutateDaysHandler }

func (a removeDaysAdapter) Handle(ctx context.Context, cmd RemoveDaysCommand) (RemoveDaysResult, error) {
	return a.h.HandleRemove(ctx, cmd)
}

// Register wires the three mutations onto a command bus.
func (h *MutateDaysHandler) Register(bus *commands.InMemoryBus) {
	commands.RegisterHandler[AddDaysCommand, []dto.UnavailableDay](bus, addDaysKey, addDaysAdapter{h})
	commands.RegisterHandler[UpdateDayCommand, dto.UnavailableDay](bus, updateDayKey, updateDayAdapter{h})
	commands.RegisterHandler[RemoveDaysCommand, RemoveDaysResult](bus, removeDaysKey, removeDaysAdapter{h})
}
