package availability

import (
	"context"

	"staycal/internal/app/dto"
	"staycal/internal/app/queries"
	domainavailability "staycal/internal/domain/availability"
	"staycal/internal/domain/calendar"
	domainproperty "staycal/internal/domain/property"
)

const (
	calendarIndexKey   = "availability.calendar-index"
	availabilityMapKey = "availability.day-map"
)

// CalendarIndexQuery builds the shared marketing calendar: per-day counts of
// free properties across all active ones.
type CalendarIndexQuery struct {
	From calendar.Date
	To   calendar.Date
}

func (q CalendarIndexQuery) Key() string { return calendarIndexKey }

// AvailabilityMapQuery produces the per-day available-property-ID sets the
// incremental client cache merges.
type AvailabilityMapQuery struct {
	From calendar.Date
	To   calendar.Date
}

func (q AvailabilityMapQuery) Key() string { return availabilityMapKey }

type CalendarIndexHandler struct {
	Properties domainproperty.Repository
}

func (h *CalendarIndexHandler) Handle(ctx context.Context, q CalendarIndexQuery) (dto.CalendarIndex, error) {
	ix, err := h.buildIndex(ctx, q.From, q.To)
	if err != nil {
		return dto.CalendarIndex{}, err
	}
	return dto.MapCalendarIndex(ix), nil
}

type AvailabilityMapHandler struct {
	Properties domainproperty.Repository
}

func (h *AvailabilityMapHandler) Handle(ctx context.Context, q AvailabilityMapQuery) (dto.AvailabilityMap, error) {
	builder := CalendarIndexHandler{Properties: h.Properties}
	ix, err := builder.buildIndex(ctx, q.From, q.To)
	if err != nil {
		return dto.AvailabilityMap{}, err
	}
	return dto.MapAvailabilityMap(ix), nil
}

// buildIndex recomputes the aggregate on every request; nothing is cached
// server-side, so concurrent reads are safe by construction.
func (h *CalendarIndexHandler) buildIndex(ctx context.Context, from, to calendar.Date) (domainavailability.Index, error) {
	props, err := h.Properties.All(ctx)
	if err != nil {
		return domainavailability.Index{}, err
	}
	entries := make([]domainavailability.IndexEntry, 0, len(props))
	for _, p := range props {
		if !p.Active {
			continue
		}
		entries = append(entries, domainavailability.IndexEntry{
			PropertyID: string(p.ID),
			Record:     p.Availability,
		})
	}
	return domainavailability.BuildIndex(entries, from, to)
}

var (
	_ queries.Handler[CalendarIndexQuery, dto.CalendarIndex]     = (*CalendarIndexHandler)(nil)
	_ queries.Handler[AvailabilityMapQuery, dto.AvailabilityMap] = (*AvailabilityMapHandler)(nil)
)
