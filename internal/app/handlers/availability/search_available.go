package availability

import (
	"context"

	"staycal/internal/app/dto"
	"staycal/internal/app/queries"
	"staycal/internal/domain/calendar"
	domainproperty "staycal/internal/domain/property"
)

const searchAvailableKey = "availability.search"

// SearchAvailableQuery lists the properties free over the whole range with
// capacity for the requested party size.
type SearchAvailableQuery struct {
	From   calendar.Date
	To     calendar.Date
	People int
}

func (q SearchAvailableQuery) Key() string { return searchAvailableKey }

type SearchAvailableHandler struct {
	Properties domainproperty.Repository
}

func (h *SearchAvailableHandler) Handle(ctx context.Context, q SearchAvailableQuery) ([]dto.Property, error) {
	if err := (calendar.DateRange{From: q.From, To: q.To}).Validate(); err != nil {
		return nil, err
	}
	props, err := h.Properties.All(ctx)
	if err != nil {
		return nil, err
	}
	free := domainproperty.FilterAvailable(props, q.From, q.To, q.People)
	return dto.MapProperties(free), nil
}

var _ queries.Handler[SearchAvailableQuery, []dto.Property] = (*SearchAvailableHandler)(nil)
