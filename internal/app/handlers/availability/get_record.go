package availability

import (
	"context"

	"staycal/internal/app/dto"
	"staycal/internal/app/queries"
	domainproperty "staycal/internal/domain/property"
)

const getRecordKey = "availability.record"

// GetRecordQuery fetches one property's scheduling record.
type GetRecordQuery struct {
	PropertyID string
}

func (q GetRecordQuery) Key() string { return getRecordKey }

type GetRecordHandler struct {
	Properties domainproperty.Repository
}

func (h *GetRecordHandler) Handle(ctx context.Context, q GetRecordQuery) (dto.Availability, error) {
	prop, err := h.Properties.ByID(ctx, domainproperty.ID(q.PropertyID))
	if err != nil {
		return dto.Availability{}, err
	}
	return dto.MapAvailability(prop.Availability), nil
}

var _ queries.Handler[GetRecordQuery, dto.Availability] = (*GetRecordHandler)(nil)
