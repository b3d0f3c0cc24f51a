package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"staycal/internal/app/commands"
	"staycal/internal/app/policies"
	"staycal/internal/domain/calendar"
	domainproperty "staycal/internal/domain/property"
)

const requestBookingKey = "booking.request"

var ErrRangeUnavailable = errors.New("booking: requested range is not available")

// RequestBookingCommand is a visitor's booking enquiry. It never blocks the
// calendar itself; an admin records the resulting booking as unavailable days
// once confirmed. The request is forwarded to the mail pipeline.
type RequestBookingCommand struct {
	PropertyID  string
	From        calendar.Date
	To          calendar.Date
	Guests      int
	GuestName   string
	ContactInfo string
	Message     string
}

func (c RequestBookingCommand) Key() string { return requestBookingKey }

type Receipt struct {
	RequestID  string `json:"request_id"`
	PropertyID string `json:"property_id"`
	From       string `json:"from"`
	To         string `json:"to"`
	ReceivedAt string `json:"received_at"`
}

type RequestBookingHandler struct {
	Properties domainproperty.Repository
	Notifier   policies.Notifier
	Logger     *slog.Logger
}

func (h *RequestBookingHandler) Handle(ctx context.Context, cmd RequestBookingCommand) (Receipt, error) {
	if err := (calendar.DateRange{From: cmd.From, To: cmd.To}).Validate(); err != nil {
		return Receipt{}, err
	}
	prop, err := h.Properties.ByID(ctx, domainproperty.ID(cmd.PropertyID))
	if err != nil {
		return Receipt{}, err
	}
	if !prop.Active || !prop.Availability.IsRangeAvailable(cmd.From, cmd.To) {
		return Receipt{}, ErrRangeUnavailable
	}

	receipt := Receipt{
		RequestID:  uuid.NewString(),
		PropertyID: cmd.PropertyID,
		From:       cmd.From.String(),
		To:         cmd.To.String(),
		ReceivedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if h.Notifier != nil {
		payload := map[string]any{
			"request_id":    receipt.RequestID,
			"property_id":   cmd.PropertyID,
			"property_name": prop.Name,
			"from":          receipt.From,
			"to":            receipt.To,
			"guests":        cmd.Guests,
			"guest_name":    cmd.GuestName,
			"contact_info":  cmd.ContactInfo,
			"message":       cmd.Message,
		}
		if err := h.Notifier.Send(ctx, policies.EventBookingRequested, payload); err != nil {
			// The enquiry must not vanish silently; surface the failure.
			if h.Logger != nil {
				h.Logger.Error("booking request notification failed", "property_id", cmd.PropertyID, "error", err)
			}
			return Receipt{}, err
		}
	}
	if h.Logger != nil {
		h.Logger.Info("booking request received", "request_id", receipt.RequestID, "property_id", cmd.PropertyID, "from", receipt.From, "to", receipt.To)
	}
	return receipt, nil
}

var _ commands.Handler[RequestBookingCommand, Receipt] = (*RequestBookingHandler)(nil)
