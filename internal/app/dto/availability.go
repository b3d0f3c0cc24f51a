package dto

import (
	"time"

	"staycal/internal/domain/availability"
	"staycal/internal/domain/calendar"
)

type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// UnavailableDay is the wire form of a single-date override. The booking
// fields are flattened; they are populated only when reason is "booking".
type UnavailableDay struct {
	Date               string `json:"date"`
	Reason             string `json:"reason"`
	Description        string `json:"description,omitempty"`
	BookingID          string `json:"bookingId,omitempty"`
	BookingGuestName   string `json:"bookingGuestName,omitempty"`
	BookingContactInfo string `json:"bookingContactInfo,omitempty"`
	CreatedAt          string `json:"createdAt"`
	CreatedBy          string `json:"createdBy,omitempty"`
}

type Availability struct {
	BlockedDates    []DateRange      `json:"blockedDates"`
	UnavailableDays []UnavailableDay `json:"unavailableDays"`
}

func MapDateRange(r calendar.DateRange) DateRange {
	return DateRange{From: r.From.String(), To: r.To.String()}
}

func MapUnavailableDay(day availability.UnavailableDay) UnavailableDay {
	out := UnavailableDay{
		Date:        day.Date.String(),
		Reason:      string(day.Reason),
		Description: day.Description,
		CreatedBy:   day.CreatedBy,
	}
	if !day.CreatedAt.IsZero() {
		out.CreatedAt = day.CreatedAt.UTC().Format(time.RFC3339)
	}
	if day.Booking != nil {
		out.BookingID = day.Booking.BookingID
		out.BookingGuestName = day.Booking.GuestName
		out.BookingContactInfo = day.Booking.ContactInfo
	}
	return out
}

func MapAvailability(record availability.Availability) Availability {
	out := Availability{
		BlockedDates:    make([]DateRange, 0, len(record.BlockedDates)),
		UnavailableDays: make([]UnavailableDay, 0, len(record.UnavailableDays)),
	}
	for _, r := range record.BlockedDates {
		out.BlockedDates = append(out.BlockedDates, MapDateRange(r))
	}
	for _, day := range record.UnavailableDays {
		out.UnavailableDays = append(out.UnavailableDays, MapUnavailableDay(day))
	}
	return out
}
