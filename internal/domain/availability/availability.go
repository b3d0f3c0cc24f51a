package availability

import (
	"errors"
	"sort"
	"strings"
	"time"

	"staycal/internal/domain/calendar"
)

var (
	ErrInvalidReason      = errors.New("availability: unknown reason")
	ErrDayNotFound        = errors.New("availability: no entry for date")
	ErrBookingInfoMisused = errors.New("availability: booking details require the booking reason")
)

// Reason is the closed enumeration of why a single day is unavailable.
type Reason string

const (
	ReasonMaintenance     Reason = "maintenance"
	ReasonBooking         Reason = "booking"
	ReasonOwnerUse        Reason = "owner_use"
	ReasonSeasonalClosure Reason = "seasonal_closure"
	ReasonOther           Reason = "other"
)

// ParseReason validates a wire value against the enumeration.
func ParseReason(s string) (Reason, error) {
	switch Reason(strings.ToLower(strings.TrimSpace(s))) {
	case ReasonMaintenance:
		return ReasonMaintenance, nil
	case ReasonBooking:
		return ReasonBooking, nil
	case ReasonOwnerUse:
		return ReasonOwnerUse, nil
	case ReasonSeasonalClosure:
		return ReasonSeasonalClosure, nil
	case ReasonOther:
		return ReasonOther, nil
	default:
		return "", ErrInvalidReason
	}
}

// BookingInfo carries guest metadata. It is present only on entries whose
// reason is ReasonBooking.
type BookingInfo struct {
	BookingID   string
	GuestName   string
	ContactInfo string
}

// UnavailableDay is a single-date override. The date is its identity: a
// property holds at most one entry per calendar day, and the date never
// changes after creation.
type UnavailableDay struct {
	Date        calendar.Date
	Reason      Reason
	Description string
	Booking     *BookingInfo
	CreatedAt   time.Time
	CreatedBy   string
}

func (d UnavailableDay) validate() error {
	if _, err := ParseReason(string(d.Reason)); err != nil {
		return err
	}
	if d.Booking != nil && d.Reason != ReasonBooking {
		return ErrBookingInfoMisused
	}
	return nil
}

// Availability is the scheduling record embedded in a property. Blocked
// ranges and unavailable days are independent; overlap between them is
// redundant, not an error.
type Availability struct {
	BlockedDates    []calendar.DateRange
	UnavailableDays []UnavailableDay
}

// IsRangeAvailable reports whether [from, to] is free of conflicts. A range
// conflicts when any blocked range overlaps it or any unavailable day falls
// inside it; both checks treat bounds as inclusive.
func (a Availability) IsRangeAvailable(from, to calendar.Date) bool {
	req := calendar.DateRange{From: from, To: to}
	for _, blocked := range a.BlockedDates {
		if blocked.Overlaps(req) {
			return false
		}
	}
	for _, day := range a.UnavailableDays {
		if req.Contains(day.Date) {
			return false
		}
	}
	return true
}

// DayByDate returns the entry for a date, if any.
func (a Availability) DayByDate(date calendar.Date) (UnavailableDay, bool) {
	for _, day := range a.UnavailableDays {
		if day.Date.Equal(date) {
			return day, true
		}
	}
	return UnavailableDay{}, false
}

// SetDay inserts an entry, replacing any existing entry for the same date.
// Last insert wins; the audit fields of the replaced entry are discarded.
func (a *Availability) SetDay(day UnavailableDay) error {
	if err := day.validate(); err != nil {
		return err
	}
	for i, existing := range a.UnavailableDays {
		if existing.Date.Equal(day.Date) {
			a.UnavailableDays[i] = day
			return nil
		}
	}
	a.UnavailableDays = append(a.UnavailableDays, day)
	a.sortDays()
	return nil
}

// UpdateDay edits reason and metadata of the entry matching date. The date
// itself and the audit fields stay as created.
func (a *Availability) UpdateDay(date calendar.Date, reason Reason, description string, booking *BookingInfo) error {
	probe := UnavailableDay{Date: date, Reason: reason, Booking: booking}
	if err := probe.validate(); err != nil {
		return err
	}
	for i, existing := range a.UnavailableDays {
		if existing.Date.Equal(date) {
			existing.Reason = reason
			existing.Description = description
			existing.Booking = booking
			a.UnavailableDays[i] = existing
			return nil
		}
	}
	return ErrDayNotFound
}

// RemoveDays deletes entries matching any of the given dates and returns how
// many were removed. Dates with no entry are ignored.
func (a *Availability) RemoveDays(dates []calendar.Date) int {
	if len(dates) == 0 {
		return 0
	}
	drop := make(map[calendar.Date]struct{}, len(dates))
	for _, d := range dates {
		drop[d] = struct{}{}
	}
	kept := a.UnavailableDays[:0]
	removed := 0
	for _, day := range a.UnavailableDays {
		if _, gone := drop[day.Date]; gone {
			removed++
			continue
		}
		kept = append(kept, day)
	}
	a.UnavailableDays = kept
	return removed
}

// SetBlockedDates replaces the coarse blocked ranges wholesale.
func (a *Availability) SetBlockedDates(ranges []calendar.DateRange) error {
	for _, r := range ranges {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	a.BlockedDates = append([]calendar.DateRange(nil), ranges...)
	return nil
}

func (a *Availability) sortDays() {
	sort.Slice(a.UnavailableDays, func(i, j int) bool {
		return a.UnavailableDays[i].Date.Before(a.UnavailableDays[j].Date)
	})
}
