package availability

import (
	"errors"
	"testing"
	"time"

	"staycal/internal/domain/calendar"
)

func date(y int, m time.Month, d int) calendar.Date {
	return calendar.NewDate(y, m, d)
}

func TestIsRangeAvailable(t *testing.T) {
	blockedJune := Availability{
		BlockedDates: []calendar.DateRange{
			{From: date(2024, time.June, 10), To: date(2024, time.June, 15)},
		},
	}
	withDay := Availability{
		UnavailableDays: []UnavailableDay{
			{Date: date(2024, time.July, 1), Reason: ReasonMaintenance},
		},
	}

	tests := []struct {
		name   string
		record Availability
		from   calendar.Date
		to     calendar.Date
		want   bool
	}{
		{name: "inside blocked range", record: blockedJune, from: date(2024, time.June, 12), to: date(2024, time.June, 13), want: false},
		{name: "clear of blocked range", record: blockedJune, from: date(2024, time.June, 20), to: date(2024, time.June, 25), want: true},
		{name: "request spans blocked range", record: blockedJune, from: date(2024, time.June, 1), to: date(2024, time.June, 30), want: false},
		{name: "touches blocked start", record: blockedJune, from: date(2024, time.June, 5), to: date(2024, time.June, 10), want: false},
		{name: "touches blocked end", record: blockedJune, from: date(2024, time.June, 15), to: date(2024, time.June, 20), want: false},
		{name: "ends day before block", record: blockedJune, from: date(2024, time.June, 5), to: date(2024, time.June, 9), want: true},
		{name: "single day on block", record: blockedJune, from: date(2024, time.June, 12), to: date(2024, time.June, 12), want: false},
		{name: "unavailable day inside request", record: withDay, from: date(2024, time.June, 28), to: date(2024, time.July, 3), want: false},
		{name: "single day equals unavailable day", record: withDay, from: date(2024, time.July, 1), to: date(2024, time.July, 1), want: false},
		{name: "request avoids unavailable day", record: withDay, from: date(2024, time.July, 2), to: date(2024, time.July, 5), want: true},
		{name: "empty record vacuously available", record: Availability{}, from: date(2024, time.June, 1), to: date(2024, time.June, 30), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.IsRangeAvailable(tt.from, tt.to); got != tt.want {
				t.Errorf("IsRangeAvailable(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestParseReason(t *testing.T) {
	valid := []string{"maintenance", "booking", "owner_use", "seasonal_closure", "other", " Maintenance "}
	for _, s := range valid {
		if _, err := ParseReason(s); err != nil {
			t.Errorf("ParseReason(%q) unexpected error: %v", s, err)
		}
	}
	for _, s := range []string{"", "vacation", "blocked", "booking x"} {
		if _, err := ParseReason(s); !errors.Is(err, ErrInvalidReason) {
			t.Errorf("ParseReason(%q) error = %v, want ErrInvalidReason", s, err)
		}
	}
}

func TestSetDayReplacesSameDate(t *testing.T) {
	var record Availability
	day := date(2024, time.July, 1)

	if err := record.SetDay(UnavailableDay{Date: day, Reason: ReasonMaintenance, CreatedBy: "first"}); err != nil {
		t.Fatalf("first SetDay: %v", err)
	}
	if err := record.SetDay(UnavailableDay{Date: day, Reason: ReasonOwnerUse, CreatedBy: "second"}); err != nil {
		t.Fatalf("second SetDay: %v", err)
	}

	if len(record.UnavailableDays) != 1 {
		t.Fatalf("expected exactly one entry for the date, got %d", len(record.UnavailableDays))
	}
	got := record.UnavailableDays[0]
	if got.Reason != ReasonOwnerUse || got.CreatedBy != "second" {
		t.Errorf("replacement did not win: %+v", got)
	}
}

func TestSetDayKeepsEntriesSorted(t *testing.T) {
	var record Availability
	for _, d := range []calendar.Date{date(2024, time.July, 5), date(2024, time.July, 1), date(2024, time.July, 3)} {
		if err := record.SetDay(UnavailableDay{Date: d, Reason: ReasonOther}); err != nil {
			t.Fatalf("SetDay(%v): %v", d, err)
		}
	}
	for i := 1; i < len(record.UnavailableDays); i++ {
		if record.UnavailableDays[i].Date.Before(record.UnavailableDays[i-1].Date) {
			t.Fatalf("entries out of order: %v before %v", record.UnavailableDays[i].Date, record.UnavailableDays[i-1].Date)
		}
	}
}

func TestSetDayRejectsBookingInfoWithoutBookingReason(t *testing.T) {
	var record Availability
	err := record.SetDay(UnavailableDay{
		Date:    date(2024, time.July, 1),
		Reason:  ReasonMaintenance,
		Booking: &BookingInfo{GuestName: "A. Guest"},
	})
	if !errors.Is(err, ErrBookingInfoMisused) {
		t.Errorf("error = %v, want ErrBookingInfoMisused", err)
	}
	if len(record.UnavailableDays) != 0 {
		t.Error("invalid entry must not be stored")
	}

	if err := record.SetDay(UnavailableDay{
		Date:    date(2024, time.July, 1),
		Reason:  ReasonBooking,
		Booking: &BookingInfo{BookingID: "b-1", GuestName: "A. Guest"},
	}); err != nil {
		t.Errorf("booking reason with metadata rejected: %v", err)
	}
}

func TestSetDayRejectsUnknownReason(t *testing.T) {
	var record Availability
	if err := record.SetDay(UnavailableDay{Date: date(2024, time.July, 1), Reason: "vacation"}); !errors.Is(err, ErrInvalidReason) {
		t.Errorf("error = %v, want ErrInvalidReason", err)
	}
}

func TestUpdateDay(t *testing.T) {
	created := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	record := Availability{UnavailableDays: []UnavailableDay{
		{Date: date(2024, time.July, 1), Reason: ReasonMaintenance, CreatedAt: created, CreatedBy: "admin-1"},
	}}

	if err := record.UpdateDay(date(2024, time.July, 1), ReasonOther, "painting", nil); err != nil {
		t.Fatalf("UpdateDay: %v", err)
	}
	got := record.UnavailableDays[0]
	if got.Reason != ReasonOther || got.Description != "painting" {
		t.Errorf("update not applied: %+v", got)
	}
	if !got.CreatedAt.Equal(created) || got.CreatedBy != "admin-1" {
		t.Errorf("audit fields must survive updates: %+v", got)
	}

	if err := record.UpdateDay(date(2024, time.July, 2), ReasonOther, "", nil); !errors.Is(err, ErrDayNotFound) {
		t.Errorf("missing entry error = %v, want ErrDayNotFound", err)
	}
}

func TestRemoveDays(t *testing.T) {
	record := Availability{UnavailableDays: []UnavailableDay{
		{Date: date(2024, time.July, 1), Reason: ReasonMaintenance},
		{Date: date(2024, time.July, 2), Reason: ReasonMaintenance},
		{Date: date(2024, time.July, 3), Reason: ReasonMaintenance},
	}}

	removed := record.RemoveDays([]calendar.Date{
		date(2024, time.July, 1),
		date(2024, time.July, 3),
		date(2024, time.July, 9),
	})
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if len(record.UnavailableDays) != 1 || !record.UnavailableDays[0].Date.Equal(date(2024, time.July, 2)) {
		t.Errorf("unexpected remaining entries: %+v", record.UnavailableDays)
	}

	if removed := record.RemoveDays(nil); removed != 0 {
		t.Errorf("empty removal removed %d", removed)
	}
}

func TestDayByDate(t *testing.T) {
	record := Availability{UnavailableDays: []UnavailableDay{
		{Date: date(2024, time.July, 1), Reason: ReasonMaintenance},
	}}
	if _, ok := record.DayByDate(date(2024, time.July, 1)); !ok {
		t.Error("existing entry not found")
	}
	if _, ok := record.DayByDate(date(2024, time.July, 2)); ok {
		t.Error("absent entry reported found")
	}
}

func TestSetBlockedDates(t *testing.T) {
	var record Availability
	ranges := []calendar.DateRange{
		{From: date(2024, time.June, 10), To: date(2024, time.June, 15)},
	}
	if err := record.SetBlockedDates(ranges); err != nil {
		t.Fatalf("SetBlockedDates: %v", err)
	}
	if len(record.BlockedDates) != 1 {
		t.Fatalf("blocked dates not stored")
	}

	bad := []calendar.DateRange{{From: date(2024, time.June, 15), To: date(2024, time.June, 10)}}
	if err := record.SetBlockedDates(bad); !errors.Is(err, calendar.ErrInvalidRange) {
		t.Errorf("inverted range error = %v, want ErrInvalidRange", err)
	}
}
