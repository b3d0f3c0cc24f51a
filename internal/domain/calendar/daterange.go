package calendar

import "errors"

var ErrInvalidRange = errors.New("calendar: range end precedes start")

// DateRange is a closed inclusive interval [From, To]. A single-day range
// has From == To.
type DateRange struct {
	From Date
	To   Date
}

func NewRange(from, to Date) (DateRange, error) {
	r := DateRange{From: from, To: to}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

func (r DateRange) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return ErrInvalidRange
	}
	if r.To.Before(r.From) {
		return ErrInvalidRange
	}
	return nil
}

// Days counts the calendar days covered, inclusive of both bounds.
func (r DateRange) Days() int {
	return r.From.DaysUntil(r.To) + 1
}

func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.From) && !d.After(r.To)
}

// Overlaps reports whether the two closed intervals share at least one day.
// Touching bounds count as overlap.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.From.After(other.To) && !other.From.After(r.To)
}

// Intersect clips other against r; ok is false when they share no day.
func (r DateRange) Intersect(other DateRange) (DateRange, bool) {
	if !r.Overlaps(other) {
		return DateRange{}, false
	}
	out := r
	if other.From.After(out.From) {
		out.From = other.From
	}
	if other.To.Before(out.To) {
		out.To = other.To
	}
	return out, true
}

// EachDay walks every day of the range in order. The walk stops when fn
// returns false.
func (r DateRange) EachDay(fn func(Date) bool) {
	for d := r.From; !d.After(r.To); d = d.AddDays(1) {
		if !fn(d) {
			return
		}
	}
}
