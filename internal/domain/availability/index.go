package availability

import (
	"sort"

	"staycal/internal/domain/calendar"
)

// IndexEntry is one active property's scheduling record, identified only by
// ID so the index stays independent of the property aggregate.
type IndexEntry struct {
	PropertyID string
	Record     Availability
}

// Index is the aggregate availability view over a date window: for every day
// the number of free properties and which ones they are.
//
// FreeCount holds raw decrements and may dip below zero when a property is
// counted twice for one day (blocked range plus explicit unavailable day).
// That is a data-quality signal, preserved for diagnostics; consumers of the
// unavailable list get the clamped view.
type Index struct {
	Window          calendar.DateRange
	TotalProperties int
	FreeCount       map[string]int
	FreeIDs         map[string][]string
}

// BuildIndex walks [from, to] inclusive. Every day starts at the number of
// entries; each property decrements a day once per blocked-range hit and once
// per unavailable-day hit.
func BuildIndex(entries []IndexEntry, from, to calendar.Date) (Index, error) {
	window, err := calendar.NewRange(from, to)
	if err != nil {
		return Index{}, err
	}

	ix := Index{
		Window:          window,
		TotalProperties: len(entries),
		FreeCount:       make(map[string]int, window.Days()),
		FreeIDs:         make(map[string][]string, window.Days()),
	}
	window.EachDay(func(d calendar.Date) bool {
		ix.FreeCount[d.String()] = len(entries)
		return true
	})

	for _, entry := range entries {
		hits := make(map[calendar.Date]int)
		for _, blocked := range entry.Record.BlockedDates {
			clipped, ok := window.Intersect(blocked)
			if !ok {
				continue
			}
			clipped.EachDay(func(d calendar.Date) bool {
				hits[d]++
				return true
			})
		}
		for _, day := range entry.Record.UnavailableDays {
			if window.Contains(day.Date) {
				hits[day.Date]++
			}
		}

		for d, n := range hits {
			ix.FreeCount[d.String()] -= n
		}
		window.EachDay(func(d calendar.Date) bool {
			if hits[d] == 0 {
				key := d.String()
				ix.FreeIDs[key] = append(ix.FreeIDs[key], entry.PropertyID)
			}
			return true
		})
	}
	return ix, nil
}

// UnavailableDates lists the days on which no property is free, sorted
// ascending. Counts are clamped: a negative raw count still reads as zero.
func (ix Index) UnavailableDates() []string {
	var out []string
	for day, count := range ix.FreeCount {
		if count <= 0 {
			out = append(out, day)
		}
	}
	sort.Strings(out)
	return out
}
