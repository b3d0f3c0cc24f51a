package dto

import "staycal/internal/domain/availability"

// CalendarIndex is the shared-calendar view: per-day free-property counts
// plus the days with nothing free at all.
type CalendarIndex struct {
	UnavailableDates    []string       `json:"unavailableDates"`
	TotalProperties     int            `json:"totalProperties"`
	DateAvailabilityMap map[string]int `json:"dateAvailabilityMap"`
}

// AvailabilityMap feeds the incremental client cache: for every day in the
// window the IDs of the properties free on that day.
type AvailabilityMap struct {
	Days map[string][]string `json:"days"`
}

func MapCalendarIndex(ix availability.Index) CalendarIndex {
	out := CalendarIndex{
		UnavailableDates:    ix.UnavailableDates(),
		TotalProperties:     ix.TotalProperties,
		DateAvailabilityMap: make(map[string]int, len(ix.FreeCount)),
	}
	if out.UnavailableDates == nil {
		out.UnavailableDates = []string{}
	}
	for day, count := range ix.FreeCount {
		out.DateAvailabilityMap[day] = count
	}
	return out
}

func MapAvailabilityMap(ix availability.Index) AvailabilityMap {
	out := AvailabilityMap{Days: make(map[string][]string, len(ix.FreeCount))}
	for day := range ix.FreeCount {
		ids := ix.FreeIDs[day]
		if ids == nil {
			ids = []string{}
		}
		out.Days[day] = ids
	}
	return out
}
