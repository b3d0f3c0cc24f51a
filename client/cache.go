package client

import (
	"context"
	"sort"

	"staycal/internal/domain/calendar"
)

// Cache keeps a monotonically growing loaded window of per-day
// available-property sets, fetching only the sub-ranges it has never seen.
// The day map is keyed by absolute dates, so merges from overlapping or
// out-of-order fetches collapse under set union and a late response for a
// stale selection is harmless.
type Cache struct {
	fetcher Fetcher

	loaded      bool
	loadedStart calendar.Date
	loadedEnd   calendar.Date

	days map[string]map[string]struct{}
}

func NewCache(fetcher Fetcher) *Cache {
	return &Cache{
		fetcher: fetcher,
		days:    make(map[string]map[string]struct{}),
	}
}

// LoadedWindow reports the widest range ever fetched. ok is false before the
// first successful fetch.
func (c *Cache) LoadedWindow() (from, to calendar.Date, ok bool) {
	return c.loadedStart, c.loadedEnd, c.loaded
}

// Select ensures the day map covers [from, to], fetching at most two missing
// sub-ranges at the window edges. An inverted range is a no-op. A failed
// fetch leaves the cache exactly as it was; a preceding extension in the
// same call that already merged stays merged.
func (c *Cache) Select(ctx context.Context, from, to calendar.Date) error {
	if from.After(to) {
		return nil
	}

	if !c.loaded {
		dayMap, err := c.fetcher.FetchDayMap(ctx, from, to)
		if err != nil {
			return err
		}
		c.merge(dayMap)
		c.loadedStart, c.loadedEnd = from, to
		c.loaded = true
		return nil
	}

	if from.Before(c.loadedStart) {
		dayMap, err := c.fetcher.FetchDayMap(ctx, from, c.loadedStart.AddDays(-1))
		if err != nil {
			return err
		}
		c.merge(dayMap)
		c.loadedStart = from
	}
	if to.After(c.loadedEnd) {
		dayMap, err := c.fetcher.FetchDayMap(ctx, c.loadedEnd.AddDays(1), to)
		if err != nil {
			return err
		}
		c.merge(dayMap)
		c.loadedEnd = to
	}
	return nil
}

// Merge unions a fetched day map into the cache. Exported so tests and
// prefetch effects can feed results directly; order of merges does not
// matter.
func (c *Cache) Merge(dayMap map[string][]string) {
	c.merge(dayMap)
}

func (c *Cache) merge(dayMap map[string][]string) {
	for day, ids := range dayMap {
		set, ok := c.days[day]
		if !ok {
			set = make(map[string]struct{}, len(ids))
			c.days[day] = set
		}
		for _, id := range ids {
			set[id] = struct{}{}
		}
	}
}

// AvailableOn returns the property IDs known to be free on the given day,
// sorted. A day never fetched yields nil.
func (c *Cache) AvailableOn(day calendar.Date) []string {
	set, ok := c.days[day.String()]
	if !ok {
		return nil
	}
	return sortedIDs(set)
}

// DisabledDays lists the days in [from, to] with no free property at all.
// Days outside the loaded window count as disabled, matching the calendar
// widget graying out dates it knows nothing about.
func (c *Cache) DisabledDays(from, to calendar.Date) []string {
	var out []string
	for day := from; !day.After(to); day = day.AddDays(1) {
		if len(c.days[day.String()]) == 0 {
			out = append(out, day.String())
		}
	}
	return out
}

// AvailableAcrossRange intersects the per-day sets over every day of
// [from, to]: the properties free on the whole range, not just some day.
// Any day with an empty set makes the result empty immediately.
func (c *Cache) AvailableAcrossRange(from, to calendar.Date) []string {
	if from.After(to) {
		return nil
	}

	var acc map[string]struct{}
	for day := from; !day.After(to); day = day.AddDays(1) {
		set := c.days[day.String()]
		if len(set) == 0 {
			return nil
		}
		if acc == nil {
			acc = make(map[string]struct{}, len(set))
			for id := range set {
				acc[id] = struct{}{}
			}
			continue
		}
		for id := range acc {
			if _, ok := set[id]; !ok {
				delete(acc, id)
			}
		}
		if len(acc) == 0 {
			return nil
		}
	}
	return sortedIDs(acc)
}

func sortedIDs(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
