package property

import "staycal/internal/domain/calendar"

// FilterAvailable keeps the properties free over the whole [from, to] range
// with room for at least minCapacity guests. Each property is evaluated on
// its own record; input order is preserved.
func FilterAvailable(props []*Property, from, to calendar.Date, minCapacity int) []*Property {
	out := make([]*Property, 0, len(props))
	for _, p := range props {
		if !p.Active {
			continue
		}
		if minCapacity > 0 && p.MaxPeople < minCapacity {
			continue
		}
		if !p.Availability.IsRangeAvailable(from, to) {
			continue
		}
		out = append(out, p)
	}
	return out
}
