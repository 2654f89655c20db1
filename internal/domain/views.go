package domain

import "sort"

// Display-facing filters and groupings. All of them copy; the input slice
// is never reordered or mutated.

// FilterEvents returns the events matching every non-empty criterion.
// Division matches the event's division, category the exact Thai literal,
// and date the canonical YYYY-MM-DD string.
func FilterEvents(events []Event, division, category, date string) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if division != "" && e.Division != division {
			continue
		}
		if category != "" && e.Category != category {
			continue
		}
		if date != "" && e.Date != date {
			continue
		}
		out = append(out, e)
	}
	return out
}

// SortNewestFirst orders a copy of the events by timestamp descending.
// Unknown timestamps (0) sort last, which is the intended graceful
// degradation for rows whose time could not be resolved.
func SortNewestFirst(events []Event) []Event {
	out := make([]Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}

// CountByCategory tallies events per canonical category.
func CountByCategory(events []Event) map[string]int {
	counts := make(map[string]int)
	for _, e := range events {
		counts[e.Category]++
	}
	return counts
}

// CountByDivision tallies events per division identifier.
func CountByDivision(events []Event) map[string]int {
	counts := make(map[string]int)
	for _, e := range events {
		counts[e.Division]++
	}
	return counts
}
