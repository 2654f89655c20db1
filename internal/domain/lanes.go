package domain

import "sort"

const (
	// laneCloseWindowMillis bounds how far after an open report a close
	// report may still refer to the same physical closure. An open report
	// older than 12 hours with no close inside the window is assumed to
	// have a missing close record, not a match with some unrelated later
	// event.
	laneCloseWindowMillis = int64(12 * 60 * 60 * 1000)

	// openTooLongMinutes flags special lanes left open past the
	// operational limit.
	openTooLongMinutes = 240
)

// CorrelateLanes reconstructs special-lane open/closed intervals from the
// given event set. Open and close reports are filed independently by
// different officers with no shared key, so pairing is evidence-based:
// for each open event the earliest close event that is causally later,
// inside the 12-hour window, and matches at least one identity rule wins.
//
// Close events are deliberately reusable across opens — duplicate open
// reports for the same physical closure all legitimately pair with the one
// close report. The matching is greedy, not globally optimal; report
// volume is low enough that earliest-match approximates operator intent.
//
// The computation is a pure function of the full event set and is redone
// from scratch on every call.
func CorrelateLanes(events []Event) LaneStats {
	var opens, closes []Event
	for _, e := range events {
		switch e.Category {
		case CategorySpecialLane:
			opens = append(opens, e)
		case CategoryLaneClosed:
			closes = append(closes, e)
		}
	}
	sortByTimestampAsc(opens)
	sortByTimestampAsc(closes)

	stats := LaneStats{
		OpenCount:   len(opens),
		CloseCount:  len(closes),
		ActiveLanes: []Event{},
		Lanes:       make([]LaneInterval, 0, len(opens)),
	}

	for _, open := range opens {
		interval := LaneInterval{Open: open, StillActive: true}
		for i := range closes {
			if !isCloseCandidate(open, closes[i]) {
				continue
			}
			// closes are sorted ascending, so the first candidate is
			// the earliest valid close.
			matched := closes[i]
			minutes := int((matched.Timestamp - open.Timestamp) / 60000)
			interval.Close = &matched
			interval.DurationMinutes = &minutes
			interval.StillActive = false
			interval.OpenTooLong = minutes > openTooLongMinutes
			break
		}
		if interval.StillActive {
			stats.ActiveCount++
			stats.ActiveLanes = append(stats.ActiveLanes, open)
		}
		stats.Lanes = append(stats.Lanes, interval)
	}
	return stats
}

// isCloseCandidate applies causality, the closure window, and the identity
// rules. The true correlating key between an open and a close report is
// unknown, so three rules of descending specificity each count as
// sufficient evidence: same division and station, same road within a
// division, or same road and kilometer marker.
func isCloseCandidate(open, closeEv Event) bool {
	if closeEv.Timestamp <= open.Timestamp {
		return false
	}
	if closeEv.Timestamp-open.Timestamp >= laneCloseWindowMillis {
		return false
	}

	if open.Division == closeEv.Division && open.Station == closeEv.Station {
		return true
	}
	if open.Road != Unspecified && open.Road == closeEv.Road && open.Division == closeEv.Division {
		return true
	}
	if open.Road != Unspecified && open.Km != Unspecified &&
		open.Road == closeEv.Road && open.Km == closeEv.Km {
		return true
	}
	return false
}

func sortByTimestampAsc(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp < events[j].Timestamp
	})
}
