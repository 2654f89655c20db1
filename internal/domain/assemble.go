package domain

import "fmt"

// Drop reasons reported by the assembly pass.
const (
	DropNonData    = "non_data"
	DropNoLocation = "no_location"
)

// AssembleEvent normalizes one raw sheet row into a canonical Event.
// Returns nil when the row is not a data row at all, or when it carries no
// usable location. Everything else degrades per field: unparsable time
// becomes "00:00", an unresolvable timestamp becomes 0, out-of-bounds
// coordinates become nil. One bad row must never abort a batch, so this
// function returns no error.
func AssembleEvent(row RawRow, format SourceFormat, index int) *Event {
	e, _ := assembleRow(row, format, index)
	return e
}

// assembleRow is AssembleEvent plus the reason a row was dropped, empty when
// the row produced an event.
func assembleRow(row RawRow, format SourceFormat, index int) (*Event, string) {
	dateRaw := row.Pick(fragsDate...)
	timeRaw := row.Pick(fragsTime...)
	if IsNonDataRow(dateRaw, timeRaw) {
		return nil, DropNonData
	}

	date := NormalizeDate(dateRaw)
	if date == "" {
		return nil, DropNonData
	}

	// Some sheet revisions keep a single combined timestamp column; the
	// time normalizer digs the time token out of it.
	timeSource := timeRaw
	if timeSource == "" {
		timeSource = dateRaw
	}
	hhmm := NormalizeTime(timeSource)

	division := numericToken(row.Pick(fragsDivision...))
	station := numericToken(row.Pick(fragsStation...))

	loc, ok := ExtractLocation(row, division, station)
	if !ok {
		return nil, DropNoLocation
	}

	cls := Classify(row, format)
	lat, lng := ParseCoordinates(row)

	e := &Event{
		ID:               fmt.Sprintf("%s-%d", format, index),
		Date:             date,
		Time:             hhmm,
		Timestamp:        EpochMillis(date, hhmm),
		Division:         division,
		Station:          station,
		Category:         cls.Category,
		Detail:           cls.Detail,
		Road:             loc.Road,
		Km:               loc.Km,
		Direction:        loc.Direction,
		Lat:              lat,
		Lng:              lng,
		SourceFormat:     format,
		DrunkDriverCount: cls.DrunkDrivers,
	}
	return e, ""
}

// AssembleEvents runs AssembleEvent over a whole sheet, skipping dropped
// rows. Event IDs are per source-format row indices, so re-running over the
// same rows always reproduces the same list.
func AssembleEvents(rows []RawRow, format SourceFormat) []Event {
	events, _ := AssembleSheet(rows, format)
	return events
}

// AssembleSheet is AssembleEvents plus per-reason drop counts for the
// observability layer.
func AssembleSheet(rows []RawRow, format SourceFormat) ([]Event, map[string]int) {
	events := make([]Event, 0, len(rows))
	dropped := map[string]int{}
	for i, row := range rows {
		e, reason := assembleRow(row, format, i)
		if e == nil {
			dropped[reason]++
			continue
		}
		events = append(events, *e)
	}
	return events, dropped
}

// numericToken strips unit decorations from identifiers like "กก.6" or
// "ส.ทล.3" down to the bare number. Values with no digits pass through
// unchanged; stations are free strings by contract.
func numericToken(s string) string {
	if m := firstIntRe.FindString(s); m != "" {
		return m
	}
	return s
}
