package domain

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// roadPhraseRe matches explicit route references in free text:
	// "ทางหลวงหมายเลข 32", "ทล.1", "สาย 304", "หมายเลข 9".
	roadPhraseRe = regexp.MustCompile(`(?:ทางหลวง(?:หมายเลข)?|ทล\.?|สาย|หมายเลข)\s*(\d+)`)

	// motorwayShortRe matches the motorway shorthand "M6" / "M 81". The
	// leading position or non-letter guard keeps it from firing inside
	// "km.39" style kilometer markers.
	motorwayShortRe = regexp.MustCompile(`(?:^|[^a-zA-Zก-๙])[Mm]\.?\s*(\d+)`)

	// motorwayWordRe matches "มอเตอร์เวย์ 6" and similar spellings.
	motorwayWordRe = regexp.MustCompile(`มอเตอร์เวย์(?:หมายเลข)?\s*[Mม]?\.?\s*(\d+)`)

	// leadingRoadRe matches the officer shorthand of a bare road number
	// prefix: "35/ขาออก กม.12".
	leadingRoadRe = regexp.MustCompile(`^(\d+)\s*/`)

	// Kilometer markers: "กม.39+500", "(39+500)", bare "39+500".
	kmMarkerRe = regexp.MustCompile(`กม\.?\s*(\d+(?:\+\d+)?)`)
	kmParenRe  = regexp.MustCompile(`\((\d+\+\d+)\)`)
	kmBareRe   = regexp.MustCompile(`(\d+\+\d+)`)

	// headingRe captures the destination of a "มุ่งหน้า <place>" phrase.
	headingRe = regexp.MustCompile(`มุ่งหน้า\s*(\S+)`)
)

// Location is the where of an event before it is folded into the Event.
type Location struct {
	Road      string
	Km        string
	Direction string
	Place     string // raw free-text location description, may be ""
}

// motorwayStationRoads maps division 8 stations to the motorway each one
// exclusively patrols. Their road identity is known a priori and beats any
// value parsed out of free text.
var motorwayStationRoads = map[string]string{
	"1": "7",
	"2": "9",
	"3": "M6",
	"4": "M81",
}

const motorwayDivision = "8"

// ExtractLocation resolves road, km marker, and direction for a row.
// Explicit structured columns win; free-text extraction from the location
// description fills whatever they leave empty. The second return value is
// false when the row carries no road and no location text at all — such a
// row cannot be meaningfully placed and must be dropped.
func ExtractLocation(row RawRow, division, station string) (Location, bool) {
	loc := Location{
		Road:      row.Pick(fragsRoad...),
		Km:        row.Pick(fragsKm...),
		Direction: row.Pick(fragsDir...),
		Place:     row.Pick(fragsPlace...),
	}

	if loc.Road == "" {
		loc.Road = extractRoad(loc.Place)
	}
	if loc.Km == "" {
		loc.Km = extractKm(loc.Place)
	}
	if loc.Direction == "" {
		loc.Direction = extractDirection(loc.Place)
	}

	if division == motorwayDivision {
		if road, ok := motorwayStationRoads[station]; ok {
			loc.Road = road
		}
	}

	if loc.Road == "" && loc.Place == "" {
		return Location{}, false
	}

	if loc.Road == "" {
		loc.Road = Unspecified
	}
	if loc.Km == "" {
		loc.Km = Unspecified
	}
	if loc.Direction == "" {
		loc.Direction = Unspecified
	}
	return loc, true
}

// extractRoad pulls a road identifier out of free text. First match wins,
// most explicit pattern first.
func extractRoad(text string) string {
	if text == "" {
		return ""
	}
	if m := roadPhraseRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := motorwayWordRe.FindStringSubmatch(text); m != nil {
		return "M" + m[1]
	}
	if m := motorwayShortRe.FindStringSubmatch(text); m != nil {
		return "M" + m[1]
	}
	if m := leadingRoadRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func extractKm(text string) string {
	if text == "" {
		return ""
	}
	if m := kmMarkerRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := kmParenRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := kmBareRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// extractDirection looks for the canonical carriageway keywords, then for a
// destination phrase whose target becomes the direction label.
func extractDirection(text string) string {
	if text == "" {
		return ""
	}
	if strings.Contains(text, DirectionInbound) {
		return DirectionInbound
	}
	if strings.Contains(text, DirectionOutbound) {
		return DirectionOutbound
	}
	if m := headingRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// Thailand's bounding box. Coordinates outside it are officer typos
// (swapped digits, missing decimal points) and become nil rather than a
// misplaced map pin.
const (
	minLat, maxLat = 5.0, 21.0
	minLng, maxLng = 97.0, 106.0
)

// ParseCoordinates reads optional lat/lng columns and validates them
// against the Thailand bounding box. Either both values are returned or
// neither.
func ParseCoordinates(row RawRow) (*float64, *float64) {
	lat, errLat := strconv.ParseFloat(row.Pick(fragsLat...), 64)
	lng, errLng := strconv.ParseFloat(row.Pick(fragsLng...), 64)
	if errLat != nil || errLng != nil {
		return nil, nil
	}
	if lat < minLat || lat > maxLat || lng < minLng || lng > maxLng {
		return nil, nil
	}
	return &lat, &lng
}
