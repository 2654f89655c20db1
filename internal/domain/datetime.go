package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// bangkok is the fixed offset zone for all report timestamps. Officers file
// in local time and the sheets carry no zone information.
var bangkok = time.FixedZone("ICT", 7*60*60)

// NormalizeDate converts a heterogeneous date string into canonical
// YYYY-MM-DD Gregorian, or "" when the input cannot be a date.
//
// Source sheets mix DD/MM/YYYY and YYYY-MM-DD with no marker, Buddhist and
// Gregorian years, and 2-digit years, so normalization is heuristic:
//
//  1. "/", "-", whitespace and a literal "T" are equivalent delimiters;
//     the input must split into exactly three numeric parts.
//  2. first part < 32 with third part > 1900 is day-first; third part < 32
//     with first part > 31 is year-first; anything else defaults to the
//     Thai day-first convention.
//  3. years > 2400 are Buddhist Era (minus 543); years < 100 gain 2000.
//
// The day-first default is ambiguous when both day and month are <= 12 and
// the year token could be either form. That ambiguity is inherent to the
// source data and deliberately left as-is.
func NormalizeDate(raw string) string {
	parts := splitDateParts(raw)
	if len(parts) != 3 {
		return ""
	}

	day, month, year := parts[0], parts[1], parts[2]
	switch {
	case parts[0] < 32 && parts[2] > 1900:
		// day-first, explicit
	case parts[2] < 32 && parts[0] > 31:
		year, month, day = parts[0], parts[1], parts[2]
	}

	if year > 2400 {
		year -= 543
	}
	if year < 100 {
		year += 2000
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// splitDateParts tokenizes a raw date string into numeric fields.
// Returns nil unless exactly three numeric parts are present.
func splitDateParts(raw string) []int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	norm := strings.NewReplacer("/", " ", "-", " ", "T", " ").Replace(raw)

	fields := strings.Fields(norm)
	if len(fields) < 3 {
		return nil
	}
	parts := make([]int, 0, 3)
	for _, f := range fields[:3] {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil
		}
		parts = append(parts, n)
	}
	return parts
}

// NormalizeTime converts a raw time string into canonical 24-hour HH:MM.
//
// Accepts dotted separators ("14.30"), the Thai unit suffix ("08:00น.",
// "00.00 น"), and 12-hour AM/PM forms. Unparsable or missing input degrades
// to the sentinel "00:00": losing time precision must not drop the row.
func NormalizeTime(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "00:00"
	}

	// AM/PM markers can sit in a separate token ("4:30 PM"), so detect
	// them before narrowing down to the time token itself.
	upper := strings.ToUpper(raw)
	isPM := strings.Contains(upper, "PM")
	isAM := strings.Contains(upper, "AM")

	s := pickTimeToken(raw)
	s = strings.TrimSuffix(strings.TrimSuffix(strings.TrimSpace(s), "น."), "น")
	s = strings.ReplaceAll(s, ".", ":")

	s = keepDigitsAndColons(s)
	hourStr, minuteStr, _ := strings.Cut(s, ":")
	if hourStr == "" {
		return "00:00"
	}

	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return "00:00"
	}
	minute := 0
	if minuteStr != "" {
		// A second colon (seconds field) is ignored.
		mm, _, _ := strings.Cut(minuteStr, ":")
		if n, err := strconv.Atoi(mm); err == nil {
			minute = n
		}
	}

	if isPM && hour < 12 {
		hour += 12
	}
	if isAM && hour == 12 {
		hour = 0
	}
	// Defensive clamps: "24:00" means midnight in some reports; anything
	// beyond that is garbage and resets to 0.
	if hour > 23 {
		hour = 0
	}
	if minute > 59 {
		minute = 59
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// pickTimeToken extracts the time-looking token from a combined
// date+time string ("1/5/2569 14.30" → "14.30"). A lone token passes
// through untouched.
func pickTimeToken(raw string) string {
	fields := strings.Fields(strings.ReplaceAll(raw, "T", " "))
	if len(fields) <= 1 {
		return raw
	}
	for i := len(fields) - 1; i >= 0; i-- {
		f := fields[i]
		if strings.ContainsAny(f, ":.") && strings.ContainsAny(f, "0123456789") && !strings.Contains(f, "/") {
			return f
		}
	}
	return fields[len(fields)-1]
}

func keepDigitsAndColons(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ':' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// headerWords flag cells that still contain the sheet's own header text,
// which happens when an officer duplicates the header row mid-sheet.
var headerWords = []string{"วันที่", "หน่วย", "date", "unit"}

// IsNonDataRow reports whether the combined date+time text of a row cannot
// belong to a real report: either no digit appears anywhere, or the text
// still looks like a header label. Such rows abort record assembly.
func IsNonDataRow(dateRaw, timeRaw string) bool {
	combined := dateRaw + " " + timeRaw
	if !strings.ContainsAny(combined, "0123456789") {
		return true
	}
	lower := strings.ToLower(combined)
	for _, w := range headerWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// EpochMillis resolves a canonical date and time pair to epoch milliseconds
// in the Bangkok zone. Returns 0 when either part is unusable; callers must
// treat 0 as "unknown time", not the epoch.
func EpochMillis(date, hhmm string) int64 {
	if date == "" {
		return 0
	}
	t, err := time.ParseInLocation("2006-01-02T15:04", date+"T"+hhmm, bangkok)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}
