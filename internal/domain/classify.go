package domain

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var firstIntRe = regexp.MustCompile(`\d+`)

// congestionWords are the condition-field keywords that mean traffic is
// backed up rather than flowing.
var congestionWords = []string{"ติดขัด", "หนาแน่น", "คับคั่ง"}

// Classification is the category decision for one row plus the
// human-readable detail composed from its source fields.
type Classification struct {
	Category     string
	Detail       string
	DrunkDrivers int
}

// Classify maps a row to one canonical category given its source sheet.
// The three sheets have structurally different columns and different
// primary signals, so each gets its own branch; a generic classifier would
// conflate unrelated fields.
func Classify(row RawRow, format SourceFormat) Classification {
	switch format {
	case SourceSafety:
		return classifySafety(row)
	case SourceEnforcement:
		return classifyEnforcement(row)
	case SourceTraffic:
		return classifyTraffic(row)
	default:
		detail := row.Pick(fragsIncident...)
		if detail == "" {
			detail = "-"
		}
		return Classification{Category: CategoryGeneral, Detail: detail}
	}
}

// classifySafety: every safety-sheet row is an accident report. The detail
// concatenates whichever narrative fields the officer filled in, with the
// suspected cause parenthesized.
func classifySafety(row RawRow) Classification {
	var parts []string
	if v := row.Pick(fragsNotable...); v != "" {
		parts = append(parts, v)
	}
	if v := row.Pick(fragsIncident...); v != "" {
		parts = append(parts, v)
	}
	if v := row.Pick(fragsCause...); v != "" {
		parts = append(parts, "("+v+")")
	}

	detail := strings.Join(parts, " ")
	if detail == "" {
		detail = "อุบัติเหตุ ไม่ระบุรายละเอียด"
	}
	return Classification{Category: CategoryAccident, Detail: detail}
}

// classifyEnforcement: an arrest-result longer than a single placeholder
// character means an arrest happened; otherwise the row documents a
// checkpoint operation. The drunk-driver count is the first integer in the
// quantity field ("2 ราย" → 2), zero when absent.
func classifyEnforcement(row RawRow) Classification {
	drunk := 0
	if m := firstIntRe.FindString(row.Pick(fragsQuantity...)); m != "" {
		drunk, _ = strconv.Atoi(m)
	}

	if result := row.Pick(fragsArrestResult...); utf8.RuneCountInString(result) > 1 {
		return Classification{Category: CategoryArrest, Detail: result, DrunkDrivers: drunk}
	}

	checkpoint := row.Pick(fragsCheckpoint...)
	if checkpoint == "" {
		checkpoint = "-"
	}
	return Classification{Category: CategoryCheckpoint, Detail: checkpoint, DrunkDrivers: drunk}
}

// classifyTraffic: the special-lane field is the primary signal; only when
// it says nothing does the congestion field decide between jam and normal.
func classifyTraffic(row RawRow) Classification {
	if lane := row.Pick(fragsSpecialLane...); lane != "" {
		if strings.HasPrefix(lane, "เปิด") {
			return Classification{Category: CategorySpecialLane, Detail: lane}
		}
		if mentionsLaneClosure(lane) {
			return Classification{Category: CategoryLaneClosed, Detail: lane}
		}
	}

	condition := row.Pick(fragsCondition...)
	for _, w := range congestionWords {
		if strings.Contains(condition, w) {
			detail := condition
			if tail := row.Pick(fragsTailLength...); tail != "" {
				detail += " ท้ายแถว " + tail
			}
			return Classification{Category: CategoryTrafficJam, Detail: detail}
		}
	}

	if condition == "" {
		condition = "-"
	}
	return Classification{Category: CategoryTrafficNormal, Detail: condition}
}

// mentionsLaneClosure reports whether free text announces a closure: either
// a cancellation word, or "ปิด" (close) that is not the tail of "เปิด"
// (open). The rune before each occurrence is checked because Thai writes
// the เ vowel ahead of the consonant, so a plain substring test on "ปิด"
// would also match every "เปิด".
func mentionsLaneClosure(text string) bool {
	if strings.Contains(text, "ยกเลิก") {
		return true
	}
	rest := text
	offset := 0
	for {
		i := strings.Index(rest, "ปิด")
		if i < 0 {
			return false
		}
		abs := offset + i
		prev, _ := utf8.DecodeLastRuneInString(text[:abs])
		if prev != 'เ' {
			return true
		}
		advance := i + len("ปิด")
		rest = rest[advance:]
		offset += advance
	}
}
