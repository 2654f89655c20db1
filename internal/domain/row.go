package domain

import "strings"

// Pick returns the trimmed value of the first cell whose label contains any
// of the candidate fragments, checked in candidate order. Matching is
// case-insensitive because the source sheets vary header text across time
// and operator ("เวลา", "เวลาเกิดเหตุ", "Time (เวลา)" all mean the time
// column). Returns "" when nothing matches or the matched value is blank.
func (r RawRow) Pick(fragments ...string) string {
	for _, frag := range fragments {
		needle := strings.ToLower(frag)
		for _, cell := range r {
			if strings.Contains(strings.ToLower(cell.Label), needle) {
				return strings.TrimSpace(cell.Value)
			}
		}
	}
	return ""
}

// Header fragment synonym sets for the logical fields the assembler needs.
// Keeping them in one place is what lets Pick stay a dumb lookup.
var (
	fragsDate     = []string{"วันที่", "วัน/เดือน/ปี", "date"}
	fragsTime     = []string{"เวลา", "time"}
	fragsDivision = []string{"กก.", "กองกำกับ", "division"}
	fragsStation  = []string{"ส.ทล.", "สถานี", "station"}
	// "ทล." alone is unusable here: the station header "ส.ทล." contains it.
	fragsRoad     = []string{"ทางหลวงหมายเลข", "หมายเลขทางหลวง", "สายทาง", "road"}
	fragsKm       = []string{"กม.", "กิโลเมตร", "km"}
	fragsDir      = []string{"ทิศทาง", "ขาเข้า/ขาออก", "direction"}
	fragsPlace    = []string{"สถานที่", "จุดเกิดเหตุ", "บริเวณ", "location"}
	fragsLat      = []string{"ละติจูด", "lat"}
	fragsLng      = []string{"ลองจิจูด", "lng", "lon"}

	// Traffic sheet.
	fragsSpecialLane = []string{"ช่องทางพิเศษ", "เปิด/ปิดช่องทาง"}
	fragsCondition   = []string{"สภาพการจราจร", "สภาพจราจร", "การจราจร"}
	fragsTailLength  = []string{"ระยะท้ายแถว", "ท้ายแถว"}

	// Enforcement sheet.
	fragsArrestResult = []string{"ผลการจับกุม", "ผลการดำเนินการ"}
	fragsCheckpoint   = []string{"จุดตรวจ", "ว.43", "ด่านตรวจ"}
	fragsQuantity     = []string{"จำนวน", "เมาแล้วขับ"}

	// Safety sheet.
	fragsNotable  = []string{"เหตุการณ์สำคัญ", "เหตุการณ์เด่น"}
	// A bare "เหตุการณ์" fragment would also match the notable-incident
	// column, duplicating its text into the detail.
	fragsIncident = []string{"เหตุการณ์ทั่วไป", "รายละเอียดเหตุการณ์"}
	fragsCause    = []string{"สาเหตุ", "มูลเหตุสันนิษฐาน"}
)
