// Package domain normalizes free-form highway-patrol incident reports into
// canonical events and reconstructs special-lane open/closed intervals.
//
// # Data Source
//
// Reports are authored by patrol officers as rows in three shared
// spreadsheets, one per report kind: traffic conditions, enforcement
// actions, and safety (accident) reports. Column headers drift across
// sheet revisions and operators, so field access goes through fragment
// matching (RawRow.Pick) rather than fixed header names.
//
// # Thai Data Conventions
//
// Dates:
//
//	Officers mix DD/MM/YYYY and YYYY-MM-DD with "/", "-", or space
//	separators, and years in Buddhist Era (พ.ศ. = Gregorian + 543),
//	Gregorian, or 2-digit shorthand. "01/01/2569" and "2026-01-01" both
//	normalize to "2026-01-01". See [NormalizeDate].
//
// Times:
//
//	24-hour with ":" or "." separators ("14.30" = 14:30), optional Thai
//	unit suffix "น."/"น", occasional 12-hour AM/PM forms. Unparsable time
//	degrades to the "00:00" sentinel; the row is kept. See [NormalizeTime].
//
// Organizational units:
//
//	กก. (division) identifies a regional sub-command "1".."8"; ส.ทล.
//	(station) a sub-unit within it. Division 8 operates the motorways:
//	its stations 1-4 exclusively patrol routes 7, 9, M6, and M81, so
//	their road identity overrides anything parsed from free text.
//
// Locations:
//
//	Road numbers appear as "ทางหลวงหมายเลข 32", "สาย 304", motorway
//	shorthand "M6", or a bare leading "35/..." prefix. Kilometer markers
//	as "กม.39+500", "(39+500)", or bare "39+500". Directions are ขาเข้า
//	(inbound), ขาออก (outbound), or a destination phrase "มุ่งหน้า X".
//	The sentinel "ไม่ระบุ" marks fields that could not be determined and
//	is distinct from the empty string.
//
// Special lanes:
//
//	ช่องทางพิเศษ is a temporarily opened extra lane (usually the
//	shoulder) relieving congestion. Open and close reports are filed
//	independently, by different officers, with no linking key; pairing
//	them back into intervals is [CorrelateLanes]'s job. Closure text is
//	detected by "ปิด" not written as the tail of "เปิด" — Thai writes
//	the เ vowel before the consonant, so naive substring matching on
//	"ปิด" would also match every "เปิด".
//
// # Degradation Policy
//
// Spreadsheet input is uncurated. The unit of failure is always one row:
// non-data rows and rows with no determinable location are dropped
// silently, everything else keeps the row and degrades the field (time →
// "00:00", timestamp → 0, out-of-bounds coordinates → nil). No function in
// this package returns an error for bad data, logs, or panics, and none
// performs I/O; everything is a pure transformation safe for concurrent
// use on independent inputs.
package domain
