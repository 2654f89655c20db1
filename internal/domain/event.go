package domain

// Cell is one labelled value from a source sheet row. Labels vary across
// sheet revisions and operators, so lookups go through RawRow.Pick rather
// than exact header names.
type Cell struct {
	Label string
	Value string
}

// RawRow is an ordered label→value mapping for a single spreadsheet row.
// It is ephemeral: produced by the sheets adapter, consumed once by the
// assembler, never stored.
type RawRow []Cell

// SourceFormat identifies which of the three officer-facing sheets a row
// came from. The classifier branches on it because each sheet has
// structurally different columns.
type SourceFormat string

const (
	SourceTraffic     SourceFormat = "traffic"
	SourceEnforcement SourceFormat = "enforcement"
	SourceSafety      SourceFormat = "safety"
)

// Category values are stable Thai literals. Report generation and the
// dashboard pattern-match on these exact strings, so they must never change.
const (
	CategoryGeneral       = "เหตุการณ์ทั่วไป"
	CategoryAccident      = "อุบัติเหตุ"
	CategoryArrest        = "จับกุม"
	CategoryCheckpoint    = "ว.43"
	CategorySpecialLane   = "ช่องทางพิเศษ"
	CategoryLaneClosed    = "ปิดช่องทางพิเศษ"
	CategoryTrafficJam    = "จราจรติดขัด"
	CategoryTrafficNormal = "จราจรปกติ"
)

// Unspecified is the no-data marker for road, km, and direction. It is
// distinct from the empty string: downstream consumers display it verbatim.
const Unspecified = "ไม่ระบุ"

// Direction literals for the two canonical carriageway directions. A free
// destination phrase ("มุ่งหน้า ...") is also a valid Direction value.
const (
	DirectionInbound  = "ขาเข้า"
	DirectionOutbound = "ขาออก"
)

// Event is the canonical normalized record. Immutable once assembled.
type Event struct {
	ID       string `json:"id"`
	Date     string `json:"date"` // YYYY-MM-DD, Gregorian
	Time     string `json:"time"` // HH:MM, 24-hour
	// Timestamp is epoch milliseconds of Date+Time in Asia/Bangkok.
	// 0 means "unknown time"; it sorts as oldest under the newest-first
	// display convention, which is the intended degradation.
	Timestamp int64 `json:"timestamp"`

	Division string `json:"division"` // "1".."8"
	Station  string `json:"station"`

	Category string `json:"category"`
	Detail   string `json:"detail"`

	Road      string `json:"road"`      // Unspecified when undetermined
	Km        string `json:"km"`        // may carry a "+" sub-offset
	Direction string `json:"direction"` // inbound/outbound/destination/Unspecified

	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`

	SourceFormat SourceFormat `json:"sourceFormat"`

	// DrunkDriverCount is only meaningful for enforcement rows.
	DrunkDriverCount int `json:"drunkDriverCount"`
}

// LaneInterval pairs one special-lane-open event with its best-matching
// close event, if any. Derived per query by the correlator, never persisted.
type LaneInterval struct {
	Open            Event  `json:"open"`
	Close           *Event `json:"close,omitempty"`
	DurationMinutes *int   `json:"durationMinutes,omitempty"`
	StillActive     bool   `json:"isStillActive"`
	OpenTooLong     bool   `json:"isOpenTooLong"`
}

// LaneStats is the correlator's aggregate output for the dashboard.
type LaneStats struct {
	ActiveCount int            `json:"activeCount"`
	OpenCount   int            `json:"openCount"`
	CloseCount  int            `json:"closeCount"`
	ActiveLanes []Event        `json:"activeLanes"`
	Lanes       []LaneInterval `json:"allEnhancedLanes"`
}
