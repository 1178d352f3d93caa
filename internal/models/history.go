package models

// History ring capacity bounds. The floor guarantees the ring is never
// zero-capacity, so cursor arithmetic never divides by zero.
const (
	MinHistoryCapacity     = 10
	MaxHistoryCapacity     = 500
	DefaultHistoryCapacity = 50
)

// MaxErrorSummaryLen bounds the single-line error summary stored per entry.
const MaxErrorSummaryLen = 220

// HistoryRing is a fixed-capacity execution log. Once Size reaches Capacity
// every append overwrites the oldest entry; Next always points at the slot
// the next append will use.
type HistoryRing struct {
	Capacity int            `json:"capacity"`
	Size     int            `json:"size"`
	Next     int            `json:"next_index"`
	Entries  []HistoryEntry `json:"entries"`
}

// HistoryEntry is one recorded script execution. Immutable once appended.
// ExitCode is nil when the process was killed or the code was never
// observed. Error carries the truncated single-line summary and is empty
// for successful runs.
type HistoryEntry struct {
	Timestamp  int64  `json:"timestamp"`
	DurationMS int64  `json:"duration_ms"`
	OK         bool   `json:"ok"`
	TimedOut   bool   `json:"timed_out"`
	ExitCode   *int   `json:"exit_code"`
	Error      string `json:"error,omitempty"`
}

// HistoryStats summarizes a sequence of entries for display.
type HistoryStats struct {
	Count        int
	Successes    int
	Failures     int
	SuccessRate  float64
	MeanDuration float64
	P50Duration  int64
	P90Duration  int64
}
