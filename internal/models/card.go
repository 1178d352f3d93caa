package models

// CardKind is the closed set of card variants.
const (
	KindScalar = "scalar"
	KindSeries = "series"
	KindStatus = "status"
	KindGauge  = "gauge"
)

// CardKinds lists every valid card variant; unrecognized kinds default to
// scalar during migration.
var CardKinds = []string{KindScalar, KindSeries, KindStatus, KindGauge}

// DefaultCardKind is used when a stored kind is missing or unrecognized.
const DefaultCardKind = KindScalar

// Card is one monitored tile on the dashboard. ID is the stable internal
// identifier, BusinessID the human-facing per-group sequential one
// (G<n>-C<m>).
type Card struct {
	ID         string        `json:"id"`
	BusinessID string        `json:"business_id"`
	Title      string        `json:"title"`
	Group      string        `json:"group"`
	Kind       string        `json:"kind"`
	Script     ScriptConfig  `json:"script"`
	Mapping    Mapping       `json:"mapping"`
	Refresh    RefreshPolicy `json:"refresh"`
	Position   Position      `json:"position"`
	Alert      AlertConfig   `json:"alert"`
	LastResult *CardResult   `json:"last_result,omitempty"`
	History    *HistoryRing  `json:"history,omitempty"`

	// Running tracks an in-flight script execution. Runtime-only; the
	// sanitize-for-write pass always clears it before persisting.
	Running bool `json:"running,omitempty"`
}

// Mapping holds the type-specific extraction config. Exactly the block
// matching the card's kind is populated after migration.
type Mapping struct {
	Scalar *ScalarMapping `json:"scalar,omitempty"`
	Series *SeriesMapping `json:"series,omitempty"`
	Status *StatusMapping `json:"status,omitempty"`
	Gauge  *GaugeMapping  `json:"gauge,omitempty"`
}

// ScalarMapping extracts a single value plus unit from script output.
type ScalarMapping struct {
	ValueKey string `json:"value_key"`
	UnitKey  string `json:"unit_key"`
}

// SeriesMapping extracts a bounded series of points.
type SeriesMapping struct {
	ValuesKey string `json:"values_key"`
	LabelsKey string `json:"labels_key"`
	MaxPoints int    `json:"max_points"`
}

// StatusMapping extracts a state string plus optional detail text.
type StatusMapping struct {
	StateKey  string `json:"state_key"`
	DetailKey string `json:"detail_key"`
}

// GaugeMapping extracts a value bounded by min/max.
type GaugeMapping struct {
	ValueKey string `json:"value_key"`
	MinKey   string `json:"min_key"`
	MaxKey   string `json:"max_key"`
}

// RefreshPolicy controls periodic re-execution of the card's script.
type RefreshPolicy struct {
	Auto            bool `json:"auto"`
	IntervalSeconds int  `json:"interval_seconds"`
}

// Refresh interval bounds (seconds).
const (
	MinRefreshInterval     = 5
	MaxRefreshInterval     = 86400
	DefaultRefreshInterval = 60
)

// Position is the card's placement on the dashboard grid.
type Position struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size string  `json:"size"`
}

// Card size enum.
var CardSizes = []string{"small", "medium", "large", "wide"}

// DefaultCardSize is used for missing or unrecognized sizes.
const DefaultCardSize = "medium"

// AlertConfig holds threshold alerting config and its last evaluated state.
type AlertConfig struct {
	Enabled   bool    `json:"enabled"`
	Operator  string  `json:"operator"`
	Threshold float64 `json:"threshold"`
	State     string  `json:"state"`
}

// Alert operator and state enums.
var (
	AlertOperators = []string{"gt", "ge", "lt", "le", "eq", "ne"}
	AlertStates    = []string{"ok", "firing", "unknown"}
)

// Alert defaults.
const (
	DefaultAlertOperator = "gt"
	DefaultAlertState    = "unknown"
)

// CardResult caches the last successful extraction for display before the
// first refresh completes.
type CardResult struct {
	Value     string `json:"value"`
	Unit      string `json:"unit,omitempty"`
	Timestamp int64  `json:"timestamp"`
}
