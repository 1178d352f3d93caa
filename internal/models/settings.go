// Package models contains the data structures used throughout scriptdeck.
package models

// CurrentSchemaVersion is stamped onto every snapshot a migration produces.
// Stored payloads carrying any other version (or none at all) are normalized
// on load.
const CurrentSchemaVersion = 3

// AllGroupsName is the reserved pseudo-group meaning "show every group".
// It is matched case-insensitively and never materialized as a real group.
const AllGroupsName = "All"

// Settings is the canonical snapshot of persisted dashboard configuration.
// It exclusively owns its groups, cards and sections; copies handed out by
// the normalization layer never alias the input.
type Settings struct {
	SchemaVersion   int          `json:"schema_version"`
	Theme           string       `json:"theme"`
	Language        string       `json:"language"`
	Columns         int          `json:"columns"`
	Concurrency     int          `json:"concurrency"`
	HistoryCapacity int          `json:"history_capacity"`
	Backup          BackupConfig `json:"backup_config"`
	ActiveGroup     string       `json:"active_group"`
	Groups          []Group      `json:"groups"`
	Cards           []Card       `json:"cards"`
	Sections        []Section    `json:"section_markers"`
	PythonPath      string       `json:"python_path,omitempty"`
}

// Group is one named card grouping. ID follows the pattern G<n> with n >= 1,
// Order matches the group's position in Settings.Groups.
type Group struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// Section is a visual divider placed on the dashboard grid.
type Section struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Group   string `json:"group"`
	Row     int    `json:"row"`
	Column  int    `json:"column"`
	Accent  string `json:"accent"`
	Divider string `json:"divider"`
}

// Themes.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// SupportedLanguages is the closed set of locale tags the UI ships with.
var SupportedLanguages = []string{"en", "de", "fr", "ja"}

// DefaultLanguage is used for any unsupported or missing locale tag.
const DefaultLanguage = "en"

// Numeric ranges for top-level snapshot fields.
const (
	MinColumns = 1
	MaxColumns = 12

	MinConcurrency = 1
	MaxConcurrency = 8

	DefaultColumns     = 4
	DefaultConcurrency = 2
)

// Section styling enums.
var (
	SectionAccents  = []string{"slate", "blue", "green", "amber", "red"}
	SectionDividers = []string{"line", "dashed", "none"}
)

// Section styling defaults.
const (
	DefaultSectionAccent  = "slate"
	DefaultSectionDivider = "line"
)
