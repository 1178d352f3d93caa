// Package normalize converts loosely-typed stored payloads into canonical
// settings snapshots. Every function in this package is total: malformed
// input maps to a documented default, never to an error. Payloads written
// by any prior application version, hand-edited files and arbitrary imports
// all converge to the same shape here.
package normalize

import (
	"math"
	"strings"

	"scriptdeck/internal/history"
	"scriptdeck/internal/models"
)

// Theme maps anything other than the literal dark marker to light.
func Theme(raw any) string {
	if s, ok := raw.(string); ok && s == models.ThemeDark {
		return models.ThemeDark
	}
	return models.ThemeLight
}

// Language restricts the locale tag to the supported set.
func Language(raw any) string {
	s, _ := raw.(string)
	return oneOf(s, models.SupportedLanguages, models.DefaultLanguage)
}

// Columns clamps the dashboard column count.
func Columns(raw any) int {
	return clampInt(raw, models.DefaultColumns, models.MinColumns, models.MaxColumns)
}

// Concurrency clamps the parallel script execution limit.
func Concurrency(raw any) int {
	return clampInt(raw, models.DefaultConcurrency, models.MinConcurrency, models.MaxConcurrency)
}

// HistoryCapacity clamps the default per-card history capacity.
func HistoryCapacity(raw any) int {
	return history.ClampCapacity(clampInt(raw, models.DefaultHistoryCapacity,
		models.MinHistoryCapacity, models.MaxHistoryCapacity))
}

// Position coerces grid coordinates (NaN and non-numbers become 0) and
// validates the size enum.
func Position(raw any) models.Position {
	m, _ := raw.(map[string]any)
	return models.Position{
		X:    numberOr(m["x"], 0),
		Y:    numberOr(m["y"], 0),
		Size: oneOf(stringOr(m["size"], ""), models.CardSizes, models.DefaultCardSize),
	}
}

// Refresh normalizes the card refresh policy.
func Refresh(raw any) models.RefreshPolicy {
	m, _ := raw.(map[string]any)
	return models.RefreshPolicy{
		Auto: boolOr(m["auto"]),
		IntervalSeconds: clampInt(m["interval_seconds"], models.DefaultRefreshInterval,
			models.MinRefreshInterval, models.MaxRefreshInterval),
	}
}

// Script normalizes the script invocation config. Path and interpreter are
// trimmed, non-string args dropped, timeout clamped into the supported
// window.
func Script(raw any) models.ScriptConfig {
	m, _ := raw.(map[string]any)

	var args []string
	if list, ok := m["args"].([]any); ok {
		for _, v := range list {
			if s, isStr := v.(string); isStr {
				args = append(args, s)
			}
		}
	}

	return models.ScriptConfig{
		Path:       strings.TrimSpace(stringOr(m["path"], "")),
		Args:       args,
		PythonPath: strings.TrimSpace(stringOr(m["python_path"], "")),
		TimeoutMS: clampInt(m["timeout_ms"], models.DefaultScriptTimeoutMS,
			models.MinScriptTimeoutMS, models.MaxScriptTimeoutMS),
	}
}

// Backup normalizes the backup policy block.
func Backup(raw any) models.BackupConfig {
	m, _ := raw.(map[string]any)
	return models.BackupConfig{
		Directory: strings.TrimSpace(stringOr(m["directory"], "")),
		Retention: clampInt(m["retention"], models.DefaultBackupRetention,
			models.MinBackupRetention, models.MaxBackupRetention),
		Auto:     boolOr(m["auto"]),
		Schedule: Schedule(m["schedule"]),
	}
}

// Schedule normalizes the backup schedule variant. Unknown kinds fall back
// to the default daily schedule; each variant keeps only its own fields.
func Schedule(raw any) models.BackupSchedule {
	m, _ := raw.(map[string]any)
	kind := stringOr(m["kind"], "")

	switch kind {
	case models.ScheduleDaily:
		return models.BackupSchedule{
			Kind:   models.ScheduleDaily,
			Hour:   clampInt(m["hour"], 3, 0, 23),
			Minute: clampInt(m["minute"], 0, 0, 59),
		}
	case models.ScheduleWeekly:
		return models.BackupSchedule{
			Kind:    models.ScheduleWeekly,
			Weekday: clampInt(m["weekday"], 0, 0, 6),
			Hour:    clampInt(m["hour"], 3, 0, 23),
			Minute:  clampInt(m["minute"], 0, 0, 59),
		}
	case models.ScheduleInterval:
		return models.BackupSchedule{
			Kind:         models.ScheduleInterval,
			EveryMinutes: intervalChoice(m["every_minutes"]),
		}
	default:
		return models.DefaultBackupSchedule()
	}
}

func intervalChoice(raw any) int {
	n, ok := finiteNumber(raw)
	if !ok {
		return models.DefaultIntervalMinutes
	}
	for _, choice := range models.IntervalChoices {
		if int(n) == choice {
			return choice
		}
	}
	return models.DefaultIntervalMinutes
}

// Section normalizes one section marker. Row is floored at zero, the column
// clamped to the active column count, styling enums restricted to their
// closed sets.
func Section(raw any, columns int, nextID func() string) models.Section {
	m, _ := raw.(map[string]any)

	id := strings.TrimSpace(stringOr(m["id"], ""))
	if id == "" {
		id = nextID()
	}

	maxColumn := columns - 1
	if maxColumn < 0 {
		maxColumn = 0
	}

	return models.Section{
		ID:      id,
		Title:   strings.TrimSpace(stringOr(m["title"], "")),
		Group:   strings.TrimSpace(stringOr(m["group"], "")),
		Row:     clampInt(m["row"], 0, 0, math.MaxInt32),
		Column:  clampInt(m["column"], 0, 0, maxColumn),
		Accent:  oneOf(stringOr(m["accent"], ""), models.SectionAccents, models.DefaultSectionAccent),
		Divider: oneOf(stringOr(m["divider"], ""), models.SectionDividers, models.DefaultSectionDivider),
	}
}

// --- coercion helpers -------------------------------------------------

func oneOf(s string, allowed []string, fallback string) string {
	for _, a := range allowed {
		if s == a {
			return a
		}
	}
	return fallback
}

// clampInt coerces raw to an integer, substituting fallback for anything
// non-numeric, then clamps into [min, max].
func clampInt(raw any, fallback, min, max int) int {
	n := fallback
	if f, ok := finiteNumber(raw); ok {
		n = int(f)
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

func numberOr(raw any, fallback float64) float64 {
	if f, ok := finiteNumber(raw); ok {
		return f
	}
	return fallback
}

func stringOr(raw any, fallback string) string {
	if s, ok := raw.(string); ok {
		return s
	}
	return fallback
}

func boolOr(raw any) bool {
	b, _ := raw.(bool)
	return b
}

// finiteNumber accepts the numeric types a JSON decode or a Go caller can
// produce. NaN and infinities are rejected, matching the "NaN treated as
// absent" coordinate rule.
func finiteNumber(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return finiteNumber(float64(n))
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
