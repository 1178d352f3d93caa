// Package alerting normalizes per-card alert configuration and state.
package alerting

import (
	"math"

	"scriptdeck/internal/models"
)

// Normalize coerces an arbitrary stored alert block into a valid config.
// Total: any input yields a usable value.
func Normalize(raw any) models.AlertConfig {
	m, _ := raw.(map[string]any)

	enabled, _ := m["enabled"].(bool)

	return models.AlertConfig{
		Enabled:   enabled,
		Operator:  pick(m["operator"], models.AlertOperators, models.DefaultAlertOperator),
		Threshold: threshold(m["threshold"]),
		State:     pick(m["state"], models.AlertStates, models.DefaultAlertState),
	}
}

func pick(raw any, allowed []string, fallback string) string {
	s, _ := raw.(string)
	for _, a := range allowed {
		if s == a {
			return a
		}
	}
	return fallback
}

func threshold(raw any) float64 {
	switch n := raw.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}
