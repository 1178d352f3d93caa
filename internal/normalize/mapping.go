package normalize

import "scriptdeck/internal/models"

// Series point bounds.
const (
	minSeriesPoints     = 2
	maxSeriesPoints     = 500
	defaultSeriesPoints = 60
)

// mappingKeys lists, per card kind, the keys of its variant block. The same
// names double as the legacy flat keys older versions stored directly under
// the mapping object.
var mappingKeys = map[string][]string{
	models.KindScalar: {"value_key", "unit_key"},
	models.KindSeries: {"values_key", "labels_key", "max_points"},
	models.KindStatus: {"state_key", "detail_key"},
	models.KindGauge:  {"value_key", "min_key", "max_key"},
}

// mappingDefaults holds the variant default for every key.
var mappingDefaults = map[string]map[string]any{
	models.KindScalar: {"value_key": "value", "unit_key": "unit"},
	models.KindSeries: {"values_key": "values", "labels_key": "labels", "max_points": defaultSeriesPoints},
	models.KindStatus: {"state_key": "status", "detail_key": "detail"},
	models.KindGauge:  {"value_key": "value", "min_key": "min", "max_key": "max"},
}

// Mapping builds the canonical mapping for a card of the given kind. Two
// historical input shapes are supported: the current nested-by-variant
// shape and the legacy flat shape where keys lived directly under the
// mapping object. Layering is key-by-key: variant defaults, then
// legacy-detected keys, then explicit nested keys.
func Mapping(kind string, raw any) models.Mapping {
	m, _ := raw.(map[string]any)

	merged := map[string]any{}
	for key, def := range mappingDefaults[kind] {
		merged[key] = def
	}
	for _, key := range mappingKeys[kind] {
		if v, present := m[key]; present {
			merged[key] = v
		}
	}
	if nested, ok := m[kind].(map[string]any); ok {
		for _, key := range mappingKeys[kind] {
			if v, present := nested[key]; present {
				merged[key] = v
			}
		}
	}

	switch kind {
	case models.KindSeries:
		return models.Mapping{Series: &models.SeriesMapping{
			ValuesKey: mappedString(merged, "values_key", kind),
			LabelsKey: mappedString(merged, "labels_key", kind),
			MaxPoints: clampInt(merged["max_points"], defaultSeriesPoints, minSeriesPoints, maxSeriesPoints),
		}}
	case models.KindStatus:
		return models.Mapping{Status: &models.StatusMapping{
			StateKey:  mappedString(merged, "state_key", kind),
			DetailKey: mappedString(merged, "detail_key", kind),
		}}
	case models.KindGauge:
		return models.Mapping{Gauge: &models.GaugeMapping{
			ValueKey: mappedString(merged, "value_key", kind),
			MinKey:   mappedString(merged, "min_key", kind),
			MaxKey:   mappedString(merged, "max_key", kind),
		}}
	default:
		return models.Mapping{Scalar: &models.ScalarMapping{
			ValueKey: mappedString(merged, "value_key", kind),
			UnitKey:  mappedString(merged, "unit_key", kind),
		}}
	}
}

// mappedString coerces a merged mapping value to a non-blank string,
// falling back to the variant default.
func mappedString(merged map[string]any, key, kind string) string {
	if s, ok := merged[key].(string); ok && s != "" {
		return s
	}
	def, _ := mappingDefaults[kind][key].(string)
	return def
}
