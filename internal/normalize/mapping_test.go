package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptdeck/internal/models"
)

func TestMapping_DefaultsWhenEmpty(t *testing.T) {
	m := Mapping(models.KindScalar, nil)
	require.NotNil(t, m.Scalar)
	assert.Equal(t, "value", m.Scalar.ValueKey)
	assert.Equal(t, "unit", m.Scalar.UnitKey)
	assert.Nil(t, m.Series)
	assert.Nil(t, m.Status)
	assert.Nil(t, m.Gauge)
}

func TestMapping_LegacyFlatShape(t *testing.T) {
	// Legacy flat key on a scalar card: synthesized into the nested block,
	// untouched keys keep their variant default.
	m := Mapping(models.KindScalar, map[string]any{"value_key": "metrics.value"})
	require.NotNil(t, m.Scalar)
	assert.Equal(t, "metrics.value", m.Scalar.ValueKey)
	assert.Equal(t, "unit", m.Scalar.UnitKey)
}

func TestMapping_NestedOverridesLegacy(t *testing.T) {
	m := Mapping(models.KindScalar, map[string]any{
		"value_key": "legacy.value",
		"scalar":    map[string]any{"value_key": "nested.value"},
	})
	require.NotNil(t, m.Scalar)
	assert.Equal(t, "nested.value", m.Scalar.ValueKey)
}

func TestMapping_LayeringIsKeyByKey(t *testing.T) {
	// A partial nested block does not wipe legacy-detected keys.
	m := Mapping(models.KindStatus, map[string]any{
		"state_key": "legacy.state",
		"status":    map[string]any{"detail_key": "nested.detail"},
	})
	require.NotNil(t, m.Status)
	assert.Equal(t, "legacy.state", m.Status.StateKey)
	assert.Equal(t, "nested.detail", m.Status.DetailKey)
}

func TestMapping_SeriesMaxPointsClamped(t *testing.T) {
	m := Mapping(models.KindSeries, map[string]any{
		"series": map[string]any{"max_points": 100000.0},
	})
	require.NotNil(t, m.Series)
	assert.Equal(t, maxSeriesPoints, m.Series.MaxPoints)

	m = Mapping(models.KindSeries, map[string]any{"max_points": "lots"})
	assert.Equal(t, defaultSeriesPoints, m.Series.MaxPoints)
}

func TestMapping_GaugeDefaults(t *testing.T) {
	m := Mapping(models.KindGauge, map[string]any{"min_key": "floor"})
	require.NotNil(t, m.Gauge)
	assert.Equal(t, "floor", m.Gauge.MinKey)
	assert.Equal(t, "max", m.Gauge.MaxKey)
	assert.Equal(t, "value", m.Gauge.ValueKey)
}

func TestMapping_BlankStringsFallBack(t *testing.T) {
	m := Mapping(models.KindScalar, map[string]any{"value_key": ""})
	assert.Equal(t, "value", m.Scalar.ValueKey)

	m = Mapping(models.KindScalar, map[string]any{"value_key": 42.0})
	assert.Equal(t, "value", m.Scalar.ValueKey)
}

func TestMapping_OnlyCardKindBlockPopulated(t *testing.T) {
	m := Mapping(models.KindSeries, map[string]any{
		"scalar": map[string]any{"value_key": "x"},
		"series": map[string]any{"values_key": "y"},
	})
	assert.Nil(t, m.Scalar)
	require.NotNil(t, m.Series)
	assert.Equal(t, "y", m.Series.ValuesKey)
}
