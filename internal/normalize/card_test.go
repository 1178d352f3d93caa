package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptdeck/internal/identity"
	"scriptdeck/internal/models"
)

func testGroups() []models.Group {
	return []models.Group{
		{ID: "G1", Name: "Infra", Order: 0},
		{ID: "G2", Name: "Ops", Order: 1},
	}
}

func testPass() *cardPass {
	return newCardPass(testGroups(), &identity.Sequence{Prefix: "id"})
}

func TestNormalizeCard_Defaults(t *testing.T) {
	card := testPass().normalizeCard(map[string]any{})

	assert.Equal(t, "id-1", card.ID)
	assert.Equal(t, DefaultCardTitle, card.Title)
	assert.Equal(t, "Infra", card.Group)
	assert.Equal(t, models.KindScalar, card.Kind)
	assert.Equal(t, "G1-C1", card.BusinessID)
	assert.Nil(t, card.LastResult)
	assert.Nil(t, card.History)
	require.NotNil(t, card.Mapping.Scalar)
}

func TestNormalizeCard_KeepsStoredID(t *testing.T) {
	card := testPass().normalizeCard(map[string]any{"id": "abc-123"})
	assert.Equal(t, "abc-123", card.ID)
}

func TestNormalizeCard_UnknownGroupFallsBackToFirst(t *testing.T) {
	card := testPass().normalizeCard(map[string]any{"group": "Missing"})
	assert.Equal(t, "Infra", card.Group)
	assert.Equal(t, "G1-C1", card.BusinessID)
}

func TestNormalizeCard_BusinessIDKeptWhenGroupMatches(t *testing.T) {
	card := testPass().normalizeCard(map[string]any{
		"group":       "Ops",
		"business_id": "G2-C7",
	})
	assert.Equal(t, "G2-C7", card.BusinessID)
}

func TestNormalizeCard_BusinessIDReassignedOnGroupMismatch(t *testing.T) {
	// Stored id encodes group 1 but the card resolves to group 2.
	card := testPass().normalizeCard(map[string]any{
		"group":       "Ops",
		"business_id": "G1-C3",
	})
	assert.Equal(t, "G2-C1", card.BusinessID)
}

func TestNormalizeCard_BusinessIDCollisionReassigned(t *testing.T) {
	pass := testPass()

	first := pass.normalizeCard(map[string]any{"group": "Infra", "business_id": "G1-C2"})
	second := pass.normalizeCard(map[string]any{"group": "Infra", "business_id": "G1-C2"})

	assert.Equal(t, "G1-C2", first.BusinessID)
	assert.Equal(t, "G1-C3", second.BusinessID)
}

func TestNormalizeCard_SynthesisSkipsSeenIDs(t *testing.T) {
	pass := testPass()

	// Synthesized ids within one pass stay distinct.
	a := pass.normalizeCard(map[string]any{"group": "Infra"})
	b := pass.normalizeCard(map[string]any{"group": "Infra"})
	c := pass.normalizeCard(map[string]any{"group": "Ops"})

	assert.Equal(t, "G1-C1", a.BusinessID)
	assert.Equal(t, "G1-C2", b.BusinessID)
	assert.Equal(t, "G2-C1", c.BusinessID)
}

func TestNormalizeCard_InvalidBusinessIDPatterns(t *testing.T) {
	for _, bad := range []string{"G1C1", "G0-C1", "G1-C0", "g1-c1", "G1-C01", "card-9"} {
		card := testPass().normalizeCard(map[string]any{"business_id": bad})
		assert.Equal(t, "G1-C1", card.BusinessID, "stored %q", bad)
	}
}

func TestNormalizeCard_UnknownKindDefaultsToScalar(t *testing.T) {
	card := testPass().normalizeCard(map[string]any{"kind": "sparkline"})
	assert.Equal(t, models.KindScalar, card.Kind)
	assert.NotNil(t, card.Mapping.Scalar)
}

func TestNormalizeCard_HistoryNormalized(t *testing.T) {
	card := testPass().normalizeCard(map[string]any{
		"history": map[string]any{
			"capacity": 20.0,
			"entries": []any{
				map[string]any{"timestamp": 1000.0, "ok": true},
				"garbage",
			},
		},
	})

	require.NotNil(t, card.History)
	assert.Equal(t, 20, card.History.Capacity)
	assert.Equal(t, 1, card.History.Size)
}

func TestNormalizeCard_LastResult(t *testing.T) {
	card := testPass().normalizeCard(map[string]any{
		"last_result": map[string]any{"value": "73.5", "unit": "%", "timestamp": 1700000000.0},
	})
	require.NotNil(t, card.LastResult)
	assert.Equal(t, "73.5", card.LastResult.Value)
	assert.Equal(t, "%", card.LastResult.Unit)

	card = testPass().normalizeCard(map[string]any{
		"last_result": map[string]any{"value": ""},
	})
	assert.Nil(t, card.LastResult)

	card = testPass().normalizeCard(map[string]any{"last_result": "stale"})
	assert.Nil(t, card.LastResult)
}
