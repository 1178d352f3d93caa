package normalize

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptdeck/internal/models"
)

func cardsNamed(groups ...string) []any {
	var cards []any
	for _, g := range groups {
		cards = append(cards, map[string]any{"group": g})
	}
	return cards
}

func TestReconcileGroups_FromCardsOnly(t *testing.T) {
	// No explicit group array: two cards in "Infra" and "Ops".
	payload := map[string]any{"cards": cardsNamed("Infra", "Ops")}

	groups := ReconcileGroups(payload, models.AllGroupsName)
	require.Equal(t, []models.Group{
		{ID: "G1", Name: "Infra", Order: 0},
		{ID: "G2", Name: "Ops", Order: 1},
	}, groups)
}

func TestReconcileGroups_EmptyYieldsDefault(t *testing.T) {
	groups := ReconcileGroups(map[string]any{}, models.AllGroupsName)
	require.Equal(t, []models.Group{{ID: "G1", Name: DefaultGroupName, Order: 0}}, groups)
}

func TestReconcileGroups_ExplicitSortedByOrderThenName(t *testing.T) {
	payload := map[string]any{
		"groups": []any{
			map[string]any{"name": "Zeta", "order": 1.0},
			map[string]any{"name": "Beta", "order": 0.0},
			map[string]any{"name": "Alpha", "order": 0.0},
		},
	}

	groups := ReconcileGroups(payload, models.AllGroupsName)
	require.Len(t, groups, 3)
	assert.Equal(t, "Alpha", groups[0].Name)
	assert.Equal(t, "Beta", groups[1].Name)
	assert.Equal(t, "Zeta", groups[2].Name)
}

func TestReconcileGroups_ExplicitValidIDsKept(t *testing.T) {
	payload := map[string]any{
		"groups": []any{
			map[string]any{"name": "Infra", "id": "G5", "order": 0.0},
			map[string]any{"name": "Ops", "order": 1.0},
		},
	}

	groups := ReconcileGroups(payload, models.AllGroupsName)
	require.Len(t, groups, 2)
	assert.Equal(t, "G5", groups[0].ID)
	assert.Equal(t, "G6", groups[1].ID) // next above running max
}

func TestReconcileGroups_DynamicNeverStealsPromisedID(t *testing.T) {
	// The id G2 is promised to a later explicit entry; the earlier
	// unidentified entry must skip over it.
	payload := map[string]any{
		"groups": []any{
			map[string]any{"name": "First", "order": 0.0},
			map[string]any{"name": "Second", "id": "G2", "order": 1.0},
		},
	}

	groups := ReconcileGroups(payload, models.AllGroupsName)
	require.Len(t, groups, 2)
	assert.Equal(t, "G1", groups[0].ID)
	assert.Equal(t, "G2", groups[1].ID)
}

func TestReconcileGroups_DuplicateIDReassigned(t *testing.T) {
	payload := map[string]any{
		"groups": []any{
			map[string]any{"name": "A", "id": "G3", "order": 0.0},
			map[string]any{"name": "B", "id": "G3", "order": 1.0},
		},
	}

	groups := ReconcileGroups(payload, models.AllGroupsName)
	require.Len(t, groups, 2)
	assert.Equal(t, "G3", groups[0].ID)
	assert.Equal(t, "G4", groups[1].ID)
}

func TestReconcileGroups_InvalidIDsReplaced(t *testing.T) {
	payload := map[string]any{
		"groups": []any{
			map[string]any{"name": "A", "id": "G0", "order": 0.0},
			map[string]any{"name": "B", "id": "group-7", "order": 1.0},
			map[string]any{"name": "C", "id": "G03", "order": 2.0},
		},
	}

	groups := ReconcileGroups(payload, models.AllGroupsName)
	require.Len(t, groups, 3)
	assert.Equal(t, "G1", groups[0].ID)
	assert.Equal(t, "G2", groups[1].ID)
	assert.Equal(t, "G3", groups[2].ID)
}

func TestReconcileGroups_ReservedNameNeverMaterialized(t *testing.T) {
	payload := map[string]any{
		"groups": []any{map[string]any{"name": "all", "order": 0.0}},
		"cards":  cardsNamed("ALL", "Real"),
	}

	groups := ReconcileGroups(payload, models.AllGroupsName)
	require.Len(t, groups, 1)
	assert.Equal(t, "Real", groups[0].Name)
}

func TestReconcileGroups_FirstOccurrenceWins(t *testing.T) {
	payload := map[string]any{
		"groups": []any{
			map[string]any{"name": "Infra", "id": "G1", "order": 0.0},
			map[string]any{"name": "Infra", "id": "G9", "order": 1.0},
		},
	}

	groups := ReconcileGroups(payload, models.AllGroupsName)
	require.Len(t, groups, 1)
	assert.Equal(t, "G1", groups[0].ID)
}

func TestReconcileGroups_SectionScanOnlyWithExplicitArray(t *testing.T) {
	sections := []any{map[string]any{"group": "FromSection"}}

	// Without an explicit array, section names do not create groups.
	implicit := ReconcileGroups(map[string]any{
		"cards":           cardsNamed("Infra"),
		"section_markers": sections,
	}, models.AllGroupsName)
	require.Len(t, implicit, 1)
	assert.Equal(t, "Infra", implicit[0].Name)

	// With one (even empty), they do.
	explicit := ReconcileGroups(map[string]any{
		"groups":          []any{},
		"cards":           cardsNamed("Infra"),
		"section_markers": sections,
	}, models.AllGroupsName)
	require.Len(t, explicit, 2)
	assert.Equal(t, "FromSection", explicit[1].Name)

	// The legacy short key is scanned the same way.
	legacy := ReconcileGroups(map[string]any{
		"groups":   []any{},
		"cards":    cardsNamed("Infra"),
		"sections": sections,
	}, models.AllGroupsName)
	require.Len(t, legacy, 2)
	assert.Equal(t, "FromSection", legacy[1].Name)
}

func TestReconcileGroups_ActiveGroupScanOnlyWithExplicitArray(t *testing.T) {
	implicit := ReconcileGroups(map[string]any{
		"cards":        cardsNamed("Infra"),
		"active_group": "Favorites",
	}, models.AllGroupsName)
	require.Len(t, implicit, 1)

	explicit := ReconcileGroups(map[string]any{
		"groups":       []any{},
		"cards":        cardsNamed("Infra"),
		"active_group": "Favorites",
	}, models.AllGroupsName)
	require.Len(t, explicit, 2)
	assert.Equal(t, "Favorites", explicit[1].Name)
}

func TestReconcileGroups_DenseOrderRewrite(t *testing.T) {
	payload := map[string]any{
		"groups": []any{
			map[string]any{"name": "A", "order": 40.0},
			map[string]any{"name": "B", "order": 7.0},
		},
	}

	groups := ReconcileGroups(payload, models.AllGroupsName)
	require.Len(t, groups, 2)
	assert.Equal(t, 0, groups[0].Order)
	assert.Equal(t, 1, groups[1].Order)
	assert.Equal(t, "B", groups[0].Name)
}

func TestResolveActiveGroup(t *testing.T) {
	groups := []models.Group{
		{ID: "G1", Name: "Infra", Order: 0},
		{ID: "G2", Name: "Ops", Order: 1},
	}

	assert.Equal(t, "Ops", ResolveActiveGroup("Ops", groups, models.AllGroupsName))
	assert.Equal(t, "Infra", ResolveActiveGroup("", groups, models.AllGroupsName))
	assert.Equal(t, "Infra", ResolveActiveGroup("all", groups, models.AllGroupsName))
	assert.Equal(t, "Infra", ResolveActiveGroup("Missing", groups, models.AllGroupsName))
	assert.Equal(t, "Infra", ResolveActiveGroup(42.0, groups, models.AllGroupsName))
}

func TestReconcileGroups_UniquenessProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("ids and names pairwise distinct, ids match G<n>", prop.ForAll(
		func(names []string) bool {
			payload := map[string]any{"cards": cardsNamed(names...)}
			groups := ReconcileGroups(payload, models.AllGroupsName)

			if len(groups) == 0 {
				return false
			}
			seenNames := map[string]bool{}
			seenIDs := map[string]bool{}
			for i, g := range groups {
				if seenNames[g.Name] || seenIDs[g.ID] {
					return false
				}
				if GroupNumber(g.ID) <= 0 {
					return false
				}
				if g.Order != i {
					return false
				}
				seenNames[g.Name] = true
				seenIDs[g.ID] = true
			}
			return true
		},
		gen.SliceOf(gen.OneConstOf("Infra", "Ops", "All", "", "  ", "Web", "DB", "Cache")),
	))

	properties.TestingRun(t)
}

func TestGroupNumber(t *testing.T) {
	cases := map[string]int{
		"G1": 1, "G42": 42, "G0": 0, "g1": 0, "G01": 0, "G-1": 0, "": 0, "G": 0, "G1x": 0,
	}
	for id, want := range cases {
		assert.Equal(t, want, GroupNumber(id), fmt.Sprintf("id %q", id))
	}
}
