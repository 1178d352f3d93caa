package normalize

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"scriptdeck/internal/models"
)

// DefaultGroupName is synthesized when reconciliation yields no groups.
const DefaultGroupName = "Default"

var groupIDPattern = regexp.MustCompile(`^G([1-9][0-9]*)$`)

// GroupNumber extracts the numeric part of a G<n> group id, or 0 when the
// id does not match the pattern.
func GroupNumber(id string) int {
	m := groupIDPattern.FindStringSubmatch(id)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// groupCandidate is one potential group before id assignment.
type groupCandidate struct {
	name string
	id   string // explicit stored id, possibly invalid
}

// ReconcileGroups derives the canonical ordered group list from every
// source of truth in the payload: the explicit group array (sorted by
// declared order then name), names referenced by cards, and — only when an
// explicit array was supplied — names referenced by section markers and the
// active-group field. The asymmetry is a compatibility contract with stored
// data from prior versions; see DESIGN.md before changing it.
func ReconcileGroups(payload map[string]any, reserved string) []models.Group {
	var candidates []groupCandidate
	seen := map[string]bool{}

	add := func(name, id string) {
		name = strings.TrimSpace(name)
		if name == "" || strings.EqualFold(name, reserved) || seen[name] {
			return
		}
		seen[name] = true
		candidates = append(candidates, groupCandidate{name: name, id: id})
	}

	explicitRaw, explicitPresent := payload["groups"].([]any)

	// Numbers promised to explicit ids anywhere in the input array. Dynamic
	// assignment must never hand one of these out before its owner is
	// reached.
	promised := map[int]bool{}

	if explicitPresent {
		type explicitEntry struct {
			name  string
			id    string
			order int
		}
		var entries []explicitEntry
		for _, rg := range explicitRaw {
			m, ok := rg.(map[string]any)
			if !ok {
				continue
			}
			entry := explicitEntry{
				name:  stringOr(m["name"], ""),
				id:    strings.TrimSpace(stringOr(m["id"], "")),
				order: clampInt(m["order"], math.MaxInt32, math.MinInt32, math.MaxInt32),
			}
			if n := GroupNumber(entry.id); n > 0 {
				promised[n] = true
			}
			entries = append(entries, entry)
		}

		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].order != entries[j].order {
				return entries[i].order < entries[j].order
			}
			return entries[i].name < entries[j].name
		})

		for _, e := range entries {
			add(e.name, e.id)
		}
	}

	// Card references are always scanned.
	if cards, ok := payload["cards"].([]any); ok {
		for _, rc := range cards {
			if m, isMap := rc.(map[string]any); isMap {
				add(stringOr(m["group"], ""), "")
			}
		}
	}

	// Section and active-group references only contribute in the
	// explicit-array case.
	if explicitPresent {
		if sections, ok := payloadField(payload, "section_markers", "sections").([]any); ok {
			for _, rs := range sections {
				if m, isMap := rs.(map[string]any); isMap {
					add(stringOr(m["group"], ""), "")
				}
			}
		}
		add(stringOr(payload["active_group"], ""), "")
	}

	if len(candidates) == 0 {
		return []models.Group{{ID: "G1", Name: DefaultGroupName, Order: 0}}
	}

	assigned := map[int]bool{}
	runningMax := 0
	groups := make([]models.Group, 0, len(candidates))

	for i, c := range candidates {
		n := GroupNumber(c.id)
		if n > 0 && !assigned[n] {
			// Explicit valid unused id survives.
			if n > runningMax {
				runningMax = n
			}
		} else {
			n = runningMax + 1
			for assigned[n] || promised[n] {
				n++
			}
			runningMax = n
		}
		assigned[n] = true

		groups = append(groups, models.Group{
			ID:    "G" + strconv.Itoa(n),
			Name:  c.name,
			Order: i,
		})
	}

	return groups
}

// ResolveActiveGroup falls back to the first reconciled group when the
// declared active group is blank, the reserved pseudo-name, or unknown.
func ResolveActiveGroup(raw any, groups []models.Group, reserved string) string {
	name := strings.TrimSpace(stringOr(raw, ""))
	if name != "" && !strings.EqualFold(name, reserved) {
		for _, g := range groups {
			if g.Name == name {
				return name
			}
		}
	}
	if len(groups) > 0 {
		return groups[0].Name
	}
	return DefaultGroupName
}
