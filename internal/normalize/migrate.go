package normalize

import (
	"strings"

	"scriptdeck/internal/identity"
	"scriptdeck/internal/models"
)

// Options inject the values migration must not read from process-wide
// state: the version constant stamped onto output, the reserved pseudo-name
// and the id generator.
type Options struct {
	SchemaVersion     int
	ReservedGroupName string
	IDs               identity.Source
}

// DefaultOptions wires the production values.
func DefaultOptions() Options {
	return Options{
		SchemaVersion:     models.CurrentSchemaVersion,
		ReservedGroupName: models.AllGroupsName,
		IDs:               identity.UUIDSource{},
	}
}

func (o Options) withDefaults() Options {
	if o.SchemaVersion <= 0 {
		o.SchemaVersion = models.CurrentSchemaVersion
	}
	if o.ReservedGroupName == "" {
		o.ReservedGroupName = models.AllGroupsName
	}
	if o.IDs == nil {
		o.IDs = identity.UUIDSource{}
	}
	return o
}

// Migrate transforms a raw decoded payload of any historical shape into a
// canonical snapshot at the configured schema version. Total: every field
// has a safe default, so arbitrarily malformed input still yields a valid
// snapshot. Running Migrate on its own output is a no-op.
func Migrate(raw map[string]any, opts Options) models.Settings {
	if raw == nil {
		raw = map[string]any{}
	}
	opts = opts.withDefaults()

	groups := ReconcileGroups(raw, opts.ReservedGroupName)
	columns := Columns(raw["columns"])

	settings := models.Settings{
		SchemaVersion:   opts.SchemaVersion,
		Theme:           Theme(raw["theme"]),
		Language:        Language(raw["language"]),
		Columns:         columns,
		Concurrency:     Concurrency(raw["concurrency"]),
		HistoryCapacity: HistoryCapacity(raw["history_capacity"]),
		Backup:          Backup(payloadField(raw, "backup_config", "backup")),
		ActiveGroup:     ResolveActiveGroup(raw["active_group"], groups, opts.ReservedGroupName),
		Groups:          groups,
		Cards:           []models.Card{},
		Sections:        []models.Section{},
		PythonPath:      strings.TrimSpace(stringOr(raw["python_path"], "")),
	}

	pass := newCardPass(groups, opts.IDs)
	if rawCards, ok := raw["cards"].([]any); ok {
		for _, rc := range rawCards {
			if m, isMap := rc.(map[string]any); isMap {
				settings.Cards = append(settings.Cards, pass.normalizeCard(m))
			}
		}
	}

	if rawSections, ok := payloadField(raw, "section_markers", "sections").([]any); ok {
		for _, rs := range rawSections {
			m, isMap := rs.(map[string]any)
			if !isMap {
				continue
			}
			section := Section(m, columns, opts.IDs.NextID)
			section.Group = resolveGroupName(section.Group, groups)
			settings.Sections = append(settings.Sections, section)
		}
	}

	return settings
}

// DetectVersion reports the declared schema version of a raw payload, or 0
// when none is stored or the stored value is not a positive integer.
func DetectVersion(raw map[string]any) int {
	n, ok := finiteNumber(raw["schema_version"])
	if !ok || n <= 0 || n != float64(int(n)) {
		return 0
	}
	return int(n)
}

// payloadField reads the canonical key, falling back to the short alias
// written by early snapshots. The canonical key wins even when null.
func payloadField(m map[string]any, canonical, legacy string) any {
	if v, ok := m[canonical]; ok {
		return v
	}
	return m[legacy]
}

// resolveGroupName maps a referenced group name onto the reconciled list,
// falling back to the first group. Persisted references always resolve.
func resolveGroupName(name string, groups []models.Group) string {
	for _, g := range groups {
		if g.Name == name {
			return name
		}
	}
	if len(groups) > 0 {
		return groups[0].Name
	}
	return DefaultGroupName
}
