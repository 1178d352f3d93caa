package normalize

import (
	"encoding/json"

	"scriptdeck/internal/models"
)

// SanitizeForWrite reapplies the migration guarantees to a snapshot that is
// about to be persisted and strips runtime-only state. Migration only
// copies known fields, so transient values (the in-flight Running flag)
// never reach storage.
func SanitizeForWrite(settings models.Settings, opts Options) models.Settings {
	return Migrate(ToRaw(settings), opts)
}

// ToRaw converts a typed snapshot into the loosely-typed shape the migrator
// consumes, via its serialized form.
func ToRaw(settings models.Settings) map[string]any {
	data, err := json.Marshal(settings)
	if err != nil {
		return map[string]any{}
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return map[string]any{}
	}
	return raw
}
