package validate

// sequenceFields must decode to JSON arrays when present. "sections" is the
// short alias early snapshots used for "section_markers".
var sequenceFields = []string{"cards", "section_markers", "sections", "groups"}

// objectFields must decode to JSON objects when present; the nested
// "schedule" of either backup key is checked too.
var objectFields = []string{"backup_config", "backup"}

// Payload checks the structural shape of an externally supplied import
// payload. Checks run in a fixed order and the first violation aborts with
// its specific kind. Passing does not guarantee a default-free migration,
// only that the migrator is handed a shape it can reason about.
func Payload(raw any) error {
	m, ok := raw.(map[string]any)
	if !ok {
		return NewError(KindNotAnObject, "import payload must be an object")
	}

	for _, field := range sequenceFields {
		v, present := m[field]
		if !present || v == nil {
			continue
		}
		if _, isSeq := v.([]any); !isSeq {
			return NewError(KindFieldMustBeSequence, "field %q must be a sequence", field)
		}
	}

	for _, field := range objectFields {
		v, present := m[field]
		if !present || v == nil {
			continue
		}
		bm, isMap := v.(map[string]any)
		if !isMap {
			return NewError(KindFieldMustBeObject, "field %q must be an object", field)
		}
		if schedule, schedPresent := bm["schedule"]; schedPresent && schedule != nil {
			if _, isMap := schedule.(map[string]any); !isMap {
				return NewError(KindFieldMustBeObject, "field %q must be an object", field+".schedule")
			}
		}
	}

	if version, present := m["schema_version"]; present && version != nil {
		n, isNum := version.(float64)
		if !isNum || n <= 0 || n != float64(int(n)) {
			return NewError(KindInvalidSchemaVersion, "schema_version must be a positive integer")
		}
	}

	return nil
}
