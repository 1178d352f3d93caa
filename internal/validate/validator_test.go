package validate

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var raw any
	require.NoError(t, json.Unmarshal([]byte(s), &raw))
	return raw
}

func TestPayload_ValidShapes(t *testing.T) {
	valid := []string{
		`{}`,
		`{"schema_version": 2}`,
		`{"cards": [], "section_markers": [], "groups": []}`,
		`{"backup_config": {"schedule": {"kind": "daily"}}}`,
		`{"sections": [], "backup": {}}`,
		`{"cards": null, "backup_config": null}`,
		`{"unknown_field": "ignored"}`,
	}
	for _, s := range valid {
		assert.NoError(t, Payload(decode(t, s)), s)
	}
}

func TestPayload_RootMustBeObject(t *testing.T) {
	for _, s := range []string{`[]`, `"settings"`, `42`, `true`, `null`} {
		err := Payload(decode(t, s))
		require.Error(t, err, s)
		assert.Equal(t, KindNotAnObject, KindOf(err))
	}
}

func TestPayload_SequenceFields(t *testing.T) {
	for _, field := range []string{"cards", "section_markers", "sections", "groups"} {
		err := Payload(map[string]any{field: map[string]any{}})
		require.Error(t, err, field)
		assert.Equal(t, KindFieldMustBeSequence, KindOf(err))
		assert.Contains(t, err.Error(), field)
	}

	// A scalar is just as invalid as an object.
	err := Payload(decode(t, `{"section_markers": 42}`))
	require.Error(t, err)
	assert.Equal(t, KindFieldMustBeSequence, KindOf(err))
}

func TestPayload_BackupMustBeObject(t *testing.T) {
	for _, field := range []string{"backup_config", "backup"} {
		err := Payload(map[string]any{field: []any{1.0, 2.0}})
		require.Error(t, err, field)
		assert.Equal(t, KindFieldMustBeObject, KindOf(err))
		assert.Contains(t, err.Error(), field)

		err = Payload(map[string]any{field: map[string]any{"schedule": "daily"}})
		require.Error(t, err, field)
		assert.Equal(t, KindFieldMustBeObject, KindOf(err))
		assert.Contains(t, err.Error(), field+".schedule")
	}
}

func TestPayload_SchemaVersion(t *testing.T) {
	for _, s := range []string{
		`{"schema_version": 0}`,
		`{"schema_version": -1}`,
		`{"schema_version": 2.5}`,
		`{"schema_version": "2"}`,
		`{"schema_version": []}`,
	} {
		err := Payload(decode(t, s))
		require.Error(t, err, s)
		assert.Equal(t, KindInvalidSchemaVersion, KindOf(err))
	}
}

func TestPayload_FirstViolationWins(t *testing.T) {
	// Both cards and schema_version are malformed; the cards check runs
	// first.
	err := Payload(decode(t, `{"cards": {}, "schema_version": -1}`))
	require.Error(t, err)
	assert.Equal(t, KindFieldMustBeSequence, KindOf(err))
}

func TestKindOf_ForeignError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestError_WrapsCause(t *testing.T) {
	cause := errors.New("disk on fire")
	err := WrapError(KindReadFailed, cause, "reading blob %q", "settings.json")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindReadFailed, KindOf(err))
	assert.Contains(t, err.Error(), "read_failed")
	assert.Contains(t, err.Error(), "settings.json")
}
