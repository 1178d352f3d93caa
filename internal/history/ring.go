// Package history implements the per-card bounded execution log.
//
// Every operation is a pure function: rings are passed by value, returned
// rings never alias input slices, and malformed input is repaired rather
// than rejected. The ring survives round-trips through storage written by
// any prior application version, so Normalize must accept arbitrary
// structures.
package history

import (
	"encoding/json"
	"math"
	"strings"

	"scriptdeck/internal/models"
)

// Ellipsis marks a truncated error summary.
const Ellipsis = "…"

// ClampCapacity forces a capacity into the supported range. The floor keeps
// cursor arithmetic free of modulo-by-zero.
func ClampCapacity(capacity int) int {
	if capacity < models.MinHistoryCapacity {
		return models.MinHistoryCapacity
	}
	if capacity > models.MaxHistoryCapacity {
		return models.MaxHistoryCapacity
	}
	return capacity
}

// Create returns an empty ring with the clamped capacity.
func Create(capacity int) models.HistoryRing {
	return models.HistoryRing{
		Capacity: ClampCapacity(capacity),
		Entries:  []models.HistoryEntry{},
	}
}

// Append records one execution outcome. The entry is repaired first; an
// entry that cannot be repaired (non-positive timestamp) leaves the ring
// unchanged apart from its own re-normalization. While the ring is not yet
// full the entry is pushed; once full it overwrites the slot at Next and
// the cursor advances modulo capacity.
func Append(ring models.HistoryRing, entry models.HistoryEntry) models.HistoryRing {
	out := normalizeTyped(ring)

	repaired, ok := repairEntry(entry)
	if !ok {
		return out
	}

	if out.Size < out.Capacity {
		out.Entries = append(out.Entries, repaired)
		out.Size++
		out.Next = out.Size % out.Capacity
		return out
	}

	out.Entries[out.Next] = repaired
	out.Next = (out.Next + 1) % out.Capacity
	return out
}

// NewestFirst returns the logical entry sequence, most recent first. A full
// ring is walked backward from Next-1 wrapping through capacity; a ring
// that never filled is walked backward from Size-1 directly.
func NewestFirst(ring models.HistoryRing) []models.HistoryEntry {
	n := ring.Size
	if ring.Capacity < n {
		n = ring.Capacity
	}
	if len(ring.Entries) < n {
		n = len(ring.Entries)
	}
	if n <= 0 {
		return []models.HistoryEntry{}
	}

	out := make([]models.HistoryEntry, 0, n)

	if ring.Size >= ring.Capacity && ring.Capacity > 0 {
		idx := ring.Next - 1
		for i := 0; i < n; i++ {
			if idx < 0 {
				idx += ring.Capacity
			}
			if idx >= 0 && idx < len(ring.Entries) {
				out = append(out, ring.Entries[idx])
			}
			idx--
		}
		return out
	}

	for idx := n - 1; idx >= 0; idx-- {
		out = append(out, ring.Entries[idx])
	}
	return out
}

// WithCapacity rebuilds the ring at a new (clamped) capacity, re-appending
// entries oldest to newest so the most recent min(newCapacity, size)
// entries survive.
func WithCapacity(ring models.HistoryRing, newCapacity int) models.HistoryRing {
	out := Create(newCapacity)

	newest := NewestFirst(ring)
	for i := len(newest) - 1; i >= 0; i-- {
		out = Append(out, newest[i])
	}
	return out
}

// Normalize reconstructs a valid ring from an arbitrary untrusted
// structure: a decoded JSON object, a partially corrupt stored ring, or
// garbage. Capacity is clamped, entries are repaired individually (one
// corrupt entry never discards the rest), and the cursor is recomputed
// whenever the stored size/next pair is inconsistent with the surviving
// entries.
func Normalize(raw any) models.HistoryRing {
	m, ok := raw.(map[string]any)
	if !ok {
		return Create(models.DefaultHistoryCapacity)
	}

	capacity := ClampCapacity(intField(m, "capacity", models.DefaultHistoryCapacity))

	rawEntries, _ := m["entries"].([]any)
	storedSize := intField(m, "size", -1)
	storedNext := intField(m, "next_index", -1)

	// Repaired entries keep their stored backing order; logical order is
	// resolved against the cursor below.
	kept := make([]models.HistoryEntry, 0, len(rawEntries))
	dropped := false
	for _, re := range rawEntries {
		entry, valid := NormalizeEntry(re)
		if !valid {
			dropped = true
			continue
		}
		kept = append(kept, entry)
	}

	// The stored cursor is only honored when nothing was repaired away and
	// it still describes the backing slice exactly.
	if !dropped && len(kept) <= capacity {
		if storedSize == capacity && len(kept) == capacity && storedNext >= 0 && storedNext < capacity {
			// Full ring with a valid rotation: replay from the oldest slot.
			out := Create(capacity)
			for i := 0; i < capacity; i++ {
				out = Append(out, kept[(storedNext+i)%capacity])
			}
			return out
		}
		if storedSize == len(kept) && storedNext == storedSize%capacity {
			out := Create(capacity)
			for _, e := range kept {
				out = Append(out, e)
			}
			return out
		}
	}

	// Cursor untrustworthy: treat the backing order as append order.
	out := Create(capacity)
	for _, e := range kept {
		out = Append(out, e)
	}
	return out
}

// NormalizeEntry repairs one untrusted entry. Returns false when the entry
// must be dropped: no usable positive timestamp.
func NormalizeEntry(raw any) (models.HistoryEntry, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return models.HistoryEntry{}, false
	}

	ts, tsOK := finiteInt(m["timestamp"])
	if !tsOK || ts <= 0 {
		return models.HistoryEntry{}, false
	}

	duration, durOK := finiteInt(m["duration_ms"])
	if !durOK || duration < 0 {
		duration = 0
	}

	entry := models.HistoryEntry{
		Timestamp:  ts,
		DurationMS: duration,
		OK:         boolField(m, "ok"),
		TimedOut:   boolField(m, "timed_out"),
	}

	if rawCode, present := m["exit_code"]; present {
		if rawCode == nil {
			// Explicit null: the process never produced a code.
			entry.ExitCode = nil
		} else if code, codeOK := finiteInt(rawCode); codeOK {
			c := int(code)
			entry.ExitCode = &c
		}
	}

	if !entry.OK {
		msg, _ := m["error"].(string)
		if firstLine(msg) == "" {
			msg, _ = m["stderr"].(string)
		}
		entry.Error = Summarize(msg)
	}

	return entry, true
}

// Summarize reduces a raw error message to its first non-blank line,
// truncated to the stored limit with an ellipsis marker.
func Summarize(msg string) string {
	line := firstLine(msg)
	runes := []rune(line)
	if len(runes) <= models.MaxErrorSummaryLen {
		return line
	}
	return string(runes[:models.MaxErrorSummaryLen-1]) + Ellipsis
}

// repairEntry validates an already-typed entry on append.
func repairEntry(entry models.HistoryEntry) (models.HistoryEntry, bool) {
	if entry.Timestamp <= 0 {
		return models.HistoryEntry{}, false
	}
	if entry.DurationMS < 0 {
		entry.DurationMS = 0
	}
	if entry.OK {
		entry.Error = ""
	} else {
		entry.Error = Summarize(entry.Error)
	}
	return entry, true
}

// normalizeTyped re-establishes the invariants on a typed ring without
// going through the untrusted path. Cheap when the ring is already valid.
func normalizeTyped(ring models.HistoryRing) models.HistoryRing {
	capacity := ClampCapacity(ring.Capacity)

	valid := capacity == ring.Capacity
	if ring.Size == capacity {
		valid = valid && len(ring.Entries) == capacity && ring.Next >= 0 && ring.Next < capacity
	} else {
		valid = valid && ring.Size >= 0 && ring.Size < capacity &&
			len(ring.Entries) == ring.Size && ring.Next == ring.Size
	}

	if valid {
		out := ring
		out.Entries = append([]models.HistoryEntry(nil), ring.Entries...)
		return out
	}

	out := Create(capacity)
	newest := NewestFirst(ring)
	for i := len(newest) - 1; i >= 0; i-- {
		if repaired, ok := repairEntry(newest[i]); ok {
			out = Append(out, repaired)
		}
	}
	return out
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func intField(m map[string]any, key string, fallback int) int {
	v, ok := finiteInt(m[key])
	if !ok {
		return fallback
	}
	return int(v)
}

func boolField(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

// finiteInt coerces JSON numbers (float64), Go ints and int64s to a finite
// integer.
func finiteInt(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int64(f), true
	default:
		return 0, false
	}
}
