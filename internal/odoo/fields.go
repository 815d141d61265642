package odoo

import "time"

// Odoo's RPC encoding returns false for absent optional values and encodes
// many2one references as a two-element [id, label] array. The helpers below
// normalize those encodings into Go optionals so the reconciliation core
// stays encoding-agnostic.

// Timestamp layouts Odoo is known to emit.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// RecordID extracts the numeric id of a record. Returns 0 if absent or not
// numeric.
func RecordID(r Record) int64 {
	id, ok := asInt64(r["id"])
	if !ok {
		return 0
	}
	return id
}

// String returns the field as a string, or the empty string when absent or
// false.
func String(r Record, field string) string {
	s, ok := r[field].(string)
	if !ok {
		return ""
	}
	return s
}

// OptionalString maps false/absent/non-string values to nil.
func OptionalString(r Record, field string) *string {
	s, ok := r[field].(string)
	if !ok {
		return nil
	}
	return &s
}

// OptionalFloat maps false/absent values to nil.
func OptionalFloat(r Record, field string) *float64 {
	switch v := r[field].(type) {
	case float64:
		return &v
	case int64:
		f := float64(v)
		return &f
	default:
		return nil
	}
}

// OptionalTime parses the field from Odoo's timestamp text formats.
// Unparsable or absent values map to nil rather than raising.
func OptionalTime(r Record, field string) *time.Time {
	s, ok := r[field].(string)
	if !ok || s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// Reference decomposes a many2one value. A two-element [id, label] pair
// yields both parts, a single-element pair yields only the id, and
// false/absent yields nil for both.
func Reference(r Record, field string) (*int64, *string) {
	pair, ok := r[field].([]any)
	if !ok || len(pair) == 0 {
		return nil, nil
	}

	var id *int64
	if v, idOK := asInt64(pair[0]); idOK {
		id = &v
	}

	var label *string
	if len(pair) >= 2 {
		if s, labelOK := pair[1].(string); labelOK {
			label = &s
		}
	}

	return id, label
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
