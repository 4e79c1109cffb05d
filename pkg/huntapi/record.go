package huntapi

import (
	"strings"
	"time"
)

// Field aliasing over raw records. Upstreams disagree on key names and
// wrap scalars in {"value": ...} envelopes, so each logical entity
// field declares an ordered list of candidate dot-paths; the first
// path that resolves wins.

// Lookup resolves the first of the candidate dot-paths against rec.
// A path segment descends into a nested object, so "status.value"
// unwraps a {"status": {"value": "open"}} envelope.
func Lookup(rec RawRecord, paths ...string) (any, bool) {
	for _, path := range paths {
		value, ok := lookupPath(rec, path)
		if ok {
			return value, true
		}
	}

	return nil, false
}

func lookupPath(rec RawRecord, path string) (any, bool) {
	var current any = rec

	for _, segment := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		current, ok = obj[segment]
		if !ok || current == nil {
			return nil, false
		}
	}

	return current, true
}

// String returns the first resolvable path as a string, or def.
func String(rec RawRecord, def string, paths ...string) string {
	value, ok := Lookup(rec, paths...)
	if !ok {
		return def
	}

	s, ok := value.(string)
	if !ok || s == "" {
		return def
	}

	return s
}

// RequireString is String for required fields: an unresolvable or
// non-string field fails with a MalformedResponse error naming the
// first candidate path.
func RequireString(rec RawRecord, paths ...string) (string, error) {
	value, ok := Lookup(rec, paths...)
	if !ok {
		return "", MissingKey(paths[0])
	}

	s, ok := value.(string)
	if !ok {
		return "", MissingKey(paths[0])
	}

	return s, nil
}

// Int returns the first resolvable path as an int, or def. JSON
// numbers decode as float64; literal ints are accepted for records
// assembled in tests.
func Int(rec RawRecord, def int, paths ...string) int {
	value, ok := Lookup(rec, paths...)
	if !ok {
		return def
	}

	switch n := value.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return def
	}
}

// RequireInt is Int for required fields.
func RequireInt(rec RawRecord, paths ...string) (int, error) {
	value, ok := Lookup(rec, paths...)
	if !ok {
		return 0, MissingKey(paths[0])
	}

	switch n := value.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, MissingKey(paths[0])
	}
}

// Float returns the first resolvable path as a float64, or def.
func Float(rec RawRecord, def float64, paths ...string) float64 {
	value, ok := Lookup(rec, paths...)
	if !ok {
		return def
	}

	switch n := value.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return def
	}
}

// Bool returns the first resolvable path as a bool, or def.
func Bool(rec RawRecord, def bool, paths ...string) bool {
	value, ok := Lookup(rec, paths...)
	if !ok {
		return def
	}

	b, ok := value.(bool)
	if !ok {
		return def
	}

	return b
}

// Object returns the first resolvable path as a nested record.
func Object(rec RawRecord, paths ...string) (RawRecord, bool) {
	value, ok := Lookup(rec, paths...)
	if !ok {
		return nil, false
	}

	obj, ok := value.(map[string]any)

	return obj, ok
}

// Slice returns the first resolvable path as a list.
func Slice(rec RawRecord, paths ...string) ([]any, bool) {
	value, ok := Lookup(rec, paths...)
	if !ok {
		return nil, false
	}

	list, ok := value.([]any)

	return list, ok
}

// Records narrows a list to its object elements, coercing each to a
// RawRecord. Non-object elements fail with a MalformedResponse error
// naming path.
func Records(list []any, path string) ([]RawRecord, error) {
	records := make([]RawRecord, 0, len(list))

	for _, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, MissingKey(path)
		}

		records = append(records, rec)
	}

	return records, nil
}

// Time returns the first resolvable path parsed as an RFC 3339
// timestamp. Timestamps the upstream serialized without an offset are
// also accepted.
func Time(rec RawRecord, paths ...string) (time.Time, bool) {
	value, ok := Lookup(rec, paths...)
	if !ok {
		return time.Time{}, false
	}

	s, ok := value.(string)
	if !ok {
		return time.Time{}, false
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
