// Package normalize turns loosely shaped legacy data into canonical
// values: lowercase-keyed records, canonical date/time strings and
// sanitized text.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Record is a legacy row with every key lowercased. Values are whatever
// the JSON decoder produced (string, json.Number, bool, nil, []any,
// map[string]any).
type Record map[string]any

// NewRecord copies raw into a Record, lowercasing and trimming keys. When
// two keys collide after lowercasing the first non-empty value wins.
func NewRecord(raw map[string]any) Record {
	r := make(Record, len(raw))
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lk := strings.ToLower(strings.TrimSpace(k))
		if prev, ok := r[lk]; ok && !isBlank(prev) {
			continue
		}
		r[lk] = raw[k]
	}
	return r
}

// Raw returns the first present, non-nil value among keys.
func (r Record) Raw(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// String returns the first non-blank scalar among keys rendered as a
// string, or "".
func (r Record) String(keys ...string) string {
	for _, k := range keys {
		if s := scalarString(r[k]); strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// Int returns the first parseable integer among keys, truncating
// decimals, or 0.
func (r Record) Int(keys ...string) int64 {
	for _, k := range keys {
		if f, ok := toFloat(r[k]); ok {
			return int64(f)
		}
	}
	return 0
}

// Bool reports whether the first present key holds a truthy value
// ("1", "true", "yes", "on", non-zero numbers, true).
func (r Record) Bool(keys ...string) bool {
	v, ok := r.Raw(keys...)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true", "yes", "on":
			return true
		}
		return false
	}
	f, ok := toFloat(v)
	return ok && f != 0
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		if t {
			return "1"
		}
		return ""
	}
	return ""
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil && !math.IsNaN(f)
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	return 0, false
}

// DecodeValue parses a JSON document keeping numbers as json.Number.
func DecodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// DecodeRecords parses a legacy dataset. Both a JSON array of objects and
// a JSON object whose values are objects (an associative list keyed by
// id) are accepted; object entries are returned in numeric key order.
// Entries that are not objects are dropped.
func DecodeRecords(data []byte) ([]Record, error) {
	v, err := DecodeValue(data)
	if err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return RecordsFrom(v), nil
}

// RecordsFrom converts an already decoded list or map into records.
func RecordsFrom(v any) []Record {
	var out []Record
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, NewRecord(m))
			}
		}
	case map[string]any:
		for _, k := range SortedKeys(t) {
			if m, ok := t[k].(map[string]any); ok {
				out = append(out, NewRecord(m))
			}
		}
	}
	return out
}

// SortedKeys orders map keys numerically when they are integers and
// lexically otherwise, so decoding is deterministic.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.ParseInt(keys[i], 10, 64)
		b, errB := strconv.ParseInt(keys[j], 10, 64)
		if errA == nil && errB == nil {
			return a < b
		}
		if (errA == nil) != (errB == nil) {
			return errA == nil
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Strings flattens a string, list or map value into its non-empty string
// members.
func Strings(v any) []string {
	var out []string
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s := strings.TrimSpace(scalarString(item)); s != "" {
				out = append(out, s)
			}
		}
	case map[string]any:
		for _, k := range SortedKeys(t) {
			if s := strings.TrimSpace(scalarString(t[k])); s != "" {
				out = append(out, s)
			}
		}
	default:
		if s := strings.TrimSpace(scalarString(t)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
