// Package fields provides total coercion helpers for untyped provider payloads.
// Every helper returns a safe zero value instead of failing.
package fields

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Path walks nested maps following keys and returns the value found, or nil.
func Path(m map[string]any, keys ...string) any {
	var cur any = m
	for _, k := range keys {
		next, ok := asMap(cur)
		if !ok {
			return nil
		}
		cur = next[k]
	}
	return cur
}

// First returns the first non-empty string found at any of the dotted paths.
func First(m map[string]any, paths ...string) string {
	for _, p := range paths {
		if s := String(Path(m, strings.Split(p, ".")...)); s != "" {
			return s
		}
	}
	return ""
}

// FirstValue returns the first non-nil value found at any of the dotted paths.
func FirstValue(m map[string]any, paths ...string) any {
	for _, p := range paths {
		if v := Path(m, strings.Split(p, ".")...); v != nil {
			return v
		}
	}
	return nil
}

// String coerces v to a trimmed string. Unsupported types yield "".
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case fmt.Stringer:
		return strings.TrimSpace(t.String())
	default:
		return ""
	}
}

// Count coerces v to a non-negative integer. Absent, non-numeric and
// negative values yield 0; fractional values are truncated.
func Count(v any) int64 {
	var n int64
	switch t := v.(type) {
	case int:
		n = int64(t)
	case int32:
		n = int64(t)
	case int64:
		n = t
	case uint:
		n = clampUint(uint64(t))
	case uint32:
		n = int64(t)
	case uint64:
		n = clampUint(t)
	case float32:
		n = fromFloat(float64(t))
	case float64:
		n = fromFloat(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			n = i
		} else if f, err := t.Float64(); err == nil {
			n = fromFloat(f)
		}
	case string:
		n = parseCount(t)
	}
	if n < 0 {
		return 0
	}
	return n
}

// Year extracts a plausible year (1..9999) from numbers or from strings
// starting with four digits such as "2019" or "2019-05-01T00:00:00Z".
func Year(v any) *int {
	var y int64
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if len(s) < 4 {
			return nil
		}
		parsed, err := strconv.Atoi(s[:4])
		if err != nil {
			return nil
		}
		y = int64(parsed)
	case nil:
		return nil
	default:
		y = Count(v)
	}
	if y <= 0 || y > 9999 {
		return nil
	}
	year := int(y)
	return &year
}

// Names coerces v to a list of names. Accepts a list of strings, a list of
// objects carrying a "name" key, or a single string. Never returns nil.
func Names(v any) []string {
	names := []string{}
	switch t := v.(type) {
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				names = append(names, s)
			}
		}
	case []any:
		for _, item := range t {
			if s := nameOf(item); s != "" {
				names = append(names, s)
			}
		}
	case []map[string]any:
		for _, item := range t {
			if s := nameOf(item); s != "" {
				names = append(names, s)
			}
		}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			names = append(names, s)
		}
	}
	return names
}

// Maps coerces v to a list of objects, dropping anything else.
func Maps(v any) []map[string]any {
	var out []map[string]any
	switch t := v.(type) {
	case []map[string]any:
		return t
	case []any:
		for _, item := range t {
			if m, ok := asMap(item); ok {
				out = append(out, m)
			}
		}
	}
	return out
}

// CollapseSpace replaces runs of whitespace (including newlines) with one space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func nameOf(item any) string {
	if s, ok := item.(string); ok {
		return strings.TrimSpace(s)
	}
	if m, ok := asMap(item); ok {
		return String(m["name"])
	}
	return ""
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[string]string:
		m := make(map[string]any, len(t))
		for k, s := range t {
			m[k] = s
		}
		return m, true
	default:
		return nil, false
	}
}

func parseCount(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromFloat(f)
	}
	return 0
}

func fromFloat(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(f)
}

func clampUint(u uint64) int64 {
	if u > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(u)
}
