package analysis

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"
)

// fields is a decoded JSON object from model output. Its accessors never
// fail: a missing or mistyped value yields the caller's default.
type fields map[string]any

func (f fields) raw(key string) (any, bool) {
	if v, ok := f[key]; ok {
		return v, true
	}
	canon := canonicalKey(key)
	for k, v := range f {
		if canonicalKey(k) == canon {
			return v, true
		}
	}
	return nil, false
}

// canonicalKey folds case and separators so "is_well_known" matches "isWellKnown".
func canonicalKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ':
			return -1
		}
		return r
	}, strings.ToLower(key))
}

func (f fields) str(key string) string {
	v, _ := f.raw(key)
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64, json.Number, bool:
		return strings.TrimSpace(stringify(t))
	default:
		return ""
	}
}

func stringify(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

// number accepts JSON numbers and numeric strings such as "72" or "72%".
func (f fields) number(key string) (float64, bool) {
	v, _ := f.raw(key)
	return toNumber(v)
}

func toNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case int:
		return float64(t), true
	case json.Number:
		n, err := t.Float64()
		return n, err == nil
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "%"))
		n, err := strconv.ParseFloat(s, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// intIn rounds the value at key and clamps it to [lo, hi].
func (f fields) intIn(key string, lo, hi, def int) int {
	n, ok := f.number(key)
	if !ok {
		return def
	}
	return clampInt(int(math.Round(n)), lo, hi)
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func (f fields) boolean(key string) bool {
	v, _ := f.raw(key)
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "1":
			return true
		}
	case float64:
		return t != 0
	}
	return false
}

// enum returns the value at key when it is one of allowed, compared after
// folding case and separators, and def otherwise.
func (f fields) enum(key string, allowed []string, def string) string {
	return pickEnum(f.str(key), allowed, def)
}

func pickEnum(value string, allowed []string, def string) string {
	canon := canonicalKey(value)
	idx := slices.IndexFunc(allowed, func(a string) bool { return canonicalKey(a) == canon })
	if canon == "" || idx < 0 {
		return def
	}
	return allowed[idx]
}

// strings returns the non-blank strings at key. A single string is treated
// as a one-element list.
func (f fields) strings(key string) []string {
	v, _ := f.raw(key)
	var out []string
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (f fields) object(key string) fields {
	v, _ := f.raw(key)
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return fields{}
}

// objects returns the list of objects at key. Bare strings become an object
// holding the string under scalarKey.
func (f fields) objects(key, scalarKey string) []fields {
	v, _ := f.raw(key)
	list, ok := v.([]any)
	if !ok {
		if m, isMap := v.(map[string]any); isMap {
			list = []any{m}
		}
	}
	var out []fields
	for _, item := range list {
		switch t := item.(type) {
		case map[string]any:
			out = append(out, t)
		case string:
			if strings.TrimSpace(t) != "" && scalarKey != "" {
				out = append(out, fields{scalarKey: t})
			}
		}
	}
	return out
}
