package analysis

import (
	"fmt"
	"maps"
	"slices"

	"github.com/xeipuuv/gojsonschema"
)

type kind string

const (
	kindNumber  kind = "number"
	kindString  kind = "string"
	kindBoolean kind = "boolean"
	kindArray   kind = "array"
	kindObject  kind = "object"
)

// maxEnvelopeDepth bounds the search for a result nested inside wrapper objects.
const maxEnvelopeDepth = 3

// shape is the expected top-level structure of one module's model output.
type shape struct {
	required []string
	keys     map[string]kind
	// listKey/itemKey let a lone list item be rewrapped as a one-element list.
	listKey string
	itemKey string
	schema  *gojsonschema.Schema
}

func newShape(required []string, keys map[string]kind) *shape {
	properties := make(map[string]any, len(keys))
	for key, k := range keys {
		properties[key] = map[string]any{"type": string(k)}
	}
	doc := map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		doc["required"] = required
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		panic(fmt.Sprintf("analysis: invalid built-in schema: %v", err))
	}
	return &shape{required: required, keys: keys, schema: schema}
}

func (s *shape) withList(listKey, itemKey string) *shape {
	s.listKey = listKey
	s.itemKey = itemKey
	return s
}

// document returns the top-level object of a parsed answer. A bare array is
// accepted for list-shaped outputs and placed under the list key.
func (s *shape) document(parsed any) (map[string]any, bool) {
	switch v := parsed.(type) {
	case map[string]any:
		return v, v != nil
	case []any:
		if s.listKey == "" {
			return nil, false
		}
		return map[string]any{s.listKey: v}, true
	default:
		return nil, false
	}
}

// validate returns the schema violations of doc, or nil when it conforms.
func (s *shape) validate(doc map[string]any) []string {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return []string{err.Error()}
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return problems
}

// salvage makes one attempt to recover a conforming object from doc: first a
// nested object that already conforms (the model wrapped its answer in an
// envelope), then a rebuild from every recognised key found anywhere in doc,
// with defaults filling missing keys. The caller validates the result.
func (s *shape) salvage(doc map[string]any, defaults map[string]any) map[string]any {
	for _, candidate := range nestedObjects(doc, maxEnvelopeDepth) {
		if s.validate(candidate) == nil {
			return candidate
		}
	}

	rebuilt := make(map[string]any, len(s.keys))
	for _, key := range slices.Sorted(maps.Keys(s.keys)) {
		value, ok := findKey(doc, key, maxEnvelopeDepth)
		if !ok {
			continue
		}
		if normalized, ok := normalizeKind(value, s.keys[key]); ok {
			rebuilt[key] = normalized
		}
	}

	if s.listKey != "" && rebuilt[s.listKey] == nil {
		if _, ok := fields(doc).raw(s.itemKey); ok {
			rebuilt[s.listKey] = []any{doc}
		}
	}

	for key, value := range defaults {
		if _, ok := rebuilt[key]; !ok {
			rebuilt[key] = value
		}
	}
	return rebuilt
}

// nestedObjects lists the objects below doc in breadth-first order.
func nestedObjects(doc map[string]any, depth int) []map[string]any {
	var out []map[string]any
	level := []map[string]any{doc}
	for range depth {
		var next []map[string]any
		for _, m := range level {
			for _, key := range slices.Sorted(maps.Keys(m)) {
				if child, ok := m[key].(map[string]any); ok {
					next = append(next, child)
				}
			}
		}
		out = append(out, next...)
		level = next
	}
	return out
}

// findKey looks key up in doc, then in nested objects breadth-first.
func findKey(doc map[string]any, key string, depth int) (any, bool) {
	if v, ok := fields(doc).raw(key); ok {
		return v, true
	}
	for _, m := range nestedObjects(doc, depth) {
		if v, ok := fields(m).raw(key); ok {
			return v, true
		}
	}
	return nil, false
}

func normalizeKind(value any, k kind) (any, bool) {
	switch k {
	case kindNumber:
		n, ok := toNumber(value)
		return n, ok
	case kindString:
		switch t := value.(type) {
		case string:
			return t, true
		case float64, bool:
			return stringify(t), true
		}
	case kindBoolean:
		if b, ok := value.(bool); ok {
			return b, true
		}
		return fields{"v": value}.boolean("v"), value != nil
	case kindArray:
		switch t := value.(type) {
		case []any:
			return t, true
		case map[string]any, string:
			return []any{t}, true
		}
	case kindObject:
		if m, ok := value.(map[string]any); ok {
			return m, true
		}
	}
	return nil, false
}
