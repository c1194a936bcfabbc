package rules

import (
	"encoding/json"
	"strconv"
	"strings"

	"resumeready/internal/types"
)

// Document converts an analysis into the generic JSON tree that condition
// paths are resolved against. Absent dimensions are absent keys.
func Document(analysis *types.PreAnalysisResult) map[string]any {
	doc := map[string]any{}
	if analysis == nil {
		return doc
	}
	data, err := json.Marshal(analysis)
	if err != nil {
		return doc
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return map[string]any{}
	}
	return doc
}

// Resolve walks a dotted path through doc. A segment applied to a list is
// projected over every element, so "uniqueness.factors.rarity" yields the
// list of rarities; an integer segment indexes the list instead. The second
// result is false when the path does not resolve.
func Resolve(doc any, path string) (any, bool) {
	if path == "" {
		return doc, doc != nil
	}
	return resolve(doc, strings.Split(path, "."))
}

func resolve(cur any, segs []string) (any, bool) {
	if len(segs) == 0 {
		return cur, true
	}
	seg := segs[0]

	switch node := cur.(type) {
	case map[string]any:
		next, ok := node[seg]
		if !ok {
			return nil, false
		}
		return resolve(next, segs[1:])
	case []any:
		if idx, err := strconv.Atoi(seg); err == nil {
			if idx < 0 || idx >= len(node) {
				return nil, false
			}
			return resolve(node[idx], segs[1:])
		}
		out := make([]any, 0, len(node))
		for _, item := range node {
			v, ok := resolve(item, segs)
			if !ok || v == nil {
				continue
			}
			if inner, isList := v.([]any); isList {
				out = append(out, inner...)
				continue
			}
			out = append(out, v)
		}
		return out, true
	default:
		return nil, false
	}
}
