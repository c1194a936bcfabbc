package jsonrepair

import (
	"regexp"
	"strings"
)

var fencedBlockRe = regexp.MustCompile("(?s)```[A-Za-z0-9_-]*[ \\t]*\\r?\\n?(.*?)```")

// Extract pulls the JSON payload out of free-form model text. It tries, in
// order: the fenced block that ends the text, the first fenced block, a
// string-aware balanced scan from the first '{', and finally everything
// between the first '{' and the last '}'.
func Extract(text string) string {
	trimmed := strings.TrimSpace(text)

	if matches := fencedBlockRe.FindAllStringSubmatchIndex(trimmed, -1); len(matches) > 0 {
		last := matches[len(matches)-1]
		if last[1] == len(trimmed) {
			if body := strings.TrimSpace(trimmed[last[2]:last[3]]); looksLikeJSON(body) {
				return body
			}
		}
		for _, m := range matches {
			if body := strings.TrimSpace(trimmed[m[2]:m[3]]); looksLikeJSON(body) {
				return body
			}
		}
	}

	if body, ok := balancedScan(trimmed); ok {
		return body
	}

	start := strings.IndexByte(trimmed, '{')
	if start < 0 {
		return trimmed
	}
	if end := strings.LastIndexByte(trimmed, '}'); end > start {
		return trimmed[start : end+1]
	}
	// Truncated output: keep the tail so bracket closure can finish it.
	return trimmed[start:]
}

func looksLikeJSON(s string) bool {
	return strings.ContainsAny(s, "{[")
}

// balancedScan returns the first complete object (or array, when the text
// itself starts with '[') counting brackets only outside string literals.
func balancedScan(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if strings.HasPrefix(text, "[") {
		start = 0
	}
	if start < 0 {
		return "", false
	}

	body := text[start:]
	res := scan(body, scanOptions{})
	depth := 0
	for i := 0; i < len(body); i++ {
		if !res.code(i) {
			continue
		}
		switch body[i] {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return body[:i+1], true
			}
		}
	}
	return "", false
}
