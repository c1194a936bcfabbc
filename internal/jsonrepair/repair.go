package jsonrepair

import (
	"bytes"
	"fmt"
	"strings"
)

// keyQuotingPasses bounds QuoteKeys; each pass is a full scan and the loop
// stops as soon as a pass changes nothing.
const keyQuotingPasses = 3

// Repair runs the repair steps in their required order. Comment removal runs
// before quote handling so quote characters inside comments never reach the
// quote tracker, and bracket closure runs last so it counts brackets in
// otherwise well-formed text. Repairing valid JSON returns it unchanged.
func Repair(text string) string {
	text = StripComments(text)
	text = QuoteKeys(text)
	text = NormalizeQuotes(text)
	text = RemoveTrailingCommas(text)
	text = EscapeControlChars(text)
	return CloseUnclosedBrackets(text)
}

// StripComments removes // line comments and /* */ block comments found
// outside string literals. Single-quoted literals count as strings, so a URL
// inside one survives.
func StripComments(text string) string {
	if !strings.Contains(text, "/") {
		return text
	}
	res := scan(text, scanOptions{comments: true, singleQuotes: true})

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if res.states[i] != stateComment {
			b.WriteByte(text[i])
		}
	}
	return b.String()
}

// QuoteKeys wraps bare identifiers that follow '{' or ',' and precede ':' in
// double quotes.
func QuoteKeys(text string) string {
	for range keyQuotingPasses {
		next := quoteKeysOnce(text)
		if next == text {
			break
		}
		text = next
	}
	return text
}

func quoteKeysOnce(text string) string {
	res := scan(text, scanOptions{singleQuotes: true})

	var b strings.Builder
	b.Grow(len(text) + 16)
	i := 0
	for i < len(text) {
		c := text[i]
		b.WriteByte(c)
		i++
		if !res.code(i-1) || (c != '{' && c != ',') {
			continue
		}

		start := i
		for start < len(text) && isSpace(text[start]) {
			start++
		}
		if start >= len(text) || !isIdentStart(text[start]) {
			continue
		}
		end := start
		for end < len(text) && isIdentPart(text[end]) {
			end++
		}
		colon := end
		for colon < len(text) && isSpace(text[colon]) {
			colon++
		}
		if colon >= len(text) || text[colon] != ':' {
			continue
		}

		b.WriteString(text[i:start])
		b.WriteByte('"')
		b.WriteString(text[start:end])
		b.WriteByte('"')
		b.WriteString(text[end:colon])
		i = colon
	}
	return b.String()
}

// NormalizeQuotes turns single-quoted literals into double-quoted ones. An
// apostrophe inside a double-quoted literal is content, not a delimiter.
func NormalizeQuotes(text string) string {
	if !strings.Contains(text, "'") {
		return text
	}
	res := scan(text, scanOptions{singleQuotes: true})

	var b strings.Builder
	b.Grow(len(text) + 8)
	var current byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch res.states[i] {
		case stateDelimiter:
			if current == 0 {
				current = c
			} else {
				current = 0
			}
			if c == '\'' {
				c = '"'
			}
			b.WriteByte(c)
		case stateString:
			if current != '\'' {
				b.WriteByte(c)
				continue
			}
			switch {
			case c == '\\' && i+1 < len(text):
				if text[i+1] == '\'' {
					b.WriteByte('\'')
				} else {
					b.WriteByte(c)
					b.WriteByte(text[i+1])
				}
				i++
			case c == '"':
				b.WriteString(`\"`)
			default:
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// RemoveTrailingCommas drops commas that directly precede ']' or '}'.
func RemoveTrailingCommas(text string) string {
	if !strings.Contains(text, ",") {
		return text
	}
	res := scan(text, scanOptions{})

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == ',' && res.code(i) {
			j := i + 1
			for j < len(text) && isSpace(text[j]) {
				j++
			}
			if j < len(text) && (text[j] == ']' || text[j] == '}') {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// EscapeControlChars escapes raw control characters inside string literals.
func EscapeControlChars(text string) string {
	res := scan(text, scanOptions{})

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c >= 0x20 || res.states[i] != stateString {
			b.WriteByte(c)
			continue
		}
		switch c {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			fmt.Fprintf(&b, `\u%04x`, c)
		}
	}
	return b.String()
}

// CloseUnclosedBrackets appends the closers a truncated document is missing,
// innermost first. A closer that skips over open brackets closes them first;
// a closer with nothing to close is dropped. An unterminated string loses a
// dangling backslash and is closed, a dangling ',' is dropped and a dangling
// ':' gets a null value before the closers are added.
func CloseUnclosedBrackets(text string) string {
	res := scan(text, scanOptions{})

	var (
		b       strings.Builder
		stack   []byte
		changed bool
	)
	b.Grow(len(text) + 8)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if !res.code(i) {
			b.WriteByte(c)
			continue
		}
		switch c {
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			open := bytes.LastIndexByte(stack, c)
			if open < 0 {
				changed = true
				continue
			}
			for len(stack)-1 > open {
				b.WriteByte(stack[len(stack)-1])
				stack = stack[:len(stack)-1]
				changed = true
			}
			stack = stack[:open]
		}
		b.WriteByte(c)
	}
	if len(stack) == 0 && !res.unterminated && !changed {
		return text
	}

	out := b.String()
	if res.unterminated {
		if res.escapePending {
			out = out[:len(out)-1]
		}
		out += `"`
	}
	trimmed := strings.TrimRight(out, " \t\r\n")
	switch {
	case strings.HasSuffix(trimmed, ","):
		out = trimmed[:len(trimmed)-1]
	case strings.HasSuffix(trimmed, ":"):
		out = trimmed + " null"
	}

	b.Reset()
	b.WriteString(out)
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}
	return b.String()
}
