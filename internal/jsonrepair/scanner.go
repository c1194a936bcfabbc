package jsonrepair

import "strings"

// charState classifies one byte of model output.
type charState uint8

const (
	stateCode      charState = iota // structural JSON or bare tokens
	stateString                     // inside a string literal, escapes included
	stateDelimiter                  // the quote that opens or closes a literal
	stateComment                    // part of a // or /* */ comment
)

type scanOptions struct {
	// singleQuotes treats ' as a string delimiter in addition to ".
	singleQuotes bool
	// comments marks // and /* */ comments found outside string literals.
	comments bool
}

// scanResult is the per-byte annotation shared by every repair step.
type scanResult struct {
	states []charState
	// unterminated is set when the text ends inside a string literal.
	unterminated bool
	// escapePending is set when the text ends on an unfinished escape.
	escapePending bool
}

func (r scanResult) code(i int) bool {
	return r.states[i] == stateCode
}

// scan walks text once and records, for every byte, whether it sits inside a
// string literal. A backslash suppresses the byte that follows it; only an
// unescaped quote of the same kind ends a literal. Every syntax byte is ASCII,
// so multi-byte UTF-8 sequences never match.
func scan(text string, opts scanOptions) scanResult {
	states := make([]charState, len(text))
	var quote byte
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if quote != 0 {
			switch {
			case escaped:
				escaped = false
				states[i] = stateString
			case c == '\\':
				escaped = true
				states[i] = stateString
			case c == quote:
				quote = 0
				states[i] = stateDelimiter
			default:
				states[i] = stateString
			}
			continue
		}

		if opts.comments && c == '/' && i+1 < len(text) {
			switch text[i+1] {
			case '/':
				end := strings.IndexByte(text[i:], '\n')
				stop := len(text)
				if end >= 0 {
					stop = i + end
				}
				for j := i; j < stop; j++ {
					states[j] = stateComment
				}
				i = stop - 1
				continue
			case '*':
				end := strings.Index(text[i+2:], "*/")
				stop := len(text)
				if end >= 0 {
					stop = i + 2 + end + 2
				}
				for j := i; j < stop; j++ {
					states[j] = stateComment
				}
				i = stop - 1
				continue
			}
		}

		if c == '"' || (opts.singleQuotes && c == '\'') {
			quote = c
			states[i] = stateDelimiter
			continue
		}
		states[i] = stateCode
	}

	return scanResult{states: states, unterminated: quote != 0, escapePending: quote != 0 && escaped}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9') || c == '-'
}
