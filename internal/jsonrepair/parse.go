package jsonrepair

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError is returned when model output cannot be parsed even after repair.
// It carries both texts so the failure can be diagnosed from logs.
type ParseError struct {
	Raw      string
	Repaired string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse model JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseModelJSON extracts, repairs and decodes the JSON document embedded in
// raw model output.
func ParseModelJSON[T any](raw string) (T, error) {
	var out T
	if strings.TrimSpace(raw) == "" {
		return out, &ParseError{Raw: raw, Err: fmt.Errorf("empty input")}
	}

	repaired := Repair(Extract(raw))
	if err := json.Unmarshal([]byte(repaired), &out); err != nil {
		return out, &ParseError{Raw: raw, Repaired: repaired, Err: err}
	}
	return out, nil
}
