package rules

import (
	"fmt"
	"strings"
)

// ConditionKind tags the variant held by a Condition.
type ConditionKind string

const (
	KindExists    ConditionKind = "EXISTS"
	KindMatch     ConditionKind = "MATCH"
	KindThreshold ConditionKind = "THRESHOLD"
	KindAnd       ConditionKind = "AND"
	KindOr        ConditionKind = "OR"
	KindNot       ConditionKind = "NOT"
)

// Operators accepted by MATCH and THRESHOLD.
const (
	OpEquals   = "="
	OpContains = "contains"
	OpIn       = "in"

	OpLess         = "<"
	OpGreater      = ">"
	OpLessEqual    = "<="
	OpGreaterEqual = ">="
)

// Condition is a node of a rule's boolean expression tree. Field is a dotted
// path into the JSON form of the analysis. NOT always holds a list; a list
// of several children is negated as a whole (NOT of their AND).
type Condition struct {
	Kind       ConditionKind `json:"type"`
	Field      string        `json:"field,omitempty"`
	Operator   string        `json:"operator,omitempty"`
	Value      any           `json:"value,omitempty"`
	Conditions []Condition   `json:"conditions,omitempty"`
}

func Exists(field string) Condition {
	return Condition{Kind: KindExists, Field: field}
}

func Match(field, operator string, value any) Condition {
	return Condition{Kind: KindMatch, Field: field, Operator: operator, Value: value}
}

func Threshold(field, operator string, value float64) Condition {
	return Condition{Kind: KindThreshold, Field: field, Operator: operator, Value: value}
}

func And(conds ...Condition) Condition {
	return Condition{Kind: KindAnd, Conditions: conds}
}

func Or(conds ...Condition) Condition {
	return Condition{Kind: KindOr, Conditions: conds}
}

func Not(conds ...Condition) Condition {
	return Condition{Kind: KindNot, Conditions: conds}
}

// String renders the condition in a compact prefix form, used by Explain.
func (c Condition) String() string {
	switch c.Kind {
	case KindExists:
		return fmt.Sprintf("EXISTS(%s)", c.Field)
	case KindMatch, KindThreshold:
		return fmt.Sprintf("%s(%s %s %v)", c.Kind, c.Field, c.Operator, c.Value)
	case KindAnd, KindOr, KindNot:
		parts := make([]string, len(c.Conditions))
		for i, child := range c.Conditions {
			parts[i] = child.String()
		}
		return fmt.Sprintf("%s[%s]", c.Kind, strings.Join(parts, ", "))
	default:
		return string(c.Kind)
	}
}

// Evaluate reports whether c holds against doc, the JSON form of an
// analysis. Unresolvable paths make a predicate false; nothing here errors.
func Evaluate(c Condition, doc any) bool {
	switch c.Kind {
	case KindExists:
		v, ok := Resolve(doc, c.Field)
		return ok && present(v)
	case KindMatch:
		v, ok := Resolve(doc, c.Field)
		return ok && match(v, c.Operator, c.Value)
	case KindThreshold:
		v, ok := Resolve(doc, c.Field)
		if !ok {
			return false
		}
		return threshold(v, c.Operator, c.Value)
	case KindAnd:
		for _, child := range c.Conditions {
			if !Evaluate(child, doc) {
				return false
			}
		}
		return true
	case KindOr:
		for _, child := range c.Conditions {
			if Evaluate(child, doc) {
				return true
			}
		}
		return false
	case KindNot:
		return !Evaluate(And(c.Conditions...), doc)
	default:
		return false
	}
}

func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case []any:
		return len(t) > 0
	default:
		return true
	}
}

func match(v any, operator string, want any) bool {
	switch operator {
	case OpEquals:
		return equal(v, want)
	case OpContains:
		switch t := v.(type) {
		case []any:
			for _, item := range t {
				if equal(item, want) {
					return true
				}
			}
			return false
		case string:
			s, ok := want.(string)
			return ok && strings.Contains(t, s)
		default:
			return false
		}
	case OpIn:
		if _, isList := v.([]any); isList {
			return false
		}
		for _, candidate := range asList(want) {
			if equal(v, candidate) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func threshold(v any, operator string, want any) bool {
	got, ok := number(v)
	if !ok {
		return false
	}
	limit, ok := number(want)
	if !ok {
		return false
	}
	switch operator {
	case OpLess:
		return got < limit
	case OpGreater:
		return got > limit
	case OpLessEqual:
		return got <= limit
	case OpGreaterEqual:
		return got >= limit
	default:
		return false
	}
}

// equal is strict equality over JSON scalars; numbers compare by value
// regardless of their Go type.
func equal(a, b any) bool {
	if x, ok := number(a); ok {
		y, ok := number(b)
		return ok && x == y
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case nil:
		return b == nil
	default:
		return false
	}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func asList(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	default:
		return nil
	}
}
