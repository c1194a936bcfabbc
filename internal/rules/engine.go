package rules

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"resumeready/internal/types"
)

// Recruiter issues a rule addresses. The tag groups rules; it never affects
// evaluation.
const (
	IssueUniqueness     = 1
	IssueImpact         = 2
	IssueCompanyContext = 3
	IssueCulturalFit    = 4
	IssueCustomization  = 5
)

// TransformationRule is a static condition to actions mapping.
type TransformationRule struct {
	ID             string    `json:"id"`
	Priority       int       `json:"priority"`
	RecruiterIssue int       `json:"recruiterIssue"`
	Condition      Condition `json:"condition"`
	Actions        []Action  `json:"actions"`
	StrategicTone  Tone      `json:"strategicTone"`
	Enabled        bool      `json:"enabled"`
}

// Instruction is one action of a fired rule, ready for the rewrite step.
type Instruction struct {
	RuleID                  string     `json:"ruleId"`
	Priority                int        `json:"priority"`
	RecruiterIssue          int        `json:"recruiterIssue"`
	Tone                    Tone       `json:"tone"`
	Type                    ActionType `json:"type"`
	Target                  Target     `json:"target"`
	TemplateID              string     `json:"templateId,omitempty"`
	Data                    ActionData `json:"data"`
	PreserveOriginalMeaning bool       `json:"preserveOriginalMeaning"`
}

// sortRules returns the enabled rules ordered by ascending priority, keeping
// declaration order between equal priorities.
func sortRules(rules []TransformationRule) []TransformationRule {
	enabled := make([]TransformationRule, 0, len(rules))
	for _, r := range rules {
		if r.Enabled {
			enabled = append(enabled, r)
		}
	}
	slices.SortStableFunc(enabled, func(a, b TransformationRule) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
	return enabled
}

// EvaluateRules returns one instruction per action of every enabled rule
// whose condition holds, in rule priority order. Instructions are not
// deduplicated across rules.
func EvaluateRules(rules []TransformationRule, analysis *types.PreAnalysisResult) []Instruction {
	doc := Document(analysis)

	var out []Instruction
	for _, rule := range sortRules(rules) {
		if !Evaluate(rule.Condition, doc) {
			continue
		}
		for _, action := range rule.Actions {
			out = append(out, Instruction{
				RuleID:                  rule.ID,
				Priority:                rule.Priority,
				RecruiterIssue:          rule.RecruiterIssue,
				Tone:                    rule.StrategicTone,
				Type:                    action.Type,
				Target:                  action.Target,
				TemplateID:              action.TemplateID,
				Data:                    action.Data,
				PreserveOriginalMeaning: action.PreserveOriginalMeaning,
			})
		}
	}
	return out
}

// RuleEvaluation records whether a single rule fired.
type RuleEvaluation struct {
	RuleID         string `json:"ruleId"`
	Priority       int    `json:"priority"`
	RecruiterIssue int    `json:"recruiterIssue"`
	Enabled        bool   `json:"enabled"`
	Fired          bool   `json:"fired"`
	Condition      string `json:"condition"`
}

// Explain evaluates every rule, disabled ones included, and reports the
// outcome in priority order. Disabled rules never fire.
func Explain(rules []TransformationRule, analysis *types.PreAnalysisResult) []RuleEvaluation {
	doc := Document(analysis)

	ordered := slices.Clone(rules)
	slices.SortStableFunc(ordered, func(a, b TransformationRule) int {
		return cmp.Compare(a.Priority, b.Priority)
	})

	out := make([]RuleEvaluation, 0, len(ordered))
	for _, rule := range ordered {
		out = append(out, RuleEvaluation{
			RuleID:         rule.ID,
			Priority:       rule.Priority,
			RecruiterIssue: rule.RecruiterIssue,
			Enabled:        rule.Enabled,
			Fired:          rule.Enabled && Evaluate(rule.Condition, doc),
			Condition:      rule.Condition.String(),
		})
	}
	return out
}

// FormatInstructions renders instructions as the directive block handed to
// the rewrite model.
func FormatInstructions(instructions []Instruction) string {
	if len(instructions) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("TRANSFORMATION INSTRUCTIONS (apply in order; never invent facts, metrics or employers):\n")
	for i, in := range instructions {
		fmt.Fprintf(&b, "%d. [%s] %s -> %s (tone: %s)\n", i+1, in.RuleID, in.Type, in.Target, in.Tone)
		if in.TemplateID != "" {
			fmt.Fprintf(&b, "   template %s: %s\n", in.TemplateID, templatePattern(in.TemplateID))
		}
		if in.Data != nil {
			fmt.Fprintf(&b, "   %s\n", in.Data.Describe())
		}
		if in.PreserveOriginalMeaning {
			b.WriteString("   keep the original meaning\n")
		}
	}
	return b.String()
}
