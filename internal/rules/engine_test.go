package rules

import (
	"encoding/json"
	"strings"
	"testing"

	"resumeready/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alwaysRule(id string, priority int, enabled bool) TransformationRule {
	return TransformationRule{
		ID:        id,
		Priority:  priority,
		Condition: Not(Exists("nothing.here")),
		Actions: []Action{
			NewAction(TargetBullet, EnhanceData{Aspect: id, Guidance: "g"}),
		},
		StrategicTone: ToneMeasured,
		Enabled:       enabled,
	}
}

func ruleIDs(instructions []Instruction) []string {
	ids := make([]string, len(instructions))
	for i, in := range instructions {
		ids[i] = in.RuleID
	}
	return ids
}

func TestEvaluateRulesPriorityOrder(t *testing.T) {
	rules := []TransformationRule{
		alwaysRule("p20", 20, true),
		alwaysRule("p5", 5, true),
		alwaysRule("p15", 15, true),
	}

	got := EvaluateRules(rules, &types.PreAnalysisResult{})
	assert.Equal(t, []string{"p5", "p15", "p20"}, ruleIDs(got))
}

func TestEvaluateRulesStableOnTies(t *testing.T) {
	rules := []TransformationRule{
		alwaysRule("first", 10, true),
		alwaysRule("disabled", 1, false),
		alwaysRule("second", 10, true),
		alwaysRule("third", 10, true),
	}

	got := EvaluateRules(rules, nil)
	assert.Equal(t, []string{"first", "second", "third"}, ruleIDs(got))
}

func TestEvaluateRulesEmitsOneInstructionPerAction(t *testing.T) {
	rule := alwaysRule("multi", 1, true)
	rule.StrategicTone = ToneHumble
	rule.Actions = append(rule.Actions, NewTemplateAction(TargetSummary, TemplateValueProposition, ApplyTemplateData{Focus: "x"}))

	got := EvaluateRules([]TransformationRule{rule, rule}, nil)
	require.Len(t, got, 4, "instructions are not deduplicated")

	assert.Equal(t, ActionEnhance, got[0].Type)
	assert.Equal(t, ActionApplyTemplate, got[1].Type)
	assert.Equal(t, TemplateValueProposition, got[1].TemplateID)
	for _, in := range got {
		assert.Equal(t, ToneHumble, in.Tone)
		assert.True(t, in.PreserveOriginalMeaning)
	}
}

func TestEndToEndLowImpact(t *testing.T) {
	analysis := &types.PreAnalysisResult{
		Impact: &types.ImpactResult{Score: 30},
	}

	got := EvaluateRules(AllEnabledRules(), analysis)
	ids := ruleIDs(got)

	assert.Contains(t, ids, "impact-low-score-major-transform")
	assert.Equal(t, "impact-low-score-major-transform", ids[0])
	for _, id := range ids {
		assert.False(t, strings.HasPrefix(id, "context-"), "context rule %s fired without a context result", id)
	}
}

func TestCustomizationRulesNeedContext(t *testing.T) {
	analysis := &types.PreAnalysisResult{
		Context: &types.ContextResult{
			Score:           40,
			MatchedSkills:   []string{"Go"},
			KeywordCoverage: types.KeywordCoverage{Covered: 2, Total: 10, Percentage: 20},
			MissingRequirements: []types.MissingRequirement{
				{Requirement: "Kubernetes", Importance: "critical"},
			},
		},
	}

	ids := ruleIDs(EvaluateRules(CustomizationRules(), analysis))
	assert.Equal(t, []string{
		"context-low-alignment-retarget",
		"context-low-alignment-retarget",
		"context-keyword-gap-inject",
		"context-critical-requirements-address",
		"context-matched-skills-reorder",
	}, ids)
}

func TestRuleSetsAreWellFormed(t *testing.T) {
	seen := map[string]bool{}
	for _, rule := range AllRules() {
		assert.False(t, seen[rule.ID], "duplicate rule id %s", rule.ID)
		seen[rule.ID] = true

		assert.GreaterOrEqual(t, rule.RecruiterIssue, 1)
		assert.LessOrEqual(t, rule.RecruiterIssue, 5)
		assert.NotEmpty(t, rule.Actions, rule.ID)
		assert.Contains(t, []Tone{ToneConfident, ToneMeasured, ToneHumble}, rule.StrategicTone)

		for _, action := range rule.Actions {
			require.NotNil(t, action.Data, rule.ID)
			assert.Equal(t, action.Data.Kind(), action.Type, rule.ID)
			assert.True(t, action.PreserveOriginalMeaning, rule.ID)
			if action.TemplateID != "" {
				assert.NotEmpty(t, templatePattern(action.TemplateID), "unknown template %s in %s", action.TemplateID, rule.ID)
			}
		}

		if strings.HasPrefix(rule.ID, "context-") {
			require.Equal(t, KindAnd, rule.Condition.Kind, rule.ID)
			assert.Contains(t, rule.Condition.Conditions, Exists("context.score"), rule.ID)
		}
	}
}

func TestAllEnabledRules(t *testing.T) {
	all := AllEnabledRules()

	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Priority, all[i].Priority)
	}
	for _, rule := range all {
		assert.True(t, rule.Enabled)
	}
	assert.Less(t, len(all), len(AllRules()))
}

func TestRuleSetAccessorsReturnCopies(t *testing.T) {
	set := ImpactRules()
	set[0].Priority = 999
	assert.Equal(t, 5, ImpactRules()[0].Priority)
}

func TestRuleSetAccessorsReturnDeepCopies(t *testing.T) {
	set := UniquenessRules()
	rule := set[1]
	require.Equal(t, "uniqueness-rare-factors-highlight", rule.ID)
	rule.Condition.Conditions[0].Value = "mutated"
	rule.Actions[0] = NewAction(TargetBullet, EnhanceData{Aspect: "mutated"})

	fresh := UniquenessRules()[1]
	assert.Equal(t, "rare", fresh.Condition.Conditions[0].Value)
	assert.Equal(t, ActionHighlight, fresh.Actions[0].Type)

	for _, r := range AllRules() {
		for i, a := range r.Actions {
			if d, ok := a.Data.(ApplyTemplateData); ok && len(d.MetricHints) > 0 {
				d.MetricHints[0] = "mutated"
				r.Actions[i].Data = d
			}
		}
	}
	for _, r := range AllRules() {
		for _, a := range r.Actions {
			if d, ok := a.Data.(ApplyTemplateData); ok {
				assert.NotContains(t, d.MetricHints, "mutated", r.ID)
			}
		}
	}
}

func TestExceptionalRarityFiresHighlight(t *testing.T) {
	analysis := &types.PreAnalysisResult{
		Uniqueness: &types.UniquenessResult{
			Score:   60,
			Factors: []types.Factor{{Type: "skill", Title: "Rust + COBOL", Rarity: "exceptional"}},
		},
	}

	ids := ruleIDs(EvaluateRules(UniquenessRules(), analysis))
	assert.Contains(t, ids, "uniqueness-rare-factors-highlight")
}

func TestExplain(t *testing.T) {
	analysis := &types.PreAnalysisResult{Impact: &types.ImpactResult{Score: 30}}

	evals := Explain(AllRules(), analysis)
	require.Len(t, evals, len(AllRules()))

	byID := map[string]RuleEvaluation{}
	for _, e := range evals {
		byID[e.RuleID] = e
	}
	assert.True(t, byID["impact-low-score-major-transform"].Fired)
	assert.False(t, byID["impact-moderate-score-refine"].Fired)
	assert.False(t, byID["context-career-changer-summary"].Enabled)
	assert.False(t, byID["context-career-changer-summary"].Fired)
	assert.Equal(t, "THRESHOLD(impact.score < 40)", byID["impact-low-score-major-transform"].Condition)
}

func TestFormatInstructions(t *testing.T) {
	assert.Empty(t, FormatInstructions(nil))

	out := FormatInstructions(EvaluateRules(ImpactRules(), &types.PreAnalysisResult{
		Impact: &types.ImpactResult{Score: 30},
	}))

	assert.Contains(t, out, "1. [impact-low-score-major-transform] apply_template -> bullet (tone: confident)")
	assert.Contains(t, out, "template car-quantified:")
	assert.Contains(t, out, "keep the original meaning")
}

func TestInstructionJSON(t *testing.T) {
	in := EvaluateRules(ImpactRules(), &types.PreAnalysisResult{Impact: &types.ImpactResult{Score: 30}})[0]

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "apply_template", decoded["type"])
	assert.Equal(t, "car-quantified", decoded["templateId"])
	payload, ok := decoded["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "turn duty statements into outcomes", payload["focus"])
}

func TestInstructionJSONRoundTrip(t *testing.T) {
	original := EvaluateRules(AllEnabledRules(), &types.PreAnalysisResult{
		Impact: &types.ImpactResult{Score: 30},
	})
	require.NotEmpty(t, original)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded []Instruction
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
	assert.Equal(t, FormatInstructions(original), FormatInstructions(decoded))
}

func TestInstructionJSONRejectsUnknownType(t *testing.T) {
	var in Instruction
	err := json.Unmarshal([]byte(`{"ruleId":"x","type":"teleport","data":{}}`), &in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teleport")

	require.NoError(t, json.Unmarshal([]byte(`{"ruleId":"x","type":"teleport"}`), &in))
	assert.Nil(t, in.Data)
}

func TestActionJSONRoundTrip(t *testing.T) {
	for _, rule := range AllRules() {
		data, err := json.Marshal(rule.Actions)
		require.NoError(t, err)

		var decoded []Action
		require.NoError(t, json.Unmarshal(data, &decoded), rule.ID)
		assert.Equal(t, rule.Actions, decoded, rule.ID)
	}
}
