package scoring

import (
	"testing"

	"resumeready/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightsSumToOne(t *testing.T) {
	weights := DimensionWeights()
	var sum float64
	for _, w := range weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Len(t, weights, len(dimensionOrder))
}

func TestDimensionWeightsReturnsCopy(t *testing.T) {
	weights := DimensionWeights()
	weights[DimensionImpact] = 1
	delete(weights, DimensionUniqueness)

	assert.Equal(t, 0.30, DimensionWeights()[DimensionImpact])
	assert.Contains(t, DimensionWeights(), DimensionUniqueness)
}

func TestPerfectScores(t *testing.T) {
	analysis := &types.PreAnalysisResult{
		Uniqueness: &types.UniquenessResult{Score: 100},
		Impact:     &types.ImpactResult{Score: 100},
		Context:    &types.ContextResult{Score: 100},
		Company:    &types.CompanyResult{Name: "Google", IsWellKnown: true},
		SoftSkills: []types.SoftSkill{
			{Skill: "a", Strength: "strong"},
			{Skill: "b", Strength: "strong"},
			{Skill: "c", Strength: "strong"},
			{Skill: "d", Strength: "strong"},
		},
	}

	r := CalculateRecruiterReadiness(analysis)
	assert.Equal(t, 100, r.Composite)
	assert.Equal(t, LabelExceptional, r.Label)
}

func TestEndToEndLowImpact(t *testing.T) {
	analysis := &types.PreAnalysisResult{
		Impact:     &types.ImpactResult{Score: 30},
		SoftSkills: []types.SoftSkill{},
	}

	r := CalculateRecruiterReadiness(analysis)

	impact, ok := r.Dimension(DimensionImpact)
	require.True(t, ok)
	assert.Equal(t, 30, impact.Raw)
	assert.Equal(t, "weak", impact.Label)
	assert.InDelta(t, 9.0, impact.Weighted, 1e-9)

	ctx, _ := r.Dimension(DimensionContextTranslation)
	assert.Equal(t, 70, ctx.Raw)

	culture, _ := r.Dimension(DimensionCulturalFit)
	assert.Equal(t, 30, culture.Raw)

	// 50*.2 + 30*.3 + 70*.15 + 30*.1 + 50*.25
	assert.Equal(t, 45, r.Composite)
	assert.Equal(t, LabelGettingThere, r.Label)
}

func TestContextTranslationLadder(t *testing.T) {
	tests := []struct {
		name    string
		company *types.CompanyResult
		want    int
	}{
		{"no company", nil, 70},
		{"well known", &types.CompanyResult{IsWellKnown: true, ComparableCompany: "x"}, 100},
		{"comparable", &types.CompanyResult{ComparableCompany: "Stripe", Context: "fintech"}, 80},
		{"context only", &types.CompanyResult{Context: "regional bank"}, 60},
		{"nothing", &types.CompanyResult{Name: "Acme"}, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, contextTranslationRaw(tt.company))
		})
	}
}

func TestCulturalFitRaw(t *testing.T) {
	skills := func(strengths ...string) []types.SoftSkill {
		out := make([]types.SoftSkill, len(strengths))
		for i, s := range strengths {
			out[i] = types.SoftSkill{Skill: "s", Strength: s}
		}
		return out
	}

	assert.Equal(t, 30, culturalFitRaw(nil))
	assert.Equal(t, 60, culturalFitRaw(skills("strong", "moderate", "developing")))
	assert.Equal(t, 100, culturalFitRaw(skills("strong", "strong", "strong", "strong", "moderate")))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, LabelExceptional, ReadinessLabel(90))
	assert.Equal(t, LabelStrong, ReadinessLabel(89))
	assert.Equal(t, LabelStrong, ReadinessLabel(75))
	assert.Equal(t, LabelGood, ReadinessLabel(60))
	assert.Equal(t, LabelGettingThere, ReadinessLabel(45))
	assert.Equal(t, LabelNeedsWork, ReadinessLabel(44))

	assert.Equal(t, "excellent", DimensionLabel(80))
	assert.Equal(t, "good", DimensionLabel(79))
	assert.Equal(t, "fair", DimensionLabel(40))
	assert.Equal(t, "weak", DimensionLabel(39))
}

func TestScoresAreClamped(t *testing.T) {
	r := CalculateRecruiterReadiness(&types.PreAnalysisResult{
		Uniqueness: &types.UniquenessResult{Score: 140},
		Impact:     &types.ImpactResult{Score: -20},
	})

	u, _ := r.Dimension(DimensionUniqueness)
	i, _ := r.Dimension(DimensionImpact)
	assert.Equal(t, 100, u.Raw)
	assert.Equal(t, 0, i.Raw)
}

func TestSuggestionLimits(t *testing.T) {
	r := CalculateRecruiterReadiness(&types.PreAnalysisResult{
		Uniqueness: &types.UniquenessResult{Score: 65, Suggestions: []string{"u1", "u2", "u3"}},
		Impact:     &types.ImpactResult{Score: 20, TotalBullets: 10, QuantifiedBullets: 1, Suggestions: []string{"i1"}},
		Context: &types.ContextResult{
			Score:       40,
			Suggestions: []string{"c1"},
		},
	})

	for _, d := range r.Dimensions {
		assert.LessOrEqual(t, len(d.Suggestions), 2, d.Name)
	}

	// impact (20), cultural fit (30) and customization (40) all sit in the
	// high bucket; lower raw scores rank first.
	assert.Equal(t, []string{
		"Quantify more bullets: 1 of 10 include a metric",
		"i1",
		"Show soft skills such as collaboration or leadership through concrete examples",
	}, r.TopSuggestions)
}

func TestTopSuggestionsStable(t *testing.T) {
	dims := []DimensionScore{
		{Name: "a", Raw: 40, Suggestions: []string{"a1", "a2"}},
		{Name: "b", Raw: 40, Suggestions: []string{"b1"}},
		{Name: "c", Raw: 90, Suggestions: []string{"c1"}},
	}
	assert.Equal(t, []string{"a1", "a2", "b1"}, topSuggestions(dims))
}

func TestNilAnalysis(t *testing.T) {
	r := CalculateRecruiterReadiness(nil)
	assert.Len(t, r.Dimensions, 5)
	assert.Equal(t, 51, r.Composite)
}
