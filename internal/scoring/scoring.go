// Package scoring turns a pre-analysis bundle into the recruiter readiness
// score.
package scoring

import (
	"cmp"
	"maps"
	"math"
	"slices"

	"resumeready/internal/types"
)

// Dimension names.
const (
	DimensionUniqueness         = "uniqueness"
	DimensionImpact             = "impact"
	DimensionContextTranslation = "contextTranslation"
	DimensionCulturalFit        = "culturalFit"
	DimensionCustomization      = "customization"
)

// dimensionWeights sum to exactly 1.0.
var dimensionWeights = map[string]float64{
	DimensionUniqueness:         0.20,
	DimensionImpact:             0.30,
	DimensionContextTranslation: 0.15,
	DimensionCulturalFit:        0.10,
	DimensionCustomization:      0.25,
}

// dimensionOrder fixes the order dimensions are reported and suggestions
// collected in.
var dimensionOrder = []string{
	DimensionUniqueness,
	DimensionImpact,
	DimensionContextTranslation,
	DimensionCulturalFit,
	DimensionCustomization,
}

// DimensionWeights returns a copy of the composite weight of each dimension.
func DimensionWeights() map[string]float64 {
	return maps.Clone(dimensionWeights)
}

// Readiness labels.
const (
	LabelExceptional  = "exceptional"
	LabelStrong       = "strong"
	LabelGood         = "good"
	LabelGettingThere = "getting_there"
	LabelNeedsWork    = "needs_work"
)

// neutralScore stands in for a module score when the module produced nothing.
const neutralScore = 50

const (
	maxDimensionSuggestions = 2
	maxTopSuggestions       = 3
)

type DimensionScore struct {
	Name        string   `json:"name" yaml:"name"`
	Raw         int      `json:"raw" yaml:"raw"`
	Weighted    float64  `json:"weighted" yaml:"weighted"`
	Weight      float64  `json:"weight" yaml:"weight"`
	Label       string   `json:"label" yaml:"label"`
	Suggestions []string `json:"suggestions" yaml:"suggestions"`
}

type RecruiterReadiness struct {
	Composite      int              `json:"composite" yaml:"composite"`
	Label          string           `json:"label" yaml:"label"`
	Dimensions     []DimensionScore `json:"dimensions" yaml:"dimensions"`
	TopSuggestions []string         `json:"topSuggestions" yaml:"topSuggestions"`
}

// Dimension returns the named dimension score.
func (r RecruiterReadiness) Dimension(name string) (DimensionScore, bool) {
	for _, d := range r.Dimensions {
		if d.Name == name {
			return d, true
		}
	}
	return DimensionScore{}, false
}

// CalculateRecruiterReadiness scores the five dimensions independently and
// combines them. Missing module results fall back to neutral values.
func CalculateRecruiterReadiness(analysis *types.PreAnalysisResult) RecruiterReadiness {
	if analysis == nil {
		analysis = &types.PreAnalysisResult{}
	}

	raws := map[string]int{
		DimensionUniqueness:         uniquenessRaw(analysis.Uniqueness),
		DimensionImpact:             impactRaw(analysis.Impact),
		DimensionContextTranslation: contextTranslationRaw(analysis.Company),
		DimensionCulturalFit:        culturalFitRaw(analysis.SoftSkills),
		DimensionCustomization:      customizationRaw(analysis.Context),
	}
	suggestions := map[string][]string{
		DimensionUniqueness:         uniquenessSuggestions(analysis.Uniqueness, raws[DimensionUniqueness]),
		DimensionImpact:             impactSuggestions(analysis.Impact, raws[DimensionImpact]),
		DimensionContextTranslation: contextTranslationSuggestions(analysis.Company, raws[DimensionContextTranslation]),
		DimensionCulturalFit:        culturalFitSuggestions(analysis.SoftSkills, raws[DimensionCulturalFit]),
		DimensionCustomization:      customizationSuggestions(analysis.Context, raws[DimensionCustomization]),
	}

	result := RecruiterReadiness{}
	var sum float64
	for _, name := range dimensionOrder {
		raw := clampScore(raws[name])
		weight := dimensionWeights[name]
		s := suggestions[name]
		if len(s) > maxDimensionSuggestions {
			s = s[:maxDimensionSuggestions]
		}
		if s == nil {
			s = []string{}
		}

		d := DimensionScore{
			Name:        name,
			Raw:         raw,
			Weight:      weight,
			Weighted:    float64(raw) * weight,
			Label:       DimensionLabel(raw),
			Suggestions: s,
		}
		sum += d.Weighted
		result.Dimensions = append(result.Dimensions, d)
	}

	result.Composite = int(math.Round(sum))
	result.Label = ReadinessLabel(result.Composite)
	result.TopSuggestions = topSuggestions(result.Dimensions)
	return result
}

// ReadinessLabel maps a composite score to its label.
func ReadinessLabel(composite int) string {
	switch {
	case composite >= 90:
		return LabelExceptional
	case composite >= 75:
		return LabelStrong
	case composite >= 60:
		return LabelGood
	case composite >= 45:
		return LabelGettingThere
	default:
		return LabelNeedsWork
	}
}

// DimensionLabel maps a dimension raw score to its label.
func DimensionLabel(raw int) string {
	switch {
	case raw >= 80:
		return "excellent"
	case raw >= 60:
		return "good"
	case raw >= 40:
		return "fair"
	default:
		return "weak"
	}
}

// impactBucket ranks how much a dimension would gain from attention:
// 0 high, 1 medium, 2 low.
func impactBucket(raw int) int {
	switch {
	case raw < 50:
		return 0
	case raw < 70:
		return 1
	default:
		return 2
	}
}

type rankedSuggestion struct {
	text   string
	bucket int
	raw    int
}

func topSuggestions(dims []DimensionScore) []string {
	var ranked []rankedSuggestion
	for _, d := range dims {
		for _, s := range d.Suggestions {
			ranked = append(ranked, rankedSuggestion{text: s, bucket: impactBucket(d.Raw), raw: d.Raw})
		}
	}
	slices.SortStableFunc(ranked, func(a, b rankedSuggestion) int {
		if c := cmp.Compare(a.bucket, b.bucket); c != 0 {
			return c
		}
		return cmp.Compare(a.raw, b.raw)
	})

	out := make([]string, 0, maxTopSuggestions)
	for _, r := range ranked {
		if len(out) == maxTopSuggestions {
			break
		}
		out = append(out, r.text)
	}
	return out
}

func clampScore(v int) int {
	return min(max(v, 0), 100)
}
