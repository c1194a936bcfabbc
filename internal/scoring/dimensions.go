package scoring

import (
	"fmt"

	"resumeready/internal/types"
)

func uniquenessRaw(u *types.UniquenessResult) int {
	if u == nil {
		return neutralScore
	}
	return u.Score
}

func impactRaw(i *types.ImpactResult) int {
	if i == nil {
		return neutralScore
	}
	return i.Score
}

func customizationRaw(c *types.ContextResult) int {
	if c == nil {
		return neutralScore
	}
	return c.Score
}

// contextTranslationRaw is a ladder over how much a recruiter already knows
// about the candidate's employer.
func contextTranslationRaw(c *types.CompanyResult) int {
	switch {
	case c == nil:
		return 70
	case c.IsWellKnown:
		return 100
	case c.ComparableCompany != "":
		return 80
	case c.Context != "":
		return 60
	default:
		return 30
	}
}

func culturalFitRaw(skills []types.SoftSkill) int {
	strong, moderate := countStrengths(skills)
	return min(100, 30+20*strong+10*moderate)
}

func countStrengths(skills []types.SoftSkill) (strong, moderate int) {
	for _, s := range skills {
		switch s.Strength {
		case types.StrengthStrong:
			strong++
		case types.StrengthModerate:
			moderate++
		}
	}
	return strong, moderate
}

func uniquenessSuggestions(u *types.UniquenessResult, raw int) []string {
	if u == nil {
		return []string{"Describe what sets you apart from other candidates for this role"}
	}
	var out []string
	if raw < 70 {
		out = append(out, "Lead your summary with your most distinctive skill or experience")
	}
	out = append(out, u.Suggestions...)
	return out
}

func impactSuggestions(i *types.ImpactResult, raw int) []string {
	if i == nil {
		return []string{"Add measurable results to your experience bullets"}
	}
	var out []string
	if raw < 70 {
		if i.TotalBullets > 0 {
			out = append(out, fmt.Sprintf("Quantify more bullets: %d of %d include a metric", i.QuantifiedBullets, i.TotalBullets))
		} else {
			out = append(out, "Quantify your achievements with numbers, percentages or dollar amounts")
		}
	}
	out = append(out, i.Suggestions...)
	return out
}

func contextTranslationSuggestions(c *types.CompanyResult, raw int) []string {
	if c == nil || raw >= 80 {
		return nil
	}
	if c.Name != "" {
		return []string{fmt.Sprintf("Add a one-line description of %s so recruiters can place it", c.Name)}
	}
	return []string{"Add a one-line description of lesser-known employers"}
}

func culturalFitSuggestions(skills []types.SoftSkill, raw int) []string {
	if len(skills) == 0 {
		return []string{"Show soft skills such as collaboration or leadership through concrete examples"}
	}
	if raw >= 70 {
		return nil
	}
	var out []string
	for _, s := range skills {
		if s.Strength == types.StrengthDeveloping {
			out = append(out, fmt.Sprintf("Back up %s with a specific example", s.Skill))
		}
	}
	if len(out) == 0 {
		out = append(out, "Tie your soft skills to specific results")
	}
	return out
}

func customizationSuggestions(c *types.ContextResult, raw int) []string {
	if c == nil {
		return []string{"Add a job description to tailor the resume to the role"}
	}
	var out []string
	for _, m := range c.MissingRequirements {
		if m.Importance == "critical" {
			out = append(out, fmt.Sprintf("Address the requirement: %s", m.Requirement))
		}
	}
	if raw < 70 && c.KeywordCoverage.Total > 0 {
		out = append(out, fmt.Sprintf("Use more of the job's keywords: %d of %d covered", c.KeywordCoverage.Covered, c.KeywordCoverage.Total))
	}
	out = append(out, c.Suggestions...)
	return out
}
