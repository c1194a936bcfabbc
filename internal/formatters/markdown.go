package formatters

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"resumeready/internal/analysis"
	"resumeready/internal/errors"
	"resumeready/internal/extract"
	"resumeready/internal/rules"
	"resumeready/internal/scoring"
	"resumeready/internal/tailoring"
	"resumeready/internal/types"
)

func writeReadinessMarkdown(output *strings.Builder, r scoring.RecruiterReadiness) {
	output.WriteString("## Recruiter Readiness\n\n")
	output.WriteString(fmt.Sprintf("**Composite:** %d/100 (%s)\n\n", r.Composite, r.Label))
	output.WriteString("| Dimension | Score | Label | Weight |\n")
	output.WriteString("|---|---|---|---|\n")
	for _, d := range r.Dimensions {
		output.WriteString(fmt.Sprintf("| %s | %d | %s | %.2f |\n", d.Name, d.Raw, d.Label, d.Weight))
	}
	output.WriteString("\n")

	if len(r.TopSuggestions) > 0 {
		output.WriteString("### Top Suggestions\n\n")
		for i, s := range r.TopSuggestions {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, s))
		}
		output.WriteString("\n")
	}
}

func writeErrorsMarkdown(output *strings.Builder, errs map[string]*errors.AppError) {
	if len(errs) == 0 {
		return
	}
	output.WriteString("## Failed Modules\n\n")
	for _, name := range slices.Sorted(maps.Keys(errs)) {
		output.WriteString(fmt.Sprintf("- **%s:** `%s` %s\n", name, errs[name].Code, errs[name].Message))
	}
	output.WriteString("\n")
}

func writeAnalysisMarkdown(output *strings.Builder, pre *types.PreAnalysisResult) {
	if pre == nil {
		return
	}
	if u := pre.Uniqueness; u != nil {
		output.WriteString(fmt.Sprintf("## Uniqueness\n\n**Score:** %d/100\n\n", u.Score))
		for _, f := range u.Factors {
			output.WriteString(fmt.Sprintf("- %s (%s, %s)\n", f.Title, f.Type, f.Rarity))
		}
		output.WriteString("\n")
	}
	if i := pre.Impact; i != nil {
		output.WriteString(fmt.Sprintf("## Impact\n\n**Score:** %d/100, %d of %d bullets quantified\n\n",
			i.Score, i.QuantifiedBullets, i.TotalBullets))
		for _, b := range i.BulletImprovements {
			output.WriteString(fmt.Sprintf("- ~~%s~~ %s\n", b.Original, b.Improved))
		}
		if len(i.BulletImprovements) > 0 {
			output.WriteString("\n")
		}
	}
	if c := pre.Context; c != nil {
		output.WriteString(fmt.Sprintf("## Customization\n\n**Score:** %d/100, keyword coverage %d%%\n\n",
			c.Score, c.KeywordCoverage.Percentage))
		for _, m := range c.MissingRequirements {
			output.WriteString(fmt.Sprintf("- Missing (%s): %s\n", m.Importance, m.Requirement))
		}
		if len(c.MissingRequirements) > 0 {
			output.WriteString("\n")
		}
	}
	if c := pre.Company; c != nil {
		output.WriteString(fmt.Sprintf("## Company: %s\n\n", c.Name))
		if c.Context != "" {
			output.WriteString(c.Context + "\n\n")
		}
	}
	if len(pre.SoftSkills) > 0 {
		output.WriteString("## Soft Skills\n\n")
		for _, s := range pre.SoftSkills {
			output.WriteString(fmt.Sprintf("- **%s** (%s)", s.Skill, s.Strength))
			if s.Evidence != "" {
				output.WriteString(": " + s.Evidence)
			}
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}
}

// PlanMarkdownFormatter handles markdown formatting for tailoring plans
type PlanMarkdownFormatter struct{}

func (pmf *PlanMarkdownFormatter) Format(data any) (string, error) {
	plan, ok := data.(*tailoring.Plan)
	if !ok {
		return "", fmt.Errorf("expected *tailoring.Plan, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Tailoring Plan\n\n")
	output.WriteString(fmt.Sprintf("`%s`\n\n", plan.ID))
	writeReadinessMarkdown(&output, plan.Readiness)
	writeErrorsMarkdown(&output, plan.Errors)

	output.WriteString("## Instructions\n\n")
	if len(plan.Instructions) == 0 {
		output.WriteString("No transformation rules fired.\n")
		return output.String(), nil
	}
	for i, in := range plan.Instructions {
		output.WriteString(fmt.Sprintf("%d. **%s** `%s` on %s, tone %s", i+1, in.RuleID, in.Type, in.Target, in.Tone))
		if in.Data != nil {
			output.WriteString(": " + in.Data.Describe())
		}
		output.WriteString("\n")
	}
	return output.String(), nil
}

func (pmf *PlanMarkdownFormatter) SupportedType() string {
	return TypePlan
}

type ScorecardMarkdownFormatter struct{}

func (smf *ScorecardMarkdownFormatter) Format(data any) (string, error) {
	card, ok := data.(*tailoring.Scorecard)
	if !ok {
		return "", fmt.Errorf("expected *tailoring.Scorecard, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Resume Score\n\n")
	writeReadinessMarkdown(&output, card.Readiness)
	writeErrorsMarkdown(&output, card.Errors)
	return output.String(), nil
}

func (smf *ScorecardMarkdownFormatter) SupportedType() string {
	return TypeScorecard
}

type ReportMarkdownFormatter struct{}

func (rmf *ReportMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(*analysis.Report)
	if !ok {
		return "", fmt.Errorf("expected *analysis.Report, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Pre-Analysis\n\n")
	output.WriteString(fmt.Sprintf("Run `%s`, %dms\n\n", report.RunID, report.DurationMS))
	writeAnalysisMarkdown(&output, report.Analysis)
	writeErrorsMarkdown(&output, report.Errors)
	return output.String(), nil
}

func (rmf *ReportMarkdownFormatter) SupportedType() string {
	return TypeReport
}

type ExtractionMarkdownFormatter struct{}

func (emf *ExtractionMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(*extract.Result)
	if !ok {
		return "", fmt.Errorf("expected *extract.Result, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Extracted Text\n\n")
	output.WriteString(fmt.Sprintf("**Format:** %s | **Pages:** %d | **Size:** %d bytes\n\n",
		result.Format, result.PageCount, result.Bytes))
	output.WriteString("```\n")
	output.WriteString(result.Text)
	output.WriteString("\n```\n")
	return output.String(), nil
}

func (emf *ExtractionMarkdownFormatter) SupportedType() string {
	return TypeExtraction
}

type RulesMarkdownFormatter struct{}

func (rmf *RulesMarkdownFormatter) Format(data any) (string, error) {
	evals, ok := data.([]rules.RuleEvaluation)
	if !ok {
		return "", fmt.Errorf("expected []rules.RuleEvaluation, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Rule Evaluation\n\n")
	output.WriteString("| Rule | Priority | Enabled | Fired | Condition |\n")
	output.WriteString("|---|---|---|---|---|\n")
	for _, e := range evals {
		output.WriteString(fmt.Sprintf("| %s | %d | %t | %t | `%s` |\n",
			e.RuleID, e.Priority, e.Enabled, e.Fired, e.Condition))
	}
	return output.String(), nil
}

func (rmf *RulesMarkdownFormatter) SupportedType() string {
	return TypeRules
}
