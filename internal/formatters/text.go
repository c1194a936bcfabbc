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

func writeReadinessText(output *strings.Builder, r scoring.RecruiterReadiness) {
	output.WriteString("=== RECRUITER READINESS ===\n")
	output.WriteString(fmt.Sprintf("Composite: %d/100 (%s)\n\n", r.Composite, r.Label))
	for _, d := range r.Dimensions {
		output.WriteString(fmt.Sprintf("%-20s %3d  %-9s weight %.2f\n", d.Name, d.Raw, d.Label, d.Weight))
	}
	if len(r.TopSuggestions) > 0 {
		output.WriteString("\nTop suggestions:\n")
		for i, s := range r.TopSuggestions {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, s))
		}
	}
	output.WriteString("\n")
}

func writeErrorsText(output *strings.Builder, errs map[string]*errors.AppError) {
	if len(errs) == 0 {
		return
	}
	output.WriteString("=== FAILED MODULES ===\n")
	for _, name := range slices.Sorted(maps.Keys(errs)) {
		output.WriteString(fmt.Sprintf("%s: %s %s\n", name, errs[name].Code, errs[name].Message))
	}
	output.WriteString("\n")
}

func writeAnalysisText(output *strings.Builder, pre *types.PreAnalysisResult) {
	if pre == nil {
		return
	}
	output.WriteString("=== PRE-ANALYSIS ===\n")
	if u := pre.Uniqueness; u != nil {
		output.WriteString(fmt.Sprintf("Uniqueness: %d/100, %d factors\n", u.Score, len(u.Factors)))
		for _, f := range u.Factors {
			output.WriteString(fmt.Sprintf("  - %s (%s, %s)\n", f.Title, f.Type, f.Rarity))
		}
	}
	if i := pre.Impact; i != nil {
		output.WriteString(fmt.Sprintf("Impact: %d/100, %d of %d bullets quantified\n",
			i.Score, i.QuantifiedBullets, i.TotalBullets))
	}
	if c := pre.Context; c != nil {
		output.WriteString(fmt.Sprintf("Customization: %d/100, keywords %d/%d (%d%%)\n",
			c.Score, c.KeywordCoverage.Covered, c.KeywordCoverage.Total, c.KeywordCoverage.Percentage))
		for _, m := range c.MissingRequirements {
			output.WriteString(fmt.Sprintf("  missing (%s): %s\n", m.Importance, m.Requirement))
		}
	}
	if c := pre.Company; c != nil {
		known := "not widely known"
		if c.IsWellKnown {
			known = "well known"
		}
		output.WriteString(fmt.Sprintf("Company: %s, %s\n", c.Name, known))
		if c.Context != "" {
			output.WriteString("  " + c.Context + "\n")
		}
	}
	if len(pre.SoftSkills) > 0 {
		output.WriteString("Soft skills:\n")
		for _, s := range pre.SoftSkills {
			output.WriteString(fmt.Sprintf("  - %s (%s)\n", s.Skill, s.Strength))
		}
	}
	output.WriteString("\n")
}

// PlanTextFormatter handles text formatting for tailoring plans
type PlanTextFormatter struct{}

func (ptf *PlanTextFormatter) Format(data any) (string, error) {
	plan, ok := data.(*tailoring.Plan)
	if !ok {
		return "", fmt.Errorf("expected *tailoring.Plan, got %T", data)
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("=== TAILORING PLAN %s ===\n\n", plan.ID))
	writeReadinessText(&output, plan.Readiness)
	writeErrorsText(&output, plan.Errors)

	if len(plan.Instructions) == 0 {
		output.WriteString("No transformation rules fired.\n")
		return output.String(), nil
	}
	output.WriteString(plan.Prompt)
	return output.String(), nil
}

func (ptf *PlanTextFormatter) SupportedType() string {
	return TypePlan
}

// ScorecardTextFormatter handles text formatting for readiness scores
type ScorecardTextFormatter struct{}

func (stf *ScorecardTextFormatter) Format(data any) (string, error) {
	card, ok := data.(*tailoring.Scorecard)
	if !ok {
		return "", fmt.Errorf("expected *tailoring.Scorecard, got %T", data)
	}

	var output strings.Builder
	writeReadinessText(&output, card.Readiness)
	writeErrorsText(&output, card.Errors)
	return output.String(), nil
}

func (stf *ScorecardTextFormatter) SupportedType() string {
	return TypeScorecard
}

// ReportTextFormatter handles text formatting for pre-analysis reports
type ReportTextFormatter struct{}

func (rtf *ReportTextFormatter) Format(data any) (string, error) {
	report, ok := data.(*analysis.Report)
	if !ok {
		return "", fmt.Errorf("expected *analysis.Report, got %T", data)
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("Run %s finished in %dms\n\n", report.RunID, report.DurationMS))
	writeAnalysisText(&output, report.Analysis)
	writeErrorsText(&output, report.Errors)
	return output.String(), nil
}

func (rtf *ReportTextFormatter) SupportedType() string {
	return TypeReport
}

// ExtractionTextFormatter prints extracted document text with a short header
type ExtractionTextFormatter struct{}

func (etf *ExtractionTextFormatter) Format(data any) (string, error) {
	result, ok := data.(*extract.Result)
	if !ok {
		return "", fmt.Errorf("expected *extract.Result, got %T", data)
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("=== %s, %d page(s), %d bytes ===\n\n",
		strings.ToUpper(result.Format), result.PageCount, result.Bytes))
	output.WriteString(result.Text)
	output.WriteString("\n")
	return output.String(), nil
}

func (etf *ExtractionTextFormatter) SupportedType() string {
	return TypeExtraction
}

// RulesTextFormatter lists rule evaluations one per line
type RulesTextFormatter struct{}

func (rtf *RulesTextFormatter) Format(data any) (string, error) {
	evals, ok := data.([]rules.RuleEvaluation)
	if !ok {
		return "", fmt.Errorf("expected []rules.RuleEvaluation, got %T", data)
	}

	var output strings.Builder
	fired := 0
	for _, e := range evals {
		status := "-"
		switch {
		case !e.Enabled:
			status = "off"
		case e.Fired:
			status = "FIRED"
			fired++
		}
		output.WriteString(fmt.Sprintf("%-5s %3d  %-40s %s\n", status, e.Priority, e.RuleID, e.Condition))
	}
	output.WriteString(fmt.Sprintf("\n%d of %d rules fired\n", fired, len(evals)))
	return output.String(), nil
}

func (rtf *RulesTextFormatter) SupportedType() string {
	return TypeRules
}
