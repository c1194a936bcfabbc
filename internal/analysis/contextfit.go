package analysis

import (
	"fmt"
	"strings"

	"resumeready/internal/ai"
	"resumeready/internal/config"
	"resumeready/internal/types"
)

var (
	importances = []string{"critical", "important", "nice_to_have"}
	relevances  = []string{"high", "medium", "low"}
)

var contextShape = newShape([]string{"score"}, map[string]kind{
	"score":                kindNumber,
	"matchedSkills":        kindArray,
	"missingRequirements":  kindArray,
	"keywordCoverage":      kindObject,
	"experienceAlignments": kindArray,
	"suggestions":          kindArray,
})

// NewContextModule measures how well the resume fits the target job.
func NewContextModule(deps Deps) *Module[*types.ContextResult] {
	return &Module[*types.ContextResult]{
		name:  config.ModuleContext,
		deps:  deps.withDefaults(),
		shape: contextShape,
		check: func(in Input) error {
			if in.Resume.IsEmpty() {
				return fmt.Errorf("resume has no content to analyze")
			}
			if !in.Job.HasDescription() {
				return fmt.Errorf("job has no description to compare against")
			}
			return nil
		},
		prompt: func(in Input) string {
			return fmt.Sprintf(ai.DefaultUserPrompts.Context, in.Resume.Text(), jobText(in.Job))
		},
		build: buildContext,
	}
}

func buildContext(f fields, _ Input) *types.ContextResult {
	coverage := f.object("keywordCoverage")
	total := coverage.intIn("total", 0, 1<<20, 0)
	covered := coverage.intIn("covered", 0, total, 0)
	percentage := 0
	if total > 0 {
		percentage = covered * 100 / total
	}

	out := &types.ContextResult{
		Score:                f.intIn("score", 0, 100, 0),
		MatchedSkills:        f.strings("matchedSkills"),
		MissingRequirements:  []types.MissingRequirement{},
		ExperienceAlignments: []types.ExperienceAlignment{},
		KeywordCoverage: types.KeywordCoverage{
			Covered:    covered,
			Total:      total,
			Percentage: coverage.intIn("percentage", 0, 100, percentage),
		},
		Suggestions: f.strings("suggestions"),
	}
	if out.MatchedSkills == nil {
		out.MatchedSkills = []string{}
	}

	for _, item := range f.objects("missingRequirements", "requirement") {
		requirement := item.str("requirement")
		if requirement == "" {
			continue
		}
		out.MissingRequirements = append(out.MissingRequirements, types.MissingRequirement{
			Requirement: requirement,
			Importance:  item.enum("importance", importances, "important"),
			Suggestion:  item.str("suggestion"),
		})
	}

	for _, item := range f.objects("experienceAlignments", "experience") {
		experience := item.str("experience")
		if experience == "" {
			continue
		}
		out.ExperienceAlignments = append(out.ExperienceAlignments, types.ExperienceAlignment{
			Experience:  experience,
			Requirement: item.str("requirement"),
			Relevance:   item.enum("relevance", relevances, "medium"),
		})
	}
	return out
}

// jobText renders the job posting for prompts.
func jobText(job types.JobData) string {
	var b strings.Builder
	line := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}
	line("Title", job.Title)
	line("Company", job.Company)
	line("Location", job.Location)
	if d := strings.TrimSpace(job.Description); d != "" {
		b.WriteString("\n" + d + "\n")
	}
	if len(job.Requirements) > 0 {
		b.WriteString("\nRequirements:\n")
		for _, r := range job.Requirements {
			b.WriteString("- " + r + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
