package analysis

import (
	"fmt"

	"resumeready/internal/ai"
	"resumeready/internal/config"
	"resumeready/internal/types"
)

// Factor types and rarities accepted from the model.
var (
	factorTypes = []string{"experience", "skill", "achievement", "education", "combination", "other"}
	rarities    = []string{"exceptional", "rare", "uncommon", "common"}
)

var uniquenessShape = newShape([]string{"score"}, map[string]kind{
	"score":       kindNumber,
	"factors":     kindArray,
	"summary":     kindString,
	"suggestions": kindArray,
})

// NewUniquenessModule rates how distinctive the resume is.
func NewUniquenessModule(deps Deps) *Module[*types.UniquenessResult] {
	return &Module[*types.UniquenessResult]{
		name:  config.ModuleUniqueness,
		deps:  deps.withDefaults(),
		shape: uniquenessShape,
		check: requireResume,
		prompt: func(in Input) string {
			return fmt.Sprintf(ai.DefaultUserPrompts.Uniqueness, in.Resume.Text())
		},
		build: buildUniqueness,
	}
}

func buildUniqueness(f fields, _ Input) *types.UniquenessResult {
	out := &types.UniquenessResult{
		Score:       f.intIn("score", 0, 100, 0),
		Factors:     []types.Factor{},
		Summary:     f.str("summary"),
		Suggestions: f.strings("suggestions"),
	}
	for _, factor := range f.objects("factors", "title") {
		title := factor.str("title")
		if title == "" {
			title = factor.str("name")
		}
		if title == "" {
			continue
		}
		out.Factors = append(out.Factors, types.Factor{
			Type:     factor.enum("type", factorTypes, "other"),
			Title:    title,
			Rarity:   factor.enum("rarity", rarities, "uncommon"),
			Evidence: factor.str("evidence"),
		})
	}
	return out
}

func requireResume(in Input) error {
	if in.Resume.IsEmpty() {
		return fmt.Errorf("resume has no content to analyze")
	}
	return nil
}
