package analysis

import (
	"fmt"
	"strings"

	"resumeready/internal/ai"
	"resumeready/internal/config"
	"resumeready/internal/types"
)

var strengths = []string{types.StrengthStrong, types.StrengthModerate, types.StrengthDeveloping}

var softSkillsShape = newShape([]string{"softSkills"}, map[string]kind{
	"softSkills": kindArray,
}).withList("softSkills", "skill")

// NewSoftSkillsModule infers soft skills from resume evidence.
func NewSoftSkillsModule(deps Deps) *Module[[]types.SoftSkill] {
	return &Module[[]types.SoftSkill]{
		name:  config.ModuleSoftSkills,
		deps:  deps.withDefaults(),
		shape: softSkillsShape,
		check: requireResume,
		prompt: func(in Input) string {
			return fmt.Sprintf(ai.DefaultUserPrompts.SoftSkills, in.Resume.Text())
		},
		build: buildSoftSkills,
	}
}

// buildSoftSkills keeps the first entry of each skill, compared case-insensitively.
func buildSoftSkills(f fields, _ Input) []types.SoftSkill {
	out := []types.SoftSkill{}
	seen := map[string]bool{}
	for _, item := range f.objects("softSkills", "skill") {
		skill := item.str("skill")
		key := strings.ToLower(skill)
		if skill == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, types.SoftSkill{
			Skill:    skill,
			Strength: item.enum("strength", strengths, types.StrengthModerate),
			Evidence: item.str("evidence"),
		})
	}
	return out
}
