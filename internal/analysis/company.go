package analysis

import (
	"fmt"
	"strings"

	"resumeready/internal/ai"
	"resumeready/internal/config"
	"resumeready/internal/types"
)

var companySizes = []string{"startup", "small", "medium", "large", "enterprise", "unknown"}

// neutralCulture is used for a culture dimension the model left out.
const neutralCulture = 3

var companyShape = newShape([]string{"name"}, map[string]kind{
	"name":              kindString,
	"isWellKnown":       kindBoolean,
	"industry":          kindString,
	"size":              kindString,
	"comparableCompany": kindString,
	"context":           kindString,
	"cultureDimensions": kindObject,
})

// NewCompanyModule describes the target employer for recruiters.
func NewCompanyModule(deps Deps) *Module[*types.CompanyResult] {
	return &Module[*types.CompanyResult]{
		name:  config.ModuleCompany,
		deps:  deps.withDefaults(),
		shape: companyShape,
		check: func(in Input) error {
			if strings.TrimSpace(in.Job.Company) == "" {
				return fmt.Errorf("job has no company name")
			}
			return nil
		},
		prompt: func(in Input) string {
			return fmt.Sprintf(ai.DefaultUserPrompts.Company, in.Job.Company, jobText(in.Job))
		},
		defaults: func(in Input) map[string]any {
			return map[string]any{"name": in.Job.Company}
		},
		build: buildCompany,
	}
}

func buildCompany(f fields, in Input) *types.CompanyResult {
	name := f.str("name")
	if name == "" {
		name = strings.TrimSpace(in.Job.Company)
	}
	culture := f.object("cultureDimensions")
	dim := func(key string) int {
		return culture.intIn(key, 1, 5, neutralCulture)
	}

	return &types.CompanyResult{
		Name:              name,
		IsWellKnown:       f.boolean("isWellKnown"),
		Industry:          f.str("industry"),
		Size:              f.enum("size", companySizes, "unknown"),
		ComparableCompany: f.str("comparableCompany"),
		Context:           f.str("context"),
		CultureDimensions: types.CultureDimensions{
			Innovation:    dim("innovation"),
			Collaboration: dim("collaboration"),
			Autonomy:      dim("autonomy"),
			Structure:     dim("structure"),
			Pace:          dim("pace"),
		},
	}
}
