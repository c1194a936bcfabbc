package analysis

import (
	"fmt"
	"strings"

	"resumeready/internal/ai"
	"resumeready/internal/config"
	"resumeready/internal/types"
)

var metricTypes = []string{"percentage", "monetary", "scale", "time", "count", "none"}

var impactShape = newShape([]string{"score"}, map[string]kind{
	"score":              kindNumber,
	"bulletImprovements": kindArray,
	"metricCategories":   kindObject,
	"totalBullets":       kindNumber,
	"quantifiedBullets":  kindNumber,
	"suggestions":        kindArray,
})

// NewImpactModule measures how well experience bullets show quantified results.
func NewImpactModule(deps Deps) *Module[*types.ImpactResult] {
	return &Module[*types.ImpactResult]{
		name:  config.ModuleImpact,
		deps:  deps.withDefaults(),
		shape: impactShape,
		check: func(in Input) error {
			if len(in.Resume.Bullets()) == 0 {
				return fmt.Errorf("resume has no experience bullets to analyze")
			}
			return nil
		},
		prompt: func(in Input) string {
			var b strings.Builder
			for i, bullet := range in.Resume.Bullets() {
				fmt.Fprintf(&b, "%d. %s\n", i+1, bullet)
			}
			return fmt.Sprintf(ai.DefaultUserPrompts.Impact, strings.TrimRight(b.String(), "\n"))
		},
		build: buildImpact,
	}
}

func buildImpact(f fields, in Input) *types.ImpactResult {
	total := len(in.Resume.Bullets())
	categories := f.object("metricCategories")

	out := &types.ImpactResult{
		Score:              f.intIn("score", 0, 100, 0),
		BulletImprovements: []types.BulletImprovement{},
		MetricCategories: types.MetricCategories{
			Percentage: categories.intIn("percentage", 0, total, 0),
			Monetary:   categories.intIn("monetary", 0, total, 0),
			Scale:      categories.intIn("scale", 0, total, 0),
			Time:       categories.intIn("time", 0, total, 0),
			Count:      categories.intIn("count", 0, total, 0),
		},
		TotalBullets: total,
		Suggestions:  f.strings("suggestions"),
	}
	out.QuantifiedBullets = f.intIn("quantifiedBullets", 0, total, 0)

	for _, item := range f.objects("bulletImprovements", "improved") {
		original, improved := item.str("original"), item.str("improved")
		if original == "" && improved == "" {
			continue
		}
		out.BulletImprovements = append(out.BulletImprovements, types.BulletImprovement{
			Original:   original,
			Improved:   improved,
			MetricType: item.enum("metricType", metricTypes, "none"),
			HasMetric:  item.boolean("hasMetric"),
		})
	}
	return out
}
