package analysis

import (
	"testing"

	"resumeready/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsAccessors(t *testing.T) {
	f := fields{
		"is_well_known": "Yes",
		"Score":         "72%",
		"ratio":         0.5,
		"name":          " Globex ",
		"tags":          []any{"go", " ", 3, "sql"},
		"single":        "only",
		"size":          "ENTERPRISE",
		"items":         []any{"bare", map[string]any{"title": "obj"}, nil},
	}

	assert.True(t, f.boolean("isWellKnown"))
	assert.Equal(t, 72, f.intIn("score", 0, 100, -1))
	assert.Equal(t, 1, f.intIn("ratio", 0, 100, -1), "values are rounded")
	assert.Equal(t, -1, f.intIn("missing", 0, 100, -1))
	assert.Equal(t, "Globex", f.str("name"))
	assert.Equal(t, []string{"go", "sql"}, f.strings("tags"))
	assert.Equal(t, []string{"only"}, f.strings("single"))
	assert.Nil(t, f.strings("missing"))
	assert.Equal(t, "enterprise", f.enum("size", companySizes, "unknown"))
	assert.Equal(t, "unknown", f.enum("name", companySizes, "unknown"))
	assert.Empty(t, f.object("name"))

	items := f.objects("items", "title")
	require.Len(t, items, 2)
	assert.Equal(t, "bare", items[0].str("title"))
	assert.Equal(t, "obj", items[1].str("title"))
}

func TestPickEnumFoldsSeparators(t *testing.T) {
	assert.Equal(t, "nice_to_have", pickEnum("Nice to have", importances, "important"))
	assert.Equal(t, "nice_to_have", pickEnum("nice-to-have", importances, "important"))
	assert.Equal(t, "important", pickEnum("", importances, "important"))
}

func TestBuildImpactClampsToBulletCount(t *testing.T) {
	in := sampleInput()
	f := fields{
		"score":             87.6,
		"totalBullets":      40,
		"quantifiedBullets": 9,
		"metricCategories":  map[string]any{"percentage": 5, "monetary": -2, "count": "1"},
		"bulletImprovements": []any{
			map[string]any{"original": "Built the billing pipeline", "improved": "Built a billing pipeline processing $2M/month", "metricType": "Monetary", "hasMetric": true},
			map[string]any{"original": "", "improved": ""},
			"Cut p99 latency by 40% across 12 services",
		},
	}

	res := buildImpact(f, in)

	assert.Equal(t, 88, res.Score)
	assert.Equal(t, 2, res.TotalBullets, "total comes from the resume, not the model")
	assert.Equal(t, 2, res.QuantifiedBullets)
	assert.Equal(t, types.MetricCategories{Percentage: 2, Count: 1}, res.MetricCategories)
	require.Len(t, res.BulletImprovements, 2)
	assert.Equal(t, "monetary", res.BulletImprovements[0].MetricType)
	assert.True(t, res.BulletImprovements[0].HasMetric)
	assert.Equal(t, "none", res.BulletImprovements[1].MetricType)
	assert.Equal(t, "Cut p99 latency by 40% across 12 services", res.BulletImprovements[1].Improved)
}

func TestBuildContext(t *testing.T) {
	f := fields{
		"score":         "65",
		"matchedSkills": []any{"Go", "Kafka"},
		"missingRequirements": []any{
			map[string]any{"requirement": "Kubernetes", "importance": "CRITICAL"},
			map[string]any{"requirement": "Terraform", "importance": "someday"},
			"On-call experience",
			map[string]any{"importance": "critical"},
		},
		"keywordCoverage": map[string]any{"covered": 30, "total": 20},
		"experienceAlignments": []any{
			map[string]any{"experience": "Billing pipeline", "requirement": "Payments", "relevance": "HIGH"},
			map[string]any{"experience": "Docs site", "relevance": "tangential"},
		},
	}

	res := buildContext(f, Input{})

	assert.Equal(t, 65, res.Score)
	assert.Equal(t, []string{"Go", "Kafka"}, res.MatchedSkills)
	require.Len(t, res.MissingRequirements, 3)
	assert.Equal(t, "critical", res.MissingRequirements[0].Importance)
	assert.Equal(t, "important", res.MissingRequirements[1].Importance)
	assert.Equal(t, "On-call experience", res.MissingRequirements[2].Requirement)
	assert.Equal(t, types.KeywordCoverage{Covered: 20, Total: 20, Percentage: 100}, res.KeywordCoverage)
	require.Len(t, res.ExperienceAlignments, 2)
	assert.Equal(t, "high", res.ExperienceAlignments[0].Relevance)
	assert.Equal(t, "medium", res.ExperienceAlignments[1].Relevance)
}

func TestBuildContextEmpty(t *testing.T) {
	res := buildContext(fields{"score": 10}, Input{})

	assert.NotNil(t, res.MatchedSkills)
	assert.Empty(t, res.MissingRequirements)
	assert.Zero(t, res.KeywordCoverage.Percentage)
}

func TestBuildCompanyDefaults(t *testing.T) {
	in := Input{Job: types.JobData{Company: "Initech"}}

	res := buildCompany(fields{"size": "gigantic"}, in)

	assert.Equal(t, "Initech", res.Name)
	assert.False(t, res.IsWellKnown)
	assert.Equal(t, "unknown", res.Size)
	assert.Equal(t, types.CultureDimensions{
		Innovation: 3, Collaboration: 3, Autonomy: 3, Structure: 3, Pace: 3,
	}, res.CultureDimensions)
}

func TestBuildSoftSkillsDeduplicates(t *testing.T) {
	f := fields{"softSkills": []any{
		map[string]any{"skill": "Leadership", "strength": "strong"},
		map[string]any{"skill": "leadership", "strength": "developing"},
		"Communication",
		map[string]any{"strength": "strong"},
	}}

	res := buildSoftSkills(f, Input{})

	assert.Equal(t, []types.SoftSkill{
		{Skill: "Leadership", Strength: types.StrengthStrong},
		{Skill: "Communication", Strength: types.StrengthModerate},
	}, res)
}

func TestJobText(t *testing.T) {
	text := jobText(types.JobData{
		Title:        "Staff Engineer",
		Company:      "Globex",
		Description:  "Build things.",
		Requirements: []string{"Go", "SQL"},
	})

	assert.Equal(t, "Title: Staff Engineer\nCompany: Globex\n\nBuild things.\n\nRequirements:\n- Go\n- SQL", text)
}

func TestShapeRejectsWrongKinds(t *testing.T) {
	assert.Nil(t, uniquenessShape.validate(map[string]any{"score": 10.0, "factors": []any{}}))
	assert.NotEmpty(t, uniquenessShape.validate(map[string]any{"score": "10"}))
	assert.NotEmpty(t, softSkillsShape.validate(map[string]any{}))
}
