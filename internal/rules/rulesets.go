package rules

import "slices"

var uniquenessRules = []TransformationRule{
	{
		ID:             "uniqueness-low-score-differentiate",
		Priority:       10,
		RecruiterIssue: IssueUniqueness,
		Condition:      Threshold("uniqueness.score", OpLess, 50),
		Actions: []Action{
			NewTemplateAction(TargetSummary, TemplateValueProposition, ApplyTemplateData{
				Focus: "the one thing this candidate does that peers do not",
			}),
			NewAction(TargetExperience, HighlightData{
				Source:   "uniqueness.factors",
				Emphasis: "move differentiating work to the first bullet of each role",
				Limit:    3,
			}),
		},
		StrategicTone: ToneConfident,
		Enabled:       true,
	},
	{
		ID:             "uniqueness-rare-factors-highlight",
		Priority:       20,
		RecruiterIssue: IssueUniqueness,
		Condition: Or(
			Match("uniqueness.factors.rarity", OpContains, "rare"),
			Match("uniqueness.factors.rarity", OpContains, "exceptional"),
		),
		Actions: []Action{
			NewAction(TargetSummary, HighlightData{
				Source:   "uniqueness.factors",
				Emphasis: "name the rarest factor in the opening line",
				Limit:    1,
			}),
		},
		StrategicTone: ToneConfident,
		Enabled:       true,
	},
	{
		ID:             "uniqueness-unique-combination-reorder",
		Priority:       35,
		RecruiterIssue: IssueUniqueness,
		Condition:      Match("uniqueness.factors.type", OpContains, "combination"),
		Actions: []Action{
			NewAction(TargetSkills, ReorderData{
				By:     "skills that form the unusual combination first",
				Source: "uniqueness.factors",
			}),
		},
		StrategicTone: ToneMeasured,
		Enabled:       true,
	},
	{
		ID:             "uniqueness-high-score-preserve",
		Priority:       60,
		RecruiterIssue: IssueUniqueness,
		Condition:      Threshold("uniqueness.score", OpGreaterEqual, 75),
		Actions: []Action{
			NewAction(TargetSummary, EnhanceData{
				Aspect:   "clarity",
				Guidance: "the profile already stands out; tighten wording without changing the story",
			}),
		},
		StrategicTone: ToneMeasured,
		Enabled:       true,
	},
}

var impactRules = []TransformationRule{
	{
		ID:             "impact-low-score-major-transform",
		Priority:       5,
		RecruiterIssue: IssueImpact,
		Condition:      Threshold("impact.score", OpLess, 40),
		Actions: []Action{
			NewTemplateAction(TargetBullet, TemplateCARQuantified, ApplyTemplateData{
				Focus:       "turn duty statements into outcomes",
				MetricHints: []string{"percentage", "monetary", "scale", "time", "count"},
			}),
			NewAction(TargetBullet, EnhanceData{
				Aspect:   "quantification",
				Guidance: "add a number to every bullet where the resume gives one or clearly implies one",
				MaxItems: 8,
			}),
		},
		StrategicTone: ToneConfident,
		Enabled:       true,
	},
	{
		ID:             "impact-bullet-improvements-apply",
		Priority:       12,
		RecruiterIssue: IssueImpact,
		Condition:      Exists("impact.bulletImprovements"),
		Actions: []Action{
			NewAction(TargetBullet, EnhanceData{
				Aspect:   "suggested rewrites",
				Guidance: "use the suggested improved bullets as the starting point",
				Source:   "impact.bulletImprovements",
			}),
		},
		StrategicTone: ToneConfident,
		Enabled:       true,
	},
	{
		ID:             "impact-moderate-score-refine",
		Priority:       15,
		RecruiterIssue: IssueImpact,
		Condition: And(
			Threshold("impact.score", OpGreaterEqual, 40),
			Threshold("impact.score", OpLess, 70),
		),
		Actions: []Action{
			NewTemplateAction(TargetBullet, TemplateProblemSolution, ApplyTemplateData{
				Focus: "bullets that describe activity without a result",
			}),
		},
		StrategicTone: ToneMeasured,
		Enabled:       true,
	},
	{
		ID:             "impact-no-percentage-metrics",
		Priority:       25,
		RecruiterIssue: IssueImpact,
		Condition: And(
			Exists("impact.score"),
			Threshold("impact.metricCategories.percentage", OpLess, 1),
		),
		Actions: []Action{
			NewAction(TargetBullet, EnhanceData{
				Aspect:   "relative improvement",
				Guidance: "express before and after results as percentages where the resume supports it",
				MaxItems: 3,
			}),
		},
		StrategicTone: ToneMeasured,
		Enabled:       true,
	},
	{
		ID:             "impact-scale-metrics-amplify",
		Priority:       30,
		RecruiterIssue: IssueImpact,
		Condition:      Threshold("impact.metricCategories.scale", OpGreaterEqual, 2),
		Actions: []Action{
			NewTemplateAction(TargetBullet, TemplateScaleImpact, ApplyTemplateData{
				Focus:       "bullets that already mention users, volume or reach",
				MetricHints: []string{"scale"},
			}),
		},
		StrategicTone: ToneConfident,
		Enabled:       true,
	},
}

var companyContextRules = []TransformationRule{
	{
		ID:             "company-unknown-contextualize",
		Priority:       8,
		RecruiterIssue: IssueCompanyContext,
		Condition: And(
			Exists("company.name"),
			Not(Match("company.isWellKnown", OpEquals, true)),
		),
		Actions: []Action{
			NewAction(TargetExperience, ContextualizeData{
				Subject:  "employer",
				Source:   "company",
				Guidance: "add a short descriptor of the company's size and industry after its name",
			}),
		},
		StrategicTone: ToneMeasured,
		Enabled:       true,
	},
	{
		ID:             "company-comparable-reference",
		Priority:       18,
		RecruiterIssue: IssueCompanyContext,
		Condition:      Exists("company.comparableCompany"),
		Actions: []Action{
			NewAction(TargetExperience, ContextualizeData{
				Subject:  "employer",
				Source:   "company.comparableCompany",
				Guidance: "relate the employer to the comparable well-known company once, in the role header",
			}),
		},
		StrategicTone: ToneMeasured,
		Enabled:       true,
	},
	{
		ID:             "company-industry-translate",
		Priority:       38,
		RecruiterIssue: IssueCompanyContext,
		Condition: And(
			Exists("company.industry"),
			Not(Exists("company.comparableCompany")),
			Not(Match("company.isWellKnown", OpEquals, true)),
		),
		Actions: []Action{
			NewAction(TargetSummary, ContextualizeData{
				Subject:  "industry",
				Source:   "company.industry",
				Guidance: "translate industry-specific terms into language a generalist recruiter understands",
			}),
		},
		StrategicTone: ToneHumble,
		Enabled:       true,
	},
}

var culturalFitRules = []TransformationRule{
	{
		ID:             "culture-no-soft-skills",
		Priority:       22,
		RecruiterIssue: IssueCulturalFit,
		Condition:      Not(Exists("softSkills")),
		Actions: []Action{
			NewAction(TargetSummary, AddSoftSkillsData{
				Skills: []string{"communication", "collaboration"},
				Style:  "show through a concrete example rather than listing the trait",
			}),
		},
		StrategicTone: ToneHumble,
		Enabled:       true,
	},
	{
		ID:             "culture-strong-skills-highlight",
		Priority:       28,
		RecruiterIssue: IssueCulturalFit,
		Condition:      Match("softSkills.strength", OpContains, "strong"),
		Actions: []Action{
			NewAction(TargetExperience, HighlightData{
				Source:   "softSkills",
				Emphasis: "tie each strong soft skill to a bullet that proves it",
				Limit:    3,
			}),
		},
		StrategicTone: ToneConfident,
		Enabled:       true,
	},
	{
		ID:             "culture-innovation-fit",
		Priority:       40,
		RecruiterIssue: IssueCulturalFit,
		Condition:      Threshold("company.cultureDimensions.innovation", OpGreaterEqual, 4),
		Actions: []Action{
			NewAction(TargetBullet, AddSoftSkillsData{
				Skills: []string{"initiative", "experimentation"},
				Style:  "favor bullets where the candidate proposed or built something new",
			}),
		},
		StrategicTone: ToneConfident,
		Enabled:       true,
	},
	{
		ID:             "culture-collaboration-fit",
		Priority:       42,
		RecruiterIssue: IssueCulturalFit,
		Condition:      Threshold("company.cultureDimensions.collaboration", OpGreaterEqual, 4),
		Actions: []Action{
			NewAction(TargetBullet, AddSoftSkillsData{
				Skills: []string{"cross-functional collaboration"},
				Style:  "credit partner teams and describe the candidate's part in shared results",
			}),
		},
		StrategicTone: ToneMeasured,
		Enabled:       true,
	},
	{
		ID:             "culture-structured-industry-humble",
		Priority:       45,
		RecruiterIssue: IssueCulturalFit,
		Condition: And(
			Threshold("company.cultureDimensions.structure", OpGreaterEqual, 4),
			Match("company.industry", OpIn, []string{"finance", "banking", "insurance", "healthcare", "government", "legal"}),
		),
		Actions: []Action{
			NewAction(TargetSummary, EnhanceData{
				Aspect:   "tone",
				Guidance: "prefer reliability, compliance and process language over disruption",
			}),
		},
		StrategicTone: ToneHumble,
		Enabled:       true,
	},
}

// Every customization rule requires a context result; without one there is
// nothing to tailor against.
var customizationRules = []TransformationRule{
	{
		ID:             "context-low-alignment-retarget",
		Priority:       6,
		RecruiterIssue: IssueCustomization,
		Condition: And(
			Exists("context.score"),
			Threshold("context.score", OpLess, 50),
		),
		Actions: []Action{
			NewTemplateAction(TargetSummary, TemplateTargetedSpecialist, ApplyTemplateData{
				Focus: "the job's top requirements the resume can honestly claim",
			}),
			NewAction(TargetExperience, ReorderData{
				By:     "relevance to the job",
				Source: "context.experienceAlignments",
			}),
		},
		StrategicTone: ToneConfident,
		Enabled:       true,
	},
	{
		ID:             "context-keyword-gap-inject",
		Priority:       11,
		RecruiterIssue: IssueCustomization,
		Condition: And(
			Exists("context.score"),
			Threshold("context.keywordCoverage.percentage", OpLess, 60),
		),
		Actions: []Action{
			NewAction(TargetSkills, InjectKeywordsData{
				Source:      "context.matchedSkills",
				MaxKeywords: 8,
				Placement:   []Target{TargetSkills, TargetBullet},
			}),
		},
		StrategicTone: ToneMeasured,
		Enabled:       true,
	},
	{
		ID:             "context-critical-requirements-address",
		Priority:       13,
		RecruiterIssue: IssueCustomization,
		Condition: And(
			Exists("context.score"),
			Match("context.missingRequirements.importance", OpContains, "critical"),
		),
		Actions: []Action{
			NewAction(TargetExperience, EnhanceData{
				Aspect:   "requirement coverage",
				Guidance: "surface existing evidence for critical requirements; leave gaps that have no evidence",
				Source:   "context.missingRequirements",
			}),
		},
		StrategicTone: ToneMeasured,
		Enabled:       true,
	},
	{
		ID:             "context-matched-skills-reorder",
		Priority:       32,
		RecruiterIssue: IssueCustomization,
		Condition: And(
			Exists("context.score"),
			Exists("context.matchedSkills"),
		),
		Actions: []Action{
			NewAction(TargetSkills, ReorderData{
				By:     "skills named in the job first",
				Source: "context.matchedSkills",
			}),
		},
		StrategicTone: ToneMeasured,
		Enabled:       true,
	},
	{
		ID:             "context-strong-alignment-preserve",
		Priority:       50,
		RecruiterIssue: IssueCustomization,
		Condition: And(
			Exists("context.score"),
			Threshold("context.score", OpGreaterEqual, 80),
		),
		Actions: []Action{
			NewAction(TargetSummary, HighlightData{
				Source:   "context.experienceAlignments",
				Emphasis: "state the strongest alignment in the first sentence",
				Limit:    1,
			}),
		},
		StrategicTone: ToneConfident,
		Enabled:       true,
	},
	{
		ID:             "context-career-changer-summary",
		Priority:       55,
		RecruiterIssue: IssueCustomization,
		Condition: And(
			Exists("context.score"),
			Threshold("context.score", OpLess, 35),
		),
		Actions: []Action{
			NewTemplateAction(TargetSummary, TemplateCareerChanger, ApplyTemplateData{
				Focus: "transferable skills",
			}),
		},
		StrategicTone: ToneHumble,
		// Overlaps with context-low-alignment-retarget.
		Enabled: false,
	},
}

// The accessors return deep copies; callers may edit the result freely.
func UniquenessRules() []TransformationRule     { return cloneRules(uniquenessRules) }
func ImpactRules() []TransformationRule         { return cloneRules(impactRules) }
func CompanyContextRules() []TransformationRule { return cloneRules(companyContextRules) }
func CulturalFitRules() []TransformationRule    { return cloneRules(culturalFitRules) }
func CustomizationRules() []TransformationRule  { return cloneRules(customizationRules) }

// AllRules concatenates the five rule sets in declaration order.
func AllRules() []TransformationRule {
	return cloneRules(slices.Concat(uniquenessRules, impactRules, companyContextRules, culturalFitRules, customizationRules))
}

func cloneRules(set []TransformationRule) []TransformationRule {
	out := make([]TransformationRule, len(set))
	for i, rule := range set {
		out[i] = rule.Clone()
	}
	return out
}

// Clone returns a copy of r that shares no slices with it.
func (r TransformationRule) Clone() TransformationRule {
	r.Condition = r.Condition.Clone()
	if r.Actions != nil {
		actions := make([]Action, len(r.Actions))
		for i, a := range r.Actions {
			a.Data = cloneData(a.Data)
			actions[i] = a
		}
		r.Actions = actions
	}
	return r
}

// Clone returns a copy of c with its sub-conditions and list values copied.
func (c Condition) Clone() Condition {
	switch v := c.Value.(type) {
	case []string:
		c.Value = slices.Clone(v)
	case []any:
		c.Value = slices.Clone(v)
	}
	if c.Conditions != nil {
		subs := make([]Condition, len(c.Conditions))
		for i, sub := range c.Conditions {
			subs[i] = sub.Clone()
		}
		c.Conditions = subs
	}
	return c
}

func cloneData(data ActionData) ActionData {
	switch d := data.(type) {
	case ApplyTemplateData:
		d.MetricHints = slices.Clone(d.MetricHints)
		return d
	case InjectKeywordsData:
		d.Placement = slices.Clone(d.Placement)
		return d
	case AddSoftSkillsData:
		d.Skills = slices.Clone(d.Skills)
		return d
	default:
		return data
	}
}

// AllEnabledRules is the evaluation surface: every enabled rule from the
// five sets, sorted by priority.
func AllEnabledRules() []TransformationRule {
	return sortRules(AllRules())
}
