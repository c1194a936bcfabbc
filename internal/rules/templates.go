package rules

// BulletTemplate is a structure for rewriting an experience bullet.
type BulletTemplate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Pattern  string `json:"pattern"`
	Example  string `json:"example"`
	Guidance string `json:"guidance"`
}

// SummaryTemplate is a structure for rewriting the professional summary.
type SummaryTemplate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Pattern  string `json:"pattern"`
	UseWhen  string `json:"useWhen"`
	Guidance string `json:"guidance"`
}

// Template IDs referenced by rule actions.
const (
	TemplateCARQuantified      = "car-quantified"
	TemplateScaleImpact        = "scale-impact"
	TemplateLeadershipImpact   = "leadership-impact"
	TemplateProblemSolution    = "problem-solution"
	TemplateValueProposition   = "value-proposition"
	TemplateCareerChanger      = "career-changer"
	TemplateTargetedSpecialist = "targeted-specialist"
)

var bulletTemplates = []BulletTemplate{
	{
		ID:       TemplateCARQuantified,
		Name:     "Challenge-Action-Result with metric",
		Pattern:  "[Action verb] [what you did] to [address challenge], [result with number]",
		Example:  "Rebuilt the nightly billing job to remove manual reconciliation, cutting close time by 40%",
		Guidance: "Lead with a strong verb and end with the measurable outcome. Estimate only when the resume supports it.",
	},
	{
		ID:       TemplateScaleImpact,
		Name:     "Scale and reach",
		Pattern:  "[Action verb] [system or program] serving [scale], [outcome]",
		Example:  "Operated the checkout API serving 2M requests per day at 99.95% availability",
		Guidance: "Put the scale figure early so it is read first.",
	},
	{
		ID:       TemplateLeadershipImpact,
		Name:     "Leadership with outcome",
		Pattern:  "Led [team or initiative] of [size] to [outcome], [business effect]",
		Example:  "Led a 6-person platform team through a cloud migration, retiring 3 data centers",
		Guidance: "Name team size and the business effect, not only the activity.",
	},
	{
		ID:       TemplateProblemSolution,
		Name:     "Problem then solution",
		Pattern:  "Identified [problem]; [solution] which [result]",
		Example:  "Identified duplicate vendor payments; added a matching rule which recovered $120K in the first quarter",
		Guidance: "Keep the problem statement short and concrete.",
	},
}

var summaryTemplates = []SummaryTemplate{
	{
		ID:       TemplateValueProposition,
		Name:     "Value proposition",
		Pattern:  "[Role] with [years] years of [domain], known for [differentiator]. [Top achievement].",
		UseWhen:  "The candidate has a clear differentiator that is buried in the body of the resume.",
		Guidance: "One differentiator, one achievement. No adjectives without evidence.",
	},
	{
		ID:       TemplateCareerChanger,
		Name:     "Career changer",
		Pattern:  "[Previous field] professional moving into [target role], bringing [transferable skills] proven by [evidence].",
		UseWhen:  "Most experience sits outside the target role.",
		Guidance: "Lead with transferable skills the job asks for.",
	},
	{
		ID:       TemplateTargetedSpecialist,
		Name:     "Targeted specialist",
		Pattern:  "[Target role title] specializing in [job's core requirement], with [evidence matching the posting].",
		UseWhen:  "The resume matches the job but does not say so up front.",
		Guidance: "Mirror the job title and its top requirements in the first sentence.",
	},
}

// BulletTemplates returns the bullet template catalog.
func BulletTemplates() []BulletTemplate {
	out := make([]BulletTemplate, len(bulletTemplates))
	copy(out, bulletTemplates)
	return out
}

// SummaryTemplates returns the summary template catalog.
func SummaryTemplates() []SummaryTemplate {
	out := make([]SummaryTemplate, len(summaryTemplates))
	copy(out, summaryTemplates)
	return out
}

// BulletTemplateByID looks up a bullet template.
func BulletTemplateByID(id string) (BulletTemplate, bool) {
	for _, t := range bulletTemplates {
		if t.ID == id {
			return t, true
		}
	}
	return BulletTemplate{}, false
}

// SummaryTemplateByID looks up a summary template.
func SummaryTemplateByID(id string) (SummaryTemplate, bool) {
	for _, t := range summaryTemplates {
		if t.ID == id {
			return t, true
		}
	}
	return SummaryTemplate{}, false
}

// templatePattern returns the pattern for any template ID, or "".
func templatePattern(id string) string {
	if t, ok := BulletTemplateByID(id); ok {
		return t.Pattern
	}
	if t, ok := SummaryTemplateByID(id); ok {
		return t.Pattern
	}
	return ""
}
