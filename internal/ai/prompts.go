package ai

import "resumeready/internal/config"

// SystemPrompts contains the system instructions of every analysis module
type SystemPrompts struct {
	Uniqueness string
	Impact     string
	Context    string
	Company    string
	SoftSkills string
}

const honesty = `
- NEVER invent skills, employers, metrics or achievements
- Every finding must be traceable to the text you were given
- Respond with a single JSON object and nothing else`

// DefaultSystemPrompts provides the default system instructions
var DefaultSystemPrompts = SystemPrompts{
	Uniqueness: `You are a senior technical recruiter who screens hundreds of resumes a week. You judge how memorable a candidate is compared with the typical applicant for similar roles.` + honesty,

	Impact: `You are a resume coach specialising in quantified achievements. You find bullets that describe duties instead of results and show how to express the same facts as measurable impact.` + honesty,

	Context: `You are an applicant tracking system analyst. You compare a resume against a job posting and measure keyword coverage, requirement fit and how well each past role maps onto the target role.` + honesty,

	Company: `You are a labour-market researcher with broad knowledge of companies, industries and workplace culture. You explain an employer to a recruiter who may never have heard of it.` + honesty,

	SoftSkills: `You are an organisational psychologist who infers interpersonal and leadership skills from the evidence in a resume.` + honesty,
}

// UserPrompts contains user prompt templates with placeholders for dynamic content
type UserPrompts struct {
	Uniqueness string
	Impact     string
	Context    string
	Company    string
	SoftSkills string
}

// DefaultUserPrompts provides the default user prompt templates
var DefaultUserPrompts = UserPrompts{
	Uniqueness: `Assess how distinctive this resume is compared with typical candidates in the same field.

Return JSON of the form:
{
  "score": integer 0-100,
  "factors": [{"type": "experience|skill|achievement|education|combination|other", "title": string, "rarity": "exceptional|rare|uncommon|common", "evidence": string}],
  "summary": string,
  "suggestions": [string]
}

**Resume:**
-----
%s
-----`,

	Impact: `Evaluate how well the experience bullets below demonstrate measurable impact.

Count the bullets that already contain a metric and classify those metrics. For up to five weak bullets, propose an improved version that adds a placeholder metric the candidate can fill in (for example "[X]%%"); never invent numbers.

Return JSON of the form:
{
  "score": integer 0-100,
  "bulletImprovements": [{"original": string, "improved": string, "metricType": "percentage|monetary|scale|time|count|none", "hasMetric": boolean}],
  "metricCategories": {"percentage": integer, "monetary": integer, "scale": integer, "time": integer, "count": integer},
  "totalBullets": integer,
  "quantifiedBullets": integer,
  "suggestions": [string]
}

**Experience bullets:**
-----
%s
-----`,

	Context: `Compare the resume with the job posting.

Return JSON of the form:
{
  "score": integer 0-100,
  "matchedSkills": [string],
  "missingRequirements": [{"requirement": string, "importance": "critical|important|nice_to_have", "suggestion": string}],
  "keywordCoverage": {"covered": integer, "total": integer, "percentage": integer 0-100},
  "experienceAlignments": [{"experience": string, "requirement": string, "relevance": "high|medium|low"}],
  "suggestions": [string]
}

**Resume:**
-----
%s
-----

**Job posting:**
-----
%s
-----`,

	Company: `Describe the company below for a recruiter. If you do not recognise it, say so by setting "isWellKnown" to false and describe the closest comparable company you know.

Return JSON of the form:
{
  "name": string,
  "isWellKnown": boolean,
  "industry": string,
  "size": "startup|small|medium|large|enterprise|unknown",
  "comparableCompany": string,
  "context": string,
  "cultureDimensions": {"innovation": 1-5, "collaboration": 1-5, "autonomy": 1-5, "structure": 1-5, "pace": 1-5}
}

**Company:** %s
**Additional context:**
-----
%s
-----`,

	SoftSkills: `Identify the soft skills the resume gives evidence for.

Return JSON of the form:
{
  "softSkills": [{"skill": string, "strength": "strong|moderate|developing", "evidence": string}]
}

**Resume:**
-----
%s
-----`,
}

// SystemPrompt returns the configured system prompt of module, falling back
// to the built-in default.
func SystemPrompt(module, configured string) string {
	if configured != "" {
		return configured
	}
	switch module {
	case config.ModuleUniqueness:
		return DefaultSystemPrompts.Uniqueness
	case config.ModuleImpact:
		return DefaultSystemPrompts.Impact
	case config.ModuleContext:
		return DefaultSystemPrompts.Context
	case config.ModuleCompany:
		return DefaultSystemPrompts.Company
	case config.ModuleSoftSkills:
		return DefaultSystemPrompts.SoftSkills
	default:
		return ""
	}
}
