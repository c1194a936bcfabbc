package types

import "strings"

// ResumeContent is the structured resume the analysis modules read.
type ResumeContent struct {
	ID         string       `json:"id,omitempty" yaml:"id,omitempty"`
	Name       string       `json:"name,omitempty" yaml:"name,omitempty"`
	Headline   string       `json:"headline,omitempty" yaml:"headline,omitempty"`
	Summary    string       `json:"summary,omitempty" yaml:"summary,omitempty"`
	Experience []Experience `json:"experience,omitempty" yaml:"experience,omitempty" validate:"dive"`
	Skills     []string     `json:"skills,omitempty" yaml:"skills,omitempty"`
	Education  []Education  `json:"education,omitempty" yaml:"education,omitempty"`
	// RawText holds the extracted document text when no structure is available.
	RawText string `json:"rawText,omitempty" yaml:"rawText,omitempty"`
}

// Experience is a single role on the resume.
type Experience struct {
	Title    string   `json:"title" yaml:"title" validate:"required"`
	Company  string   `json:"company" yaml:"company"`
	Location string   `json:"location,omitempty" yaml:"location,omitempty"`
	Start    string   `json:"start,omitempty" yaml:"start,omitempty"`
	End      string   `json:"end,omitempty" yaml:"end,omitempty"`
	Bullets  []string `json:"bullets,omitempty" yaml:"bullets,omitempty"`
}

// Education is a degree or certification entry.
type Education struct {
	Institution string `json:"institution" yaml:"institution"`
	Degree      string `json:"degree,omitempty" yaml:"degree,omitempty"`
	Year        string `json:"year,omitempty" yaml:"year,omitempty"`
}

// Bullets returns every experience bullet in resume order.
func (r ResumeContent) Bullets() []string {
	var out []string
	for _, exp := range r.Experience {
		for _, b := range exp.Bullets {
			if strings.TrimSpace(b) != "" {
				out = append(out, b)
			}
		}
	}
	return out
}

// IsEmpty reports whether the resume has nothing a model could analyze.
func (r ResumeContent) IsEmpty() bool {
	return strings.TrimSpace(r.Text()) == ""
}

// Text renders the resume as plain text for prompts.
func (r ResumeContent) Text() string {
	var b strings.Builder
	line := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			b.WriteString(s)
			b.WriteByte('\n')
		}
	}

	line(r.Name)
	line(r.Headline)
	if r.Summary != "" {
		line("SUMMARY")
		line(r.Summary)
	}
	if len(r.Experience) > 0 {
		line("EXPERIENCE")
		for _, exp := range r.Experience {
			header := exp.Title
			if exp.Company != "" {
				header += " at " + exp.Company
			}
			if exp.Start != "" || exp.End != "" {
				header += " (" + exp.Start + " - " + exp.End + ")"
			}
			line(header)
			for _, bullet := range exp.Bullets {
				line("- " + bullet)
			}
		}
	}
	if len(r.Skills) > 0 {
		line("SKILLS")
		line(strings.Join(r.Skills, ", "))
	}
	if len(r.Education) > 0 {
		line("EDUCATION")
		for _, ed := range r.Education {
			line(strings.TrimSpace(ed.Degree + " " + ed.Institution + " " + ed.Year))
		}
	}
	line(r.RawText)
	return b.String()
}

// JobData is the target job posting.
type JobData struct {
	ID           string   `json:"id,omitempty" yaml:"id,omitempty"`
	Title        string   `json:"title,omitempty" yaml:"title,omitempty"`
	Company      string   `json:"company,omitempty" yaml:"company,omitempty"`
	Location     string   `json:"location,omitempty" yaml:"location,omitempty"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Requirements []string `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	URL          string   `json:"url,omitempty" yaml:"url,omitempty" validate:"omitempty,url"`
}

// HasDescription reports whether the job carries any analyzable text.
func (j JobData) HasDescription() bool {
	return strings.TrimSpace(j.Description) != "" || len(j.Requirements) > 0
}

// PreAnalysisResult bundles the independent module outputs. Any dimension may
// be missing when its module failed.
type PreAnalysisResult struct {
	Uniqueness *UniquenessResult `json:"uniqueness,omitempty" yaml:"uniqueness,omitempty"`
	Impact     *ImpactResult     `json:"impact,omitempty" yaml:"impact,omitempty"`
	Context    *ContextResult    `json:"context,omitempty" yaml:"context,omitempty"`
	Company    *CompanyResult    `json:"company,omitempty" yaml:"company,omitempty"`
	SoftSkills []SoftSkill       `json:"softSkills,omitempty" yaml:"softSkills,omitempty"`
}

// Factor is one differentiator found by the uniqueness module.
type Factor struct {
	Type     string `json:"type" yaml:"type"`
	Title    string `json:"title" yaml:"title"`
	Rarity   string `json:"rarity" yaml:"rarity"`
	Evidence string `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

type UniquenessResult struct {
	Score       int      `json:"score" yaml:"score"`
	Factors     []Factor `json:"factors" yaml:"factors"`
	Summary     string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// BulletImprovement pairs an original bullet with its quantified rewrite.
type BulletImprovement struct {
	Original   string `json:"original" yaml:"original"`
	Improved   string `json:"improved" yaml:"improved"`
	MetricType string `json:"metricType" yaml:"metricType"`
	HasMetric  bool   `json:"hasMetric" yaml:"hasMetric"`
}

// MetricCategories counts the metrics already present in the resume.
type MetricCategories struct {
	Percentage int `json:"percentage" yaml:"percentage"`
	Monetary   int `json:"monetary" yaml:"monetary"`
	Scale      int `json:"scale" yaml:"scale"`
	Time       int `json:"time" yaml:"time"`
	Count      int `json:"count" yaml:"count"`
}

type ImpactResult struct {
	Score              int                 `json:"score" yaml:"score"`
	BulletImprovements []BulletImprovement `json:"bulletImprovements" yaml:"bulletImprovements"`
	MetricCategories   MetricCategories    `json:"metricCategories" yaml:"metricCategories"`
	TotalBullets       int                 `json:"totalBullets" yaml:"totalBullets"`
	QuantifiedBullets  int                 `json:"quantifiedBullets" yaml:"quantifiedBullets"`
	Suggestions        []string            `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

type MissingRequirement struct {
	Requirement string `json:"requirement" yaml:"requirement"`
	Importance  string `json:"importance" yaml:"importance"`
	Suggestion  string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

type KeywordCoverage struct {
	Covered    int `json:"covered" yaml:"covered"`
	Total      int `json:"total" yaml:"total"`
	Percentage int `json:"percentage" yaml:"percentage"`
}

type ExperienceAlignment struct {
	Experience  string `json:"experience" yaml:"experience"`
	Requirement string `json:"requirement" yaml:"requirement"`
	Relevance   string `json:"relevance" yaml:"relevance"`
}

type ContextResult struct {
	Score                int                   `json:"score" yaml:"score"`
	MatchedSkills        []string              `json:"matchedSkills" yaml:"matchedSkills"`
	MissingRequirements  []MissingRequirement  `json:"missingRequirements" yaml:"missingRequirements"`
	KeywordCoverage      KeywordCoverage       `json:"keywordCoverage" yaml:"keywordCoverage"`
	ExperienceAlignments []ExperienceAlignment `json:"experienceAlignments" yaml:"experienceAlignments"`
	Suggestions          []string              `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// CultureDimensions rates the company on a 1-5 scale per axis.
type CultureDimensions struct {
	Innovation    int `json:"innovation" yaml:"innovation"`
	Collaboration int `json:"collaboration" yaml:"collaboration"`
	Autonomy      int `json:"autonomy" yaml:"autonomy"`
	Structure     int `json:"structure" yaml:"structure"`
	Pace          int `json:"pace" yaml:"pace"`
}

type CompanyResult struct {
	Name              string            `json:"name" yaml:"name"`
	IsWellKnown       bool              `json:"isWellKnown" yaml:"isWellKnown"`
	Industry          string            `json:"industry,omitempty" yaml:"industry,omitempty"`
	Size              string            `json:"size,omitempty" yaml:"size,omitempty"`
	ComparableCompany string            `json:"comparableCompany,omitempty" yaml:"comparableCompany,omitempty"`
	Context           string            `json:"context,omitempty" yaml:"context,omitempty"`
	CultureDimensions CultureDimensions `json:"cultureDimensions" yaml:"cultureDimensions"`
}

// Soft skill strengths.
const (
	StrengthStrong     = "strong"
	StrengthModerate   = "moderate"
	StrengthDeveloping = "developing"
)

type SoftSkill struct {
	Skill    string `json:"skill" yaml:"skill"`
	Strength string `json:"strength" yaml:"strength"`
	Evidence string `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// AnalyzeInput is the request body shared by the analyze, score and plan
// surfaces. A stored resume or job is referenced by ID and takes precedence
// over the inline document.
type AnalyzeInput struct {
	ResumeID string        `json:"resumeId,omitempty" yaml:"resumeId,omitempty" validate:"omitempty,max=64"`
	JobID    string        `json:"jobId,omitempty" yaml:"jobId,omitempty" validate:"omitempty,max=64"`
	Resume   ResumeContent `json:"resume" yaml:"resume"`
	Job      JobData       `json:"job" yaml:"job"`
}
