package rules

import (
	"fmt"
	"strings"
)

// ActionType names what a rewrite instruction asks for.
type ActionType string

const (
	ActionApplyTemplate  ActionType = "apply_template"
	ActionEnhance        ActionType = "enhance"
	ActionHighlight      ActionType = "highlight"
	ActionReorder        ActionType = "reorder"
	ActionContextualize  ActionType = "contextualize"
	ActionInjectKeywords ActionType = "inject_keywords"
	ActionAddSoftSkills  ActionType = "add_soft_skills"
)

// Target is the resume region an action applies to.
type Target string

const (
	TargetBullet     Target = "bullet"
	TargetSummary    Target = "summary"
	TargetSkills     Target = "skills"
	TargetExperience Target = "experience"
	TargetSection    Target = "section"
)

// Tone is the voice the rewrite should use.
type Tone string

const (
	ToneConfident Tone = "confident"
	ToneMeasured  Tone = "measured"
	ToneHumble    Tone = "humble"
)

// ActionData is the payload of an action. The set of implementations is
// closed: exactly one struct per ActionType.
type ActionData interface {
	Kind() ActionType
	Describe() string
	sealed()
}

// ApplyTemplateData asks for bullets or a summary to be rewritten with a
// catalog template.
type ApplyTemplateData struct {
	Focus       string   `json:"focus"`
	MetricHints []string `json:"metricHints,omitempty"`
}

// EnhanceData strengthens existing content along one aspect.
type EnhanceData struct {
	Aspect   string `json:"aspect"`
	Guidance string `json:"guidance"`
	Source   string `json:"source,omitempty"`
	MaxItems int    `json:"maxItems,omitempty"`
}

// HighlightData brings analysis findings forward.
type HighlightData struct {
	Source   string `json:"source"`
	Emphasis string `json:"emphasis"`
	Limit    int    `json:"limit,omitempty"`
}

// ReorderData reorders items by a criterion.
type ReorderData struct {
	By     string `json:"by"`
	Source string `json:"source,omitempty"`
}

// ContextualizeData explains an employer or domain the reader may not know.
type ContextualizeData struct {
	Subject  string `json:"subject"`
	Source   string `json:"source,omitempty"`
	Guidance string `json:"guidance"`
}

// InjectKeywordsData weaves job keywords into existing content.
type InjectKeywordsData struct {
	Source      string   `json:"source"`
	MaxKeywords int      `json:"maxKeywords"`
	Placement   []Target `json:"placement"`
}

// AddSoftSkillsData surfaces soft skills through evidence, never as a bare
// list.
type AddSoftSkillsData struct {
	Skills []string `json:"skills,omitempty"`
	Source string   `json:"source,omitempty"`
	Style  string   `json:"style"`
}

func (ApplyTemplateData) Kind() ActionType  { return ActionApplyTemplate }
func (EnhanceData) Kind() ActionType        { return ActionEnhance }
func (HighlightData) Kind() ActionType      { return ActionHighlight }
func (ReorderData) Kind() ActionType        { return ActionReorder }
func (ContextualizeData) Kind() ActionType  { return ActionContextualize }
func (InjectKeywordsData) Kind() ActionType { return ActionInjectKeywords }
func (AddSoftSkillsData) Kind() ActionType  { return ActionAddSoftSkills }

func (ApplyTemplateData) sealed()  {}
func (EnhanceData) sealed()        {}
func (HighlightData) sealed()      {}
func (ReorderData) sealed()        {}
func (ContextualizeData) sealed()  {}
func (InjectKeywordsData) sealed() {}
func (AddSoftSkillsData) sealed()  {}

func (d ApplyTemplateData) Describe() string {
	if len(d.MetricHints) == 0 {
		return "focus on " + d.Focus
	}
	return fmt.Sprintf("focus on %s; metrics to look for: %s", d.Focus, strings.Join(d.MetricHints, ", "))
}

func (d EnhanceData) Describe() string {
	s := fmt.Sprintf("%s: %s", d.Aspect, d.Guidance)
	if d.Source != "" {
		s += fmt.Sprintf(" (use %s)", d.Source)
	}
	if d.MaxItems > 0 {
		s += fmt.Sprintf(", at most %d items", d.MaxItems)
	}
	return s
}

func (d HighlightData) Describe() string {
	s := fmt.Sprintf("surface %s, %s", d.Source, d.Emphasis)
	if d.Limit > 0 {
		s += fmt.Sprintf(", top %d", d.Limit)
	}
	return s
}

func (d ReorderData) Describe() string {
	if d.Source == "" {
		return "order by " + d.By
	}
	return fmt.Sprintf("order by %s using %s", d.By, d.Source)
}

func (d ContextualizeData) Describe() string {
	s := fmt.Sprintf("explain %s: %s", d.Subject, d.Guidance)
	if d.Source != "" {
		s += fmt.Sprintf(" (use %s)", d.Source)
	}
	return s
}

func (d InjectKeywordsData) Describe() string {
	places := make([]string, len(d.Placement))
	for i, p := range d.Placement {
		places[i] = string(p)
	}
	return fmt.Sprintf("weave up to %d keywords from %s into %s", d.MaxKeywords, d.Source, strings.Join(places, ", "))
}

func (d AddSoftSkillsData) Describe() string {
	if len(d.Skills) > 0 {
		return fmt.Sprintf("demonstrate %s, %s", strings.Join(d.Skills, ", "), d.Style)
	}
	return fmt.Sprintf("demonstrate skills from %s, %s", d.Source, d.Style)
}

// Action is one step of a rule. Type always equals Data.Kind().
type Action struct {
	Type                    ActionType `json:"type"`
	Target                  Target     `json:"target"`
	TemplateID              string     `json:"templateId,omitempty"`
	Data                    ActionData `json:"data"`
	PreserveOriginalMeaning bool       `json:"preserveOriginalMeaning"`
}

// NewAction builds an action whose type is taken from its payload. Every
// action preserves the original meaning.
func NewAction(target Target, data ActionData) Action {
	return Action{
		Type:                    data.Kind(),
		Target:                  target,
		Data:                    data,
		PreserveOriginalMeaning: true,
	}
}

// NewTemplateAction builds an apply_template action for templateID.
func NewTemplateAction(target Target, templateID string, data ApplyTemplateData) Action {
	a := NewAction(target, data)
	a.TemplateID = templateID
	return a
}
