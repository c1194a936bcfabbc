// Package tailoring composes pre-analysis, readiness scoring and the rule
// engine into the operations the CLI and HTTP surfaces expose.
package tailoring

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"resumeready/internal/analysis"
	"resumeready/internal/config"
	"resumeready/internal/errors"
	"resumeready/internal/observability"
	"resumeready/internal/rules"
	"resumeready/internal/scoring"
	"resumeready/internal/store"
	"resumeready/internal/types"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
)

// Kinds of stored results.
const (
	KindAnalysis = "analysis"
	KindScore    = "score"
	KindPlan     = "plan"
)

// DefaultListLimit bounds List when the caller passes no limit.
const DefaultListLimit = 50

// Analyzer runs the pre-analysis modules. *analysis.Runner satisfies it.
type Analyzer interface {
	Run(ctx context.Context, resume types.ResumeContent, job types.JobData) *analysis.Report
}

// Recorder receives business telemetry.
type Recorder interface {
	RecordReadiness(ctx context.Context, composite int, label string)
	RecordBusinessMetric(ctx context.Context, metricType string, success bool, attributes ...attribute.KeyValue)
}

type nopRecorder struct{}

func (nopRecorder) RecordReadiness(context.Context, int, string) {}
func (nopRecorder) RecordBusinessMetric(context.Context, string, bool, ...attribute.KeyValue) {
}

// Scorecard is the result of the score operation.
type Scorecard struct {
	ID        string                      `json:"id" yaml:"id"`
	ResumeID  string                      `json:"resumeId,omitempty" yaml:"resumeId,omitempty"`
	JobID     string                      `json:"jobId,omitempty" yaml:"jobId,omitempty"`
	Readiness scoring.RecruiterReadiness  `json:"readiness" yaml:"readiness"`
	Errors    map[string]*errors.AppError `json:"errors,omitempty" yaml:"errors,omitempty"`
	CreatedAt time.Time                   `json:"createdAt" yaml:"createdAt"`
}

// Plan is a tailoring plan: the analysis, its readiness score and the
// ordered rewrite instructions derived from it.
type Plan struct {
	ID           string                      `json:"id" yaml:"id"`
	ResumeID     string                      `json:"resumeId,omitempty" yaml:"resumeId,omitempty"`
	JobID        string                      `json:"jobId,omitempty" yaml:"jobId,omitempty"`
	Analysis     *types.PreAnalysisResult    `json:"analysis" yaml:"analysis"`
	Errors       map[string]*errors.AppError `json:"errors,omitempty" yaml:"errors,omitempty"`
	Readiness    scoring.RecruiterReadiness  `json:"readiness" yaml:"readiness"`
	Instructions []rules.Instruction         `json:"instructions" yaml:"instructions"`
	Rules        []rules.RuleEvaluation      `json:"rules,omitempty" yaml:"rules,omitempty"`
	Prompt       string                      `json:"prompt" yaml:"prompt"`
	CreatedAt    time.Time                   `json:"createdAt" yaml:"createdAt"`
}

// Failed reports whether every analysis module failed.
func (c *Scorecard) Failed() bool {
	return len(c.Errors) == len(config.Modules)
}

// Failed reports whether every analysis module failed.
func (p *Plan) Failed() bool {
	return len(p.Errors) == len(config.Modules)
}

// Service is safe for concurrent use.
type Service struct {
	analyzer Analyzer
	store    store.Store
	recorder Recorder
	rules    []rules.TransformationRule
	logger   *errors.Logger
	validate *validator.Validate
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithStore persists every result and enables ID lookups. Without a store,
// results are returned but not kept.
func WithStore(st store.Store) Option {
	return func(s *Service) { s.store = st }
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithRules replaces the default rule set (every enabled rule).
func WithRules(rs []rules.TransformationRule) Option {
	return func(s *Service) { s.rules = rs }
}

func WithLogger(l *errors.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a tailoring service around analyzer.
func NewService(analyzer Analyzer, opts ...Option) *Service {
	s := &Service{
		analyzer: analyzer,
		recorder: nopRecorder{},
		rules:    rules.AllEnabledRules(),
		logger:   errors.Discard(),
		validate: validator.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rules returns the rule set the service evaluates.
func (s *Service) Rules() []rules.TransformationRule {
	return s.rules
}

// HasStore reports whether results are persisted.
func (s *Service) HasStore() bool {
	return s.store != nil
}

// Analyze runs the pre-analysis. Module failures are reported in the report,
// not as an error; the error is non-nil only when the input is unusable.
func (s *Service) Analyze(ctx context.Context, in types.AnalyzeInput) (*analysis.Report, error) {
	resume, job, err := s.resolve(ctx, in)
	if err != nil {
		return nil, err
	}

	report := s.analyzer.Run(ctx, resume, job)
	s.recorder.RecordBusinessMetric(ctx, observability.MetricAnalysisRun, !report.Failed(),
		attribute.Int("failed_modules", len(report.Errors)))

	s.persist(ctx, store.AnalysisRecord{
		ID:        report.RunID,
		ResumeID:  resume.ID,
		JobID:     job.ID,
		Kind:      KindAnalysis,
		CreatedAt: report.StartedAt,
	}, report)
	return report, nil
}

// ScoreAnalysis computes recruiter readiness for an existing analysis
// without calling any model.
func (s *Service) ScoreAnalysis(ctx context.Context, pre *types.PreAnalysisResult) scoring.RecruiterReadiness {
	readiness := scoring.CalculateRecruiterReadiness(pre)
	s.recorder.RecordReadiness(ctx, readiness.Composite, readiness.Label)
	return readiness
}

// Score runs the pre-analysis and scores it.
func (s *Service) Score(ctx context.Context, in types.AnalyzeInput) (*Scorecard, error) {
	resume, job, err := s.resolve(ctx, in)
	if err != nil {
		return nil, err
	}

	report := s.analyzer.Run(ctx, resume, job)
	s.recorder.RecordBusinessMetric(ctx, observability.MetricAnalysisRun, !report.Failed(),
		attribute.Int("failed_modules", len(report.Errors)))

	card := &Scorecard{
		ID:        report.RunID,
		ResumeID:  resume.ID,
		JobID:     job.ID,
		Readiness: s.ScoreAnalysis(ctx, report.Analysis),
		Errors:    report.Errors,
		CreatedAt: s.now().UTC(),
	}

	s.persist(ctx, store.AnalysisRecord{
		ID:        card.ID,
		ResumeID:  card.ResumeID,
		JobID:     card.JobID,
		Kind:      KindScore,
		Composite: card.Readiness.Composite,
		CreatedAt: card.CreatedAt,
	}, card)
	return card, nil
}

// Plan runs the pre-analysis, scores it and evaluates the rule set against
// it. A run where every module failed still yields a plan; its readiness is
// neutral and only rules that need no analysis fire.
func (s *Service) Plan(ctx context.Context, in types.AnalyzeInput) (*Plan, error) {
	resume, job, err := s.resolve(ctx, in)
	if err != nil {
		return nil, err
	}

	report := s.analyzer.Run(ctx, resume, job)
	s.recorder.RecordBusinessMetric(ctx, observability.MetricAnalysisRun, !report.Failed(),
		attribute.Int("failed_modules", len(report.Errors)))

	plan := s.BuildPlan(ctx, report)
	plan.ResumeID = resume.ID
	plan.JobID = job.ID

	s.recorder.RecordBusinessMetric(ctx, observability.MetricPlanGenerated, !report.Failed(),
		attribute.Int("instructions", len(plan.Instructions)))
	s.logger.Info("Tailoring plan generated",
		"plan_id", plan.ID,
		"composite", plan.Readiness.Composite,
		"instructions", len(plan.Instructions))

	s.persist(ctx, store.AnalysisRecord{
		ID:        plan.ID,
		ResumeID:  plan.ResumeID,
		JobID:     plan.JobID,
		Kind:      KindPlan,
		Composite: plan.Readiness.Composite,
		CreatedAt: plan.CreatedAt,
	}, plan)
	return plan, nil
}

// BuildPlan derives a plan from a finished report without running any
// module.
func (s *Service) BuildPlan(ctx context.Context, report *analysis.Report) *Plan {
	pre := report.Analysis
	if pre == nil {
		pre = &types.PreAnalysisResult{}
	}
	instructions := rules.EvaluateRules(s.rules, pre)
	return &Plan{
		ID:           report.RunID,
		Analysis:     pre,
		Errors:       report.Errors,
		Readiness:    s.ScoreAnalysis(ctx, pre),
		Instructions: instructions,
		Rules:        rules.Explain(s.rules, pre),
		Prompt:       rules.FormatInstructions(instructions),
		CreatedAt:    s.now().UTC(),
	}
}

// GetPlan loads a stored plan.
func (s *Service) GetPlan(ctx context.Context, id string) (*Plan, error) {
	var plan Plan
	rec, err := s.get(ctx, id, &plan)
	if err != nil {
		return nil, err
	}
	if rec.Kind != KindPlan {
		return nil, errors.NewValidationError(errors.ErrCodeNotFound,
			fmt.Sprintf("%s is a stored %s, not a plan", id, rec.Kind), nil).
			WithContext("id", id)
	}
	return &plan, nil
}

// Get loads any stored result as raw JSON.
func (s *Service) Get(ctx context.Context, id string) (store.AnalysisRecord, json.RawMessage, error) {
	var raw json.RawMessage
	rec, err := s.get(ctx, id, &raw)
	return rec, raw, err
}

// List returns the most recent stored results, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]store.AnalysisRecord, error) {
	if s.store == nil {
		return nil, errNoStore()
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.store.ListAnalyses(ctx, limit)
}

// ListPlans returns stored plans only, newest first.
func (s *Service) ListPlans(ctx context.Context, limit int) ([]store.AnalysisRecord, error) {
	all, err := s.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	plans := make([]store.AnalysisRecord, 0, len(all))
	for _, rec := range all {
		if rec.Kind == KindPlan {
			plans = append(plans, rec)
		}
	}
	return plans, nil
}

func (s *Service) get(ctx context.Context, id string, out any) (store.AnalysisRecord, error) {
	if s.store == nil {
		return store.AnalysisRecord{}, errNoStore()
	}
	return s.store.GetAnalysis(ctx, id, out)
}

// persist stores a result. A failed write is logged; the caller still gets
// the result it paid for.
func (s *Service) persist(ctx context.Context, rec store.AnalysisRecord, payload any) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveAnalysis(ctx, rec, payload); err != nil {
		s.logger.LogError(err, "Failed to store result", "id", rec.ID, "kind", rec.Kind)
	}
}

// resolve loads referenced documents and validates the result.
func (s *Service) resolve(ctx context.Context, in types.AnalyzeInput) (types.ResumeContent, types.JobData, error) {
	var (
		resume = in.Resume
		job    = in.Job
	)

	if err := s.validate.Struct(in); err != nil {
		return resume, job, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"Invalid analysis request", err)
	}

	if in.ResumeID != "" || in.JobID != "" {
		if s.store == nil {
			return resume, job, errNoStore()
		}
	}
	if in.ResumeID != "" {
		r, err := s.store.GetResume(ctx, in.ResumeID)
		if err != nil {
			return resume, job, err
		}
		resume = r
	}
	if in.JobID != "" {
		j, err := s.store.GetJob(ctx, in.JobID)
		if err != nil {
			return resume, job, err
		}
		job = j
	}

	if resume.IsEmpty() {
		return resume, job, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"Resume is required", nil)
	}
	return resume, job, nil
}

func errNoStore() *errors.AppError {
	return errors.NewConfigError(errors.ErrCodeInvalidConfig,
		"Stored documents are unavailable: no store is configured", nil)
}
