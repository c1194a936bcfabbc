package analysis

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"resumeready/internal/ai"
	"resumeready/internal/config"
	"resumeready/internal/errors"
	"resumeready/internal/types"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Report is the outcome of one pre-analysis run. Analysis holds whatever the
// modules produced; Errors holds one entry per failed module.
type Report struct {
	RunID      string                      `json:"runId" yaml:"runId"`
	Analysis   *types.PreAnalysisResult    `json:"analysis" yaml:"analysis"`
	Errors     map[string]*errors.AppError `json:"errors,omitempty" yaml:"errors,omitempty"`
	StartedAt  time.Time                   `json:"startedAt" yaml:"startedAt"`
	DurationMS int64                       `json:"durationMs" yaml:"durationMs"`
}

// Failed reports whether every module failed.
func (r *Report) Failed() bool {
	return len(r.Errors) == len(config.Modules)
}

// Runner runs the five analysis modules concurrently.
type Runner struct {
	uniqueness *Module[*types.UniquenessResult]
	impact     *Module[*types.ImpactResult]
	context    *Module[*types.ContextResult]
	company    *Module[*types.CompanyResult]
	softSkills *Module[[]types.SoftSkill]
	clients    map[string]*ai.Client
	logger     *errors.Logger
}

// NewRunner builds every module from cfg. A module whose client cannot be
// created is still registered and reports CONFIGURATION_ERROR when run.
func NewRunner(cfg *config.Config, logger *errors.Logger, recorder Recorder) *Runner {
	clients := make(map[string]*ai.Client, len(config.Modules))
	deps := make(map[string]Deps, len(config.Modules))

	for _, name := range config.Modules {
		settings, err := cfg.ModuleConfig(name)
		if err != nil {
			logger.LogError(err, "Invalid module configuration", "module", name)
			continue
		}
		d := Deps{Settings: settings, Retry: cfg.Retry, Logger: logger, Recorder: recorder}
		client, err := ai.NewClient(name, settings, logger)
		if err != nil {
			logger.Warn("Analysis module has no model client", "module", name, "error", err.Error())
		} else {
			clients[name] = client
			d.Completer = client
		}
		deps[name] = d
	}

	r := NewRunnerWith(deps, logger)
	r.clients = clients
	return r
}

// NewRunnerWith builds a runner from explicit per-module dependencies.
// Modules missing from deps run without a completer.
func NewRunnerWith(deps map[string]Deps, logger *errors.Logger) *Runner {
	if logger == nil {
		logger = errors.Discard()
	}
	return &Runner{
		uniqueness: NewUniquenessModule(deps[config.ModuleUniqueness]),
		impact:     NewImpactModule(deps[config.ModuleImpact]),
		context:    NewContextModule(deps[config.ModuleContext]),
		company:    NewCompanyModule(deps[config.ModuleCompany]),
		softSkills: NewSoftSkillsModule(deps[config.ModuleSoftSkills]),
		clients:    map[string]*ai.Client{},
		logger:     logger,
	}
}

// Run executes all modules concurrently. A failing module never cancels or
// fails its siblings; its error is reported in Report.Errors.
func (r *Runner) Run(ctx context.Context, resume types.ResumeContent, job types.JobData) *Report {
	in := Input{Resume: resume, Job: job}
	report := &Report{
		RunID:     uuid.NewString(),
		Analysis:  &types.PreAnalysisResult{},
		Errors:    map[string]*errors.AppError{},
		StartedAt: time.Now(),
	}

	var mu sync.Mutex
	record := func(module string, err error) {
		if err == nil {
			return
		}
		var appErr *errors.AppError
		if !stderrors.As(err, &appErr) {
			appErr = errors.NewInternalError(errors.ErrCodeAIServiceFailed, err.Error(), err).WithModule(module)
		}
		mu.Lock()
		report.Errors[module] = appErr
		mu.Unlock()
	}

	r.logger.Info("Starting pre-analysis", "run_id", report.RunID)

	var g errgroup.Group
	g.Go(func() error {
		res, err := r.uniqueness.Analyze(ctx, in)
		if err == nil {
			report.Analysis.Uniqueness = res
		}
		record(r.uniqueness.Name(), err)
		return nil
	})
	g.Go(func() error {
		res, err := r.impact.Analyze(ctx, in)
		if err == nil {
			report.Analysis.Impact = res
		}
		record(r.impact.Name(), err)
		return nil
	})
	g.Go(func() error {
		res, err := r.context.Analyze(ctx, in)
		if err == nil {
			report.Analysis.Context = res
		}
		record(r.context.Name(), err)
		return nil
	})
	g.Go(func() error {
		res, err := r.company.Analyze(ctx, in)
		if err == nil {
			report.Analysis.Company = res
		}
		record(r.company.Name(), err)
		return nil
	})
	g.Go(func() error {
		res, err := r.softSkills.Analyze(ctx, in)
		if err == nil {
			report.Analysis.SoftSkills = res
		}
		record(r.softSkills.Name(), err)
		return nil
	})
	_ = g.Wait()

	report.DurationMS = time.Since(report.StartedAt).Milliseconds()
	r.logger.Info("Pre-analysis finished",
		"run_id", report.RunID,
		"failed_modules", len(report.Errors),
		"duration_ms", report.DurationMS)

	return report
}

// Stats reports the model client of every module that has one.
func (r *Runner) Stats() map[string]any {
	out := make(map[string]any, len(r.clients))
	for name, client := range r.clients {
		out[name] = client.Stats()
	}
	return out
}

// Healthy reports whether no module's circuit breaker is open.
func (r *Runner) Healthy() bool {
	for _, client := range r.clients {
		if healthy, _ := client.Stats()["healthy"].(bool); !healthy {
			return false
		}
	}
	return true
}
