package cli

import (
	"context"
	"fmt"

	"resumeready/internal/analysis"
	"resumeready/internal/common"
	"resumeready/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume-file> [job-file]",
	Short: "Run the five pre-analysis modules on a resume",
	Long: `Run the uniqueness, impact, context fit, company alignment and soft
skills modules concurrently against a resume and, optionally, a job posting.

Each module calls the configured model with retries, recovers its JSON answer
and validates it. A module that fails is reported in the errors section while
the others still complete.`,
	Args: cobra.RangeArgs(1, 2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return prepareOutput(cmd, &analyzeConfig)
	},
	RunE: runAnalyze,
}

var (
	analyzeConfig common.CommandConfig
	analyzeSave   bool
)

func init() {
	addOutputFlags(analyzeCmd, &analyzeConfig)
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Save the report to the store")
}

// logAnalyzeInput returns a LogDetailsFunc announcing the named operation.
func logAnalyzeInput(cmd *cobra.Command, operation string) common.LogDetailsFunc[types.AnalyzeInput] {
	logger, _ := getLoggerFromContext(cmd.Context())
	return func(input types.AnalyzeInput, cfg common.CommandConfig) {
		logger.Info("Starting "+operation,
			"resume_chars", len(input.Resume.Text()),
			"resume_bullets", len(input.Resume.Bullets()),
			"has_job", input.Job.HasDescription(),
			"output_format", cfg.OutputFormat)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, logger, err := commandContext(cmd)
	if err != nil {
		return err
	}

	deps, err := newServiceDeps(cmd.Context(), cfg, logger, analyzeSave, false)
	if err != nil {
		return fmt.Errorf("failed to set up analysis: %w", err)
	}
	defer deps.close(logger)

	var failed bool
	analyzeOperation := func(ctx context.Context, input types.AnalyzeInput) (*analysis.Report, error) {
		report, err := deps.service.Analyze(ctx, input)
		if err != nil {
			return nil, err
		}
		failed = report.Failed()
		return report, nil
	}

	err = common.RunAnalysisCommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		args,
		analyzeOperation,
		logAnalyzeInput(cmd, "pre-analysis"),
	)
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	if failed {
		return fmt.Errorf("every analysis module failed")
	}
	logger.Info("Pre-analysis completed successfully")
	return nil
}
