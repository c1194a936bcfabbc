package cli

import (
	"context"
	"fmt"

	"resumeready/internal/common"
	"resumeready/internal/tailoring"
	"resumeready/internal/types"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score <resume-file> [job-file]",
	Short: "Score a resume's recruiter readiness",
	Long: `Analyze a resume and aggregate the module scores into a weighted
recruiter-readiness composite (0-100) with a label and the three weakest
dimensions to improve first.`,
	Args: cobra.RangeArgs(1, 2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return prepareOutput(cmd, &scoreConfig)
	},
	RunE: runScore,
}

var (
	scoreConfig common.CommandConfig
	scoreSave   bool
)

func init() {
	addOutputFlags(scoreCmd, &scoreConfig)
	scoreCmd.Flags().BoolVar(&scoreSave, "save", false, "Save the scorecard to the store")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, logger, err := commandContext(cmd)
	if err != nil {
		return err
	}

	deps, err := newServiceDeps(cmd.Context(), cfg, logger, scoreSave, false)
	if err != nil {
		return fmt.Errorf("failed to set up analysis: %w", err)
	}
	defer deps.close(logger)

	var card *tailoring.Scorecard
	scoreOperation := func(ctx context.Context, input types.AnalyzeInput) (*tailoring.Scorecard, error) {
		var err error
		card, err = deps.service.Score(ctx, input)
		return card, err
	}

	err = common.RunAnalysisCommand(cmd.Context(), logger, scoreConfig, args, scoreOperation,
		logAnalyzeInput(cmd, "readiness scoring"))
	if err != nil {
		return fmt.Errorf("failed to score resume: %w", err)
	}
	if card.Failed() {
		return fmt.Errorf("every analysis module failed")
	}
	logger.Info("Readiness scoring completed successfully",
		"composite", card.Readiness.Composite,
		"label", card.Readiness.Label)
	return nil
}
