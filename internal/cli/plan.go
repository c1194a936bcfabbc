package cli

import (
	"context"
	"fmt"

	"resumeready/internal/common"
	"resumeready/internal/tailoring"
	"resumeready/internal/types"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan <resume-file> [job-file]",
	Short: "Build a tailoring plan for a resume",
	Long: `Analyze a resume, score it and evaluate the transformation rules
against the findings. The plan lists the instructions in priority order
together with the directive block a rewrite model would receive.`,
	Args: cobra.RangeArgs(1, 2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return prepareOutput(cmd, &planConfig)
	},
	RunE: runPlan,
}

var (
	planConfig common.CommandConfig
	planSave   bool
)

func init() {
	addOutputFlags(planCmd, &planConfig)
	planCmd.Flags().BoolVar(&planSave, "save", false, "Save the plan to the store")
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, logger, err := commandContext(cmd)
	if err != nil {
		return err
	}

	deps, err := newServiceDeps(cmd.Context(), cfg, logger, planSave, false)
	if err != nil {
		return fmt.Errorf("failed to set up analysis: %w", err)
	}
	defer deps.close(logger)

	var plan *tailoring.Plan
	planOperation := func(ctx context.Context, input types.AnalyzeInput) (*tailoring.Plan, error) {
		var err error
		plan, err = deps.service.Plan(ctx, input)
		return plan, err
	}

	err = common.RunAnalysisCommand(cmd.Context(), logger, planConfig, args, planOperation,
		logAnalyzeInput(cmd, "tailoring plan"))
	if err != nil {
		return fmt.Errorf("failed to build tailoring plan: %w", err)
	}
	if plan.Failed() {
		return fmt.Errorf("every analysis module failed")
	}
	logger.Info("Tailoring plan completed successfully",
		"plan_id", plan.ID,
		"instructions", len(plan.Instructions))
	return nil
}
