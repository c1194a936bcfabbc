package cli

import (
	"context"
	"fmt"

	"resumeready/internal/common"
	"resumeready/internal/rules"
	"resumeready/internal/types"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [analysis-file]",
	Short: "Explain which transformation rules fire for an analysis",
	Long: `Evaluate every transformation rule against a saved pre-analysis
(a JSON or YAML report from "analyze", or a bare pre-analysis object) and
show, in priority order, whether each rule fired.

Without a file, every rule is listed with its condition.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return prepareOutput(cmd, &rulesConfig)
	},
	RunE: runRules,
}

var (
	rulesConfig    common.CommandConfig
	rulesFiredOnly bool
)

func init() {
	addOutputFlags(rulesCmd, &rulesConfig)
	rulesCmd.Flags().BoolVar(&rulesFiredOnly, "fired", false, "Only show rules that fired")
}

func runRules(cmd *cobra.Command, args []string) error {
	_, logger, err := commandContext(cmd)
	if err != nil {
		return err
	}

	pre := &types.PreAnalysisResult{}
	if len(args) == 1 {
		pre, err = common.NewFileProcessor(logger, rulesConfig.MaxFileSize).ReadAnalysis(args[0])
		if err != nil {
			return err
		}
	}

	explainOperation := func(_ context.Context, pre *types.PreAnalysisResult) ([]rules.RuleEvaluation, error) {
		evaluations := rules.Explain(rules.AllRules(), pre)
		if !rulesFiredOnly {
			return evaluations, nil
		}
		fired := make([]rules.RuleEvaluation, 0, len(evaluations))
		for _, e := range evaluations {
			if e.Fired {
				fired = append(fired, e)
			}
		}
		return fired, nil
	}

	if err := common.RunCommand(cmd.Context(), logger, rulesConfig, pre, explainOperation); err != nil {
		return fmt.Errorf("failed to explain rules: %w", err)
	}
	return nil
}
