package cli

import (
	"context"
	"fmt"

	"resumeready/internal/common"
	"resumeready/internal/extract"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <document>",
	Short: "Extract plain text from a PDF, DOCX, HTML or text document",
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return prepareOutput(cmd, &extractConfig)
	},
	RunE: runExtract,
}

var extractConfig common.CommandConfig

func init() {
	addOutputFlags(extractCmd, &extractConfig)
}

func runExtract(cmd *cobra.Command, args []string) error {
	_, logger, err := commandContext(cmd)
	if err != nil {
		return err
	}

	fileProcessor := common.NewFileProcessor(logger, extractConfig.MaxFileSize)
	extractOperation := func(_ context.Context, path string) (*extract.Result, error) {
		return fileProcessor.ExtractFile(path)
	}

	if err := common.RunCommand(cmd.Context(), logger, extractConfig, args[0], extractOperation); err != nil {
		return fmt.Errorf("failed to extract document: %w", err)
	}
	return nil
}
