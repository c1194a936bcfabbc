package common

import (
	"context"
	"fmt"
	"io"

	"resumeready/internal/errors"
	"resumeready/internal/types"
)

// CommandConfig holds common configuration for commands
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
	MaxFileSize  int64
	// Stdout receives output when OutputFile is empty; nil means os.Stdout.
	Stdout io.Writer
}

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// OperationFunc is a generic function signature for any tailoring operation.
type OperationFunc[Input, Output any] func(context.Context, Input) (Output, error)

// RunAnalysisCommand reads a resume and an optional job posting, runs op on
// them and writes the formatted result. args holds the resume path followed
// by the job path.
func RunAnalysisCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	op OperationFunc[types.AnalyzeInput, Output],
	logDetails LogDetailsFunc[types.AnalyzeInput],
) error {
	input, err := ReadAnalyzeInput(logger, cmdConfig, args)
	if err != nil {
		return err
	}
	if logDetails != nil {
		logDetails(input, cmdConfig)
	}
	return RunCommand(ctx, logger, cmdConfig, input, op)
}

// ReadAnalyzeInput builds an analysis request from files.
func ReadAnalyzeInput(logger *errors.Logger, cmdConfig CommandConfig, args []string) (types.AnalyzeInput, error) {
	var input types.AnalyzeInput
	if len(args) == 0 {
		return input, errors.NewValidationError(errors.ErrCodeInvalidRequest, "A resume file is required", nil)
	}

	fileProcessor := NewFileProcessor(logger, cmdConfig.MaxFileSize)

	resume, err := fileProcessor.ReadResume(args[0])
	if err != nil {
		return input, err
	}
	input.Resume = resume

	if len(args) > 1 {
		job, err := fileProcessor.ReadJob(args[1])
		if err != nil {
			return input, err
		}
		input.Job = job
	}
	return input, nil
}

// RunCommand runs op and hands its result to the output handler.
func RunCommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	input Input,
	op OperationFunc[Input, Output],
) error {
	result, err := op(ctx, input)
	if err != nil {
		return fmt.Errorf("operation failed: %w", err)
	}
	return NewOutputHandler(logger, cmdConfig.MaxFileSize).HandleOutput(result, cmdConfig)
}
