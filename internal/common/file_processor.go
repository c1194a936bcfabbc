package common

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"resumeready/internal/errors"
	"resumeready/internal/extract"
	"resumeready/internal/types"
	"resumeready/internal/utils"

	"gopkg.in/yaml.v3"
)

// FileProcessor handles common file operations
type FileProcessor struct {
	logger  *errors.Logger
	maxSize int64
}

// NewFileProcessor creates a new file processor instance. A maxSize of zero
// uses extract.DefaultMaxSize.
func NewFileProcessor(logger *errors.Logger, maxSize int64) *FileProcessor {
	if logger == nil {
		logger = errors.Discard()
	}
	if maxSize <= 0 {
		maxSize = extract.DefaultMaxSize
	}
	return &FileProcessor{logger: logger, maxSize: maxSize}
}

// ReadBytes reads a file with proper error handling
func (fp *FileProcessor) ReadBytes(filename string) ([]byte, error) {
	if err := utils.ValidateInputFile(filename); err != nil {
		return nil, errors.NewValidationError("INVALID_INPUT_FILE",
			fmt.Sprintf("Invalid file %s", filename), err)
	}
	if err := utils.ValidateFileSize(filename, fp.maxSize); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("File too large: %s", filename), err)
	}

	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}
	return content, nil
}

// ExtractFile reads a document of any supported format and returns its text.
func (fp *FileProcessor) ExtractFile(filename string) (*extract.Result, error) {
	data, err := fp.ReadBytes(filename)
	if err != nil {
		return nil, err
	}
	if !utils.IsTextFile(filename) && !utils.IsDocumentFile(filename) {
		fp.logger.Warn("File may not be a text file", "filename", filename)
	}

	result, err := extract.Text(data, extract.Options{MaxSize: fp.maxSize, Filename: filename})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr.WithContext("filename", filename)
		}
		return nil, err
	}
	fp.logger.Debug("Extracted document text",
		"filename", filename, "format", result.Format, "pages", result.PageCount)
	return result, nil
}

// ReadResume loads a resume. JSON and YAML files are decoded as structured
// resumes; any other document is extracted into RawText.
func (fp *FileProcessor) ReadResume(filename string) (types.ResumeContent, error) {
	var resume types.ResumeContent
	if utils.IsStructuredFile(filename) {
		err := fp.decodeStructured(filename, &resume)
		return resume, err
	}

	result, err := fp.ExtractFile(filename)
	if err != nil {
		return resume, err
	}
	resume.RawText = result.Text
	return resume, nil
}

// ReadJob loads a job posting. JSON and YAML files are decoded as structured
// postings; any other document becomes the description.
func (fp *FileProcessor) ReadJob(filename string) (types.JobData, error) {
	var job types.JobData
	if utils.IsStructuredFile(filename) {
		err := fp.decodeStructured(filename, &job)
		return job, err
	}

	result, err := fp.ExtractFile(filename)
	if err != nil {
		return job, err
	}
	job.Description = result.Text
	return job, nil
}

// ReadAnalysis loads a pre-analysis from a JSON or YAML file. Both a bare
// pre-analysis and a saved analysis report are accepted.
func (fp *FileProcessor) ReadAnalysis(filename string) (*types.PreAnalysisResult, error) {
	if !utils.IsStructuredFile(filename) {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("%s is not a JSON or YAML file", filename), nil)
	}

	var report struct {
		Analysis *types.PreAnalysisResult `json:"analysis" yaml:"analysis"`
	}
	if err := fp.decodeStructured(filename, &report); err != nil {
		return nil, err
	}
	if report.Analysis != nil {
		return report.Analysis, nil
	}

	var pre types.PreAnalysisResult
	if err := fp.decodeStructured(filename, &pre); err != nil {
		return nil, err
	}
	return &pre, nil
}

func (fp *FileProcessor) decodeStructured(filename string, out any) error {
	data, err := fp.ReadBytes(filename)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		err = json.Unmarshal(data, out)
	default:
		err = yaml.Unmarshal(data, out)
	}
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Cannot decode %s", filename), err)
	}
	return nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		err := os.MkdirAll(dir, 0750)
		if err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	err := os.WriteFile(filename, []byte(content), 0600)
	if err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}
