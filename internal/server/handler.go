package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"resumeready/internal/analysis"
	"resumeready/internal/errors"
	"resumeready/internal/extract"
	"resumeready/internal/observability"
	"resumeready/internal/store"
	"resumeready/internal/types"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var validate = validator.New()

// ExtractResponse is the extracted text of an uploaded document, plus the ID
// it was stored under when the caller asked for that.
type ExtractResponse struct {
	*extract.Result
	ID   string `json:"id,omitempty"`
	Kind string `json:"kind,omitempty"`
}

func (s *Server) startSpan(r *http.Request, name string) (context.Context, trace.Span) {
	return s.Observability.Tracer("resumeready.api").Start(r.Context(), name)
}

// fail records err on span and writes it.
func (s *Server) fail(w http.ResponseWriter, span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String("error.code", errors.CodeOf(err)))
	if statusForError(err) >= http.StatusInternalServerError {
		s.Logger.LogError(err, "Request failed")
	}
	writeAppError(w, err)
}

// moduleStatus is 502 when every analysis module failed, 200 otherwise.
func moduleStatus(failed bool) int {
	if failed {
		return http.StatusBadGateway
	}
	return http.StatusOK
}

func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.analyze")
	defer span.End()

	var req types.AnalyzeInput
	if err := parseJSONRequest(r, &req); err != nil {
		s.fail(w, span, err)
		return
	}

	report, err := s.Service.Analyze(ctx, req)
	if err != nil {
		s.fail(w, span, err)
		return
	}

	span.SetAttributes(
		attribute.String("analysis.run_id", report.RunID),
		attribute.Int("analysis.failed_modules", len(report.Errors)),
	)
	writeResult(w, r, moduleStatus(report.Failed()), report)
}

func (s *Server) scoreHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.score")
	defer span.End()

	var req types.AnalyzeInput
	if err := parseJSONRequest(r, &req); err != nil {
		s.fail(w, span, err)
		return
	}

	card, err := s.Service.Score(ctx, req)
	if err != nil {
		s.fail(w, span, err)
		return
	}

	span.SetAttributes(
		attribute.Int("readiness.composite", card.Readiness.Composite),
		attribute.String("readiness.label", card.Readiness.Label),
	)
	writeResult(w, r, moduleStatus(card.Failed()), card)
}

func (s *Server) planHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.plan")
	defer span.End()

	var req types.AnalyzeInput
	if err := parseJSONRequest(r, &req); err != nil {
		s.fail(w, span, err)
		return
	}

	plan, err := s.Service.Plan(ctx, req)
	if err != nil {
		s.fail(w, span, err)
		return
	}

	span.SetAttributes(
		attribute.String("plan.id", plan.ID),
		attribute.Int("plan.instructions", len(plan.Instructions)),
		attribute.Int("readiness.composite", plan.Readiness.Composite),
	)
	writeResult(w, r, moduleStatus(plan.Failed()), plan)
}

// explainHandler builds a plan from a caller-supplied pre-analysis without
// calling any model.
func (s *Server) explainHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.rules.explain")
	defer span.End()

	var pre types.PreAnalysisResult
	if err := parseJSONRequest(r, &pre); err != nil {
		s.fail(w, span, err)
		return
	}

	plan := s.Service.BuildPlan(ctx, &analysis.Report{RunID: uuid.NewString(), Analysis: &pre})
	writeResult(w, r, http.StatusOK, plan)
}

func (s *Server) extractHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.extract")
	defer span.End()

	data, filename, err := readUpload(r)
	if err != nil {
		s.fail(w, span, err)
		return
	}

	result, err := extract.Text(data, extract.Options{MaxSize: s.MaxRequestSize, Filename: filename})
	s.Observability.RecordBusinessMetric(ctx, observability.MetricDocumentExtracted, err == nil,
		attribute.Int("document.bytes", len(data)))
	if err != nil {
		s.fail(w, span, err)
		return
	}
	span.SetAttributes(
		attribute.String("document.format", result.Format),
		attribute.Int("document.pages", result.PageCount),
	)

	kind := r.URL.Query().Get("store")
	if kind == "" {
		writeResult(w, r, http.StatusOK, result)
		return
	}

	resp := ExtractResponse{Result: result, Kind: kind}
	switch kind {
	case "resume":
		resp.ID, err = s.saveResume(ctx, types.ResumeContent{RawText: result.Text})
	case "job":
		resp.ID, err = s.saveJob(ctx, types.JobData{Description: result.Text})
	default:
		err = errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("store must be resume or job, got %q", kind), nil)
	}
	if err != nil {
		s.fail(w, span, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// readUpload returns the uploaded document from a multipart "file" field or
// from the raw request body.
func readUpload(r *http.Request) ([]byte, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", errors.NewValidationError(errors.ErrCodeInvalidRequest,
				"multipart upload needs a file field", err)
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", errors.NewIOError(errors.ErrCodeInvalidRequest, "failed to read upload", err)
		}
		return data, header.Filename, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return nil, "", errors.NewValidationError(errCodeRequestTooLarge,
				fmt.Sprintf("request body too large (limit is %d bytes)", maxBytesErr.Limit), err)
		}
		return nil, "", errors.NewIOError(errors.ErrCodeInvalidRequest, "failed to read request body", err)
	}
	return data, r.URL.Query().Get("filename"), nil
}

func (s *Server) requireStore() error {
	if s.Store == nil {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "no store is configured", nil)
	}
	return nil
}

func (s *Server) saveResume(ctx context.Context, resume types.ResumeContent) (string, error) {
	if err := s.requireStore(); err != nil {
		return "", err
	}
	if err := validate.Struct(resume); err != nil {
		return "", errors.NewValidationError(errors.ErrCodeInvalidRequest, "invalid resume", err)
	}
	if resume.IsEmpty() {
		return "", errors.NewValidationError(errors.ErrCodeInvalidRequest, "resume is empty", nil)
	}
	return s.Store.SaveResume(ctx, resume)
}

func (s *Server) saveJob(ctx context.Context, job types.JobData) (string, error) {
	if err := s.requireStore(); err != nil {
		return "", err
	}
	if err := validate.Struct(job); err != nil {
		return "", errors.NewValidationError(errors.ErrCodeInvalidRequest, "invalid job posting", err)
	}
	if !job.HasDescription() && job.Title == "" {
		return "", errors.NewValidationError(errors.ErrCodeInvalidRequest, "job posting is empty", nil)
	}
	return s.Store.SaveJob(ctx, job)
}

func (s *Server) saveResumeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.resumes.save")
	defer span.End()

	var resume types.ResumeContent
	if err := parseJSONRequest(r, &resume); err != nil {
		s.fail(w, span, err)
		return
	}
	id, err := s.saveResume(ctx, resume)
	if err != nil {
		s.fail(w, span, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

func (s *Server) getResumeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.resumes.get")
	defer span.End()

	if err := s.requireStore(); err != nil {
		s.fail(w, span, err)
		return
	}
	resume, err := s.Store.GetResume(ctx, r.PathValue("id"))
	if err != nil {
		s.fail(w, span, err)
		return
	}
	writeResult(w, r, http.StatusOK, resume)
}

func (s *Server) deleteResumeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.resumes.delete")
	defer span.End()

	if err := s.requireStore(); err != nil {
		s.fail(w, span, err)
		return
	}
	if err := s.Store.DeleteResume(ctx, r.PathValue("id")); err != nil {
		s.fail(w, span, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) saveJobHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.jobs.save")
	defer span.End()

	var job types.JobData
	if err := parseJSONRequest(r, &job); err != nil {
		s.fail(w, span, err)
		return
	}
	id, err := s.saveJob(ctx, job)
	if err != nil {
		s.fail(w, span, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

func (s *Server) getJobHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.jobs.get")
	defer span.End()

	if err := s.requireStore(); err != nil {
		s.fail(w, span, err)
		return
	}
	job, err := s.Store.GetJob(ctx, r.PathValue("id"))
	if err != nil {
		s.fail(w, span, err)
		return
	}
	writeResult(w, r, http.StatusOK, job)
}

func (s *Server) deleteJobHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.jobs.delete")
	defer span.End()

	if err := s.requireStore(); err != nil {
		s.fail(w, span, err)
		return
	}
	if err := s.Store.DeleteJob(ctx, r.PathValue("id")); err != nil {
		s.fail(w, span, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listAnalysesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.analyses.list")
	defer span.End()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.fail(w, span, errors.NewValidationError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("invalid limit %q", raw), err))
			return
		}
		limit = n
	}

	records, err := s.Service.List(ctx, limit)
	if err != nil {
		s.fail(w, span, err)
		return
	}
	kind := r.URL.Query().Get("kind")
	items := make([]store.AnalysisRecord, 0, len(records))
	for _, rec := range records {
		if kind == "" || rec.Kind == kind {
			items = append(items, rec)
		}
	}
	writeJSON(w, http.StatusOK, ListResponse{Items: items, Count: len(items)})
}

func (s *Server) getAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.analyses.get")
	defer span.End()

	rec, raw, err := s.Service.Get(ctx, r.PathValue("id"))
	if err != nil {
		s.fail(w, span, err)
		return
	}
	writeJSON(w, http.StatusOK, StoredAnalysisResponse{Record: rec, Payload: raw})
}

func (s *Server) getPlanHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.plans.get")
	defer span.End()

	plan, err := s.Service.GetPlan(ctx, r.PathValue("id"))
	if err != nil {
		s.fail(w, span, err)
		return
	}
	writeResult(w, r, http.StatusOK, plan)
}
