package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	rateLimited := s.rateLimitMiddleware()
	limited := func(h http.HandlerFunc) http.HandlerFunc {
		return rateLimited(s.requestSizeLimitMiddleware(h))
	}

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /stats", s.statsHandler)

	mux.HandleFunc("POST /v1/analyze", limited(s.analyzeHandler))
	mux.HandleFunc("POST /v1/score", limited(s.scoreHandler))
	mux.HandleFunc("POST /v1/plan", limited(s.planHandler))
	mux.HandleFunc("POST /v1/extract", limited(s.extractHandler))
	mux.HandleFunc("POST /v1/rules/explain", limited(s.explainHandler))

	mux.HandleFunc("POST /v1/resumes", limited(s.saveResumeHandler))
	mux.HandleFunc("GET /v1/resumes/{id}", s.getResumeHandler)
	mux.HandleFunc("DELETE /v1/resumes/{id}", s.deleteResumeHandler)
	mux.HandleFunc("POST /v1/jobs", limited(s.saveJobHandler))
	mux.HandleFunc("GET /v1/jobs/{id}", s.getJobHandler)
	mux.HandleFunc("DELETE /v1/jobs/{id}", s.deleteJobHandler)

	mux.HandleFunc("GET /v1/analyses", s.listAnalysesHandler)
	mux.HandleFunc("GET /v1/analyses/{id}", s.getAnalysisHandler)
	mux.HandleFunc("GET /v1/plans/{id}", s.getPlanHandler)

	return mux
}

// requestSizeLimitMiddleware limits the size of incoming requests
func (s *Server) requestSizeLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.MaxRequestSize > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
		}
		next(w, r)
	}
}
