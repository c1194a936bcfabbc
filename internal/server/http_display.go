package server

import "fmt"

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo() {
	s.displayEndpoints()
	s.displayStoreInfo()
	s.displayRequestLimitInfo()
	s.displayRateLimitInfo()
}

// displayEndpoints shows available API endpoints
func (s *Server) displayEndpoints() {
	fmt.Println("Available endpoints:")
	fmt.Println("  GET    /health                - Health check")
	fmt.Println("  GET    /stats                 - Server statistics")
	fmt.Println("  POST   /v1/analyze            - Run the pre-analysis modules")
	fmt.Println("  POST   /v1/score              - Recruiter readiness score")
	fmt.Println("  POST   /v1/plan               - Tailoring plan (analysis, score, instructions)")
	fmt.Println("  POST   /v1/rules/explain      - Plan from a supplied analysis, no model calls")
	fmt.Println("  POST   /v1/extract            - Extract text from PDF, DOCX, HTML or text")
	fmt.Println("  POST   /v1/resumes, /v1/jobs  - Store a resume or job posting")
	fmt.Println("  GET    /v1/analyses[/{id}]    - Stored results")
	fmt.Println("  GET    /v1/plans/{id}         - Stored plan")
}

func (s *Server) displayStoreInfo() {
	if s.Store != nil {
		fmt.Println("Document store: ENABLED")
	} else {
		fmt.Println("Document store: DISABLED (ID references and history unavailable)")
	}
}

// displayRequestLimitInfo shows request size limit configuration
func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		fmt.Printf("Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Println("Request size limit: DISABLED")
		fmt.Println("WARNING: No request size limits configured!")
	}
}

// displayRateLimitInfo shows rate limiting configuration
func (s *Server) displayRateLimitInfo() {
	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Printf("Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
		if s.RateLimit.ByIP {
			fmt.Println("  - Per IP address rate limiting enabled")
		}
	} else {
		fmt.Println("Rate limiting: DISABLED")
		fmt.Println("WARNING: No rate limiting configured!")
	}
}
