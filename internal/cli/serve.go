package cli

import (
	"fmt"

	"resumeready/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start an HTTP server exposing the analysis, scoring and planning
operations and the resume, job and analysis store.

Available endpoints:
- POST /v1/analyze, /v1/score, /v1/plan: run an operation on an inline resume and job, or on stored IDs
- POST /v1/rules/explain: build a plan from a supplied pre-analysis
- POST /v1/extract: extract text from an uploaded document, optionally storing it
- POST, GET, DELETE /v1/resumes and /v1/jobs: manage stored documents
- GET /v1/analyses, /v1/analyses/{id}, /v1/plans/{id}: read stored results
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

Results accept ?format=yaml, text or markdown.`,
	RunE: runServe,
}

var serveNoStore bool

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("store", "", "SQLite store path (default from config)")
	serveCmd.Flags().BoolVar(&serveNoStore, "no-store", false, "Run without a store; document endpoints are disabled")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := commandContext(cmd)
	if err != nil {
		return err
	}

	// Flags override the loaded configuration
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Server.Port, _ = flags.GetString("port")
	}
	if flags.Changed("host") {
		cfg.Server.Host, _ = flags.GetString("host")
	}
	if flags.Changed("store") {
		cfg.Store.Path, _ = flags.GetString("store")
	}

	deps, err := newServiceDeps(cmd.Context(), cfg, logger, !serveNoStore, true)
	if err != nil {
		return fmt.Errorf("failed to set up analysis: %w", err)
	}
	defer deps.close(logger)

	serverDeps := server.Dependencies{
		Service:       deps.service,
		Health:        deps.runner,
		Observability: deps.obs,
	}
	if deps.store != nil {
		serverDeps.Store = deps.store
	}

	srv, err := server.NewServer(server.ServerConfigFrom(cfg, Version), serverDeps, logger)
	if err != nil {
		return err
	}
	return srv.Start()
}
