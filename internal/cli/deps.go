package cli

import (
	"context"
	"time"

	"resumeready/internal/analysis"
	"resumeready/internal/common"
	"resumeready/internal/config"
	"resumeready/internal/errors"
	"resumeready/internal/observability"
	"resumeready/internal/store"
	"resumeready/internal/tailoring"

	"github.com/spf13/cobra"
)

// serviceDeps is the wired analysis stack shared by the commands.
type serviceDeps struct {
	service *tailoring.Service
	runner  *analysis.Runner
	store   *store.SQLiteStore
	obs     *observability.ObservabilityManager
}

// newServiceDeps wires telemetry, the module runner and the tailoring
// service. The store is opened only when withStore is set. The Prometheus
// endpoint is served only by long-running processes.
func newServiceDeps(ctx context.Context, cfg *config.Config, logger *errors.Logger, withStore, serving bool) (*serviceDeps, error) {
	obsConfig := observability.GetObservabilityConfig(cfg, Version)
	if !serving {
		obsConfig.Prometheus.Enabled = false
	}
	om, err := observability.NewObservabilityManager(obsConfig, cfg)
	if err != nil {
		return nil, err
	}

	deps := &serviceDeps{
		runner: analysis.NewRunner(cfg, logger, om),
		obs:    om,
	}

	opts := []tailoring.Option{tailoring.WithRecorder(om), tailoring.WithLogger(logger)}
	if withStore {
		st, err := store.NewSQLiteStore(ctx, cfg.Store.Path)
		if err != nil {
			_ = om.Shutdown(ctx)
			return nil, err
		}
		logger.Info("Opened store", "path", cfg.Store.Path)
		deps.store = st
		opts = append(opts, tailoring.WithStore(st))
	}

	deps.service = tailoring.NewService(deps.runner, opts...)
	return deps, nil
}

// close flushes telemetry and closes the store.
func (d *serviceDeps) close(logger *errors.Logger) {
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			logger.LogError(err, "Failed to close store")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.obs.Shutdown(ctx); err != nil {
		logger.LogError(err, "Failed to shut down observability")
	}
}

func commandContext(cmd *cobra.Command) (*config.Config, *errors.Logger, error) {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// addOutputFlags registers --output and --format on cmd.
func addOutputFlags(cmd *cobra.Command, cmdConfig *common.CommandConfig) {
	cmd.Flags().StringVarP(&cmdConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&cmdConfig.OutputFormat, "format", "", "Output format: json, yaml, text, or markdown")

	// Add completion for format flag
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return []string{}, cobra.ShellCompDirectiveError
		}
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

// prepareOutput applies the configured defaults to cmdConfig and validates
// the requested format.
func prepareOutput(cmd *cobra.Command, cmdConfig *common.CommandConfig) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	// Apply default format if not specified
	if cmdConfig.OutputFormat == "" {
		cmdConfig.OutputFormat = cfg.App.DefaultFormat
	}
	cmdConfig.MaxFileSize = cfg.App.MaxFileSize
	cmdConfig.Stdout = cmd.OutOrStdout()
	// Validate format against supported formats
	return common.ValidateOutputFormat(cmdConfig.OutputFormat, cfg.App.SupportedFormats)
}
