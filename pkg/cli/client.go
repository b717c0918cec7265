package cli

import (
	"context"
	"os"

	"github.com/platinummonkey/protoreg/pkg/config"
	"github.com/platinummonkey/protoreg/pkg/observability"
	"github.com/platinummonkey/protoreg/pkg/registry"
)

// loadConfig builds the effective configuration for one invocation:
// file and environment layers, then the registry URLs given on the
// command line.
func loadConfig(configPath string, urls []string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if len(urls) > 0 {
		cfg.Registry.URLs = urls
	}
	if len(cfg.Registry.URLs) == 0 {
		return nil, &UsageError{Message: "at least one registry URL is required"}
	}
	return cfg, nil
}

// newClient creates the registry client from configuration
func newClient(cfg *config.Config) (registry.Client, error) {
	return registry.NewHTTPClient(registry.Options{
		URLs:    cfg.Registry.URLs,
		Timeout: cfg.Registry.Timeout,
		Retry: registry.RetryConfig{
			MaxAttempts:  cfg.Registry.RetryMaxAttempts,
			InitialDelay: cfg.Registry.RetryInitialDelay,
			MaxDelay:     cfg.Registry.RetryMaxDelay,
		},
		CacheSize:     cfg.Registry.CacheSize,
		BearerToken:   cfg.Registry.BearerToken,
		BasicUser:     cfg.Registry.BasicUser,
		BasicPassword: cfg.Registry.BasicPassword,
	})
}

// withLogger attaches a configured logger to the context, carrying the
// run id as a field when one is present.
func withLogger(ctx context.Context, cfg *config.Config) context.Context {
	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stderr)
	if runID := observability.GetRunID(ctx); runID != "" {
		logger = logger.WithField("run_id", runID)
	}
	return observability.WithLogger(ctx, logger)
}
