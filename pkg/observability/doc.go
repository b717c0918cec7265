// Package observability provides structured JSON logging for the publish
// and retrieve pipelines.
//
// # Overview
//
// This package wraps stdlib slog with a level model, field chaining, and
// context plumbing so every pipeline step can log with a shared run ID.
//
// # Structured Logging
//
// Create logger:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stderr)
//	logger.Infof("publishing %d schemas", len(order))
//
// Context-aware logging:
//
//	ctx = observability.WithRunID(ctx, runID)
//	ctx = observability.WithLogger(ctx, logger)
//	observability.FromContext(ctx).WithField("subject", subject).Info("registered")
//
// # Related Packages
//
//   - pkg/config: Log level configuration
//   - pkg/publish: Logs each publication step
package observability
