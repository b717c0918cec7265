// Package config provides tool configuration from a YAML file and
// environment variables.
//
// # Overview
//
// Configuration is layered: built-in defaults, then an optional
// .protoreg.yaml file, then PROTOREG_* environment variables. CLI flags
// (handled in pkg/cli) take final precedence for the values they cover.
//
// # Environment Variables
//
// Registry settings:
//
//	PROTOREG_REGISTRY_URLS="https://registry-a:8081,https://registry-b:8081"
//	PROTOREG_BEARER_TOKEN="..."
//	PROTOREG_BASIC_USER="ci"
//	PROTOREG_BASIC_PASSWORD="..."
//	PROTOREG_TIMEOUT="30s"
//	PROTOREG_RETRY_MAX_ATTEMPTS="3"
//	PROTOREG_RETRY_INITIAL_DELAY="500ms"
//	PROTOREG_RETRY_MAX_DELAY="10s"
//	PROTOREG_CACHE_SIZE="256"
//
// Retrieval settings:
//
//	PROTOREG_RETRIEVE_CONCURRENCY="8"
//
// Observability settings:
//
//	PROTOREG_LOG_LEVEL="info"  # debug, info, warn, error
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.Load("")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Related Packages
//
//   - pkg/registry: Uses registry configuration
//   - pkg/observability: Uses observability configuration
package config
