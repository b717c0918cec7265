// Package cli provides the protoreg command-line interface.
//
// # Overview
//
// This package implements the `protoreg` tool for publishing a schema
// and its import closure to a schema registry, and for retrieving a
// registered schema together with its reference closure.
//
// # Commands
//
// post: Publish a schema and its imports
//
//	protoreg post \
//		-type protobuf \
//		-topic users \
//		-file ./proto/user.proto \
//		-include ./proto/shared \
//		http://registry:8081
//
// Watch mode republishes whenever a schema file changes:
//
//	protoreg post -topic users -file ./proto/user.proto -watch http://registry:8081
//
// get: Retrieve a schema and its references
//
//	protoreg get -record demo.User -version 3 -out ./retrieved http://registry:8081
//
// version: Print the tool version
//
// # Configuration
//
// Registry URLs are positional arguments. Everything else layers
// defaults, an optional .protoreg.yaml file, PROTOREG_* environment
// variables, and flags:
//
//	export PROTOREG_BEARER_TOKEN="..."
//	export PROTOREG_LOG_LEVEL="debug"
//
// # Exit Codes
//
// Zero on success; each failure kind maps to a distinct non-zero code
// (see ExitCode).
//
// # Related Packages
//
//   - pkg/publish: Runs the publication pipeline
//   - pkg/retrieve: Runs the retrieval pipeline
//   - pkg/config: Loads layered configuration
package cli
