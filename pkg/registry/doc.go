// Package registry provides the schema registry HTTP client consumed by
// the publish and retrieve pipelines.
//
// # Overview
//
// The client speaks the registry's REST API (subjects, versions,
// references) over JSON. Transport failures and 5xx responses are
// retried with bounded exponential backoff across all configured base
// URLs; semantic rejections and missing entities surface as typed
// errors. Immutable (subject, version) lookups are cached in an LRU.
//
// # Usage Example
//
// Create a client and fetch the latest version:
//
//	client, err := registry.NewHTTPClient(registry.Options{
//		URLs:    []string{"http://localhost:8081"},
//		Timeout: 30 * time.Second,
//	})
//	reg, err := client.GetLatestVersion(ctx, "user-value")
//	if registry.IsNotFound(err) {
//		// first publication for this subject
//	}
//
// # Error Taxonomy
//
//   - NotFoundError: subject or version missing
//   - RejectedError: registry refused a registration (incompatible schema,
//     malformed reference)
//   - UnavailableError: transport failed after all retry attempts
//
// # Related Packages
//
//   - pkg/publish: Registers schemas in dependency order
//   - pkg/retrieve: Resolves reference closures
package registry
