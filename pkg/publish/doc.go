// Package publish registers a sequenced dependency graph with the
// schema registry.
//
// # Overview
//
// Nodes are processed strictly in topological order: each node's
// reference descriptors are looked up from the publish records of its
// already-processed dependencies, the canonical content is compared
// against the latest registered version, and a new version is
// registered only when the content or reference set differs. Stub nodes
// carry their existing registration forward and are never re-published.
//
// Publication is not transactional across nodes; each acknowledged
// registration is durable, and a failed run converges on re-run via the
// idempotency comparison.
//
// # Usage Example
//
//	subject, _ := publish.SubjectStrategy{Topic: "users"}.Subject()
//	publisher := publish.NewPublisher(client, canon,
//		publish.RecordNameSubjects(map[string]string{"user.proto": subject}))
//	records, err := publisher.Publish(ctx, g, order)
//
// # Related Packages
//
//   - pkg/graph: Produces the sequenced order
//   - pkg/registry: Performs the registry writes
package publish
