// Package retrieve fetches a registered schema together with the
// transitive closure of its references.
//
// # Overview
//
// Retrieval starts from one (subject, version) pair, version 0 meaning
// latest, and walks the reference lists concurrently. Fetches are
// bounded by a semaphore and deduplicated per pinned version, so a
// diamond-shaped reference graph costs one fetch per schema. Registered
// reference lists are acyclic by construction; a chain that returns to
// an ancestor is reported as a CyclicReferenceError rather than
// followed forever.
//
// The result materializes to a file tree in which each schema is
// written under its reference name. Reference names are import paths,
// so the tree republishes to identical fingerprints.
//
// # Usage Example
//
//	retriever := retrieve.NewRetriever(client, cfg.Retrieve.Concurrency)
//	result, err := retriever.Retrieve(ctx, "demo.User", 0)
//	if err != nil {
//		return err
//	}
//	if err := result.Materialize(outDir); err != nil {
//		return err
//	}
//
// # Related Packages
//
//   - pkg/registry: Performs the registry reads
//   - pkg/publish: Produces the reference lists this package walks
package retrieve
