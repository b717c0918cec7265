// Package schema provides schema source loading, import extraction,
// canonicalization, and content fingerprinting.
//
// # Overview
//
// The loader reads a schema file and extracts its declared imports with
// a targeted, comment-aware scan; no full-grammar parse is needed to
// discover dependencies. The canonicalizer produces the stable textual
// form used for idempotent content comparison: structural validation via
// protocompile's parser, optional comment stripping, and whitespace
// normalization.
//
// # Usage Example
//
// Load a source and canonicalize it:
//
//	src, err := schema.Load("protos/user.proto", "user.proto")
//	canon := &schema.ProtoCanonicalizer{StripComments: true}
//	text, err := canon.Canonicalize(src.Path, src.Raw)
//	fp := schema.Fingerprint(text, refs)
//
// # Canonical Form
//
// Canonicalization is idempotent and comment/whitespace stable:
// canonicalizing canonical text is a no-op, and inputs differing only in
// comments (with stripping enabled) or insignificant whitespace yield
// identical output.
//
// # Related Packages
//
//   - pkg/graph: Builds the import graph from loaded sources
//   - pkg/publish: Fingerprints canonical content for idempotency
package schema
