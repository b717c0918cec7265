// Package graph provides import dependency graph construction, cycle
// detection, and deterministic topological sequencing.
//
// # Overview
//
// The builder loads every schema transitively reachable from one or
// more roots exactly once, memoized by logical path. Imports with no
// local source fall back to already-registered registry subjects and
// become stub nodes carrying only their existing registration. The
// resulting graph is immutable; TopoSort produces the publish order
// with dependencies before dependents.
//
// # Usage Example
//
// Build and sequence:
//
//	builder := graph.NewBuilder(resolver, subjectLookup)
//	g, err := builder.Build(ctx, "user.proto")
//	order, err := g.TopoSort()
//	// order: every dependency's index precedes its dependents'
//
// Cycles surface as a CycleError naming the full ordered cycle:
//
//	var cycleErr *graph.CycleError
//	if errors.As(err, &cycleErr) {
//		fmt.Println(strings.Join(cycleErr.Cycle, " -> "))
//	}
//
// # Related Packages
//
//   - pkg/schema: Source loading and import extraction
//   - pkg/publish: Consumes the sequenced order
package graph
