package graph

import (
	"fmt"
	"sort"

	"github.com/platinummonkey/protoreg/pkg/schema"
)

// Stub identifies an already-registered dependency with no local source.
// It contributes only its existing registration to dependents and is
// never re-published.
type Stub struct {
	Subject string
	Version int
	ID      int
}

// Node is a vertex in the dependency graph: either a local schema
// source awaiting publication, or a stub for an external dependency.
type Node struct {
	// Path is the logical identity (the identifier other schemas
	// import this node by)
	Path string

	// Source is the loaded local schema; nil for stubs
	Source *schema.Source

	// Stub is set for external, already-registered dependencies
	Stub *Stub

	// Deps are the logical paths of direct dependencies; always empty
	// for stubs
	Deps []string
}

// IsStub reports whether the node is an external stub
func (n *Node) IsStub() bool {
	return n.Stub != nil
}

// Graph is an immutable-once-built dependency graph keyed by logical
// path. Every edge target must exist as a node.
type Graph struct {
	nodes map[string]*Node
	edges map[string][]string
}

// New creates an empty dependency graph
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[string][]string),
	}
}

// AddNode adds a node and its outgoing dependency edges
func (g *Graph) AddNode(node *Node) {
	g.nodes[node.Path] = node
	g.edges[node.Path] = append([]string(nil), node.Deps...)
}

// Node retrieves a node by logical path, or nil
func (g *Graph) Node(path string) *Node {
	return g.nodes[path]
}

// Len returns the number of nodes
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Paths returns all logical paths in lexicographic order
func (g *Graph) Paths() []string {
	paths := make([]string, 0, len(g.nodes))
	for path := range g.nodes {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Validate checks the no-dangling-imports invariant: every edge target
// must exist as a node.
func (g *Graph) Validate() error {
	for from, deps := range g.edges {
		for _, dep := range deps {
			if _, ok := g.nodes[dep]; !ok {
				return &UnresolvedImportError{Import: dep, From: from}
			}
		}
	}
	return nil
}

// TopoSort returns a publish order in which every dependency precedes
// its dependents. Nodes with no ordering constraint between them are
// emitted in lexicographic order for determinism across runs. Stubs
// have no dependencies and are eligible immediately.
//
// The sort is Kahn's algorithm over per-node unresolved-dependency
// counts; if eligible nodes run out before the graph is exhausted, the
// remainder contains a cycle, which is returned as a CycleError naming
// the ordered cycle path.
func (g *Graph) TopoSort() ([]string, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	remaining := make(map[string]int, len(g.nodes))
	for path, deps := range g.edges {
		remaining[path] = len(deps)
	}

	// dependents[d] = nodes whose count drops when d is sequenced
	dependents := make(map[string][]string, len(g.nodes))
	for path, deps := range g.edges {
		for _, dep := range deps {
			dependents[dep] = append(dependents[dep], path)
		}
	}

	paths := g.Paths()
	sequenced := make(map[string]bool, len(g.nodes))
	order := make([]string, 0, len(g.nodes))

	for len(order) < len(g.nodes) {
		// Lexicographically smallest eligible node wins the tie-break
		picked := ""
		for _, path := range paths {
			if !sequenced[path] && remaining[path] == 0 {
				picked = path
				break
			}
		}
		if picked == "" {
			return nil, &CycleError{Cycle: g.findCycle(sequenced)}
		}

		sequenced[picked] = true
		order = append(order, picked)
		for _, dependent := range dependents[picked] {
			remaining[dependent]--
		}
	}

	return order, nil
}

// findCycle walks the unsequenced remainder of the graph along
// dependency edges until a node repeats, returning the ordered cycle
// path with its start repeated at the end.
func (g *Graph) findCycle(sequenced map[string]bool) []string {
	start := ""
	for _, path := range g.Paths() {
		if !sequenced[path] {
			start = path
			break
		}
	}

	index := make(map[string]int)
	path := make([]string, 0)
	cur := start
	for {
		if at, seen := index[cur]; seen {
			cycle := append([]string(nil), path[at:]...)
			return append(cycle, cur)
		}
		index[cur] = len(path)
		path = append(path, cur)

		// Follow the first unsequenced dependency; one must exist,
		// otherwise cur would have been eligible.
		next := ""
		for _, dep := range g.edges[cur] {
			if !sequenced[dep] {
				next = dep
				break
			}
		}
		if next == "" {
			// Defensive: should be unreachable when called from TopoSort
			return append(path, fmt.Sprintf("<broken cycle at %s>", cur))
		}
		cur = next
	}
}
