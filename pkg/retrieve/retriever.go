package retrieve

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/platinummonkey/protoreg/pkg/observability"
	"github.com/platinummonkey/protoreg/pkg/registry"
)

// Node is one retrieved schema version, keyed by the file name it
// materializes under.
type Node struct {
	// Name is the file name, relative to the output directory. For
	// referenced schemas this is the reference name, which doubles as
	// the import path inside dependents.
	Name string

	// Subject the schema is registered under
	Subject string

	// Version of the schema within its subject
	Version int

	// ID is the registry-assigned global schema id
	ID int

	// Content is the registered schema text
	Content string

	// References this schema declares
	References []registry.Reference
}

// Result is the closed set of schemas reached from one root
type Result struct {
	// Root is the schema the retrieval started from
	Root *Node

	// Nodes maps file names to retrieved schemas, root included
	Nodes map[string]*Node
}

// Retriever fetches a schema and the transitive closure of its
// references. Reference fetches run concurrently up to a configured
// bound, each distinct (subject, version) is fetched at most once, and
// a reference chain that returns to an ancestor fails the retrieval.
type Retriever struct {
	client registry.Client
	sem    *semaphore.Weighted
	flight singleflight.Group
}

// NewRetriever creates a retriever with the given fetch concurrency
// bound. A bound below one is treated as one.
func NewRetriever(client registry.Client, concurrency int) *Retriever {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Retriever{
		client: client,
		sem:    semaphore.NewWeighted(int64(concurrency)),
	}
}

// walkState accumulates nodes across concurrent walkers
type walkState struct {
	mu      sync.Mutex
	claimed map[string]string
	nodes   map[string]*Node
}

// Retrieve fetches the schema registered under subject at the given
// version (0 means latest) together with every schema transitively
// reachable through its references.
func (r *Retriever) Retrieve(ctx context.Context, subject string, version int) (*Result, error) {
	logger := observability.FromContext(ctx)

	root, err := r.fetchRoot(ctx, subject, version)
	if err != nil {
		return nil, err
	}

	rootName := fileNameForSubject(subject)
	rootNode := &Node{
		Name:       rootName,
		Subject:    root.Subject,
		Version:    root.Version,
		ID:         root.ID,
		Content:    root.Schema,
		References: root.References,
	}

	state := &walkState{
		claimed: map[string]string{rootName: identity(root.Subject, root.Version)},
		nodes:   map[string]*Node{rootName: rootNode},
	}

	g, gctx := errgroup.WithContext(ctx)
	ancestry := []string{identity(root.Subject, root.Version)}
	for _, ref := range root.References {
		ref := ref
		g.Go(func() error {
			return r.walk(gctx, g, state, ref, ancestry)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The ancestry checks above catch cycles that pass through a
	// walker's own path; cycles between siblings depend on claim order,
	// so the collected graph is checked once more deterministically.
	if cycle := detectCycle(state.nodes); cycle != nil {
		return nil, cycle
	}

	logger.WithFields(map[string]interface{}{
		"subject": root.Subject,
		"version": root.Version,
		"schemas": len(state.nodes),
	}).Info("retrieved schema closure")

	return &Result{Root: rootNode, Nodes: state.nodes}, nil
}

// walk retrieves one reference and spawns walkers for its own
// references. Ancestry carries the subject@version identities on the
// path from the root, so a repeat identity is a cycle rather than a
// diamond.
func (r *Retriever) walk(ctx context.Context, g *errgroup.Group, state *walkState, ref registry.Reference, ancestry []string) error {
	key := identity(ref.Subject, ref.Version)
	for _, ancestor := range ancestry {
		if ancestor == key {
			chain := make([]string, 0, len(ancestry)+1)
			chain = append(chain, ancestry...)
			chain = append(chain, key)
			return &CyclicReferenceError{Chain: chain}
		}
	}

	state.mu.Lock()
	if existing, ok := state.claimed[ref.Name]; ok {
		state.mu.Unlock()
		if existing != key {
			return fmt.Errorf("reference name %s resolves to both %s and %s", ref.Name, existing, key)
		}
		return nil
	}
	state.claimed[ref.Name] = key
	state.mu.Unlock()

	reg, err := r.fetch(ctx, ref.Subject, ref.Version)
	if err != nil {
		return err
	}

	node := &Node{
		Name:       ref.Name,
		Subject:    reg.Subject,
		Version:    reg.Version,
		ID:         reg.ID,
		Content:    reg.Schema,
		References: reg.References,
	}

	state.mu.Lock()
	state.nodes[ref.Name] = node
	state.mu.Unlock()

	childAncestry := make([]string, 0, len(ancestry)+1)
	childAncestry = append(childAncestry, ancestry...)
	childAncestry = append(childAncestry, key)
	for _, child := range node.References {
		child := child
		g.Go(func() error {
			return r.walk(ctx, g, state, child, childAncestry)
		})
	}
	return nil
}

// fetchRoot resolves the root version, treating 0 as latest
func (r *Retriever) fetchRoot(ctx context.Context, subject string, version int) (*registry.RegisteredSchema, error) {
	if version == 0 {
		if err := r.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer r.sem.Release(1)
		return r.client.GetLatestVersion(ctx, subject)
	}
	return r.fetch(ctx, subject, version)
}

// fetch retrieves one pinned version, deduplicating concurrent fetches
// of the same identity.
func (r *Retriever) fetch(ctx context.Context, subject string, version int) (*registry.RegisteredSchema, error) {
	value, err, _ := r.flight.Do(identity(subject, version), func() (interface{}, error) {
		if err := r.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer r.sem.Release(1)
		return r.client.GetByVersion(ctx, subject, version)
	})
	if err != nil {
		return nil, err
	}
	return value.(*registry.RegisteredSchema), nil
}

// detectCycle walks the retrieved reference graph by identity and
// returns the first cycle found, scanning nodes and edges in sorted
// order so the result does not depend on retrieval interleaving.
func detectCycle(nodes map[string]*Node) *CyclicReferenceError {
	adjacency := make(map[string][]string, len(nodes))
	for _, node := range nodes {
		id := identity(node.Subject, node.Version)
		edges := make([]string, 0, len(node.References))
		for _, ref := range node.References {
			edges = append(edges, identity(ref.Subject, ref.Version))
		}
		sort.Strings(edges)
		adjacency[id] = edges
	}

	ids := make([]string, 0, len(adjacency))
	for id := range adjacency {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int, len(adjacency))

	var path []string
	var visit func(id string) *CyclicReferenceError
	visit = func(id string) *CyclicReferenceError {
		state[id] = visiting
		path = append(path, id)

		for _, next := range adjacency[id] {
			switch state[next] {
			case visiting:
				for i, ancestor := range path {
					if ancestor == next {
						chain := make([]string, 0, len(path)-i+1)
						chain = append(chain, path[i:]...)
						chain = append(chain, next)
						return &CyclicReferenceError{Chain: chain}
					}
				}
			case done:
			default:
				if _, ok := adjacency[next]; !ok {
					continue
				}
				if cycle := visit(next); cycle != nil {
					return cycle
				}
			}
		}

		path = path[:len(path)-1]
		state[id] = done
		return nil
	}

	for _, id := range ids {
		if state[id] != 0 {
			continue
		}
		if cycle := visit(id); cycle != nil {
			return cycle
		}
	}
	return nil
}

// identity is the retrieval key for one pinned schema version
func identity(subject string, version int) string {
	return subject + "@" + strconv.Itoa(version)
}

// fileNameForSubject derives the root schema's file name, the inverse
// of the conventional subject derivation for import paths
// ("shared.types" -> "shared/types.proto").
func fileNameForSubject(subject string) string {
	return strings.ReplaceAll(subject, ".", "/") + ".proto"
}
