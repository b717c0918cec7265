package graph

import (
	"context"

	"github.com/platinummonkey/protoreg/pkg/observability"
	"github.com/platinummonkey/protoreg/pkg/registry"
	"github.com/platinummonkey/protoreg/pkg/schema"
)

// SubjectLookup consults the registry for an import with no local
// source. A schema.NotFoundError (or registry not-found) means the
// import is not registered either and the build fails.
type SubjectLookup interface {
	Lookup(ctx context.Context, importID string) (*Stub, error)
}

// Builder assembles a dependency graph by recursively loading every
// schema transitively reachable from the roots, each exactly once.
type Builder struct {
	// Resolver maps import identifiers to local source locations
	Resolver schema.Resolver

	// Registry resolves imports with no local source to existing
	// registrations (stub policy). Optional; when nil every import
	// must resolve locally.
	Registry SubjectLookup
}

// NewBuilder creates a graph builder over the given resolver
func NewBuilder(resolver schema.Resolver, registry SubjectLookup) *Builder {
	return &Builder{
		Resolver: resolver,
		Registry: registry,
	}
}

// Build loads the transitive import closure of the given root
// identifiers into a graph. Resolution precedence per import: a local
// file found by the resolver always wins; otherwise an existing
// registry subject becomes a stub node; otherwise the import is
// unresolved.
func (b *Builder) Build(ctx context.Context, roots ...string) (*Graph, error) {
	g := New()
	logger := observability.FromContext(ctx)

	type pending struct {
		id   string
		from string
	}

	queue := make([]pending, 0, len(roots))
	for _, root := range roots {
		queue = append(queue, pending{id: root, from: root})
	}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next := queue[0]
		queue = queue[1:]

		if g.Node(next.id) != nil {
			continue
		}

		node, err := b.load(ctx, next.id, next.from)
		if err != nil {
			return nil, err
		}
		g.AddNode(node)

		logger.WithFields(map[string]interface{}{
			"path": node.Path,
			"stub": node.IsStub(),
			"deps": len(node.Deps),
		}).Debug("loaded schema node")

		for _, dep := range node.Deps {
			queue = append(queue, pending{id: dep, from: node.Path})
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// load resolves one import identifier into a node: local source first,
// registry stub second.
func (b *Builder) load(ctx context.Context, id, from string) (*Node, error) {
	diskPath, err := b.Resolver.Resolve(id, from)
	if err == nil {
		src, err := schema.Load(diskPath, id)
		if err != nil {
			return nil, err
		}
		return &Node{
			Path:   id,
			Source: src,
			Deps:   src.Imports,
		}, nil
	}
	if !schema.IsNotFound(err) {
		return nil, err
	}

	if b.Registry != nil {
		stub, lookupErr := b.Registry.Lookup(ctx, id)
		switch {
		case lookupErr == nil:
			return &Node{
				Path: id,
				Stub: stub,
			}, nil
		case !registry.IsNotFound(lookupErr):
			// Transport failures and the like are not "unresolved"
			return nil, lookupErr
		}
	}

	return nil, &UnresolvedImportError{Import: id, From: from}
}
