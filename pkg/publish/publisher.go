package publish

import (
	"context"
	"fmt"

	"github.com/platinummonkey/protoreg/pkg/graph"
	"github.com/platinummonkey/protoreg/pkg/observability"
	"github.com/platinummonkey/protoreg/pkg/registry"
	"github.com/platinummonkey/protoreg/pkg/schema"
)

// Record is the durable outcome of publishing one graph node. It is
// created once, never mutated, and serves as the reference descriptor
// for every dependent published after it.
type Record struct {
	// Path is the node's logical path
	Path string

	// Subject is the registry subject the schema lives under
	Subject string

	// Version is the registered version number
	Version int

	// ID is the registry-assigned global schema id
	ID int

	// Fingerprint is the content fingerprint of the registered version
	Fingerprint string

	// Reused is true when an existing identical version was kept
	// instead of registering a new one
	Reused bool

	// Stub is true for external dependencies that were never published
	// by this run
	Stub bool
}

// Publisher registers a sequenced dependency graph with the registry,
// strictly in order, reusing existing identical versions.
type Publisher struct {
	client        registry.Client
	canonicalizer schema.Canonicalizer
	subjectFor    SubjectFunc
}

// NewPublisher creates a publisher over the given registry client,
// canonicalizer, and subject mapping.
func NewPublisher(client registry.Client, canonicalizer schema.Canonicalizer, subjectFor SubjectFunc) *Publisher {
	return &Publisher{
		client:        client,
		canonicalizer: canonicalizer,
		subjectFor:    subjectFor,
	}
}

// Publish processes the sequenced order one node at a time. Each node's
// reference list is built from the records of its already-published
// dependencies, so the ordering invariant from the sequencer is a
// correctness requirement, not an optimization. Returns the records in
// publish order.
//
// A registry rejection aborts the remaining sequence; registrations
// already acknowledged stay durable, and a re-run converges thanks to
// idempotent re-publication.
func (p *Publisher) Publish(ctx context.Context, g *graph.Graph, order []string) ([]*Record, error) {
	logger := observability.FromContext(ctx)

	records := make(map[string]*Record, len(order))
	results := make([]*Record, 0, len(order))

	for _, path := range order {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		node := g.Node(path)
		if node == nil {
			return results, fmt.Errorf("sequenced path %s missing from graph", path)
		}

		record, err := p.publishNode(ctx, node, records)
		if err != nil {
			return results, err
		}

		records[path] = record
		results = append(results, record)

		logger.WithFields(map[string]interface{}{
			"path":    record.Path,
			"subject": record.Subject,
			"version": record.Version,
			"id":      record.ID,
			"reused":  record.Reused,
			"stub":    record.Stub,
		}).Info("published schema")
	}

	return results, nil
}

// publishNode publishes a single node: stubs carry their existing
// registration forward; local sources are canonicalized, compared
// against the latest registered version, and registered only when the
// content or reference set differs.
func (p *Publisher) publishNode(ctx context.Context, node *graph.Node, records map[string]*Record) (*Record, error) {
	if node.IsStub() {
		return &Record{
			Path:    node.Path,
			Subject: node.Stub.Subject,
			Version: node.Stub.Version,
			ID:      node.Stub.ID,
			Stub:    true,
		}, nil
	}

	subject, err := p.subjectFor(node)
	if err != nil {
		return nil, err
	}

	canonical, err := p.canonicalizer.Canonicalize(node.Path, node.Source.Raw)
	if err != nil {
		return nil, err
	}

	references, err := buildReferences(node, records)
	if err != nil {
		return nil, err
	}

	fingerprint := schema.Fingerprint(canonical, references)

	latest, err := p.client.GetLatestVersion(ctx, subject)
	switch {
	case err == nil:
		if schema.Fingerprint(latest.Schema, latest.References) == fingerprint {
			return &Record{
				Path:        node.Path,
				Subject:     subject,
				Version:     latest.Version,
				ID:          latest.ID,
				Fingerprint: fingerprint,
				Reused:      true,
			}, nil
		}
	case registry.IsNotFound(err):
		// First version for this subject
	default:
		return nil, err
	}

	version, id, err := p.client.Register(ctx, subject, canonical, p.canonicalizer.Format(), references)
	if err != nil {
		return nil, err
	}

	return &Record{
		Path:        node.Path,
		Subject:     subject,
		Version:     version,
		ID:          id,
		Fingerprint: fingerprint,
	}, nil
}

// buildReferences assembles the node's reference descriptors from its
// dependencies' publish records. Every dependency has already been
// processed by the ordering invariant.
func buildReferences(node *graph.Node, records map[string]*Record) ([]registry.Reference, error) {
	if len(node.Deps) == 0 {
		return nil, nil
	}

	references := make([]registry.Reference, 0, len(node.Deps))
	for _, dep := range node.Deps {
		record, ok := records[dep]
		if !ok {
			return nil, fmt.Errorf("dependency %s of %s has no publish record; sequencing broken", dep, node.Path)
		}
		references = append(references, registry.Reference{
			Name:    dep,
			Subject: record.Subject,
			Version: record.Version,
		})
	}
	return references, nil
}
