package publish

import (
	"context"
	"fmt"
	"strings"

	"github.com/platinummonkey/protoreg/pkg/graph"
	"github.com/platinummonkey/protoreg/pkg/registry"
	"github.com/platinummonkey/protoreg/pkg/schema"
)

// SubjectStrategy determines the registry subject for the root schema.
// Exactly one of Topic or Record must be set, or both for the
// topic-record form.
type SubjectStrategy struct {
	// Topic names the messaging topic the schema is attached to
	Topic string

	// Record names the schema family directly
	Record string

	// Key marks the schema as the topic's key schema rather than its
	// value schema (only meaningful with Topic)
	Key bool
}

// Subject derives the subject name:
//
//	topic only:          <topic>-value or <topic>-key
//	record only:         <record>
//	topic and record:    <topic>-<record>
func (s SubjectStrategy) Subject() (string, error) {
	switch {
	case s.Topic != "" && s.Record != "":
		return s.Topic + "-" + s.Record, nil
	case s.Topic != "":
		if s.Key {
			return s.Topic + "-key", nil
		}
		return s.Topic + "-value", nil
	case s.Record != "":
		return s.Record, nil
	default:
		return "", fmt.Errorf("either a topic or a record name is required")
	}
}

// SubjectFunc maps a graph node to its target registry subject
type SubjectFunc func(node *graph.Node) (string, error)

// RecordNameSubjects returns a SubjectFunc that uses explicit overrides
// where given (the root schema's strategy-derived subject) and otherwise
// derives the subject from the schema's package and first message name.
func RecordNameSubjects(overrides map[string]string) SubjectFunc {
	return func(node *graph.Node) (string, error) {
		if subject, ok := overrides[node.Path]; ok {
			return subject, nil
		}
		return schema.RecordName(node.Path, node.Source.Raw)
	}
}

// SubjectFromImport derives the conventional subject for an import path
// with no local source: the path with its extension stripped and
// separators mapped to dots ("shared/types.proto" -> "shared.types").
func SubjectFromImport(importID string) string {
	subject := strings.TrimSuffix(importID, ".proto")
	return strings.ReplaceAll(subject, "/", ".")
}

// RecordSubjectFromImport derives the record-name subject candidate for
// an import path: directories become the package and the snake_case
// base name becomes the UpperCamelCase message name
// ("shared/types.proto" -> "shared.Types", "user_profile.proto" ->
// "UserProfile"). This is the subject the publisher itself registers a
// dependency under when its file follows protobuf naming conventions.
func RecordSubjectFromImport(importID string) string {
	trimmed := strings.TrimSuffix(importID, ".proto")

	pkg := ""
	base := trimmed
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		pkg = strings.ReplaceAll(trimmed[:idx], "/", ".")
		base = trimmed[idx+1:]
	}

	message := upperCamel(base)
	if pkg == "" {
		return message
	}
	return pkg + "." + message
}

// upperCamel converts a snake_case name to UpperCamelCase
func upperCamel(s string) string {
	var b strings.Builder
	for _, part := range strings.Split(s, "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// registryLookup resolves imports against existing registry subjects
type registryLookup struct {
	client registry.Client
}

// NewSubjectLookup creates the stub-policy lookup used by the graph
// builder: an import with no local source is resolved to the latest
// version of a conventionally named subject. The path-derived subject
// is tried first, then the record-name subject the publisher registers
// dependencies under, so schemas this tool published resolve as stubs.
func NewSubjectLookup(client registry.Client) graph.SubjectLookup {
	return &registryLookup{client: client}
}

// Lookup implements graph.SubjectLookup
func (l *registryLookup) Lookup(ctx context.Context, importID string) (*graph.Stub, error) {
	candidates := []string{SubjectFromImport(importID)}
	if record := RecordSubjectFromImport(importID); record != candidates[0] {
		candidates = append(candidates, record)
	}

	var lastErr error
	for _, subject := range candidates {
		reg, err := l.client.GetLatestVersion(ctx, subject)
		switch {
		case err == nil:
			return &graph.Stub{
				Subject: subject,
				Version: reg.Version,
				ID:      reg.ID,
			}, nil
		case registry.IsNotFound(err):
			lastErr = err
		default:
			return nil, err
		}
	}
	return nil, lastErr
}
