package schema

import (
	"regexp"
	"strings"

	"github.com/bufbuild/protocompile/parser"
	"github.com/bufbuild/protocompile/reporter"

	"github.com/platinummonkey/protoreg/pkg/registry"
)

// Canonicalizer transforms raw schema text into a stable canonical form
// used for content comparison and fingerprinting. Canonicalization is
// idempotent; two inputs differing only in comments (with stripping
// enabled) or insignificant whitespace canonicalize identically.
type Canonicalizer interface {
	// Format identifies the schema format this canonicalizer handles
	Format() registry.SchemaType

	// Canonicalize returns the canonical text for raw, or a
	// CanonicalizationError if the input is structurally broken.
	Canonicalize(path, raw string) (string, error)
}

// ProtoCanonicalizer canonicalizes protobuf schema text
type ProtoCanonicalizer struct {
	// StripComments removes comments from the canonical form
	StripComments bool
}

// Format implements Canonicalizer
func (c *ProtoCanonicalizer) Format() registry.SchemaType {
	return registry.SchemaTypeProtobuf
}

// Canonicalize validates the structure of the schema, optionally strips
// comments, and normalizes whitespace. Validation is a parse, not a
// compile: imports are not resolved and no semantic checks run; the
// registry owns those.
func (c *ProtoCanonicalizer) Canonicalize(path, raw string) (string, error) {
	handler := reporter.NewHandler(nil)
	if _, err := parser.Parse(path, strings.NewReader(raw), handler); err != nil {
		return "", &CanonicalizationError{Path: path, Err: err}
	}

	text := raw
	if c.StripComments {
		text = StripComments(text)
	}

	return normalizeWhitespace(text), nil
}

// normalizeWhitespace produces a stable textual layout: LF line endings,
// internal whitespace runs collapsed outside string literals, lines
// trimmed, blank lines dropped, single trailing newline.
func normalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		normalized := strings.TrimSpace(collapseSpaces(line))
		if normalized == "" {
			continue
		}
		out = append(out, normalized)
	}

	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}

// collapseSpaces reduces runs of spaces and tabs to a single space,
// leaving string literals untouched.
func collapseSpaces(line string) string {
	var sb strings.Builder
	sb.Grow(len(line))

	inString := false
	var quote byte
	lastSpace := false

	for i := 0; i < len(line); i++ {
		c := line[i]

		if inString {
			sb.WriteByte(c)
			if c == '\\' && i+1 < len(line) {
				i++
				sb.WriteByte(line[i])
				continue
			}
			if c == quote {
				inString = false
			}
			continue
		}

		switch {
		case c == '"' || c == '\'':
			inString = true
			quote = c
			lastSpace = false
			sb.WriteByte(c)
		case c == ' ' || c == '\t':
			if !lastSpace {
				sb.WriteByte(' ')
				lastSpace = true
			}
		default:
			lastSpace = false
			sb.WriteByte(c)
		}
	}

	return sb.String()
}

var (
	packageRegex = regexp.MustCompile(`(?m)^\s*package\s+([A-Za-z_][A-Za-z0-9_.]*)\s*;`)
	messageRegex = regexp.MustCompile(`(?m)^\s*message\s+([A-Za-z_][A-Za-z0-9_]*)\s*\{`)
)

// RecordName derives the fully qualified name of the first top-level
// message in the schema, package-prefixed when a package is declared.
// This is the default subject for schemas referenced by other schemas.
func RecordName(path, content string) (string, error) {
	stripped := StripComments(content)

	msg := messageRegex.FindStringSubmatch(stripped)
	if msg == nil {
		return "", &ParseError{Path: path, Message: "no top-level message found"}
	}

	if pkg := packageRegex.FindStringSubmatch(stripped); pkg != nil {
		return pkg[1] + "." + msg[1], nil
	}
	return msg[1], nil
}
