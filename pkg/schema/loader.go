package schema

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Source is a loaded schema file: its logical path (the identifier other
// schemas import it by), raw content, and declared imports in
// declaration order with duplicates removed.
type Source struct {
	Path    string
	Raw     string
	Imports []string
}

// importRegex matches a complete protobuf import statement, including
// the optional public/weak modifier.
var importRegex = regexp.MustCompile(`import\s+(?:(?:public|weak)\s+)?"([^"]+)"\s*;`)

// importLineRegex matches any line that begins an import declaration,
// used to detect malformed statements the full pattern rejects.
var importLineRegex = regexp.MustCompile(`(?m)^\s*import\b[^\n]*`)

// Load reads the schema file at diskPath and extracts its declared
// imports. logicalPath is the identity recorded on the returned Source.
func Load(diskPath, logicalPath string) (*Source, error) {
	content, err := os.ReadFile(diskPath)
	if err != nil {
		return nil, &NotFoundError{Path: diskPath, Err: err}
	}

	imports, err := ExtractImports(logicalPath, string(content))
	if err != nil {
		return nil, err
	}

	return &Source{
		Path:    logicalPath,
		Raw:     string(content),
		Imports: imports,
	}, nil
}

// ExtractImports scans protobuf source text for import statements and
// returns the imported identifiers in declaration order, duplicates
// removed. Comments are ignored; a line that starts an import statement
// but does not complete one is a ParseError.
func ExtractImports(path, content string) ([]string, error) {
	stripped := StripComments(content)

	for _, line := range importLineRegex.FindAllString(stripped, -1) {
		if !importRegex.MatchString(line) {
			return nil, &ParseError{
				Path:    path,
				Message: "malformed import statement: " + strings.TrimSpace(line),
			}
		}
	}

	matches := importRegex.FindAllStringSubmatch(stripped, -1)
	imports := make([]string, 0, len(matches))
	seen := make(map[string]bool)
	for _, match := range matches {
		imp := match[1]
		if !seen[imp] {
			seen[imp] = true
			imports = append(imports, imp)
		}
	}

	return imports, nil
}

// Resolver maps an import identifier to a readable source location
type Resolver interface {
	// Resolve returns the on-disk path for importID, declared from
	// fromPath. A NotFoundError means no local source exists.
	Resolve(importID, fromPath string) (string, error)
}

// DirResolver resolves imports against an ordered list of include
// directories; the first directory containing the file wins.
type DirResolver struct {
	Dirs []string
}

// NewDirResolver creates a resolver over the given include directories
func NewDirResolver(dirs ...string) *DirResolver {
	return &DirResolver{Dirs: dirs}
}

// Resolve implements Resolver
func (r *DirResolver) Resolve(importID, fromPath string) (string, error) {
	for _, dir := range r.Dirs {
		candidate := filepath.Join(dir, filepath.FromSlash(importID))
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", &NotFoundError{Path: importID, Err: os.ErrNotExist}
}
