package retrieve

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Materialize writes every retrieved schema under dir, one file per
// node name. Reference names double as import paths, so the written
// tree is mutually consistent and can be republished as-is.
func (r *Result) Materialize(dir string) error {
	names := make([]string, 0, len(r.Nodes))
	for name := range r.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		node := r.Nodes[name]
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", name, err)
		}
		if err := os.WriteFile(path, []byte(node.Content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}
