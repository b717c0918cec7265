package graph

import (
	"fmt"
	"strings"
)

// UnresolvedImportError reports an import that resolves to neither a
// local source nor an already-registered subject.
type UnresolvedImportError struct {
	Import string
	From   string
}

func (e *UnresolvedImportError) Error() string {
	return fmt.Sprintf("unresolved import %q declared in %s", e.Import, e.From)
}

// CycleError reports a dependency cycle. Cycle is the ordered list of
// logical paths returning to its start (first element repeated last).
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic dependency: %s", strings.Join(e.Cycle, " -> "))
}
