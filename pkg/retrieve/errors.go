package retrieve

import (
	"errors"
	"fmt"
	"strings"
)

// CyclicReferenceError indicates that a schema's reference chain leads
// back to a version already being retrieved. Chain lists the
// subject@version identities along the path, first entry repeated last.
type CyclicReferenceError struct {
	Chain []string
}

func (e *CyclicReferenceError) Error() string {
	return fmt.Sprintf("cyclic reference chain: %s", strings.Join(e.Chain, " -> "))
}

// IsCyclicReference reports whether err is a CyclicReferenceError
func IsCyclicReference(err error) bool {
	var cyclic *CyclicReferenceError
	return errors.As(err, &cyclic)
}
