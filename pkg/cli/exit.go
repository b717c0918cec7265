package cli

import (
	"errors"

	"github.com/platinummonkey/protoreg/pkg/graph"
	"github.com/platinummonkey/protoreg/pkg/registry"
	"github.com/platinummonkey/protoreg/pkg/retrieve"
	"github.com/platinummonkey/protoreg/pkg/schema"
)

// UsageError reports invalid invocation (bad flags, missing arguments)
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// Exit codes, one per failure kind
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitInput       = 3
	ExitNotFound    = 4
	ExitUnresolved  = 5
	ExitCycle       = 6
	ExitRejected    = 7
	ExitUnavailable = 8
)

// ExitCode maps an error to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		usage        *UsageError
		parse        *schema.ParseError
		canonical    *schema.CanonicalizationError
		unresolved   *graph.UnresolvedImportError
		cycle        *graph.CycleError
		cyclicRef    *retrieve.CyclicReferenceError
		notFoundFile *schema.NotFoundError
	)

	switch {
	case errors.As(err, &usage):
		return ExitUsage
	case errors.As(err, &parse), errors.As(err, &canonical), errors.As(err, &notFoundFile):
		return ExitInput
	case errors.As(err, &unresolved):
		return ExitUnresolved
	case errors.As(err, &cycle), errors.As(err, &cyclicRef):
		return ExitCycle
	case registry.IsNotFound(err):
		return ExitNotFound
	case registry.IsRejected(err):
		return ExitRejected
	case registry.IsUnavailable(err):
		return ExitUnavailable
	default:
		return ExitFailure
	}
}
