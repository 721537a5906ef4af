package kb

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the few kb operations that can fail.
// Spreading activation, scoring, and lookups never fail — these only
// surface from RemoveFactStrict, RevealFactStrict, and AddAssociation /
// AddBidirectionalAssociation's self-edge check.
var (
	// ErrFactNotFound is returned when an operation references a FactID
	// that is not present in the graph.
	ErrFactNotFound = errors.New("kb: fact not found")

	// ErrAssociationInvalid is returned when an association cannot be
	// constructed (e.g. from and to refer to the same tag).
	ErrAssociationInvalid = errors.New("kb: invalid association")
)

// GraphError wraps an error with the operation that produced it.
type GraphError struct {
	Op  string
	Err error
}

func (e *GraphError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("kb: %v", e.Err)
	}
	return fmt.Sprintf("kb: %s: %v", e.Op, e.Err)
}

func (e *GraphError) Unwrap() error { return e.Err }

func (e *GraphError) Is(target error) bool { return errors.Is(e.Err, target) }

func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &GraphError{Op: op, Err: err}
}
