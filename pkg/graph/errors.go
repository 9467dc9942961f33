package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrInvalidMode        = errors.New("invalid neighbour mode")
	ErrNodeOutOfRange     = errors.New("node index out of range")
	ErrEdgeOutOfRange     = errors.New("edge index out of range")
	ErrEmptyNeighbourhood = errors.New("no neighbours in requested direction")
	ErrNegativeWeight     = errors.New("negative edge weight in weighted selection")
	ErrInvalidPartition   = errors.New("membership is not a dense community labelling")
	ErrAttributeLength    = errors.New("attribute length does not match graph")
	ErrInvalidAttribute   = errors.New("invalid attribute value")
)

// GraphError provides structured error information for graph operations.
type GraphError struct {
	Op      string // Operation that failed (e.g., "Degree", "Collapse")
	Entity  string // Entity type (e.g., "node", "edge", "partition")
	ID      int    // Entity index, -1 when not applicable
	Context string // Additional context
	Cause   error  // Underlying error
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.ID >= 0 {
		if e.Context != "" {
			return fmt.Sprintf("%s %s %d (%s): %v", e.Op, e.Entity, e.ID, e.Context, e.Cause)
		}
		return fmt.Sprintf("%s %s %d: %v", e.Op, e.Entity, e.ID, e.Cause)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Entity, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error's cause.
func (e *GraphError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// ErrorBuilder provides a fluent interface for building GraphErrors.
type ErrorBuilder struct {
	err GraphError
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: GraphError{Op: op, ID: -1}}
}

// Node sets the entity to "node" with the given index.
func (b *ErrorBuilder) Node(v int) *ErrorBuilder {
	b.err.Entity = "node"
	b.err.ID = v
	return b
}

// Edge sets the entity to "edge" with the given index.
func (b *ErrorBuilder) Edge(e int) *ErrorBuilder {
	b.err.Entity = "edge"
	b.err.ID = e
	return b
}

// Entity sets a free-form entity name without an index.
func (b *ErrorBuilder) Entity(name string) *ErrorBuilder {
	b.err.Entity = name
	return b
}

// Context sets additional context information.
func (b *ErrorBuilder) Context(format string, args ...any) *ErrorBuilder {
	b.err.Context = fmt.Sprintf(format, args...)
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Build returns the constructed GraphError.
func (b *ErrorBuilder) Build() *GraphError {
	return &b.err
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return &b.err
}

// invalidModeError reports a mode outside the set accepted by op.
func invalidModeError(op string, v int, mode Mode) error {
	return NewError(op).Node(v).Context("mode %s", mode).Cause(ErrInvalidMode).Err()
}

// IsInvalidMode returns true for caller errors in the mode argument.
func IsInvalidMode(err error) bool {
	return errors.Is(err, ErrInvalidMode)
}

// IsEmptyNeighbourhood returns true when a random selection had nothing to select from.
// Optimizers usually branch on this instead of treating it as fatal.
func IsEmptyNeighbourhood(err error) bool {
	return errors.Is(err, ErrEmptyNeighbourhood)
}
