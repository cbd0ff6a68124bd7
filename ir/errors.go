package ir

import (
	"errors"
	"fmt"
)

// Errors returned by IR mutation and construction.
var (
	// ErrIndexOutOfRange reports positional access outside an input list.
	ErrIndexOutOfRange = errors.New("ir: input index out of range")

	// ErrUnsupported reports a ranged (slice-style) edit of an input list.
	// Ranged edits are rejected rather than approximated.
	ErrUnsupported = fmt.Errorf("ir: ranged input edit: %w", errors.ErrUnsupported)

	// ErrSelfReplace reports an attempt to replace a node with itself.
	ErrSelfReplace = errors.New("ir: node cannot replace itself")

	// ErrNilNode reports a nil node where a node is required.
	ErrNilNode = errors.New("ir: nil node")

	// ErrNotParameter reports a non-parameter node given as a parameter.
	ErrNotParameter = errors.New("ir: node is not a parameter")

	// ErrNotReturn reports a non-return node given as a return node.
	ErrNotReturn = errors.New("ir: node is not a return")

	// ErrForeignNode reports a node that belongs to a different graph.
	ErrForeignNode = errors.New("ir: node belongs to another graph")
)

// IndexError describes an out-of-range position in an input list.
type IndexError struct {
	Op    string
	Index int
	Len   int
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("ir: %s: index %d out of range for %d inputs", e.Op, e.Index, e.Len)
}

// Unwrap lets errors.Is match ErrIndexOutOfRange.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
