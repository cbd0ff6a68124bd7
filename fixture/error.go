package fixture

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Pos is a position in the fixture source.
type Pos struct {
	Line   int
	Column int
}

// String returns "line:column".
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

func posOf(n *yaml.Node) Pos {
	return Pos{Line: n.Line, Column: n.Column}
}

// Error is a fixture problem tied to a source position.
type Error struct {
	Pos Pos
	Msg string
	Err error // underlying cause, may be nil
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fixture %s: %s: %v", e.Pos, e.Msg, e.Err)
	}
	return fmt.Sprintf("fixture %s: %s", e.Pos, e.Msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func errorAt(n *yaml.Node, msg string, err error) *Error {
	return &Error{Pos: posOf(n), Msg: msg, Err: err}
}
