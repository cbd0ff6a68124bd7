package ir

import "fmt"

// Kind identifies the variant of a Node.
type Kind uint8

const (
	KindApply     Kind = iota // Function application
	KindParameter             // Graph parameter
	KindReturn                // Graph result
	KindConstant              // Literal value
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindApply:
		return "apply"
	case KindParameter:
		return "parameter"
	case KindReturn:
		return "return"
	case KindConstant:
		return "constant"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Named is a sentinel value identified by its name.
// Two Named values are equal when their names are.
type Named struct {
	name string
}

// NewNamed creates a sentinel with the given name.
func NewNamed(name string) Named {
	return Named{name: name}
}

// String returns the sentinel name.
func (n Named) String() string {
	return n.name
}

// Reserved node values. Parameter and Return nodes have no literal value;
// they carry these tags so that code inspecting Value alone can tell them
// apart from constants.
var (
	TagParameter = NewNamed("PARAMETER")
	TagReturn    = NewNamed("RETURN")
)

// Primitive is an opaque primitive operation tag stored in a constant.
// The IR gives it no meaning.
type Primitive string

// String returns the primitive name.
func (p Primitive) String() string {
	return string(p)
}

// Debug holds open metadata attached to nodes and graphs, such as names and
// source locations. Values are opaque to the IR.
type Debug map[string]any

// debugName is the conventional key for a human-readable name.
const debugName = "name"

// Name returns the "name" entry when it is a string.
func (d Debug) Name() string {
	s, _ := d[debugName].(string)
	return s
}

// SetName sets the "name" entry. d must be non-nil.
func (d Debug) SetName(name string) {
	d[debugName] = name
}
