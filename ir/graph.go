package ir

import (
	"fmt"
	"slices"
)

// Graph is a function graph.
//
// Parameters that cannot be reached by walking from the return node are
// unused but valid. A graph has no return node until one is set, typically
// once the front end has finished translating the function body.
type Graph struct {
	// Debug holds open metadata such as the function name.
	Debug Debug

	parameters []*Node
	ret        *Node
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{Debug: make(Debug)}
}

// Parameters returns a copy of the parameter list.
func (g *Graph) Parameters() []*Node {
	return slices.Clone(g.parameters)
}

// NumParameters returns the number of parameters.
func (g *Graph) NumParameters() int {
	return len(g.parameters)
}

// AddParameter creates a parameter of g and appends it to the parameter list.
func (g *Graph) AddParameter() *Node {
	p := NewParameter(g)
	g.parameters = append(g.parameters, p)
	return p
}

// AppendParameter appends an existing parameter of g.
func (g *Graph) AppendParameter(p *Node) error {
	if err := g.checkOwn(p, KindParameter, ErrNotParameter); err != nil {
		return err
	}
	g.parameters = append(g.parameters, p)
	return nil
}

// RemoveParameter removes p from the parameter list and reports whether it
// was present. Uses of p are left untouched.
func (g *Graph) RemoveParameter(p *Node) bool {
	i := slices.Index(g.parameters, p)
	if i < 0 {
		return false
	}
	g.parameters = slices.Delete(g.parameters, i, i+1)
	return true
}

// Return returns the return node, or nil when none has been set.
func (g *Graph) Return() *Node {
	return g.ret
}

// SetReturn installs r as the return node of g. A nil r unsets it.
func (g *Graph) SetReturn(r *Node) error {
	if r == nil {
		g.ret = nil
		return nil
	}
	if err := g.checkOwn(r, KindReturn, ErrNotReturn); err != nil {
		return err
	}
	g.ret = r
	return nil
}

// Output returns the value returned by g, or nil when no return node is set
// or the return node has no input.
func (g *Graph) Output() *Node {
	if g.ret == nil || g.ret.inputs.Len() == 0 {
		return nil
	}
	return g.ret.inputs.data[0]
}

func (g *Graph) checkOwn(n *Node, kind Kind, kindErr error) error {
	if n == nil {
		return ErrNilNode
	}
	if n.kind != kind {
		return fmt.Errorf("%w: %s", kindErr, n)
	}
	if n.graph != g {
		return fmt.Errorf("%w: %s", ErrForeignNode, n)
	}
	return nil
}

// String returns the graph's debug name, or an anonymous placeholder.
func (g *Graph) String() string {
	if name := g.Debug.Name(); name != "" {
		return name
	}
	return fmt.Sprintf("graph(%p)", g)
}
