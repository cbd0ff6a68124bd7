package ir

import (
	"cmp"
	"fmt"
	"iter"
	"maps"
	"slices"
	"sync/atomic"
)

// Use is a reverse edge: User holds the node at User.Inputs()[Index].
type Use struct {
	User  *Node
	Index int
}

// nodeSeq numbers nodes in creation order.
var nodeSeq atomic.Uint64

// Node is a vertex of the ANF graph. See the package documentation for the
// meaning of each Kind.
type Node struct {
	// Value is the literal of a constant, TagParameter or TagReturn for
	// parameters and returns, and nil for applications.
	Value any

	// Debug holds open metadata such as a name or source location.
	Debug Debug

	kind   Kind
	seq    uint64
	graph  *Graph
	inputs *Inputs
	uses   map[Use]struct{}
}

func newNode(kind Kind, value any, g *Graph) *Node {
	n := &Node{
		Value: value,
		Debug: make(Debug),
		kind:  kind,
		seq:   nodeSeq.Add(1),
		graph: g,
	}
	n.inputs = &Inputs{owner: n}
	return n
}

// NewConstant creates a constant holding value. Constants belong to no graph.
func NewConstant(value any) *Node {
	return newNode(KindConstant, value, nil)
}

// NewParameter creates a parameter bound to g. It is not added to g's
// parameter list; see Graph.AddParameter.
func NewParameter(g *Graph) *Node {
	return newNode(KindParameter, TagParameter, g)
}

// NewApply creates the application of callee to args in graph g.
// Nil inputs are a caller bug and panic.
func NewApply(g *Graph, callee *Node, args ...*Node) *Node {
	n := newNode(KindApply, nil, g)
	n.mustExtend(append([]*Node{callee}, args...))
	return n
}

// NewReturn creates a return node for g with value as its only input.
// It is not installed as g's return; see Graph.SetReturn.
func NewReturn(g *Graph, value *Node) *Node {
	n := newNode(KindReturn, TagReturn, g)
	n.mustExtend([]*Node{value})
	return n
}

func (n *Node) mustExtend(nodes []*Node) {
	if err := n.inputs.Extend(nodes...); err != nil {
		panic(fmt.Errorf("new %s: %w", n.kind, err))
	}
}

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// Graph returns the graph the node belongs to, or nil for constants.
func (n *Node) Graph() *Graph { return n.graph }

// Inputs returns the node's input list.
func (n *Node) Inputs() *Inputs { return n.inputs }

// IsApply reports whether n is an application.
func (n *Node) IsApply() bool { return n.kind == KindApply }

// IsParameter reports whether n is a parameter.
func (n *Node) IsParameter() bool { return n.kind == KindParameter }

// IsReturn reports whether n is a return node.
func (n *Node) IsReturn() bool { return n.kind == KindReturn }

// IsConstant reports whether n is a constant.
func (n *Node) IsConstant() bool { return n.kind == KindConstant }

// IsConstantGraph reports whether n is a constant holding a graph.
func (n *Node) IsConstantGraph() bool {
	_, ok := n.Value.(*Graph)
	return n.kind == KindConstant && ok
}

// SetInputs replaces the whole input list with nodes. The old inputs lose
// their reverse edges before the new ones are added.
func (n *Node) SetInputs(nodes ...*Node) error {
	if slices.Contains(nodes, nil) {
		return ErrNilNode
	}
	n.inputs.Clear()
	return n.inputs.Extend(nodes...)
}

func (n *Node) addUse(user *Node, index int) {
	if n.uses == nil {
		n.uses = make(map[Use]struct{})
	}
	n.uses[Use{User: user, Index: index}] = struct{}{}
}

func (n *Node) removeUse(user *Node, index int) {
	delete(n.uses, Use{User: user, Index: index})
}

// HasUse reports whether user holds n at input position index.
func (n *Node) HasUse(user *Node, index int) bool {
	_, ok := n.uses[Use{User: user, Index: index}]
	return ok
}

// NumUses returns the number of reverse edges.
func (n *Node) NumUses() int {
	return len(n.uses)
}

// Uses iterates over the reverse edges in no particular order.
// The graph must not be modified during iteration; use UseList for a
// snapshot.
func (n *Node) Uses() iter.Seq[Use] {
	return maps.Keys(n.uses)
}

// UseList returns a snapshot of the reverse edges ordered by user creation
// order, then by index.
func (n *Node) UseList() []Use {
	uses := slices.Collect(maps.Keys(n.uses))
	slices.SortFunc(uses, func(a, b Use) int {
		if c := cmp.Compare(a.User.seq, b.User.seq); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})
	return uses
}

// Incoming iterates over the node's inputs.
func (n *Node) Incoming() iter.Seq[*Node] {
	return n.inputs.Values()
}

// Outgoing iterates over the distinct nodes using n, in creation order.
func (n *Node) Outgoing() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		var last *Node
		for _, u := range n.UseList() {
			if u.User == last {
				continue
			}
			last = u.User
			if !yield(u.User) {
				return
			}
		}
	}
}

// Replace substitutes other for n everywhere in the graph.
//
// other takes over n's inputs (its own previous inputs are dropped), n's
// inputs are cleared, and every use of n is rewired to other at the same
// position. Afterwards n has no inputs and no uses and must not be treated as
// part of the graph.
func (n *Node) Replace(other *Node) error {
	if other == nil {
		return ErrNilNode
	}
	if other == n {
		return ErrSelfReplace
	}
	if err := other.SetInputs(n.inputs.Slice()...); err != nil {
		return err
	}
	n.inputs.Clear()
	// Set removes entries from n.uses; iterate over a snapshot.
	for _, u := range n.UseList() {
		if err := u.User.inputs.Set(u.Index, other); err != nil {
			return fmt.Errorf("replace %s: rewire use %d of %s: %w", n, u.Index, u.User, err)
		}
	}
	return nil
}

// Clone returns a new node with the same kind, value, graph and inputs.
// The clone has fresh reverse edges to its inputs, no uses and an empty debug
// map.
func (n *Node) Clone() *Node {
	c := newNode(n.kind, n.Value, n.graph)
	c.mustExtend(n.inputs.data)
	return c
}

// String returns a short description for diagnostics, using the debug name
// when one is set.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if name := n.Debug.Name(); name != "" {
		return name
	}
	switch n.kind {
	case KindConstant:
		return fmt.Sprintf("const(%v)", n.Value)
	default:
		return fmt.Sprintf("%s#%d", n.kind, n.seq)
	}
}
