package ir

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
)

// EdgeError describes a place where a node's inputs and uses disagree.
type EdgeError struct {
	Node    *Node
	Index   int // input or use position, -1 when not positional
	Message string
}

// Error implements the error interface.
func (e EdgeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("node %s, position %d: %s", e.Node, e.Index, e.Message)
	}
	return fmt.Sprintf("node %s: %s", e.Node, e.Message)
}

// edgeVerifier collects edge inconsistencies.
type edgeVerifier struct {
	errors []EdgeError
}

// succAll follows inputs, uses, the graphs held by constants, and the
// parameters and return node of each node's graph.
func succAll(n *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for m := range SuccDeep(n) {
			if m != nil && !yield(m) {
				return
			}
		}
		for u := range n.uses {
			if u.User != nil && !yield(u.User) {
				return
			}
		}
		if g := n.graph; g != nil {
			if g.ret != nil && !yield(g.ret) {
				return
			}
			for _, p := range g.parameters {
				if !yield(p) {
					return
				}
			}
		}
	}
}

// VerifyEdges checks that inputs and uses mirror each other on every node
// connected to roots, in either direction. It returns nil when they do.
//
// Only edge bookkeeping is checked. Arity, return counts and reachability are
// the concern of the IR's clients.
func VerifyEdges(roots ...*Node) []EdgeError {
	v := &edgeVerifier{}
	seen := make(map[*Node]struct{})
	for _, root := range roots {
		if root == nil {
			continue
		}
		for n := range Walk(root, succAll) {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			v.verifyNode(n)
		}
	}
	if len(v.errors) == 0 {
		return nil
	}
	slices.SortStableFunc(v.errors, func(a, b EdgeError) int {
		if c := cmp.Compare(a.Node.seq, b.Node.seq); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})
	return v.errors
}

// VerifyGraph checks the edges of everything connected to g's parameters and
// return node.
func VerifyGraph(g *Graph) []EdgeError {
	roots := g.Parameters()
	if g.ret != nil {
		roots = append(roots, g.ret)
	}
	return VerifyEdges(roots...)
}

func (v *edgeVerifier) verifyNode(n *Node) {
	for i, m := range n.inputs.data {
		if m == nil {
			v.addError(n, i, "nil input")
			continue
		}
		if !m.HasUse(n, i) {
			v.addError(n, i, fmt.Sprintf("input %s does not record this use", m))
		}
	}
	for u := range n.uses {
		if u.User == nil {
			v.addError(n, u.Index, "use without a user")
			continue
		}
		data := u.User.inputs.data
		if u.Index < 0 || u.Index >= len(data) {
			v.addError(n, u.Index, fmt.Sprintf("use by %s is past its %d inputs", u.User, len(data)))
			continue
		}
		if data[u.Index] != n {
			v.addError(n, u.Index, fmt.Sprintf("stale use: %s holds %s there", u.User, data[u.Index]))
		}
	}
}

func (v *edgeVerifier) addError(n *Node, index int, msg string) {
	v.errors = append(v.errors, EdgeError{Node: n, Index: index, Message: msg})
}
