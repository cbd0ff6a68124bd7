package ir

import (
	"iter"
	"slices"
)

// SuccFunc returns the successors of a node during a walk.
type SuccFunc func(*Node) iter.Seq[*Node]

// SuccIncoming follows input edges.
func SuccIncoming(n *Node) iter.Seq[*Node] {
	return n.Incoming()
}

// SuccOutgoing follows use edges.
func SuccOutgoing(n *Node) iter.Seq[*Node] {
	return n.Outgoing()
}

// SuccDeep follows input edges and also enters the graphs held by constants,
// through their return nodes.
func SuccDeep(n *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for in := range n.Incoming() {
			if !yield(in) {
				return
			}
		}
		if g, ok := n.Value.(*Graph); ok && n.kind == KindConstant && g.ret != nil {
			yield(g.ret)
		}
	}
}

// Walk visits every node reachable from root through succ, depth first, in
// pre-order. Each node is visited once, so cyclic graphs terminate.
// The graph must not be modified during the walk.
func Walk(root *Node, succ SuccFunc) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if root == nil {
			return
		}
		seen := make(map[*Node]struct{})
		stack := []*Node{root}
		var next []*Node
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			if !yield(n) {
				return
			}
			next = append(next[:0], slices.Collect(succ(n))...)
			for i := len(next) - 1; i >= 0; i-- {
				if _, ok := seen[next[i]]; !ok {
					stack = append(stack, next[i])
				}
			}
		}
	}
}

// Nodes iterates over the nodes reachable from g's return node through
// inputs. Nodes of other graphs used as free variables are included.
func (g *Graph) Nodes() iter.Seq[*Node] {
	return Walk(g.ret, SuccIncoming)
}

// UnusedParameters returns the parameters of g that are not reachable from
// its return node.
func (g *Graph) UnusedParameters() []*Node {
	reached := make(map[*Node]struct{})
	for n := range g.Nodes() {
		if n.kind == KindParameter {
			reached[n] = struct{}{}
		}
	}
	var unused []*Node
	for _, p := range g.parameters {
		if _, ok := reached[p]; !ok {
			unused = append(unused, p)
		}
	}
	return unused
}
