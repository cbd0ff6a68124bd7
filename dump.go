package anf

import (
	"fmt"
	"strings"

	"github.com/gogpu/anf/fixture"
	"github.com/gogpu/anf/ir"
)

// Dump returns a textual listing of every graph in p. Each graph's
// applications are listed after the applications they use, ending with the
// return node. Nodes no longer reachable from a return are not shown.
//
// Example:
//
//	graph f(f.x, f.y)
//	  f.a = add(f.x, f.y)
//	  return f.a
func Dump(p *fixture.Program) string {
	var sb strings.Builder
	for _, g := range p.Graphs() {
		dumpGraph(&sb, g)
	}
	return sb.String()
}

func dumpGraph(sb *strings.Builder, g *ir.Graph) {
	params := g.Parameters()
	names := make([]string, len(params))
	for i, prm := range params {
		names[i] = operand(prm)
	}
	fmt.Fprintf(sb, "graph %s(%s)\n", g, strings.Join(names, ", "))

	ret := g.Return()
	if ret == nil {
		sb.WriteString("  (no return)\n")
		return
	}
	var order []*ir.Node
	seen := make(map[*ir.Node]bool)
	var visit func(n *ir.Node)
	visit = func(n *ir.Node) {
		if n == nil || seen[n] || !n.IsApply() || n.Graph() != g {
			return
		}
		seen[n] = true
		for _, in := range n.Inputs().All() {
			visit(in)
		}
		order = append(order, n)
	}
	for _, in := range ret.Inputs().All() {
		visit(in)
	}

	for _, n := range order {
		in := n.Inputs().Slice()
		if len(in) == 0 {
			fmt.Fprintf(sb, "  %s = ()\n", n)
			continue
		}
		fmt.Fprintf(sb, "  %s = %s(%s)\n", n, operand(in[0]), operands(in[1:]))
	}
	fmt.Fprintf(sb, "  return %s\n", operands(ret.Inputs().Slice()))
}

func operands(ns []*ir.Node) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = operand(n)
	}
	return strings.Join(parts, ", ")
}

// operand formats a reference to n as it appears in an input list.
func operand(n *ir.Node) string {
	if n == nil || !n.IsConstant() {
		return n.String()
	}
	switch v := n.Value.(type) {
	case nil:
		return "null"
	case ir.Primitive:
		return string(v)
	case *ir.Graph:
		return "@" + v.String()
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprint(v)
	}
}
