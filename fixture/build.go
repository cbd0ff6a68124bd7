package fixture

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/anf/internal/ctxlog"
	"github.com/gogpu/anf/ir"
)

// Errors reported while building a fixture.
var (
	ErrUnknownName = errors.New("unknown name")
	ErrDuplicate   = errors.New("duplicate name")
	ErrCycle       = errors.New("body nodes reference each other in a cycle")
	ErrLiteral     = errors.New("unsupported literal")
)

// returnName is the reserved local name of a graph's return node.
const returnName = "return"

// Program is the IR built from a fixture. Nodes are addressed by qualified
// names of the form "graph.local"; a graph's return node is "graph.return".
type Program struct {
	graphs map[string]*ir.Graph
	order  []*ir.Graph
	nodes  map[string]*ir.Node
	scope  map[string]string // qualified name -> graph name
	pool   *ir.ConstantPool

	// build state
	defs     map[string]*BodyDef
	visiting map[string]bool
}

// Build constructs the graphs described by f. Edits are not applied.
func Build(ctx context.Context, f *File) (*Program, error) {
	logger := ctxlog.FromContext(ctx)
	p := &Program{
		graphs:   make(map[string]*ir.Graph, len(f.Graphs)),
		nodes:    make(map[string]*ir.Node),
		scope:    make(map[string]string),
		pool:     ir.NewConstantPool(),
		defs:     make(map[string]*BodyDef),
		visiting: make(map[string]bool),
	}
	defer func() {
		p.defs, p.visiting = nil, nil
	}()

	// Graphs and parameters first, so bodies may refer to any of them.
	for _, gd := range f.Graphs {
		if _, dup := p.graphs[gd.Name]; dup {
			return nil, &Error{Pos: gd.Pos, Msg: "graph " + gd.Name, Err: ErrDuplicate}
		}
		g := ir.NewGraph()
		g.Debug.SetName(gd.Name)
		g.Debug["pos"] = gd.Pos
		p.graphs[gd.Name] = g
		p.order = append(p.order, g)

		for _, name := range gd.Parameters {
			if !validName(name) || name == returnName {
				return nil, &Error{Pos: gd.Pos, Msg: fmt.Sprintf("bad parameter name %q", name), Err: errBadName}
			}
			q, err := p.declare(gd.Name, name, gd.Pos)
			if err != nil {
				return nil, err
			}
			prm := g.AddParameter()
			prm.Debug.SetName(q)
			p.nodes[q] = prm
		}
		for _, bd := range gd.Body {
			if bd.Name == returnName {
				return nil, &Error{Pos: bd.Pos, Msg: "body node named " + returnName, Err: errBadName}
			}
			q, err := p.declare(gd.Name, bd.Name, bd.Pos)
			if err != nil {
				return nil, err
			}
			p.defs[q] = bd
		}
	}

	for _, gd := range f.Graphs {
		for _, bd := range gd.Body {
			if _, err := p.buildBody(gd.Name + "." + bd.Name); err != nil {
				return nil, err
			}
		}
	}

	for _, gd := range f.Graphs {
		if gd.Return == nil {
			logger.Debug("graph has no return", "graph", gd.Name)
			continue
		}
		g := p.graphs[gd.Name]
		v, err := p.resolve(gd.Name, gd.Return)
		if err != nil {
			return nil, err
		}
		r := ir.NewReturn(g, v)
		q := gd.Name + "." + returnName
		r.Debug.SetName(q)
		if err := g.SetReturn(r); err != nil {
			return nil, &Error{Pos: posOf(gd.Return), Msg: "return of " + gd.Name, Err: err}
		}
		p.nodes[q] = r
		p.scope[q] = gd.Name
	}

	logger.Debug("fixture built",
		"graphs", len(p.order),
		"nodes", len(p.nodes),
		"constants", p.pool.Count())
	return p, nil
}

// declare registers a qualified name for a parameter or body node.
func (p *Program) declare(graph, local string, pos Pos) (string, error) {
	q := graph + "." + local
	if _, dup := p.scope[q]; dup {
		return "", &Error{Pos: pos, Msg: q, Err: ErrDuplicate}
	}
	p.scope[q] = graph
	return q, nil
}

// buildBody creates the application named q, building the body nodes it
// refers to first.
func (p *Program) buildBody(q string) (*ir.Node, error) {
	if n, ok := p.nodes[q]; ok {
		return n, nil
	}
	bd, ok := p.defs[q]
	if !ok {
		return nil, fmt.Errorf("%s: %w", q, ErrUnknownName)
	}
	if p.visiting[q] {
		return nil, &Error{Pos: bd.Pos, Msg: q, Err: ErrCycle}
	}
	p.visiting[q] = true
	defer delete(p.visiting, q)

	graph := p.scope[q]
	items := make([]*ir.Node, len(bd.Items))
	for i, item := range bd.Items {
		n, err := p.resolve(graph, item)
		if err != nil {
			return nil, err
		}
		items[i] = n
	}
	a := ir.NewApply(p.graphs[graph], items[0], items[1:]...)
	a.Debug.SetName(q)
	a.Debug["pos"] = bd.Pos
	p.nodes[q] = a
	return a, nil
}

// resolve turns a reference into a node, as seen from graph scope.
func (p *Program) resolve(scope string, n *yaml.Node) (*ir.Node, error) {
	if name, ok := strings.CutPrefix(n.Value, "@"); ok {
		g, ok := p.graphs[name]
		if !ok {
			return nil, errorAt(n, "graph "+name, ErrUnknownName)
		}
		return p.pool.GetOrCreate(g), nil
	}
	if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		return p.pool.GetOrCreate(n.Value), nil
	}

	switch n.ShortTag() {
	case "!!null":
		return p.pool.GetOrCreate(nil), nil
	case "!!bool":
		var v bool
		if err := n.Decode(&v); err != nil {
			return nil, errorAt(n, "bool", err)
		}
		return p.pool.GetOrCreate(v), nil
	case "!!int":
		var v int64
		if err := n.Decode(&v); err != nil {
			return nil, errorAt(n, "int", err)
		}
		return p.pool.GetOrCreate(v), nil
	case "!!float":
		var v float64
		if err := n.Decode(&v); err != nil {
			return nil, errorAt(n, "float", err)
		}
		return p.pool.GetOrCreate(v), nil
	case "!!str":
	default:
		return nil, errorAt(n, n.ShortTag(), ErrLiteral)
	}

	if graph, local, ok := strings.Cut(n.Value, "."); ok {
		if _, known := p.graphs[graph]; !known {
			return nil, errorAt(n, "graph "+graph, ErrUnknownName)
		}
		node, err := p.lookup(graph + "." + local)
		if err != nil {
			return nil, errorAt(n, n.Value, err)
		}
		return node, nil
	}
	if scope != "" {
		q := scope + "." + n.Value
		if _, declared := p.scope[q]; declared {
			node, err := p.lookup(q)
			if err != nil {
				return nil, errorAt(n, n.Value, err)
			}
			return node, nil
		}
	}
	return p.pool.GetOrCreate(ir.Primitive(n.Value)), nil
}

func (p *Program) lookup(q string) (*ir.Node, error) {
	if n, ok := p.nodes[q]; ok {
		return n, nil
	}
	if p.defs != nil {
		return p.buildBody(q)
	}
	return nil, fmt.Errorf("%s: %w", q, ErrUnknownName)
}

// Graph returns the graph with the given name.
func (p *Program) Graph(name string) (*ir.Graph, bool) {
	g, ok := p.graphs[name]
	return g, ok
}

// Graphs returns the graphs in fixture order.
func (p *Program) Graphs() []*ir.Graph {
	return p.order
}

// Node returns the node with the given qualified name. After a replace edit
// the name still refers to the replaced, now detached, node.
func (p *Program) Node(qualified string) (*ir.Node, bool) {
	n, ok := p.nodes[qualified]
	return n, ok
}

// Pool returns the constant pool shared by all graphs of the program.
func (p *Program) Pool() *ir.ConstantPool {
	return p.pool
}

// Roots returns the parameters and return node of every graph, the entry
// points for walking the whole program.
func (p *Program) Roots() []*ir.Node {
	var roots []*ir.Node
	for _, g := range p.order {
		roots = append(roots, g.Parameters()...)
		if r := g.Return(); r != nil {
			roots = append(roots, r)
		}
	}
	return roots
}
