// Package fixture builds ANF graphs from a small YAML description and
// applies scripted edits to them.
//
// A fixture lists graphs by name. Each graph has parameters, an ordered body
// of applications and a return value:
//
//	graphs:
//	  f:
//	    parameters: [x, y]
//	    body:
//	      a: [add, x, y]        # callee first, then arguments
//	    return: a
//	edits:
//	  - {op: delete, node: f.a, index: 1}
//
// References in bodies, returns and edits resolve as follows:
//   - name: a parameter or body node of the current graph
//   - graph.name: a parameter or body node of another graph (a free variable)
//   - "@graph": a constant holding that graph
//   - any other bare word: a constant holding ir.Primitive(word)
//   - numbers, booleans, null and quoted strings: literal constants
//
// Fixtures exist to drive the IR's construction and mutation interfaces from
// tests and tools; they are not a source language.
package fixture

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is a parsed fixture.
type File struct {
	Graphs []*GraphDef
	Edits  []*Edit
}

// GraphDef describes one graph.
type GraphDef struct {
	Name       string
	Parameters []string
	Body       []*BodyDef
	Return     *yaml.Node // nil when the graph has no return
	Pos        Pos
}

// BodyDef describes one application in a graph body.
type BodyDef struct {
	Name  string
	Items []*yaml.Node // callee, then arguments
	Pos   Pos
}

// Op is an edit operation.
type Op string

// Edit operations.
const (
	OpSet     Op = "set"
	OpInsert  Op = "insert"
	OpDelete  Op = "delete"
	OpAppend  Op = "append"
	OpClear   Op = "clear"
	OpReplace Op = "replace"
)

// Edit is one scripted mutation.
type Edit struct {
	Op    Op
	Node  string     // qualified name of the edited node
	Index int        // input position for set, insert and delete
	Input *yaml.Node // new input for set, insert and append
	With  *yaml.Node // replacement for replace
	Pos   Pos
}

// String returns a compact description of the edit for logs.
func (e *Edit) String() string {
	switch e.Op {
	case OpSet, OpInsert:
		return fmt.Sprintf("%s %s[%d] = %s", e.Op, e.Node, e.Index, e.Input.Value)
	case OpDelete:
		return fmt.Sprintf("%s %s[%d]", e.Op, e.Node, e.Index)
	case OpAppend:
		return fmt.Sprintf("%s %s += %s", e.Op, e.Node, e.Input.Value)
	case OpReplace:
		return fmt.Sprintf("%s %s with %s", e.Op, e.Node, e.With.Value)
	default:
		return fmt.Sprintf("%s %s", e.Op, e.Node)
	}
}

type rawGraph struct {
	Parameters []string  `yaml:"parameters"`
	Body       yaml.Node `yaml:"body"`
	Return     yaml.Node `yaml:"return"`
}

type rawEdit struct {
	Op    Op        `yaml:"op"`
	Node  string    `yaml:"node"`
	Index *int      `yaml:"index"`
	Input yaml.Node `yaml:"input"`
	With  yaml.Node `yaml:"with"`
}

type rawFile struct {
	Graphs yaml.Node   `yaml:"graphs"`
	Edits  []yaml.Node `yaml:"edits"`
}

// Parse decodes a fixture. It checks the document's shape; names are resolved
// by Build.
func Parse(data []byte) (*File, error) {
	var raw rawFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}

	f := &File{}
	if raw.Graphs.Kind != 0 {
		if raw.Graphs.Kind != yaml.MappingNode {
			return nil, errorAt(&raw.Graphs, "graphs must be a mapping", nil)
		}
		for i := 0; i+1 < len(raw.Graphs.Content); i += 2 {
			gd, err := parseGraph(raw.Graphs.Content[i], raw.Graphs.Content[i+1])
			if err != nil {
				return nil, err
			}
			f.Graphs = append(f.Graphs, gd)
		}
	}
	for i := range raw.Edits {
		e, err := parseEdit(&raw.Edits[i])
		if err != nil {
			return nil, err
		}
		f.Edits = append(f.Edits, e)
	}
	return f, nil
}

func parseGraph(key, value *yaml.Node) (*GraphDef, error) {
	if err := checkName(key); err != nil {
		return nil, err
	}
	var rg rawGraph
	if err := value.Decode(&rg); err != nil {
		return nil, errorAt(value, "graph "+key.Value, err)
	}
	gd := &GraphDef{Name: key.Value, Parameters: rg.Parameters, Pos: posOf(key)}

	if rg.Body.Kind != 0 {
		if rg.Body.Kind != yaml.MappingNode {
			return nil, errorAt(&rg.Body, "body of "+gd.Name+" must be a mapping", nil)
		}
		for i := 0; i+1 < len(rg.Body.Content); i += 2 {
			k, v := rg.Body.Content[i], rg.Body.Content[i+1]
			if err := checkName(k); err != nil {
				return nil, err
			}
			if v.Kind != yaml.SequenceNode || len(v.Content) == 0 {
				return nil, errorAt(v, gd.Name+"."+k.Value+" must be a non-empty list", nil)
			}
			for _, item := range v.Content {
				if item.Kind != yaml.ScalarNode {
					return nil, errorAt(item, "inputs must be scalars", nil)
				}
			}
			gd.Body = append(gd.Body, &BodyDef{Name: k.Value, Items: v.Content, Pos: posOf(k)})
		}
	}

	if rg.Return.Kind != 0 {
		if rg.Return.Kind != yaml.ScalarNode {
			return nil, errorAt(&rg.Return, "return of "+gd.Name+" must be a scalar", nil)
		}
		ret := rg.Return
		gd.Return = &ret
	}
	return gd, nil
}

func parseEdit(n *yaml.Node) (*Edit, error) {
	var re rawEdit
	if err := n.Decode(&re); err != nil {
		return nil, errorAt(n, "edit", err)
	}
	e := &Edit{Op: re.Op, Node: re.Node, Pos: posOf(n)}
	if e.Node == "" {
		return nil, errorAt(n, "edit needs a node", nil)
	}

	needIndex, needInput := false, false
	switch e.Op {
	case OpSet, OpInsert:
		needIndex, needInput = true, true
	case OpDelete:
		needIndex = true
	case OpAppend:
		needInput = true
	case OpClear:
	case OpReplace:
		if re.With.Kind != yaml.ScalarNode {
			return nil, errorAt(n, "replace needs a scalar with", nil)
		}
		with := re.With
		e.With = &with
	default:
		return nil, errorAt(n, fmt.Sprintf("unknown op %q", e.Op), nil)
	}
	if needIndex {
		if re.Index == nil {
			return nil, errorAt(n, string(e.Op)+" needs an index", nil)
		}
		e.Index = *re.Index
	}
	if needInput {
		if re.Input.Kind != yaml.ScalarNode {
			return nil, errorAt(n, string(e.Op)+" needs a scalar input", nil)
		}
		input := re.Input
		e.Input = &input
	}
	return e, nil
}

var errBadName = errors.New("names must be non-empty plain words without '.' or '@'")

// checkName rejects names that would be ambiguous as references.
func checkName(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" || !validName(n.Value) {
		return errorAt(n, fmt.Sprintf("bad name %q", n.Value), errBadName)
	}
	return nil
}

func validName(s string) bool {
	return s != "" && s[0] != '@' && !strings.ContainsRune(s, '.')
}
