package fixture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/anf/ir"
)

func load(t *testing.T, name string) (*File, *Program) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	f, err := Parse(data)
	require.NoError(t, err)
	p, err := Build(context.Background(), f)
	require.NoError(t, err)
	return f, p
}

func node(t *testing.T, p *Program, q string) *ir.Node {
	t.Helper()
	n, ok := p.Node(q)
	require.True(t, ok, "node %s", q)
	return n
}

func TestBuild_Nested(t *testing.T) {
	_, p := load(t, "nested.yaml")

	outer, ok := p.Graph("outer")
	require.True(t, ok)
	inner, ok := p.Graph("inner")
	require.True(t, ok)
	require.Len(t, p.Graphs(), 2)
	assert.Equal(t, "outer", outer.String())

	call := node(t, p, "outer.call")
	x := node(t, p, "outer.x")
	require.Equal(t, 3, call.Inputs().Len())

	callee := call.Inputs().At(0)
	assert.True(t, callee.IsConstantGraph())
	assert.Same(t, inner, callee.Value)
	assert.Same(t, x, call.Inputs().At(1))
	assert.Equal(t, int64(2), call.Inputs().At(2).Value)

	m := node(t, p, "inner.m")
	assert.Equal(t, ir.Primitive("mul"), m.Inputs().At(0).Value)
	assert.Same(t, x, m.Inputs().At(2), "free variable resolves to outer's parameter")
	assert.Same(t, inner, m.Graph())

	assert.True(t, x.HasUse(call, 1))
	assert.True(t, x.HasUse(m, 2))
	assert.Same(t, call, outer.Output())
	assert.Same(t, node(t, p, "outer.return"), outer.Return())

	unused := outer.UnusedParameters()
	require.Len(t, unused, 1)
	assert.Same(t, node(t, p, "outer.unused"), unused[0])

	assert.Empty(t, ir.VerifyEdges(p.Roots()...))
}

func TestBuild_SharesConstants(t *testing.T) {
	f, err := Parse([]byte(`
graphs:
  f:
    parameters: [x]
    body:
      a: [add, x, 1]
      b: [add, a, 1]
    return: b
`))
	require.NoError(t, err)
	p, err := Build(context.Background(), f)
	require.NoError(t, err)

	a, b := node(t, p, "f.a"), node(t, p, "f.b")
	assert.Same(t, a.Inputs().At(0), b.Inputs().At(0))
	assert.Same(t, a.Inputs().At(2), b.Inputs().At(2))
	assert.Equal(t, 2, p.Pool().Count())
}

func TestBuild_Literals(t *testing.T) {
	f, err := Parse([]byte(`
graphs:
  f:
    body:
      a: [tuple, 1, 2.5, true, null, "x", 'add', "@f"]
    return: a
`))
	require.NoError(t, err)
	p, err := Build(context.Background(), f)
	require.NoError(t, err)

	g, _ := p.Graph("f")
	a := node(t, p, "f.a")
	want := []any{ir.Primitive("tuple"), int64(1), 2.5, true, nil, "x", "add", g}
	require.Equal(t, len(want), a.Inputs().Len())
	for i, w := range want {
		in := a.Inputs().At(i)
		assert.True(t, in.IsConstant(), "input %d", i)
		assert.Equal(t, w, in.Value, "input %d", i)
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown graph constant", `
graphs:
  f:
    body:
      a: [g, "@nope"]
`, ErrUnknownName},
		{"unknown free variable graph", `
graphs:
  f:
    body:
      a: [g, nope.x]
`, ErrUnknownName},
		{"unknown free variable", `
graphs:
  f:
    parameters: [x]
  g:
    body:
      a: [h, f.y]
`, ErrUnknownName},
		{"duplicate", `
graphs:
  f:
    parameters: [x]
    body:
      x: [g]
`, ErrDuplicate},
		{"reserved return name", `
graphs:
  f:
    parameters: [return]
`, errBadName},
		{"cycle", `
graphs:
  f:
    parameters: [x]
    body:
      a: [add, b, x]
      b: [add, a, x]
    return: a
`, ErrCycle},
		{"bad literal", `
graphs:
  f:
    body:
      a: [g, 2001-12-14]
`, ErrLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.src))
			require.NoError(t, err)
			_, err = Build(context.Background(), f)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var fe *Error
			require.True(t, errors.As(err, &fe))
			assert.Positive(t, fe.Pos.Line)
		})
	}
}

func TestBuild_CycleFromFile(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "cycle.yaml"))
	require.NoError(t, err)
	f, err := Parse(data)
	require.NoError(t, err)
	_, err = Build(context.Background(), f)
	assert.ErrorIs(t, err, ErrCycle)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"invalid yaml", "graphs: [\n"},
		{"graphs not a mapping", "graphs: [f]\n"},
		{"body not a mapping", "graphs:\n  f:\n    body: [a]\n"},
		{"empty application", "graphs:\n  f:\n    body:\n      a: []\n"},
		{"nested input", "graphs:\n  f:\n    body:\n      a: [g, [x]]\n"},
		{"dotted graph name", "graphs:\n  f.g: {}\n"},
		{"return not scalar", "graphs:\n  f:\n    return: [a]\n"},
		{"unknown op", "edits:\n  - {op: swap, node: f.a}\n"},
		{"missing node", "edits:\n  - {op: clear}\n"},
		{"missing index", "edits:\n  - {op: delete, node: f.a}\n"},
		{"missing input", "edits:\n  - {op: append, node: f.a}\n"},
		{"missing with", "edits:\n  - {op: replace, node: f.a}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestApply_Script(t *testing.T) {
	f, p := load(t, "edits.yaml")
	require.Len(t, f.Edits, 5)

	ctx := context.Background()
	for _, e := range f.Edits {
		require.NoError(t, p.Apply(ctx, e), e.String())
		require.Empty(t, ir.VerifyEdges(p.Roots()...), "after %s", e)
	}

	a, b, c := node(t, p, "f.a"), node(t, p, "f.b"), node(t, p, "f.c")
	x, y := node(t, p, "f.x"), node(t, p, "f.y")

	assert.Zero(t, a.Inputs().Len())
	assert.Zero(t, a.NumUses())
	require.Equal(t, 4, b.Inputs().Len())
	assert.Same(t, c, b.Inputs().At(1))
	assert.Equal(t, int64(3), b.Inputs().At(2).Value)
	assert.Equal(t, "label", b.Inputs().At(3).Value)
	assert.Zero(t, x.NumUses())
	assert.Equal(t, []ir.Use{{User: c, Index: 1}, {User: c, Index: 2}}, y.UseList())
	assert.Empty(t, ir.VerifyEdges(a))
}

func TestApply_Errors(t *testing.T) {
	_, p := load(t, "edits.yaml")
	ctx := context.Background()

	e := &Edit{Op: OpClear, Node: "f.nope"}
	assert.ErrorIs(t, p.Apply(ctx, e), ErrUnknownName)

	f, err := Parse([]byte(`
edits:
  - {op: delete, node: f.a, index: 7}
  - {op: replace, node: f.a, with: a}
  - {op: set, node: f.a, index: 0, input: nope.x}
`))
	require.NoError(t, err)
	assert.ErrorIs(t, p.Apply(ctx, f.Edits[0]), ir.ErrIndexOutOfRange)
	assert.ErrorIs(t, p.Apply(ctx, f.Edits[1]), ir.ErrSelfReplace)
	assert.ErrorIs(t, p.Apply(ctx, f.Edits[2]), ErrUnknownName)

	a := node(t, p, "f.a")
	assert.Equal(t, 3, a.Inputs().Len(), "failed edits leave the node unchanged")
	assert.Empty(t, ir.VerifyEdges(p.Roots()...))
}

func TestEdit_String(t *testing.T) {
	f, err := Parse([]byte(`
edits:
  - {op: set, node: f.a, index: 1, input: x}
  - {op: insert, node: f.a, index: 0, input: x}
  - {op: delete, node: f.a, index: 2}
  - {op: append, node: f.a, input: y}
  - {op: clear, node: f.a}
  - {op: replace, node: f.a, with: f.b}
`))
	require.NoError(t, err)

	want := []string{
		"set f.a[1] = x",
		"insert f.a[0] = x",
		"delete f.a[2]",
		"append f.a += y",
		"clear f.a",
		"replace f.a with f.b",
	}
	require.Len(t, f.Edits, len(want))
	for i, e := range f.Edits {
		assert.Equal(t, want[i], e.String())
		assert.Equal(t, i+3, e.Pos.Line)
	}
}
