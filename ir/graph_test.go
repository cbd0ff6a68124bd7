package ir

import (
	"errors"
	"testing"
)

func TestGraph_Parameters(t *testing.T) {
	g := NewGraph()
	x := g.AddParameter()
	y := g.AddParameter()

	ps := g.Parameters()
	if len(ps) != 2 || ps[0] != x || ps[1] != y {
		t.Fatalf("Expected [x y], got %v", ps)
	}
	ps[0] = y
	if g.Parameters()[0] != x {
		t.Error("Modifying Parameters result changed the graph")
	}
	if x.Graph() != g || x.Kind() != KindParameter {
		t.Errorf("AddParameter built %s in %v", x.Kind(), x.Graph())
	}

	z := NewParameter(g)
	if g.NumParameters() != 2 {
		t.Errorf("NewParameter must not register the parameter, got %d", g.NumParameters())
	}
	if err := g.AppendParameter(z); err != nil {
		t.Fatalf("AppendParameter failed: %v", err)
	}
	if g.NumParameters() != 3 {
		t.Errorf("Expected 3 parameters, got %d", g.NumParameters())
	}

	if !g.RemoveParameter(x) {
		t.Error("Expected RemoveParameter(x) to report true")
	}
	if g.RemoveParameter(x) {
		t.Error("Expected second RemoveParameter(x) to report false")
	}
	ps = g.Parameters()
	if len(ps) != 2 || ps[0] != y || ps[1] != z {
		t.Errorf("Expected [y z], got %v", ps)
	}
}

func TestGraph_AppendParameterErrors(t *testing.T) {
	g := NewGraph()
	other := NewGraph()

	tests := []struct {
		name string
		node *Node
		want error
	}{
		{"nil", nil, ErrNilNode},
		{"constant", NewConstant(1), ErrNotParameter},
		{"foreign", NewParameter(other), ErrForeignNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AppendParameter(tt.node); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
	if g.NumParameters() != 0 {
		t.Errorf("Expected no parameters, got %d", g.NumParameters())
	}
}

func TestGraph_Return(t *testing.T) {
	g := NewGraph()
	if g.Return() != nil || g.Output() != nil {
		t.Fatal("New graph must have no return")
	}
	x := g.AddParameter()
	r := NewReturn(g, x)
	if g.Return() != nil {
		t.Error("NewReturn must not install the return")
	}
	if err := g.SetReturn(r); err != nil {
		t.Fatalf("SetReturn failed: %v", err)
	}
	if g.Return() != r || g.Output() != x {
		t.Errorf("Expected return %s with output x, got %s / %s", r, g.Return(), g.Output())
	}

	if err := g.SetReturn(x); !errors.Is(err, ErrNotReturn) {
		t.Errorf("Expected ErrNotReturn, got %v", err)
	}
	if err := g.SetReturn(NewReturn(NewGraph(), x)); !errors.Is(err, ErrForeignNode) {
		t.Errorf("Expected ErrForeignNode, got %v", err)
	}
	if g.Return() != r {
		t.Error("Failed SetReturn changed the return")
	}

	if err := g.SetReturn(nil); err != nil {
		t.Fatalf("SetReturn(nil) failed: %v", err)
	}
	if g.Return() != nil {
		t.Error("Expected return to be unset")
	}
}

func TestGraph_OutputOfClearedReturn(t *testing.T) {
	g := NewGraph()
	r := NewReturn(g, g.AddParameter())
	if err := g.SetReturn(r); err != nil {
		t.Fatalf("SetReturn failed: %v", err)
	}
	r.Inputs().Clear()
	if g.Output() != nil {
		t.Errorf("Expected nil output, got %s", g.Output())
	}
}

func TestGraph_Debug(t *testing.T) {
	g := NewGraph()
	if got := g.String(); got == "" {
		t.Error("Expected placeholder string for anonymous graph")
	}
	g.Debug.SetName("main")
	g.Debug["line"] = 12
	if g.String() != "main" {
		t.Errorf("Expected main, got %s", g.String())
	}
	if g.Debug["line"] != 12 {
		t.Errorf("Expected debug line 12, got %v", g.Debug["line"])
	}

	var d Debug
	if d.Name() != "" {
		t.Error("Expected empty name from nil Debug")
	}
}
