package ir

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// sameNode compares nodes by identity.
var sameNode = cmp.Comparer(func(a, b *Node) bool { return a == b })

// checkEdges fails the test for every edge inconsistency reachable from roots.
func checkEdges(t *testing.T, roots ...*Node) {
	t.Helper()
	for _, e := range VerifyEdges(roots...) {
		t.Errorf("edge error: %s", e.Error())
	}
}

// wantInputs compares n's inputs with want by identity.
func wantInputs(t *testing.T, n *Node, want ...*Node) {
	t.Helper()
	if diff := cmp.Diff(want, n.Inputs().Slice(), sameNode); diff != "" {
		t.Errorf("inputs of %s mismatch (-want +got):\n%s", n, diff)
	}
}

// wantUses compares n's use list with want, which must be in UseList order.
func wantUses(t *testing.T, n *Node, want ...Use) {
	t.Helper()
	got := n.UseList()
	if len(want) == 0 && len(got) == 0 {
		return
	}
	if diff := cmp.Diff(want, got, sameNode); diff != "" {
		t.Errorf("uses of %s mismatch (-want +got):\n%s", n, diff)
	}
}

// params creates a graph with count parameters named p0, p1, ...
func params(count int) (*Graph, []*Node) {
	g := NewGraph()
	g.Debug.SetName("g")
	ps := make([]*Node, count)
	for i := range ps {
		ps[i] = g.AddParameter()
		ps[i].Debug.SetName("p" + string(rune('0'+i)))
	}
	return g, ps
}
