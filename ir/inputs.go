package ir

import (
	"iter"
	"slices"
	"strings"
)

// Inputs is the ordered input list of one node.
//
// Every slot i holding node M is mirrored by Use{owner, i} in M's use set.
// Structural edits renumber the uses of every element after the edit point,
// one remove-then-add per element, in an order that never records two
// elements at the same position.
type Inputs struct {
	owner *Node
	data  []*Node
}

// Len returns the number of inputs.
func (in *Inputs) Len() int {
	return len(in.data)
}

// Owner returns the node these inputs belong to.
func (in *Inputs) Owner() *Node {
	return in.owner
}

// position normalizes i, counting negative values from the end, and checks
// that it addresses an existing slot.
func (in *Inputs) position(op string, i int) (int, error) {
	n := len(in.data)
	j := i
	if j < 0 {
		j += n
	}
	if j < 0 || j >= n {
		return 0, &IndexError{Op: op, Index: i, Len: n}
	}
	return j, nil
}

// Get returns the input at position i. Negative positions count from the end.
func (in *Inputs) Get(i int) (*Node, error) {
	j, err := in.position("get", i)
	if err != nil {
		return nil, err
	}
	return in.data[j], nil
}

// At is like Get but panics when i is out of range.
func (in *Inputs) At(i int) *Node {
	n, err := in.Get(i)
	if err != nil {
		panic(err)
	}
	return n
}

// Set replaces the input at position i with n.
func (in *Inputs) Set(i int, n *Node) error {
	if n == nil {
		return ErrNilNode
	}
	j, err := in.position("set", i)
	if err != nil {
		return err
	}
	in.data[j].removeUse(in.owner, j)
	n.addUse(in.owner, j)
	in.data[j] = n
	return nil
}

// SetRange would replace the inputs in [lo, hi). Ranged edits are not
// supported; it always returns ErrUnsupported and changes nothing.
func (in *Inputs) SetRange(lo, hi int, nodes ...*Node) error {
	return ErrUnsupported
}

// Insert places n at position i, shifting the inputs at i and after one
// position to the right. i may equal Len() to append. Negative positions
// count from the end.
func (in *Inputs) Insert(i int, n *Node) error {
	if n == nil {
		return ErrNilNode
	}
	l := len(in.data)
	j := i
	if j < 0 {
		j += l
	}
	if j < 0 || j > l {
		return &IndexError{Op: "insert", Index: i, Len: l}
	}
	// Highest first, so position k+1 is already vacated when k moves into it.
	for k := l - 1; k >= j; k-- {
		v := in.data[k]
		v.removeUse(in.owner, k)
		v.addUse(in.owner, k+1)
	}
	n.addUse(in.owner, j)
	in.data = slices.Insert(in.data, j, n)
	return nil
}

// Append adds n after the last input.
func (in *Inputs) Append(n *Node) error {
	return in.Insert(len(in.data), n)
}

// Extend appends nodes in order. If any node is nil nothing is appended.
func (in *Inputs) Extend(nodes ...*Node) error {
	if slices.Contains(nodes, nil) {
		return ErrNilNode
	}
	for _, n := range nodes {
		if err := in.Append(n); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the input at position i, shifting later inputs one position
// to the left. Negative positions count from the end.
func (in *Inputs) Delete(i int) error {
	j, err := in.position("delete", i)
	if err != nil {
		return err
	}
	in.data[j].removeUse(in.owner, j)
	// Lowest first, so position k-1 is already vacated when k moves into it.
	for k := j + 1; k < len(in.data); k++ {
		v := in.data[k]
		v.removeUse(in.owner, k)
		v.addUse(in.owner, k-1)
	}
	in.data = slices.Delete(in.data, j, j+1)
	return nil
}

// DeleteRange would remove the inputs in [lo, hi). Ranged edits are not
// supported; it always returns ErrUnsupported and changes nothing.
func (in *Inputs) DeleteRange(lo, hi int) error {
	return ErrUnsupported
}

// Clear removes every input and its reverse edge.
func (in *Inputs) Clear() {
	for k, v := range in.data {
		v.removeUse(in.owner, k)
	}
	in.data = nil
}

// All iterates over positions and inputs.
// The inputs must not be modified during iteration.
func (in *Inputs) All() iter.Seq2[int, *Node] {
	return func(yield func(int, *Node) bool) {
		for i, n := range in.data {
			if !yield(i, n) {
				return
			}
		}
	}
}

// Values iterates over the inputs in order.
// The inputs must not be modified during iteration.
func (in *Inputs) Values() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, n := range in.data {
			if !yield(n) {
				return
			}
		}
	}
}

// Slice returns a copy of the inputs.
func (in *Inputs) Slice() []*Node {
	return slices.Clone(in.data)
}

// String returns the inputs as a bracketed list of node strings.
func (in *Inputs) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, n := range in.data {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(n.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
