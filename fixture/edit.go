package fixture

import (
	"context"

	"github.com/gogpu/anf/internal/ctxlog"
	"github.com/gogpu/anf/ir"
)

// Apply performs one edit. Input and replacement references resolve in the
// scope of the edited node's graph. A failed edit leaves the program
// unchanged.
func (p *Program) Apply(ctx context.Context, e *Edit) error {
	n, ok := p.nodes[e.Node]
	if !ok {
		return &Error{Pos: e.Pos, Msg: "node " + e.Node, Err: ErrUnknownName}
	}
	scope := p.scope[e.Node]

	var input *ir.Node
	switch e.Op {
	case OpSet, OpInsert, OpAppend:
		var err error
		if input, err = p.resolve(scope, e.Input); err != nil {
			return err
		}
	case OpReplace:
		var err error
		if input, err = p.resolve(scope, e.With); err != nil {
			return err
		}
	}

	var err error
	switch e.Op {
	case OpSet:
		err = n.Inputs().Set(e.Index, input)
	case OpInsert:
		err = n.Inputs().Insert(e.Index, input)
	case OpDelete:
		err = n.Inputs().Delete(e.Index)
	case OpAppend:
		err = n.Inputs().Append(input)
	case OpClear:
		n.Inputs().Clear()
	case OpReplace:
		err = n.Replace(input)
	default:
		return &Error{Pos: e.Pos, Msg: "unknown op " + string(e.Op)}
	}
	if err != nil {
		return &Error{Pos: e.Pos, Msg: e.String(), Err: err}
	}

	ctxlog.FromContext(ctx).Debug("applied edit", "edit", e.String(), "pos", e.Pos.String())
	return nil
}
