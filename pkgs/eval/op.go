// Package eval interprets pkgs/il trees against a stack of host-value
// environments (spec.md §4.4). It never recurses through Go's call stack
// for IL evaluation: il.Node is first flattened into a linear []Op
// sequence, which an explicit frame stack then walks, so a faulting
// sub-expression always has an addressable (frame, instruction) position
// to attach trace provenance to.
package eval

import (
	"fmt"

	"github.com/aledsdavies/lumen/pkgs/ast"
	"github.com/aledsdavies/lumen/pkgs/il"
	"github.com/aledsdavies/lumen/pkgs/value"
)

type opKind int

const (
	opVal opKind = iota
	opArg
	opFun
	opApp
	opErr
	opTag
)

// Op is one instruction in a compiled body. Only the fields matching kind
// are meaningful.
type Op struct {
	kind opKind

	val      value.Value // opVal
	ups, pos int         // opArg
	body     []Op        // opFun
	nargs    int         // opApp
	errName  string      // opErr
	errHint  string      // opErr

	ast ast.Node // opTag: the source node this op's span is tagged with
	n   int      // opTag: number of immediately preceding ops it covers
}

// Compile flattens an il.Node into a linear op sequence. Tag nodes are
// lowered to a trailing opTag whose n covers exactly the ops its Inner
// produced, matching spec.md §4.4's "n counts preceding ops enclosed by
// this tag" framing.
func Compile(n il.Node) []Op {
	switch x := n.(type) {
	case *il.Val:
		return []Op{{kind: opVal, val: resolveVal(x)}}

	case *il.Arg:
		return []Op{{kind: opArg, ups: x.Ups, pos: x.Pos}}

	case *il.Fun:
		return []Op{{kind: opFun, body: Compile(x.Body)}}

	case *il.App:
		ops := Compile(x.Fn)
		for _, a := range x.Args {
			ops = append(ops, Compile(a)...)
		}
		return append(ops, Op{kind: opApp, nargs: len(x.Args)})

	case *il.Err:
		return []Op{{kind: opErr, errName: x.Desc, errHint: x.Hint}}

	case *il.Tag:
		inner := Compile(x.Inner)
		ops := make([]Op, 0, len(inner)+1)
		ops = append(ops, inner...)
		return append(ops, Op{kind: opTag, ast: x.AST, n: len(inner)})

	default:
		return []Op{{kind: opErr, errName: fmt.Sprintf("unknownIL:%T", n)}}
	}
}

func resolveVal(v *il.Val) value.Value {
	switch v.Type {
	case il.Number:
		return value.ILNumber(v.Arg)
	case il.String:
		return value.ILString(v.Arg)
	case il.Lib:
		return value.ILLib(v.Arg)
	default:
		return value.Fault(fmt.Sprintf("badValType:%v", v.Type))
	}
}
