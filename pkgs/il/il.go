// Package il defines the intermediate language the desugarer lowers AST
// into: a minimal lambda calculus with literals, de Bruijn-indexed argument
// references, lambdas, applications, error leaves, and source-provenance
// tags. See spec.md §3 and §4.3-§4.4.
package il

import "github.com/aledsdavies/lumen/pkgs/ast"

// ValType distinguishes the three literal kinds a Val leaf can carry.
type ValType int

const (
	Number ValType = iota
	String
	Lib
)

func (t ValType) String() string {
	switch t {
	case Number:
		return "Number"
	case String:
		return "String"
	case Lib:
		return "Lib"
	default:
		return "?"
	}
}

// Node is any IL expression. The concrete set is intentionally small and
// closed: Val, Arg, Fun, App, Err, Tag.
type Node interface {
	il()
}

// Val is a literal leaf. Arg is a string understood according to Type:
// the literal's source text for Number/String, or a library-root name
// (e.g. "getProp") for Lib.
type Val struct {
	Type ValType
	Arg  string
}

func (*Val) il() {}

// Arg is a de Bruijn-style frame reference: walk Ups frames up the
// evaluation-time environment stack, then index Pos within that frame.
type Arg struct {
	Ups, Pos int
}

func (*Arg) il() {}

// Fun is a lambda: Body is evaluated in a new frame extending the
// closure's captured environment with the call's arguments.
type Fun struct {
	Body Node
}

func (*Fun) il() {}

// App applies Fn to Args, in order.
type App struct {
	Fn   Node
	Args []Node
}

func (*App) il() {}

// Err is a compile-time error leaf; evaluating it always faults with Desc
// (e.g. "Undefined:x", "Shadow:x"). Hint is an optional "did you mean"
// suggestion attached by the desugarer (e.g. for an Undefined name); it
// never changes Desc and is blank unless a suggestion was found.
type Err struct {
	Desc string
	Hint string
}

func (*Err) il() {}

// Tag transparently wraps Inner and annotates it with the AST node it was
// desugared from, purely for diagnostic provenance: evaluating Tag(ast, e)
// always yields the same value (and the same error behavior) as evaluating
// e alone (spec.md invariant #2 and the §8 round-trip property).
type Tag struct {
	AST   ast.Node
	Inner Node
}

func (*Tag) il() {}

// Unwrap strips any number of Tag wrappers and returns the innermost node.
func Unwrap(n Node) Node {
	for {
		t, ok := n.(*Tag)
		if !ok {
			return n
		}
		n = t.Inner
	}
}
