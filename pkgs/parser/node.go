package parser

import "github.com/aledsdavies/lumen/pkgs/ast"

type ranged interface {
	SetRange(ast.Range)
}

// mk stamps n's source range [start, end) and returns it, so node
// construction reads as a single expression at each call site.
func mk[T ranged](n T, start, end int) T {
	n.SetRange(ast.WithRange(start, end))
	return n
}
