package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/lumen/pkgs/ast"
)

func TestParseIfThenDedent(t *testing.T) {
	// spec.md §8 scenario 1.
	body, oob := ParseModule("if a:\n  1\n2")
	require.Empty(t, oob)
	require.Len(t, body.Stmts, 2)

	sif, ok := body.Stmts[0].(*ast.SIf)
	require.True(t, ok)
	name, ok := sif.Cond.(*ast.Name)
	require.True(t, ok)
	assert.Equal(t, "a", name.Value)

	block, ok := sif.Then.(*ast.Block)
	require.True(t, ok)
	require.Len(t, block.Body.Stmts, 1)
	inner, ok := block.Body.Stmts[0].(*ast.ExprStmt)
	require.True(t, ok)
	num, ok := inner.X.(*ast.Number)
	require.True(t, ok)
	assert.Equal(t, "1", num.Value)

	tail, ok := body.Stmts[1].(*ast.ExprStmt)
	require.True(t, ok)
	num2, ok := tail.X.(*ast.Number)
	require.True(t, ok)
	assert.Equal(t, "2", num2.Value)
}

func TestParseLetThenName(t *testing.T) {
	body, oob := ParseModule("x = 1\nx")
	require.Empty(t, oob)
	require.Len(t, body.Stmts, 2)

	let, ok := body.Stmts[0].(*ast.SLet)
	require.True(t, ok)
	assert.Equal(t, "=", let.Op)
	target, ok := let.Target.(*ast.Name)
	require.True(t, ok)
	assert.Equal(t, "x", target.Value)

	tail, ok := body.Stmts[1].(*ast.ExprStmt)
	require.True(t, ok)
	name, ok := tail.X.(*ast.Name)
	require.True(t, ok)
	assert.Equal(t, "x", name.Value)
}

func TestParseBinopPrecedence(t *testing.T) {
	body, oob := ParseModule("1 + 2 * 3")
	require.Empty(t, oob)
	require.Len(t, body.Stmts, 1)
	stmt := body.Stmts[0].(*ast.ExprStmt)
	add, ok := stmt.X.(*ast.Binop)
	require.True(t, ok)
	assert.Equal(t, "+", add.Op)
	_, ok = add.A.(*ast.Number)
	require.True(t, ok)
	mul, ok := add.B.(*ast.Binop)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op)
}

func TestParseMethodCall(t *testing.T) {
	body, oob := ParseModule(`"abc".slice(1, 3)`)
	require.Empty(t, oob)
	stmt := body.Stmts[0].(*ast.ExprStmt)
	call, ok := stmt.X.(*ast.Call)
	require.True(t, ok)
	dot, ok := call.Fn.(*ast.Dot)
	require.True(t, ok)
	assert.Equal(t, "slice", dot.Name)
	require.Len(t, call.Args, 2)
}

func TestParseMatch(t *testing.T) {
	src := "match [1,2]:\n  [2, x] => 1\n  [1, x] => x\n  _ => 9"
	body, oob := ParseModule(src)
	require.Empty(t, oob)
	stmt := body.Stmts[0].(*ast.ExprStmt)
	m, ok := stmt.X.(*ast.Match)
	require.True(t, ok)
	require.Len(t, m.Cases, 3)
	_, ok = m.Cases[0].Pattern.(*ast.VecPattern)
	require.True(t, ok)
}

func TestParseLoopWhile(t *testing.T) {
	src := "x = 1\nloop while x < 10:\n  x *= 2\nx"
	body, oob := ParseModule(src)
	require.Empty(t, oob)
	require.Len(t, body.Stmts, 3)
	lw, ok := body.Stmts[1].(*ast.SLoopWhile)
	require.True(t, ok)
	require.Len(t, lw.Block.Stmts, 1)
	let, ok := lw.Block.Stmts[0].(*ast.SLet)
	require.True(t, ok)
	assert.Equal(t, "*=", let.Op)
}

func TestCloseParenErrorRecorded(t *testing.T) {
	_, oob := ParseModule("(1 + 2\n")
	require.NotEmpty(t, oob)
	found := false
	for _, o := range oob {
		if o.Text == "CloseParen" {
			found = true
		}
	}
	assert.True(t, found)
}
