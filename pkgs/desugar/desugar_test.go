package desugar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/lumen/pkgs/desugar"
	"github.com/aledsdavies/lumen/pkgs/il"
	"github.com/aledsdavies/lumen/pkgs/parser"
)

func desugarSource(t *testing.T, source string, names []string) il.Node {
	t.Helper()
	body, oob := parser.ParseModule(source)
	require.Empty(t, oob)
	return desugar.Desugar(body, desugar.NewEnv(names))
}

func TestDesugarLetThenName(t *testing.T) {
	// spec.md §8 scenario 2: `x = 1\nx` lowers to App(Fun(Arg(0,0)), [Val(1)]).
	node := desugarSource(t, "x = 1\nx", nil)

	app, ok := node.(*il.App)
	require.True(t, ok)
	require.Len(t, app.Args, 1)

	val, ok := il.Unwrap(app.Args[0]).(*il.Val)
	require.True(t, ok)
	assert.Equal(t, il.Number, val.Type)
	assert.Equal(t, "1", val.Arg)

	fun, ok := app.Fn.(*il.Fun)
	require.True(t, ok)
	arg, ok := il.Unwrap(fun.Body).(*il.Arg)
	require.True(t, ok)
	assert.Equal(t, 0, arg.Ups)
	assert.Equal(t, 0, arg.Pos)
}

func TestDesugarShadowFault(t *testing.T) {
	// spec.md §8 scenario 8: rebinding an already-bound name with `=` is a
	// desugar-time fault, never reaching the evaluator.
	node := desugarSource(t, "x = 1\nx = 2\nx", nil)

	app, ok := node.(*il.App)
	require.True(t, ok)
	fun, ok := app.Fn.(*il.Fun)
	require.True(t, ok)

	errNode, ok := il.Unwrap(fun.Body).(*il.Err)
	require.True(t, ok)
	assert.Equal(t, "Shadow:x", errNode.Desc)
}

func TestDesugarUndefinedName(t *testing.T) {
	node := desugarSource(t, "y", nil)
	errNode, ok := il.Unwrap(node).(*il.Err)
	require.True(t, ok)
	assert.Equal(t, "Undefined:y", errNode.Desc)
}

func TestDesugarReassignRequiresExisting(t *testing.T) {
	node := desugarSource(t, "x += 1", nil)
	errNode, ok := il.Unwrap(node).(*il.Err)
	require.True(t, ok)
	assert.Equal(t, "Undefined:x", errNode.Desc)
}

func TestDesugarBreakOutsideLoop(t *testing.T) {
	node := desugarSource(t, "break", nil)
	errNode, ok := il.Unwrap(node).(*il.Err)
	require.True(t, ok)
	assert.Equal(t, "BreakOutsideLoop", errNode.Desc)
}

func TestDesugarAssertLowersToStopCall(t *testing.T) {
	// S-Assert(cond): IIf(cond, k, .stop()) — the fail branch is a 0-arg
	// call to the `stop` library root, never a bare Err node.
	node := desugarSource(t, "assert 1 < 2\n1", nil)

	outerApp, ok := node.(*il.App)
	require.True(t, ok)
	require.Empty(t, outerApp.Args)

	switchApp, ok := outerApp.Fn.(*il.App)
	require.True(t, ok)
	require.Len(t, switchApp.Args, 2)

	failFun, ok := switchApp.Args[1].(*il.Fun)
	require.True(t, ok)
	failCall, ok := il.Unwrap(failFun.Body).(*il.App)
	require.True(t, ok)
	require.Empty(t, failCall.Args)

	lib, ok := failCall.Fn.(*il.Val)
	require.True(t, ok)
	assert.Equal(t, il.Lib, lib.Type)
	assert.Equal(t, "stop", lib.Arg)
}

func TestDesugarLoopWhileCPSShape(t *testing.T) {
	// spec.md §8 scenario 5's source, checked structurally: `x = 1` binds
	// the literal, then the loop itself lowers to nested `let .post = ...
	// in let .body = ... in .body(...)` closures.
	node := desugarSource(t, "x = 1\nloop while x < 10:\n  x *= 2\nx", nil)

	letX, ok := node.(*il.App)
	require.True(t, ok)
	require.Len(t, letX.Args, 1)
	litX, ok := il.Unwrap(letX.Args[0]).(*il.Val)
	require.True(t, ok)
	assert.Equal(t, "1", litX.Arg)

	letXFun, ok := letX.Fn.(*il.Fun)
	require.True(t, ok)

	postLet, ok := letXFun.Body.(*il.App)
	require.True(t, ok)
	require.Len(t, postLet.Args, 1)
	_, ok = postLet.Args[0].(*il.Fun)
	require.True(t, ok, "the .post binding is a closure")

	postLetFun, ok := postLet.Fn.(*il.Fun)
	require.True(t, ok)
	bodyLet, ok := postLetFun.Body.(*il.App)
	require.True(t, ok)
	require.Len(t, bodyLet.Args, 1)
	_, ok = bodyLet.Args[0].(*il.Fun)
	require.True(t, ok, "the .body binding is a closure")
}

func TestDesugarForLoopUsesNextProtocol(t *testing.T) {
	node := desugarSource(t, "for v in [1,2,3]:\n  v", nil)
	// The outermost binding is the iterated sequence value.
	app, ok := node.(*il.App)
	require.True(t, ok)
	require.Len(t, app.Args, 1)
	vecCall, ok := il.Unwrap(app.Args[0]).(*il.App)
	require.True(t, ok)
	lib, ok := vecCall.Fn.(*il.Val)
	require.True(t, ok)
	assert.Equal(t, "vecNew", lib.Arg)
}

func TestDesugarMatchWildcardFallback(t *testing.T) {
	// A match with only a wildcard case never calls .stop(): its onFail is
	// the wildcard arm itself, reached unconditionally.
	node := desugarSource(t, "match 1:\n  _ => 9", nil)

	app, ok := il.Unwrap(node).(*il.App)
	require.True(t, ok)
	require.Len(t, app.Args, 1)
	valNode, ok := il.Unwrap(app.Args[0]).(*il.Val)
	require.True(t, ok)
	assert.Equal(t, "1", valNode.Arg)

	fun, ok := app.Fn.(*il.Fun)
	require.True(t, ok)
	bindApp, ok := fun.Body.(*il.App)
	require.True(t, ok)
	require.Len(t, bindApp.Args, 1)
	result, ok := il.Unwrap(bindApp.Args[0]).(*il.Arg)
	require.True(t, ok, "wildcard case binds the matched value before discarding it")
	assert.Equal(t, 0, result.Ups)
}

func TestDesugarMatchMissingCaseStops(t *testing.T) {
	node := desugarSource(t, "match 1:\n  2 => 9", nil)

	app, ok := il.Unwrap(node).(*il.App)
	require.True(t, ok)
	fun, ok := app.Fn.(*il.Fun)
	require.True(t, ok)

	switchApp, ok := fun.Body.(*il.App)
	require.True(t, ok)
	innerSwitch, ok := switchApp.Fn.(*il.App)
	require.True(t, ok)
	require.Len(t, innerSwitch.Args, 2)

	failFun, ok := innerSwitch.Args[1].(*il.Fun)
	require.True(t, ok)
	stopApp, ok := il.Unwrap(failFun.Body).(*il.App)
	require.True(t, ok)
	require.Empty(t, stopApp.Args)
	lib, ok := stopApp.Fn.(*il.Val)
	require.True(t, ok)
	assert.Equal(t, "stop", lib.Arg)
}
