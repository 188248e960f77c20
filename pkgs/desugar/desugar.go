package desugar

import (
	"fmt"

	"github.com/aledsdavies/lumen/pkgs/ast"
	"github.com/aledsdavies/lumen/pkgs/il"
)

// loopScope records the reassigned-variable set threaded through one
// enclosing S-Loop/S-LoopWhile, so a bare `break`/`repeat` Name can be
// lowered to the right `.post`/`.body` call (spec.md §4.3).
type loopScope struct {
	vars []string
}

// desugarer carries the loop-nesting stack across a single Desugar call;
// it holds no other mutable state (environments are passed explicitly,
// never stored on d, so nested calls never see stale loop context).
type desugarer struct {
	loopStack []*loopScope
}

// Desugar lowers a parsed module's top-level block into IL under env
// (spec.md §6's desugar(ast, env) -> il).
func Desugar(body *ast.BlockBody, env *Env) il.Node {
	d := &desugarer{}
	return d.block(body.Stmts, 0, env, defaultTail)
}

func tagIf(n ast.Node, inner il.Node) il.Node {
	if !n.Range().Present {
		return inner
	}
	return &il.Tag{AST: n, Inner: inner}
}

func (d *desugarer) tagExpr(x ast.Expr, env *Env) il.Node {
	return tagIf(x, d.expr(x, env))
}

func libVal(name string) il.Node { return &il.Val{Type: il.Lib, Arg: name} }

func strVal(s string) il.Node { return &il.Val{Type: il.String, Arg: s} }

// getProp builds the universal dot/method-send entry point: getProp(a,name).
func getProp(a il.Node, name string) il.Node {
	return &il.App{Fn: libVal("getProp"), Args: []il.Node{a, strVal(name)}}
}

// wrapLet builds `let _ = value in rest`, i.e. App(Fun(rest), [value]);
// the caller must have desugared rest under env.Extend([name]) for
// whatever name this binding introduces.
func wrapLet(value, rest il.Node) il.Node {
	return &il.App{Fn: &il.Fun{Body: rest}, Args: []il.Node{value}}
}

// ---- expressions ----

func (d *desugarer) expr(e ast.Expr, env *Env) il.Node {
	switch x := e.(type) {
	case *ast.Name:
		switch x.Value {
		case "break":
			return d.breakCall(env)
		case "repeat":
			return d.repeatCall(env)
		}
		ups, pos, ok := env.Find(x.Value)
		if !ok {
			return &il.Err{Desc: "Undefined:" + x.Value, Hint: suggestName(x.Value, env.AllNames())}
		}
		return &il.Arg{Ups: ups, Pos: pos}

	case *ast.Number:
		return &il.Val{Type: il.Number, Arg: x.Value}

	case *ast.String:
		return &il.Val{Type: il.String, Arg: x.Value}

	case *ast.Fn:
		return &il.Fun{Body: d.expr(x.Body, env.Extend(x.Params))}

	case *ast.Call:
		fn := d.tagExpr(x.Fn, env)
		args := make([]il.Node, len(x.Args))
		for i, a := range x.Args {
			args[i] = d.tagExpr(a, env)
		}
		return &il.App{Fn: fn, Args: args}

	case *ast.Dot:
		return getProp(d.tagExpr(x.A, env), x.Name)

	case *ast.Index:
		a := d.tagExpr(x.A, env)
		b := d.tagExpr(x.B, env)
		return &il.App{Fn: getProp(a, "@[]"), Args: []il.Node{b}}

	case *ast.Binop:
		if x.Op == "$" {
			return &il.App{Fn: d.tagExpr(x.A, env), Args: []il.Node{d.tagExpr(x.B, env)}}
		}
		a := d.tagExpr(x.A, env)
		b := d.tagExpr(x.B, env)
		return &il.App{Fn: getProp(a, "@"+x.Op), Args: []il.Node{b}}

	case *ast.Unop:
		return getProp(d.tagExpr(x.A, env), x.Op)

	case *ast.IIf:
		return d.buildSwitch(d.tagExpr(x.Cond, env), d.tagExpr(x.A, env), d.tagExpr(x.B, env))

	case *ast.Vector:
		args := make([]il.Node, len(x.Elems))
		for i, el := range x.Elems {
			args[i] = d.tagExpr(el, env)
		}
		return &il.App{Fn: libVal("vecNew"), Args: args}

	case *ast.Map:
		keys := make([]il.Node, len(x.Keys))
		for i, k := range x.Keys {
			keys[i] = strVal(k.Value)
		}
		values := make([]il.Node, len(x.Values))
		for i, v := range x.Values {
			values[i] = d.tagExpr(v, env)
		}
		curried := &il.App{Fn: libVal("mapDef"), Args: keys}
		return &il.App{Fn: curried, Args: values}

	case *ast.Block:
		return d.block(x.Body.Stmts, 0, env, defaultTail)

	case *ast.Match:
		return d.matchExpr(x, env)

	case *ast.Missing, *ast.MissingBlock:
		return &il.Err{Desc: "missing"}

	default:
		return &il.Err{Desc: fmt.Sprintf("unknownExpr:%T", e)}
	}
}

// buildSwitch desugars `cond.switch(() -> a, () -> b)()`.
func (d *desugarer) buildSwitch(condIL, aIL, bIL il.Node) il.Node {
	switchFn := getProp(condIL, "switch")
	call := &il.App{Fn: switchFn, Args: []il.Node{&il.Fun{Body: aIL}, &il.Fun{Body: bIL}}}
	return &il.App{Fn: call, Args: nil}
}

func stopCall() il.Node {
	return &il.App{Fn: libVal("stop"), Args: nil}
}

// ---- match / pattern lowering (spec.md §4.3-4.4) ----

// cont produces an expression's IL under whatever env it ends up embedded
// at. Every continuation threaded through pattern lowering — the matched
// value, the match-arm body, the fail branch — is carried as a cont
// rather than a precomputed il.Node: a VecPattern arm wraps its fail
// continuation in a closure captured one frame deeper (past `.subj`), so
// a node built once at the outer depth would resolve its free references
// against the wrong frame once embedded there. Calling the cont fresh at
// the exact final env sidesteps that: env.Find recomputes `ups` correctly
// regardless of how many frames sit between where a cont was built and
// where it is finally used.
type cont func(env *Env) il.Node

func (d *desugarer) matchExpr(m *ast.Match, env *Env) il.Node {
	valueIL := d.tagExpr(m.Value, env)
	valEnv := env.Extend([]string{".value"})
	valueCont := cont(func(e *Env) il.Node { return refTo(e, ".value") })

	onFail := cont(func(e *Env) il.Node { return stopCall() })
	for i := len(m.Cases) - 1; i >= 0; i-- {
		pattern, body := m.Cases[i].Pattern, m.Cases[i].Body
		onMatch := cont(func(e *Env) il.Node { return d.expr(body, e) })
		prevFail := onFail
		onFail = cont(func(e *Env) il.Node {
			return d.xlatCase(valueCont, e, pattern, onMatch, prevFail)
		})
	}
	return wrapLet(valueIL, onFail(valEnv))
}

// xlatCase lowers one match arm: xlatCase(value, pattern, onMatch, onFail).
// Each cont is invoked at the exact env depth it will run at once
// embedded, never passed onward as an already-built node.
func (d *desugarer) xlatCase(value cont, env *Env, pattern ast.Expr, onMatch, onFail cont) il.Node {
	switch pat := pattern.(type) {
	case *ast.Name:
		if pat.Value == "_" {
			return wrapLet(value(env), onMatch(env.Extend([]string{"_"})))
		}
		return wrapLet(value(env), onMatch(env.Extend([]string{pat.Value})))

	case *ast.Number, *ast.String:
		litIL := d.tagExpr(pat, env)
		cmp := &il.App{Fn: getProp(litIL, "@=="), Args: []il.Node{value(env)}}
		return d.buildSwitch(cmp, onMatch(env), onFail(env))

	case *ast.VecPattern:
		// Bind the matched value and the fail continuation as synthetic
		// names (rather than re-embedding their nodes at each element's
		// nesting depth) so every element lookup re-resolves them with a
		// fresh env.Find — correct regardless of how many preceding
		// elements' bindings sit between the binding site and the use.
		subjEnv := env.Extend([]string{".subj"})
		failEnv := subjEnv.Extend([]string{".fail"})
		inner := d.xlatVecPattern(failEnv, pat.Elems, 0, onMatch)
		return wrapLet(value(env), wrapLet(&il.Fun{Body: onFail(subjEnv)}, inner))

	default:
		return &il.Err{Desc: "bad case"}
	}
}

// refTo resolves name against env and builds the Arg referencing it.
func refTo(env *Env, name string) il.Node {
	ups, pos, _ := env.Find(name)
	return &il.Arg{Ups: ups, Pos: pos}
}

// xlatVecPattern threads index-by-index through a VecPattern's elements
// under env (which must already have `.subj`/`.fail` bound), recursing
// with the element's own bindings added to env at each step.
func (d *desugarer) xlatVecPattern(env *Env, elems []ast.Expr, i int, onMatch cont) il.Node {
	if i >= len(elems) {
		return onMatch(env)
	}
	idx := i
	elemCont := cont(func(e *Env) il.Node {
		return &il.App{Fn: getProp(refTo(e, ".subj"), "@[]"), Args: []il.Node{&il.Val{Type: il.Number, Arg: fmt.Sprintf("%d", idx)}}}
	})
	failCont := cont(func(e *Env) il.Node {
		return &il.App{Fn: refTo(e, ".fail")}
	})
	rest := cont(func(e *Env) il.Node {
		return d.xlatVecPattern(e, elems, idx+1, onMatch)
	})
	return d.xlatCase(elemCont, env, elems[i], rest, failCont)
}
