package desugar

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/lumen/pkgs/ast"
	"github.com/aledsdavies/lumen/pkgs/il"
)

// defaultTail is the value of a block with nothing left to run. Every
// well-formed block ends in a terminating expression (spec.md §4.3), so
// this only fires for a genuinely empty block — the same "missing" fault
// an explicit MissingBlock desugars to.
func defaultTail(env *Env) il.Node { return &il.Err{Desc: "missing"} }

// block lowers a statement sequence starting at idx under env, invoking
// tail(env) once idx reaches the end (the ordinary top-level/nested-block
// case uses defaultTail; a loop body's tail is an implicit repeat call).
func (d *desugarer) block(stmts []ast.Stmt, idx int, env *Env, tail func(*Env) il.Node) il.Node {
	if idx >= len(stmts) {
		return tail(env)
	}
	kont := func(e *Env) il.Node { return d.block(stmts, idx+1, e, tail) }

	switch s := stmts[idx].(type) {
	case *ast.ExprStmt:
		val := d.tagExpr(s.X, env)
		if idx == len(stmts)-1 {
			return val
		}
		return wrapLet(val, kont(env.Extend([]string{"_"})))

	case *ast.SLet:
		return d.desugarLet(s, env, kont)

	case *ast.SIf:
		condIL := d.tagExpr(s.Cond, env)
		thenVal := d.tagExpr(s.Then, env)
		trueBranch := wrapLet(thenVal, kont(env.Extend([]string{"_"})))
		falseBranch := kont(env)
		return d.buildSwitch(condIL, trueBranch, falseBranch)

	case *ast.SWhile:
		condIL := d.tagExpr(s.Cond, env)
		return d.buildSwitch(condIL, kont(env), d.breakCall(env))

	case *ast.SAssert:
		condIL := d.tagExpr(s.Cond, env)
		failIL := tagIf(s, stopCall())
		return d.buildSwitch(condIL, kont(env), failIL)

	case *ast.SLoop:
		return d.desugarSimpleLoop(s, env, kont)

	case *ast.SLoopWhile:
		return d.desugarWhileLoop(s, env, kont)

	case *ast.SFor:
		return d.desugarFor(s, env, kont)

	case *ast.SAct:
		fnIL := &il.Fun{Body: d.expr(s.Act, env.Extend(s.Params))}
		return wrapLet(fnIL, kont(env.Extend([]string{".act"})))

	case *ast.SCase:
		return &il.Err{Desc: "caseOutsideMatch"}

	default:
		return &il.Err{Desc: fmt.Sprintf("unknownStmt:%T", s)}
	}
}

// ---- assignment (spec.md §4.3 S-Let) ----

func (d *desugarer) desugarLet(s *ast.SLet, env *Env, kont func(*Env) il.Node) il.Node {
	switch target := s.Target.(type) {
	case *ast.Name:
		valueIL := d.tagExpr(s.Value, env)
		return d.desugarSimpleLet(target.Value, s.Op, valueIL, env, kont)
	default:
		// A complex target (x.a[1] = 2) can only ever be a reassignment of
		// an already-bound root name — reading x.a requires x to already
		// exist — so the synthesized root-level binding always uses ":="
		// semantics. A compound op is first applied to the target's current
		// value (x.a += 1 stores x.a.@+(1)).
		newValueIL := d.tagExpr(s.Value, env)
		if s.Op != "=" && s.Op != ":=" {
			cur := d.tagExpr(s.Target, env)
			newValueIL = &il.App{Fn: getProp(cur, "@"+strings.TrimSuffix(s.Op, "=")), Args: []il.Node{newValueIL}}
		}
		rootName, rewrittenIL := d.decomposeTarget(s.Target, newValueIL, env)
		return d.desugarSimpleLet(rootName, ":=", rewrittenIL, env, kont)
	}
}

// decomposeTarget rewrites `x.a[1] = v` into the equivalent whole-value
// rebinding of the root name x: x = x.setProp("a", x.a.set(1, v)).
func (d *desugarer) decomposeTarget(target ast.Expr, newValueIL il.Node, env *Env) (string, il.Node) {
	switch t := target.(type) {
	case *ast.Name:
		return t.Value, newValueIL
	case *ast.Dot:
		aCur := d.tagExpr(t.A, env)
		updated := &il.App{Fn: getProp(aCur, "setProp"), Args: []il.Node{strVal(t.Name), newValueIL}}
		return d.decomposeTarget(t.A, updated, env)
	case *ast.Index:
		aCur := d.tagExpr(t.A, env)
		bIL := d.tagExpr(t.B, env)
		updated := &il.App{Fn: getProp(aCur, "set"), Args: []il.Node{bIL, newValueIL}}
		return d.decomposeTarget(t.A, updated, env)
	default:
		return "", &il.Err{Desc: "badTarget"}
	}
}

// desugarSimpleLet binds name := valueIL under op's semantics: "=" requires
// name to be fresh (else a Shadow fault); every other op requires name to
// already be bound (else an Undefined fault) and, for a compound op,
// rewrites valueIL to `current @op valueIL` first.
func (d *desugarer) desugarSimpleLet(name, op string, valueIL il.Node, env *Env, kont func(*Env) il.Node) il.Node {
	if op == "=" {
		if _, _, ok := env.Find(name); ok {
			return &il.Err{Desc: "Shadow:" + name}
		}
		return wrapLet(valueIL, kont(env.Extend([]string{name})))
	}

	if _, _, ok := env.Find(name); !ok {
		return &il.Err{Desc: "Undefined:" + name, Hint: suggestName(name, env.AllNames())}
	}
	finalIL := valueIL
	if op != ":=" {
		baseOp := strings.TrimSuffix(op, "=")
		cur := refTo(env, name)
		finalIL = &il.App{Fn: getProp(cur, "@"+baseOp), Args: []il.Node{valueIL}}
	}
	return wrapLet(finalIL, kont(env.Extend([]string{name})))
}

// ---- loop lowering (spec.md §4.3 S-Loop / S-LoopWhile / S-For) ----

// loopVar is one value threaded around a loop's .post/.body continuation
// pair; initFn computes its entry value fresh against whatever env it is
// finally embedded at, rather than a node precomputed at a different depth.
type loopVar struct {
	name   string
	initFn func(env *Env) il.Node
}

func varNames(vars []loopVar) []string {
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.name
	}
	return names
}

// surfaceLoopVars finds every already-bound outer name the loop body
// reassigns, so the CPS form threads exactly the state mutated within it.
func (d *desugarer) surfaceLoopVars(block *ast.BlockBody, env *Env) []loopVar {
	names := d.getLoopVars(block, env)
	vars := make([]loopVar, len(names))
	for i, n := range names {
		name := n
		vars[i] = loopVar{name: name, initFn: func(e *Env) il.Node { return refTo(e, name) }}
	}
	return vars
}

func rootTargetName(e ast.Expr) (string, bool) {
	switch t := e.(type) {
	case *ast.Name:
		return t.Value, true
	case *ast.Dot:
		return rootTargetName(t.A)
	case *ast.Index:
		return rootTargetName(t.A)
	default:
		return "", false
	}
}

func blockOf(e ast.Expr) (*ast.BlockBody, bool) {
	b, ok := e.(*ast.Block)
	if !ok {
		return nil, false
	}
	return b.Body, true
}

func (d *desugarer) collectLoopVars(stmts []ast.Stmt, env *Env, seen map[string]bool, out *[]string) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.SLet:
			if s.Op == "=" {
				continue
			}
			name, ok := rootTargetName(s.Target)
			if !ok || seen[name] {
				continue
			}
			if _, _, bound := env.Find(name); bound {
				seen[name] = true
				*out = append(*out, name)
			}
		case *ast.SIf:
			if blk, ok := blockOf(s.Then); ok {
				d.collectLoopVars(blk.Stmts, env, seen, out)
			}
		case *ast.SLoop:
			d.collectLoopVars(s.Block.Stmts, env, seen, out)
		case *ast.SLoopWhile:
			d.collectLoopVars(s.Block.Stmts, env, seen, out)
		case *ast.SFor:
			if blk, ok := blockOf(s.Body); ok {
				d.collectLoopVars(blk.Stmts, env, seen, out)
			}
		}
	}
}

func (d *desugarer) getLoopVars(block *ast.BlockBody, env *Env) []string {
	var out []string
	d.collectLoopVars(block.Stmts, env, map[string]bool{}, &out)
	return out
}

// breakCall/repeatCall look up the innermost loop's `.post`/`.body` names
// and current variable values fresh against env — never a node resolved
// at some other depth — so they are correct no matter how many statement
// frames separate the break/repeat site from the loop's own binding.
func (d *desugarer) breakCall(env *Env) il.Node {
	if len(d.loopStack) == 0 {
		return &il.Err{Desc: "BreakOutsideLoop"}
	}
	return d.breakCallAt(env, d.loopStack[len(d.loopStack)-1].vars)
}

func (d *desugarer) breakCallAt(env *Env, names []string) il.Node {
	args := make([]il.Node, len(names))
	for i, n := range names {
		args[i] = refTo(env, n)
	}
	return &il.App{Fn: refTo(env, ".post"), Args: args}
}

func (d *desugarer) repeatCall(env *Env) il.Node {
	if len(d.loopStack) == 0 {
		return &il.Err{Desc: "RepeatOutsideLoop"}
	}
	names := d.loopStack[len(d.loopStack)-1].vars
	args := make([]il.Node, 0, len(names)+1)
	args = append(args, refTo(env, ".body"))
	for _, n := range names {
		args = append(args, refTo(env, n))
	}
	return &il.App{Fn: refTo(env, ".body"), Args: args}
}

// desugarLoopCPS builds the `.post`/`.body` self-passing continuation form
// shared by S-Loop, S-LoopWhile, and S-For:
//
//	let .post = (vars) -> kont(vars)
//	in let .body = (.body, vars) -> (optional cond check ->) bodyFn(.body, vars)
//	in .body(.body, initial-vars)
//
// bodyFn receives the frame env in which `.body` and every var name are
// bound and must produce that one iteration's statements, ending (on
// fallthrough) in an implicit repeat.
func (d *desugarer) desugarLoopCPS(vars []loopVar, hasCond bool, condExpr ast.Expr, bodyFn func(bodyCallEnv *Env) il.Node, env *Env, kont func(*Env) il.Node) il.Node {
	names := varNames(vars)

	postEnv := env.Extend([]string{".post"})
	postCallEnv := env.Extend(names)
	postFun := &il.Fun{Body: kont(postCallEnv)}

	bodyOuterEnv := postEnv.Extend([]string{".body"})
	bodyCallEnv := postEnv.Extend(append([]string{".body"}, names...))

	d.loopStack = append(d.loopStack, &loopScope{vars: names})
	stmtIL := bodyFn(bodyCallEnv)
	d.loopStack = d.loopStack[:len(d.loopStack)-1]

	bodyFunBody := stmtIL
	if hasCond {
		condIL := d.tagExpr(condExpr, bodyCallEnv)
		bodyFunBody = d.buildSwitch(condIL, stmtIL, d.breakCallAt(bodyCallEnv, names))
	}
	bodyFun := &il.Fun{Body: bodyFunBody}

	initArgs := make([]il.Node, 0, len(vars)+1)
	initArgs = append(initArgs, refTo(bodyOuterEnv, ".body"))
	for _, v := range vars {
		initArgs = append(initArgs, v.initFn(bodyOuterEnv))
	}
	callIL := &il.App{Fn: refTo(bodyOuterEnv, ".body"), Args: initArgs}

	inner := wrapLet(bodyFun, callIL)
	return wrapLet(postFun, inner)
}

func (d *desugarer) desugarSimpleLoop(s *ast.SLoop, env *Env, kont func(*Env) il.Node) il.Node {
	vars := d.surfaceLoopVars(s.Block, env)
	bodyFn := func(bodyCallEnv *Env) il.Node {
		return d.block(s.Block.Stmts, 0, bodyCallEnv, d.repeatCall)
	}
	return d.desugarLoopCPS(vars, false, nil, bodyFn, env, kont)
}

func (d *desugarer) desugarWhileLoop(s *ast.SLoopWhile, env *Env, kont func(*Env) il.Node) il.Node {
	vars := d.surfaceLoopVars(s.Block, env)
	bodyFn := func(bodyCallEnv *Env) il.Node {
		return d.block(s.Block.Stmts, 0, bodyCallEnv, d.repeatCall)
	}
	return d.desugarLoopCPS(vars, true, s.Cond, bodyFn, env, kont)
}

// forBodyStmts unwraps an SFor's Body into a statement list: a nested
// indented block contributes its own statements directly, an inline
// `for v in seq: expr` form is treated as a single expression statement.
func forBodyStmts(body ast.Expr) []ast.Stmt {
	if blk, ok := blockOf(body); ok {
		return blk.Stmts
	}
	return []ast.Stmt{&ast.ExprStmt{X: body}}
}

// desugarFor lowers `for v in seq: body` into a .iter/.idx-driven
// S-Loop-style CPS, calling seq.next(idx) each iteration and stopping once
// it returns an empty Vec (spec.md §4.3; the `next` contract fixed so an
// exhausted sequence never surfaces an Err to user code).
func (d *desugarer) desugarFor(s *ast.SFor, env *Env, kont func(*Env) il.Node) il.Node {
	seqIL := d.tagExpr(s.Seq, env)
	bodyStmts := forBodyStmts(s.Body)

	iterEnv := env.Extend([]string{".iter"})
	userVars := d.surfaceLoopVars(&ast.BlockBody{Stmts: bodyStmts}, iterEnv.Extend([]string{s.Name}))

	vars := append([]loopVar{{
		name:   ".idx",
		initFn: func(*Env) il.Node { return &il.Val{Type: il.Number, Arg: "0"} },
	}}, userVars...)

	bodyFn := func(bodyCallEnv *Env) il.Node {
		pairIL := &il.App{Fn: getProp(refTo(bodyCallEnv, ".iter"), "next"), Args: []il.Node{refTo(bodyCallEnv, ".idx")}}
		pairEnv := bodyCallEnv.Extend([]string{".pair"})

		lenIL := getProp(refTo(pairEnv, ".pair"), "len")
		isEmptyIL := &il.App{Fn: getProp(lenIL, "@=="), Args: []il.Node{&il.Val{Type: il.Number, Arg: "0"}}}
		breakIL := d.breakCallAt(pairEnv, varNames(vars))

		vIL := &il.App{Fn: getProp(refTo(pairEnv, ".pair"), "@[]"), Args: []il.Node{&il.Val{Type: il.Number, Arg: "0"}}}
		vEnv := pairEnv.Extend([]string{s.Name})

		idxIL := &il.App{Fn: getProp(refTo(vEnv, ".pair"), "@[]"), Args: []il.Node{&il.Val{Type: il.Number, Arg: "1"}}}
		idxEnv := vEnv.Extend([]string{".idx"})

		userIL := d.block(bodyStmts, 0, idxEnv, d.repeatCall)
		notEmptyBranch := wrapLet(vIL, wrapLet(idxIL, userIL))
		switchIL := d.buildSwitch(isEmptyIL, breakIL, notEmptyBranch)
		return wrapLet(pairIL, switchIL)
	}

	loopIL := d.desugarLoopCPS(vars, false, nil, bodyFn, iterEnv, kont)
	return wrapLet(seqIL, loopIL)
}
