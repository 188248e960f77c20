package eval

import (
	"github.com/google/uuid"

	"github.com/aledsdavies/lumen/pkgs/ast"
	"github.com/aledsdavies/lumen/pkgs/value"
)

// Frame is one activation in the explicit call stack: ops being run, the
// next instruction index, the environment the ops index into, and where
// to resume in the calling frame once ops is exhausted (spec.md §4.4:
// "A frame is {expr, env, up, upii}").
type Frame struct {
	ops  []Op
	ii   int
	env  *value.Env
	up   *Frame
	upii int
}

// State reports whether Sync can still make progress.
type State int

const (
	StateRunning State = iota
	StateDone
	StateFault
)

type traceKey struct {
	frame *Frame
	ii    int
}

// errorRecord pins a fault to the instruction that raised it, so
// findTag can still walk outward from it after the main loop stops.
type errorRecord struct {
	errName string
	errHint string
	frame   *Frame
	ii      int
}

// Eval is one evaluation run: a value stack, the currently active frame,
// and the trace of every Tag op executed so far, keyed by the (frame, ii)
// position of the Tag itself.
type Eval struct {
	ID string

	host  Host
	stack []value.Value
	frame *Frame

	trace map[traceKey]tracedValue
	order []traceKey

	err  *errorRecord
	done bool
}

type tracedValue struct {
	ast   ast.Node
	value value.Value
}

// New starts a fresh evaluation of ops under env.
func New(ops []Op, env *value.Env, host Host) *Eval {
	return &Eval{
		ID:    uuid.NewString(),
		host:  host,
		frame: &Frame{ops: ops, env: env},
		trace: map[traceKey]tracedValue{},
	}
}

func (e *Eval) push(v value.Value) { e.stack = append(e.stack, v) }

func (e *Eval) pop() value.Value {
	v := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return v
}

// GetState reports whether the run is still progressing, finished
// cleanly, or finished on a fault.
func (e *Eval) GetState() State {
	if !e.done {
		return StateRunning
	}
	if e.err != nil {
		return StateFault
	}
	return StateDone
}

// Sync advances the frame machine at most maxSteps instructions (0 means
// run to completion), matching spec.md §4.4's cooperative "sync(maxSteps)"
// entry point.
func (e *Eval) Sync(maxSteps int) {
	steps := 0
	for !e.done {
		if maxSteps > 0 && steps >= maxSteps {
			return
		}
		e.step()
		steps++
	}
}

func (e *Eval) fault(errName, errHint string, f *Frame, ii int) {
	e.err = &errorRecord{errName: errName, errHint: errHint, frame: f, ii: ii}
	e.done = true
}

func (e *Eval) step() {
	f := e.frame
	if f == nil {
		e.done = true
		return
	}
	if f.ii >= len(f.ops) {
		if f.up == nil {
			e.done = true
			return
		}
		parent := f.up
		parent.ii = f.upii
		e.frame = parent
		return
	}

	op := f.ops[f.ii]
	switch op.kind {
	case opVal:
		e.push(op.val)
		f.ii++

	case opArg:
		e.push(f.env.Lookup(op.ups, op.pos))
		f.ii++

	case opFun:
		e.push(value.FunVal(op.body, f.env))
		f.ii++

	case opErr:
		e.fault(op.errName, op.errHint, f, f.ii)

	case opTag:
		top := e.stack[len(e.stack)-1]
		key := traceKey{frame: f, ii: f.ii}
		e.trace[key] = tracedValue{ast: op.ast, value: top}
		e.order = append(e.order, key)
		f.ii++

	case opApp:
		n := op.nargs
		args := make([]value.Value, n)
		copy(args, e.stack[len(e.stack)-n:])
		e.stack = e.stack[:len(e.stack)-n]
		fn := e.pop()

		if e.host.IsFun(fn) {
			callEnv := value.NewEnv(e.host.FunEnv(fn), args)
			e.frame = &Frame{ops: e.host.FunOps(fn), env: callEnv, up: f, upii: f.ii + 1}
			return
		}
		errName, out := e.host.Call(fn, args)
		if errName != "" {
			e.fault(errName, "", f, f.ii)
			return
		}
		e.push(out)
		f.ii++
	}
}
