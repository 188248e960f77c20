package eval

import (
	"github.com/aledsdavies/lumen/pkgs/ast"
	"github.com/aledsdavies/lumen/pkgs/value"
)

// Result is a tagged sub-result recorded during evaluation: the AST node a
// Tag op annotated and the value the tagged expression produced, plus
// enough of the trace to walk to its enclosing and nested tags (spec.md
// §4.4: "records a trace of tagged sub-results for error provenance").
type Result struct {
	e   *Eval
	key traceKey

	ast   ast.Node
	value value.Value
}

// Value returns the traced value (meaningless if IsFault is true).
func (r *Result) Value() value.Value { return r.value }

// IsFault reports whether the traced value is the Err sentinel.
func (r *Result) IsFault() bool { return r.value.Kind == value.KErr }

// ErrorName returns the fault name when IsFault is true, "" otherwise.
func (r *Result) ErrorName() string {
	if r.value.Kind != value.KErr {
		return ""
	}
	return r.value.ErrName
}

// GetAST returns the source node this result was tagged from.
func (r *Result) GetAST() ast.Node { return r.ast }

// GetParent returns the nearest enclosing tagged result, or nil if r is
// the outermost tag reached by this evaluation.
func (r *Result) GetParent() *Result {
	key, ok := r.e.findTag(r.key.frame, r.key.ii)
	if !ok {
		return nil
	}
	return r.e.resultFor(key)
}

// GetChildren returns every tagged result whose nearest enclosing tag is
// r, in the order they were recorded.
func (r *Result) GetChildren() []*Result {
	var out []*Result
	for _, k := range r.e.order {
		if k == r.key {
			continue
		}
		pk, ok := r.e.findTag(k.frame, k.ii)
		if ok && pk == r.key {
			out = append(out, r.e.resultFor(k))
		}
	}
	return out
}

func (e *Eval) resultFor(key traceKey) *Result {
	t, ok := e.trace[key]
	if !ok {
		// The tag's span faulted before its Tag op ran: take the node from
		// the op itself and report the fault as its value.
		t = tracedValue{ast: key.frame.ops[key.ii].ast}
		if e.err != nil {
			t.value = value.Fault(e.err.errName)
		}
	}
	return &Result{e: e, key: key, ast: t.ast, value: t.value}
}

// findTag implements spec.md §4.4's provenance search: starting after
// instruction ii, scan forward in the current frame for the next Tag op
// whose span covers ii; if the frame runs out, continue in the calling
// frame from the App instruction that made the call.
func (e *Eval) findTag(f *Frame, ii int) (traceKey, bool) {
	for f != nil {
		for j := ii + 1; j < len(f.ops); j++ {
			if f.ops[j].kind == opTag && ii >= j-f.ops[j].n {
				return traceKey{frame: f, ii: j}, true
			}
		}
		ii = f.upii - 1
		f = f.up
	}
	return traceKey{}, false
}

// GetResult returns the innermost tagged result once evaluation has
// finished: for a fault, the tag enclosing the faulting instruction; for
// a clean finish, the last tag recorded. pending is true while the run
// is still in progress (spec.md §4.4's "getResult()").
func (e *Eval) GetResult() (result *Result, pending bool) {
	if !e.done {
		return nil, true
	}
	if e.err != nil {
		key, ok := e.findTag(e.err.frame, e.err.ii)
		if !ok {
			return nil, false
		}
		return e.resultFor(key), false
	}
	if len(e.order) == 0 {
		return nil, false
	}
	return e.resultFor(e.order[len(e.order)-1]), false
}

// FindResult looks up a specific tagged result by the (frame, ii)
// position its Tag op ran at, or nil if none was recorded there.
func (e *Eval) FindResult(f *Frame, ii int) *Result {
	key := traceKey{frame: f, ii: ii}
	if _, ok := e.trace[key]; !ok {
		return nil
	}
	return e.resultFor(key)
}

// Error reports the fault this evaluation stopped on, if any.
func (e *Eval) Error() (errName string, ok bool) {
	if e.err == nil {
		return "", false
	}
	return e.err.errName, true
}

// ErrorHint reports the "did you mean" suggestion desugar attached to the
// fault this evaluation stopped on, if any (blank for most fault kinds;
// only an Undefined name carries one).
func (e *Eval) ErrorHint() string {
	if e.err == nil {
		return ""
	}
	return e.err.errHint
}

// StackTop returns the final value on the value stack once the run has
// finished without faulting; ok is false otherwise.
func (e *Eval) StackTop() (v value.Value, ok bool) {
	if e.GetState() != StateDone || len(e.stack) == 0 {
		return value.Value{}, false
	}
	return e.stack[len(e.stack)-1], true
}
