// Package desugar lowers pkgs/ast trees into pkgs/il trees, resolving
// lexical names to de Bruijn (ups, pos) pairs and expanding loops,
// pattern matching, assignment, and block continuations into the core
// IL forms (spec.md §4.3).
package desugar

// Env is the desugarer's compile-time lexical environment: a frame stack
// of name lists mirroring the runtime Env's binding shape one-for-one
// (pkgs/value.Env), so a name resolved here to (ups, pos) indexes the
// identical frame at evaluation time.
type Env struct {
	names  []string
	parent *Env
}

// NewEnv builds a root environment from the initial (e.g. Manifest)
// binding names, in order.
func NewEnv(names []string) *Env {
	return &Env{names: append([]string(nil), names...)}
}

// Extend returns a child environment binding names, in order, as a new
// frame in front of e. A call with no names returns e unchanged: it must
// mirror value.Env.NewEnv's same rule for a zero-argument call, or `ups`
// computed here would be off by one relative to what actually runs
// (pkgs/value/env.go).
func (e *Env) Extend(names []string) *Env {
	if len(names) == 0 {
		return e
	}
	return &Env{names: append([]string(nil), names...), parent: e}
}

// AllNames collects every name bound anywhere in e's frame chain, for
// fuzzy "did you mean" suggestions on an Undefined fault.
func (e *Env) AllNames() []string {
	var out []string
	for fr := e; fr != nil; fr = fr.parent {
		out = append(out, fr.names...)
	}
	return out
}

// Find resolves name to (ups, pos): ups counts frames from e outward to
// the frame that binds it, pos is name's index within that frame. A
// frame is searched back-to-front so the most recently bound occurrence
// of a repeated name wins, matching the shadowing semantics loop-var
// threading relies on.
func (e *Env) Find(name string) (ups, pos int, ok bool) {
	depth := 0
	for fr := e; fr != nil; fr = fr.parent {
		for i := len(fr.names) - 1; i >= 0; i-- {
			if fr.names[i] == name {
				return depth, i, true
			}
		}
		depth++
	}
	return 0, 0, false
}
