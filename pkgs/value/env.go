package value

// Env is a lexical environment frame: an ordered, append-only sequence of
// bindings plus a link to the enclosing frame. Frames are never mutated
// once constructed, so sharing a *Env between multiple closures (or
// between a closure and the frame that created it) is always safe — no
// locks, no copy-on-write (spec.md §5).
type Env struct {
	Bindings []Value
	Parent   *Env
}

// NewEnv extends parent with a fresh frame holding bindings, in order. A
// call with no bindings (a zero-parameter closure invocation) returns
// parent unchanged rather than an empty frame: Lookup counts frames by
// walking Parent regardless of how many bindings they hold, so an empty
// frame would silently shift every `ups` inside the call by one relative
// to what the desugarer computed for it. desugar.Env.Extend mirrors this
// exact rule so the two stay in lockstep (pkgs/desugar/env.go).
func NewEnv(parent *Env, bindings []Value) *Env {
	if len(bindings) == 0 {
		return parent
	}
	return &Env{Bindings: bindings, Parent: parent}
}

// Lookup walks ups frames up from e, then indexes pos within that frame.
// It panics if the desugarer produced an out-of-range (ups, pos) pair,
// which would be a desugarer bug (spec.md invariant #1: every Arg
// resolves to a non-empty binding).
func (e *Env) Lookup(ups, pos int) Value {
	fr := e
	for i := 0; i < ups; i++ {
		fr = fr.Parent
	}
	return fr.Bindings[pos]
}

// Depth returns the number of frames from e to the root. Nothing in this
// module calls it: the desugarer's compile-time Env (see pkgs/desugar)
// counts frames itself when it computes `ups`.
func (e *Env) Depth() int {
	d := 0
	for fr := e; fr != nil; fr = fr.Parent {
		d++
	}
	return d
}
