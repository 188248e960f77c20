package eval

import "github.com/aledsdavies/lumen/pkgs/value"

// Host decouples the frame machine from the concrete value representation
// (spec.md §4.4's "dispatches calls to closures or host-provided
// callables"): IsFun/FunOps/FunEnv let the machine re-enter a user
// closure as a new frame instead of a host call, and Call covers every
// other callable (library roots, method values, host-provided
// constructors).
type Host interface {
	IsFun(v value.Value) bool
	FunOps(v value.Value) []Op
	FunEnv(v value.Value) *value.Env
	Call(fn value.Value, args []value.Value) (errName string, out value.Value)
}

// DefaultHost implements Host directly over pkgs/value's Closure/HostFunc
// representation — the only Host this module's cmd/lumen ever installs,
// but kept behind the interface so the frame machine itself stays
// value-representation agnostic.
type DefaultHost struct{}

func (DefaultHost) IsFun(v value.Value) bool { return v.Kind == value.KFun }

func (DefaultHost) FunOps(v value.Value) []Op { return v.Fun.Body.([]Op) }

func (DefaultHost) FunEnv(v value.Value) *value.Env { return v.Fun.Env }

func (DefaultHost) Call(fn value.Value, args []value.Value) (string, value.Value) {
	if fn.Kind != value.KHFn {
		return "NotAFunction", value.Value{}
	}
	return fn.HFn(args)
}

// init wires value.SetCaller so a host accessor that itself needs to
// invoke a user closure synchronously — Cls.match's onThen/onElse thunk —
// can do so without a second entry point into the frame machine: it runs
// a nested, self-contained Eval to completion and returns its value (or
// the fault it stopped on, as the usual Err sentinel).
func init() {
	value.SetCaller(callSync)
}

func callSync(fn value.Value, args []value.Value) value.Value {
	host := DefaultHost{}
	if host.IsFun(fn) {
		env := value.NewEnv(host.FunEnv(fn), args)
		e := New(host.FunOps(fn), env, host)
		e.Sync(0)
		if errName, ok := e.Error(); ok {
			return value.Fault(errName)
		}
		v, _ := e.StackTop()
		return v
	}
	errName, out := host.Call(fn, args)
	if errName != "" {
		return value.Fault(errName)
	}
	return out
}
