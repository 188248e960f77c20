package eval

import (
	"github.com/aledsdavies/lumen/pkgs/il"
	"github.com/aledsdavies/lumen/pkgs/value"
)

// Run compiles node and evaluates it to completion under env using the
// default host, returning the final value or the fault name it stopped
// on. Most tests use it; cmd/lumen calls New/Compile and steps the *Eval
// itself with Sync/GetState so it can cap and count steps.
func Run(node il.Node, env *value.Env) (value.Value, error) {
	e := New(Compile(node), env, DefaultHost{})
	e.Sync(0)
	if errName, ok := e.Error(); ok {
		return value.Value{}, &Fault{Name: errName, Hint: e.ErrorHint(), Eval: e}
	}
	v, _ := e.StackTop()
	return v, nil
}

// Fault reports a runtime error, carrying the Eval that produced it so a
// caller can recover source provenance via GetResult/FindResult.
type Fault struct {
	Name string
	Hint string
	Eval *Eval
}

func (f *Fault) Error() string { return "fault: " + f.Name }
