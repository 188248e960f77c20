package value

import "fmt"

// Accessor is a property lookup function: self -> propertyValue. A method
// is simply an accessor whose result is a callable (Kind == KHFn), so
// `x.m(a, b)` always lowers uniformly to `getProp(x, "m")(a, b)`
// (spec.md §4.5).
type Accessor func(self Value) Value

// Behavior is the property table for one value kind.
type Behavior map[string]Accessor

// Fault constructs the Err sentinel values the host layer raises on
// mismatch; names follow spec.md §7's runtime-fault taxonomy exactly.
func Fault(name string) Value { return ErrVal(name) }

func faultExpected(typeName string) Value {
	return Fault("Expected" + typeName)
}

// unop registers a property whose value is computed directly from self
// with no call — e.g. `x.len`, or unary `-x`, which desugar lowers to the
// property named by the operator itself (`-`).
func unop(fn func(self Value) Value) Accessor {
	return func(self Value) Value { return fn(self) }
}

// binop registers a method taking exactly one argument whose kind must
// match self's kind; fn computes the result from the two raw operands.
// This mirrors spec.md's "binops (a,b) -> value: uncurry and lift".
func binop(selfKind Kind, fn func(a, b Value) Value) Accessor {
	return func(self Value) Value {
		return HFnVal(func(args []Value) (string, Value) {
			if len(args) != 1 {
				return "ArityNot1", Value{}
			}
			arg := args[0]
			if arg.Kind != selfKind && arg.Kind != KErr {
				return faultExpected(selfKind.String()).ErrName, Value{}
			}
			out := fn(self, arg)
			if out.Kind == KErr {
				return out.ErrName, Value{}
			}
			return "", out
		})
	}
}

// method registers a method taking zero or more arguments, passed through
// as-is; fn may itself return an Err value to signal a fault.
func method(fn func(self Value, args []Value) Value) Accessor {
	return func(self Value) Value {
		return HFnVal(func(args []Value) (string, Value) {
			out := fn(self, args)
			if out.Kind == KErr {
				return out.ErrName, Value{}
			}
			return "", out
		})
	}
}

// arity checks args has exactly n elements, returning a fault Value (or
// the zero Value if the check passes — callers must check len(args)==n
// again before using this helper's zero-value "ok" return).
func arity(args []Value, n int) (Value, bool) {
	if len(args) != n {
		return Fault(fmt.Sprintf("ArityNot%d", n)), false
	}
	return Value{}, true
}
