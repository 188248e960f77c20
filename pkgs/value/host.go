package value

import "strconv"

// LibRoot names the four Val(Lib, name) roots the desugarer emits
// (spec.md §4.5).
const (
	LibGetProp = "getProp"
	LibVecNew  = "vecNew"
	LibMapDef  = "mapDef"
	LibStop    = "stop"
)

// ILNumber parses a Number literal's source text into a Num Value. The
// grammar guarantees well-formed decimal syntax by the time desugaring
// reaches a literal, so this never fails at this layer.
func ILNumber(text string) Value {
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Fault("BadNumber:" + text)
	}
	return Num(n)
}

// ILString builds a String value from already-decoded source text.
func ILString(text string) Value { return Str(text) }

// ILLib resolves one of the four library roots to its host callable.
func ILLib(name string) Value {
	switch name {
	case LibGetProp:
		return HFnVal(func(args []Value) (string, Value) {
			if v, ok := arity(args, 2); !ok {
				return v.ErrName, Value{}
			}
			out := GetProp(args[0], args[1])
			if out.Kind == KErr {
				return out.ErrName, Value{}
			}
			return "", out
		})
	case LibVecNew:
		return HFnVal(func(args []Value) (string, Value) {
			elems := make([]Value, len(args))
			copy(elems, args)
			return "", Vec(elems)
		})
	case LibMapDef:
		// mapDef is curried: App(Val(Lib,"mapDef"), keys) returns a
		// callable awaiting the values, in the same key order.
		return HFnVal(func(keyArgs []Value) (string, Value) {
			keys := make([]string, len(keyArgs))
			for i, k := range keyArgs {
				if k.Kind != KStr {
					return "BadPropertyType:Map", Value{}
				}
				keys[i] = k.Str
			}
			return "", HFnVal(func(valArgs []Value) (string, Value) {
				if len(valArgs) != len(keys) {
					return "ArityNot" + strconv.Itoa(len(keys)), Value{}
				}
				return "", MapVal(NewMap(keys, valArgs))
			})
		})
	case LibStop:
		return HFnVal(func(args []Value) (string, Value) {
			return "Stop", Value{}
		})
	default:
		return Fault("UnknownLib:" + name)
	}
}

// Manifest returns the initial top-level bindings, in the fixed order the
// desugarer's root Env must agree with: true, false, NewClass (see
// SPEC_FULL.md §12 — the "Manifest variable" the GLOSSARY names).
func Manifest() (names []string, values []Value) {
	names = []string{"true", "false", "NewClass"}
	values = []Value{
		Bool(true),
		Bool(false),
		HFnVal(func(args []Value) (string, Value) {
			if len(args) < 1 {
				return "ArityNot1", Value{}
			}
			nameArg := args[0]
			if nameArg.Kind != KStr {
				return "BadPropertyType:Cls", Value{}
			}
			fields := make([]string, len(args)-1)
			for i, a := range args[1:] {
				if a.Kind != KStr {
					return "BadPropertyType:Cls", Value{}
				}
				fields[i] = a.Str
			}
			return "", ClsVal(&Cls{Name: nameArg.Str, Fields: fields})
		}),
	}
	return names, values
}
