package value

import (
	"math"
	"strconv"
)

// BehaviorFor returns the property table for v's kind.
func BehaviorFor(v Value) Behavior {
	switch v.Kind {
	case KBool:
		return boolBehavior
	case KNum:
		return numBehavior
	case KStr:
		return strBehavior
	case KVec:
		return vecBehavior
	case KMap:
		return mapBehavior
	case KCls:
		return clsBehavior
	case KObj:
		return objBehavior(v.Obj)
	default:
		return nil
	}
}

// GetProp is the universal dot/method/operator entry point: behavior-table
// lookup for v.name, producing the runtime faults spec.md §4.5/§7 name.
func GetProp(v Value, name Value) Value {
	if name.Kind != KStr {
		return Fault("BadPropertyType:" + v.Kind.String())
	}
	b := BehaviorFor(v)
	if b == nil {
		return Fault("UnknownProperty:" + v.Kind.String() + "/" + name.Str)
	}
	acc, ok := b[name.Str]
	if !ok {
		return Fault("UnknownProperty:" + v.Kind.String() + "/" + name.Str)
	}
	return acc(v)
}

var boolBehavior = Behavior{
	"not": unop(func(self Value) Value { return Bool(!self.Bool) }),
	"@or": binop(KBool, func(a, b Value) Value { return Bool(a.Bool || b.Bool) }),
	"@and": binop(KBool, func(a, b Value) Value { return Bool(a.Bool && b.Bool) }),
	"@==": binop(KBool, func(a, b Value) Value { return Bool(a.Bool == b.Bool) }),
	"@!=": binop(KBool, func(a, b Value) Value { return Bool(a.Bool != b.Bool) }),
	"switch": method(func(self Value, args []Value) Value {
		if v, ok := arity(args, 2); !ok {
			return v
		}
		if self.Bool {
			return args[0]
		}
		return args[1]
	}),
}

var numBehavior = Behavior{
	"-":  unop(func(self Value) Value { return Num(-self.Num) }),
	"@^": binop(KNum, func(a, b Value) Value { return Num(math.Pow(a.Num, b.Num)) }),
	"@*": binop(KNum, func(a, b Value) Value { return Num(a.Num * b.Num) }),
	"@/": binop(KNum, func(a, b Value) Value {
		if b.Num == 0 {
			return Fault("Bounds")
		}
		return Num(a.Num / b.Num)
	}),
	"@//": binop(KNum, func(a, b Value) Value {
		if b.Num == 0 {
			return Fault("Bounds")
		}
		return Num(math.Floor(a.Num / b.Num))
	}),
	"@%":  binop(KNum, func(a, b Value) Value { return Num(math.Mod(a.Num, b.Num)) }),
	"@+":  binop(KNum, func(a, b Value) Value { return Num(a.Num + b.Num) }),
	"@-":  binop(KNum, func(a, b Value) Value { return Num(a.Num - b.Num) }),
	"@<":  binop(KNum, func(a, b Value) Value { return Bool(a.Num < b.Num) }),
	"@==": binop(KNum, func(a, b Value) Value { return Bool(a.Num == b.Num) }),
	"@!=": binop(KNum, func(a, b Value) Value { return Bool(a.Num != b.Num) }),
	"@<=": binop(KNum, func(a, b Value) Value { return Bool(a.Num <= b.Num) }),
	"@>=": binop(KNum, func(a, b Value) Value { return Bool(a.Num >= b.Num) }),
	"@>":  binop(KNum, func(a, b Value) Value { return Bool(a.Num > b.Num) }),
}

var strBehavior = Behavior{
	"len": unop(func(self Value) Value { return Num(float64(len(self.Str))) }),
	"@<":  binop(KStr, func(a, b Value) Value { return Bool(a.Str < b.Str) }),
	"@==": binop(KStr, func(a, b Value) Value { return Bool(a.Str == b.Str) }),
	"@!=": binop(KStr, func(a, b Value) Value { return Bool(a.Str != b.Str) }),
	"@<=": binop(KStr, func(a, b Value) Value { return Bool(a.Str <= b.Str) }),
	"@>=": binop(KStr, func(a, b Value) Value { return Bool(a.Str >= b.Str) }),
	"@>":  binop(KStr, func(a, b Value) Value { return Bool(a.Str > b.Str) }),
	"@++": binop(KStr, func(a, b Value) Value { return Str(a.Str + b.Str) }),
	"slice": method(func(self Value, args []Value) Value {
		if v, ok := arity(args, 2); !ok {
			return v
		}
		start, limit := args[0], args[1]
		if start.Kind != KNum || limit.Kind != KNum {
			return faultExpected("Num")
		}
		s, l := int(start.Num), int(limit.Num)
		if s < 0 || l < s || l > len(self.Str) {
			return Fault("Bounds")
		}
		return Str(self.Str[s:l])
	}),
	"@[]": method(func(self Value, args []Value) Value {
		if v, ok := arity(args, 1); !ok {
			return v
		}
		idx := args[0]
		if idx.Kind != KNum {
			return faultExpected("Num")
		}
		i := int(idx.Num)
		if i < 0 || i >= len(self.Str) {
			return Fault("Bounds")
		}
		return Num(float64(self.Str[i]))
	}),
}

var vecBehavior = Behavior{
	"len": unop(func(self Value) Value { return Num(float64(len(self.Vec))) }),
	"@++": binop(KVec, func(a, b Value) Value {
		out := make([]Value, 0, len(a.Vec)+len(b.Vec))
		out = append(out, a.Vec...)
		out = append(out, b.Vec...)
		return Vec(out)
	}),
	"slice": method(func(self Value, args []Value) Value {
		if v, ok := arity(args, 2); !ok {
			return v
		}
		start, limit := args[0], args[1]
		if start.Kind != KNum || limit.Kind != KNum {
			return faultExpected("Num")
		}
		s, l := int(start.Num), int(limit.Num)
		if s < 0 || l < s || l > len(self.Vec) {
			return Fault("Bounds")
		}
		out := make([]Value, l-s)
		copy(out, self.Vec[s:l])
		return Vec(out)
	}),
	// set enforces contiguity: a new index may equal len (growing by one)
	// but never exceed it (spec.md invariant #5).
	"set": method(func(self Value, args []Value) Value {
		if v, ok := arity(args, 2); !ok {
			return v
		}
		idx := args[0]
		if idx.Kind != KNum {
			return faultExpected("Num")
		}
		i := int(idx.Num)
		if i < 0 || i > len(self.Vec) {
			return Fault("Bounds")
		}
		out := make([]Value, len(self.Vec), len(self.Vec)+1)
		copy(out, self.Vec)
		if i == len(out) {
			out = append(out, args[1])
		} else {
			out[i] = args[1]
		}
		return Vec(out)
	}),
	"@[]": method(func(self Value, args []Value) Value {
		if v, ok := arity(args, 1); !ok {
			return v
		}
		idx := args[0]
		if idx.Kind != KNum {
			return faultExpected("Num")
		}
		i := int(idx.Num)
		if i < 0 || i >= len(self.Vec) {
			return Fault("Bounds")
		}
		return self.Vec[i]
	}),
	// next supports `for v in seq:` loop lowering (SPEC_FULL §12): an
	// empty Vec means the sequence is exhausted, so callers never need to
	// observe an Err value (which may never flow to user code, spec.md
	// invariant #2) to detect the end of iteration.
	"next": method(func(self Value, args []Value) Value {
		if v, ok := arity(args, 1); !ok {
			return v
		}
		idx := args[0]
		if idx.Kind != KNum {
			return faultExpected("Num")
		}
		i := int(idx.Num)
		if i >= len(self.Vec) {
			return Vec(nil)
		}
		return Vec([]Value{self.Vec[i], Num(float64(i + 1))})
	}),
}

var mapBehavior = Behavior{
	"set": method(func(self Value, args []Value) Value {
		if v, ok := arity(args, 2); !ok {
			return v
		}
		key := args[0]
		if key.Kind != KStr {
			return faultExpected("Str")
		}
		return MapVal(self.Map.Set(key.Str, args[1]))
	}),
	"@[]": method(func(self Value, args []Value) Value {
		if v, ok := arity(args, 1); !ok {
			return v
		}
		key := args[0]
		if key.Kind != KStr {
			return faultExpected("Str")
		}
		out, ok := self.Map.Get(key.Str)
		if !ok {
			return Fault("NotFound")
		}
		return out
	}),
}

var clsBehavior = Behavior{
	"new": method(func(self Value, args []Value) Value {
		if len(args) != len(self.Cls.Fields) {
			return Fault("ArityNot" + strconv.Itoa(len(self.Cls.Fields)))
		}
		values := make([]Value, len(args))
		copy(values, args)
		return ObjVal(&Obj{Class: self.Cls, Values: values})
	}),
	"matches": method(func(self Value, args []Value) Value {
		if v, ok := arity(args, 1); !ok {
			return v
		}
		return Bool(args[0].Kind == KObj && args[0].Obj.Class == self.Cls)
	}),
	"match": method(func(self Value, args []Value) Value {
		if v, ok := arity(args, 3); !ok {
			return v
		}
		target, onThen, onElse := args[0], args[1], args[2]
		if target.Kind == KObj && target.Obj.Class == self.Cls {
			return callValue(onThen, target.Obj.Values)
		}
		return callValue(onElse, nil)
	}),
}

// objBehavior builds a per-instance table: one accessor per field plus
// setProp. Built per-call rather than cached because field names vary by
// class.
func objBehavior(o *Obj) Behavior {
	b := make(Behavior, len(o.Class.Fields)+1)
	for i, name := range o.Class.Fields {
		i := i
		b[name] = unop(func(self Value) Value { return self.Obj.Values[i] })
	}
	b["setProp"] = method(func(self Value, args []Value) Value {
		if v, ok := arity(args, 2); !ok {
			return v
		}
		name := args[0]
		if name.Kind != KStr {
			return faultExpected("Str")
		}
		idx := -1
		for i, f := range self.Obj.Class.Fields {
			if f == name.Str {
				idx = i
				break
			}
		}
		if idx < 0 {
			return Fault("UnknownProperty:Obj/" + name.Str)
		}
		values := make([]Value, len(self.Obj.Values))
		copy(values, self.Obj.Values)
		values[idx] = args[1]
		return ObjVal(&Obj{Class: self.Obj.Class, Values: values})
	})
	return b
}

// callValue is a narrow helper used by Cls.match to invoke a thunk; the
// evaluator supplies the real, trace-aware call path (see pkgs/eval), so
// this is only reachable when a host accessor itself needs to invoke a
// continuation synchronously without evaluator bookkeeping — pkgs/eval
// installs the real call path through SetCaller in its package init.
var callValue = func(fn Value, args []Value) Value {
	panic("value: callValue not wired — pkgs/eval installs it via SetCaller")
}

// SetCaller lets the evaluator install the real call path once it exists,
// breaking the otherwise-cyclic dependency of value -> eval for the one
// spot (Cls.match) where a host accessor must itself perform a call.
func SetCaller(fn func(Value, []Value) Value) {
	callValue = fn
}

