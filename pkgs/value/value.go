// Package value implements the host value system: the tagged runtime
// Value type, the lexical Env chain closures capture, and the behavior
// tables ("methods") that back property and operator dispatch. See
// spec.md §3 (Runtime value) and §4.5 (Host value system).
package value

import "fmt"

// Kind tags which variant of Value is populated.
type Kind int

const (
	KBool Kind = iota
	KNum
	KStr
	KVec
	KMap
	KObj
	KCls
	KFun
	KHFn
	KErr
)

func (k Kind) String() string {
	switch k {
	case KBool:
		return "Bool"
	case KNum:
		return "Num"
	case KStr:
		return "Str"
	case KVec:
		return "Vec"
	case KMap:
		return "Map"
	case KObj:
		return "Obj"
	case KCls:
		return "Cls"
	case KFun:
		return "Fun"
	case KHFn:
		return "HFn"
	case KErr:
		return "Err"
	default:
		return "?"
	}
}

// Closure is a user-defined function value: a lambda body together with
// the lexical environment it was created in.
type Closure struct {
	Body ClosureBody
	Env  *Env
}

// ClosureBody holds a closure's compiled body: pkgs/eval stores its []Op
// here (kept as `any` so this package does not need to import pkgs/eval,
// which imports this one). The evaluator is the only consumer that needs
// to recover the concrete []Op.
type ClosureBody interface{}

// HostFunc is a host-implemented callable (a "library root" or a method
// produced by the behavior-table constructors in behavior.go).
type HostFunc func(args []Value) (errName string, out Value)

// Obj is an instance of a user-defined Cls: an ordered list of field
// values matching Cls.Fields.
type Obj struct {
	Class  *Cls
	Values []Value
}

// Cls is a user-defined class: just its field name list. Classes are
// nominal — two Cls values with the same Fields are different classes
// unless they are the same *Cls (matches spec.md's "Cls.matches(v)" being
// about class identity, not shape).
type Cls struct {
	Name   string
	Fields []string
}

// Value is the tagged runtime value. Only the field matching Kind is
// meaningful; the others are zero. Values are immutable once constructed:
// operations that appear to mutate (Vec.set, Map.set, Obj.setProp) return
// a new Value and leave the receiver untouched (spec.md §5).
type Value struct {
	Kind Kind

	Bool bool
	Num  float64
	Str  string
	Vec  []Value
	Map  *Map
	Obj  *Obj
	Cls  *Cls
	Fun  *Closure
	HFn  HostFunc
	// ErrName is populated when Kind == KErr; Err is a sentinel that must
	// never be allowed to flow into user-visible positions (spec.md §3).
	ErrName string
}

func Bool(b bool) Value      { return Value{Kind: KBool, Bool: b} }
func Num(n float64) Value    { return Value{Kind: KNum, Num: n} }
func Str(s string) Value     { return Value{Kind: KStr, Str: s} }
func Vec(elems []Value) Value {
	return Value{Kind: KVec, Vec: elems}
}
func MapVal(m *Map) Value { return Value{Kind: KMap, Map: m} }
func ObjVal(o *Obj) Value { return Value{Kind: KObj, Obj: o} }
func ClsVal(c *Cls) Value { return Value{Kind: KCls, Cls: c} }
func FunVal(body ClosureBody, env *Env) Value {
	return Value{Kind: KFun, Fun: &Closure{Body: body, Env: env}}
}
func HFnVal(fn HostFunc) Value { return Value{Kind: KHFn, HFn: fn} }
func ErrVal(name string) Value { return Value{Kind: KErr, ErrName: name} }

// IsCallable reports whether v can appear as the function in an App.
func (v Value) IsCallable() bool { return v.Kind == KFun || v.Kind == KHFn }

func (v Value) String() string {
	switch v.Kind {
	case KBool:
		return fmt.Sprintf("%v", v.Bool)
	case KNum:
		return formatNum(v.Num)
	case KStr:
		return v.Str
	case KVec:
		s := "["
		for i, e := range v.Vec {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + "]"
	case KMap:
		return v.Map.String()
	case KObj:
		return fmt.Sprintf("%s{...}", v.Obj.Class.Name)
	case KCls:
		return fmt.Sprintf("class %s", v.Cls.Name)
	case KFun, KHFn:
		return "<function>"
	case KErr:
		return "Err:" + v.ErrName
	default:
		return "?"
	}
}

func formatNum(n float64) string {
	if n == float64(int64(n)) {
		return fmt.Sprintf("%d", int64(n))
	}
	return fmt.Sprintf("%g", n)
}
