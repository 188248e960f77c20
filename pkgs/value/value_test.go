package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVecSetContiguity(t *testing.T) {
	v := Vec([]Value{Num(1), Num(2)})
	acc := vecBehavior["set"](v)
	_, out := acc.HFn([]Value{Num(2), Num(3)})
	require.Equal(t, KVec, out.Kind)
	assert.Equal(t, []Value{Num(1), Num(2), Num(3)}, out.Vec)

	errName, _ := acc.HFn([]Value{Num(5), Num(3)})
	assert.Equal(t, "Bounds", errName)
}

func TestMapSetPreservesOrder(t *testing.T) {
	m := NewMap([]string{"a", "b"}, []Value{Num(1), Num(2)})
	m2 := m.Set("a", Num(9))
	require.Equal(t, 2, m2.Len())
	val, ok := m2.Get("a")
	require.True(t, ok)
	assert.Equal(t, Num(9), val)
	var keys []string
	m2.Each(func(k string, _ Value) { keys = append(keys, k) })
	assert.Equal(t, []string{"a", "b"}, keys)

	// original untouched
	orig, _ := m.Get("a")
	assert.Equal(t, Num(1), orig)

	m3 := m.Set("c", Num(3))
	assert.Equal(t, 3, m3.Len())
}

func TestGetPropUnknown(t *testing.T) {
	out := GetProp(Num(1), Str("nope"))
	require.Equal(t, KErr, out.Kind)
	assert.Equal(t, "UnknownProperty:Num/nope", out.ErrName)
}

func TestGetPropBadPropertyType(t *testing.T) {
	out := GetProp(Num(1), Num(2))
	require.Equal(t, KErr, out.Kind)
	assert.Equal(t, "BadPropertyType:Num", out.ErrName)
}

func TestStrSlice(t *testing.T) {
	acc := strBehavior["slice"](Str("abcdef"))
	_, out := acc.HFn([]Value{Num(1), Num(3)})
	assert.Equal(t, Str("bc"), out)
}

func TestClsNewAndMatches(t *testing.T) {
	cls := &Cls{Name: "Point", Fields: []string{"x", "y"}}
	clsVal := ClsVal(cls)

	newAcc := clsBehavior["new"](clsVal)
	_, obj := newAcc.HFn([]Value{Num(1), Num(2)})
	require.Equal(t, KObj, obj.Kind)

	matchesAcc := clsBehavior["matches"](clsVal)
	_, result := matchesAcc.HFn([]Value{obj})
	assert.Equal(t, Bool(true), result)
}
