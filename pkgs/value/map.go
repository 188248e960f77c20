package value

import "strings"

// Map is an ordered sequence of (key, value) pairs, keys always Str.
// Set preserves insertion order: replacing an existing key keeps its
// original position; a new key is appended (spec.md invariant #4).
type Map struct {
	keys   []string
	values []Value
	index  map[string]int
}

// NewMap builds a Map from parallel keys/values slices, in order. A
// repeated key in the input keeps only its last value, at its first
// occurrence's position, matching the semantics of repeated Set calls.
func NewMap(keys []string, values []Value) *Map {
	m := &Map{index: make(map[string]int, len(keys))}
	for i, k := range keys {
		m.set(k, values[i])
	}
	return m
}

func (m *Map) set(key string, v Value) {
	if i, ok := m.index[key]; ok {
		m.values[i] = v
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, v)
}

// Set returns a new Map with key bound to v, leaving the receiver
// unchanged (values are immutable, spec.md §5).
func (m *Map) Set(key string, v Value) *Map {
	out := &Map{
		keys:   append([]string(nil), m.keys...),
		values: append([]Value(nil), m.values...),
		index:  make(map[string]int, len(m.index)+1),
	}
	for k, i := range m.index {
		out.index[k] = i
	}
	out.set(key, v)
	return out
}

// Get reports the value bound to key, if any.
func (m *Map) Get(key string) (Value, bool) {
	i, ok := m.index[key]
	if !ok {
		return Value{}, false
	}
	return m.values[i], true
}

// Len reports the number of distinct keys.
func (m *Map) Len() int { return len(m.keys) }

// Each calls fn for every (key, value) pair in insertion order.
func (m *Map) Each(fn func(key string, v Value)) {
	for i, k := range m.keys {
		fn(k, m.values[i])
	}
}

func (m *Map) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(m.values[i].String())
	}
	b.WriteByte('}')
	return b.String()
}
