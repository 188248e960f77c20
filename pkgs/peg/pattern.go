// Package peg implements a small combinator library for Parsing Expression
// Grammars with stateful matching, in the style LPeg popularized: patterns
// are values, not parser objects, and grammars are built by composing them.
//
// Unlike most PEG engines this one threads an explicit, opaque, user-owned
// state value through every match alongside position and captures: state
// is passed by value into `match` and the possibly-updated copy comes back
// out on success. Failure never touches the caller's state. pkgs/parser
// does not use this state: it matches its lexical classes with a nil state
// and keeps block indent in its own mutable parser struct.
package peg

// Pattern is the matcher contract every combinator implements. Subject is
// the full input text; pos is the byte offset to start matching at; state
// is the opaque, user-threaded value. On success it returns the position
// after the match (always >= pos), a possibly empty ordered sequence of
// captures, and the (possibly updated) state. On failure it returns
// ok == false and the other return values must be ignored by the caller.
type Pattern interface {
	match(subject string, pos int, state any) (posOut int, captures []any, stateOut any, ok bool)
	String() string
}

// Match runs p against subject starting at pos with the given initial
// state, and reports whether it succeeded.
func Match(p Pattern, subject string, pos int, state any) (posOut int, captures []any, stateOut any, ok bool) {
	return p.match(subject, pos, state)
}

// Func adapts a plain function into a Pattern, for user-defined matchers.
func Func(name string, fn func(subject string, pos int, state any) (int, []any, any, bool)) Pattern {
	return &funcPattern{name: name, fn: fn}
}

type funcPattern struct {
	name string
	fn   func(subject string, pos int, state any) (int, []any, any, bool)
}

func (f *funcPattern) match(subject string, pos int, state any) (int, []any, any, bool) {
	return f.fn(subject, pos, state)
}

func (f *funcPattern) String() string { return f.name }

// Lit matches the exact literal bytes of s.
func Lit(s string) Pattern { return litPattern(s) }

type litPattern string

func (p litPattern) match(subject string, pos int, state any) (int, []any, any, bool) {
	s := string(p)
	if pos+len(s) > len(subject) {
		return pos, nil, state, false
	}
	if subject[pos:pos+len(s)] != s {
		return pos, nil, state, false
	}
	return pos + len(s), nil, state, true
}

func (p litPattern) String() string { return "Lit(" + string(p) + ")" }

// Any matches exactly n bytes, failing if fewer than n bytes remain.
func Any(n int) Pattern { return anyPattern(n) }

type anyPattern int

func (p anyPattern) match(subject string, pos int, state any) (int, []any, any, bool) {
	n := int(p)
	if pos+n > len(subject) {
		return pos, nil, state, false
	}
	return pos + n, nil, state, true
}

func (p anyPattern) String() string { return "Any(n)" }
