package peg

// CC matches the empty string and produces the given values as captures,
// regardless of subject or position. Used to inject constants into a
// capture sequence (e.g. an AST node tag) alongside captures gathered by
// sibling patterns in an And.
func CC(values ...any) Pattern { return ccPattern(values) }

type ccPattern []any

func (c ccPattern) match(subject string, pos int, state any) (int, []any, any, bool) {
	out := make([]any, len(c))
	copy(out, c)
	return pos, out, state, true
}

func (c ccPattern) String() string { return "CC(...)" }

// Cpos matches the empty string and captures the current byte position.
var Cpos Pattern = cposPattern{}

type cposPattern struct{}

func (cposPattern) match(subject string, pos int, state any) (int, []any, any, bool) {
	return pos, []any{pos}, state, true
}

func (cposPattern) String() string { return "Cpos" }

// Cap wraps p so that, on success, its entire matched substring becomes its
// single capture (discarding whatever captures p itself produced). This is
// the `.C` suffix operator in the spec.
func Cap(p Pattern) Pattern { return capPattern{p} }

type capPattern struct{ p Pattern }

func (c capPattern) match(subject string, pos int, state any) (int, []any, any, bool) {
	next, _, nst, ok := c.p.match(subject, pos, state)
	if !ok {
		return pos, nil, state, false
	}
	return next, []any{subject[pos:next]}, nst, true
}

func (c capPattern) String() string { return "Cap(" + c.p.String() + ")" }

// All wraps p so that, on success, its captures are collapsed into a single
// capture holding the slice of them. This is the `.A` suffix operator.
func All(p Pattern) Pattern { return allPattern{p} }

type allPattern struct{ p Pattern }

func (a allPattern) match(subject string, pos int, state any) (int, []any, any, bool) {
	next, caps, nst, ok := a.p.match(subject, pos, state)
	if !ok {
		return pos, nil, state, false
	}
	arr := make([]any, len(caps))
	copy(arr, caps)
	return next, []any{arr}, nst, true
}

func (a allPattern) String() string { return "All(" + a.p.String() + ")" }

// Fold wraps p, transforming its captures through fn. This is the `.F`
// suffix operator.
func Fold(p Pattern, fn func([]any) []any) Pattern { return foldPattern{p, fn} }

type foldPattern struct {
	p  Pattern
	fn func([]any) []any
}

func (f foldPattern) match(subject string, pos int, state any) (int, []any, any, bool) {
	next, caps, nst, ok := f.p.match(subject, pos, state)
	if !ok {
		return pos, nil, state, false
	}
	return next, f.fn(caps), nst, true
}

func (f foldPattern) String() string { return "Fold(" + f.p.String() + ")" }
