package peg

import "fmt"

// Rep matches p at least n times (n may be 0), greedily, stopping at the
// first position where p fails to advance or fails to match. Captures from
// every repetition are appended in order. This is the `.X(n)` suffix
// operator.
func Rep(p Pattern, n int) Pattern { return repPattern{p, n} }

type repPattern struct {
	p Pattern
	n int
}

func (r repPattern) match(subject string, pos int, state any) (int, []any, any, bool) {
	var caps []any
	cur := pos
	st := state
	count := 0
	for {
		next, c, nst, ok := r.p.match(subject, cur, st)
		if !ok || next == cur && count > 0 {
			// Stop on failure, or on a non-advancing match once we've
			// already made progress (prevents infinite loops on patterns
			// that can match empty).
			break
		}
		cur = next
		st = nst
		caps = append(caps, c...)
		count++
		if next == pos && count > 10000 {
			break
		}
	}
	if count < r.n {
		return pos, nil, state, false
	}
	return cur, caps, st, true
}

func (r repPattern) String() string { return fmt.Sprintf("Rep(%s, >=%d)", r.p.String(), r.n) }

// At is positive lookahead: succeeds without advancing or capturing iff p
// matches at the current position.
func At(p Pattern) Pattern { return atPattern{p} }

type atPattern struct{ p Pattern }

func (a atPattern) match(subject string, pos int, state any) (int, []any, any, bool) {
	_, _, _, ok := a.p.match(subject, pos, state)
	if !ok {
		return pos, nil, state, false
	}
	return pos, nil, state, true
}

func (a atPattern) String() string { return "At(" + a.p.String() + ")" }

// Not is negative lookahead: succeeds without advancing or capturing iff p
// fails to match at the current position.
func Not(p Pattern) Pattern { return notPattern{p} }

type notPattern struct{ p Pattern }

func (n notPattern) match(subject string, pos int, state any) (int, []any, any, bool) {
	_, _, _, ok := n.p.match(subject, pos, state)
	if ok {
		return pos, nil, state, false
	}
	return pos, nil, state, true
}

func (n notPattern) String() string { return "Not(" + n.p.String() + ")" }

// Non matches and consumes exactly one byte, but only if p fails to match
// at the current position (the complement of p, one byte at a time).
func Non(p Pattern) Pattern { return nonPattern{p} }

type nonPattern struct{ p Pattern }

func (n nonPattern) match(subject string, pos int, state any) (int, []any, any, bool) {
	if _, _, _, ok := n.p.match(subject, pos, state); ok {
		return pos, nil, state, false
	}
	if pos >= len(subject) {
		return pos, nil, state, false
	}
	return pos + 1, nil, state, true
}

func (n nonPattern) String() string { return "Non(" + n.p.String() + ")" }

// Opt matches p if possible; otherwise matches the empty string
// successfully with no captures. This is the `.orNot` suffix operator.
func Opt(p Pattern) Pattern { return optPattern{p} }

type optPattern struct{ p Pattern }

func (o optPattern) match(subject string, pos int, state any) (int, []any, any, bool) {
	if next, caps, nst, ok := o.p.match(subject, pos, state); ok {
		return next, caps, nst, true
	}
	return pos, nil, state, true
}

func (o optPattern) String() string { return "Opt(" + o.p.String() + ")" }
