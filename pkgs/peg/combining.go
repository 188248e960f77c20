package peg

import "strings"

// And matches a sequence of patterns in order. Captures from each
// constituent are appended in order. Ordered choice inside an And does not
// backtrack across the And boundary: once a later element of the sequence
// fails, the whole sequence fails from the point it started, regardless of
// how far earlier elements advanced.
func And(ps ...Pattern) Pattern { return andPattern(ps) }

type andPattern []Pattern

func (a andPattern) match(subject string, pos int, state any) (int, []any, any, bool) {
	var caps []any
	cur := pos
	st := state
	for _, p := range a {
		next, c, nst, ok := p.match(subject, cur, st)
		if !ok {
			return pos, nil, state, false
		}
		cur = next
		st = nst
		caps = append(caps, c...)
	}
	return cur, caps, st, true
}

func (a andPattern) String() string {
	parts := make([]string, len(a))
	for i, p := range a {
		parts[i] = p.String()
	}
	return "And(" + strings.Join(parts, ", ") + ")"
}

// Or tries each alternative in order against the caller's starting state
// and position; the first success wins. Alternatives never see state
// mutations from a sibling that ultimately failed.
func Or(ps ...Pattern) Pattern { return orPattern(ps) }

type orPattern []Pattern

func (o orPattern) match(subject string, pos int, state any) (int, []any, any, bool) {
	for _, p := range o {
		if next, caps, nst, ok := p.match(subject, pos, state); ok {
			return next, caps, nst, true
		}
	}
	return pos, nil, state, false
}

func (o orPattern) String() string {
	parts := make([]string, len(o))
	for i, p := range o {
		parts[i] = p.String()
	}
	return "Or(" + strings.Join(parts, ", ") + ")"
}
