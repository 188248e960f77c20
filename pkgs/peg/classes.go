package peg

import (
	"fmt"
	"strings"
)

// Range is an inclusive 2-byte character range, e.g. Range{'a', 'z'}.
type Range struct {
	Lo, Hi byte
}

// R matches a single byte falling in any of the given inclusive ranges.
func R(ranges ...Range) Pattern { return rangePattern(ranges) }

type rangePattern []Range

func (r rangePattern) match(subject string, pos int, state any) (int, []any, any, bool) {
	if pos >= len(subject) {
		return pos, nil, state, false
	}
	c := subject[pos]
	for _, rg := range r {
		if c >= rg.Lo && c <= rg.Hi {
			return pos + 1, nil, state, true
		}
	}
	return pos, nil, state, false
}

func (r rangePattern) String() string {
	parts := make([]string, len(r))
	for i, rg := range r {
		parts[i] = fmt.Sprintf("%c-%c", rg.Lo, rg.Hi)
	}
	return "R(" + strings.Join(parts, ",") + ")"
}

// S matches a single byte that is one of chars.
func S(chars string) Pattern { return setPattern{chars: chars, negate: false} }

// NS matches a single byte that is not one of chars (and not EOF).
func NS(chars string) Pattern { return setPattern{chars: chars, negate: true} }

type setPattern struct {
	chars  string
	negate bool
}

func (s setPattern) match(subject string, pos int, state any) (int, []any, any, bool) {
	if pos >= len(subject) {
		return pos, nil, state, false
	}
	in := strings.IndexByte(s.chars, subject[pos]) >= 0
	if in == s.negate {
		return pos, nil, state, false
	}
	return pos + 1, nil, state, true
}

func (s setPattern) String() string {
	if s.negate {
		return "NS(" + s.chars + ")"
	}
	return "S(" + s.chars + ")"
}
