package parser

import "github.com/aledsdavies/lumen/pkgs/peg"

// identClass is the same character-class pattern the PEG engine exposes
// to the inline grammar per spec.md §4.1 (`R`/`S`/`or`); the 2D layout
// layer reuses it via peg.Match rather than hand-rolling a parallel byte
// classifier, so identifier lexing stays grounded on pkgs/peg even though
// the surrounding statement structure is driven by recursive descent.
var identClass = peg.Or(
	peg.R(peg.Range{Lo: 'a', Hi: 'z'}, peg.Range{Lo: 'A', Hi: 'Z'}, peg.Range{Lo: '0', Hi: '9'}),
	peg.S("_"),
)

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isIdentCont(b byte) bool {
	if b >= 0x80 {
		return false
	}
	_, _, _, ok := peg.Match(identClass, string([]byte{b}), 0, nil)
	return ok
}

// reservedWords blocks identifier use for tokens the grammar needs
// unambiguously as keywords. `break` and `repeat` are deliberately NOT
// reserved: spec.md §4.3 treats them as ordinary Name atoms that the
// desugarer — not the parser — rejects outside a loop body.
var reservedWords = map[string]bool{
	"if": true, "loop": true, "while": true, "for": true, "assert": true,
	"match": true, "not": true, "or": true, "and": true,
}
