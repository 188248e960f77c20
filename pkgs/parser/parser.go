// Package parser implements the two-dimensional indentation-sensitive
// grammar of spec.md §4.2 on top of pkgs/peg: a small set of layout
// primitives (nlEOL, nlWhite, nlBlock) cooperate with a hand-written
// recursive-descent inline expression grammar, producing pkgs/ast nodes
// plus an out-of-band stream of comments and errors.
package parser

import "github.com/aledsdavies/lumen/pkgs/ast"

// parser holds the mutable scan position plus the two indent counters the
// 2D layer tracks (spec.md §4.2): blockIndent is the indent of the
// enclosing block; lineIndent is saved and restored by marks but nothing
// in the parser changes it from its initial 0.
type parser struct {
	src         string
	pos         int
	blockIndent int
	lineIndent  int
	oob         []ast.OOB
}

// mark captures enough state to backtrack a speculative parse (used by
// the arrow-function lookahead and the action, case-arm and assignment
// probes).
type mark struct {
	pos, blockIndent, lineIndent, oobLen int
}

func (p *parser) mark() mark {
	return mark{p.pos, p.blockIndent, p.lineIndent, len(p.oob)}
}

func (p *parser) reset(m mark) {
	p.pos, p.blockIndent, p.lineIndent = m.pos, m.blockIndent, m.lineIndent
	p.oob = p.oob[:m.oobLen]
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(off int) byte {
	if p.pos+off >= len(p.src) {
		return 0
	}
	return p.src[p.pos+off]
}

func (p *parser) emitError(tag string, pos int) {
	p.oob = append(p.oob, ast.OOB{Kind: ast.OOBError, Pos: pos, Text: tag})
}

func (p *parser) emitComment(text string, pos int) {
	p.oob = append(p.oob, ast.OOB{Kind: ast.OOBComment, Pos: pos, Text: text})
}

// ParseModule parses source into its top-level block plus the out-of-band
// comment/error stream (spec.md §6's parseModule external interface).
func ParseModule(source string) (*ast.BlockBody, []ast.OOB) {
	p := &parser{src: source, blockIndent: 0, lineIndent: 0}
	body := p.parseBlockBody()
	return body, p.oob
}
