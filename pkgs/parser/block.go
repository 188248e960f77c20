package parser

import (
	"strings"

	"github.com/aledsdavies/lumen/pkgs/ast"
)

// measureIndent reports the indent column (tabs counted as one column,
// matching the reference grammar's column-counting) of the line starting
// at pos, and the byte offset of its first non-space/tab byte.
func (p *parser) measureIndent(pos int) (indent, firstNonWS int) {
	i := pos
	for i < len(p.src) && (p.src[i] == ' ' || p.src[i] == '\t') {
		i++
		indent++
	}
	return indent, i
}

// lineIsBlankOrComment reports whether the line starting at pos contains
// nothing but whitespace, optionally followed by a # comment, before its
// closing newline or EOF.
func (p *parser) lineIsBlankOrComment(pos int) (isBlank bool, lineEnd int) {
	_, firstNonWS := p.measureIndent(pos)
	end := strings.IndexByte(p.src[firstNonWS:], '\n')
	if end < 0 {
		end = len(p.src)
	} else {
		end += firstNonWS
	}
	if firstNonWS >= len(p.src) {
		return true, end
	}
	c := p.src[firstNonWS]
	return c == '\n' || c == '#', end
}

// atBlock approximates the AtBlock predicate (spec.md §4.2): whether the
// text at pos opens a nested block — a block-starting keyword, an
// assignment header, an action header (`params <- `), or a match arm
// (`pattern => `).
func atBlockHeuristic(src string, pos int) bool {
	end := strings.IndexByte(src[pos:], '\n')
	line := src[pos:]
	if end >= 0 {
		line = src[pos : pos+end]
	}
	if h := strings.IndexByte(line, '#'); h >= 0 {
		line = line[:h]
	}
	trimmed := strings.TrimLeft(line, " \t")
	for _, kw := range []string{"if ", "if:", "loop", "while ", "while:", "for ", "assert ", "assert:"} {
		if strings.HasPrefix(trimmed, kw) {
			return true
		}
	}
	if strings.Contains(line, "=>") || strings.Contains(line, "<-") {
		return true
	}
	for _, op := range []string{":=", "+=", "-=", "*=", "++=", "//=", "%=", "="} {
		if idx := strings.Index(line, op); idx > 0 {
			// Avoid matching "==", "<=", ">=", "!=" as assignment ops.
			if op == "=" {
				before := line[idx-1]
				if before == '=' || before == '<' || before == '>' || before == '!' || before == ':' || before == '+' || before == '-' || before == '*' {
					continue
				}
				if idx+1 < len(line) && line[idx+1] == '=' {
					continue
				}
			}
			return true
		}
	}
	return false
}

// skipWS consumes spaces/tabs, comments, blank lines, and continuation
// newlines (nlWhite), stopping at a token, EOF, or a newline that ends the
// current logical line (nlEOL).
func (p *parser) skipWS() {
	for {
		if p.eof() {
			return
		}
		c := p.src[p.pos]
		switch {
		case c == ' ' || c == '\t':
			p.pos++
		case c == '#':
			start := p.pos
			end := strings.IndexByte(p.src[p.pos:], '\n')
			if end < 0 {
				end = len(p.src)
			} else {
				end += p.pos
			}
			p.emitComment(p.src[start:end], start)
			p.pos = end
		case c == '\n':
			if !p.consumeNewline() {
				return
			}
		case c < 0x20:
			p.emitError("BadChar", p.pos)
			p.pos++
		default:
			return
		}
	}
}

// consumeNewline implements nlWhite's line-continuation rule: a blank or
// comment-only line is always absorbed; otherwise a newline is absorbed
// only if the next line is indented deeper than blockIndent and does not
// itself open a nested block (in which case it belongs to the caller's
// statement-level block logic, not to whitespace-skipping).
func (p *parser) consumeNewline() bool {
	for {
		if blank, lineEnd := p.lineIsBlankOrComment(p.pos + 1); blank {
			p.pos = lineEnd
			if p.eof() {
				return false
			}
			continue
		}
		break
	}
	indent, firstNonWS := p.measureIndent(p.pos + 1)
	if indent > p.blockIndent && !atBlockHeuristic(p.src, firstNonWS) {
		p.pos = firstNonWS
		return true
	}
	return false
}

// nlEOL reports whether the scan position is at the end of the current
// logical line: EOF, or a newline whose following line is indented at or
// below blockIndent.
func (p *parser) nlEOL() bool {
	save := p.pos
	p.skipWS()
	atEOL := p.eof() || p.peek() == '\n'
	p.pos = save
	return atEOL
}

// parseBlockBody parses a sequence of statements/expressions sharing the
// current blockIndent, stopping when nlEOL-at-block-level is reached
// (EOF or a line indented less than blockIndent).
func (p *parser) parseBlockBody() *ast.BlockBody {
	body := &ast.BlockBody{}
	for {
		p.skipLineBoundaries()
		if p.eof() {
			break
		}
		indent, _ := p.measureIndent(p.lineStart())
		if indent < p.blockIndent {
			break
		}
		stmt := p.parseStatement()
		if stmt == nil {
			break
		}
		body.Stmts = append(body.Stmts, stmt)
		p.consumeGarbageToEOL()
		if p.eof() {
			break
		}
		if !p.advanceToNextLine() {
			break
		}
	}
	return body
}

// lineStart returns the byte offset of the start of the current line.
func (p *parser) lineStart() int {
	i := p.pos
	for i > 0 && p.src[i-1] != '\n' {
		i--
	}
	return i
}

// skipLineBoundaries skips blank/comment-only lines preceding the next
// statement, without consuming indentation that belongs to a real line.
func (p *parser) skipLineBoundaries() {
	for {
		if p.eof() {
			return
		}
		lineStart := p.pos
		blank, lineEnd := p.lineIsBlankOrComment(lineStart)
		if !blank {
			return
		}
		if lineEnd >= len(p.src) {
			p.pos = lineEnd
			return
		}
		p.pos = lineEnd + 1
	}
}

// consumeGarbageToEOL reports anything left on the logical line after a
// statement's inline expression as a Garbage error (spec.md §4.2).
func (p *parser) consumeGarbageToEOL() {
	save := p.pos
	p.skipInlineOnly()
	if p.eof() {
		return
	}
	if p.src[p.pos] == '\n' || p.src[p.pos] == '#' {
		p.pos = save
		return
	}
	start := p.pos
	for !p.eof() && p.src[p.pos] != '\n' {
		p.pos++
	}
	p.emitError("Garbage", start)
}

// skipInlineOnly consumes spaces/tabs only (no newlines, no comments),
// used by consumeGarbageToEOL to find the true end of a logical line.
func (p *parser) skipInlineOnly() {
	for !p.eof() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

// advanceToNextLine moves past the current line's newline, onto the next
// line sharing blockIndent (or deeper, for the following parseStatement
// call to validate). Returns false at EOF or when the next line dedents
// below blockIndent, ending the block.
func (p *parser) advanceToNextLine() bool {
	for !p.eof() && p.src[p.pos] != '\n' {
		p.pos++
	}
	if p.eof() {
		return false
	}
	p.pos++ // consume '\n'
	p.skipLineBoundaries()
	if p.eof() {
		return false
	}
	indent, _ := p.measureIndent(p.lineStart())
	return indent >= p.blockIndent
}

// parseNestedBlock parses a required nested block after a block-opening
// header (if/loop/while/for/assert/match/action/arm). It expects the
// current position to be at or past the header's end-of-line; on success
// it increases blockIndent to the nested line's indent for the duration
// of the parse and restores it afterward. Returns (body, true) or
// (MissingBlock-producing nil, false) if no deeper-indented block follows.
func (p *parser) parseNestedBlock() (*ast.BlockBody, bool) {
	save := p.pos
	p.skipLineBoundaries()
	if p.eof() {
		p.pos = save
		return nil, false
	}
	indent, _ := p.measureIndent(p.lineStart())
	if indent <= p.blockIndent {
		p.pos = save
		return nil, false
	}
	outer := p.blockIndent
	p.blockIndent = indent
	body := p.parseBlockBody()
	p.blockIndent = outer
	// Step back onto the newline that ends the block's last line, so the
	// enclosing statement ends there and not on the dedented line.
	if p.pos > 0 && p.pos <= len(p.src) && p.src[p.pos-1] == '\n' {
		p.pos--
	}
	return body, true
}
