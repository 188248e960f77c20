package parser

import "github.com/aledsdavies/lumen/pkgs/ast"

var assignOps = []string{":=", "++=", "+=", "-=", "*=", "//=", "%="}

// parseStatement parses one logical line's statement or bare expression
// (spec.md §4.2's statement grammar), trying each header form in turn and
// falling back to a plain expression.
func (p *parser) parseStatement() ast.Stmt {
	p.skipWS()
	if p.eof() {
		return nil
	}
	start := p.pos

	switch {
	case p.peekKeyword("if"):
		return p.parseIf(start)
	case p.peekKeyword("loop"):
		return p.parseLoop(start)
	case p.peekKeyword("while"):
		return p.parseWhile(start)
	case p.peekKeyword("for"):
		return p.parseFor(start)
	case p.peekKeyword("assert"):
		return p.parseAssert(start)
	}

	if stmt, ok := p.tryParseAct(start); ok {
		return stmt
	}
	if stmt, ok := p.tryParseCase(start); ok {
		return stmt
	}
	if stmt, ok := p.tryParseLet(start); ok {
		return stmt
	}

	x := p.parseExpr()
	return mk(&ast.ExprStmt{X: x}, start, p.pos)
}

func (p *parser) parseIf(start int) ast.Stmt {
	p.consumeKeyword("if")
	cond := p.parseExpr()
	p.skipWS()
	if p.peek() == ':' {
		p.pos++
	}
	then := p.parseHeaderBody(start)
	return mk(&ast.SIf{Cond: cond, Then: then}, start, p.pos)
}

func (p *parser) parseLoop(start int) ast.Stmt {
	p.consumeKeyword("loop")
	p.skipWS()
	if p.peekKeyword("while") {
		p.consumeKeyword("while")
		cond := p.parseExpr()
		p.skipWS()
		if p.peek() == ':' {
			p.pos++
		}
		block := p.parseRequiredNestedBlock()
		return mk(&ast.SLoopWhile{Cond: cond, Block: block}, start, p.pos)
	}
	p.skipWS()
	if p.peek() == ':' {
		p.pos++
	}
	block := p.parseRequiredNestedBlock()
	return mk(&ast.SLoop{Block: block}, start, p.pos)
}

func (p *parser) parseWhile(start int) ast.Stmt {
	p.consumeKeyword("while")
	cond := p.parseExpr()
	return mk(&ast.SWhile{Cond: cond}, start, p.pos)
}

func (p *parser) parseFor(start int) ast.Stmt {
	p.consumeKeyword("for")
	p.skipWS()
	name, ok := p.tryIdent()
	if !ok {
		p.emitError("DotName", p.pos)
	}
	p.skipWS()
	if p.peekKeyword("in") {
		p.consumeKeyword("in")
	}
	seq := p.parseExpr()
	p.skipWS()
	if p.peek() == ':' {
		p.pos++
	}
	body := p.parseHeaderBody(start)
	return mk(&ast.SFor{Name: name, Seq: seq, Body: body}, start, p.pos)
}

func (p *parser) parseAssert(start int) ast.Stmt {
	p.consumeKeyword("assert")
	cond := p.parseExpr()
	return mk(&ast.SAssert{Cond: cond}, start, p.pos)
}

// parseHeaderBody parses the body of a header statement that may be
// written inline on the same logical line (`if cond: expr`) or as a
// required nested block (`if cond:` followed by an indented block,
// wrapped into a Block expression).
func (p *parser) parseHeaderBody(start int) ast.Expr {
	save := p.pos
	p.skipInlineOnly()
	lineEnds := p.eof() || p.peek() == '\n' || p.peek() == '#'
	p.pos = save
	if !lineEnds {
		return p.parseExpr()
	}
	block := p.parseRequiredNestedBlock()
	return mk(&ast.Block{Body: block}, start, p.pos)
}

func (p *parser) parseRequiredNestedBlock() *ast.BlockBody {
	body, ok := p.parseNestedBlock()
	if !ok {
		p.emitError("Garbage", p.pos)
		return &ast.BlockBody{}
	}
	return body
}

// tryParseAct attempts `params <- expr`, backtracking on failure.
func (p *parser) tryParseAct(start int) (ast.Stmt, bool) {
	save := p.mark()
	params, ok := p.tryParseParams()
	if !ok {
		p.reset(save)
		return nil, false
	}
	p.skipWS()
	if !p.consumeOp("<-") {
		p.reset(save)
		return nil, false
	}
	act := p.parseExpr()
	return mk(&ast.SAct{Params: params, Act: act}, start, p.pos), true
}

// tryParseCase attempts `pattern => expr`, backtracking on failure.
func (p *parser) tryParseCase(start int) (ast.Stmt, bool) {
	save := p.mark()
	pat, ok := p.tryParsePattern()
	if !ok {
		p.reset(save)
		return nil, false
	}
	p.skipWS()
	if !p.consumeOp("=>") {
		p.reset(save)
		return nil, false
	}
	body := p.parseExpr()
	return mk(&ast.SCase{Pattern: pat, Body: body}, start, p.pos), true
}

// tryParsePattern parses a match-arm pattern: Name, Number, String
// literal, or a VecPattern of nested patterns.
func (p *parser) tryParsePattern() (ast.Expr, bool) {
	p.skipWS()
	start := p.pos
	switch {
	case p.peek() == '[':
		p.pos++
		var elems []ast.Expr
		p.skipWS()
		if p.peek() != ']' {
			for {
				e, ok := p.tryParsePattern()
				if !ok {
					return nil, false
				}
				elems = append(elems, e)
				p.skipWS()
				if p.peek() == ',' {
					p.pos++
					p.skipWS()
					continue
				}
				break
			}
		}
		p.skipWS()
		if p.peek() != ']' {
			return nil, false
		}
		p.pos++
		return mk(&ast.VecPattern{Elems: elems}, start, p.pos), true
	case isDigit(p.peek()):
		return p.parseNumber(), true
	case p.peek() == '"':
		return p.parseString(), true
	case isIdentStart(p.peek()):
		name, ok := p.tryIdent()
		if !ok {
			return nil, false
		}
		return mk(&ast.Name{Value: name}, start, p.pos), true
	default:
		return nil, false
	}
}

// tryParseLet attempts `target OP value`, backtracking on failure. The
// target is restricted to Name/Dot/Index chains (no calls, no operators).
func (p *parser) tryParseLet(start int) (ast.Stmt, bool) {
	save := p.mark()
	target, ok := p.tryParseAssignTarget()
	if !ok {
		p.reset(save)
		return nil, false
	}
	p.skipWS()
	op, ok := p.peekOneOf(assignOps)
	if !ok && p.peek() == '=' && p.peekAt(1) != '=' {
		op = "="
		ok = true
	}
	if !ok {
		p.reset(save)
		return nil, false
	}
	p.consumeOp(op)
	value := p.parseExpr()
	return mk(&ast.SLet{Target: target, Op: op, Value: value}, start, p.pos), true
}

// tryParseAssignTarget parses a bare Name followed by any chain of
// `.name` / `[expr]` suffixes — never a call, so `f(x) = y` is correctly
// rejected as a target and falls through to a plain expression statement.
func (p *parser) tryParseAssignTarget() (ast.Expr, bool) {
	start := p.pos
	name, ok := p.tryIdent()
	if !ok {
		return nil, false
	}
	var e ast.Expr = mk(&ast.Name{Value: name}, start, p.pos)
	for {
		p.skipWS()
		switch p.peek() {
		case '.':
			p.pos++
			p.skipWS()
			fname, ok := p.tryIdent()
			if !ok {
				return nil, false
			}
			e = mk(&ast.Dot{A: e, Name: fname}, start, p.pos)
		case '[':
			p.pos++
			idx := p.parseExpr()
			p.skipWS()
			if p.peek() != ']' {
				return nil, false
			}
			p.pos++
			e = mk(&ast.Index{A: e, B: idx}, start, p.pos)
		default:
			return e, true
		}
	}
}
