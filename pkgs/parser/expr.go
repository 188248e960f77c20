package parser

import (
	"strings"

	"github.com/aledsdavies/lumen/pkgs/ast"
)

// parseExpr is the entry point for the inline expression grammar
// (spec.md §4.2), starting at the lowest-precedence operator `->`.
func (p *parser) parseExpr() ast.Expr {
	return p.parseArrow()
}

// ---- `->` : lowest precedence, right-assoc, separates params and body ----

func (p *parser) parseArrow() ast.Expr {
	save := p.mark()
	if params, ok := p.tryParseParams(); ok {
		p.skipWS()
		if p.consumeOp("->") {
			body := p.parseArrow()
			return mk(&ast.Fn{Params: params, Body: body}, save.pos, p.pos)
		}
	}
	p.reset(save)
	return p.parseDollar()
}

func (p *parser) tryParseParams() ([]string, bool) {
	p.skipWS()
	if p.peek() == '(' {
		p.pos++
		var names []string
		p.skipWS()
		if p.peek() == ')' {
			p.pos++
			return names, true
		}
		for {
			p.skipWS()
			name, ok := p.tryIdent()
			if !ok {
				return nil, false
			}
			names = append(names, name)
			p.skipWS()
			if p.peek() == ',' {
				p.pos++
				continue
			}
			break
		}
		p.skipWS()
		if p.peek() != ')' {
			return nil, false
		}
		p.pos++
		return names, true
	}
	name, ok := p.tryIdent()
	if !ok {
		return nil, false
	}
	return []string{name}, true
}

// ---- `$` : right-assoc application ----

func (p *parser) parseDollar() ast.Expr {
	left := p.parseTernary()
	p.skipWS()
	if p.peekWord("$") {
		start := left.Range().Pos
		p.consumeOp("$")
		right := p.parseDollar()
		return mk(&ast.Binop{Op: "$", A: left, B: right}, start, p.pos)
	}
	return left
}

// ---- `?:` : right-assoc ternary, `cond ? a : b` ----

func (p *parser) parseTernary() ast.Expr {
	cond := p.parseOr()
	p.skipWS()
	if p.peek() == '?' && p.peekAt(1) != ':' {
		start := cond.Range().Pos
		p.pos++
		a := p.parseTernary()
		p.skipWS()
		if p.peek() != ':' {
			p.emitError("CloseIIf", p.pos)
			return mk(&ast.IIf{Cond: cond, A: a, B: mk(&ast.Missing{}, p.pos, p.pos)}, start, p.pos)
		}
		p.pos++
		b := p.parseTernary()
		return mk(&ast.IIf{Cond: cond, A: a, B: b}, start, p.pos)
	}
	return cond
}

// ---- `or` / `and` : left-assoc ----

func (p *parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for {
		p.skipWS()
		if !p.peekKeyword("or") {
			return left
		}
		p.consumeKeyword("or")
		right := p.parseAnd()
		left = mk(&ast.Binop{Op: "or", A: left, B: right}, left.Range().Pos, p.pos)
	}
}

func (p *parser) parseAnd() ast.Expr {
	left := p.parseRel()
	for {
		p.skipWS()
		if !p.peekKeyword("and") {
			return left
		}
		p.consumeKeyword("and")
		right := p.parseRel()
		left = mk(&ast.Binop{Op: "and", A: left, B: right}, left.Range().Pos, p.pos)
	}
}

// ---- relational, non-assoc but chainable: a<b<c => (a<b) and (b<c) ----

var relOps = []string{"==", "!=", "<=", ">=", "<", ">"}

func (p *parser) parseRel() ast.Expr {
	first := p.parseAdd()
	var ops []string
	operands := []ast.Expr{first}
	for {
		p.skipWS()
		op, ok := p.peekOneOf(relOps)
		if !ok {
			break
		}
		p.consumeOp(op)
		operands = append(operands, p.parseAdd())
		ops = append(ops, op)
	}
	if len(ops) == 0 {
		return first
	}
	start := first.Range().Pos
	result := ast.Expr(mk(&ast.Binop{Op: ops[0], A: operands[0], B: operands[1]}, start, p.pos))
	for i := 1; i < len(ops); i++ {
		pair := mk(&ast.Binop{Op: ops[i], A: operands[i], B: operands[i+1]}, start, p.pos)
		result = mk(&ast.Binop{Op: "and", A: result, B: pair}, start, p.pos)
	}
	return result
}

// ---- `+ - ++`, `* / // %` : left-assoc ----

var addOps = []string{"++", "+", "-"}
var mulOps = []string{"//", "*", "/", "%"}

func (p *parser) parseAdd() ast.Expr {
	left := p.parseMul()
	for {
		p.skipWS()
		op, ok := p.peekOneOf(addOps)
		if !ok {
			return left
		}
		p.consumeOp(op)
		right := p.parseMul()
		left = mk(&ast.Binop{Op: op, A: left, B: right}, left.Range().Pos, p.pos)
	}
}

func (p *parser) parseMul() ast.Expr {
	left := p.parseUnary()
	for {
		p.skipWS()
		op, ok := p.peekOneOf(mulOps)
		if !ok {
			return left
		}
		p.consumeOp(op)
		right := p.parseUnary()
		left = mk(&ast.Binop{Op: op, A: left, B: right}, left.Range().Pos, p.pos)
	}
}

// ---- prefix `not`, `-` ----

func (p *parser) parseUnary() ast.Expr {
	p.skipWS()
	start := p.pos
	if p.peekKeyword("not") {
		p.consumeKeyword("not")
		a := p.parseUnary()
		return mk(&ast.Unop{Op: "not", A: a}, start, p.pos)
	}
	if p.peek() == '-' {
		p.pos++
		a := p.parseUnary()
		return mk(&ast.Unop{Op: "-", A: a}, start, p.pos)
	}
	return p.parsePow()
}

// ---- `^` : right-assoc ----

func (p *parser) parsePow() ast.Expr {
	left := p.parsePostfix()
	p.skipWS()
	if p.peek() == '^' {
		start := left.Range().Pos
		p.pos++
		right := p.parseUnary()
		return mk(&ast.Binop{Op: "^", A: left, B: right}, start, p.pos)
	}
	return left
}

// ---- suffix `.name`, `[expr]`, `(args...)` ----

func (p *parser) parsePostfix() ast.Expr {
	start := p.pos
	e := p.parseAtom()
	for {
		p.skipWS()
		switch p.peek() {
		case '.':
			p.pos++
			p.skipWS()
			name, ok := p.tryIdent()
			if !ok {
				p.emitError("DotName", p.pos)
				name = ""
			}
			e = mk(&ast.Dot{A: e, Name: name}, start, p.pos)
		case '[':
			p.pos++
			idx := p.parseExpr()
			p.skipWS()
			if p.peek() != ']' {
				p.emitError("CloseSquare", p.pos)
			} else {
				p.pos++
			}
			e = mk(&ast.Index{A: e, B: idx}, start, p.pos)
		case '(':
			p.pos++
			args := p.parseArgs()
			p.skipWS()
			if p.peek() != ')' {
				p.emitError("CloseParen", p.pos)
			} else {
				p.pos++
			}
			e = mk(&ast.Call{Fn: e, Args: args}, start, p.pos)
		default:
			return e
		}
	}
}

func (p *parser) parseArgs() []ast.Expr {
	p.skipWS()
	var args []ast.Expr
	if p.peek() == ')' {
		return args
	}
	for {
		args = append(args, p.parseExpr())
		p.skipWS()
		if p.peek() == ',' {
			p.pos++
			p.skipWS()
			continue
		}
		break
	}
	return args
}

// ---- atoms ----

func (p *parser) parseAtom() ast.Expr {
	p.skipWS()
	start := p.pos
	if p.eof() {
		p.emitError("Garbage", p.pos)
		return mk(&ast.Missing{}, start, p.pos)
	}
	c := p.peek()
	switch {
	case isDigit(c) || (c == '.' && isDigit(p.peekAt(1))):
		return p.parseNumber()
	case c == '"':
		return p.parseString()
	case c == '[':
		return p.parseVector()
	case c == '{':
		return p.parseMapLit()
	case c == '(':
		p.pos++
		e := p.parseExpr()
		p.skipWS()
		if p.peek() != ')' {
			p.emitError("CloseParen", p.pos)
		} else {
			p.pos++
		}
		return e
	case isIdentStart(c):
		if p.peekKeyword("match") {
			return p.parseMatch()
		}
		name, _ := p.tryIdent()
		return mk(&ast.Name{Value: name}, start, p.pos)
	default:
		p.emitError("BadChar", p.pos)
		p.pos++
		return mk(&ast.Missing{}, start, p.pos)
	}
}

func (p *parser) parseVector() ast.Expr {
	start := p.pos
	p.pos++ // '['
	var elems []ast.Expr
	p.skipWS()
	if p.peek() != ']' {
		for {
			elems = append(elems, p.parseExpr())
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
		p.emitError("CloseSquare", p.pos)
	} else {
		p.pos++
	}
	return mk(&ast.Vector{Elems: elems}, start, p.pos)
}

func (p *parser) parseMapLit() ast.Expr {
	start := p.pos
	p.pos++ // '{'
	var keys []*ast.Name
	var values []ast.Expr
	p.skipWS()
	if p.peek() != '}' {
		for {
			p.skipWS()
			kStart := p.pos
			name, ok := p.tryIdent()
			if !ok {
				p.emitError("DotName", p.pos)
				break
			}
			keys = append(keys, mk(&ast.Name{Value: name}, kStart, p.pos))
			p.skipWS()
			if p.peek() == ':' {
				p.pos++
				values = append(values, p.parseExpr())
			} else {
				values = append(values, mk(&ast.Name{Value: name}, kStart, p.pos))
			}
			p.skipWS()
			if p.peek() == ',' {
				p.pos++
				continue
			}
			break
		}
	}
	p.skipWS()
	if p.peek() != '}' {
		p.emitError("CloseCurly", p.pos)
	} else {
		p.pos++
	}
	return mk(&ast.Map{Keys: keys, Values: values}, start, p.pos)
}

func (p *parser) parseMatch() ast.Expr {
	start := p.pos
	p.consumeKeyword("match")
	value := p.parseExpr()
	p.skipWS()
	if p.peek() == ':' {
		p.pos++
	}
	body, ok := p.parseNestedBlock()
	if !ok {
		return mk(&ast.MissingBlock{}, start, p.pos)
	}
	var cases []ast.MatchCase
	for _, s := range body.Stmts {
		if c, ok := s.(*ast.SCase); ok {
			cases = append(cases, ast.MatchCase{Pattern: c.Pattern, Body: c.Body})
		}
	}
	return mk(&ast.Match{Value: value, Cases: cases}, start, p.pos)
}

func (p *parser) parseNumber() ast.Expr {
	start := p.pos
	hasBefore := false
	for isDigit(p.peek()) {
		p.pos++
		hasBefore = true
	}
	if p.peek() == '.' && isDigit(p.peekAt(1)) {
		dotPos := p.pos
		p.pos++
		if !hasBefore {
			p.emitError("NumDigitBefore", dotPos)
		}
		for isDigit(p.peek()) {
			p.pos++
		}
	}
	if p.peek() == 'e' || p.peek() == 'E' {
		p.pos++
		if p.peek() == '+' || p.peek() == '-' {
			p.pos++
		}
		if !isDigit(p.peek()) {
			p.emitError("NumDigitExp", p.pos)
		} else {
			for isDigit(p.peek()) {
				p.pos++
			}
		}
	}
	if isIdentCont(p.peek()) {
		p.emitError("NumEnd", p.pos)
		for isIdentCont(p.peek()) {
			p.pos++
		}
	}
	return mk(&ast.Number{Value: p.src[start:p.pos]}, start, p.pos)
}

func (p *parser) parseString() ast.Expr {
	start := p.pos
	p.pos++ // opening quote
	var sb strings.Builder
	for {
		if p.eof() || p.src[p.pos] == '\n' {
			p.emitError("StringEnd", p.pos)
			break
		}
		c := p.src[p.pos]
		if c == '"' {
			p.pos++
			break
		}
		if c == '\\' {
			esc := p.peekAt(1)
			switch esc {
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case 'r':
				sb.WriteByte('\r')
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				p.emitError("StringBS", p.pos)
				sb.WriteByte(esc)
			}
			p.pos += 2
			continue
		}
		sb.WriteByte(c)
		p.pos++
	}
	return mk(&ast.String{Value: sb.String()}, start, p.pos)
}

// ---- token helpers ----

func (p *parser) tryIdent() (string, bool) {
	if !isIdentStart(p.peek()) {
		return "", false
	}
	start := p.pos
	for isIdentCont(p.peek()) {
		p.pos++
	}
	name := p.src[start:p.pos]
	if reservedWords[name] {
		p.pos = start
		return "", false
	}
	return name, true
}

// peekKeyword/consumeKeyword match a reserved word with a word boundary.
func (p *parser) peekKeyword(kw string) bool {
	if !strings.HasPrefix(p.src[p.pos:], kw) {
		return false
	}
	return !isIdentCont(p.peekAt(len(kw)))
}

func (p *parser) consumeKeyword(kw string) { p.pos += len(kw) }

// peekWord/consumeOp match an operator token (possibly multi-char); the
// caller is responsible for ensuring no longer operator shares the prefix.
func (p *parser) peekWord(op string) bool { return strings.HasPrefix(p.src[p.pos:], op) }

func (p *parser) consumeOp(op string) bool {
	if !p.peekWord(op) {
		return false
	}
	p.pos += len(op)
	return true
}

func (p *parser) peekOneOf(ops []string) (string, bool) {
	for _, op := range ops {
		if p.peekWord(op) {
			return op, true
		}
	}
	return "", false
}
