package expr

import (
	"errors"
	"math/big"
	"strconv"
	"strings"
)

// keywords cannot be used as identifiers.
var keywords = map[string]bool{
	"and":   true,
	"or":    true,
	"not":   true,
	"if":    true,
	"else":  true,
	"for":   true,
	"in":    true,
	"True":  true,
	"False": true,
}

// maxNesting bounds how deeply parentheses and prefix operators may nest.
const maxNesting = 200

type parser struct {
	toks  []token
	i     int
	depth int
}

// enter records one more nesting level and fails past maxNesting.
func (p *parser) enter() error {
	p.depth++
	if p.depth > maxNesting {
		return errorf(ErrSyntax, p.peek().pos, "expression nests deeper than %d levels", maxNesting)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// Parse compiles program text into a Program. Statements are separated by
// ';' and empty statements are ignored; at least one statement is required.
func Parse(src string) (*Program, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	prog := &Program{src: src}
	for {
		for p.peek().kind == tokSemi {
			p.next()
		}
		if p.peek().kind == tokEOF {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.stmts = append(prog.stmts, stmt)
		switch tok := p.peek(); tok.kind {
		case tokSemi, tokEOF:
		default:
			return nil, errorf(ErrSyntax, tok.pos, "unexpected %s", describe(tok))
		}
	}
	if len(prog.stmts) == 0 {
		return nil, errorf(ErrSyntax, 0, "program is empty")
	}
	return prog, nil
}

func (p *parser) peek() token {
	return p.toks[p.i]
}

func (p *parser) peekAt(offset int) token {
	if p.i+offset >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+offset]
}

func (p *parser) next() token {
	tok := p.toks[p.i]
	if tok.kind != tokEOF {
		p.i++
	}
	return tok
}

func (p *parser) isOp(text string) bool {
	tok := p.peek()
	return tok.kind == tokOp && tok.text == text
}

func (p *parser) isKeyword(text string) bool {
	tok := p.peek()
	return tok.kind == tokName && tok.text == text
}

func (p *parser) expectOp(text string) error {
	tok := p.next()
	if tok.kind != tokOp || tok.text != text {
		return errorf(ErrSyntax, tok.pos, "expected %q, found %s", text, describe(tok))
	}
	return nil
}

func (p *parser) expectIdent() (token, error) {
	tok := p.next()
	if tok.kind != tokName || keywords[tok.text] {
		return tok, errorf(ErrSyntax, tok.pos, "expected identifier, found %s", describe(tok))
	}
	return tok, nil
}

func (p *parser) parseStatement() (statement, error) {
	first := p.peek()
	if first.kind == tokName && !keywords[first.text] {
		if second := p.peekAt(1); second.kind == tokOp && second.text == "=" {
			p.next()
			p.next()
			value, err := p.parseExpr()
			if err != nil {
				return statement{}, err
			}
			return statement{at: first.pos, target: first.text, value: value}, nil
		}
	}
	value, err := p.parseExpr()
	if err != nil {
		return statement{}, err
	}
	return statement{at: first.pos, value: value}, nil
}

// parseExpr parses a conditional expression: or_test ["if" or_test "else" expr].
func (p *parser) parseExpr() (node, error) {
	x, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.isKeyword("if") {
		return x, nil
	}
	at := p.next().pos
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.isKeyword("else") {
		tok := p.peek()
		return nil, errorf(ErrSyntax, tok.pos, "expected \"else\", found %s", describe(tok))
	}
	p.next()
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &condExpr{at: at, cond: cond, then: x, els: els}, nil
}

func (p *parser) parseOr() (node, error) {
	x, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("or") {
		at := p.next().pos
		y, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		x = &logicalExpr{at: at, op: "or", x: x, y: y}
	}
	return x, nil
}

func (p *parser) parseAnd() (node, error) {
	x, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("and") {
		at := p.next().pos
		y, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		x = &logicalExpr{at: at, op: "and", x: x, y: y}
	}
	return x, nil
}

func (p *parser) parseNot() (node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	if p.isKeyword("not") {
		at := p.next().pos
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &unaryExpr{at: at, op: "not", x: x}, nil
	}
	return p.parseComparison()
}

var comparisonOps = map[string]bool{"<": true, "<=": true, ">": true, ">=": true, "==": true, "!=": true}

func (p *parser) parseComparison() (node, error) {
	first, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	cmp := &compareExpr{at: first.position(), operands: []node{first}}
	for {
		tok := p.peek()
		if tok.kind != tokOp || !comparisonOps[tok.text] {
			break
		}
		p.next()
		operand, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		cmp.ops = append(cmp.ops, tok.text)
		cmp.operands = append(cmp.operands, operand)
	}
	if len(cmp.ops) == 0 {
		return first, nil
	}
	return cmp, nil
}

func (p *parser) parseSum() (node, error) {
	x, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		tok := p.next()
		y, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		x = &binaryExpr{at: tok.pos, op: tok.text, x: x, y: y}
	}
	return x, nil
}

func (p *parser) parseTerm() (node, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*") || p.isOp("/") || p.isOp("//") || p.isOp("%") {
		tok := p.next()
		y, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		x = &binaryExpr{at: tok.pos, op: tok.text, x: x, y: y}
	}
	return x, nil
}

func (p *parser) parseUnary() (node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	if p.isOp("-") || p.isOp("+") {
		tok := p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryExpr{at: tok.pos, op: tok.text, x: x}, nil
	}
	return p.parsePower()
}

// parsePower handles "**", which is right-associative and binds tighter than
// a unary minus on its left: -2**2 == -4, 2**-1 == 0.5.
func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if !p.isOp("**") {
		return base, nil
	}
	tok := p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &binaryExpr{at: tok.pos, op: "**", x: base, y: exp}, nil
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		val, err := parseNumber(tok)
		if err != nil {
			return nil, err
		}
		return &numberLit{at: tok.pos, val: val}, nil
	case tokName:
		switch tok.text {
		case "True":
			return &boolLit{at: tok.pos, val: true}, nil
		case "False":
			return &boolLit{at: tok.pos, val: false}, nil
		}
		if keywords[tok.text] {
			return nil, errorf(ErrSyntax, tok.pos, "unexpected keyword %q", tok.text)
		}
		if p.isOp("(") {
			return p.parseCall(tok)
		}
		return &nameRef{at: tok.pos, name: tok.text}, nil
	case tokOp:
		if tok.text == "(" {
			x, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectOp(")"); err != nil {
				return nil, err
			}
			return x, nil
		}
	}
	return nil, errorf(ErrSyntax, tok.pos, "unexpected %s", describe(tok))
}

func (p *parser) parseCall(name token) (node, error) {
	p.next() // "("
	call := &callExpr{at: name.pos, name: name.text}
	if p.isOp(")") {
		p.next()
		return call, nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.isKeyword("for") {
		gen, err := p.parseGenerator(first)
		if err != nil {
			return nil, err
		}
		call.gen = gen
		if err := p.expectOp(")"); err != nil {
			return nil, err
		}
		return call, nil
	}
	call.args = append(call.args, first)
	for p.isOp(",") {
		p.next()
		if p.isOp(")") {
			break
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		call.args = append(call.args, arg)
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return call, nil
}

func (p *parser) parseGenerator(elem node) (*generator, error) {
	at := p.next().pos // "for"
	ident, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if !p.isKeyword("in") {
		tok := p.peek()
		return nil, errorf(ErrSyntax, tok.pos, "expected \"in\", found %s", describe(tok))
	}
	p.next()
	iter, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	return &generator{at: at, elem: elem, varName: ident.text, iter: iter}, nil
}

func parseNumber(tok token) (Value, error) {
	if !strings.ContainsAny(tok.text, ".eE") {
		i, ok := new(big.Int).SetString(tok.text, 10)
		if !ok {
			return Value{}, errorf(ErrSyntax, tok.pos, "invalid integer literal %q", tok.text)
		}
		return BigInt(i), nil
	}
	f, err := strconv.ParseFloat(tok.text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Value{}, errorf(ErrSyntax, tok.pos, "invalid number literal %q", tok.text)
	}
	return Float(f), nil
}

func describe(tok token) string {
	switch tok.kind {
	case tokEOF:
		return "end of input"
	case tokSemi:
		return "\";\""
	case tokNumber:
		return "number " + tok.text
	case tokName:
		return "name " + strconv.Quote(tok.text)
	default:
		return strconv.Quote(tok.text)
	}
}
