package decl

import (
	"fmt"
	"slices"
	"strconv"
	"unicode"

	"github.com/wippyai/stubgen/errors"
)

type tokenType int

const (
	tokIdent tokenType = iota
	tokNumber
	tokPunct
)

type token struct {
	Value string
	Type  tokenType
	Col   int
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	runes := []rune(input)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if unicode.IsSpace(r) {
			continue
		}

		start := i
		switch {
		case unicode.IsLetter(r) || r == '_':
			for i+1 < len(runes) && isIdentRune(runes[i+1]) {
				i++
			}
			tokens = append(tokens, token{Value: string(runes[start : i+1]), Type: tokIdent, Col: start + 1})
		case unicode.IsDigit(r):
			for i+1 < len(runes) && unicode.IsDigit(runes[i+1]) {
				i++
			}
			tokens = append(tokens, token{Value: string(runes[start : i+1]), Type: tokNumber, Col: start + 1})
		case r == '<' || r == '>' || r == '(' || r == ')' || r == ',' || r == ':' ||
			r == '?' || r == '*' || r == '/' || r == '+' || r == '-':
			tokens = append(tokens, token{Value: string(r), Type: tokPunct, Col: start + 1})
		default:
			return nil, fmt.Errorf("col %d: unexpected character %q", start+1, r)
		}
	}
	return tokens, nil
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'
}

type parser struct {
	tokens []token
	scope  []string
	pos    int
}

func (p *parser) peek() *token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *parser) next() *token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	t := &p.tokens[p.pos]
	p.pos++
	return t
}

func (p *parser) is(value string) bool {
	t := p.peek()
	return t != nil && t.Value == value
}

func (p *parser) accept(value string) bool {
	if p.is(value) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(value string) error {
	t := p.next()
	if t == nil {
		return fmt.Errorf("expected %q, got end of input", value)
	}
	if t.Value != value {
		return fmt.Errorf("col %d: expected %q, got %q", t.Col, value, t.Value)
	}
	return nil
}

func (p *parser) ident() (string, error) {
	t := p.next()
	if t == nil {
		return "", fmt.Errorf("expected identifier, got end of input")
	}
	if t.Type != tokIdent {
		return "", fmt.Errorf("col %d: expected identifier, got %q", t.Col, t.Value)
	}
	return t.Value, nil
}

func (p *parser) done() error {
	if t := p.peek(); t != nil {
		return fmt.Errorf("col %d: unexpected %q", t.Col, t.Value)
	}
	return nil
}

// parseType: '*' | ['in'|'out'] Ident ['<' Type {',' Type} '>'] ['?']
func (p *parser) parseType() (Type, error) {
	if p.accept("*") {
		return Star(), nil
	}

	variance := Invariant
	if t := p.peek(); t != nil && t.Type == tokIdent && (t.Value == "in" || t.Value == "out") {
		if n := p.pos + 1; n < len(p.tokens) && p.tokens[n].Type == tokIdent {
			p.pos++
			if t.Value == "in" {
				variance = In
			} else {
				variance = Out
			}
		}
	}

	name, err := p.ident()
	if err != nil {
		return Type{}, err
	}

	var t Type
	if slices.Contains(p.scope, name) {
		t = TypeParam(name)
	} else {
		t = Named(name)
	}
	t.Variance = variance

	if p.accept("<") {
		if t.Kind == KindParam {
			return Type{}, fmt.Errorf("type parameter %s cannot take arguments", name)
		}
		for {
			arg, err := p.parseType()
			if err != nil {
				return Type{}, err
			}
			t.Args = append(t.Args, arg)
			if p.accept(">") {
				break
			}
			if err := p.expect(","); err != nil {
				return Type{}, err
			}
		}
	}

	if p.accept("?") {
		t.Nullable = true
	}
	return t, nil
}

func (p *parser) parseNames() ([]string, error) {
	var names []string
	for {
		n, err := p.ident()
		if err != nil {
			return nil, err
		}
		names = append(names, n)
		if p.accept(">") {
			return names, nil
		}
		if err := p.expect(","); err != nil {
			return nil, err
		}
	}
}

// parseParam: [Ident ':'] Type
func (p *parser) parseParam() (Param, error) {
	var prm Param
	if t := p.peek(); t != nil && t.Type == tokIdent && p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].Value == ":" {
		prm.Name = t.Value
		p.pos += 2
	}
	typ, err := p.parseType()
	if err != nil {
		return Param{}, err
	}
	prm.Type = typ
	return prm, nil
}

func (p *parser) parseParams() ([]Param, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	var params []Param
	if p.accept(")") {
		return params, nil
	}
	for {
		prm, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		params = append(params, prm)
		if p.accept(")") {
			return params, nil
		}
		if err := p.expect(","); err != nil {
			return nil, err
		}
	}
}

// parseSignature: ['fun'] ['<' Names '>'] Ident '(' Params ')' [':' Type]
func (p *parser) parseSignature() (Signature, error) {
	var sig Signature
	p.accept("fun")

	if p.accept("<") {
		names, err := p.parseNames()
		if err != nil {
			return Signature{}, err
		}
		sig.TypeParams = names
		p.scope = append(slices.Clone(p.scope), names...)
	}

	name, err := p.ident()
	if err != nil {
		return Signature{}, err
	}
	sig.Name = name

	if sig.Params, err = p.parseParams(); err != nil {
		return Signature{}, err
	}

	sig.Return = Unit()
	if p.accept(":") {
		if sig.Return, err = p.parseType(); err != nil {
			return Signature{}, err
		}
	}
	return sig, nil
}

// parseExpr: Number | Ident [op Number]
func (p *parser) parseExpr(ctor []Param) (Expr, error) {
	t := p.next()
	if t == nil {
		return Expr{}, fmt.Errorf("expected argument, got end of input")
	}

	if t.Type == tokNumber || t.Value == "-" {
		neg := t.Value == "-"
		if neg {
			if t = p.next(); t == nil || t.Type != tokNumber {
				return Expr{}, fmt.Errorf("expected number after '-'")
			}
		}
		v, err := strconv.ParseInt(t.Value, 10, 64)
		if err != nil {
			return Expr{}, err
		}
		if neg {
			v = -v
		}
		return Expr{Param: -1, Op: OpConst, Operand: v}, nil
	}

	if t.Type != tokIdent {
		return Expr{}, fmt.Errorf("col %d: unexpected %q", t.Col, t.Value)
	}
	idx := slices.IndexFunc(ctor, func(prm Param) bool { return prm.Name == t.Value })
	if idx < 0 {
		return Expr{}, fmt.Errorf("col %d: %q is not a constructor parameter", t.Col, t.Value)
	}

	e := Expr{Param: idx}
	op := p.peek()
	if op == nil || op.Type != tokPunct {
		return e, nil
	}
	switch op.Value {
	case "+":
		e.Op = OpAdd
	case "-":
		e.Op = OpSub
	case "*":
		e.Op = OpMul
	case "/":
		e.Op = OpDiv
	default:
		return e, nil
	}
	p.pos++

	num := p.next()
	if num == nil || num.Type != tokNumber {
		return Expr{}, fmt.Errorf("expected number after %q", op.Value)
	}
	v, err := strconv.ParseInt(num.Value, 10, 64)
	if err != nil {
		return Expr{}, err
	}
	if e.Op == OpDiv && v == 0 {
		return Expr{}, fmt.Errorf("division by zero")
	}
	e.Operand = v
	return e, nil
}

func newParser(input string, scope []string) (*parser, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	return &parser{tokens: tokens, scope: scope}, nil
}

// ParseType parses a type expression such as "MutableList<out E>?". Names
// listed in scope are type parameters.
func ParseType(input string, scope []string) (Type, error) {
	p, err := newParser(input, scope)
	if err != nil {
		return Type{}, errors.ParseFailed("type "+strconv.Quote(input), err)
	}
	t, err := p.parseType()
	if err == nil {
		err = p.done()
	}
	if err != nil {
		return Type{}, errors.ParseFailed("type "+strconv.Quote(input), err)
	}
	return t, nil
}

// ParseSignature parses a member signature such as
// "<T> toArray(a: Array<out T>): Array<T>". A missing return type is Unit.
func ParseSignature(input string, scope []string) (Signature, error) {
	p, err := newParser(input, scope)
	if err != nil {
		return Signature{}, errors.ParseFailed("signature "+strconv.Quote(input), err)
	}
	sig, err := p.parseSignature()
	if err == nil {
		err = p.done()
	}
	if err != nil {
		return Signature{}, errors.ParseFailed("signature "+strconv.Quote(input), err)
	}
	return sig, nil
}

// ParseParam parses a constructor parameter such as "b: Int".
func ParseParam(input string, scope []string) (Param, error) {
	p, err := newParser(input, scope)
	if err != nil {
		return Param{}, errors.ParseFailed("parameter "+strconv.Quote(input), err)
	}
	prm, err := p.parseParam()
	if err == nil {
		err = p.done()
	}
	if err != nil {
		return Param{}, errors.ParseFailed("parameter "+strconv.Quote(input), err)
	}
	return prm, nil
}

// ParseSupertype parses "Type", "Type by expr" or "Base(arg, ...)".
// Super-constructor arguments refer to ctor parameters by name.
func ParseSupertype(input string, scope []string, ctor []Param) (Supertype, error) {
	fail := func(err error) (Supertype, error) {
		return Supertype{}, errors.ParseFailed("supertype "+strconv.Quote(input), err)
	}

	p, err := newParser(input, scope)
	if err != nil {
		return fail(err)
	}

	var st Supertype
	if st.Type, err = p.parseType(); err != nil {
		return fail(err)
	}

	switch {
	case p.accept("by"):
		if st.Delegate, err = p.ident(); err != nil {
			return fail(err)
		}
	case p.accept("("):
		st.Call = []Expr{}
		if !p.accept(")") {
			for {
				e, err := p.parseExpr(ctor)
				if err != nil {
					return fail(err)
				}
				st.Call = append(st.Call, e)
				if p.accept(")") {
					break
				}
				if err := p.expect(","); err != nil {
					return fail(err)
				}
			}
		}
	}

	if err := p.done(); err != nil {
		return fail(err)
	}
	return st, nil
}
