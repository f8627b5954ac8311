package condition

import (
	"errors"
	"fmt"
	"strconv"
)

type node interface {
	eval(values map[string]any) (any, error)
}

type orNode struct{ left, right node }

func (n orNode) eval(values map[string]any) (any, error) {
	left, err := n.left.eval(values)
	if err != nil {
		return nil, err
	}
	if truthy(left) {
		return true, nil
	}
	right, err := n.right.eval(values)
	if err != nil {
		return nil, err
	}
	return truthy(right), nil
}

type andNode struct{ left, right node }

func (n andNode) eval(values map[string]any) (any, error) {
	left, err := n.left.eval(values)
	if err != nil {
		return nil, err
	}
	if !truthy(left) {
		return false, nil
	}
	right, err := n.right.eval(values)
	if err != nil {
		return nil, err
	}
	return truthy(right), nil
}

type notNode struct{ inner node }

func (n notNode) eval(values map[string]any) (any, error) {
	inner, err := n.inner.eval(values)
	if err != nil {
		return nil, err
	}
	return !truthy(inner), nil
}

type compareNode struct {
	op          tokenKind
	left, right node
}

func (n compareNode) eval(values map[string]any) (any, error) {
	left, err := n.left.eval(values)
	if err != nil {
		return nil, err
	}
	right, err := n.right.eval(values)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case tokenEq:
		return equal(left, right), nil
	case tokenNeq:
		return !equal(left, right), nil
	default:
		cmp, ok := order(left, right)
		if !ok {
			return false, nil
		}
		switch n.op {
		case tokenLt:
			return cmp < 0, nil
		case tokenLte:
			return cmp <= 0, nil
		case tokenGt:
			return cmp > 0, nil
		case tokenGte:
			return cmp >= 0, nil
		}
	}
	return nil, fmt.Errorf("condition: unsupported operator %d", n.op)
}

type identNode struct{ path string }

func (n identNode) eval(values map[string]any) (any, error) {
	value, _ := lookup(values, n.path)
	return value, nil
}

type literalNode struct{ value any }

func (n literalNode) eval(map[string]any) (any, error) {
	return n.value, nil
}

type parser struct {
	tokens []token
	pos    int
}

func parse(tokens []token) (node, error) {
	p := &parser{tokens: tokens}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, fmt.Errorf("condition: unexpected %q at %d", tok.text, tok.pos)
	}
	return root, nil
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) match(kinds ...tokenKind) (token, bool) {
	tok, ok := p.peek()
	if !ok {
		return token{}, false
	}
	for _, kind := range kinds {
		if tok.kind == kind {
			p.pos++
			return tok, true
		}
	}
	return token{}, false
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.match(tokenOr); !ok {
			return left, nil
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.match(tokenAnd); !ok {
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	if _, ok := p.match(tokenNot); ok {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (node, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	op, ok := p.match(tokenEq, tokenNeq, tokenLt, tokenLte, tokenGt, tokenGte)
	if !ok {
		return left, nil
	}
	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return compareNode{op: op.kind, left: left, right: right}, nil
}

func (p *parser) parseOperand() (node, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, errors.New("condition: unexpected end of expression")
	}
	p.pos++

	switch tok.kind {
	case tokenLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, ok := p.match(tokenRParen); !ok {
			return nil, fmt.Errorf("condition: missing ')' for '(' at %d", tok.pos)
		}
		return inner, nil
	case tokenIdent:
		return identNode{path: tok.text}, nil
	case tokenString:
		return literalNode{value: tok.text}, nil
	case tokenNumber:
		n, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, fmt.Errorf("condition: invalid number %q: %w", tok.text, err)
		}
		return literalNode{value: n}, nil
	case tokenBool:
		return literalNode{value: tok.text == "true"}, nil
	case tokenNull:
		return literalNode{value: nil}, nil
	case tokenNot:
		inner, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	default:
		return nil, fmt.Errorf("condition: unexpected %q at %d", tok.text, tok.pos)
	}
}
