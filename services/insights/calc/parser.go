// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package calc parses and evaluates calculated-column expressions.
//
// # Grammar
//
// The expression language is deliberately closed: numeric literals,
// column references, the four arithmetic operators, parentheses, and
// unary minus. Nothing else tokenizes, so function calls, comparisons,
// and statement separators are rejected before evaluation is reached.
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = "-" unary | primary
//	primary = number | identifier | "(" expr ")"
package calc

import (
	"fmt"
	"sort"
	"strconv"
)

// =============================================================================
// AST
// =============================================================================

// node is one expression tree node.
type node interface {
	exprNode()
}

// numberLit is a numeric literal.
type numberLit struct {
	value float64
}

// columnRef references a result column by name.
type columnRef struct {
	name string
}

// binaryExpr applies an arithmetic operator to two operands.
type binaryExpr struct {
	op    tokenKind
	left  node
	right node
}

// unaryExpr negates its operand.
type unaryExpr struct {
	operand node
}

func (numberLit) exprNode()  {}
func (columnRef) exprNode()  {}
func (binaryExpr) exprNode() {}
func (unaryExpr) exprNode()  {}

// =============================================================================
// Parser
// =============================================================================

// parser is a recursive-descent parser over a token stream.
type parser struct {
	expr string
	toks []token
	pos  int
}

// Parse builds the expression tree for expr. The returned error is always
// an *InvalidExpressionError when parsing fails.
func Parse(expr string) (node, error) {
	toks, err := tokenize(expr)
	if err != nil {
		return nil, err
	}
	p := &parser{expr: expr, toks: toks}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorf(tok, "unexpected %s", tok.kind)
	}
	return root, nil
}

func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokPlus && tok.kind != tokMinus {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binaryExpr{op: tok.kind, left: left, right: right}
	}
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokStar && tok.kind != tokSlash {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryExpr{op: tok.kind, left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	if p.peek().kind == tokMinus {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unaryExpr{operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, p.errorf(tok, "malformed number %q", tok.text)
		}
		return numberLit{value: v}, nil
	case tokIdent:
		return columnRef{name: tok.text}, nil
	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		closing := p.next()
		if closing.kind != tokRParen {
			return nil, p.errorf(closing, "expected ')', got %s", closing.kind)
		}
		return inner, nil
	default:
		return nil, p.errorf(tok, "expected number, column, or '(', got %s", tok.kind)
	}
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	return &InvalidExpressionError{
		Expression: p.expr,
		Position:   tok.pos,
		Detail:     fmt.Sprintf(format, args...),
	}
}

// columnRefs returns the distinct column names referenced by n, sorted.
func columnRefs(n node) []string {
	set := make(map[string]bool)
	collectRefs(n, set)
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectRefs(n node, set map[string]bool) {
	switch v := n.(type) {
	case columnRef:
		set[v.name] = true
	case binaryExpr:
		collectRefs(v.left, set)
		collectRefs(v.right, set)
	case unaryExpr:
		collectRefs(v.operand, set)
	}
}
