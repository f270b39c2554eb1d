package parser

import (
	"fmt"
	"strconv"

	"github.com/skx/lang-compiler/ast"
	"github.com/skx/lang-compiler/token"
)

// atTerminal reports whether the current token ends an expression: a
// NewLine, Colon, Comma, RightParenthesis, or EOF (spec.md §4.2's terminal
// set, plus EOF as a defensive addition against truncated input).
func (p *Parser) atTerminal() bool {
	switch p.peek().Kind {
	case token.NewLine, token.Colon, token.Comma, token.RightParenthesis, token.EOF:
		return true
	}
	return false
}

// parseExpression is a value-returning precedence-climbing parser: it loops
// over primaries and operator continuations, returning as soon as it meets
// a terminal or an operator whose priority does not exceed currentPriority
// (the priority of the operator whose right-hand side is being built).
// hasOperator is false only for the outermost call and for the operand
// positions that must consume a full sub-expression regardless of priority
// (parenthesized expressions, ternary branches, call arguments, assigned
// values). A unary operator is recognized only where no operand has been
// parsed yet, which tells unary '-' apart from subtraction.
func (p *Parser) parseExpression(currentPriority int, hasOperator bool) (ast.Node, error) {
	var left ast.Node

	for !p.atTerminal() {
		tok := p.peek()

		switch {
		case tok.Kind == token.LeftParenthesis:
			node, err := p.parseParenthesizedExpression()
			if err != nil {
				return nil, err
			}
			left = node

		case tok.Kind == token.Literal:
			node, err := p.parseLiteral()
			if err != nil {
				return nil, err
			}
			left = node

		case tok.Kind == token.Identifier:
			node, err := p.parseIdentifierExpression()
			if err != nil {
				return nil, err
			}
			left = node

		case tok.Kind.IsUnaryOperator() && left == nil:
			node, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = node

		case tok.Kind.IsBinaryOperator() || tok.Kind.IsComparisonOperator() || tok.Kind == token.QuestionMark:
			if hasOperator && tok.Kind.Priority() <= currentPriority {
				return left, nil
			}
			node, err := p.parseOperatorContinuation(left, tok)
			if err != nil {
				return nil, err
			}
			left = node

		default:
			return nil, p.errorAt(tok, fmt.Sprintf("unexpected token %s %q in expression", tok.Kind, tok.Text))
		}
	}

	return left, nil
}

func (p *Parser) parseOperatorContinuation(left ast.Node, tok token.Token) (ast.Node, error) {
	switch {
	case tok.Kind == token.QuestionMark:
		return p.parseTernary(left)
	case tok.Kind.IsComparisonOperator():
		return p.parseLogic(left, tok)
	case tok.Kind.IsBinaryOperator():
		return p.parseBinary(left, tok)
	default:
		return nil, p.errorAt(tok, fmt.Sprintf("unexpected operator %s", tok.Kind))
	}
}

func (p *Parser) parseBinary(left ast.Node, opTok token.Token) (ast.Node, error) {
	if opTok.Kind == token.Assignment {
		// A name followed by '=' is handled by parseIdentifierExpression;
		// an '=' reaching here follows some other kind of operand.
		return nil, p.errorAt(opTok, "assignment target must be a variable name")
	}
	p.advance()
	right, err := p.parseExpression(opTok.Kind.Priority(), true)
	if err != nil {
		return nil, err
	}
	return ast.NewBinaryOperator(opTok.Kind, left, right), nil
}

func (p *Parser) parseLogic(left ast.Node, opTok token.Token) (ast.Node, error) {
	p.advance()
	right, err := p.parseExpression(opTok.Kind.Priority(), true)
	if err != nil {
		return nil, err
	}
	return ast.NewLogicOperator(opTok.Kind, left, right), nil
}

// parseTernary parses "cond ? trueExpr : falseExpr". Both branches are
// parsed as fresh, unbounded sub-expressions (no operator priority carries
// across the "?" or ":" per spec.md §4.2).
func (p *Parser) parseTernary(cond ast.Node) (ast.Node, error) {
	p.advance() // consume '?'
	trueExpr, err := p.parseExpression(0, false)
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKind(token.Colon); err != nil {
		return nil, err
	}
	falseExpr, err := p.parseExpression(0, false)
	if err != nil {
		return nil, err
	}
	return ast.NewTernaryOperator(cond, trueExpr, falseExpr), nil
}

// parseUnary consumes a prefix operator and binds it tightly to the
// expression that follows, at the unary priority (the highest in the
// table), so that e.g. "-a + b" parses as "(-a) + b" rather than
// "-(a + b)".
func (p *Parser) parseUnary() (ast.Node, error) {
	opTok := p.advance()
	// Tilde reports the unary tier; Minus.Priority() is its infix tier.
	operand, err := p.parseExpression(token.Tilde.Priority(), true)
	if err != nil {
		return nil, err
	}
	return ast.NewUnaryOperator(opTok.Kind, operand), nil
}

// parseParenthesizedExpression consumes a "(" then recurses for the
// contained expression with no inherited priority; the recursive call's own
// terminal check on RightParenthesis naturally stops it at the matching
// ")", including through any nesting, with no manual balanced-range scan
// required.
func (p *Parser) parseParenthesizedExpression() (ast.Node, error) {
	open := p.advance()
	inner, err := p.parseExpression(0, false)
	if err != nil {
		return nil, err
	}
	if !p.check(token.RightParenthesis) {
		return nil, p.errorAt(open, "unbalanced parentheses: no matching ')' for '('")
	}
	p.advance()
	return inner, nil
}

func (p *Parser) parseLiteral() (ast.Node, error) {
	tok := p.advance()
	value, err := strconv.ParseInt(tok.Text, 10, 32)
	if err != nil {
		return nil, p.errorAt(tok, fmt.Sprintf("invalid integer literal %q", tok.Text))
	}
	return ast.NewConstant(int32(value)), nil
}

// parseIdentifierExpression resolves an Identifier token into a
// VariableDeclaration (first assignment to this name in the current
// function), an assignment BinaryOperator (a later assignment), a
// FunctionCall, or a VariableReference, per spec.md §4.2's dispatch and
// §3's name-resolution invariants. A bare reference to an undeclared name,
// and a call to an undeclared function, are both rejected here rather than
// deferred to code generation.
func (p *Parser) parseIdentifierExpression() (ast.Node, error) {
	nameTok := p.advance()
	name := nameTok.Text

	if p.check(token.Assignment) {
		p.advance()
		init, err := p.parseExpression(0, false)
		if err != nil {
			return nil, err
		}

		if p.isDeclared(name) {
			ref := ast.NewVariableReference(name)
			return ast.NewBinaryOperator(token.Assignment, ref, init), nil
		}
		p.declare(name)
		return ast.NewVariableDeclaration(name, init), nil
	}

	if p.check(token.LeftParenthesis) {
		if !p.isFunctionDeclared(name) {
			return nil, p.errorAt(nameTok, fmt.Sprintf("call to unknown function %q", name))
		}
		return p.parseCallArguments(name)
	}

	if !p.isDeclared(name) {
		return nil, p.errorAt(nameTok, fmt.Sprintf("undefined variable %q", name))
	}
	return ast.NewVariableReference(name), nil
}

// parseCallArguments parses "( [arg[, arg...][,]] )". Trailing commas are
// tolerated in both the argument-list and parameter-list grammars
// (spec.md §9).
func (p *Parser) parseCallArguments(name string) (ast.Node, error) {
	call := ast.NewFunctionCall(name)
	p.advance() // consume '('

	for !p.check(token.RightParenthesis) {
		arg, err := p.parseExpression(0, false)
		if err != nil {
			return nil, err
		}
		call.AddArgument(arg)
		if p.check(token.Comma) {
			p.advance()
			continue
		}
		break
	}

	if _, err := p.expectKind(token.RightParenthesis); err != nil {
		return nil, err
	}
	return call, nil
}
