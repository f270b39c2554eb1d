// Package parser implements the hand-written recursive-descent parser: it
// consumes the Token sequence the lexer produced and builds a single
// Program AST. Expression parsing is precedence-climbing and
// value-returning (see DESIGN.md's resolution of spec.md §9's "expression
// stack vs. direct return" note); statement and block parsing are driven by
// an indentation-stack discipline over the lexer's leading-of-line
// Whitespace tokens.
package parser

import (
	"fmt"

	"github.com/skx/lang-compiler/ast"
	"github.com/skx/lang-compiler/diag"
	"github.com/skx/lang-compiler/token"
)

// ParseError reports a syntactic failure with its source position:
// unbalanced parentheses, a wrong token where a specific kind was required,
// bad indentation, an undefined variable, or an unknown function. There is
// no recovery; the first ParseError aborts parsing.
type ParseError struct {
	Message string
	Line    int
	Column  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (line %d, column %d)", e.Message, e.Line, e.Column)
}

// ToDiag renders e as a diag.Error against source, for CLI presentation.
func (e *ParseError) ToDiag(source string) *diag.Error {
	return diag.New(diag.Parse, e.Message, e.Line, e.Column, source)
}

// Parse builds a Program AST out of tokens. tokens is consumed destructively
// in the sense that the parser never revisits a position once it advances
// past it; callers must not reuse the slice for a second parse.
func Parse(tokens []token.Token) (*ast.Program, error) {
	p := &Parser{tokens: tokens, declaredFuncs: map[string]bool{}}
	return p.parseProgram()
}

// Parser holds the parsing cursor and the bookkeeping spec.md §3's
// name-resolution invariant requires: a stack of per-function declared
// variable names (pushed on function entry, popped on exit — a function's
// nested blocks share its single declaration set, per spec.md's Block
// invariant) and a single flat set of declared function names, visible from
// the point their "def" is parsed onward.
type Parser struct {
	tokens []token.Token
	pos    int

	scopes        []map[string]bool
	declaredFuncs map[string]bool

	indent    int // indentation width of the block currently being parsed
	lineIndent int // indentation width of the statement currently being parsed
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *Parser) peek() token.Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(offset int) token.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return token.New(token.EOF, "", 0, 0)
	}
	return p.tokens[idx]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	p.pos++
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) expectKind(kind token.Kind) (token.Token, error) {
	if !p.check(kind) {
		tok := p.peek()
		return token.Token{}, p.errorAt(tok, fmt.Sprintf("expected %s, found %s %q", kind, tok.Kind, tok.Text))
	}
	return p.advance(), nil
}

func (p *Parser) errorAt(tok token.Token, message string) *ParseError {
	return &ParseError{Message: message, Line: tok.Line, Column: tok.Column}
}

func (p *Parser) skipNewlines() {
	for p.check(token.NewLine) {
		p.advance()
	}
}

func (p *Parser) pushScope() {
	p.scopes = append(p.scopes, map[string]bool{})
}

func (p *Parser) popScope() {
	p.scopes = p.scopes[:len(p.scopes)-1]
}

func (p *Parser) declare(name string) {
	p.scopes[len(p.scopes)-1][name] = true
}

// isDeclared reports whether name is a variable declared earlier in the
// current function — only the innermost (current) scope is consulted,
// since nested function definitions never see an enclosing function's
// locals (there is no closure support, and no calling convention lowers
// arguments; see spec.md §9).
func (p *Parser) isDeclared(name string) bool {
	if len(p.scopes) == 0 {
		return false
	}
	return p.scopes[len(p.scopes)-1][name]
}

func (p *Parser) isFunctionDeclared(name string) bool {
	return p.declaredFuncs[name]
}

// parseProgram parses every top-level token. A top-level "def" becomes a
// Program-level FunctionDefinition; any other top-level statement is
// appended to a lazily-synthesized "main" function, matching spec.md §6's
// "implicitly the body of an implicit main function" note while still
// honoring §3's invariant that the root contains a function named "main" —
// an explicit top-level "def main():" satisfies that invariant just as
// well and no implicit one is created when nothing needs it.
func (p *Parser) parseProgram() (*ast.Program, error) {
	program := ast.NewProgram()

	var implicitMain *ast.FunctionDefinition
	openImplicitMain := func() {
		if implicitMain != nil {
			return
		}
		implicitMain = ast.NewFunctionDefinition("main", nil, ast.NewBlock(true))
		program.AddFunction(implicitMain)
		p.declaredFuncs["main"] = true
		p.pushScope()
	}

	for !p.atEnd() {
		switch p.peek().Kind {
		case token.NewLine:
			p.advance()
		case token.Whitespace:
			p.advance()
		case token.KeywordDef:
			fn, err := p.parseFunctionDefinition()
			if err != nil {
				return nil, err
			}
			program.AddFunction(fn)
		default:
			openImplicitMain()
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			if stmt != nil {
				implicitMain.Body().AddStatement(stmt)
			}
		}
	}

	if implicitMain != nil {
		p.popScope()
	}

	mains := 0
	for _, fn := range program.Functions() {
		if fn.Name == "main" {
			mains++
		}
	}
	if mains == 0 {
		return nil, &ParseError{Message: "program does not define a function named \"main\"", Line: 1, Column: 1}
	}
	if mains > 1 {
		return nil, &ParseError{Message: "bare top-level statements form an implicit \"main\" that collides with an explicit \"def main()\"", Line: 1, Column: 1}
	}

	return program, nil
}

// parseStatement dispatches on the head token, after consuming and
// recording any leading-of-line Whitespace as the current statement's
// indentation (spec.md §4.2).
func (p *Parser) parseStatement() (ast.Node, error) {
	p.lineIndent = 0
	if p.check(token.Whitespace) {
		p.lineIndent = len(p.peek().Text)
		p.advance()
	}

	tok := p.peek()
	switch tok.Kind {
	case token.KeywordReturn:
		return p.parseReturnStatement()
	case token.KeywordIf:
		return p.parseIfStatement()
	case token.KeywordWhile:
		return p.parseWhileStatement()
	case token.KeywordDef:
		return p.parseFunctionDefinition()
	case token.Identifier:
		return p.parseExpression(0, false)
	case token.NewLine:
		p.advance()
		return nil, nil
	default:
		return nil, p.errorAt(tok, fmt.Sprintf("unexpected token %s %q", tok.Kind, tok.Text))
	}
}

func (p *Parser) parseReturnStatement() (ast.Node, error) {
	if _, err := p.expectKind(token.KeywordReturn); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression(0, false)
	if err != nil {
		return nil, err
	}
	return ast.NewReturnStatement(expr), nil
}

func (p *Parser) parseWhileStatement() (ast.Node, error) {
	if _, err := p.expectKind(token.KeywordWhile); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(0, false)
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKind(token.Colon); err != nil {
		return nil, err
	}
	p.skipNewlines()
	body, err := p.parseBlock(false)
	if err != nil {
		return nil, err
	}
	return ast.NewWhileStatement(cond, body), nil
}

// parseIfStatement parses the leading "if" clause and then greedily
// attaches any "elif"/"else" clauses whose own indentation matches the
// "if"'s, per spec.md §4.2's if/elif/else grouping rule.
func (p *Parser) parseIfStatement() (ast.Node, error) {
	ifIndent := p.lineIndent

	ifStmt, err := p.parseIfClause()
	if err != nil {
		return nil, err
	}
	cond := ast.NewCondition(ifStmt)

	for {
		p.skipNewlines()
		indent, kind := p.lookaheadStatementIndent()
		if indent != ifIndent {
			break
		}

		switch kind {
		case token.KeywordElif:
			if p.check(token.Whitespace) {
				p.advance()
			}
			elif, err := p.parseElifClause()
			if err != nil {
				return nil, err
			}
			cond.AddElif(elif)
			continue
		case token.KeywordElse:
			if p.check(token.Whitespace) {
				p.advance()
			}
			els, err := p.parseElseClause()
			if err != nil {
				return nil, err
			}
			cond.SetElse(els)
		}
		break
	}

	return cond, nil
}

// lookaheadStatementIndent reports the indentation width and leading
// keyword of the next statement without consuming anything, treating the
// absence of a Whitespace token as zero indentation (the lexer never emits
// one for a column-1 line).
func (p *Parser) lookaheadStatementIndent() (int, token.Kind) {
	if p.check(token.Whitespace) {
		return len(p.peek().Text), p.peekAt(1).Kind
	}
	return 0, p.peek().Kind
}

func (p *Parser) parseIfClause() (*ast.IfStatement, error) {
	if _, err := p.expectKind(token.KeywordIf); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(0, false)
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKind(token.Colon); err != nil {
		return nil, err
	}
	p.skipNewlines()
	block, err := p.parseBlock(false)
	if err != nil {
		return nil, err
	}
	return ast.NewIfStatement(cond, block), nil
}

func (p *Parser) parseElifClause() (*ast.ElifStatement, error) {
	if _, err := p.expectKind(token.KeywordElif); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(0, false)
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKind(token.Colon); err != nil {
		return nil, err
	}
	p.skipNewlines()
	block, err := p.parseBlock(false)
	if err != nil {
		return nil, err
	}
	return ast.NewElifStatement(cond, block), nil
}

func (p *Parser) parseElseClause() (*ast.ElseStatement, error) {
	if _, err := p.expectKind(token.KeywordElse); err != nil {
		return nil, err
	}
	if _, err := p.expectKind(token.Colon); err != nil {
		return nil, err
	}
	p.skipNewlines()
	block, err := p.parseBlock(false)
	if err != nil {
		return nil, err
	}
	return ast.NewElseStatement(block), nil
}

// parseFunctionDefinition parses "def NAME ( [arg[, arg...][,]] ) :" followed
// by an indented block. Both the trailing-comma and no-trailing-comma
// argument-list forms are accepted (spec.md §4.2, §9).
func (p *Parser) parseFunctionDefinition() (*ast.FunctionDefinition, error) {
	if _, err := p.expectKind(token.KeywordDef); err != nil {
		return nil, err
	}
	nameTok, err := p.expectKind(token.Identifier)
	if err != nil {
		return nil, err
	}
	name := nameTok.Text
	p.declaredFuncs[name] = true

	if _, err := p.expectKind(token.LeftParenthesis); err != nil {
		return nil, err
	}
	var params []string
	for !p.check(token.RightParenthesis) {
		paramTok, err := p.expectKind(token.Identifier)
		if err != nil {
			return nil, err
		}
		params = append(params, paramTok.Text)
		if p.check(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expectKind(token.RightParenthesis); err != nil {
		return nil, err
	}
	if _, err := p.expectKind(token.Colon); err != nil {
		return nil, err
	}
	p.skipNewlines()

	p.pushScope()
	body, bodyErr := p.parseBlock(true)
	p.popScope()
	if bodyErr != nil {
		return nil, bodyErr
	}

	return ast.NewFunctionDefinition(name, params, body), nil
}

// parseBlock reads a run of statements at a single, freshly-determined
// indentation level (spec.md §4.2).
func (p *Parser) parseBlock(createsScope bool) (*ast.Block, error) {
	if !p.check(token.Whitespace) {
		return nil, p.errorAt(p.peek(), "expected an indented block")
	}
	indentation := len(p.peek().Text)
	if indentation <= p.indent {
		return nil, p.errorAt(p.peek(), "expected a deeper indentation level")
	}

	prevIndent := p.indent
	p.indent = indentation
	block := ast.NewBlock(createsScope)

	for p.check(token.Whitespace) && len(p.peek().Text) == indentation {
		stmt, err := p.parseStatement()
		if err != nil {
			p.indent = prevIndent
			return nil, err
		}
		if stmt != nil {
			block.AddStatement(stmt)
		}
		p.skipNewlines()
	}

	p.indent = prevIndent
	return block, nil
}
