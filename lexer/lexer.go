// Package lexer turns a source character stream into the ordered Token
// sequence the parser consumes. It is a single-pass scanner with one
// character of lookahead; it never backtracks.
package lexer

import (
	"fmt"

	"github.com/skx/lang-compiler/diag"
	"github.com/skx/lang-compiler/token"
)

// LexError reports a lexical failure with its source position. It aborts
// tokenization; there is no recovery.
type LexError struct {
	Message string
	Line    int
	Column  int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s on line %d, column %d", e.Message, e.Line, e.Column)
}

// ToDiag renders e as a diag.Error against source, for CLI presentation.
func (e *LexError) ToDiag(source string) *diag.Error {
	return diag.New(diag.Lexical, e.Message, e.Line, e.Column, source)
}

// operatorChars is the full set of characters that may begin or continue an
// operator lexeme.
const operatorChars = "+-*/~!<>()=?"

// alwaysSingle is the set of operator characters that resolve to a
// one-character token of their own, never extended by a following operator
// character. The one exception is '!' directly followed by '=', which
// readOperator scans as the long operator "!=".
const alwaysSingle = "+-*/~!()?"

// Lexer scans characters out of an input string.
type Lexer struct {
	input        []rune
	position     int // index of ch
	readPosition int // index of the next rune to read
	ch           rune

	line   int
	column int
}

// New creates a Lexer over input.
func New(input string) *Lexer {
	l := &Lexer{input: []rune(input), line: 1, column: 1}
	l.readChar()
	return l
}

// Tokenize runs the lexer to completion and returns every token it
// produces, in source order, not including a trailing EOF marker.
func Tokenize(input string) ([]token.Token, error) {
	l := New(input)
	var tokens []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.EOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = rune(0)
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

// advance consumes the current character, updating line/column bookkeeping.
// Newlines reset column to 1 and are handled by their own caller instead,
// since a NewLine token must be emitted before the position resets.
func (l *Lexer) advance() {
	l.column++
	l.readChar()
}

// NextToken returns the next token in the stream, or a synthesized EOF
// token once the input is exhausted.
func (l *Lexer) NextToken() (token.Token, error) {
	atLineStart := l.column == 1

	switch {
	case l.ch == rune(0):
		return token.New(token.EOF, "", l.line, l.column), nil

	case l.ch == '\n':
		line, column := l.line, l.column
		l.line++
		l.column = 1
		l.readChar()
		return token.New(token.NewLine, "\n", line, column), nil

	case l.ch == ' ' || l.ch == '\t':
		if atLineStart {
			return l.readIndentation(), nil
		}
		// Interior whitespace is discarded but still advances the column.
		for l.ch == ' ' || l.ch == '\t' {
			l.advance()
		}
		return l.NextToken()

	case l.ch == ':':
		tok := token.New(token.Colon, ":", l.line, l.column)
		l.advance()
		return tok, nil

	case l.ch == ',':
		tok := token.New(token.Comma, ",", l.line, l.column)
		l.advance()
		return tok, nil

	case l.ch == '(':
		tok := token.New(token.LeftParenthesis, "(", l.line, l.column)
		l.advance()
		return tok, nil

	case l.ch == ')':
		tok := token.New(token.RightParenthesis, ")", l.line, l.column)
		l.advance()
		return tok, nil

	case isOperatorChar(l.ch):
		return l.readOperator()

	case isLetter(l.ch):
		return l.readIdentifier(), nil

	case isDigit(l.ch):
		return l.readNumber(), nil

	default:
		err := &LexError{Message: fmt.Sprintf("unknown character %q", l.ch), Line: l.line, Column: l.column}
		return token.Token{}, err
	}
}

// readIndentation consumes a run of leading-of-line space/tab characters
// and emits it as a single Whitespace token whose length is the
// indentation width.
func (l *Lexer) readIndentation() token.Token {
	line, column := l.line, l.column
	start := l.position
	for l.ch == ' ' || l.ch == '\t' {
		l.advance()
	}
	text := string(l.input[start:l.position])
	return token.New(token.Whitespace, text, line, column)
}

// readOperator resolves an always-single operator character immediately,
// or else greedily consumes the run of operator characters and looks the
// resulting lexeme up among the long operators.
func (l *Lexer) readOperator() (token.Token, error) {
	line, column := l.line, l.column

	bangEquals := l.ch == '!' && l.readPosition < len(l.input) && l.input[l.readPosition] == '='
	if containsByte(alwaysSingle, l.ch) && !bangEquals {
		ch := l.ch
		l.advance()
		return singleCharToken(ch, line, column), nil
	}

	start := l.position
	for isOperatorChar(l.ch) {
		l.advance()
	}
	text := string(l.input[start:l.position])

	kind, ok := token.LookupOperator(text)
	if !ok {
		return token.Token{}, &LexError{Message: fmt.Sprintf("unknown operator %q", text), Line: line, Column: column}
	}
	return token.New(kind, text, line, column), nil
}

func singleCharToken(ch rune, line, column int) token.Token {
	var kind token.Kind
	switch ch {
	case '+':
		kind = token.Plus
	case '-':
		kind = token.Minus
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '~':
		kind = token.Tilde
	case '!':
		kind = token.Negation
	case '(':
		kind = token.LeftParenthesis
	case ')':
		kind = token.RightParenthesis
	case '?':
		kind = token.QuestionMark
	}
	return token.New(kind, string(ch), line, column)
}

// readIdentifier consumes a letter/underscore followed by alphanumerics and
// underscores, then retags it to a keyword Kind if it matches one.
func (l *Lexer) readIdentifier() token.Token {
	line, column := l.line, l.column
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.advance()
	}
	text := string(l.input[start:l.position])
	return token.New(token.LookupIdentifier(text), text, line, column)
}

// readNumber consumes a run of decimal digits.
func (l *Lexer) readNumber() token.Token {
	line, column := l.line, l.column
	start := l.position
	for isDigit(l.ch) {
		l.advance()
	}
	text := string(l.input[start:l.position])
	return token.New(token.Literal, text, line, column)
}

func isOperatorChar(ch rune) bool {
	return containsByte(operatorChars, ch)
}

func containsByte(set string, ch rune) bool {
	for _, c := range set {
		if c == ch {
			return true
		}
	}
	return false
}

func isLetter(ch rune) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
