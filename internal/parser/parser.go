// Package parser implements the lexer/parser collaborator named in
// spec.md §1/§6.1: a small hand-written recursive-descent parser that
// turns a lexer.Lexer token stream into the surface AST (package ast)
// consumed by package resolve. Parsing itself is explicitly out of scope
// for the compiler's semantic core, but the core needs a surface AST to
// operate on, so a minimal parser lives here in the teacher's own
// hand-written-no-generator idiom rather than being stubbed out.
package parser

import (
	"fmt"

	"github.com/knfc-lang/knfc/internal/ast"
	"github.com/knfc-lang/knfc/internal/errors"
	"github.com/knfc-lang/knfc/internal/lexer"
	"github.com/knfc-lang/knfc/internal/namegen"
)

// Parser consumes a lexer.Lexer's token stream one token of lookahead at a
// time.
type Parser struct {
	lex  *lexer.Lexer
	file string
	cur  lexer.Token
	next lexer.Token

	// tvarGen mints placeholder type variables for function-sugar
	// parameters left unannotated by the user. These are ordinary fresh
	// Mono type variables from the checker's point of view, just minted a
	// phase earlier, under a "ptv" prefix that can never collide with the
	// checker's own "t"-prefixed fresh variables (spec.md §5, "Global
	// counters... never shared across passes").
	tvarGen *namegen.Generator
}

// Parse parses a complete program: a single top-level expression.
func Parse(file string, src []byte) (ast.Expr, error) {
	p := &Parser{
		file:    file,
		lex:     lexer.New(file, lexer.Normalize(src)),
		tvarGen: namegen.New("ptv"),
	}
	p.advance()
	p.advance()

	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != lexer.EOF {
		return nil, p.errorf(errors.PAR001UnexpectedToken, "unexpected trailing token %q", p.cur.Literal)
	}
	return e, nil
}

func (p *Parser) advance() {
	p.cur = p.next
	p.next = p.lex.Next()
}

func (p *Parser) pos() ast.Pos {
	return ast.Pos{File: p.file, Line: p.cur.Line, Column: p.cur.Column, Offset: p.cur.Offset}
}

func (p *Parser) errorf(code, format string, args ...interface{}) error {
	return errors.Parse(code, fmt.Sprintf(format, args...), p.pos())
}

func (p *Parser) expect(t lexer.TokenType) (lexer.Token, error) {
	if p.cur.Type != t {
		return lexer.Token{}, p.errorf(errors.PAR001UnexpectedToken,
			"expected %s, found %q", t, p.cur.Literal)
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

func (p *Parser) freshTypeVar() string {
	return p.tvarGen.Next()
}
