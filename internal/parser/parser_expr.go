package parser

import (
	"strconv"

	"github.com/knfc-lang/knfc/internal/ast"
	"github.com/knfc-lang/knfc/internal/errors"
	"github.com/knfc-lang/knfc/internal/lexer"
)

// parseExpr dispatches on the leading token to the five surface forms:
//
//	expr := let | if | fun | binop
func (p *Parser) parseExpr() (ast.Expr, error) {
	switch p.cur.Type {
	case lexer.LET:
		return p.parseLet()
	case lexer.IF:
		return p.parseIf()
	case lexer.FUN:
		return p.parseFun()
	default:
		return p.parseComparison()
	}
}

func (p *Parser) parseIf() (ast.Expr, error) {
	pos := p.pos()
	if _, err := p.expect(lexer.IF); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.THEN); err != nil {
		return nil, err
	}
	thenE, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ELSE); err != nil {
		return nil, err
	}
	elseE, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.If{Cond: cond, Then: thenE, Else: elseE, Pos: pos}, nil
}

// parseFun parses:
//
//	fun := "fun" param+ "->" expr
//
// desugaring multiple parameters into nested unary ast.Lambda; C5 folds
// them back into n-ary form.
func (p *Parser) parseFun() (ast.Expr, error) {
	pos := p.pos()
	if _, err := p.expect(lexer.FUN); err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return nil, p.errorf(errors.PAR004InvalidLambda, "fun requires at least one parameter")
	}
	if _, err := p.expect(lexer.ARROW); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	for i := len(params) - 1; i >= 0; i-- {
		body = &ast.Lambda{Param: params[i], Body: body, Pos: pos}
	}
	return body, nil
}

// The comparison/additive/multiplicative ladder implements precedence
// climbing over the binary operators, lowest to highest. Each operator
// desugars immediately to a fully-applied ast.Apply chain over an
// ast.OpRef (spec.md §3: operators are first-class atoms, never a
// separate BinOp surface form).
func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := comparisonOp(p.cur.Type)
		if !ok {
			return left, nil
		}
		pos := p.pos()
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = buildBinOp(op, left, right, pos)
	}
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == lexer.PLUS || p.cur.Type == lexer.MINUS {
		op := ast.OpAdd
		if p.cur.Type == lexer.MINUS {
			op = ast.OpSub
		}
		pos := p.pos()
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = buildBinOp(op, left, right, pos)
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == lexer.STAR || p.cur.Type == lexer.SLASH {
		op := ast.OpMul
		if p.cur.Type == lexer.SLASH {
			op = ast.OpDiv
		}
		pos := p.pos()
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = buildBinOp(op, left, right, pos)
	}
	return left, nil
}

// parseUnary handles unary negation as sugar for "0 - e" (SPEC_FULL.md
// §3), the surface desugaring equivalent of the original's neg() helper.
func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.cur.Type == lexer.MINUS {
		pos := p.pos()
		p.advance()
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return buildBinOp(ast.OpSub, &ast.IntLit{Value: 0, Pos: pos}, e, pos), nil
	}
	return p.parseApplication()
}

// parseApplication parses left-associative juxtaposition: f a b c, as
// nested unary ast.Apply. C5 folds these back into n-ary form.
func (p *Parser) parseApplication() (ast.Expr, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for isAtomStart(p.cur.Type) {
		pos := p.pos()
		arg, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		left = &ast.Apply{Func: left, Arg: arg, Pos: pos}
	}
	return left, nil
}

func (p *Parser) parseAtom() (ast.Expr, error) {
	switch p.cur.Type {
	case lexer.INT:
		pos := p.pos()
		v, err := strconv.ParseInt(p.cur.Literal, 10, 32)
		if err != nil {
			return nil, p.errorf(errors.PAR001UnexpectedToken, "integer literal %q out of range", p.cur.Literal)
		}
		p.advance()
		return &ast.IntLit{Value: int32(v), Pos: pos}, nil

	case lexer.TRUE:
		pos := p.pos()
		p.advance()
		return &ast.BoolLit{Value: true, Pos: pos}, nil

	case lexer.FALSE:
		pos := p.pos()
		p.advance()
		return &ast.BoolLit{Value: false, Pos: pos}, nil

	case lexer.UNIT:
		pos := p.pos()
		p.advance()
		return &ast.UnitLit{Pos: pos}, nil

	case lexer.IDENT:
		pos := p.pos()
		name := p.cur.Literal
		p.advance()
		return &ast.VarRef{Name: name, Pos: pos}, nil

	case lexer.LPAREN:
		pos := p.pos()
		p.advance()
		if op, ok := comparisonOp(p.cur.Type); ok && p.next.Type == lexer.RPAREN {
			p.advance()
			p.advance()
			return &ast.OpRef{Op: op, Pos: pos}, nil
		}
		if op, ok := arithOp(p.cur.Type); ok && p.next.Type == lexer.RPAREN {
			p.advance()
			p.advance()
			return &ast.OpRef{Op: op, Pos: pos}, nil
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return e, nil

	default:
		return nil, p.errorf(errors.PAR001UnexpectedToken, "expected an expression, found %q", p.cur.Literal)
	}
}

func isAtomStart(t lexer.TokenType) bool {
	switch t {
	case lexer.INT, lexer.TRUE, lexer.FALSE, lexer.UNIT, lexer.IDENT, lexer.LPAREN:
		return true
	default:
		return false
	}
}

func comparisonOp(t lexer.TokenType) (ast.OpType, bool) {
	switch t {
	case lexer.EQEQ:
		return ast.OpEq, true
	case lexer.NEQ:
		return ast.OpNeq, true
	case lexer.LT:
		return ast.OpLt, true
	case lexer.GT:
		return ast.OpGt, true
	case lexer.LEQ:
		return ast.OpLeq, true
	case lexer.GEQ:
		return ast.OpGeq, true
	default:
		return 0, false
	}
}

func arithOp(t lexer.TokenType) (ast.OpType, bool) {
	switch t {
	case lexer.PLUS:
		return ast.OpAdd, true
	case lexer.MINUS:
		return ast.OpSub, true
	case lexer.STAR:
		return ast.OpMul, true
	case lexer.SLASH:
		return ast.OpDiv, true
	default:
		return 0, false
	}
}

// buildBinOp desugars a binary operator application to the fully-applied
// Apply(Apply(OpRef, left), right) form spec.md §3 treats as canonical.
func buildBinOp(op ast.OpType, left, right ast.Expr, pos ast.Pos) ast.Expr {
	return &ast.Apply{
		Func: &ast.Apply{Func: &ast.OpRef{Op: op, Pos: pos}, Arg: left, Pos: pos},
		Arg:  right,
		Pos:  pos,
	}
}
