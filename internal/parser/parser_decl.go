package parser

import (
	"github.com/knfc-lang/knfc/internal/ast"
	"github.com/knfc-lang/knfc/internal/errors"
	"github.com/knfc-lang/knfc/internal/lexer"
	"github.com/knfc-lang/knfc/internal/types"
)

// parseLet parses:
//
//	let := "let" ["rec"] IDENT param* [":" scheme] "=" expr "in" expr
//
// Zero params is the plain-value let of spec.md §6.1; one or more params is
// the SPEC_FULL.md §3 function-let sugar, desugaring to a plain let whose
// value is a chain of unary ast.Lambda and whose Bind carries the inferred
// arrow Scheme — the same annotated shape that spec.md §4.3's
// self-recursion exception already looks for, so "rec" needs no separate
// representation once desugaring is done.
func (p *Parser) parseLet() (ast.Expr, error) {
	pos := p.pos()
	if _, err := p.expect(lexer.LET); err != nil {
		return nil, err
	}

	rec := false
	if p.cur.Type == lexer.REC {
		rec = true
		p.advance()
	}

	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	name := nameTok.Literal

	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}

	var annScheme *types.Scheme
	if p.cur.Type == lexer.COLON {
		p.advance()
		s, err := p.parseScheme()
		if err != nil {
			return nil, err
		}
		annScheme = &s
	}

	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	valueBody, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.IN); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	var value ast.Expr
	var scheme *types.Scheme

	if len(params) == 0 {
		value = valueBody
		scheme = annScheme
	} else {
		retTy := types.TMono(types.TypeVar(p.freshTypeVar()))
		if annScheme != nil {
			retTy = annScheme.Ty
		}
		paramTys := make([]types.Ty, len(params))
		for i, prm := range params {
			if prm.Ann == nil {
				ty := types.TMono(types.TypeVar(p.freshTypeVar()))
				params[i].Ann = &ty
			}
			paramTys[i] = *params[i].Ann
		}
		fullTy := retTy
		for i := len(paramTys) - 1; i >= 0; i-- {
			fullTy = types.TArrow(paramTys[i], fullTy)
		}
		s := types.Monotype(fullTy)
		if annScheme != nil {
			s.Vars = annScheme.Vars
			s.Constraints = annScheme.Constraints
		}
		scheme = &s

		value = valueBody
		for i := len(params) - 1; i >= 0; i-- {
			value = &ast.Lambda{Param: params[i], Body: value, Pos: pos}
		}
	}

	if rec && scheme == nil {
		return nil, p.errorf(errors.PAR003InvalidLet,
			"self-recursive binding %q requires a type annotation", name)
	}

	return &ast.Let{
		Bind:  ast.LetBind{Name: name, Scheme: scheme},
		Value: value,
		Body:  body,
		Pos:   pos,
	}, nil
}

// parseParamList parses zero or more parameters of either form:
//
//	"(" IDENT [":" type] ")"   (possibly annotated)
//	IDENT                      (bare, unannotated)
func (p *Parser) parseParamList() ([]ast.Param, error) {
	var params []ast.Param
	for p.cur.Type == lexer.LPAREN || p.cur.Type == lexer.IDENT {
		if p.cur.Type == lexer.IDENT {
			params = append(params, ast.Param{Name: p.cur.Literal})
			p.advance()
			continue
		}
		p.advance() // consume "("
		nameTok, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		var ann *types.Ty
		if p.cur.Type == lexer.COLON {
			p.advance()
			ty, err := p.parseType()
			if err != nil {
				return nil, err
			}
			ann = &ty
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: nameTok.Literal, Ann: ann})
	}
	return params, nil
}
