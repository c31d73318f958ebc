package parser

import (
	"github.com/knfc-lang/knfc/internal/errors"
	"github.com/knfc-lang/knfc/internal/lexer"
	"github.com/knfc-lang/knfc/internal/types"
)

// parseScheme parses the surface scheme grammar:
//
//	scheme := ["forall" IDENT+ "."] [constraints "=>"] type
//	constraints := IDENT IDENT ("," IDENT IDENT)*
//
// e.g. "forall a. a -> a" or "forall a. Eq a => a -> a -> bool".
func (p *Parser) parseScheme() (types.Scheme, error) {
	var vars []types.TypeVar
	if p.cur.Type == lexer.FORALL {
		p.advance()
		for p.cur.Type == lexer.IDENT {
			vars = append(vars, types.TypeVar(p.cur.Literal))
			p.advance()
		}
		if _, err := p.expect(lexer.DOT); err != nil {
			return types.Scheme{}, err
		}
	}

	var constraints []types.TypeClassConstraint
	if p.cur.Type == lexer.IDENT && p.looksLikeConstraintList() {
		for {
			class, err := p.expect(lexer.IDENT)
			if err != nil {
				return types.Scheme{}, err
			}
			v, err := p.expect(lexer.IDENT)
			if err != nil {
				return types.Scheme{}, err
			}
			constraints = append(constraints, types.TypeClassConstraint{
				Class: class.Literal, TypeVar: types.TypeVar(v.Literal),
			})
			if p.cur.Type != lexer.COMMA {
				break
			}
			p.advance()
		}
		if _, err := p.expect(lexer.FATARROW); err != nil {
			return types.Scheme{}, err
		}
	}

	ty, err := p.parseType()
	if err != nil {
		return types.Scheme{}, err
	}
	return types.Scheme{Vars: vars, Constraints: constraints, Ty: ty}, nil
}

// looksLikeConstraintList disambiguates "Class tv => ..." from a bare type
// starting with an identifier (a type variable): two identifiers in a row
// ("Class tv") are taken as the start of a constraint list. It does not
// look for the "=>" itself; the caller's expect reports it if missing. It
// never consumes input.
func (p *Parser) looksLikeConstraintList() bool {
	return p.cur.Type == lexer.IDENT && p.next.Type == lexer.IDENT
}

// parseType parses the surface type grammar:
//
//	type     := atomType ["->" type]   (right-associative)
//	atomType := "int" | "bool" | "unit" | "(" type ")" | IDENT
func (p *Parser) parseType() (types.Ty, error) {
	left, err := p.parseAtomType()
	if err != nil {
		return types.Ty{}, err
	}
	if p.cur.Type == lexer.ARROW {
		p.advance()
		right, err := p.parseType()
		if err != nil {
			return types.Ty{}, err
		}
		return types.TArrow(left, right), nil
	}
	return left, nil
}

func (p *Parser) parseAtomType() (types.Ty, error) {
	switch p.cur.Type {
	case lexer.UNIT_KW:
		p.advance()
		return types.TUnit(), nil
	case lexer.IDENT:
		name := p.cur.Literal
		p.advance()
		switch name {
		case "int":
			return types.TInt(), nil
		case "bool":
			return types.TBool(), nil
		default:
			return types.TMono(types.TypeVar(name)), nil
		}
	case lexer.LPAREN:
		p.advance()
		ty, err := p.parseType()
		if err != nil {
			return types.Ty{}, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return types.Ty{}, err
		}
		return ty, nil
	default:
		return types.Ty{}, p.errorf(errors.PAR005InvalidType, "expected a type, found %q", p.cur.Literal)
	}
}
