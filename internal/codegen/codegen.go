// Package codegen implements C10 from spec.md §4.9: lowering a closure-
// converted program to portable C. The Builder owns every piece of state
// emission needs: a substitution-free variable map, the growing list of
// source lines, a temp-name counter, and the current indentation level.
package codegen

import (
	"fmt"
	"strings"

	"github.com/knfc-lang/knfc/internal/closure"
	"github.com/knfc-lang/knfc/internal/errors"
	"github.com/knfc-lang/knfc/internal/namegen"
	"github.com/knfc-lang/knfc/internal/types"
)

// variable is a single named C value the builder has already emitted a
// declaration for.
type variable struct {
	name string
	ty   string
}

// Builder accumulates the emitted C source for one program.
type Builder struct {
	lines  []string
	indent int
	temps  *namegen.Generator
	vars   map[string]variable
}

// NewBuilder returns an empty Builder, ready to emit a prelude.
func NewBuilder() *Builder {
	return &Builder{
		temps: namegen.New("tmp"),
		vars:  make(map[string]variable),
	}
}

func (b *Builder) emit(line string) {
	b.lines = append(b.lines, strings.Repeat("    ", b.indent)+line)
}

func (b *Builder) pushScope() { b.indent++ }
func (b *Builder) popScope()  { b.indent-- }

func (b *Builder) freshTemp() string { return b.temps.Next() }

func (b *Builder) bind(ident string, v variable) { b.vars[ident] = v }

func (b *Builder) resolve(ident string) (variable, error) {
	v, ok := b.vars[ident]
	if !ok {
		return variable{}, errors.New(errors.KindImpError, errors.IMP001UnresolvedVar, "emit",
			"unresolved variable at emission time: "+ident, nil)
	}
	return v, nil
}

func (b *Builder) source() string { return strings.Join(b.lines, "\n") + "\n" }

// cType lowers a source type to its C spelling, per spec.md §4.9's type
// lowering table. A residual Mono type is an internal error: every
// polymorphic type variable should have been eliminated by monomorphization
// (C8) before reaching the emitter.
func cType(t types.Ty) (string, error) {
	switch t.Kind {
	case types.KInt:
		return "int", nil
	case types.KBool:
		return "int", nil
	case types.KUnit:
		return "void", nil
	case types.KArrow:
		return "__closure*", nil
	case types.KMono:
		return "", errors.New(errors.KindImpError, errors.IMP004UnmonomorphizedTy, "emit",
			"residual type variable "+string(t.Var)+" reached the emitter", nil)
	default:
		return "", errors.Imp(errors.IMP003UnexpectedForm, "unknown type kind during emission")
	}
}

// Emit runs C10 over a closure-converted program and returns the generated
// C source.
func Emit(p *closure.Program) (string, error) {
	b := NewBuilder()
	b.emitPrelude()

	for _, g := range p.Globals {
		if err := b.emitGlobal(g); err != nil {
			return "", err
		}
	}

	if err := b.emitMain(p.Main); err != nil {
		return "", err
	}

	return b.source(), nil
}

func (b *Builder) emitPrelude() {
	b.emit("#include <stdio.h>")
	b.emit("#include <stdlib.h>")
	b.emit("")
	b.emit("typedef struct { void* func; void* env; } __closure;")
	b.emit("")
}

// emitGlobal implements the five per-lifted-function steps of spec.md
// §4.9: the capture struct, a forward declaration, the definition opening,
// the environment cast plus per-capture unpacking, and the body.
func (b *Builder) emitGlobal(g closure.Global) error {
	retTy, err := cType(g.Closure.RetTy)
	if err != nil {
		return err
	}

	argDecls := make([]string, len(g.Closure.Args))
	for i, p := range g.Closure.Args {
		ty, err := cType(p.Ty)
		if err != nil {
			return err
		}
		argDecls[i] = ty + " " + cIdent(p.Ident.Unique)
	}
	envStructName := "clos_env_" + g.Closure.GlobalName
	b.emit("typedef struct {")
	b.pushScope()
	for _, cap := range g.Closure.Capture {
		ty, err := cType(cap.Ty)
		if err != nil {
			return err
		}
		b.emit(ty + " " + cIdent(cap.Ident.Unique) + ";")
	}
	b.popScope()
	b.emit("} " + envStructName + ";")
	b.emit("")

	params := append([]string{"void* __env"}, argDecls...)
	signature := fmt.Sprintf("%s %s(%s)", retTy, g.Closure.GlobalName, strings.Join(params, ", "))
	b.emit(signature + ";")
	b.emit("")
	b.emit(signature + " {")
	b.pushScope()

	for _, p := range g.Closure.Args {
		ty, err := cType(p.Ty)
		if err != nil {
			return err
		}
		b.bind(p.Ident.Unique, variable{name: cIdent(p.Ident.Unique), ty: ty})
	}

	envTemp := b.freshTemp()
	b.emit(fmt.Sprintf("%s* %s = (%s*) __env;", envStructName, envTemp, envStructName))
	for _, cap := range g.Closure.Capture {
		ty, err := cType(cap.Ty)
		if err != nil {
			return err
		}
		name := cIdent(cap.Ident.Unique)
		b.emit(fmt.Sprintf("%s %s;", ty, name))
		b.emit(fmt.Sprintf("%s = %s->%s;", name, envTemp, name))
		b.bind(cap.Ident.Unique, variable{name: name, ty: ty})
	}

	result, err := b.emitExpr(g.Body)
	if err != nil {
		return err
	}
	b.emit("return " + result.name + ";")
	b.popScope()
	b.emit("}")
	b.emit("")
	return nil
}

func (b *Builder) emitMain(main closure.Expr) error {
	b.emit("int main() {")
	b.pushScope()
	result, err := b.emitExpr(main)
	if err != nil {
		return err
	}
	b.emit(fmt.Sprintf("printf(\"%%d\\n\", %s);", result.name))
	b.popScope()
	b.emit("}")
	return nil
}

// cIdent turns a resolved unique identifier (which may contain characters
// like "$" and digits from mangling) into a legal C identifier.
func cIdent(unique string) string {
	r := strings.NewReplacer("$", "_", "__", "__mono_")
	return "v_" + r.Replace(unique)
}
