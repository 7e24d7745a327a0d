package app

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/tdg/internal/ast"
	"github.com/specialistvlad/tdg/internal/config"
	"github.com/specialistvlad/tdg/internal/exprparse"
)

// program is the symbol model built from a config.Model: one file scope with
// the globals, and the class types used by type specs.
type program struct {
	lang    ast.Language
	file    *ast.Block
	classes exprparse.ClassMap
	model   *config.Model
}

func buildProgram(m *config.Model, lang ast.Language) (*program, error) {
	p := &program{lang: lang, classes: make(exprparse.ClassMap), model: m}
	if lang.IsFortran() {
		p.file = ast.NewFortranBlock("<file>")
	} else {
		p.file = ast.NewBlock("<file>", nil)
	}

	for _, s := range m.Structs {
		var fields []*ast.Symbol
		for _, f := range s.Fields {
			sym, err := p.symbol(f, p.file)
			if err != nil {
				return nil, fmt.Errorf("struct '%s': %w", s.Name, err)
			}
			sym.Member = true
			fields = append(fields, sym)
		}
		class := ast.Class(s.Name, fields...)
		p.classes[s.Name] = class
		if lang.IsFortran() {
			p.classes[strings.ToLower(s.Name)] = class
		}
	}

	for _, g := range m.Globals {
		sym, err := p.symbol(g, p.file)
		if err != nil {
			return nil, err
		}
		sym.Global = true
		if err := p.file.Declare(sym); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// symbol creates the symbol declared by s. Array dimensions are resolved in
// scope.
func (p *program) symbol(s *config.Symbol, scope ast.Scope) (*ast.Symbol, error) {
	t, err := exprparse.ParseType(s.Type, scope, p.classes, exprparse.Options{Language: p.lang, Locus: s.Locus})
	if err != nil {
		return nil, fmt.Errorf("symbol '%s': %w", s.Name, err)
	}
	sym := ast.NewVariable(s.Name, t)
	sym.Static = s.Static
	sym.Locus = s.Locus
	if s.Parameter {
		sym.Kind = ast.SymbolParameter
	}
	return sym, nil
}

// declare adds every symbol of syms to block, in order, so that later
// dimensions can refer to earlier symbols.
func (p *program) declare(block *ast.Block, syms []*config.Symbol) error {
	for _, s := range syms {
		sym, err := p.symbol(s, block)
		if err != nil {
			return err
		}
		if err := block.Declare(sym); err != nil {
			return err
		}
	}
	return nil
}

// functionScope returns the scope of the body of f.
func (p *program) functionScope(f *config.Function) (*ast.Block, error) {
	block := ast.NewBlock(f.Name, p.file)
	if f.Class != "" {
		class, ok := p.classes.Class(f.Class)
		if !ok {
			return nil, fmt.Errorf("function '%s': unknown class '%s'", f.Name, f.Class)
		}
		if err := block.SetImplicitObject(class); err != nil {
			return nil, err
		}
	}
	if err := p.declare(block, f.Symbols); err != nil {
		return nil, fmt.Errorf("function '%s': %w", f.Name, err)
	}
	return block, nil
}
