package hcl

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/specialistvlad/tdg/internal/config"
	"github.com/specialistvlad/tdg/internal/locus"
)

// translateFile converts the blocks of one file and appends them to model.
// Names must be unique across all files.
func (l *Loader) translateFile(model *config.Model, root *fileRoot, path string) error {
	for _, s := range root.Structs {
		if err := checkRemain(s.Remain, "struct '"+s.Name+"'"); err != nil {
			return err
		}
		for _, existing := range model.Structs {
			if existing.Name == s.Name {
				return fmt.Errorf("struct '%s' is defined more than once", s.Name)
			}
		}
		fields, err := translateSymbols(s.Fields, path)
		if err != nil {
			return fmt.Errorf("struct '%s': %w", s.Name, err)
		}
		model.Structs = append(model.Structs, &config.Struct{
			Name:   s.Name,
			Fields: fields,
			Locus:  locus.New(path, declLine(nil, s.Remain)),
		})
	}

	globals, err := translateSymbols(root.Globals, path)
	if err != nil {
		return err
	}
	model.Globals = append(model.Globals, globals...)

	for _, f := range root.Functions {
		fn, err := translateFunction(f, path)
		if err != nil {
			return fmt.Errorf("function '%s': %w", f.Name, err)
		}
		for _, existing := range model.Functions {
			if existing.Name == fn.Name {
				return fmt.Errorf("function '%s' is defined more than once", fn.Name)
			}
		}
		model.Functions = append(model.Functions, fn)
	}
	return nil
}

func translateFunction(f *functionBlock, path string) (*config.Function, error) {
	if err := checkRemain(f.Remain, "function '"+f.Name+"'"); err != nil {
		return nil, err
	}
	// Loci point into the analysed source, not into the description.
	source := f.File
	if source == "" {
		source = path
	}
	symbols, err := translateSymbols(f.Symbols, source)
	if err != nil {
		return nil, err
	}
	constructs, err := translateConstructs(f.Constructs, source)
	if err != nil {
		return nil, err
	}
	return &config.Function{
		Name:       f.Name,
		Class:      f.Class,
		Calls:      append([]string(nil), f.Calls...),
		Symbols:    symbols,
		Constructs: constructs,
		Locus:      locus.New(source, declLine(f.Line, f.Remain)),
	}, nil
}

func translateConstructs(blocks []*constructBlock, source string) ([]*config.Construct, error) {
	var out []*config.Construct
	for _, c := range blocks {
		if err := checkRemain(c.Remain, "construct '"+c.Directive+"'"); err != nil {
			return nil, err
		}
		symbols, err := translateSymbols(c.Symbols, source)
		if err != nil {
			return nil, err
		}
		body, err := translateConstructs(c.Body, source)
		if err != nil {
			return nil, err
		}
		out = append(out, &config.Construct{
			Directive: c.Directive,
			Clauses:   c.Clauses,
			Statement: c.Statement,
			Symbols:   symbols,
			Body:      body,
			Locus:     locus.New(source, declLine(c.Line, c.Remain)),
		})
	}
	return out, nil
}

func translateSymbols(blocks []*symbolBlock, source string) ([]*config.Symbol, error) {
	var out []*config.Symbol
	for _, s := range blocks {
		if err := checkRemain(s.Remain, "symbol '"+s.Name+"'"); err != nil {
			return nil, err
		}
		if s.Type == "" {
			return nil, fmt.Errorf("symbol '%s' has an empty type", s.Name)
		}
		out = append(out, &config.Symbol{
			Name:      s.Name,
			Type:      s.Type,
			Static:    s.Static,
			Parameter: s.Parameter,
			Locus:     locus.New(source, declLine(s.Line, s.Remain)),
		})
	}
	return out, nil
}

// declLine returns the explicit line when given, else the line where the
// block body starts in the description file.
func declLine(explicit *int, remain hcl.Body) int {
	if explicit != nil {
		return *explicit
	}
	if b, ok := remain.(*hclsyntax.Body); ok {
		return b.SrcRange.Start.Line
	}
	return 0
}

// checkRemain rejects attributes and blocks the schema does not know. gohcl
// hides the decoded ones in remain, so an empty schema leaves only the
// unknown ones.
func checkRemain(remain hcl.Body, owner string) error {
	if remain == nil {
		return nil
	}
	_, diags := remain.Content(&hcl.BodySchema{})
	if !diags.HasErrors() {
		return nil
	}
	body, ok := remain.(*hclsyntax.Body)
	if !ok {
		return fmt.Errorf("%s: %w", owner, diags)
	}

	var names []string
	for _, d := range diags {
		if d.Subject == nil {
			continue
		}
		for name, attr := range body.Attributes {
			if attr.NameRange == *d.Subject {
				names = append(names, "argument '"+name+"'")
			}
		}
		for _, block := range body.Blocks {
			if block.TypeRange == *d.Subject {
				names = append(names, "block '"+block.Type+"'")
			}
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("%s: %w", owner, diags)
	}
	sort.Strings(names)
	return fmt.Errorf("%s: unsupported %s", owner, names[0])
}
