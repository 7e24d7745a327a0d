package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Structs   []*structBlock   `hcl:"struct,block"`
	Globals   []*symbolBlock   `hcl:"global,block"`
	Functions []*functionBlock `hcl:"function,block"`
	Remain    hcl.Body         `hcl:",remain"`
}

type structBlock struct {
	Name   string         `hcl:"name,label"`
	Fields []*symbolBlock `hcl:"field,block"`
	Remain hcl.Body       `hcl:",remain"`
}

type symbolBlock struct {
	Name      string   `hcl:"name,label"`
	Type      string   `hcl:"type"`
	Static    bool     `hcl:"static,optional"`
	Parameter bool     `hcl:"parameter,optional"`
	Line      *int     `hcl:"line,optional"`
	Remain    hcl.Body `hcl:",remain"`
}

type functionBlock struct {
	Name       string            `hcl:"name,label"`
	File       string            `hcl:"file,optional"`
	Class      string            `hcl:"class,optional"`
	Calls      []string          `hcl:"calls,optional"`
	Line       *int              `hcl:"line,optional"`
	Symbols    []*symbolBlock    `hcl:"symbol,block"`
	Constructs []*constructBlock `hcl:"construct,block"`
	Remain     hcl.Body          `hcl:",remain"`
}

type constructBlock struct {
	Directive string            `hcl:"directive,label"`
	Line      *int              `hcl:"line,optional"`
	Clauses   string            `hcl:"clauses,optional"`
	Statement string            `hcl:"statement,optional"`
	Symbols   []*symbolBlock    `hcl:"symbol,block"`
	Body      []*constructBlock `hcl:"construct,block"`
	Remain    hcl.Body          `hcl:",remain"`
}
