// Package hcl provides the HCL implementation of the config.Loader
// interface. It parses program description files and translates their
// blocks into the format-agnostic config.Model.
//
// A description file looks like this:
//
//	struct "C" {
//	  field "z" { type = "int" }
//	}
//
//	function "f" {
//	  file  = "main.c"
//	  calls = ["g"]
//
//	  symbol "a" { type = "int[10]" }
//	  symbol "i" { type = "int" }
//
//	  construct "task" {
//	    line    = 12
//	    clauses = "in(a[i]) out(a[i+1])"
//	  }
//	}
package hcl
