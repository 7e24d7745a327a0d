package omp

import (
	"strings"

	"github.com/specialistvlad/tdg/internal/datasharing"
	"github.com/specialistvlad/tdg/internal/diag"
)

var explicitClauses = map[string]datasharing.Attribute{
	"shared":       datasharing.Shared,
	"private":      datasharing.Private,
	"firstprivate": datasharing.Firstprivate,
}

// explicitDataSharing applies the default, shared, private and firstprivate
// clauses. They run before any dependence is classified, so user intent is
// in place when inference starts.
func (c *Core) explicitDataSharing(con *Construct, env *datasharing.Environment) error {
	if def := con.Line.Clause("default"); def.Defined() {
		if len(def.Args) != 1 {
			return diag.Malformedf(def.Locus(), "'default' clause needs exactly one argument, got %d", len(def.Args))
		}
		d, ok := datasharing.ParseDefault(def.Args[0])
		if !ok {
			return diag.Malformedf(def.Locus(), "invalid argument '%s' for 'default' clause", def.Args[0])
		}
		env.SetDefault(d)
	}

	// Source order decides which of two conflicting clauses wins.
	for _, cl := range con.Line.Clauses {
		attr, ok := explicitClauses[strings.ToLower(cl.Name)]
		if !ok {
			continue
		}
		loc := cl.Locus
		if loc.IsZero() {
			loc = con.Line.Locus
		}
		for _, arg := range cl.Arguments() {
			sym, ok := con.Scope.Lookup(arg)
			if !ok || !sym.IsVariable() {
				c.sink.Warnf(loc, "'%s' is not a variable, skipping it in '%s' clause", arg, cl.Name)
				continue
			}
			if env.Set(sym, attr, "explicitly "+attr.String()) == datasharing.Conflict {
				prev := env.Attribute(sym, false)
				c.sink.Warnf(loc, "'%s' already has data-sharing '%s', ignoring '%s' clause", arg, prev, cl.Name)
			}
		}
	}
	return nil
}

// knownDevices are the devices a task may target.
var knownDevices = map[string]bool{
	"smp":    true,
	"cuda":   true,
	"opencl": true,
	"fpga":   true,
	"gpu":    true,
}

// devices validates the device clause.
func (c *Core) devices(con *Construct) ([]string, error) {
	cl := con.Line.Clause("device")
	var out []string
	for _, arg := range cl.Args {
		// `device(smp cuda)` lists devices separated by blanks too.
		for _, dev := range strings.Fields(arg) {
			dev = strings.ToLower(dev)
			if !knownDevices[dev] {
				return nil, diag.Malformedf(cl.Locus(), "invalid device '%s'", dev)
			}
			out = append(out, dev)
		}
	}
	return out, nil
}

// IsKnownDevice reports whether name is a supported device.
func IsKnownDevice(name string) bool {
	return knownDevices[strings.ToLower(name)]
}
