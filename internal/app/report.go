package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/specialistvlad/tdg/internal/ast"
	"github.com/specialistvlad/tdg/internal/diag"
	"github.com/specialistvlad/tdg/internal/omp"
	"github.com/specialistvlad/tdg/internal/weighted"
)

// Report is everything one run found.
type Report struct {
	Mode        string             `json:"mode"`
	Language    string             `json:"language"`
	Functions   []FunctionReport   `json:"functions"`
	Diagnostics []DiagnosticReport `json:"diagnostics"`
}

// FunctionReport describes the constructs and graph of one function.
type FunctionReport struct {
	Name   string        `json:"name"`
	Tasks  []TaskReport  `json:"tasks"`
	Levels []LevelReport `json:"levels"`
}

// TaskReport describes one analysed construct.
type TaskReport struct {
	Directive    string          `json:"directive"`
	Locus        string          `json:"locus"`
	Node         *int            `json:"node,omitempty"`
	Outline      string          `json:"outline,omitempty"`
	Collapse     int             `json:"collapse,omitempty"`
	Devices      []string        `json:"devices,omitempty"`
	DataSize     int64           `json:"data_size"`
	Device       string          `json:"device,omitempty"`
	Dependences  []string        `json:"dependences"`
	DataSharing  []SharingReport `json:"data_sharing"`
	ExtraSymbols []string        `json:"extra_symbols,omitempty"`
}

// SharingReport is one entry of a data-sharing environment.
type SharingReport struct {
	Symbol    string `json:"symbol"`
	Attribute string `json:"attribute"`
	Reason    string `json:"reason"`
}

// LevelReport describes one SubETDG.
type LevelReport struct {
	Level   string   `json:"level"`
	Nodes   []int    `json:"nodes"`
	Roots   []int    `json:"roots"`
	Edges   [][2]int `json:"edges"`
	Visited []int    `json:"visited"`
}

// DiagnosticReport is one diagnostic.
type DiagnosticReport struct {
	Severity string `json:"severity"`
	Locus    string `json:"locus"`
	Message  string `json:"message"`
}

func (r *Report) errorCount() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == diag.SeverityError.String() {
			n++
		}
	}
	return n
}

func buildReport(mode omp.Mode, lang ast.Language, analyses []*analysis, passes []weighted.Pass, sink *diag.Sink) *Report {
	r := &Report{Mode: mode.String(), Language: lang.String(), Functions: []FunctionReport{}, Diagnostics: []DiagnosticReport{}}
	for _, an := range analyses {
		fr := FunctionReport{Name: an.function, Tasks: []TaskReport{}, Levels: []LevelReport{}}
		for _, tk := range an.tasks {
			fr.Tasks = append(fr.Tasks, taskReport(an, tk))
		}
		for _, sub := range an.graph.Subs() {
			lr := LevelReport{
				Level:   sub.Level(),
				Nodes:   ints(sub.Members()),
				Roots:   ints(sub.Roots()),
				Edges:   [][2]int{},
				Visited: []int{},
			}
			for _, e := range sub.Edges() {
				lr.Edges = append(lr.Edges, [2]int{int(e[0]), int(e[1])})
			}
			for _, p := range passes {
				if p.Function == an.function && p.Level == sub.Level() {
					lr.Visited = ints(p.Visited)
				}
			}
			fr.Levels = append(fr.Levels, lr)
		}
		r.Functions = append(r.Functions, fr)
	}
	for _, d := range sink.Diagnostics() {
		r.Diagnostics = append(r.Diagnostics, DiagnosticReport{
			Severity: d.Severity.String(),
			Locus:    d.Locus.String(),
			Message:  d.Message,
		})
	}
	return r
}

func taskReport(an *analysis, tk *omp.Task) TaskReport {
	tr := TaskReport{
		Directive:   tk.Construct.Directive(),
		Locus:       tk.Construct.Line.Locus.String(),
		Outline:     tk.Outline,
		Collapse:    tk.Collapse,
		Devices:     tk.Devices,
		Dependences: []string{},
		DataSharing: []SharingReport{},
	}
	if id, ok := an.nodes[tk]; ok {
		n, _ := an.graph.Node(id)
		v := int(id)
		tr.Node = &v
		tr.DataSize = n.Annotation.DataSize
		tr.Device = n.Annotation.Device
	}
	for _, d := range tk.Env.Dependences() {
		tr.Dependences = append(tr.Dependences, d.String())
	}
	for _, e := range tk.Env.Entries() {
		tr.DataSharing = append(tr.DataSharing, SharingReport{
			Symbol:    e.Symbol.Name,
			Attribute: e.Attribute.String(),
			Reason:    e.Reason,
		})
	}
	for _, sym := range tk.ExtraSymbols {
		tr.ExtraSymbols = append(tr.ExtraSymbols, sym.Name)
	}
	return tr
}

func ints[T ~int](ids []T) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		out = append(out, int(id))
	}
	return out
}

func writeReport(w io.Writer, r *Report, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	return writeText(w, r)
}

// writeText renders r for a terminal. Styles degrade to plain text when w is
// not one.
func writeText(w io.Writer, r *Report) error {
	renderer := lipgloss.NewRenderer(w)
	header := renderer.NewStyle().Bold(true)
	label := renderer.NewStyle().Faint(true)
	severity := map[string]lipgloss.Style{
		"info":    renderer.NewStyle().Foreground(lipgloss.Color("4")),
		"warning": renderer.NewStyle().Foreground(lipgloss.Color("3")),
		"error":   renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}

	var b strings.Builder
	for _, f := range r.Functions {
		fmt.Fprintf(&b, "%s\n", header.Render("function "+f.Name))
		for _, t := range f.Tasks {
			title := t.Directive + " at " + t.Locus
			if t.Outline != "" {
				title += " (" + t.Outline + ")"
			}
			fmt.Fprintf(&b, "  %s\n", header.Render(title))
			if t.Node != nil {
				fmt.Fprintf(&b, "    %s %d\n", label.Render("node:"), *t.Node)
			}
			if t.Collapse > 0 {
				fmt.Fprintf(&b, "    %s %d\n", label.Render("collapse:"), t.Collapse)
			}
			if len(t.Dependences) > 0 {
				fmt.Fprintf(&b, "    %s %s\n", label.Render("dependences:"), strings.Join(t.Dependences, ", "))
			}
			if len(t.DataSharing) > 0 {
				fmt.Fprintf(&b, "    %s\n", label.Render("data-sharing:"))
				width := 0
				for _, s := range t.DataSharing {
					width = max(width, len(s.Symbol))
				}
				for _, s := range t.DataSharing {
					fmt.Fprintf(&b, "      %-*s  %s\n", width, s.Symbol, s.Attribute)
				}
			}
			if t.Node != nil {
				fmt.Fprintf(&b, "    %s %d bytes", label.Render("data size:"), t.DataSize)
				if t.Device != "" {
					fmt.Fprintf(&b, " on %s", t.Device)
				}
				b.WriteString("\n")
			}
		}
		for _, l := range f.Levels {
			edges := make([]string, 0, len(l.Edges))
			for _, e := range l.Edges {
				edges = append(edges, fmt.Sprintf("%d->%d", e[0], e[1]))
			}
			fmt.Fprintf(&b, "  %s nodes %v, roots %v, edges [%s]\n",
				header.Render("level "+l.Level+":"), l.Nodes, l.Roots, strings.Join(edges, " "))
		}
	}
	if len(r.Diagnostics) > 0 {
		fmt.Fprintf(&b, "%s\n", header.Render("diagnostics"))
		for _, d := range r.Diagnostics {
			fmt.Fprintf(&b, "  %s: %s: %s\n", d.Locus, severity[d.Severity].Render(d.Severity), d.Message)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
