package ast

import (
	"strconv"
	"strings"
)

// Format pretty-prints an expression back to source form.
func Format(e Expr) string {
	var sb strings.Builder
	format(&sb, e)
	return sb.String()
}

func format(sb *strings.Builder, e Expr) {
	switch n := e.(type) {
	case nil:
		sb.WriteString("<nil>")
	case *SymbolRef:
		sb.WriteString(n.Sym.Name)
	case *ThisRef:
		sb.WriteString("this")
	case *IntLit:
		sb.WriteString(strconv.FormatInt(n.Value, 10))
	case *ArraySubscript:
		format(sb, n.Array)
		if n.Paren {
			sb.WriteByte('(')
			for i, s := range n.Subscripts {
				if i > 0 {
					sb.WriteString(", ")
				}
				format(sb, s)
			}
			sb.WriteByte(')')
			return
		}
		for _, s := range n.Subscripts {
			sb.WriteByte('[')
			format(sb, s)
			sb.WriteByte(']')
		}
	case *Range:
		if n.Lower != nil {
			format(sb, n.Lower)
		}
		if n.Length {
			sb.WriteByte(';')
		} else {
			sb.WriteByte(':')
		}
		if n.Upper != nil {
			format(sb, n.Upper)
		}
	case *MemberAccess:
		// (*this).x is spelled this->x.
		if d, ok := n.Object.(*Dereference); ok && n.Sep == "." {
			if _, isThis := d.Operand.(*ThisRef); isThis {
				sb.WriteString("this->")
				sb.WriteString(n.Member.Name)
				return
			}
		}
		formatOperand(sb, n.Object)
		sb.WriteString(n.Sep)
		sb.WriteString(n.Member.Name)
	case *Dereference:
		sb.WriteByte('*')
		formatOperand(sb, n.Operand)
	case *AddressOf:
		sb.WriteByte('&')
		formatOperand(sb, n.Operand)
	case *Shaping:
		for _, s := range n.Shape {
			sb.WriteByte('[')
			format(sb, s)
			sb.WriteByte(']')
		}
		sb.WriteByte(' ')
		formatOperand(sb, n.Operand)
	case *Binary:
		formatOperand(sb, n.LHS)
		sb.WriteByte(' ')
		sb.WriteString(n.Op)
		sb.WriteByte(' ')
		formatOperand(sb, n.RHS)
	case *Unary:
		sb.WriteString(n.Op)
		formatOperand(sb, n.Operand)
	case *MultiDependency:
		sb.WriteString(n.Text)
	case *ErrExpr:
		sb.WriteString(n.Text)
	default:
		sb.WriteString("<unknown expression>")
	}
}

// formatOperand parenthesizes compound operands.
func formatOperand(sb *strings.Builder, e Expr) {
	switch e.(type) {
	case *Binary, *Unary, *Dereference, *AddressOf, *Shaping:
		sb.WriteByte('(')
		format(sb, e)
		sb.WriteByte(')')
	default:
		format(sb, e)
	}
}
