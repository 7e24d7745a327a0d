// Package exprparse turns the text of a dependency or shaping expression into
// a type-checked ast.Expr, resolving names in a reference scope.
//
// The accepted syntax is the data-reference subset shared by the task
// directives of C, C++ and Fortran: identifiers, integer constants, array
// subscripts and sections (`a[lo:hi]`, `a[lo;len]`, `a(lo:hi)`), member access
// (`.`, `->`, `%`), dereference, address-of, array shaping (`[n][m] p`), `this`,
// arithmetic, and the braced multi-dependency form, which is recognized only so
// that callers can reject it.
package exprparse

import (
	"fmt"

	"github.com/specialistvlad/tdg/internal/ast"
	"github.com/specialistvlad/tdg/internal/locus"
)

// Options control a single parse.
type Options struct {
	Language ast.Language
	// Locus is the position of the first character of the text. A leading
	// `#line` marker in the text overrides it.
	Locus locus.Locus
}

// Error is a syntax or type error in an expression.
type Error struct {
	Locus locus.Locus
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Locus, e.Msg)
}

// Parse parses and type-checks text as a single expression in scope.
func Parse(text string, scope ast.Scope, opts Options) (ast.Expr, error) {
	body, start, err := lineDirective(text, opts.Locus)
	if err != nil {
		return nil, &Error{Locus: opts.Locus, Msg: err.Error()}
	}
	toks, err := lex(body, start)
	if err != nil {
		return nil, &Error{Locus: start, Msg: err.Error()}
	}
	p := &parser{toks: toks, src: body, scope: scope, lang: opts.Language}
	if p.peek().kind == tokEOF {
		return nil, p.errorf(p.peek(), "empty expression")
	}

	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorf(tok, "unexpected %s after expression", tok)
	}
	return e, nil
}

type parser struct {
	toks  []token
	i     int
	src   string
	scope ast.Scope
	lang  ast.Language
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) accept(punct string) bool {
	if p.peek().is(punct) {
		p.i++
		return true
	}
	return false
}

func (p *parser) expect(punct string) (token, error) {
	tok := p.peek()
	if !tok.is(punct) {
		return tok, p.errorf(tok, "expected '%s' but found %s", punct, tok)
	}
	p.i++
	return tok, nil
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	return &Error{Locus: tok.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) fortran() bool { return p.lang.IsFortran() }

// parseExpr parses an additive expression.
func (p *parser) parseExpr() (ast.Expr, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if !tok.is("+") && !tok.is("-") {
			return lhs, nil
		}
		p.next()
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if lhs, err = p.binary(tok, lhs, rhs); err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseTerm() (ast.Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		// In Fortran '%' selects a component and never reaches here.
		if !tok.is("*") && !tok.is("/") && !(tok.is("%") && !p.fortran()) {
			return lhs, nil
		}
		p.next()
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if lhs, err = p.binary(tok, lhs, rhs); err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseUnary() (ast.Expr, error) {
	tok := p.peek()
	switch {
	case tok.is("-") || tok.is("+"):
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if !isArithmetic(operand.Type()) {
			return nil, p.errorf(tok, "invalid operand of unary '%s'", tok.text)
		}
		return &ast.Unary{Base: ast.Base{Loc: tok.pos, Typ: operand.Type()}, Op: tok.text, Operand: operand}, nil

	case tok.is("*") && !p.fortran():
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		t := operand.Type().NoRef()
		if !t.IsPointer() && !t.IsArray() {
			return nil, p.errorf(tok, "invalid type argument of unary '*' (have '%s')", t)
		}
		return &ast.Dereference{Base: ast.Base{Loc: tok.pos, Typ: t.Elem}, Operand: operand}, nil

	case tok.is("&") && !p.fortran():
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.AddressOf{Base: ast.Base{Loc: tok.pos, Typ: ast.PointerTo(operand.Type().NoRef())}, Operand: operand}, nil

	case tok.is("[") && !p.fortran():
		return p.parseShaping()
	}
	return p.parsePostfix()
}

// parseShaping parses `[e1][e2]... operand`.
func (p *parser) parseShaping() (ast.Expr, error) {
	start := p.peek()
	var shape []ast.Expr
	for p.peek().is("[") {
		open := p.next()
		dim, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if !isInteger(dim.Type()) {
			return nil, p.errorf(open, "shaping dimension '%s' is not an integer expression", ast.Format(dim))
		}
		if _, err := p.expect("]"); err != nil {
			return nil, err
		}
		shape = append(shape, dim)
	}
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	t := operand.Type().NoRef()
	if !t.IsPointer() && !t.IsArray() {
		return nil, p.errorf(start, "shaping expression requires a pointer or array operand, have '%s'", t)
	}

	res := t.Elem
	for i := len(shape) - 1; i >= 0; i-- {
		res = ast.ArrayOf(res, shape[i])
	}
	return &ast.Shaping{Base: ast.Base{Loc: start.pos, Typ: res}, Shape: shape, Operand: operand}, nil
}

func (p *parser) parsePostfix() (ast.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		switch {
		case tok.is("[") && !p.fortran():
			p.next()
			sub, err := p.parseSubscript("]")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect("]"); err != nil {
				return nil, err
			}
			if e, err = p.subscript(tok, e, []ast.Expr{sub}, false); err != nil {
				return nil, err
			}

		case tok.is("(") && p.fortran():
			p.next()
			var subs []ast.Expr
			for {
				sub, err := p.parseSubscript(")")
				if err != nil {
					return nil, err
				}
				subs = append(subs, sub)
				if !p.accept(",") {
					break
				}
			}
			if _, err := p.expect(")"); err != nil {
				return nil, err
			}
			if e, err = p.subscript(tok, e, subs, true); err != nil {
				return nil, err
			}

		case tok.is(".") && !p.fortran(), tok.is("->") && !p.fortran(), tok.is("%") && p.fortran():
			p.next()
			name := p.next()
			if name.kind != tokIdent {
				return nil, p.errorf(name, "expected member name after '%s'", tok.text)
			}
			if e, err = p.member(tok, e, name); err != nil {
				return nil, err
			}

		default:
			return e, nil
		}
	}
}

// parseSubscript parses one subscript, which may be a section. closer is the
// token that ends the subscript list.
func (p *parser) parseSubscript(closer string) (ast.Expr, error) {
	start := p.peek()
	var lower ast.Expr
	if !start.is(":") && !start.is(";") {
		var err error
		if lower, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}

	sep := p.peek()
	isRange := sep.is(":") || (sep.is(";") && !p.fortran())
	if !isRange {
		if lower == nil {
			return nil, p.errorf(sep, "expected subscript but found %s", sep)
		}
		return lower, nil
	}
	p.next()

	var upper ast.Expr
	if tok := p.peek(); !tok.is(closer) && !tok.is(",") {
		var err error
		if upper, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	length := sep.is(";")
	if length && upper == nil {
		return nil, p.errorf(sep, "array section length is missing")
	}
	for _, b := range []ast.Expr{lower, upper} {
		if b != nil && !isInteger(b.Type()) {
			return nil, p.errorf(start, "array section bound '%s' is not an integer expression", ast.Format(b))
		}
	}
	return &ast.Range{Base: ast.Base{Loc: start.pos, Typ: ast.Int}, Lower: lower, Upper: upper, Length: length}, nil
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	tok := p.next()
	switch tok.kind {
	case tokInt:
		v, err := parseIntLiteral(tok.text)
		if err != nil {
			return nil, p.errorf(tok, "%s", err)
		}
		return &ast.IntLit{Base: ast.Base{Loc: tok.pos, Typ: ast.Int}, Value: v}, nil

	case tokIdent:
		if tok.text == "this" && !p.fortran() {
			return p.this(tok)
		}
		return p.name(tok)

	case tokPunct:
		switch tok.text {
		case "(":
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(")"); err != nil {
				return nil, err
			}
			return e, nil
		case "{":
			return p.multiDependency(tok)
		}
	}
	return nil, p.errorf(tok, "expected expression but found %s", tok)
}

// multiDependency consumes a braced group verbatim.
func (p *parser) multiDependency(open token) (ast.Expr, error) {
	depth := 1
	for depth > 0 {
		tok := p.next()
		switch {
		case tok.kind == tokEOF:
			return nil, p.errorf(open, "unterminated '{' in expression")
		case tok.is("{"):
			depth++
		case tok.is("}"):
			depth--
			if depth == 0 {
				text := p.src[open.off : tok.off+1]
				return &ast.MultiDependency{Base: ast.Base{Loc: open.pos}, Text: text}, nil
			}
		}
	}
	return nil, p.errorf(open, "unterminated '{' in expression")
}

func (p *parser) this(tok token) (ast.Expr, error) {
	obj := p.scope.ImplicitObject()
	if obj == nil {
		return nil, p.errorf(tok, "invalid use of 'this' outside of a non-static member function")
	}
	return &ast.ThisRef{Base: ast.Base{Loc: tok.pos, Typ: obj.Type}, Sym: obj}, nil
}

func (p *parser) name(tok token) (ast.Expr, error) {
	sym, ok := p.scope.Lookup(tok.text)
	if !ok {
		return nil, p.errorf(tok, "'%s' was not declared in this scope", tok.text)
	}
	ref := &ast.SymbolRef{Base: ast.Base{Loc: tok.pos, Typ: sym.Type}, Sym: sym}
	if !sym.IsNonStaticMember() {
		return ref, nil
	}

	// A bare data member inside a member function is `(*this).member`.
	obj := p.scope.ImplicitObject()
	if obj == nil {
		return ref, nil
	}
	class := obj.Type.Elem
	if f, ok := class.Field(sym.Name, p.fortran()); !ok || f != sym {
		return ref, nil
	}
	this := &ast.ThisRef{Base: ast.Base{Loc: tok.pos, Typ: obj.Type}, Sym: obj}
	deref := &ast.Dereference{Base: ast.Base{Loc: tok.pos, Typ: class}, Operand: this}
	return &ast.MemberAccess{Base: ast.Base{Loc: tok.pos, Typ: sym.Type}, Object: deref, Member: sym, Sep: "."}, nil
}

func (p *parser) subscript(tok token, array ast.Expr, subs []ast.Expr, paren bool) (ast.Expr, error) {
	t := array.Type().NoRef()
	// Peel one level per subscript, remembering the dimension each one
	// selects from.
	dims := make([]*ast.Type, len(subs))
	cur := t
	for i := range subs {
		if !cur.IsArray() && !cur.IsPointer() {
			if i == 0 {
				return nil, p.errorf(tok, "subscripted value '%s' is neither array nor pointer", ast.Format(array))
			}
			return nil, p.errorf(tok, "too many subscripts for '%s'", ast.Format(array))
		}
		dims[i] = cur
		cur = cur.Elem.NoRef()
	}

	res := cur
	for i := len(subs) - 1; i >= 0; i-- {
		switch s := subs[i].(type) {
		case *ast.Range:
			res = ast.ArrayOf(res, sectionLength(s, dims[i], p.fortran()))
		default:
			if !isInteger(s.Type()) {
				return nil, p.errorf(tok, "array subscript '%s' is not an integer", ast.Format(s))
			}
		}
	}
	return &ast.ArraySubscript{Base: ast.Base{Loc: tok.pos, Typ: res}, Array: array, Subscripts: subs, Paren: paren}, nil
}

// sectionLength computes the constant element count of a section over dim,
// or nil when it is not a compile-time constant.
func sectionLength(r *ast.Range, dim *ast.Type, fortran bool) ast.Expr {
	if r.Length {
		if n, ok := ast.ConstValue(r.Upper); ok {
			return constant(n)
		}
		return nil
	}

	var lo, hi int64
	var okLo, okHi bool
	switch {
	case r.Lower != nil:
		lo, okLo = ast.ConstValue(r.Lower)
	case dim.HasBounds():
		lo, okLo = ast.ConstValue(dim.Lower)
	case fortran:
		lo, okLo = 1, true
	default:
		lo, okLo = 0, true
	}
	switch {
	case r.Upper != nil:
		hi, okHi = ast.ConstValue(r.Upper)
	case dim.HasBounds():
		hi, okHi = ast.ConstValue(dim.Upper)
	default:
		if n, ok := dim.ArrayLength(); ok {
			hi, okHi = n-1, true
			if fortran {
				hi = n
			}
		}
	}
	if !okLo || !okHi || hi < lo {
		return nil
	}
	return constant(hi - lo + 1)
}

func constant(v int64) ast.Expr {
	return &ast.IntLit{Base: ast.Base{Typ: ast.Int}, Value: v}
}

func (p *parser) member(op token, object ast.Expr, name token) (ast.Expr, error) {
	t := object.Type().NoRef()
	if op.is("->") {
		if !t.IsPointer() || !t.Elem.NoRef().IsClass() {
			return nil, p.errorf(op, "base operand of '->' has non-pointer type '%s'", t)
		}
		t = t.Elem.NoRef()
	}
	if !t.IsClass() {
		return nil, p.errorf(op, "request for member '%s' in '%s', which is of non-class type '%s'", name.text, ast.Format(object), t)
	}
	field, ok := t.Field(name.text, p.fortran())
	if !ok {
		return nil, p.errorf(name, "'%s' has no member named '%s'", t, name.text)
	}
	return &ast.MemberAccess{Base: ast.Base{Loc: op.pos, Typ: field.Type}, Object: object, Member: field, Sep: op.text}, nil
}

func (p *parser) binary(op token, lhs, rhs ast.Expr) (ast.Expr, error) {
	lt, rt := lhs.Type().NoRef(), rhs.Type().NoRef()
	var res *ast.Type
	switch {
	case isArithmetic(lt) && isArithmetic(rt):
		res = arithmeticResult(lt, rt)
		if op.is("%") && (!isInteger(lt) || !isInteger(rt)) {
			return nil, p.errorf(op, "invalid operands to binary '%%'")
		}
	case (lt.IsPointer() || lt.IsArray()) && isInteger(rt) && (op.is("+") || op.is("-")):
		res = decay(lt)
	case isInteger(lt) && (rt.IsPointer() || rt.IsArray()) && op.is("+"):
		res = decay(rt)
	default:
		return nil, p.errorf(op, "invalid operands to binary '%s' (have '%s' and '%s')", op.text, lt, rt)
	}
	return &ast.Binary{Base: ast.Base{Loc: op.pos, Typ: res}, Op: op.text, LHS: lhs, RHS: rhs}, nil
}

// decay turns an array type into a pointer to its element.
func decay(t *ast.Type) *ast.Type {
	if t.IsArray() {
		return ast.PointerTo(t.Elem)
	}
	return t
}

func isArithmetic(t *ast.Type) bool {
	return t.NoRef().IsScalar()
}

func isInteger(t *ast.Type) bool {
	t = t.NoRef()
	if !t.IsScalar() {
		return false
	}
	return !floatingNames[t.Name]
}

var floatingNames = map[string]bool{"float": true, "double": true, "real": true, "long double": true}

func arithmeticResult(l, r *ast.Type) *ast.Type {
	ls, _ := l.Size()
	rs, _ := r.Size()
	switch {
	case floatingNames[l.Name] && (!floatingNames[r.Name] || ls >= rs):
		return l
	case floatingNames[r.Name]:
		return r
	case ls >= rs && ls > 4:
		return l
	case rs > 4:
		return r
	default:
		return ast.Int
	}
}
