// internal/exprparse/lexer.go
package exprparse

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/specialistvlad/tdg/internal/locus"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	pos  locus.Locus
	// off is the byte offset of the token in the source text.
	off int
}

func (t token) is(punct string) bool {
	return t.kind == tokPunct && t.text == punct
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of expression"
	}
	return "'" + t.text + "'"
}

// twoCharPuncts are matched before single characters.
var twoCharPuncts = []string{"->", "::"}

const singleCharPuncts = "[](){}.,:;*&+-/%=<>"

// lineDirective strips a leading `#line N "file"` marker and returns the
// position it names together with the rest of the text.
func lineDirective(text string, fallback locus.Locus) (string, locus.Locus, error) {
	trimmed := strings.TrimLeft(text, " \t")
	if !strings.HasPrefix(trimmed, "#line") {
		return text, fallback, nil
	}
	rest := trimmed[len("#line"):]
	nl := strings.IndexByte(rest, '\n')
	if nl < 0 {
		return "", fallback, fmt.Errorf("unterminated #line marker")
	}
	directive, body := strings.TrimSpace(rest[:nl]), rest[nl+1:]

	fields := strings.Fields(directive)
	if len(fields) == 0 {
		return "", fallback, fmt.Errorf("#line marker without a line number")
	}
	line, err := strconv.Atoi(fields[0])
	if err != nil || line <= 0 {
		return "", fallback, fmt.Errorf("invalid #line number %q", fields[0])
	}
	loc := locus.New(fallback.File, line)
	// The file name is kept byte for byte, so it is taken from the raw
	// directive rather than from its fields.
	if name := strings.TrimSpace(directive[len(fields[0]):]); name != "" {
		file, err := strconv.Unquote(name)
		if err != nil {
			return "", fallback, fmt.Errorf("invalid #line file name %s", name)
		}
		loc.File = file
	}
	return body, loc, nil
}

// lex splits expression text into tokens. Positions are relative to start,
// which is the locus of the first character.
func lex(text string, start locus.Locus) ([]token, error) {
	var toks []token
	line, col := start.Line, 1
	if start.Column > 0 {
		col = start.Column
	}
	pos := func() locus.Locus {
		return locus.Locus{File: start.File, Line: line, Column: col}
	}

	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '\n':
			line++
			col = 1
			i++
		case c == ' ' || c == '\t' || c == '\r':
			col++
			i++
		case isIdentStart(c):
			j := i + 1
			for j < len(text) && isIdentPart(text[j]) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: text[i:j], pos: pos(), off: i})
			col += j - i
			i = j
		case c >= '0' && c <= '9':
			j := i + 1
			for j < len(text) && isIdentPart(text[j]) {
				j++
			}
			toks = append(toks, token{kind: tokInt, text: text[i:j], pos: pos(), off: i})
			col += j - i
			i = j
		default:
			matched := ""
			for _, p := range twoCharPuncts {
				if strings.HasPrefix(text[i:], p) {
					matched = p
					break
				}
			}
			if matched == "" && strings.IndexByte(singleCharPuncts, c) >= 0 {
				matched = text[i : i+1]
			}
			if matched == "" {
				return nil, fmt.Errorf("%s: unexpected character %q", pos(), rune(c))
			}
			toks = append(toks, token{kind: tokPunct, text: matched, pos: pos(), off: i})
			col += len(matched)
			i += len(matched)
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: pos(), off: len(text)})
	return toks, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || unicode.IsLetter(rune(c))
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// parseIntLiteral accepts decimal, octal and hexadecimal literals with
// optional C integer suffixes and Fortran kind parameters (`4_8`).
func parseIntLiteral(text string) (int64, error) {
	s := text
	if i := strings.IndexByte(s, '_'); i > 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, "uUlL")
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer constant '%s'", text)
	}
	return v, nil
}
