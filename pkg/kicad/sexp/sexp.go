// Package sexp provides a lightweight streaming S-expression codec for
// KiCad board files. Unlike general-purpose sexp libraries it never
// slurps the whole input, so arbitrarily large boards parse in bounded
// memory.
package sexp

import (
	"io"
	"strings"
)

// Sexp is an S-expression node: either an atom (Symbol, Str) or a List.
type Sexp interface {
	// IsLeaf returns true if this is an atom (not a list)
	IsLeaf() bool

	// String returns the KiCad text representation
	String() string
}

// Symbol is an unquoted atom: an identifier, keyword or number.
type Symbol string

func (s Symbol) IsLeaf() bool   { return true }
func (s Symbol) String() string { return string(s) }

// Str is a quoted string atom. It prints with quotes and escapes so
// written files stay valid KiCad input.
type Str string

func (s Str) IsLeaf() bool   { return true }
func (s Str) String() string { return Quote(string(s)) }

// List is a parenthesized sequence of S-expressions.
type List struct {
	elements []Sexp
}

// NewList builds a list node from the given elements.
func NewList(elements ...Sexp) *List {
	return &List{elements: elements}
}

func (l *List) IsLeaf() bool { return false }

// Len returns the number of elements in the list.
func (l *List) Len() int { return len(l.elements) }

// Get returns the element at the given index, or nil if out of range.
func (l *List) Get(index int) Sexp {
	if index < 0 || index >= len(l.elements) {
		return nil
	}
	return l.elements[index]
}

// Elements returns the underlying element slice. Callers must not
// modify it.
func (l *List) Elements() []Sexp { return l.elements }

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, elem := range l.elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(elem.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Quote renders s as a KiCad quoted string with backslash escapes.
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Parse parses all top-level S-expressions from r, streaming.
func Parse(r io.Reader) ([]Sexp, error) {
	return NewParser(r).ParseAll()
}

// ParseString parses S-expressions from a string.
func ParseString(s string) ([]Sexp, error) {
	return Parse(strings.NewReader(s))
}
