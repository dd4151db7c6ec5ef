package symbol

import (
	"fmt"

	"github.com/viant/i18nlens/keychain"
	"github.com/viant/i18nlens/tree"
)

// Kind represents symbol node kind
type Kind = tree.Kind

const (
	KindArray     = tree.KindArray
	KindRecord    = tree.KindRecord
	KindPrimitive = tree.KindPrimitive
)

// Position is a 1-based line and column (columns count runes)
type Position struct {
	Line   int `yaml:"line" json:"line"`
	Column int `yaml:"column" json:"column"`
}

// Before returns true if p is strictly before other
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// Range is a text span, End is exclusive
type Range struct {
	Start Position `yaml:"start" json:"start"`
	End   Position `yaml:"end" json:"end"`
}

// NewRange creates a range from line/column pairs
func NewRange(startLine, startColumn, endLine, endColumn int) Range {
	return Range{Start: Position{Line: startLine, Column: startColumn}, End: Position{Line: endLine, Column: endColumn}}
}

// Contains returns true if other lies within r, bounds included
func (r Range) Contains(other Range) bool {
	if other.Start.Before(r.Start) {
		return false
	}
	if r.End.Before(other.End) {
		return false
	}
	return true
}

// IsEmpty returns true for a zero width range
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", r.Start.Line, r.Start.Column, r.End.Line, r.End.Column)
}

// Span is a byte offset span in the serialized source, End is exclusive
type Span struct {
	Start int `yaml:"start" json:"start"`
	End   int `yaml:"end" json:"end"`
}

// Symbol binds a key chain and its value to the text range of its key token
type Symbol struct {
	Kind     Kind
	Value    any
	KeyChain *keychain.KeyChain
	// Range points at the quoted key, not at the value
	Range Range
	Span  Span
}

// Text returns key token text from the source the symbol was indexed from
func (s *Symbol) Text(source []byte) string {
	if s.Span.End > len(source) || s.Span.Start > s.Span.End {
		return ""
	}
	return string(source[s.Span.Start:s.Span.End])
}
