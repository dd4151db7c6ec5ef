package index

import (
	"regexp"
	"unicode/utf8"

	"github.com/viant/i18nlens/inspector/symbol"
)

// SymbolPattern matches a double quoted key followed by a colon and optionally by an opening bracket.
// The first group captures the literal (not unescaped) key.
const SymbolPattern = `"([^"]+)"\s*:\s*[\[{]?`

var symbolExpr = regexp.MustCompile(SymbolPattern)

// Match represents a key token found in text
type Match struct {
	Key   string
	Range symbol.Range
	Span  symbol.Span
}

// IsSymbol returns true if text contains a key token
func IsSymbol(text string) bool {
	return symbolExpr.MatchString(text)
}

// FindMatches returns up to limit key tokens found in text, limit <= 0 means no limit
func FindMatches(text string, limit int) []Match {
	source := []byte(text)
	loc := newLocator(source)
	if limit <= 0 {
		limit = -1
	}
	var result []Match
	for _, m := range symbolExpr.FindAllSubmatchIndex(source, limit) {
		result = append(result, newMatch(source, loc, m, 0))
	}
	return result
}

// nextMatch finds the first key token at or after offset, the returned match has no range yet
func nextMatch(source []byte, offset int) (Match, bool) {
	if offset > len(source) {
		return Match{}, false
	}
	m := symbolExpr.FindSubmatchIndex(source[offset:])
	if m == nil {
		return Match{}, false
	}
	return newMatch(source, nil, m, offset), true
}

// newMatch builds a match covering only the quoted key; with a locator the range is resolved too
func newMatch(source []byte, loc *locator, m []int, base int) Match {
	ret := Match{
		Key:  string(source[base+m[2] : base+m[3]]),
		Span: symbol.Span{Start: base + m[0], End: base + m[3] + 1},
	}
	if loc != nil {
		ret.Range = loc.rangeOf(ret.Span)
	}
	return ret
}

// locator converts byte offsets into line/column positions moving forward only
type locator struct {
	source []byte
	offset int
	line   int
	column int
}

func newLocator(source []byte) *locator {
	return &locator{source: source, line: 1, column: 1}
}

func (l *locator) rangeOf(span symbol.Span) symbol.Range {
	return symbol.Range{Start: l.position(span.Start), End: l.position(span.End)}
}

func (l *locator) position(offset int) symbol.Position {
	if offset < l.offset {
		l.offset, l.line, l.column = 0, 1, 1
	}
	for l.offset < offset && l.offset < len(l.source) {
		r, size := utf8.DecodeRune(l.source[l.offset:])
		l.offset += size
		if r == '\n' {
			l.line++
			l.column = 1
			continue
		}
		l.column++
	}
	return symbol.Position{Line: l.line, Column: l.column}
}
