package index

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/viant/i18nlens/inspector/symbol"
	"github.com/viant/i18nlens/keychain"
	"github.com/viant/i18nlens/tree"
)

// ErrNotFound is returned by exact lookups when the queried symbol is not indexed
var ErrNotFound = errors.New("symbol not found")

// Index is a symbol table built from a resource tree and its serialized text.
//
// Indexing scans the serialized text once, forward only. It relies on the serializer writing keys
// in the same pre-order the tree is traversed in (tree.Marshal guarantees that), so every key
// token is found at or after the previous one. Tokens without a matching key in text are dropped.
//
// Index is immutable after construction and safe for concurrent use.
type Index struct {
	value       any
	source      []byte
	fingerprint uint64
	logger      zerolog.Logger

	symbols     []*symbol.Symbol
	byRange     map[symbol.Range]*symbol.Symbol
	byKeyChain  map[string]*symbol.Symbol
	dropped     int
	compactOnce sync.Once
	compacted   []string
}

type token struct {
	keys  []string
	kind  symbol.Kind
	value any
	// element is set for array items, they have no key token in serialized text
	element bool
}

// New indexes value against its serialized form
func New(value any, serialized string, options ...Option) *Index {
	ret := &Index{
		value:      value,
		source:     []byte(serialized),
		logger:     zerolog.Nop(),
		byRange:    make(map[symbol.Range]*symbol.Symbol),
		byKeyChain: make(map[string]*symbol.Symbol),
	}
	for _, option := range options {
		option(ret)
	}
	ret.fingerprint, _ = Hash(ret.source)
	ret.build()
	return ret
}

// FromValue serializes value with tree.Marshal and indexes it
func FromValue(value any, options ...Option) (*Index, error) {
	serialized, err := tree.Marshal(value)
	if err != nil {
		return nil, err
	}
	return New(value, string(serialized), options...), nil
}

// FromSerialized parses JSON text and indexes it
func FromSerialized(serialized string, options ...Option) (*Index, error) {
	value, err := tree.ParseJSON([]byte(serialized))
	if err != nil {
		return nil, fmt.Errorf("failed to parse serialized resource: %w", err)
	}
	return New(value, serialized, options...), nil
}

func (i *Index) build() {
	loc := newLocator(i.source)
	cursor := 0
	for _, tok := range tokenize(i.value) {
		chain := keychain.MustNew(tok.keys...)
		if tok.element {
			i.dropped++
			continue
		}
		match, ok := nextMatch(i.source, cursor)
		if !ok || match.Key != chain.Last() {
			i.dropped++
			continue
		}
		cursor = match.Span.End
		match.Range = loc.rangeOf(match.Span)
		aSymbol := &symbol.Symbol{
			Kind:     tok.kind,
			Value:    tok.value,
			KeyChain: chain,
			Range:    match.Range,
			Span:     match.Span,
		}
		i.symbols = append(i.symbols, aSymbol)
		i.byRange[aSymbol.Range] = aSymbol
		i.byKeyChain[chain.Serialized()] = aSymbol
	}
	if i.dropped > 0 {
		i.logger.Debug().Int("dropped", i.dropped).Int("symbols", len(i.symbols)).Msg("tokens without key in source")
	}
}

// tokenize returns one token per key in pre-order, parents before children
func tokenize(value any) []token {
	var result []token
	var iterate func(node any, base []string)
	iterate = func(node any, base []string) {
		element := tree.KindOf(node) == tree.KindArray
		for _, key := range tree.Keys(node) {
			child, _ := tree.Child(node, key)
			keys := make([]string, len(base)+1)
			copy(keys, base)
			keys[len(base)] = key
			kind := tree.KindOf(child)
			result = append(result, token{keys: keys, kind: kind, value: child, element: element})
			if kind != tree.KindPrimitive {
				iterate(child, keys)
			}
		}
	}
	iterate(value, nil)
	return result
}

// Value returns indexed tree
func (i *Index) Value() any {
	return i.value
}

// Source returns serialized text
func (i *Index) Source() string {
	return string(i.source)
}

// Fingerprint returns hash of the serialized text
func (i *Index) Fingerprint() uint64 {
	return i.fingerprint
}

// Symbols returns symbols in source order
func (i *Index) Symbols() []*symbol.Symbol {
	result := make([]*symbol.Symbol, len(i.symbols))
	copy(result, i.symbols)
	return result
}

// Ranges returns symbol ranges in source order
func (i *Index) Ranges() []symbol.Range {
	result := make([]symbol.Range, len(i.symbols))
	for j, aSymbol := range i.symbols {
		result[j] = aSymbol.Range
	}
	return result
}

// Len returns number of symbols
func (i *Index) Len() int {
	return len(i.symbols)
}

// Dropped returns number of traversal tokens without a key token in source
func (i *Index) Dropped() int {
	return i.dropped
}

// GetByRange returns symbol with exactly the given range
func (i *Index) GetByRange(r symbol.Range) (*symbol.Symbol, error) {
	if ret, ok := i.byRange[r]; ok {
		return ret, nil
	}
	return nil, fmt.Errorf("%w: range %v", ErrNotFound, r)
}

// GetByKeyChain returns symbol for a *keychain.KeyChain or a serialized key chain
func (i *Index) GetByKeyChain(input any) (*symbol.Symbol, error) {
	chain, err := keychain.Parse(input)
	if err != nil {
		return nil, err
	}
	if ret, ok := i.byKeyChain[chain.Serialized()]; ok {
		return ret, nil
	}
	return nil, fmt.Errorf("%w: key chain %q", ErrNotFound, chain.Serialized())
}

// FindInRange returns the first symbol whose range contains r
func (i *Index) FindInRange(r symbol.Range) (*symbol.Symbol, error) {
	for _, candidate := range i.symbols {
		if candidate.Range.Contains(r) {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("%w: nothing contains range %v", ErrNotFound, r)
}

// FindAllByValue returns symbols whose serialized value contains text. When both a symbol and
// one of its descendants match, only the descendant is kept.
//
// Every symbol value is compared as text, callers should not run it on every keystroke.
func (i *Index) FindAllByValue(text string) []*symbol.Symbol {
	text = strings.ReplaceAll(text, "\n", `\n`)
	compacted := i.compactValues()
	var found []*symbol.Symbol
	for j, candidate := range i.symbols {
		if !strings.Contains(compacted[j], text) {
			continue
		}
		found = removeParents(candidate, found)
		found = append(found, candidate)
	}
	return found
}

// removeParents filters out symbols whose key chain prefixes the given symbol key chain
func removeParents(aSymbol *symbol.Symbol, symbols []*symbol.Symbol) []*symbol.Symbol {
	result := symbols[:0]
	for _, other := range symbols {
		if aSymbol.KeyChain.StartsWith(other.KeyChain) {
			continue
		}
		result = append(result, other)
	}
	return result
}

func (i *Index) compactValues() []string {
	i.compactOnce.Do(func() {
		i.compacted = make([]string, len(i.symbols))
		for j, aSymbol := range i.symbols {
			compacted, err := tree.Compact(aSymbol.Value)
			if err != nil {
				i.logger.Warn().Err(err).Str("keyChain", aSymbol.KeyChain.Serialized()).Msg("value is not serializable")
				compacted = fmt.Sprint(aSymbol.Value)
			}
			i.compacted[j] = compacted
		}
	})
	return i.compacted
}
