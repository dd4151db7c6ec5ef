package index

import (
	"fmt"

	"github.com/viant/i18nlens/inspector/symbol"
	"github.com/viant/i18nlens/tree"
	"gopkg.in/yaml.v3"
)

// Emitter represents symbol table generator
type Emitter interface {
	Emit(symbols []*symbol.Symbol) ([]byte, error)
}

// Entry is a serializable view of a symbol
type Entry struct {
	KeyChain string       `yaml:"keyChain" json:"keyChain"`
	Kind     symbol.Kind  `yaml:"kind" json:"kind"`
	Range    symbol.Range `yaml:"range" json:"range"`
	Value    string       `yaml:"value" json:"value"`
}

// NewEntry creates an entry, record and array values are written as compact JSON
func NewEntry(aSymbol *symbol.Symbol) (*Entry, error) {
	value, ok := aSymbol.Value.(string)
	if !ok {
		compacted, err := tree.Compact(aSymbol.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize %v: %w", aSymbol.KeyChain, err)
		}
		value = compacted
	}
	return &Entry{
		KeyChain: aSymbol.KeyChain.Serialized(),
		Kind:     aSymbol.Kind,
		Range:    aSymbol.Range,
		Value:    value,
	}, nil
}

// Entries converts symbols to entries
func Entries(symbols []*symbol.Symbol) ([]*Entry, error) {
	entries := make([]*Entry, 0, len(symbols))
	for _, aSymbol := range symbols {
		entry, err := NewEntry(aSymbol)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// YAMLEmitter writes symbols as a YAML list
type YAMLEmitter struct{}

// Emit converts symbols to YAML
func (e *YAMLEmitter) Emit(symbols []*symbol.Symbol) ([]byte, error) {
	entries, err := Entries(symbols)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(entries)
}
