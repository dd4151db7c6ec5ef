package session

import (
	"github.com/viant/i18nlens/inspector/symbol"
	"github.com/viant/i18nlens/keychain"
	"github.com/viant/i18nlens/tree"
)

// Row holds values of one key chain across compared languages
type Row struct {
	KeyChain *keychain.KeyChain
	Values   []string
}

// Comparison lists child values of a symbol in every compared language
type Comparison struct {
	Symbol    *symbol.Symbol
	Languages []string
	Rows      []Row
}

func newComparison(aSymbol *symbol.Symbol, languages []string, resources map[string]any) *Comparison {
	ret := &Comparison{Symbol: aSymbol, Languages: languages}
	for _, chain := range keychain.ChildrenOf(aSymbol.Value, aSymbol.KeyChain) {
		row := Row{KeyChain: chain, Values: make([]string, 0, len(languages))}
		for _, language := range languages {
			row.Values = append(row.Values, display(resources[language], chain))
		}
		ret.Rows = append(ret.Rows, row)
	}
	return ret
}

// display renders a value for editing, strings are kept as is and missing values are empty
func display(resource any, chain *keychain.KeyChain) string {
	value, ok := tree.Get(resource, chain.Keys())
	if !ok || value == nil {
		return ""
	}
	if text, ok := value.(string); ok {
		return text
	}
	text, err := tree.Compact(value)
	if err != nil {
		return ""
	}
	return text
}
