package session

import (
	"github.com/viant/i18nlens/inspector/index"
	"github.com/viant/i18nlens/inspector/symbol"
	"github.com/viant/i18nlens/selection"
)

// Resolution pairs a selected fragment with symbols whose value contains the fragment text
type Resolution struct {
	Fragment *selection.Fragment
	Symbols  []*symbol.Symbol
}

// Resolve looks up symbols for each fragment text, fragments without symbols are kept with an empty list
func Resolve(idx *index.Index, fragments []*selection.Fragment) []Resolution {
	if len(fragments) == 0 {
		return nil
	}
	result := make([]Resolution, 0, len(fragments))
	for _, fragment := range fragments {
		resolution := Resolution{Fragment: fragment}
		if idx != nil {
			resolution.Symbols = idx.FindAllByValue(fragment.Text)
		}
		result = append(result, resolution)
	}
	return result
}

// Symbols returns distinct resolved symbols in resolution order
func Symbols(resolutions []Resolution) []*symbol.Symbol {
	var result []*symbol.Symbol
	seen := map[*symbol.Symbol]bool{}
	for _, resolution := range resolutions {
		for _, aSymbol := range resolution.Symbols {
			if !seen[aSymbol] {
				seen[aSymbol] = true
				result = append(result, aSymbol)
			}
		}
	}
	return result
}
