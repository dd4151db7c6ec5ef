package htmlhost

import (
	"context"
	"strconv"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/viant/i18nlens/selection"
)

// styleParser parses inline style declarations with tree-sitter CSS grammar
type styleParser struct {
	mu     sync.Mutex
	parser *sitter.Parser
	cache  map[string]selection.Style
}

func newStyleParser() *styleParser {
	parser := sitter.NewParser()
	parser.SetLanguage(css.GetLanguage())
	return &styleParser{parser: parser, cache: map[string]selection.Style{}}
}

// Parse returns style declared by an inline style attribute, unknown properties are ignored
func (p *styleParser) Parse(inline string) selection.Style {
	p.mu.Lock()
	defer p.mu.Unlock()
	if style, ok := p.cache[inline]; ok {
		return style
	}
	style := selection.DefaultStyle()
	src := []byte("x{" + inline + "}")
	tree, err := p.parser.ParseCtx(context.Background(), nil, src)
	if err == nil {
		visitDeclarations(tree.RootNode(), src, func(property, value string) {
			applyDeclaration(&style, property, value)
		})
	}
	p.cache[inline] = style
	return style
}

func visitDeclarations(node *sitter.Node, src []byte, fn func(property, value string)) {
	if node == nil {
		return
	}
	if node.Type() == "declaration" {
		var property string
		var values []string
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			switch child.Type() {
			case "property_name":
				property = child.Content(src)
			case "important", "comment":
			default:
				values = append(values, child.Content(src))
			}
		}
		if property != "" {
			fn(strings.ToLower(property), strings.ToLower(strings.Join(values, " ")))
		}
		return
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		visitDeclarations(node.NamedChild(i), src, fn)
	}
}

func applyDeclaration(style *selection.Style, property, value string) {
	switch property {
	case "display":
		style.Display = value
	case "visibility":
		style.Visibility = value
	case "opacity":
		percent := strings.HasSuffix(value, "%")
		opacity, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64)
		if err != nil {
			return
		}
		if percent {
			opacity /= 100
		}
		style.Opacity = opacity
	case "z-index":
		if value == "auto" {
			style.ZIndex = nil
			return
		}
		if zIndex, err := strconv.Atoi(value); err == nil {
			style.ZIndex = &zIndex
		}
	}
}
