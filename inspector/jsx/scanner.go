package jsx

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"github.com/viant/i18nlens/inspector/symbol"
)

// TransComponent is the JSX element carrying a key in its i18nKey attribute
const TransComponent = "Trans"

var languages = map[string]func() *sitter.Language{
	".js":  javascript.GetLanguage,
	".jsx": javascript.GetLanguage,
	".mjs": javascript.GetLanguage,
	".ts":  typescript.GetLanguage,
	".tsx": tsx.GetLanguage,
}

// languageOf returns grammar for URL extension, unknown extensions use JavaScript
func languageOf(URL string) *sitter.Language {
	if language, ok := languages[path.Ext(URL)]; ok {
		return language()
	}
	return javascript.GetLanguage()
}

var skipDirs = map[string]bool{"node_modules": true, "dist": true, "build": true, ".git": true}

// Usage is a translation key referenced from source code
type Usage struct {
	KeyChain string          `yaml:"keyChain" json:"keyChain"`
	URL      string          `yaml:"url" json:"url"`
	Position symbol.Position `yaml:"position" json:"position"`
}

// Scanner finds translation function calls in JavaScript and JSX sources
type Scanner struct {
	fs        afs.Service
	functions map[string]bool
}

// NewScanner creates a scanner matching calls of functions, "t" and "i18n.t" by default
func NewScanner(fs afs.Service, functions ...string) *Scanner {
	if fs == nil {
		fs = afs.New()
	}
	if len(functions) == 0 {
		functions = []string{"t", "i18n.t"}
	}
	ret := &Scanner{fs: fs, functions: map[string]bool{}}
	for _, name := range functions {
		ret.functions[name] = true
	}
	return ret
}

// ScanSource returns usages in src parsed with the grammar of the URL extension, only literal keys are reported
func (s *Scanner) ScanSource(src []byte, URL string) ([]*Usage, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(languageOf(URL))
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %v: %w", URL, err)
	}
	defer tree.Close()
	var result []*Usage
	s.visit(tree.RootNode(), src, URL, &result)
	return result, nil
}

func (s *Scanner) visit(node *sitter.Node, src []byte, URL string, result *[]*Usage) {
	switch node.Type() {
	case "call_expression":
		if fn := node.ChildByFieldName("function"); fn != nil && s.functions[fn.Content(src)] {
			if args := node.ChildByFieldName("arguments"); args != nil && args.NamedChildCount() > 0 {
				s.add(args.NamedChild(0), src, URL, result)
			}
		}
	case "jsx_self_closing_element", "jsx_opening_element":
		if name := node.ChildByFieldName("name"); name != nil && name.Content(src) == TransComponent {
			for j := 0; j < int(node.NamedChildCount()); j++ {
				attr := node.NamedChild(j)
				if attr.Type() != "jsx_attribute" || attr.NamedChildCount() < 2 {
					continue
				}
				if attr.NamedChild(0).Content(src) == "i18nKey" {
					s.add(attr.NamedChild(1), src, URL, result)
				}
			}
		}
	}
	for j := 0; j < int(node.NamedChildCount()); j++ {
		s.visit(node.NamedChild(j), src, URL, result)
	}
}

func (s *Scanner) add(node *sitter.Node, src []byte, URL string, result *[]*Usage) {
	key, ok := literal(node, src)
	if !ok {
		return
	}
	point := node.StartPoint()
	*result = append(*result, &Usage{
		KeyChain: key,
		URL:      URL,
		Position: symbol.Position{Line: int(point.Row) + 1, Column: int(point.Column) + 1},
	})
}

// literal returns content of a string or substitution free template
func literal(node *sitter.Node, src []byte) (string, bool) {
	switch node.Type() {
	case "string":
		content := node.Content(src)
		if len(content) < 2 {
			return "", false
		}
		return content[1 : len(content)-1], true
	case "template_string":
		content := node.Content(src)
		if len(content) < 2 || strings.Contains(content, "${") {
			return "", false
		}
		return content[1 : len(content)-1], true
	}
	return "", false
}

// Scan walks location and returns usages sorted by URL and position
func (s *Scanner) Scan(ctx context.Context, URL string) ([]*Usage, error) {
	var result []*Usage
	if err := s.scan(ctx, URL, &result); err != nil {
		return nil, err
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].URL != result[j].URL {
			return result[i].URL < result[j].URL
		}
		return result[i].Position.Before(result[j].Position)
	})
	return result, nil
}

func (s *Scanner) scan(ctx context.Context, URL string, result *[]*Usage) error {
	objects, err := s.fs.List(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to list %v: %w", URL, err)
	}
	base := strings.TrimRight(url.Path(URL), "/")
	for _, object := range objects {
		if object.IsDir() {
			if strings.HasSuffix(strings.TrimRight(url.Path(object.URL()), "/"), base) || skipDirs[object.Name()] {
				continue
			}
			if err = s.scan(ctx, object.URL(), result); err != nil {
				return err
			}
			continue
		}
		if _, ok := languages[path.Ext(object.Name())]; !ok {
			continue
		}
		data, err := s.fs.DownloadWithURL(ctx, object.URL())
		if err != nil {
			return fmt.Errorf("failed to download %v: %w", object.URL(), err)
		}
		usages, err := s.ScanSource(data, object.URL())
		if err != nil {
			return err
		}
		*result = append(*result, usages...)
	}
	return nil
}
