package htmlhost

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/viant/i18nlens/geometry"
	"github.com/viant/i18nlens/selection"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// RectAttribute declares document coordinates of text line boxes: "x y w h; x y w h"
	RectAttribute = "data-rect"
	// FixedAttribute marks elements whose declared rects are viewport coordinates
	FixedAttribute = "data-fixed"
)

// DefaultExcludedClasses are classes of the editor own UI
var DefaultExcludedClasses = []string{"i18n-editor", "selected-entries", "selection-box"}

type watch struct {
	root     *html.Node
	listener selection.Listener
}

// Document is a selection host backed by a parsed HTML tree with declared geometry
type Document struct {
	root   *html.Node
	styles *styleParser

	mu       sync.RWMutex
	scroll   geometry.Point
	watches  map[int]*watch
	watchSeq int
}

// Parse parses an HTML document
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &Document{root: root, styles: newStyleParser(), watches: map[int]*watch{}}, nil
}

// ParseString parses an HTML document from text
func ParseString(text string) (*Document, error) {
	return Parse(strings.NewReader(text))
}

// Root returns document node
func (d *Document) Root() *html.Node {
	return d.root
}

// Body returns body element
func (d *Document) Body() *html.Node {
	return d.find(func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Body
	})
}

// Find returns element with id or nil
func (d *Document) Find(id string) *html.Node {
	return d.find(func(n *html.Node) bool {
		return n.Type == html.ElementNode && Attr(n, "id") == id
	})
}

func (d *Document) find(match func(n *html.Node) bool) *html.Node {
	var result *html.Node
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if result != nil {
			return
		}
		if match(n) {
			result = n
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(d.root)
	return result
}

// Render writes document HTML
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// IsText implements selection.Host
func (d *Document) IsText(node selection.Node) bool {
	n, ok := node.(*html.Node)
	return ok && n.Type == html.TextNode
}

// Text implements selection.Host
func (d *Document) Text(node selection.Node) string {
	if n, ok := node.(*html.Node); ok && n.Type == html.TextNode {
		return n.Data
	}
	return ""
}

// TextNodes implements selection.Host, script and style content is skipped
func (d *Document) TextNodes(node selection.Node) []selection.Node {
	n, ok := node.(*html.Node)
	if !ok || n == nil {
		return nil
	}
	var result []selection.Node
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			result = append(result, n)
			return
		case html.ElementNode:
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(n)
	return result
}

// Parent implements selection.Host
func (d *Document) Parent(node selection.Node) selection.Node {
	n, ok := node.(*html.Node)
	if !ok || n == nil || n.Parent == nil {
		return nil
	}
	return n.Parent
}

// Style implements selection.Host, the hidden attribute is treated as display none
func (d *Document) Style(element selection.Node) selection.Style {
	n, ok := element.(*html.Node)
	if !ok || n.Type != html.ElementNode {
		return selection.DefaultStyle()
	}
	style := selection.DefaultStyle()
	if inline := Attr(n, "style"); inline != "" {
		style = d.styles.Parse(inline)
	}
	if HasAttr(n, "hidden") {
		style.Display = "none"
	}
	return style
}

// ClientRects implements selection.Host, boxes are declared on the text parent element
func (d *Document) ClientRects(node selection.Node) []geometry.Box {
	n, ok := node.(*html.Node)
	if !ok || n.Parent == nil {
		return nil
	}
	return d.rects(n.Parent)
}

// rects returns declared boxes of element in viewport coordinates
func (d *Document) rects(element *html.Node) []geometry.Box {
	boxes := ParseRects(Attr(element, RectAttribute))
	if len(boxes) == 0 || d.fixed(element) {
		return boxes
	}
	scroll := d.Scroll()
	offset := geometry.Point{X: -scroll.X, Y: -scroll.Y}
	for i := range boxes {
		boxes[i] = boxes[i].Translate(offset)
	}
	return boxes
}

// ElementAt returns the last element in document order whose boxes contain document point p, or nil
func (d *Document) ElementAt(p geometry.Point) *html.Node {
	scroll := d.Scroll()
	var result *html.Node
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, box := range d.rects(n) {
				if box.Translate(scroll).Contains(p) {
					result = n
					break
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(d.root)
	return result
}

func (d *Document) fixed(n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && HasAttr(n, FixedAttribute) {
			return true
		}
	}
	return false
}

// Scroll implements selection.Host
func (d *Document) Scroll() geometry.Point {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.scroll
}

// Attached implements selection.Host
func (d *Document) Attached(node selection.Node) bool {
	n, ok := node.(*html.Node)
	if !ok {
		return false
	}
	return contains(d.root, n)
}

// Watch implements selection.Host
func (d *Document) Watch(root selection.Node, listener selection.Listener) func() {
	n, _ := root.(*html.Node)
	d.mu.Lock()
	d.watchSeq++
	id := d.watchSeq
	d.watches[id] = &watch{root: n, listener: listener}
	d.mu.Unlock()
	return func() {
		d.mu.Lock()
		delete(d.watches, id)
		d.mu.Unlock()
	}
}

func contains(root, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}

// ParseRects parses "x y w h" boxes separated by semicolons, malformed boxes are skipped
func ParseRects(value string) []geometry.Box {
	var result []geometry.Box
	for _, item := range strings.Split(value, ";") {
		fields := strings.Fields(item)
		if len(fields) != 4 {
			continue
		}
		var numbers [4]float64
		valid := true
		for i, field := range fields {
			number, err := strconv.ParseFloat(field, 64)
			if err != nil {
				valid = false
				break
			}
			numbers[i] = number
		}
		if valid {
			result = append(result, geometry.FromRect(numbers[0], numbers[1], numbers[2], numbers[3]))
		}
	}
	return result
}

// Attr returns attribute value or empty string
func Attr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// HasAttr returns true if element has attribute
func HasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}

// ClassMatcher returns exclusion predicate matching elements with any of the classes
func ClassMatcher(classes ...string) func(node selection.Node) bool {
	if len(classes) == 0 {
		classes = DefaultExcludedClasses
	}
	set := make(map[string]bool, len(classes))
	for _, class := range classes {
		set[class] = true
	}
	return func(node selection.Node) bool {
		n, ok := node.(*html.Node)
		if !ok || n.Type != html.ElementNode {
			return false
		}
		for _, class := range strings.Fields(Attr(n, "class")) {
			if set[class] {
				return true
			}
		}
		return false
	}
}
