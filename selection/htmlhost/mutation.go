package htmlhost

import (
	"github.com/viant/i18nlens/geometry"
	"github.com/viant/i18nlens/selection"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NewElement creates a detached element with attributes given as key value pairs
func NewElement(tag string, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// NewText creates a detached text node
func NewText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// AppendChild appends child to parent and notifies watchers
func (d *Document) AppendChild(parent, child *html.Node) {
	parent.AppendChild(child)
	d.notify(parent, selection.Mutation{Kind: selection.MutationChildList, Target: parent, Added: []selection.Node{child}})
}

// Remove detaches node from its parent and notifies watchers
func (d *Document) Remove(node *html.Node) {
	parent := node.Parent
	if parent == nil {
		return
	}
	listeners := d.listeners(parent)
	parent.RemoveChild(node)
	deliver(listeners, selection.Mutation{Kind: selection.MutationChildList, Target: parent, Removed: []selection.Node{node}})
}

// SetText replaces text node content and notifies watchers
func (d *Document) SetText(node *html.Node, text string) {
	node.Data = text
	d.notify(node, selection.Mutation{Kind: selection.MutationCharacterData, Target: node})
}

// SetAttr sets element attribute and notifies watchers
func (d *Document) SetAttr(element *html.Node, key, value string) {
	updated := false
	for i, attr := range element.Attr {
		if attr.Key == key {
			element.Attr[i].Val = value
			updated = true
		}
	}
	if !updated {
		element.Attr = append(element.Attr, html.Attribute{Key: key, Val: value})
	}
	d.notify(element, selection.Mutation{Kind: selection.MutationAttributes, Target: element})
}

// Resize notifies watchers about container size change
func (d *Document) Resize() {
	for _, listener := range d.listeners(nil) {
		listener.OnResize()
	}
}

// ScrollTo sets document scroll offset and notifies watchers
func (d *Document) ScrollTo(offset geometry.Point) {
	d.mu.Lock()
	d.scroll = offset
	d.mu.Unlock()
	for _, listener := range d.listeners(nil) {
		listener.OnScroll()
	}
}

func (d *Document) notify(target *html.Node, mutation selection.Mutation) {
	deliver(d.listeners(target), mutation)
}

func deliver(listeners []selection.Listener, mutation selection.Mutation) {
	for _, listener := range listeners {
		listener.OnMutations([]selection.Mutation{mutation})
	}
}

// listeners returns listeners watching target, all listeners for nil target
func (d *Document) listeners(target *html.Node) []selection.Listener {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var result []selection.Listener
	for i := 1; i <= d.watchSeq; i++ {
		w, ok := d.watches[i]
		if !ok {
			continue
		}
		if target == nil || contains(w.root, target) {
			result = append(result, w.listener)
		}
	}
	return result
}
