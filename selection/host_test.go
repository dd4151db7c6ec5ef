package selection_test

import (
	"github.com/viant/i18nlens/geometry"
	"github.com/viant/i18nlens/selection"
)

type fakeNode struct {
	name     string
	text     *string
	class    string
	style    selection.Style
	rects    []geometry.Box
	parent   *fakeNode
	children []*fakeNode
}

type fakeHost struct {
	root     *fakeNode
	scroll   geometry.Point
	listener selection.Listener
}

func element(name string, children ...*fakeNode) *fakeNode {
	ret := &fakeNode{name: name, style: selection.DefaultStyle()}
	for _, child := range children {
		child.parent = ret
		ret.children = append(ret.children, child)
	}
	return ret
}

func text(value string, rects ...geometry.Box) *fakeNode {
	return &fakeNode{name: "#text", text: &value, rects: rects}
}

func (h *fakeHost) node(n selection.Node) *fakeNode {
	return n.(*fakeNode)
}

func (h *fakeHost) IsText(n selection.Node) bool {
	return h.node(n).text != nil
}

func (h *fakeHost) Text(n selection.Node) string {
	if t := h.node(n).text; t != nil {
		return *t
	}
	return ""
}

func (h *fakeHost) TextNodes(n selection.Node) []selection.Node {
	node := h.node(n)
	if node.text != nil {
		return []selection.Node{node}
	}
	var result []selection.Node
	for _, child := range node.children {
		result = append(result, h.TextNodes(child)...)
	}
	return result
}

func (h *fakeHost) Parent(n selection.Node) selection.Node {
	if parent := h.node(n).parent; parent != nil {
		return parent
	}
	return nil
}

func (h *fakeHost) Style(n selection.Node) selection.Style {
	return h.node(n).style
}

func (h *fakeHost) ClientRects(n selection.Node) []geometry.Box {
	var result []geometry.Box
	for _, rect := range h.node(n).rects {
		result = append(result, rect.Translate(geometry.Point{X: -h.scroll.X, Y: -h.scroll.Y}))
	}
	return result
}

func (h *fakeHost) Scroll() geometry.Point {
	return h.scroll
}

func (h *fakeHost) Attached(n selection.Node) bool {
	node := h.node(n)
	for ; node != nil; node = node.parent {
		if node == h.root {
			return true
		}
	}
	return false
}

func (h *fakeHost) Watch(root selection.Node, listener selection.Listener) func() {
	h.listener = listener
	return func() { h.listener = nil }
}

func (h *fakeHost) append(parent, child *fakeNode) {
	child.parent = parent
	parent.children = append(parent.children, child)
	if h.listener != nil {
		h.listener.OnMutations([]selection.Mutation{{Kind: selection.MutationChildList, Target: parent, Added: []selection.Node{child}}})
	}
}

func (h *fakeHost) remove(child *fakeNode) {
	parent := child.parent
	for i, candidate := range parent.children {
		if candidate == child {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			break
		}
	}
	child.parent = nil
	if h.listener != nil {
		h.listener.OnMutations([]selection.Mutation{{Kind: selection.MutationChildList, Target: parent, Removed: []selection.Node{child}}})
	}
}

func (h *fakeHost) setText(node *fakeNode, value string) {
	node.text = &value
	if h.listener != nil {
		h.listener.OnMutations([]selection.Mutation{{Kind: selection.MutationCharacterData, Target: node}})
	}
}

func excludeClass(class string) selection.Option {
	return selection.WithExclusion(func(n selection.Node) bool {
		return n.(*fakeNode).class == class
	})
}

func zIndex(v int) *int {
	return &v
}
