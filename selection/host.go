package selection

import "github.com/viant/i18nlens/geometry"

// Node is an opaque, comparable handle of a host document node
type Node any

// Style is the subset of computed element style used for visibility and stacking
type Style struct {
	Display    string
	Visibility string
	// Opacity defaults to 1
	Opacity float64
	// ZIndex is nil for "auto"
	ZIndex *int
}

// DefaultStyle returns style of a visible element without stacking order
func DefaultStyle() Style {
	return Style{Display: "inline", Visibility: "visible", Opacity: 1}
}

// Hidden returns true if the element and its descendants are not rendered visibly
func (s Style) Hidden() bool {
	return s.Display == "none" || s.Visibility == "hidden" || s.Opacity == 0
}

// MutationKind is the type of a subtree mutation
type MutationKind int

const (
	MutationAttributes MutationKind = iota
	MutationCharacterData
	MutationChildList
)

// Mutation describes a single subtree change
type Mutation struct {
	Kind    MutationKind
	Target  Node
	Added   []Node
	Removed []Node
}

// Listener receives subtree changes from a host
type Listener interface {
	// OnMutations is called with a batch of mutations at any depth of the watched root
	OnMutations(mutations []Mutation)
	// OnResize is called when the root container changes size
	OnResize()
	// OnScroll is called when the document scrolls
	OnScroll()
}

// Host abstracts a rendered document tree
type Host interface {
	// IsText returns true for text leaves
	IsText(node Node) bool
	// Text returns current text content of a text leaf
	Text(node Node) string
	// TextNodes returns text leaves under node in document order, node itself if it is a text leaf
	TextNodes(node Node) []Node
	// Parent returns parent node or nil
	Parent(node Node) Node
	// Style returns computed style of an element
	Style(element Node) Style
	// ClientRects returns viewport relative line boxes of a text leaf
	ClientRects(node Node) []geometry.Box
	// Scroll returns current document scroll offset
	Scroll() geometry.Point
	// Attached returns true if node is still part of the document
	Attached(node Node) bool
	// Watch subscribes listener to changes under root, the returned function cancels the subscription
	Watch(root Node, listener Listener) (stop func())
}
