package selection

import "github.com/viant/i18nlens/geometry"

// Fragment is a snapshot of a rendered text leaf. Fragments published by a Registry are never modified.
type Fragment struct {
	Node Node
	// Boxes holds one box per rendered line, in document coordinates
	Boxes []geometry.Box
	// Text is copied when the fragment is measured, it does not follow later edits
	Text     string
	ZIndex   *int
	Visible  bool
	Selected bool
}

// Intersects returns true if any fragment box intersects rect
func (f *Fragment) Intersects(rect geometry.Box) bool {
	for _, box := range f.Boxes {
		if rect.Intersects(box) {
			return true
		}
	}
	return false
}

// Flat is a single box view of a fragment
type Flat struct {
	*Fragment
	Box geometry.Box
}

// Flat returns one view per box
func (f *Fragment) Flat() []Flat {
	result := make([]Flat, 0, len(f.Boxes))
	for _, box := range f.Boxes {
		result = append(result, Flat{Fragment: f, Box: box})
	}
	return result
}

func (f *Fragment) withSelection(rect *geometry.Box) *Fragment {
	selected := rect != nil && f.Visible && f.Intersects(*rect)
	if selected == f.Selected {
		return f
	}
	clone := *f
	clone.Selected = selected
	return &clone
}
