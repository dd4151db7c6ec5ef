package geometry

import "fmt"

// Box is an axis aligned rectangle, start is always less or equal to end on both axes
type Box struct {
	StartX float64
	StartY float64
	EndX   float64
	EndY   float64
	// InvertedX and InvertedY record that the box was built from reversed coordinates
	InvertedX bool
	InvertedY bool
}

// Null is the empty box at the origin
var Null = Box{}

// NewBox creates a box normalizing reversed coordinates
func NewBox(startX, startY, endX, endY float64) Box {
	box := Box{StartX: startX, StartY: startY, EndX: endX, EndY: endY}
	if endX < startX {
		box.StartX, box.EndX = endX, startX
		box.InvertedX = true
	}
	if endY < startY {
		box.StartY, box.EndY = endY, startY
		box.InvertedY = true
	}
	return box
}

// FromPoints creates a box spanning two corner points in any order
func FromPoints(start, end Point) Box {
	return NewBox(start.X, start.Y, end.X, end.Y)
}

// FromRect creates a box from a rectangle origin and size
func FromRect(x, y, width, height float64) Box {
	return NewBox(x, y, x+width, y+height)
}

// Width returns horizontal size
func (b Box) Width() float64 {
	return b.EndX - b.StartX
}

// Height returns vertical size
func (b Box) Height() float64 {
	return b.EndY - b.StartY
}

// Center returns the middle point
func (b Box) Center() Point {
	return Point{X: (b.StartX + b.EndX) / 2, Y: (b.StartY + b.EndY) / 2}
}

// Start returns the top left corner
func (b Box) Start() Point {
	return Point{X: b.StartX, Y: b.StartY}
}

// End returns the bottom right corner
func (b Box) End() Point {
	return Point{X: b.EndX, Y: b.EndY}
}

// Translate returns the box moved by offset
func (b Box) Translate(offset Point) Box {
	moved := NewBox(b.StartX+offset.X, b.StartY+offset.Y, b.EndX+offset.X, b.EndY+offset.Y)
	moved.InvertedX, moved.InvertedY = b.InvertedX, b.InvertedY
	return moved
}

// Intersects uses open intervals: boxes sharing only an edge or a corner do not intersect
func (b Box) Intersects(other Box) bool {
	if b.StartX >= other.EndX || b.StartY >= other.EndY {
		return false
	}
	if b.EndX <= other.StartX || b.EndY <= other.StartY {
		return false
	}
	return true
}

// Contains returns true if point lies inside or on the edge of the box
func (b Box) Contains(p Point) bool {
	return p.X >= b.StartX && p.X <= b.EndX && p.Y >= b.StartY && p.Y <= b.EndY
}

// Equals compares coordinates only
func (b Box) Equals(other Box) bool {
	return b.StartX == other.StartX && b.StartY == other.StartY && b.EndX == other.EndX && b.EndY == other.EndY
}

func (b Box) String() string {
	return fmt.Sprintf("[%g,%g %g,%g]", b.StartX, b.StartY, b.EndX, b.EndY)
}
