package geometry

// Point is a 2D point in document coordinates
type Point struct {
	X float64
	Y float64
}

// Zero is the origin
var Zero = Point{}

// Add returns p translated by other
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Clamp returns p with negative coordinates set to zero
func (p Point) Clamp() Point {
	if p.X < 0 {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = 0
	}
	return p
}
