// Package geom holds the small geometry value types shared by the state
// machine, the operator interpreters, and the redaction passes: axis-aligned
// rectangles and 2-D points. It is grounded on the immutable Value Object
// idiom the teacher uses in internal/models/types (private fields,
// validating constructor, no setters), adapted to the open-interval
// intersection rule the redaction engine needs.
package geom

import "fmt"

// Rectangle is an axis-aligned box in PDF points, origin bottom-left:
// (Left, Bottom, Right, Top).
type Rectangle struct {
	Left, Bottom, Right, Top float64
}

// NewRectangle builds a rectangle from two corners, normalizing so that
// Left<=Right and Bottom<=Top regardless of argument order.
func NewRectangle(x0, y0, x1, y1 float64) Rectangle {
	left, right := x0, x1
	if left > right {
		left, right = right, left
	}
	bottom, top := y0, y1
	if bottom > top {
		bottom, top = top, bottom
	}
	return Rectangle{Left: left, Bottom: bottom, Right: right, Top: top}
}

// Empty is the rectangle with zero area at the origin, used as the bbox of
// operations that never intersect anything (StateOp, TextStateOp).
var Empty = Rectangle{}

// IsEmpty reports whether the rectangle has zero or negative area.
func (r Rectangle) IsEmpty() bool {
	return r.Right <= r.Left || r.Top <= r.Bottom
}

// Width returns Right - Left.
func (r Rectangle) Width() float64 { return r.Right - r.Left }

// Height returns Top - Bottom.
func (r Rectangle) Height() float64 { return r.Top - r.Bottom }

// Intersects reports whether r and other overlap using OPEN-interval
// overlap on both axes, per spec: two rectangles that merely touch at an
// edge do not intersect.
func (r Rectangle) Intersects(other Rectangle) bool {
	return r.Left < other.Right && other.Left < r.Right &&
		r.Bottom < other.Top && other.Bottom < r.Top
}

// ContainsPoint reports whether (x, y) lies inside r, inclusive of the
// boundary. Used for the glyph-center redaction trigger, where a tie
// (center exactly on the edge) is resolved as "inside".
func (r Rectangle) ContainsPoint(x, y float64) bool {
	return x >= r.Left && x <= r.Right && y >= r.Bottom && y <= r.Top
}

// Union returns the smallest rectangle containing both r and other. The
// zero Rectangle is treated as "no box yet" by callers accumulating a
// union over a sequence of boxes (see UnionAll).
func (r Rectangle) Union(other Rectangle) Rectangle {
	if r == (Rectangle{}) {
		return other
	}
	if other == (Rectangle{}) {
		return r
	}
	return Rectangle{
		Left:   minf(r.Left, other.Left),
		Bottom: minf(r.Bottom, other.Bottom),
		Right:  maxf(r.Right, other.Right),
		Top:    maxf(r.Top, other.Top),
	}
}

// UnionAll returns the union bounding box of a sequence of rectangles, or
// the empty rectangle if boxes is empty.
func UnionAll(boxes []Rectangle) Rectangle {
	var acc Rectangle
	for _, b := range boxes {
		acc = acc.Union(b)
	}
	return acc
}

// Center returns the rectangle's geometric center.
func (r Rectangle) Center() (x, y float64) {
	return (r.Left + r.Right) / 2, (r.Bottom + r.Top) / 2
}

// String renders the rectangle for debugging.
func (r Rectangle) String() string {
	return fmt.Sprintf("(%g,%g)-(%g,%g)", r.Left, r.Bottom, r.Right, r.Top)
}

// Point is a 2-D point in page space.
type Point struct {
	X, Y float64
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
