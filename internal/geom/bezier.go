package geom

import "math"

// FlattenCubicBezier approximates the cubic Bézier curve from p0 through
// control points p1, p2 to endpoint p3 as a polyline, using recursive de
// Casteljau subdivision to a fixed maximum depth, per spec §4.7: "Bézier
// segments are approximated by recursive de Casteljau subdivision with a
// flatness tolerance of 1.0 point and a max depth of 4." The returned
// slice excludes p0 (the caller already has it as the current point) and
// includes p3 as its last element.
func FlattenCubicBezier(p0, p1, p2, p3 Point) []Point {
	const maxDepth = 4
	const flatness = 1.0

	var out []Point
	subdivide(p0, p1, p2, p3, maxDepth, flatness, &out)
	return out
}

func subdivide(p0, p1, p2, p3 Point, depth int, flatness float64, out *[]Point) {
	if depth == 0 || isFlatEnough(p0, p1, p2, p3, flatness) {
		*out = append(*out, p3)
		return
	}

	// de Casteljau midpoint split.
	p01 := mid(p0, p1)
	p12 := mid(p1, p2)
	p23 := mid(p2, p3)
	p012 := mid(p01, p12)
	p123 := mid(p12, p23)
	p0123 := mid(p012, p123)

	subdivide(p0, p01, p012, p0123, depth-1, flatness, out)
	subdivide(p0123, p123, p23, p3, depth-1, flatness, out)
}

func mid(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// isFlatEnough estimates flatness as the maximum perpendicular distance of
// the two control points from the chord p0-p3.
func isFlatEnough(p0, p1, p2, p3 Point, tolerance float64) bool {
	d1 := pointLineDistance(p1, p0, p3)
	d2 := pointLineDistance(p2, p0, p3)
	return d1 <= tolerance && d2 <= tolerance
}

func pointLineDistance(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq < 1e-12 {
		hx, hy := p.X-a.X, p.Y-a.Y
		return math.Sqrt(hx*hx + hy*hy)
	}
	// Cross-product magnitude / segment length = perpendicular distance.
	cross := (p.X-a.X)*dy - (p.Y-a.Y)*dx
	if cross < 0 {
		cross = -cross
	}
	return cross / math.Sqrt(lenSq)
}
