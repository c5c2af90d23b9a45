package csops

import (
	"github.com/coregx/pdfredact/internal/csparse"
	"github.com/coregx/pdfredact/internal/csstate"
	"github.com/coregx/pdfredact/internal/geom"
)

// handleMoveTo implements `x y m`: starts a new subpath.
func (ip *Interpreter) handleMoveTo(op *csparse.Operator) {
	f := ip.floats(op)
	if len(f) != 2 {
		return
	}
	ip.flushSubpath()
	ip.subpathPos = geom.Point{X: f[0], Y: f[1]}
	ip.current = []geom.Point{ip.subpathPos}
}

// handleLineTo implements `x y l`.
func (ip *Interpreter) handleLineTo(op *csparse.Operator) {
	f := ip.floats(op)
	if len(f) != 2 {
		return
	}
	if len(ip.current) == 0 {
		ip.current = []geom.Point{ip.subpathPos}
	}
	ip.subpathPos = geom.Point{X: f[0], Y: f[1]}
	ip.current = append(ip.current, ip.subpathPos)
}

// handleCurve implements `c`, `v`, and `y`: a cubic Bézier segment from the
// current point, flattened by de Casteljau subdivision into a polyline.
// `v` omits the first control point (it equals the current point); `y`
// omits the second control point (it equals the endpoint).
func (ip *Interpreter) handleCurve(op *csparse.Operator, hasFirstControl, hasSecondControl bool) {
	f := ip.floats(op)
	want := 6
	if !hasFirstControl || !hasSecondControl {
		want = 4
	}
	if len(f) != want {
		return
	}

	p0 := ip.subpathPos
	var p1, p2, p3 geom.Point
	switch {
	case hasFirstControl && hasSecondControl: // c: x1 y1 x2 y2 x3 y3
		p1 = geom.Point{X: f[0], Y: f[1]}
		p2 = geom.Point{X: f[2], Y: f[3]}
		p3 = geom.Point{X: f[4], Y: f[5]}
	case !hasFirstControl: // v: x2 y2 x3 y3 (first control = current point)
		p1 = p0
		p2 = geom.Point{X: f[0], Y: f[1]}
		p3 = geom.Point{X: f[2], Y: f[3]}
	default: // y: x1 y1 x3 y3 (second control = endpoint)
		p1 = geom.Point{X: f[0], Y: f[1]}
		p3 = geom.Point{X: f[2], Y: f[3]}
		p2 = p3
	}

	if len(ip.current) == 0 {
		ip.current = []geom.Point{p0}
	}
	ip.current = append(ip.current, geom.FlattenCubicBezier(p0, p1, p2, p3)...)
	ip.subpathPos = p3
}

// handleRect implements `x y w h re`: a closed 4-point rectangle subpath.
func (ip *Interpreter) handleRect(op *csparse.Operator) {
	f := ip.floats(op)
	if len(f) != 4 {
		return
	}
	ip.flushSubpath()
	x, y, w, h := f[0], f[1], f[2], f[3]
	ip.current = []geom.Point{
		{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}, {X: x, Y: y},
	}
	ip.subpathPos = geom.Point{X: x, Y: y}
	ip.flushSubpath()
}

// closeSubpath implements `h`: close the current subpath back to its
// first vertex.
func (ip *Interpreter) closeSubpath() {
	if len(ip.current) == 0 {
		return
	}
	first := ip.current[0]
	if ip.current[len(ip.current)-1] != first {
		ip.current = append(ip.current, first)
	}
	ip.subpathPos = first
	ip.flushSubpath()
}

// flushSubpath moves the in-progress subpath into the completed list.
func (ip *Interpreter) flushSubpath() {
	if len(ip.current) >= 2 {
		ip.subpaths = append(ip.subpaths, ip.current)
	}
	ip.current = nil
}

// handlePaint implements the path-painting operators: it closes out any
// in-progress subpath, computes the CTM-transformed union bbox, emits a
// PathOp, and resets the path accumulator, per spec §4.4's "the
// corresponding painting operator closes the path into a PathOp carrying
// the union bbox."
func (ip *Interpreter) handlePaint(op *csparse.Operator) {
	ip.flushSubpath()
	subpaths := ip.subpaths
	ip.subpaths = nil
	ip.current = nil

	if len(subpaths) == 0 {
		ip.emitRaw(op, KindState)
		return
	}

	var boxes []geom.Rectangle
	for _, sp := range subpaths {
		boxes = append(boxes, pageSpaceBBox(sp, ip.state.CTM))
	}

	ip.ops = append(ip.ops, Operation{
		Kind:     KindPath,
		Position: op.Position,
		BBox:     geom.UnionAll(boxes),
		Path: &PathPaint{
			PaintOp:  op.Name,
			Subpaths: subpaths,
			CTM:      ip.state.CTM,
		},
	})
}

func pageSpaceBBox(subpath []geom.Point, ctm csstate.Matrix) geom.Rectangle {
	var box geom.Rectangle
	for i, p := range subpath {
		x, y := ctm.Transform(p.X, p.Y)
		if i == 0 {
			box = geom.NewRectangle(x, y, x, y)
		} else {
			box = box.Union(geom.NewRectangle(x, y, x, y))
		}
	}
	return box
}
