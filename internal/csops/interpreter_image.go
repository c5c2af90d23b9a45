package csops

import (
	"github.com/coregx/pdfredact/internal/cslex"
	"github.com/coregx/pdfredact/internal/csparse"
	"github.com/coregx/pdfredact/internal/geom"
)

// unitSquareCorners are the corners of the image unit square every XObject
// image and inline image is painted into, per PDF's image space convention
// (Section 8.9.5): the image occupies (0,0)-(1,1) before the CTM maps it
// onto the page.
var unitSquareCorners = [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// handleDo implements `/Name Do`: only XObject references that turn out to
// be images matter to redaction, but the classifier (not the interpreter)
// is the one that knows the page's XObject subtype table, so every Do is
// emitted as an ImageOp candidate and non-image XObjects are filtered
// downstream.
func (ip *Interpreter) handleDo(op *csparse.Operator) {
	if len(op.Operands) != 1 {
		ip.warn("csops: Do expects 1 operand, got %d", len(op.Operands))
		ip.emitRaw(op, KindState)
		return
	}
	name, ok := op.Operands[0].(*cslex.Name)
	if !ok {
		ip.warn("csops: Do operand is not a name")
		ip.emitRaw(op, KindState)
		return
	}

	ip.ops = append(ip.ops, Operation{
		Kind:     KindImage,
		Position: op.Position,
		BBox:     ip.unitSquareBBox(),
		Image:    &ImageShow{XObjectName: name.Value(), CTM: ip.state.CTM},
	})
}

// handleInlineImage implements `BI … ID … EI`, carrying the parameter
// dictionary and raw sample bytes straight through to the image redactor.
func (ip *Interpreter) handleInlineImage(op *csparse.Operator) {
	if len(op.Operands) != 2 {
		ip.warn("csops: BI expects 2 operands, got %d", len(op.Operands))
		ip.emitRaw(op, KindState)
		return
	}
	dict, ok1 := op.Operands[0].(*cslex.Dictionary)
	raw, ok2 := op.Operands[1].(*cslex.String)
	if !ok1 || !ok2 {
		ip.warn("csops: BI operands have unexpected types")
		ip.emitRaw(op, KindState)
		return
	}

	ip.ops = append(ip.ops, Operation{
		Kind:     KindImage,
		Position: op.Position,
		BBox:     ip.unitSquareBBox(),
		Image: &ImageShow{
			IsInline:   true,
			InlineDict: dict,
			InlineRaw:  raw.Bytes(),
			CTM:        ip.state.CTM,
		},
	})
}

func (ip *Interpreter) unitSquareBBox() geom.Rectangle {
	var box geom.Rectangle
	for i, c := range unitSquareCorners {
		x, y := ip.state.CTM.Transform(c[0], c[1])
		if i == 0 {
			box = geom.NewRectangle(x, y, x, y)
		} else {
			box = box.Union(geom.NewRectangle(x, y, x, y))
		}
	}
	return box
}
