package redact

import (
	"github.com/coregx/pdfredact/internal/cslex"
	"github.com/coregx/pdfredact/internal/csops"
	"github.com/coregx/pdfredact/internal/csstate"
	"github.com/coregx/pdfredact/internal/cswriter"
	"github.com/coregx/pdfredact/internal/geom"
)

// blockStateNames are the text-state operators (not positioning operators)
// re-emitted verbatim at the head of a reconstructed block, per spec §4.6:
// "Re-emit the original block-opening state (Tf, Tc, Tw, Tz, TL, Tr, Ts) as
// needed."
var blockStateNames = []string{"Tf", "Tc", "Tw", "Tz", "TL", "Tr", "Ts"}

// ReconstructTextBlock rebuilds one BT…ET span after glyph removal,
// returning the replacement RawOps (including the BT/ET bracket) to splice
// in place of the original span, per spec §4.6.
func ReconstructTextBlock(ops []csops.Operation, span TextBlockSpan) []cswriter.RawOp {
	pos := ops[span.Start].Position

	state := make(map[string]csops.Operation, len(blockStateNames))
	for i := span.Start; i <= span.End; i++ {
		op := ops[i]
		if op.Kind != csops.KindTextState || op.Raw == nil {
			continue
		}
		for _, name := range blockStateNames {
			if op.Raw.Name == name {
				state[name] = op
			}
		}
	}

	out := []cswriter.RawOp{{Name: "BT", Position: pos}}
	for _, name := range blockStateNames {
		if op, ok := state[name]; ok {
			out = append(out, cswriter.RawOp{Name: op.Raw.Name, Operands: op.Raw.Operands, Position: pos})
		}
	}

	for i := span.Start; i <= span.End; i++ {
		if ops[i].Kind != csops.KindTextShow {
			continue
		}
		out = append(out, reconstructShow(ops[i], span.Rects, pos)...)
	}

	out = append(out, cswriter.RawOp{Name: "ET", Position: pos})
	return out
}

type textSegment struct {
	startLocalX, startRise float64
	bytes                  []byte
}

// reconstructShow splits one TextShowOp's glyphs at redacted-glyph
// boundaries into maximal surviving segments, per spec §4.6 steps 1-2, and
// emits one Tm + Tj pair per surviving segment (step 3). Intra-segment TJ
// numeric adjustments are not reproduced individually: the segment's own
// surviving glyph bytes are concatenated into a single string, which is a
// documented simplification of the reconstruction rule.
func reconstructShow(op csops.Operation, rects []geom.Rectangle, pos int) []cswriter.RawOp {
	show := op.Show
	if show == nil || len(show.Glyphs) == 0 {
		return nil
	}

	var segments []textSegment
	var cur *textSegment
	for _, g := range show.Glyphs {
		if glyphRedacted(g, rects) {
			cur = nil
			continue
		}
		if cur == nil {
			segments = append(segments, textSegment{startLocalX: g.LocalX, startRise: show.StartRise})
			cur = &segments[len(segments)-1]
		}
		run := show.Runs[g.RunIndex]
		cur.bytes = append(cur.bytes, run.RawBytes[g.ByteOffset:g.ByteOffset+g.ByteLen]...)
	}

	var out []cswriter.RawOp
	for _, seg := range segments {
		tm := csstate.Translation(seg.startLocalX, seg.startRise).Multiply(show.StartMatrix)
		out = append(out, cswriter.RawOp{Name: "Tm", Operands: matrixOperands(tm), Position: pos})
		out = append(out, cswriter.RawOp{
			Name:     "Tj",
			Operands: []cslex.PdfObject{stringOperand(seg.bytes, show.IsCIDFont)},
			Position: pos,
		})
	}
	return out
}

// glyphRedacted implements spec §4.6 step 1's policy: a glyph is redacted
// if its bbox center lies inside any redaction rectangle, ties resolved as
// inside (geom.Rectangle.ContainsPoint is inclusive of the boundary).
func glyphRedacted(g csops.Glyph, rects []geom.Rectangle) bool {
	cx, cy := g.BBox.Center()
	for _, r := range rects {
		if r.ContainsPoint(cx, cy) {
			return true
		}
	}
	return false
}

// stringOperand implements spec §4.6 step 4: CID glyph bytes are always
// hex; non-CID bytes are literal unless they contain a non-printable byte.
func stringOperand(b []byte, isCID bool) *cslex.String {
	if isCID || !allPrintable(b) {
		return cslex.NewHexString(string(b))
	}
	return cslex.NewStringBytes(b)
}

func allPrintable(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c > 0x7E {
			return false
		}
	}
	return true
}

func matrixOperands(m csstate.Matrix) []cslex.PdfObject {
	return []cslex.PdfObject{
		cslex.NewReal(m.A), cslex.NewReal(m.B), cslex.NewReal(m.C),
		cslex.NewReal(m.D), cslex.NewReal(m.E), cslex.NewReal(m.F),
	}
}
