package redact

import (
	"github.com/coregx/pdfredact/internal/csops"
	"github.com/coregx/pdfredact/internal/geom"
)

// TextBlockSpan is a BT…ET range of the operation list that the glyph
// remover must reconstruct because at least one TextShowOp inside it
// intersects a redaction rectangle, per spec §4.5.
type TextBlockSpan struct {
	Start, End int // indices into the Operation slice, inclusive; Start is BT, End is ET
	Rects      []geom.Rectangle

	// MinEffectiveFontSize is the smallest TextShow.EffectiveFontSize among
	// the show operators that actually triggered this span's redaction
	// (RawFontSize scaled by the text matrix's vertical component, per
	// csstate.State.EffectiveFontSize). A `Tf 12 Tf` under a `1 0 0 0.02 0 0
	// Tm` renders at 0.24pt despite the nominal 12pt Tf operand — reporting
	// the raw size alone would make that evasion attempt look like an
	// ordinary redaction in the audit trail.
	MinEffectiveFontSize float64
}

// Classification is the output of Classify: which text blocks need full
// reconstruction and which individual path/image operations intersect a
// redaction rectangle.
type Classification struct {
	TextBlocks  []TextBlockSpan
	PathRedact  map[int]bool
	ImageRedact map[int]bool
}

// Classify walks ops once, pairing BT/ET and flagging a block the moment
// any TextShowOp inside it intersects a rectangle, per spec §4.5's
// rationale that one redacted glyph forces reconstruction of the whole
// block (later text-state operators in the block depend on earlier ones).
func Classify(ops []csops.Operation, rects []geom.Rectangle) *Classification {
	c := &Classification{PathRedact: map[int]bool{}, ImageRedact: map[int]bool{}}
	if len(rects) == 0 {
		return c
	}

	blockStart := -1
	hasRedacted := false
	var blockRects []geom.Rectangle
	minEffectiveFontSize := 0.0

	for i, op := range ops {
		switch op.Kind {
		case csops.KindTextState:
			if op.Raw == nil {
				continue
			}
			switch op.Raw.Name {
			case "BT":
				blockStart = i
				hasRedacted = false
				blockRects = nil
				minEffectiveFontSize = 0
			case "ET":
				if blockStart >= 0 && hasRedacted {
					c.TextBlocks = append(c.TextBlocks, TextBlockSpan{
						Start: blockStart, End: i, Rects: blockRects,
						MinEffectiveFontSize: minEffectiveFontSize,
					})
				}
				blockStart = -1
			}

		case csops.KindTextShow:
			if blockStart < 0 {
				continue
			}
			for _, r := range rects {
				if op.BBox.Intersects(r) {
					if op.Show != nil {
						size := op.Show.EffectiveFontSize
						if !hasRedacted || size < minEffectiveFontSize {
							minEffectiveFontSize = size
						}
					}
					hasRedacted = true
					blockRects = appendRectIfNew(blockRects, r)
				}
			}

		case csops.KindPath:
			for _, r := range rects {
				if op.BBox.Intersects(r) {
					c.PathRedact[i] = true
					break
				}
			}

		case csops.KindImage:
			for _, r := range rects {
				if op.BBox.Intersects(r) {
					c.ImageRedact[i] = true
					break
				}
			}
		}
	}
	return c
}

func appendRectIfNew(rects []geom.Rectangle, r geom.Rectangle) []geom.Rectangle {
	for _, existing := range rects {
		if existing == r {
			return rects
		}
	}
	return append(rects, r)
}
