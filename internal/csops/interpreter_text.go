package csops

import (
	"unicode"

	"github.com/coregx/pdfredact/internal/cslex"
	"github.com/coregx/pdfredact/internal/csparse"
	"github.com/coregx/pdfredact/internal/csstate"
	"github.com/coregx/pdfredact/internal/fontinfo"
	"github.com/coregx/pdfredact/internal/geom"
)

// unknownFont is substituted for a Tf name with no matching /Resources
// /Font entry, so a show operator with a missing font table lookup still
// decodes as best-effort Windows-1252 rather than aborting the page.
var unknownFont = &fontinfo.Info{}

// handleShow implements the text-showing operators Tj, TJ, ' and ", per
// spec §4.4. It decodes every string operand through the current font,
// lays out one Glyph per decoded character using the width_factor
// approximation (no real glyph metrics are available), and advances the
// text matrix by the total text-space width consumed.
func (ip *Interpreter) handleShow(op *csparse.Operator) {
	fi := ip.fonts[ip.state.FontName]
	if fi == nil {
		ip.warn("csops: %s: no font resource %q, decoding as Windows-1252", op.Name, ip.state.FontName)
		fi = unknownFont
	}

	show := &TextShow{
		Operator:          op.Name,
		FontName:          ip.state.FontName,
		RawFontSize:       ip.state.FontSize,
		EffectiveFontSize: ip.state.EffectiveFontSize(),
		IsCIDFont:         fi.IsCID,
		StartMatrix:       ip.state.TextMatrix,
		StartRise:         ip.state.Rise,
	}

	switch op.Name {
	case "'":
		if len(op.Operands) != 1 {
			ip.warn("csops: ' expects 1 operand, got %d", len(op.Operands))
			return
		}
		ip.state.NextLine()
		show.StartMatrix = ip.state.TextMatrix
		ip.appendRun(show, op.Operands[0], 0)

	case "\"":
		if len(op.Operands) != 3 {
			ip.warn("csops: \" expects 3 operands, got %d", len(op.Operands))
			return
		}
		wordSpace, ok1 := numberValue(op.Operands[0])
		charSpace, ok2 := numberValue(op.Operands[1])
		if !ok1 || !ok2 {
			ip.warn("csops: \" spacing operands are not numeric")
			return
		}
		ip.state.WordSpace = wordSpace
		ip.state.CharSpace = charSpace
		show.SetWordSpace, show.SetCharSpace, show.HasSpacingOverride = wordSpace, charSpace, true
		ip.state.NextLine()
		show.StartMatrix = ip.state.TextMatrix
		ip.appendRun(show, op.Operands[2], 0)

	case "Tj":
		if len(op.Operands) != 1 {
			ip.warn("csops: Tj expects 1 operand, got %d", len(op.Operands))
			return
		}
		ip.appendRun(show, op.Operands[0], 0)

	case "TJ":
		if len(op.Operands) != 1 {
			ip.warn("csops: TJ expects 1 operand, got %d", len(op.Operands))
			return
		}
		arr, ok := op.Operands[0].(*cslex.Array)
		if !ok {
			ip.warn("csops: TJ operand is not an array")
			return
		}
		for i, elem := range arr.Elements() {
			switch e := elem.(type) {
			case *cslex.String:
				ip.appendRun(show, e, i)
			case *cslex.Integer, *cslex.Real:
				v, _ := numberValue(e)
				show.Adjustments = append(show.Adjustments, Adjustment{ArrayIndex: i, Value: v})
				ip.applyTJAdjustment(show, v)
			default:
				ip.warn("csops: TJ array element %d has unexpected type", i)
			}
		}
	}

	ip.state.AdvanceText(show.cursor)

	ip.ops = append(ip.ops, Operation{
		Kind:     KindTextShow,
		Position: op.Position,
		BBox:     glyphsBBox(show.Glyphs),
		Show:     show,
	})
}

// appendRun decodes one string operand into a Run plus per-glyph layout,
// appending both to show and advancing the cursor state that tracks
// position across TJ's interleaved runs.
func (ip *Interpreter) appendRun(show *TextShow, obj cslex.PdfObject, arrayIndex int) {
	str, ok := obj.(*cslex.String)
	if !ok {
		ip.warn("csops: %s run is not a string", show.Operator)
		return
	}

	runIndex := len(show.Runs)
	show.Runs = append(show.Runs, Run{RawBytes: str.Bytes(), WasHex: str.IsHex(), ArrayIndex: arrayIndex})

	fi := ip.fonts[ip.state.FontName]
	if fi == nil {
		fi = unknownFont
	}
	step := fi.BytesPerChar()
	raw := str.Bytes()

	trm := ip.state.TextMatrix.Multiply(ip.state.CTM)
	horizFrac := ip.state.HorizScale / 100

	for i := 0; i+step <= len(raw); i += step {
		code := raw[i : i+step]
		text, err := fontinfo.DecodeString(fi, code)
		if err != nil {
			ip.warn("csops: decode glyph at run %d offset %d: %v", runIndex, i, err)
			text = string(unicode.ReplacementChar)
		}

		widthFactor := widthFactorDefault
		if r := firstRune(text); r != 0 && isFullWidthRune(r) {
			widthFactor = widthFactorFullWidth
		}
		glyphWidth := ip.state.FontSize*widthFactor*horizFrac + ip.state.CharSpace
		if step == 1 && len(code) == 1 && code[0] == ' ' {
			glyphWidth += ip.state.WordSpace
		}

		x0 := show.cursor
		glyph := Glyph{
			Unicode:    text,
			BBox:       localGlyphBBox(trm, x0, glyphWidth, ip.state.Rise, ip.state.FontSize),
			RunIndex:   runIndex,
			ByteOffset: i,
			ByteLen:    step,
			WasHex:     str.IsHex(),
			LocalX:     x0,
			LocalWidth: glyphWidth,
		}
		if fi.IsCID {
			var cid uint32
			for j := 0; j < step; j++ {
				cid = cid<<8 | uint32(code[j])
			}
			glyph.CID, glyph.IsCID = cid, true
		}
		show.Glyphs = append(show.Glyphs, glyph)
		show.cursor += glyphWidth
		show.Text += text
	}
}

// applyTJAdjustment implements the TJ numeric-adjustment rule of spec §4.4:
// a positive array value moves the next glyph to the LEFT (text reads
// right-to-left-ish in horizontal mode) by value/1000 of the font size.
func (ip *Interpreter) applyTJAdjustment(show *TextShow, value float64) {
	show.cursor -= value / 1000 * ip.state.FontSize * (ip.state.HorizScale / 100)
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

// isFullWidthRune reports whether r belongs to a CJK or fullwidth-forms
// block, used to pick the 1.0 width_factor instead of the 0.6 default when
// no real glyph metrics are available, per spec §4.4.
func isFullWidthRune(r rune) bool {
	return unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) || unicode.Is(unicode.Hangul, r) ||
		(r >= 0xFF00 && r <= 0xFFEF)
}

// localGlyphBBox builds a glyph's axis-aligned bounding box in page space
// by transforming its text-space corners (cursor x0..x0+width, baseline
// rise..rise+fontSize) through trm, the composed text-matrix/CTM.
func localGlyphBBox(trm csstate.Matrix, x0, width, rise, fontSize float64) geom.Rectangle {
	corners := [4][2]float64{
		{x0, rise},
		{x0 + width, rise},
		{x0 + width, rise + fontSize},
		{x0, rise + fontSize},
	}
	var box geom.Rectangle
	for i, c := range corners {
		px, py := trm.Transform(c[0], c[1])
		if i == 0 {
			box = geom.NewRectangle(px, py, px, py)
		} else {
			box = box.Union(geom.NewRectangle(px, py, px, py))
		}
	}
	return box
}

func glyphsBBox(glyphs []Glyph) geom.Rectangle {
	var box geom.Rectangle
	for i, g := range glyphs {
		if i == 0 {
			box = g.BBox
		} else {
			box = box.Union(g.BBox)
		}
	}
	return box
}
