package redact

import (
	"fmt"

	"github.com/coregx/pdfredact/internal/csops"
	"github.com/coregx/pdfredact/internal/csparse"
	"github.com/coregx/pdfredact/internal/cswriter"
	"github.com/coregx/pdfredact/internal/geom"
)

// hiddenTextFontSizeThreshold is the effective point size below which
// redacted text is flagged in the audit trail as a likely hidden-text
// evasion attempt (font shrunk via Tm scale well past legibility while the
// nominal Tf operand looks ordinary).
const hiddenTextFontSizeThreshold = 1.0

// Action records one redaction performed while processing a page, for the
// caller-facing report.
type Action struct {
	Kind    string // "text", "path", "image"
	BBox    geom.Rectangle
	Details string
}

// Result is RedactPage's output: the replacement content-stream bytes, the
// actions taken, any replacement XObject image streams keyed by resource
// name, the verification outcome, and any non-fatal warnings collected
// along the way.
type Result struct {
	Content      []byte
	Actions      []Action
	Images       map[string]*ImageResult
	Verification *VerifyResult
	Warnings     []string
}

// RedactPage implements the top-level pipeline of spec §6: parse content,
// classify against rects, reconstruct/clip/repaint the intersecting
// operators, reserialize, and verify that no target term remains
// extractable inside a redaction rectangle.
func RedactPage(content []byte, fonts csops.FontTable, xobjects XObjectTable, rects []geom.Rectangle, terms []string) (*Result, error) {
	operators, _, err := csparse.New(content).ParseAll()
	if err != nil {
		return nil, newError(KindLex, "parse", err)
	}

	interp := csops.New(fonts)
	ops := interp.Run(operators)
	warnings := append([]string{}, interp.Warnings()...)

	class := Classify(ops, rects)

	inTextBlock := make(map[int]bool, len(ops))
	for _, span := range class.TextBlocks {
		for i := span.Start; i <= span.End; i++ {
			inTextBlock[i] = true
		}
	}

	var out []cswriter.RawOp
	var actions []Action
	images := map[string]*ImageResult{}

	for i, op := range ops {
		if inTextBlock[i] {
			continue
		}

		switch {
		case op.Kind == csops.KindPath && class.PathRedact[i]:
			out = append(out, ClipPath(op, rects)...)
			actions = append(actions, Action{Kind: "path", BBox: op.BBox})

		case op.Kind == csops.KindImage && class.ImageRedact[i]:
			result, inlineOp, ierr := RedactImage(op, rects, xobjects)
			if ierr != nil {
				// Drop rather than leak, per spec §4.10: an image we
				// cannot safely repaint is removed from the stream
				// entirely instead of being passed through unredacted.
				warnings = append(warnings, ierr.Error())
				actions = append(actions, Action{Kind: "image", BBox: op.BBox, Details: "dropped: " + ierr.Error()})
				continue
			}
			switch {
			case inlineOp != nil:
				out = append(out, *inlineOp)
			case result != nil:
				images[op.Image.XObjectName] = result
				out = append(out, cswriter.FromOperation(op)...)
			}
			actions = append(actions, Action{Kind: "image", BBox: op.BBox})

		default:
			out = append(out, cswriter.FromOperation(op)...)
		}
	}

	for _, span := range class.TextBlocks {
		out = append(out, ReconstructTextBlock(ops, span)...)
		details := ""
		if span.MinEffectiveFontSize > 0 && span.MinEffectiveFontSize < hiddenTextFontSizeThreshold {
			details = fmt.Sprintf("min effective font size %.2fpt: possible hidden-text evasion", span.MinEffectiveFontSize)
		}
		actions = append(actions, Action{Kind: "text", BBox: geom.UnionAll(span.Rects), Details: details})
	}

	replacement := cswriter.Write(out)

	verification, verr := Verify(replacement, fonts, terms, rects)
	if verr != nil {
		return nil, verr
	}

	return &Result{
		Content:      replacement,
		Actions:      actions,
		Images:       images,
		Verification: verification,
		Warnings:     warnings,
	}, nil
}
