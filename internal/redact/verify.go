package redact

import (
	"strings"

	"github.com/coregx/pdfredact/internal/csops"
	"github.com/coregx/pdfredact/internal/csparse"
	"github.com/coregx/pdfredact/internal/geom"
)

// VerifyStatus is the outcome of re-running redacted content through the
// extraction pipeline, per spec §4.11.
type VerifyStatus string

const (
	StatusVerified             VerifyStatus = "verified"
	StatusNoRedactionsRequested VerifyStatus = "no-redactions-requested"
	StatusTermStillExtractable VerifyStatus = "term-still-extractable"
)

// Failure records one target term a verification pass still found inside a
// redaction rectangle.
type Failure struct {
	Term string
	BBox geom.Rectangle
}

// VerifyResult is C11's output.
type VerifyResult struct {
	Status   VerifyStatus
	Failures []Failure
}

// Verify implements C11 (spec §4.11): re-parses the redacted content
// stream with the same font table and confirms that no target term's
// decoded text appears in a TextShowOp whose bbox intersects a redaction
// rectangle. An empty rects list means nothing was asked to be redacted,
// which is reported distinctly from a clean pass.
func Verify(content []byte, fonts csops.FontTable, terms []string, rects []geom.Rectangle) (*VerifyResult, error) {
	if len(rects) == 0 {
		return &VerifyResult{Status: StatusNoRedactionsRequested}, nil
	}

	operators, _, err := csparse.New(content).ParseAll()
	if err != nil {
		return nil, newError(KindVerify, "reparse", err)
	}

	ops := csops.New(fonts).Run(operators)

	var failures []Failure
	for _, op := range ops {
		if op.Kind != csops.KindTextShow || op.Show == nil {
			continue
		}
		var hitRect geom.Rectangle
		intersects := false
		for _, r := range rects {
			if op.BBox.Intersects(r) {
				hitRect = r
				intersects = true
				break
			}
		}
		if !intersects {
			continue
		}
		for _, term := range terms {
			if term == "" {
				continue
			}
			if strings.Contains(op.Show.Text, term) {
				failures = append(failures, Failure{Term: term, BBox: hitRect})
			}
		}
	}

	if len(failures) > 0 {
		return &VerifyResult{Status: StatusTermStillExtractable, Failures: failures}, nil
	}
	return &VerifyResult{Status: StatusVerified}, nil
}
