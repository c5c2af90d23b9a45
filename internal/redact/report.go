package redact

import (
	"github.com/coregx/pdfredact/internal/csops"
	"github.com/coregx/pdfredact/internal/geom"
)

// PageCapability classifies a page's content for redaction planning,
// grounded on gopdfsuit's AnalyzePageCapabilities: a page with no
// TextShowOp can only be redacted by rectangle (no ToUnicode-backed term
// search is possible), which the CLI surfaces as a warning rather than
// the core refusing to run.
type PageCapability struct {
	Type     string // "text", "image_only", "mixed", "empty"
	HasText  bool
	HasImage bool
}

// ClassifyPage implements the page-capability analysis supplement:
// scanning the parsed operation list once for any TextShowOp / ImageOp.
func ClassifyPage(ops []csops.Operation) PageCapability {
	var pc PageCapability
	for _, op := range ops {
		switch op.Kind {
		case csops.KindTextShow:
			pc.HasText = true
		case csops.KindImage:
			pc.HasImage = true
		}
		if pc.HasText && pc.HasImage {
			break
		}
	}
	switch {
	case pc.HasText && pc.HasImage:
		pc.Type = "mixed"
	case pc.HasText:
		pc.Type = "text"
	case pc.HasImage:
		pc.Type = "image_only"
	default:
		pc.Type = "empty"
	}
	return pc
}

// RectTerm associates one redaction rectangle with the target term it was
// derived from, so a caller can report which term a given rectangle
// redacted without the core performing any text matching itself.
type RectTerm struct {
	Rect geom.Rectangle
	Term string
}

// Report is the core's structured return value alongside the rewritten
// bytes, echoing gopdfsuit's RedactionApplyReport shape adapted to
// content-level redaction: no encryption/OCR concepts, since those are
// out of this core's scope, but the same counts/warnings/capabilities
// triad.
type Report struct {
	Capability   PageCapability
	RectTerms    []RectTerm
	ActionCounts map[string]int // "text", "path", "image" -> count
	Verification *VerifyResult
	Warnings     []string
}

// BuildReport assembles a Report from a RedactPage Result and the
// rect-to-term associations the caller supplied, without re-deriving
// anything the core already knows.
func BuildReport(ops []csops.Operation, result *Result, rectTerms []RectTerm) *Report {
	counts := map[string]int{}
	for _, a := range result.Actions {
		counts[a.Kind]++
	}
	return &Report{
		Capability:   ClassifyPage(ops),
		RectTerms:    rectTerms,
		ActionCounts: counts,
		Verification: result.Verification,
		Warnings:     result.Warnings,
	}
}
