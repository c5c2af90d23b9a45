package pdfredact

import (
	"fmt"

	"github.com/coregx/pdfredact/internal/csops"
	"github.com/coregx/pdfredact/internal/geom"
	"github.com/coregx/pdfredact/internal/redact"
)

// FontTable maps a page's resource font names to the decoded information
// the redaction engine needs; callers build it from the page's
// /Resources /Font dictionary.
type FontTable = csops.FontTable

// XObjectTable maps a page's resource XObject names to their image info;
// callers build it from the page's /Resources /XObject dictionary.
type XObjectTable = redact.XObjectTable

// Result is the outcome of redacting one page's content stream.
type Result = redact.Result

// PageInput is one page's redaction request: its content-stream bytes,
// the font and image resources referenced from it, the rectangles to
// redact, and the target terms the verifier should confirm are gone.
type PageInput struct {
	Number   int // 1-based, for reporting only
	Content  []byte
	Fonts    FontTable
	XObjects XObjectTable
	Rects    []geom.Rectangle
	Terms    []string
}

// PageResult pairs one PageInput's Number with its outcome. Err is set
// when the page's content stream failed to parse or verification could
// not be completed; Result is nil in that case.
type PageResult struct {
	Number int
	Result *Result
	Err    error
}

// DocumentResult is RedactDocument's output: one PageResult per input
// page, in input order.
type DocumentResult struct {
	Pages []PageResult
}

// RedactPage redacts one page's content stream, per spec §6: it classifies
// which operators intersect rects, reconstructs surviving text and path
// geometry, repaints intersecting image regions, reserializes the result,
// and verifies that no term in terms remains extractable inside a
// redaction rectangle.
func RedactPage(content []byte, fonts FontTable, xobjects XObjectTable, rects []geom.Rectangle, terms []string) (*Result, error) {
	return redact.RedactPage(content, fonts, xobjects, rects, terms)
}

// RedactDocument runs RedactPage over every page in pages, per the
// options given. A page whose content stream fails to parse or whose
// verification pass errors is recorded in its PageResult.Err; it does not
// abort the remaining pages, since spec §4.10 treats per-page failure as
// independent of document-level progress.
func RedactDocument(pages []PageInput, opts *Options) (*DocumentResult, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	doc := &DocumentResult{Pages: make([]PageResult, 0, len(pages))}
	for _, p := range pages {
		result, err := RedactPage(p.Content, p.Fonts, p.XObjects, p.Rects, p.Terms)
		if err != nil {
			doc.Pages = append(doc.Pages, PageResult{Number: p.Number, Err: fmt.Errorf("page %d: %w", p.Number, err)})
			if opts.StopOnError {
				return doc, fmt.Errorf("pdfredact: page %d: %w", p.Number, err)
			}
			continue
		}
		doc.Pages = append(doc.Pages, PageResult{Number: p.Number, Result: result})
	}
	return doc, nil
}
