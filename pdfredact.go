// Package pdfredact implements true content-level redaction of PDF content
// streams: it tokenizes and parses a page's operator stream, tracks
// graphics and text state, identifies operators that intersect caller-
// supplied redaction rectangles, surgically rewrites or removes the
// intersecting text runs, path geometry, and image regions, and
// reserializes valid content-stream bytes.
//
// # Quick Start
//
//	result, err := pdfredact.RedactPage(content, fonts, xobjects, rects, terms)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Verification.Status)
//
// # Architecture
//
//   - Root package for the core API (pdfredact.RedactPage, RedactDocument)
//   - internal/cslex, internal/csparse: content-stream tokenizing/parsing
//   - internal/csstate, internal/csops: graphics/text state tracking
//   - internal/fontinfo: font dictionary resolution and string decoding
//   - internal/redact: classification, reconstruction, clipping, image
//     repainting, and verification
//   - internal/cswriter: content-stream reserialization
//   - cmd/pdfredact: CLI wrapper
//
// # Scope
//
// This package operates on an already-extracted page content stream and
// caller-supplied font/XObject tables; it does not parse PDF object
// structure, cross-reference tables, or encryption, and it does not
// perform any text search of its own — rectangles and target terms are
// supplied by the caller.
package pdfredact

import "github.com/coregx/pdfredact/internal/redact"

// Version is the current version of the pdfredact module.
const Version = "0.1.0-alpha"

// RedactionError is returned by RedactPage and RedactDocument on failure.
// Font-resolution, image-decode, and path-clip problems are reported as
// warnings and degrade gracefully instead of failing the page; only a
// content-stream parse failure, or a failure to re-parse the output during
// verification, surfaces as an error. A target term that remains
// extractable is reported in Result.Verification, not as an error.
type RedactionError = redact.RedactionError

// ErrVerificationFailed marks a target term that remains extractable
// inside a redaction rectangle after serialization. RedactPage reports
// that case through Result.Verification (StatusTermStillExtractable); the
// pdfredact CLI returns this error, wrapped, when any page ends that way.
var ErrVerificationFailed = redact.ErrVerificationFailed
