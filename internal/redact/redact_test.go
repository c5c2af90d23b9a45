package redact_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/pdfredact/internal/csops"
	"github.com/coregx/pdfredact/internal/csparse"
	"github.com/coregx/pdfredact/internal/fontinfo"
	"github.com/coregx/pdfredact/internal/geom"
	"github.com/coregx/pdfredact/internal/redact"
)

// simpleFonts builds a one-font table (a non-CID Western font with no
// ToUnicode CMap, decoding falls back to Windows-1252) for the scenarios
// below, keyed both with and without the leading slash per spec §3.
func simpleFonts() csops.FontTable {
	fi := &fontinfo.Info{Name: "F1", Subtype: "Type1", BaseFont: "Helvetica"}
	return csops.FontTable{"F1": fi, "/F1": fi}
}

// decodedText re-parses content through the interpreter and concatenates
// every TextShowOp's decoded text, the same way the CLI's own verifier
// re-extracts text to confirm a term's presence or absence.
func decodedText(t *testing.T, content []byte, fonts csops.FontTable) string {
	t.Helper()
	operators, _, err := csparse.New(content).ParseAll()
	require.NoError(t, err)
	ops := csops.New(fonts).Run(operators)

	var b strings.Builder
	for _, op := range ops {
		if op.Kind == csops.KindTextShow && op.Show != nil {
			b.WriteString(op.Show.Text)
		}
	}
	return b.String()
}

// S1: "BT /F1 12 Tf 100 700 Td (Hello World) Tj ET", redacting only the
// glyphs of "World", keeps "Hello" extractable and removes "World".
func TestRedactPage_S1_PartialTextRedaction(t *testing.T) {
	content := []byte("BT /F1 12 Tf 100 700 Td (Hello World) Tj ET")
	fonts := simpleFonts()

	// "Hello World" at 12pt, width_factor 0.6/char: each glyph advances
	// 12*0.6 = 7.2pt starting at x=100. "World" starts at index 6 ('W'),
	// so its glyphs begin at 100 + 6*7.2 = 143.2 and run to the string end.
	rect := geom.NewRectangle(140, 699, 300, 713)

	result, err := redact.RedactPage(content, fonts, nil, []geom.Rectangle{rect}, []string{"World"})
	require.NoError(t, err)
	require.NotNil(t, result)

	text := decodedText(t, result.Content, fonts)
	assert.Contains(t, text, "Hello")
	assert.NotContains(t, text, "World")
	assert.Equal(t, redact.StatusVerified, result.Verification.Status)
}

// S2: a redaction rectangle covering the entire string removes it
// completely, including any sub-digit of an SSN-shaped string.
func TestRedactPage_S2_FullStringRedaction(t *testing.T) {
	content := []byte("BT /F1 12 Tf 100 700 Td (123-45-6789) Tj ET")
	fonts := simpleFonts()
	rect := geom.NewRectangle(50, 690, 300, 720)

	result, err := redact.RedactPage(content, fonts, nil, []geom.Rectangle{rect}, []string{"123-45-6789"})
	require.NoError(t, err)

	text := decodedText(t, result.Content, fonts)
	assert.NotContains(t, text, "123-45-6789")
	assert.NotContains(t, text, "45")
	assert.Equal(t, redact.StatusVerified, result.Verification.Status)
}

// S3: "[(AB) -100 (CD)] TJ" with a rectangle over "B" only should leave
// "ACD" extractable (exact spacing need not match) and verify clean for "B".
func TestRedactPage_S3_TJArrayPartialRedaction(t *testing.T) {
	content := []byte("BT /F1 12 Tf 100 700 Td [(AB) -100 (CD)] TJ ET")
	fonts := simpleFonts()
	// 'B' is the second glyph of the first run: x in [107.2, 114.4].
	rect := geom.NewRectangle(106, 699, 115, 713)

	result, err := redact.RedactPage(content, fonts, nil, []geom.Rectangle{rect}, []string{"B"})
	require.NoError(t, err)

	text := decodedText(t, result.Content, fonts)
	assert.Equal(t, "ACD", text)
	assert.Equal(t, redact.StatusVerified, result.Verification.Status)
}

// S4: a single filled rectangle `100 200 50 30 re f`, with a redaction box
// over its right half, should leave a filled polygon covering the left
// half only.
func TestRedactPage_S4_PathClipRectangle(t *testing.T) {
	content := []byte("100 200 50 30 re f")
	rect := geom.NewRectangle(125, 190, 160, 240) // right half + margin

	result, err := redact.RedactPage(content, nil, nil, []geom.Rectangle{rect}, nil)
	require.NoError(t, err)

	operators, _, err := csparse.New(result.Content).ParseAll()
	require.NoError(t, err)
	ops := csops.New(nil).Run(operators)

	var minX, minY, maxX, maxY float64
	found := false
	for _, op := range ops {
		if op.Kind == csops.KindPath && op.Path != nil && op.Path.PaintOp == "f" {
			for _, sp := range op.Path.Subpaths {
				for _, p := range sp {
					if !found {
						minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
						found = true
						continue
					}
					if p.X < minX {
						minX = p.X
					}
					if p.X > maxX {
						maxX = p.X
					}
					if p.Y < minY {
						minY = p.Y
					}
					if p.Y > maxY {
						maxY = p.Y
					}
				}
			}
		}
	}
	require.True(t, found, "expected a surviving fill operator")
	assert.InDelta(t, 100, minX, 0.01)
	assert.InDelta(t, 200, minY, 0.01)
	assert.InDelta(t, 125, maxX, 0.01)
	assert.InDelta(t, 230, maxY, 0.01)
}

// S5: a stroked rectangle fully covered by the redaction box under a 2x
// scale CTM leaves no stroke operator whose transformed bbox intersects
// the box.
func TestRedactPage_S5_FullyCoveredStrokeDropped(t *testing.T) {
	content := []byte("q 2 0 0 2 0 0 cm 50 50 25 25 re S Q")
	// User-space rect (50,50)-(75,75) maps to device (100,100)-(150,150).
	rect := geom.NewRectangle(90, 90, 160, 160)

	result, err := redact.RedactPage(content, nil, nil, []geom.Rectangle{rect}, nil)
	require.NoError(t, err)

	operators, _, err := csparse.New(result.Content).ParseAll()
	require.NoError(t, err)
	ops := csops.New(nil).Run(operators)

	for _, op := range ops {
		if op.Kind == csops.KindPath && op.Path != nil && op.Path.PaintOp == "S" {
			t.Fatalf("unexpected surviving stroke operator with bbox %v", op.BBox)
		}
	}

	// q/Q balance is preserved even though the path between them was
	// entirely redacted.
	qCount, bigQCount := 0, 0
	for _, op := range ops {
		if op.Kind == csops.KindState && op.Raw != nil {
			switch op.Raw.Name {
			case "q":
				qCount++
			case "Q":
				bigQCount++
			}
		}
	}
	assert.Equal(t, 1, qCount)
	assert.Equal(t, 1, bigQCount)
}

// Empty content stream: no rectangles requested produces an unchanged
// (empty) output and a distinct "no redactions requested" verification.
func TestRedactPage_EmptyContentNoRedactions(t *testing.T) {
	result, err := redact.RedactPage([]byte(""), nil, nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Content)
	assert.Equal(t, redact.StatusNoRedactionsRequested, result.Verification.Status)
}

// Idempotence (invariant 7): redacting an already-redacted output with the
// same rectangles stays verified and does not grow the operator count.
func TestRedactPage_Idempotent(t *testing.T) {
	content := []byte("BT /F1 12 Tf 100 700 Td (Hello World) Tj ET")
	fonts := simpleFonts()
	rect := geom.NewRectangle(140, 699, 300, 713)

	first, err := redact.RedactPage(content, fonts, nil, []geom.Rectangle{rect}, []string{"World"})
	require.NoError(t, err)

	second, err := redact.RedactPage(first.Content, fonts, nil, []geom.Rectangle{rect}, []string{"World"})
	require.NoError(t, err)

	assert.Equal(t, redact.StatusVerified, second.Verification.Status)

	firstOps, _, err := csparse.New(first.Content).ParseAll()
	require.NoError(t, err)
	secondOps, _, err := csparse.New(second.Content).ParseAll()
	require.NoError(t, err)
	assert.LessOrEqual(t, len(secondOps), len(firstOps))
}

// A redacted text block rendered at a near-invisible effective font size
// (nominal 12pt Tf shrunk to 0.24pt by Tm's vertical scale) is flagged in
// the audit Action's Details as a likely hidden-text evasion attempt.
func TestRedactPage_FlagsShrunkTmAsHiddenTextEvasion(t *testing.T) {
	content := []byte("BT /F1 12 Tf 1 0 0 0.02 0 0 Tm 100 700 Td (Secret) Tj ET")
	fonts := simpleFonts()
	rect := geom.NewRectangle(0, 0, 1000, 1000)

	result, err := redact.RedactPage(content, fonts, nil, []geom.Rectangle{rect}, []string{"Secret"})
	require.NoError(t, err)

	var textAction *redact.Action
	for i := range result.Actions {
		if result.Actions[i].Kind == "text" {
			textAction = &result.Actions[i]
		}
	}
	require.NotNil(t, textAction, "expected a text redaction action")
	assert.Contains(t, textAction.Details, "hidden-text evasion")
}

// An ordinary-size redacted text block (no Tm shrinkage) gets no
// hidden-text flag in its Details.
func TestRedactPage_OrdinaryFontSizeNotFlagged(t *testing.T) {
	content := []byte("BT /F1 12 Tf 100 700 Td (Secret) Tj ET")
	fonts := simpleFonts()
	rect := geom.NewRectangle(0, 0, 1000, 1000)

	result, err := redact.RedactPage(content, fonts, nil, []geom.Rectangle{rect}, []string{"Secret"})
	require.NoError(t, err)

	var textAction *redact.Action
	for i := range result.Actions {
		if result.Actions[i].Kind == "text" {
			textAction = &result.Actions[i]
		}
	}
	require.NotNil(t, textAction, "expected a text redaction action")
	assert.Empty(t, textAction.Details)
}

// Font presence (invariant 4): every BT in the output is followed by a Tf
// before the first show-text operator, even when the original block's own
// Tf fell inside a now-redacted position.
func TestRedactPage_FontPresenceInvariant(t *testing.T) {
	content := []byte("BT /F1 12 Tf 100 700 Td (Secret) Tj ET")
	fonts := simpleFonts()
	rect := geom.NewRectangle(0, 0, 1000, 1000) // covers everything

	result, err := redact.RedactPage(content, fonts, nil, []geom.Rectangle{rect}, []string{"Secret"})
	require.NoError(t, err)

	operators, _, err := csparse.New(result.Content).ParseAll()
	require.NoError(t, err)
	ops := csops.New(fonts).Run(operators)

	sawTf := false
	for _, op := range ops {
		if op.Kind == csops.KindTextState && op.Raw != nil && op.Raw.Name == "Tf" {
			sawTf = true
		}
		if op.Kind == csops.KindTextShow {
			assert.True(t, sawTf, "show-text operator with no preceding Tf in this block")
		}
	}
}
