// Package csops interprets csparse.Operator sequences against a
// csstate.State, producing the tagged Operation variant spec §3 describes:
// StateOp, TextStateOp, TextShowOp, PathOp, and ImageOp, each annotated
// with a bounding box in page coordinates.
//
// Grounded on internal/extractor/text_state.go (matrix/text-state update
// rules) and internal/extractor/graphics_parser.go (path operator
// dispatch), generalized with the CTM tracking neither file carries and
// extended to produce the typed variant instead of extraction-only
// GraphicsElement/TextState values.
package csops

import (
	"github.com/coregx/pdfredact/internal/cslex"
	"github.com/coregx/pdfredact/internal/csstate"
	"github.com/coregx/pdfredact/internal/geom"
)

// Kind discriminates the tagged Operation variant.
type Kind int

// Operation kinds, per spec §3.
const (
	KindState Kind = iota
	KindTextState
	KindTextShow
	KindPath
	KindImage
)

// Raw carries an operator's name and verbatim operands, used for kinds the
// redaction engine preserves byte-for-byte: StateOp and TextStateOp never
// intersect a redaction rectangle and are never rewritten.
type Raw struct {
	Name     string
	Operands []cslex.PdfObject
}

// Run is one string-operand component of a Tj/TJ/'/" operator; TJ carries
// one Run per string array element (numeric adjustments between them are
// recorded in Adjustments).
type Run struct {
	RawBytes []byte
	WasHex   bool
	// ArrayIndex is this run's position in the original TJ array (0 for
	// Tj/'/" which have exactly one implicit run).
	ArrayIndex int
}

// Adjustment is a numeric TJ array element, recorded with the array index
// it occupied so the glyph remover can decide whether to keep it.
type Adjustment struct {
	ArrayIndex int
	Value      float64
}

// Glyph is one decoded character's position, per spec's Glyph position
// data model.
type Glyph struct {
	Unicode    string
	BBox       geom.Rectangle
	RunIndex   int // index into TextShow.Runs
	ByteOffset int // byte offset of this glyph's code within its Run
	ByteLen    int // number of raw bytes this glyph's code occupies
	CID        uint32
	IsCID      bool
	WasHex     bool

	// LocalX and LocalWidth are this glyph's left edge and advance width in
	// TEXT SPACE (the space StartMatrix operates in, before CTM), used by
	// the glyph remover to synthesize a Tm that repositions a surviving
	// segment without needing to invert the CTM.
	LocalX, LocalWidth float64
}

// TextShow is the payload of a TextShowOp: Tj, TJ, ', or ".
type TextShow struct {
	Operator string // "Tj", "TJ", "'", or "\""
	Text     string // full decoded text, concatenated across all runs
	Runs     []Run
	Adjustments []Adjustment
	Glyphs   []Glyph

	FontName          string
	RawFontSize       float64 // the Tf operand in effect, never scaled
	EffectiveFontSize float64 // RawFontSize * |Tm.d|
	IsCIDFont         bool

	// StartMatrix is the text matrix in effect at the start of this
	// operator, before any glyph advances are applied.
	StartMatrix csstate.Matrix

	// StartRise is State.Rise at the start of this operator.
	StartRise float64

	// For the "'" and "\"" operators, the word/char spacing they set
	// before behaving as T* Tj / Tj respectively.
	SetWordSpace, SetCharSpace float64
	HasSpacingOverride         bool

	// cursor accumulates the text-space advance consumed so far while this
	// operator's runs are being laid out; it becomes the tx passed to
	// State.AdvanceText once layout completes.
	cursor float64
}

// PathPaint is the payload of a PathOp: the completed subpaths (in user
// space, i.e. as originally given to m/l/c/re/h — NOT CTM-transformed) at
// the moment a painting operator closed them, plus the CTM in effect, which
// the path clipper needs to map to and from page space.
type PathPaint struct {
	PaintOp  string // S, s, f, F, f*, B, B*, b, b*, n
	Subpaths [][]geom.Point
	CTM      csstate.Matrix
}

// ImageShow is the payload of an ImageOp: either a `Do` XObject reference
// or an inline `BI…ID…EI` image.
type ImageShow struct {
	IsInline bool

	// XObject form.
	XObjectName string

	// Inline form.
	InlineDict *cslex.Dictionary
	InlineRaw  []byte

	CTM csstate.Matrix
}

// Operation is one tagged operation in the parsed content stream.
type Operation struct {
	Kind     Kind
	Position int
	BBox     geom.Rectangle

	Raw  *Raw       // KindState, KindTextState
	Show *TextShow  // KindTextShow
	Path *PathPaint // KindPath
	Image *ImageShow // KindImage
}
