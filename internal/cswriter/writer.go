// Package cswriter re-emits a reconstructed operation list as content-stream
// bytes, per spec §4.9: stable-sorts by stream position, formats PDF
// numeric/string/name syntax exactly, and enforces the BT/Tf invariant that
// every text-showing operator inside a text object is preceded by a Tf
// using the RAW (never effective) font size.
//
// Grounded on internal/writer/pdf_writer.go's literal-string escaping idiom
// and content_builder.go's operator-stream assembly, adapted from whole-
// document object writing to single-content-stream operator emission.
package cswriter

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/coregx/pdfredact/internal/cslex"
	"github.com/coregx/pdfredact/internal/csops"
	"github.com/coregx/pdfredact/internal/geom"
)

// RawOp is one operator-operand tuple ready for serialization: the common
// currency between the redaction passes (C6-C9) and the writer (C10).
type RawOp struct {
	Name     string
	Operands []cslex.PdfObject
	Position int
}

// Write stable-sorts ops by Position and serializes them to content-stream
// bytes, enforcing the BT/Tf invariant as it goes.
func Write(ops []RawOp) []byte {
	sorted := make([]RawOp, len(ops))
	copy(sorted, ops)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	var buf bytes.Buffer
	inv := &invariantTracker{lastRawSize: 1}

	for _, op := range sorted {
		if op.Name == "BI" {
			writeInlineImage(&buf, op)
			continue
		}

		inv.observe(op)
		if inv.needsSyntheticTf(op.Name) {
			writeOperator(&buf, "Tf", []cslex.PdfObject{cslex.NewName(inv.lastFontName), numberObject(inv.lastRawSize)})
			inv.hasTfSinceBT = true
		}

		writeOperator(&buf, op.Name, op.Operands)
	}
	return buf.Bytes()
}

// invariantTracker implements spec §4.9's "block invariant enforcement":
// tracks the most recent raw Tf seen anywhere in the input, and whether a
// Tf has been seen since the last BT, synthesizing one before any show
// operator that would otherwise lack it.
type invariantTracker struct {
	inBlock      bool
	hasTfSinceBT bool
	lastFontName string
	lastRawSize  float64
}

func (t *invariantTracker) observe(op RawOp) {
	switch op.Name {
	case "BT":
		t.inBlock = true
		t.hasTfSinceBT = false
	case "ET":
		t.inBlock = false
	case "Tf":
		if len(op.Operands) == 2 {
			if name, ok := op.Operands[0].(*cslex.Name); ok {
				t.lastFontName = name.Value()
			}
			if size, ok := numberValue(op.Operands[1]); ok {
				t.lastRawSize = size
			}
		}
		t.hasTfSinceBT = true
	}
}

func (t *invariantTracker) needsSyntheticTf(opName string) bool {
	if !t.inBlock || t.hasTfSinceBT {
		return false
	}
	switch opName {
	case "Tj", "TJ", "'", "\"":
		return true
	default:
		return false
	}
}

func writeOperator(buf *bytes.Buffer, name string, operands []cslex.PdfObject) {
	for _, operand := range operands {
		writeOperand(buf, operand)
		buf.WriteByte(' ')
	}
	buf.WriteString(name)
	buf.WriteByte('\n')
}

func writeOperand(buf *bytes.Buffer, obj cslex.PdfObject) {
	switch o := obj.(type) {
	case *cslex.Integer:
		buf.WriteString(strconv.FormatInt(o.Value(), 10))
	case *cslex.Real:
		buf.WriteString(formatNumber(o.Value()))
	case *cslex.String:
		if o.IsHex() {
			writeHexString(buf, o.Bytes())
		} else {
			writeLiteralString(buf, o.Bytes())
		}
	case *cslex.Name:
		writeName(buf, o.Value())
	case *cslex.Array:
		buf.WriteByte('[')
		for i, elem := range o.Elements() {
			if i > 0 {
				buf.WriteByte(' ')
			}
			writeOperand(buf, elem)
		}
		buf.WriteByte(']')
	case *cslex.Boolean:
		buf.WriteString(o.String())
	case *cslex.Null:
		buf.WriteString("null")
	}
}

// formatNumber implements spec §4.9: integers when the fractional part is
// within 1e-4 of zero, otherwise a trimmed-zero decimal.
func formatNumber(v float64) string {
	rounded := math.Round(v)
	if math.Abs(v-rounded) < 1e-4 {
		return strconv.FormatInt(int64(rounded), 10)
	}
	s := strconv.FormatFloat(v, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}

// numberObject picks an Integer or Real PdfObject for a synthesized operand
// using the same threshold as formatNumber.
func numberObject(v float64) cslex.PdfObject {
	rounded := math.Round(v)
	if math.Abs(v-rounded) < 1e-4 {
		return cslex.NewInteger(int64(rounded))
	}
	return cslex.NewReal(v)
}

func numberValue(obj cslex.PdfObject) (float64, bool) {
	switch v := obj.(type) {
	case *cslex.Integer:
		return float64(v.Value()), true
	case *cslex.Real:
		return v.Value(), true
	default:
		return 0, false
	}
}

// writeLiteralString implements spec §4.9's literal-string escaping: named
// escapes for \n \r \t \b \f \( \) \\, three-digit octal for every other
// non-printable byte.
func writeLiteralString(buf *bytes.Buffer, b []byte) {
	buf.WriteByte('(')
	for _, c := range b {
		switch c {
		case '\\':
			buf.WriteString(`\\`)
		case '(':
			buf.WriteString(`\(`)
		case ')':
			buf.WriteString(`\)`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			if c < 0x20 || c > 0x7E {
				fmt.Fprintf(buf, `\%03o`, c)
			} else {
				buf.WriteByte(c)
			}
		}
	}
	buf.WriteByte(')')
}

// writeHexString implements spec §4.9's uppercase hex-string syntax.
func writeHexString(buf *bytes.Buffer, b []byte) {
	buf.WriteByte('<')
	fmt.Fprintf(buf, "%X", b)
	buf.WriteByte('>')
}

// writeName implements spec §4.9's name escaping: #XX for any character
// outside the printable, non-delimiter name-character set.
func writeName(buf *bytes.Buffer, name string) {
	buf.WriteByte('/')
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < '!' || c > '~' || c == '#' || strings.IndexByte("()<>[]{}/%", c) >= 0 {
			fmt.Fprintf(buf, "#%02X", c)
		} else {
			buf.WriteByte(c)
		}
	}
}

// writeInlineImage expands a synthetic "BI" RawOp (Operands[0] is the
// parameter dictionary, Operands[1] is the raw sample bytes as a String)
// into the real BI … ID … EI syntax.
func writeInlineImage(buf *bytes.Buffer, op RawOp) {
	if len(op.Operands) != 2 {
		return
	}
	dict, ok1 := op.Operands[0].(*cslex.Dictionary)
	raw, ok2 := op.Operands[1].(*cslex.String)
	if !ok1 || !ok2 {
		return
	}

	buf.WriteString("BI\n")
	for _, key := range dict.Keys() {
		writeName(buf, key)
		buf.WriteByte(' ')
		writeOperand(buf, dict.Get(key))
		buf.WriteByte('\n')
	}
	buf.WriteString("ID\n")
	buf.Write(raw.Bytes())
	buf.WriteString("\nEI\n")
}

// FromOperation converts one interpreted Operation back into wire-level
// RawOps. Used for every operation the redaction passes leave untouched —
// it must reproduce the original operator byte-for-byte shape, since an
// un-redacted TextShowOp or PathOp is never rewritten.
func FromOperation(op csops.Operation) []RawOp {
	switch op.Kind {
	case csops.KindState, csops.KindTextState:
		if op.Raw == nil {
			return nil
		}
		return []RawOp{{Name: op.Raw.Name, Operands: op.Raw.Operands, Position: op.Position}}

	case csops.KindTextShow:
		return fromTextShow(op)

	case csops.KindPath:
		return FromSubpaths(op.Path.Subpaths, op.Path.PaintOp, op.Position)

	case csops.KindImage:
		return fromImage(op)
	}
	return nil
}

func fromTextShow(op csops.Operation) []RawOp {
	show := op.Show
	if show == nil {
		return nil
	}
	switch show.Operator {
	case "Tj", "'":
		if len(show.Runs) == 0 {
			return nil
		}
		return []RawOp{{Name: show.Operator, Operands: []cslex.PdfObject{runOperand(show.Runs[0])}, Position: op.Position}}
	case "\"":
		if len(show.Runs) == 0 {
			return nil
		}
		operands := []cslex.PdfObject{
			numberObject(show.SetWordSpace),
			numberObject(show.SetCharSpace),
			runOperand(show.Runs[0]),
		}
		return []RawOp{{Name: "\"", Operands: operands, Position: op.Position}}
	case "TJ":
		return []RawOp{{Name: "TJ", Operands: []cslex.PdfObject{rebuildTJArray(show)}, Position: op.Position}}
	}
	return nil
}

func runOperand(r csops.Run) cslex.PdfObject {
	if r.WasHex {
		return cslex.NewHexString(string(r.RawBytes))
	}
	return cslex.NewStringBytes(r.RawBytes)
}

func rebuildTJArray(show *csops.TextShow) *cslex.Array {
	maxIdx := -1
	for _, r := range show.Runs {
		if r.ArrayIndex > maxIdx {
			maxIdx = r.ArrayIndex
		}
	}
	for _, a := range show.Adjustments {
		if a.ArrayIndex > maxIdx {
			maxIdx = a.ArrayIndex
		}
	}

	runByIdx := make(map[int]csops.Run, len(show.Runs))
	for _, r := range show.Runs {
		runByIdx[r.ArrayIndex] = r
	}
	adjByIdx := make(map[int]float64, len(show.Adjustments))
	for _, a := range show.Adjustments {
		adjByIdx[a.ArrayIndex] = a.Value
	}

	arr := cslex.NewArray()
	for i := 0; i <= maxIdx; i++ {
		if r, ok := runByIdx[i]; ok {
			arr.Append(runOperand(r))
		} else if v, ok := adjByIdx[i]; ok {
			arr.Append(numberObject(v))
		}
	}
	return arr
}

// FromSubpaths reconstructs m/l/h construction operators plus the trailing
// paint operator from a set of subpaths, per spec §4.7's reconstruction
// rule: every emitted operator shares pos so a stable sort keeps them
// adjacent and in the order this function produced them. Used both for
// untouched PathOp passthrough and for the path clipper's clipped output.
func FromSubpaths(subpaths [][]geom.Point, paintOp string, pos int) []RawOp {
	var ops []RawOp
	for _, sp := range subpaths {
		if len(sp) < 2 {
			continue
		}
		ops = append(ops, RawOp{Name: "m", Operands: pointOperands(sp[0]), Position: pos})
		closed := sp[len(sp)-1] == sp[0]
		end := len(sp)
		if closed {
			end--
		}
		for i := 1; i < end; i++ {
			ops = append(ops, RawOp{Name: "l", Operands: pointOperands(sp[i]), Position: pos})
		}
		if closed {
			ops = append(ops, RawOp{Name: "h", Position: pos})
		}
	}
	if len(ops) > 0 {
		ops = append(ops, RawOp{Name: paintOp, Position: pos})
	}
	return ops
}

func pointOperands(p geom.Point) []cslex.PdfObject {
	return []cslex.PdfObject{numberObject(p.X), numberObject(p.Y)}
}

func fromImage(op csops.Operation) []RawOp {
	img := op.Image
	if img == nil {
		return nil
	}
	if !img.IsInline {
		return []RawOp{{Name: "Do", Operands: []cslex.PdfObject{cslex.NewName(img.XObjectName)}, Position: op.Position}}
	}
	return []RawOp{{Name: "BI", Operands: []cslex.PdfObject{img.InlineDict, cslex.NewStringBytes(img.InlineRaw)}, Position: op.Position}}
}
