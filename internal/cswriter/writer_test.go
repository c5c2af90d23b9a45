package cswriter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/pdfredact/internal/cslex"
	"github.com/coregx/pdfredact/internal/cswriter"
	"github.com/coregx/pdfredact/internal/geom"
)

func TestWrite_StableSortByPosition(t *testing.T) {
	ops := []cswriter.RawOp{
		{Name: "Q", Position: 10},
		{Name: "q", Position: 0},
	}
	out := string(cswriter.Write(ops))
	assert.Equal(t, "q\nQ\n", out)
}

func TestWrite_LiteralStringEscaping(t *testing.T) {
	ops := []cswriter.RawOp{
		{
			Name:     "Tj",
			Operands: []cslex.PdfObject{cslex.NewStringBytes([]byte("a(b)c\\d\ne"))},
			Position: 0,
		},
	}
	out := string(cswriter.Write(ops))
	assert.Equal(t, "(a\\(b\\)c\\\\d\\ne) Tj\n", out)
}

func TestWrite_HexStringUppercase(t *testing.T) {
	ops := []cswriter.RawOp{
		{
			Name:     "Tj",
			Operands: []cslex.PdfObject{cslex.NewHexString(string([]byte{0xab, 0xcd}))},
			Position: 0,
		},
	}
	out := string(cswriter.Write(ops))
	assert.Equal(t, "<ABCD> Tj\n", out)
}

func TestWrite_IntegerVsRealFormatting(t *testing.T) {
	ops := []cswriter.RawOp{
		{Name: "w", Operands: []cslex.PdfObject{cslex.NewReal(2.0)}, Position: 0},
		{Name: "w", Operands: []cslex.PdfObject{cslex.NewReal(2.5)}, Position: 1},
	}
	out := string(cswriter.Write(ops))
	assert.Equal(t, "2 w\n2.5 w\n", out)
}

func TestWrite_SyntheticTfBeforeOrphanedShow(t *testing.T) {
	// A Tj with no preceding Tf inside its BT/ET must get one synthesized
	// from the most recently observed Tf anywhere in the stream.
	ops := []cswriter.RawOp{
		{Name: "BT", Position: 0},
		{Name: "Tf", Operands: []cslex.PdfObject{cslex.NewName("F1"), cslex.NewInteger(12)}, Position: 1},
		{Name: "ET", Position: 2},
		{Name: "BT", Position: 3},
		{Name: "Tj", Operands: []cslex.PdfObject{cslex.NewStringBytes([]byte("x"))}, Position: 4},
		{Name: "ET", Position: 5},
	}
	out := string(cswriter.Write(ops))
	assert.Equal(t, "BT\n/F1 12 Tf\nET\nBT\n/F1 12 Tf\n(x) Tj\nET\n", out)
}

func TestWrite_NameEscaping(t *testing.T) {
	ops := []cswriter.RawOp{
		{Name: "gs", Operands: []cslex.PdfObject{cslex.NewName("a b")}, Position: 0},
	}
	out := string(cswriter.Write(ops))
	assert.Equal(t, "/a#20b gs\n", out)
}

func TestFromSubpaths_EmptyProducesNoPaintOp(t *testing.T) {
	out := cswriter.FromSubpaths(nil, "f", 0)
	assert.Empty(t, out)
}

func TestFromSubpaths_ClosedRingEmitsMoveLineClose(t *testing.T) {
	sp := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}}
	ops := cswriter.FromSubpaths([][]geom.Point{sp}, "f", 5)

	require.Len(t, ops, 6) // m + 3 l + h + f
	assert.Equal(t, "m", ops[0].Name)
	assert.Equal(t, "l", ops[1].Name)
	assert.Equal(t, "l", ops[2].Name)
	assert.Equal(t, "l", ops[3].Name)
	assert.Equal(t, "h", ops[4].Name)
	assert.Equal(t, "f", ops[5].Name)
	for _, op := range ops {
		assert.Equal(t, 5, op.Position)
	}
}

func TestFromSubpaths_TooShortSubpathSkipped(t *testing.T) {
	ops := cswriter.FromSubpaths([][]geom.Point{{{X: 0, Y: 0}}}, "f", 0)
	assert.Empty(t, ops)
}
