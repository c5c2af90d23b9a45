package csparse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/pdfredact/internal/cslex"
	"github.com/coregx/pdfredact/internal/csparse"
)

func TestParseAll_SimpleOperators(t *testing.T) {
	ops, warnings, err := csparse.New([]byte("q 1 0 0 1 10 20 cm Q")).ParseAll()
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, ops, 3)

	assert.Equal(t, "q", ops[0].Name)
	assert.Equal(t, "cm", ops[1].Name)
	require.Len(t, ops[1].Operands, 6)
	assert.Equal(t, "Q", ops[2].Name)
}

func TestParseAll_StringAndNameOperands(t *testing.T) {
	ops, _, err := csparse.New([]byte("/F1 12 Tf (hello) Tj")).ParseAll()
	require.NoError(t, err)
	require.Len(t, ops, 2)

	tf := ops[0]
	assert.Equal(t, "Tf", tf.Name)
	require.Len(t, tf.Operands, 2)
	name, ok := tf.Operands[0].(*cslex.Name)
	require.True(t, ok)
	assert.Equal(t, "F1", name.Value())

	tj := ops[1]
	assert.Equal(t, "Tj", tj.Name)
	require.Len(t, tj.Operands, 1)
	str, ok := tj.Operands[0].(*cslex.String)
	require.True(t, ok)
	assert.Equal(t, "hello", str.Value())
}

func TestParseAll_TJArrayOperand(t *testing.T) {
	ops, _, err := csparse.New([]byte("[(AB) -100 (CD)] TJ")).ParseAll()
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "TJ", ops[0].Name)

	arr, ok := ops[0].Operands[0].(*cslex.Array)
	require.True(t, ok)
	require.Len(t, arr.Elements(), 3)
}

func TestParseAll_MonotonicPositions(t *testing.T) {
	ops, _, err := csparse.New([]byte("q Q q Q")).ParseAll()
	require.NoError(t, err)
	require.Len(t, ops, 4)
	for i := 1; i < len(ops); i++ {
		assert.Greater(t, ops[i].Position, ops[i-1].Position)
	}
}

func TestParseAll_InlineImageAsSingleOperator(t *testing.T) {
	content := []byte("q BI /W 1 /H 1 /BPC 8 /CS /G ID \x00 EI Q")
	ops, _, err := csparse.New(content).ParseAll()
	require.NoError(t, err)

	var sawBI bool
	for _, op := range ops {
		if op.Name == "BI" {
			sawBI = true
		}
	}
	assert.True(t, sawBI, "expected a single BI operator spanning the inline image")
}

func TestParseAll_EmptyContentProducesNoOperators(t *testing.T) {
	ops, warnings, err := csparse.New([]byte("")).ParseAll()
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Empty(t, ops)
}
