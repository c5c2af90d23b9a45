package cslex_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/pdfredact/internal/cslex"
)

func TestLexer_Integer(t *testing.T) {
	toks, err := cslex.Tokenize("123 -456 +789")
	require.NoError(t, err)
	require.Len(t, toks, 4) // 3 integers + EOF

	for i, want := range []string{"123", "-456", "+789"} {
		assert.Equal(t, cslex.TokenInteger, toks[i].Type)
		assert.Equal(t, want, toks[i].Value)
	}
	assert.Equal(t, cslex.TokenEOF, toks[3].Type)
}

func TestLexer_Real(t *testing.T) {
	toks, err := cslex.Tokenize("3.14 -2.5 .5")
	require.NoError(t, err)
	require.Len(t, toks, 4)

	for i, want := range []string{"3.14", "-2.5", ".5"} {
		assert.Equal(t, cslex.TokenReal, toks[i].Type)
		assert.Equal(t, want, toks[i].Value)
	}
}

func TestLexer_LiteralString_WithEscapesAndNesting(t *testing.T) {
	toks, err := cslex.Tokenize(`(Hello (World)\nTab:\t.)`)
	require.NoError(t, err)
	require.Len(t, toks, 2)

	require.Equal(t, cslex.TokenString, toks[0].Type)
	assert.Equal(t, "Hello (World)\nTab:\t.", toks[0].Value)
}

func TestLexer_LiteralString_OctalEscape(t *testing.T) {
	toks, err := cslex.Tokenize(`(\101\102\103)`)
	require.NoError(t, err)
	require.Equal(t, "ABC", toks[0].Value)
}

func TestLexer_LiteralString_Unterminated(t *testing.T) {
	lx := cslex.NewLexer(strings.NewReader("(no closing paren"))
	tok, err := lx.NextToken()
	require.Error(t, err)
	assert.Equal(t, cslex.TokenError, tok.Type)
}

func TestLexer_HexString_PadsOddLength(t *testing.T) {
	toks, err := cslex.Tokenize("<48656C6C6F>")
	require.NoError(t, err)
	require.Equal(t, cslex.TokenHexString, toks[0].Type)
	assert.Equal(t, "Hello", toks[0].Value)

	toks, err = cslex.Tokenize("<1>")
	require.NoError(t, err)
	assert.Equal(t, string([]byte{0x10}), toks[0].Value)
}

func TestLexer_HexString_IgnoresInteriorWhitespace(t *testing.T) {
	toks, err := cslex.Tokenize("<48 65 6C 6C 6F>")
	require.NoError(t, err)
	assert.Equal(t, "Hello", toks[0].Value)
}

func TestLexer_HexString_InvalidDigitIsAnError(t *testing.T) {
	lx := cslex.NewLexer(strings.NewReader("<4G>"))
	tok, err := lx.NextToken()
	require.Error(t, err)
	assert.Equal(t, cslex.TokenError, tok.Type)
}

func TestLexer_Name_PlainAndHashEscaped(t *testing.T) {
	toks, err := cslex.Tokenize("/Type /Name#20With#20Spaces")
	require.NoError(t, err)
	require.Len(t, toks, 3)

	assert.Equal(t, cslex.TokenName, toks[0].Type)
	assert.Equal(t, "Type", toks[0].Value)
	assert.Equal(t, "Name With Spaces", toks[1].Value)
}

func TestLexer_Name_EndsAtDelimiter(t *testing.T) {
	toks, err := cslex.Tokenize("/F1[")
	require.NoError(t, err)
	require.Len(t, toks, 3) // name, array-start, EOF
	assert.Equal(t, "F1", toks[0].Value)
	assert.Equal(t, cslex.TokenArrayStart, toks[1].Type)
}

func TestLexer_ArrayAndDictDelimiters(t *testing.T) {
	toks, err := cslex.Tokenize("[ << >> ]")
	require.NoError(t, err)
	require.Len(t, toks, 5)

	wantTypes := []cslex.TokenType{
		cslex.TokenArrayStart,
		cslex.TokenDictStart,
		cslex.TokenDictEnd,
		cslex.TokenArrayEnd,
		cslex.TokenEOF,
	}
	for i, want := range wantTypes {
		assert.Equal(t, want, toks[i].Type, "token %d", i)
	}
}

func TestLexer_BooleanAndNull(t *testing.T) {
	toks, err := cslex.Tokenize("true false null")
	require.NoError(t, err)
	require.Len(t, toks, 4)

	assert.Equal(t, cslex.TokenBoolean, toks[0].Type)
	assert.Equal(t, "true", toks[0].Value)
	assert.Equal(t, cslex.TokenBoolean, toks[1].Type)
	assert.Equal(t, "false", toks[1].Value)
	assert.Equal(t, cslex.TokenNull, toks[2].Type)
}

func TestLexer_ContentStreamOperatorsAreKeywords(t *testing.T) {
	toks, err := cslex.Tokenize("BT Tf Tj ET")
	require.NoError(t, err)
	for i, want := range []string{"BT", "Tf", "Tj", "ET"} {
		assert.Equal(t, cslex.TokenKeyword, toks[i].Type)
		assert.Equal(t, want, toks[i].Value)
	}
}

func TestLexer_UnknownWordIsAnErrorToken(t *testing.T) {
	lx := cslex.NewLexer(strings.NewReader("NotAnOperator"))
	tok, err := lx.NextToken()
	require.Error(t, err)
	assert.Equal(t, cslex.TokenError, tok.Type)
}

func TestLexer_CommentIsSkipped(t *testing.T) {
	toks, err := cslex.Tokenize("1 % this is a comment\n2")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, "1", toks[0].Value)
	assert.Equal(t, "2", toks[1].Value)
}

func TestLexer_EmptyInputYieldsOnlyEOF(t *testing.T) {
	toks, err := cslex.Tokenize("")
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, cslex.TokenEOF, toks[0].Type)
}

func TestLexer_TracksLineAndColumn(t *testing.T) {
	lx := cslex.NewLexer(strings.NewReader("1\n22"))

	tok, err := lx.NextToken()
	require.NoError(t, err)
	assert.Equal(t, 1, tok.Line)

	tok, err = lx.NextToken()
	require.NoError(t, err)
	assert.Equal(t, 2, tok.Line)
	assert.Equal(t, "22", tok.Value)
}

func TestLexer_Reset_StartsOverOnNewInput(t *testing.T) {
	lx := cslex.NewLexer(strings.NewReader("1"))
	_, err := lx.NextToken()
	require.NoError(t, err)

	lx.Reset(strings.NewReader("99"))
	tok, err := lx.NextToken()
	require.NoError(t, err)
	assert.Equal(t, "99", tok.Value)
	line, col := lx.Position()
	assert.Equal(t, 1, line)
	assert.Equal(t, 2, col)
}
