package fontinfo

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/coregx/pdfredact/internal/cslex"
)

// CMapTable is a CID (character code) → Unicode mapping built from a font's
// `/ToUnicode` CMap stream. It is the inverse of the PostScript-style CMap
// generator the teacher codebase ships in internal/fonts/tounicode.go,
// which only ever writes the bfchar/bfrange sections this type reads back.
//
// Reference: PDF 1.7 specification, Section 9.10.3 ("ToUnicode CMaps").
type CMapTable struct {
	name     string
	mappings map[uint32]string
}

// Name returns the `/CMapName` the stream declared, if any.
func (c *CMapTable) Name() string { return c.name }

// Lookup returns the Unicode string mapped to code, and whether an entry
// exists.
func (c *CMapTable) Lookup(code uint32) (string, bool) {
	s, ok := c.mappings[code]
	return s, ok
}

// Len reports the number of explicit code→Unicode entries.
func (c *CMapTable) Len() int { return len(c.mappings) }

// ParseToUnicodeCMap parses a `/ToUnicode` CMap stream's decompressed bytes
// and builds the code→Unicode table.
//
// Only `beginbfchar … endbfchar` and `beginbfrange … endbfrange` sections
// are recognized, per spec; all other CMap sections (codespace ranges,
// CID system info, usecmap, etc.) are ignored. Invalid hex entries are
// skipped rather than aborting the parse, in keeping with the lexer's
// general error-recovery policy. CMap keywords (beginbfchar, endcmap,
// findresource, ...) are not content-stream operators, so the lexer reports
// each as an unknown token; such words are kept here as keyword tokens.
func ParseToUnicodeCMap(data []byte) (*CMapTable, error) {
	var tokens []cslex.Token
	lx := cslex.NewLexer(strings.NewReader(string(data)))
	for {
		tok, err := lx.NextToken()
		if word, uerr := strconv.Unquote(strings.TrimPrefix(tok.Value, "unknown token ")); err != nil && uerr == nil && word != "" {
			tok, err = cslex.NewToken(cslex.TokenKeyword, word, tok.Line, tok.Column), nil
		}
		if err != nil || tok.Type == cslex.TokenEOF {
			if err != nil && len(tokens) == 0 {
				return nil, fmt.Errorf("fontinfo: tokenize ToUnicode CMap: %w", err)
			}
			break
		}
		tokens = append(tokens, tok)
	}

	table := &CMapTable{mappings: make(map[uint32]string)}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok.Type == cslex.TokenName && tok.Value == "CMapName" && i+1 < len(tokens):
			if tokens[i+1].Type == cslex.TokenName {
				table.name = tokens[i+1].Value
			}
		case tok.Type == cslex.TokenKeyword && tok.Value == "begincodespacerange":
			// Codespace ranges only constrain code width; redaction does
			// not need them since the font table already states
			// bytes-per-character.
			i = skipSection(tokens, i, "endcodespacerange")
		case tok.Type == cslex.TokenKeyword && tok.Value == "beginbfchar":
			i = parseBfChar(tokens, i, table)
		case tok.Type == cslex.TokenKeyword && tok.Value == "beginbfrange":
			i = parseBfRange(tokens, i, table)
		}
	}

	return table, nil
}

func skipSection(tokens []cslex.Token, start int, endKeyword string) int {
	i := start + 1
	for i < len(tokens) && !(tokens[i].Type == cslex.TokenKeyword && tokens[i].Value == endKeyword) {
		i++
	}
	return i
}

func parseBfChar(tokens []cslex.Token, start int, table *CMapTable) int {
	i := start + 1
	for i+1 < len(tokens) {
		if tokens[i].Type == cslex.TokenKeyword && tokens[i].Value == "endbfchar" {
			return i
		}
		src, dst := tokens[i], tokens[i+1]
		if src.Type != cslex.TokenHexString || dst.Type != cslex.TokenHexString {
			i++
			continue
		}
		code, ok := hexToUint32(src.Value)
		if !ok {
			i += 2
			continue
		}
		if u, ok := hexToUnicode(dst.Value); ok {
			table.mappings[code] = u
		}
		i += 2
	}
	return i
}

func parseBfRange(tokens []cslex.Token, start int, table *CMapTable) int {
	i := start + 1
	for i < len(tokens) {
		if tokens[i].Type == cslex.TokenKeyword && tokens[i].Value == "endbfrange" {
			return i
		}
		if i+2 >= len(tokens) {
			return i
		}
		startTok, endTok, third := tokens[i], tokens[i+1], tokens[i+2]
		if startTok.Type != cslex.TokenHexString || endTok.Type != cslex.TokenHexString {
			i++
			continue
		}
		lo, okLo := hexToUint32(startTok.Value)
		hi, okHi := hexToUint32(endTok.Value)
		if !okLo || !okHi || hi < lo {
			i += 3
			continue
		}

		switch third.Type {
		case cslex.TokenHexString:
			// <lo> <hi> <dstStart> — consecutive mappings.
			if base, ok := hexToUnicodeScalar(third.Value); ok {
				for code := lo; code <= hi; code++ {
					table.mappings[code] = string(rune(base + (code - lo)))
				}
			}
			i += 3
		case cslex.TokenArrayStart:
			// <lo> <hi> [ <u0> <u1> ... ] — per-index explicit mappings.
			j := i + 3
			code := lo
			for j < len(tokens) && tokens[j].Type != cslex.TokenArrayEnd {
				if tokens[j].Type == cslex.TokenHexString && code <= hi {
					if u, ok := hexToUnicode(tokens[j].Value); ok {
						table.mappings[code] = u
					}
					code++
				}
				j++
			}
			i = j + 1
		default:
			i += 3
		}
	}
	return i
}

// hexToUint32 interprets a hex-string token's already-decoded bytes
// (cslex hands back decoded bytes, not hex digits, for TokenHexString) as a
// big-endian integer character code — the source side of a bfchar/bfrange
// entry.
func hexToUint32(tokVal string) (uint32, bool) {
	b := []byte(tokVal)
	if len(b) == 0 {
		return 0, false
	}
	var v uint32
	for _, by := range b {
		v = v<<8 | uint32(by)
	}
	return v, true
}

// hexToUnicode interprets a hex-string token's decoded bytes as a sequence
// of 4-char UTF-16BE code units, handling surrogate pairs for non-BMP
// scalars.
func hexToUnicode(tokVal string) (string, bool) {
	b := []byte(tokVal)
	if len(b) == 0 || len(b)%2 != 0 {
		return "", false
	}
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
	}
	return string(utf16.Decode(units)), true
}

// hexToUnicodeScalar returns the first UTF-16 code unit's scalar value, used
// as the base of a bfrange consecutive-mapping run. Per spec, values that
// decode to a high surrogate are combined into the appropriate non-BMP
// scalar before range arithmetic is applied.
func hexToUnicodeScalar(tokVal string) (rune, bool) {
	s, ok := hexToUnicode(tokVal)
	if !ok || s == "" {
		return 0, false
	}
	r := []rune(s)
	return r[0], true
}
