// Package csparse groups lexer tokens into (operator, operands) tuples and
// assigns each one a monotonically increasing stream position.
//
// Grounded on internal/extractor/content_parser.go's ContentParser, which
// drives the same lexer/operand-stack discipline; the teacher's version
// silently drops malformed operands where this one's caller needs the
// stream-position bookkeeping described in spec §4.2.
package csparse

import (
	"fmt"
	"strings"

	"github.com/coregx/pdfredact/internal/cslex"
)

// Operator is one `operator operand…` tuple from a content stream, tagged
// with the monotonically increasing position it was parsed at.
type Operator struct {
	Name     string
	Operands []cslex.PdfObject
	Position int
}

// String renders the operator for debugging.
func (op *Operator) String() string {
	var b strings.Builder
	for _, operand := range op.Operands {
		b.WriteString(operand.String())
		b.WriteByte(' ')
	}
	b.WriteString(op.Name)
	return b.String()
}

// Parser drives a cslex.Lexer over content-stream bytes and emits Operators.
//
// Malformed operators — an operand shape the parser cannot build a
// PdfObject from — are skipped with their partial operand stack discarded,
// rather than aborting the whole stream, matching spec §4.2's tolerance
// policy.
type Parser struct {
	lexer    *cslex.Lexer
	position int
}

// New creates a content-stream Operator parser over content.
func New(content []byte) *Parser {
	return &Parser{lexer: cslex.NewLexer(strings.NewReader(string(content)))}
}

// ParseAll drives the lexer to completion and returns every operator
// parsed, along with a (possibly empty) slice of recoverable warnings.
func (p *Parser) ParseAll() ([]*Operator, []string, error) {
	var ops []*Operator
	var warnings []string
	var operands []cslex.PdfObject

	for {
		tok, err := p.lexer.NextToken()
		if err != nil && tok.Type != cslex.TokenEOF {
			warnings = append(warnings, fmt.Sprintf("csparse: %v at %d:%d", err, tok.Line, tok.Column))
			operands = nil
			continue
		}

		switch tok.Type {
		case cslex.TokenEOF:
			return ops, warnings, nil

		case cslex.TokenArrayStart:
			arr, werr := p.parseArray()
			if werr != nil {
				warnings = append(warnings, werr.Error())
				operands = nil
				continue
			}
			operands = append(operands, arr)

		case cslex.TokenDictStart:
			dict, werr := p.parseDictionary()
			if werr != nil {
				warnings = append(warnings, werr.Error())
				operands = nil
				continue
			}
			operands = append(operands, dict)

		case cslex.TokenArrayEnd, cslex.TokenDictEnd:
			warnings = append(warnings, fmt.Sprintf("csparse: unexpected %s at %d:%d", tok.Type, tok.Line, tok.Column))
			operands = nil

		case cslex.TokenKeyword:
			if tok.Value == "BI" {
				op, werr := p.parseInlineImage()
				if werr != nil {
					warnings = append(warnings, werr.Error())
					operands = nil
					continue
				}
				ops = append(ops, op)
				operands = nil
				continue
			}
			ops = append(ops, &Operator{Name: tok.Value, Operands: operands, Position: p.position})
			p.position++
			operands = nil

		default:
			obj, ok := tokenToObject(tok)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("csparse: unrecognized token %s at %d:%d", tok.Type, tok.Line, tok.Column))
				continue
			}
			operands = append(operands, obj)
		}
	}
}

func tokenToObject(tok cslex.Token) (cslex.PdfObject, bool) {
	switch tok.Type {
	case cslex.TokenNull:
		return cslex.NewNull(), true
	case cslex.TokenBoolean:
		return cslex.NewBoolean(tok.Value == "true"), true
	case cslex.TokenInteger:
		var v int64
		_, err := fmt.Sscanf(tok.Value, "%d", &v)
		if err != nil {
			return nil, false
		}
		return cslex.NewInteger(v), true
	case cslex.TokenReal:
		var v float64
		_, err := fmt.Sscanf(tok.Value, "%g", &v)
		if err != nil {
			return nil, false
		}
		return cslex.NewReal(v), true
	case cslex.TokenString:
		return cslex.NewStringBytes([]byte(tok.Value)), true
	case cslex.TokenHexString:
		return cslex.NewHexString(tok.Value), true
	case cslex.TokenName:
		return cslex.NewName(tok.Value), true
	default:
		return nil, false
	}
}

func (p *Parser) parseArray() (*cslex.Array, error) {
	arr := cslex.NewArray()
	for {
		tok, err := p.lexer.NextToken()
		if err != nil && tok.Type != cslex.TokenEOF {
			return nil, fmt.Errorf("csparse: error in array at %d:%d: %w", tok.Line, tok.Column, err)
		}
		switch tok.Type {
		case cslex.TokenArrayEnd:
			return arr, nil
		case cslex.TokenEOF:
			return nil, fmt.Errorf("csparse: unterminated array")
		case cslex.TokenArrayStart:
			nested, err := p.parseArray()
			if err != nil {
				return nil, err
			}
			arr.Append(nested)
		case cslex.TokenDictStart:
			nested, err := p.parseDictionary()
			if err != nil {
				return nil, err
			}
			arr.Append(nested)
		default:
			obj, ok := tokenToObject(tok)
			if !ok {
				return nil, fmt.Errorf("csparse: unexpected token in array at %d:%d", tok.Line, tok.Column)
			}
			arr.Append(obj)
		}
	}
}

// parseInlineImage handles `BI <key value>… ID <raw bytes> EI`, per
// spec §4.2: captured as a single operator whose raw bytes span the
// dictionary, the ID marker, the raw image data, and the EI terminator.
// The returned Operator's Name is "BI"; Operands[0] is the parameter
// dictionary and Operands[1] is the raw image bytes as a PdfObject string.
func (p *Parser) parseInlineImage() (*Operator, error) {
	dict := cslex.NewDictionary()
	for {
		keyTok, err := p.lexer.NextToken()
		if err != nil && keyTok.Type != cslex.TokenEOF {
			return nil, fmt.Errorf("csparse: error in inline image params at %d:%d: %w", keyTok.Line, keyTok.Column, err)
		}
		if keyTok.Type == cslex.TokenKeyword && keyTok.Value == "ID" {
			break
		}
		if keyTok.Type == cslex.TokenEOF {
			return nil, fmt.Errorf("csparse: unterminated inline image (missing ID)")
		}
		if keyTok.Type != cslex.TokenName {
			return nil, fmt.Errorf("csparse: expected name key in inline image params at %d:%d", keyTok.Line, keyTok.Column)
		}

		valTok, err := p.lexer.NextToken()
		if err != nil && valTok.Type != cslex.TokenEOF {
			return nil, fmt.Errorf("csparse: error reading inline image value at %d:%d: %w", valTok.Line, valTok.Column, err)
		}
		var value cslex.PdfObject
		switch valTok.Type {
		case cslex.TokenArrayStart:
			value, err = p.parseArray()
		case cslex.TokenDictStart:
			value, err = p.parseDictionary()
		default:
			var ok bool
			value, ok = tokenToObject(valTok)
			if !ok {
				err = fmt.Errorf("csparse: unexpected value token in inline image params at %d:%d", valTok.Line, valTok.Column)
			}
		}
		if err != nil {
			return nil, err
		}
		dict.Set(keyTok.Value, value)
	}

	raw, err := p.lexer.ReadInlineImageData()
	if err != nil {
		return nil, fmt.Errorf("csparse: %w", err)
	}

	op := &Operator{
		Name:     "BI",
		Operands: []cslex.PdfObject{dict, cslex.NewStringBytes(raw)},
		Position: p.position,
	}
	p.position++
	return op, nil
}

func (p *Parser) parseDictionary() (*cslex.Dictionary, error) {
	dict := cslex.NewDictionary()
	for {
		keyTok, err := p.lexer.NextToken()
		if err != nil && keyTok.Type != cslex.TokenEOF {
			return nil, fmt.Errorf("csparse: error in dictionary at %d:%d: %w", keyTok.Line, keyTok.Column, err)
		}
		if keyTok.Type == cslex.TokenDictEnd {
			return dict, nil
		}
		if keyTok.Type == cslex.TokenEOF {
			return nil, fmt.Errorf("csparse: unterminated dictionary")
		}
		if keyTok.Type != cslex.TokenName {
			return nil, fmt.Errorf("csparse: expected name key in dictionary at %d:%d", keyTok.Line, keyTok.Column)
		}

		valTok, err := p.lexer.NextToken()
		if err != nil && valTok.Type != cslex.TokenEOF {
			return nil, fmt.Errorf("csparse: error reading dictionary value at %d:%d: %w", valTok.Line, valTok.Column, err)
		}
		var value cslex.PdfObject
		switch valTok.Type {
		case cslex.TokenArrayStart:
			value, err = p.parseArray()
		case cslex.TokenDictStart:
			value, err = p.parseDictionary()
		default:
			var ok bool
			value, ok = tokenToObject(valTok)
			if !ok {
				err = fmt.Errorf("csparse: unexpected value token in dictionary at %d:%d", valTok.Line, valTok.Column)
			}
		}
		if err != nil {
			return nil, err
		}
		dict.Set(keyTok.Value, value)
	}
}
