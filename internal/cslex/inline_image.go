package cslex

import "errors"

// ReadInlineImageData consumes the raw, non-tokenizable bytes of an inline
// image between `ID` and its terminating `EI`, per PDF 1.7 §8.9.7: the
// lexer cannot tokenize this span because it is arbitrary binary data, not
// PDF syntax. It must be preceded by `ID` (already consumed by the caller)
// and is terminated by whitespace, the two bytes "EI", and another
// whitespace/delimiter byte or EOF.
//
// Exactly one whitespace byte immediately after `ID` is the separator, not
// image data, and is consumed but not included in the result.
func (l *Lexer) ReadInlineImageData() ([]byte, error) {
	if _, err := l.readByte(); err != nil {
		return nil, errors.New("cslex: unterminated inline image (missing data)")
	}

	var data []byte
	for {
		ch, err := l.readByte()
		if err != nil {
			return nil, errors.New("cslex: unterminated inline image (missing EI)")
		}

		if isWhitespace(ch) {
			matched, consumed := l.matchesEITerminator()
			if matched {
				return data, nil
			}
			data = append(data, ch)
			data = append(data, consumed...)
			continue
		}
		data = append(data, ch)
	}
}

// matchesEITerminator reports whether the lexer is positioned immediately
// before "EI" followed by whitespace, a delimiter, or EOF. It relies on the
// single-byte peek buffer; since "EI" is two bytes, it reads them via
// readByte, and this lexer's one-byte peek cache cannot push two bytes
// back. On a non-match it therefore returns the bytes it consumed ("E" or
// "EI"), which the caller appends to the image data.
func (l *Lexer) matchesEITerminator() (bool, []byte) {
	first, err := l.peek()
	if err != nil || first != 'E' {
		return false, nil
	}
	_, _ = l.readByte() // consume 'E'

	second, err := l.peek()
	if err != nil || second != 'I' {
		// Not actually "EI": hand the consumed 'E' back as image data.
		return false, []byte{'E'}
	}
	_, _ = l.readByte() // consume 'I'

	after, err := l.peek()
	if err != nil {
		return true, nil // EOF right after EI is a valid terminator
	}
	if isWhitespace(after) || isDelimiter(after) {
		return true, nil
	}
	return false, []byte{'E', 'I'}
}
