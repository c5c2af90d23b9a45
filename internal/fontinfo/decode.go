package fontinfo

import (
	"fmt"
	"unicode"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	textunicode "golang.org/x/text/encoding/unicode"
)

// macRomanCodec and utf16beCodec are the real ecosystem codecs used in
// place of the teacher's hand-rolled decodeWinAnsi switch table. UseBOM
// lets a leading byte-order mark override the declared big-endian default,
// per spec §4.3's "optional BOM" decoding rule.
var (
	macRomanCodec encoding.Encoding = charmap.Macintosh
	utf16beCodec                    = textunicode.UTF16(textunicode.BigEndian, textunicode.UseBOM)
)

// DecodeString decodes one content-stream string operand into Unicode text,
// per the decoding policy of spec §4.3:
//
//  1. If the font has a ToUnicode CMap, step through raw in
//     BytesPerChar-sized codes and look each up; missing codes produce
//     U+FFFD, except that printable-ASCII codes pass through as the byte
//     itself.
//  2. Else, for CID fonts: UTF-16BE with optional BOM, falling back to
//     Windows-1252 if the UTF-16BE result fails the printability
//     heuristic.
//  3. Else: Windows-1252, or MacRoman if so declared.
func DecodeString(fi *Info, raw []byte) (string, error) {
	if fi.CMap != nil && fi.CMap.Len() > 0 {
		return decodeViaCMap(fi, raw), nil
	}

	if fi.IsCID {
		decoded, err := decodeUTF16BE(raw)
		if err == nil && isPrintableEnough(decoded) {
			return decoded, nil
		}
		return decodeWindows1252(raw)
	}

	if fi.RecommendedEncoding() == MacRoman {
		return decodeWith(macRomanCodec, raw)
	}
	return decodeWindows1252(raw)
}

// decodeViaCMap walks raw in BytesPerChar-sized codes and looks each up in
// the font's ToUnicode table.
func decodeViaCMap(fi *Info, raw []byte) string {
	step := fi.BytesPerChar()
	var out []rune
	for i := 0; i+step <= len(raw); i += step {
		var code uint32
		for j := 0; j < step; j++ {
			code = code<<8 | uint32(raw[i+j])
		}
		if u, ok := fi.CMap.Lookup(code); ok {
			out = append(out, []rune(u)...)
			continue
		}
		if code < 128 && isPrintableASCII(byte(code)) {
			out = append(out, rune(code))
			continue
		}
		out = append(out, unicode.ReplacementChar)
	}
	return string(out)
}

func decodeWindows1252(raw []byte) (string, error) {
	return decodeWith(charmap.Windows1252, raw)
}

func decodeWith(codec encoding.Encoding, raw []byte) (string, error) {
	out, err := codec.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("fontinfo: decode: %w", err)
	}
	return string(out), nil
}

// decodeUTF16BE decodes raw as UTF-16BE via the ecosystem codec, which
// honors a leading BOM if present. An odd-length trailing byte is dropped.
func decodeUTF16BE(raw []byte) (string, error) {
	b := raw
	if len(b)%2 != 0 {
		b = b[:len(b)-1]
	}
	return decodeWith(utf16beCodec, b)
}

// isPrintableEnough implements the printability heuristic of spec §4.3:
// at least 70% of characters must be letter/digit/punct/whitespace/symbol
// or CJK.
func isPrintableEnough(s string) bool {
	if s == "" {
		return true
	}
	total, good := 0, 0
	for _, r := range s {
		total++
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsPunct(r),
			unicode.IsSpace(r), unicode.IsSymbol(r), isCJKRune(r):
			good++
		}
	}
	return float64(good)/float64(total) >= 0.70
}

func isCJKRune(r rune) bool {
	return unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) || unicode.Is(unicode.Hangul, r)
}

func isPrintableASCII(b byte) bool {
	return b >= 0x20 && b <= 0x7E
}
