// Package fontinfo resolves PDF font dictionaries into the information the
// redaction engine needs to decode and re-encode show-text operands:
// subtype, CID-ness, declared encoding, and a ToUnicode mapper.
//
// Grounded on internal/extractor/font_decoder.go's decode dispatch, with
// the teacher's hand-rolled Windows-1252 table replaced by the real
// golang.org/x/text/encoding/charmap codec, per the round-trip contract in
// spec §4.6 and §9 ("a round-trip that casts char-to-byte will silently
// corrupt smart quotes").
package fontinfo

import "strings"

// RecommendedEncoding names the byte encoding to use when a font has no
// ToUnicode CMap to consult.
type RecommendedEncoding int

// Recommended encodings, per spec §3.
const (
	WindowsAnsi RecommendedEncoding = iota
	MacRoman
	UTF16BE
	RawHex
)

// Info describes one entry of a page's /Resources /Font table.
//
// Info is read-only once built and is keyed by both the raw resource name
// (e.g. "/F1") and the bare name ("F1") by the caller's lookup table, per
// spec's data-model note ("keyed by both /Name and Name for lookup").
type Info struct {
	Name             string
	Subtype          string // Type0, Type1, TrueType, Type3
	BaseFont         string
	DeclaredEncoding string // /Encoding value, or its /BaseEncoding if a dict
	IsCID            bool   // Subtype == Type0 with /DescendantFonts present
	CMap             *CMapTable
}

// BytesPerChar returns how many bytes make up one character code for this
// font: 2 for CID fonts, 1 otherwise.
func (fi *Info) BytesPerChar() int {
	if fi.IsCID {
		return 2
	}
	return 1
}

// cjkBaseFontMarkers are BaseFont substrings that reliably indicate a CJK
// font family, used by IsCJKLikely when the encoding name itself is
// inconclusive.
var cjkBaseFontMarkers = []string{
	"MS-Mincho", "MS-Gothic", "SimSun", "SimHei", "MingLiU", "Batang",
	"Gulim", "Dotum", "STSong", "STHeiti", "Noto Sans CJK", "Noto Serif CJK",
}

// IsCJKLikely reports whether this font is probably a CJK (full-width
// glyph) font, from its declared encoding or BaseFont name.
func (fi *Info) IsCJKLikely() bool {
	enc := fi.DeclaredEncoding
	switch {
	case strings.Contains(enc, "UniGB"), strings.Contains(enc, "UniCNS"),
		strings.Contains(enc, "UniJIS"), strings.Contains(enc, "UniKS"),
		strings.Contains(enc, "GBK"), strings.Contains(enc, "90ms"),
		strings.Contains(enc, "90pv"), strings.Contains(enc, "KSC"):
		return true
	}
	for _, marker := range cjkBaseFontMarkers {
		if strings.Contains(fi.BaseFont, marker) {
			return true
		}
	}
	return false
}

// RecommendedEncoding returns the byte encoding to fall back to when no
// ToUnicode CMap covers a code, per spec §3.
func (fi *Info) RecommendedEncoding() RecommendedEncoding {
	switch {
	case fi.IsCID:
		return UTF16BE
	case strings.Contains(fi.DeclaredEncoding, "MacRoman"):
		return MacRoman
	case strings.Contains(fi.DeclaredEncoding, "Identity"):
		return RawHex
	default:
		return WindowsAnsi
	}
}
