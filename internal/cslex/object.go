// Package cslex implements content-stream lexical analysis (tokenization)
// and the small set of PDF primitive object types a content-stream operand
// can hold.
//
// Reference: PDF 1.7 specification, Section 7.2 "Lexical Conventions" and
// Section 7.3 "Objects". A content stream's operands are always direct
// objects — null, boolean, integer, real, string, name, array, or
// dictionary — never an indirect reference or a stream object, so those
// are the only variants modeled here.
package cslex

// PdfObject is the operand type every content-stream operator argument
// implements: Null, Boolean, Integer, Real, String, Name, Array, and
// Dictionary.
type PdfObject interface {
	// String returns a string representation of the object.
	String() string
}
