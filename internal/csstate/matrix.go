// Package csstate tracks the graphics and text state needed to place every
// glyph, path vertex, and image in page coordinates while a content stream
// is interpreted.
//
// Reference: PDF 1.7 specification, Section 8.3 (Coordinate Systems) and
// Section 9.4 (Text Objects).
package csstate

import "fmt"

// Matrix is a PDF affine transformation matrix, the 6-tuple (a,b,c,d,e,f)
// representing:
//
//	[ a b 0 ]
//	[ c d 0 ]
//	[ e f 1 ]
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// Translation returns a matrix that translates by (tx, ty).
func Translation(tx, ty float64) Matrix {
	return Matrix{A: 1, D: 1, E: tx, F: ty}
}

// Scaling returns a matrix that scales by (sx, sy).
func Scaling(sx, sy float64) Matrix {
	return Matrix{A: sx, D: sy}
}

// Transform applies the matrix to a point, returning the transformed point.
func (m Matrix) Transform(x, y float64) (nx, ny float64) {
	nx = m.A*x + m.C*y + m.E
	ny = m.B*x + m.D*y + m.F
	return nx, ny
}

// Multiply returns m1 · m2, the composition that maps a point p through m1
// first and then through m2 (i.e. applying `other.Multiply(m)` produces the
// matrix for "apply other, then m", matching the PDF convention
// `cm` operand `CTM ← M · CTM`).
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.C,
		B: m.A*other.B + m.B*other.D,
		C: m.C*other.A + m.D*other.C,
		D: m.C*other.B + m.D*other.D,
		E: m.E*other.A + m.F*other.C + other.E,
		F: m.E*other.B + m.F*other.D + other.F,
	}
}

// Invert returns the inverse of m and true, or the zero Matrix and false if
// m is singular (determinant within epsilon of zero). Used by the path
// clipper to map a clipped polygon from page space back to the user space
// the original construction operators were expressed in.
func (m Matrix) Invert() (Matrix, bool) {
	det := m.A*m.D - m.B*m.C
	const eps = 1e-9
	if det > -eps && det < eps {
		return Matrix{}, false
	}
	invDet := 1 / det
	return Matrix{
		A: m.D * invDet,
		B: -m.B * invDet,
		C: -m.C * invDet,
		D: m.A * invDet,
		E: (m.C*m.F - m.D*m.E) * invDet,
		F: (m.B*m.E - m.A*m.F) * invDet,
	}, true
}

// IsIdentity reports whether m is the identity matrix within epsilon.
func (m Matrix) IsIdentity() bool {
	const eps = 1e-6
	return absf(m.A-1) < eps && absf(m.B) < eps && absf(m.C) < eps &&
		absf(m.D-1) < eps && absf(m.E) < eps && absf(m.F) < eps
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// String returns a debugging representation of the matrix.
func (m Matrix) String() string {
	return fmt.Sprintf("[%g %g %g %g %g %g]", m.A, m.B, m.C, m.D, m.E, m.F)
}
