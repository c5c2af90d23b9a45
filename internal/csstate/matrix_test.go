package csstate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coregx/pdfredact/internal/csstate"
)

func TestMatrix_IdentityTransformIsNoOp(t *testing.T) {
	m := csstate.Identity()
	x, y := m.Transform(3, 4)
	assert.Equal(t, 3.0, x)
	assert.Equal(t, 4.0, y)
}

func TestMatrix_Translation(t *testing.T) {
	m := csstate.Translation(10, 20)
	x, y := m.Transform(1, 1)
	assert.Equal(t, 11.0, x)
	assert.Equal(t, 21.0, y)
}

func TestMatrix_Scaling(t *testing.T) {
	m := csstate.Scaling(2, 3)
	x, y := m.Transform(5, 5)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, 15.0, y)
}

func TestMatrix_MultiplyComposesCTMConvention(t *testing.T) {
	// cm's CTM <- M . CTM convention: applying `cm 2 0 0 2 0 0` (scale by
	// 2) and then `cm 1 0 0 1 10 0` (translate by 10) to the identity CTM
	// makes the later cm act first on user-space points, so a point at
	// (1,0) lands at (22,0): translate to (11,0), then scale to (22,0).
	scale := csstate.Scaling(2, 2)
	translate := csstate.Translation(10, 0)

	ctm := csstate.Identity()
	ctm = scale.Multiply(ctm)
	ctm = translate.Multiply(ctm)

	x, y := ctm.Transform(1, 0)
	assert.Equal(t, 22.0, x)
	assert.Equal(t, 0.0, y)
}

func TestMatrix_InvertRoundTrips(t *testing.T) {
	m := csstate.Matrix{A: 2, B: 0, C: 0, D: 3, E: 10, F: -5}
	inv, ok := m.Invert()
	assert.True(t, ok)

	x, y := m.Transform(4, 5)
	bx, by := inv.Transform(x, y)
	assert.InDelta(t, 4, bx, 1e-9)
	assert.InDelta(t, 5, by, 1e-9)
}

func TestMatrix_InvertSingularFails(t *testing.T) {
	m := csstate.Matrix{A: 0, B: 0, C: 0, D: 0}
	_, ok := m.Invert()
	assert.False(t, ok)
}

func TestMatrix_IsIdentity(t *testing.T) {
	assert.True(t, csstate.Identity().IsIdentity())
	assert.False(t, csstate.Scaling(2, 2).IsIdentity())
}
