package csstate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/pdfredact/internal/csstate"
)

func TestState_New_Defaults(t *testing.T) {
	s := csstate.New()
	assert.True(t, s.CTM.IsIdentity())
	assert.Equal(t, 100.0, s.HorizScale)
	assert.Equal(t, 1.0, s.LineWidth)
}

func TestState_EffectiveFontSize_ScaledByTextMatrixD(t *testing.T) {
	s := csstate.New()
	s.FontSize = 12
	s.SetTextMatrix(csstate.Scaling(1, 2))
	assert.Equal(t, 24.0, s.EffectiveFontSize())
}

func TestState_BeginText_ResetsMatricesNotFontState(t *testing.T) {
	s := csstate.New()
	s.FontSize = 12
	s.FontName = "F1"
	s.TranslateLine(50, 60)

	s.BeginText()

	assert.True(t, s.TextMatrix.IsIdentity())
	assert.True(t, s.TextLineMatrix.IsIdentity())
	assert.Equal(t, 12.0, s.FontSize)
	assert.Equal(t, "F1", s.FontName)
	assert.True(t, s.InTextBlock)
}

func TestState_TranslateLine_SetsBothMatrices(t *testing.T) {
	s := csstate.New()
	s.BeginText()
	s.TranslateLine(10, 20)

	x, y := s.TextMatrix.Transform(0, 0)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, 20.0, y)

	lx, ly := s.TextLineMatrix.Transform(0, 0)
	assert.Equal(t, x, lx)
	assert.Equal(t, y, ly)
}

func TestState_NextLine_UsesLeading(t *testing.T) {
	s := csstate.New()
	s.BeginText()
	s.Leading = 14
	s.TranslateLine(0, 0)
	s.NextLine()

	_, y := s.TextMatrix.Transform(0, 0)
	assert.Equal(t, -14.0, y)
}

func TestState_AdvanceText(t *testing.T) {
	s := csstate.New()
	s.BeginText()
	s.AdvanceText(7.2)

	x, _ := s.TextMatrix.Transform(0, 0)
	assert.Equal(t, 7.2, x)
}

func TestState_Clone_IsIndependent(t *testing.T) {
	s := csstate.New()
	s.FontSize = 10
	clone := s.Clone()
	clone.FontSize = 20

	assert.Equal(t, 10.0, s.FontSize)
	assert.Equal(t, 20.0, clone.FontSize)
}

func TestStack_PushPopRestoresState(t *testing.T) {
	var stack csstate.Stack
	s := csstate.New()
	s.FontSize = 12

	stack.Push(s)
	s.FontSize = 99

	restored := stack.Pop()
	require.NotNil(t, restored)
	assert.Equal(t, 12.0, restored.FontSize)
	assert.Equal(t, 0, stack.Depth())
}

func TestStack_UnbalancedPopReturnsNil(t *testing.T) {
	var stack csstate.Stack
	assert.Nil(t, stack.Pop())
}
