package csstate

// TextRenderMode is the value of the `Tr` operator's operand.
type TextRenderMode int

// State is the complete per-page graphics/text state tracked while a
// content stream is interpreted. Unlike the extraction-only state the
// teacher codebase tracks (which has no CTM field at all — it layers text
// placement directly on the text matrix), redaction needs the CTM composed
// with Tm to place glyph, path, and image boxes in page space, so CTM is
// tracked here as a first-class field alongside TextMatrix/TextLineMatrix.
type State struct {
	// CTM is the current transformation matrix, updated by `cm` and saved/
	// restored by `q`/`Q`.
	CTM Matrix

	// TextMatrix and TextLineMatrix are reset to identity by `BT` and
	// updated by `Td`, `TD`, `Tm`, `T*`, and every text-showing operator.
	TextMatrix     Matrix
	TextLineMatrix Matrix

	// FontName and FontSize are the operands of the most recent `Tf`. This
	// is always the RAW size — never scaled by the text matrix. See
	// EffectiveFontSize.
	FontName string
	FontSize float64

	CharSpace   float64 // Tc
	WordSpace   float64 // Tw
	HorizScale  float64 // Tz, percent, default 100
	Leading     float64 // TL
	RenderMode  TextRenderMode
	Rise        float64 // Ts
	InTextBlock bool     // true between BT and ET

	// LineWidth is painting state, tracked only because `q`/`Q` must
	// restore it. Color is not tracked here; the redaction engine does not
	// interpret color operands beyond preserving them verbatim.
	LineWidth float64
}

// New returns the initial state at the start of a content stream.
func New() *State {
	return &State{
		CTM:        Identity(),
		HorizScale: 100,
		LineWidth:  1,
	}
}

// Clone returns a deep copy of the state, used by the q/Q stack.
func (s *State) Clone() *State {
	clone := *s
	return &clone
}

// BeginText applies the effect of a `BT` operator: reset both text
// matrices to identity. Font, spacing, and rendering parameters are NOT
// reset (they persist across text objects, per spec).
func (s *State) BeginText() {
	s.TextMatrix = Identity()
	s.TextLineMatrix = Identity()
	s.InTextBlock = true
}

// EndText applies the effect of an `ET` operator.
func (s *State) EndText() {
	s.InTextBlock = false
}

// SetTextMatrix applies a `Tm` operator: both text matrices are set to the
// given affine transform.
func (s *State) SetTextMatrix(m Matrix) {
	s.TextMatrix = m
	s.TextLineMatrix = m
}

// TranslateLine applies the positioning performed by `Td`: the text line
// matrix is translated by (tx, ty) and the text matrix is reset to match.
func (s *State) TranslateLine(tx, ty float64) {
	s.TextLineMatrix = Translation(tx, ty).Multiply(s.TextLineMatrix)
	s.TextMatrix = s.TextLineMatrix
}

// NextLine applies `T*`: move to the start of the next line using the
// current leading.
func (s *State) NextLine() {
	s.TranslateLine(0, -s.Leading)
}

// AdvanceText moves the text matrix origin by (tx, 0) in text space, the
// effect every text-showing operator has on TextMatrix after laying out
// its glyphs.
func (s *State) AdvanceText(tx float64) {
	s.TextMatrix = Translation(tx, 0).Multiply(s.TextMatrix)
}

// EffectiveFontSize returns the raw font size scaled by the text matrix's
// Y-scale component, per spec: "A text-showing operator's effective font
// size is Tf_size × |Tm.d|."
func (s *State) EffectiveFontSize() float64 {
	return s.FontSize * absf(s.TextMatrix.D)
}

// ApplyCTM applies a `cm` operator: CTM ← M · CTM.
func (s *State) ApplyCTM(m Matrix) {
	s.CTM = m.Multiply(s.CTM)
}

// Stack implements the q/Q save/restore discipline. Pushing beyond what
// was saved, or popping past empty, is tolerated: an unbalanced `Q` is
// ignored rather than panicking, matching the resource-discipline note in
// the concurrency/resource model ("the parser rejects unbalanced Q by
// ignoring it").
type Stack struct {
	frames []*State
}

// Push saves a copy of the current state.
func (st *Stack) Push(s *State) {
	st.frames = append(st.frames, s.Clone())
}

// Pop restores the most recently saved state, returning it. If the stack
// is empty, it returns nil and does nothing (unbalanced Q is ignored).
func (st *Stack) Pop() *State {
	if len(st.frames) == 0 {
		return nil
	}
	n := len(st.frames) - 1
	frame := st.frames[n]
	st.frames = st.frames[:n]
	return frame
}

// Depth returns the number of saved frames.
func (st *Stack) Depth() int {
	return len(st.frames)
}
