package csops

import (
	"fmt"

	"github.com/coregx/pdfredact/internal/cslex"
	"github.com/coregx/pdfredact/internal/csparse"
	"github.com/coregx/pdfredact/internal/csstate"
	"github.com/coregx/pdfredact/internal/fontinfo"
	"github.com/coregx/pdfredact/internal/geom"
)

// widthFactorFullWidth and widthFactorDefault are the glyph-advance
// fractions of the effective font size used by the layout approximation of
// spec §4.4, since the core never rasterizes real glyph metrics.
const (
	widthFactorFullWidth = 1.0
	widthFactorDefault   = 0.6
)

// FontTable maps a page's font resource names (without the leading '/') to
// resolved font info, per spec §3 ("keyed by both /Name and Name for
// lookup"); callers populate both forms pointing at the same *fontinfo.Info.
type FontTable map[string]*fontinfo.Info

// Interpreter drives operator handlers that mutate a csstate.State and
// build the typed Operation list of spec §3/§4.4-4.5.
type Interpreter struct {
	state *csstate.State
	stack csstate.Stack
	fonts FontTable

	subpaths   [][]geom.Point
	current    []geom.Point
	subpathPos geom.Point // current pen position, user space

	ops      []Operation
	warnings []string
}

// New creates an Interpreter for a page whose font table is fonts.
func New(fonts FontTable) *Interpreter {
	return &Interpreter{state: csstate.New(), fonts: fonts}
}

// Warnings returns recoverable issues encountered while interpreting
// (unknown fonts, malformed operands), mirroring the lex/parse tolerance
// policy instead of aborting.
func (ip *Interpreter) Warnings() []string { return ip.warnings }

// Run interprets operators in order and returns the typed Operation list.
func (ip *Interpreter) Run(operators []*csparse.Operator) []Operation {
	for _, op := range operators {
		ip.dispatch(op)
	}
	return ip.ops
}

func (ip *Interpreter) warn(format string, args ...any) {
	ip.warnings = append(ip.warnings, fmt.Sprintf(format, args...))
}

//nolint:cyclop // Operator dispatch is inherently a large switch, matching token.go's own style.
func (ip *Interpreter) dispatch(op *csparse.Operator) {
	switch op.Name {
	case "q":
		ip.stack.Push(ip.state)
		ip.emitRaw(op, KindState)
	case "Q":
		if restored := ip.stack.Pop(); restored != nil {
			ip.state = restored
		}
		ip.emitRaw(op, KindState)
	case "cm":
		if m, ok := ip.matrixOperand(op); ok {
			ip.state.ApplyCTM(m)
		}
		ip.emitRaw(op, KindState)

	case "BT":
		ip.state.BeginText()
		ip.emitRaw(op, KindTextState)
	case "ET":
		ip.state.EndText()
		ip.emitRaw(op, KindTextState)
	case "Tf":
		ip.handleTf(op)
		ip.emitRaw(op, KindTextState)
	case "Td":
		if f := ip.floats(op); len(f) == 2 {
			ip.state.TranslateLine(f[0], f[1])
		}
		ip.emitRaw(op, KindTextState)
	case "TD":
		if f := ip.floats(op); len(f) == 2 {
			ip.state.Leading = -f[1]
			ip.state.TranslateLine(f[0], f[1])
		}
		ip.emitRaw(op, KindTextState)
	case "Tm":
		if f := ip.floats(op); len(f) == 6 {
			ip.state.SetTextMatrix(csstate.Matrix{A: f[0], B: f[1], C: f[2], D: f[3], E: f[4], F: f[5]})
		}
		ip.emitRaw(op, KindTextState)
	case "T*":
		ip.state.NextLine()
		ip.emitRaw(op, KindTextState)
	case "Tc":
		ip.setScalar(op, &ip.state.CharSpace)
		ip.emitRaw(op, KindTextState)
	case "Tw":
		ip.setScalar(op, &ip.state.WordSpace)
		ip.emitRaw(op, KindTextState)
	case "Tz":
		ip.setScalar(op, &ip.state.HorizScale)
		ip.emitRaw(op, KindTextState)
	case "TL":
		ip.setScalar(op, &ip.state.Leading)
		ip.emitRaw(op, KindTextState)
	case "Ts":
		ip.setScalar(op, &ip.state.Rise)
		ip.emitRaw(op, KindTextState)
	case "Tr":
		if f := ip.floats(op); len(f) == 1 {
			ip.state.RenderMode = csstate.TextRenderMode(int(f[0]))
		}
		ip.emitRaw(op, KindTextState)

	case "Tj", "TJ", "'", "\"":
		ip.handleShow(op)

	case "m":
		ip.handleMoveTo(op)
	case "l":
		ip.handleLineTo(op)
	case "c":
		ip.handleCurve(op, true, true)
	case "v":
		ip.handleCurve(op, false, true)
	case "y":
		ip.handleCurve(op, true, false)
	case "re":
		ip.handleRect(op)
	case "h":
		ip.closeSubpath()

	case "S", "s", "f", "F", "f*", "B", "B*", "b", "b*", "n":
		ip.handlePaint(op)

	case "Do":
		ip.handleDo(op)
	case "BI":
		ip.handleInlineImage(op)

	default:
		// Color-space, marked-content, compatibility, and other state
		// operators are preserved verbatim; they are never redacted.
		ip.emitRaw(op, KindState)
	}
}

func (ip *Interpreter) emitRaw(op *csparse.Operator, kind Kind) {
	ip.ops = append(ip.ops, Operation{
		Kind:     kind,
		Position: op.Position,
		BBox:     geom.Empty,
		Raw:      &Raw{Name: op.Name, Operands: op.Operands},
	})
}

func (ip *Interpreter) setScalar(op *csparse.Operator, dst *float64) {
	if f := ip.floats(op); len(f) == 1 {
		*dst = f[0]
	}
}

func (ip *Interpreter) handleTf(op *csparse.Operator) {
	if len(op.Operands) != 2 {
		ip.warn("csops: Tf expects 2 operands, got %d", len(op.Operands))
		return
	}
	name, ok := op.Operands[0].(*cslex.Name)
	if !ok {
		ip.warn("csops: Tf first operand is not a name")
		return
	}
	size, ok := numberValue(op.Operands[1])
	if !ok {
		ip.warn("csops: Tf second operand is not a number")
		return
	}
	ip.state.FontName = name.Value()
	ip.state.FontSize = size
}

func (ip *Interpreter) matrixOperand(op *csparse.Operator) (csstate.Matrix, bool) {
	f := ip.floats(op)
	if len(f) != 6 {
		ip.warn("csops: %s expects 6 numeric operands, got %d", op.Name, len(f))
		return csstate.Matrix{}, false
	}
	return csstate.Matrix{A: f[0], B: f[1], C: f[2], D: f[3], E: f[4], F: f[5]}, true
}

func (ip *Interpreter) floats(op *csparse.Operator) []float64 {
	out := make([]float64, 0, len(op.Operands))
	for _, operand := range op.Operands {
		v, ok := numberValue(operand)
		if !ok {
			ip.warn("csops: %s operand %s is not numeric", op.Name, operand.String())
			continue
		}
		out = append(out, v)
	}
	return out
}

func numberValue(obj cslex.PdfObject) (float64, bool) {
	switch v := obj.(type) {
	case *cslex.Integer:
		return float64(v.Value()), true
	case *cslex.Real:
		return v.Value(), true
	default:
		return 0, false
	}
}
