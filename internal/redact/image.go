package redact

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/coregx/pdfredact/internal/cslex"
	"github.com/coregx/pdfredact/internal/csops"
	"github.com/coregx/pdfredact/internal/cswriter"
	"github.com/coregx/pdfredact/internal/encoding"
	"github.com/coregx/pdfredact/internal/geom"
)

// XObjectInfo describes one page's /Resources /XObject image entry: its
// declared dimensions and color space, plus the already-decompressed
// stream bytes (the core assumes the caller has undone /FlateDecode etc;
// a /DCTDecode filter leaves Data as still-encoded JPEG bytes; JPEG and PNG
// data are detected by magic number, and other still-encoded data such as
// /JPXDecode output is not decoded).
type XObjectInfo struct {
	Width, Height    int
	ColorSpace       string // DeviceGray, DeviceRGB, DeviceCMYK
	BitsPerComponent int
	Data             []byte
}

// XObjectTable maps a page's XObject resource names to their image info.
type XObjectTable map[string]*XObjectInfo

// ImageResult is the replacement stream produced for one redacted XObject
// image, keyed by XObject name in the caller-facing report.
type ImageResult struct {
	Data             []byte
	Width, Height    int
	ColorSpace       string
	BitsPerComponent int
}

// RedactImage implements C9 (spec §4.8) for one ImageOp whose bbox
// intersects a redaction rectangle. For an XObject image it returns an
// ImageResult to be keyed by name in the caller's report; for an inline
// image it returns the replacement BI RawOp to splice directly into the
// operator stream. Decode or encode failure drops the image rather than
// leaking it, per spec §4.10's failure semantics — the caller distinguishes
// this from success by a non-nil error.
func RedactImage(op csops.Operation, rects []geom.Rectangle, xobjects XObjectTable) (*ImageResult, *cswriter.RawOp, error) {
	img := op.Image
	if img == nil {
		return nil, nil, nil
	}

	width, height, bpc, colorSpace, data, ok := imageSource(img, xobjects)
	if !ok {
		return nil, nil, newError(KindImage, "image", fmt.Errorf("no source for %s", imageLabel(img)))
	}
	if width <= 0 || height <= 0 {
		return nil, nil, newError(KindImage, "image", fmt.Errorf("invalid dimensions %dx%d", width, height))
	}

	rgb, err := decodePixels(data, width, height, bpc, colorSpace)
	if err != nil {
		return nil, nil, newError(KindImage, "image", err)
	}

	for _, r := range rects {
		if !op.BBox.Intersects(r) {
			continue
		}
		paintBlackRegion(rgb, width, height, op.BBox, intersectRect(op.BBox, r))
	}

	if img.IsInline {
		return nil, inlineReplacement(img, rgb, op.Position), nil
	}

	flate := encoding.NewFlateDecoder()
	compressed, err := flate.Encode(rgb)
	if err != nil {
		return nil, nil, newError(KindImage, "image", err)
	}
	return &ImageResult{Data: compressed, Width: width, Height: height, ColorSpace: "DeviceRGB", BitsPerComponent: 8}, nil, nil
}

func imageLabel(img *csops.ImageShow) string {
	if img.IsInline {
		return "inline image"
	}
	return img.XObjectName
}

func imageSource(img *csops.ImageShow, xobjects XObjectTable) (width, height, bpc int, colorSpace string, data []byte, ok bool) {
	if img.IsInline {
		d := img.InlineDict
		width = firstNonZeroInt(d, "Width", "W")
		height = firstNonZeroInt(d, "Height", "H")
		bpc = firstNonZeroInt(d, "BitsPerComponent", "BPC")
		if bpc == 0 {
			bpc = 8
		}
		colorSpace = firstName(d, "ColorSpace", "CS")
		return width, height, bpc, colorSpace, img.InlineRaw, true
	}
	info := xobjects[img.XObjectName]
	if info == nil {
		return 0, 0, 0, "", nil, false
	}
	return info.Width, info.Height, info.BitsPerComponent, info.ColorSpace, info.Data, true
}

func firstNonZeroInt(d *cslex.Dictionary, names ...string) int {
	for _, n := range names {
		if v := d.GetInteger(n); v != 0 {
			return int(v)
		}
	}
	return 0
}

func firstName(d *cslex.Dictionary, names ...string) string {
	for _, n := range names {
		if name := d.GetName(n); name != nil {
			return name.Value()
		}
	}
	return ""
}

// decodePixels implements spec §4.8 step 2's decode paths, returning 8bpc
// DeviceRGB, top-down row order.
func decodePixels(data []byte, width, height, bpc int, colorSpace string) ([]byte, error) {
	if isJPEG(data) {
		result, err := encoding.NewDCTDecoder().DecodeWithMetadata(data)
		if err != nil {
			return nil, fmt.Errorf("decode embedded JPEG: %w", err)
		}
		return rgbFromDCTResult(result, width, height), nil
	}
	if isPNG(data) {
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode embedded PNG: %w", err)
		}
		return rgbFromImage(img, width, height), nil
	}

	switch {
	case bpc == 8 && strings.EqualFold(colorSpace, "DeviceGray"):
		return grayToRGB(data, width, height), nil
	case bpc == 8 && (strings.EqualFold(colorSpace, "DeviceRGB") || colorSpace == ""):
		return rgbPassthrough(data, width, height), nil
	case bpc == 8 && strings.EqualFold(colorSpace, "DeviceCMYK"):
		return cmykToRGB(data, width, height), nil
	default:
		return nil, fmt.Errorf("unsupported image encoding: colorspace=%q bpc=%d", colorSpace, bpc)
	}
}

func isJPEG(b []byte) bool {
	return len(b) >= 2 && b[0] == 0xFF && b[1] == 0xD8
}

func isPNG(b []byte) bool {
	sig := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}
	return len(b) >= len(sig) && bytes.Equal(b[:len(sig)], sig)
}

func rgbFromImage(img image.Image, width, height int) []byte {
	out := make([]byte, width*height*3)
	b := img.Bounds()
	idx := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var r, g, bl uint32
			if x < b.Dx() && y < b.Dy() {
				r, g, bl, _ = img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			}
			out[idx], out[idx+1], out[idx+2] = byte(r>>8), byte(g>>8), byte(bl>>8)
			idx += 3
		}
	}
	return out
}

// rgbFromDCTResult converts a decoded JPEG's 1- or 3-component pixel buffer
// into the 8bpc DeviceRGB layout the rest of the redaction path expects,
// clamped to the XObject's declared dimensions rather than the decoded
// image's own (the two should agree, but a mismatched /Width or /Height in
// the resource dictionary must not read past the decoded buffer).
func rgbFromDCTResult(result *encoding.DCTResult, width, height int) []byte {
	out := make([]byte, width*height*3)
	idx := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < result.Width && y < result.Height {
				src := y*result.Width + x
				if result.Components == 1 {
					if src < len(result.Data) {
						v := result.Data[src]
						out[idx], out[idx+1], out[idx+2] = v, v, v
					}
				} else {
					si := src * 3
					if si+2 < len(result.Data) {
						out[idx], out[idx+1], out[idx+2] = result.Data[si], result.Data[si+1], result.Data[si+2]
					}
				}
			}
			idx += 3
		}
	}
	return out
}

func grayToRGB(data []byte, width, height int) []byte {
	out := make([]byte, width*height*3)
	n := width * height
	for i := 0; i < n && i < len(data); i++ {
		v := data[i]
		out[i*3], out[i*3+1], out[i*3+2] = v, v, v
	}
	return out
}

func rgbPassthrough(data []byte, width, height int) []byte {
	need := width * height * 3
	out := make([]byte, need)
	copy(out, data)
	return out
}

// cmykToRGB implements spec §4.8's conversion: R = 255·(1−C/255)·(1−K/255),
// symmetrically for G, B.
func cmykToRGB(data []byte, width, height int) []byte {
	out := make([]byte, width*height*3)
	n := width * height
	for i := 0; i < n && i*4+3 < len(data); i++ {
		c, m, y, k := float64(data[i*4]), float64(data[i*4+1]), float64(data[i*4+2]), float64(data[i*4+3])
		out[i*3] = byte(255 * (1 - c/255) * (1 - k/255))
		out[i*3+1] = byte(255 * (1 - m/255) * (1 - k/255))
		out[i*3+2] = byte(255 * (1 - y/255) * (1 - k/255))
	}
	return out
}

// intersectRect returns the overlap of a and b (callers only invoke this
// after confirming a.Intersects(b)).
func intersectRect(a, b geom.Rectangle) geom.Rectangle {
	return geom.NewRectangle(
		maxf(a.Left, b.Left), maxf(a.Bottom, b.Bottom),
		minf(a.Right, b.Right), minf(a.Top, b.Top),
	)
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// paintBlackRegion implements spec §4.8 step 1's coordinate transform
// (scaleX = width/bbox.width, scaleY = height/bbox.height, PDF Y bottom-up
// vs. image Y top-down) and step 3's opaque black fill.
func paintBlackRegion(rgb []byte, width, height int, bbox, intersection geom.Rectangle) {
	if bbox.Width() <= 0 || bbox.Height() <= 0 {
		return
	}
	scaleX := float64(width) / bbox.Width()
	scaleY := float64(height) / bbox.Height()

	x0 := clampInt(int((intersection.Left-bbox.Left)*scaleX), 0, width)
	x1 := clampInt(int((intersection.Right-bbox.Left)*scaleX+0.5), 0, width)
	y0 := clampInt(int((bbox.Top-intersection.Top)*scaleY), 0, height)
	y1 := clampInt(int((bbox.Top-intersection.Bottom)*scaleY+0.5), 0, height)

	for y := y0; y < y1; y++ {
		rowStart := y * width * 3
		for x := x0; x < x1; x++ {
			i := rowStart + x*3
			rgb[i], rgb[i+1], rgb[i+2] = 0, 0, 0
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// inlineReplacement implements spec §4.8 step 4's inline re-emission:
// `/CS /RGB /BPC 8 /F /AHx` with uppercase hex sample bytes.
func inlineReplacement(img *csops.ImageShow, rgb []byte, pos int) *cswriter.RawOp {
	dict := cslex.NewDictionary()
	dict.SetName("CS", "RGB")
	dict.SetInteger("BPC", 8)
	dict.SetName("F", "AHx")
	if w := firstNonZeroInt(img.InlineDict, "Width", "W"); w != 0 {
		dict.SetInteger("W", int64(w))
	}
	if h := firstNonZeroInt(img.InlineDict, "Height", "H"); h != 0 {
		dict.SetInteger("H", int64(h))
	}

	hexBytes := []byte(strings.ToUpper(hex.EncodeToString(rgb)))
	return &cswriter.RawOp{
		Name:     "BI",
		Operands: []cslex.PdfObject{dict, cslex.NewStringBytes(hexBytes)},
		Position: pos,
	}
}
