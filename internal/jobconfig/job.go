// Package jobconfig loads a redaction job file into the inputs the core
// API expects: a PageInput per page, built from caller-supplied content
// streams, font tables, and redaction rectangles.
//
// This is the ancillary "caller" side spec §6 describes but deliberately
// leaves unspecified: generic PDF file I/O is out of the core's scope, so
// this package speaks in already-decompressed content-stream files and
// YAML-described font resources rather than real PDF objects. Grounded on
// the teacher's own configuration idiom (gopkg.in/yaml.v3, already an
// indirect dependency in its go.mod) rather than introducing a JSON config
// convention the teacher never uses.
package jobconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/coregx/pdfredact/internal/csops"
	"github.com/coregx/pdfredact/internal/fontinfo"
	"github.com/coregx/pdfredact/internal/geom"
	"github.com/coregx/pdfredact/internal/redact"
)

// FontSpec describes one /Resources /Font entry in the job file.
type FontSpec struct {
	Subtype       string `yaml:"subtype"`
	BaseFont      string `yaml:"baseFont"`
	Encoding      string `yaml:"encoding"`
	IsCID         bool   `yaml:"isCID"`
	ToUnicodeFile string `yaml:"toUnicodeFile"`
}

// RectSpec describes one redaction rectangle, optionally tagged with the
// target term it was derived from (the caller's search step, kept outside
// the core per spec.md's Non-goals).
type RectSpec struct {
	Left   float64 `yaml:"left"`
	Bottom float64 `yaml:"bottom"`
	Right  float64 `yaml:"right"`
	Top    float64 `yaml:"top"`
	Term   string  `yaml:"term"`
}

// XObjectSpec describes one /Resources /XObject image entry.
type XObjectSpec struct {
	Width            int    `yaml:"width"`
	Height           int    `yaml:"height"`
	ColorSpace       string `yaml:"colorSpace"`
	BitsPerComponent int    `yaml:"bitsPerComponent"`
	DataFile         string `yaml:"dataFile"`
}

// PageSpec describes one page's redaction request as read from the job
// file; paths are resolved relative to the job file's directory.
type PageSpec struct {
	Number   int                    `yaml:"number"`
	Content  string                 `yaml:"content"`
	Output   string                 `yaml:"output"`
	Fonts    map[string]FontSpec    `yaml:"fonts"`
	XObjects map[string]XObjectSpec `yaml:"xobjects"`
	Rects    []RectSpec             `yaml:"rects"`
	Terms    []string               `yaml:"terms"`
}

// Job is the top-level job file schema.
type Job struct {
	Pages []PageSpec `yaml:"pages"`
	Audit string     `yaml:"audit"` // optional xlsx audit report path
}

// Load reads and decodes a job file at path.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jobconfig: read %s: %w", path, err)
	}
	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("jobconfig: parse %s: %w", path, err)
	}
	if len(job.Pages) == 0 {
		return nil, fmt.Errorf("jobconfig: %s: no pages", path)
	}
	job.resolvePaths(filepath.Dir(path))
	return &job, nil
}

func (j *Job) resolvePaths(base string) {
	if j.Audit != "" {
		j.Audit = resolvePath(base, j.Audit)
	}
	for i := range j.Pages {
		p := &j.Pages[i]
		p.Content = resolvePath(base, p.Content)
		p.Output = resolvePath(base, p.Output)
		for name, f := range p.Fonts {
			if f.ToUnicodeFile != "" {
				f.ToUnicodeFile = resolvePath(base, f.ToUnicodeFile)
				p.Fonts[name] = f
			}
		}
		for name, x := range p.XObjects {
			if x.DataFile != "" {
				x.DataFile = resolvePath(base, x.DataFile)
				p.XObjects[name] = x
			}
		}
	}
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// PageInputs builds every page's core inputs: the decompressed content
// bytes, resolved font table, redaction rectangles, and target terms. It
// also returns the RectTerm associations the caller's search step
// produced, for the audit report.
func (j *Job) PageInputs() ([]PageRequest, error) {
	reqs := make([]PageRequest, 0, len(j.Pages))
	for _, spec := range j.Pages {
		req, err := buildPageRequest(spec)
		if err != nil {
			return nil, fmt.Errorf("jobconfig: page %d: %w", spec.Number, err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// PageRequest is one page's fully-resolved redaction inputs plus the
// bookkeeping the CLI needs to write results back out.
type PageRequest struct {
	Number    int
	Output    string
	Content   []byte
	Fonts     csops.FontTable
	XObjects  redact.XObjectTable
	Rects     []geom.Rectangle
	Terms     []string
	RectTerms []redact.RectTerm
}

func buildPageRequest(spec PageSpec) (PageRequest, error) {
	content, err := os.ReadFile(spec.Content)
	if err != nil {
		return PageRequest{}, fmt.Errorf("read content %s: %w", spec.Content, err)
	}

	fonts := make(csops.FontTable, len(spec.Fonts)*2)
	for name, fs := range spec.Fonts {
		info := &fontinfo.Info{
			Name:             name,
			Subtype:          fs.Subtype,
			BaseFont:         fs.BaseFont,
			DeclaredEncoding: fs.Encoding,
			IsCID:            fs.IsCID,
		}
		if fs.ToUnicodeFile != "" {
			data, rerr := os.ReadFile(fs.ToUnicodeFile)
			if rerr != nil {
				return PageRequest{}, fmt.Errorf("font %s: read ToUnicode: %w", name, rerr)
			}
			cmap, perr := fontinfo.ParseToUnicodeCMap(data)
			if perr != nil {
				return PageRequest{}, fmt.Errorf("font %s: %w", name, perr)
			}
			info.CMap = cmap
		}
		fonts[name] = info
		fonts["/"+name] = info
	}

	xobjects := make(redact.XObjectTable, len(spec.XObjects))
	for name, xs := range spec.XObjects {
		data, rerr := os.ReadFile(xs.DataFile)
		if rerr != nil {
			return PageRequest{}, fmt.Errorf("xobject %s: read data: %w", name, rerr)
		}
		xobjects[name] = &redact.XObjectInfo{
			Width:            xs.Width,
			Height:           xs.Height,
			ColorSpace:       xs.ColorSpace,
			BitsPerComponent: xs.BitsPerComponent,
			Data:             data,
		}
	}

	rects := make([]geom.Rectangle, 0, len(spec.Rects))
	rectTerms := make([]redact.RectTerm, 0, len(spec.Rects))
	for _, r := range spec.Rects {
		rect := geom.NewRectangle(r.Left, r.Bottom, r.Right, r.Top)
		rects = append(rects, rect)
		if r.Term != "" {
			rectTerms = append(rectTerms, redact.RectTerm{Rect: rect, Term: r.Term})
		}
	}

	return PageRequest{
		Number:    spec.Number,
		Output:    spec.Output,
		Content:   content,
		Fonts:     fonts,
		XObjects:  xobjects,
		Rects:     rects,
		Terms:     spec.Terms,
		RectTerms: rectTerms,
	}, nil
}
