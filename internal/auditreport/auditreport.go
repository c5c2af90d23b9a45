// Package auditreport writes a per-page redaction audit trail to XLSX, one
// row per redaction action. This is the "redaction audit report" ancillary
// interface, not the JSON reporting layer spec.md excludes: it consumes
// exactly the actions/report the core already returns and adds no
// redaction logic of its own.
//
// Grounded on export.ExcelExporter's sheet/style/row idiom, adapted from a
// table-extraction row model to a redaction-action row model.
package auditreport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/coregx/pdfredact/internal/redact"
)

const sheetName = "Redactions"

var columnHeaders = []string{"Page", "Kind", "Term", "Left", "Bottom", "Right", "Top", "Details"}

// Row is one audit-report line: one redaction Action on one page, with the
// target term it is associated with (if any) via the page's RectTerms.
type Row struct {
	Page   int
	Action redact.Action
	Term   string
}

// Build collects rows from a set of pages' results, matching each Action's
// bbox against the page's RectTerm associations on a best-effort basis
// (exact bbox equality; an Action with no matching RectTerm is reported
// with an empty Term).
func Build(pages []PageAudit) []Row {
	var rows []Row
	for _, p := range pages {
		for _, action := range p.Result.Actions {
			term := ""
			for _, rt := range p.RectTerms {
				if rt.Rect == action.BBox {
					term = rt.Term
					break
				}
			}
			rows = append(rows, Row{Page: p.Number, Action: action, Term: term})
		}
	}
	return rows
}

// PageAudit pairs one page's RedactPage Result with the rect/term
// associations its caller's search step produced.
type PageAudit struct {
	Number    int
	Result    *redact.Result
	RectTerms []redact.RectTerm
}

// Write renders rows as an XLSX workbook to w.
func Write(rows []Row, w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("auditreport: rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#EFEFEF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("auditreport: header style: %w", err)
	}

	for i, h := range columnHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("auditreport: header cell: %w", err)
		}
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(columnHeaders), 1)
	if err := f.SetCellStyle(sheetName, "A1", lastCol, headerStyle); err != nil {
		return fmt.Errorf("auditreport: apply header style: %w", err)
	}

	for i, row := range rows {
		r := i + 2
		values := []any{
			row.Page, row.Action.Kind, row.Term,
			row.Action.BBox.Left, row.Action.BBox.Bottom, row.Action.BBox.Right, row.Action.BBox.Top,
			row.Action.Details,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("auditreport: row %d: %w", r, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("auditreport: write: %w", err)
	}
	return nil
}
