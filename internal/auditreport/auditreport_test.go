package auditreport_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/coregx/pdfredact/internal/auditreport"
	"github.com/coregx/pdfredact/internal/geom"
	"github.com/coregx/pdfredact/internal/redact"
)

func TestBuild_MatchesActionToRectTermByExactBBox(t *testing.T) {
	rect := geom.NewRectangle(0, 0, 10, 10)
	other := geom.NewRectangle(20, 20, 30, 30)

	pages := []auditreport.PageAudit{
		{
			Number: 1,
			Result: &redact.Result{
				Actions: []redact.Action{
					{Kind: "text", BBox: rect},
					{Kind: "path", BBox: other},
				},
			},
			RectTerms: []redact.RectTerm{
				{Rect: rect, Term: "SSN"},
			},
		},
	}

	rows := auditreport.Build(pages)
	require.Len(t, rows, 2)
	assert.Equal(t, "SSN", rows[0].Term)
	assert.Equal(t, "", rows[1].Term, "an action with no matching rect/term pair reports an empty term")
}

func TestWrite_ProducesReadableWorkbookWithHeaderAndRows(t *testing.T) {
	rows := []auditreport.Row{
		{
			Page: 1,
			Action: redact.Action{
				Kind: "text",
				BBox: geom.NewRectangle(1, 2, 3, 4),
			},
			Term: "World",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, auditreport.Write(rows, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetRows("Redactions")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(header), 2)

	assert.Equal(t, []string{"Page", "Kind", "Term", "Left", "Bottom", "Right", "Top", "Details"}, header[0])
	assert.Equal(t, "1", header[1][0])
	assert.Equal(t, "text", header[1][1])
	assert.Equal(t, "World", header[1][2])
}
