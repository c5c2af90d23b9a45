package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coregx/pdfredact"
	"github.com/coregx/pdfredact/internal/auditreport"
	"github.com/coregx/pdfredact/internal/csops"
	"github.com/coregx/pdfredact/internal/csparse"
	"github.com/coregx/pdfredact/internal/jobconfig"
	"github.com/coregx/pdfredact/internal/redact"
)

var auditPath string

var redactCmd = &cobra.Command{
	Use:   "redact <job.yaml>",
	Short: "Run content-level redaction over the pages in a job file",
	Long: `redact reads a job file naming one or more pages, each with its
content-stream bytes, font table, redaction rectangles, and target terms,
and runs the core redaction pipeline over every page.

The rewritten content stream is written to each page's configured output
path. A page whose verification pass finds a target term still extractable
inside a redaction rectangle is reported and causes a non-zero exit.`,
	Args: cobra.ExactArgs(1),
	RunE: runRedact,
}

func init() {
	redactCmd.Flags().StringVar(&auditPath, "audit", "", "write an XLSX audit report of every redaction action to this path")
}

func runRedact(_ *cobra.Command, args []string) error {
	job, err := jobconfig.Load(args[0])
	if err != nil {
		return err
	}
	if job.Audit != "" && auditPath == "" {
		auditPath = job.Audit
	}

	requests, err := job.PageInputs()
	if err != nil {
		return err
	}

	var audits []auditreport.PageAudit
	verificationFailed := false

	for _, req := range requests {
		printVerbosef("redacting page %d (%d rect(s))", req.Number, len(req.Rects))

		result, rerr := pdfredact.RedactPage(req.Content, req.Fonts, req.XObjects, req.Rects, req.Terms)
		if rerr != nil {
			return fmt.Errorf("page %d: %w", req.Number, rerr)
		}

		if req.Output != "" {
			if werr := os.WriteFile(req.Output, result.Content, 0o644); werr != nil {
				return fmt.Errorf("page %d: write output: %w", req.Number, werr)
			}
		}

		if result.Verification.Status == redact.StatusTermStillExtractable {
			verificationFailed = true
			for _, f := range result.Verification.Failures {
				fmt.Fprintf(os.Stderr, "page %d: term %q still extractable in %v\n", req.Number, f.Term, f.BBox)
			}
		}

		warnPageCapability(req.Number, req.Content, req.Fonts)

		audits = append(audits, auditreport.PageAudit{Number: req.Number, Result: result, RectTerms: req.RectTerms})
	}

	if auditPath != "" {
		if werr := writeAudit(audits, auditPath); werr != nil {
			return werr
		}
	}

	if verificationFailed {
		return fmt.Errorf("redact: %w", redact.ErrVerificationFailed)
	}
	return nil
}

// warnPageCapability surfaces gopdfsuit-style page-capability analysis: a
// page with no extractable text can only ever be redacted by rectangle,
// since there is no text for the verifier to re-check.
func warnPageCapability(pageNum int, content []byte, fonts csops.FontTable) {
	operators, _, err := csparse.New(content).ParseAll()
	if err != nil {
		return
	}
	ops := csops.New(fonts).Run(operators)
	capability := redact.ClassifyPage(ops)
	if capability.Type == "image_only" {
		printVerbosef("page %d is image-only; rectangles are honored but no term search is possible", pageNum)
	}
}

func writeAudit(audits []auditreport.PageAudit, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audit: create %s: %w", path, err)
	}
	defer f.Close()

	rows := auditreport.Build(audits)
	if err := auditreport.Write(rows, f); err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	return nil
}
