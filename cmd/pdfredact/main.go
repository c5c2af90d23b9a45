// Package main provides the pdfredact command-line interface.
//
// pdfredact is a thin wrapper around the github.com/coregx/pdfredact core:
// it reads a redaction job file (content streams, font tables, redaction
// rectangles, target terms) and calls RedactPage for each page, per spec
// §6's "ancillary interfaces" note that a CLI and reporting layer consume
// the core API from outside.
//
// Usage:
//
//	pdfredact redact job.yaml
//
// Use "pdfredact [command] --help" for more information about a command.
package main

import (
	"os"

	"github.com/coregx/pdfredact/cmd/pdfredact/commands"
)

func main() {
	os.Exit(commands.Execute())
}
