// Package commands implements the pdfredact CLI commands.
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coregx/pdfredact/internal/redact"
)

var (
	// Version is the application version (set at build time).
	Version = "dev"

	// verbose enables per-page progress output.
	verbose bool
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "pdfredact",
	Short: "pdfredact - true content-level PDF redaction",
	Long: `pdfredact rewrites PDF content streams so that redacted text, vector
shapes, and image regions cannot be recovered by copy-paste or search.

Unlike a visual-overlay redactor, it operates on the operator stream
itself: it parses, classifies, and reconstructs only the operators that
intersect the caller's redaction rectangles.

Examples:
  pdfredact redact job.yaml
  pdfredact redact job.yaml --audit report.xlsx

Documentation: https://github.com/coregx/pdfredact`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Exit codes, per spec §6: 0 success, 1 invocation/usage error, 2
// verification failure.
const (
	ExitOK               = 0
	ExitUsageError       = 1
	ExitVerificationFail = 2
)

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, redact.ErrVerificationFailed) {
		fmt.Fprintln(os.Stderr, "pdfredact:", err)
		return ExitVerificationFail
	}
	fmt.Fprintln(os.Stderr, "pdfredact:", err)
	return ExitUsageError
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(redactCmd)
}

// printVerbosef prints a message if verbose mode is enabled.
func printVerbosef(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
