package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/coregx/pdfredact"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the CLI version, core module version, and Go runtime details.`,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("pdfredact %s\n", Version)
		fmt.Printf("  Core:    %s\n", pdfredact.Version)
		fmt.Printf("  Go:      %s\n", runtime.Version())
		fmt.Printf("  OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}
