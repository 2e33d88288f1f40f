package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePNP/internal/session"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "otp",
	Short: "OpenTracePNP - pick-and-place projection onto a board image",
	Long: `OpenTracePNP (otp) projects pick-and-place component coordinates onto a
board outline so an assembly can be reviewed against the real PCB.

Examples:
  otp view board.yaml                          # Launch interactive GUI
  otp convert export.txt pcbdata.csv           # Normalize a raw export
  otp place -p board.yaml                      # Headless placement summary
  otp footprints list -p board.yaml            # Footprint coverage
  otp export svg -p board.yaml -o board.svg    # Render to SVG`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// logger returns the diagnostics sink for headless sessions. Without
// --verbose diagnostics are dropped.
func logger(cmd *cobra.Command) session.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(cmd.ErrOrStderr(), "", log.Ltime)
}

func init() {
	// Gio picks its text locale from LANG; LANG=C yields no usable language
	if lang := os.Getenv("LANG"); lang == "" || lang == "C" {
		os.Setenv("LANG", "en_US.UTF-8")
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
