package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePNP/internal/export"
)

var (
	exportFlags   projectFlags
	exportOut     string
	exportPage    int
	exportAnchors bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the placed board",
}

var exportSVGCmd = &cobra.Command{
	Use:   "svg",
	Short: "Render the placed board to SVG",
	Long: `Places the board headlessly, as "otp place" does, and writes the visible
outline, component shapes and labels to an SVG file. --page renders the
highlight of one BOM page.`,
	Args: cobra.NoArgs,
	RunE: runExportSVG,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportSVGCmd)

	exportFlags.register(exportSVGCmd)
	exportSVGCmd.Flags().StringVarP(&exportOut, "output", "o", "board.svg", "output file, - for stdout")
	exportSVGCmd.Flags().IntVar(&exportPage, "page", 0, "BOM page to highlight")
	exportSVGCmd.Flags().BoolVar(&exportAnchors, "anchors", false, "include the outline anchors")
}

func runExportSVG(cmd *cobra.Command, args []string) error {
	p, err := exportFlags.load()
	if err != nil {
		return err
	}
	s, err := openSession(cmd, p)
	if err != nil {
		return err
	}
	if !s.SetHighlightPage(exportPage) {
		return fmt.Errorf("page %d out of range (%d pages)", exportPage, s.PageCount())
	}

	opts := export.DefaultOptions()
	opts.Anchors = exportAnchors
	opts.Caption = s.PageLabel()

	if exportOut == "-" {
		return export.SVG(cmd.OutOrStdout(), s.Surface(), p.Palette(), opts)
	}
	f, err := os.Create(exportOut)
	if err != nil {
		return err
	}
	if err := export.SVG(f, s.Surface(), p.Palette(), opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", exportOut)
	return nil
}
