package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	placeFlags projectFlags
	placePage  int
)

var placeCmd = &cobra.Command{
	Use:   "place",
	Short: "Place components headlessly and print the summary",
	Long: `Runs one placement batch without a window: the outline is placed at the
default anchor at 1:1 scale and every component row is projected onto it.
Prints the placement summary and, with --page, the designators a BOM page
highlights.`,
	Args: cobra.NoArgs,
	RunE: runPlace,
}

func init() {
	rootCmd.AddCommand(placeCmd)
	placeFlags.register(placeCmd)
	placeCmd.Flags().IntVar(&placePage, "page", 0, "BOM page to highlight")
}

func runPlace(cmd *cobra.Command, args []string) error {
	p, err := placeFlags.load()
	if err != nil {
		return err
	}
	s, err := openSession(cmd, p)
	if err != nil {
		return err
	}
	if !s.SetHighlightPage(placePage) {
		return fmt.Errorf("page %d out of range (%d pages)", placePage, s.PageCount())
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, s.Summary())
	if sx, sy, err := s.Scale(); err == nil {
		fmt.Fprintf(w, "Scale: %.3f x %.3f px/mm\n", sx, sy)
	}
	fmt.Fprintln(w, s.PageLabel())
	if page := s.Pages()[placePage]; !page.All {
		fmt.Fprintf(w, "Highlighted: %v\n", page.Designators)
	}
	if verbose {
		s.Debug()
	}
	return nil
}
