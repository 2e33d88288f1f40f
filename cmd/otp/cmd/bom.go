package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePNP/pkg/bom"
)

var bomCmd = &cobra.Command{
	Use:   "bom",
	Short: "BOM file operations",
}

var bomPagesCmd = &cobra.Command{
	Use:   "pages <bom.csv>",
	Short: "List the highlight pages of a BOM",
	Long: `Prints one line per BOM row with the designators its page highlights.
Page 1 is the overview page that shows every component.`,
	Args: cobra.ExactArgs(1),
	RunE: runBOMPages,
}

func init() {
	rootCmd.AddCommand(bomCmd)
	bomCmd.AddCommand(bomPagesCmd)
}

func runBOMPages(cmd *cobra.Command, args []string) error {
	book, err := bom.LoadFile(args[0])
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	for _, page := range book.Pages() {
		label := bom.Label(page.Index, book.Len())
		if page.All {
			fmt.Fprintf(w, "%s: all components\n", label)
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", label, strings.Join(page.Designators, ", "))
	}
	return nil
}
