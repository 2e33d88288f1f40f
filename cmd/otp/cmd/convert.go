package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePNP/pkg/pnp"
)

var convertCmd = &cobra.Command{
	Use:   "convert <raw_export> [output.csv]",
	Short: "Normalize a raw pick-and-place export",
	Long: `Converts a raw pick-and-place export into the normalized CSV read by the
other commands. Only TopLayer rows are kept. The output defaults to
pcbdata.csv beside the input.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	in := args[0]
	out := filepath.Join(filepath.Dir(in), "pcbdata.csv")
	if len(args) == 2 {
		out = args[1]
	}

	st, err := pnp.ConvertFile(in, out)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Converted %d rows to %s\n", st.Rows, out)
	if st.Skipped > 0 {
		fmt.Fprintf(w, "Skipped %d rows not on %s\n", st.Skipped, pnp.TopLayer)
	}
	if st.Decoded && verbose {
		fmt.Fprintln(w, "Input decoded as Windows-1252")
	}
	return nil
}
