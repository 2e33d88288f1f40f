package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePNP/pkg/csvio"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/footprint"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/pnp"
)

var (
	footprintsFlags projectFlags
	missingOnly     bool

	addFlags   projectFlags
	addOffsetX float64
	addOffsetY float64
)

var footprintsCmd = &cobra.Command{
	Use:   "footprints",
	Short: "Footprint table operations",
	Long:  `Commands for inspecting and editing the footprint definitions CSV`,
}

var footprintsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show which component footprints resolve",
	Long: `Lists every distinct footprint named by the pick-and-place file together
with the declared footprint it resolves to, or MISSING.`,
	Args: cobra.NoArgs,
	RunE: runFootprintsList,
}

var footprintsAddCmd = &cobra.Command{
	Use:   "add <name> <rectangle|circle> <width_mm> [height_mm]",
	Short: "Add or replace a footprint definition",
	Long: `Adds a footprint to the definitions CSV, replacing any entry with the same
name. Circles take a single diameter.`,
	Args: cobra.RangeArgs(3, 4),
	RunE: runFootprintsAdd,
}

func init() {
	rootCmd.AddCommand(footprintsCmd)
	footprintsCmd.AddCommand(footprintsListCmd)
	footprintsCmd.AddCommand(footprintsAddCmd)

	footprintsFlags.register(footprintsListCmd)
	footprintsListCmd.Flags().BoolVar(&missingOnly, "missing", false, "only list unresolved footprints")

	addFlags.register(footprintsAddCmd)
	footprintsAddCmd.Flags().Float64Var(&addOffsetX, "offset-x", 0, "center offset X in mm")
	footprintsAddCmd.Flags().Float64Var(&addOffsetY, "offset-y", 0, "center offset Y in mm")
}

func runFootprintsList(cmd *cobra.Command, args []string) error {
	p, err := footprintsFlags.load()
	if err != nil {
		return err
	}
	table, _, err := footprint.LoadFile(p.FootprintsPath())
	if err != nil {
		return err
	}
	rows, err := pnp.LoadFile(p.ComponentsPath())
	if err != nil {
		return err
	}

	coverage := footprint.Coverage(pnp.Footprints(rows), table)
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FOOTPRINT\tRESOLVES TO")
	missing := 0
	for _, st := range coverage {
		if !st.Matched {
			missing++
			fmt.Fprintf(tw, "%s\tMISSING\n", st.Raw)
			continue
		}
		if !missingOnly {
			fmt.Fprintf(tw, "%s\t%s\n", st.Raw, st.Resolved)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d footprints, %d missing\n", len(coverage), missing)
	return nil
}

func runFootprintsAdd(cmd *cobra.Command, args []string) error {
	p, err := addFlags.load()
	if err != nil {
		return err
	}
	shape, err := footprint.ParseShape(args[1])
	if err != nil {
		return err
	}
	width, err := parseMM(args[2])
	if err != nil {
		return err
	}
	height := width
	if len(args) == 4 {
		if height, err = parseMM(args[3]); err != nil {
			return err
		}
	}
	def := footprint.Definition{
		Name:            args[0],
		Shape:           shape,
		WidthMM:         width,
		HeightMM:        height,
		CenterOffsetXMM: addOffsetX,
		CenterOffsetYMM: addOffsetY,
	}.Normalize()
	if err := def.Validate(); err != nil {
		return err
	}

	path := p.FootprintsPath()
	table, _, err := footprint.LoadFile(path)
	switch {
	case errors.Is(err, csvio.ErrFileMissing):
		table = footprint.NewTable()
	case err != nil:
		return err
	}
	replaced := table.Upsert(def)
	if err := footprint.SaveFile(path, table); err != nil {
		return err
	}

	verb := "Added"
	if replaced {
		verb = "Replaced"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s %gx%g mm) in %s\n", verb, def.Name, def.Shape, def.WidthMM, def.HeightMM, path)
	return nil
}

// parseMM accepts both decimal separators.
func parseMM(s string) (float64, error) {
	v, err := strconv.ParseFloat(csvio.NormalizeDecimal(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return v, nil
}
