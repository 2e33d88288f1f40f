package cmd

import (
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePNP/internal/ui"
)

var viewCmd = &cobra.Command{
	Use:   "view [project.yaml]",
	Short: "Launch the interactive alignment window",
	Long: `Opens the board window. With a project file the component, footprint and
BOM files it names are loaded and, when the board size is set, placed.

Controls:
  Drag red anchor       - Move outline
  Drag other anchors    - Resize outline
  R                     - Rotate outline 90°
  F                     - Toggle outline fill
  Left / Right          - Previous / next BOM page
  D                     - Log debug snapshot`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		}
		return ui.Run(path)
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
