package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePNP/internal/canvas"
	"github.com/OpenTraceLab/OpenTracePNP/internal/config"
	"github.com/OpenTraceLab/OpenTracePNP/internal/session"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/bom"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/csvio"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/footprint"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/pnp"
)

// projectFlags are the input overrides shared by the headless commands.
type projectFlags struct {
	project    string
	components string
	footprints string
	bom        string
	kicad      string
	width      float64
	length     float64
}

func (f *projectFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.project, "project", "p", "", "project file (YAML)")
	fl.StringVar(&f.components, "components", "", "pick-and-place CSV")
	fl.StringVar(&f.footprints, "footprints", "", "footprint definitions CSV")
	fl.StringVar(&f.bom, "bom", "", "BOM CSV")
	fl.StringVar(&f.kicad, "kicad", "", "KiCad board file to take the board size from")
	fl.Float64Var(&f.width, "width", 0, "board width in mm")
	fl.Float64Var(&f.length, "length", 0, "board length in mm")
}

// load reads the project file, if any, and applies the flag overrides.
// Override paths are taken as given, relative to the working directory.
func (f *projectFlags) load() (*config.Project, error) {
	p := config.DefaultProject()
	if f.project != "" {
		var err error
		if p, err = config.Load(f.project); err != nil {
			return nil, err
		}
	}
	if f.components != "" {
		p.Components = absolute(f.components)
	}
	if f.footprints != "" {
		p.Footprints = absolute(f.footprints)
	}
	if f.bom != "" {
		p.BOM = absolute(f.bom)
	}
	if f.width != 0 {
		p.Outline.WidthMM = f.width
	}
	if f.length != 0 {
		p.Outline.LengthMM = f.length
	}
	if f.kicad != "" {
		p.KiCad = absolute(f.kicad)
	}
	if err := p.ApplyBoardFile(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// openSession builds a headless session for p and runs one placement
// batch. The BOM is optional unless it was named explicitly.
func openSession(cmd *cobra.Command, p *config.Project) (*session.Session, error) {
	if !p.HasOutline() {
		return nil, fmt.Errorf("board size not set: use --width and --length, --kicad, or outline in the project")
	}
	table, skipped, err := footprint.LoadFile(p.FootprintsPath())
	if err != nil {
		return nil, err
	}
	rows, err := pnp.LoadFile(p.ComponentsPath())
	if err != nil {
		return nil, err
	}

	log := logger(cmd)
	if len(skipped) > 0 {
		log.Printf("%d footprint rows skipped, first: %v", len(skipped), skipped[0])
	}

	s := session.New(canvas.NewMemory(), p.SessionConfig(log))
	if err := s.DefineOutline(p.Outline.WidthMM, p.Outline.LengthMM); err != nil {
		return nil, err
	}
	if err := s.PlaceOutline(); err != nil {
		return nil, err
	}
	if p.Display.FillOutline {
		s.ToggleOutlineFill()
	}
	if _, err := s.LoadComponents(rows, table); err != nil {
		return nil, err
	}

	book, err := bom.LoadFile(p.BOMPath())
	switch {
	case err == nil:
		s.LoadBOM(book)
	case p.BOM != "" || !errors.Is(err, csvio.ErrFileMissing):
		return nil, err
	}
	return s, nil
}

func absolute(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
