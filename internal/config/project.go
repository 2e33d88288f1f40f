// Package config loads the YAML project file that describes one board
// (its CSV inputs, physical size and display settings) and the per-user
// settings file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTracePNP/internal/highlight"
	"github.com/OpenTraceLab/OpenTracePNP/internal/outline"
	"github.com/OpenTraceLab/OpenTracePNP/internal/palette"
	"github.com/OpenTraceLab/OpenTracePNP/internal/session"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/bom"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/geom"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/kicad"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid project")

// Project is one board setup.
type Project struct {
	// CSV inputs. Relative paths are resolved against the project file.
	Components string `yaml:"components"`
	Footprints string `yaml:"footprints"`
	BOM        string `yaml:"bom,omitempty"` // defaults to BOM.csv beside Components

	// KiCad board whose Edge.Cuts extent sizes an unset outline.
	KiCad string `yaml:"kicad,omitempty"`

	Outline Outline `yaml:"outline"`
	Canvas  Canvas  `yaml:"canvas"`
	Display Display `yaml:"display"`
	Theme   string  `yaml:"theme"`

	dir string
}

// Outline is the physical board size. Zero means not yet known.
type Outline struct {
	WidthMM  float64 `yaml:"width_mm"`
	LengthMM float64 `yaml:"length_mm"`
}

// Canvas holds the on-screen constants of the outline.
type Canvas struct {
	AnchorX      float64 `yaml:"anchor_x"`
	AnchorY      float64 `yaml:"anchor_y"`
	MinSize      float64 `yaml:"min_size"`
	AnchorRadius float64 `yaml:"anchor_radius"`
}

// Display holds the view toggles.
type Display struct {
	ShowNames   bool `yaml:"show_names"`
	ShowShapes  bool `yaml:"show_shapes"`
	FillShapes  bool `yaml:"fill_shapes"`
	FillOutline bool `yaml:"fill_outline"`
}

// DefaultProject returns a project with the stock canvas settings.
func DefaultProject() *Project {
	oc := outline.DefaultConfig()
	return &Project{
		Components: "pcbdata.csv",
		Footprints: "footprints.csv",
		Canvas: Canvas{
			AnchorX:      oc.DefaultAnchor.X,
			AnchorY:      oc.DefaultAnchor.Y,
			MinSize:      oc.MinSize,
			AnchorRadius: oc.AnchorRadius,
		},
		Display: Display{ShowNames: true, ShowShapes: true},
		Theme:   palette.DefaultTheme,
	}
}

// Load reads the project at path. A missing file yields the defaults, with
// relative paths anchored at the directory of path.
func Load(path string) (*Project, error) {
	p := DefaultProject()
	p.dir = filepath.Dir(path)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Save writes the project to path.
func (p *Project) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the project and fills zero canvas settings with
// defaults.
func (p *Project) Validate() error {
	if p.Outline.WidthMM < 0 || p.Outline.LengthMM < 0 {
		return fmt.Errorf("%w: negative outline size %gx%g", ErrInvalid, p.Outline.WidthMM, p.Outline.LengthMM)
	}
	def := outline.DefaultConfig()
	if p.Canvas.MinSize <= 0 {
		p.Canvas.MinSize = def.MinSize
	}
	if p.Canvas.AnchorRadius <= 0 {
		p.Canvas.AnchorRadius = def.AnchorRadius
	}
	if p.Theme == "" {
		p.Theme = palette.DefaultTheme
	}
	if _, ok := palette.Lookup(p.Theme); !ok {
		return fmt.Errorf("%w: unknown theme %q", ErrInvalid, p.Theme)
	}
	return nil
}

// ApplyBoardFile sizes an unset outline from the KiCad board file. A set
// outline or an empty KiCad path leaves the project unchanged.
func (p *Project) ApplyBoardFile() error {
	if p.HasOutline() || p.KiCad == "" {
		return nil
	}
	w, l, err := kicad.LoadBoardSize(p.Resolve(p.KiCad))
	if err != nil {
		return err
	}
	p.Outline = Outline{WidthMM: w, LengthMM: l}
	return nil
}

// HasOutline reports whether the physical size is set.
func (p *Project) HasOutline() bool {
	return p.Outline.WidthMM > 0 && p.Outline.LengthMM > 0
}

// Dir returns the directory relative paths resolve against.
func (p *Project) Dir() string { return p.dir }

// SetDir changes the directory relative paths resolve against.
func (p *Project) SetDir(dir string) { p.dir = dir }

// Resolve anchors a relative path at the project directory.
func (p *Project) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.dir, path)
}

// ComponentsPath returns the resolved pick-and-place path.
func (p *Project) ComponentsPath() string { return p.Resolve(p.Components) }

// FootprintsPath returns the resolved footprint table path.
func (p *Project) FootprintsPath() string { return p.Resolve(p.Footprints) }

// BOMPath returns the resolved BOM path.
func (p *Project) BOMPath() string {
	if p.BOM != "" {
		return p.Resolve(p.BOM)
	}
	return bom.DefaultPath(p.ComponentsPath())
}

// Palette returns the configured theme.
func (p *Project) Palette() palette.Theme {
	if t, ok := palette.Lookup(p.Theme); ok {
		return t
	}
	return palette.Default()
}

// SessionConfig builds the session settings of the project.
func (p *Project) SessionConfig(log session.Logger) session.Config {
	return session.Config{
		Outline: outline.Config{
			DefaultAnchor: geom.Pt(p.Canvas.AnchorX, p.Canvas.AnchorY),
			MinSize:       p.Canvas.MinSize,
			AnchorRadius:  p.Canvas.AnchorRadius,
			Theme:         p.Palette(),
		},
		Display: highlight.Options{
			ShowNames:  p.Display.ShowNames,
			ShowShapes: p.Display.ShowShapes,
			FillShapes: p.Display.FillShapes,
		},
		Logger: log,
	}
}
