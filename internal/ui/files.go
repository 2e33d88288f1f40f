package ui

import (
	"bytes"
	"errors"
	"io"
	"os"

	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/x/explorer"

	"github.com/OpenTraceLab/OpenTracePNP/pkg/bom"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/csvio"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/footprint"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/pnp"
)

// loadProject reads every input named by the project and places the
// outline if its size is known.
func (a *App) loadProject() {
	p := a.project
	if table, skipped, err := footprint.LoadFile(p.FootprintsPath()); err != nil {
		a.Logf("[ERROR] footprints: %v", err)
	} else {
		a.setFootprints(table, skipped, p.FootprintsPath())
	}
	if rows, err := pnp.LoadFile(p.ComponentsPath()); err != nil {
		a.Logf("[ERROR] components: %v", err)
	} else {
		a.rows = rows
		a.Logf("[LOAD] %d components from %s", len(rows), p.ComponentsPath())
	}
	a.loadBOMFile(p.BOMPath(), false)
	if p.HasOutline() {
		a.placeOutline()
	}
}

func (a *App) chooseComponents() {
	go func() {
		name, data, err := a.choose("csv", "txt")
		if err != nil {
			a.post(func() { a.Logf("[ERROR] File picker failed: %v", err) })
			return
		}
		if data == nil {
			return
		}
		rows, converted, err := readComponents(data)
		a.post(func() {
			if err != nil {
				a.Logf("[ERROR] %s: %v", name, err)
				return
			}
			if converted {
				a.Logf("[LOAD] converted raw export %s", name)
			}
			a.rows = rows
			a.Logf("[LOAD] %d components from %s", len(rows), name)
			if name != "" && a.session.PageCount() == 1 {
				a.loadBOMFile(bom.DefaultPath(name), false)
			}
			a.placeComponents()
		})
	}()
}

func (a *App) chooseFootprints() {
	go func() {
		name, data, err := a.choose("csv")
		if err != nil {
			a.post(func() { a.Logf("[ERROR] File picker failed: %v", err) })
			return
		}
		if data == nil {
			return
		}
		table, skipped, err := footprint.ReadCSV(bytes.NewReader(data))
		a.post(func() {
			if err != nil {
				a.Logf("[ERROR] %s: %v", name, err)
				return
			}
			a.setFootprints(table, skipped, name)
			a.placeComponents()
		})
	}()
}

func (a *App) chooseBOM() {
	go func() {
		name, data, err := a.choose("csv")
		if err != nil {
			a.post(func() { a.Logf("[ERROR] File picker failed: %v", err) })
			return
		}
		if data == nil {
			return
		}
		book, err := bom.ReadCSV(bytes.NewReader(data))
		a.post(func() {
			if err != nil {
				a.Logf("[ERROR] %s: %v", name, err)
				return
			}
			a.setBOM(book, name)
		})
	}()
}

// choose runs the file picker and reads the chosen file. A declined picker
// returns nil data and no error.
func (a *App) choose(exts ...string) (string, []byte, error) {
	file, err := a.explorer.ChooseFile(exts...)
	if err != nil {
		if errors.Is(err, explorer.ErrUserDecline) {
			return "", nil, nil
		}
		return "", nil, err
	}
	defer file.Close()

	var name string
	if f, ok := file.(*os.File); ok {
		name = f.Name()
	}
	data, err := io.ReadAll(file)
	return name, data, err
}

func (a *App) setFootprints(table *footprint.Table, skipped []footprint.RowError, name string) {
	a.table = table
	a.Logf("[LOAD] %d footprints from %s", table.Len(), name)
	if len(skipped) > 0 {
		a.Logf("[WARN] %d footprint rows skipped, first: %v", len(skipped), skipped[0])
	}
}

func (a *App) loadBOMFile(path string, required bool) {
	book, err := bom.LoadFile(path)
	if err != nil {
		if required || !errors.Is(err, csvio.ErrFileMissing) {
			a.Logf("[ERROR] BOM: %v", err)
		}
		return
	}
	a.setBOM(book, path)
}

func (a *App) setBOM(book *bom.Book, name string) {
	a.session.LoadBOM(book)
	a.pageMenu = a.buildPageMenu()
	a.Logf("[LOAD] %d BOM pages from %s", book.Len()-1, name)
}

// readComponents reads a normalized pick-and-place file, falling back to
// converting a raw export.
func readComponents(data []byte) ([]pnp.Row, bool, error) {
	rows, err := pnp.ReadCSV(bytes.NewReader(data))
	if err == nil {
		return rows, false, nil
	}
	var buf bytes.Buffer
	if _, cerr := pnp.Convert(bytes.NewReader(data), &buf); cerr != nil {
		return nil, false, err
	}
	rows, cerr := pnp.ReadCSV(&buf)
	if cerr != nil {
		return nil, false, err
	}
	return rows, true, nil
}

func (a *App) handleKeys(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(
			key.Filter{Name: "R"},
			key.Filter{Name: "F"},
			key.Filter{Name: "D"},
			key.Filter{Name: key.NameLeftArrow},
			key.Filter{Name: key.NameRightArrow},
		)
		if !ok {
			return
		}
		ke, ok := ev.(key.Event)
		if !ok || ke.State != key.Press {
			continue
		}
		switch ke.Name {
		case "R":
			a.rotate()
		case "F":
			a.session.ToggleOutlineFill()
		case "D":
			a.session.Debug()
		case key.NameLeftArrow:
			a.session.PrevPage()
		case key.NameRightArrow:
			a.session.NextPage()
		}
		a.invalidate()
	}
}
