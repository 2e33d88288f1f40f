package ui

import (
	"fmt"
	"image"
	"strconv"
	"strings"
	"time"

	"gioui.org/app"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"github.com/oligo/gioview/menu"
	"github.com/oligo/gioview/theme"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/OpenTraceLab/OpenTracePNP/internal/canvas"
	"github.com/OpenTraceLab/OpenTracePNP/internal/config"
	"github.com/OpenTraceLab/OpenTracePNP/internal/highlight"
	"github.com/OpenTraceLab/OpenTracePNP/internal/outline"
	"github.com/OpenTraceLab/OpenTracePNP/internal/palette"
	"github.com/OpenTraceLab/OpenTracePNP/internal/session"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/bom"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/csvio"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/footprint"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/pnp"
)

const logPaneHeight = 140

// App is the board alignment window.
type App struct {
	window *app.Window
	ops    op.Ops

	gvTheme *theme.Theme
	colors  palette.Theme
	shaper  *text.Shaper

	project     *config.Project
	projectPath string
	settings    *config.Settings

	surface *canvas.Memory
	session *session.Session
	rows    []pnp.Row
	table   *footprint.Table

	explorer *explorer.Explorer
	pending  chan func()

	openIcon, footprintIcon, bomIcon *widget.Icon
	placeIcon, rotateIcon, fillIcon  *widget.Icon
	prevIcon, nextIcon               *widget.Icon

	openBtn, footprintBtn, bomBtn widget.Clickable
	placeBtn, rotateBtn, fillBtn  widget.Clickable
	prevBtn, nextBtn, pageBtn     widget.Clickable
	widthEditor, lengthEditor     widget.Editor
	showNames, showShapes         widget.Bool
	fillShapes                    widget.Bool
	pageMenu                      *menu.DropdownMenu

	board boardView

	logs    []string
	logList widget.List
	status  string
	readout string
}

// New builds the window for the project at path. An empty path starts
// with defaults.
func New(w *app.Window, projectPath string) *App {
	if w == nil {
		w = new(app.Window)
	}
	w.Option(app.Title("OpenTracePNP"), app.Size(unit.Dp(1280), unit.Dp(860)))

	a := &App{
		window:      w,
		gvTheme:     theme.NewTheme("", nil, true),
		projectPath: projectPath,
		explorer:    explorer.NewExplorer(w),
		pending:     make(chan func(), 16),
		status:      "Ready",
	}
	a.shaper = a.gvTheme.Theme.Shaper

	settings, err := config.LoadSettings()
	if err != nil {
		a.Logf("[WARN] settings: %v", err)
	}
	if settings == nil {
		settings = &config.Settings{Theme: palette.DefaultTheme}
	}
	a.settings = settings

	project := config.DefaultProject()
	if projectPath != "" {
		if p, err := config.Load(projectPath); err != nil {
			a.Logf("[ERROR] project: %v", err)
		} else {
			project = p
			a.settings.AddRecent(projectPath)
			if err := project.ApplyBoardFile(); err != nil {
				a.Logf("[ERROR] board file: %v", err)
			}
		}
	} else if a.settings.Theme != "" {
		project.Theme = a.settings.Theme
	}
	a.project = project
	a.colors = project.Palette()

	a.surface = canvas.NewMemory()
	a.session = session.New(a.surface, project.SessionConfig(a))
	a.board = boardView{app: a}

	a.openIcon = mustIcon(icons.FileFolderOpen)
	a.footprintIcon = mustIcon(icons.HardwareMemory)
	a.bomIcon = mustIcon(icons.ActionList)
	a.placeIcon = mustIcon(icons.ImageCropFree)
	a.rotateIcon = mustIcon(icons.ImageRotateRight)
	a.fillIcon = mustIcon(icons.EditorFormatColorFill)
	a.prevIcon = mustIcon(icons.NavigationChevronLeft)
	a.nextIcon = mustIcon(icons.NavigationChevronRight)

	a.widthEditor.SingleLine = true
	a.lengthEditor.SingleLine = true
	if project.HasOutline() {
		a.widthEditor.SetText(formatMM(project.Outline.WidthMM))
		a.lengthEditor.SetText(formatMM(project.Outline.LengthMM))
	}
	opts := a.session.Options()
	a.showNames.Value = opts.ShowNames
	a.showShapes.Value = opts.ShowShapes
	a.fillShapes.Value = opts.FillShapes
	a.logList.Axis = layout.Vertical
	a.logList.ScrollToEnd = true
	a.pageMenu = a.buildPageMenu()

	a.Logf("[BOOT] OpenTracePNP started")
	if projectPath != "" {
		a.loadProject()
	} else {
		a.Logf("[INFO] Enter the board size and press place, then open a pick-and-place file")
	}
	return a
}

// Run blocks processing window events until the window closes.
func (a *App) Run() error {
	defer a.saveSettings()
	for {
		switch ev := a.window.Event().(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			a.drainPending()
			gtx := app.NewContext(&a.ops, ev)
			a.layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}

// Printf lets the session log into the pane.
func (a *App) Printf(format string, args ...any) {
	a.Logf("[INFO] "+format, args...)
}

// Logf appends a timestamped line to the log pane.
func (a *App) Logf(format string, args ...any) {
	prefix := time.Now().Format(time.Stamp)
	a.logs = append(a.logs, fmt.Sprintf("[%s] %s", prefix, fmt.Sprintf(format, args...)))
	a.invalidate()
}

func (a *App) invalidate() {
	if a.window != nil {
		a.window.Invalidate()
	}
}

// post queues fn to run on the event loop. File pickers call it from their
// own goroutines.
func (a *App) post(fn func()) {
	a.pending <- fn
	a.invalidate()
}

func (a *App) drainPending() {
	for {
		select {
		case fn := <-a.pending:
			fn()
		default:
			return
		}
	}
}

func (a *App) saveSettings() {
	a.settings.Theme = a.project.Theme
	if err := config.SaveSettings(a.settings); err != nil {
		a.Logf("[WARN] settings: %v", err)
	}
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	paint.FillShape(gtx.Ops, a.gvTheme.Palette.Bg, clip.Rect{Max: gtx.Constraints.Max}.Op())
	a.handleKeys(gtx)

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(a.layoutToolbar),
		layout.Flexed(1, a.board.Layout),
		layout.Rigid(a.layoutLogPane),
		layout.Rigid(a.layoutStatusBar),
	)
}

func (a *App) layoutToolbar(gtx layout.Context) layout.Dimensions {
	a.handleToolbar(gtx)
	th := a.gvTheme.Theme

	btn := func(c *widget.Clickable, icon *widget.Icon, desc string) layout.FlexChild {
		return layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Inset{Right: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				b := material.IconButton(th, c, icon, desc)
				b.Size = unit.Dp(20)
				b.Inset = layout.UniformInset(unit.Dp(6))
				return b.Layout(gtx)
			})
		})
	}
	field := func(e *widget.Editor, hint string) layout.FlexChild {
		return layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Min.X = gtx.Dp(unit.Dp(72))
			gtx.Constraints.Max.X = gtx.Constraints.Min.X
			return layout.Inset{Right: unit.Dp(6)}.Layout(gtx, material.Editor(th, e, hint).Layout)
		})
	}
	check := func(b *widget.Bool, label string) layout.FlexChild {
		return layout.Rigid(material.CheckBox(th, b, label).Layout)
	}
	gap := layout.Rigid(layout.Spacer{Width: unit.Dp(12)}.Layout)

	return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			btn(&a.openBtn, a.openIcon, "Open pick-and-place"),
			btn(&a.footprintBtn, a.footprintIcon, "Open footprints"),
			btn(&a.bomBtn, a.bomIcon, "Open BOM"),
			gap,
			field(&a.widthEditor, "Width mm"),
			field(&a.lengthEditor, "Length mm"),
			btn(&a.placeBtn, a.placeIcon, "Place outline"),
			btn(&a.rotateBtn, a.rotateIcon, "Rotate 90"),
			btn(&a.fillBtn, a.fillIcon, "Fill outline"),
			gap,
			btn(&a.prevBtn, a.prevIcon, "Previous page"),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				if a.pageBtn.Clicked(gtx) && a.pageMenu != nil {
					a.pageMenu.ToggleVisibility(gtx)
				}
				dims := material.Button(th, &a.pageBtn, a.session.PageLabel()).Layout(gtx)
				if a.pageMenu != nil {
					a.pageMenu.Layout(gtx, a.gvTheme)
				}
				return dims
			}),
			btn(&a.nextBtn, a.nextIcon, "Next page"),
			gap,
			check(&a.showNames, "Names"),
			check(&a.showShapes, "Shapes"),
			check(&a.fillShapes, "Fill"),
		)
	})
}

func (a *App) handleToolbar(gtx layout.Context) {
	if a.openBtn.Clicked(gtx) {
		a.chooseComponents()
	}
	if a.footprintBtn.Clicked(gtx) {
		a.chooseFootprints()
	}
	if a.bomBtn.Clicked(gtx) {
		a.chooseBOM()
	}
	if a.placeBtn.Clicked(gtx) {
		a.placeOutline()
	}
	if a.rotateBtn.Clicked(gtx) {
		a.rotate()
	}
	if a.fillBtn.Clicked(gtx) {
		a.session.ToggleOutlineFill()
	}
	if a.prevBtn.Clicked(gtx) {
		a.session.PrevPage()
	}
	if a.nextBtn.Clicked(gtx) {
		a.session.NextPage()
	}
	changed := a.showNames.Update(gtx)
	changed = a.showShapes.Update(gtx) || changed
	changed = a.fillShapes.Update(gtx) || changed
	if changed {
		a.session.SetOptions(highlight.Options{
			ShowNames:  a.showNames.Value,
			ShowShapes: a.showShapes.Value,
			FillShapes: a.fillShapes.Value,
		})
	}
}

func (a *App) placeOutline() {
	w, err := parseMM(a.widthEditor.Text())
	if err != nil {
		a.Logf("[ERROR] width: %v", err)
		return
	}
	l, err := parseMM(a.lengthEditor.Text())
	if err != nil {
		a.Logf("[ERROR] length: %v", err)
		return
	}
	if err := a.session.DefineOutline(w, l); err != nil {
		a.Logf("[ERROR] %v", err)
		return
	}
	if err := a.session.PlaceOutline(); err != nil {
		a.Logf("[ERROR] %v", err)
		return
	}
	a.project.Outline = config.Outline{WidthMM: w, LengthMM: l}
	if a.project.Display.FillOutline {
		a.session.Outline().SetFill(true)
	}
	a.placeComponents()
}

func (a *App) rotate() {
	if err := a.session.RotateOutline90(); err != nil {
		a.Logf("[WARN] %v", err)
	}
}

// placeComponents places the loaded rows once the outline and a footprint
// table are both available.
func (a *App) placeComponents() {
	if len(a.rows) == 0 || a.table == nil {
		return
	}
	if a.session.Outline().State() != outline.Placed {
		a.Logf("[INFO] Place the outline to show %d components", len(a.rows))
		return
	}
	if _, err := a.session.LoadComponents(a.rows, a.table); err != nil {
		a.Logf("[ERROR] %v", err)
		return
	}
	for _, line := range strings.Split(a.session.Summary(), "\n") {
		a.Logf("[PLACE] %s", line)
	}
	a.status = strings.SplitN(a.session.Summary(), "\n", 2)[0]
}

func (a *App) buildPageMenu() *menu.DropdownMenu {
	pages := a.session.Pages()
	opts := make([]menu.MenuOption, 0, len(pages))
	for i := range pages {
		idx := i
		label := pageCaption(pages[idx])
		opts = append(opts, menu.MenuOption{
			OnClicked: func() error {
				a.session.SetHighlightPage(idx)
				return nil
			},
			Layout: func(gtx menu.C, th *theme.Theme) menu.D {
				lbl := material.Body1(th.Theme, label)
				if idx == a.session.Page() {
					lbl.Color = th.Palette.ContrastBg
				}
				return layout.Inset{Left: unit.Dp(4), Right: unit.Dp(4)}.Layout(gtx, lbl.Layout)
			},
		})
	}
	drop := menu.NewDropdownMenu([][]menu.MenuOption{opts})
	drop.MaxWidth = unit.Dp(320)
	return drop
}

func (a *App) layoutLogPane(gtx layout.Context) layout.Dimensions {
	size := image.Pt(gtx.Constraints.Max.X, gtx.Dp(unit.Dp(logPaneHeight)))
	gtx.Constraints = layout.Exact(size)
	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	paint.FillShape(gtx.Ops, a.gvTheme.Bg2, clip.Rect{Max: size}.Op())

	return layout.Inset{Left: unit.Dp(12), Right: unit.Dp(12), Top: unit.Dp(4), Bottom: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return a.logList.Layout(gtx, len(a.logs), func(gtx layout.Context, i int) layout.Dimensions {
			lbl := material.Caption(a.gvTheme.Theme, a.logs[i])
			lbl.Alignment = text.Start
			return lbl.Layout(gtx)
		})
	})
}

func (a *App) layoutStatusBar(gtx layout.Context) layout.Dimensions {
	th := a.gvTheme.Theme
	return layout.Inset{Left: unit.Dp(12), Right: unit.Dp(12), Top: unit.Dp(6), Bottom: unit.Dp(6)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(material.Body2(th, a.status).Layout),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions { return layout.Dimensions{} }),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				gtx.Constraints.Min.X = gtx.Dp(unit.Dp(200))
				return material.Body2(th, a.readout).Layout(gtx)
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				gtx.Constraints.Min.X = gtx.Dp(unit.Dp(160))
				return material.Body2(th, a.scaleText()).Layout(gtx)
			}),
		)
	})
}

func (a *App) scaleText() string {
	sx, sy, err := a.session.Scale()
	if err != nil {
		return "Scale: -"
	}
	return fmt.Sprintf("Scale: %.3f x %.3f", sx, sy)
}

// pageCaption names a page in the drop-down by its first designators.
func pageCaption(p bom.Page) string {
	if p.All {
		return "All components"
	}
	ds := p.Designators
	more := ""
	if len(ds) > 4 {
		ds, more = ds[:4], ", ..."
	}
	return fmt.Sprintf("Page %d: %s%s", p.Index+1, strings.Join(ds, ", "), more)
}

func parseMM(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(csvio.NormalizeDecimal(s)), 64)
}

func formatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func mustIcon(data []byte) *widget.Icon {
	icon, err := widget.NewIcon(data)
	if err != nil {
		panic(err)
	}
	return icon
}

