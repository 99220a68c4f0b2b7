package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	png "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/rtomek/MIDRC-Diversity-Calculator/cmd/jsdviewer/uihelpers"
	"github.com/rtomek/MIDRC-Diversity-Calculator/src/analysis"
	"github.com/rtomek/MIDRC-Diversity-Calculator/src/config"
	"github.com/rtomek/MIDRC-Diversity-Calculator/src/datasource"
	"github.com/rtomek/MIDRC-Diversity-Calculator/src/divergence"
)

type uiState struct {
	app    fyne.App
	window fyne.Window

	cfgPath string
	cfg     *config.Config
	store   *datasource.Store
	ctrl    *analysis.Controller
	update  *analysis.ViewUpdate

	// widgets
	table       *widget.Table
	slotBar     *fyne.Container
	slotSelects []*widget.Select
	slotChecks  []*widget.Check
	categorySel *widget.Select
	slotsLabel  *widget.Label
	configLabel *widget.Label
	timelineImg *canvas.Image
	spiderImg   *canvas.Image
	areaBox     *fyne.Container
	pieBox      *fyne.Container

	// toggles
	animations bool
	showHints  bool
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func main() {
	var cfgFlag string
	var shotsDir string
	flag.StringVar(&cfgFlag, "config", "", "Path to jsdconfig.yaml")
	flag.StringVar(&shotsDir, "screenshots", "", "Render the charts headlessly into this directory and exit")
	flag.Parse()

	if shotsDir != "" {
		if err := RunScreenshotsMode(cfgFlag, shotsDir); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	a := app.NewWithID("org.midrc.diversitycalculator")
	a.Settings().SetTheme(&darkTheme{})
	w := a.NewWindow("MIDRC Diversity Calculator")
	w.Resize(fyne.NewSize(1280, 860))

	state := &uiState{
		app:     a,
		window:  w,
		cfgPath: cfgFlag,
	}
	// Load toggles early so the checkboxes reflect them on creation
	state.animations = a.Preferences().BoolWithFallback("animations", true)
	state.showHints = a.Preferences().BoolWithFallback("showHints", false)

	// top bar controls
	state.configLabel = widget.NewLabel(truncatePath(state.cfgPath, 60))
	state.categorySel = widget.NewSelect([]string{}, nil)
	state.categorySel.PlaceHolder = "Category"
	state.slotsLabel = widget.NewLabel("2")
	state.slotBar = container.NewHBox()

	decS := widget.NewButton("-", func() { changeSlotCount(state, -1) })
	incS := widget.NewButton("+", func() { changeSlotCount(state, +1) })

	animChk := widget.NewCheck("Animations", nil)
	animChk.SetChecked(state.animations)
	hintsChk := widget.NewCheck("Hints", nil)
	hintsChk.SetChecked(state.showHints)

	// Divergence grid: one Date/JSD column pair per comparison, cells tinted
	// with the owning series' color so the grid and charts read together.
	state.table = widget.NewTable(
		func() (int, int) {
			t := currentTable(state)
			if t == nil || t.ColumnCount() == 0 {
				return 1, 2
			}
			return t.MaxRows() + 1, t.ColumnCount()
		},
		func() fyne.CanvasObject {
			bg := canvas.NewRectangle(color.Transparent)
			return container.NewStack(bg, widget.NewLabel(""))
		},
		func(id widget.TableCellID, o fyne.CanvasObject) {
			cell := o.(*fyne.Container)
			bg := cell.Objects[0].(*canvas.Rectangle)
			lbl := cell.Objects[1].(*widget.Label)
			bg.FillColor = color.Transparent
			t := currentTable(state)
			if t == nil || t.ColumnCount() == 0 {
				lbl.TextStyle = fyne.TextStyle{}
				if id.Row == 0 && id.Col == 0 {
					lbl.SetText("No comparison data")
				} else {
					lbl.SetText("")
				}
				bg.Refresh()
				return
			}
			if id.Row == 0 {
				lbl.TextStyle = fyne.TextStyle{Bold: true}
				lbl.SetText(t.Header(id.Col))
				bg.Refresh()
				return
			}
			lbl.TextStyle = fyne.TextStyle{}
			text, ok := t.Cell(id.Row-1, id.Col)
			lbl.SetText(text)
			if ok && state.update != nil && state.update.Timeline != nil {
				if hex, found := state.update.Timeline.Colors.ColorAt(id.Row-1, id.Col); found {
					if r, g, b, err := uihelpers.ParseHexColor(hex); err == nil {
						bg.FillColor = color.NRGBA{R: r, G: g, B: b, A: 72}
					}
				}
			}
			bg.Refresh()
		},
	)

	// chart placeholders
	state.timelineImg = canvas.NewImageFromImage(blank(100, 60))
	state.timelineImg.FillMode = canvas.ImageFillContain
	state.timelineImg.SetMinSize(fyne.NewSize(900, 320))
	state.spiderImg = canvas.NewImageFromImage(blank(100, 100))
	state.spiderImg.FillMode = canvas.ImageFillContain
	state.spiderImg.SetMinSize(fyne.NewSize(420, 420))
	state.areaBox = container.NewVBox()
	state.pieBox = container.NewVBox()

	// layout
	controls := container.NewHBox(
		widget.NewButton("Open Config…", func() { openConfigDialog(state) }),
		widget.NewButton("Open Excel File…", func() { openExcelDialog(state) }),
		widget.NewButton("Reload", func() { loadAll(state) }),
		widget.NewLabel("Category:"), state.categorySel,
		widget.NewLabel("Files:"), decS, state.slotsLabel, incS,
		animChk, hintsChk,
		widget.NewLabel("Config:"), state.configLabel,
	)
	top := container.NewVBox(controls, state.slotBar)

	chartsColumn := container.NewVBox(
		state.timelineImg,
		widget.NewSeparator(),
		state.areaBox,
		widget.NewSeparator(),
		container.NewCenter(state.spiderImg),
	)
	chartsScroll := container.NewVScroll(chartsColumn)
	chartsScroll.SetMinSize(fyne.NewSize(900, 650))
	pieScroll := container.NewVScroll(state.pieBox)

	tabs := container.NewAppTabs(
		container.NewTabItem("Divergence", state.table),
		container.NewTabItem("Charts", chartsScroll),
		container.NewTabItem("Pie Charts", pieScroll),
	)
	tabs.SetTabLocation(container.TabLocationTop)
	tabs.OnSelected = func(ti *container.TabItem) {
		if state != nil && state.app != nil {
			state.app.Preferences().SetInt("selectedTabIndex", tabs.SelectedIndex())
		}
	}
	w.SetContent(container.NewBorder(top, nil, nil, nil, tabs))

	// Redraw charts on window resize so they scale with width
	if w.Canvas() != nil {
		prevW := int(w.Canvas().Size().Width)
		done := make(chan struct{})
		w.SetOnClosed(func() {
			savePrefs(state)
			close(done)
		})
		go func() {
			t := time.NewTicker(300 * time.Millisecond)
			defer t.Stop()
			for {
				select {
				case <-done:
					return
				case <-t.C:
					c := w.Canvas()
					if c == nil {
						continue
					}
					if curW := int(c.Size().Width); curW != prevW {
						prevW = curW
						fyne.Do(func() {
							updateTableWidths(state)
							redrawCharts(state)
						})
					}
				}
			}
		}()
	}

	// Now that canvases are ready, assign the remaining callbacks
	state.categorySel.OnChanged = func(v string) {
		if state.ctrl == nil || v == "" {
			return
		}
		if err := state.ctrl.SetCategory(v); err != nil {
			datasource.Warnf("set category %q: %v", v, err)
		}
	}
	animChk.OnChanged = func(b bool) {
		state.animations = b
		savePrefs(state)
		redrawCharts(state)
	}
	hintsChk.OnChanged = func(b bool) {
		state.showHints = b
		savePrefs(state)
		redrawCharts(state)
	}

	buildMenus(state)
	loadPrefs(state, tabs)
	loadAll(state)

	w.ShowAndRun()
}

// menus and dialogs
func buildMenus(state *uiState) {
	if state == nil || state.window == nil || state.app == nil {
		return
	}
	var items []*fyne.MenuItem
	for _, f := range recentConfigs(state) {
		f := f
		items = append(items, fyne.NewMenuItem(truncatePath(f, 60), func() {
			state.cfgPath = f
			savePrefs(state)
			loadAll(state)
		}))
	}
	clearRecent := fyne.NewMenuItem("Clear Recent", func() { clearRecentConfigs(state); buildMenus(state) })
	recentMenu := fyne.NewMenu("Open Recent", append(items, clearRecent)...)
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Config…", func() { openConfigDialog(state) }),
		fyne.NewMenuItem("Open Excel File…", func() { openExcelDialog(state) }),
		fyne.NewMenuItem("Reload", func() { loadAll(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Timeline Chart…", func() { exportChartPNG(state, timelineRender(state), 1, "jsd_timeline.png") }),
		fyne.NewMenuItem("Export Timeline Chart (High Res)…", func() {
			exportChartPNG(state, timelineRender(state), exportScale, "jsd_timeline_highres.png")
		}),
		fyne.NewMenuItem("Export Spider Chart…", func() { exportChartPNG(state, spiderRender(state), 1, "jsd_spider.png") }),
		fyne.NewMenuItem("Export Spider Chart (High Res)…", func() {
			exportChartPNG(state, spiderRender(state), exportScale, "jsd_spider_highres.png")
		}),
		fyne.NewMenuItem("Export Table (TSV)…", func() { exportTableTSV(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu, recentMenu))

	canv := state.window.Canvas()
	if canv != nil {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { openConfigDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { openConfigDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { loadAll(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { loadAll(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { state.window.Close() })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { state.window.Close() })
	}
}

func openConfigDialog(state *uiState) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		state.cfgPath = rc.URI().Path()
		addRecentConfig(state, state.cfgPath)
		savePrefs(state)
		buildMenus(state)
		loadAll(state)
	}, state.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".yaml", ".yml"}))
	d.Show()
}

func openExcelDialog(state *uiState) {
	if state.ctrl == nil {
		dialog.ShowInformation("Open Excel File", "Load a config first.", state.window)
		return
	}
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		_ = rc.Close()
		showAddSourceForm(state, path)
	}, state.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".xlsx", ".xlsm"}))
	d.Show()
}

// showAddSourceForm collects the source metadata the config file would
// normally carry, then loads the workbook and registers it.
func showAddSourceForm(state *uiState, path string) {
	name := widget.NewEntry()
	name.SetText(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	desc := widget.NewEntry()
	remove := widget.NewEntry()
	remove.SetPlaceHolder("text stripped from column names, comma separated")
	items := []*widget.FormItem{
		widget.NewFormItem("Name", name),
		widget.NewFormItem("Description", desc),
		widget.NewFormItem("Remove column text", remove),
	}
	dialog.ShowForm("Open Excel File", "Load", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		spec := config.DataSourceSpec{
			Name:             name.Text,
			Description:      desc.Text,
			DataType:         "file",
			Filename:         path,
			RemoveColumnText: splitCSV(remove.Text),
		}
		src, err := datasource.LoadDataSource(spec, state.cfg.CustomAgeRanges)
		if err != nil {
			dialog.ShowError(err, state.window)
			return
		}
		if err := state.ctrl.AddSource(src); err != nil {
			datasource.Warnf("rebuild after adding %s: %v", src.Name, err)
		}
		rebuildSlotBar(state)
	}, state.window)
}

// load config and data, then rebuild everything
func loadAll(state *uiState) {
	path := state.cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	store, err := datasource.LoadStore(cfg)
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	ctrl, err := analysis.NewController(store, divergence.JensenShannon, analysis.Options{
		Slots:             cfg.NumberOfFiles,
		Animations:        cfg.ChartAnimations,
		Palette:           seriesColorHex,
		DivergenceColumns: datasource.DivergenceColumns(cfg),
	})
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	state.cfg = cfg
	state.store = store
	state.ctrl = ctrl
	state.cfgPath = path
	if state.configLabel != nil {
		state.configLabel.SetText(truncatePath(path, 60))
	}
	ctrl.Subscribe(func(u *analysis.ViewUpdate) { applyUpdate(state, u) })
	rebuildSlotBar(state)
	if _, err := ctrl.Rebuild(); err != nil {
		// partial failures already render as placeholders
		datasource.Warnf("initial rebuild: %v", err)
	}
}

// applyUpdate is the controller listener: every rebuild lands here.
func applyUpdate(state *uiState, u *analysis.ViewUpdate) {
	state.update = u
	refreshSelectors(state)
	updateTableWidths(state)
	redrawCharts(state)
}

func currentTable(state *uiState) *analysis.Table {
	if state == nil || state.update == nil || state.update.Timeline == nil {
		return nil
	}
	return &state.update.Timeline.Table
}

// rebuildSlotBar recreates one (label, source select, active check) strip per
// comparison slot. Callbacks are wired after the initial values are set so
// construction never triggers a rebuild.
func rebuildSlotBar(state *uiState) {
	if state == nil || state.slotBar == nil || state.ctrl == nil {
		return
	}
	slots := state.ctrl.Slots()
	names := state.store.Names()
	state.slotBar.Objects = nil
	state.slotSelects = state.slotSelects[:0]
	state.slotChecks = state.slotChecks[:0]
	for i, sl := range slots {
		i := i
		sel := widget.NewSelect(names, nil)
		if sl.Source >= 0 && sl.Source < len(names) {
			sel.Selected = names[sl.Source]
		}
		chk := widget.NewCheck("", nil)
		chk.SetChecked(sl.Active)
		sel.OnChanged = func(v string) {
			idx := state.store.IndexOf(v)
			if idx < 0 {
				return
			}
			if err := state.ctrl.SetSlot(i, idx); err != nil {
				datasource.Warnf("slot %d -> %s: %v", i, v, err)
			}
		}
		chk.OnChanged = func(on bool) {
			if err := state.ctrl.SetSlotActive(i, on); err != nil {
				datasource.Warnf("toggle slot %d: %v", i, err)
			}
		}
		state.slotSelects = append(state.slotSelects, sel)
		state.slotChecks = append(state.slotChecks, chk)
		state.slotBar.Add(widget.NewLabel(fmt.Sprintf("File %d:", i+1)))
		state.slotBar.Add(sel)
		state.slotBar.Add(chk)
	}
	state.slotBar.Refresh()
	if state.slotsLabel != nil {
		state.slotsLabel.SetText(fmt.Sprintf("%d", len(slots)))
	}
}

func changeSlotCount(state *uiState, delta int) {
	if state == nil || state.ctrl == nil {
		return
	}
	// Up to one slot per loaded source, never fewer than two
	maxN := 2
	if state.store != nil && state.store.Len() > 2 {
		maxN = state.store.Len()
	}
	cur := len(state.ctrl.Slots())
	n := cur + delta
	if n < 2 {
		n = 2
	}
	if n > maxN {
		n = maxN
	}
	if n == cur {
		return
	}
	if err := state.ctrl.SetSlotCount(n); err != nil {
		datasource.Warnf("slot count %d: %v", n, err)
	}
	rebuildSlotBar(state)
}

// refreshSelectors syncs the pickers with the selection after a rebuild,
// e.g. when the category fell back because the intersection narrowed.
func refreshSelectors(state *uiState) {
	u := state.update
	if u == nil || state.ctrl == nil {
		return
	}
	if state.categorySel != nil {
		state.categorySel.Options = u.CategoryOptions
		state.categorySel.Selected = u.Category
		state.categorySel.Refresh()
	}
	slots := state.ctrl.Slots()
	names := state.store.Names()
	for i, sel := range state.slotSelects {
		if i >= len(slots) {
			break
		}
		sel.Options = names
		if slots[i].Source >= 0 && slots[i].Source < len(names) {
			sel.Selected = names[slots[i].Source]
		}
		sel.Refresh()
	}
	for i, chk := range state.slotChecks {
		if i >= len(slots) {
			break
		}
		chk.SetChecked(slots[i].Active)
	}
}

func updateTableWidths(state *uiState) {
	if state == nil || state.table == nil {
		return
	}
	dateW, valueW := uihelpers.ComputeTableColumnWidths(windowWidth(state))
	cols := 2
	if t := currentTable(state); t != nil && t.ColumnCount() > 0 {
		cols = t.ColumnCount()
	}
	for c := 0; c < cols; c++ {
		if c%2 == 0 {
			state.table.SetColumnWidth(c, float32(dateW))
		} else {
			state.table.SetColumnWidth(c, float32(valueW))
		}
	}
	state.table.Refresh()
}

func redrawCharts(state *uiState) {
	if state == nil {
		return
	}
	u := state.update
	cw, chh := chartSize(state)

	var tl *analysis.Timeline
	var sp *analysis.SpiderChart
	category := ""
	if u != nil {
		tl = u.Timeline
		sp = u.Spider
		category = u.Category
	}
	setChartImage(state, state.timelineImg, renderTimelineChart(tl, category, cw, chh, 1, state.showHints), cw, chh)
	ss := spiderSize(chh)
	setChartImage(state, state.spiderImg, renderSpiderChart(sp, ss, 1, state.showHints), ss, ss)

	if state.areaBox != nil {
		state.areaBox.Objects = nil
		if u != nil {
			for _, ac := range u.AreaCharts {
				img := canvas.NewImageFromImage(renderAreaChart(ac, cw, chh, state.showHints))
				img.FillMode = canvas.ImageFillContain
				img.SetMinSize(fyne.NewSize(float32(cw), float32(chh)))
				state.areaBox.Add(img)
				state.areaBox.Add(widget.NewSeparator())
				animateReveal(state, img)
			}
		}
		if len(state.areaBox.Objects) == 0 {
			state.areaBox.Add(widget.NewLabel("No active sources to chart."))
		}
		state.areaBox.Refresh()
	}

	if state.pieBox != nil {
		state.pieBox.Objects = nil
		if u != nil {
			for _, row := range u.PieRows {
				state.pieBox.Add(widget.NewLabel(pieRowLabel(row)))
				d := uihelpers.ComputePieDiameter(windowWidth(state), len(row.Pies))
				hbox := container.NewHBox()
				for _, pie := range row.Pies {
					img := canvas.NewImageFromImage(renderPieChart(pie, d))
					img.FillMode = canvas.ImageFillContain
					img.SetMinSize(fyne.NewSize(float32(d), float32(d)))
					hbox.Add(img)
					animateReveal(state, img)
				}
				state.pieBox.Add(container.NewHScroll(hbox))
				state.pieBox.Add(widget.NewSeparator())
			}
		}
		if len(state.pieBox.Objects) == 0 {
			state.pieBox.Add(widget.NewLabel("No pie data for the current selection."))
		}
		state.pieBox.Refresh()
	}

	if state.table != nil {
		state.table.Refresh()
	}
}

func setChartImage(state *uiState, cimg *canvas.Image, img image.Image, w, h int) {
	if cimg == nil || img == nil {
		return
	}
	cimg.Image = img
	cimg.SetMinSize(fyne.NewSize(float32(w), float32(h)))
	cimg.Refresh()
	animateReveal(state, cimg)
}

// chartSize computes a chart size based on the current window width so charts
// use more X-axis space.
func chartSize(state *uiState) (int, int) {
	if state == nil || state.window == nil || state.window.Canvas() == nil {
		return uihelpers.ComputeChartDimensions(1100)
	}
	sz := state.window.Canvas().Size()
	w := int(sz.Width*0.95) - 12
	return uihelpers.ComputeChartDimensions(w)
}

func spiderSize(chartHeight int) int {
	s := chartHeight + 120
	if s < 420 {
		s = 420
	}
	if s > 560 {
		s = 560
	}
	return s
}

func windowWidth(state *uiState) float32 {
	if state == nil || state.window == nil || state.window.Canvas() == nil {
		return 1100
	}
	return state.window.Canvas().Size().Width
}

func pieRowLabel(row analysis.PieRow) string {
	if row.Description != "" {
		return row.Description + ":"
	}
	return row.SourceName + ":"
}

// animateReveal fades a freshly rendered chart in when animations are on.
func animateReveal(state *uiState, img *canvas.Image) {
	if state == nil || img == nil {
		return
	}
	if !state.animations {
		img.Translucency = 0
		img.Refresh()
		return
	}
	img.Translucency = 1
	anim := fyne.NewAnimation(200*time.Millisecond, func(f float32) {
		img.Translucency = float64(1 - f)
		img.Refresh()
	})
	anim.Start()
}

// chart exports

// exportScale is the pixel density multiplier for the high resolution export
// menu items.
const exportScale = 2

// timelineRender returns a function that re-renders the divergence timeline
// at the current chart size and the requested pixel density, or nil when
// there is nothing to draw yet.
func timelineRender(state *uiState) func(scale int) image.Image {
	return func(scale int) image.Image {
		u := state.update
		if u == nil || u.Timeline == nil {
			return nil
		}
		cw, ch := chartSize(state)
		return renderTimelineChart(u.Timeline, u.Category, cw, ch, scale, state.showHints)
	}
}

func spiderRender(state *uiState) func(scale int) image.Image {
	return func(scale int) image.Image {
		u := state.update
		if u == nil || u.Spider == nil {
			return nil
		}
		_, ch := chartSize(state)
		return renderSpiderChart(u.Spider, spiderSize(ch), scale, state.showHints)
	}
}

// exportChartPNG renders a chart fresh and saves it through a file dialog.
// Exports re-render from the current view data rather than grabbing the
// on-screen canvas, so a scale above 1 yields genuinely denser pixels.
func exportChartPNG(state *uiState, render func(scale int) image.Image, scale int, defaultName string) {
	if state == nil || state.window == nil || render == nil {
		return
	}
	img := render(scale)
	if img == nil {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := png.Encode(wc, img); err != nil {
			dialog.ShowError(err, state.window)
		}
	}, state.window)
	fs.SetFileName(defaultName)
	fs.Show()
}

func exportTableTSV(state *uiState) {
	if state == nil || state.update == nil || state.update.Timeline == nil {
		dialog.ShowInformation("Export", "No table to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := state.update.Timeline.Table.WriteTSV(wc); err != nil {
			dialog.ShowError(err, state.window)
		}
	}, state.window)
	fs.SetFileName("jsd_table.tsv")
	fs.Show()
}

// recent config helpers
func recentConfigs(state *uiState) []string {
	prefs := state.app.Preferences()
	raw := prefs.StringWithFallback("recentConfigs", "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func addRecentConfig(state *uiState, path string) {
	prefs := state.app.Preferences()
	list := recentConfigs(state)
	filtered := []string{path}
	for _, f := range list {
		if f != path && len(filtered) < 10 {
			filtered = append(filtered, f)
		}
	}
	prefs.SetString("recentConfigs", strings.Join(filtered, "\n"))
}

func clearRecentConfigs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	state.app.Preferences().SetString("recentConfigs", "")
}

// prefs
func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("lastConfig", state.cfgPath)
	prefs.SetBool("animations", state.animations)
	prefs.SetBool("showHints", state.showHints)
	if state.window != nil && state.window.Canvas() != nil {
		sz := state.window.Canvas().Size()
		if sz.Width > 0 && sz.Height > 0 {
			prefs.SetFloat("windowW", float64(sz.Width))
			prefs.SetFloat("windowH", float64(sz.Height))
		}
	}
}

func loadPrefs(state *uiState, tabs *container.AppTabs) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	if f := prefs.StringWithFallback("lastConfig", state.cfgPath); f != "" && state.cfgPath == "" {
		state.cfgPath = f
		if state.configLabel != nil {
			state.configLabel.SetText(truncatePath(f, 60))
		}
	}
	if tabs != nil {
		idx := prefs.IntWithFallback("selectedTabIndex", 0)
		if idx >= 0 && idx < len(tabs.Items) {
			tabs.SelectIndex(idx)
		}
	}
	ww := prefs.FloatWithFallback("windowW", 0)
	wh := prefs.FloatWithFallback("windowH", 0)
	if ww >= 640 && wh >= 480 && state.window != nil {
		state.window.Resize(fyne.NewSize(float32(ww), float32(wh)))
	}
}

// utils
func truncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if left <= 0 {
		return "..." + base
	}
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
