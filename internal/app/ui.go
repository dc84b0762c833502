package app

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/structhealth/twinview/pkg/structure"
	"github.com/structhealth/twinview/pkg/viewport"
	"github.com/structhealth/twinview/version"
)

const (
	hudMargin      = int32(10)
	hudFontHead    = int32(20)
	hudFontBody    = int32(10)
	hudHeadAdvance = int32(26)
	hudLineAdvance = int32(15)
	hudPanelWidth  = int32(330)
	maxAlertRows   = 6
)

// hudRow is one line of a boxed HUD panel
type hudRow struct {
	text   string
	col    color.RGBA
	header bool
}

// drawUI renders the 2D overlay: status column on the left, selection
// details and alerts on the right, help in the center, version and
// FPS bottom left.
func (app *App) drawUI() {
	app.drawStatusColumn()
	app.drawSelectionPanel()
	app.drawAlertPanel()
	if app.View.showHelp {
		app.drawHelpPanel()
	}

	bottom := int32(rl.GetScreenHeight()) - 22
	versionText := fmt.Sprintf("v%s", version.GetVersion())
	rl.DrawText(versionText, hudMargin, bottom, hudFontBody, rl.Gray)
	fpsX := hudMargin + rl.MeasureText(versionText, hudFontBody) + 12
	rl.DrawText(fmt.Sprintf("FPS: %d", rl.GetFPS()), fpsX, bottom, hudFontBody, rl.Lime)
}

func (app *App) drawStatusColumn() {
	st := app.Scene.structure
	stats := st.Stats()

	y := hudMargin
	hudHeader(hudMargin, &y, "Building:", rl.Yellow)
	hudLine(hudMargin, &y, "  "+st.Params.Name, rl.White)
	hudLine(hudMargin, &y, fmt.Sprintf("  %.1f x %.1f m, eave %.1f m",
		st.Params.Width, st.Params.Length, st.Params.EaveHeight), rl.LightGray)
	hudLine(hudMargin, &y, fmt.Sprintf("  %d members, %d x %d bays, %d decor",
		stats.MemberCount, stats.BaysX, stats.BaysZ, stats.DecorCount), rl.LightGray)
	hudLine(hudMargin, &y, fmt.Sprintf("  health: %d good, %d warning, %d critical",
		stats.HealthCounts[structure.HealthGood],
		stats.HealthCounts[structure.HealthWarning],
		stats.HealthCounts[structure.HealthCritical]), rl.LightGray)

	y += 8
	hudHeader(hudMargin, &y, "Feed:", rl.Yellow)
	if snap := app.Feed.snapshot; snap != nil {
		hudLine(hudMargin, &y, fmt.Sprintf("  %d panels, %d sensors, %d alerts",
			len(snap.Panels), len(snap.Sensors), len(snap.Alerts)), rl.White)
	} else {
		hudLine(hudMargin, &y, "  no data yet", rl.Gray)
	}
	hudLine(hudMargin, &y, "  source: "+app.Feed.source, rl.LightGray)

	y += 8
	hudHeader(hudMargin, &y, "View:", rl.Yellow)
	hudLine(hudMargin, &y, "  camera: "+app.controller.Mode().String(), rl.LightGray)
	hudLine(hudMargin, &y, fmt.Sprintf("  cladding %s, wireframe %s, labels %s",
		onOff(app.View.showCladding), onOff(app.View.showWireframe), onOff(app.View.showLabels)), rl.LightGray)
	if !app.View.showHelp {
		hudLine(hudMargin, &y, "  press H for help", rl.Gray)
	}
}

// drawSelectionPanel shows the properties of whatever is selected.
// Entity panels read from the snapshot on screen; a selection that no
// longer resolves (entity vanished from the feed) draws a stub.
func (app *App) drawSelectionPanel() {
	sel := app.controller.Selection()
	if sel.Kind == viewport.SelectionNone {
		return
	}

	var rows []hudRow
	switch sel.Kind {
	case viewport.SelectionMember:
		rows = app.memberRows(sel.ID)
	case viewport.SelectionPanel:
		rows = app.panelRows(sel.ID)
	case viewport.SelectionSensor:
		rows = app.sensorRows(sel.ID)
	}
	if len(rows) == 0 {
		return
	}

	x := int32(rl.GetScreenWidth()) - hudPanelWidth - hudMargin
	drawPanelBox(x, hudMargin+8, hudPanelWidth, rows)
}

func (app *App) memberRows(id string) []hudRow {
	m, ok := app.Scene.structure.MemberByID(id)
	if !ok {
		return []hudRow{{text: id, col: rl.White, header: true}}
	}

	rows := []hudRow{
		{text: fmt.Sprintf("%s  (%s)", m.ID, m.Kind), col: rl.White, header: true},
		{text: "  Material: " + m.Material, col: rl.LightGray},
		{text: "  Dimensions: " + m.DimensionsLabel, col: rl.LightGray},
		{text: "  Weight: " + m.WeightLabel, col: rl.LightGray},
		{text: "  Load rating: " + m.LoadRatingLabel, col: rl.LightGray},
		{text: "  Health: " + m.Health.String(), col: healthColor(m.Health)},
		{text: fmt.Sprintf("  Sensors attached: %d", m.SensorsAttached), col: rl.LightGray},
		{text: "  Installed: " + m.Installed, col: rl.LightGray},
		{text: "  Last inspection: " + m.LastInspection, col: rl.LightGray},
	}
	if len(m.Readings) > 0 {
		rows = append(rows, hudRow{text: "  Readings:", col: rl.White})
		for _, r := range m.Readings {
			rows = append(rows, hudRow{text: fmt.Sprintf("    %s: %s", r.Label, r.Value), col: rl.LightGray})
		}
	}
	return rows
}

func (app *App) panelRows(id string) []hudRow {
	snap := app.Feed.snapshot
	if snap == nil {
		return []hudRow{{text: id, col: rl.White, header: true}}
	}
	p, ok := snap.PanelByID(id)
	if !ok {
		return []hudRow{
			{text: id, col: rl.White, header: true},
			{text: "  no longer in the feed", col: rl.Gray},
		}
	}

	rows := []hudRow{
		{text: p.Name, col: rl.White, header: true},
		{text: fmt.Sprintf("  Panel %s", p.ID), col: rl.LightGray},
		{text: "  Status: " + string(p.Status), col: p.Status.Color()},
	}
	sensors := snap.SensorsForPanel(p.ID)
	if len(sensors) > 0 {
		rows = append(rows, hudRow{text: "  Sensors:", col: rl.White})
		for _, s := range sensors {
			rows = append(rows, hudRow{
				text: fmt.Sprintf("    %s %s: %.1f %s (battery %d%%)",
					s.ID, s.Type, s.LastReading, s.ReadingUnit, s.BatteryLevel),
				col: s.Status.Color(),
			})
		}
	}
	rows = append(rows, hudRow{text: "  press P to ping", col: rl.Gray})
	return rows
}

func (app *App) sensorRows(id string) []hudRow {
	snap := app.Feed.snapshot
	if snap == nil {
		return []hudRow{{text: id, col: rl.White, header: true}}
	}
	s, ok := snap.SensorByID(id)
	if !ok {
		return []hudRow{
			{text: id, col: rl.White, header: true},
			{text: "  no longer in the feed", col: rl.Gray},
		}
	}

	return []hudRow{
		{text: fmt.Sprintf("%s  (%s)", s.ID, s.Type), col: rl.White, header: true},
		{text: "  Status: " + string(s.Status), col: s.Status.Color()},
		{text: fmt.Sprintf("  Reading: %.1f %s", s.LastReading, s.ReadingUnit), col: rl.LightGray},
		{text: fmt.Sprintf("  Battery: %d%%", s.BatteryLevel), col: rl.LightGray},
		{text: "  Panel: " + snap.LocateSensor(s), col: rl.LightGray},
	}
}

// drawAlertPanel lists the newest alerts bottom right, newest first
func (app *App) drawAlertPanel() {
	snap := app.Feed.snapshot
	if snap == nil || len(snap.Alerts) == 0 {
		return
	}

	rows := []hudRow{{text: "Alerts:", col: rl.Yellow, header: true}}
	for i := len(snap.Alerts) - 1; i >= 0 && len(rows) <= maxAlertRows; i-- {
		a := snap.Alerts[i]
		rows = append(rows, hudRow{
			text: fmt.Sprintf("  [%s] %s (%s)", a.Severity, a.Title, a.LocationName),
			col:  a.Type.Color(),
		})
	}
	if len(snap.Alerts) > maxAlertRows {
		rows = append(rows, hudRow{
			text: fmt.Sprintf("  +%d more", len(snap.Alerts)-maxAlertRows),
			col:  rl.Gray,
		})
	}

	width := int32(360)
	height := boxHeight(rows)
	x := int32(rl.GetScreenWidth()) - width - hudMargin
	y := int32(rl.GetScreenHeight()) - height - hudMargin - 20
	drawPanelBox(x, y, width, rows)
}

func (app *App) drawHelpPanel() {
	rows := []hudRow{
		{text: "Controls:", col: rl.Yellow, header: true},
		{text: "  drag          orbit and lift the camera", col: rl.LightGray},
		{text: "  wheel         zoom", col: rl.LightGray},
		{text: "  click         select member or marker", col: rl.LightGray},
		{text: "  R / Home      reset view, resume auto-rotate", col: rl.LightGray},
		{text: "  P             ping the selected panel", col: rl.LightGray},
		{text: "  C             toggle cladding", col: rl.LightGray},
		{text: "  W             toggle wireframe", col: rl.LightGray},
		{text: "  L             toggle labels", col: rl.LightGray},
		{text: "  H / F1        toggle this help", col: rl.LightGray},
		{text: "  Esc           clear selection", col: rl.LightGray},
	}

	width := int32(420)
	x := (int32(rl.GetScreenWidth()) - width) / 2
	y := (int32(rl.GetScreenHeight()) - boxHeight(rows)) / 2
	drawPanelBox(x, y, width, rows)
}

func drawPanelBox(x, y, width int32, rows []hudRow) {
	height := boxHeight(rows)
	rl.DrawRectangle(x-10, y-8, width, height, rl.Fade(rl.Black, 0.65))
	rl.DrawRectangleLines(x-10, y-8, width, height, rl.Yellow)

	for _, r := range rows {
		if r.header {
			hudHeader(x, &y, r.text, r.col)
		} else {
			hudLine(x, &y, r.text, r.col)
		}
	}
}

func boxHeight(rows []hudRow) int32 {
	height := int32(16)
	for _, r := range rows {
		if r.header {
			height += hudHeadAdvance
		} else {
			height += hudLineAdvance
		}
	}
	return height
}

func hudHeader(x int32, y *int32, text string, col color.RGBA) {
	rl.DrawText(text, x, *y, hudFontHead, col)
	*y += hudHeadAdvance
}

func hudLine(x int32, y *int32, text string, col color.RGBA) {
	rl.DrawText(text, x, *y, hudFontBody, col)
	*y += hudLineAdvance
}

func healthColor(h structure.HealthStatus) color.RGBA {
	switch h {
	case structure.HealthCritical:
		return rl.Red
	case structure.HealthWarning:
		return rl.Orange
	}
	return rl.Green
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
