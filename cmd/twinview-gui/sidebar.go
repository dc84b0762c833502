package main

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/structhealth/twinview/pkg/structure"
	"github.com/structhealth/twinview/pkg/twin"
	"github.com/structhealth/twinview/pkg/viewport"
)

// maxAlertLines caps the alert list so the sidebar stays scannable
const maxAlertLines = 8

// Sidebar is the info column beside the wireframe view
type Sidebar struct {
	app *App

	buildingLabel  *widget.Label
	feedLabel      *widget.Label
	selectionLabel *widget.Label
	alertsLabel    *widget.Label
	pingButton     *widget.Button

	content fyne.CanvasObject
}

func newSidebar(a *App) *Sidebar {
	s := &Sidebar{app: a}

	s.buildingLabel = widget.NewLabel(buildingText(a.st))
	s.feedLabel = widget.NewLabel("Waiting for data...")
	s.selectionLabel = widget.NewLabel("Nothing selected.\nTap a member or a marker.")
	s.selectionLabel.Wrapping = fyne.TextWrapWord
	s.alertsLabel = widget.NewLabel("No active alerts.")
	s.alertsLabel.Wrapping = fyne.TextWrapWord

	claddingCheck := widget.NewCheck("Show cladding", func(checked bool) {
		a.view.SetShapes(buildShapes(a.st, checked))
	})
	claddingCheck.SetChecked(true)

	resetButton := widget.NewButton("Reset View", func() {
		a.view.Controller().Reset()
		a.view.Redraw()
	})

	clearButton := widget.NewButton("Clear Selection", func() {
		a.view.Controller().ClearSelection()
		a.view.Redraw()
	})

	s.pingButton = widget.NewButton("Ping Panel", func() {
		a.pingSelected()
	})
	s.pingButton.Disable()

	instructions := widget.NewLabel(
		"Instructions:\n" +
			"• Drag to orbit the view\n" +
			"• Scroll to zoom in/out\n" +
			"• Tap a member for its property sheet\n" +
			"• Tap a marker for panel or sensor details",
	)
	instructions.Wrapping = fyne.TextWrapWord

	panel := container.NewVBox(
		boldLabel("Building:"),
		s.buildingLabel,
		widget.NewSeparator(),
		boldLabel("Display Options:"),
		claddingCheck,
		resetButton,
		clearButton,
		widget.NewSeparator(),
		boldLabel("Selection:"),
		s.selectionLabel,
		s.pingButton,
		widget.NewSeparator(),
		boldLabel("Feed:"),
		s.feedLabel,
		s.alertsLabel,
		widget.NewSeparator(),
		instructions,
	)

	scroll := container.NewVScroll(panel)
	scroll.SetMinSize(fyne.NewSize(320, 0))
	s.content = scroll
	return s
}

func boldLabel(text string) *widget.Label {
	l := widget.NewLabel(text)
	l.TextStyle = fyne.TextStyle{Bold: true}
	return l
}

// setFeedStatus replaces the feed line before any data has arrived
func (s *Sidebar) setFeedStatus(status string) {
	s.feedLabel.SetText(status)
}

// refreshFeed updates the live counters and the alert list
func (s *Sidebar) refreshFeed(snap *twin.Snapshot) {
	good := 0
	for _, p := range snap.Panels {
		if p.Status == twin.PanelGood {
			good++
		}
	}
	s.feedLabel.SetText(fmt.Sprintf("Panels: %d (%d good)\nSensors: %d\nAlerts: %d",
		len(snap.Panels), good, len(snap.Sensors), len(snap.Alerts)))
	s.alertsLabel.SetText(alertText(snap.Alerts))

	// Re-resolve the selection: the selected record may have changed
	// or vanished with this snapshot
	sel := s.app.view.Controller().Selection()
	switch sel.Kind {
	case viewport.SelectionPanel:
		s.showPanel(sel.ID)
	case viewport.SelectionSensor:
		s.showSensor(sel.ID)
	}
}

// showMember fills the selection pane with a member's property sheet
func (s *Sidebar) showMember(id string) {
	s.pingButton.Disable()

	m, ok := s.app.st.MemberByID(id)
	if !ok {
		s.selectionLabel.SetText("Member " + id + " not found.")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", m.ID, m.Kind)
	fmt.Fprintf(&b, "Material: %s\n", m.Material)
	fmt.Fprintf(&b, "Dimensions: %s\n", m.DimensionsLabel)
	fmt.Fprintf(&b, "Weight: %s\n", m.WeightLabel)
	fmt.Fprintf(&b, "Load rating: %s\n", m.LoadRatingLabel)
	fmt.Fprintf(&b, "Health: %s\n", m.Health)
	fmt.Fprintf(&b, "Sensors attached: %d\n", m.SensorsAttached)
	fmt.Fprintf(&b, "Installed: %s\n", m.Installed)
	fmt.Fprintf(&b, "Last inspection: %s", m.LastInspection)
	for _, r := range m.Readings {
		fmt.Fprintf(&b, "\n%s: %s", r.Label, r.Value)
	}
	s.selectionLabel.SetText(b.String())
}

// showPanel fills the selection pane with a panel's live record
func (s *Sidebar) showPanel(id string) {
	if s.app.snapshot == nil {
		s.selectionLabel.SetText("Panel " + id + "\nWaiting for feed data...")
		s.pingButton.Disable()
		return
	}
	p, ok := s.app.snapshot.PanelByID(id)
	if !ok {
		s.selectionLabel.SetText("Panel " + id + " is no longer in the feed.")
		s.pingButton.Disable()
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", p.Name)
	fmt.Fprintf(&b, "Panel %s\n", p.ID)
	fmt.Fprintf(&b, "Status: %s\n", p.Status)
	sensors := s.app.snapshot.SensorsForPanel(p.ID)
	fmt.Fprintf(&b, "Sensors: %d", len(sensors))
	for _, sensor := range sensors {
		fmt.Fprintf(&b, "\n  %s %s: %.1f %s (battery %d%%)",
			sensor.Type, sensor.Status, sensor.LastReading, sensor.ReadingUnit, sensor.BatteryLevel)
	}
	s.selectionLabel.SetText(b.String())
	s.pingButton.Enable()
}

// showSensor fills the selection pane with a sensor's live record
func (s *Sidebar) showSensor(id string) {
	s.pingButton.Disable()

	if s.app.snapshot == nil {
		s.selectionLabel.SetText("Sensor " + id + "\nWaiting for feed data...")
		return
	}
	sensor, ok := s.app.snapshot.SensorByID(id)
	if !ok {
		s.selectionLabel.SetText("Sensor " + id + " is no longer in the feed.")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", sensor.ID, sensor.Type)
	fmt.Fprintf(&b, "Status: %s\n", sensor.Status)
	fmt.Fprintf(&b, "Reading: %.1f %s\n", sensor.LastReading, sensor.ReadingUnit)
	fmt.Fprintf(&b, "Battery: %d%%\n", sensor.BatteryLevel)
	fmt.Fprintf(&b, "Panel: %s", s.app.snapshot.LocateSensor(sensor))
	s.selectionLabel.SetText(b.String())
}

// clearSelection restores the idle selection pane
func (s *Sidebar) clearSelection() {
	s.selectionLabel.SetText("Nothing selected.\nTap a member or a marker.")
	s.pingButton.Disable()
}

// buildingText summarizes the generated structure for the top pane
func buildingText(st *structure.Structure) string {
	stats := st.Stats()
	return fmt.Sprintf("%s\n%.1f x %.1f x %.1f m\n%d members, %d x %d bays\nHealth: %d good, %d warning, %d critical",
		st.Params.Name,
		stats.Dimensions.X, stats.Dimensions.Y, stats.Dimensions.Z,
		stats.MemberCount, stats.BaysX, stats.BaysZ,
		stats.HealthCounts[structure.HealthGood],
		stats.HealthCounts[structure.HealthWarning],
		stats.HealthCounts[structure.HealthCritical])
}

// alertText renders the alert list newest first, capped for space
func alertText(alerts []twin.Alert) string {
	if len(alerts) == 0 {
		return "No active alerts."
	}

	var b strings.Builder
	shown := 0
	for i := len(alerts) - 1; i >= 0 && shown < maxAlertLines; i-- {
		a := alerts[i]
		if shown > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%s] %s (%s)", strings.ToUpper(a.Severity), a.Title, a.LocationName)
		shown++
	}
	if len(alerts) > maxAlertLines {
		fmt.Fprintf(&b, "\n+%d more", len(alerts)-maxAlertLines)
	}
	return b.String()
}
