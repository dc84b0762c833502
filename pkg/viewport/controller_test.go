package viewport

import (
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/structhealth/twinview/pkg/geometry"
)

// testController looks straight down the -Z axis at a 2m box centered
// on the target, so the viewport center ray hits it dead on.
func testController() *Controller {
	cam := NewCamera(testBounds())
	cam.Position = geometry.NewVector3(0, 2, 30)
	cam.Target = geometry.NewVector3(0, 2, 0)
	cam.homePosition = cam.Position
	cam.homeTarget = cam.Target

	ctrl := NewController(cam)
	ctrl.SetViewport(800, 600)
	ctrl.SetColliders([]Collider{
		{MemberID: "COL-1", Box: geometry.NewBox(
			geometry.NewVector3(0, 2, 0), geometry.NewVector3(2, 2, 2))},
	})
	return ctrl
}

func clickAt(c *Controller, x, y float64) {
	c.PointerDown(x, y)
	c.PointerUp(x, y)
}

func TestInitialState(t *testing.T) {
	ctrl := testController()

	if ctrl.Mode() != AutoRotating {
		t.Errorf("Initial mode failed: expected %v, got %v", AutoRotating, ctrl.Mode())
	}
	if ctrl.Selection().Kind != SelectionNone {
		t.Error("Initial selection not empty")
	}
	if ctrl.HoveredMember() != "" {
		t.Error("Initial hover not empty")
	}
}

func TestPointerDownCancelsAutoRotation(t *testing.T) {
	ctrl := testController()

	ctrl.PointerDown(100, 100)
	if ctrl.Mode() != UserOrbiting {
		t.Errorf("Mode after down failed: expected %v, got %v", UserOrbiting, ctrl.Mode())
	}
	ctrl.PointerMove(150, 100)
	ctrl.PointerUp(150, 100)
	if ctrl.Mode() != Idle {
		t.Errorf("Mode after up failed: expected %v, got %v", Idle, ctrl.Mode())
	}

	// Auto-rotation must not resume on its own.
	before := ctrl.Camera().Spherical().Azimuth
	ctrl.Tick(time.Now(), 0.5)
	if got := ctrl.Camera().Spherical().Azimuth; got != before {
		t.Errorf("Idle camera rotated: %v -> %v", before, got)
	}
}

func TestTickAutoRotates(t *testing.T) {
	ctrl := testController()
	before := ctrl.Camera().Spherical().Azimuth

	ctrl.Tick(time.Now(), 0.5)

	want := before + autoRotateSpeed*0.5
	if got := ctrl.Camera().Spherical().Azimuth; math.Abs(got-want) > 1e-9 {
		t.Errorf("Auto-rotate failed: expected %v, got %v", want, got)
	}
}

func TestClickSelectsMember(t *testing.T) {
	ctrl := testController()
	var selected []string
	ctrl.SetOnMemberSelected(func(id string) { selected = append(selected, id) })

	clickAt(ctrl, 400, 300)

	if ctrl.Selection() != (Selection{Kind: SelectionMember, ID: "COL-1"}) {
		t.Errorf("Selection failed: got %+v", ctrl.Selection())
	}
	if len(selected) != 1 || selected[0] != "COL-1" {
		t.Errorf("Callback failed: got %v", selected)
	}
}

func TestDragDoesNotSelect(t *testing.T) {
	ctrl := testController()
	ctrl.SetOnMemberSelected(func(id string) { t.Errorf("Selected %s during a drag", id) })

	before := ctrl.Camera().Spherical().Azimuth
	ctrl.PointerDown(400, 300)
	ctrl.PointerMove(420, 300)
	ctrl.PointerUp(420, 300)

	if ctrl.Selection().Kind != SelectionNone {
		t.Errorf("Drag selected %+v", ctrl.Selection())
	}
	if got := ctrl.Camera().Spherical().Azimuth; math.Abs(got-before) < 1e-9 {
		t.Error("Drag did not orbit the camera")
	}
}

func TestClickThresholdTieBreak(t *testing.T) {
	ctrl := testController()
	selected := 0
	ctrl.SetOnMemberSelected(func(string) { selected++ })

	// Exactly the threshold reads as a drag.
	ctrl.PointerDown(400, 300)
	ctrl.PointerUp(400+ClickThreshold, 300)
	if selected != 0 {
		t.Error("Travel equal to the threshold selected")
	}

	// Just under the threshold reads as a click.
	ctrl.PointerDown(400, 300)
	ctrl.PointerUp(400+ClickThreshold-1, 300)
	if selected != 1 {
		t.Error("Travel under the threshold did not select")
	}
}

func TestMarkersHitBeforeMembers(t *testing.T) {
	ctrl := testController()
	// The panel marker sits behind the member box on the same ray; the
	// marker must still win the click.
	ctrl.SetMarkers(&MarkerSet{Markers: []Marker{{
		Kind:     MarkerPanel,
		RefID:    "P-1",
		Position: geometry.NewVector3(0, 2, -5),
		Color:    color.RGBA{0, 228, 48, 255},
		Radius:   PanelMarkerRadius,
	}}})

	var panels []string
	ctrl.SetOnPanelSelected(func(id string) { panels = append(panels, id) })
	ctrl.SetOnMemberSelected(func(id string) { t.Errorf("Member %s beat the marker", id) })

	clickAt(ctrl, 400, 300)

	if ctrl.Selection() != (Selection{Kind: SelectionPanel, ID: "P-1"}) {
		t.Errorf("Selection failed: got %+v", ctrl.Selection())
	}
	if len(panels) != 1 || panels[0] != "P-1" {
		t.Errorf("Panel callback failed: got %v", panels)
	}
}

func TestSensorMarkerSelection(t *testing.T) {
	ctrl := testController()
	ctrl.SetColliders(nil)
	ctrl.SetMarkers(&MarkerSet{Markers: []Marker{{
		Kind:     MarkerSensor,
		RefID:    "S-9",
		Position: geometry.NewVector3(0, 2, 0),
		Radius:   SensorMarkerRadius,
	}}})

	clickAt(ctrl, 400, 300)

	if ctrl.Selection() != (Selection{Kind: SelectionSensor, ID: "S-9"}) {
		t.Errorf("Selection failed: got %+v", ctrl.Selection())
	}
}

func TestSelectionMutuallyExclusive(t *testing.T) {
	ctrl := testController()

	// Select the member first, with no markers in the way.
	clickAt(ctrl, 400, 300)
	if ctrl.Selection().Kind != SelectionMember {
		t.Fatalf("Member selection failed: got %+v", ctrl.Selection())
	}

	// A panel click replaces the member selection entirely.
	ctrl.SetMarkers(&MarkerSet{Markers: []Marker{{
		Kind:     MarkerPanel,
		RefID:    "P-1",
		Position: geometry.NewVector3(0, 2, 10),
		Radius:   PanelMarkerRadius,
	}}})
	clickAt(ctrl, 400, 300)

	if ctrl.Selection() != (Selection{Kind: SelectionPanel, ID: "P-1"}) {
		t.Errorf("Selection failed: got %+v", ctrl.Selection())
	}
}

func TestSelectingNewMemberReplacesOld(t *testing.T) {
	ctrl := testController()
	ctrl.SetColliders([]Collider{
		{MemberID: "COL-1", Box: geometry.NewBox(
			geometry.NewVector3(-3, 2, 0), geometry.NewVector3(2, 2, 2))},
		{MemberID: "COL-2", Box: geometry.NewBox(
			geometry.NewVector3(3, 2, 0), geometry.NewVector3(2, 2, 2))},
	})
	var order []string
	ctrl.SetOnMemberSelected(func(id string) { order = append(order, id) })

	// Project each box center to find its pixel.
	x1, y1, _ := ctrl.Camera().Project(geometry.NewVector3(-3, 2, 0), 800, 600)
	x2, y2, _ := ctrl.Camera().Project(geometry.NewVector3(3, 2, 0), 800, 600)
	clickAt(ctrl, x1, y1)
	clickAt(ctrl, x2, y2)

	if ctrl.Selection() != (Selection{Kind: SelectionMember, ID: "COL-2"}) {
		t.Errorf("Selection failed: got %+v", ctrl.Selection())
	}
	if len(order) != 2 || order[0] != "COL-1" || order[1] != "COL-2" {
		t.Errorf("Selection order failed: got %v", order)
	}
}

func TestClickMissClearsSelection(t *testing.T) {
	ctrl := testController()
	cleared := 0
	ctrl.SetOnSelectionCleared(func() { cleared++ })

	clickAt(ctrl, 400, 300)
	if ctrl.Selection().Kind != SelectionMember {
		t.Fatal("Setup selection failed")
	}

	clickAt(ctrl, 5, 5)
	if ctrl.Selection().Kind != SelectionNone {
		t.Errorf("Miss did not clear: got %+v", ctrl.Selection())
	}
	if cleared != 1 {
		t.Errorf("Cleared callback failed: expected 1, got %d", cleared)
	}

	// A second miss with nothing selected stays silent.
	clickAt(ctrl, 5, 5)
	if cleared != 1 {
		t.Errorf("Cleared fired on empty selection: got %d", cleared)
	}
}

func TestHoverFollowsPointer(t *testing.T) {
	ctrl := testController()

	ctrl.PointerMove(400, 300)
	if ctrl.HoveredMember() != "COL-1" {
		t.Errorf("Hover failed: expected COL-1, got %q", ctrl.HoveredMember())
	}

	ctrl.PointerMove(5, 5)
	if ctrl.HoveredMember() != "" {
		t.Errorf("Hover not cleared on miss: got %q", ctrl.HoveredMember())
	}
}

func TestHoverSuppressedOnSelected(t *testing.T) {
	ctrl := testController()

	clickAt(ctrl, 400, 300)
	ctrl.PointerMove(400, 300)

	if ctrl.HoveredMember() != "" {
		t.Errorf("Selected member also hovered: got %q", ctrl.HoveredMember())
	}
}

func TestHoverIgnoresMarkers(t *testing.T) {
	ctrl := testController()
	ctrl.SetColliders(nil)
	ctrl.SetMarkers(&MarkerSet{Markers: []Marker{{
		Kind:     MarkerPanel,
		RefID:    "P-1",
		Position: geometry.NewVector3(0, 2, 0),
		Radius:   PanelMarkerRadius,
	}}})

	ctrl.PointerMove(400, 300)
	if ctrl.HoveredMember() != "" {
		t.Errorf("Marker produced a member hover: got %q", ctrl.HoveredMember())
	}
}

func TestWheelZoomClamped(t *testing.T) {
	ctrl := testController()
	cam := ctrl.Camera()

	for i := 0; i < 200; i++ {
		ctrl.Wheel(1)
	}
	if math.Abs(cam.Distance()-cam.MinDistance) > 1e-9 {
		t.Errorf("Wheel-in clamp failed: expected %v, got %v", cam.MinDistance, cam.Distance())
	}
	for i := 0; i < 200; i++ {
		ctrl.Wheel(-1)
	}
	if math.Abs(cam.Distance()-cam.MaxDistance) > 1e-9 {
		t.Errorf("Wheel-out clamp failed: expected %v, got %v", cam.MaxDistance, cam.Distance())
	}
}

func TestPingLifecycle(t *testing.T) {
	ctrl := testController()
	ctrl.SetMarkers(panelMarkers("P-1"))
	t0 := time.Date(2026, time.August, 25, 12, 0, 0, 0, time.UTC)

	ctrl.Ping("P-1", t0)

	progress, active := ctrl.PingProgress("P-1", t0.Add(time.Second))
	if !active {
		t.Fatal("Ping inactive at half time")
	}
	if math.Abs(progress-0.5) > 1e-9 {
		t.Errorf("Ping progress failed: expected 0.5, got %v", progress)
	}

	// The ping self-terminates after its window.
	ctrl.Tick(t0.Add(3*time.Second), 0.016)
	if _, active := ctrl.PingProgress("P-1", t0.Add(3*time.Second)); active {
		t.Error("Ping still active after expiry")
	}
}

func TestPingsIndependentPerPanel(t *testing.T) {
	ctrl := testController()
	ctrl.SetMarkers(panelMarkers("P-1", "P-2"))
	t0 := time.Date(2026, time.August, 25, 12, 0, 0, 0, time.UTC)

	ctrl.Ping("P-1", t0)
	ctrl.Ping("P-2", t0.Add(1500*time.Millisecond))

	at := t0.Add(2500 * time.Millisecond)
	ctrl.Tick(at, 0.016)

	if _, active := ctrl.PingProgress("P-1", at); active {
		t.Error("P-1 ping should have expired")
	}
	if _, active := ctrl.PingProgress("P-2", at); !active {
		t.Error("P-2 ping should still run")
	}
}

func TestPingUnknownPanelIgnored(t *testing.T) {
	ctrl := testController()
	ctrl.SetMarkers(panelMarkers("P-1"))
	t0 := time.Date(2026, time.August, 25, 12, 0, 0, 0, time.UTC)

	ctrl.Ping("P-404", t0)

	if _, active := ctrl.PingProgress("P-404", t0.Add(time.Second)); active {
		t.Error("Ping on an unknown panel should not start")
	}
}

// panelMarkers builds a marker set of panel markers with the given ids
func panelMarkers(ids ...string) *MarkerSet {
	ms := &MarkerSet{}
	for i, id := range ids {
		ms.Markers = append(ms.Markers, Marker{
			Kind:     MarkerPanel,
			RefID:    id,
			Position: geometry.NewVector3(float64(i*3), 2, -5),
			Color:    color.RGBA{0, 228, 48, 255},
			Radius:   PanelMarkerRadius,
		})
	}
	return ms
}

func TestResetRestoresAutoRotationAndClears(t *testing.T) {
	ctrl := testController()
	home := ctrl.Camera().Position

	clickAt(ctrl, 400, 300)
	ctrl.PointerDown(400, 300)
	ctrl.PointerMove(500, 250)
	ctrl.PointerUp(500, 250)

	ctrl.Reset()

	if ctrl.Mode() != AutoRotating {
		t.Errorf("Reset mode failed: expected %v, got %v", AutoRotating, ctrl.Mode())
	}
	if ctrl.Selection().Kind != SelectionNone {
		t.Errorf("Reset selection failed: got %+v", ctrl.Selection())
	}
	if ctrl.HoveredMember() != "" {
		t.Error("Reset left a hover")
	}
	if ctrl.Camera().Position != home {
		t.Errorf("Reset camera failed: expected %v, got %v", home, ctrl.Camera().Position)
	}
}

func TestSetMarkersKeepsAnimationClock(t *testing.T) {
	ctrl := testController()
	ctrl.Markers().Advance(1.2)

	ctrl.SetMarkers(&MarkerSet{})

	if got := ctrl.Markers().Clock(); got != 1.2 {
		t.Errorf("Clock failed: expected 1.2, got %v", got)
	}
}
