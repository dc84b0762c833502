// Package viewport owns the interactive camera and the input state
// machine around it: orbit and zoom, hover and selection hit-testing,
// marker animation and the per-frame screen-space projection the 2D
// overlay anchors to. It is display-agnostic; the render loop feeds it
// pointer events and ticks and reads its state back out.
package viewport

import (
	"math"
	"time"

	"github.com/structhealth/twinview/pkg/geometry"
)

// Mode is the camera interaction state
type Mode int

const (
	AutoRotating Mode = iota
	UserOrbiting
	Idle
)

func (m Mode) String() string {
	switch m {
	case AutoRotating:
		return "auto"
	case UserOrbiting:
		return "orbit"
	case Idle:
		return "idle"
	}
	return "unknown"
}

// SelectionKind discriminates what the current selection refers to
type SelectionKind int

const (
	SelectionNone SelectionKind = iota
	SelectionMember
	SelectionPanel
	SelectionSensor
)

// Selection is the controller's selection sub-state. Member and entity
// selection are mutually exclusive: one Selection value holds either.
type Selection struct {
	Kind SelectionKind
	ID   string
}

// Collider is a hit-testable structural member. Decorative geometry is
// never registered as a collider.
type Collider struct {
	MemberID string
	Box      geometry.Box
}

const (
	// ClickThreshold is the pointer travel in pixels below which a
	// down/up pair reads as a click instead of a drag end.
	ClickThreshold = 5.0

	// PingDuration is how long a panel ping animation runs before it
	// terminates on its own.
	PingDuration = 2 * time.Second

	orbitSensitivity = 0.008 // radians per pixel
	liftSensitivity  = 0.05  // world units per pixel
	zoomInFactor     = 0.9
	zoomOutFactor    = 1.1
	autoRotateSpeed  = 0.25 // radians per second
)

// Controller runs the viewport interaction state machine. All methods
// are called from the render loop's thread; nothing here locks.
type Controller struct {
	camera *Camera

	width  float64
	height float64

	mode      Mode
	colliders []Collider
	markers   *MarkerSet

	hovered   string
	selection Selection

	pointerDown  bool
	downX, downY float64
	lastX, lastY float64

	pings map[string]time.Time

	onMemberSelected   func(id string)
	onPanelSelected    func(id string)
	onSensorSelected   func(id string)
	onSelectionCleared func()
}

// NewController creates a controller in the auto-rotating state
func NewController(camera *Camera) *Controller {
	return &Controller{
		camera:  camera,
		mode:    AutoRotating,
		markers: &MarkerSet{},
		pings:   map[string]time.Time{},
	}
}

// SetViewport records the pixel size projection and rays are built for
func (c *Controller) SetViewport(width, height float64) {
	c.width = width
	c.height = height
}

// SetColliders replaces the hit-testable member set
func (c *Controller) SetColliders(colliders []Collider) {
	c.colliders = colliders
}

// SetMarkers swaps in the marker set for the current feed snapshot.
// The animation clock carries over so pulses do not jump on refresh.
func (c *Controller) SetMarkers(ms *MarkerSet) {
	if ms == nil {
		ms = &MarkerSet{}
	}
	ms.clock = c.markers.clock
	c.markers = ms
}

// Markers returns the active marker set
func (c *Controller) Markers() *MarkerSet {
	return c.markers
}

// Camera returns the controlled camera
func (c *Controller) Camera() *Camera {
	return c.camera
}

// Mode returns the current interaction state
func (c *Controller) Mode() Mode {
	return c.mode
}

// HoveredMember returns the hovered member id, or "" when none
func (c *Controller) HoveredMember() string {
	return c.hovered
}

// Selection returns the current selection sub-state
func (c *Controller) Selection() Selection {
	return c.selection
}

// Dragging reports whether a pointer button is held down
func (c *Controller) Dragging() bool {
	return c.pointerDown
}

// SetOnMemberSelected registers the member selection callback
func (c *Controller) SetOnMemberSelected(fn func(id string)) {
	c.onMemberSelected = fn
}

// SetOnPanelSelected registers the panel selection callback
func (c *Controller) SetOnPanelSelected(fn func(id string)) {
	c.onPanelSelected = fn
}

// SetOnSensorSelected registers the sensor selection callback
func (c *Controller) SetOnSensorSelected(fn func(id string)) {
	c.onSensorSelected = fn
}

// SetOnSelectionCleared registers the deselection callback
func (c *Controller) SetOnSelectionCleared(fn func()) {
	c.onSelectionCleared = fn
}

// PointerDown starts a drag/click gesture and cancels auto-rotation
func (c *Controller) PointerDown(x, y float64) {
	c.pointerDown = true
	c.downX, c.downY = x, y
	c.lastX, c.lastY = x, y
	c.mode = UserOrbiting
}

// PointerMove orbits the camera while the pointer is down, otherwise
// updates the hover state.
func (c *Controller) PointerMove(x, y float64) {
	if c.pointerDown {
		dx := x - c.lastX
		dy := y - c.lastY
		c.lastX, c.lastY = x, y
		c.camera.OrbitBy(dx * orbitSensitivity)
		c.camera.Lift(-dy * liftSensitivity)
		return
	}
	c.updateHover(x, y)
}

// PointerUp ends the gesture. Travel under the click threshold since
// pointer-down reads as a click and runs a selection attempt; anything
// longer is a plain drag end. Either way the camera goes idle.
func (c *Controller) PointerUp(x, y float64) {
	if !c.pointerDown {
		return
	}
	c.pointerDown = false
	c.mode = Idle
	if math.Hypot(x-c.downX, y-c.downY) < ClickThreshold {
		c.click(x, y)
	}
}

// Wheel zooms by a fixed factor per wheel step, direction by sign
func (c *Controller) Wheel(delta float64) {
	if delta > 0 {
		c.camera.ZoomBy(zoomInFactor)
	} else if delta < 0 {
		c.camera.ZoomBy(zoomOutFactor)
	}
}

// ZoomIn steps the camera closer
func (c *Controller) ZoomIn() {
	c.camera.ZoomBy(zoomInFactor)
}

// ZoomOut steps the camera away
func (c *Controller) ZoomOut() {
	c.camera.ZoomBy(zoomOutFactor)
}

// Reset restores the default view, re-enables auto-rotation and
// clears hover and selection.
func (c *Controller) Reset() {
	c.camera.Reset()
	c.mode = AutoRotating
	c.pointerDown = false
	c.hovered = ""
	c.clearSelection()
}

// ClearSelection drops the current selection without touching the
// camera. No-op when nothing is selected.
func (c *Controller) ClearSelection() {
	c.clearSelection()
}

// Ping starts the time-boxed ping animation on one panel. Pings on
// different panels run independently; ids without a panel marker are
// ignored.
func (c *Controller) Ping(panelID string, now time.Time) {
	if !c.markers.HasPanel(panelID) {
		return
	}
	c.pings[panelID] = now.Add(PingDuration)
}

// PingProgress reports how far a panel's ping animation has run, in
// [0, 1]. Expired or never-started pings report inactive.
func (c *Controller) PingProgress(panelID string, now time.Time) (float64, bool) {
	until, ok := c.pings[panelID]
	if !ok || now.After(until) {
		return 0, false
	}
	elapsed := PingDuration - until.Sub(now)
	return float64(elapsed) / float64(PingDuration), true
}

// Tick advances one frame: auto-rotation, marker animation, and ping
// expiry. dt is the frame delta in seconds.
func (c *Controller) Tick(now time.Time, dt float64) {
	if c.mode == AutoRotating {
		c.camera.OrbitBy(autoRotateSpeed * dt)
	}
	c.markers.Advance(dt)
	for id, until := range c.pings {
		if now.After(until) {
			delete(c.pings, id)
		}
	}
}

// updateHover ray-casts members only. The selected member never shows
// the hover tint; its selected tint takes precedence.
func (c *Controller) updateHover(x, y float64) {
	ray := c.camera.Unproject(x, y, c.width, c.height)
	id, ok := c.nearestMember(ray)
	if !ok || (c.selection.Kind == SelectionMember && c.selection.ID == id) {
		c.hovered = ""
		return
	}
	c.hovered = id
}

// click resolves a selection attempt. Markers are tested before
// members: a marker hit wins even when a member sits closer on the
// ray. A full miss clears the selection.
func (c *Controller) click(x, y float64) {
	ray := c.camera.Unproject(x, y, c.width, c.height)

	if marker, ok := c.nearestMarker(ray); ok {
		c.hovered = ""
		switch marker.Kind {
		case MarkerPanel:
			c.selection = Selection{Kind: SelectionPanel, ID: marker.RefID}
			if c.onPanelSelected != nil {
				c.onPanelSelected(marker.RefID)
			}
		case MarkerSensor:
			c.selection = Selection{Kind: SelectionSensor, ID: marker.RefID}
			if c.onSensorSelected != nil {
				c.onSensorSelected(marker.RefID)
			}
		}
		return
	}

	if id, ok := c.nearestMember(ray); ok {
		c.selection = Selection{Kind: SelectionMember, ID: id}
		if c.hovered == id {
			c.hovered = ""
		}
		if c.onMemberSelected != nil {
			c.onMemberSelected(id)
		}
		return
	}

	c.clearSelection()
}

func (c *Controller) clearSelection() {
	if c.selection.Kind == SelectionNone {
		return
	}
	c.selection = Selection{}
	if c.onSelectionCleared != nil {
		c.onSelectionCleared()
	}
}

// nearestMarker returns the closest marker the ray pierces. The hit
// sphere is the marker's fixed radius; pulse scale plays no part.
func (c *Controller) nearestMarker(ray geometry.Ray) (Marker, bool) {
	best := math.MaxFloat64
	var hit Marker
	found := false
	for _, m := range c.markers.Markers {
		if dist, ok := ray.IntersectSphere(m.Position, m.Radius); ok && dist < best {
			best = dist
			hit = m
			found = true
		}
	}
	return hit, found
}

// nearestMember returns the closest collider the ray pierces
func (c *Controller) nearestMember(ray geometry.Ray) (string, bool) {
	best := math.MaxFloat64
	id := ""
	for _, col := range c.colliders {
		if dist, ok := ray.IntersectBox(col.Box); ok && dist < best {
			best = dist
			id = col.MemberID
		}
	}
	return id, id != ""
}
