// Package viewer renders a generated structure on a fyne canvas. It
// projects placement boxes through the pure viewport camera onto 2D
// line primitives, so it works wherever a widget toolkit does, with no
// GL context of its own.
package viewer

import (
	"image/color"
	"math"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/structhealth/twinview/pkg/geometry"
	"github.com/structhealth/twinview/pkg/viewport"
)

// Shape is one displayable box with its registry identity. Decorative
// shapes carry an empty member id and never highlight.
type Shape struct {
	MemberID string
	Box      geometry.Box
	Color    color.RGBA
}

var (
	hoverColor    = color.RGBA{R: 245, G: 245, B: 245, A: 255}
	selectedColor = color.RGBA{R: 253, G: 249, B: 0, A: 255}
	pingColor     = color.RGBA{R: 255, G: 255, B: 255, A: 230}
)

// StructureRenderer is a fyne widget that draws the structure as a
// depth-dimmed wireframe with live markers on top. All pointer
// gestures feed the embedded viewport controller, which owns camera,
// hover and selection state.
type StructureRenderer struct {
	widget.BaseWidget

	controller *viewport.Controller
	shapes     []Shape

	lines   []*canvas.Line
	circles []*canvas.Circle

	width       float64
	height      float64
	pointerDown bool
	lastPointer fyne.Position
	lastTick    time.Time
}

// NewStructureRenderer creates a renderer with a camera framing the
// given bounds
func NewStructureRenderer(bounds geometry.BoundingBox) *StructureRenderer {
	r := &StructureRenderer{
		controller: viewport.NewController(viewport.NewCamera(bounds)),
	}
	r.ExtendBaseWidget(r)
	return r
}

// Controller exposes the interaction state machine so the frontend can
// wire colliders, markers and selection callbacks
func (r *StructureRenderer) Controller() *viewport.Controller {
	return r.controller
}

// SetShapes replaces the displayed geometry. Colliders are unaffected:
// visibility toggles change what is drawn, not what is selectable.
func (r *StructureRenderer) SetShapes(shapes []Shape) {
	r.shapes = shapes
	r.Render(r.width, r.height)
}

// CreateRenderer creates the renderer for the widget
func (r *StructureRenderer) CreateRenderer() fyne.WidgetRenderer {
	return &structureWidgetRenderer{
		renderer: r,
		objects:  []fyne.CanvasObject{},
	}
}

// Redraw re-renders at the current size
func (r *StructureRenderer) Redraw() {
	r.Render(r.width, r.height)
}

// Step advances the animation clock and redraws. The frontend drives
// it from its frame ticker.
func (r *StructureRenderer) Step(now time.Time) {
	dt := 0.0
	if !r.lastTick.IsZero() {
		dt = now.Sub(r.lastTick).Seconds()
	}
	r.lastTick = now
	r.controller.Tick(now, dt)
	r.Render(r.width, r.height)
}

// Render rebuilds the canvas primitives for the current camera pose
func (r *StructureRenderer) Render(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width = width
	r.height = height
	r.controller.SetViewport(width, height)

	cam := r.controller.Camera()
	camDist := cam.Distance()
	hovered := r.controller.HoveredMember()
	sel := r.controller.Selection()

	r.lines = make([]*canvas.Line, 0, len(r.shapes)*12)
	for _, shape := range r.shapes {
		col := shape.Color
		stroke := float32(1)
		switch {
		case shape.MemberID != "" && sel.Kind == viewport.SelectionMember && sel.ID == shape.MemberID:
			col = selectedColor
			stroke = 2
		case shape.MemberID != "" && shape.MemberID == hovered:
			col = hoverColor
			stroke = 2
		}

		for _, edge := range shape.Box.Edges() {
			x1, y1, z1 := cam.Project(edge[0], width, height)
			x2, y2, z2 := cam.Project(edge[1], width, height)
			if z1 <= 0 || z2 <= 0 {
				continue
			}

			// Dim with distance past the orbit target so the near
			// side stays readable against the far side
			line := canvas.NewLine(dim(col, camDist/((z1+z2)/2)))
			line.StrokeWidth = stroke
			line.Position1 = fyne.NewPos(float32(x1), float32(y1))
			line.Position2 = fyne.NewPos(float32(x2), float32(y2))
			r.lines = append(r.lines, line)
		}
	}

	r.updateMarkers()
	r.Refresh()
}

// updateMarkers rebuilds the circle primitives for the marker overlay
func (r *StructureRenderer) updateMarkers() {
	r.circles = make([]*canvas.Circle, 0)

	ms := r.controller.Markers()
	if ms == nil || len(ms.Markers) == 0 {
		return
	}

	cam := r.controller.Camera()
	sel := r.controller.Selection()
	now := time.Now()
	// Perspective scale: world units to pixels at the marker's depth
	focal := (r.height / 2) / math.Tan(cam.FOV/2)

	anchors := viewport.ProjectMarkers(cam, ms, r.width, r.height)
	for i, a := range anchors {
		if !a.Visible {
			continue
		}
		m := ms.Markers[i]

		radius := m.Radius * ms.PulseScale(m) * focal / a.Depth
		radius = math.Max(3, math.Min(40, radius))

		marker := canvas.NewCircle(m.Color)
		if markerSelected(sel, m) {
			marker.StrokeColor = color.White
			marker.StrokeWidth = 2
		}
		place(marker, a.X, a.Y, radius)
		r.circles = append(r.circles, marker)

		if m.Kind == viewport.MarkerPanel {
			if progress, ok := r.controller.PingProgress(m.RefID, now); ok {
				ring := canvas.NewCircle(color.Transparent)
				ring.StrokeColor = fade(pingColor, 1-progress)
				ring.StrokeWidth = 2
				place(ring, a.X, a.Y, radius*(1+3*progress))
				r.circles = append(r.circles, ring)
			}
		}
	}
}

// Dragged handles mouse drag events for orbiting
func (r *StructureRenderer) Dragged(event *fyne.DragEvent) {
	x := float64(event.Position.X)
	y := float64(event.Position.Y)
	if !r.pointerDown {
		r.pointerDown = true
		r.controller.PointerDown(x-float64(event.Dragged.DX), y-float64(event.Dragged.DY))
	}
	r.controller.PointerMove(x, y)
	r.lastPointer = event.Position
	r.Render(r.width, r.height)
}

// DragEnd handles the end of a drag event
func (r *StructureRenderer) DragEnd() {
	if r.pointerDown {
		r.pointerDown = false
		r.controller.PointerUp(float64(r.lastPointer.X), float64(r.lastPointer.Y))
	}
}

// Tapped resolves a tap as a press and release in place, which the
// controller turns into marker or member selection
func (r *StructureRenderer) Tapped(event *fyne.PointEvent) {
	x := float64(event.Position.X)
	y := float64(event.Position.Y)
	r.controller.PointerDown(x, y)
	r.controller.PointerUp(x, y)
	r.Render(r.width, r.height)
}

// Scrolled handles scroll events for zooming
func (r *StructureRenderer) Scrolled(event *fyne.ScrollEvent) {
	r.controller.Wheel(float64(event.Scrolled.DY))
	r.Render(r.width, r.height)
}

func markerSelected(sel viewport.Selection, m viewport.Marker) bool {
	switch m.Kind {
	case viewport.MarkerPanel:
		return sel.Kind == viewport.SelectionPanel && sel.ID == m.RefID
	case viewport.MarkerSensor:
		return sel.Kind == viewport.SelectionSensor && sel.ID == m.RefID
	}
	return false
}

// place centers a circle of the given pixel radius on a point
func place(c *canvas.Circle, x, y, radius float64) {
	d := float32(radius * 2)
	c.Resize(fyne.NewSize(d, d))
	c.Move(fyne.NewPos(float32(x-radius), float32(y-radius)))
}

// dim scales a color by a clamped depth factor
func dim(col color.RGBA, f float64) color.RGBA {
	if f > 1 {
		f = 1
	}
	if f < 0.35 {
		f = 0.35
	}
	return color.RGBA{
		R: uint8(float64(col.R) * f),
		G: uint8(float64(col.G) * f),
		B: uint8(float64(col.B) * f),
		A: col.A,
	}
}

// fade scales a color's alpha
func fade(col color.RGBA, f float64) color.RGBA {
	if f < 0 {
		f = 0
	}
	col.A = uint8(float64(col.A) * f)
	return col
}

// structureWidgetRenderer implements fyne.WidgetRenderer
type structureWidgetRenderer struct {
	renderer *StructureRenderer
	objects  []fyne.CanvasObject
}

func (s *structureWidgetRenderer) Layout(size fyne.Size) {
	s.renderer.Render(float64(size.Width), float64(size.Height))
}

func (s *structureWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(480, 360)
}

func (s *structureWidgetRenderer) Refresh() {
	s.objects = make([]fyne.CanvasObject, 0, len(s.renderer.lines)+len(s.renderer.circles))

	for _, line := range s.renderer.lines {
		s.objects = append(s.objects, line)
	}
	for _, marker := range s.renderer.circles {
		s.objects = append(s.objects, marker)
	}

	canvas.Refresh(s.renderer)
}

func (s *structureWidgetRenderer) Objects() []fyne.CanvasObject {
	return s.objects
}

func (s *structureWidgetRenderer) Destroy() {}
