package viewport

import (
	"image/color"

	"github.com/structhealth/twinview/pkg/twin"
)

// Anchor is a 3D point projected into viewport pixels for a 2D overlay
// element. A non-visible anchor must not be drawn and must not take
// pointer events.
type Anchor struct {
	RefID   string
	Label   string
	X, Y    float64
	Depth   float64
	Visible bool
	Color   color.RGBA
}

// ProjectMarkers computes this frame's overlay anchors for the marker
// set. Markers behind the camera or outside the viewport project as
// not visible.
func ProjectMarkers(cam *Camera, ms *MarkerSet, width, height float64) []Anchor {
	anchors := make([]Anchor, 0, len(ms.Markers))
	for _, m := range ms.Markers {
		x, y, depth := cam.Project(m.Position, width, height)
		anchors = append(anchors, Anchor{
			RefID:   m.RefID,
			X:       x,
			Y:       y,
			Depth:   depth,
			Visible: onScreen(x, y, depth, width, height),
			Color:   m.Color,
		})
	}
	return anchors
}

// ProjectAlerts computes tooltip anchors for the alert list. Alerts
// with non-finite coordinates are dropped, not just hidden.
func ProjectAlerts(cam *Camera, alerts []twin.Alert, width, height float64) []Anchor {
	anchors := make([]Anchor, 0, len(alerts))
	for _, a := range alerts {
		if !a.Coordinates.IsFinite() {
			continue
		}
		x, y, depth := cam.Project(a.Coordinates.Vector3(), width, height)
		anchors = append(anchors, Anchor{
			RefID:   a.ID,
			Label:   a.Title,
			X:       x,
			Y:       y,
			Depth:   depth,
			Visible: onScreen(x, y, depth, width, height),
			Color:   a.Type.Color(),
		})
	}
	return anchors
}

func onScreen(x, y, depth, width, height float64) bool {
	if depth <= nearPlane {
		return false
	}
	return x >= 0 && x <= width && y >= 0 && y <= height
}
