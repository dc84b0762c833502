package viewport

import (
	"image/color"
	"math"

	"github.com/structhealth/twinview/pkg/geometry"
	"github.com/structhealth/twinview/pkg/twin"
)

// MarkerKind distinguishes panel markers from sensor markers
type MarkerKind int

const (
	MarkerPanel MarkerKind = iota
	MarkerSensor
)

const (
	// PanelMarkerRadius is the hit-test sphere for a panel marker.
	// The pulse animation scales the drawn mesh, never this radius.
	PanelMarkerRadius = 0.45
	// SensorMarkerRadius is the hit-test sphere for a sensor marker
	SensorMarkerRadius = 0.28

	pulsePeriod     = 2.4 // seconds
	sensorPhaseStep = 0.7 // radians between consecutive sensors
)

// Marker is one live overlay object positioned straight from the feed
// record's world coordinates.
type Marker struct {
	Kind     MarkerKind
	RefID    string
	Position geometry.Vector3
	Color    color.RGBA
	Radius   float64
	Phase    float64
}

// MarkerSet is the marker collection built from one feed snapshot,
// plus the shared animation clock. It is rebuilt whole on every data
// refresh; ping state lives on the controller and survives the swap.
type MarkerSet struct {
	Markers []Marker

	clock float64
}

// BuildMarkers converts a snapshot into markers, panels first. Records
// with non-finite positions are skipped entirely: they are neither
// placed nor hit-testable. Sensor pulse phases step by feed index so
// neighbouring sensors never pulse in lockstep.
func BuildMarkers(snap *twin.Snapshot) *MarkerSet {
	ms := &MarkerSet{}
	if snap == nil {
		return ms
	}
	for _, p := range snap.Panels {
		if !p.Position.IsFinite() {
			continue
		}
		ms.Markers = append(ms.Markers, Marker{
			Kind:     MarkerPanel,
			RefID:    p.ID,
			Position: p.Position.Vector3(),
			Color:    p.Status.Color(),
			Radius:   PanelMarkerRadius,
		})
	}
	for i, s := range snap.Sensors {
		if !s.Position.IsFinite() {
			continue
		}
		ms.Markers = append(ms.Markers, Marker{
			Kind:     MarkerSensor,
			RefID:    s.ID,
			Position: s.Position.Vector3(),
			Color:    s.Status.Color(),
			Radius:   SensorMarkerRadius,
			Phase:    float64(i) * sensorPhaseStep,
		})
	}
	return ms
}

// HasPanel reports whether a panel marker with the given id exists
func (ms *MarkerSet) HasPanel(panelID string) bool {
	for _, m := range ms.Markers {
		if m.Kind == MarkerPanel && m.RefID == panelID {
			return true
		}
	}
	return false
}

// Advance moves the animation clock forward by dt seconds. Time-based
// so pulse speed is independent of frame rate.
func (ms *MarkerSet) Advance(dt float64) {
	ms.clock += dt
}

// Clock returns the accumulated animation time in seconds
func (ms *MarkerSet) Clock() float64 {
	return ms.clock
}

// PulseScale returns the cosmetic scale factor for a marker this frame
func (ms *MarkerSet) PulseScale(m Marker) float64 {
	return 1 + 0.12*math.Sin(2*math.Pi*ms.clock/pulsePeriod+m.Phase)
}

// RingAlpha returns the pulsing opacity for a panel marker's flat ring
func (ms *MarkerSet) RingAlpha(m Marker) float64 {
	wave := 0.5 + 0.5*math.Sin(2*math.Pi*ms.clock/pulsePeriod+m.Phase)
	return 0.3 + 0.4*wave
}
