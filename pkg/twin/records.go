// Package twin holds the live-data records the viewer consumes: panels,
// sensors and alerts as delivered by the feed, plus the lookups that
// resolve the weak references between them. The package owns the wire
// format (JSON tags) so the feed client, the fixture loader and the
// simulator all agree on it.
package twin

import (
	"github.com/structhealth/twinview/pkg/geometry"
)

// Position is a world-space coordinate as carried on the wire
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vector3 converts the wire coordinate into scene space
func (p Position) Vector3() geometry.Vector3 {
	return geometry.NewVector3(p.X, p.Y, p.Z)
}

// IsFinite reports whether the position is usable for placement.
// Markers with non-finite positions are skipped, never rendered.
func (p Position) IsFinite() bool {
	return p.Vector3().IsFinite()
}

// PanelStatus is the reported condition of a structural panel
type PanelStatus string

const (
	PanelGood     PanelStatus = "good"
	PanelWarning  PanelStatus = "warning"
	PanelCritical PanelStatus = "critical"
	PanelOffline  PanelStatus = "offline"
)

// SensorStatus is the reported condition of a sensor node
type SensorStatus string

const (
	SensorOnline   SensorStatus = "online"
	SensorWarning  SensorStatus = "warning"
	SensorCritical SensorStatus = "critical"
	SensorOffline  SensorStatus = "offline"
)

// AlertType classifies an alert by the condition that raised it
type AlertType string

const (
	AlertMoisture AlertType = "moisture"
	AlertThermal  AlertType = "thermal"
)

// Panel is a monitored wall or roof panel with its own status feed
type Panel struct {
	ID       string      `json:"panel_id"`
	Name     string      `json:"panel_name"`
	Status   PanelStatus `json:"status"`
	Position Position    `json:"position"`
}

// Sensor is a sensor node mounted on a panel. PanelID is a weak
// reference: the referenced panel may be gone from the same snapshot.
type Sensor struct {
	ID           string       `json:"sensor_id"`
	Type         string       `json:"sensor_type"`
	Status       SensorStatus `json:"status"`
	BatteryLevel int          `json:"battery_level"`
	LastReading  float64      `json:"last_reading"`
	ReadingUnit  string       `json:"reading_unit"`
	PanelID      string       `json:"panel_id"`
	Position     Position     `json:"position"`
}

// Alert is a condition raised by the monitoring pipeline, anchored to a
// world coordinate for the tooltip overlay.
type Alert struct {
	ID           string    `json:"id"`
	Type         AlertType `json:"type"`
	Severity     string    `json:"severity"`
	Title        string    `json:"title"`
	LocationName string    `json:"locationName"`
	Metric       string    `json:"metric"`
	Value        float64   `json:"value"`
	Coordinates  Position  `json:"coordinates"`
}
