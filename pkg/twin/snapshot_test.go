package twin

import (
	"encoding/json"
	"math"
	"testing"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		Panels: []Panel{
			{ID: "P-1", Name: "North roof panel", Status: PanelGood, Position: Position{X: 0, Y: 8, Z: -5}},
			{ID: "P-2", Name: "West wall panel", Status: PanelCritical, Position: Position{X: -7, Y: 3, Z: 0}},
		},
		Sensors: []Sensor{
			{ID: "S-1", Type: "moisture", Status: SensorOnline, PanelID: "P-1", Position: Position{X: 0.5, Y: 8, Z: -5}},
			{ID: "S-2", Type: "strain", Status: SensorWarning, PanelID: "P-1", Position: Position{X: -0.5, Y: 8, Z: -5}},
			{ID: "S-3", Type: "thermal", Status: SensorOffline, PanelID: "P-9", Position: Position{X: 2, Y: 1, Z: 2}},
		},
	}
}

func TestPanelByID(t *testing.T) {
	s := testSnapshot()

	panel, ok := s.PanelByID("P-2")
	if !ok || panel.Name != "West wall panel" {
		t.Errorf("PanelByID failed: expected West wall panel, got %v (%v)", panel.Name, ok)
	}
	if _, ok := s.PanelByID("P-9"); ok {
		t.Error("PanelByID returned a panel for an unknown id")
	}
}

func TestSensorsForPanel(t *testing.T) {
	s := testSnapshot()

	got := s.SensorsForPanel("P-1")
	if len(got) != 2 {
		t.Fatalf("SensorsForPanel failed: expected 2, got %d", len(got))
	}
	// Feed order is preserved.
	if got[0].ID != "S-1" || got[1].ID != "S-2" {
		t.Errorf("SensorsForPanel order failed: got %s, %s", got[0].ID, got[1].ID)
	}
	if got := s.SensorsForPanel("P-9"); len(got) != 0 {
		t.Errorf("SensorsForPanel for unknown panel failed: expected none, got %d", len(got))
	}
}

func TestLocateSensorDanglingReference(t *testing.T) {
	s := testSnapshot()

	if got := s.LocateSensor(s.Sensors[0]); got != "North roof panel" {
		t.Errorf("LocateSensor failed: expected North roof panel, got %s", got)
	}
	if got := s.LocateSensor(s.Sensors[2]); got != UnknownLocation {
		t.Errorf("LocateSensor dangling failed: expected %s, got %s", UnknownLocation, got)
	}
}

func TestStatusColors(t *testing.T) {
	if PanelGood.Color() != statusGreen {
		t.Error("PanelGood color failed")
	}
	if PanelCritical.Color() != statusRed {
		t.Error("PanelCritical color failed")
	}
	if PanelStatus("garbage").Color() != statusGray {
		t.Error("Unknown panel status should read as gray")
	}
	if SensorOnline.Color() != statusGreen {
		t.Error("SensorOnline color failed")
	}
	if SensorOffline.Color() != statusGray {
		t.Error("SensorOffline color failed")
	}
	if AlertMoisture.Color() == AlertThermal.Color() {
		t.Error("Alert type colors should differ")
	}
}

func TestPositionFinite(t *testing.T) {
	if !(Position{X: 1, Y: 2, Z: 3}).IsFinite() {
		t.Error("Finite position reported non-finite")
	}
	if (Position{X: math.NaN(), Y: 2, Z: 3}).IsFinite() {
		t.Error("NaN position reported finite")
	}
	if (Position{X: 1, Y: math.Inf(1), Z: 3}).IsFinite() {
		t.Error("Inf position reported finite")
	}
}

func TestSnapshotWireFormat(t *testing.T) {
	raw := `{
		"panels": [{"panel_id": "P-1", "panel_name": "Roof", "status": "warning", "position": {"x": 1, "y": 2, "z": 3}}],
		"sensors": [{"sensor_id": "S-1", "sensor_type": "moisture", "status": "online",
			"battery_level": 87, "last_reading": 11.2, "reading_unit": "%", "panel_id": "P-1",
			"position": {"x": 1, "y": 2, "z": 3}}],
		"alerts": [{"id": "A-1", "type": "moisture", "severity": "high", "title": "Damp reading",
			"locationName": "Roof", "metric": "moisture", "value": 19.4,
			"coordinates": {"x": 1, "y": 2, "z": 3}}]
	}`

	var s Snapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if s.Panels[0].Status != PanelWarning {
		t.Errorf("Panel status failed: expected warning, got %s", s.Panels[0].Status)
	}
	if s.Sensors[0].BatteryLevel != 87 {
		t.Errorf("Battery level failed: expected 87, got %d", s.Sensors[0].BatteryLevel)
	}
	if s.Sensors[0].ReadingUnit != "%" {
		t.Errorf("Reading unit failed: expected %%, got %s", s.Sensors[0].ReadingUnit)
	}
	if s.Alerts[0].LocationName != "Roof" {
		t.Errorf("Alert location failed: expected Roof, got %s", s.Alerts[0].LocationName)
	}
	if s.Alerts[0].Coordinates.Vector3().Y != 2 {
		t.Errorf("Alert coordinates failed: expected y=2, got %v", s.Alerts[0].Coordinates.Vector3().Y)
	}
}
