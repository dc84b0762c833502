package twin

// UnknownLocation is what a dangling panel reference resolves to
const UnknownLocation = "Unknown"

// Snapshot is one consistent view of the feed. The viewer swaps whole
// snapshots; records inside one are never mutated.
type Snapshot struct {
	Panels  []Panel  `json:"panels"`
	Sensors []Sensor `json:"sensors"`
	Alerts  []Alert  `json:"alerts"`
}

// PanelByID resolves a panel reference
func (s *Snapshot) PanelByID(id string) (Panel, bool) {
	for _, p := range s.Panels {
		if p.ID == id {
			return p, true
		}
	}
	return Panel{}, false
}

// SensorByID resolves a sensor reference
func (s *Snapshot) SensorByID(id string) (Sensor, bool) {
	for _, sn := range s.Sensors {
		if sn.ID == id {
			return sn, true
		}
	}
	return Sensor{}, false
}

// SensorsForPanel returns the sensors mounted on a panel, in feed order
func (s *Snapshot) SensorsForPanel(panelID string) []Sensor {
	var out []Sensor
	for _, sn := range s.Sensors {
		if sn.PanelID == panelID {
			out = append(out, sn)
		}
	}
	return out
}

// LocateSensor names the panel a sensor is mounted on. A panel_id that
// matches no panel yields UnknownLocation, never an error: panels may
// drop out of the feed while their sensors keep reporting.
func (s *Snapshot) LocateSensor(sensor Sensor) string {
	if panel, ok := s.PanelByID(sensor.PanelID); ok {
		return panel.Name
	}
	return UnknownLocation
}
