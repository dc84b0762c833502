// Package sim implements the sensor-feed simulator: a drifting world of
// panels, sensors and alerts seeded around a generated structure, served
// over the same REST surface the viewer polls.
package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/structhealth/twinview/pkg/structure"
	"github.com/structhealth/twinview/pkg/twin"
)

const (
	batteryDrain = 0.003
	lowBattery   = 15.0
	surgeChance  = 0.004
	maxAlerts    = 12
)

// sensorProfile is the drift band for one sensor type
type sensorProfile struct {
	unit       string
	base       float64
	jitter     float64
	relax      float64
	surge      float64
	warn       float64
	critical   float64
	alertType  twin.AlertType
	alertTitle string
}

var profiles = map[string]sensorProfile{
	"moisture": {
		unit: "%", base: 12, jitter: 0.6, relax: 0.03, surge: 40,
		warn: 30, critical: 45,
		alertType: twin.AlertMoisture, alertTitle: "Moisture above limit",
	},
	"thermal": {
		unit: "°C", base: 21, jitter: 0.4, relax: 0.03, surge: 32,
		warn: 35, critical: 50,
		alertType: twin.AlertThermal, alertTitle: "Over-temperature",
	},
}

func (p sensorProfile) statusFor(reading, battery float64) twin.SensorStatus {
	if battery <= 0 {
		return twin.SensorOffline
	}
	switch {
	case reading >= p.critical:
		return twin.SensorCritical
	case reading >= p.warn || battery < lowBattery:
		return twin.SensorWarning
	default:
		return twin.SensorOnline
	}
}

// sensorNode pairs the wire record with the fractional battery backing
// the integer battery_level field.
type sensorNode struct {
	twin.Sensor
	battery float64
}

// World is the drifting twin state behind the simulator API. All
// mutation happens under the lock; handlers read copies via Snapshot.
type World struct {
	mu      sync.RWMutex
	log     zerolog.Logger
	metrics *Metrics
	rng     *rand.Rand

	panels        []twin.Panel
	sensors       []sensorNode
	alerts        []twin.Alert
	alertBySensor map[string]string
	lastPing      map[string]time.Time
}

// NewWorld seeds a twin around the generated structure: panels on the
// walls and roof slopes, two sensors per panel, one standing alert. The
// same seed replays the same drift; alert ids stay unique across runs.
func NewWorld(st *structure.Structure, seed int64, log zerolog.Logger, metrics *Metrics) *World {
	w := &World{
		log:           log,
		metrics:       metrics,
		rng:           rand.New(rand.NewSource(seed)),
		alertBySensor: map[string]string{},
		lastPing:      map[string]time.Time{},
	}
	w.seed(st.Params)
	return w
}

func (w *World) seed(p structure.BuildingParams) {
	halfW, halfL := p.Width/2, p.Length/2
	wallY := p.EaveHeight * 0.55
	roofY := p.EaveHeight + p.RidgeRise/2

	spots := []struct {
		name string
		pos  twin.Position
	}{
		{"Front wall left", twin.Position{X: -p.Width / 4, Y: wallY, Z: halfL}},
		{"Front wall right", twin.Position{X: p.Width / 4, Y: wallY, Z: halfL}},
		{"Back wall left", twin.Position{X: -p.Width / 4, Y: wallY, Z: -halfL}},
		{"Back wall right", twin.Position{X: p.Width / 4, Y: wallY, Z: -halfL}},
		{"Left wall center", twin.Position{X: -halfW, Y: wallY, Z: 0}},
		{"Right wall center", twin.Position{X: halfW, Y: wallY, Z: 0}},
		{"Roof west slope", twin.Position{X: -p.Width / 4, Y: roofY, Z: 0}},
		{"Roof east slope", twin.Position{X: p.Width / 4, Y: roofY, Z: 0}},
	}

	for i, spot := range spots {
		panel := twin.Panel{
			ID:       fmt.Sprintf("P-%d", i+1),
			Name:     spot.name,
			Status:   twin.PanelGood,
			Position: spot.pos,
		}
		w.panels = append(w.panels, panel)

		for _, typ := range []string{"moisture", "thermal"} {
			prof := profiles[typ]
			battery := 60 + w.rng.Float64()*40
			node := sensorNode{
				Sensor: twin.Sensor{
					ID:          fmt.Sprintf("S-%d", len(w.sensors)+1),
					Type:        typ,
					Status:      twin.SensorOnline,
					LastReading: round1(prof.base + (w.rng.Float64()-0.5)*2*prof.jitter),
					ReadingUnit: prof.unit,
					PanelID:     panel.ID,
					Position: twin.Position{
						X: spot.pos.X + (w.rng.Float64()-0.5)*0.8,
						Y: spot.pos.Y + (w.rng.Float64()-0.5)*0.8,
						Z: spot.pos.Z + (w.rng.Float64()-0.5)*0.8,
					},
				},
				battery: battery,
			}
			node.BatteryLevel = int(battery)
			w.sensors = append(w.sensors, node)
		}
	}

	// one standing alert so a fresh viewer exercises the overlay path
	first := w.sensors[0]
	w.alerts = append(w.alerts, twin.Alert{
		ID:           uuid.NewString(),
		Type:         twin.AlertMoisture,
		Severity:     "medium",
		Title:        "Seasonal damp inspection due",
		LocationName: w.panels[0].Name,
		Metric:       first.Type,
		Value:        first.LastReading,
		Coordinates:  first.Position,
	})
}

// Run drifts the world on the given interval until the context ends
func (w *World) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Tick()
		}
	}
}

// Tick advances the drift one step: readings walk with a pull back
// toward their base, batteries decay, statuses and alerts follow.
func (w *World) Tick() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := range w.sensors {
		w.driftSensor(&w.sensors[i])
	}
	w.refreshPanels()
	w.pruneAlerts()

	counts := map[twin.PanelStatus]int{}
	for _, p := range w.panels {
		counts[p.Status]++
	}
	w.metrics.IncTick()
	w.metrics.SetPanelCounts(counts)
	w.log.Debug().
		Int("critical_panels", counts[twin.PanelCritical]).
		Int("alerts", len(w.alerts)).
		Msg("world tick")
}

func (w *World) driftSensor(s *sensorNode) {
	prof, ok := profiles[s.Type]
	if !ok {
		return
	}

	if s.battery > 0 {
		s.battery -= batteryDrain * (0.5 + w.rng.Float64())
		if s.battery < 0 {
			s.battery = 0
		}
		reading := s.LastReading
		reading += (w.rng.Float64() - 0.5) * 2 * prof.jitter
		reading -= (reading - prof.base) * prof.relax
		if w.rng.Float64() < surgeChance {
			reading += prof.surge * (0.6 + 0.7*w.rng.Float64())
		}
		if reading < 0 {
			reading = 0
		}
		s.LastReading = round1(reading)
	}
	s.BatteryLevel = int(s.battery + 0.5)

	prev := s.Status
	s.Status = prof.statusFor(s.LastReading, s.battery)
	if s.Status == twin.SensorCritical && prev != twin.SensorCritical {
		w.mintAlert(s, prof)
	}
	if prev == twin.SensorCritical && s.Status != twin.SensorCritical {
		w.resolveAlert(s.ID)
	}
}

func (w *World) mintAlert(s *sensorNode, prof sensorProfile) {
	alert := twin.Alert{
		ID:           uuid.NewString(),
		Type:         prof.alertType,
		Severity:     "critical",
		Title:        prof.alertTitle,
		LocationName: w.panelName(s.PanelID),
		Metric:       s.Type,
		Value:        s.LastReading,
		Coordinates:  s.Position,
	}
	w.alerts = append(w.alerts, alert)
	w.alertBySensor[s.ID] = alert.ID
	w.log.Info().
		Str("sensor", s.ID).
		Str("alert", alert.ID).
		Float64("value", s.LastReading).
		Msg("critical reading")
}

// resolveAlert drops the alert minted for a sensor once it recovers
func (w *World) resolveAlert(sensorID string) {
	alertID, ok := w.alertBySensor[sensorID]
	if !ok {
		return
	}
	delete(w.alertBySensor, sensorID)
	for i, a := range w.alerts {
		if a.ID == alertID {
			w.alerts = append(w.alerts[:i], w.alerts[i+1:]...)
			return
		}
	}
}

func (w *World) refreshPanels() {
	for i := range w.panels {
		w.panels[i].Status = w.panelStatus(w.panels[i].ID)
	}
}

// panelStatus is the worst status among a panel's sensors. A panel goes
// offline only when every sensor on it is offline.
func (w *World) panelStatus(panelID string) twin.PanelStatus {
	var found, critical, warning bool
	allOffline := true
	for i := range w.sensors {
		s := &w.sensors[i]
		if s.PanelID != panelID {
			continue
		}
		found = true
		switch s.Status {
		case twin.SensorCritical:
			critical = true
			allOffline = false
		case twin.SensorWarning:
			warning = true
			allOffline = false
		case twin.SensorOnline:
			allOffline = false
		}
	}
	switch {
	case !found:
		return twin.PanelOffline
	case critical:
		return twin.PanelCritical
	case warning:
		return twin.PanelWarning
	case allOffline:
		return twin.PanelOffline
	default:
		return twin.PanelGood
	}
}

// pruneAlerts caps the alert list, dropping the oldest first
func (w *World) pruneAlerts() {
	for len(w.alerts) > maxAlerts {
		dropped := w.alerts[0]
		w.alerts = w.alerts[1:]
		for sensorID, alertID := range w.alertBySensor {
			if alertID == dropped.ID {
				delete(w.alertBySensor, sensorID)
				break
			}
		}
	}
}

func (w *World) panelName(id string) string {
	for _, p := range w.panels {
		if p.ID == id {
			return p.Name
		}
	}
	return twin.UnknownLocation
}

// Snapshot copies the current world state in the feed wire shape.
// Slices are always non-nil so endpoints encode [] rather than null.
func (w *World) Snapshot() twin.Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	snap := twin.Snapshot{
		Panels:  append([]twin.Panel{}, w.panels...),
		Sensors: make([]twin.Sensor, len(w.sensors)),
		Alerts:  append([]twin.Alert{}, w.alerts...),
	}
	for i := range w.sensors {
		snap.Sensors[i] = w.sensors[i].Sensor
	}
	return snap
}

// Ping records a ping request against a panel, reporting whether the
// panel exists.
func (w *World) Ping(panelID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range w.panels {
		if p.ID == panelID {
			w.lastPing[panelID] = time.Now()
			return true
		}
	}
	return false
}

// LastPing reports when a panel last received a ping request
func (w *World) LastPing(panelID string) (time.Time, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	t, ok := w.lastPing[panelID]
	return t, ok
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
