package sim

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/structhealth/twinview/pkg/structure"
	"github.com/structhealth/twinview/pkg/twin"
)

func testHandler(t *testing.T) (*Handler, *World) {
	t.Helper()
	st, err := structure.Generate(structure.DefaultParams())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	m := NewMetrics()
	world := NewWorld(st, 1, zerolog.Nop(), m)
	return NewHandler(zerolog.Nop(), world, m), world
}

func TestPanelsEndpoint(t *testing.T) {
	h, world := testHandler(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/panels", nil)
	h.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Content-Type"); !strings.Contains(got, "application/json") {
		t.Fatalf("expected json content-type, got %q", got)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}

	var panels []twin.Panel
	if err := json.Unmarshal(rr.Body.Bytes(), &panels); err != nil {
		t.Fatalf("failed to decode panels: %v", err)
	}
	if want := len(world.Snapshot().Panels); len(panels) != want {
		t.Errorf("expected %d panels, got %d", want, len(panels))
	}
}

func TestSensorsEndpoint(t *testing.T) {
	h, world := testHandler(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/sensors", nil)
	h.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var sensors []twin.Sensor
	if err := json.Unmarshal(rr.Body.Bytes(), &sensors); err != nil {
		t.Fatalf("failed to decode sensors: %v", err)
	}
	snap := world.Snapshot()
	if len(sensors) != len(snap.Sensors) {
		t.Fatalf("expected %d sensors, got %d", len(snap.Sensors), len(sensors))
	}
	for _, s := range sensors {
		if _, ok := snap.PanelByID(s.PanelID); !ok {
			t.Errorf("sensor %s references unknown panel %s", s.ID, s.PanelID)
		}
	}
}

func TestAlertsEndpoint(t *testing.T) {
	h, _ := testHandler(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/alerts", nil)
	h.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var alerts []twin.Alert
	if err := json.Unmarshal(rr.Body.Bytes(), &alerts); err != nil {
		t.Fatalf("failed to decode alerts: %v", err)
	}
	if len(alerts) == 0 {
		t.Errorf("expected the seeded alert to be served")
	}
}

func TestPingEndpoint(t *testing.T) {
	h, world := testHandler(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/panels/P-3/ping", nil)
	h.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rr.Code, rr.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode ping response: %v", err)
	}
	if body["status"] != "ping_queued" || body["panel_id"] != "P-3" {
		t.Errorf("unexpected ping response: %v", body)
	}
	if _, ok := world.LastPing("P-3"); !ok {
		t.Errorf("expected the world to record the ping")
	}
}

func TestPingUnknownPanel(t *testing.T) {
	h, _ := testHandler(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/panels/P-99/ping", nil)
	h.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rr.Code, rr.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	errObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error envelope, got: %v", body)
	}
	if errObj["code"] != "unknown_panel" {
		t.Errorf("expected unknown_panel, got %v", errObj["code"])
	}
}

func TestHealthzEndpoint(t *testing.T) {
	h, _ := testHandler(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	h.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode healthz body: %v", err)
	}
	if body["ok"] != true {
		t.Errorf("expected ok=true, got %v", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h, world := testHandler(t)
	world.Tick()

	router := h.Router()

	warm := httptest.NewRecorder()
	router.ServeHTTP(warm, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	body := rr.Body.String()
	for _, metric := range []string{
		"twinview_http_requests_total",
		"twinview_world_ticks_total",
		"twinview_panels_by_status",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("expected %s in the scrape output", metric)
		}
	}
}
