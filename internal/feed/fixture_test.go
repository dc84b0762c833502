package feed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const fixtureJSON = `{
  "panels": [
    {"panel_id": "P-1", "panel_name": "North wall upper", "status": "good", "position": {"x": 1, "y": 4, "z": 0}}
  ],
  "sensors": [
    {"sensor_id": "S-1", "sensor_type": "moisture", "status": "online", "battery_level": 87,
     "last_reading": 12.4, "reading_unit": "%", "panel_id": "P-1", "position": {"x": 1.2, "y": 4.1, "z": 0}}
  ],
  "alerts": []
}`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "twin.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestLoadFixture(t *testing.T) {
	path := writeFixture(t, fixtureJSON)

	snap, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("LoadFixture failed: %v", err)
	}
	if len(snap.Panels) != 1 || snap.Panels[0].ID != "P-1" {
		t.Errorf("unexpected panels: %+v", snap.Panels)
	}
	if len(snap.Sensors) != 1 || snap.Sensors[0].ReadingUnit != "%" {
		t.Errorf("unexpected sensors: %+v", snap.Sensors)
	}
	if snap.Alerts == nil || len(snap.Alerts) != 0 {
		t.Errorf("expected empty alert list, got %+v", snap.Alerts)
	}
}

func TestLoadFixtureMissingFile(t *testing.T) {
	if _, err := LoadFixture(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing file, got nil")
	}
}

func TestLoadFixtureRejectsBadJSON(t *testing.T) {
	path := writeFixture(t, `{"panels": [`)

	_, err := LoadFixture(path)
	if err == nil {
		t.Fatalf("expected parse error, got nil")
	}
	if !strings.Contains(err.Error(), "parse fixture") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestFixtureSourceDeliversInitialSnapshot(t *testing.T) {
	path := writeFixture(t, fixtureJSON)

	src, err := NewFixtureSource(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFixtureSource failed: %v", err)
	}
	defer src.Close()

	select {
	case snap := <-src.Updates():
		if len(snap.Panels) != 1 {
			t.Errorf("expected 1 panel in initial snapshot, got %d", len(snap.Panels))
		}
	default:
		t.Fatalf("expected the initial snapshot to be buffered")
	}
}

func TestFixtureSourceFailsOnBadFile(t *testing.T) {
	path := writeFixture(t, `not json at all`)

	if _, err := NewFixtureSource(path, zerolog.Nop()); err == nil {
		t.Fatalf("expected startup error for a broken fixture, got nil")
	}
}

func TestFixtureSourceReloadsOnEdit(t *testing.T) {
	path := writeFixture(t, fixtureJSON)

	src, err := NewFixtureSource(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFixtureSource failed: %v", err)
	}
	defer src.Close()
	<-src.Updates()

	if err := src.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	edited := strings.Replace(fixtureJSON, `"North wall upper"`, `"Renamed panel"`, 1)
	if err := os.WriteFile(path, []byte(edited), 0o644); err != nil {
		t.Fatalf("failed to rewrite fixture: %v", err)
	}

	select {
	case snap := <-src.Updates():
		if snap.Panels[0].Name != "Renamed panel" {
			t.Errorf("expected reloaded panel name, got %q", snap.Panels[0].Name)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no reload delivered after editing the fixture")
	}
}

func TestFixtureSourceKeepsDataOnBadEdit(t *testing.T) {
	path := writeFixture(t, fixtureJSON)

	src, err := NewFixtureSource(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFixtureSource failed: %v", err)
	}
	defer src.Close()
	<-src.Updates()

	if err := src.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// A broken edit must never surface; the next good edit does.
	if err := os.WriteFile(path, []byte(`{"panels": [`), 0o644); err != nil {
		t.Fatalf("failed to rewrite fixture: %v", err)
	}
	time.Sleep(600 * time.Millisecond)

	good := strings.Replace(fixtureJSON, `"battery_level": 87`, `"battery_level": 42`, 1)
	if err := os.WriteFile(path, []byte(good), 0o644); err != nil {
		t.Fatalf("failed to rewrite fixture: %v", err)
	}

	select {
	case snap := <-src.Updates():
		if snap.Sensors[0].BatteryLevel != 42 {
			t.Errorf("expected snapshot from the good edit, got battery %d", snap.Sensors[0].BatteryLevel)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no reload delivered after the good edit")
	}
}
