package feed

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/structhealth/twinview/pkg/twin"
)

// LoadFixture reads a full snapshot from a JSON file
func LoadFixture(path string) (*twin.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	snap := &twin.Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return snap, nil
}

// FixtureSource serves a local fixture file as the feed and hot-swaps
// the data when the file is edited.
type FixtureSource struct {
	path    string
	watcher *Watcher
	updates chan *twin.Snapshot
	log     zerolog.Logger
}

// NewFixtureSource loads the fixture eagerly so a broken file fails at
// startup instead of showing an empty scene.
func NewFixtureSource(path string, log zerolog.Logger) (*FixtureSource, error) {
	snap, err := LoadFixture(path)
	if err != nil {
		return nil, err
	}

	f := &FixtureSource{
		path:    path,
		updates: make(chan *twin.Snapshot, 1),
		log:     log,
	}
	f.updates <- snap
	return f, nil
}

// Updates yields the initial snapshot and every successful reload
func (f *FixtureSource) Updates() <-chan *twin.Snapshot {
	return f.updates
}

// Start begins watching the fixture file for edits
func (f *FixtureSource) Start() error {
	w, err := NewWatcher(300*time.Millisecond, f.log)
	if err != nil {
		return err
	}
	if err := w.Watch(f.path, func(string) { f.reload() }); err != nil {
		w.Close()
		return err
	}
	w.Start()
	f.watcher = w
	return nil
}

// reload re-reads the file. A fixture that no longer parses keeps the
// previous data on screen.
func (f *FixtureSource) reload() {
	snap, err := LoadFixture(f.path)
	if err != nil {
		f.log.Warn().Err(err).Msg("fixture reload failed, keeping previous data")
		return
	}
	pushLatest(f.updates, snap)
	f.log.Info().
		Int("panels", len(snap.Panels)).
		Int("sensors", len(snap.Sensors)).
		Int("alerts", len(snap.Alerts)).
		Msg("fixture reloaded")
}

// Close stops the file watcher
func (f *FixtureSource) Close() error {
	if f.watcher != nil {
		return f.watcher.Close()
	}
	return nil
}
