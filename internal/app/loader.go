package app

import (
	"context"
	"time"

	"github.com/structhealth/twinview/internal/feed"
	"github.com/structhealth/twinview/pkg/structure"
	"github.com/structhealth/twinview/pkg/twin"
	"github.com/structhealth/twinview/pkg/viewport"
)

const configDebounce = 500 * time.Millisecond

// setupFeed connects the configured data source. At most one of the
// URL and fixture paths is used; with neither the viewer shows the
// generated structure alone. pollDone is always closed eventually so
// teardown can wait on it unconditionally.
func (app *App) setupFeed(ctx context.Context, cfg Config) {
	app.Feed.pollDone = make(chan struct{})

	switch {
	case cfg.FeedURL != "":
		client := feed.NewClient(cfg.FeedURL, cfg.PollInterval, app.log)
		app.Feed.client = client
		app.Feed.updates = client.Updates()
		app.Feed.source = cfg.FeedURL
		go func() {
			client.Run(ctx)
			close(app.Feed.pollDone)
		}()

	case cfg.FixturePath != "":
		close(app.Feed.pollDone)
		src, err := feed.NewFixtureSource(cfg.FixturePath, app.log)
		if err != nil {
			app.log.Warn().Err(err).Msg("fixture unavailable, continuing without live data")
			app.Feed.source = "none"
			return
		}
		if err := src.Start(); err != nil {
			app.log.Warn().Err(err).Msg("fixture watch failed, edits will not hot-swap")
		}
		app.Feed.fixture = src
		app.Feed.updates = src.Updates()
		app.Feed.source = cfg.FixturePath

	default:
		close(app.Feed.pollDone)
		app.Feed.source = "none"
	}
}

// watchConfig regenerates the structure whenever the building YAML
// changes. Generation is pure and runs on the watcher goroutine; only
// the swap happens in the render loop. A config that no longer
// validates keeps the previous structure on screen.
func (app *App) watchConfig() error {
	if app.Scene.configPath == "" {
		return nil
	}

	w, err := feed.NewWatcher(configDebounce, app.log)
	if err != nil {
		return err
	}
	err = w.Watch(app.Scene.configPath, func(path string) {
		params, err := structure.LoadParams(path)
		if err != nil {
			app.log.Warn().Err(err).Msg("config reload failed, keeping previous structure")
			return
		}
		st, err := structure.Generate(params)
		if err != nil {
			app.log.Warn().Err(err).Msg("config reload failed, keeping previous structure")
			return
		}
		// Latest wins: a stale pending structure is dropped unseen
		select {
		case <-app.Scene.pending:
		default:
		}
		select {
		case app.Scene.pending <- st:
		default:
		}
	})
	if err != nil {
		w.Close()
		return err
	}
	w.Start()
	app.Scene.watcher = w
	return nil
}

// applyPending drains the update channels at the top of the frame.
// Swaps happen here on the render thread, never in the goroutines
// that produced the data.
func (app *App) applyPending() {
	select {
	case snap := <-app.Feed.updates:
		app.applySnapshot(snap)
	default:
	}

	select {
	case st := <-app.Scene.pending:
		app.realizeStructure(st)
		app.log.Info().Int("members", len(st.Registry)).Msg("structure reloaded")
	default:
	}
}

// applySnapshot swaps the live data on screen. The marker set is
// rebuilt whole; the controller carries the animation clock and ping
// state across the swap.
func (app *App) applySnapshot(snap *twin.Snapshot) {
	app.Feed.snapshot = snap
	app.controller.SetMarkers(viewport.BuildMarkers(snap))
}
