package app

import (
	"context"
	"fmt"
	"math"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"

	"github.com/structhealth/twinview/pkg/structure"
	"github.com/structhealth/twinview/pkg/viewport"
)

const (
	screenWidth  = int32(1400)
	screenHeight = int32(900)
)

// Config selects the viewer's data sources and logging
type Config struct {
	ConfigPath   string // building YAML, empty for built-in defaults
	FeedURL      string // feed base URL, empty to disable polling
	FixturePath  string // local snapshot JSON, empty to disable
	PollInterval time.Duration
	Log          zerolog.Logger
}

// Run opens the window and drives the render loop until the user
// quits. When no window or GL context can be created it returns a
// *viewport.CapabilityError so callers can fall back to text output
// without ever attaching input handlers.
func Run(cfg Config) error {
	params := structure.DefaultParams()
	if cfg.ConfigPath != "" {
		p, err := structure.LoadParams(cfg.ConfigPath)
		if err != nil {
			return err
		}
		params = p
	}
	st, err := structure.Generate(params)
	if err != nil {
		return err
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint) // Must be before InitWindow
	rl.InitWindow(screenWidth, screenHeight, fmt.Sprintf("TwinView - %s", params.Name))
	if !rl.IsWindowReady() {
		rl.CloseWindow()
		return &viewport.CapabilityError{Reason: "window or GL context could not be created"}
	}
	rl.SetTargetFPS(60)
	rl.SetExitKey(0) // ESC clears the selection instead of closing

	app := &App{
		View: ViewSettings{
			showCladding: true,
			showLabels:   true,
		},
		UI:  UIState{labels: newLabelCache()},
		log: cfg.Log,
	}
	app.Scene.pending = make(chan *structure.Structure, 1)
	app.Scene.configPath = cfg.ConfigPath
	app.Scene.material = rl.LoadMaterialDefault()
	// Vertex colors are baked into the meshes, the material just carries them

	app.controller = viewport.NewController(viewport.NewCamera(st.Bounds()))
	app.controller.SetViewport(float64(screenWidth), float64(screenHeight))
	app.controller.SetOnMemberSelected(func(id string) {
		app.log.Debug().Str("member", id).Msg("member selected")
	})
	app.controller.SetOnPanelSelected(func(id string) {
		app.log.Debug().Str("panel", id).Msg("panel selected")
	})
	app.controller.SetOnSensorSelected(func(id string) {
		app.log.Debug().Str("sensor", id).Msg("sensor selected")
	})
	app.controller.SetOnSelectionCleared(func() {
		app.log.Debug().Msg("selection cleared")
	})

	app.realizeStructure(st)

	ctx, cancel := context.WithCancel(context.Background())
	app.setupFeed(ctx, cfg)
	if err := app.watchConfig(); err != nil {
		app.log.Warn().Err(err).Msg("config watch unavailable, edits will not hot-reload")
	}

	// Main loop
	for !rl.WindowShouldClose() {
		now := time.Now()

		app.applyPending()
		app.controller.SetViewport(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
		app.handleInput(now)
		app.controller.Tick(now, float64(rl.GetFrameTime()))

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(15, 18, 25, 255))

		camera := app.rlCamera()
		rl.BeginMode3D(camera)
		app.drawScene()
		app.drawMarkers(now)
		if app.View.showLabels {
			app.drawLabels(camera)
		}
		rl.EndMode3D()

		app.drawUI()

		rl.EndDrawing()
	}

	// Teardown: stop the feed first, then release GPU resources, then
	// the window. Runs exactly once; no callback survives past here.
	cancel()
	<-app.Feed.pollDone
	if app.Feed.fixture != nil {
		app.Feed.fixture.Close()
	}
	if app.Scene.watcher != nil {
		app.Scene.watcher.Close()
	}
	app.UI.labels.cleanup()
	app.unloadMeshes()
	rl.CloseWindow()
	return nil
}

// rlCamera bridges the pure orbit camera into raylib's camera struct
func (app *App) rlCamera() rl.Camera3D {
	cam := app.controller.Camera()
	return rl.Camera3D{
		Position:   rlVec(cam.Position),
		Target:     rlVec(cam.Target),
		Up:         rlVec(cam.Up),
		Fovy:       float32(cam.FOV * 180 / math.Pi),
		Projection: rl.CameraPerspective,
	}
}
