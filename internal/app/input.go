package app

import (
	"context"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/structhealth/twinview/pkg/viewport"
)

const pingRequestTimeout = 3 * time.Second

// handleInput translates this frame's raylib events into controller
// calls and view-setting flips. The controller owns all interaction
// rules; nothing here decides what a click means.
func (app *App) handleInput(now time.Time) {
	mouse := rl.GetMousePosition()
	x, y := float64(mouse.X), float64(mouse.Y)

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		app.controller.PointerDown(x, y)
	}
	// Move runs every frame: it drives both drag-orbit and hover
	app.controller.PointerMove(x, y)
	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		app.controller.PointerUp(x, y)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		app.controller.Wheel(float64(wheel))
	}

	if rl.IsKeyPressed(rl.KeyR) || rl.IsKeyPressed(rl.KeyHome) {
		app.controller.Reset()
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		app.controller.ClearSelection()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		app.View.showCladding = !app.View.showCladding
	}
	if rl.IsKeyPressed(rl.KeyW) {
		app.View.showWireframe = !app.View.showWireframe
	}
	if rl.IsKeyPressed(rl.KeyL) {
		app.View.showLabels = !app.View.showLabels
	}
	if rl.IsKeyPressed(rl.KeyH) || rl.IsKeyPressed(rl.KeyF1) {
		app.View.showHelp = !app.View.showHelp
	}
	if rl.IsKeyPressed(rl.KeyP) {
		app.pingSelectedPanel(now)
	}
}

// pingSelectedPanel starts the ring animation on the selected panel
// and forwards the request to the feed when one is connected. The
// animation runs locally either way.
func (app *App) pingSelectedPanel(now time.Time) {
	sel := app.controller.Selection()
	if sel.Kind != viewport.SelectionPanel {
		return
	}
	app.controller.Ping(sel.ID, now)

	if app.Feed.client == nil {
		return
	}
	go func(id string) {
		ctx, cancel := context.WithTimeout(context.Background(), pingRequestTimeout)
		defer cancel()
		if err := app.Feed.client.Ping(ctx, id); err != nil {
			app.log.Warn().Err(err).Str("panel", id).Msg("ping request failed")
		}
	}(sel.ID)
}
