package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"

	"github.com/structhealth/twinview/internal/feed"
	"github.com/structhealth/twinview/pkg/geometry"
	"github.com/structhealth/twinview/pkg/structure"
	"github.com/structhealth/twinview/pkg/twin"
	"github.com/structhealth/twinview/pkg/viewport"
)

// App holds all viewer state, grouped by concern. Everything in here
// belongs to the render loop thread; background goroutines only hand
// data over through the pending channels in SceneState and FeedState.
type App struct {
	Scene SceneState
	Feed  FeedState
	View  ViewSettings
	UI    UIState

	controller *viewport.Controller
	log        zerolog.Logger
}

// SceneState is the generated structure plus its GPU realization. The
// frame and the cladding bake into separate meshes so the cladding
// toggle is a draw-time decision, not a rebake.
type SceneState struct {
	structure *structure.Structure

	frameMesh    rl.Mesh
	claddingMesh rl.Mesh
	frameReady   bool
	claddingOK   bool
	material     rl.Material
	cylinders    []structure.Placement // gutters etc., drawn immediate-mode

	boxByID      map[string]geometry.Box   // selectable member id -> placed box
	groupByID    map[string]string         // selectable member id -> scene group
	boxesByGroup map[string][]geometry.Box // scene group -> member boxes

	configPath string        // building YAML being watched, empty for defaults
	watcher    *feed.Watcher // nil when configPath is empty
	pending    chan *structure.Structure
}

// FeedState tracks the live data source and the snapshot on screen
type FeedState struct {
	client   *feed.Client        // HTTP polling mode
	fixture  *feed.FixtureSource // local file mode
	updates  <-chan *twin.Snapshot
	snapshot *twin.Snapshot
	source   string        // HUD label for where the data comes from
	pollDone chan struct{} // closed once the poller goroutine exits
}

// ViewSettings holds display toggles
type ViewSettings struct {
	showCladding  bool
	showWireframe bool
	showLabels    bool
	showHelp      bool
}

// UIState holds HUD resources that need explicit teardown
type UIState struct {
	labels *labelCache // 3D member/panel text billboards
}
