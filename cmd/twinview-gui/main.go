package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/structhealth/twinview/internal/feed"
	"github.com/structhealth/twinview/internal/logging"
	"github.com/structhealth/twinview/internal/scene"
	"github.com/structhealth/twinview/pkg/structure"
	"github.com/structhealth/twinview/pkg/twin"
	"github.com/structhealth/twinview/pkg/viewer"
	"github.com/structhealth/twinview/pkg/viewport"
	"github.com/structhealth/twinview/version"
)

// frameInterval paces the animation ticker. Canvas lines are cheap to
// rebuild, but there is no point outrunning the toolkit.
const frameInterval = 50 * time.Millisecond

var (
	guiConfig   string
	guiFeedURL  string
	guiFixture  string
	guiPoll     time.Duration
	guiLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "twinview-gui",
	Short: "Widget-toolkit frontend for the structural digital twin",
	Long: `twinview-gui renders the generated structure as an interactive
wireframe with the fyne toolkit, for hosts where raylib's GL
requirements are unavailable. Camera, selection and live feed
semantics match the main viewer.`,
	Version: version.GetFullVersion(),
	Args:    cobra.NoArgs,
	Run:     runGUI,
}

func init() {
	rootCmd.Flags().StringVarP(&guiConfig, "config", "c", "", "Building parameters YAML (built-in defaults when empty)")
	rootCmd.Flags().StringVar(&guiFeedURL, "feed", os.Getenv("TWINVIEW_FEED_URL"), "Monitoring daemon base URL")
	rootCmd.Flags().StringVar(&guiFixture, "fixture", "", "Local snapshot JSON instead of a live feed")
	rootCmd.Flags().DurationVar(&guiPoll, "poll", 2*time.Second, "Feed poll interval")
	rootCmd.Flags().StringVar(&guiLogLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// App ties the wireframe view, the sidebar and the feed together
type App struct {
	window fyne.Window
	view   *viewer.StructureRenderer
	st     *structure.Structure
	client *feed.Client
	log    zerolog.Logger

	snapshot *twin.Snapshot
	sidebar  *Sidebar
}

func runGUI(cmd *cobra.Command, args []string) {
	log := logging.NewConsole(guiLogLevel)

	params := structure.DefaultParams()
	if guiConfig != "" {
		p, err := structure.LoadParams(guiConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading building config: %v\n", err)
			os.Exit(1)
		}
		params = p
	}
	st, err := structure.Generate(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating structure: %v\n", err)
		os.Exit(1)
	}

	a := app.New()
	w := a.NewWindow(fmt.Sprintf("TwinView - %s", params.Name))

	gui := &App{window: w, st: st, log: log}
	gui.view = viewer.NewStructureRenderer(st.Bounds())
	gui.view.Controller().SetColliders(scene.Colliders(st))
	gui.view.SetShapes(buildShapes(st, true))

	gui.sidebar = newSidebar(gui)
	gui.wireSelection()

	content := container.NewBorder(
		nil,                 // top
		nil,                 // bottom
		nil,                 // left
		gui.sidebar.content, // right
		gui.view,            // center
	)
	w.SetContent(content)

	ctx, cancel := context.WithCancel(context.Background())
	w.SetOnClosed(cancel)
	gui.startFeed(ctx)
	go gui.animate(ctx)

	w.Resize(fyne.NewSize(1200, 800))
	w.ShowAndRun()
}

// wireSelection routes controller selection events into the sidebar.
// The callbacks fire from pointer handlers, so they already run on the
// toolkit thread.
func (a *App) wireSelection() {
	ctrl := a.view.Controller()
	ctrl.SetOnMemberSelected(func(id string) { a.sidebar.showMember(id) })
	ctrl.SetOnPanelSelected(func(id string) { a.sidebar.showPanel(id) })
	ctrl.SetOnSensorSelected(func(id string) { a.sidebar.showSensor(id) })
	ctrl.SetOnSelectionCleared(func() { a.sidebar.clearSelection() })
}

// startFeed connects whichever data source is configured and pumps its
// snapshots onto the toolkit thread.
func (a *App) startFeed(ctx context.Context) {
	var updates <-chan *twin.Snapshot

	switch {
	case guiFeedURL != "":
		a.client = feed.NewClient(guiFeedURL, guiPoll, a.log)
		updates = a.client.Updates()
		go a.client.Run(ctx)
		a.sidebar.setFeedStatus("polling " + guiFeedURL)
	case guiFixture != "":
		src, err := feed.NewFixtureSource(guiFixture, a.log)
		if err != nil {
			a.log.Warn().Err(err).Str("path", guiFixture).Msg("fixture unavailable, continuing without live data")
			a.sidebar.setFeedStatus("fixture unavailable")
			return
		}
		if err := src.Start(); err != nil {
			a.log.Warn().Err(err).Msg("fixture watch failed, edits will not hot-swap")
		}
		updates = src.Updates()
		go func() {
			<-ctx.Done()
			_ = src.Close()
		}()
		a.sidebar.setFeedStatus("fixture " + guiFixture)
	default:
		a.sidebar.setFeedStatus("no feed configured")
		return
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case snap := <-updates:
				fyne.Do(func() { a.applySnapshot(snap) })
			}
		}
	}()
}

// animate drives pulse, ping and auto-rotation from a fixed ticker
func (a *App) animate(ctx context.Context) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fyne.Do(func() { a.view.Step(time.Now()) })
		}
	}
}

// applySnapshot swaps in new feed data. The controller carries the
// animation clock and ping state across the marker swap.
func (a *App) applySnapshot(snap *twin.Snapshot) {
	a.snapshot = snap
	a.view.Controller().SetMarkers(viewport.BuildMarkers(snap))
	a.sidebar.refreshFeed(snap)
}

// pingSelected starts the local ping animation and forwards the
// request to the daemon when one is connected
func (a *App) pingSelected() {
	sel := a.view.Controller().Selection()
	if sel.Kind != viewport.SelectionPanel {
		return
	}
	a.view.Controller().Ping(sel.ID, time.Now())

	if a.client == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := a.client.Ping(ctx, sel.ID); err != nil {
			a.log.Warn().Err(err).Str("panel", sel.ID).Msg("ping request failed")
		}
	}()
}

// buildShapes converts placements into displayable wireframe shapes
func buildShapes(st *structure.Structure, showCladding bool) []viewer.Shape {
	shapes := make([]viewer.Shape, 0, len(st.Placements))
	for _, p := range st.Placements {
		if !showCladding && scene.IsCladding(p.Kind) {
			continue
		}
		shapes = append(shapes, viewer.Shape{
			MemberID: p.MemberID,
			Box:      p.Box,
			Color:    scene.PlacementColor(st, p),
		})
	}
	return shapes
}
