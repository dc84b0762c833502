package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/structhealth/twinview/internal/app"
	"github.com/structhealth/twinview/internal/feed"
	"github.com/structhealth/twinview/internal/logging"
	"github.com/structhealth/twinview/pkg/twin"
	"github.com/structhealth/twinview/pkg/viewport"
)

var (
	viewerConfig   string
	viewerFeedURL  string
	viewerFixture  string
	viewerPoll     time.Duration
	viewerLogLevel string
)

func init() {
	rootCmd.Flags().StringVarP(&viewerConfig, "config", "c", "", "Building parameters YAML (built-in defaults when empty)")
	rootCmd.Flags().StringVar(&viewerFeedURL, "feed", os.Getenv("TWINVIEW_FEED_URL"), "Monitoring daemon base URL")
	rootCmd.Flags().StringVar(&viewerFixture, "fixture", "", "Local snapshot JSON instead of a live feed")
	rootCmd.Flags().DurationVar(&viewerPoll, "poll", 2*time.Second, "Feed poll interval")
	rootCmd.Flags().StringVar(&viewerLogLevel, "log-level", envOr("TWINVIEW_LOG_LEVEL", "info"), "Log level (trace, debug, info, warn, error)")
}

func runViewer(cmd *cobra.Command, args []string) {
	log := logging.NewConsole(viewerLogLevel)

	err := app.Run(app.Config{
		ConfigPath:   viewerConfig,
		FeedURL:      viewerFeedURL,
		FixturePath:  viewerFixture,
		PollInterval: viewerPoll,
		Log:          log,
	})
	if err == nil {
		return
	}

	var capErr *viewport.CapabilityError
	if errors.As(err, &capErr) {
		log.Warn().Str("reason", capErr.Reason).Msg("3D viewport unavailable, printing text report")
		runTextReport(log)
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// runTextReport is the fallback surface when no rendering context can
// be created: the structure summary plus the current alert list.
func runTextReport(log zerolog.Logger) {
	var args []string
	if viewerConfig != "" {
		args = append(args, viewerConfig)
	}
	st, source := loadStructure(args)

	fmt.Printf("%s (%s)\n", st.Params.Name, source)
	stats := st.Stats()
	fmt.Printf("Structural members: %d, bays: %d x %d, truss lines: %d\n",
		stats.MemberCount, stats.BaysX, stats.BaysZ, stats.TrussLines)
	fmt.Printf("Footprint: %.1f x %.1f m, height %.1f m\n\n",
		stats.Dimensions.X, stats.Dimensions.Z, stats.Dimensions.Y)

	snap := fetchSnapshotOnce(log)
	if snap == nil {
		fmt.Println("No feed configured; alert status unknown.")
		return
	}
	fmt.Printf("Panels: %d, sensors: %d\n\n", len(snap.Panels), len(snap.Sensors))
	fmt.Print(viewport.FormatAlertList(snap.Alerts))
}

// fetchSnapshotOnce loads one snapshot from whichever source is
// configured, in the same priority order the viewer uses, or nil when
// there is none or it fails.
func fetchSnapshotOnce(log zerolog.Logger) *twin.Snapshot {
	if viewerFeedURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		snap, err := feed.NewClient(viewerFeedURL, viewerPoll, log).Fetch(ctx)
		if err != nil {
			log.Warn().Err(err).Str("url", viewerFeedURL).Msg("feed unavailable")
			return nil
		}
		return snap
	}
	if viewerFixture != "" {
		snap, err := feed.LoadFixture(viewerFixture)
		if err != nil {
			log.Warn().Err(err).Str("path", viewerFixture).Msg("fixture unavailable")
			return nil
		}
		return snap
	}
	return nil
}

// envOr returns the environment value or a fallback when unset
func envOr(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
