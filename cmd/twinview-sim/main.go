package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/structhealth/twinview/internal/logging"
	"github.com/structhealth/twinview/internal/sim"
	"github.com/structhealth/twinview/pkg/structure"
	"github.com/structhealth/twinview/version"
)

var (
	simAddr     string
	simConfig   string
	simSeed     int64
	simTick     time.Duration
	simLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "twinview-sim",
	Short: "Structural monitoring feed simulator",
	Long: `twinview-sim seeds monitoring panels and sensors over a generated
building structure and serves their drifting readings, statuses and
alerts as the REST feed the viewer polls.`,
	Version: version.GetFullVersion(),
	Args:    cobra.NoArgs,
	Run:     runSim,
}

func init() {
	rootCmd.Flags().StringVar(&simAddr, "addr", envOr("TWINVIEW_SIM_ADDR", ":8091"), "HTTP listen address")
	rootCmd.Flags().StringVarP(&simConfig, "config", "c", "", "Building parameters YAML (built-in defaults when empty)")
	rootCmd.Flags().Int64Var(&simSeed, "seed", envInt("TWINVIEW_SIM_SEED", 1), "Simulation random seed")
	rootCmd.Flags().DurationVar(&simTick, "tick", 2*time.Second, "Sensor drift interval")
	rootCmd.Flags().StringVar(&simLogLevel, "log-level", envOr("LOG_LEVEL", "info"), "Log level (trace, debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSim(cmd *cobra.Command, args []string) {
	logger := logging.New("twinview-sim", simLogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	params := structure.DefaultParams()
	if simConfig != "" {
		p, err := structure.LoadParams(simConfig)
		if err != nil {
			logger.Fatal().Err(err).Str("path", simConfig).Msg("failed to load building config")
		}
		params = p
	}
	st, err := structure.Generate(params)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to generate structure")
	}

	metrics := sim.NewMetrics()
	world := sim.NewWorld(st, simSeed, logger, metrics)
	go world.Run(ctx, simTick)

	h := sim.NewHandler(logger, world, metrics)
	srv := &http.Server{
		Addr:              simAddr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", simAddr).
			Str("building", params.Name).
			Int64("seed", simSeed).
			Dur("tick", simTick).
			Msg("twinview-sim listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info().Msg("shutdown complete")
}

func envOr(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
