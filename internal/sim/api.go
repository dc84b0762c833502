package sim

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handler serves the twin feed the viewer polls
type Handler struct {
	log     zerolog.Logger
	world   *World
	metrics *Metrics
}

func NewHandler(log zerolog.Logger, world *World, metrics *Metrics) *Handler {
	return &Handler{log: log, world: world, metrics: metrics}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(h.accessLog)

	r.Get("/healthz", h.handleHealthz)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/panels", h.handlePanels)
		r.Get("/sensors", h.handleSensors)
		r.Get("/alerts", h.handleAlerts)
		r.Post("/panels/{panelID}/ping", h.handlePing)
	})

	return r
}

func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		h.metrics.ObserveHTTPRequest(r.Method, r.URL.Path, ww.Status(), time.Since(start))
		h.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("http_request")
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, msg string) {
	h.writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": msg,
		},
	})
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) handlePanels(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.world.Snapshot().Panels)
}

func (h *Handler) handleSensors(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.world.Snapshot().Sensors)
}

func (h *Handler) handleAlerts(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.world.Snapshot().Alerts)
}

func (h *Handler) handlePing(w http.ResponseWriter, r *http.Request) {
	panelID := chi.URLParam(r, "panelID")
	if !h.world.Ping(panelID) {
		h.writeError(w, http.StatusNotFound, "unknown_panel", "no panel with id "+panelID)
		return
	}
	h.metrics.IncPing()
	h.log.Info().Str("panel", panelID).Msg("panel ping requested")
	h.writeJSON(w, http.StatusAccepted, map[string]any{
		"panel_id": panelID,
		"status":   "ping_queued",
	})
}
