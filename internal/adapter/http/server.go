package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/navwarn-etl/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxParseBody caps POST /v1/parse request bodies.
const maxParseBody = 10 << 20

// WarningQuerier answers bounding-box queries over indexed warnings.
type WarningQuerier interface {
	Search(b domain.Bounds) []domain.WarningRecord
}

// Server exposes health, readiness, metrics, and the warning query API.
type Server struct {
	httpServer *http.Server
	parser     domain.MemorandumParser
	warnings   WarningQuerier
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /v1/parse and /v1/warnings routes. warnings may be nil when the index is
// disabled.
func NewServer(addr string, ready sharedobs.ReadinessChecker, parser domain.MemorandumParser, warnings WarningQuerier, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		parser:   parser,
		warnings: warnings,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /v1/parse", s.handleParse)
	mux.HandleFunc("GET /v1/warnings", s.handleWarnings)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleParse accepts a RawMemorandum JSON body or plain text named by the
// "name" query parameter, and returns the parsed warnings.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxParseBody))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	memo, err := domain.ParseRawEvent(domain.RawEvent{
		Value:   body,
		Headers: map[string]string{"memorandum": r.URL.Query().Get("name")},
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	records := s.parser.ParseMemorandum(memo.Name, memo.Text)
	for i := range records {
		records[i] = domain.EnrichWarningRecord(records[i])
	}
	s.logger.Debug("parse request", "memorandum", memo.Name, "warnings", len(records))
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleWarnings(w http.ResponseWriter, r *http.Request) {
	if s.warnings == nil {
		writeError(w, http.StatusNotFound, errors.New("warning index disabled"))
		return
	}

	bounds := domain.Bounds{MinLat: -90, MinLon: -180, MaxLat: 90, MaxLon: 180}
	if raw := r.URL.Query().Get("bbox"); raw != "" {
		var err error
		if bounds, err = parseBBox(raw); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	records := s.warnings.Search(bounds)
	if records == nil {
		records = []domain.WarningRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// parseBBox reads "minLon,minLat,maxLon,maxLat".
func parseBBox(raw string) (domain.Bounds, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return domain.Bounds{}, fmt.Errorf("invalid bbox %q: want minLon,minLat,maxLon,maxLat", raw)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.Bounds{}, fmt.Errorf("invalid bbox %q: %w", raw, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return domain.Bounds{}, fmt.Errorf("invalid bbox %q: non-finite value", raw)
		}
		v[i] = f
	}
	b := domain.Bounds{MinLon: v[0], MinLat: v[1], MaxLon: v[2], MaxLat: v[3]}
	switch {
	case b.MinLon > b.MaxLon || b.MinLat > b.MaxLat:
		return domain.Bounds{}, fmt.Errorf("invalid bbox %q: min exceeds max", raw)
	case b.MinLat < -90 || b.MaxLat > 90 || b.MinLon < -180 || b.MaxLon > 180:
		return domain.Bounds{}, fmt.Errorf("invalid bbox %q: out of range", raw)
	}
	return b, nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
