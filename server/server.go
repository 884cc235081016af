// Package server exposes the zoning evaluation engine over HTTP. The
// engine stays pure; everything request-scoped (report IDs, timestamps,
// caching, metrics) lives out here.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/parcelworks/bylaw/zoning"
	"github.com/parcelworks/bylaw/zoning/registry"
)

// maxRequestBodySize limits POST body sizes.
const maxRequestBodySize = 1 << 20 // 1 MB

// Server handles the HTTP API.
type Server struct {
	evaluator *zoning.Evaluator
	cache     *resultCache
	logger    *slog.Logger
}

// Options configures optional server collaborators.
type Options struct {
	// Redis enables the evaluation result cache when non-nil.
	Redis *redis.Client

	// CacheTTL is how long cached results live.
	CacheTTL time.Duration

	// Logger for request logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// New builds a server around an evaluator.
func New(evaluator *zoning.Evaluator, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		evaluator: evaluator,
		cache:     newResultCache(opts.Redis, opts.CacheTTL, logger),
		logger:    logger,
	}
}

// RegisterHTTPHandlers registers all API handlers on the mux:
//
//	POST /api/v1/evaluate
//	GET  /api/v1/zones
//	GET  /api/v1/zones/{code}
//	GET  /healthz
//	GET  /metrics
func (s *Server) RegisterHTTPHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/evaluate", s.handleEvaluate)
	mux.HandleFunc("/api/v1/zones", s.handleZones)
	mux.HandleFunc("/api/v1/zones/", s.handleZone)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", promhttp.Handler())
}

// EvaluateRequest is the request body for POST /api/v1/evaluate.
type EvaluateRequest struct {
	// Designation is the raw zone designation, e.g. "RL2-0 SP:14".
	Designation string `json:"designation"`

	// Geometry is the lot's dimensions; any field may be absent.
	Geometry zoning.LotGeometry `json:"geometry"`
}

// EvaluateResponse wraps an evaluation result in a report envelope.
type EvaluateResponse struct {
	ReportID    string                       `json:"report_id"`
	GeneratedAt time.Time                    `json:"generated_at"`
	Cached      bool                         `json:"cached"`
	Result      *zoning.DevelopmentPotential `json:"result"`
}

// errorResponse is the JSON body for all error statuses.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	start := time.Now()

	var req EvaluateRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		evaluationsTotal.WithLabelValues("bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	cacheKey := ""
	if s.cache != nil {
		cacheKey = s.cache.key(req.Designation, req.Geometry)
		if res, ok := s.cache.get(r.Context(), cacheKey); ok {
			evaluationsTotal.WithLabelValues("ok").Inc()
			evaluationDurationMs.Observe(float64(time.Since(start).Milliseconds()))
			writeJSON(w, http.StatusOK, EvaluateResponse{
				ReportID:    uuid.NewString(),
				GeneratedAt: time.Now().UTC(),
				Cached:      true,
				Result:      res,
			})
			return
		}
	}

	res, err := s.evaluator.Evaluate(req.Designation, req.Geometry)
	if err != nil {
		s.writeEvaluateError(w, req.Designation, err)
		return
	}
	if len(res.Violations) > 0 {
		violationsTotal.Inc()
	}
	if s.cache != nil {
		s.cache.set(r.Context(), cacheKey, res)
	}

	evaluationsTotal.WithLabelValues("ok").Inc()
	evaluationDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	writeJSON(w, http.StatusOK, EvaluateResponse{
		ReportID:    uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Result:      res,
	})
}

// writeEvaluateError maps engine errors to HTTP statuses. Bad input is
// the caller's problem; a registry gap is ours.
func (s *Server) writeEvaluateError(w http.ResponseWriter, designation string, err error) {
	var perr *zoning.ParseError
	var rerr *zoning.RangeError
	switch {
	case errors.As(err, &perr), errors.As(err, &rerr):
		evaluationsTotal.WithLabelValues("bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, zoning.ErrZoneNotFound):
		evaluationsTotal.WithLabelValues("not_found").Inc()
		s.logger.Error("registry data gap", "designation", designation, "error", err)
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		evaluationsTotal.WithLabelValues("error").Inc()
		s.logger.Error("evaluation failed", "designation", designation, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "evaluation failed"})
	}
}

// ZoneSummary is one row of GET /api/v1/zones.
type ZoneSummary struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

func (s *Server) handleZones(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	codes := s.evaluator.Registry.Codes()
	out := make([]ZoneSummary, 0, len(codes))
	for _, code := range codes {
		rules, _ := s.evaluator.Registry.Lookup(code)
		out = append(out, ZoneSummary{
			Code:     string(code),
			Name:     rules.Name,
			Category: string(rules.Category),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleZone(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/api/v1/zones/")
	id, err := zoning.ParseDesignation(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	rules, ok := s.evaluator.Registry.Lookup(id.Base)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "zone not found"})
		return
	}
	writeJSON(w, http.StatusOK, zoneDetail(rules))
}

// ZoneDetail is the response body for GET /api/v1/zones/{code}.
type ZoneDetail struct {
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	MinLotArea     *float64 `json:"min_lot_area_m2,omitempty"`
	MinLotFrontage *float64 `json:"min_lot_frontage_m,omitempty"`
	MaxHeightM     *float64 `json:"max_height_m,omitempty"`
	MaxStoreys     *int     `json:"max_storeys,omitempty"`
	PermittedUses  []string `json:"permitted_uses,omitempty"`
}

func zoneDetail(rules registry.Rules) ZoneDetail {
	uses := make([]string, 0, len(rules.PermittedUses))
	for _, u := range rules.PermittedUses {
		uses = append(uses, string(u))
	}
	return ZoneDetail{
		Code:           string(rules.Code),
		Name:           rules.Name,
		Category:       string(rules.Category),
		MinLotArea:     rules.MinLotArea,
		MinLotFrontage: rules.MinLotFrontage,
		MaxHeightM:     rules.MaxHeight,
		MaxStoreys:     rules.MaxStoreys,
		PermittedUses:  uses,
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"zones":  s.evaluator.Registry.Len(),
	})
}

// writeJSON marshals v as JSON and writes it to w with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Response is already partially written; nothing useful to do.
		_ = err
	}
}
