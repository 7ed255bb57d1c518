// Package api provides the HTTP server for EcoTrack.
// Each request selects its session with the X-Session-ID header.
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ecotrack-campus/ecotrack/internal/app/session"
	"github.com/ecotrack-campus/ecotrack/internal/infra/observability"
)

// SessionHeader carries the session id on every session-scoped request.
const SessionHeader = "X-Session-ID"

// Server is the EcoTrack HTTP API server.
type Server struct {
	sessions *session.Manager
	logger   zerolog.Logger
	version  string
	metrics  *observability.Metrics // nil when /metrics is disabled
	tracer   *observability.Tracer  // nil when request tracing is off
	eco      *EcoAPI
}

// NewServer creates a new API server over sessions.
func NewServer(sessions *session.Manager, logger zerolog.Logger) *Server {
	return &Server{
		sessions: sessions,
		logger:   logger,
		version:  "dev",
		eco:      &EcoAPI{Sessions: sessions},
	}
}

// EnableMetrics mounts /metrics and records request durations on m.
func (s *Server) EnableMetrics(m *observability.Metrics) { s.metrics = m }

// SetTracer records one span per request on t and mounts /api/debug/spans.
func (s *Server) SetTracer(t *observability.Tracer) { s.tracer = t }

// SetVersion sets the version reported by /api/version.
func (s *Server) SetVersion(v string) { s.version = v }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)
	r.Use(s.instrument)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": s.version,
		})
	})

	// Login simulation
	r.Post("/api/session", s.eco.HandleLogin)
	r.Delete("/api/session", s.eco.HandleLogout)

	// Session-scoped tracker endpoints
	r.Group(func(r chi.Router) {
		r.Use(s.eco.requireSession)

		r.Get("/api/dashboard", s.eco.HandleDashboard)

		r.Route("/api/carbon", func(r chi.Router) {
			r.Get("/entries", s.eco.HandleListEntries)
			r.Post("/entries", s.eco.HandleRecordEntry)
			r.Get("/form", s.eco.HandleGetForm)
			r.Put("/form", s.eco.HandleSetForm)
			r.Post("/form/submit", s.eco.HandleSubmitForm)
		})

		r.Route("/api/actions", func(r chi.Router) {
			r.Get("/", s.eco.HandleListActions)
			r.Post("/{id}/complete", s.eco.HandleCompleteAction)
		})

		r.Get("/api/achievements", s.eco.HandleAchievements)
		r.Get("/api/leaderboard", s.eco.HandleLeaderboard)

		r.Route("/api/ewaste", func(r chi.Router) {
			r.Get("/locations", s.eco.HandleListLocations)
			r.Post("/locations", s.eco.HandleReportLocation)
			r.Get("/impact", s.eco.HandleImpact)
		})
	})

	if s.tracer != nil {
		r.Get("/api/debug/spans", s.handleSpans)
	}

	// Prometheus metrics endpoint
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	return r
}

// handleSpans returns recent request spans.
// GET /api/debug/spans?limit=N
func (s *Server) handleSpans(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"spans": s.tracer.Spans(limit),
	})
}

// instrument logs each request and feeds the duration histogram and tracer.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := middleware.GetReqID(r.Context())

		var span *observability.Span
		if s.tracer != nil {
			ctx := observability.WithTraceID(r.Context(), reqID)
			span = s.tracer.StartSpan(ctx, r.Method+" "+r.URL.Path, nil)
			r = r.WithContext(ctx)
		}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}

		if s.metrics != nil {
			s.metrics.RequestDuration.
				WithLabelValues(r.Method, route, strconv.Itoa(status)).
				Observe(elapsed.Seconds())
		}
		if span != nil {
			span.Attrs = map[string]string{
				"route":  route,
				"status": strconv.Itoa(status),
			}
			var spanErr error
			if status >= http.StatusInternalServerError {
				spanErr = errStatus(status)
			}
			s.tracer.EndSpan(span, spanErr)
		}

		ev := s.logger.Info()
		if status >= http.StatusInternalServerError {
			ev = s.logger.Error()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("duration", elapsed).
			Str("request_id", reqID).
			Msg("request")
	})
}

type errStatus int

func (e errStatus) Error() string { return http.StatusText(int(e)) }

// writeJSON writes a JSON response. The body is encoded before the
// header goes out, so an unencodable value becomes a 500.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		status = http.StatusInternalServerError
		buf.Reset()
		json.NewEncoder(&buf).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"message": "encode response: " + err.Error(),
				"type":    errTypeInternal,
			},
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// Error types carried in the JSON error envelope.
const (
	errTypeUnauthorized = "unauthorized"
	errTypeInvalid      = "invalid_request"
	errTypeUnavailable  = "unavailable"
	errTypeInternal     = "error"
)

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeTypedError(w, status, msg, errTypeFor(status))
}

func writeTypedError(w http.ResponseWriter, status int, msg, typ string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    typ,
		},
	})
}

func errTypeFor(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return errTypeUnauthorized
	case http.StatusBadRequest:
		return errTypeInvalid
	case http.StatusServiceUnavailable:
		return errTypeUnavailable
	default:
		return errTypeInternal
	}
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+SessionHeader)
		w.Header().Set("Access-Control-Expose-Headers", SessionHeader)
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
