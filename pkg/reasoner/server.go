package reasoner

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// serverMetrics are the Prometheus instruments exposed on /metrics.
type serverMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	m := &serverMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reasoner_requests_total",
				Help: "Total requests handled, by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "reasoner_request_duration_seconds",
				Help: "Request handling duration, by endpoint",
			},
			[]string{"endpoint"},
		),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// Server exposes a Service over HTTP. The routes mirror what Client calls:
//
//	POST /context             fetch student context
//	POST /template/recommend  recommend a template
//	GET  /templates/{name}    fetch a template definition
//	POST /activities/propose  propose activities for a stage
//	GET  /health              liveness probe
//	GET  /metrics             Prometheus metrics
type Server struct {
	service *Service
	logger  *slog.Logger
	metrics *serverMetrics
	router  chi.Router
}

// NewServer wraps service in an HTTP handler with its own metrics registry.
func NewServer(service *Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	reg := prometheus.NewRegistry()
	s := &Server{
		service: service,
		logger:  logger,
		metrics: newServerMetrics(reg),
		router:  chi.NewRouter(),
	}

	s.router.Post("/context", s.handleContext)
	s.router.Post("/template/recommend", s.handleRecommend)
	s.router.Get("/templates/{name}", s.handleTemplate)
	s.router.Post("/activities/propose", s.handleActivities)
	s.router.Get("/health", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	defer s.observe("context", time.Now())

	var req struct {
		StudentID string `json:"student_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StudentID == "" {
		s.writeError(w, "context", http.StatusBadRequest, "student_id is required")
		return
	}

	sc, err := s.service.FetchContext(r.Context(), req.StudentID)
	if err != nil {
		s.writeServiceError(w, "context", err)
		return
	}
	s.writeJSON(w, "context", http.StatusOK, sc)
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	defer s.observe("recommend", time.Now())

	var sc StudentContext
	if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
		s.writeError(w, "recommend", http.StatusBadRequest, "context data is required")
		return
	}

	rec, err := s.service.RecommendTemplate(r.Context(), &sc)
	if err != nil {
		s.writeServiceError(w, "recommend", err)
		return
	}
	s.writeJSON(w, "recommend", http.StatusOK, rec)
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	defer s.observe("template", time.Now())

	def, err := s.service.FetchTemplateDefinition(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeServiceError(w, "template", err)
		return
	}
	s.writeJSON(w, "template", http.StatusOK, def)
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	defer s.observe("activities", time.Now())

	var req struct {
		Stage   string          `json:"stage"`
		Context *StudentContext `json:"context"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Stage == "" {
		s.writeError(w, "activities", http.StatusBadRequest, "stage is required")
		return
	}

	activities, err := s.service.ProposeActivities(r.Context(), req.Stage, req.Context)
	if err != nil {
		s.writeServiceError(w, "activities", err)
		return
	}
	resp := struct {
		Stage      string     `json:"stage"`
		Activities []Activity `json:"activities"`
	}{Stage: req.Stage, Activities: activities}
	s.writeJSON(w, "activities", http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := struct {
		Status    string   `json:"status"`
		Service   string   `json:"service"`
		Templates []string `json:"templates_available"`
	}{Status: "healthy", Service: "reasoner", Templates: s.service.Templates()}
	s.writeJSON(w, "health", http.StatusOK, resp)
}

func (s *Server) observe(endpoint string, start time.Time) {
	s.metrics.duration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// writeServiceError maps service errors onto HTTP statuses: ErrNotFound is a
// 404, everything else a 500.
func (s *Server) writeServiceError(w http.ResponseWriter, endpoint string, err error) {
	if errors.Is(err, ErrNotFound) {
		s.writeError(w, endpoint, http.StatusNotFound, err.Error())
		return
	}
	s.logger.Error("request failed", "endpoint", endpoint, "error", err)
	s.writeError(w, endpoint, http.StatusInternalServerError, err.Error())
}

func (s *Server) writeError(w http.ResponseWriter, endpoint string, status int, msg string) {
	s.metrics.requests.WithLabelValues(endpoint, http.StatusText(status)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, endpoint string, status int, v any) {
	s.metrics.requests.WithLabelValues(endpoint, http.StatusText(status)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "endpoint", endpoint, "error", err)
	}
}
