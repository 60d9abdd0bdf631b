package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/CodeQwQ/ucflow/internal/presentation/graph"
	"github.com/CodeQwQ/ucflow/pkg/export"
	"github.com/CodeQwQ/ucflow/pkg/observability"
	"github.com/CodeQwQ/ucflow/pkg/ports"
	"github.com/CodeQwQ/ucflow/pkg/transform"
	"github.com/CodeQwQ/ucflow/pkg/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds a use case upload.
const maxBodyBytes = 1 << 20

// Server serves transformations and stored results.
type Server struct {
	Store   ports.ResultStore
	Watcher ports.Watchable

	logger        *slog.Logger
	mode          transform.Mode
	transformOpts []transform.Option
	registry      *prometheus.Registry
	metrics       *observability.Metrics
	newID         func() string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithDefaultMode is used when a request carries no mode parameter.
func WithDefaultMode(m transform.Mode) Option {
	return func(s *Server) {
		s.mode = m
	}
}

// WithTransformOptions are applied to every engine the server builds.
func WithTransformOptions(opts ...transform.Option) Option {
	return func(s *Server) {
		s.transformOpts = append(s.transformOpts, opts...)
	}
}

// WithRegistry records metrics into reg and serves it on /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// WithWatcher enables GET /events, streaming use case change notifications.
func WithWatcher(w ports.Watchable) Option {
	return func(s *Server) {
		s.Watcher = w
	}
}

// WithIDGenerator replaces the uuid result id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Server) {
		s.newID = fn
	}
}

// NewHandler creates the HTTP handler over store.
func NewHandler(store ports.ResultStore, opts ...Option) (http.Handler, error) {
	s := &Server{
		Store:  store,
		logger: slog.Default(),
		mode:   transform.Detailed,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = observability.NewMetrics(s.registry)

	spec, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	validate, err := requestValidator(spec, s.logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(validate)

	r.Get("/health", s.GetHealth)
	r.Post("/transform", s.Transform)
	r.Get("/results", s.ListResults)
	r.Route("/results/{id}", func(r chi.Router) {
		r.Get("/", s.GetResult)
		r.Delete("/", s.DeleteResult)
		r.Get("/mermaid", s.GetResultMermaid)
		r.Get("/dot", s.GetResultDOT)
	})
	r.Get("/events", s.SubscribeEvents)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TransformResponse is the body of a successful POST /transform.
type TransformResponse struct {
	ID       string           `json:"id"`
	Document *export.Document `json:"document"`
}

// ErrorResponse is the body of every JSON error.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// Transform handles POST /transform.
func (s *Server) Transform(w http.ResponseWriter, r *http.Request) {
	mode := s.mode
	if q := r.URL.Query().Get("mode"); q != "" {
		m, err := transform.ParseMode(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		mode = m
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	uc, err := usecase.Parse(data)
	if err != nil {
		s.logger.Warn("Transform: invalid use case body", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}

	engine := transform.New(slices.Concat(s.transformOpts, []transform.Option{
		transform.WithMode(mode),
		transform.WithLogger(s.logger),
		transform.WithHooks(s.metrics.Hooks()),
	})...)
	g, err := engine.Transform(uc)
	if err != nil {
		s.logger.Info("Transform rejected", "usecase", uc.Name, "error", err)
		resp := ErrorResponse{Error: err.Error()}
		for _, e := range usecase.ValidationErrors(err) {
			resp.Details = append(resp.Details, e.Error())
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	doc := export.FromGraph(g, mode.String())
	id := s.newID()
	if err := s.Store.Save(r.Context(), id, doc); err != nil {
		s.logger.Error("Saving result failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.logger.Debug("Result stored", "id", id, "usecase", uc.Name)

	writeJSON(w, http.StatusCreated, TransformResponse{ID: id, Document: doc})
}

// ListResults handles GET /results.
func (s *Server) ListResults(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"ids": ids})
}

// GetResult handles GET /results/{id}.
func (s *Server) GetResult(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// GetResultMermaid handles GET /results/{id}/mermaid.
func (s *Server) GetResultMermaid(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(doc, nil))
}

// GetResultDOT handles GET /results/{id}/dot.
func (s *Server) GetResultDOT(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	io.WriteString(w, graph.GenerateDOT(doc))
}

// DeleteResult handles DELETE /results/{id}.
func (s *Server) DeleteResult(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) (*export.Document, bool) {
	id := chi.URLParam(r, "id")
	doc, err := s.Store.Load(r.Context(), id)
	if errors.Is(err, ports.ErrResultNotFound) {
		writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	if err != nil {
		s.logger.Error("Loading result failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return doc, true
}

// SubscribeEvents handles GET /events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	if s.Watcher == nil {
		writeError(w, http.StatusNotImplemented, errors.New("use case watching is not enabled"))
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	events, err := s.Watcher.Watch(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("watch error: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected")
			return
		case name, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: changed\ndata: %s\n\n", strings.ReplaceAll(name, "\n", " "))
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
