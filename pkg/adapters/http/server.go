package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/fsm"
	"github.com/aretw0/arbor/pkg/notify"
	"github.com/aretw0/arbor/pkg/tree"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds request bodies (tree specs and messages).
const maxBodyBytes = 1 << 20

// streamBuffer is the per-client SSE backlog before messages are dropped.
const streamBuffer = 10

// Engine defines the subset of *arbor.Engine the HTTP surface drives.
type Engine interface {
	Execute(ctx context.Context) []string
	Spec() domain.NodeSpec
	Graph(visited bool) string
	AddChild(ctx context.Context, parent string, spec domain.NodeSpec) (tree.Node, error)
	Move(ctx context.Context, key, parent string) error
	RemoveChild(ctx context.Context, parent, key string) (bool, error)
	State() fsm.State
	Dispatch(ctx context.Context, in fsm.Input) (fsm.Transition, error)
	Subscribe(s notify.Subscriber) notify.Subscription
	Notify(message string) int
}

var _ Engine = (*arbor.Engine)(nil)

// Server exposes an Engine over HTTP.
type Server struct {
	Engine   Engine
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Option configures the handler built by NewHandler.
type Option func(*Server)

// WithLogger sets the structured logger for request errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer exposes the given registry on GET /metrics.
// Without it the default Prometheus registry is served.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	server := &Server{
		Engine:   engine,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/events", server.SubscribeEvents)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))

	r.Route("/tree", func(r chi.Router) {
		r.Get("/", server.GetTree)
		r.Get("/execute", server.ExecuteTree)
		r.Get("/graph", server.GetGraph)
		r.Post("/{parent}/children", server.AddChild)
		r.Delete("/{parent}/children/{key}", server.RemoveChild)
		r.Post("/{parent}/adopt/{key}", server.Adopt)
	})

	r.Route("/machine", func(r chi.Router) {
		r.Get("/", server.GetMachine)
		r.Get("/graph", server.GetMachineGraph)
		r.Post("/{input}", server.Dispatch)
	})

	r.Post("/notify", server.Notify)

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "arbor-http",
		"version": strings.TrimSpace(arbor.Version),
	})
}

// GetTree handles the GET /tree request and returns the declarative tree.
func (s *Server) GetTree(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Engine.Spec())
}

// ExecuteTree handles the GET /tree/execute request.
func (s *Server) ExecuteTree(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"labels": s.Engine.Execute(r.Context())})
}

// GetGraph handles the GET /tree/graph request (Mermaid text of the live tree).
// ?visited=true overlays the labels of a fresh execution.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, s.Engine.Graph(r.URL.Query().Get("visited") == "true"))
}

// AddChild handles the POST /tree/{parent}/children request.
func (s *Server) AddChild(w http.ResponseWriter, r *http.Request) {
	var spec domain.NodeSpec
	if err := decodeBody(r, &spec); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("AddChild: Invalid request body", "err", err)
		return
	}

	if _, err := s.Engine.AddChild(r.Context(), chi.URLParam(r, "parent"), spec); err != nil {
		s.fail(w, "AddChild", err)
		return
	}
	writeJSON(w, http.StatusCreated, s.Engine.Spec())
}

// RemoveChild handles the DELETE /tree/{parent}/children/{key} request.
// Removing an absent child still answers 204.
func (s *Server) RemoveChild(w http.ResponseWriter, r *http.Request) {
	if _, err := s.Engine.RemoveChild(r.Context(), chi.URLParam(r, "parent"), chi.URLParam(r, "key")); err != nil {
		s.fail(w, "RemoveChild", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Adopt handles the POST /tree/{parent}/adopt/{key} request, moving an
// existing node under parent.
func (s *Server) Adopt(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.Move(r.Context(), chi.URLParam(r, "key"), chi.URLParam(r, "parent")); err != nil {
		s.fail(w, "Adopt", err)
		return
	}
	writeJSON(w, http.StatusOK, s.Engine.Spec())
}

// GetMachine handles the GET /machine request.
func (s *Server) GetMachine(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]fsm.State{"state": s.Engine.State()})
}

// GetMachineGraph handles the GET /machine/graph request (Mermaid text).
func (s *Server) GetMachineGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateStateDiagram(s.Engine.State()))
}

// Dispatch handles the POST /machine/{input} request.
func (s *Server) Dispatch(w http.ResponseWriter, r *http.Request) {
	tr, err := s.Engine.Dispatch(r.Context(), fsm.Input(chi.URLParam(r, "input")))
	if err != nil {
		s.fail(w, "Dispatch", err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

// NotifyRequest is the body of POST /notify.
type NotifyRequest struct {
	Message string `json:"message"`
}

// Notify handles the POST /notify request.
func (s *Server) Notify(w http.ResponseWriter, r *http.Request) {
	var body NotifyRequest
	if err := decodeBody(r, &body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Notify: Invalid request body", "err", err)
		return
	}

	delivered := s.Engine.Notify(body.Message)
	writeJSON(w, http.StatusAccepted, map[string]int{"delivered": delivered})
}

// SubscribeEvents handles the GET /events request (SSE).
// Each client is one hub subscription for the lifetime of the request.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan string, streamBuffer)
	sub := s.Engine.Subscribe(notify.NewSubscriber(func(msg string) {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			s.logger.Warn("SSE: Client buffer full, dropping message")
		}
	}))
	defer sub.Cancel()

	s.logger.Info("SSE: Client subscribed", "subscription_id", sub.ID)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: Client disconnected", "subscription_id", sub.ID)
			return
		case msg := <-ch:
			fmt.Fprintf(w, "data: %s\n\n", strings.ReplaceAll(msg, "\n", "\ndata: "))
			flusher.Flush()
		}
	}
}

// -- Helpers --

// ErrorResponse is the JSON body of every error answered with a domain status.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err)
	} else {
		s.logger.Warn(op+" rejected", "err", err, "status", status)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrCycle):
		return http.StatusConflict
	case errors.Is(err, domain.ErrParentNotFound), errors.Is(err, domain.ErrNodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidSpec),
		errors.Is(err, domain.ErrUnknownInput),
		errors.Is(err, domain.ErrNilNode):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
