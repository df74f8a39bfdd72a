package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"voiceapp/internal/config"
	"voiceapp/internal/conversation"
	"voiceapp/internal/logging"
	"voiceapp/internal/store"
)

// Conversations is the service surface the API needs.
type Conversations interface {
	Upload(ctx context.Context, originalName string, r io.Reader) (*store.Conversation, error)
	List(ctx context.Context) ([]*store.Conversation, error)
	Get(ctx context.Context, id int64) (*store.Conversation, error)
	Transcribe(ctx context.Context, id int64) (*conversation.TranscribeResult, error)
	Analyze(ctx context.Context, id int64) (*conversation.AnalyzeResult, error)
	Chat(ctx context.Context, message string, conversationID int64) (string, error)
}

// Pinger reports database reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Pages mounts HTML routes on the router.
type Pages interface {
	Register(r *mux.Router)
}

// Option customises a Server.
type Option func(*Server)

// WithPages mounts the web UI alongside the API.
func WithPages(pages Pages) Option {
	return func(s *Server) {
		s.pages = pages
	}
}

// WithPinger enables the database check in /healthz.
func WithPinger(p Pinger) Option {
	return func(s *Server) {
		s.db = p
	}
}

// Server is the HTTP front end.
type Server struct {
	bind   string
	logger *slog.Logger
	svc    Conversations
	db     Pinger
	pages  Pages

	handler  http.Handler
	listener net.Listener
	server   *http.Server
}

// New builds the router and the http.Server. Call Start to listen.
func New(cfg *config.Config, svc Conversations, logger *slog.Logger, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("httpapi: config is required")
	}
	if svc == nil {
		return nil, errors.New("httpapi: conversation service is required")
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, errors.New("httpapi: api_bind is empty")
	}
	s := &Server{
		bind:   bind,
		logger: logging.NewComponentLogger(logger, "httpapi"),
		svc:    svc,
	}
	for _, opt := range opts {
		opt(s)
	}

	router := mux.NewRouter()
	s.routes(router)
	if s.pages != nil {
		s.pages.Register(router)
	}
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusNotFound, "not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s.handler = s.withRequestID(s.withAccessLog(withCORS(router)))
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		// Uploads and provider round trips can be slow.
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(r *mux.Router) {
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/conversations").Subrouter()
	api.HandleFunc("", s.handleList).Methods(http.MethodGet)
	api.HandleFunc("/{id:[0-9]+}", s.handleGet).Methods(http.MethodGet)
	api.HandleFunc("/upload-audio", s.handleUpload).Methods(http.MethodPost)
	api.HandleFunc("/transcribe", s.handleTranscribe).Methods(http.MethodPost)
	api.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)
}

// Handler returns the fully wrapped handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and shuts down when ctx ends.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening",
		logging.String("address", listener.Addr().String()),
		logging.String(logging.FieldEventType, "server_listening"),
	)
	return nil
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}
