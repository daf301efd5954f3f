package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	statusDomain "github.com/reshetovitsme/global-chat-relay/internal/modules/status/domain"
	"github.com/reshetovitsme/global-chat-relay/internal/shared/config"
	"github.com/reshetovitsme/global-chat-relay/internal/shared/gateway"
	sloghttp "github.com/samber/slog-http"
)

// StatusSource exposes the status reporter's view of the relay
type StatusSource interface {
	Snapshot(ctx context.Context) (statusDomain.Snapshot, error)
	State() (statusDomain.ReporterState, gateway.MessageRef)
}

type statusResponse struct {
	Running            bool      `json:"running"`
	RegisteredChannels int       `json:"registered_channels"`
	ReporterState      string    `json:"reporter_state"`
	StatusMessageID    int64     `json:"status_message_id,omitempty"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Server serves health and status probes
type Server struct {
	cfg    *config.Config
	status StatusSource
	logger *slog.Logger

	mu     sync.Mutex
	server *http.Server
}

// New creates a new HTTP server
func New(cfg *config.Config, status StatusSource) *Server {
	return &Server{
		cfg:    cfg,
		status: status,
		logger: slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Handler builds the routed handler wrapped in logging and recovery middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", s.handleHealth)

	// Relay status endpoint
	mux.HandleFunc("GET /status", s.handleStatus)

	handler := sloghttp.Recovery(mux)
	return sloghttp.New(s.logger)(handler)
}

// Start starts the HTTP server and blocks until it stops. A clean shutdown
// returns nil.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("HTTP server starting", "addr", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.mu.Lock()
	s.server = server
	s.mu.Unlock()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for active requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.mu.Unlock()
	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap, err := s.status.Snapshot(r.Context())
	if err != nil {
		s.logger.Error("Error reading relay status", "error", err)
		http.Error(w, "Failed to read status", http.StatusServiceUnavailable)
		return
	}
	state, ref := s.status.State()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(statusResponse{
		Running:            snap.Running,
		RegisteredChannels: snap.RegisteredChannels,
		ReporterState:      state.String(),
		StatusMessageID:    ref.MessageID,
		UpdatedAt:          snap.UpdatedAt,
	})
}
