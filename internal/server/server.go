package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"

	"github.com/udisondev/lanerunner/internal/config"
	"github.com/udisondev/lanerunner/internal/game"
	"github.com/udisondev/lanerunner/internal/lane"
	"github.com/udisondev/lanerunner/internal/model"
)

const (
	defaultScoresLimit = 10
	maxScoresLimit     = 100
	shutdownTimeout    = 5 * time.Second
)

// MaxPlayerNameLen matches the matches.player column width.
const MaxPlayerNameLen = 64

// MatchStore persists finished matches and serves the leaderboard.
type MatchStore interface {
	game.MatchStore
	Top(ctx context.Context, limit int) ([]model.Match, error)
}

// Server accepts browser connections; every websocket gets its own match.
type Server struct {
	cfg     config.Config
	gameCfg game.Config
	lanes   *lane.Registry
	store   MatchStore // nil when match history is disabled

	upgrader websocket.Upgrader
	sessions atomic.Int64
	wg       sync.WaitGroup

	listener net.Listener
	mu       sync.Mutex
}

// NewServer validates the gameplay config and creates a server.
// store may be nil.
func NewServer(cfg config.Config, store MatchStore) (*Server, error) {
	if err := validateTransport(cfg); err != nil {
		return nil, fmt.Errorf("creating server: %w", err)
	}
	gameCfg := cfg.GameConfig()
	if err := gameCfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating server: %w", err)
	}

	return &Server{
		cfg:     cfg,
		gameCfg: gameCfg,
		lanes:   lane.NewOrDefault(cfg.Lanes.Positions),
		store:   store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}, nil
}

func validateTransport(cfg config.Config) error {
	var errs []error
	for name, d := range map[string]time.Duration{
		"tick_rate":         cfg.TickRate,
		"snapshot_interval": cfg.SnapshotInterval,
		"write_timeout":     cfg.WriteTimeout,
		"read_timeout":      cfg.ReadTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	if cfg.SendQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("send_queue_size must be positive, got %d", cfg.SendQueueSize))
	}
	return errors.Join(errs...)
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /scores", s.handleScores)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// Addr returns the address the server is listening on.
// Returns nil if the server hasn't started yet.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Sessions returns the number of connected players.
func (s *Server) Sessions() int64 {
	return s.sessions.Load()
}

// Run listens on the configured address and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves HTTP on ln until ctx is canceled, then shuts down and waits
// for every session to end.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("lanerunner server started", "address", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)

	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", "error", err)
	}

	// Hijacked websocket connections are not tracked by Shutdown.
	s.wg.Wait()
	slog.Info("lanerunner server stopped")
	return nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	player := r.URL.Query().Get("player")
	if player == "" {
		player = "anonymous"
	}
	if utf8.RuneCountInString(player) > MaxPlayerNameLen {
		http.Error(w, fmt.Sprintf("player name longer than %d characters", MaxPlayerNameLen), http.StatusBadRequest)
		return
	}

	s.wg.Add(1)
	defer s.wg.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		slog.Debug("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	n := s.sessions.Add(1)
	defer s.sessions.Add(-1)

	slog.Info("player connected", "player", player, "remote", r.RemoteAddr, "sessions", n)

	c := newClient(conn, player, s)
	err = c.serve(r.Context())

	slog.Info("player disconnected", "player", player, "reason", err)
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "match history disabled", http.StatusServiceUnavailable)
		return
	}

	limit := defaultScoresLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxScoresLimit)
	}

	matches, err := s.store.Top(r.Context(), limit)
	if err != nil {
		slog.Error("loading top matches", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if matches == nil {
		matches = []model.Match{}
	}

	writeJSON(w, matches)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"status":   "ok",
		"sessions": s.Sessions(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("writing response", "error", err)
	}
}
