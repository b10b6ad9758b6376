// Package web serves the browser client: static assets over HTTP plus a
// WebSocket per viewer that carries gesture events inbound and pane state,
// scroll writes, and copy-mode updates outbound.
package web

import (
	"context"
	"embed"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"

	"github.com/flplima/tmuxy/internal/config"
	"github.com/flplima/tmuxy/internal/input"
	"github.com/flplima/tmuxy/internal/pane"
	"github.com/flplima/tmuxy/internal/tmuxcmd"
)

//go:embed static/*
var staticFiles embed.FS

// Package-level logger
var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "web",
	})
}

// SetLogLevel sets the logging level for the web package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// Config holds the web server configuration.
type Config struct {
	Host           string   // Host to bind to (default: "localhost")
	Port           int      // Port to listen on (default: 8080)
	MaxConnections int      // Maximum concurrent connections (0 = unlimited)
	AllowOrigins   []string // Allowed origins for CORS (empty = all)
	Debug          bool     // Enable debug logging
}

// Server accepts browser connections and fans pane state out to them.
type Server struct {
	config Config
	runner *tmuxcmd.Runner

	// mu guards tuning and keys, which a config reload may swap while
	// connections are being accepted. Existing clients keep the settings
	// they connected with.
	mu     sync.RWMutex
	tuning input.Tuning
	keys   *config.KeybindRegistry

	httpServer *http.Server
	clients    sync.Map // map[string]*Client
	connCount  int32
}

// NewServer creates a web server bridging browsers to the given tmux
// session runner.
func NewServer(cfg Config, runner *tmuxcmd.Runner, tuning input.Tuning, keys *config.KeybindRegistry) *Server {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	if keys == nil {
		keys = config.NewKeybindRegistry(nil)
	}

	logger.Info("creating web server",
		"host", cfg.Host,
		"port", cfg.Port,
		"max_connections", cfg.MaxConnections,
	)

	return &Server{
		config: cfg,
		runner: runner,
		tuning: tuning,
		keys:   keys,
	}
}

// UpdateConfig applies reloaded tuning and keybindings. New connections
// pick them up; existing ones are unaffected.
func (s *Server) UpdateConfig(tuning input.Tuning, keys *config.KeybindRegistry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tuning = tuning
	if keys != nil {
		s.keys = keys
	}
	logger.Info("configuration reloaded")
}

func (s *Server) clientSettings() (input.Tuning, *config.KeybindRegistry) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tuning, s.keys
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/static/", s.handleStatic)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting",
			"addr", addr,
			"url", fmt.Sprintf("http://%s", addr),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
		return nil
	case err := <-errChan:
		return err
	}
}

// Broadcast delivers a pane snapshot to every connected client.
func (s *Server) Broadcast(panes []pane.Pane) {
	s.clients.Range(func(_, value any) bool {
		value.(*Client).UpdatePanes(panes)
		return true
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	data, err := staticFiles.ReadFile(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	switch {
	case strings.HasSuffix(path, ".js"):
		w.Header().Set("Content-Type", "application/javascript")
	case strings.HasSuffix(path, ".css"):
		w.Header().Set("Content-Type", "text/css")
	}
	_, _ = w.Write(data)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.checkConnectionLimit() {
		http.Error(w, "Maximum connections reached", http.StatusServiceUnavailable)
		return
	}
	defer s.releaseConnection()

	logger.Info("WebSocket connection attempt",
		"remote", r.RemoteAddr,
		"user_agent", r.UserAgent(),
	)

	opts := &websocket.AcceptOptions{
		OriginPatterns: s.config.AllowOrigins,
	}
	if len(s.config.AllowOrigins) == 0 {
		opts.OriginPatterns = []string{"*"}
	}

	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		logger.Error("WebSocket accept failed", "err", err, "remote", r.RemoteAddr)
		return
	}
	defer func() { _ = conn.CloseNow() }()

	client := newClient(s, conn)
	s.clients.Store(client.ID, client)
	startTime := time.Now()

	logger.Info("client connected", "client", client.ID, "remote", r.RemoteAddr)

	// Seed the new client with the current pane state.
	if panes, err := s.runner.ListPanes(); err == nil {
		client.UpdatePanes(panes)
	}

	client.run(r.Context())

	s.clients.Delete(client.ID)
	logger.Info("client disconnected",
		"client", client.ID,
		"remote", r.RemoteAddr,
		"duration", time.Since(startTime).Round(time.Second),
	)
}

// checkConnectionLimit returns true if connection is allowed.
func (s *Server) checkConnectionLimit() bool {
	if s.config.MaxConnections <= 0 {
		return true
	}
	newCount := atomic.AddInt32(&s.connCount, 1)
	if int(newCount) > s.config.MaxConnections {
		atomic.AddInt32(&s.connCount, -1)
		logger.Warn("connection limit reached",
			"current", newCount-1,
			"max", s.config.MaxConnections,
		)
		return false
	}
	logger.Debug("connection accepted", "count", newCount)
	return true
}

func (s *Server) releaseConnection() {
	if s.config.MaxConnections <= 0 {
		return
	}
	atomic.AddInt32(&s.connCount, -1)
}
