// Package server implements the weld development server: it loads element
// manifests, registers element classes, and exposes a WebSocket protocol for
// driving element instances remotely (attributes, properties, lifecycle) and
// observing their rendered output, dispatched events and diagnostics.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/conneroisu/weld/internal/bridge"
	"github.com/conneroisu/weld/internal/config"
	werrors "github.com/conneroisu/weld/internal/errors"
	"github.com/conneroisu/weld/internal/logging"
	"github.com/conneroisu/weld/internal/registry"
	"github.com/conneroisu/weld/internal/types"
	"github.com/conneroisu/weld/internal/watcher"
)

// Server hosts element classes for remote driving over WebSocket.
type Server struct {
	cfg        *config.Config
	logger     logging.Logger
	registry   *registry.DefinitionRegistry
	components map[string]types.Renderable
	diags      *werrors.DiagnosticCollector
	watcher    *watcher.ManifestWatcher
	httpServer *http.Server
}

// New creates a server over the given component table. Component names in
// manifests resolve against this table.
func New(cfg *config.Config, logger logging.Logger, components map[string]types.Renderable) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		registry:   registry.NewDefinitionRegistry(),
		components: components,
		diags:      werrors.NewDiagnosticCollector(),
	}
}

// Registry returns the server's definition registry.
func (s *Server) Registry() *registry.DefinitionRegistry {
	return s.registry
}

// LoadManifests parses every configured manifest and registers (or replaces)
// the element classes it declares.
func (s *Server) LoadManifests() error {
	for _, path := range s.cfg.Manifests.Paths {
		manifest, err := config.LoadManifest(path)
		if err != nil {
			return err
		}
		for _, me := range manifest.Elements {
			def, err := me.Definition(s.components)
			if err != nil {
				return err
			}
			class, err := bridge.Define(def,
				bridge.WithLogger(s.logger),
				bridge.WithDiagnostics(s.diags),
			)
			if err != nil {
				return err
			}
			s.registry.Replace(class)
		}
		s.logger.Info(context.Background(), "manifest loaded",
			"path", path, "elements", s.registry.Count())
	}
	return nil
}

// Start runs the HTTP server until ctx is done. With hot reload enabled,
// manifest changes re-register element classes; open sessions preserve
// element state across the swap when state preservation is on.
func (s *Server) Start(ctx context.Context) error {
	if err := s.LoadManifests(); err != nil {
		return err
	}

	if s.cfg.Development.HotReload {
		mw, err := watcher.NewManifestWatcher(300 * time.Millisecond)
		if err != nil {
			return err
		}
		s.watcher = mw
		for _, path := range s.cfg.Manifests.Paths {
			if err := mw.AddManifest(path); err != nil {
				return err
			}
		}
		mw.AddHandler(func(events []watcher.ChangeEvent) error {
			s.logger.Info(ctx, "manifest changed, reloading", "changes", len(events))
			if err := s.LoadManifests(); err != nil {
				s.logger.Error(ctx, err, "manifest reload failed")
			}
			return nil
		})
		mw.Start(ctx)
		defer func() { _ = mw.Close() }()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWebSocket)

	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()
	s.logger.Info(ctx, "dev server listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// handleWebSocket upgrades the connection and runs one driving session.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	opts := &websocket.AcceptOptions{}
	if len(s.cfg.Server.AllowedOrigins) > 0 {
		opts.OriginPatterns = s.cfg.Server.AllowedOrigins
	} else {
		opts.InsecureSkipVerify = true // local dev default
	}

	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		s.logger.Error(r.Context(), err, "websocket accept failed")
		return
	}

	session := newSession(s, conn)
	session.run(r.Context())
}
