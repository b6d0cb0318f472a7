// Package server provides HTTP server initialization and lifecycle management
// for the caseflow API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/scrypster/caseflow/internal/backup"
	"github.com/scrypster/caseflow/internal/config"
	"github.com/scrypster/caseflow/internal/deadline"
	"github.com/scrypster/caseflow/internal/graph"
	"github.com/scrypster/caseflow/web/handlers"
)

// Version is reported by /api/health.
const Version = "1.0.0"

// Deps are the engines served over HTTP.
type Deps struct {
	Graph     *graph.Graph
	Deadlines *deadline.Engine

	// Dispatcher delivers escalations. Nil disables delivery.
	Dispatcher handlers.EscalationDispatcher

	// Backups, when set, is reported by /api/health.
	Backups *backup.Service

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// breakerStater is implemented by dispatchers that expose their circuit state.
type breakerStater interface {
	BreakerState() string
}

// HealthResponse is returned by /api/health.
type HealthResponse struct {
	Status           string         `json:"status"`
	Version          string         `json:"version"`
	Entities         int            `json:"entities"`
	Connections      int            `json:"connections"`
	Jurisdictions    int            `json:"jurisdictions"`
	WebSocketClients int            `json:"websocket_clients"`
	Notify           string         `json:"notify,omitempty"`
	Backup           *backup.Status `json:"backup,omitempty"`
}

// methods routes a path to one handler per HTTP method.
func methods(byMethod map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, ok := byMethod[r.Method]
		if !ok {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

// Server is a running HTTP server.
type Server struct {
	// Addr is the address actually listened on (useful with port 0).
	Addr string

	// Hub carries graph and alert events to websocket clients.
	Hub *handlers.WebSocketHub

	done chan struct{}
}

// Done is closed once graceful shutdown has finished: in-flight requests
// have completed (or the shutdown timeout expired) and the hub is stopped.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until Done is closed.
func (s *Server) Wait() {
	<-s.done
}

// Start initializes and starts the HTTP server.
// The server shuts down when ctx is cancelled; callers must Wait before
// releasing anything the handlers use.
func Start(ctx context.Context, cfg *config.Config, deps Deps) (*Server, error) {
	if deps.Graph == nil || deps.Deadlines == nil {
		return nil, errors.New("server: graph and deadline engine are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("server: listen on %s: %w", addr, err)
	}
	actualAddr := listener.Addr().String()

	// Origins are derived from the bound port so port 0 works.
	_, port, _ := net.SplitHostPort(actualAddr)
	origins := append([]string{
		"http://localhost:" + port,
		"http://127.0.0.1:" + port,
	}, cfg.Server.AllowedOrigins...)

	wsHub := handlers.NewWebSocketHub(logger, origins...)
	go wsHub.Run()

	rateLimiter := handlers.NewRateLimiter(float64(cfg.Security.RateLimit), cfg.Security.RateBurst)

	graphHandlers := handlers.NewGraphHandlers(deps.Graph, wsHub, logger)
	deadlineHandlers := handlers.NewDeadlineHandlers(deps.Deadlines, deps.Dispatcher, wsHub, logger)

	// API routes (require auth in production mode)
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("/api/entities", methods(map[string]http.HandlerFunc{
		http.MethodGet:  graphHandlers.ListEntities,
		http.MethodPost: graphHandlers.RegisterEntity,
	}))
	apiMux.HandleFunc("/api/entities/{id}", methods(map[string]http.HandlerFunc{
		http.MethodGet:   graphHandlers.GetEntity,
		http.MethodPatch: graphHandlers.UpdateEntity,
	}))
	apiMux.HandleFunc("/api/entities/{id}/connections", methods(map[string]http.HandlerFunc{
		http.MethodGet: graphHandlers.EntityConnections,
	}))
	apiMux.HandleFunc("/api/entities/{id}/related", methods(map[string]http.HandlerFunc{
		http.MethodGet: graphHandlers.RelatedEntities,
	}))
	apiMux.HandleFunc("/api/entities/{id}/suggestions", methods(map[string]http.HandlerFunc{
		http.MethodGet: graphHandlers.Suggestions,
	}))
	apiMux.HandleFunc("/api/entities/{id}/suggestions/apply", methods(map[string]http.HandlerFunc{
		http.MethodPost: graphHandlers.ApplySuggestions,
	}))
	apiMux.HandleFunc("/api/connections", methods(map[string]http.HandlerFunc{
		http.MethodGet:  graphHandlers.ListConnections,
		http.MethodPost: graphHandlers.CreateConnection,
	}))
	apiMux.HandleFunc("/api/connections/{id}", methods(map[string]http.HandlerFunc{
		http.MethodPatch:  graphHandlers.UpdateConnection,
		http.MethodDelete: graphHandlers.DeleteConnection,
	}))
	apiMux.HandleFunc("/api/clusters", methods(map[string]http.HandlerFunc{
		http.MethodGet: graphHandlers.Clusters,
	}))

	apiMux.HandleFunc("/api/jurisdictions", methods(map[string]http.HandlerFunc{
		http.MethodGet: deadlineHandlers.ListJurisdictions,
	}))
	apiMux.HandleFunc("/api/jurisdictions/{name}/rules", methods(map[string]http.HandlerFunc{
		http.MethodGet: deadlineHandlers.JurisdictionRules,
	}))
	apiMux.HandleFunc("/api/deadlines/calculate", methods(map[string]http.HandlerFunc{
		http.MethodPost: deadlineHandlers.Calculate,
	}))
	apiMux.HandleFunc("/api/alerts", methods(map[string]http.HandlerFunc{
		http.MethodPost: deadlineHandlers.GenerateAlerts,
	}))
	apiMux.HandleFunc("/api/alerts/escalate", methods(map[string]http.HandlerFunc{
		http.MethodPost: deadlineHandlers.Escalate,
	}))

	mux := http.NewServeMux()

	// Health check endpoint (no auth required)
	mux.HandleFunc("/api/health", methods(map[string]http.HandlerFunc{
		http.MethodGet: func(w http.ResponseWriter, r *http.Request) {
			entities, connections := deps.Graph.Stats()
			resp := HealthResponse{
				Status:           "healthy",
				Version:          Version,
				Entities:         entities,
				Connections:      connections,
				Jurisdictions:    len(deps.Deadlines.GetAvailableJurisdictions()),
				WebSocketClients: wsHub.ClientCount(),
			}
			if bs, ok := deps.Dispatcher.(breakerStater); ok {
				resp.Notify = bs.BreakerState()
			}
			if deps.Backups != nil {
				if st, err := deps.Backups.Health(); err == nil {
					resp.Backup = st
					if st.Status != "healthy" {
						resp.Status = "degraded"
					}
				} else {
					logger.Warn("backup health check failed", "error", err)
				}
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(resp)
		},
	}))

	mux.Handle("/api/", handlers.RequireAuth(apiMux, cfg))

	// WebSocket endpoint (no auth required - origin validation handles security)
	mux.Handle("/ws", wsHub)

	// Wrap entire server with rate limiting, then security headers
	handler := handlers.RateLimitMiddleware(mux, rateLimiter)
	handler = handlers.SecurityHeaders(handler)

	server := &http.Server{
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	}()
	logger.Info("server listening", "addr", actualAddr)

	srv := &Server{Addr: actualAddr, Hub: wsHub, done: make(chan struct{})}

	// Handle graceful shutdown
	go func() {
		defer close(srv.done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
		wsHub.Stop()
	}()

	return srv, nil
}
