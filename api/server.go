// Package api embeds the engine behind an HTTP interface: sessions of
// named worlds, cell and rule operations, stepping, history navigation,
// and a websocket feed of step events.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// Server represents the HTTP API server
type Server struct {
	sessions    *SessionManager
	broadcaster *Broadcaster
	mux         *http.ServeMux
	server      *http.Server
	port        int
}

// NewServer creates a new API server
func NewServer(port int) *Server {
	broadcaster := NewBroadcaster()

	s := &Server{
		sessions:    NewSessionManager(broadcaster),
		broadcaster: broadcaster,
		mux:         http.NewServeMux(),
		port:        port,
	}

	s.registerRoutes()

	return s
}

// Handler returns the HTTP handler with CORS middleware applied
func (s *Server) Handler() http.Handler {
	return s.corsMiddleware(s.mux)
}

// registerRoutes sets up all HTTP routes
func (s *Server) registerRoutes() {
	// Health check
	s.mux.HandleFunc("/health", s.handleHealth)

	// WebSocket endpoint for step events
	s.mux.HandleFunc("/api/v1/ws", s.handleWebSocket)

	// Session management
	s.mux.HandleFunc("/api/v1/session", s.handleSession)
	s.mux.HandleFunc("/api/v1/session/", s.handleSessionRoute)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("API server starting on http://127.0.0.1:%d", s.port)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Close broadcaster to disconnect all WebSocket clients
	if s.broadcaster != nil {
		s.broadcaster.Close()
	}

	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// GetBroadcaster returns the broadcaster (for testing)
func (s *Server) GetBroadcaster() *Broadcaster {
	return s.broadcaster
}

// Sessions returns the session manager (for testing)
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": s.sessions.Count(),
	})
}

// handleSession handles /api/v1/session
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSession(w, r)
	case http.MethodGet:
		s.handleListSessions(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleSessionRoute dispatches session-specific routes:
//
//	/api/v1/session/{id}
//	/api/v1/session/{id}/worlds[/{name}[/rename|select]]
//	/api/v1/session/{id}/rules|cells|clear|randomize|seed|step|snapshot
//	/api/v1/session/{id}/history[/prev|next|go|{index}/snapshot|log]
func (s *Server) handleSessionRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/session/")
	parts := strings.Split(strings.TrimSuffix(path, "/"), "/")

	if len(parts) == 0 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "Session ID required")
		return
	}
	sessionID := parts[0]

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			session, err := s.sessions.GetSession(sessionID)
			if err != nil {
				writeError(w, http.StatusNotFound, "Session not found")
				return
			}
			s.handleGetSessionStatus(w, r, session)
		case http.MethodDelete:
			s.handleDestroySession(w, r, sessionID)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	switch parts[1] {
	case "worlds":
		s.routeWorlds(w, r, session, parts[2:])
	case "rules":
		s.handleRules(w, r, session)
	case "cells":
		s.handleCells(w, r, session)
	case "clear":
		s.requirePost(w, r, session, s.handleClear)
	case "randomize":
		s.requirePost(w, r, session, s.handleRandomize)
	case "seed":
		s.requirePost(w, r, session, s.handleSeed)
	case "step":
		s.requirePost(w, r, session, s.handleStep)
	case "history":
		s.routeHistory(w, r, session, parts[2:])
	case "snapshot":
		s.handleSnapshot(w, r, session)
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown route %q", parts[1]))
	}
}

// routeWorlds dispatches /worlds subroutes
func (s *Server) routeWorlds(w http.ResponseWriter, r *http.Request, session *Session, parts []string) {
	if len(parts) == 0 {
		switch r.Method {
		case http.MethodGet:
			s.handleListWorlds(w, r, session)
		case http.MethodPost:
			s.handleCreateWorld(w, r, session)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	name := parts[0]
	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.handleWorldInfo(w, r, session, name)
		case http.MethodDelete:
			s.handleDeleteWorld(w, r, session, name)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	switch parts[1] {
	case "rename":
		s.handleRenameWorld(w, r, session, name)
	case "select":
		s.handleSelectWorld(w, r, session, name)
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown world action %q", parts[1]))
	}
}

// routeHistory dispatches /history subroutes
func (s *Server) routeHistory(w http.ResponseWriter, r *http.Request, session *Session, parts []string) {
	if len(parts) == 0 {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.handleHistory(w, r, session)
		return
	}

	switch parts[0] {
	case "prev", "next", "go":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.handleHistoryMove(w, r, session, parts[0])
	default:
		if len(parts) != 2 || r.Method != http.MethodGet {
			writeError(w, http.StatusNotFound, "Unknown history route")
			return
		}
		s.handleHistoryEntry(w, r, session, parts[0], parts[1])
	}
}

// requirePost wraps a session handler that only accepts POST
func (s *Server) requirePost(w http.ResponseWriter, r *http.Request, session *Session, fn func(http.ResponseWriter, *http.Request, *Session)) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	fn(w, r, session)
}

// corsMiddleware adds CORS headers restricted to localhost origins
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if isAllowedOrigin(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// isAllowedOrigin permits localhost origins in their various forms
func isAllowedOrigin(origin string) bool {
	if origin == "" || origin == "file://" {
		return true
	}
	for _, prefix := range []string{
		"http://localhost:", "https://localhost:",
		"http://127.0.0.1:", "https://127.0.0.1:",
	} {
		if strings.HasPrefix(origin, prefix) {
			return true
		}
	}
	return origin == "http://localhost" || origin == "http://127.0.0.1"
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

func readJSON(r *http.Request, v interface{}) error {
	defer func() {
		_ = r.Body.Close()
	}()
	return json.NewDecoder(r.Body).Decode(v)
}
