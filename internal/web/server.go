// Package web exposes the engine's read models and controls over HTTP for
// the dashboard.
package web

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"time"

	"DipCatcher/internal/engine"
)

// Server is the dashboard-facing HTTP API.
type Server struct {
	addr   string
	engine *engine.Engine
	srv    *http.Server
}

// NewServer creates a server bound to addr.
func NewServer(addr string, e *engine.Engine) *Server {
	return &Server{addr: addr, engine: e}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/portfolio", s.handlePortfolio)
	mux.HandleFunc("GET /api/cache", s.handleCacheStatus)
	mux.HandleFunc("POST /api/cache/clear", s.handleCacheClear)
	mux.HandleFunc("POST /api/cycle", s.handleRunCycle)

	s.srv = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[INFO] http server listening on %s", s.addr)
	err = s.srv.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// handlePortfolio returns the portfolio summary. Best-effort: lookups that
// fail upstream surface as a partial (or zero-value) summary, never a 5xx.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.engine.PortfolioSummary())
}

func (s *Server) handleCacheStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.engine.CacheStatus())
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	s.engine.ClearCache(symbol)
	writeJSON(w, map[string]string{"status": "cleared", "symbol": symbol})
}

func (s *Server) handleRunCycle(w http.ResponseWriter, r *http.Request) {
	summary := s.engine.RunCycle()
	writeJSON(w, summary)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}
