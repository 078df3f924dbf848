// Package httpapi exposes the retrieval engine over a JSON HTTP API:
// POST /add, POST /search, POST /reset and a GET / status check.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/haasp-labs/recall/internal/core/domain"
	"github.com/haasp-labs/recall/internal/core/ports/driving"
	"github.com/haasp-labs/recall/internal/logger"
)

// DefaultSearchK is the result count when a search request omits k.
const DefaultSearchK = 5

// Server serves the HTTP API.
type Server struct {
	ingest  driving.IngestService
	search  driving.SearchService
	admin   driving.AdminService
	limiter *rate.Limiter
	addr    string
}

// Option configures the server.
type Option func(*Server)

// WithRateLimit bounds request throughput to rps sustained requests per
// second with the given burst allowance.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// New creates a server bound to addr.
func New(addr string, ingest driving.IngestService, search driving.SearchService,
	admin driving.AdminService, opts ...Option,
) *Server {
	s := &Server{
		ingest: ingest,
		search: search,
		admin:  admin,
		addr:   addr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the full middleware-wrapped handler.
// Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleStatus)
	mux.HandleFunc("POST /add", s.handleAdd)
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("POST /reset", s.handleReset)

	var handler http.Handler = mux
	handler = s.rateLimitMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	logger.Info("http api listening on %s", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type statusResponse struct {
	Status  string `json:"status"`
	Vectors int64  `json:"vectors"`
	Chunks  int64  `json:"chunks"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := s.admin.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Status:  "ok",
		Vectors: stats.Vectors,
		Chunks:  stats.Chunks,
	})
}

type addRequest struct {
	DocID   string `json:"doc_id"`
	Content string `json:"content"`
}

type addResponse struct {
	Status     string `json:"status"`
	AddedCount int    `json:"added_count"`
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	added, err := s.ingest.AddDocument(r.Context(), req.DocID, req.Content)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, addResponse{Status: "ok", AddedCount: added})
}

type searchRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

type searchResult struct {
	DocID     string  `json:"doc_id"`
	ChunkText string  `json:"chunk_text"`
	Score     float64 `json:"score"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	if req.K == 0 {
		req.K = DefaultSearchK
	}

	results, err := s.search.Search(r.Context(), req.Query, req.K)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	out := make([]searchResult, len(results))
	for i, res := range results {
		out[i] = searchResult{DocID: res.DocID, ChunkText: res.ChunkText, Score: res.Score}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.admin.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	if errors.Is(err, domain.ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encoding response: %v", err)
	}
}

type apiError struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, apiError{Error: err.Error()})
}
