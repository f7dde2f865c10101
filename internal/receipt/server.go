package receipt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type ctxKey int

const requestIDKey ctxKey = iota

// Server handles HTTP requests for receipt analysis
type Server struct {
	service   *Service
	mux       *http.ServeMux
	maxUpload int64
}

// NewServer creates a new Server with default mux. maxUpload caps the request body
// in bytes; zero accepts uploads of any size.
func NewServer(service *Service, maxUpload int64) *Server {
	return NewServerWithMux(service, maxUpload, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(service *Service, maxUpload int64, mux *http.ServeMux) *Server {
	s := &Server{
		service:   service,
		mux:       mux,
		maxUpload: maxUpload,
	}
	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes on the server's mux
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleHealth)
	s.mux.HandleFunc("POST /analyze-receipt", s.handleAnalyzeReceipt)
	s.mux.HandleFunc("POST /test-receipt", s.handleTestReceipt)

	// Method-less patterns are less specific, so they only catch mismatched methods
	s.mux.HandleFunc("/{$}", methodNotAllowed("GET, HEAD"))
	s.mux.HandleFunc("/analyze-receipt", methodNotAllowed("POST"))
	s.mux.HandleFunc("/test-receipt", methodNotAllowed("POST"))
	s.mux.HandleFunc("/", s.handleNotFound)
}

// corsMiddleware allows any origin, method and header
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w, r)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

const (
	corsAllowMethods = "DELETE, GET, HEAD, OPTIONS, PATCH, POST, PUT"
	corsAllowHeaders = "Accept, Accept-Language, Authorization, Content-Language, Content-Type, X-Request-ID"
)

// setCORSHeaders sets CORS headers on a response. Browsers treat "*" literally on
// credentialed requests, so the origin and requested headers are echoed back instead.
func setCORSHeaders(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	if origin := r.Header.Get("Origin"); origin != "" {
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Add("Vary", "Origin")
	} else {
		h.Set("Access-Control-Allow-Origin", "*")
	}
	h.Set("Access-Control-Expose-Headers", requestIDHeader)

	if r.Method != http.MethodOptions {
		return
	}
	h.Set("Access-Control-Allow-Methods", corsAllowMethods)
	if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
		h.Set("Access-Control-Allow-Headers", requested)
		h.Add("Vary", "Access-Control-Request-Headers")
	} else {
		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
	}
	h.Set("Access-Control-Max-Age", "3600")
}

// requestIDMiddleware tags each request with an ID, reusing the caller's if present
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// recoverMiddleware converts a handler panic into the failure envelope
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("Recovered from panic", "request_id", requestID(r), "path", r.URL.Path, "panic", rec)
				writeFailure(w, fmt.Errorf("%v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requestID returns the ID assigned by requestIDMiddleware
func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}

// Handler returns the mux wrapped in the server's middleware
func (s *Server) Handler() http.Handler {
	return requestIDMiddleware(corsMiddleware(recoverMiddleware(s.mux)))
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Handler().ServeHTTP(w, r)
}
