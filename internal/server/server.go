// Package server exposes the schema generation engine over HTTP. The API
// mirrors the library surface: one endpoint that parses input and optionally
// renders DDL, one that lists the registered formats, plus health and root
// endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/papajo/schemaGenius/internal/engine"
	"github.com/papajo/schemaGenius/internal/isr"
	"github.com/papajo/schemaGenius/internal/logger"
	"github.com/papajo/schemaGenius/internal/version"
)

type generateRequest struct {
	InputData  string `json:"input_data"`
	InputType  string `json:"input_type"`
	TargetDB   string `json:"target_db"`
	SourceName string `json:"source_name"`
}

type generateResponse struct {
	OutputDDL     string          `json:"output_ddl,omitempty"`
	SchemaISRData json.RawMessage `json:"schema_isr_data,omitempty"`
	InputType     string          `json:"input_type"`
	TargetDB      string          `json:"target_db,omitempty"`
	Message       string          `json:"message"`
}

type formatsResponse struct {
	InputTypes []string `json:"input_types"`
	TargetDBs  []string `json:"target_dbs"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Server serves the schema generation API over a shared Engine. The Engine
// is immutable, so request handlers need no synchronization.
type Server struct {
	cfg    Config
	engine *engine.Engine
	log    *slog.Logger
	http   *http.Server
}

// New builds a Server from cfg with the default engine registries.
func New(cfg Config) *Server {
	// A zero body limit would reject every request.
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{
		cfg:    cfg,
		engine: engine.New(),
		log:    logger.Get(),
	}
	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(cfg.ReadTimeout),
		WriteTimeout: time.Duration(cfg.WriteTimeout),
	}
	return s
}

// Handler returns the routing table. Exposed so tests can drive the server
// through httptest without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/schema/generate/{$}", s.handleGenerate)
	mux.HandleFunc("GET /api/v1/schema/formats", s.handleFormats)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	var h http.Handler = mux
	if s.cfg.LogRequests {
		h = s.logRequests(h)
	}
	return h
}

// Run starts the listener and blocks until ctx is cancelled or the listener
// fails. On cancellation, in-flight requests get the configured shutdown
// timeout to drain.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr)
		err := s.http.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.ShutdownTimeout))
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return <-errCh
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
			return
		}
		s.writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}
	if req.InputData == "" {
		s.writeError(w, http.StatusBadRequest, "'input_data' is required")
		return
	}
	if req.InputType == "" {
		s.writeError(w, http.StatusBadRequest, "'input_type' is required")
		return
	}

	schema, err := s.engine.Generate(req.InputData, req.InputType, req.SourceName)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	if req.TargetDB == "" {
		encoded, err := isr.Encode(schema)
		if err != nil {
			s.writeEngineError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, generateResponse{
			SchemaISRData: encoded,
			InputType:     req.InputType,
			Message:       "Input processed to Intermediate Schema Representation. No target_db specified for DDL generation.",
		})
		return
	}

	ddl, err := s.engine.Convert(schema, req.TargetDB)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, generateResponse{
		OutputDDL: ddl,
		InputType: req.InputType,
		TargetDB:  req.TargetDB,
		Message:   "Schema DDL generated successfully.",
	})
}

func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, formatsResponse{
		InputTypes: s.engine.InputFormats(),
		TargetDBs:  s.engine.TargetDialects(),
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version(),
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to the SchemaGenius API.",
	})
}

// writeEngineError maps the error taxonomy onto HTTP statuses: unsupported
// format tags are 501, input validation failures are 400, and everything
// else is a 500 with a generic detail so internals never leak to clients.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	var ferr *engine.UnsupportedFormatError
	if errors.As(err, &ferr) {
		s.writeError(w, http.StatusNotImplemented, err.Error())
		return
	}
	var verr *isr.ValidationError
	if errors.As(err, &verr) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.log.Error("schema generation failed", "error", err)
	s.writeError(w, http.StatusInternalServerError, "An unexpected error occurred during schema generation.")
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, errorResponse{Detail: detail})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("failed to write response", "error", err)
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
