// Package httpserver serves the redirect-based Google grant, the picker
// pages and a small status API to the browser.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/ports/driving"
	"github.com/sbsheik/sc-gconnector-gis/internal/logger"
)

// Routes besides the redirect flow paths in the driving port.
const (
	statusPath       = "/api/status"
	enterprisePath   = "/api/enterprise"
	pickerPagePath   = "/picker/{id}"
	pickerResultPath = "/picker/{id}/result"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Config configures the server.
type Config struct {
	// Addr is the listen address, e.g. "127.0.0.1:3000".
	Addr string
	// CSP controls the Content-Security-Policy header.
	CSP domain.CSPSettings
}

// Services are the driving ports the server exposes.
type Services struct {
	Session    driving.SessionService
	Callback   driving.CallbackService
	Picker     driving.PickerService
	Enterprise driving.EnterpriseGuard
}

// Server is the local web server.
type Server struct {
	cfg      Config
	services Services
	handler  http.Handler
}

// New creates a server. Enterprise may be nil.
func New(cfg Config, services Services) *Server {
	s := &Server{cfg: cfg, services: services}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+driving.StartPath, s.handleStart)
	mux.HandleFunc("GET "+driving.ProviderCallbackPath, s.handleProviderCallback)
	mux.HandleFunc("GET "+driving.HandlerPath, s.handleHandlerPage)
	mux.HandleFunc("POST "+driving.CompletePath, s.handleComplete)
	mux.HandleFunc("GET "+statusPath, s.handleStatus)
	mux.HandleFunc("GET "+enterprisePath, s.handleEnterprise)
	mux.HandleFunc("GET "+pickerPagePath, s.handlePickerPage)
	mux.HandleFunc("POST "+pickerResultPath, s.handlePickerResult)

	s.handler = Recovery(CSP(BuildCSP(cfg.CSP), mux))
	return s
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// If ready is non-nil it receives the bound address once listening.
func (s *Server) ListenAndServe(ctx context.Context, ready func(addr string)) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	logger.Info("Serving on http://%s", listener.Addr())
	if ready != nil {
		ready(listener.Addr().String())
	}

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeJSON(w, status, errorBody{Error: code, Message: domain.UserMessage(err)})
}

// classify maps domain error kinds to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, domain.ErrNotConnected), errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrProtocol):
		return http.StatusBadGateway, "provider_error"
	case errors.Is(err, domain.ErrNotReady), errors.Is(err, domain.ErrTransport):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, domain.ErrConfiguration):
		return http.StatusInternalServerError, "configuration"
	default:
		return http.StatusInternalServerError, "internal_server_error"
	}
}
