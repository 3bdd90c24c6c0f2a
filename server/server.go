// Package server exposes a did:eosio resolver over HTTP in the shape of a
// Universal Resolver driver.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/pilacorp/go-did-eosio/resolver"
)

// Content types of driver responses.
const (
	ContentTypeResolutionResult = `application/ld+json;profile="https://w3id.org/did-resolution"`
	ContentTypeDIDLDJSON        = resolver.ContentTypeDIDLDJSON
)

const defaultRequestTimeout = 30 * time.Second

// Resolver resolves DIDs. *resolver.Resolver implements it.
type Resolver interface {
	Resolve(ctx context.Context, did string) *resolver.Result
}

// Server serves DID resolution requests.
type Server struct {
	resolver       Resolver
	logger         zerolog.Logger
	metrics        *metrics
	gatherer       prometheus.Gatherer
	mux            *http.ServeMux
	requestTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithRequestTimeout bounds each request, chain calls included.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// WithRegistry registers metrics on reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.gatherer = reg
			s.metrics = newMetrics(reg)
		}
	}
}

// New creates a Server backed by res.
func New(res Resolver, opts ...Option) *Server {
	s := &Server{
		resolver:       res,
		logger:         zerolog.Nop(),
		requestTimeout: defaultRequestTimeout,
		mux:            http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		reg := prometheus.NewRegistry()
		s.gatherer = reg
		s.metrics = newMetrics(reg)
	}

	s.mux.HandleFunc("GET /1.0/identifiers/{did...}", s.handleResolve)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return s
}

// Handler returns the HTTP handler with logging and timeouts applied.
func (s *Server) Handler() http.Handler {
	return s.loggingMiddleware(s.timeoutMiddleware(s.mux))
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	did := r.PathValue("did")

	start := time.Now()
	res := s.resolver.Resolve(r.Context(), did)
	s.metrics.resolutionDuration.Observe(time.Since(start).Seconds())

	label := resultSuccess
	if res.Failed() {
		label = res.ResolutionMetadata.Error
	}
	s.metrics.resolutions.WithLabelValues(label).Inc()

	status := statusFor(res)
	if !res.Failed() && acceptsDocument(r) {
		writeJSON(w, ContentTypeDIDLDJSON, status, res.Document)
		return
	}
	writeJSON(w, ContentTypeResolutionResult, status, res)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, "application/json", http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps a resolution result to the driver's HTTP status.
func statusFor(res *resolver.Result) int {
	switch res.ResolutionMetadata.Error {
	case "":
		return http.StatusOK
	case resolver.ErrorInvalidDID:
		return http.StatusBadRequest
	case resolver.ErrorNotFound:
		return http.StatusNotFound
	case resolver.ErrorMethodNotSupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// acceptsDocument reports whether the client asked for the bare document
// rather than the resolution result.
func acceptsDocument(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		switch strings.TrimSpace(mediaType) {
		case ContentTypeDIDLDJSON, "application/did+json":
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, contentType string, status int, v any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
