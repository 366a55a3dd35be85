package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/awitkowski/articlemd"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultMaxRequestBytes caps the JSON request body accepted by the API.
const DefaultMaxRequestBytes = 12 << 20 // 12 MiB: 10 MiB of HTML plus JSON overhead

// Server is the JSON API server for the parsing pipeline.
type Server struct {
	router          chi.Router
	parser          articlemd.Parser
	fetcher         articlemd.Fetcher
	logger          *slog.Logger
	maxRequestBytes int64
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithMaxRequestBytes sets the request body size limit.
func WithMaxRequestBytes(n int64) ServerOption {
	return func(s *Server) {
		s.maxRequestBytes = n
	}
}

// NewServer creates and configures the API server. The fetcher may be
// nil, in which case the parse-url endpoint reports EUNAVAILABLE.
func NewServer(parser articlemd.Parser, fetcher articlemd.Fetcher, logger *slog.Logger, opts ...ServerOption) *Server {
	s := &Server{
		parser:          parser,
		fetcher:         fetcher,
		logger:          logger,
		maxRequestBytes: DefaultMaxRequestBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/parse", s.handleParse)
		r.Post("/parse-url", s.handleParseURL)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxRequestBytes)

	var req articlemd.ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.parser.Parse(r.Context(), req)
	if err != nil {
		s.writeParseError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// parseURLRequest is the body of the parse-url endpoint: a URL to fetch
// plus the same output options as a direct parse.
type parseURLRequest struct {
	URL           string               `json:"url"`
	Mode          articlemd.OutputMode `json:"output_mode,omitempty"`
	FlattenYAML   bool                 `json:"flatten_yaml,omitempty"`
	ConvertToJSON bool                 `json:"convert_to_json,omitempty"`
	RecordID      string               `json:"record_id,omitempty"`
}

func (s *Server) handleParseURL(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxRequestBytes)

	var req parseURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		jsonError(w, "url is required", http.StatusBadRequest)
		return
	}
	if s.fetcher == nil {
		jsonError(w, "fetching is not enabled", http.StatusServiceUnavailable)
		return
	}

	html, err := s.fetcher.Fetch(r.Context(), req.URL)
	if err != nil {
		s.writeParseError(w, r, err)
		return
	}

	result, err := s.parser.Parse(r.Context(), articlemd.ParseRequest{
		HTML:          html,
		SourceURL:     req.URL,
		Mode:          req.Mode,
		FlattenYAML:   req.FlattenYAML,
		ConvertToJSON: req.ConvertToJSON,
		RecordID:      req.RecordID,
	})
	if err != nil {
		s.writeParseError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeParseError(w http.ResponseWriter, r *http.Request, err error) {
	code := articlemd.ErrorCode(err)
	status := statusFromCode(code)
	if status == http.StatusInternalServerError && s.logger != nil {
		s.logger.Error("internal error", "path", r.URL.Path, "err", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":  code,
		"error": articlemd.ErrorMessage(err),
	})
}

func statusFromCode(code string) int {
	switch code {
	case articlemd.EINVALID:
		return http.StatusBadRequest
	case articlemd.ENOTFOUND, articlemd.ENOCONTENT:
		return http.StatusUnprocessableEntity
	case articlemd.ETIMEOUT:
		return http.StatusGatewayTimeout
	case articlemd.EUNAVAILABLE:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
