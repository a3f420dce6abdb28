package bfplib

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const DefaultRequestTimeout = 60 * time.Second

// HTTPHandlerOpts wires the analytics HTTP surface. Everything is
// injected; the handler owns no process-wide state.
type HTTPHandlerOpts struct {
	Resolver          *Resolver
	Aggregator        *Aggregator
	Store             VisitorStore
	PublicIPProviders []PublicIPProvider
	Logger            Logger
	Version           string
	DatabaseName      string
	RequestTimeout    time.Duration
}

type httpHandler struct {
	resolver   *Resolver
	aggregator *Aggregator
	store      VisitorStore
	publicIPs  []PublicIPProvider
	logger     Logger
	version    string
	database   string
}

type apiResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Timestamp  string      `json:"timestamp"`
	StatusCode int         `json:"status_code"`
	Data       interface{} `json:"data,omitempty"`
}

func (h httpHandler) encodeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.Encode(data) // nolint: errcheck
}

func (h httpHandler) sendData(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	h.encodeJSON(w, statusCode, apiResponse{
		Success:    true,
		Message:    message,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		StatusCode: statusCode,
		Data:       data,
	})
}

func (h httpHandler) sendError(w http.ResponseWriter, err error, message string, statusCode int) {
	e := &httpError{
		message:    message,
		statusCode: statusCode,
		err:        err,
	}

	h.encodeJSON(w, e.StatusCode(), apiResponse{
		Success:    false,
		Message:    message,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		StatusCode: e.StatusCode(),
		Data:       e,
	})
}

func NewHTTPHandler(opts HTTPHandlerOpts) http.Handler {
	handler := httpHandler{
		resolver:   opts.Resolver,
		aggregator: opts.Aggregator,
		store:      opts.Store,
		publicIPs:  opts.PublicIPProviders,
		logger:     opts.Logger,
		version:    opts.Version,
		database:   opts.DatabaseName,
	}

	if handler.logger == nil {
		handler.logger = nopLogger{}
	}

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	router := chi.NewRouter()

	router.Use(middleware.StripSlashes)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(timeout))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/analytics", func(r chi.Router) {
			r.Post("/reverse-geocode", handler.handleReverseGeocode)
			r.Post("/visitor-log", handler.handleVisitorLog)
			r.Get("/ip-info", handler.handleIPInfo)
			r.Get("/my-ip", handler.handleMyIP)
			r.Get("/providers", handler.handleProviders)
		})

		r.Route("/health", func(r chi.Router) {
			r.Get("/", handler.handleHealth)
			r.Get("/db", handler.handleHealthDB)
		})
	})

	return router
}
