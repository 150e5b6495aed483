// Package api serves toastyd's HTTP control surface.
//
//	POST /v1/toasts              show a toast
//	PUT  /v1/flash/{key}         store a flash toast
//	POST /v1/flash/{key}/take    show and clear a flash toast
//	GET  /v1/status              active toast and queue
//	GET  /metrics                Prometheus metrics
//
// Toast routes hand the toast to the center before waiting for it. If the
// center does not answer within the timeout they reply 202 with only
// {"pending": true}: the toast is still shown, and a taken flash is gone.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jmylchreest/toasty/internal/toast"
)

// maxContentLength bounds toast content accepted over HTTP.
const maxContentLength = 4096

// Options configures the handler.
type Options struct {
	Center *toast.Center
	// Flash is the store behind Center's flash operations. Nil disables the
	// flash routes.
	Flash   toast.FlashStore
	Metrics http.Handler
	Logger  *slog.Logger
	// Timeout bounds the wait for the center's executor.
	Timeout time.Duration
}

// ToastRequest is the body of POST /v1/toasts and PUT /v1/flash/{key}.
type ToastRequest struct {
	Category   string `json:"category"`
	Content    string `json:"content"`
	DurationMS int64  `json:"duration_ms,omitempty"`
}

func (r ToastRequest) validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return errors.New("content is required")
	}
	if len(r.Content) > maxContentLength {
		return fmt.Errorf("content longer than %d bytes", maxContentLength)
	}
	if r.DurationMS < 0 {
		return errors.New("duration_ms must not be negative")
	}
	return nil
}

func (r ToastRequest) category() toast.Category {
	if c := toast.ParseCategory(r.Category); c != "" {
		return c
	}
	return toast.Info
}

func (r ToastRequest) duration() time.Duration {
	return time.Duration(r.DurationMS) * time.Millisecond
}

// ToastResponse describes a toast accepted by the center.
type ToastResponse struct {
	toast.Summary
	Queued bool `json:"queued"`
}

// pendingResponse is sent when a toast was handed over but not confirmed.
type pendingResponse struct {
	Pending bool `json:"pending"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type server struct {
	center  *toast.Center
	flash   toast.FlashStore
	logger  *slog.Logger
	timeout time.Duration
}

// NewHandler returns the router.
func NewHandler(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	s := &server{center: opts.Center, flash: opts.Flash, logger: logger, timeout: timeout}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/toasts", s.showToast)
		r.Get("/status", s.status)
		r.Route("/flash/{key}", func(r chi.Router) {
			r.Put("/", s.putFlash)
			r.Post("/take", s.takeFlash)
		})
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	return r
}

// call runs fn on the center's executor.
func call[T any](ctx context.Context, s *server, fn func() T) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return toast.Call(ctx, s.center.Executor(), fn)
}

func (s *server) show(ctx context.Context, category toast.Category, content string, d time.Duration) (ToastResponse, error) {
	return call(ctx, s, func() ToastResponse {
		n := s.center.Show(category, content, d)
		return ToastResponse{Summary: n.Summarize(), Queued: n.State() == toast.Pending}
	})
}

func (s *server) showToast(w http.ResponseWriter, r *http.Request) {
	var req ToastRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := s.show(r.Context(), req.category(), req.Content, req.duration())
	if err != nil {
		s.writePending(w, err)
		return
	}
	s.logger.Debug("toast accepted over HTTP", "id", resp.ID, "category", resp.Category, "queued", resp.Queued)
	writeJSON(w, http.StatusAccepted, resp)
}

func (s *server) status(w http.ResponseWriter, r *http.Request) {
	st, err := call(r.Context(), s, s.center.Status)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *server) putFlash(w http.ResponseWriter, r *http.Request) {
	if s.flash == nil {
		writeError(w, http.StatusNotImplemented, toast.ErrNoFlashStore)
		return
	}
	var req ToastRequest
	if !decode(w, r, &req) {
		return
	}

	key := chi.URLParam(r, "key")
	// Flash only touches the store, so it runs on the request goroutine.
	if err := s.center.Flash(r.Context(), key, req.category(), req.Content, req.duration()); err != nil {
		s.logger.Warn("failed to store flash", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) takeFlash(w http.ResponseWriter, r *http.Request) {
	if s.flash == nil {
		writeError(w, http.StatusNotImplemented, toast.ErrNoFlashStore)
		return
	}

	key := chi.URLParam(r, "key")
	e, ok, err := s.flash.Take(r.Context(), key)
	if err != nil {
		s.logger.Warn("failed to take flash", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("no flash stored under %q", key))
		return
	}

	resp, err := s.show(r.Context(), e.Category, e.Content, e.Duration)
	if err != nil {
		s.writePending(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// writePending answers a show the executor has not confirmed. The posted
// work cannot be withdrawn, so the toast is reported as accepted.
func (s *server) writePending(w http.ResponseWriter, err error) {
	s.logger.Warn("toast not confirmed in time", "error", err)
	writeJSON(w, http.StatusAccepted, pendingResponse{Pending: true})
}

func decode(w http.ResponseWriter, r *http.Request, req *ToastRequest) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
