// Package api exposes the tool suite over HTTP.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	RequestTimeout time.Duration
}

// NewRouter wires the handler into a chi router with the standard
// middleware stack.
func NewRouter(h *Handler, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(opts.RequestTimeout))
	}

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tools", h.ListTools)
		r.Get("/tools/{toolId}", h.GetTool)
		r.Post("/tools/{toolId}/run", h.RunTool)

		r.Get("/suites", h.ListSuites)
		r.Get("/suites/{suiteId}", h.GetSuite)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.CreateSession)
			r.Get("/{sessionId}", h.GetSession)
			r.Delete("/{sessionId}", h.DeleteSession)
			r.Post("/{sessionId}/input", h.SetSessionInput)
			r.Post("/{sessionId}/invoke", h.InvokeSession)
			r.Get("/{sessionId}/result", h.SessionResult)
		})
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Info("Request handled.",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"requestId", chimiddleware.GetReqID(r.Context()),
		)
	})
}
