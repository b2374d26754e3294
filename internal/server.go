package internal

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
)

// NewRouter serves the dashboard page, its JSON payload, and PNG exports of the main charts.
func NewRouter(board *Board, render RenderOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		d, err := board.Assemble(r.Context(), r.URL.Query().Get("week"))
		if err != nil {
			slog.Error("failed to assemble dashboard", "error", err)
			http.Error(w, "failed to assemble dashboard", http.StatusInternalServerError)
			return
		}

		// Render to a buffer so a template error doesn't leave half a page behind.
		var buf bytes.Buffer
		if err := WriteDashboard(&buf, d); err != nil {
			slog.Error("failed to execute template", "error", err)
			http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(buf.Bytes())
	})

	r.Get("/api/dashboard", func(w http.ResponseWriter, r *http.Request) {
		d, err := board.Assemble(r.Context(), r.URL.Query().Get("week"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(d)
	})

	r.Get("/charts/{kind}.png", func(w http.ResponseWriter, r *http.Request) {
		kind := ChartKind(chi.URLParam(r, "kind"))
		chart, err := board.Chart(r.Context(), kind, r.URL.Query().Get("week"))
		switch {
		case errors.Is(err, ErrUnknownChart):
			writeError(w, http.StatusNotFound, err.Error())
			return
		case errors.Is(err, ErrNoData):
			writeError(w, http.StatusNotFound, "no data for this chart")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		var buf bytes.Buffer
		if err := WritePNG(&buf, chart, render.Width, render.Height); err != nil {
			slog.Error("failed to draw chart", "kind", kind, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to draw chart")
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	})

	return r
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}{status, message})
}

// loggingMiddleware logs HTTP requests.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
