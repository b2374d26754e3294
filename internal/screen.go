package internal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// NewBoardFromConfig wires a Board and its cards from the config.
// With fake set, generated data replaces the upstream data and every network-backed card.
func NewBoardFromConfig(config Config, fake bool) (*Board, error) {
	options := config.GetDashboardOptions()

	if fake {
		now := time.Now()
		return NewBoard(
			NewFakeSource(options.Epoch, now, now.UnixNano()),
			options,
			nil,
			NewFakeCalendarCards(),
			NewFakeCoachCards(config.GetCoachOptions()),
		), nil
	}

	if !config.HasSource() {
		return nil, errors.New("no data source: set data.url or data.dir")
	}

	calendars, err := config.GetCalendarOptions()
	if err != nil {
		return nil, err
	}

	return NewBoard(
		NewSource(config.GetSourceOptions()),
		options,
		nil,
		NewCalendarCards(calendars),
		NewCoachCards(config.GetCoachOptions()),
		NewQuoteCards(config.GetQuoteOptions()),
	), nil
}

// Serve runs the dashboard server on addr until ctx is done.
func Serve(ctx context.Context, board *Board, render RenderOptions, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      NewRouter(board, render),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: time.Minute,
	}

	errs := make(chan error, 1)
	go func() {
		slog.Info("server starting", "address", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutdown initiated")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("shutdown complete")
	return nil
}

// RenderScreen saves a screenshot of the dashboard for the given week to img.
func RenderScreen(ctx context.Context, board *Board, render RenderOptions, weekKey, img string) error {
	var handler http.Handler = NewRouter(board, render)
	if weekKey != "" {
		inner := handler
		handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/" && r.URL.Query().Get("week") == "" {
				q := r.URL.Query()
				q.Set("week", weekKey)
				r.URL.RawQuery = q.Encode()
			}
			inner.ServeHTTP(w, r)
		})
	}

	buf, err := Render(ctx, handler, render.Width, render.Height)
	if err != nil {
		return err
	}
	if err := os.WriteFile(img, buf, 0644); err != nil {
		return fmt.Errorf("failed to save screenshot: %w", err)
	}
	slog.Info("screenshot saved", "path", img)
	return nil
}

// ExportChart draws one chart with go-chart and saves it as a PNG to out.
func ExportChart(ctx context.Context, board *Board, render RenderOptions, kind ChartKind, weekKey, out string) error {
	chart, err := board.Chart(ctx, kind, weekKey)
	if err != nil {
		return fmt.Errorf("failed to build %s chart: %w", kind, err)
	}

	var buf bytes.Buffer
	if err := WritePNG(&buf, chart, render.Width, render.Height); err != nil {
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	slog.Info("chart saved", "kind", kind, "path", out)
	return nil
}
