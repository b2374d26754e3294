package internal

import (
	"cmp"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/albertb/progressboard/internal/week"
)

//go:embed dashboard.go.html
var templates embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templates, "dashboard.go.html"))

// snapshot is the upstream data seen by one render pass. Data sets that failed to load are nil.
type snapshot struct {
	Combined *CombinedData
	Daily    DailyData
	Tasks    TasksData
}

// weekKeys returns the weeks known to the daily or task data, in order.
func (s snapshot) weekKeys() []string {
	return week.SortKeys(append(s.Daily.Keys(), s.Tasks.Keys()...))
}

// weekNumbers returns the numbers of every week known to any data set, overview labels included.
func (s snapshot) weekNumbers() []int {
	var numbers []int
	for _, key := range s.weekKeys() {
		if n, ok := week.ParseKey(key); ok {
			numbers = append(numbers, n)
		}
	}
	if s.Combined != nil {
		for _, label := range s.Combined.Weeks {
			if n, ok := week.ParseLabel(label); ok {
				numbers = append(numbers, n)
			}
		}
	}
	return numbers
}

func loadSnapshot(ctx context.Context, source Source) snapshot {
	var snap snapshot

	// Fetch the data sets in parallel since they may be network calls.
	var wg sync.WaitGroup
	errs := make(chan error, 3)

	wg.Add(3)
	go func() {
		defer wg.Done()
		data, err := source.Combined(ctx)
		if err != nil {
			errs <- fmt.Errorf("failed to load overview data: %w", err)
			return
		}
		snap.Combined = &data
	}()
	go func() {
		defer wg.Done()
		data, err := source.Daily(ctx)
		if err != nil {
			errs <- fmt.Errorf("failed to load daily data: %w", err)
			return
		}
		snap.Daily = data
	}()
	go func() {
		defer wg.Done()
		data, err := source.Tasks(ctx)
		if err != nil {
			errs <- fmt.Errorf("failed to load task data: %w", err)
			return
		}
		snap.Tasks = data
	}()

	wg.Wait()
	close(errs)

	var err error
	for e := range errs {
		err = errors.Join(err, e)
	}
	if err != nil {
		slog.Warn("failed to load some data", "error", err)
	}
	return snap
}

type renderData struct {
	Header *Header
	Cards  []*Card
}

func assembleData(header Header, cards []Card) renderData {
	var data renderData

	// Load the cards in parallel since some involve network calls.
	var wg sync.WaitGroup
	errs := make(chan error, len(cards))

	for i := range cards {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := cards[i].Load(); err != nil {
				errs <- fmt.Errorf("failed to load card (%s): %w", cards[i].Title, err)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(errs)
	}()

	var err error
	for e := range errs {
		err = errors.Join(err, e)
	}
	if err != nil {
		slog.Warn("failed to load some cards", "error", err)
	}

	// Sort higher priority cards first, keeping the order of equal ones.
	slices.SortStableFunc(cards, func(a, b Card) int {
		return -1 * cmp.Compare(a.Priority, b.Priority)
	})

	data.Header = &header
	for _, card := range cards {
		if card.Valid() {
			data.Cards = append(data.Cards, &card)
		}
	}
	return data
}

// WriteDashboard renders the dashboard page.
func WriteDashboard(w io.Writer, d Dashboard) error {
	return dashboardTemplate.Execute(w, d)
}

// Render generates a PNG screenshot of the dashboard page served by handler.
func Render(ctx context.Context, handler http.Handler, width, height int) ([]byte, error) {
	ts := httptest.NewServer(handler)
	defer ts.Close()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Headless,
		chromedp.DisableGPU,
	)
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	ctx, cancel = chromedp.NewContext(allocCtx)
	defer cancel()

	var buf []byte
	if err := chromedp.Run(ctx,
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate(ts.URL),
		chromedp.WaitVisible("body"),
		// Let the charts finish their animation.
		chromedp.Sleep(1*time.Second),
		chromedp.CaptureScreenshot(&buf),
	); err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}

	return buf, nil
}
