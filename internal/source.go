package internal

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/prongbang/callx"
)

// Names of the files produced by the upstream exporter.
const (
	CombinedFile = "combined-chart-data.json"
	DailyFile    = "daily-charts-data.json"
	TasksFile    = "individual-tasks-data.json"
)

// Seconds to wait for the upstream data.
const fetchTimeout = 10

// ErrNoData is returned when a data set holds nothing to draw.
var ErrNoData = errors.New("no data")

// Source provides the upstream score data sets.
type Source interface {
	Combined(ctx context.Context) (CombinedData, error)
	Daily(ctx context.Context) (DailyData, error)
	Tasks(ctx context.Context) (TasksData, error)
}

// SourceOptions holds options for reading the upstream data.
type SourceOptions struct {
	URL string // Base URL the JSON files are served under.
	Dir string // Local directory holding the JSON files; used when URL is empty.
}

func (c Config) GetSourceOptions() SourceOptions {
	return SourceOptions{
		URL: c.Data.URL,
		Dir: c.Data.Dir,
	}
}

// NewSource returns the Source described by the options.
func NewSource(options SourceOptions) Source {
	if options.URL != "" {
		return NewHTTPSource(options.URL)
	}
	return DirSource{Dir: options.Dir}
}

// HTTPSource fetches the data files relative to a base URL.
// callx requests can't be cancelled: a cancelled ctx is only noticed before and after
// each request, which may still take up to the fetch timeout.
type HTTPSource struct {
	config callx.Config
	prefix string
}

// NewHTTPSource creates an HTTPSource for the given base URL.
func NewHTTPSource(base string) *HTTPSource {
	prefix := "/"
	if u, err := url.Parse(base); err == nil && u.Host != "" {
		// callx appends request paths to the bare host, so keep the path for ourselves.
		base = u.Scheme + "://" + u.Host
		prefix = strings.TrimSuffix(u.Path, "/") + "/"
	}
	return &HTTPSource{
		config: callx.Config{
			BaseURL: base,
			Timeout: fetchTimeout,
		},
		prefix: prefix,
	}
}

func (s *HTTPSource) fetch(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	client := callx.New(s.config)
	path := s.prefix + name
	resp := client.Get(path)
	if err := ctx.Err(); err != nil {
		return err
	}
	if resp.Code != 200 {
		return fmt.Errorf("failed to get %s: status %d: %s", path, resp.Code, string(resp.Data))
	}
	if err := json.Unmarshal(resp.Data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func (s *HTTPSource) Combined(ctx context.Context) (CombinedData, error) {
	var data CombinedData
	err := s.fetch(ctx, CombinedFile, &data)
	return data, err
}

func (s *HTTPSource) Daily(ctx context.Context) (DailyData, error) {
	var data DailyData
	err := s.fetch(ctx, DailyFile, &data)
	return data, err
}

func (s *HTTPSource) Tasks(ctx context.Context) (TasksData, error) {
	var data TasksData
	err := s.fetch(ctx, TasksFile, &data)
	return data, err
}

// DirSource reads the data files from a local directory.
type DirSource struct {
	Dir string
}

func (s DirSource) read(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(s.Dir, name)
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(buf, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func (s DirSource) Combined(ctx context.Context) (CombinedData, error) {
	var data CombinedData
	err := s.read(ctx, CombinedFile, &data)
	return data, err
}

func (s DirSource) Daily(ctx context.Context) (DailyData, error) {
	var data DailyData
	err := s.read(ctx, DailyFile, &data)
	return data, err
}

func (s DirSource) Tasks(ctx context.Context) (TasksData, error) {
	var data TasksData
	err := s.read(ctx, TasksFile, &data)
	return data, err
}
