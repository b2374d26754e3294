package internal

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"time"

	"go.yaml.in/yaml/v4"
)

// Config holds the configuration for the application, parsed from a YAML file.
type Config struct {
	Epoch     Date       `yaml:"epoch"`
	Data      Data       `yaml:"data"`
	Dashboard Dashboard  `yaml:"dashboard"`
	Calendars []Calendar `yaml:"calendars"`
	Coach     Coach      `yaml:"coach"`
	Quote     Quote      `yaml:"quote"`
	Render    Render     `yaml:"render"`
}

type Data struct {
	URL string `yaml:"url"` // Base URL serving the exported JSON files.
	Dir string `yaml:"dir"` // Directory holding the exported JSON files.
}

type Dashboard struct {
	DefaultWeek string      `yaml:"default_week"` // "first" or "latest".
	GymKeywords []string    `yaml:"gym_keywords"` // Task names containing one of these are gym tasks.
	Overview    ChartConfig `yaml:"overview"`
	Daily       ChartConfig `yaml:"daily"`
	Task        ChartConfig `yaml:"task"`
}

type ChartConfig struct {
	Top  int `yaml:"top"`  // The top of the y-axis, in percent.
	Step int `yaml:"step"` // The distance between y-axis ticks.
}

type Calendar struct {
	URL             string `yaml:"url"`
	AttendeesRegExp string `yaml:"attendees_regexp"`
}

type Coach struct {
	OpenAIAPIKey string `yaml:"open_ai_api_key"`
	Prompt       string `yaml:"prompt"`
	Priority     int    `yaml:"priority"`
}

type Quote struct {
	PageURL     string `yaml:"page_url"`
	QuoteXPath  string `yaml:"quote_xpath"`
	AuthorXPath string `yaml:"author_xpath"`
}

type Render struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Date is a calendar date written as YYYY-MM-DD, in the local time zone.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = parsed
	return nil
}

func (d Date) MarshalYAML() (any, error) {
	return d.Format(dateLayout), nil
}

const (
	DefaultWeekFirst  = "first"
	DefaultWeekLatest = "latest"
)

func defaultConfig() Config {
	return Config{
		// Monday of the first tracked week.
		Epoch: Date{time.Date(2025, 10, 27, 0, 0, 0, 0, time.Local)},
		Dashboard: Dashboard{
			DefaultWeek: DefaultWeekFirst,
			GymKeywords: []string{"Workout", "Nutrition"},
			Overview:    ChartConfig{Top: 110, Step: 20},
			Daily:       ChartConfig{Top: 110, Step: 20},
			Task:        ChartConfig{Top: 100, Step: 25},
		},
		Coach: Coach{
			Priority: 40,
		},
		Render: Render{
			Width:  1280,
			Height: 720,
		},
	}
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	config := defaultConfig()
	applyEnv(&config)
	return config
}

func ReadConfig(reader io.Reader) (Config, error) {
	config := defaultConfig()
	if err := yaml.NewDecoder(reader).Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, err
	}
	applyEnv(&config)
	if err := config.validate(); err != nil {
		return config, err
	}
	return config, nil
}

// ReadConfigFile reads the config at path. A missing file yields the defaults.
func ReadConfigFile(path string) (Config, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, err
	}
	defer file.Close()
	return ReadConfig(file)
}

// Environment variables win over the file, so secrets can live in .env.
func applyEnv(c *Config) {
	if v, ok := os.LookupEnv("OPENAI_API_KEY"); ok && v != "" {
		c.Coach.OpenAIAPIKey = v
	}
	if v, ok := os.LookupEnv("PROGRESSBOARD_DATA_URL"); ok && v != "" {
		c.Data.URL = v
	}
	if v, ok := os.LookupEnv("PROGRESSBOARD_DATA_DIR"); ok && v != "" {
		c.Data.Dir = v
	}
}

func (c Config) validate() error {
	var errs []error
	if c.Epoch.IsZero() {
		errs = append(errs, errors.New("epoch is required"))
	}
	switch c.Dashboard.DefaultWeek {
	case DefaultWeekFirst, DefaultWeekLatest:
	default:
		errs = append(errs, fmt.Errorf("dashboard.default_week must be %q or %q, got %q",
			DefaultWeekFirst, DefaultWeekLatest, c.Dashboard.DefaultWeek))
	}
	for name, chart := range map[string]ChartConfig{
		"overview": c.Dashboard.Overview,
		"daily":    c.Dashboard.Daily,
		"task":     c.Dashboard.Task,
	} {
		if chart.Top <= 0 || chart.Step <= 0 {
			errs = append(errs, fmt.Errorf("dashboard.%s: top and step must be positive", name))
		}
	}
	for _, cal := range c.Calendars {
		if _, err := regexp.Compile(cal.AttendeesRegExp); err != nil {
			errs = append(errs, fmt.Errorf("calendar %s: %w", cal.URL, err))
		}
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, errors.New("render: width and height must be positive"))
	}
	return errors.Join(errs...)
}

// HasSource reports whether the config points at some upstream data.
func (c Config) HasSource() bool {
	return c.Data.URL != "" || c.Data.Dir != ""
}
