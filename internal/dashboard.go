package internal

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/albertb/progressboard/internal/week"
)

// DashboardOptions holds options for assembling the dashboard.
type DashboardOptions struct {
	Epoch       time.Time
	DefaultWeek string
	GymKeywords []string
	Overview    ChartOptions
	Daily       ChartOptions
	Task        ChartOptions
}

func (c Config) GetDashboardOptions() DashboardOptions {
	overview := c.Dashboard.Overview.ToChartOptions()
	overview.Legend = true
	daily := c.Dashboard.Daily.ToChartOptions()
	daily.Legend = true
	task := c.Dashboard.Task.ToChartOptions()
	task.Small = true
	return DashboardOptions{
		Epoch:       c.Epoch.Time,
		DefaultWeek: c.Dashboard.DefaultWeek,
		GymKeywords: c.Dashboard.GymKeywords,
		Overview:    overview,
		Daily:       daily,
		Task:        task,
	}
}

// WeekLink is one entry of the week selector.
type WeekLink struct {
	Label  string `json:"label"`
	Key    string `json:"key"`
	Active bool   `json:"active"`
}

// WeekView describes the selected week to the cards that depend on it.
type WeekView struct {
	Key    string
	Number int
	Start  time.Time // Midnight of the week's Monday.
	Cutoff int
	Pass   week.Pass
	Daily  *DailyWeek // Already truncated; nil when the week has no daily data.
}

// End returns the instant the week is over.
func (v WeekView) End() time.Time {
	return v.Start.AddDate(0, 0, week.DaysPerWeek)
}

// CardSource makes the extra cards shown next to the selected week.
type CardSource func(view WeekView) []Card

// Dashboard is everything one render pass puts on screen.
type Dashboard struct {
	Header   Header     `json:"header"`
	Weeks    []WeekLink `json:"weeks"`
	Selected string     `json:"selected"`
	Cutoff   int        `json:"cutoff"`
	Cards    []*Card    `json:"cards"`
}

func (d Dashboard) MainCards() []*Card { return d.group(CardGroupMain) }
func (d Dashboard) TaskCards() []*Card { return d.group(CardGroupTasks) }
func (d Dashboard) SideCards() []*Card { return d.group(CardGroupSide) }

// group returns the cards of a page section, in display order.
func (d Dashboard) group(group CardGroup) []*Card {
	var cards []*Card
	for _, c := range d.Cards {
		if c.Group == group {
			cards = append(cards, c)
		}
	}
	return cards
}

// Board assembles dashboards from a Source.
type Board struct {
	source  Source
	clock   week.Clock
	options DashboardOptions
	extras  []CardSource
}

// NewBoard creates a Board reading from source. The clock's epoch comes from the options.
func NewBoard(source Source, options DashboardOptions, now func() time.Time, extras ...CardSource) *Board {
	return &Board{
		source:  source,
		clock:   week.Clock{Epoch: options.Epoch, Now: now},
		options: options,
		extras:  extras,
	}
}

// Assemble builds the dashboard for the requested week key.
// An empty or unknown key falls back to the default week.
func (b *Board) Assemble(ctx context.Context, requested string) (Dashboard, error) {
	snap := loadSnapshot(ctx, b.source)
	if err := ctx.Err(); err != nil {
		return Dashboard{}, err
	}
	pass := b.clock.Begin()
	cutoffs := newCutoffs(pass, snap.weekNumbers())

	keys := snap.weekKeys()
	selected := selectWeek(keys, requested, b.options.DefaultWeek)

	var cards []Card
	if snap.Combined != nil {
		cards = append(cards, Card{
			ID:       "overview",
			Title:    "Weekly progress",
			Type:     CardTypeChart,
			Group:    CardGroupMain,
			Priority: 100,
			Chart:    overviewChart(*snap.Combined, cutoffs, b.options.Overview),
		})
	}

	view := b.view(selected, cutoffs, snap.Daily)
	if view.Daily != nil {
		cards = append(cards, Card{
			ID:       "daily",
			Title:    template.HTML(fmt.Sprintf("Daily progress, %s", week.Label(view.Number))),
			Type:     CardTypeChart,
			Group:    CardGroupMain,
			Priority: 90,
			Chart:    dailyChart(*view.Daily, b.options.Daily),
		})
	}

	if snap.Tasks != nil {
		cards = append(cards, taskCards(snap.Tasks, selected, view.Cutoff, b.options)...)
	}

	if selected != "" {
		for _, extra := range b.extras {
			cards = append(cards, extra(view)...)
		}
	}

	data := assembleData(newHeader(pass, view), cards)
	return Dashboard{
		Header:   *data.Header,
		Weeks:    weekLinks(keys, selected),
		Selected: selected,
		Cutoff:   view.Cutoff,
		Cards:    data.Cards,
	}, nil
}

// weekCutoffs resolves the cutoff of every week of a render pass against one latest week.
type weekCutoffs struct {
	pass      week.Pass
	latest    int
	hasLatest bool
}

// newCutoffs takes the latest week from the week numbers of every data set.
func newCutoffs(pass week.Pass, numbers []int) weekCutoffs {
	latest, ok := week.Latest(numbers)
	return weekCutoffs{pass: pass, latest: latest, hasLatest: ok}
}

// of returns the cutoff of week n.
func (c weekCutoffs) of(n int) int {
	return c.pass.Cutoff(c.hasLatest && n == c.latest)
}

// view resolves the selected week and truncates its daily data.
func (b *Board) view(key string, cutoffs weekCutoffs, daily DailyData) WeekView {
	view := WeekView{
		Key:    key,
		Cutoff: week.LastDay,
		Pass:   cutoffs.pass,
	}
	n, ok := week.ParseKey(key)
	if !ok {
		return view
	}
	view.Number = n
	view.Start = week.Start(b.options.Epoch, n)
	view.Cutoff = cutoffs.of(n)
	if wd, ok := daily[key]; ok {
		truncated := truncateDaily(wd, view.Cutoff)
		view.Daily = &truncated
	}
	return view
}

// weekLinks lists the weeks for the selector, marking the selected one.
func weekLinks(keys []string, selected string) []WeekLink {
	var links []WeekLink
	for _, key := range keys {
		n, ok := week.ParseKey(key)
		if !ok {
			continue
		}
		links = append(links, WeekLink{
			Label:  week.Label(n),
			Key:    key,
			Active: key == selected,
		})
	}
	return links
}

// selectWeek returns requested if it's a known week, or the default otherwise.
func selectWeek(keys []string, requested, defaultWeek string) string {
	var known []string
	for _, key := range keys {
		if _, ok := week.ParseKey(key); ok {
			known = append(known, key)
		}
	}
	if slices.Contains(known, requested) {
		return requested
	}
	if len(known) == 0 {
		return ""
	}
	if defaultWeek == DefaultWeekLatest {
		return known[len(known)-1]
	}
	return known[0]
}

// overviewChart plots one point per week. The latest week's measures stay hidden until its Sunday.
func overviewChart(data CombinedData, cutoffs weekCutoffs, options ChartOptions) Chart {
	measures := func(measures []WeekMeasure) []*float64 {
		bars := make([]*float64, len(data.Weeks))
		for _, m := range measures {
			i := slices.Index(data.Weeks, m.Week)
			if i < 0 {
				continue
			}
			score := m.Score
			cutoff := week.LastDay
			if n, ok := week.ParseLabel(m.Week); ok {
				cutoff = cutoffs.of(n)
			}
			bars[i] = week.GateMarker(&score, cutoff)
		}
		return bars
	}

	business := lineDataset("Business Task Score", businessPalette, alignScores(data.BusinessTaskScores, len(data.Weeks)))
	business.Square = true

	return Chart{
		Labels: data.Weeks,
		Datasets: appendNonEmpty(nil,
			lineDataset("Gym Task Score", gymPalette, alignScores(data.GymTaskScores, len(data.Weeks))),
			business,
			barDataset("Gym Measure Score", gymPalette, measures(data.GymMeasures)),
			barDataset("Business Measure Score", businessPalette, measures(data.BusinessMeasures)),
		),
		Options: options,
	}
}

// alignScores pads or cuts scores to n points.
func alignScores(scores []*float64, n int) []*float64 {
	aligned := make([]*float64, n)
	copy(aligned, scores)
	return aligned
}

// truncateDaily hides the days of a week past the cutoff, along with its measures.
func truncateDaily(wd DailyWeek, cutoff int) DailyWeek {
	wd.Days = dayLabels(wd.Days)
	wd.GymScores = week.Truncate(wd.GymScores, cutoff)
	wd.BusinessScores = week.Truncate(wd.BusinessScores, cutoff)
	wd.GymMeasureScore = week.GateMarker(wd.GymMeasureScore, cutoff)
	wd.BusinessMeasureScore = week.GateMarker(wd.BusinessMeasureScore, cutoff)
	return wd
}

// dailyChart plots a week that went through truncateDaily, with the measures as bars on Sunday.
func dailyChart(wd DailyWeek, options ChartOptions) Chart {
	sunday := func(score *float64) []*float64 {
		bars := make([]*float64, week.DaysPerWeek)
		bars[week.LastDay] = score
		return bars
	}

	business := lineDataset("Business Task Score", businessPalette, wd.BusinessScores)
	business.Square = true

	return Chart{
		Labels: dayLabels(wd.Days),
		Datasets: appendNonEmpty(nil,
			lineDataset("Gym Task Score", gymPalette, wd.GymScores),
			business,
			barDataset("Gym Measure Score", gymPalette, sunday(wd.GymMeasureScore)),
			barDataset("Business Measure Score", businessPalette, sunday(wd.BusinessMeasureScore)),
		),
		Options: options,
	}
}

// taskCards makes one small chart per task that has data for the selected week.
func taskCards(data TasksData, key string, cutoff int, options DashboardOptions) []Card {
	var cards []Card
	for _, name := range data.Names() {
		tw, ok := data[name][key]
		if !ok {
			continue
		}
		cards = append(cards, Card{
			ID:       "task-" + taskID(name),
			Title:    template.HTML(template.HTMLEscapeString(name)),
			Footer:   template.HTML(template.HTMLEscapeString("Goal: " + tw.Frequency)),
			Type:     CardTypeChart,
			Group:    CardGroupTasks,
			Priority: 10,
			Chart:    taskChart(name, tw, cutoff, options),
		})
	}
	return cards
}

func taskChart(name string, tw TaskWeek, cutoff int, options DashboardOptions) Chart {
	p := businessPalette
	if isGymTask(name, options.GymKeywords) {
		p = gymPalette
	}

	days := dayLabels(tw.Days)
	goal := make([]*float64, len(days))
	for i := range goal {
		v := 100.0
		goal[i] = &v
	}

	return Chart{
		Labels: days,
		Datasets: []Dataset{
			lineDataset("Progress", p, week.Truncate(tw.Scores, cutoff)),
			{Label: "Goal", Kind: DatasetLine, Data: goal, Color: goalColor, Dashed: true, Hidden: true},
		},
		Options: options.Task,
	}
}

func isGymTask(name string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(name, k) {
			return true
		}
	}
	return false
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

func taskID(name string) string {
	return nonAlphanumeric.ReplaceAllString(name, "-")
}

// ChartKind names a chart that can be drawn on its own.
type ChartKind string

const (
	ChartOverview ChartKind = "overview"
	ChartDaily    ChartKind = "daily"
)

// ErrUnknownChart is returned for a ChartKind that doesn't exist.
var ErrUnknownChart = errors.New("unknown chart")

// Chart builds a single chart, e.g. to export it as an image. The week is ignored by the overview.
// Cutoffs are resolved the same way as in Assemble, against every data set.
func (b *Board) Chart(ctx context.Context, kind ChartKind, requested string) (Chart, error) {
	var chart Chart
	if kind != ChartOverview && kind != ChartDaily {
		return chart, fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}

	snap := loadSnapshot(ctx, b.source)
	if err := ctx.Err(); err != nil {
		return chart, err
	}
	cutoffs := newCutoffs(b.clock.Begin(), snap.weekNumbers())

	switch kind {
	case ChartOverview:
		if snap.Combined == nil {
			return chart, ErrNoData
		}
		chart = overviewChart(*snap.Combined, cutoffs, b.options.Overview)

	case ChartDaily:
		selected := selectWeek(snap.Daily.Keys(), requested, b.options.DefaultWeek)
		view := b.view(selected, cutoffs, snap.Daily)
		if view.Daily == nil {
			return chart, ErrNoData
		}
		chart = dailyChart(*view.Daily, b.options.Daily)
	}

	if !chart.Valid() {
		return chart, ErrNoData
	}
	return chart, nil
}
