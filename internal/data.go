package internal

import (
	"maps"
	"slices"

	"github.com/albertb/progressboard/internal/week"
)

// CombinedData is the multi-week overview: one task score per week and category,
// plus the weekly measures.
type CombinedData struct {
	Weeks              []string      `json:"weeks"`
	GymTaskScores      []*float64    `json:"gymTaskScores"`
	BusinessTaskScores []*float64    `json:"businessTaskScores"`
	GymMeasures        []WeekMeasure `json:"gymMeasures"`
	BusinessMeasures   []WeekMeasure `json:"businessMeasures"`
}

// WeekMeasure is a weekly measure score attached to a "Week <n>" label.
type WeekMeasure struct {
	Week  string  `json:"week"`
	Score float64 `json:"score"`
}

// DailyWeek holds the cumulative daily category scores of one week.
type DailyWeek struct {
	WeekNumber           int        `json:"weekNumber"`
	Days                 []string   `json:"days"`
	GymScores            []*float64 `json:"gymScores"`
	BusinessScores       []*float64 `json:"businessScores"`
	GymMeasureScore      *float64   `json:"gymMeasureScore"`
	BusinessMeasureScore *float64   `json:"businessMeasureScore"`
}

// DailyData maps "week_<n>" keys to their daily scores.
type DailyData map[string]DailyWeek

// Keys returns the week keys in week order.
func (d DailyData) Keys() []string {
	return week.SortKeys(slices.Collect(maps.Keys(d)))
}

// TaskWeek holds the cumulative daily scores of a single task for one week.
type TaskWeek struct {
	WeekNumber int        `json:"weekNumber"`
	Days       []string   `json:"days"`
	Scores     []*float64 `json:"scores"`
	Goal       int        `json:"goal"`
	Frequency  string     `json:"frequency"`
}

// TasksData maps task names to their weeks, keyed by "week_<n>".
type TasksData map[string]map[string]TaskWeek

// Names returns the task names, sorted.
func (t TasksData) Names() []string {
	return slices.Sorted(maps.Keys(t))
}

// Keys returns every week key known to any task, in week order.
func (t TasksData) Keys() []string {
	var keys []string
	for _, weeks := range t {
		keys = slices.AppendSeq(keys, maps.Keys(weeks))
	}
	return week.SortKeys(keys)
}

var defaultDays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// dayLabels returns the labels to use for a week's x-axis.
func dayLabels(days []string) []string {
	if len(days) == week.DaysPerWeek {
		return days
	}
	return defaultDays
}
