package internal

import (
	"fmt"
	"html/template"

	"github.com/albertb/progressboard/internal/week"
)

// Header holds information for the header section of the dashboard.
type Header struct {
	Title    template.HTML `json:"title"`
	Subtitle template.HTML `json:"subtitle"`

	CurrentWeek int `json:"currentWeek"`
	CurrentDay  int `json:"currentDay"`
}

func newHeader(pass week.Pass, view WeekView) Header {
	h := Header{
		Title:       template.HTML(pass.At.Format("Monday, January 2")),
		CurrentWeek: pass.Week,
		CurrentDay:  pass.Day,
	}

	switch {
	case view.Key == "":
		h.Subtitle = template.HTML(fmt.Sprintf("%s, day %d of 7", week.Label(pass.Week), pass.Day+1))
	case view.Cutoff < week.LastDay:
		// The selected week is still in progress.
		h.Subtitle = template.HTML(fmt.Sprintf("%s, day %d of 7", week.Label(view.Number), view.Cutoff+1))
	default:
		h.Subtitle = template.HTML(fmt.Sprintf("%s, from %s to %s", week.Label(view.Number),
			view.Start.Format("Jan 2"), view.End().AddDate(0, 0, -1).Format("Jan 2")))
	}
	return h
}
