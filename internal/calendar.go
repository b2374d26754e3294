package internal

import (
	"cmp"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"regexp"
	"slices"
	"time"

	"github.com/apognu/gocal"
)

// CalendarOptions holds options for creating calendar Cards.
// Attendees can be nil to disable filtering.
type CalendarOptions struct {
	URL       string
	Attendees *regexp.Regexp
}

func (c Config) GetCalendarOptions() ([]CalendarOptions, error) {
	var calendars []CalendarOptions
	for _, cal := range c.Calendars {
		var filter *regexp.Regexp
		if len(cal.AttendeesRegExp) != 0 {
			var err error
			filter, err = regexp.Compile(cal.AttendeesRegExp)
			if err != nil {
				return calendars, fmt.Errorf("failed to compile regex: %w", err)
			}

		}
		calendars = append(calendars, CalendarOptions{URL: cal.URL, Attendees: filter})
	}
	return calendars, nil
}

// MatchesFilter returns true if the event matches the attendees filter, or if no filter is set.
func (c CalendarOptions) MatchesFilter(event gocal.Event) bool {
	if c.Attendees == nil {
		return true
	}
	for _, a := range event.Attendees {
		// Try to match either the name, or contact for each attendee.
		if c.Attendees.MatchString(a.Cn) || c.Attendees.MatchString(a.Value) {
			return true
		}
	}
	return false
}

// NewCalendarCards lists the events of the selected week from the given calendars.
func NewCalendarCards(options []CalendarOptions) CardSource {
	if len(options) == 0 {
		return func(WeekView) []Card { return nil }
	}
	return makeCalendarCards(func(start, end time.Time) ([]event, error) {
		return fetchCalendars(options, start, end)
	})
}

// NewFakeCalendarCards lists made up events for testing purposes.
func NewFakeCalendarCards() CardSource {
	return makeCalendarCards(func(start, end time.Time) ([]event, error) {
		var events []event
		for _, e := range []event{
			{Summary: "Gym: leg day", Time: start.Add(18 * time.Hour)},
			{Summary: "Project demo", Time: start.AddDate(0, 0, 2).Add(10*time.Hour + 30*time.Minute)},
			{Summary: "Weekly review", Time: start.AddDate(0, 0, 6).Add(19 * time.Hour)},
			{Summary: "Travel day", Time: start.AddDate(0, 0, 4)},
		} {
			if rand.Float32() > 0.4 {
				events = append(events, e)
			}
		}
		return events, nil
	})
}

type event struct {
	Summary string
	Time    time.Time
	AllDay  bool
}

func fetchCalendars(options []CalendarOptions, start, end time.Time) ([]event, error) {
	var events []event

	for _, c := range options {
		err := func() error {
			resp, err := http.Get(c.URL)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			// To catch all-day events, let them start one second before the week.
			from := start.Add(-1 * time.Second)
			to := end

			cal := gocal.NewParser(resp.Body)
			cal.AllDayEventsTZ = start.Location()
			cal.Start, cal.End = &from, &to

			if err := cal.Parse(); err != nil {
				return err
			}

			for _, e := range cal.Events {
				// Ignore all-day events from the previous week.
				if e.Start.Before(start) {
					continue
				}
				if !c.MatchesFilter(e) {
					slog.Debug("skipping calendar event, doesn't match filter", "summary", e.Summary)
					continue
				}
				events = append(events, event{
					Summary: e.Summary,
					Time:    *e.Start,
					AllDay:  e.Start.Hour() == 0 && e.Start.Minute() == 0,
				})
			}
			return nil
		}()
		if err != nil {
			return events, fmt.Errorf("failed to read calendar %s: %w", c.URL, err)
		}
	}

	// Sort the events from all the calendars.
	slices.SortFunc(events, func(a, b event) int {
		return cmp.Compare(a.Time.Unix(), b.Time.Unix())
	})
	return events, nil
}

func (e event) String() string {
	when := e.Time.Local().Format("Mon")
	// All-day events don't have a time, so will just show the day.
	if !e.AllDay && (e.Time.Hour() > 0 || e.Time.Minute() > 0) {
		when = e.Time.Local().Format("Mon 15:04")
	}
	return when + " " + e.Summary
}

func makeCalendarCards(getEvents func(start, end time.Time) ([]event, error)) CardSource {
	return func(view WeekView) []Card {
		return []Card{
			{
				Title:    "This week",
				Type:     CardTypeList,
				Group:    CardGroupSide,
				Priority: 50,
				loader: func(c *Card) error {
					events, err := getEvents(view.Start, view.End())
					if err != nil {
						return err
					}

					c.Items = []string{}
					for _, e := range events {
						c.Items = append(c.Items, e.String())
					}
					return nil
				},
			},
		}
	}
}
