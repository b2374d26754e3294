package internal

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/antchfx/htmlquery"

	"github.com/albertb/progressboard/internal/week"
)

const quotesPage = `<html><body>
<div class="quote"><p class="text">  Discipline is choosing what you want most. </p><span class="author">Abraham Lincoln</span></div>
<div class="quote"><p class="text">Small steps every day.</p></div>
<div class="quote"><p class="text">   </p></div>
</body></html>`

func TestFindQuotes(t *testing.T) {
	doc, err := htmlquery.Parse(strings.NewReader(quotesPage))
	if err != nil {
		t.Fatal(err)
	}

	quotes, err := findQuotes(doc, QuoteOptions{
		QuoteXPath:  `//div[@class="quote"]/p`,
		AuthorXPath: `../span[@class="author"]`,
	})
	if err != nil {
		t.Fatalf("findQuotes() error = %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("got %d quotes, want 2: %+v", len(quotes), quotes)
	}
	if quotes[0].Author != "Abraham Lincoln" || quotes[0].Text != "Discipline is choosing what you want most." {
		t.Errorf("quotes[0] = %+v", quotes[0])
	}
	if quotes[1].Author != "" {
		t.Errorf("quotes[1].Author = %q, want none", quotes[1].Author)
	}
}

func TestFindQuotes_Errors(t *testing.T) {
	doc, err := htmlquery.Parse(strings.NewReader(quotesPage))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := findQuotes(doc, QuoteOptions{QuoteXPath: `//blockquote`}); err == nil {
		t.Error("findQuotes() error = nil with no matches")
	}
	if _, err := findQuotes(doc, QuoteOptions{QuoteXPath: `//div[`}); err == nil {
		t.Error("findQuotes() error = nil for a bad XPath")
	}
}

func TestNewQuoteCards_Disabled(t *testing.T) {
	if cards := NewQuoteCards(QuoteOptions{})(WeekView{}); len(cards) != 0 {
		t.Errorf("got %d cards without a page URL", len(cards))
	}
}

func TestQuoteCards_RetryAfterFailure(t *testing.T) {
	calls := 0
	source := makeQuoteCards(func() ([]quote, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection reset")
		}
		return []quote{{Text: "Keep going.", Author: "Anon"}}, nil
	})

	first := source(WeekView{})[0]
	if err := first.Load(); err == nil {
		t.Fatal("Load() error = nil for a failed fetch")
	}
	if first.Valid() {
		t.Error("card is valid after a failed fetch")
	}

	second := source(WeekView{})[0]
	if err := second.Load(); err != nil {
		t.Fatalf("Load() error = %v after a failed fetch", err)
	}
	if string(second.Body) != "Keep going." || string(second.Footer) != "Anon" {
		t.Errorf("card = %q by %q", second.Body, second.Footer)
	}

	third := source(WeekView{})[0]
	if err := third.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("fetched %d times, want 2", calls)
	}
}

func testView() WeekView {
	return WeekView{
		Key:    "week_3",
		Number: 3,
		Start:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Cutoff: 2,
		Daily: &DailyWeek{
			GymScores:            []*float64{ptr(10), ptr(20), ptr(30), nil, nil, nil, nil},
			BusinessScores:       []*float64{ptr(5), nil, ptr(15), nil, nil, nil, nil},
			BusinessMeasureScore: ptr(40),
		},
	}
}

func TestDescribeWeek(t *testing.T) {
	got := describeWeek(testView())

	for _, want := range []string{
		"Week 3, days shown: 3 of 7.",
		"Gym task score by day: 10% 20% 30%\n",
		"Business task score by day: 5% - 15%\n",
		"Business measure: 40%",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("describeWeek() = %q, want it to contain %q", got, want)
		}
	}
	if strings.Contains(got, "Gym measure") {
		t.Errorf("describeWeek() = %q, mentions a hidden measure", got)
	}
}

func TestCoachCards(t *testing.T) {
	if cards := NewCoachCards(CoachOptions{Prompt: "hi"})(testView()); len(cards) != 0 {
		t.Error("coach card created without an API key")
	}

	source := NewFakeCoachCards(CoachOptions{Priority: 40})
	if cards := source(WeekView{Key: "week_1", Number: 1}); len(cards) != 0 {
		t.Error("coach card created for a week without daily data")
	}

	cards := source(testView())
	if len(cards) != 1 {
		t.Fatalf("got %d cards, want 1", len(cards))
	}
	c := cards[0]
	if err := c.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !c.Valid() || !strings.Contains(string(c.Body), "4 days left in Week 3") {
		t.Errorf("Body = %q", c.Body)
	}
	if c.Priority != 40 || c.Group != CardGroupSide {
		t.Errorf("card = %+v", c)
	}
}

func TestCalendarCards(t *testing.T) {
	var gotStart, gotEnd time.Time
	source := makeCalendarCards(func(start, end time.Time) ([]event, error) {
		gotStart, gotEnd = start, end
		return []event{
			{Summary: "Gym", Time: start.Add(18 * time.Hour)},
		}, nil
	})

	view := testView()
	cards := source(view)
	if len(cards) != 1 {
		t.Fatalf("got %d cards, want 1", len(cards))
	}
	c := cards[0]
	if err := c.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !gotStart.Equal(view.Start) || !gotEnd.Equal(view.Start.AddDate(0, 0, 7)) {
		t.Errorf("fetched %v to %v, want the week of %v", gotStart, gotEnd, view.Start)
	}
	if len(c.Items) != 1 || !strings.HasSuffix(c.Items[0], " Gym") {
		t.Errorf("Items = %v", c.Items)
	}
}

func TestEventString(t *testing.T) {
	monday := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)

	allDay := event{Summary: "Holiday", Time: monday, AllDay: true}
	if got := allDay.String(); got != "Mon Holiday" {
		t.Errorf("String() = %q, want %q", got, "Mon Holiday")
	}

	timed := event{Summary: "Demo", Time: monday.Add(10*time.Hour + 30*time.Minute)}
	if got := timed.String(); got != "Mon 10:30 Demo" {
		t.Errorf("String() = %q, want %q", got, "Mon 10:30 Demo")
	}
}

func TestNewHeader(t *testing.T) {
	pass := week.Pass{At: testNow, Week: 3, Day: 2}

	tests := []struct {
		name string
		view WeekView
		want string
	}{
		{"no week", WeekView{}, "Week 3, day 3 of 7"},
		{"current week", testView(), "Week 3, day 3 of 7"},
		{"past week", WeekView{
			Key:    "week_1",
			Number: 1,
			Start:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Cutoff: 6,
		}, "Week 1, from Jan 1 to Jan 7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHeader(pass, tt.view)
			if string(h.Subtitle) != tt.want {
				t.Errorf("Subtitle = %q, want %q", h.Subtitle, tt.want)
			}
			if h.Title != "Wednesday, January 17" {
				t.Errorf("Title = %q", h.Title)
			}
		})
	}
}
