package internal

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/albertb/progressboard/internal/week"
)

func TestGetBiasedSmoothRandomValues(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	values := getBiasedSmoothRandomValues(r, 50, 30, 110)

	if len(values) != 50 {
		t.Fatalf("got %d values, want 50", len(values))
	}
	for i, v := range values {
		if v < 30 || v > 110 {
			t.Errorf("values[%d] = %d, out of [30, 110]", i, v)
		}
	}
}

func TestFakeSource(t *testing.T) {
	ctx := context.Background()
	source := NewFakeSource(testEpoch, testNow, 42)

	daily, err := source.Daily(ctx)
	if err != nil {
		t.Fatalf("Daily() error = %v", err)
	}
	if keys := daily.Keys(); len(keys) != 3 || keys[2] != "week_3" {
		t.Errorf("daily keys = %v, want week_1 to week_3", keys)
	}

	tasks, err := source.Tasks(ctx)
	if err != nil {
		t.Fatalf("Tasks() error = %v", err)
	}
	if len(tasks) != len(fakeTasks) {
		t.Errorf("got %d tasks, want %d", len(tasks), len(fakeTasks))
	}
	for name, weeks := range tasks {
		for key, tw := range weeks {
			if len(tw.Scores) != week.DaysPerWeek {
				t.Errorf("%s %s has %d scores", name, key, len(tw.Scores))
			}
			for day, v := range tw.Scores {
				if v == nil || *v < 0 {
					t.Errorf("%s %s day %d = %v", name, key, day, v)
				}
				// Scores are cumulative.
				if day > 0 && *v < *tw.Scores[day-1] {
					t.Errorf("%s %s decreases on day %d", name, key, day)
				}
			}
		}
	}

	combined, err := source.Combined(ctx)
	if err != nil {
		t.Fatalf("Combined() error = %v", err)
	}
	if len(combined.Weeks) != 3 || len(combined.GymTaskScores) != 3 || len(combined.GymMeasures) != 3 {
		t.Errorf("Combined() = %+v", combined)
	}
	if combined.Weeks[0] != "Week 1" {
		t.Errorf("first week = %q", combined.Weeks[0])
	}
}

func TestFakeSource_Deterministic(t *testing.T) {
	a, _ := NewFakeSource(testEpoch, testNow, 7).Daily(context.Background())
	b, _ := NewFakeSource(testEpoch, testNow, 7).Daily(context.Background())

	for key, wd := range a {
		if *wd.GymMeasureScore != *b[key].GymMeasureScore {
			t.Errorf("%s differs between runs with the same seed", key)
		}
	}
}

func TestFakeSource_BeforeEpoch(t *testing.T) {
	before := testEpoch.AddDate(0, 0, -30)
	daily, _ := NewFakeSource(testEpoch, before, 1).Daily(context.Background())
	if len(daily) != 1 {
		t.Errorf("got %d weeks, want 1", len(daily))
	}
}

func TestFakeSource_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFakeSource(testEpoch, testNow, 1).Tasks(ctx); err == nil {
		t.Error("Tasks() error = nil with a cancelled context")
	}
}

func TestFakeBoard(t *testing.T) {
	now := time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)
	board := NewBoard(
		NewFakeSource(testEpoch, now, 3),
		testOptions(),
		func() time.Time { return now },
		NewFakeCalendarCards(),
		NewFakeCoachCards(CoachOptions{Priority: 40}),
	)

	d, err := board.Assemble(context.Background(), "week_3")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if d.Cutoff != 5 {
		t.Errorf("Cutoff = %d, want 5 on a Saturday", d.Cutoff)
	}
	if len(d.MainCards()) != 2 {
		t.Errorf("got %d main cards, want 2", len(d.MainCards()))
	}
	if len(d.TaskCards()) != len(fakeTasks) {
		t.Errorf("got %d task cards, want %d", len(d.TaskCards()), len(fakeTasks))
	}
	var coach bool
	for _, c := range d.SideCards() {
		if c.Title == "Coach" {
			coach = true
		}
	}
	if !coach {
		t.Error("coach card missing")
	}
}
