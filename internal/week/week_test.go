package week

import (
	"slices"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func score(v float64) *float64 {
	return &v
}

func values(series []*float64) []any {
	out := make([]any, len(series))
	for i, v := range series {
		if v != nil {
			out[i] = *v
		}
	}
	return out
}

func TestDayIndex(t *testing.T) {
	tests := []struct {
		day  time.Time
		want int
	}{
		{date(2024, 1, 1), 0}, // Monday
		{date(2024, 1, 2), 1},
		{date(2024, 1, 3), 2},
		{date(2024, 1, 4), 3},
		{date(2024, 1, 5), 4},
		{date(2024, 1, 6), 5},
		{date(2024, 1, 7), 6}, // Sunday
	}

	seen := map[int]bool{}
	for _, tt := range tests {
		got := DayIndex(tt.day)
		if got != tt.want {
			t.Errorf("DayIndex(%s) = %d, want %d", tt.day.Weekday(), got, tt.want)
		}
		seen[got] = true
	}
	if len(seen) != DaysPerWeek {
		t.Errorf("DayIndex covered %d indexes, want %d", len(seen), DaysPerWeek)
	}
}

func TestMondayOf(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday", date(2024, 1, 8), date(2024, 1, 8)},
		{"wednesday afternoon", time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC), date(2024, 1, 8)},
		{"sunday", date(2024, 1, 14), date(2024, 1, 8)},
		{"across month", date(2024, 3, 2), date(2024, 2, 26)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MondayOf(tt.in); !got.Equal(tt.want) {
				t.Errorf("MondayOf(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNumber(t *testing.T) {
	epoch := date(2024, 1, 1)
	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"epoch", epoch, 1},
		{"epoch sunday", date(2024, 1, 7), 1},
		{"second monday", date(2024, 1, 8), 2},
		{"wednesday week 2", date(2024, 1, 10), 2},
		{"next year", date(2025, 1, 1), 53},
		{"week before epoch", date(2023, 12, 31), 0},
		{"two weeks before epoch", date(2023, 12, 20), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Number(epoch, tt.now); got != tt.want {
				t.Errorf("Number() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNumberAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/Montreal")
	if err != nil {
		t.Skip("timezone database not available:", err)
	}
	epoch := time.Date(2025, 10, 27, 0, 0, 0, 0, loc)
	// Clocks go back on November 2nd, 2025.
	now := time.Date(2025, 11, 3, 0, 30, 0, 0, loc)
	if got := Number(epoch, now); got != 2 {
		t.Errorf("Number() = %d, want 2", got)
	}
}

func TestStart(t *testing.T) {
	epoch := date(2025, 10, 27)
	if got := Start(epoch, 1); !got.Equal(epoch) {
		t.Errorf("Start(1) = %v, want %v", got, epoch)
	}
	if got, want := Start(epoch, 3), date(2025, 11, 10); !got.Equal(want) {
		t.Errorf("Start(3) = %v, want %v", got, want)
	}
}

func TestClockNow(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		wantWeek int
		wantDay  int
	}{
		{"wednesday of week 2", date(2024, 1, 10), 2, 2},
		{"sunday of week 1", date(2024, 1, 7), 1, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := Clock{Epoch: date(2024, 1, 1), Now: func() time.Time { return tt.now }}
			week, day := clock.Now()
			if week != tt.wantWeek || day != tt.wantDay {
				t.Errorf("Now() = (%d, %d), want (%d, %d)", week, day, tt.wantWeek, tt.wantDay)
			}
		})
	}
}

func TestPassIsStable(t *testing.T) {
	now := date(2024, 1, 10)
	clock := Clock{Epoch: date(2024, 1, 1), Now: func() time.Time {
		now = now.Add(24 * time.Hour)
		return now
	}}

	pass := clock.Begin()
	first := pass.Cutoff(true)
	for range 3 {
		if got := pass.Cutoff(true); got != first {
			t.Fatalf("Cutoff(true) drifted from %d to %d", first, got)
		}
	}
	if first != pass.Day {
		t.Errorf("Cutoff(true) = %d, want today's index %d", first, pass.Day)
	}
}

func TestResolveCutoff(t *testing.T) {
	for today := 0; today < DaysPerWeek; today++ {
		if got := ResolveCutoff(false, today); got != LastDay {
			t.Errorf("ResolveCutoff(false, %d) = %d, want %d", today, got, LastDay)
		}
		if got := ResolveCutoff(true, today); got != today {
			t.Errorf("ResolveCutoff(true, %d) = %d, want %d", today, got, today)
		}
	}
	if got := ResolveCutoff(true, -3); got != 0 {
		t.Errorf("ResolveCutoff(true, -3) = %d, want 0", got)
	}
	if got := ResolveCutoff(true, 12); got != LastDay {
		t.Errorf("ResolveCutoff(true, 12) = %d, want %d", got, LastDay)
	}
}

func TestTruncate(t *testing.T) {
	series := []*float64{score(10), score(20), nil, score(40), score(50), score(60), score(70)}

	got := Truncate(series, 3)
	want := []any{10.0, 20.0, nil, 40.0, nil, nil, nil}
	if !slices.Equal(values(got), want) {
		t.Errorf("Truncate(series, 3) = %v, want %v", values(got), want)
	}
	if series[4] == nil || *series[4] != 50 {
		t.Error("Truncate modified its input")
	}
}

func TestTruncateEveryCutoff(t *testing.T) {
	series := []*float64{score(1), nil, score(3), score(4), nil, score(6), score(7)}

	for cutoff := 0; cutoff < DaysPerWeek; cutoff++ {
		got := Truncate(series, cutoff)
		if len(got) != len(series) {
			t.Fatalf("Truncate(series, %d) has length %d, want %d", cutoff, len(got), len(series))
		}
		for i := range series {
			if i <= cutoff && got[i] != series[i] {
				t.Errorf("Truncate(series, %d)[%d] = %v, want %v", cutoff, i, got[i], series[i])
			}
			if i > cutoff && got[i] != nil {
				t.Errorf("Truncate(series, %d)[%d] = %v, want nil", cutoff, i, *got[i])
			}
		}
	}
}

func TestTruncateFullWeekCopies(t *testing.T) {
	series := []*float64{score(1), score(2), score(3), score(4), score(5), score(6), score(7)}

	got := Truncate(series, LastDay)
	if !slices.Equal(values(got), values(series)) {
		t.Errorf("Truncate(series, 6) = %v, want %v", values(got), values(series))
	}
	got[0] = nil
	if series[0] == nil {
		t.Error("Truncate(series, 6) returned an alias of its input")
	}
}

func TestTruncateClampsCutoff(t *testing.T) {
	series := []*float64{score(1), score(2), score(3), score(4), score(5), score(6), score(7)}

	if got := values(Truncate(series, -1)); !slices.Equal(got, []any{1.0, nil, nil, nil, nil, nil, nil}) {
		t.Errorf("Truncate(series, -1) = %v", got)
	}
	if got := values(Truncate(series, 42)); !slices.Equal(got, values(series)) {
		t.Errorf("Truncate(series, 42) = %v", got)
	}
	if got := Truncate(nil, 3); got != nil {
		t.Errorf("Truncate(nil, 3) = %v, want nil", got)
	}
}

func TestGateMarker(t *testing.T) {
	marker := score(85)
	for cutoff := 0; cutoff < LastDay; cutoff++ {
		if got := GateMarker(marker, cutoff); got != nil {
			t.Errorf("GateMarker(85, %d) = %v, want nil", cutoff, *got)
		}
	}
	if got := GateMarker(marker, LastDay); got == nil || *got != 85 {
		t.Errorf("GateMarker(85, 6) = %v, want 85", got)
	}
	if got := GateMarker(nil, LastDay); got != nil {
		t.Errorf("GateMarker(nil, 6) = %v, want nil", *got)
	}
}

func TestLatest(t *testing.T) {
	if _, ok := Latest(nil); ok {
		t.Error("Latest(nil) reported a week")
	}
	if got, _ := Latest([]int{3, 9, 1}); got != 9 {
		t.Errorf("Latest() = %d, want 9", got)
	}
}
