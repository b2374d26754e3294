package internal

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/albertb/progressboard/internal/week"
)

// Returns n random integers between min and max, biased towards max, with smooth transitions.
func getBiasedSmoothRandomValues(r *rand.Rand, n, min, max int) []int {
	values := make([]int, n)

	for i := range values {
		// Prefer higher values.
		bias := 1 - math.Pow(r.Float64(), 4)
		target := min + int(bias*float64(max-min))

		next := target
		if i > 0 {
			// Smooth the change from one value to the next.
			step := r.Intn(10) - 5
			next = values[i-1] + step
			next = (next*3 + target) / 4
		}

		if next < min {
			next = min
		}
		if next > max {
			next = max
		}
		values[i] = next
	}

	return values
}

type fakeTask struct {
	Name      string
	Frequency string
	Goal      int
	Gym       bool
}

var fakeTasks = []fakeTask{
	{Name: "👟 Workout", Frequency: "Daily", Goal: 7, Gym: true},
	{Name: "💊 Nutrition/supplements", Frequency: "Daily", Goal: 7, Gym: true},
	{Name: "Work on project 1 hours a day", Frequency: "5 times a week", Goal: 5},
	{Name: "Post on Twitter", Frequency: "3 times a week", Goal: 3},
}

// FakeSource serves generated data ending with the current week, for dev mode.
type FakeSource struct {
	combined CombinedData
	daily    DailyData
	tasks    TasksData
}

// NewFakeSource generates weeks 1 through the week containing now.
func NewFakeSource(epoch, now time.Time, seed int64) *FakeSource {
	r := rand.New(rand.NewSource(seed))
	weeks := max(week.Number(epoch, now), 1)

	s := &FakeSource{
		daily: DailyData{},
		tasks: TasksData{},
	}

	gymMeasures := getBiasedSmoothRandomValues(r, weeks, 30, 110)
	businessMeasures := getBiasedSmoothRandomValues(r, weeks, 30, 110)

	for _, t := range fakeTasks {
		s.tasks[t.Name] = map[string]TaskWeek{}
	}

	for n := 1; n <= weeks; n++ {
		key := week.Key(n)
		var gym, business [][]*float64

		for _, t := range fakeTasks {
			// Some weeks go better than others.
			odds := 0.3 + 0.7*r.Float64()

			scores := make([]*float64, week.DaysPerWeek)
			done := 0
			for day := range scores {
				if r.Float64() < odds*float64(t.Goal)/week.DaysPerWeek {
					done++
				}
				score := float64(done) / float64(t.Goal) * 100
				scores[day] = &score
			}

			s.tasks[t.Name][key] = TaskWeek{
				WeekNumber: n,
				Days:       defaultDays,
				Scores:     scores,
				Goal:       t.Goal,
				Frequency:  t.Frequency,
			}
			if t.Gym {
				gym = append(gym, scores)
			} else {
				business = append(business, scores)
			}
		}

		gymMeasure := float64(gymMeasures[n-1])
		businessMeasure := float64(businessMeasures[n-1])
		wd := DailyWeek{
			WeekNumber:           n,
			Days:                 defaultDays,
			GymScores:            averageScores(gym),
			BusinessScores:       averageScores(business),
			GymMeasureScore:      &gymMeasure,
			BusinessMeasureScore: &businessMeasure,
		}
		s.daily[key] = wd

		s.combined.Weeks = append(s.combined.Weeks, week.Label(n))
		s.combined.GymTaskScores = append(s.combined.GymTaskScores, wd.GymScores[week.LastDay])
		s.combined.BusinessTaskScores = append(s.combined.BusinessTaskScores, wd.BusinessScores[week.LastDay])
		s.combined.GymMeasures = append(s.combined.GymMeasures, WeekMeasure{Week: week.Label(n), Score: gymMeasure})
		s.combined.BusinessMeasures = append(s.combined.BusinessMeasures, WeekMeasure{Week: week.Label(n), Score: businessMeasure})
	}

	return s
}

// averageScores averages several tasks' daily scores, day by day.
func averageScores(tasks [][]*float64) []*float64 {
	if len(tasks) == 0 {
		return nil
	}
	out := make([]*float64, week.DaysPerWeek)
	for day := range out {
		var sum float64
		for _, scores := range tasks {
			sum += *scores[day]
		}
		avg := sum / float64(len(tasks))
		out[day] = &avg
	}
	return out
}

func (s *FakeSource) Combined(ctx context.Context) (CombinedData, error) {
	return s.combined, ctx.Err()
}

func (s *FakeSource) Daily(ctx context.Context) (DailyData, error) {
	return s.daily, ctx.Err()
}

func (s *FakeSource) Tasks(ctx context.Context) (TasksData, error) {
	return s.tasks, ctx.Err()
}
