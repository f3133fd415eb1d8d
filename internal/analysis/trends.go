// ABOUTME: Dashboard-style queries: overview numbers, progression, volume and frequency.
// ABOUTME: Everything groups by calendar day so sessions collapse to one point.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/harperreed/liftlog/internal/calc"
	"github.com/harperreed/liftlog/internal/models"
)

// Period selects the bucket size for Frequency.
type Period string

const (
	PeriodMonth Period = "month"
	PeriodWeek  Period = "week"
)

// ParsePeriod validates a period name.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodMonth, PeriodWeek:
		return Period(s), nil
	default:
		return "", fmt.Errorf("unknown period: %q (use month or week)", s)
	}
}

// Overview computes headline numbers. Average sets per workout is the mean,
// over workout days, of the highest set number logged that day.
func Overview(records []models.SetRecord) models.Overview {
	if len(records) == 0 {
		return models.Overview{}
	}

	exercises := make(map[string]struct{})
	maxSet := make(map[time.Time]int)
	for _, r := range records {
		exercises[r.Exercise] = struct{}{}
		d := r.Day()
		maxSet[d] = max(maxSet[d], r.SetNumber)
	}

	total := 0
	var first, last time.Time
	for d, n := range maxSet {
		total += n
		if first.IsZero() || d.Before(first) {
			first = d
		}
		if last.IsZero() || d.After(last) {
			last = d
		}
	}

	days := len(maxSet)
	return models.Overview{
		TotalWorkouts:     days,
		UniqueExercises:   len(exercises),
		AvgSetsPerWorkout: math.Round(float64(total)/float64(days)*10) / 10,
		TotalWorkoutDays:  days,
		FirstDay:          first,
		LastDay:           last,
	}
}

// Progression returns, per day, the heaviest weight and best 1RM for exercise.
func Progression(records []models.SetRecord, exercise string) []models.ProgressionPoint {
	byDay := make(map[time.Time]*models.ProgressionPoint)
	for _, r := range records {
		if r.Exercise != exercise {
			continue
		}
		d := r.Day()
		p, ok := byDay[d]
		if !ok {
			byDay[d] = &models.ProgressionPoint{Date: d, MaxWeight: r.Weight, MaxOneRM: r.OneRM}
			continue
		}
		p.MaxWeight = max(p.MaxWeight, r.Weight)
		p.MaxOneRM = max(p.MaxOneRM, r.OneRM)
	}

	out := make([]models.ProgressionPoint, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// DailyVolume sums weight × reps per day.
func DailyVolume(records []models.SetRecord) []models.VolumePoint {
	byDay := make(map[time.Time]*models.VolumePoint)
	for _, r := range records {
		d := r.Day()
		p, ok := byDay[d]
		if !ok {
			p = &models.VolumePoint{Date: d}
			byDay[d] = p
		}
		p.Volume += calc.Volume(r.Weight, r.Reps)
		p.Sets++
	}

	out := make([]models.VolumePoint, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Frequency counts distinct workout days per month ("2006-01") or per ISO
// week, labelled by the week's Monday ("2006-01-02").
func Frequency(records []models.SetRecord, period Period) []models.FrequencyPoint {
	buckets := make(map[string]map[time.Time]struct{})
	for _, r := range records {
		d := r.Day()
		key := bucketKey(d, period)
		if buckets[key] == nil {
			buckets[key] = make(map[time.Time]struct{})
		}
		buckets[key][d] = struct{}{}
	}

	out := make([]models.FrequencyPoint, 0, len(buckets))
	for k, days := range buckets {
		out = append(out, models.FrequencyPoint{Period: k, Workouts: len(days)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

func bucketKey(day time.Time, period Period) string {
	if period == PeriodWeek {
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset).Format("2006-01-02")
	}
	return day.Format("2006-01")
}

// TopExercises ranks exercises by number of sets logged, at most n of them.
// n <= 0 returns every exercise.
func TopExercises(records []models.SetRecord, n int) []models.ExerciseCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Exercise]++
	}

	out := make([]models.ExerciseCount, 0, len(counts))
	for name, c := range counts {
		out = append(out, models.ExerciseCount{Exercise: name, Sets: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sets != out[j].Sets {
			return out[i].Sets > out[j].Sets
		}
		return out[i].Exercise < out[j].Exercise
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
