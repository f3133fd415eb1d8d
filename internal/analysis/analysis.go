// ABOUTME: Read-only aggregation queries over an already-selected record set.
// ABOUTME: Top sets, per-exercise summaries and per-source comparisons.
package analysis

import (
	"sort"
	"time"

	"github.com/harperreed/liftlog/internal/calc"
	"github.com/harperreed/liftlog/internal/models"
)

// TopSets returns up to limit sets of exercise with the highest 1RM,
// best first. Equal 1RMs keep chronological order.
func TopSets(records []models.SetRecord, exercise string, limit int) []models.TopSet {
	if limit <= 0 {
		return []models.TopSet{}
	}

	matches := make([]models.SetRecord, 0)
	for _, r := range records {
		if r.Exercise == exercise {
			matches = append(matches, r)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].OneRM > matches[j].OneRM
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]models.TopSet, 0, len(matches))
	for _, r := range matches {
		out = append(out, models.TopSet{
			Date:   r.Day(),
			Weight: r.Weight,
			Reps:   r.Reps,
			OneRM:  r.OneRM,
			Source: r.Source,
		})
	}
	return out
}

type exerciseAcc struct {
	stats                        models.ExerciseStats
	sumWeight, sumReps, sumOneRM float64
}

// ExerciseSummary groups by exercise, strongest exercise first.
func ExerciseSummary(records []models.SetRecord) []models.ExerciseStats {
	groups := make(map[string]*exerciseAcc)
	for _, r := range records {
		acc, ok := groups[r.Exercise]
		if !ok {
			acc = &exerciseAcc{stats: models.ExerciseStats{Exercise: r.Exercise, MaxWeight: r.Weight, MaxReps: r.Reps, MaxOneRM: r.OneRM}}
			groups[r.Exercise] = acc
		}
		s := &acc.stats
		s.MaxWeight = max(s.MaxWeight, r.Weight)
		s.MaxReps = max(s.MaxReps, r.Reps)
		s.MaxOneRM = max(s.MaxOneRM, r.OneRM)
		s.TotalSets++
		acc.sumWeight += r.Weight
		acc.sumReps += r.Reps
		acc.sumOneRM += r.OneRM
	}

	out := make([]models.ExerciseStats, 0, len(groups))
	for _, acc := range groups {
		s := acc.stats
		n := float64(s.TotalSets)
		s.AvgWeight = acc.sumWeight / n
		s.AvgReps = acc.sumReps / n
		s.AvgOneRM = acc.sumOneRM / n
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].MaxOneRM != out[j].MaxOneRM {
			return out[i].MaxOneRM > out[j].MaxOneRM
		}
		return out[i].Exercise < out[j].Exercise
	})
	return out
}

type sourceAcc struct {
	stats models.SourceStats
	days  map[time.Time]struct{}
}

// SourceComparison groups by source. Volume is summed per record
// (weight × reps of each set), not derived from group averages.
func SourceComparison(records []models.SetRecord) []models.SourceStats {
	groups := make(map[models.Source]*sourceAcc)
	for _, r := range records {
		acc, ok := groups[r.Source]
		if !ok {
			acc = &sourceAcc{
				stats: models.SourceStats{Source: r.Source, MaxOneRM: r.OneRM},
				days:  make(map[time.Time]struct{}),
			}
			groups[r.Source] = acc
		}
		acc.stats.TotalSets++
		acc.stats.TotalVolume += calc.Volume(r.Weight, r.Reps)
		acc.stats.MaxOneRM = max(acc.stats.MaxOneRM, r.OneRM)
		acc.days[r.Day()] = struct{}{}
	}

	out := make([]models.SourceStats, 0, len(groups))
	for _, acc := range groups {
		acc.stats.WorkoutDays = len(acc.days)
		out = append(out, acc.stats)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Source.Rank() != out[j].Source.Rank() {
			return out[i].Source.Rank() < out[j].Source.Rank()
		}
		return out[i].Source < out[j].Source
	})
	return out
}
