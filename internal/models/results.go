// ABOUTME: Result rows returned by the aggregation queries.
// ABOUTME: Field names are the stable contract for CLI, MCP and HTTP output.
package models

import "time"

// TopSet is a single high-ranking set projected for display.
type TopSet struct {
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight"`
	Reps   float64   `json:"reps"`
	OneRM  float64   `json:"one_rm"`
	Source Source    `json:"source"`
}

// ExerciseStats summarizes every set of one exercise.
type ExerciseStats struct {
	Exercise  string  `json:"exercise"`
	MaxWeight float64 `json:"max_weight"`
	AvgWeight float64 `json:"avg_weight"`
	MaxReps   float64 `json:"max_reps"`
	AvgReps   float64 `json:"avg_reps"`
	MaxOneRM  float64 `json:"max_one_rm"`
	AvgOneRM  float64 `json:"avg_one_rm"`
	TotalSets int     `json:"total_sets"`
}

// SourceStats compares the sets logged in one app.
type SourceStats struct {
	Source      Source  `json:"source"`
	TotalSets   int     `json:"total_sets"`
	TotalVolume float64 `json:"total_volume"`
	MaxOneRM    float64 `json:"max_one_rm"`
	WorkoutDays int     `json:"workout_days"`
}

// Overview holds headline numbers for a record collection.
type Overview struct {
	TotalWorkouts     int       `json:"total_workouts"`
	UniqueExercises   int       `json:"unique_exercises"`
	AvgSetsPerWorkout float64   `json:"avg_sets_per_workout"`
	TotalWorkoutDays  int       `json:"total_workout_days"`
	FirstDay          time.Time `json:"first_day,omitzero"`
	LastDay           time.Time `json:"last_day,omitzero"`
}

// ProgressionPoint is the best working weight and 1RM for an exercise on one day.
type ProgressionPoint struct {
	Date      time.Time `json:"date"`
	MaxWeight float64   `json:"max_weight"`
	MaxOneRM  float64   `json:"max_one_rm"`
}

// VolumePoint is the total weight moved on one day.
type VolumePoint struct {
	Date   time.Time `json:"date"`
	Volume float64   `json:"volume"`
	Sets   int       `json:"sets"`
}

// FrequencyPoint counts workout days in a month or week.
type FrequencyPoint struct {
	Period   string `json:"period"`
	Workouts int    `json:"workouts"`
}

// ExerciseCount is the number of sets logged for an exercise.
type ExerciseCount struct {
	Exercise string `json:"exercise"`
	Sets     int    `json:"sets"`
}
