// ABOUTME: CLI commands for querying the merged record set.
// ABOUTME: records, top, summary, compare, overview, progress, volume, frequency, exercises.
package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/harperreed/liftlog/internal/analysis"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/spf13/cobra"
)

var (
	recordsExercise string
	recordsLimit    int
	topLimit        int
	frequencyBy     string
	exercisesLimit  int
)

// printJSON writes v as indented JSON when --json is set.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List merged set records",
	Long: `List the canonical set records, oldest first.

Every set from every stored export appears once, with its estimated
one-rep max (Epley: weight × (1 + reps/30)).

EXAMPLES:

  liftlog records                               # Every set
  liftlog records -e "Barbell Bench Press"      # One exercise
  liftlog records --since 2024-01-01 -n 20      # First 20 sets of 2024
  liftlog records --source jefit --json         # Jefit sets as JSON`,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadRecords(cmd)
		if err != nil {
			return err
		}

		if recordsExercise != "" {
			filtered := make([]models.SetRecord, 0, len(records))
			for _, r := range records {
				if r.Exercise == recordsExercise {
					filtered = append(filtered, r)
				}
			}
			records = filtered
		}
		if recordsLimit > 0 && len(records) > recordsLimit {
			records = records[:recordsLimit]
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			if records == nil {
				records = []models.SetRecord{}
			}
			return printJSON(out, records)
		}
		if len(records) == 0 {
			noData(cmd)
			return nil
		}

		faint := color.New(color.Faint)
		for _, r := range records {
			fmt.Fprintf(out, "%s %s #%-2d %6s kg × %-3s 1RM %6.1f %s\n",
				faint.Sprint(r.Date.Format("2006-01-02 15:04")),
				padRight(truncate(r.Exercise, 32), 32),
				r.SetNumber,
				num(r.Weight),
				num(r.Reps),
				r.OneRM,
				faint.Sprint(r.Source))
		}
		return nil
	},
}

var topCmd = &cobra.Command{
	Use:   "top <exercise>",
	Short: "Best sets for an exercise by estimated 1RM",
	Long: `Show the highest estimated one-rep max sets for an exercise.

The exercise name must be the canonical name (see 'liftlog exercises').
Sets with equal 1RM keep their chronological order.

EXAMPLES:

  liftlog top "Barbell Bench Press"
  liftlog top "Lat Pulldown (All Variations)" -n 5 --since 2024-01-01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadRecords(cmd)
		if err != nil {
			return err
		}

		limit := topLimit
		if !cmd.Flags().Changed("limit") {
			limit = cfg.GetTopLimit()
		}
		top := analysis.TopSets(records, args[0], limit)

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, top)
		}
		if len(top) == 0 {
			fmt.Fprintf(out, "No sets found for %s.\n", args[0])
			return nil
		}

		color.New(color.Bold).Fprintf(out, "Top sets: %s\n", args[0])
		faint := color.New(color.Faint)
		for i, ts := range top {
			fmt.Fprintf(out, "%2d. %s %6s kg × %-3s 1RM %6.1f %s\n",
				i+1, formatDay(ts.Date), num(ts.Weight), num(ts.Reps), ts.OneRM, faint.Sprint(ts.Source))
		}
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Per-exercise statistics",
	Long: `Show max and average weight, reps and estimated 1RM for every exercise,
strongest exercise first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadRecords(cmd)
		if err != nil {
			return err
		}

		stats := analysis.ExerciseSummary(records)
		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, stats)
		}
		if len(stats) == 0 {
			noData(cmd)
			return nil
		}

		color.New(color.Bold).Fprintf(out, "%s %8s %8s %6s %6s %8s %8s %5s\n",
			padRight("EXERCISE", 32), "MAX KG", "AVG KG", "MAX R", "AVG R", "MAX 1RM", "AVG 1RM", "SETS")
		for _, s := range stats {
			fmt.Fprintf(out, "%s %8.1f %8.1f %6.0f %6.1f %8.1f %8.1f %5d\n",
				padRight(truncate(s.Exercise, 32), 32),
				s.MaxWeight, s.AvgWeight, s.MaxReps, s.AvgReps, s.MaxOneRM, s.AvgOneRM, s.TotalSets)
		}
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare Hevy, Strong and Jefit",
	Long: `Compare total sets, total volume (weight × reps), best estimated 1RM
and distinct workout days for each app with data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadRecords(cmd)
		if err != nil {
			return err
		}

		stats := analysis.SourceComparison(records)
		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, stats)
		}
		if len(stats) == 0 {
			noData(cmd)
			return nil
		}

		color.New(color.Bold).Fprintf(out, "%s %6s %12s %8s %5s\n", padRight("APP", 8), "SETS", "VOLUME KG", "MAX 1RM", "DAYS")
		for _, s := range stats {
			fmt.Fprintf(out, "%s %6d %12.0f %8.1f %5d\n",
				padRight(string(s.Source), 8), s.TotalSets, s.TotalVolume, s.MaxOneRM, s.WorkoutDays)
		}
		return nil
	},
}

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Headline training numbers",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadRecords(cmd)
		if err != nil {
			return err
		}

		ov := analysis.Overview(records)
		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, ov)
		}
		if ov.TotalWorkouts == 0 {
			noData(cmd)
			return nil
		}

		fmt.Fprintf(out, "Workouts:          %d\n", ov.TotalWorkouts)
		fmt.Fprintf(out, "Unique exercises:  %d\n", ov.UniqueExercises)
		fmt.Fprintf(out, "Sets per workout:  %.1f\n", ov.AvgSetsPerWorkout)
		fmt.Fprintf(out, "Date range:        %s to %s\n", formatDay(ov.FirstDay), formatDay(ov.LastDay))
		return nil
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress <exercise>",
	Short: "Daily best weight and 1RM for an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadRecords(cmd)
		if err != nil {
			return err
		}

		points := analysis.Progression(records, args[0])
		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, points)
		}
		if len(points) == 0 {
			fmt.Fprintf(out, "No sets found for %s.\n", args[0])
			return nil
		}

		color.New(color.Bold).Fprintf(out, "%s %8s %8s\n", padRight("DATE", 10), "MAX KG", "MAX 1RM")
		for _, p := range points {
			fmt.Fprintf(out, "%s %8s %8.1f\n", formatDay(p.Date), num(p.MaxWeight), p.MaxOneRM)
		}
		return nil
	},
}

var volumeCmd = &cobra.Command{
	Use:   "volume",
	Short: "Total weight moved per day",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadRecords(cmd)
		if err != nil {
			return err
		}

		points := analysis.DailyVolume(records)
		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, points)
		}
		if len(points) == 0 {
			noData(cmd)
			return nil
		}

		color.New(color.Bold).Fprintf(out, "%s %12s %5s\n", padRight("DATE", 10), "VOLUME KG", "SETS")
		for _, p := range points {
			fmt.Fprintf(out, "%s %12.0f %5d\n", formatDay(p.Date), p.Volume, p.Sets)
		}
		return nil
	},
}

var frequencyCmd = &cobra.Command{
	Use:   "frequency",
	Short: "Workout days per month or week",
	Long: `Count distinct workout days per calendar month (default) or per
ISO week. Weeks are labelled by their Monday.

EXAMPLES:

  liftlog frequency
  liftlog frequency --by week --since 2024-01-01`,
	RunE: func(cmd *cobra.Command, args []string) error {
		period, err := analysis.ParsePeriod(frequencyBy)
		if err != nil {
			return err
		}

		records, err := loadRecords(cmd)
		if err != nil {
			return err
		}

		points := analysis.Frequency(records, period)
		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, points)
		}
		if len(points) == 0 {
			noData(cmd)
			return nil
		}

		for _, p := range points {
			fmt.Fprintf(out, "%s %3d\n", padRight(p.Period, 10), p.Workouts)
		}
		return nil
	},
}

var exercisesCmd = &cobra.Command{
	Use:   "exercises",
	Short: "Most logged exercises",
	Long: `List exercises by number of sets logged. Names shown here are the
canonical names accepted by 'top' and 'progress'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadRecords(cmd)
		if err != nil {
			return err
		}

		counts := analysis.TopExercises(records, exercisesLimit)
		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, counts)
		}
		if len(counts) == 0 {
			noData(cmd)
			return nil
		}

		for _, c := range counts {
			fmt.Fprintf(out, "%s %5d\n", padRight(truncate(c.Exercise, 40), 40), c.Sets)
		}
		return nil
	},
}

func init() {
	recordsCmd.Flags().StringVarP(&recordsExercise, "exercise", "e", "", "only show this exercise")
	recordsCmd.Flags().IntVarP(&recordsLimit, "limit", "n", 0, "max records to show (0 = all)")
	topCmd.Flags().IntVarP(&topLimit, "limit", "n", 10, "number of sets to show")
	frequencyCmd.Flags().StringVar(&frequencyBy, "by", string(analysis.PeriodMonth), "bucket by month or week")
	exercisesCmd.Flags().IntVarP(&exercisesLimit, "limit", "n", 20, "number of exercises to show")

	for _, cmd := range []*cobra.Command{
		recordsCmd, topCmd, summaryCmd, compareCmd, overviewCmd,
		progressCmd, volumeCmd, frequencyCmd, exercisesCmd,
	} {
		addQueryFlags(cmd)
		rootCmd.AddCommand(cmd)
	}
}
