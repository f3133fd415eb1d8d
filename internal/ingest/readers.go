// ABOUTME: Per-vendor row mappings for Hevy, Strong and Jefit exports.
// ABOUTME: Each maps source columns onto date, exercise, weight, reps and set number.
package ingest

import (
	"fmt"
	"math"
	"time"

	"github.com/harperreed/liftlog/internal/expand"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/normalize"
)

// rowContext carries one data row plus what is needed to report on it.
type rowContext struct {
	table      *Table
	row        []string
	num        int
	source     models.Source
	normalizer *normalize.Normalizer
}

func (rc rowContext) value(column string) string {
	return rc.table.Value(rc.row, column)
}

func (rc rowContext) fail(column, value string, err error) error {
	return &MalformedRowError{Source: rc.source, Row: rc.num, Column: column, Value: value, Err: err}
}

func (rc rowContext) required(column string) (string, error) {
	v := rc.value(column)
	if v == "" {
		return "", rc.fail(column, v, fmt.Errorf("missing value"))
	}
	return v, nil
}

func (rc rowContext) floatValue(column string) (float64, error) {
	v, err := rc.required(column)
	if err != nil {
		return 0, err
	}
	f, err := expand.ParseNumber(v)
	if err != nil {
		return 0, rc.fail(column, v, err)
	}
	return f, nil
}

func (rc rowContext) intValue(column string) (int, error) {
	f, err := rc.floatValue(column)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, rc.fail(column, rc.value(column), fmt.Errorf("not a whole number"))
	}
	return int(f), nil
}

func (rc rowContext) timeValue(column string, parse func(string) (time.Time, error)) (time.Time, error) {
	v, err := rc.required(column)
	if err != nil {
		return time.Time{}, err
	}
	t, err := parse(v)
	if err != nil {
		return time.Time{}, rc.fail(column, v, err)
	}
	return t, nil
}

func (rc rowContext) exercise(column string) (string, error) {
	v, err := rc.required(column)
	if err != nil {
		return "", err
	}
	return rc.normalizer.Name(v), nil
}

// mapHevy reads start_time, exercise_title, weight_kg, reps and a zero-based set_index.
func mapHevy(rc rowContext) ([]models.SetRecord, error) {
	date, err := rc.timeValue("start_time", parseHevyTime)
	if err != nil {
		return nil, err
	}
	exercise, err := rc.exercise("exercise_title")
	if err != nil {
		return nil, err
	}
	weight, err := rc.floatValue("weight_kg")
	if err != nil {
		return nil, err
	}
	reps, err := rc.floatValue("reps")
	if err != nil {
		return nil, err
	}
	setIndex, err := rc.intValue("set_index")
	if err != nil {
		return nil, err
	}

	return []models.SetRecord{{
		Date:      date,
		Exercise:  exercise,
		Weight:    weight,
		Reps:      reps,
		SetNumber: setIndex + 1,
		Source:    models.SourceHevy,
	}}, nil
}

// mapStrong reads Date, Exercise Name, Weight, Reps and a 1-based Set Order.
func mapStrong(rc rowContext) ([]models.SetRecord, error) {
	date, err := rc.timeValue("Date", parseGenericTime)
	if err != nil {
		return nil, err
	}
	exercise, err := rc.exercise("Exercise Name")
	if err != nil {
		return nil, err
	}
	weight, err := rc.floatValue("Weight")
	if err != nil {
		return nil, err
	}
	reps, err := rc.floatValue("Reps")
	if err != nil {
		return nil, err
	}
	setOrder, err := rc.intValue("Set Order")
	if err != nil {
		return nil, err
	}

	return []models.SetRecord{{
		Date:      date,
		Exercise:  exercise,
		Weight:    weight,
		Reps:      reps,
		SetNumber: setOrder,
		Source:    models.SourceStrong,
	}}, nil
}

// mapJefit reads mydate and ename, then expands the packed logs field.
func mapJefit(rc rowContext) ([]models.SetRecord, error) {
	date, err := rc.timeValue("mydate", parseGenericTime)
	if err != nil {
		return nil, err
	}
	exercise, err := rc.exercise("ename")
	if err != nil {
		return nil, err
	}

	logs := rc.value("logs")
	sets, err := expand.Decode(logs)
	if err != nil {
		return nil, rc.fail("logs", logs, err)
	}

	records := make([]models.SetRecord, 0, len(sets))
	for _, s := range sets {
		records = append(records, models.SetRecord{
			Date:      date,
			Exercise:  exercise,
			Weight:    s.Weight,
			Reps:      s.Reps,
			SetNumber: s.Position,
			Source:    models.SourceJefit,
		})
	}
	return records, nil
}
