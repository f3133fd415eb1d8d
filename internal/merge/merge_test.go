// ABOUTME: Tests for merging per-source batches and rebuilding from raw exports.
// ABOUTME: Covers ordering, 1RM derivation, failure isolation and idempotence.
package merge

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/harperreed/liftlog/internal/calc"
	"github.com/harperreed/liftlog/internal/ingest"
	"github.com/harperreed/liftlog/internal/logging"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 4, d, 12, 0, 0, 0, time.UTC)
}

func batch(src models.Source, days ...int) []models.SetRecord {
	out := make([]models.SetRecord, 0, len(days))
	for i, d := range days {
		out = append(out, models.SetRecord{
			Date:      day(d),
			Exercise:  "squat",
			Weight:    float64(100 + i),
			Reps:      5,
			SetNumber: i + 1,
			Source:    src,
		})
	}
	return out
}

func TestMergeCountsAndOrder(t *testing.T) {
	hevy := batch(models.SourceHevy, 9, 2, 7, 4, 1)
	jefit := batch(models.SourceJefit, 3, 8, 5)

	merged := Merge(hevy, nil, jefit)
	require.Len(t, merged, 8)

	for i := 1; i < len(merged); i++ {
		assert.False(t, merged[i].Date.Before(merged[i-1].Date), "records out of order at %d", i)
	}
}

func TestMergeDerivesOneRM(t *testing.T) {
	in := batch(models.SourceStrong, 1, 2)
	in[0].OneRM = 9999

	merged := Merge(in)
	for _, r := range merged {
		assert.InDelta(t, calc.OneRM(r.Weight, r.Reps), r.OneRM, 1e-9)
	}
	assert.Equal(t, 9999.0, in[0].OneRM, "input batch must not be modified")
}

func TestMergeStableOnTies(t *testing.T) {
	a := batch(models.SourceHevy, 5, 5)
	b := batch(models.SourceJefit, 5)

	merged := Merge(a, b)
	require.Len(t, merged, 3)
	assert.Equal(t, models.SourceHevy, merged[0].Source)
	assert.Equal(t, 1, merged[0].SetNumber)
	assert.Equal(t, models.SourceHevy, merged[1].Source)
	assert.Equal(t, 2, merged[1].SetNumber)
	assert.Equal(t, models.SourceJefit, merged[2].Source)
}

func TestMergeKeepsDuplicates(t *testing.T) {
	a := batch(models.SourceHevy, 1)
	merged := Merge(a, a)
	assert.Len(t, merged, 2)
}

func TestMergeEmpty(t *testing.T) {
	merged := Merge()
	assert.NotNil(t, merged)
	assert.Empty(t, merged)

	assert.Empty(t, Merge(nil, []models.SetRecord{}))
}

const (
	hevyCSV = `start_time,exercise_title,set_index,weight_kg,reps
"9 Apr 2024, 18:00",Bench Press (Barbell),0,100,5
"2 Apr 2024, 18:00",Bench Press (Barbell),0,95,5
"7 Apr 2024, 18:00",Bench Press (Barbell),1,97.5,5
"4 Apr 2024, 18:00",Squat (Barbell),0,140,3
"1 Apr 2024, 18:00",Squat (Barbell),0,135,3
`
	jefitCSV = `mydate,ename,logs
2024-04-03,barbell bench press,"90x8,,85x10"
2024-04-08,Deadlift,180x2
`
	strongBadCSV = `Date,Exercise Name,Set Order,Weight,Reps
2024-04-05 10:00:00,Deadlift,1,200,1
2024-04-06 10:00:00,Deadlift,2,lots,1
`
)

func raws() []RawSource {
	return []RawSource{
		{Name: "hevy.csv", Source: models.SourceHevy, Content: []byte(hevyCSV)},
		{Name: "strong.csv", Source: models.SourceStrong, Content: nil},
		{Name: "jefit.csv", Source: models.SourceJefit, Content: []byte(jefitCSV)},
	}
}

func TestRebuild(t *testing.T) {
	res, err := Rebuild(context.Background(), raws(), WithLogger(logging.Discard()))
	require.NoError(t, err)

	assert.Empty(t, res.Failures)
	require.Len(t, res.Records, 8)
	assert.Equal(t, 5, res.PerSource[models.SourceHevy])
	assert.Equal(t, 3, res.PerSource[models.SourceJefit])
	assert.Zero(t, res.PerSource[models.SourceStrong])
	assert.True(t, res.Loaded())

	for i, r := range res.Records {
		assert.InDelta(t, calc.OneRM(r.Weight, r.Reps), r.OneRM, 1e-9)
		if i > 0 {
			assert.False(t, r.Date.Before(res.Records[i-1].Date))
		}
	}

	var jefitSetNumbers []int
	for _, r := range res.Records {
		if r.Source == models.SourceJefit && r.Exercise == "Barbell Bench Press" {
			jefitSetNumbers = append(jefitSetNumbers, r.SetNumber)
		}
	}
	assert.Equal(t, []int{1, 3}, jefitSetNumbers)
}

func TestRebuildIsolatesMalformedSource(t *testing.T) {
	sources := append(raws(), RawSource{Name: "strong.csv", Content: []byte(strongBadCSV)})

	res, err := Rebuild(context.Background(), sources, WithLogger(logging.Discard()))
	require.NoError(t, err)

	require.Len(t, res.Failures, 1)
	assert.Equal(t, "strong.csv", res.Failures[0].Name)
	assert.True(t, errors.Is(res.Failures[0].Err, ingest.ErrMalformedRow))
	assert.Len(t, res.Records, 8, "no partial rows from the malformed source")
}

func TestRebuildUnrecognizedAndMismatched(t *testing.T) {
	sources := []RawSource{
		{Name: "mystery.csv", Content: []byte("a,b,c\n1,2,3\n")},
		{Name: "hevy.csv", Source: models.SourceStrong, Content: []byte(hevyCSV)},
		{Name: "jefit.csv", Content: []byte(jefitCSV)},
	}

	res, err := Rebuild(context.Background(), sources, WithLogger(logging.Discard()))
	require.NoError(t, err)

	require.Len(t, res.Failures, 2)
	assert.ErrorIs(t, res.Failures[0].Err, ingest.ErrUnrecognizedFormat)
	assert.Contains(t, res.Failures[1].Error(), "columns match Hevy")
	assert.Len(t, res.Records, 3)
}

func TestRebuildNoSources(t *testing.T) {
	res, err := Rebuild(context.Background(), nil, WithLogger(logging.Discard()))
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Empty(t, res.Failures)
	assert.False(t, res.Loaded())
}

func TestRebuildIdempotent(t *testing.T) {
	first, err := Rebuild(context.Background(), raws(), WithLogger(logging.Discard()))
	require.NoError(t, err)
	second, err := Rebuild(context.Background(), raws(), WithLogger(logging.Discard()))
	require.NoError(t, err)

	assert.Equal(t, first.Records, second.Records)
}

func TestRebuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Rebuild(ctx, raws(), WithLogger(logging.Discard()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFailureError(t *testing.T) {
	f := Failure{Name: "x.csv", Err: fmt.Errorf("boom")}
	assert.Equal(t, "x.csv: boom", f.Error())
}
