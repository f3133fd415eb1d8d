// ABOUTME: Unified record merger: concatenates per-source batches, derives 1RM,
// ABOUTME: and stable-sorts the canonical record set by date.
package merge

import (
	"sort"

	"github.com/harperreed/liftlog/internal/calc"
	"github.com/harperreed/liftlog/internal/models"
)

// Merge combines batches without deduplication, recomputes OneRM for every
// record, and sorts ascending by date. Ties keep their pre-sort order.
// Inputs are not modified.
func Merge(batches ...[]models.SetRecord) []models.SetRecord {
	total := 0
	for _, b := range batches {
		total += len(b)
	}

	out := make([]models.SetRecord, 0, total)
	for _, b := range batches {
		out = append(out, b...)
	}

	for i := range out {
		out[i].OneRM = calc.OneRM(out[i].Weight, out[i].Reps)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	return out
}
