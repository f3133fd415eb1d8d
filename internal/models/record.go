// ABOUTME: SetRecord is the canonical per-set entity all sources are normalized into.
// ABOUTME: Also exposes the invariant check shared by readers and the merger.
package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// SetRecord is one performed set after normalization.
type SetRecord struct {
	Date      time.Time `json:"date" yaml:"date" validate:"required"`
	Exercise  string    `json:"exercise" yaml:"exercise" validate:"required"`
	Weight    float64   `json:"weight" yaml:"weight" validate:"gte=0"`
	Reps      float64   `json:"reps" yaml:"reps" validate:"gt=0"`
	SetNumber int       `json:"set_number" yaml:"set_number" validate:"gte=1"`
	Source    Source    `json:"source" yaml:"source" validate:"oneof=Hevy Strong Jefit"`
	OneRM     float64   `json:"one_rm" yaml:"one_rm" validate:"gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports the first invariant the record violates, if any.
func (r SetRecord) Validate() error {
	return validate.Struct(r)
}

// Day returns the record's date truncated to its calendar day.
func (r SetRecord) Day() time.Time {
	return DayOf(r.Date)
}

// DayOf truncates a timestamp to midnight in its own location.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
