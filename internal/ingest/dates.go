// ABOUTME: Date parsing for the timestamp columns of each export.
// ABOUTME: Hevy has a fixed layout; Strong and Jefit go through a generic parser.
package ingest

import (
	"fmt"
	"time"
)

// hevyLayout matches start_time values like "15 Jan 2024, 18:30".
const hevyLayout = "2 Jan 2006, 15:04"

var genericLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"Jan 2, 2006",
	hevyLayout,
}

func parseHevyTime(s string) (time.Time, error) {
	return time.Parse(hevyLayout, s)
}

func parseGenericTime(s string) (time.Time, error) {
	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
