// ABOUTME: Selection narrows a canonical record set by date range and source.
// ABOUTME: Applied by presentation layers before calling the aggregation queries.
package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// DayLayout is the calendar-day format accepted for selection bounds.
const DayLayout = "2006-01-02"

// Selection is an inclusive date range plus an optional source allow-list.
// Nil bounds and an empty Sources list mean "no restriction".
type Selection struct {
	From    *time.Time
	To      *time.Time
	Sources []Source
}

// IsEmpty reports whether the selection keeps every record.
func (s Selection) IsEmpty() bool {
	return s.From == nil && s.To == nil && len(s.Sources) == 0
}

// Matches reports whether a record falls inside the selection.
// Bounds compare calendar days, so To includes the whole final day.
// Each side is read in its own location, so a record stamped 23:30 at -05:00
// still counts for that date.
func (s Selection) Matches(r SetRecord) bool {
	day := calendarDay(r.Date)
	if s.From != nil && day < calendarDay(*s.From) {
		return false
	}
	if s.To != nil && day > calendarDay(*s.To) {
		return false
	}
	if len(s.Sources) > 0 && !slices.Contains(s.Sources, r.Source) {
		return false
	}
	return true
}

// calendarDay packs a date into yyyymmdd for ordering.
func calendarDay(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// Apply returns the records matching the selection, preserving order.
func (s Selection) Apply(records []SetRecord) []SetRecord {
	if s.IsEmpty() {
		return records
	}
	out := make([]SetRecord, 0, len(records))
	for _, r := range records {
		if s.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// ParseSelection builds a Selection from text bounds and source names. Empty
// strings leave that part unrestricted. Sources may be comma-separated.
func ParseSelection(since, until string, sources ...string) (Selection, error) {
	var sel Selection

	if since != "" {
		t, err := time.Parse(DayLayout, strings.TrimSpace(since))
		if err != nil {
			return Selection{}, fmt.Errorf("invalid since date %q (use YYYY-MM-DD)", since)
		}
		sel.From = &t
	}
	if until != "" {
		t, err := time.Parse(DayLayout, strings.TrimSpace(until))
		if err != nil {
			return Selection{}, fmt.Errorf("invalid until date %q (use YYYY-MM-DD)", until)
		}
		sel.To = &t
	}
	if sel.From != nil && sel.To != nil && sel.To.Before(*sel.From) {
		return Selection{}, fmt.Errorf("until %s is before since %s", until, since)
	}

	for _, raw := range sources {
		for _, name := range strings.Split(raw, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			src, err := ParseSource(name)
			if err != nil {
				return Selection{}, err
			}
			if !slices.Contains(sel.Sources, src) {
				sel.Sources = append(sel.Sources, src)
			}
		}
	}
	return sel, nil
}
