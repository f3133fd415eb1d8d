// ABOUTME: Source enum for the fitness apps whose exports are ingested.
// ABOUTME: Hevy, Strong and Jefit, plus parsing helpers for user input.
package models

import (
	"fmt"
	"strings"
)

// Source identifies the app a set was logged in.
type Source string

const (
	SourceHevy   Source = "Hevy"
	SourceStrong Source = "Strong"
	SourceJefit  Source = "Jefit"
)

// AllSources lists every known source in reporting order.
var AllSources = []Source{SourceHevy, SourceStrong, SourceJefit}

// IsValidSource checks if a string names a known source (case-insensitive).
func IsValidSource(s string) bool {
	_, err := ParseSource(s)
	return err == nil
}

// ParseSource resolves a case-insensitive source name.
func ParseSource(s string) (Source, error) {
	for _, src := range AllSources {
		if strings.EqualFold(string(src), strings.TrimSpace(s)) {
			return src, nil
		}
	}
	return "", fmt.Errorf("unknown source: %q (use hevy, strong or jefit)", s)
}

// Rank returns the position of the source in AllSources, or len(AllSources) if unknown.
func (s Source) Rank() int {
	for i, src := range AllSources {
		if src == s {
			return i
		}
	}
	return len(AllSources)
}

// Key returns the lowercase form used in storage keys and file names.
func (s Source) Key() string {
	return strings.ToLower(string(s))
}
