// ABOUTME: Rule-based canonicalization of free-text exercise names.
// ABOUTME: Ordered substring rules, first match wins, lowercase fallback.
package normalize

import "strings"

// Rule maps any lowercased name containing one of Contains to Canonical.
type Rule struct {
	Canonical string
	Contains  []string
}

// DefaultRules merge the variants the three apps use for the same lift.
var DefaultRules = []Rule{
	{Canonical: "Lat Pulldown (All Variations)", Contains: []string{"lat pulldown"}},
	{Canonical: "Barbell Bench Press", Contains: []string{"barbell bench press", "bench press (barbell)"}},
	{Canonical: "Dumbbell Bench Press", Contains: []string{"dumbbell bench press", "bench press (dumbbell)"}},
}

// Normalizer applies an ordered rule table.
type Normalizer struct {
	rules []Rule
}

// New creates a Normalizer evaluating rules in the given order.
// Match patterns are lowercased so callers can write them in any case.
func New(rules ...Rule) *Normalizer {
	n := &Normalizer{rules: make([]Rule, 0, len(rules))}
	for _, r := range rules {
		lowered := Rule{Canonical: r.Canonical, Contains: make([]string, len(r.Contains))}
		for i, c := range r.Contains {
			lowered.Contains[i] = strings.ToLower(c)
		}
		n.rules = append(n.rules, lowered)
	}
	return n
}

var defaultNormalizer = New(DefaultRules...)

// Default returns the Normalizer built from DefaultRules.
func Default() *Normalizer {
	return defaultNormalizer
}

// Name canonicalizes raw using the default rules.
func Name(raw string) string {
	return defaultNormalizer.Name(raw)
}

// Name lowercases raw and returns the canonical name of the first matching rule,
// or the lowercased input when nothing matches.
func (n *Normalizer) Name(raw string) string {
	name := strings.ToLower(raw)
	for _, r := range n.rules {
		for _, c := range r.Contains {
			if strings.Contains(name, c) {
				return r.Canonical
			}
		}
	}
	return name
}

// Rules returns a copy of the rule table.
func (n *Normalizer) Rules() []Rule {
	out := make([]Rule, len(n.rules))
	copy(out, n.rules)
	return out
}
