// Package trigger evaluates free-text input against the trigger patterns of
// every skill in a team scope. Matching is a pure read over one snapshot:
// identical (snapshot, text) inputs always produce the identical match set.
package trigger

import (
	"github.com/skillet-sh/skillet/pkg/skill"
)

// Source is the read-only per-team skill listing the matcher scans. A
// registry snapshot satisfies it; Skills must return a stable, id-sorted
// slice so results never depend on load order.
type Source interface {
	Skills(team string) []*skill.Skill
}

// Match is one matched skill together with the pattern(s) that fired.
type Match struct {
	ID       string   `json:"id"`
	Patterns []string `json:"patterns"` // raw patterns in declaration order
}

// Evaluate runs every trigger of every skill in the team against the text
// and returns the matches sorted by skill id. Skills with no triggers never
// auto-match; they are reachable only by explicit request or as dependencies.
func Evaluate(src Source, team, text string) []Match {
	var matches []Match
	for _, sk := range src.Skills(team) {
		var fired []string
		for _, t := range sk.Triggers {
			if t.Matches(text) {
				fired = append(fired, t.Raw)
			}
		}
		if len(fired) > 0 {
			matches = append(matches, Match{ID: sk.ID, Patterns: fired})
		}
	}
	return matches
}

// IDs extracts the matched skill ids, preserving the sorted match order.
func IDs(matches []Match) []string {
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	return ids
}
