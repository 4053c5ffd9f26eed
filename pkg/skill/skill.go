// Package skill defines the declarative skill unit and its parser. A skill is
// a markdown file with YAML frontmatter describing identity, version,
// dependencies, delegated subagents, permitted tools, and activation triggers,
// followed by a free-text instruction body that the engine never interprets.
package skill

import (
	"fmt"
	"sort"
)

// Key uniquely identifies a skill within a snapshot. The same skill id may
// exist in multiple team scopes as fully independent entities.
type Key struct {
	Team string
	ID   string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Team, k.ID)
}

// Skill is a validated, immutable skill record produced by Parse.
type Skill struct {
	Team        string
	ID          string
	Version     string
	DisplayName string
	Description string
	Tags        []string // sorted, unique
	Requires    []string // sorted, unique skill ids in the same team scope
	Subagents   []string // sorted, unique subagent names in the same team scope
	Tools       []string // sorted, unique tool names
	Triggers    []Trigger

	// Body is the instruction text after the frontmatter. It is opaque to
	// the engine and content-addressed by BodyDigest (sha256 hex).
	Body       string
	BodyDigest string

	// Source records where the definition came from (file path or batch
	// label) for diagnostics.
	Source string
}

// Key returns the composite identity of the skill.
func (s *Skill) Key() Key {
	return Key{Team: s.Team, ID: s.ID}
}

// HasTag reports whether the skill carries the given tag.
func (s *Skill) HasTag(tag string) bool {
	i := sort.SearchStrings(s.Tags, tag)
	return i < len(s.Tags) && s.Tags[i] == tag
}

// TriggerPatterns returns the raw trigger patterns in declaration order.
func (s *Skill) TriggerPatterns() []string {
	patterns := make([]string, len(s.Triggers))
	for i, t := range s.Triggers {
		patterns[i] = t.Raw
	}
	return patterns
}
