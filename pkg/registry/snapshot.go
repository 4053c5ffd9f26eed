package registry

import (
	"sort"

	"github.com/skillet-sh/skillet/pkg/skill"
	"github.com/skillet-sh/skillet/pkg/subagent"
)

// Snapshot is an immutable, fully validated view of all loaded skills and
// subagents at a point in time. Snapshots are shared read-only by any number
// of concurrent requests; they are replaced, never edited.
type Snapshot struct {
	skills    map[skill.Key]*skill.Skill
	subagents map[skill.Key]*subagent.Subagent
	teams     []string            // sorted
	byTeam    map[string][]string // sorted skill ids per team
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		skills:    map[skill.Key]*skill.Skill{},
		subagents: map[skill.Key]*subagent.Subagent{},
		byTeam:    map[string][]string{},
	}
}

func newSnapshot(skills map[skill.Key]*skill.Skill, subagents map[skill.Key]*subagent.Subagent) *Snapshot {
	s := &Snapshot{
		skills:    skills,
		subagents: subagents,
		byTeam:    make(map[string][]string),
	}
	for key := range skills {
		s.byTeam[key.Team] = append(s.byTeam[key.Team], key.ID)
	}
	for _, ids := range s.byTeam {
		sort.Strings(ids)
	}
	// A team scope can be defined by subagents alone.
	teamSet := make(map[string]struct{}, len(s.byTeam))
	for team := range s.byTeam {
		teamSet[team] = struct{}{}
	}
	for key := range subagents {
		teamSet[key.Team] = struct{}{}
	}
	for team := range teamSet {
		s.teams = append(s.teams, team)
	}
	sort.Strings(s.teams)
	return s
}

// Lookup returns the skill for (team, id). It satisfies resolver.Source.
func (s *Snapshot) Lookup(team, id string) (*skill.Skill, bool) {
	sk, ok := s.skills[skill.Key{Team: team, ID: id}]
	return sk, ok
}

// Subagent returns the subagent definition for (team, name).
func (s *Snapshot) Subagent(team, name string) (*subagent.Subagent, bool) {
	a, ok := s.subagents[skill.Key{Team: team, ID: name}]
	return a, ok
}

// Teams returns the sorted team scopes present in the snapshot.
func (s *Snapshot) Teams() []string {
	return append([]string(nil), s.teams...)
}

// SkillIDs returns the sorted skill ids loaded for a team.
func (s *Snapshot) SkillIDs(team string) []string {
	return append([]string(nil), s.byTeam[team]...)
}

// Skills returns the skills of a team sorted by id, so iteration order never
// depends on the physical order definitions were supplied in.
func (s *Snapshot) Skills(team string) []*skill.Skill {
	ids := s.byTeam[team]
	out := make([]*skill.Skill, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.skills[skill.Key{Team: team, ID: id}])
	}
	return out
}

// Len returns the total number of skills across all teams.
func (s *Snapshot) Len() int {
	return len(s.skills)
}
