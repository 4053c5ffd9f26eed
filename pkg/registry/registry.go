// Package registry holds the published skill snapshot and performs
// all-or-nothing batch loads. Readers are lock-free against an atomically
// swapped snapshot pointer; loads are serialized and validate a candidate
// snapshot in full before publishing it.
package registry

import (
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/skillet-sh/skillet/pkg/resolver"
	"github.com/skillet-sh/skillet/pkg/skill"
	"github.com/skillet-sh/skillet/pkg/subagent"
)

// Batch is one load unit: every raw skill and subagent definition that should
// make up the next snapshot. A batch always replaces the whole snapshot.
type Batch struct {
	Skills    []skill.RawDefinition
	Subagents []subagent.RawDefinition
}

// Registry owns the published snapshot. The zero value is not usable; call
// New.
type Registry struct {
	current atomic.Pointer[Snapshot]
	loadMu  sync.Mutex
}

// New returns a registry publishing an empty snapshot.
func New() *Registry {
	r := &Registry{}
	r.current.Store(emptySnapshot())
	return r
}

// Current returns the presently published snapshot. It never blocks on a
// concurrent load.
func (r *Registry) Current() *Snapshot {
	return r.current.Load()
}

// Get returns the skill for (team, id) from the current snapshot.
func (r *Registry) Get(team, id string) (*skill.Skill, bool) {
	return r.Current().Lookup(team, id)
}

// Load parses and validates a whole batch and, only if every unit passes,
// atomically publishes the resulting snapshot. On failure the previously
// published snapshot stays untouched and the returned error aggregates every
// violation found.
func (r *Registry) Load(batch Batch) (*Snapshot, error) {
	r.loadMu.Lock()
	defer r.loadMu.Unlock()

	candidate, err := build(batch)
	if err != nil {
		return nil, err
	}
	r.current.Store(candidate)
	return candidate, nil
}

// Validate runs the same checks as Load without publishing anything.
func Validate(batch Batch) (*Snapshot, error) {
	return build(batch)
}

func build(batch Batch) (*Snapshot, error) {
	var violations *multierror.Error

	subagents := make(map[skill.Key]*subagent.Subagent, len(batch.Subagents))
	for _, def := range batch.Subagents {
		agent, err := subagent.Parse(def.Team, def.Source, def.Content)
		if err != nil {
			violations = multierror.Append(violations, err)
			continue
		}
		key := agent.Key()
		if _, dup := subagents[key]; dup {
			violations = multierror.Append(violations, &skill.Error{
				Kind: skill.DuplicateIdentifier, Team: agent.Team, ID: agent.Name, Field: "subagents",
			})
			continue
		}
		subagents[key] = agent
	}

	skills := make(map[skill.Key]*skill.Skill, len(batch.Skills))
	for _, def := range batch.Skills {
		sk, err := skill.Parse(def.Team, def.Source, def.Content)
		if err != nil {
			violations = multierror.Append(violations, err)
			continue
		}
		key := sk.Key()
		if _, dup := skills[key]; dup {
			violations = multierror.Append(violations, &skill.Error{
				Kind: skill.DuplicateIdentifier, Team: sk.Team, ID: sk.ID,
			})
			continue
		}
		skills[key] = sk
	}

	// Reference checks only make sense over a structurally sound batch.
	if err := violations.ErrorOrNil(); err != nil {
		return nil, err
	}

	candidate := newSnapshot(skills, subagents)

	for _, sk := range sortedSkills(candidate) {
		for _, dep := range sk.Requires {
			if _, ok := candidate.Lookup(sk.Team, dep); !ok {
				violations = multierror.Append(violations, &skill.Error{
					Kind: skill.MissingDependency, Team: sk.Team, ID: sk.ID, Field: "requires",
					Err: referenceError(dep),
				})
			}
		}
		for _, name := range sk.Subagents {
			if _, ok := candidate.Subagent(sk.Team, name); !ok {
				violations = multierror.Append(violations, &skill.Error{
					Kind: skill.MissingDependency, Team: sk.Team, ID: sk.ID, Field: "subagents",
					Err: referenceError(name),
				})
			}
		}
	}
	if err := violations.ErrorOrNil(); err != nil {
		return nil, err
	}

	for _, team := range candidate.Teams() {
		if err := resolver.CheckAcyclic(candidate, team, candidate.SkillIDs(team)); err != nil {
			violations = multierror.Append(violations, err)
		}
	}
	if err := violations.ErrorOrNil(); err != nil {
		return nil, err
	}

	return candidate, nil
}

func referenceError(name string) error {
	return errors.Errorf("unknown reference %q", name)
}

func sortedSkills(s *Snapshot) []*skill.Skill {
	out := make([]*skill.Skill, 0, s.Len())
	for _, team := range s.Teams() {
		out = append(out, s.Skills(team)...)
	}
	return out
}
