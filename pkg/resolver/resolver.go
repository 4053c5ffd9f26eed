// Package resolver computes dependency-closed, deterministically ordered
// activation sets over the requires graph of a single team scope.
package resolver

import (
	"sort"

	"github.com/skillet-sh/skillet/pkg/skill"
)

// Source is the read-only skill lookup the resolver traverses. A registry
// snapshot satisfies it.
type Source interface {
	Lookup(team, id string) (*skill.Skill, bool)
}

// Resolve computes the transitive closure of the starting ids over requires
// edges and returns it in deterministic topological order: every dependency
// precedes its dependents, ties broken by lexicographic skill id. Resolving
// is idempotent; a set already containing its own dependencies yields the
// identical ordering.
//
// Cycles yield a CycleDetected error carrying the full ordered cycle.
// Unknown ids yield MissingDependency.
func Resolve(src Source, team string, ids []string) ([]*skill.Skill, error) {
	closure, err := transitiveClosure(src, team, ids)
	if err != nil {
		return nil, err
	}
	return order(closure), nil
}

// CheckAcyclic validates that the requires graph reachable from ids contains
// no cycle and no dangling reference. Used by the registry during load.
func CheckAcyclic(src Source, team string, ids []string) error {
	_, err := transitiveClosure(src, team, ids)
	return err
}

const (
	unvisited = iota
	inProgress
	done
)

// transitiveClosure walks the requires graph depth-first, collecting the closure and
// detecting cycles via the in-progress set.
func transitiveClosure(src Source, team string, ids []string) (map[string]*skill.Skill, error) {
	closure := make(map[string]*skill.Skill)
	state := make(map[string]int)
	var stack []string

	var visit func(id string) error
	visit = func(id string) error {
		sk, ok := src.Lookup(team, id)
		if !ok {
			return &skill.Error{Kind: skill.MissingDependency, Team: team, ID: id, Field: "requires"}
		}
		state[id] = inProgress
		stack = append(stack, id)
		for _, dep := range sk.Requires {
			switch state[dep] {
			case inProgress:
				return &skill.Error{Kind: skill.CycleDetected, Team: team, ID: dep, Cycle: cycleFrom(stack, dep)}
			case unvisited:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
		closure[id] = sk
		return nil
	}

	// Deterministic traversal regardless of the caller's id order.
	starts := append([]string(nil), ids...)
	sort.Strings(starts)
	for _, id := range starts {
		if state[id] == unvisited {
			if err := visit(id); err != nil {
				return nil, err
			}
		}
	}
	return closure, nil
}

// cycleFrom extracts the cycle members from the traversal stack, starting at
// the first occurrence of the re-entered id.
func cycleFrom(stack []string, id string) []string {
	for i, member := range stack {
		if member == id {
			return append([]string(nil), stack[i:]...)
		}
	}
	return append([]string(nil), id)
}

// order runs Kahn's algorithm over the closure, always picking the
// lexicographically smallest ready id so the result is reproducible.
func order(closure map[string]*skill.Skill) []*skill.Skill {
	indegree := make(map[string]int, len(closure))
	dependents := make(map[string][]string, len(closure))
	for id, sk := range closure {
		if _, ok := indegree[id]; !ok {
			indegree[id] = 0
		}
		for _, dep := range sk.Requires {
			indegree[id]++
			dependents[dep] = append(dependents[dep], id)
		}
	}

	ready := make([]string, 0, len(closure))
	for id, deg := range indegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	ordered := make([]*skill.Skill, 0, len(closure))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		ordered = append(ordered, closure[id])
		released := make([]string, 0, len(dependents[id]))
		for _, dependent := range dependents[id] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				released = append(released, dependent)
			}
		}
		if len(released) > 0 {
			ready = append(ready, released...)
			sort.Strings(ready)
		}
	}
	return ordered
}
