// Package grant aggregates the capabilities an activation set confers.
// Aggregation is purely additive: the union of tools and subagents over the
// set, with no priority or removal semantics. Callers needing least-privilege
// filter the result against an external allowlist via Authorize.
package grant

import (
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/skillet-sh/skillet/pkg/skill"
)

// Grant is the union of capabilities over an activation set.
type Grant struct {
	Tools     []string // sorted, unique
	Subagents []string // sorted, unique
}

// Aggregate unions tools and subagents over the ordered activation set.
// Adding a skill to the set can only grow the grant, never shrink it.
func Aggregate(activation []*skill.Skill) Grant {
	tools := make(map[string]struct{})
	subagents := make(map[string]struct{})
	for _, sk := range activation {
		for _, tool := range sk.Tools {
			tools[tool] = struct{}{}
		}
		for _, agent := range sk.Subagents {
			subagents[agent] = struct{}{}
		}
	}
	return Grant{
		Tools:     sortedKeys(tools),
		Subagents: sortedKeys(subagents),
	}
}

// Authorize checks the granted tools against an external allowlist and
// returns an UnauthorizedTool error per tool outside it. A nil allowlist
// means no restriction.
func (g Grant) Authorize(allowlist []string) error {
	if allowlist == nil {
		return nil
	}
	allowed := make(map[string]struct{}, len(allowlist))
	for _, tool := range allowlist {
		allowed[tool] = struct{}{}
	}
	var violations *multierror.Error
	for _, tool := range g.Tools {
		if _, ok := allowed[tool]; !ok {
			violations = multierror.Append(violations, &skill.Error{
				Kind: skill.UnauthorizedTool, Tool: tool,
			})
		}
	}
	return violations.ErrorOrNil()
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
