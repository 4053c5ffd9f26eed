package grant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillet-sh/skillet/pkg/skill"
)

func withCaps(id string, tools, subagents []string) *skill.Skill {
	return &skill.Skill{Team: "omnia", ID: id, Version: "1.0", Tools: tools, Subagents: subagents}
}

func TestAggregateUnion(t *testing.T) {
	activation := []*skill.Skill{
		withCaps("a", []string{"x"}, []string{"pager"}),
		withCaps("b", []string{"y", "x"}, nil),
	}

	g := Aggregate(activation)
	assert.Equal(t, []string{"x", "y"}, g.Tools)
	assert.Equal(t, []string{"pager"}, g.Subagents)
}

func TestAggregateMonotonic(t *testing.T) {
	activation := []*skill.Skill{withCaps("a", []string{"x"}, nil)}
	before := Aggregate(activation)

	// Adding a skill never removes a previously granted tool.
	activation = append(activation, withCaps("b", []string{"y"}, []string{"pager"}))
	after := Aggregate(activation)
	for _, tool := range before.Tools {
		assert.Contains(t, after.Tools, tool)
	}
}

func TestAggregateEmpty(t *testing.T) {
	g := Aggregate(nil)
	assert.Empty(t, g.Tools)
	assert.Empty(t, g.Subagents)
}

func TestAuthorize(t *testing.T) {
	g := Aggregate([]*skill.Skill{withCaps("a", []string{"kubectl", "rm-rf"}, nil)})

	t.Run("nil allowlist means no restriction", func(t *testing.T) {
		assert.NoError(t, g.Authorize(nil))
	})

	t.Run("all allowed", func(t *testing.T) {
		assert.NoError(t, g.Authorize([]string{"kubectl", "rm-rf", "extra"}))
	})

	t.Run("violations reported per tool", func(t *testing.T) {
		err := g.Authorize([]string{"kubectl"})
		require.Error(t, err)
		se := skill.FindKind(err, skill.UnauthorizedTool)
		require.NotNil(t, se)
		assert.Equal(t, "rm-rf", se.Tool)
	})

	t.Run("empty allowlist denies everything granted", func(t *testing.T) {
		err := g.Authorize([]string{})
		require.Error(t, err)
	})
}
