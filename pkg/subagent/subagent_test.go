package subagent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillet-sh/skillet/pkg/skill"
)

func TestParse(t *testing.T) {
	content := `---
name: pager
description: Pages the on-call engineer
allowed_tools:
  - pagerduty
  - slack
---

You are the paging agent. Keep messages short.
`
	agent, err := Parse("omnia", "omnia/subagents/pager.md", []byte(content))
	require.NoError(t, err)

	assert.Equal(t, "omnia", agent.Team)
	assert.Equal(t, "pager", agent.Name)
	assert.Equal(t, "Pages the on-call engineer", agent.Description)
	assert.Equal(t, []string{"pagerduty", "slack"}, agent.AllowedTools)
	assert.Contains(t, agent.Prompt, "paging agent")
	assert.NotContains(t, agent.Prompt, "allowed_tools")
	assert.Equal(t, skill.Key{Team: "omnia", ID: "pager"}, agent.Key())
}

func TestParseScalarTool(t *testing.T) {
	content := "---\nname: solo\nallowed_tools: slack\n---\n"
	agent, err := Parse("omnia", "test", []byte(content))
	require.NoError(t, err)
	assert.Equal(t, []string{"slack"}, agent.AllowedTools)
}

func TestParseErrors(t *testing.T) {
	t.Run("missing frontmatter", func(t *testing.T) {
		_, err := Parse("omnia", "test", []byte("plain text"))
		assert.True(t, skill.IsKind(err, skill.ParseError))
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := Parse("omnia", "test", []byte("---\ndescription: anonymous\n---\n"))
		require.Error(t, err)
		se := skill.FindKind(err, skill.ParseError)
		require.NotNil(t, se)
		assert.Equal(t, "name", se.Field)
	})

	t.Run("empty team", func(t *testing.T) {
		_, err := Parse("", "test", []byte("---\nname: pager\n---\n"))
		assert.True(t, skill.IsKind(err, skill.ParseError))
	})

	t.Run("bad tool list", func(t *testing.T) {
		_, err := Parse("omnia", "test", []byte("---\nname: pager\nallowed_tools:\n  - 42\n---\n"))
		require.Error(t, err)
		se := skill.FindKind(err, skill.ParseError)
		require.NotNil(t, se)
		assert.Equal(t, "allowed_tools", se.Field)
	})
}
