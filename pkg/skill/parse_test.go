package skill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	content := `---
name: incident-response
version: 1.2.0
display_name: Incident Response
description: Handles production incidents
tags:
  - ops
  - core
requires:
  - runbooks
subagents:
  - pager
tools:
  - kubectl
  - logcli
triggers:
  - outage
  - "sev? incident"
---

# Incident Response

Page the on-call engineer first.
`
	sk, err := Parse("omnia", "omnia/skills/incident-response/SKILL.md", []byte(content))
	require.NoError(t, err)

	assert.Equal(t, "omnia", sk.Team)
	assert.Equal(t, "incident-response", sk.ID)
	assert.Equal(t, "1.2.0", sk.Version)
	assert.Equal(t, "Incident Response", sk.DisplayName)
	assert.Equal(t, "Handles production incidents", sk.Description)
	assert.Equal(t, []string{"core", "ops"}, sk.Tags)
	assert.Equal(t, []string{"runbooks"}, sk.Requires)
	assert.Equal(t, []string{"pager"}, sk.Subagents)
	assert.Equal(t, []string{"kubectl", "logcli"}, sk.Tools)
	assert.Equal(t, []string{"outage", "sev? incident"}, sk.TriggerPatterns())
	assert.Contains(t, sk.Body, "# Incident Response")
	assert.NotContains(t, sk.Body, "version:")
	assert.Len(t, sk.BodyDigest, 64)
	assert.Equal(t, Key{Team: "omnia", ID: "incident-response"}, sk.Key())
}

func TestParseDefaults(t *testing.T) {
	content := `---
name: minimal
version: "0.1.0"
---

Body only.
`
	sk, err := Parse("omnia", "test", []byte(content))
	require.NoError(t, err)
	assert.Empty(t, sk.Tags)
	assert.Empty(t, sk.Requires)
	assert.Empty(t, sk.Subagents)
	assert.Empty(t, sk.Tools)
	assert.Empty(t, sk.Triggers)
}

func TestParseScalarListCoercion(t *testing.T) {
	// A bare string is accepted as a one-element list.
	content := `---
name: single
version: "1.0"
tools: kubectl
triggers: outage
---
`
	sk, err := Parse("omnia", "test", []byte(content))
	require.NoError(t, err)
	assert.Equal(t, []string{"kubectl"}, sk.Tools)
	assert.Equal(t, []string{"outage"}, sk.TriggerPatterns())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		team    string
		content string
		kind    ErrorKind
		field   string
	}{
		{
			name:    "missing frontmatter",
			team:    "omnia",
			content: "# Just markdown\n",
			kind:    ParseError,
			field:   "header",
		},
		{
			name: "missing name",
			team: "omnia",
			content: `---
version: "1.0"
---
`,
			kind:  ParseError,
			field: "name",
		},
		{
			name: "missing version",
			team: "omnia",
			content: `---
name: no-version
---
`,
			kind:  ParseError,
			field: "version",
		},
		{
			name: "invalid id",
			team: "omnia",
			content: `---
name: Bad_Name
version: "1.0"
---
`,
			kind:  ParseError,
			field: "name",
		},
		{
			name: "non-string list entry",
			team: "omnia",
			content: `---
name: bad-list
version: "1.0"
tools:
  - kubectl
  - 42
---
`,
			kind:  ParseError,
			field: "tools",
		},
		{
			name:    "empty team scope",
			team:    "",
			content: "---\nname: x\nversion: \"1.0\"\n---\n",
			kind:    ParseError,
			field:   "team",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.team, "test", []byte(tt.content))
			require.Error(t, err)
			se := FindKind(err, tt.kind)
			require.NotNil(t, se, "expected %s, got %v", tt.kind, err)
			assert.Equal(t, tt.field, se.Field)
		})
	}
}

func TestParseInvalidTrigger(t *testing.T) {
	content := `---
name: bad-trigger
version: "1.0"
triggers:
  - "[unclosed"
---
`
	_, err := Parse("omnia", "test", []byte(content))
	require.Error(t, err)
	se := FindKind(err, InvalidTrigger)
	require.NotNil(t, se)
	assert.Equal(t, "[unclosed", se.Pattern)
	assert.Equal(t, "bad-trigger", se.ID)
	assert.Equal(t, "omnia", se.Team)
}

func TestParseBodyDigestStable(t *testing.T) {
	content := []byte("---\nname: stable\nversion: \"1.0\"\n---\n\nSame body.\n")
	first, err := Parse("omnia", "a", content)
	require.NoError(t, err)
	second, err := Parse("levvia", "b", content)
	require.NoError(t, err)
	assert.Equal(t, first.BodyDigest, second.BodyDigest)
}

func TestValidateID(t *testing.T) {
	valid := []string{"a", "deploy", "team-context", "v2-runbooks"}
	for _, id := range valid {
		assert.NoError(t, validateID(id), id)
	}
	invalid := []string{"-lead", "trail-", "double--hyphen", "UPPER", "under_score", "dots.here"}
	for _, id := range invalid {
		assert.Error(t, validateID(id), id)
	}
}
