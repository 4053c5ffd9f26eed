package trigger

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillet-sh/skillet/pkg/registry"
	"github.com/skillet-sh/skillet/pkg/skill"
)

func load(t *testing.T, defs ...skill.RawDefinition) *registry.Snapshot {
	t.Helper()
	snap, err := registry.Validate(registry.Batch{Skills: defs})
	require.NoError(t, err)
	return snap
}

func withTriggers(team, id string, triggers ...string) skill.RawDefinition {
	content := fmt.Sprintf("---\nname: %s\nversion: \"1.0\"\n", id)
	if len(triggers) > 0 {
		content += "triggers:\n"
		for _, trig := range triggers {
			content += fmt.Sprintf("  - %q\n", trig)
		}
	}
	content += "---\n\nBody.\n"
	return skill.RawDefinition{Team: team, Source: id, Content: []byte(content)}
}

func TestMatchSubstring(t *testing.T) {
	snap := load(t, withTriggers("omnia", "incident", "outage"))

	matches := Evaluate(snap, "omnia", "production outage detected")
	require.Len(t, matches, 1)
	assert.Equal(t, "incident", matches[0].ID)
	assert.Equal(t, []string{"outage"}, matches[0].Patterns)
}

func TestMatchCaseInsensitive(t *testing.T) {
	snap := load(t, withTriggers("omnia", "incident", "OUTAGE"))

	matches := Evaluate(snap, "omnia", "An Outage Happened")
	require.Len(t, matches, 1)
	assert.Equal(t, "incident", matches[0].ID)
}

func TestMatchMultiplePatternsAnnotated(t *testing.T) {
	snap := load(t, withTriggers("omnia", "incident", "outage", "sev1", "*page*"))

	matches := Evaluate(snap, "omnia", "sev1 outage, paged everyone")
	require.Len(t, matches, 1)
	assert.Equal(t, []string{"outage", "sev1", "*page*"}, matches[0].Patterns)
}

func TestMatchNoTriggersNeverAutoMatches(t *testing.T) {
	snap := load(t,
		withTriggers("omnia", "quiet"),
		withTriggers("omnia", "loud", "deploy"),
	)

	matches := Evaluate(snap, "omnia", "deploy the quiet service")
	require.Len(t, matches, 1)
	assert.Equal(t, "loud", matches[0].ID)
}

func TestMatchScopedToTeam(t *testing.T) {
	snap := load(t,
		withTriggers("omnia", "incident", "outage"),
		withTriggers("levvia", "fires", "outage"),
	)

	matches := Evaluate(snap, "levvia", "another outage")
	require.Len(t, matches, 1)
	assert.Equal(t, "fires", matches[0].ID)
}

func TestMatchOrderIndependence(t *testing.T) {
	a := withTriggers("omnia", "aaa", "incident")
	b := withTriggers("omnia", "bbb", "incident")
	c := withTriggers("omnia", "ccc", "incident")

	forward := load(t, a, b, c)
	reverse := load(t, c, b, a)

	text := "incident in progress"
	assert.Equal(t, Evaluate(forward, "omnia", text), Evaluate(reverse, "omnia", text))
	assert.Equal(t, []string{"aaa", "bbb", "ccc"}, IDs(Evaluate(forward, "omnia", text)))
}

func TestMatchEmptyText(t *testing.T) {
	snap := load(t, withTriggers("omnia", "incident", "outage"))
	assert.Empty(t, Evaluate(snap, "omnia", ""))
}

func TestIDs(t *testing.T) {
	matches := []Match{{ID: "a"}, {ID: "b"}}
	assert.Equal(t, []string{"a", "b"}, IDs(matches))
	assert.Empty(t, IDs(nil))
}
