package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillet-sh/skillet/pkg/skill"
)

type mapSource map[string]*skill.Skill

func (m mapSource) Lookup(_, id string) (*skill.Skill, bool) {
	sk, ok := m[id]
	return sk, ok
}

func graph(skills ...*skill.Skill) mapSource {
	src := make(mapSource, len(skills))
	for _, sk := range skills {
		src[sk.ID] = sk
	}
	return src
}

func node(id string, requires ...string) *skill.Skill {
	return &skill.Skill{Team: "omnia", ID: id, Version: "1.0", Requires: requires}
}

func ids(skills []*skill.Skill) []string {
	out := make([]string, len(skills))
	for i, sk := range skills {
		out[i] = sk.ID
	}
	return out
}

func TestResolveSimpleChain(t *testing.T) {
	src := graph(node("a"), node("b", "a"))

	ordered, err := Resolve(src, "omnia", []string{"b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(ordered))
}

func TestResolveDiamond(t *testing.T) {
	src := graph(
		node("base"),
		node("left", "base"),
		node("right", "base"),
		node("top", "left", "right"),
	)

	ordered, err := Resolve(src, "omnia", []string{"top"})
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "left", "right", "top"}, ids(ordered))
}

func TestResolveDeterministicTieBreak(t *testing.T) {
	// Independent roots come out lexicographically regardless of request order.
	src := graph(node("zeta"), node("alpha"), node("mid"))

	first, err := Resolve(src, "omnia", []string{"zeta", "mid", "alpha"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, ids(first))

	second, err := Resolve(src, "omnia", []string{"alpha", "zeta", "mid"})
	require.NoError(t, err)
	assert.Equal(t, ids(first), ids(second))
}

func TestResolveIdempotent(t *testing.T) {
	src := graph(node("a"), node("b", "a"), node("c", "b"))

	once, err := Resolve(src, "omnia", []string{"c"})
	require.NoError(t, err)

	// Resolving a set already containing its own dependencies yields the
	// identical ordering.
	again, err := Resolve(src, "omnia", ids(once))
	require.NoError(t, err)
	assert.Equal(t, ids(once), ids(again))
}

func TestResolveCycle(t *testing.T) {
	src := graph(node("a", "b"), node("b", "a"))

	_, err := Resolve(src, "omnia", []string{"a"})
	require.Error(t, err)
	se := skill.FindKind(err, skill.CycleDetected)
	require.NotNil(t, se)
	assert.ElementsMatch(t, []string{"a", "b"}, se.Cycle)
}

func TestResolveLongerCycle(t *testing.T) {
	src := graph(node("a", "b"), node("b", "c"), node("c", "a"), node("entry", "a"))

	_, err := Resolve(src, "omnia", []string{"entry"})
	require.Error(t, err)
	se := skill.FindKind(err, skill.CycleDetected)
	require.NotNil(t, se)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, se.Cycle)
}

func TestResolveSelfCycle(t *testing.T) {
	src := graph(node("selfish", "selfish"))

	_, err := Resolve(src, "omnia", []string{"selfish"})
	require.Error(t, err)
	se := skill.FindKind(err, skill.CycleDetected)
	require.NotNil(t, se)
	assert.Equal(t, []string{"selfish"}, se.Cycle)
}

func TestResolveMissingDependency(t *testing.T) {
	src := graph(node("a", "ghost"))

	_, err := Resolve(src, "omnia", []string{"a"})
	require.Error(t, err)
	se := skill.FindKind(err, skill.MissingDependency)
	require.NotNil(t, se)
	assert.Equal(t, "ghost", se.ID)
}

func TestResolveUnknownStart(t *testing.T) {
	src := graph(node("a"))

	_, err := Resolve(src, "omnia", []string{"nope"})
	require.Error(t, err)
	assert.True(t, skill.IsKind(err, skill.MissingDependency))
}

func TestResolveEmpty(t *testing.T) {
	ordered, err := Resolve(graph(), "omnia", nil)
	require.NoError(t, err)
	assert.Empty(t, ordered)
}

func TestCheckAcyclic(t *testing.T) {
	good := graph(node("a"), node("b", "a"))
	assert.NoError(t, CheckAcyclic(good, "omnia", []string{"a", "b"}))

	bad := graph(node("a", "b"), node("b", "a"))
	err := CheckAcyclic(bad, "omnia", []string{"a", "b"})
	assert.True(t, skill.IsKind(err, skill.CycleDetected))
}
