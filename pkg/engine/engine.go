// Package engine is the facade surfaced to the surrounding conversation and
// tool-execution layer. It wires the registry, resolver, trigger matcher,
// permission aggregator, and context composer into a single activation
// pipeline that always operates against one snapshot captured at entry.
package engine

import (
	"github.com/skillet-sh/skillet/pkg/composer"
	"github.com/skillet-sh/skillet/pkg/grant"
	"github.com/skillet-sh/skillet/pkg/registry"
	"github.com/skillet-sh/skillet/pkg/resolver"
	"github.com/skillet-sh/skillet/pkg/skill"
	"github.com/skillet-sh/skillet/pkg/trigger"
)

// Engine composes the core components behind one API.
type Engine struct {
	registry    *registry.Registry
	alwaysOnTag string
	budget      composer.Options
	allowlist   []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithAlwaysOnTag auto-activates skills carrying the given tag even when no
// trigger matches. Trigger-less "core" skills are otherwise reachable only by
// explicit request or as dependencies; this makes tag-based activation an
// opt-in policy.
func WithAlwaysOnTag(tag string) Option {
	return func(e *Engine) { e.alwaysOnTag = tag }
}

// WithContextBudget bounds composed payloads to maxBytes. Zero or negative
// means unbounded.
func WithContextBudget(maxBytes int) Option {
	return func(e *Engine) { e.budget.MaxBytes = maxBytes }
}

// WithTruncation truncates oversized payloads at a skill boundary instead of
// rejecting them.
func WithTruncation() Option {
	return func(e *Engine) { e.budget.Mode = composer.Truncate }
}

// WithToolAllowlist layers a least-privilege check over the aggregated grant:
// Activate fails with UnauthorizedTool when a skill grants a tool outside the
// list.
func WithToolAllowlist(tools ...string) Option {
	return func(e *Engine) {
		if e.allowlist == nil {
			e.allowlist = []string{}
		}
		e.allowlist = append(e.allowlist, tools...)
	}
}

// New creates an engine with an empty published snapshot.
func New(opts ...Option) *Engine {
	e := &Engine{registry: registry.New()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load validates and atomically publishes a new snapshot. A failed load
// leaves the current snapshot in place.
func (e *Engine) Load(batch registry.Batch) (*registry.Snapshot, error) {
	return e.registry.Load(batch)
}

// Current returns the presently published snapshot.
func (e *Engine) Current() *registry.Snapshot {
	return e.registry.Current()
}

// Resolve computes the dependency-closed, deterministically ordered
// activation set for the given skill ids.
func (e *Engine) Resolve(snap *registry.Snapshot, team string, ids []string) ([]*skill.Skill, error) {
	return resolver.Resolve(snap, team, ids)
}

// Match returns the skills whose triggers fire on the text, sorted by id.
func (e *Engine) Match(snap *registry.Snapshot, team, text string) []trigger.Match {
	return trigger.Evaluate(snap, team, text)
}

// ToolsFor returns the union of tools granted by an activation set.
func (e *Engine) ToolsFor(activation []*skill.Skill) []string {
	return grant.Aggregate(activation).Tools
}

// Compose merges the activation set's bodies into one payload bounded by
// maxBytes (<= 0 for the engine's configured budget).
func (e *Engine) Compose(activation []*skill.Skill, maxBytes int) (string, error) {
	opts := e.budget
	if maxBytes > 0 {
		opts.MaxBytes = maxBytes
	}
	return composer.Compose(activation, opts)
}

// Activation is the full result of running the pipeline for one request.
type Activation struct {
	Skills  []*skill.Skill
	Matches []trigger.Match
	Grant   grant.Grant
	Context string
}

// Activate runs the whole pipeline for one request: trigger matching over
// the text, union with explicitly requested ids and the always-on policy,
// dependency resolution, permission aggregation, and context composition.
// The snapshot is captured once; reloads during the request have no effect.
func (e *Engine) Activate(team, text string, explicit ...string) (*Activation, error) {
	snap := e.registry.Current()

	matches := trigger.Evaluate(snap, team, text)

	candidates := make(map[string]struct{})
	for _, m := range matches {
		candidates[m.ID] = struct{}{}
	}
	for _, id := range explicit {
		candidates[id] = struct{}{}
	}
	if e.alwaysOnTag != "" {
		for _, sk := range snap.Skills(team) {
			if sk.HasTag(e.alwaysOnTag) {
				candidates[sk.ID] = struct{}{}
			}
		}
	}

	ids := make([]string, 0, len(candidates))
	for id := range candidates {
		ids = append(ids, id)
	}

	activation, err := resolver.Resolve(snap, team, ids)
	if err != nil {
		return nil, err
	}

	g := grant.Aggregate(activation)
	if err := g.Authorize(e.allowlist); err != nil {
		return nil, err
	}

	context, err := composer.Compose(activation, e.budget)
	if err != nil {
		return nil, err
	}

	return &Activation{
		Skills:  activation,
		Matches: matches,
		Grant:   g,
		Context: context,
	}, nil
}
