// Package discovery collects raw skill and subagent definitions from the
// filesystem. A definitions root is laid out per team scope:
//
//	<root>/<team>/skills/<skill-dir>/SKILL.md
//	<root>/<team>/subagents/<name>.md
//
// Multiple roots are searched in order; a repo-local root shadows entries of
// the same name in later (user-global) roots. Discovery reads bytes only —
// parsing and validation happen in the registry, so one load batch fails or
// publishes as a whole.
package discovery

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/skillet-sh/skillet/pkg/registry"
	"github.com/skillet-sh/skillet/pkg/skill"
	"github.com/skillet-sh/skillet/pkg/subagent"
)

const skillFileName = "SKILL.md"

// Discovery locates definition files under the configured roots.
type Discovery struct {
	roots []string
	teams []string // optional restriction; empty means every team found
}

// Option configures a Discovery.
type Option func(*Discovery) error

// WithRoots sets the definition roots, highest precedence first.
func WithRoots(roots ...string) Option {
	return func(d *Discovery) error {
		if len(roots) == 0 {
			return errors.New("at least one definitions root must be specified")
		}
		d.roots = roots
		return nil
	}
}

// WithDefaultRoots uses the repo-local root followed by the user-global one.
func WithDefaultRoots() Option {
	return func(d *Discovery) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		d.roots = []string{
			"./.skillet/teams", // Repo-local (highest precedence)
			filepath.Join(homeDir, ".skillet", "teams"), // User-global
		}
		return nil
	}
}

// WithTeams restricts discovery to the given team scopes.
func WithTeams(teams ...string) Option {
	return func(d *Discovery) error {
		d.teams = teams
		return nil
	}
}

// New creates a Discovery. With no options the default roots are used.
func New(opts ...Option) (*Discovery, error) {
	d := &Discovery{}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	if len(d.roots) == 0 {
		if err := WithDefaultRoots()(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Roots returns the configured definition roots in precedence order.
func (d *Discovery) Roots() []string {
	return append([]string(nil), d.roots...)
}

// Discover walks the roots and returns the raw batch for registry.Load.
// Missing roots are skipped; unreadable files fail the whole discovery so a
// load never silently drops definitions.
func (d *Discovery) Discover() (registry.Batch, error) {
	var batch registry.Batch
	seenSkills := make(map[skill.Key]struct{})
	seenAgents := make(map[skill.Key]struct{})

	for _, root := range d.roots {
		teams, err := d.teamDirs(root)
		if err != nil {
			return registry.Batch{}, err
		}
		for _, team := range teams {
			if err := d.collectSkills(root, team, seenSkills, &batch); err != nil {
				return registry.Batch{}, err
			}
			if err := d.collectSubagents(root, team, seenAgents, &batch); err != nil {
				return registry.Batch{}, err
			}
		}
	}
	return batch, nil
}

func (d *Discovery) teamDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading definitions root %s", root)
	}
	var teams []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if len(d.teams) > 0 && !slices.Contains(d.teams, entry.Name()) {
			continue
		}
		teams = append(teams, entry.Name())
	}
	return teams, nil
}

func (d *Discovery) collectSkills(root, team string, seen map[skill.Key]struct{}, batch *registry.Batch) error {
	skillsDir := filepath.Join(root, team, "skills")
	entries, err := os.ReadDir(skillsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "reading skills directory %s", skillsDir)
	}
	for _, entry := range entries {
		info, err := os.Stat(filepath.Join(skillsDir, entry.Name()))
		if err != nil || !info.IsDir() {
			continue
		}
		// Shadowing across roots is by directory name; duplicate ids
		// within one root surface as DuplicateIdentifier at load.
		key := skill.Key{Team: team, ID: entry.Name()}
		if _, shadowed := seen[key]; shadowed {
			continue
		}
		path := filepath.Join(skillsDir, entry.Name(), skillFileName)
		content, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return errors.Wrapf(err, "reading %s", path)
		}
		seen[key] = struct{}{}
		batch.Skills = append(batch.Skills, skill.RawDefinition{
			Team:    team,
			Source:  path,
			Content: content,
		})
	}
	return nil
}

func (d *Discovery) collectSubagents(root, team string, seen map[skill.Key]struct{}, batch *registry.Batch) error {
	agentsDir := filepath.Join(root, team, "subagents")
	entries, err := os.ReadDir(agentsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "reading subagents directory %s", agentsDir)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		key := skill.Key{Team: team, ID: strings.TrimSuffix(entry.Name(), ".md")}
		if _, shadowed := seen[key]; shadowed {
			continue
		}
		path := filepath.Join(agentsDir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "reading %s", path)
		}
		seen[key] = struct{}{}
		batch.Subagents = append(batch.Subagents, subagent.RawDefinition{
			Team:    team,
			Source:  path,
			Content: content,
		})
	}
	return nil
}
