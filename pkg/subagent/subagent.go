// Package subagent loads the per-team catalog of delegated subagents.
// Subagents are markdown files with YAML frontmatter naming the agent, its
// description, and the tools it may use; the body is its system prompt.
// Skills reference subagents by name, and those references are validated
// against this catalog when a registry snapshot is built.
package subagent

import (
	"bytes"
	"slices"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"

	"github.com/skillet-sh/skillet/pkg/skill"
)

// Subagent is a validated subagent definition.
type Subagent struct {
	Team         string
	Name         string
	Description  string
	AllowedTools []string // sorted, unique

	// Prompt is the markdown body: the subagent's system prompt. Opaque to
	// the engine, passed through to the conversation layer.
	Prompt string
	Source string
}

// Key returns the composite identity of the subagent within a snapshot.
func (a *Subagent) Key() skill.Key {
	return skill.Key{Team: a.Team, ID: a.Name}
}

// RawDefinition is one unparsed subagent unit in a load batch.
type RawDefinition struct {
	Team    string
	Source  string
	Content []byte
}

// Parse turns a raw subagent definition into a validated Subagent.
func Parse(team, source string, content []byte) (*Subagent, error) {
	if team == "" {
		return nil, &skill.Error{Kind: skill.ParseError, Field: "team", Err: errors.New("team scope is required")}
	}

	md := goldmark.New(goldmark.WithExtensions(meta.Meta))

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, &skill.Error{Kind: skill.ParseError, Team: team, Err: errors.Wrap(err, "parsing markdown")}
	}

	header := meta.Get(pctx)
	if header == nil {
		return nil, &skill.Error{Kind: skill.ParseError, Team: team, Field: "header", Err: errors.New("missing frontmatter")}
	}

	name, _ := header["name"].(string)
	if name == "" {
		return nil, &skill.Error{Kind: skill.ParseError, Team: team, Field: "name", Err: errors.New("required field is absent")}
	}

	description, _ := header["description"].(string)

	tools, err := toolList(header["allowed_tools"])
	if err != nil {
		return nil, &skill.Error{Kind: skill.ParseError, Team: team, ID: name, Field: "allowed_tools", Err: err}
	}
	sort.Strings(tools)
	tools = slices.Compact(tools)

	return &Subagent{
		Team:         team,
		Name:         name,
		Description:  description,
		AllowedTools: tools,
		Prompt:       strings.TrimRight(skill.StripFrontmatter(string(content)), "\n"),
		Source:       source,
	}, nil
}

func toolList(raw interface{}) ([]string, error) {
	if raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case string:
		return []string{v}, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, errors.Errorf("expected string list entries, got %T", item)
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, errors.Errorf("expected a string list, got %T", raw)
	}
}
