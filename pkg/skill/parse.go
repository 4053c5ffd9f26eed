package skill

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// RawDefinition is one unparsed definition unit handed to the registry:
// frontmatter header plus markdown body, with its owning team scope.
type RawDefinition struct {
	Team    string
	Source  string
	Content []byte
}

// Parse turns a raw definition into a validated Skill. It is a pure
// transformation: no side effects, no I/O. Failures are *Error values of
// kind ParseError or InvalidTrigger identifying the offending field.
func Parse(team, source string, content []byte) (*Skill, error) {
	if team == "" {
		return nil, &Error{Kind: ParseError, Field: "team", Err: errors.New("team scope is required")}
	}

	md := goldmark.New(goldmark.WithExtensions(meta.Meta))

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, &Error{Kind: ParseError, Team: team, Err: errors.Wrap(err, "parsing markdown")}
	}

	header := meta.Get(pctx)
	if header == nil {
		return nil, &Error{Kind: ParseError, Team: team, Field: "header", Err: errors.New("missing frontmatter")}
	}

	id, err := headerString(header, "name")
	if err != nil {
		return nil, &Error{Kind: ParseError, Team: team, Field: "name", Err: err}
	}
	if id == "" {
		return nil, &Error{Kind: ParseError, Team: team, Field: "name", Err: errors.New("required field is absent")}
	}
	if err := validateID(id); err != nil {
		return nil, &Error{Kind: ParseError, Team: team, ID: id, Field: "name", Err: err}
	}

	version, err := headerString(header, "version")
	if err != nil {
		return nil, &Error{Kind: ParseError, Team: team, ID: id, Field: "version", Err: err}
	}
	if version == "" {
		return nil, &Error{Kind: ParseError, Team: team, ID: id, Field: "version", Err: errors.New("required field is absent")}
	}

	s := &Skill{
		Team:    team,
		ID:      id,
		Version: version,
		Source:  source,
	}
	if s.DisplayName, err = headerString(header, "display_name"); err != nil {
		return nil, &Error{Kind: ParseError, Team: team, ID: id, Field: "display_name", Err: err}
	}
	if s.Description, err = headerString(header, "description"); err != nil {
		return nil, &Error{Kind: ParseError, Team: team, ID: id, Field: "description", Err: err}
	}

	for _, field := range []struct {
		name string
		dst  *[]string
	}{
		{"tags", &s.Tags},
		{"requires", &s.Requires},
		{"subagents", &s.Subagents},
		{"tools", &s.Tools},
	} {
		values, err := headerStringList(header, field.name)
		if err != nil {
			return nil, &Error{Kind: ParseError, Team: team, ID: id, Field: field.name, Err: err}
		}
		*field.dst = sortedSet(values)
	}

	patterns, err := headerStringList(header, "triggers")
	if err != nil {
		return nil, &Error{Kind: ParseError, Team: team, ID: id, Field: "triggers", Err: err}
	}
	for _, pattern := range patterns {
		t, err := CompileTrigger(pattern)
		if err != nil {
			return nil, &Error{Kind: InvalidTrigger, Team: team, ID: id, Field: "triggers", Pattern: pattern, Err: err}
		}
		s.Triggers = append(s.Triggers, t)
	}

	s.Body = strings.TrimRight(StripFrontmatter(string(content)), "\n")
	digest := sha256.Sum256([]byte(s.Body))
	s.BodyDigest = hex.EncodeToString(digest[:])

	return s, nil
}

// headerString reads an optional scalar frontmatter field.
func headerString(header map[string]interface{}, key string) (string, error) {
	raw, ok := header[key]
	if !ok || raw == nil {
		return "", nil
	}
	switch v := raw.(type) {
	case string:
		return v, nil
	case int, int64, float64, bool:
		return fmt.Sprintf("%v", v), nil
	default:
		return "", errors.Errorf("expected a string, got %T", raw)
	}
}

// headerStringList reads an optional list frontmatter field. A bare string is
// accepted as a one-element list. Absent fields default to empty.
func headerStringList(header map[string]interface{}, key string) ([]string, error) {
	raw, ok := header[key]
	if !ok || raw == nil {
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

// validateID enforces the skill naming convention: 1-64 characters of
// lowercase letters, digits, and single interior hyphens.
func validateID(id string) error {
	if len(id) > 64 {
		return errors.New("name must be 1-64 characters")
	}
	if strings.HasPrefix(id, "-") || strings.HasSuffix(id, "-") {
		return errors.New("name cannot start or end with a hyphen")
	}
	if strings.Contains(id, "--") {
		return errors.New("name cannot contain consecutive hyphens")
	}
	for _, r := range id {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return errors.New("name may only contain lowercase letters, digits, and hyphens")
		}
	}
	return nil
}

// StripFrontmatter removes the leading frontmatter block and returns the
// opaque body text. Content without a closed frontmatter block is returned
// unchanged.
func StripFrontmatter(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}
	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
		}
	}
	return content
}

func sortedSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
