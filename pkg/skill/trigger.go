package skill

import (
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// Trigger is a compiled activation pattern. Patterns containing glob
// metacharacters match the whole input (use "*outage*" for containment);
// plain patterns are case-insensitive substring searches.
type Trigger struct {
	Raw string

	glob   glob.Glob
	substr string
}

const globMetachars = "*?[{\\"

// CompileTrigger validates and compiles a raw trigger pattern.
func CompileTrigger(raw string) (Trigger, error) {
	if strings.TrimSpace(raw) == "" {
		return Trigger{}, errors.New("trigger pattern is empty")
	}
	if !strings.ContainsAny(raw, globMetachars) {
		return Trigger{Raw: raw, substr: strings.ToLower(raw)}, nil
	}
	g, err := glob.Compile(strings.ToLower(raw))
	if err != nil {
		return Trigger{}, errors.Wrap(err, "compiling glob")
	}
	return Trigger{Raw: raw, glob: g}, nil
}

// Matches reports whether the trigger fires on the given free-text input.
// Matching is case-insensitive.
func (t Trigger) Matches(text string) bool {
	lower := strings.ToLower(text)
	if t.glob != nil {
		return t.glob.Match(lower)
	}
	return strings.Contains(lower, t.substr)
}
