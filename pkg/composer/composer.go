// Package composer merges the bodies of an ordered activation set into one
// bounded instruction payload. Bodies are opaque: the composer concatenates,
// it never interprets or rewrites.
package composer

import (
	"strings"

	"github.com/skillet-sh/skillet/pkg/skill"
)

// Mode selects the behavior when the composed payload would exceed the
// budget.
type Mode int

const (
	// Reject fails composition with a ContextOverflow error.
	Reject Mode = iota
	// Truncate stops at the last whole skill body that fits. Bodies are
	// never cut mid-text; dependencies always land before dependents, so
	// truncation drops the least foundational skills first.
	Truncate
)

// separator joins skill bodies in the composed payload.
const separator = "\n\n"

// Options bound the composed payload. MaxBytes <= 0 means unbounded.
type Options struct {
	MaxBytes int
	Mode     Mode
}

// Compose concatenates each skill's body in activation order (dependencies
// before dependents) into a single payload within the configured budget.
func Compose(activation []*skill.Skill, opts Options) (string, error) {
	var b strings.Builder
	for _, sk := range activation {
		piece := sk.Body
		if b.Len() > 0 {
			piece = separator + piece
		}
		if opts.MaxBytes > 0 && b.Len()+len(piece) > opts.MaxBytes {
			if opts.Mode == Truncate {
				break
			}
			return "", &skill.Error{
				Kind: skill.ContextOverflow,
				Team: sk.Team,
				ID:   sk.ID,
			}
		}
		b.WriteString(piece)
	}
	return b.String(), nil
}
