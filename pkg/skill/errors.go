package skill

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorKind classifies engine errors so callers can branch on failure class
// without string matching.
type ErrorKind int

const (
	// ParseError indicates a malformed header or body.
	ParseError ErrorKind = iota
	// InvalidTrigger indicates a trigger pattern that fails to compile.
	InvalidTrigger
	// DuplicateIdentifier indicates the same (team, id) twice in one load batch.
	DuplicateIdentifier
	// MissingDependency indicates a referenced skill or subagent that does
	// not exist in the snapshot.
	MissingDependency
	// CycleDetected indicates a cycle in the requires graph.
	CycleDetected
	// ContextOverflow indicates a composed payload exceeding its budget.
	ContextOverflow
	// UnauthorizedTool indicates a granted tool rejected by an external
	// allowlist check.
	UnauthorizedTool
)

func (k ErrorKind) String() string {
	switch k {
	case ParseError:
		return "parse error"
	case InvalidTrigger:
		return "invalid trigger"
	case DuplicateIdentifier:
		return "duplicate identifier"
	case MissingDependency:
		return "missing dependency"
	case CycleDetected:
		return "cycle detected"
	case ContextOverflow:
		return "context overflow"
	case UnauthorizedTool:
		return "unauthorized tool"
	default:
		return fmt.Sprintf("unknown error kind %d", int(k))
	}
}

// Error is the structured error value surfaced by the engine. Every field
// except Kind is optional; populated fields identify the offending scope, id,
// field, pattern, tool, or cycle.
type Error struct {
	Kind    ErrorKind
	Team    string
	ID      string
	Field   string
	Pattern string
	Tool    string
	Cycle   []string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Team != "" || e.ID != "" {
		fmt.Fprintf(&b, " (%s)", Key{Team: e.Team, ID: e.ID})
	}
	switch {
	case e.Kind == CycleDetected && len(e.Cycle) > 0:
		fmt.Fprintf(&b, ": %s", strings.Join(e.Cycle, " -> "))
	case e.Kind == InvalidTrigger && e.Pattern != "":
		fmt.Fprintf(&b, ": pattern %q", e.Pattern)
	case e.Kind == UnauthorizedTool && e.Tool != "":
		fmt.Fprintf(&b, ": tool %q", e.Tool)
	case e.Field != "":
		fmt.Fprintf(&b, ": field %q", e.Field)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %s", e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err, or any error it wraps (including multierror
// aggregates), is a skill error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return FindKind(err, kind) != nil
}

// FindKind returns the first skill error of the given kind in err's chain,
// or nil if none is present. Multierror aggregates are searched member by
// member in order.
func FindKind(err error, kind ErrorKind) *Error {
	if err == nil {
		return nil
	}
	if se, ok := err.(*Error); ok { //nolint:errorlint
		if se.Kind == kind {
			return se
		}
		return FindKind(se.Err, kind)
	}
	switch agg := err.(type) { //nolint:errorlint
	case interface{ WrappedErrors() []error }:
		for _, member := range agg.WrappedErrors() {
			if found := FindKind(member, kind); found != nil {
				return found
			}
		}
		return nil
	case interface{ Unwrap() []error }:
		for _, member := range agg.Unwrap() {
			if found := FindKind(member, kind); found != nil {
				return found
			}
		}
		return nil
	}
	return FindKind(errors.Unwrap(err), kind)
}
