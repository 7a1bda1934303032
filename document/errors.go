package document

import "fmt"

// BuildError describes a structural violation in a construction document:
// wrong child arity, bad or conflicting parameters, an unknown kind, or an
// unresolved leaf name. The builder never returns a partially built tree
// alongside one.
type BuildError struct {
	// Kind is the offending node's kind key, when known.
	Kind string
	// Name is the offending node's name, when known.
	Name string
	// Line and Column locate the offending document node (1-based, 0 when
	// unknown).
	Line   int
	Column int
	// Reason describes the violation.
	Reason string
}

// Error implements error.
func (e *BuildError) Error() string {
	msg := "behavior tree document"
	if e.Line > 0 {
		msg = fmt.Sprintf("%s line %d", msg, e.Line)
	}
	switch {
	case e.Kind != "" && e.Name != "" && e.Name != e.Kind:
		msg = fmt.Sprintf("%s: %s %q", msg, e.Kind, e.Name)
	case e.Kind != "":
		msg = fmt.Sprintf("%s: %s", msg, e.Kind)
	}
	return fmt.Sprintf("%s: %s", msg, e.Reason)
}
