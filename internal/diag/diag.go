// Package diag carries recoverable pipeline conditions as values.
//
// Rule: only a missing repository root and a filesystem write failure
// abort a run. Everything else — missing fragments, fragment parse
// failures, invariant violations, schema findings — is accumulated as
// a Diagnostic on the run result and surfaced at the CLI boundary.
package diag

import "fmt"

// Code identifies the diagnostic condition for machines.
type Code string

const (
	MissingFragment   Code = "missing_fragment"
	FragmentParse     Code = "fragment_parse"
	FragmentInvariant Code = "fragment_invariant"
	Validation        Code = "validation"
)

// Severity ranks a diagnostic. Warnings never fail a run; errors fail
// validate-only runs and flip the CLI exit code.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is one recoverable condition observed during a run.
type Diagnostic struct {
	Code       Code     `json:"code"`
	Severity   Severity `json:"severity"`
	Technology string   `json:"technology,omitempty"` // fragment that caused it, if any
	Path       string   `json:"path,omitempty"`       // document path for validation findings
	Message    string   `json:"message"`
}

func (d Diagnostic) String() string {
	s := string(d.Code)
	if d.Technology != "" {
		s += " [" + d.Technology + "]"
	}
	if d.Path != "" {
		s += " at " + d.Path
	}
	return s + ": " + d.Message
}

// Warningf builds a warning diagnostic scoped to a technology.
func Warningf(code Code, technology, format string, args ...any) Diagnostic {
	return Diagnostic{
		Code:       code,
		Severity:   SeverityWarning,
		Technology: technology,
		Message:    fmt.Sprintf(format, args...),
	}
}

// Errorf builds an error diagnostic scoped to a technology.
func Errorf(code Code, technology, format string, args ...any) Diagnostic {
	return Diagnostic{
		Code:       code,
		Severity:   SeverityError,
		Technology: technology,
		Message:    fmt.Sprintf(format, args...),
	}
}

// HasErrors reports whether any diagnostic in the list is an error.
func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
