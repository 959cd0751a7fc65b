package diagnostic

import (
	"errors"
	"fmt"
	"strings"
)

// Well-known diagnostic codes emitted by the pipeline.
const (
	CodeShapeUnsupported  = "shape-unsupported"
	CodeEffectMissing     = "effect-missing"
	CodeDirectiveUnknown  = "directive-unknown-key"
	CodeDirectiveBadValue = "directive-bad-value"
	CodeUnavailable       = "availability-unavailable"
	CodeDeriveFailed      = "derive-failed"
)

// Diagnostics holds all diagnostic information from a synthesis run.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Decl identifies which source declaration this relates to (if any).
	Decl string
	// Convention identifies which derivation this relates to (if any).
	Convention string
	// Site is the source position in "file:line" form (if known).
	Site string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// AddError adds an error diagnostic at the given source site.
func (d *Diagnostics) AddError(code, message, decl, convention, site string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity:   SeverityError,
		Code:       code,
		Message:    message,
		Decl:       decl,
		Convention: convention,
		Site:       site,
	})
}

// AddWarning adds a warning diagnostic at the given source site.
func (d *Diagnostics) AddWarning(code, message, decl, convention, site string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity:   SeverityWarning,
		Code:       code,
		Message:    message,
		Decl:       decl,
		Convention: convention,
		Site:       site,
	})
}

// AddInfo adds an info diagnostic at the given source site.
func (d *Diagnostics) AddInfo(code, message, decl, convention, site string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity:   SeverityInfo,
		Code:       code,
		Message:    message,
		Decl:       decl,
		Convention: convention,
		Site:       site,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// All returns every diagnostic ordered errors, warnings, infos.
func (d *Diagnostics) All() []Diagnostic {
	out := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	out = append(out, d.Errors...)
	out = append(out, d.Warnings...)
	out = append(out, d.Infos...)

	return out
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Decl != "" {
		prefix = append(prefix, "["+d.Decl+"]")
	}

	if d.Convention != "" {
		prefix = append(prefix, d.Convention)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if d.Site != "" {
		msg = d.Site + ": " + msg
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
