package decl

import (
	"fmt"
	"strings"
)

// Directive marker prefixes recognized in doc comments.
const (
	derivePrefix   = "//bridgegen:derive"
	defaultsPrefix = "//bridgegen:defaults"
	guardPrefix    = "//bridgegen:guard"
)

// DirectiveKind discriminates the recognized directive forms.
type DirectiveKind int

const (
	// DirectiveDerive requests derivations for a function or interface.
	DirectiveDerive DirectiveKind = iota
	// DirectiveDefaults attaches configuration defaults to a type.
	DirectiveDefaults
	// DirectiveGuard requests synchronized accessors for a struct field.
	DirectiveGuard
)

// Directive is one parsed //bridgegen: comment.
type Directive struct {
	Kind DirectiveKind
	// Conventions are the requested targets for DirectiveDerive, in
	// source order (e.g. "blocking", "future", "callback", "stream").
	Conventions []string
	// Options are the key=value pairs following the convention list.
	Options map[string]string
	// Guard is the synchronization strategy for DirectiveGuard.
	Guard string
	// Pos is the source position in "file:line" form.
	Pos string
}

// ParseDirective parses a single comment line. The second return value is
// false when the line is not a bridgegen directive at all; an error means
// the line is a directive but malformed.
func ParseDirective(line, pos string) (*Directive, bool, error) {
	line = strings.TrimSpace(line)

	switch {
	case strings.HasPrefix(line, derivePrefix):
		d, err := parseDerive(strings.TrimPrefix(line, derivePrefix), pos)
		return d, true, err

	case strings.HasPrefix(line, defaultsPrefix):
		d, err := parseDefaults(strings.TrimPrefix(line, defaultsPrefix), pos)
		return d, true, err

	case strings.HasPrefix(line, guardPrefix):
		d, err := parseGuard(strings.TrimPrefix(line, guardPrefix), pos)
		return d, true, err

	default:
		return nil, false, nil
	}
}

// FindDirective scans a doc comment's lines for the first bridgegen
// directive.
func FindDirective(lines []string, pos string) (*Directive, error) {
	for _, line := range lines {
		d, ok, err := ParseDirective(line, pos)
		if err != nil {
			return nil, err
		}

		if ok {
			return d, nil
		}
	}

	return nil, nil
}

func parseDerive(rest, pos string) (*Directive, error) {
	fields, err := splitFields(rest)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pos, err)
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("%s: derive directive needs a convention list", pos)
	}

	d := &Directive{
		Kind:    DirectiveDerive,
		Options: make(map[string]string),
		Pos:     pos,
	}

	for _, c := range strings.Split(fields[0], ",") {
		c = strings.TrimSpace(c)
		if c == "" {
			return nil, fmt.Errorf("%s: empty convention in list %q", pos, fields[0])
		}

		d.Conventions = append(d.Conventions, c)
	}

	if err := parseOptions(fields[1:], d.Options, pos); err != nil {
		return nil, err
	}

	return d, nil
}

func parseDefaults(rest, pos string) (*Directive, error) {
	fields, err := splitFields(rest)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pos, err)
	}

	d := &Directive{
		Kind:    DirectiveDefaults,
		Options: make(map[string]string),
		Pos:     pos,
	}

	if err := parseOptions(fields, d.Options, pos); err != nil {
		return nil, err
	}

	return d, nil
}

func parseGuard(rest, pos string) (*Directive, error) {
	fields, err := splitFields(rest)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pos, err)
	}

	if len(fields) > 1 {
		return nil, fmt.Errorf("%s: guard directive takes at most one strategy", pos)
	}

	d := &Directive{Kind: DirectiveGuard, Pos: pos}

	// No strategy defers to the configured default.
	if len(fields) == 1 {
		d.Guard = fields[0]
	}

	return d, nil
}

func parseOptions(fields []string, into map[string]string, pos string) error {
	for _, f := range fields {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return fmt.Errorf("%s: option %q is not key=value", pos, f)
		}

		into[key] = unquote(value)
	}

	return nil
}

// splitFields splits on whitespace while keeping double-quoted values
// (including embedded spaces) intact.
func splitFields(s string) ([]string, error) {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	flush := func() {
		if current.Len() > 0 {
			fields = append(fields, current.String())
			current.Reset()
		}
	}

	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)

		case !inQuotes && (r == ' ' || r == '\t'):
			flush()

		default:
			current.WriteRune(r)
		}
	}

	if inQuotes {
		return nil, fmt.Errorf("unterminated quote in directive %q", strings.TrimSpace(s))
	}

	flush()

	return fields, nil
}

func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}

	return v
}
