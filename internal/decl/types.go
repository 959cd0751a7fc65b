package decl

import "strings"

// DeclContext is the enclosing context of a source declaration.
type DeclContext int

const (
	// FreeFunction is a package-level function.
	FreeFunction DeclContext = iota
	// InterfaceMethod is a requirement of an annotated interface type.
	InterfaceMethod
)

// String returns a human-readable context name.
func (c DeclContext) String() string {
	switch c {
	case FreeFunction:
		return "function"
	case InterfaceMethod:
		return "interface method"
	default:
		return "unknown"
	}
}

// Effects are the effect qualifiers of a source declaration.
// Suspending means the first parameter is a context.Context; Fallible
// means the last result is an error.
type Effects struct {
	Suspending bool
	Fallible   bool
}

// Param is one ordered parameter of a declaration. The leading
// context.Context parameter is not part of the list; it is recorded as
// the Suspending effect instead.
type Param struct {
	// Name is the parameter name as written.
	Name string
	// Type is the parameter type as written (without "..." for variadics).
	Type string
	// Pointer reports whether the type is a pointer type.
	Pointer bool
	// Variadic reports whether this is the trailing variadic parameter.
	Variadic bool
}

// TypeParam is one generic type parameter with its constraint.
type TypeParam struct {
	Name       string
	Constraint string
}

// Declaration is the normalized, convention-agnostic view of a source
// declaration. Values are immutable per synthesis request: derivations
// read them and never write back.
type Declaration struct {
	// Name of the source function or method.
	Name string
	// Owner is the interface name for InterfaceMethod context, empty
	// otherwise.
	Owner string
	// Params is the ordered domain parameter list, preserved verbatim
	// across every derived signature.
	Params []Param
	// TypeParams is the generic parameter list, copied verbatim onto
	// derived declarations.
	TypeParams []TypeParam
	// Effects are the declaration's effect qualifiers.
	Effects Effects
	// Result is the value result type as written, "" for void. At most
	// one value result is supported.
	Result string
	// Context is the enclosing declaration context.
	Context DeclContext
	// Pos is the source position in "file:line" form, for diagnostics.
	Pos string
}

// ID returns the diagnostic identifier for this declaration, e.g.
// "UserService.Fetch" or "FetchUser".
func (d *Declaration) ID() string {
	if d.Owner != "" {
		return d.Owner + "." + d.Name
	}

	return d.Name
}

// Void reports whether the declaration has no value result.
func (d *Declaration) Void() bool {
	return d.Result == ""
}

// ParamsString renders the domain parameter list as it would appear in a
// signature, e.g. "id string, tags ...string".
func (d *Declaration) ParamsString() string {
	parts := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		typ := p.Type
		if p.Variadic {
			typ = "..." + typ
		}

		parts = append(parts, p.Name+" "+typ)
	}

	return strings.Join(parts, ", ")
}

// ArgsString renders the forwarded argument list, expanding the trailing
// variadic parameter, e.g. "id, tags...".
func (d *Declaration) ArgsString() string {
	parts := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		arg := p.Name
		if p.Variadic {
			arg += "..."
		}

		parts = append(parts, arg)
	}

	return strings.Join(parts, ", ")
}

// TypeParamsString renders the generic parameter list including brackets,
// e.g. "[K comparable, V any]". Empty for non-generic declarations.
func (d *Declaration) TypeParamsString() string {
	if len(d.TypeParams) == 0 {
		return ""
	}

	parts := make([]string, 0, len(d.TypeParams))
	for _, tp := range d.TypeParams {
		parts = append(parts, tp.Name+" "+tp.Constraint)
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// TypeArgsString renders the generic argument list including brackets,
// e.g. "[K, V]". Empty for non-generic declarations.
func (d *Declaration) TypeArgsString() string {
	if len(d.TypeParams) == 0 {
		return ""
	}

	parts := make([]string, 0, len(d.TypeParams))
	for _, tp := range d.TypeParams {
		parts = append(parts, tp.Name)
	}

	return "[" + strings.Join(parts, ", ") + "]"
}
