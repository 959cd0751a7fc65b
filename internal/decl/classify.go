package decl

import (
	"go/ast"
)

// Shape is the closed set of declaration shapes the pipeline accepts.
// Annotated nodes are classified exactly once; all downstream code
// switches on the resulting Shape instead of re-inspecting the AST.
type Shape int

const (
	// ShapeUnsupported rejects the node; Reason says why.
	ShapeUnsupported Shape = iota
	// ShapeFunc is a package-level function declaration.
	ShapeFunc
	// ShapeInterface is an interface type declaration whose methods are
	// treated as protocol requirements.
	ShapeInterface
)

// String returns a human-readable shape name.
func (s Shape) String() string {
	switch s {
	case ShapeFunc:
		return "function"
	case ShapeInterface:
		return "interface"
	default:
		return "unsupported"
	}
}

// Classified is the outcome of the one-pass shape classification.
type Classified struct {
	Shape  Shape
	Func   *ast.FuncDecl
	Name   string
	Iface  *ast.InterfaceType
	Reason string
}

// Classify inspects an annotated AST node and assigns it a Shape.
// A derive directive is valid on package-level functions and on
// interface type declarations; everything else is rejected with a
// reason suitable for a diagnostic.
func Classify(node ast.Node) Classified {
	switch n := node.(type) {
	case *ast.FuncDecl:
		if n.Recv != nil {
			return Classified{
				Shape:  ShapeUnsupported,
				Name:   n.Name.Name,
				Reason: "derive directives are not supported on methods; annotate the interface instead",
			}
		}

		return Classified{Shape: ShapeFunc, Func: n, Name: n.Name.Name}

	case *ast.TypeSpec:
		iface, ok := n.Type.(*ast.InterfaceType)
		if !ok {
			return Classified{
				Shape:  ShapeUnsupported,
				Name:   n.Name.Name,
				Reason: "derive directives on types require an interface type",
			}
		}

		return Classified{Shape: ShapeInterface, Iface: iface, Name: n.Name.Name}

	default:
		return Classified{
			Shape:  ShapeUnsupported,
			Reason: "derive directives are only supported on functions and interface types",
		}
	}
}
