package decl

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
)

// FromFunc normalizes a package-level function into a Declaration.
// The returned value is independent of the AST: later synthesis never
// mutates or re-reads the source node.
func FromFunc(fd *ast.FuncDecl, fset *token.FileSet) (*Declaration, error) {
	d := &Declaration{
		Name:    fd.Name.Name,
		Context: FreeFunction,
		Pos:     position(fset, fd.Pos()),
	}

	if err := fillSignature(d, fd.Type); err != nil {
		return nil, fmt.Errorf("%s: %w", d.ID(), err)
	}

	return d, nil
}

// FromInterface normalizes every method of an interface type into a
// Declaration with InterfaceMethod context. Embedded interfaces are not
// expanded and are reported as an error.
func FromInterface(name string, iface *ast.InterfaceType, fset *token.FileSet) ([]*Declaration, error) {
	var decls []*Declaration

	for _, m := range iface.Methods.List {
		ft, ok := m.Type.(*ast.FuncType)
		if !ok {
			return nil, fmt.Errorf("%s: embedded interfaces are not supported", name)
		}

		if len(m.Names) == 0 {
			return nil, fmt.Errorf("%s: unnamed interface method", name)
		}

		d := &Declaration{
			Name:    m.Names[0].Name,
			Owner:   name,
			Context: InterfaceMethod,
			Pos:     position(fset, m.Pos()),
		}

		if err := fillSignature(d, ft); err != nil {
			return nil, fmt.Errorf("%s: %w", d.ID(), err)
		}

		decls = append(decls, d)
	}

	return decls, nil
}

// fillSignature extracts parameters, type parameters, effects, and the
// result from a function type.
func fillSignature(d *Declaration, ft *ast.FuncType) error {
	if ft.TypeParams != nil {
		for _, f := range ft.TypeParams.List {
			constraint := types.ExprString(f.Type)
			for _, n := range f.Names {
				d.TypeParams = append(d.TypeParams, TypeParam{
					Name:       n.Name,
					Constraint: constraint,
				})
			}
		}
	}

	if err := fillParams(d, ft.Params); err != nil {
		return err
	}

	return fillResults(d, ft.Results)
}

func fillParams(d *Declaration, params *ast.FieldList) error {
	if params == nil {
		return nil
	}

	first := true
	idx := 0

	for _, f := range params.List {
		typ, pointer, variadic := paramType(f.Type)

		names := fieldNames(f, &idx)
		for _, name := range names {
			// A leading context.Context is the suspension marker, not a
			// domain parameter.
			if first && !variadic && typ == "context.Context" {
				d.Effects.Suspending = true
				first = false
				continue
			}

			first = false

			d.Params = append(d.Params, Param{
				Name:     name,
				Type:     typ,
				Pointer:  pointer,
				Variadic: variadic,
			})
		}
	}

	return nil
}

func fillResults(d *Declaration, results *ast.FieldList) error {
	if results == nil {
		return nil
	}

	var typs []string
	for _, f := range results.List {
		n := max(len(f.Names), 1)
		for i := 0; i < n; i++ {
			typs = append(typs, types.ExprString(f.Type))
		}
	}

	if len(typs) > 0 && typs[len(typs)-1] == "error" {
		d.Effects.Fallible = true
		typs = typs[:len(typs)-1]
	}

	switch len(typs) {
	case 0:
	case 1:
		d.Result = typs[0]
	default:
		return fmt.Errorf("more than one value result (%d) is not supported", len(typs))
	}

	return nil
}

// paramType renders a parameter type, unwrapping the variadic ellipsis.
func paramType(e ast.Expr) (typ string, pointer, variadic bool) {
	if ell, ok := e.(*ast.Ellipsis); ok {
		return types.ExprString(ell.Elt), false, true
	}

	_, pointer = e.(*ast.StarExpr)

	return types.ExprString(e), pointer, false
}

// fieldNames returns the names of a parameter field, synthesizing p0,
// p1, ... for unnamed parameters (common in interface methods). idx
// advances by the number of names consumed.
func fieldNames(f *ast.Field, idx *int) []string {
	if len(f.Names) == 0 {
		name := fmt.Sprintf("p%d", *idx)
		*idx++

		return []string{name}
	}

	names := make([]string, 0, len(f.Names))
	for _, n := range f.Names {
		names = append(names, n.Name)
		*idx++
	}

	return names
}

func position(fset *token.FileSet, pos token.Pos) string {
	if fset == nil {
		return ""
	}

	p := fset.Position(pos)

	return fmt.Sprintf("%s:%d", p.Filename, p.Line)
}
