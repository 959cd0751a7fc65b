package decl

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"

	"golang.org/x/tools/go/packages"

	"bridgegen/internal/common"
	"bridgegen/internal/diagnostic"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Request is one derive directive bound to its classified subject.
type Request struct {
	// Directive is the call-site configuration layer.
	Directive *Directive
	// Defaults is the enclosing type's defaults directive, if any.
	Defaults *Directive
	Shape    Shape
	// Func is set for ShapeFunc.
	Func *Declaration
	// Iface and Methods are set for ShapeInterface.
	Iface   string
	Methods []*Declaration
}

// Guard strategies.
const (
	GuardSerial     = "serial"
	GuardConcurrent = "concurrent"
)

// GuardField is one struct field annotated for accessor synthesis.
type GuardField struct {
	Struct   string
	Field    string
	Type     string
	Strategy string
	Pos      string
}

// File groups everything collected from one source file.
type File struct {
	// Name is the base file name (e.g. "service.go").
	Name string
	// Package is the package name of the file.
	Package string
	// PkgPath is the package import path ("" for ParseSource input).
	PkgPath string
	// Dir is the directory holding the file.
	Dir string
	// Requests are the derive directives found in the file.
	Requests []Request
	// Guards are the guarded fields found in the file.
	Guards []GuardField
	// Imports maps package base names to import paths for the source
	// file, so derived signatures can re-import what they reference.
	Imports map[string]string
}

// Loader collects annotated declarations from Go packages.
type Loader struct {
	diags diagnostic.Diagnostics
}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Diagnostics returns the diagnostics collected so far.
func (l *Loader) Diagnostics() *diagnostic.Diagnostics {
	return &l.diags
}

// Load loads the given package patterns and collects every file holding
// bridgegen directives. Malformed declarations produce diagnostics and
// are skipped; sibling declarations still load.
func (l *Loader) Load(patterns ...string) ([]*File, error) {
	cfg := &packages.Config{Mode: LoadMode}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	var files []*File

	for _, pkg := range pkgs {
		for _, syntax := range pkg.Syntax {
			f := l.collectFile(syntax, pkg.Fset, pkg.Name, pkg.PkgPath)
			if f != nil {
				files = append(files, f)
			}
		}
	}

	return files, nil
}

// ParseSource collects directives from a single in-memory source file.
// Intended for tests and tooling; no type information is loaded.
func (l *Loader) ParseSource(filename, src string) (*File, error) {
	fset := token.NewFileSet()

	parsed, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	f := l.collectFile(parsed, fset, parsed.Name.Name, "")
	if f == nil {
		f = &File{
			Name:    filepath.Base(filename),
			Package: parsed.Name.Name,
			Imports: map[string]string{},
		}
	}

	return f, nil
}

// collectFile scans one parsed file and returns its annotated content,
// or nil when the file holds no directives.
func (l *Loader) collectFile(syntax *ast.File, fset *token.FileSet, pkgName, pkgPath string) *File {
	name := ""
	dir := ""

	if fset != nil {
		full := fset.Position(syntax.Pos()).Filename
		name = filepath.Base(full)
		dir = filepath.Dir(full)
	}

	f := &File{
		Name:    name,
		Package: pkgName,
		PkgPath: pkgPath,
		Dir:     dir,
		Imports: importMap(syntax),
	}

	for _, d := range syntax.Decls {
		switch n := d.(type) {
		case *ast.FuncDecl:
			l.collectFunc(f, n, fset)

		case *ast.GenDecl:
			if n.Tok == token.TYPE {
				l.collectTypes(f, n, fset)
			}
		}
	}

	if len(f.Requests) == 0 && len(f.Guards) == 0 {
		return nil
	}

	return f
}

func (l *Loader) collectFunc(f *File, fd *ast.FuncDecl, fset *token.FileSet) {
	directive := l.directiveOf(fd.Doc, fset, fd.Pos(), DirectiveDerive)
	if directive == nil {
		return
	}

	classified := Classify(fd)
	if classified.Shape == ShapeUnsupported {
		l.diags.AddError(diagnostic.CodeShapeUnsupported, classified.Reason, classified.Name, "",
			position(fset, fd.Pos()))
		return
	}

	d, err := FromFunc(fd, fset)
	if err != nil {
		l.diags.AddError(diagnostic.CodeShapeUnsupported, err.Error(), fd.Name.Name, "",
			position(fset, fd.Pos()))
		return
	}

	f.Requests = append(f.Requests, Request{
		Directive: directive,
		Shape:     ShapeFunc,
		Func:      d,
	})
}

func (l *Loader) collectTypes(f *File, gd *ast.GenDecl, fset *token.FileSet) {
	for _, spec := range gd.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}

		doc := ts.Doc
		if doc == nil {
			doc = gd.Doc
		}

		if st, ok := ts.Type.(*ast.StructType); ok {
			l.collectGuards(f, ts.Name.Name, st, fset)
		}

		directive := l.directiveOf(doc, fset, ts.Pos(), DirectiveDerive)
		if directive == nil {
			continue
		}

		classified := Classify(ts)
		if classified.Shape == ShapeUnsupported {
			l.diags.AddError(diagnostic.CodeShapeUnsupported, classified.Reason, classified.Name, "",
				position(fset, ts.Pos()))
			continue
		}

		methods, err := FromInterface(classified.Name, classified.Iface, fset)
		if err != nil {
			l.diags.AddError(diagnostic.CodeShapeUnsupported, err.Error(), classified.Name, "",
				position(fset, ts.Pos()))
			continue
		}

		f.Requests = append(f.Requests, Request{
			Directive: directive,
			Defaults:  l.directiveOf(doc, fset, ts.Pos(), DirectiveDefaults),
			Shape:     ShapeInterface,
			Iface:     classified.Name,
			Methods:   methods,
		})
	}
}

func (l *Loader) collectGuards(f *File, structName string, st *ast.StructType, fset *token.FileSet) {
	for _, field := range st.Fields.List {
		doc := field.Doc
		if doc == nil {
			doc = field.Comment
		}

		directive := l.directiveOf(doc, fset, field.Pos(), DirectiveGuard)
		if directive == nil {
			continue
		}

		// An empty strategy defers to the configured default.
		if directive.Guard != "" && directive.Guard != GuardSerial && directive.Guard != GuardConcurrent {
			l.diags.AddError(diagnostic.CodeDirectiveBadValue,
				fmt.Sprintf("unknown guard strategy %q (want serial or concurrent)", directive.Guard),
				structName, "", directive.Pos)
			continue
		}

		typ, _, _ := paramType(field.Type)

		for _, n := range field.Names {
			f.Guards = append(f.Guards, GuardField{
				Struct:   structName,
				Field:    n.Name,
				Type:     typ,
				Strategy: directive.Guard,
				Pos:      position(fset, field.Pos()),
			})
		}
	}
}

// directiveOf extracts the first directive of the wanted kind from a doc
// group, recording malformed directives as diagnostics.
func (l *Loader) directiveOf(doc *ast.CommentGroup, fset *token.FileSet, at token.Pos, kind DirectiveKind) *Directive {
	if doc == nil {
		return nil
	}

	pos := position(fset, at)

	for _, c := range doc.List {
		d, ok, err := ParseDirective(c.Text, pos)
		if err != nil {
			l.diags.AddError(diagnostic.CodeDirectiveBadValue, err.Error(), "", "", pos)
			continue
		}

		if ok && d.Kind == kind {
			return d
		}
	}

	return nil
}

// importMap builds a base-name to path map from a file's import specs.
func importMap(syntax *ast.File) map[string]string {
	m := make(map[string]string)

	for _, imp := range syntax.Imports {
		path := imp.Path.Value
		if len(path) >= 2 {
			path = path[1 : len(path)-1]
		}

		name := common.PkgAlias(path)
		if imp.Name != nil {
			name = imp.Name.Name
		}

		m[name] = path
	}

	return m
}
