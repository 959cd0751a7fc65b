package synth

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"sort"
	"strings"
	"text/template"

	"bridgegen/internal/common"
	"bridgegen/internal/config"
	"bridgegen/internal/decl"
	"bridgegen/internal/diagnostic"
	"bridgegen/internal/transform"
)

// BridgePkgPath is the import path of the runtime package referenced by
// generated bodies.
const BridgePkgPath = "bridgegen/bridge"

// Options holds configuration for code generation.
type Options struct {
	// OutputSuffix is appended to the source file base name, default
	// "_bridgegen".
	OutputSuffix string
}

// DefaultOptions returns the default generator options.
func DefaultOptions() Options {
	return Options{OutputSuffix: "_bridgegen"}
}

// Generator turns collected declaration files into generated Go source.
type Generator struct {
	opts    Options
	process *config.Process
	diags   diagnostic.Diagnostics
}

// NewGenerator creates a Generator. A nil process is treated as an
// empty process configuration layer.
func NewGenerator(opts Options, process *config.Process) *Generator {
	if opts.OutputSuffix == "" {
		opts.OutputSuffix = DefaultOptions().OutputSuffix
	}

	if process == nil {
		process = config.NewProcess()
	}

	return &Generator{opts: opts, process: process}
}

// Diagnostics returns the diagnostics collected across Generate calls.
func (g *Generator) Diagnostics() *diagnostic.Diagnostics {
	return &g.diags
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the base name (e.g. "service_bridgegen.go").
	Filename string
	// Dir is the directory of the originating source file.
	Dir string
	// Content is the formatted Go source code.
	Content []byte
}

// Generate produces one output file per input file holding at least one
// successful derivation. Failed derivations surface as diagnostics and
// never abort siblings.
func (g *Generator) Generate(files []*decl.File) ([]GeneratedFile, error) {
	var out []GeneratedFile

	for _, f := range files {
		gf, err := g.generateFile(f)
		if err != nil {
			return nil, fmt.Errorf("generating for %s: %w", f.Name, err)
		}

		if gf != nil {
			out = append(out, *gf)
		}
	}

	return out, nil
}

// templateData holds all data needed for the output file template.
type templateData struct {
	Package string
	Imports []importSpec
	Ifaces  []ifaceData
	Funcs   []funcData
	Vars    []string
}

type importSpec struct {
	Alias string
	Path  string
}

type ifaceData struct {
	Doc     []string
	Name    string
	Methods []methodData
	// Adapter is the paired default-implementation type name, "" when
	// extension generation is disabled.
	Adapter string
	Source  string
}

type methodData struct {
	Doc []string
	Sig string
}

type funcData struct {
	Doc  []string
	Recv string
	Sig  string
	Body string
}

func (g *Generator) generateFile(f *decl.File) (*GeneratedFile, error) {
	data := &templateData{Package: f.Package}

	for i := range f.Requests {
		g.buildRequest(data, &f.Requests[i])
	}

	g.buildAccessors(data, f)

	if len(data.Funcs) == 0 && len(data.Ifaces) == 0 {
		return nil, nil
	}

	data.Imports = g.collectImports(data, f)

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	filename := strings.TrimSuffix(f.Name, ".go") + g.opts.OutputSuffix + ".go"

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		if f.Dir != "" {
			_ = writeDebugUnformatted(f.Dir, filename, buf.Bytes())
		}

		// Return unformatted code for debugging.
		return &GeneratedFile{
			Filename: filename,
			Dir:      f.Dir,
			Content:  buf.Bytes(),
		}, fmt.Errorf("formatting code: %w (unformatted code returned)", err)
	}

	return &GeneratedFile{
		Filename: filename,
		Dir:      f.Dir,
		Content:  formatted,
	}, nil
}

// buildRequest resolves configuration for one derive request and emits
// its derivations.
func (g *Generator) buildRequest(data *templateData, req *decl.Request) {
	declID := req.Iface
	if req.Shape == decl.ShapeFunc {
		declID = req.Func.ID()
	}

	callLayer := config.FromDirective(req.Directive, declID, &g.diags)
	typeLayer := config.FromDirective(req.Defaults, declID, &g.diags)
	eff := config.Resolve(callLayer, typeLayer, g.process.Snapshot(), config.BuiltIn())

	conventions := g.parseConventions(req.Directive, declID)

	switch req.Shape {
	case decl.ShapeFunc:
		for _, c := range conventions {
			g.buildFunc(data, req.Func, c, eff)
		}

	case decl.ShapeInterface:
		g.buildInterface(data, req, conventions, eff)
	}
}

// deriveErrCode distinguishes effect mismatches from other derivation
// failures.
func deriveErrCode(err error) string {
	if errors.Is(err, transform.ErrNotSuspending) {
		return diagnostic.CodeEffectMissing
	}

	return diagnostic.CodeDeriveFailed
}

func (g *Generator) parseConventions(directive *decl.Directive, declID string) []transform.Convention {
	var out []transform.Convention

	for _, name := range directive.Conventions {
		c, err := transform.ParseConvention(name)
		if err != nil {
			g.diags.AddError(diagnostic.CodeDirectiveBadValue, err.Error(), declID, name, directive.Pos)
			continue
		}

		out = append(out, c)
	}

	return out
}

func (g *Generator) buildFunc(data *templateData, d *decl.Declaration, c transform.Convention, eff config.EffectiveConfig) {
	sig, err := transform.Derive(d, c, eff)
	if err != nil {
		g.diags.AddError(deriveErrCode(err), err.Error(), d.ID(), c.String(), d.Pos)
		return
	}

	g.warnUnavailable(sig, d.ID(), d.Pos)

	data.Funcs = append(data.Funcs, funcData{
		Doc:  funcDoc(sig, d.ID()),
		Sig:  sig.Render(),
		Body: Synthesize(sig, eff, d.Name),
	})
}

// buildInterface emits the requirement-only derived interface and,
// unless extension generation is disabled, the paired adapter whose
// methods carry identical signatures plus forwarding bodies.
func (g *Generator) buildInterface(data *templateData, req *decl.Request, conventions []transform.Convention, eff config.EffectiveConfig) {
	ifaceName := eff.Prefix + req.Iface + "Derived"
	adapterName := eff.Prefix + req.Iface + "Adapter"

	iface := ifaceData{
		Doc: []string{
			fmt.Sprintf("// %s lists the derived calling conventions of %s.", ifaceName, req.Iface),
		},
		Name:   ifaceName,
		Source: req.Iface,
	}

	type derivedMethod struct {
		sig *transform.Signature
	}

	var methods []derivedMethod

	for _, m := range req.Methods {
		for _, c := range conventions {
			sig, err := transform.Derive(m, c, eff)
			if err != nil {
				g.diags.AddError(deriveErrCode(err), err.Error(), m.ID(), c.String(), m.Pos)
				continue
			}

			g.warnUnavailable(sig, m.ID(), m.Pos)
			methods = append(methods, derivedMethod{sig: sig})

			iface.Methods = append(iface.Methods, methodData{
				Doc: availabilityDoc(sig),
				Sig: sig.MethodRender(),
			})
		}
	}

	if len(iface.Methods) == 0 {
		return
	}

	if eff.Extensions {
		iface.Adapter = adapterName
		iface.Doc = append(iface.Doc,
			"//",
			fmt.Sprintf("// %s implements it for any %s.", adapterName, req.Iface))

		recv := receiverName(adapterName, req.Methods)

		for _, dm := range methods {
			target := recv + ".Impl." + dm.sig.Source.Name

			data.Funcs = append(data.Funcs, funcData{
				Doc:  funcDoc(dm.sig, dm.sig.Source.ID()),
				Recv: recv + " " + adapterName,
				Sig:  dm.sig.MethodRender(),
				Body: Synthesize(dm.sig, eff, target),
			})
		}
	}

	data.Ifaces = append(data.Ifaces, iface)
}

// funcDoc builds the doc comment for a derived declaration: one
// descriptive line plus the availability annotation.
func funcDoc(sig *transform.Signature, srcID string) []string {
	var desc string

	switch sig.Convention {
	case transform.Blocking:
		desc = fmt.Sprintf("%s runs %s to completion, blocking the calling goroutine.", sig.Name, srcID)
	case transform.Future:
		desc = fmt.Sprintf("%s starts %s detached and returns a future settled with its outcome.", sig.Name, srcID)
	case transform.Callback:
		desc = fmt.Sprintf("%s starts %s detached and hands its outcome to %s.", sig.Name, srcID, sig.Handler)
	case transform.Stream:
		desc = fmt.Sprintf("%s starts %s detached and delivers its outcome as a single-value stream.", sig.Name, srcID)
	}

	doc := []string{"// " + desc}

	if avail := availabilityDoc(sig); len(avail) > 0 {
		doc = append(doc, "//")
		doc = append(doc, avail...)
	}

	return doc
}

// availabilityDoc renders the availability annotation lines.
func availabilityDoc(sig *transform.Signature) []string {
	switch sig.Availability.Kind {
	case config.AvailabilityDeprecated:
		msg := sig.Availability.Message
		if msg == "" {
			msg = transform.DefaultDeprecationMessage
		}

		return []string{"// Deprecated: " + msg}

	case config.AvailabilityUnavailable:
		msg := sig.Availability.Message
		if msg == "" {
			msg = "not available"
		}

		return []string{"// Deprecated: unavailable: " + msg}

	default:
		return nil
	}
}

// warnUnavailable reports an unavailable derivation once per derived
// declaration. Go has no compiler-enforced unavailability; the doc
// annotation is the strongest signal the output can carry.
func (g *Generator) warnUnavailable(sig *transform.Signature, declID, site string) {
	if sig.Availability.Kind != config.AvailabilityUnavailable {
		return
	}

	g.diags.AddWarning(diagnostic.CodeUnavailable,
		fmt.Sprintf("%s is marked unavailable but callable: Go cannot enforce unavailability", sig.Name),
		declID, sig.Convention.String(), site)
}

// receiverName picks an adapter receiver that collides with no
// parameter of any method.
func receiverName(adapterName string, methods []*decl.Declaration) string {
	used := make(map[string]bool)
	for _, m := range methods {
		for _, p := range m.Params {
			used[p.Name] = true
		}
	}

	candidates := []string{strings.ToLower(adapterName[:1]), "ad", "adp", "recv"}
	for _, c := range candidates {
		if !used[c] {
			return c
		}
	}

	return "recv0"
}

// collectImports gathers the imports the generated file needs: the
// runtime package and context for bodies, sync for accessors, and any
// source import referenced by a derived signature.
func (g *Generator) collectImports(data *templateData, f *decl.File) []importSpec {
	var all []string

	for i := range data.Funcs {
		all = append(all, data.Funcs[i].Sig, data.Funcs[i].Body)
	}

	for i := range data.Ifaces {
		for _, m := range data.Ifaces[i].Methods {
			all = append(all, m.Sig)
		}
	}

	all = append(all, data.Vars...)
	joined := strings.Join(all, "\n")

	imports := make(map[string]importSpec)

	if strings.Contains(joined, "bridge.") {
		imports[BridgePkgPath] = importSpec{Path: BridgePkgPath}
	}

	if strings.Contains(joined, "context.Context") {
		imports["context"] = importSpec{Path: "context"}
	}

	if strings.Contains(joined, "sync.") {
		imports["sync"] = importSpec{Path: "sync"}
	}

	// Re-import source packages referenced by derived signatures.
	// Matching on the qualifier prefix is a heuristic, but the same one
	// a human applies when reading the signature. Dot and blank imports
	// contribute no qualifier, so nothing in a derived signature can
	// reference them.
	for name, path := range f.Imports {
		if path == "context" || path == BridgePkgPath {
			continue
		}

		if name == "." || name == "_" {
			continue
		}

		if strings.Contains(joined, name+".") {
			spec := importSpec{Path: path}
			if name != common.PkgAlias(path) {
				spec.Alias = name
			}

			imports[path] = spec
		}
	}

	var sorted []importSpec
	for _, imp := range imports {
		sorted = append(sorted, imp)
	}

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	return sorted
}

// fileTemplate is the skeleton of a generated file. Doc lines arrive
// pre-rendered including the comment markers.
var fileTemplate = template.Must(template.New("bridgegen").Parse(`// Code generated by bridgegen. DO NOT EDIT.

package {{.Package}}

{{if .Imports}}
import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}
{{range .Ifaces}}
{{range .Doc}}{{.}}
{{end}}type {{.Name}} interface {
{{range .Methods}}{{range .Doc}}	{{.}}
{{end}}	{{.Sig}}
{{end}}}
{{if .Adapter}}
// {{.Adapter}} provides the derived conventions of {{.Name}} for any
// {{.Source}} implementation.
type {{.Adapter}} struct {
	Impl {{.Source}}
}
{{end}}{{end}}
{{range .Vars}}
{{.}}
{{end}}
{{range .Funcs}}
{{range .Doc}}{{.}}
{{end}}func {{if .Recv}}({{.Recv}}) {{end}}{{.Sig}} {
{{.Body}}
}
{{end}}
`))
