package cli

import (
	"fmt"

	"go.uber.org/zap"

	"bridgegen/internal/config"
	"bridgegen/internal/decl"
	"bridgegen/internal/diagnostic"
	"bridgegen/internal/synth"
)

// runPipeline loads the annotated declarations from the given package
// patterns and runs the generator over them. Diagnostics from both
// stages are merged into the returned generator.
func runPipeline(opts *RootOptions, patterns []string, genOpts synth.Options) ([]synth.GeneratedFile, *synth.Generator, error) {
	log := opts.Logger()

	process := config.NewProcess()
	if opts.Config != "" {
		if err := process.LoadFile(opts.Config); err != nil {
			return nil, nil, fmt.Errorf("loading process configuration: %w", err)
		}

		log.Debug("process configuration loaded", zap.String("path", opts.Config))
	}

	loader := decl.NewLoader()
	files, err := loader.Load(patterns...)
	if err != nil {
		return nil, nil, fmt.Errorf("loading packages: %w", err)
	}

	requests := 0
	for _, f := range files {
		requests += len(f.Requests) + len(f.Guards)
	}

	log.Debug("declarations collected",
		zap.Int("files", len(files)),
		zap.Int("requests", requests))

	gen := synth.NewGenerator(genOpts, process)
	gen.Diagnostics().Merge(*loader.Diagnostics())

	generated, err := gen.Generate(files)
	if err != nil {
		return nil, gen, err
	}

	return generated, gen, nil
}

// reportDiagnostics logs every collected diagnostic and returns an
// error when the run produced any error-severity entry.
func reportDiagnostics(opts *RootOptions, diags *diagnostic.Diagnostics) error {
	log := opts.Logger()

	for _, d := range diags.All() {
		fields := []zap.Field{zap.String("code", d.Code)}

		if d.Decl != "" {
			fields = append(fields, zap.String("decl", d.Decl))
		}

		if d.Convention != "" {
			fields = append(fields, zap.String("convention", d.Convention))
		}

		if d.Site != "" {
			fields = append(fields, zap.String("site", d.Site))
		}

		switch d.Severity {
		case diagnostic.SeverityError:
			log.Error(d.Message, fields...)
		case diagnostic.SeverityWarning:
			log.Warn(d.Message, fields...)
		default:
			log.Info(d.Message, fields...)
		}
	}

	return diags.Error()
}
