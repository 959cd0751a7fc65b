package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bridgegen/internal/synth"
)

// GenOptions holds flags for the gen command.
type GenOptions struct {
	*RootOptions
	OutputDir string
	Suffix    string
	DryRun    bool
}

// NewGenCommand creates the gen command.
func NewGenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "gen [packages...]",
		Short: "Generate derived calling conventions",
		Long: `Generate derived declarations for annotated functions and interfaces.

Output files are written next to their source files as
<source>_bridgegen.go unless --out redirects them.

Example:
  bridgegen gen ./...
  bridgegen gen --config bridgegen.yaml ./internal/api`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.OutputDir, "out", "", "write all generated files into this directory")
	cmd.Flags().StringVar(&opts.Suffix, "suffix", "", "output file suffix (default _bridgegen)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "list generated files without writing them")

	return cmd
}

func runGen(opts *GenOptions, patterns []string, cmd *cobra.Command) error {
	log := opts.Logger()

	files, gen, err := runPipeline(opts.RootOptions, patterns, synth.Options{OutputSuffix: opts.Suffix})
	if err != nil {
		return err
	}

	if diagErr := reportDiagnostics(opts.RootOptions, gen.Diagnostics()); diagErr != nil {
		return diagErr
	}

	if opts.DryRun {
		for _, f := range files {
			fmt.Fprintf(cmd.OutOrStdout(), "%s/%s (%d bytes)\n", f.Dir, f.Filename, len(f.Content))
		}

		return nil
	}

	if err := synth.WriteFiles(files, opts.OutputDir); err != nil {
		return err
	}

	for _, f := range files {
		log.Info("generated", zap.String("file", f.Filename), zap.String("dir", f.Dir))
	}

	log.Info("done", zap.Int("files", len(files)))

	return nil
}
