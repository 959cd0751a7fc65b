package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"bridgegen/internal/synth"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [packages...]",
		Short: "Validate directives without writing files",
		Long: `Run the full derivation pipeline without writing any output.

Useful in CI to catch malformed directives, unsupported declaration
shapes and effect mismatches before they land.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, patterns []string, cmd *cobra.Command) error {
	files, gen, err := runPipeline(opts, patterns, synth.DefaultOptions())
	if err != nil {
		return err
	}

	if diagErr := reportDiagnostics(opts, gen.Diagnostics()); diagErr != nil {
		return diagErr
	}

	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d file(s) would be generated\n", len(files))

	return nil
}
