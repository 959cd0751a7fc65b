// Package cli wires the bridgegen commands.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
	// Config is an optional path to a process-level YAML configuration
	// file applied below every directive layer.
	Config string

	logger *zap.Logger
}

// Logger returns the configured logger, a no-op logger before setup.
func (o *RootOptions) Logger() *zap.Logger {
	if o.logger == nil {
		return zap.NewNop()
	}

	return o.logger
}

// NewRootCommand creates the root command for the bridgegen CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "bridgegen",
		Short: "Derive blocking, future, callback and stream siblings for context-aware functions",
		Long: `bridgegen scans Go packages for //bridgegen: directives and generates
alternative calling conventions for annotated functions and interfaces:
blocking wrappers, futures, callback forms and single-value streams,
all forwarding to the original context-aware declaration.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := buildLogger(opts.Verbose)
			if err != nil {
				return err
			}

			opts.logger = logger

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.Logger().Sync()
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "path to YAML process configuration")

	cmd.AddCommand(NewGenCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}

// buildLogger creates a console logger writing to stderr so generated
// file listings on stdout stay machine-readable.
func buildLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		cfg.DisableStacktrace = true
	}

	return cfg.Build()
}
