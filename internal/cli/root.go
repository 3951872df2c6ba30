// Package cli implements the multitool command line interface.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ahrav/go-multitool/internal/logging"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	logLevel  string
	logFormat string
}

// NewRootCmd builds the command tree. Each call returns an independent
// tree, so flag state never leaks between invocations.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "multitool",
		Short: "Compose priority-ordered property tools",
		Long: `multitool loads a YAML or TOML multitool definition and applies its
tools, highest priority first, to JSON property bags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", logging.FormatJSON, "log format (json, console)")

	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newInspectCmd(opts))
	cmd.AddCommand(newToolsCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// logger builds the zerolog logger configured by the persistent flags.
// Logs always go to stderr so stdout stays machine readable.
func (o *rootOptions) logger(cmd *cobra.Command) (zerolog.Logger, error) {
	return logging.New(logging.Config{
		Level:  o.logLevel,
		Format: o.logFormat,
		Output: cmd.ErrOrStderr(),
		App:    "multitool",
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "multitool %s\n", Version)
		},
	}
}
