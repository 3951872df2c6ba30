package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-multitool/internal/application"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the built-in tool types",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, t := range application.NewDefaultToolRegistry().SupportedTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
		},
	}
}
