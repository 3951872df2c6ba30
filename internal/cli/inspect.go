package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-multitool/internal/application"
	"github.com/ahrav/go-multitool/internal/domain"
)

func newInspectCmd(root *rootOptions) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print a multitool's tools in execution order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := root.logger(cmd)
			if err != nil {
				return err
			}

			loader, err := application.NewMultitoolLoader(application.NewDefaultToolRegistry())
			if err != nil {
				return err
			}
			hook, err := loader.LoadFromFile(logger.WithContext(cmd.Context()), configPath)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", configPath, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", hook)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ORDER\tPRIORITY\tNAME\tIN\tCLEAN\tOUT\tATTRS")
			for i, tool := range hook.Tools() {
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
					i+1, tool.Priority, tool.Name,
					joinKeys(tool.InProps), joinKeys(tool.CleanProps), joinKeys(tool.OutProps),
					formatAttributes(tool))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "multitool definition (.yaml, .yml or .toml)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func joinKeys(keys []string) string {
	if len(keys) == 0 {
		return "-"
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		if k == "" {
			k = "_"
		}
		parts[i] = k
	}
	return strings.Join(parts, ",")
}

// formatAttributes renders a tool's attributes as sorted key=value pairs.
func formatAttributes(tool domain.Tool) string {
	keys := slices.Sorted(maps.Keys(tool.Attributes))
	if len(keys) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v, _ := tool.Attribute(k)
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, ",")
}
