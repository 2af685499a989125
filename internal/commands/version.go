package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zillusion/capsule/version"
)

func addVersion(topLevel *cobra.Command) {
	var (
		shortened bool
		output    string
	)
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the capsule version.",
		Example: `
capsule version
capsule version --short
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			if shortened {
				fmt.Fprintln(cmd.OutOrStdout(), info.String())
				return nil
			}
			if output != "json" {
				return fmt.Errorf("version: unsupported output %q", output)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
	cmd.Flags().BoolVarP(&shortened, "short", "s", false, "Print just the version number.")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format. Only 'json' is supported.")
	topLevel.AddCommand(cmd)
}
