package commands

import (
	"github.com/spf13/cobra"

	"github.com/zillusion/capsule/viewer/tui"
)

func addView(topLevel *cobra.Command) {
	co := &ClientOptions{}
	var limit int
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse recordings and follow their transcripts in the terminal.",
		Example: `
capsule view --url http://localhost:8080 --token $CAPSULE_TOKEN
capsule view --limit 20
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			c, err := co.Client()
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), c, limit)
		},
	}
	AddClientArgs(cmd, co)
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "Recordings per page.")
	topLevel.AddCommand(cmd)
}
