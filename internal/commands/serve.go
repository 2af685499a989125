package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/zillusion/capsule/internal/app"
)

func addServe(topLevel *cobra.Command, ro *RootOptions) {
	var summary bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the transcription API server.",
		Example: `
capsule serve
capsule serve --config ./cmd/capsule/config.yml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			cfg, err := app.Load(ro.ConfigFile)
			if err != nil {
				return err
			}
			s, err := app.New(cfg)
			if err != nil {
				return err
			}
			if summary {
				s.OnReady(func(context.Context) error {
					s.Summary.Render(os.Stdout, s.Components)
					return nil
				})
			}
			return s.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&summary, "summary", true, "Print the startup summary.")
	topLevel.AddCommand(cmd)
}
