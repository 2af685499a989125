package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zillusion/capsule/auth/jwt"
)

func addToken(topLevel *cobra.Command, ro *RootOptions) {
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint a development token for a user.",
		Long:  "Mint a token signed with the configured HMAC secret. Production tokens come from the identity provider.",
		Example: `
export CAPSULE_TOKEN=$(capsule token user-1)
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := loadConfig(ro)
			if err != nil {
				return err
			}
			v, err := jwt.NewVerifier(cfg.Auth)
			if err != nil {
				return err
			}
			token, err := v.Issue(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}
