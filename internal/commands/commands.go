// Package commands is the capsule command line.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/zillusion/capsule/internal/app"
)

// RootOptions are flags shared by every command.
type RootOptions struct {
	ConfigFile string
}

// New returns the root command with every subcommand attached.
func New() *cobra.Command {
	ro := &RootOptions{}
	cmd := &cobra.Command{
		Use:           "capsule",
		Short:         "Transcribe recorded calls and browse them in sync with the audio.",
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVarP(&ro.ConfigFile, "config", "c", "",
		"Path to config.yml. Defaults to the standard search paths.")

	AddCommands(cmd, ro)
	return cmd
}

// AddCommands attaches the subcommands to topLevel.
func AddCommands(topLevel *cobra.Command, ro *RootOptions) {
	addServe(topLevel, ro)
	addMigrate(topLevel, ro)
	addToken(topLevel, ro)
	addView(topLevel)
	addUpload(topLevel)
	addVersion(topLevel)
}

// loadConfig reads and defaults the configuration without validating it;
// each command validates the sections it uses.
func loadConfig(ro *RootOptions) (*app.Config, error) {
	cfg, err := app.Load(ro.ConfigFile)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}
