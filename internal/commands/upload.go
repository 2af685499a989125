package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zillusion/capsule/media"
)

func addUpload(topLevel *cobra.Command) {
	co := &ClientOptions{}
	var (
		contentType string
		duration    float64
	)
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a recording straight to storage and transcribe it.",
		Example: `
capsule upload call.m4a --duration 184
capsule upload meeting.webm --content-type audio/webm --duration 95
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			audio, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if contentType == "" {
				contentType = media.TypeByExtension(filepath.Ext(args[0]))
			}
			if !media.Allowed(contentType) {
				return fmt.Errorf("upload: unsupported content type %q", contentType)
			}

			c, err := co.Client()
			if err != nil {
				return err
			}
			id, err := c.Upload(cmd.Context(), audio, contentType, duration)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	AddClientArgs(cmd, co)
	cmd.Flags().StringVar(&contentType, "content-type", "",
		"Recording MIME type. Guessed from the file extension when empty.")
	cmd.Flags().Float64Var(&duration, "duration", 0,
		"Recording length in seconds; the server rejects more than 300.")
	_ = cmd.MarkFlagRequired("duration")
	topLevel.AddCommand(cmd)
}
