package commands

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zillusion/capsule/viewer/client"
)

// ClientOptions select the API a viewer command talks to.
type ClientOptions struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// AddClientArgs registers the API flags. Defaults come from CAPSULE_URL and
// CAPSULE_TOKEN.
func AddClientArgs(cmd *cobra.Command, o *ClientOptions) {
	url := os.Getenv("CAPSULE_URL")
	if url == "" {
		url = "http://localhost:8080"
	}
	cmd.Flags().StringVar(&o.URL, "url", url,
		"Base URL of the capsule API.")
	cmd.Flags().StringVar(&o.Token, "token", os.Getenv("CAPSULE_TOKEN"),
		"Bearer token. See 'capsule token'.")
	cmd.Flags().DurationVar(&o.Timeout, "timeout", 5*time.Minute,
		"Request timeout. Transcription requests wait on the engine.")
}

// Client builds the API client.
func (o *ClientOptions) Client() (*client.Client, error) {
	return client.New(client.Config{BaseURL: o.URL, Token: o.Token, Timeout: o.Timeout})
}
