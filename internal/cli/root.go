// Package cli implements incidentctl, a command-line client for the incident API.
package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/bissquit/incident-tracker/internal/client"
	"github.com/spf13/cobra"
)

// ServerEnv overrides the default --server value.
const ServerEnv = "INCIDENTCTL_SERVER"

type options struct {
	server  string
	timeout time.Duration
}

func (o *options) client() *client.Client {
	return client.New(o.server, client.WithHTTPClient(&http.Client{Timeout: o.timeout}))
}

// NewRootCommand builds the incidentctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "incidentctl",
		Short:         "Command-line client for the incident tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultServer := client.DefaultBaseURL
	if v := os.Getenv(ServerEnv); v != "" {
		defaultServer = v
	}

	root.PersistentFlags().StringVar(&opts.server, "server", defaultServer, "incident tracker base URL")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "HTTP request timeout")

	root.AddCommand(
		newListCommand(opts),
		newGetCommand(opts),
		newCreateCommand(opts),
		newUpdateCommand(opts),
		newBrowseCommand(opts),
		newHealthCommand(opts),
	)

	return root
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
