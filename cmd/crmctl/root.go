// AngelaMos | 2026
// root.go

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pulsecrm/pulse-crm/internal/client"
)

type rootOptions struct {
	baseURL     string
	sessionPath string
	newClient   func(opts *rootOptions) (*client.Client, error)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{newClient: defaultClient}

	cmd := &cobra.Command{
		Use:           "crmctl",
		Short:         "Command-line client for the PulseCRM API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(
		&opts.baseURL, "api", envOr("CRM_API_URL", "http://localhost:5001"),
		"API base URL",
	)
	cmd.PersistentFlags().StringVar(
		&opts.sessionPath, "session", os.Getenv("CRM_SESSION_FILE"),
		"session file (default: user config dir)",
	)

	cmd.AddCommand(
		newLoginCmd(opts),
		newRegisterCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newLeadsCmd(opts),
		newActivitiesCmd(opts),
		newUsersCmd(opts),
		newSummaryCmd(opts),
		newKeygenCmd(),
	)

	return cmd
}

func defaultClient(opts *rootOptions) (*client.Client, error) {
	path := opts.sessionPath
	if path == "" {
		p, err := client.DefaultSessionPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	return client.New(opts.baseURL, client.NewFileStore(path))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("print: %w", err)
	}
	return nil
}
