// AngelaMos | 2026
// auth.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulsecrm/pulse-crm/internal/auth"
)

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.newClient(opts)
			if err != nil {
				return err
			}

			session, err := c.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s (%s)\n", session.Email, session.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")    //nolint:errcheck // flag is defined above
	_ = cmd.MarkFlagRequired("password") //nolint:errcheck // flag is defined above

	return cmd
}

func newRegisterCmd(opts *rootOptions) *cobra.Command {
	var req auth.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and store the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.newClient(opts)
			if err != nil {
				return err
			}

			session, err := c.Register(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "registered %s (%s)\n", session.Email, session.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Role, "role", "", "ADMIN, MANAGER or SALES_EXECUTIVE")
	_ = cmd.MarkFlagRequired("email")    //nolint:errcheck // flag is defined above
	_ = cmd.MarkFlagRequired("password") //nolint:errcheck // flag is defined above
	_ = cmd.MarkFlagRequired("name")     //nolint:errcheck // flag is defined above

	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke and forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.newClient(opts)
			if err != nil {
				return err
			}

			if err := c.Logout(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.newClient(opts)
			if err != nil {
				return err
			}

			me, err := c.Me(cmd.Context())
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), me)
		},
	}
}

func newKeygenCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Write a new ES256 signing key for the API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := auth.GenerateKeyPair(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "keys/private.pem", "private key path")

	return cmd
}
