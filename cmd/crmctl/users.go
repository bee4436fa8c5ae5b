// AngelaMos | 2026
// users.go

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newUsersCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "User administration (ADMIN and MANAGER only)",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List users",
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := opts.newClient(opts)
				if err != nil {
					return err
				}

				users, err := c.ListUsers(cmd.Context())
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tROLE")
				for _, u := range users {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, u.Role)
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "reset-password <user-id>",
			Short: "Replace a user's password with a temporary one",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := opts.newClient(opts)
				if err != nil {
					return err
				}

				resp, err := c.ResetPassword(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "temporary password: %s\n", resp.TemporaryPassword)
				return nil
			},
		},
	)

	return cmd
}

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Lead counts by status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.newClient(opts)
			if err != nil {
				return err
			}

			summary, err := c.Summary(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, sc := range summary.ByStatus {
				fmt.Fprintf(tw, "%s\t%d\n", sc.Status, sc.Count)
			}
			fmt.Fprintf(tw, "TOTAL\t%d\n", summary.TotalLeads)
			return tw.Flush()
		},
	}
}
