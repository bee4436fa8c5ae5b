// AngelaMos | 2026
// leads.go

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pulsecrm/pulse-crm/internal/activity"
	"github.com/pulsecrm/pulse-crm/internal/lead"
)

func newLeadsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Manage leads",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List leads, newest first",
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := opts.newClient(opts)
				if err != nil {
					return err
				}

				leads, err := c.ListLeads(cmd.Context())
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tCOMPANY\tSTATUS\tOWNER")
				for _, l := range leads {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
						l.ID, l.Name, l.Company, l.Status, l.Owner.Name)
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show one lead",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := opts.newClient(opts)
				if err != nil {
					return err
				}

				l, err := c.GetLead(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				return printJSON(cmd.OutOrStdout(), l)
			},
		},
		newLeadCreateCmd(opts),
		newLeadSeedCmd(opts),
		&cobra.Command{
			Use:   "status <id> <status>",
			Short: "Move a lead to another pipeline status",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if !lead.IsValidStatus(args[1]) {
					return fmt.Errorf("unknown status %q", args[1])
				}

				c, err := opts.newClient(opts)
				if err != nil {
					return err
				}

				status := args[1]
				l, err := c.UpdateLead(cmd.Context(), args[0], lead.UpdateLeadRequest{
					Status: &status,
				})
				if err != nil {
					return err
				}

				return printJSON(cmd.OutOrStdout(), l)
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a lead and its activities",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := opts.newClient(opts)
				if err != nil {
					return err
				}

				if err := c.DeleteLead(cmd.Context(), args[0]); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			},
		},
	)

	return cmd
}

func newLeadCreateCmd(opts *rootOptions) *cobra.Command {
	var req lead.CreateLeadRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a lead owned by you",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.newClient(opts)
			if err != nil {
				return err
			}

			l, err := c.CreateLead(cmd.Context(), req)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), l)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "lead name")
	cmd.Flags().StringVar(&req.Email, "email", "", "lead email")
	cmd.Flags().StringVar(&req.Company, "company", "", "company")
	cmd.Flags().StringVar(&req.Status, "status", "", "initial status (default NEW)")
	_ = cmd.MarkFlagRequired("name") //nolint:errcheck // flag is defined above

	return cmd
}

func newActivitiesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activities",
		Short: "Read and append lead activities",
	}

	var req activity.CreateActivityRequest
	add := &cobra.Command{
		Use:   "add <lead-id>",
		Short: "Append an activity to a lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient(opts)
			if err != nil {
				return err
			}

			req.LeadID = args[0]
			a, err := c.AddActivity(cmd.Context(), req)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), a)
		},
	}
	add.Flags().StringVar(&req.Type, "type", activity.TypeNote, "NOTE, CALL, MEETING, EMAIL or STATUS_CHANGE")
	add.Flags().StringVar(&req.Content, "content", "", "activity text")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list <lead-id>",
			Short: "List a lead's activities, newest first",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := opts.newClient(opts)
				if err != nil {
					return err
				}

				activities, err := c.ListActivities(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				return printJSON(cmd.OutOrStdout(), activities)
			},
		},
		add,
	)

	return cmd
}
