// AngelaMos | 2026
// seed.go

package main

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"

	"github.com/pulsecrm/pulse-crm/internal/lead"
)

func newLeadSeedCmd(opts *rootOptions) *cobra.Command {
	var (
		count int
		seed  int64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create fake leads owned by you for demos",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive")
			}

			c, err := opts.newClient(opts)
			if err != nil {
				return err
			}

			faker := gofakeit.New(seed)
			for i := 0; i < count; i++ {
				l, err := c.CreateLead(cmd.Context(), fakeLead(faker))
				if err != nil {
					return fmt.Errorf("seed lead %d: %w", i+1, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", l.ID, l.Name, l.Status)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 10, "number of leads to create")
	cmd.Flags().Int64Var(&seed, "seed", 0, "faker seed, 0 for random")

	return cmd
}

func fakeLead(f *gofakeit.Faker) lead.CreateLeadRequest {
	return lead.CreateLeadRequest{
		Name:    f.Name(),
		Email:   f.Email(),
		Company: f.Company(),
		Status:  f.RandomString(lead.Statuses),
	}
}
