package main

import (
	"context"
	"fmt"
	"time"

	"clinic/pkg/client"

	"github.com/spf13/cobra"
)

func availabilityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Print the free slots of a provider on a date using a running API",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiURL, _ := cmd.Flags().GetString("api")
			provider, _ := cmd.Flags().GetString("provider")
			date, _ := cmd.Flags().GetString("date")

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			availability, err := client.NewClinicClient(apiURL).Available(ctx, provider, date)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(availability.Slots) == 0 {
				fmt.Fprintf(out, "No free slots for %s on %s\n", availability.ProviderID, availability.Date)
				return nil
			}
			fmt.Fprintf(out, "Free slots for %s on %s:\n", availability.ProviderID, availability.Date)
			for _, slot := range availability.Slots {
				fmt.Fprintln(out, "  "+slot)
			}
			return nil
		},
	}
	cmd.Flags().String("api", "http://localhost:8080", "Base URL of the clinic API")
	cmd.Flags().String("provider", "", "Doctor ID")
	cmd.Flags().String("date", time.Now().Format(time.DateOnly), "Date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("provider")
	return cmd
}
