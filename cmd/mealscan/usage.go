package main

import (
	"fmt"

	"github.com/2beens/fitpulse/internal/localstore"
	"github.com/2beens/fitpulse/internal/recognition"

	"github.com/spf13/cobra"
)

func newUsageCmd(root *rootOpts) *cobra.Command {
	var quota int

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show this month's recognition usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := localstore.Open(root.dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			report, err := recognition.NewQuotaRecognizer(nil, store, quota, nil).Usage(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if report.Limit <= 0 {
				fmt.Fprintf(out, "%s: %d recognitions (no quota)\n", report.Month, report.Count)
				return nil
			}
			fmt.Fprintf(out, "%s: %d/%d recognitions, %d remaining\n", report.Month, report.Count, report.Limit, report.Remaining)
			return nil
		},
	}

	cmd.Flags().IntVar(&quota, "quota", defaultMonthlyQuota, "Monthly recognition quota")

	return cmd
}
