package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/2beens/fitpulse/internal/localstore"
	"github.com/2beens/fitpulse/internal/meals"

	"github.com/spf13/cobra"
)

func newHistoryCmd(root *rootOpts) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved meals and per-day totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := localstore.Open(root.dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			saved, err := store.ListMeals(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(saved) == 0 {
				fmt.Fprintln(out, "no meals saved yet")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tWHEN\tTYPE\tKCAL\tSCORE")
			for _, m := range saved {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%.0f\t%d\n",
					m.ID, m.CreatedAt.In(time.Local).Format("2006-01-02 15:04"), m.MealType,
					m.Analysis.Totals.Calories, m.Analysis.NutritionScore.Score)
			}
			_ = tw.Flush()

			fmt.Fprintln(out)
			tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DAY\tMEALS\tKCAL\tPROTEIN\tCARBS\tFAT\tFIBER\tAVG SCORE")
			for _, d := range meals.NewHistoryAnalyzer(time.Local).DailySummaries(saved) {
				fmt.Fprintf(tw, "%s\t%d\t%.0f\t%.1f\t%.1f\t%.1f\t%.1f\t%d\n",
					d.Day, d.MealsCount, d.Totals.Calories, d.Totals.Protein, d.Totals.Carbs,
					d.Totals.Fat, d.Totals.Fiber, d.AverageScore)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of most recent meals")

	return cmd
}
