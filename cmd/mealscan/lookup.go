package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLookupCmd(root *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <food>",
		Short: "Show the per-100g reference used for a food name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(root.tablePath)
			if err != nil {
				return err
			}

			name := strings.Join(args, " ")
			ref := table.Lookup(name)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s -> %s (%s)\n", name, ref.Key, ref.Category)
			fmt.Fprintf(out, "per 100g: %.0f kcal, protein %.1fg, carbs %.1fg, fat %.1fg, fiber %.1fg\n",
				ref.CaloriesPer100, ref.ProteinPer100, ref.CarbsPer100, ref.FatPer100, ref.FiberPer100)
			return nil
		},
	}
}
