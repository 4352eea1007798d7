package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/2beens/fitpulse/internal/localstore"
	"github.com/2beens/fitpulse/internal/meals"
	"github.com/2beens/fitpulse/internal/recognition"

	"github.com/spf13/cobra"
)

type analyzeOpts struct {
	weight  float64
	offline bool
	save    bool
	quota   int
	jsonOut bool
}

func newAnalyzeCmd(root *rootOpts) *cobra.Command {
	opts := analyzeOpts{}

	cmd := &cobra.Command{
		Use:   "analyze <photo>",
		Short: "Analyze a meal photo",
		Long: `Recognizes the foods on a JPEG or PNG photo and prints the estimated macros,
insights and nutrition score. --offline uses a deterministic stand-in instead of the service.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), root, opts, args[0])
		},
	}

	cmd.Flags().Float64Var(&opts.weight, "weight", 0, "Meal weight in grams (default portion when not set)")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "Do not call the recognition service")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Save the analyzed meal to the local history")
	cmd.Flags().IntVar(&opts.quota, "quota", defaultMonthlyQuota, "Monthly recognition quota, 0 disables it")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Print the analysis as JSON")

	return cmd
}

func runAnalyze(ctx context.Context, out io.Writer, root *rootOpts, opts analyzeOpts, photoPath string) error {
	photo, err := os.ReadFile(photoPath)
	if err != nil {
		return fmt.Errorf("read photo: %w", err)
	}

	table, err := loadTable(root.tablePath)
	if err != nil {
		return err
	}

	store, err := localstore.Open(root.dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	var recognizer recognition.Recognizer
	if opts.offline {
		recognizer = recognition.NewFallbackRecognizer(nil)
	} else {
		stack, err := newRecognitionStack(ctx, store, opts.quota)
		if err != nil {
			return err
		}
		recognizer = stack.Recognizer
	}

	analysis, err := newAnalyzer(recognizer, table).Analyze(ctx, photo, opts.weight)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	var saved *meals.Meal
	if opts.save {
		now := time.Now()
		saved, err = store.SaveMeal(ctx, meals.Meal{
			MealType:  meals.MealTypeAt(now),
			Analysis:  *analysis,
			CreatedAt: now,
		})
		if err != nil {
			return err
		}
	}

	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(meals.AnalyzeResponse{Analysis: analysis, Meal: saved})
	}

	printAnalysis(out, analysis)
	if saved != nil {
		fmt.Fprintf(out, "\nsaved as meal #%d (%s)\n", saved.ID, saved.MealType)
	}
	return nil
}

func printAnalysis(out io.Writer, a *meals.AnalysisResult) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FOOD\tCONF\tGRAMS\tKCAL\tPROTEIN\tCARBS\tFAT\tFIBER")
	for _, f := range a.Foods {
		fmt.Fprintf(tw, "%s\t%d%%\t%.0f\t%.0f\t%.1f\t%.1f\t%.1f\t%.1f\n",
			f.Name, f.Confidence, f.PortionGrams, f.Calories, f.Protein, f.Carbs, f.Fat, f.Fiber)
	}
	fmt.Fprintf(tw, "TOTAL\t%d%%\t%.0f\t%.0f\t%.1f\t%.1f\t%.1f\t%.1f\n",
		a.Confidence, a.EstimatedWeight, a.Totals.Calories, a.Totals.Protein, a.Totals.Carbs, a.Totals.Fat, a.Totals.Fiber)
	_ = tw.Flush()

	fmt.Fprintf(out, "\nnutrition score: %d/100\n", a.NutritionScore.Score)
	for _, insight := range a.Insights {
		fmt.Fprintf(out, "  [%s] %s: %s\n", insight.Type, insight.Title, insight.Message)
	}
}
