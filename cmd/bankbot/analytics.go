package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"bankbot/bank"
	"bankbot/interaction"
	configx "bankbot/pkg/config"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Print usage statistics from the history log",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		pgCfg, err := configx.New[bank.Config]("PG")
		if err != nil {
			return fmt.Errorf("postgres config: %w", err)
		}
		db, err := bank.Open(ctx, pgCfg)
		if err != nil {
			return err
		}
		defer db.Close()

		recorder, err := interaction.NewRecorder(db)
		if err != nil {
			return err
		}

		summary, err := recorder.Summary(ctx)
		if err != nil {
			return err
		}
		stats, err := recorder.IntentBreakdown(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Turns handled:    %d\n", summary.Total)
		fmt.Fprintf(out, "Success rate:     %.1f%%\n", summary.SuccessRate)
		fmt.Fprintf(out, "Low confidence:   %d\n", summary.LowConfidence)
		fmt.Fprintf(out, "Distinct intents: %d\n", summary.UniqueIntents)
		fmt.Fprintf(out, "Predictions:      %d\n", summary.Predictions)

		if len(stats) == 0 {
			return nil
		}

		fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "INTENT\tCOUNT\tSUCCESS%")
		for _, stat := range stats {
			fmt.Fprintf(w, "%s\t%d\t%.1f\n", stat.Intent, stat.Count, stat.SuccessPct)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(analyticsCmd)
}
