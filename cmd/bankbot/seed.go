package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bankbot/bank"
	"bankbot/interaction"
	configx "bankbot/pkg/config"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the Postgres schema and demo accounts",
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

		ledger, err := bank.NewStore(db)
		if err != nil {
			return err
		}
		if err := ledger.InitSchema(ctx); err != nil {
			return err
		}

		recorder, err := interaction.NewRecorder(db)
		if err != nil {
			return err
		}
		if err := recorder.InitSchema(ctx); err != nil {
			return err
		}

		if err := bank.SeedDemo(ctx, ledger); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "schema ready, demo accounts seeded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
