package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	configx "bankbot/pkg/config"
	logx "bankbot/pkg/logger"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "bankbot",
	Short: "Task-oriented banking assistant",
	Long: `bankbot runs a deterministic dialogue engine for banking tasks:
intent classification, entity extraction, a domain gate and multi-turn
flows for transfers, balance checks and card blocking.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if path := strings.TrimSpace(envFile); path != "" {
			configx.SetEnvFile(path)
		}

		// logging was bootstrapped at import time with defaults;
		// re-init now that the env file is known
		logCfg, err := configx.New[logx.Config]("LOG")
		if err != nil {
			return err
		}
		logx.Init(*logCfg)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file loaded before reading configuration (default .env when present)")
}
