package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	configx "bankbot/pkg/config"
	"bankbot/server"
)

var serveDemo bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP chat server",
	Long: `Serves the chat API, the analytics read side and the operational
endpoints until interrupted. Demo mode runs against in-memory stores
seeded with the demo ledger; the intent classifier stays remote.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rt, err := buildRuntime(ctx, serveDemo)
		if err != nil {
			return err
		}
		defer rt.Close()

		httpCfg, err := configx.New[server.Config]("HTTP")
		if err != nil {
			return err
		}

		srv, err := server.New(*httpCfg, rt.engine, rt.analytics, rt.serverOpts()...)
		if err != nil {
			return err
		}
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveDemo, "demo", false, "use in-memory stores seeded with demo accounts")
	rootCmd.AddCommand(serveCmd)
}
