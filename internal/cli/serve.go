package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ecotrack-campus/ecotrack/internal/daemon"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	serveCmd.Flags().String("host", "", "Override [api] host")
	serveCmd.Flags().Int("port", 0, "Override [api] port")
	serveCmd.Flags().String("store", "", "Override [session] store (memory, sqlite)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the EcoTrack HTTP API",
	Long: `Start the HTTP API. Every login opens an in-memory session seeded with
the campus data; nothing is written to disk and sessions vanish on exit.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.API.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.API.Port = port
	}
	if store, _ := cmd.Flags().GetString("store"); store != "" {
		cfg.Session.Store = store
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return daemon.New(cfg, logger, Version).Run(ctx)
}

// ─── version ────────────────────────────────────────────────────────────────

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ecotrack version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ecotrack %s\n", Version)
	},
}
