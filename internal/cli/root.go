// Package cli implements the ecotrack command line.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ecotrack-campus/ecotrack/internal/daemon"
)

// Version is stamped at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "dev"

var (
	configPath string
	logLevel   string

	cfg    daemon.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ecotrack",
	Short: "Campus sustainability tracker",
	Long: `EcoTrack estimates daily carbon footprints from transport and electricity
use, rewards eco actions with EcoPoints, and tracks e-waste collection sites.
Run 'ecotrack serve' for the HTTP API or use the one-off commands below.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", daemon.DefaultConfigPath(), "Path to config.toml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override [log] level (debug, info, warn, error)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := daemon.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	cfg = c
	logger = daemon.NewLogger(cfg.Log)
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
