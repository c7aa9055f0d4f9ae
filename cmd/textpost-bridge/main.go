// Copyright 2024-2026 Aiku AI

// Command textpost-bridge receives messaging-provider webhook events and
// publishes the resulting posts to a publish API. Images attached to a
// message are uploaded to an image host and a .txt attachment, when present,
// supplies the post text.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aiku/textpost-bridge/pkg/connector"
)

// These are filled at build time with -ldflags.
var (
	Tag       = "unknown"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "textpost-bridge",
	Short:        "Bridge messaging events into published posts",
	SilenceUsage: true,
	RunE:         runRoot,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("textpost-bridge %s (%s) built at %s\n", Tag, Commit, BuildTime)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Rewrite the config file with any new keys filled from defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		upgraded, err := connector.UpgradeConfig(data)
		if err != nil {
			return err
		}
		if err := os.WriteFile(configPath, upgraded, 0o600); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Printf("Upgraded %s\n", configPath)
		return nil
	},
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := connector.LoadConfig(configPath)
	if err != nil {
		return err
	}

	log, err := cfg.Logging.Compile()
	if err != nil {
		fallback := zerolog.New(os.Stderr).With().Timestamp().Logger()
		fallback.Warn().Err(err).Msg("Failed to compile logging config, using stderr")
		log = &fallback
	}
	log.Info().
		Str("version", Tag).
		Str("commit", Commit).
		Str("built_at", BuildTime).
		Msg("Initializing textpost-bridge")

	conn, err := connector.NewConnector(*cfg, *log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return conn.Start(ctx)
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the config file")
	configCmd.AddCommand(configUpgradeCmd)
	rootCmd.AddCommand(versionCmd, configCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
