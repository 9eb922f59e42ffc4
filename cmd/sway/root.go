package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/sway"
	"github.com/phanxgames/sway/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "sway",
	Short:         "Sway drives animated value graphs",
	Long:          `Sway runs animation scripts on a value graph, locally or through the in-process remote executor.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Bridge config file (YAML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides the config)")
}

// loadSettings reads the config file and builds the logger for a command.
func loadSettings(cmd *cobra.Command) (sway.Config, *slog.Logger, error) {
	var cfg sway.Config
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		c, err := sway.LoadConfigFile(path)
		if err != nil {
			return cfg, nil, err
		}
		cfg = c
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	level, err := cfg.Level()
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logging.New(level), nil
}

func loadScript(path string) (*sway.Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return sway.LoadScript(data)
}
