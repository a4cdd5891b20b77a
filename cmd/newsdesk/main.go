package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hoanghai1803/newsdesk/internal/config"
	"github.com/hoanghai1803/newsdesk/internal/logging"
)

var version = "dev"

var (
	configPath string
	logLevel   string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "newsdesk",
	Short:         "AI curated news feeds",
	Long:          "newsdesk selects credible sources for your topics, gathers their latest articles and ranks them with a language model.",
	Version:       version,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		level := cfg.Log.Level
		if cmd.Flags().Changed("log-level") {
			if !logging.ValidLevel(logLevel) {
				return fmt.Errorf("invalid --log-level %q: must be debug, info, warn or error", logLevel)
			}
			level = logLevel
		}
		logging.New(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(curateCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "newsdesk %s\n", version)
	},
}
