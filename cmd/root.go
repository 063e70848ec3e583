// Package cmd contains the CLI commands for errorgrams
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Global vars needed for cobra CLI
var (
	cfgFile string
	logger  *logrus.Logger
)

// rootCmd represents the base command
//
//nolint:gochecknoglobals // Cobra commands are typically global
var rootCmd = &cobra.Command{
	Use:   "errorgrams",
	Short: "Find the most common error-message trigrams on Stack Exchange",
	Long: `errorgrams collects questions from the Stack Exchange search API,
pulls the error messages out of their bodies and ranks the word trigrams
found in them. For the top K trigrams it reports what fraction of all error
messages contain at least one of them.`,
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
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error, fatal, panic), overrides config")

	// Initialize logger
	logger = logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "./config.yaml"
	}

	logLevel, err := rootCmd.PersistentFlags().GetString("log-level")
	if err != nil || logLevel == "" {
		return
	}

	setLogLevel(logLevel)
}

// loadConfig reads the config file and applies its logging level unless the
// --log-level flag was given.
func loadConfig(cmd *cobra.Command) (*Config, error) {
	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if !cmd.Flags().Changed("log-level") {
		setLogLevel(cfg.Logging)
	}

	return cfg, nil
}

func setLogLevel(name string) {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		logger.WithError(err).Warn("Invalid log level, defaulting to info")

		level = logrus.InfoLevel
	}

	logger.SetLevel(level)
}
