package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Yates-Labs/linkforge/internal/config"
	"github.com/Yates-Labs/linkforge/internal/logging"
)

var (
	configPath string
	verbose    bool

	// Set by the root command before any subcommand runs.
	cfg    config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "linkforge",
	Short: "Linkforge - LinkedIn post generator",
	Long: `Linkforge generates LinkedIn posts with a large language model.

It builds a prompt from a topic, tone, template and target length, asks the
model for one to three variations, optionally adds hashtags and emojis, and
reports word, character and sentence counts for every post.

Configuration is read from linkforge.yaml (optional) and the environment.
A .env file in the working directory is loaded first.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// setup loads configuration and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if verbose {
		loaded.Logging.Level = "debug"
		loaded.Logging.Development = true
	}

	l, err := logging.New(loaded.Logging.Level, loaded.Logging.Development)
	if err != nil {
		return err
	}

	cfg = loaded
	logger = l
	logger.Debug("Configuration loaded",
		zap.String("config", configPath),
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model))
	return nil
}

// Execute runs the root command
func Execute() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
