// Package cmd defines and implements the CLI commands for the
// pageharvest executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rgrier/pageharvest/internal/logging"
	"github.com/rgrier/pageharvest/pkg/config"
)

var (
	cfgFile  string
	devLog   bool
	logLevel string

	// logger is built once during command initialization and shared by
	// all subcommands.
	logger *zap.Logger
)

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pageharvest",
		Short: "A polite, sequential web scraper.",
		Long: `pageharvest fetches a fixed list of pages one at a time, honoring
robots.txt, and writes the extracted title, headings, links and images
to a CSV file. URLs come from the command line, a file, or a sitemap.`,

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cobra.OnInitialize(func() {
		var err error
		logger, err = logging.New(devLog, logLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
			os.Exit(1)
		}
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		}
		config.InitConfig(logger)
	})

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./pageharvest.yaml)")
	cmd.PersistentFlags().BoolVar(&devLog, "dev-log", false, "use human-readable development logging")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "minimum log level (debug, info, warn, error)")

	cmd.AddCommand(newScrapeCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		if logger != nil {
			logger.Error("command failed", zap.Error(err))
			_ = logger.Sync()
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
	if logger != nil {
		_ = logger.Sync()
	}
}
