// Package config initializes the application's configuration. It uses
// the Viper library to read settings from a config file, environment
// variables, and command-line flags, providing a unified configuration
// system.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rgrier/pageharvest/internal/scraper"
)

// InitConfig initializes the application's configuration using Viper.
// It sets up default values, defines configuration search paths, and
// enables reading from environment variables. Call once at startup.
func InitConfig(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}

	viper.SetConfigName("pageharvest")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/pageharvest/")
	viper.AddConfigPath("$HOME/.pageharvest")

	viper.SetDefault("scraper.urls", "")
	viper.SetDefault("scraper.url_file", "")
	viper.SetDefault("scraper.sitemap_url", "")
	viper.SetDefault("scraper.output", "scraped_data.csv")
	viper.SetDefault("scraper.archive_dir", "")
	viper.SetDefault("scraper.agent_name", "pageharvest/1.0 (+https://github.com/rgrier/pageharvest)")
	viper.SetDefault("scraper.identity_pool", scraper.DefaultIdentityPool)
	viper.SetDefault("scraper.respect_robots", true)
	viper.SetDefault("scraper.max_attempts", 3)
	viper.SetDefault("scraper.request_timeout", "10s")
	viper.SetDefault("scraper.request_delay", "1s")

	viper.SetDefault("database.dsn", "")
	viper.SetDefault("database.table", "records")
	viper.SetDefault("server.status_addr", "")

	viper.SetEnvPrefix("PAGEHARVEST") // e.g. PAGEHARVEST_SCRAPER_OUTPUT=out.csv
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.Debug("config file not found; using defaults and environment variables")
		} else {
			logger.Error("error reading config file", zap.Error(err))
		}
	} else {
		logger.Info("using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}
