package scraper

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every configuration knob that influences a run.
// All values originate from Viper so the scraper can be configured via
// files, env vars, or CLI flags, while staying decoupled from Viper
// itself for testing.
type Config struct {
	URLs       string
	URLFile    string
	SitemapURL string

	OutputPath string
	ArchiveDir string

	AgentName      string
	IdentityPool   []string
	RespectRobots  bool
	MaxAttempts    int
	RequestTimeout time.Duration
	RequestDelay   time.Duration

	DatabaseDSN   string
	DatabaseTable string
	StatusAddr    string
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		URLs:           v.GetString("scraper.urls"),
		URLFile:        v.GetString("scraper.url_file"),
		SitemapURL:     v.GetString("scraper.sitemap_url"),
		OutputPath:     v.GetString("scraper.output"),
		ArchiveDir:     v.GetString("scraper.archive_dir"),
		AgentName:      v.GetString("scraper.agent_name"),
		IdentityPool:   normalizeIdentities(v.GetStringSlice("scraper.identity_pool")),
		RespectRobots:  v.GetBool("scraper.respect_robots"),
		MaxAttempts:    v.GetInt("scraper.max_attempts"),
		RequestTimeout: v.GetDuration("scraper.request_timeout"),
		RequestDelay:   v.GetDuration("scraper.request_delay"),
		DatabaseDSN:    v.GetString("database.dsn"),
		DatabaseTable:  v.GetString("database.table"),
		StatusAddr:     v.GetString("server.status_addr"),
	}
	return cfg, cfg.Validate()
}

// SeedURLs splits the comma-separated URL list into its entries.
func (c Config) SeedURLs() []string {
	if strings.TrimSpace(c.URLs) == "" {
		return nil
	}
	parts := strings.Split(c.URLs, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	sources := 0
	if len(c.SeedURLs()) > 0 {
		sources++
	}
	if c.URLFile != "" {
		sources++
	}
	if c.SitemapURL != "" {
		sources++
	}
	if sources == 0 {
		return fmt.Errorf("one of scraper.urls, scraper.url_file or scraper.sitemap_url must be set")
	}
	if sources > 1 {
		return fmt.Errorf("scraper.urls, scraper.url_file and scraper.sitemap_url are mutually exclusive")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("scraper.output must be set")
	}
	if c.AgentName == "" {
		return fmt.Errorf("scraper.agent_name must be set")
	}
	if len(c.IdentityPool) == 0 {
		return fmt.Errorf("scraper.identity_pool must include at least one entry")
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("scraper.max_attempts must be > 0")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("scraper.request_timeout must be > 0")
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("scraper.request_delay must be >= 0")
	}
	return nil
}

func normalizeIdentities(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{})
	for _, id := range in {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
