// Package config loads the YAML configuration with defaults and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/umputun/postsync/pkg/domain"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Account     AccountConfig     `yaml:"account" json:"account" jsonschema:"description=Authenticated account"`
	API         APIConfig         `yaml:"api" json:"api" jsonschema:"description=Platform API access"`
	Credentials CredentialsConfig `yaml:"credentials" json:"credentials" jsonschema:"description=OAuth2 credentials storage"`
	Storage     StorageConfig     `yaml:"storage" json:"storage" jsonschema:"description=Archives cursors and record store"`
	Sync        SyncConfig        `yaml:"sync" json:"sync" jsonschema:"description=Synchronization settings"`
	Tracking    TrackingConfig    `yaml:"tracking" json:"tracking" jsonschema:"description=Tracked accounts of the following feed"`
	Digest      DigestConfig      `yaml:"digest" json:"digest" jsonschema:"description=Digest ranking and RSS"`
	Server      ServerConfig      `yaml:"server" json:"server" jsonschema:"description=Server configuration"`
}

// AccountConfig identifies the authenticated account, resolved with the API when empty
type AccountConfig struct {
	ID     string `yaml:"id" json:"id" jsonschema:"description=Account id of the authenticated user"`
	Handle string `yaml:"handle" json:"handle" jsonschema:"description=Handle of the authenticated user"`
}

// APIConfig holds platform API settings
type APIConfig struct {
	BaseURL     string        `yaml:"base_url" json:"base_url" jsonschema:"default=https://api.x.com,description=API base URL"`
	TokenURL    string        `yaml:"token_url" json:"token_url" jsonschema:"default=https://api.x.com/2/oauth2/token,description=OAuth2 token endpoint"`
	ClientID    string        `yaml:"client_id" json:"client_id" jsonschema:"description=OAuth2 client id (can use environment variable)"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Timeout of a single API call"`
	PageSize    int           `yaml:"page_size" json:"page_size" jsonschema:"default=100,minimum=5,maximum=100,description=Items per page"`
	MaxRateWait time.Duration `yaml:"max_rate_wait" json:"max_rate_wait" jsonschema:"default=15m,description=Longest single wait for a rate limit reset"`
	UserAgent   string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=postsync/1.0,description=User agent of API requests"`
}

// CredentialsConfig holds credentials file settings
type CredentialsConfig struct {
	Path        string        `yaml:"path" json:"path" jsonschema:"default=credentials.json,description=Credentials file written by authorization"`
	RefreshSkew time.Duration `yaml:"refresh_skew" json:"refresh_skew" jsonschema:"default=5m,description=Refresh tokens expiring within this interval"`
}

// StorageConfig holds local state locations
type StorageConfig struct {
	Dir          string `yaml:"dir" json:"dir" jsonschema:"default=var,description=Directory of archives and cursors"`
	DSN          string `yaml:"dsn" json:"dsn" jsonschema:"default=file:postsync.db?cache=shared&mode=rwc&_txlock=immediate,description=Record store database connection string"`
	MaxOpenConns int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=4,description=Maximum number of open connections"`
}

// SyncConfig holds synchronization settings
type SyncConfig struct {
	Feeds      []string      `yaml:"feeds" json:"feeds" jsonschema:"enum=own,enum=bookmarks,enum=following,description=Enabled feeds (all by default)"`
	Lookback   time.Duration `yaml:"lookback" json:"lookback" jsonschema:"default=72h,description=Initial window for accounts without a cursor"`
	MaxWorkers int           `yaml:"max_workers" json:"max_workers" jsonschema:"default=1,minimum=1,description=Feeds synced concurrently"`
	Interval   time.Duration `yaml:"interval" json:"interval" jsonschema:"default=1h,description=Scheduler run interval"`
}

// TrackingConfig holds tracking lists and the quality bar for follow candidates
type TrackingConfig struct {
	IncludeFile  string        `yaml:"include_file" json:"include_file" jsonschema:"description=HuJSON list of always tracked accounts"`
	ExcludeFile  string        `yaml:"exclude_file" json:"exclude_file" jsonschema:"description=HuJSON list of never tracked accounts"`
	MinFollowers int           `yaml:"min_followers" json:"min_followers" jsonschema:"default=0,description=Minimum followers of a candidate"`
	MinPosts     int           `yaml:"min_posts" json:"min_posts" jsonschema:"default=0,description=Minimum posts of a candidate"`
	MaxInactive  time.Duration `yaml:"max_inactive" json:"max_inactive" jsonschema:"default=0,description=Skip candidates silent for longer (0 disables)"`
}

// DigestConfig holds digest settings
type DigestConfig struct {
	TopN    int           `yaml:"top_n" json:"top_n" jsonschema:"default=20,minimum=1,description=Items in a digest"`
	Window  time.Duration `yaml:"window" json:"window" jsonschema:"default=48h,description=Only items created within the window"`
	PostURL string        `yaml:"post_url" json:"post_url" jsonschema:"default=https://x.com,description=Prefix of post permalinks"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	BaseURL string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Base URL for RSS feeds"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		return nil, fmt.Errorf("verify config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	// api
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://api.x.com"
	}
	if cfg.API.TokenURL == "" {
		cfg.API.TokenURL = "https://api.x.com/2/oauth2/token"
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 30 * time.Second
	}
	if cfg.API.PageSize == 0 {
		cfg.API.PageSize = 100
	}
	if cfg.API.MaxRateWait == 0 {
		cfg.API.MaxRateWait = 15 * time.Minute
	}
	if cfg.API.UserAgent == "" {
		cfg.API.UserAgent = "postsync/1.0"
	}

	// credentials
	if cfg.Credentials.Path == "" {
		cfg.Credentials.Path = "credentials.json"
	}
	if cfg.Credentials.RefreshSkew == 0 {
		cfg.Credentials.RefreshSkew = 5 * time.Minute
	}

	// storage
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = "var"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "file:postsync.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Storage.MaxOpenConns == 0 {
		cfg.Storage.MaxOpenConns = 4
	}

	// sync
	if len(cfg.Sync.Feeds) == 0 {
		for _, f := range domain.AllFeeds {
			cfg.Sync.Feeds = append(cfg.Sync.Feeds, string(f))
		}
	}
	if cfg.Sync.Lookback == 0 {
		cfg.Sync.Lookback = 72 * time.Hour
	}
	if cfg.Sync.MaxWorkers == 0 {
		cfg.Sync.MaxWorkers = 1
	}
	if cfg.Sync.Interval == 0 {
		cfg.Sync.Interval = time.Hour
	}

	// digest
	if cfg.Digest.TopN == 0 {
		cfg.Digest.TopN = 20
	}
	if cfg.Digest.Window == 0 {
		cfg.Digest.Window = 48 * time.Hour
	}
	if cfg.Digest.PostURL == "" {
		cfg.Digest.PostURL = "https://x.com"
	}

	// server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = "http://localhost:8080"
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.API.PageSize < 5 || cfg.API.PageSize > 100 {
		return fmt.Errorf("api.page_size must be between 5 and 100")
	}
	if cfg.API.Timeout < time.Second {
		return fmt.Errorf("api.timeout must be at least 1 second")
	}
	if cfg.API.MaxRateWait < time.Second {
		return fmt.Errorf("api.max_rate_wait must be at least 1 second")
	}
	if _, err := cfg.Feeds(); err != nil {
		return fmt.Errorf("sync.feeds: %w", err)
	}
	if cfg.Sync.MaxWorkers < 1 {
		return fmt.Errorf("sync.max_workers must be at least 1")
	}
	if cfg.Sync.Interval < time.Minute {
		return fmt.Errorf("sync.interval must be at least 1 minute")
	}
	if cfg.Sync.Lookback < 0 {
		return fmt.Errorf("sync.lookback must be non-negative")
	}
	if cfg.Tracking.MinFollowers < 0 || cfg.Tracking.MinPosts < 0 {
		return fmt.Errorf("tracking thresholds must be non-negative")
	}
	if cfg.Digest.TopN < 1 {
		return fmt.Errorf("digest.top_n must be at least 1")
	}
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	return nil
}

// Feeds returns the enabled feeds in run order, without duplicates
func (c *Config) Feeds() ([]domain.Feed, error) {
	enabled := map[domain.Feed]bool{}
	for _, name := range c.Sync.Feeds {
		f, err := domain.ParseFeed(name)
		if err != nil {
			return nil, err
		}
		enabled[f] = true
	}
	res := make([]domain.Feed, 0, len(enabled))
	for _, f := range domain.AllFeeds {
		if enabled[f] {
			res = append(res, f)
		}
	}
	return res, nil
}

// ArchiveDir is where per-feed archives are kept
func (c *Config) ArchiveDir() string { return filepath.Join(c.Storage.Dir, "archive") }

// CursorPath is the cursor file of the feed
func (c *Config) CursorPath(feed domain.Feed) string {
	return filepath.Join(c.Storage.Dir, "cursors", string(feed)+".json")
}
