package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	ITunes      ITunesConfig      `toml:"itunes"`
	Sync        SyncConfig        `toml:"sync"`
	Matching    MatchingConfig    `toml:"matching"`
	Database    DatabaseConfig    `toml:"database"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	AppleMusic AppleMusicConfig `toml:"apple_music"`
}

// AppleMusicConfig locates the Apple Music web API and the files holding the session credentials.
type AppleMusicConfig struct {
	BaseURL            string `toml:"base_url"`
	Storefront         string `toml:"storefront"`
	TokenFile          string `toml:"token_file"`
	MediaUserTokenFile string `toml:"media_user_token_file"`
	CookiesFile        string `toml:"cookies_file"`
}

// ITunesConfig contains the public iTunes Search API settings.
type ITunesConfig struct {
	BaseURL string `toml:"base_url"`
	Country string `toml:"country"`
	Limit   int    `toml:"limit"`
}

// SyncConfig controls playlist and album synchronization.
type SyncConfig struct {
	DelayMS             int    `toml:"delay_ms"`
	PlaylistDescription string `toml:"playlist_description"`
	UnresolvedTracks    string `toml:"unresolved_tracks"`
	UnresolvedAlbums    string `toml:"unresolved_albums"`
}

// Delay is the pause observed after each processed row.
func (s SyncConfig) Delay() time.Duration {
	if s.DelayMS < 0 {
		return 0
	}
	return time.Duration(s.DelayMS) * time.Millisecond
}

// MatchingConfig tunes the track matcher.
type MatchingConfig struct {
	LegacySubstringCase bool `toml:"legacy_substring_case"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Enabled      bool   `toml:"enabled"`
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the values that would otherwise fail deep inside a sync.
func (c *Config) Validate() error {
	if c.ITunes.Limit <= 0 {
		return fmt.Errorf("%w: itunes.limit must be positive", ErrInvalidConfig)
	}
	if c.Credentials.AppleMusic.BaseURL == "" {
		return fmt.Errorf("%w: credentials.apple_music.base_url is required", ErrInvalidConfig)
	}
	if c.Sync.UnresolvedTracks == "" || c.Sync.UnresolvedAlbums == "" {
		return fmt.Errorf("%w: sync unresolved log paths are required", ErrInvalidConfig)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
