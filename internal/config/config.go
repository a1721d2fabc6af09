// Package config provides configuration loading and structs for the wikitime server and CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvServerHost    = "WIKITIME_SERVER_HOST"
	EnvServerPort    = "WIKITIME_SERVER_PORT"
	EnvDatabasePath  = "WIKITIME_DATABASE_PATH"
	EnvBleveIndex    = "WIKITIME_BLEVE_INDEX_PATH"
	EnvWikipediaAPI  = "WIKITIME_WIKIPEDIA_API_URL"
	EnvUserAgent     = "WIKITIME_USER_AGENT"
	EnvCacheBackend  = "WIKITIME_CACHE_BACKEND"
	EnvRedisAddress  = "WIKITIME_REDIS_ADDRESS"
	EnvRedisPassword = "WIKITIME_REDIS_PASSWORD"
	EnvDebug         = "WIKITIME_DEBUG"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Wikipedia WikipediaConfig `yaml:"wikipedia"`
	Cache     CacheConfig     `yaml:"cache"`
	Watch     WatchConfig     `yaml:"watch"`
	Timeline  TimelineConfig  `yaml:"timeline"`
}

// WatchConfig holds directory watch settings for offline article imports.
type WatchConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
	Recursive   *bool    `yaml:"recursive"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true when unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	if w.Recursive != nil {
		return *w.Recursive
	}
	return true
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Address returns host:port.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig holds paths for the article database and search index.
type StorageConfig struct {
	DatabasePath   string `yaml:"database_path"`
	BleveIndexPath string `yaml:"bleve_index_path"`
}

// WikipediaConfig holds MediaWiki API client settings.
type WikipediaConfig struct {
	APIURL    string        `yaml:"api_url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// CacheConfig selects and sizes the article cache.
type CacheConfig struct {
	Backend string        `yaml:"backend"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
	Redis   RedisConfig   `yaml:"redis"`
}

// RedisConfig holds the redis connection used by the redis cache backend.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// TimelineConfig holds timeline presentation settings.
type TimelineConfig struct {
	ViewDefaultLimit int `yaml:"view_default_limit"`
}

// Load reads .env files, parses the config file at path, applies defaults and environment
// overrides, then expands paths. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	if err := LoadEnvFiles(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.BleveIndexPath = expandPath(cfg.Storage.BleveIndexPath, configDir)
	for i := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(cfg.Watch.Directories[i], configDir)
	}

	return &cfg, nil
}

// Save writes the config to path. Used for persisting watch directory add/remove.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// LoadEnvFiles loads .env.local then .env from the working directory. Variables already
// set in the environment win; missing files are ignored.
func LoadEnvFiles() error {
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with any WIKITIME_* variables present in the environment.
func ApplyEnv(cfg *Config) error {
	setString(&cfg.Server.Host, EnvServerHost)
	setString(&cfg.Storage.DatabasePath, EnvDatabasePath)
	setString(&cfg.Storage.BleveIndexPath, EnvBleveIndex)
	setString(&cfg.Wikipedia.APIURL, EnvWikipediaAPI)
	setString(&cfg.Wikipedia.UserAgent, EnvUserAgent)
	setString(&cfg.Cache.Backend, EnvCacheBackend)
	setString(&cfg.Cache.Redis.Address, EnvRedisAddress)
	setString(&cfg.Cache.Redis.Password, EnvRedisPassword)

	if v, ok := os.LookupEnv(EnvServerPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvServerPort, v, err)
		}
		cfg.Server.Port = port
	}
	if v, ok := os.LookupEnv(EnvDebug); ok && v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvDebug, v, err)
		}
		cfg.Debug = debug
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
