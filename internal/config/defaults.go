package config

import "time"

// DefaultWikipediaAPI is the English Wikipedia action API endpoint.
const DefaultWikipediaAPI = "https://en.wikipedia.org/w/api.php"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/wikitime/data/db/articles.db"
	}
	if cfg.Storage.BleveIndexPath == "" {
		cfg.Storage.BleveIndexPath = "/usr/local/var/wikitime/data/indices/bleve"
	}
	if cfg.Wikipedia.APIURL == "" {
		cfg.Wikipedia.APIURL = DefaultWikipediaAPI
	}
	if cfg.Wikipedia.UserAgent == "" {
		cfg.Wikipedia.UserAgent = "wikitime/1.0 (https://github.com/hyperjump/wikitime)"
	}
	if cfg.Wikipedia.Timeout == 0 {
		cfg.Wikipedia.Timeout = 15 * time.Second
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = CacheMemory
	}
	if cfg.Cache.Size == 0 {
		cfg.Cache.Size = 256
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 24 * time.Hour
	}
	if cfg.Cache.Redis.Address == "" {
		cfg.Cache.Redis.Address = "localhost:6379"
	}
	if cfg.Timeline.ViewDefaultLimit == 0 {
		cfg.Timeline.ViewDefaultLimit = 500
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".html", ".htm"}
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}
