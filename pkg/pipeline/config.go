package pipeline

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/latticeviz/pkg/errors"
)

// Config is the content of a latticeviz TOML config file.
//
//	[analysis]
//	width = 1024
//	skip_minimize = true
//
//	[cache]
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
type Config struct {
	Analysis Options      `toml:"analysis"`
	Cache    CacheConfig  `toml:"cache"`
	Server   ServerConfig `toml:"server"`
}

// CacheConfig selects the result cache backend.
type CacheConfig struct {
	// Disabled turns caching off.
	Disabled bool `toml:"disabled"`
	// Dir overrides the file cache directory.
	Dir string `toml:"dir"`
	// RedisAddr selects the Redis backend when set.
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
	// MaxBodyBytes limits the size of uploaded datasets.
	MaxBodyBytes int64 `toml:"max_body_bytes"`
}

// Default server settings.
const (
	DefaultServerAddr   = ":8080"
	DefaultMaxBodyBytes = 10 << 20
)

// LoadConfig decodes the TOML file at path. An empty path returns the
// defaults; unknown keys are rejected so that typos do not pass silently.
func LoadConfig(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
		}
	}
	cfg.SetDefaults()
	return cfg, nil
}

// SetDefaults fills zero server settings.
// Analysis defaults are applied when the pipeline runs.
func (c *Config) SetDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
}
