// Package config loads orgchart settings from a TOML file and the
// environment.
//
// Precedence, lowest first: [Default], the TOML file, ORGCHART_* environment
// variables. Command-line flags are applied on top by the CLI. Every section
// maps onto the options struct of the package that consumes it, so a loaded
// Config can be handed straight to the builder, the layout engine and the
// viewport controller.
//
// Example config.toml:
//
//	[layout]
//	horizontal_spacing = 20
//	vertical_spacing = 300
//
//	[build]
//	expand_depth = 2
//	palette = ["#4C78A8", "#F58518"]
//
//	[viewport]
//	max_zoom = 3.0
//	animation_duration = "300ms"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/org/builder"
	"github.com/matzehuels/orgchart/pkg/viewport"
)

// Cache backends.
const (
	CacheFile   = "file"
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheMongo  = "mongo"
	CacheNone   = "none"
)

// Config is the complete application configuration.
type Config struct {
	Layout   layout.Config   `toml:"layout"`
	Cards    Cards           `toml:"cards"`
	Build    Build           `toml:"build"`
	Viewport viewport.Config `toml:"viewport"`
	Server   Server          `toml:"server"`
	Cache    Cache           `toml:"cache"`
	Log      Log             `toml:"log"`
}

// Cards holds the per-type card sizes.
type Cards struct {
	Department builder.Size `toml:"department"`
	Employee   builder.Size `toml:"employee"`
}

// Build holds the model builder settings.
type Build struct {
	ExpandDepth   int      `toml:"expand_depth"`
	Palette       []string `toml:"palette" validate:"dive,hexcolor"`
	FallbackColor string   `toml:"fallback_color" validate:"omitempty,hexcolor"`
}

// Server holds the HTTP API settings.
type Server struct {
	Addr         string        `toml:"addr" env:"ORGCHART_ADDR" validate:"required"`
	ReadTimeout  time.Duration `toml:"read_timeout" env:"ORGCHART_READ_TIMEOUT"`
	WriteTimeout time.Duration `toml:"write_timeout" env:"ORGCHART_WRITE_TIMEOUT"`
	MaxBodyBytes int64         `toml:"max_body_bytes" env:"ORGCHART_MAX_BODY_BYTES" validate:"gt=0"`
	MaxViews     int           `toml:"max_views" env:"ORGCHART_MAX_VIEWS" validate:"gt=0"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend         string `toml:"backend" env:"ORGCHART_CACHE" validate:"oneof=file memory redis mongo none"`
	Dir             string `toml:"dir" env:"ORGCHART_CACHE_DIR"`
	Prefix          string `toml:"prefix" env:"ORGCHART_CACHE_PREFIX"`
	RedisURL        string `toml:"redis_url" env:"ORGCHART_REDIS_URL" validate:"required_if=Backend redis"`
	MongoURI        string `toml:"mongo_uri" env:"ORGCHART_MONGO_URI" validate:"required_if=Backend mongo"`
	MongoDatabase   string `toml:"mongo_database" env:"ORGCHART_MONGO_DATABASE"`
	MongoCollection string `toml:"mongo_collection" env:"ORGCHART_MONGO_COLLECTION"`
}

// Log holds logger settings.
type Log struct {
	Level string `toml:"level" env:"ORGCHART_LOG_LEVEL" validate:"oneof=debug info warn error"`
}

// Default returns the reference configuration.
func Default() Config {
	b := builder.DefaultOptions()
	return Config{
		Layout: layout.DefaultConfig(),
		Cards: Cards{
			Department: builder.Size{Width: org.DefaultWidth, Height: org.DefaultHeight},
			Employee:   builder.Size{Width: org.DefaultWidth, Height: org.DefaultHeight},
		},
		Build: Build{
			ExpandDepth:   b.ExpandDepth,
			Palette:       append([]string(nil), b.Palette...),
			FallbackColor: b.FallbackColor,
		},
		Viewport: viewport.DefaultConfig(),
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			MaxBodyBytes: 4 << 20,
			MaxViews:     1000,
		},
		Cache: Cache{
			Backend:         CacheFile,
			Dir:             DefaultCacheDir(),
			MongoDatabase:   "orgchart",
			MongoCollection: "cache",
		},
		Log: Log{Level: "info"},
	}
}

// BuilderOptions converts the build and card sections for the model builder.
func (c Config) BuilderOptions() builder.Options {
	return builder.Options{
		ExpandDepth:    c.Build.ExpandDepth,
		Palette:        c.Build.Palette,
		FallbackColor:  c.Build.FallbackColor,
		DepartmentSize: c.Cards.Department,
		EmployeeSize:   c.Cards.Employee,
	}
}

// DefaultPath returns the per-user config file location, for example
// ~/.config/orgchart/config.toml. It returns "" if no config dir is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "orgchart", "config.toml")
}

// DefaultCacheDir returns the per-user cache directory, falling back to a
// directory under the system temp dir.
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "orgchart")
	}
	return filepath.Join(os.TempDir(), "orgchart-cache")
}
