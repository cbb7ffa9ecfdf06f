// Package config loads notegraph settings from an optional TOML file.
//
// Every field has a default, so a missing file is not an error. Lookup order
// for the file is the --config flag, $XDG_CONFIG_HOME/notegraph/config.toml,
// then ~/.config/notegraph/config.toml.
//
//	[canvas]
//	width = 1600
//
//	[force]
//	iterations = 200
//
//	[source]
//	kind = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/Errze/note-bad-ideas/pkg/errors"
	"github.com/Errze/note-bad-ideas/pkg/layout"
	"github.com/Errze/note-bad-ideas/pkg/viewport"
)

// AppName names the config, cache and data directories.
const AppName = "notegraph"

// FileName is the config file looked up in the config directory.
const FileName = "config.toml"

// Source kinds.
const (
	SourceLocal = "local"
	SourceMongo = "mongo"
)

// Note file formats for the local source.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Cache and session backends.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config is the complete application configuration.
type Config struct {
	Canvas   layout.Canvas       `toml:"canvas"`
	Force    layout.ForceParams  `toml:"force"`
	Tree     layout.TreeParams   `toml:"tree"`
	Radial   layout.RadialParams `toml:"radial"`
	Viewport viewport.Options    `toml:"viewport"`
	Source   Source              `toml:"source"`
	Cache    Cache               `toml:"cache"`
	Server   Server              `toml:"server"`
}

// Source selects the document collaborator.
type Source struct {
	Kind            string `toml:"kind" validate:"oneof=local mongo"`
	Root            string `toml:"root" validate:"required_if=Kind local"`
	Format          string `toml:"format" validate:"oneof=json markdown"`
	MongoURI        string `toml:"mongo_uri" validate:"required_if=Kind mongo"`
	MongoDatabase   string `toml:"mongo_database" validate:"required_if=Kind mongo"`
	MongoCollection string `toml:"mongo_collection" validate:"required_if=Kind mongo"`
}

// Cache selects where computed layouts and renders are kept.
type Cache struct {
	Kind     string        `toml:"kind" validate:"oneof=none file redis"`
	Dir      string        `toml:"dir"`
	RedisURL string        `toml:"redis_url" validate:"required_if=Kind redis"`
	TTL      time.Duration `toml:"ttl" validate:"gte=0"`
}

// Server configures the HTTP surface.
type Server struct {
	Addr           string        `toml:"addr" validate:"required"`
	AllowedOrigins []string      `toml:"allowed_origins"`
	SessionStore   string        `toml:"session_store" validate:"oneof=memory file redis"`
	SessionDir     string        `toml:"session_dir"`
	SessionTTL     time.Duration `toml:"session_ttl" validate:"gte=0"`
	RedisURL       string        `toml:"redis_url" validate:"required_if=SessionStore redis"`
}

// Default returns the built-in configuration.
func Default() *Config {
	p := layout.DefaultParams()
	return &Config{
		Canvas:   layout.DefaultCanvas,
		Force:    p.Force,
		Tree:     p.Tree,
		Radial:   p.Radial,
		Viewport: viewport.DefaultOptions(),
		Source: Source{
			Kind:            SourceLocal,
			Root:            "./storage",
			Format:          FormatJSON,
			MongoDatabase:   AppName,
			MongoCollection: "notes",
		},
		Cache: Cache{
			Kind: BackendFile,
			TTL:  24 * time.Hour,
		},
		Server: Server{
			Addr:         ":8080",
			SessionStore: BackendMemory,
			SessionTTL:   2 * time.Hour,
		},
	}
}

// LayoutParams gathers the per-algorithm parameters.
func (c *Config) LayoutParams() layout.Params {
	return layout.Params{Force: c.Force, Tree: c.Tree, Radial: c.Radial}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every section and returns an INVALID_CONFIG error naming
// the offending fields.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "validate config")
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	sort.Strings(fields)
	return errors.New(errors.ErrCodeInvalidConfig, "invalid settings: %s", strings.Join(fields, ", "))
}

// Load reads path on top of the defaults. An empty path searches the default
// locations and falls back to defaults when no file exists. Unknown keys are
// rejected so typos do not pass silently.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = find()
		if path == "" {
			return cfg, nil
		}
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML from r on top of the defaults.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func checkUndecoded(md toml.MetaData) error {
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown settings: %s", strings.Join(names, ", "))
	}
	return nil
}

// Write encodes the configuration as TOML.
func (c *Config) Write(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// =============================================================================
// Paths
// =============================================================================

// Path returns the default config file location.
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, FileName), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/notegraph/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

func find() string {
	candidates := make([]string, 0, 2)
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		candidates = append(candidates, filepath.Join(home, AppName, FileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", AppName, FileName))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
