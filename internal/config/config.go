// Package config loads the wordmosaic TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/wordmosaic/config.toml unless --config
// names another path. A missing file is not an error: every setting has a
// default, and command-line flags override both.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/wordmosaic/pkg/text"
)

// Cloud holds the default word cloud settings.
type Cloud struct {
	Width            int      `toml:"width"`
	Height           int      `toml:"height"`
	Palette          string   `toml:"palette"`
	MaxWords         int      `toml:"max_words"`
	MinFontSize      float64  `toml:"min_font_size"`
	MaxFontSize      float64  `toml:"max_font_size"`
	Scaling          string   `toml:"scaling"`
	PreferHorizontal float64  `toml:"prefer_horizontal"`
	Margin           float64  `toml:"margin"`
	Seed             uint64   `toml:"seed"`
	Tries            int      `toml:"tries"`
	Formats          []string `toml:"formats"`
	Background       string   `toml:"background"`
	Scale            float64  `toml:"scale"`
}

// Stopwords extends or replaces the built-in stopword list.
type Stopwords struct {
	Extra     []string `toml:"extra"`
	NoDefault bool     `toml:"no_default"`
}

// Cache selects the result cache backend.
type Cache struct {
	Backend       string `toml:"backend"` // file, redis or none
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// Store selects where frequency tables are kept.
type Store struct {
	Backend         string `toml:"backend"` // sqlite, mongo or none
	Path            string `toml:"path"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Server configures `wordmosaic serve`.
type Server struct {
	Addr           string `toml:"addr"`
	RequestTimeout int    `toml:"request_timeout"` // seconds
	MaxBodyMiB     int    `toml:"max_body_mib"`
}

// Config is the full configuration file.
type Config struct {
	Cloud     Cloud     `toml:"cloud"`
	Stopwords Stopwords `toml:"stopwords"`
	Cache     Cache     `toml:"cache"`
	Store     Store     `toml:"store"`
	Server    Server    `toml:"server"`
}

// DefaultPath returns $XDG_CONFIG_HOME/wordmosaic/config.toml, falling back
// to the platform user config directory.
func DefaultPath() (string, error) {
	if base, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "wordmosaic", "config.toml"), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "wordmosaic", "config.toml"), nil
}

// Load reads the configuration at path, or at DefaultPath when path is
// empty. It returns the config, the resolved path, and whether the file
// existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return nil, "", false, err
	}

	md, err := toml.DecodeFile(resolved, &cfg)
	exists := true
	if errors.Is(err, fs.ErrNotExist) {
		exists = false
	} else if err != nil {
		return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, "", false, fmt.Errorf("parse config %s: unknown keys %s", resolved, strings.Join(keys, ", "))
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, fmt.Errorf("config %s: %w", resolved, err)
	}
	return &cfg, resolved, exists, nil
}

// Save writes c to path as TOML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode config: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write config: %w", err)
	}
	return os.Rename(tmp, path)
}

// AddStopwords appends words to the extra stopwords, skipping words that
// are already listed in any case. It returns the number added.
func (c *Config) AddStopwords(words ...string) int {
	seen := make(map[string]bool, len(c.Stopwords.Extra))
	for _, w := range c.Stopwords.Extra {
		seen[text.Lower(w)] = true
	}
	added := 0
	for _, w := range words {
		w = strings.TrimSpace(w)
		key := text.Lower(w)
		if w == "" || seen[key] {
			continue
		}
		seen[key] = true
		c.Stopwords.Extra = append(c.Stopwords.Extra, w)
		added++
	}
	sort.Strings(c.Stopwords.Extra)
	return added
}

func resolvePath(path string) (string, error) {
	if path == "" {
		return DefaultPath()
	}
	return expandPath(path)
}

// normalize expands paths and lower-cases enumerations.
func (c *Config) normalize() error {
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	c.Cloud.Scaling = strings.ToLower(strings.TrimSpace(c.Cloud.Scaling))
	for i, f := range c.Cloud.Formats {
		c.Cloud.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	c.Cloud.Formats = slices.Compact(c.Cloud.Formats)

	var err error
	if c.Cache.Dir, err = expandPath(c.Cache.Dir); err != nil {
		return err
	}
	if c.Store.Path, err = expandPath(c.Store.Path); err != nil {
		return err
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
