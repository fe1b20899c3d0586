// Package config loads viewer settings from TOML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/plus3/sampleviewer/lattice"
)

var ErrUnknownProfile = errors.New("unknown platform profile")

// Profile is the set of lattice defaults and limits for one class of device.
type Profile struct {
	Defaults     lattice.Dimensions
	Limits       lattice.Limits
	SoakSize     int
	HighInstance int
}

var profiles = map[string]Profile{
	"desktop": {
		Defaults:     lattice.Dimensions{Width: 5, Height: 5, Depth: 5},
		Limits:       lattice.Limits{MaxSize: 20, MaxSpacing: 100, MaxScale: 10},
		SoakSize:     2,
		HighInstance: 22,
	},
	"mobile": {
		Defaults:     lattice.Dimensions{Width: 2, Height: 2, Depth: 2},
		Limits:       lattice.Limits{MaxSize: 4, MaxSpacing: 100, MaxScale: 10},
		SoakSize:     2,
		HighInstance: 4,
	},
}

// LookupProfile returns the named profile.
func LookupProfile(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%q: %w", name, ErrUnknownProfile)
	}
	return p, nil
}

type Assets struct {
	Root  string `toml:"root"`
	Watch bool   `toml:"watch"`
}

type Cache struct {
	Dir string `toml:"dir"`
}

type Lattice struct {
	Profile string `toml:"profile"`
	// Zero means the profile value.
	Width   int `toml:"width,omitempty"`
	Height  int `toml:"height,omitempty"`
	Depth   int `toml:"depth,omitempty"`
	MaxSize int `toml:"max_size,omitempty"`
}

type Loader struct {
	Concurrency int `toml:"concurrency"`
}

type Screenshots struct {
	Dir           string `toml:"dir"`
	OfficialDir   string `toml:"official_dir"`
	LocalDir      string `toml:"local_dir"`
	ToleranceFile string `toml:"tolerance_file"`
}

type Log struct {
	Level string `toml:"level"`
	Color bool   `toml:"color"`
}

type Metrics struct {
	Output string `toml:"output"`
}

type Config struct {
	Assets      Assets      `toml:"assets"`
	Cache       Cache       `toml:"cache"`
	Lattice     Lattice     `toml:"lattice"`
	Loader      Loader      `toml:"loader"`
	Screenshots Screenshots `toml:"screenshots"`
	Log         Log         `toml:"log"`
	Metrics     Metrics     `toml:"metrics"`
}

// Default returns the built-in configuration. Paths beginning with "@user@"
// are relative to the cache directory.
func Default() Config {
	return Config{
		Assets:  Assets{Root: "assets", Watch: true},
		Cache:   Cache{Dir: "~/.cache/sampleviewer"},
		Lattice: Lattice{Profile: "desktop"},
		Loader:  Loader{Concurrency: 4},
		Screenshots: Screenshots{
			Dir:         "@user@/scripts/screenshots",
			OfficialDir: "scripts/expectedscreenshots",
			LocalDir:    "@user@/scripts/screenshotslocalbaseline/software",
		},
		Log:     Log{Level: "info", Color: true},
		Metrics: Metrics{Output: "@user@/performance_metrics.xml"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.finish()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.finish()
}

func (c *Config) finish() error {
	dir, err := homedir.Expand(c.Cache.Dir)
	if err != nil {
		return fmt.Errorf("cache dir: %w", err)
	}
	c.Cache.Dir = filepath.Clean(dir)
	if c.Loader.Concurrency < 1 {
		c.Loader.Concurrency = 1
	}
	_, err = c.Profile()
	return err
}

// Profile returns the configured platform profile with overrides applied.
func (c Config) Profile() (Profile, error) {
	p, err := LookupProfile(c.Lattice.Profile)
	if err != nil {
		return p, err
	}
	if c.Lattice.MaxSize > 0 {
		p.Limits.MaxSize = c.Lattice.MaxSize
	}
	if c.Lattice.Width > 0 {
		p.Defaults.Width = c.Lattice.Width
	}
	if c.Lattice.Height > 0 {
		p.Defaults.Height = c.Lattice.Height
	}
	if c.Lattice.Depth > 0 {
		p.Defaults.Depth = c.Lattice.Depth
	}
	p.Defaults = p.Limits.ClampDimensions(p.Defaults)
	return p, nil
}

// Save writes c as TOML.
func (c Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
