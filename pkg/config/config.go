// Package config loads graphview settings from layered sources.
//
// Sources are applied in increasing priority:
//
//  1. built-in defaults
//  2. a TOML file, graphview.toml in the working directory unless a path is
//     given
//  3. GRAPHVIEW_* environment variables, where underscores separate key
//     segments (GRAPHVIEW_NAVIGATION_ZOOM_SPEED sets navigation.zoom_speed)
//  4. command-line flags registered with [BindFlags]
//
// Keys mirror the JSON field names of the embedded types, for example
// layout.force.damping or store.redis_addr.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/matzehuels/graphview/pkg/errors"
	"github.com/matzehuels/graphview/pkg/interaction"
	"github.com/matzehuels/graphview/pkg/layout"
	"github.com/matzehuels/graphview/pkg/render"
	"github.com/matzehuels/graphview/pkg/store"
	"github.com/matzehuels/graphview/pkg/transform"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "graphview.toml"

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "GRAPHVIEW_"

// Config holds everything a host needs to build and serve a view.
type Config struct {
	Navigation  interaction.Navigation  `json:"navigation"`
	Interaction interaction.Interaction `json:"interaction"`
	Zoom        transform.Options       `json:"zoom"`
	Style       render.Style            `json:"style"`
	// Layout carries parameters for every algorithm; Kind selects one.
	Layout layout.State  `json:"layout"`
	Store  store.Options `json:"store"`
	Server Server        `json:"server"`
}

// Server configures the HTTP host.
type Server struct {
	Addr string `json:"addr"`
	// ViewID names the served view in the state store.
	ViewID string `json:"view_id"`
}

// Default returns the built-in configuration.
func Default() Config {
	s := interaction.DefaultSettings()
	l := layout.DefaultState(layout.KindRandom)
	h, c, f := layout.DefaultHierarchical(), layout.DefaultCircular(), layout.DefaultForce()
	l.Hierarchical, l.Circular, l.Force = &h, &c, &f
	l.Extras = []layout.ExtraState{layout.DefaultExtra(layout.ExtraCenterGravity)}
	return Config{
		Navigation:  s.Navigation,
		Interaction: s.Interaction,
		Zoom:        transform.DefaultOptions(),
		Style:       render.DefaultStyle(),
		Layout:      l,
		Store:       store.DefaultOptions(),
		Server:      Server{Addr: "127.0.0.1:8080", ViewID: "default"},
	}
}

// Settings returns the navigation and interaction settings.
func (c *Config) Settings() interaction.Settings {
	return interaction.Settings{Navigation: c.Navigation, Interaction: c.Interaction}
}

// LayoutState returns the state of the selected algorithm only.
func (c *Config) LayoutState() layout.State {
	full := c.Layout.Clone()
	s := layout.State{Kind: full.Kind}
	switch full.Kind {
	case layout.KindRandom:
		s.Random = full.Random
	case layout.KindHierarchical:
		s.Hierarchical = full.Hierarchical
	case layout.KindCircular:
		s.Circular = full.Circular
	case layout.KindForceDirected:
		s.Force = full.Force
	case layout.KindForceDirectedExtras:
		s.Force = full.Force
		s.Extras = full.Extras
	}
	return s
}

// Validate checks every section and returns the first CONFIGURATION_ERROR.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.Configuration("server.addr must not be empty")
	}
	return errors.First(
		c.Settings().Validate(),
		c.Zoom.Validate(),
		c.Style.Validate(),
		c.LayoutState().Validate(),
		c.Store.Validate(),
	)
}

// Load reads configuration from defaults, the TOML file at path (or
// DefaultFile when path is empty), the environment and flags. A missing
// default file is not an error; a missing explicit path is.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults, err := toMap(Default())
	if err != nil {
		return nil, fmt.Errorf("build defaults: %w", err)
	}
	if err := k.Load(mapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	known := make(map[string]string)
	for _, key := range k.Keys() {
		known[strings.ReplaceAll(key, ".", "_")] = key
	}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
		}
	} else if explicit {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return known[strings.ToLower(strings.TrimPrefix(s, EnvPrefix))]
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if fs != nil {
		if err := k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return flagKeys[f.Name], f.Value.String()
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// toMap converts c to the nested map koanf merges sources into.
func toMap(c Config) (map[string]interface{}, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

type mapProvider map[string]interface{}

func (p mapProvider) Read() (map[string]interface{}, error) {
	return p, nil
}

func (p mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
