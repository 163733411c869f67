package config

import (
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"qcirc/internal/graph"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Transpile struct {
		Basis []string `yaml:"basis"`
		Level int      `yaml:"level"`
	} `yaml:"transpile"`
	Routing struct {
		Layout     string        `yaml:"layout"` // trivial, dense or random
		Seed       uint64        `yaml:"seed"`
		Iterations int           `yaml:"iterations"`
		MaxSteps   int           `yaml:"max_steps"`
		Timeout    time.Duration `yaml:"timeout"`
		Workers    int           `yaml:"workers"` // concurrent circuits in batch runs
	} `yaml:"routing"`
	Simulator struct {
		Shots int `yaml:"shots"`
	} `yaml:"simulator"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
	Log Log `yaml:"log"`
	// CouplingMaps names hardware graphs written as "0-1,1-2,...".
	CouplingMaps map[string]string `yaml:"coupling_maps"`
}

type Log struct {
	Debug      bool   `yaml:"debug"`
	File       string `yaml:"file"` // empty logs to stderr
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

func Default() *Config {
	var cfg Config
	cfg.Transpile.Basis = []string{"cx", "u"}
	cfg.Transpile.Level = 1
	cfg.Routing.Layout = "dense"
	cfg.Routing.Iterations = 2
	cfg.Routing.MaxSteps = 100000
	cfg.Routing.Workers = 4
	cfg.Simulator.Shots = 1000
	cfg.Storage.Path = "qcirc.db"
	cfg.Log.MaxSizeMB = 50
	cfg.Log.MaxBackups = 3
	cfg.Log.MaxAgeDays = 28
	cfg.CouplingMaps = map[string]string{
		"line5": "0-1,1-2,2-3,3-4",
		"ring6": "0-1,1-2,2-3,3-4,4-5,5-0",
	}
	return &cfg
}

// LoadConfig reads path over Default(). A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	// 3. Override with Environment Variables if present
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if basis := os.Getenv("QCIRC_BASIS"); basis != "" {
		c.Transpile.Basis = splitList(basis)
	}
	if level := os.Getenv("QCIRC_OPT_LEVEL"); level != "" {
		n, err := strconv.Atoi(level)
		if err != nil {
			return errors.Wrap(err, "QCIRC_OPT_LEVEL")
		}
		c.Transpile.Level = n
	}
	if seed := os.Getenv("QCIRC_SEED"); seed != "" {
		n, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return errors.Wrap(err, "QCIRC_SEED")
		}
		c.Routing.Seed = n
	}
	if db := os.Getenv("QCIRC_DB"); db != "" {
		c.Storage.Path = db
	}
	if debug := os.Getenv("QCIRC_LOG_DEBUG"); debug != "" {
		v, err := strconv.ParseBool(debug)
		if err != nil {
			return errors.Wrap(err, "QCIRC_LOG_DEBUG")
		}
		c.Log.Debug = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Transpile.Level < 0 || c.Transpile.Level > 3 {
		return errors.Errorf("transpile.level must be 0..3, got %d", c.Transpile.Level)
	}
	if c.Simulator.Shots <= 0 {
		return errors.Errorf("simulator.shots must be positive, got %d", c.Simulator.Shots)
	}
	for name, spec := range c.CouplingMaps {
		if _, err := graph.ParsePairs(spec); err != nil {
			return errors.Wrapf(err, "coupling_maps.%s", name)
		}
	}
	return nil
}

// Coupling resolves a named coupling map, or parses s directly when it is not a known name.
func (c *Config) Coupling(s string) (*graph.Graph, error) {
	spec, named := c.CouplingMaps[s]
	if named {
		s = spec
	}
	pairs, err := graph.ParsePairs(s)
	if err != nil && !named {
		return nil, errors.Wrapf(err, "coupling %q is neither a configured map (%s) nor a pair list",
			s, strings.Join(c.CouplingNames(), ", "))
	}
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, errors.Errorf("coupling map %q has no edges", s)
	}
	return graph.FromPairs(pairs)
}

// CouplingNames lists the configured coupling maps in order.
func (c *Config) CouplingNames() []string {
	names := make([]string, 0, len(c.CouplingMaps))
	for n := range c.CouplingMaps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
