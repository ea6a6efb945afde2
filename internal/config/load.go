package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type patternsFile struct {
	Patterns []string `yaml:"patterns"`
}

// Load reads the optional dotenv files, then the process environment.
// Missing dotenv files are ignored.
func Load(envFiles ...string) (*Config, error) {
	for _, path := range envFiles {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrEnvLoad, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnvProcess, err)
	}

	switch {
	case cfg.PatternsFile != "":
		patterns, err := LoadPatterns(cfg.PatternsFile)
		if err != nil {
			return nil, err
		}
		cfg.ExclusionPatterns = patterns
	case !envSet(patternsEnv):
		cfg.ExclusionPatterns = DefaultPatterns()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

// LoadPatterns reads a YAML document of the form `patterns: [...]`.
func LoadPatterns(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPatternsFile, err)
	}

	var pf patternsFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPatternsFile, err)
	}

	out := make([]string, 0, len(pf.Patterns))
	for _, p := range pf.Patterns {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPatterns, path)
	}
	return out, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.TargetDir) == "" {
		return ErrEmptyTargetDir
	}
	for _, name := range []string{c.QuarantineDirName, c.TempDirName} {
		if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
			return fmt.Errorf("%w: %q", ErrInvalidSubdir, name)
		}
	}
	// The temp area is wiped at the start of every run.
	if strings.EqualFold(c.QuarantineDirName, c.TempDirName) {
		return fmt.Errorf("%w: %q", ErrSameSubdirs, c.TempDirName)
	}
	if len(c.ExclusionPatterns) == 0 {
		return ErrNoPatterns
	}
	if c.Limit < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, c.Limit)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}
	return nil
}
