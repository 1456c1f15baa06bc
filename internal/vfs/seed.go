package vfs

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/3rg0n/termfolio/internal/pathutil"
)

//go:embed seed.yaml
var defaultSeedYAML []byte

// SeedFile is one path→content entry written during seeding
type SeedFile struct {
	Path    string `yaml:"path"`
	Content string `yaml:"content"`
}

// Seed is the initial layout of the filesystem plus its permission policy
type Seed struct {
	Home        string     `yaml:"home"`
	Sentinel    string     `yaml:"sentinel"`
	Directories []string   `yaml:"directories"`
	Files       []SeedFile `yaml:"files"`
	Readable    []string   `yaml:"readable"`
	Previewable []string   `yaml:"previewable"`
}

// DefaultSeed returns the built-in seed layout
func DefaultSeed() *Seed {
	seed, err := ParseSeed(defaultSeedYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded seed.yaml: %v", err))
	}
	return seed
}

// ParseSeed decodes and validates a YAML seed document
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

// Validate checks that every path in the seed is absolute and normalized
func (s *Seed) Validate() error {
	if s.Home == "" {
		return errors.New("seed: home is required")
	}
	if s.Sentinel == "" || s.Sentinel == pathutil.Root {
		return errors.New("seed: sentinel must name a file")
	}

	check := func(kind, p string) error {
		if !strings.HasPrefix(p, pathutil.Root) || pathutil.Resolve(p, pathutil.Root, s.Home) != p {
			return fmt.Errorf("seed: %s %q is not a normalized absolute path", kind, p)
		}
		return nil
	}

	if err := check("home", s.Home); err != nil {
		return err
	}
	if err := check("sentinel", s.Sentinel); err != nil {
		return err
	}
	for _, d := range s.Directories {
		if err := check("directory", d); err != nil {
			return err
		}
	}
	for _, f := range s.Files {
		if err := check("file", f.Path); err != nil {
			return err
		}
	}
	return nil
}

// SentinelName is the basename listings hide
func (s *Seed) SentinelName() string {
	return pathutil.Base(s.Sentinel)
}
