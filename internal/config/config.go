package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/san-kum/circles/internal/scene"
	"gopkg.in/yaml.v3"
)

const (
	DefaultName    = "untitled"
	DefaultSamples = 41
)

var (
	ErrNoBodies      = errors.New("config: scenario has no bodies")
	ErrDuplicateName = errors.New("config: duplicate body name")
	ErrSweepBody     = errors.New("config: sweep names an unknown body")
	ErrSweepSamples  = errors.New("config: sweep needs at least 2 samples")
)

type Config struct {
	Name   string       `yaml:"name"`
	Bodies []scene.Body `yaml:"bodies"`
	Steps  []scene.Step `yaml:"steps,omitempty"`
	Sweep  *SweepConfig `yaml:"sweep,omitempty"`
}

// SweepConfig moves one body along a straight line in Samples steps,
// after any explicit steps.
type SweepConfig struct {
	Body    string     `yaml:"body"`
	From    [2]float32 `yaml:"from,flow"`
	To      [2]float32 `yaml:"to,flow"`
	Samples int        `yaml:"samples"`
}

func DefaultConfig() *Config {
	return &Config{Name: DefaultName}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Sweep != nil && cfg.Sweep.Samples == 0 {
		cfg.Sweep.Samples = DefaultSamples
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the scenario structure. Radii are left to geom, which
// rejects negative values when the runner builds the circles.
func (c *Config) Validate() error {
	if len(c.Bodies) == 0 {
		return ErrNoBodies
	}
	seen := make(map[string]bool, len(c.Bodies))
	for _, b := range c.Bodies {
		if seen[b.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateName, b.Name)
		}
		seen[b.Name] = true
	}
	if c.Sweep != nil {
		if !seen[c.Sweep.Body] {
			return fmt.Errorf("%w: %q", ErrSweepBody, c.Sweep.Body)
		}
		if c.Sweep.Samples < 2 {
			return ErrSweepSamples
		}
	}
	return nil
}

// Scene validates c and converts it to a runnable scene.
func (c *Config) Scene() (scene.Scene, error) {
	if err := c.Validate(); err != nil {
		return scene.Scene{}, err
	}
	sc := scene.Scene{
		Name:   c.Name,
		Bodies: append([]scene.Body(nil), c.Bodies...),
		Steps:  append([]scene.Step(nil), c.Steps...),
	}
	if s := c.Sweep; s != nil {
		sc.Steps = append(sc.Steps, scene.Sweep(s.Body, s.From[0], s.From[1], s.To[0], s.To[1], s.Samples)...)
	}
	return sc, nil
}

// Fingerprint hashes the YAML form of c. Equal scenarios hash equal.
func (c *Config) Fingerprint() (uint64, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}

// Clone returns a copy that shares no slices with c.
func (c *Config) Clone() *Config {
	out := &Config{
		Name:   c.Name,
		Bodies: append([]scene.Body(nil), c.Bodies...),
	}
	if c.Steps != nil {
		out.Steps = make([]scene.Step, len(c.Steps))
		for i, s := range c.Steps {
			out.Steps[i] = scene.Step{Mutations: append([]scene.Mutation(nil), s.Mutations...)}
		}
	}
	if c.Sweep != nil {
		sw := *c.Sweep
		out.Sweep = &sw
	}
	return out
}
