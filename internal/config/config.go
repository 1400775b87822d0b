package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/impulse/internal/sim"
)

const (
	DefaultScene    = "sandbox"
	DefaultDt       = 0.01
	DefaultDuration = 10.0
)

type Config struct {
	Scene       string             `yaml:"scene"`
	Dt          float64            `yaml:"dt"`
	Duration    float64            `yaml:"duration"`
	Iterations  int                `yaml:"iterations"`
	MaxContacts int                `yaml:"max_contacts"`
	Seed        int64              `yaml:"seed"`
	Params      map[string]float64 `yaml:"params"`
	Output      OutputConfig       `yaml:"output"`
}

type OutputConfig struct {
	Dir     string `yaml:"dir"`
	SaveRun bool   `yaml:"save_run"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:    DefaultScene,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Output: OutputConfig{
			Dir: "runs",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

// SimConfig converts the file-level configuration into run settings.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Scene:       c.Scene,
		Dt:          c.Dt,
		Duration:    c.Duration,
		Iterations:  c.Iterations,
		MaxContacts: c.MaxContacts,
		Seed:        c.Seed,
		Params:      c.Params,
	}
}
