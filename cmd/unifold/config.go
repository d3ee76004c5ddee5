package main

import (
	"fmt"
	"os"
	"time"

	"github.com/hazyhaar/unifold/pkg/icu"
	"gopkg.in/yaml.v3"
)

type tlsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

type config struct {
	Addr          string        `yaml:"addr"`
	DBPath        string        `yaml:"db_path"`
	Driver        string        `yaml:"driver"`
	Probe         bool          `yaml:"probe"`
	DatasetsDir   string        `yaml:"datasets_dir"`
	CheckInterval time.Duration `yaml:"check_interval"`
	ICU           icu.Options   `yaml:"icu"`
	TLS           tlsConfig     `yaml:"tls"`
}

func defaultConfig() config {
	return config{
		Addr:        ":8420",
		DBPath:      "unifold.db",
		Driver:      icu.DriverName,
		Probe:       true,
		DatasetsDir: "datasets",
		ICU: icu.Options{
			Collations: map[string]string{"russian": "ru-RU"},
		},
	}
}

// loadConfig reads path over the defaults. A missing file is not an error.
func loadConfig(path string) (config, bool, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, false, nil
		}
		return cfg, false, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false, fmt.Errorf("parse config: %w", err)
	}
	switch cfg.Driver {
	case icu.DriverName, icu.CgoDriverName:
	default:
		return cfg, true, fmt.Errorf("config: unknown driver %q", cfg.Driver)
	}
	return cfg, true, nil
}
