package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hazyhaar/unifold/pkg/icu"
)

func TestLoadConfig_Missing(t *testing.T) {
	cfg, found, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if found {
		t.Fatal("expected found=false")
	}
	if cfg.Addr != ":8420" || cfg.Driver != icu.DriverName || !cfg.Probe {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.ICU.Collations["russian"] != "ru-RU" {
		t.Fatalf("expected default russian collation, got %v", cfg.ICU.Collations)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `addr: ":9000"
db_path: /tmp/x.db
probe: false
check_interval: 6h
icu:
  collations:
    ukrainian: uk-UA
tls:
  enabled: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, found, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if !found {
		t.Fatal("expected found=true")
	}
	if cfg.Addr != ":9000" || cfg.DBPath != "/tmp/x.db" || cfg.Probe {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.CheckInterval != 6*time.Hour {
		t.Fatalf("CheckInterval = %v", cfg.CheckInterval)
	}
	if cfg.ICU.Collations["ukrainian"] != "uk-UA" {
		t.Fatalf("collations = %v", cfg.ICU.Collations)
	}
	if !cfg.TLS.Enabled {
		t.Fatal("expected TLS enabled")
	}
	if cfg.DatasetsDir != "datasets" {
		t.Fatalf("default datasets_dir lost: %q", cfg.DatasetsDir)
	}
}

func TestLoadConfig_BadDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("driver: postgres\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := loadConfig(path); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
