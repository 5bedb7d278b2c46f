package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// inTempDir runs the test from an empty directory so no config file is found.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	inTempDir(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HttpListenAddr != ":8080" || cfg.Store.Driver != DriverMemory || cfg.Stats.Schedule != "@every 1m" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Cache.TTL != 5*time.Minute || cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("durations: ttl %v shutdown %v", cfg.Cache.TTL, cfg.ShutdownTimeout)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	inTempDir(t)
	t.Setenv("JOBBOARD_STORE_DRIVER", "etcd")
	t.Setenv("JOBBOARD_STORE_ETCD_ENDPOINTS", "etcd-1:2379,etcd-2:2379")
	t.Setenv("JOBBOARD_CACHE_REDIS_ADDR", "redis:6379")
	t.Setenv("JOBBOARD_TRACING_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Driver != DriverEtcd || len(cfg.Store.EtcdEndpoints) != 2 || cfg.Store.EtcdEndpoints[1] != "etcd-2:2379" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Cache.RedisAddr != "redis:6379" || !cfg.Tracing.Enabled {
		t.Errorf("cache %+v tracing %+v", cfg.Cache, cfg.Tracing)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := inTempDir(t)
	yaml := "http_listen_addr: \":9090\"\nstore:\n  driver: sqlite\n  sqlite_path: /tmp/jobs.db\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HttpListenAddr != ":9090" || cfg.Store.Driver != DriverSqlite || cfg.Store.SqlitePath != "/tmp/jobs.db" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		store   StoreConfig
		wantErr bool
	}{
		{"memory", StoreConfig{Driver: DriverMemory}, false},
		{"postgres without dsn", StoreConfig{Driver: DriverPostgres}, true},
		{"postgres", StoreConfig{Driver: DriverPostgres, PostgresDSN: "postgres://localhost/jobs"}, false},
		{"etcd without endpoints", StoreConfig{Driver: DriverEtcd}, true},
		{"unknown", StoreConfig{Driver: "mongo"}, true},
	}
	for _, tt := range tests {
		cfg := &Config{Store: tt.store}
		if err := cfg.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}
