package config

import (
	"testing"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Web.ListenPort != 8081 {
		t.Errorf("default port = %d, want 8081", cfg.Web.ListenPort)
	}
	if cfg.Database.Driver != "sqlite3" {
		t.Errorf("default driver = %q, want sqlite3", cfg.Database.Driver)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := NewDefaultConfig()
	err := cfg.applyEnv(envFrom(map[string]string{
		"PORT":           "9090",
		"SESSION_SECRET": "s3cret",
		"DB_DRIVER":      "PGX",
		"DB_DSN":         "postgres://localhost/entrees",
	}))
	if err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	if cfg.Web.ListenPort != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Web.ListenPort)
	}
	if cfg.Web.SessionSecret != "s3cret" {
		t.Errorf("session secret not applied")
	}
	if cfg.Database.Driver != "pgx" || cfg.Database.DSN != "postgres://localhost/entrees" {
		t.Errorf("database config not applied: %+v", cfg.Database)
	}
}

func TestApplyEnvErrors(t *testing.T) {
	testCases := []map[string]string{
		{"PORT": "eighty"},
		{"PORT": "0"},
		{"PORT": "70000"},
		{"WEB_SSL": "maybe"},
		{"WEB_SSL": "true"},
		{"DB_DRIVER": "oracle"},
		{"DB_DRIVER": "mysql"},
	}
	for _, env := range testCases {
		cfg := NewDefaultConfig()
		if err := cfg.applyEnv(envFrom(env)); err == nil {
			t.Errorf("applyEnv(%v) succeeded, want error", env)
		}
	}
}

func TestValidateNormalizesDriver(t *testing.T) {
	testCases := map[string]string{
		"":           "sqlite3",
		"SQLite":     "sqlite3",
		"sqlite3":    "sqlite3",
		"Postgres":   "pgx",
		"postgresql": "pgx",
		"PGX":        "pgx",
		" MYSQL ":    "mysql",
	}
	for driver, want := range testCases {
		cfg := NewDefaultConfig()
		cfg.Database.Driver = driver
		cfg.Database.DSN = "dsn"
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate with driver %q: %v", driver, err)
			continue
		}
		if cfg.Database.Driver != want {
			t.Errorf("driver %q normalized to %q, want %q", driver, cfg.Database.Driver, want)
		}
	}

	cfg := NewDefaultConfig()
	cfg.Database.Driver = "oracle"
	if err := cfg.Validate(); err == nil {
		t.Errorf("Validate with driver oracle succeeded, want error")
	}
}
