package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for key := range defaults {
		os.Unsetenv(strings.ToUpper(key))
	}

	cfg, err := Load(nil, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIPort != "8080" || cfg.DBDriver != DriverPostgres {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.JWTExpiration != 72*time.Hour {
		t.Fatalf("jwt expiration = %s, want 72h", cfg.JWTExpiration)
	}
	if cfg.SeedAdminUsername != "admin" || cfg.SeedAdminPassword != "admin123" {
		t.Fatalf("unexpected seed admin: %q/%q", cfg.SeedAdminUsername, cfg.SeedAdminPassword)
	}
	want := "host=localhost port=5432 user=admin password=admin dbname=car_rent sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}
	if AppConfig != cfg {
		t.Fatalf("AppConfig not set")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_PORT", "9999")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "file:cars.db")
	t.Setenv("JWT_EXPIRATION", "2h")

	cfg, err := Load(nil, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIPort != "9999" || cfg.DBDriver != DriverSQLite || cfg.DSN() != "file:cars.db" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.JWTExpiration != 2*time.Hour {
		t.Fatalf("jwt expiration = %s", cfg.JWTExpiration)
	}
}

func TestLoad_FlagsBeatEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_PORT", "9999")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("port", "8080", "")
	if err := fs.Parse([]string{"--port", "7000"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(fs, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIPort != "7000" {
		t.Fatalf("port = %s, want flag value 7000", cfg.APIPort)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	os.Unsetenv("DB_DRIVER")
	os.Unsetenv("DB_DSN")
	path := filepath.Join(dir, "custom.yaml")
	body := "db_driver: mysql\ndb_dsn: \"u:p@tcp(127.0.0.1:3306)/cars?parseTime=true\"\ndefault_language: de\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(nil, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBDriver != DriverMySQL || cfg.DefaultLanguage != "de" {
		t.Fatalf("config file not applied: %+v", cfg)
	}
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "oracle")
	if _, err := Load(nil, ""); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestLoad_SQLiteRequiresDSN(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "")
	if _, err := Load(nil, ""); err == nil {
		t.Fatalf("expected error for sqlite without dsn")
	}
}

func TestConfig_StringMasksSecret(t *testing.T) {
	cfg := &Config{APIPort: "8080", JWTSecret: "topsecret", DBDriver: DriverPostgres}
	if strings.Contains(cfg.String(), "topsecret") {
		t.Fatalf("secret leaked: %s", cfg.String())
	}
}
