package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "JWT_SECRET", "REFRESH_JWT_SECRET", "DEFAULT_LOCATION_RADIUS", "ACCESS_TOKEN_TTL_MINUTES", "REFRESH_TOKEN_TTL_DAYS"} {
		unsetenv(t, key)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "3000" {
		t.Fatalf("expected default port 3000, got %s", cfg.Port)
	}
	if cfg.DBDriver != "postgres" {
		t.Fatalf("expected postgres driver, got %s", cfg.DBDriver)
	}
	if cfg.RefreshJWTSecret != cfg.JWTSecret {
		t.Fatalf("expected refresh secret to fall back to jwt secret")
	}
	if cfg.DefaultLocationRadius != 100 {
		t.Fatalf("expected radius 100, got %v", cfg.DefaultLocationRadius)
	}
	if cfg.AccessTTL() != time.Hour {
		t.Fatalf("expected 1h access ttl, got %s", cfg.AccessTTL())
	}
	if cfg.RefreshTTL() != 30*24*time.Hour {
		t.Fatalf("unexpected refresh ttl %s", cfg.RefreshTTL())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("LOCK_TTL", "2s")
	t.Setenv("SESSION_CLOSE_JOB_ENABLED", "false")
	t.Setenv("DEFAULT_LOCATION_RADIUS", "250.5")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBDriver != "sqlite" || cfg.SQLitePath != "/tmp/x.db" {
		t.Fatalf("unexpected sqlite config %+v", cfg)
	}
	if cfg.LockTTL != 2*time.Second {
		t.Fatalf("expected 2s lock ttl, got %s", cfg.LockTTL)
	}
	if cfg.SessionCloseJobEnabled {
		t.Fatalf("expected close job disabled")
	}
	if cfg.DefaultLocationRadius != 250.5 {
		t.Fatalf("expected radius 250.5, got %v", cfg.DefaultLocationRadius)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}
