package config

import "testing"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "LISTEN_ADDR", "GIN_MODE", "LOG_LEVEL", "DATABASE_PATH", "API_KEY", "API_KEY_HASH", "IP_SALT", "GEOIP_DB_PATH", "INGEST_WORKERS", "INGEST_QUEUE_SIZE"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Port != "3001" {
		t.Errorf("expected default port 3001, got %q", cfg.Port)
	}
	if cfg.ListenAddr != ":3001" {
		t.Errorf("expected listen addr :3001, got %q", cfg.ListenAddr)
	}
	if cfg.GinMode != "release" {
		t.Errorf("expected release mode, got %q", cfg.GinMode)
	}
	if cfg.DatabasePath != "pixelpulse.db" {
		t.Errorf("unexpected database path %q", cfg.DatabasePath)
	}
	// 未配置盐时必须生成临时盐，不能留空
	if cfg.IPSalt == "" {
		t.Error("expected generated fallback salt")
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("IP_SALT", "fixed-salt")
	t.Setenv("INGEST_WORKERS", "2")
	t.Setenv("INGEST_QUEUE_SIZE", "not-a-number")

	cfg := Load()

	if cfg.ListenAddr != ":8080" {
		t.Errorf("expected listen addr :8080, got %q", cfg.ListenAddr)
	}
	if cfg.IPSalt != "fixed-salt" {
		t.Errorf("expected configured salt, got %q", cfg.IPSalt)
	}
	if cfg.IngestWorkers != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.IngestWorkers)
	}
	if cfg.IngestQueueSize != 0 {
		t.Errorf("expected fallback for invalid int, got %d", cfg.IngestQueueSize)
	}
}
