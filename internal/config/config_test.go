package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ServerPort == "" {
		t.Fatalf("expected default server port")
	}
	if cfg.PostgresURL == "" {
		t.Fatalf("expected default postgres url")
	}
	if cfg.CompetitionStart != "2026-03-15" || cfg.CompetitionEnd != "2026-03-22" {
		t.Fatalf("unexpected competition window %s..%s", cfg.CompetitionStart, cfg.CompetitionEnd)
	}
	if cfg.EventCode != "26" || cfg.HomeBase != "Helios" || cfg.ExportRegion != "Mallorca" {
		t.Fatalf("unexpected planning defaults: %+v", cfg)
	}
	if cfg.ElevationAPIURL == "" || cfg.StravaAPIURL == "" {
		t.Fatalf("expected default upstream urls")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9000")
	t.Setenv("POSTGRES_URL", "postgres://example")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_PASSWORD", "hunter2")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("HOME_BASE", "Sóller")
	t.Setenv("COMPETITION_END", "2026-03-29")
	t.Setenv("SENTRY_DSN", "https://key@sentry.example/1")

	cfg := Load()
	if cfg.ServerPort != ":9000" {
		t.Fatalf("expected override port")
	}
	if cfg.PostgresURL != "postgres://example" {
		t.Fatalf("expected override postgres")
	}
	if cfg.RedisAddr != "redis:6379" || cfg.RedisPassword != "hunter2" {
		t.Fatalf("expected override redis")
	}
	if cfg.JWTSecret != "secret" {
		t.Fatalf("expected override secret")
	}
	if cfg.HomeBase != "Sóller" || cfg.CompetitionEnd != "2026-03-29" {
		t.Fatalf("expected planning overrides, got %+v", cfg)
	}
	if cfg.SentryDSN != "https://key@sentry.example/1" {
		t.Fatalf("expected override sentry dsn")
	}
}
