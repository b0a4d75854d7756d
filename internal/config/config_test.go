package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LEAD_STORE", "")
	t.Setenv("EMAIL_PROVIDER", "")
	t.Setenv("LEAD_INDUSTRIES", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.LeadStore != "" {
		t.Fatalf("expected persistence disabled by default, got %s", cfg.LeadStore)
	}
	if cfg.EmailProvider != "" {
		t.Fatalf("expected notification disabled by default, got %s", cfg.EmailProvider)
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"*"}) {
		t.Fatalf("expected permissive default origins, got %v", cfg.CORSAllowedOrigins)
	}
	if !reflect.DeepEqual(cfg.Validation.Industries, DefaultIndustries) {
		t.Fatalf("expected default industries, got %v", cfg.Validation.Industries)
	}
	if cfg.Notify.Timeout != 10*time.Second {
		t.Fatalf("expected default notify timeout, got %s", cfg.Notify.Timeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LEAD_STORE", "Redis")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://growthops.io, https://www.growthops.io")
	t.Setenv("LEAD_INDUSTRIES", "Technology,Finance")
	t.Setenv("LEAD_RECIPIENT", "sales@growthops.io")
	t.Setenv("NOTIFY_TIMEOUT", "3s")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.LeadStore != "redis" {
		t.Fatalf("expected normalized store backend, got %s", cfg.LeadStore)
	}
	want := []string{"https://growthops.io", "https://www.growthops.io"}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, want) {
		t.Fatalf("expected trimmed origins %v, got %v", want, cfg.CORSAllowedOrigins)
	}
	if !reflect.DeepEqual(cfg.Validation.Industries, []string{"Technology", "Finance"}) {
		t.Fatalf("expected industry override, got %v", cfg.Validation.Industries)
	}
	if cfg.Notify.Recipient != "sales@growthops.io" {
		t.Fatalf("expected recipient override, got %s", cfg.Notify.Recipient)
	}
	if cfg.Notify.Timeout != 3*time.Second {
		t.Fatalf("expected notify timeout override, got %s", cfg.Notify.Timeout)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
}

func TestLoadIgnoresEmptyIndustryElements(t *testing.T) {
	t.Setenv("LEAD_INDUSTRIES", " , ,Technology, ")
	cfg := Load()
	if !reflect.DeepEqual(cfg.Validation.Industries, []string{"Technology"}) {
		t.Fatalf("expected blank elements dropped, got %v", cfg.Validation.Industries)
	}
}
