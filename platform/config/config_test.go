package config

import (
	"testing"
	"time"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when DATABASE_URL is empty")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/maturity")
	t.Setenv("SMTP_HOST", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GetQuizSessionTTL() != 24*time.Hour {
		t.Fatalf("expected 24h session TTL, got %s", cfg.GetQuizSessionTTL())
	}
	if cfg.IsEmailEnabled() {
		t.Fatalf("expected email disabled without SMTP_HOST")
	}
	if cfg.IsMinIOEnabled() {
		t.Fatalf("expected MinIO disabled without endpoint")
	}
	if cfg.GetTimezone().String() != "America/Sao_Paulo" {
		t.Fatalf("expected Sao Paulo timezone, got %s", cfg.GetTimezone())
	}
}

func TestLoadRejectsWildcardWithCredentials(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/maturity")
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for wildcard origins with credentials")
	}
}

func TestSplitCSVDropsBlanks(t *testing.T) {
	got := splitCSV(" a, ,b ,")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected [a b], got %v", got)
	}
}
