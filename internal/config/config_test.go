package config

import (
	"os"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	os.Setenv("DATABASE_URL", "postgres://localhost:5432/vasctrack_test")
	t.Cleanup(func() { os.Unsetenv("DATABASE_URL") })
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.DefaultTenant != "default" {
		t.Errorf("expected default tenant, got %s", cfg.DefaultTenant)
	}
	if cfg.ClinicalTZ != "Asia/Tokyo" {
		t.Errorf("expected Asia/Tokyo, got %s", cfg.ClinicalTZ)
	}
	if !cfg.IsDev() {
		t.Error("expected development mode by default")
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	os.Unsetenv("DATABASE_URL")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is unset")
	}
}

func TestClinicalLocation(t *testing.T) {
	cfg := &Config{ClinicalTZ: "Asia/Tokyo"}
	loc, err := cfg.ClinicalLocation()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.String() != "Asia/Tokyo" {
		t.Errorf("expected Asia/Tokyo, got %s", loc)
	}

	cfg.ClinicalTZ = "Not/AZone"
	if _, err := cfg.ClinicalLocation(); err == nil {
		t.Error("expected error for invalid zone")
	}
}

func TestValidate_ProductionRequiresSigningKey(t *testing.T) {
	cfg := &Config{Env: "production", ClinicalTZ: "UTC"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error without JWT_SIGNING_KEY in production")
	}
	cfg.JWTSigningKey = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_DevNeedsNoKey(t *testing.T) {
	cfg := &Config{Env: "development", ClinicalTZ: "UTC"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
