package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
	if cfg.RoutingTimeout != 5*time.Second {
		t.Fatalf("expected default routing timeout, got %s", cfg.RoutingTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level, got %q", cfg.LogLevel)
	}
	if cfg.MaxUploadMB != 20 {
		t.Fatalf("expected default upload limit, got %d", cfg.MaxUploadMB)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9191")
	t.Setenv("ROUTING_URL", "http://localhost:5000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9191" {
		t.Fatalf("expected env port, got %q", cfg.Port)
	}
	if cfg.RoutingURL != "http://localhost:5000" {
		t.Fatalf("expected env routing url, got %q", cfg.RoutingURL)
	}
}
