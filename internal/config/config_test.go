package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GetAddr() != "0.0.0.0:8080" {
		t.Fatalf("unexpected addr %q", cfg.GetAddr())
	}
	if cfg.API.Timeout != 0 {
		t.Fatalf("expected no API timeout by default, got %v", cfg.API.Timeout)
	}
	if cfg.Form.FailurePolicy != FailureStrict {
		t.Fatalf("expected strict failure policy, got %q", cfg.Form.FailurePolicy)
	}
	if cfg.Form.ResetOrder != ResetAfterClipboard {
		t.Fatalf("expected after-clipboard reset order, got %q", cfg.Form.ResetOrder)
	}
	if !cfg.IsDevelopment() {
		t.Fatal("expected development env by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("API_BASE_URL", "http://api.internal:3333")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("FORM_FAILURE_POLICY", "legacy")
	t.Setenv("FORM_RESET_ORDER", "before-clipboard")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Fatalf("expected port 9000, got %q", cfg.Server.Port)
	}
	if cfg.API.BaseURL != "http://api.internal:3333" {
		t.Fatalf("unexpected base url %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %v", cfg.API.Timeout)
	}
	if cfg.Form.FailurePolicy != FailureLegacy || cfg.Form.ResetOrder != ResetBeforeClipboard {
		t.Fatalf("unexpected form config %+v", cfg.Form)
	}
	if !cfg.IsProduction() {
		t.Fatal("expected production env")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{name: "failure policy", key: "FORM_FAILURE_POLICY", val: "optimistic", want: "FORM_FAILURE_POLICY"},
		{name: "reset order", key: "FORM_RESET_ORDER", val: "never", want: "FORM_RESET_ORDER"},
		{name: "timeout", key: "API_TIMEOUT", val: "soon", want: "parse env:"},
		{name: "negative timeout", key: "API_TIMEOUT", val: "-1s", want: "API_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}
