package infra

import "testing"

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SESSION_SECRET", "test-secret")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("LoadConfig expected error when DATABASE_URL unset")
	}
}

func TestLoadConfigRequiresSessionSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("SESSION_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("LoadConfig expected error when SESSION_SECRET unset")
	}
}

func TestLoadConfigDefaultsToSandboxGateway(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("MPESA_BASE_URL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.MpesaBaseURL != "https://sandbox.safaricom.co.ke" {
		t.Fatalf("MpesaBaseURL mismatch: %q", cfg.MpesaBaseURL)
	}
	if cfg.MpesaConsumerKey != "" {
		t.Fatalf("expected empty consumer key, got %q", cfg.MpesaConsumerKey)
	}
}

func TestLoadConfigTrimsTrailingSlashes(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("PUBLIC_APP_URL", "https://fundflow.example.org/")
	t.Setenv("MPESA_BASE_URL", "https://api.safaricom.co.ke/")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.PublicBaseURL != "https://fundflow.example.org" {
		t.Fatalf("PublicBaseURL mismatch: %q", cfg.PublicBaseURL)
	}
	if cfg.MpesaBaseURL != "https://api.safaricom.co.ke" {
		t.Fatalf("MpesaBaseURL mismatch: %q", cfg.MpesaBaseURL)
	}
}

func TestLoadConfigParsesAllowedOrigins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("ALLOWED_ORIGINS", "https://fundflow.example.org, https://admin.example.org")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://admin.example.org" {
		t.Fatalf("AllowedOrigins mismatch: %#v", cfg.AllowedOrigins)
	}
}
