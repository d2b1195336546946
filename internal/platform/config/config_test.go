package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	env := map[string]string{
		"STRIPE_SECRET_KEY": "sk_test_abc",
	}

	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "3001" {
		t.Errorf("expected default port 3001, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.URLs.BackendBaseURL != "http://localhost:3001" {
		t.Errorf("expected backend base url to default to listen address, got %s", cfg.URLs.BackendBaseURL)
	}
	if cfg.URLs.FrontendBaseURL != "http://localhost:3000" {
		t.Errorf("unexpected frontend base url: %s", cfg.URLs.FrontendBaseURL)
	}
	if cfg.Callback.LogDir != "." {
		t.Errorf("expected default callback log dir '.', got %s", cfg.Callback.LogDir)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("expected wildcard cors origin, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"BE_PORT":                "9090",
		"SERVER_READ_TIMEOUT":    "20s",
		"SERVER_WRITE_TIMEOUT":   "25s",
		"SERVER_IDLE_TIMEOUT":    "2m",
		"STRIPE_SECRET_KEY":      "sk_test_abc",
		"STRIPE_PUBLISHABLE_KEY": "pk_test_abc",
		"BACKEND_BASE_URL":       "https://shop.example.com/",
		"FRONTEND_BASE_URL":      "https://store.example.com/",
		"CALLBACK_LOG_DIR":       "/var/log/callbacks",
		"CORS_ALLOWED_ORIGINS":   "https://store.example.com, https://admin.example.com",
	}

	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("unexpected port %s", cfg.Server.Port)
	}
	if cfg.Server.WriteTimeout != 25*time.Second || cfg.Server.IdleTimeout != 2*time.Minute {
		t.Errorf("unexpected timeouts: %+v", cfg.Server)
	}
	if cfg.URLs.BackendBaseURL != "https://shop.example.com" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.URLs.BackendBaseURL)
	}
	if cfg.URLs.FrontendBaseURL != "https://store.example.com" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.URLs.FrontendBaseURL)
	}
	if cfg.Stripe.PublishableKey != "pk_test_abc" {
		t.Errorf("unexpected publishable key %s", cfg.Stripe.PublishableKey)
	}
	if cfg.Callback.LogDir != "/var/log/callbacks" {
		t.Errorf("unexpected log dir %s", cfg.Callback.LogDir)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://admin.example.com" {
		t.Errorf("unexpected cors origins %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadMissingSecretKey(t *testing.T) {
	_, err := Load(WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	fields := validation.Fields()
	if len(fields) != 1 || fields[0] != "Stripe.SecretKey" {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestLoadRejectsNonNumericPort(t *testing.T) {
	env := map[string]string{
		"STRIPE_SECRET_KEY": "sk_test_abc",
		"BE_PORT":           "not-a-port",
	}
	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	contents := "# local overrides\nexport STRIPE_SECRET_KEY=sk_test_dotenv\nBE_PORT=\"4100\"\n"
	if err := os.WriteFile(envFile, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(envFile))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Stripe.SecretKey != "sk_test_dotenv" {
		t.Errorf("unexpected secret key %s", cfg.Stripe.SecretKey)
	}
	if cfg.Server.Port != "4100" {
		t.Errorf("expected quoted port value to be unwrapped, got %s", cfg.Server.Port)
	}
}

func TestLoadEnvMapBeatsDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("STRIPE_SECRET_KEY=sk_test_file\n"), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	cfg, err := Load(
		WithEnvMap(map[string]string{"STRIPE_SECRET_KEY": "sk_test_map"}),
		WithoutSystemEnv(),
		WithEnvFile(envFile),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Stripe.SecretKey != "sk_test_map" {
		t.Errorf("expected env map to take precedence, got %s", cfg.Stripe.SecretKey)
	}
}
