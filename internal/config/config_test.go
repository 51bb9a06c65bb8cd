package config

import "testing"

func TestLoadAllowedOriginsDefaults(t *testing.T) {
	t.Setenv("CLIENT_URL", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg := Load()

	want := []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("expected %d default origins, got %v", len(want), cfg.AllowedOrigins)
	}

	for i, origin := range want {
		if cfg.AllowedOrigins[i] != origin {
			t.Errorf("expected origin %q at %d, got %q", origin, i, cfg.AllowedOrigins[i])
		}
	}
}

func TestLoadAllowedOriginsFromEnv(t *testing.T) {
	t.Setenv("CLIENT_URL", "https://app.rollcall.example")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg := Load()

	want := []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"https://app.rollcall.example",
		"https://a.example",
		"https://b.example",
	}

	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("expected %d origins, got %v", len(want), cfg.AllowedOrigins)
	}

	for i, origin := range want {
		if cfg.AllowedOrigins[i] != origin {
			t.Errorf("expected origin %q at %d, got %q", origin, i, cfg.AllowedOrigins[i])
		}
	}
}
