package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want 5432", cfg.Database.Port)
	}
	if cfg.Auth.TokenTTLHours != 24 {
		t.Errorf("Auth.TokenTTLHours = %d, want 24", cfg.Auth.TokenTTLHours)
	}
	if cfg.IsProduction() {
		t.Error("default environment should not be production")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ENV", "production")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("STORAGE_USE_SSL", "true")
	t.Setenv("TOKEN_TTL_HOURS", "not-a-number")
	t.Setenv("HASH_MEMORY_KIB", "32768")
	t.Setenv("HASH_ITERATIONS", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9999" {
		t.Errorf("Server.Port = %q, want 9999", cfg.Server.Port)
	}
	if !cfg.IsProduction() {
		t.Error("ENV=production should report production")
	}
	if cfg.Database.Port != 6543 {
		t.Errorf("Database.Port = %d, want 6543", cfg.Database.Port)
	}
	if !cfg.Storage.UseSSL {
		t.Error("STORAGE_USE_SSL=true not honored")
	}
	if cfg.Auth.TokenTTLHours != 24 {
		t.Errorf("unparseable int should fall back to default, got %d", cfg.Auth.TokenTTLHours)
	}
	if cfg.Auth.HashMemoryKiB != 32768 || cfg.Auth.HashIterations != 4 {
		t.Errorf("hash parameters not honored: m=%d t=%d", cfg.Auth.HashMemoryKiB, cfg.Auth.HashIterations)
	}
}
