package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != 8007 {
		t.Fatalf("expected default port 8007, got %d", cfg.Port)
	}
	if cfg.MongoDatabase != "subtitleApp" {
		t.Fatalf("expected default database, got %q", cfg.MongoDatabase)
	}
	if cfg.Worker.Interpreter != "python" {
		t.Fatalf("expected default interpreter, got %q", cfg.Worker.Interpreter)
	}
	if !cfg.IsDev() {
		t.Fatal("expected default env to be development")
	}
}

func TestLoadReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := []byte("port: 9001\nenv: production\nworker:\n  timeout_seconds: 120\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != 9001 {
		t.Fatalf("expected port 9001, got %d", cfg.Port)
	}
	if cfg.IsDev() {
		t.Fatal("expected production env")
	}
	if cfg.Worker.TimeoutSeconds != 120 {
		t.Fatalf("expected worker timeout 120, got %d", cfg.Worker.TimeoutSeconds)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("port: 9001\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PORT", "9002")
	t.Setenv("PYTHON_PATH", "/opt/venv/bin/python3")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != 9002 {
		t.Fatalf("expected env port override 9002, got %d", cfg.Port)
	}
	if cfg.Worker.Interpreter != "/opt/venv/bin/python3" {
		t.Fatalf("expected interpreter override, got %q", cfg.Worker.Interpreter)
	}
}
