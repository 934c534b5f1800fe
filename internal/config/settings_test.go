package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", filepath.Join(t.TempDir(), "home"))
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL() != "http://127.0.0.1:8000" {
		t.Fatalf("unexpected base url: %q", cfg.BaseURL())
	}
	if cfg.LogLevel() != "info" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel())
	}
	if !cfg.MarkdownEnabled() {
		t.Fatal("markdown should default to enabled")
	}
}

func TestLoadFromTOML(t *testing.T) {
	home := filepath.Join(t.TempDir(), "home")
	t.Setenv("HOME", home)

	dataDir := filepath.Join(home, ".ragchat")
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	content := []byte("[server]\naddress = \"https://rag.example.com/\"\n\n[logging]\nlevel = \"debug\"\n\n[ui]\nmarkdown = false\n")
	if err := os.WriteFile(filepath.Join(dataDir, "config.toml"), content, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL() != "https://rag.example.com" {
		t.Fatalf("unexpected base url: %q", cfg.BaseURL())
	}
	if cfg.LogLevel() != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel())
	}
	if cfg.MarkdownEnabled() {
		t.Fatal("markdown should be disabled by config")
	}
}

func TestBaseURLBareHost(t *testing.T) {
	cfg := Config{Server: ServerConfig{Address: "10.0.0.5:9000/"}}
	if cfg.BaseURL() != "http://10.0.0.5:9000" {
		t.Fatalf("unexpected base url: %q", cfg.BaseURL())
	}
}

func TestPaths(t *testing.T) {
	home := filepath.Join(t.TempDir(), "home")
	t.Setenv("HOME", home)

	path, err := CredentialsPath()
	if err != nil {
		t.Fatalf("CredentialsPath: %v", err)
	}
	if want := filepath.Join(home, ".ragchat", "credentials.db"); path != want {
		t.Fatalf("unexpected path: got=%q want=%q", path, want)
	}
}
