package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func setTestConfigDir(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test uses XDG_CONFIG_HOME")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestGetConfigDir_UsesXDGConfigHome(t *testing.T) {
	dir := setTestConfigDir(t)

	got, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir error: %v", err)
	}
	want := filepath.Join(dir, "adcon")
	if got != want {
		t.Errorf("GetConfigDir = %q, want %q", got, want)
	}
}

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Server == nil || cfg.Server.TimeoutSeconds != 15 {
		t.Errorf("Server = %+v, want 15s timeout", cfg.Server)
	}
	if cfg.Console == nil || !cfg.Console.AutoLogin {
		t.Errorf("Console = %+v, want auto-login enabled", cfg.Console)
	}
}

func TestLoadFromDisk_MissingFileReturnsDefaults(t *testing.T) {
	setTestConfigDir(t)

	cfg, err := loadFromDisk()
	if err != nil {
		t.Fatalf("loadFromDisk error: %v", err)
	}
	if cfg.Server.URL != "" || cfg.Server.TimeoutSeconds != 15 {
		t.Errorf("unexpected defaults: %+v", cfg.Server)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	setTestConfigDir(t)

	cfg := New()
	cfg.Server.URL = "https://accounts-admin.corp.example"
	cfg.Server.InsecureTLS = true
	cfg.Console.DefaultDomain = "corp.example"

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := loadFromDisk()
	if err != nil {
		t.Fatalf("loadFromDisk error: %v", err)
	}

	if loaded.Server.URL != cfg.Server.URL {
		t.Errorf("URL = %q, want %q", loaded.Server.URL, cfg.Server.URL)
	}
	if !loaded.Server.InsecureTLS {
		t.Error("InsecureTLS lost in round trip")
	}
	if loaded.Console.DefaultDomain != "corp.example" {
		t.Errorf("DefaultDomain = %q", loaded.Console.DefaultDomain)
	}
}

func TestSave_WritesHeaderAndRestrictsPermissions(t *testing.T) {
	setTestConfigDir(t)

	cfg := New()
	cfg.Server.URL = "https://admin.example"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if !strings.Contains(string(data), "credentials are NEVER stored") {
		t.Error("header comment missing from saved file")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat error: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 0600", perm)
	}
}

func TestLoadFromDisk_RejectsUnknownVersion(t *testing.T) {
	setTestConfigDir(t)

	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir error: %v", err)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("MkdirAll error: %v", err)
	}
	path := filepath.Join(dir, configFile)
	if err := os.WriteFile(path, []byte("version: 9\n"), 0600); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	if _, err := loadFromDisk(); err == nil {
		t.Error("expected error for unsupported config version")
	}
}

func TestLoadFromDisk_FillsMissingSections(t *testing.T) {
	setTestConfigDir(t)

	dir, _ := GetConfigDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("MkdirAll error: %v", err)
	}
	content := "version: 1\nserver:\n  url: https://admin.example\n"
	if err := os.WriteFile(filepath.Join(dir, configFile), []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	cfg, err := loadFromDisk()
	if err != nil {
		t.Fatalf("loadFromDisk error: %v", err)
	}
	if cfg.Server.TimeoutSeconds != 15 {
		t.Errorf("TimeoutSeconds = %d, want default 15", cfg.Server.TimeoutSeconds)
	}
	if cfg.Console == nil || !cfg.Console.AutoLogin {
		t.Errorf("Console section not defaulted: %+v", cfg.Console)
	}
}
