package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("CODEWERK_CONFIG_DIR", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BaseURL != "" || cfg.DefaultMode != "" || cfg.DownloadDir != "" {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

func TestSaveAndLoadConfigRoundTrip(t *testing.T) {
	t.Setenv("CODEWERK_CONFIG_DIR", t.TempDir())

	in := &GlobalConfig{
		BaseURL:     "http://codes.example.test",
		DefaultMode: "qrcode",
		DownloadDir: "/tmp/downloads",
	}
	if err := SaveConfig(in); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	out, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *out != *in {
		t.Fatalf("round trip mismatch:\n got: %+v\nwant: %+v", out, in)
	}
}

func TestSaveConfigKeepsBackupOfPrevious(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CODEWERK_CONFIG_DIR", dir)

	if err := SaveConfig(&GlobalConfig{BaseURL: "http://one"}); err != nil {
		t.Fatalf("SaveConfig #1: %v", err)
	}
	if err := SaveConfig(&GlobalConfig{BaseURL: "http://two"}); err != nil {
		t.Fatalf("SaveConfig #2: %v", err)
	}

	bak, err := os.ReadFile(filepath.Join(dir, "config.json.bak"))
	if err != nil {
		t.Fatalf("expected backup file: %v", err)
	}
	if !strings.Contains(string(bak), "http://one") {
		t.Fatalf("expected backup to hold previous config, got: %s", bak)
	}
}
