package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigCreatesDefaultFileOnFirstRun(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c := LoadConfig()
	if c.ListenAddr != "127.0.0.1:9222" {
		t.Fatalf("expected default listen addr, got %q", c.ListenAddr)
	}

	path := filepath.Join(home, configDirName, configFileName)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to be created at %s: %v", path, err)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	conf := &Config{ListenAddr: "127.0.0.1:1234", FrontendName: "custom", Log: true, LogOutput: "mapper"}
	if err := SaveConfig(conf); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got := LoadConfig()
	if got.ListenAddr != "127.0.0.1:1234" || got.FrontendName != "custom" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
