package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigNewWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCLI(t, "config", "new", "--path", target)
	if err != nil {
		t.Fatalf("config new: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
}

func TestConfigNewRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if _, err := runCLI(t, "config", "new", "--path", target); err != nil {
		t.Fatalf("config new: %v", err)
	}

	if _, err := runCLI(t, "config", "new", "--path", target); err == nil {
		t.Fatal("expected error without --overwrite")
	}
	if _, err := runCLI(t, "config", "new", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config new --overwrite: %v", err)
	}
}

func TestConfigShowRedactsToken(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PLEX_URL", "http://plex.test:32400")
	t.Setenv("PLEX_TOKEN", "super-secret")

	out, err := runCLI(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "# Config path:")
	requireContains(t, out, "<set>")
	if strings.Contains(out, "super-secret") {
		t.Fatalf("token leaked:\n%s", out)
	}
}
