package main

import (
	"bytes"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestRootShowsHelp(t *testing.T) {
	out, err := runCLI(t, "--help")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	requireContains(t, out, "sync")
	requireContains(t, out, "search")
	requireContains(t, out, "status")
}

func TestCommandsFailWithoutServerConfigured(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PLEX_URL", "")
	t.Setenv("PLEX_TOKEN", "")

	_, err := runCLI(t, "status")
	if err == nil {
		t.Fatal("expected config validation error")
	}
	if !strings.Contains(err.Error(), "plex.url is required") {
		t.Fatalf("unexpected error: %v", err)
	}
}
