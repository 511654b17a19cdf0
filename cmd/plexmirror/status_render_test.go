package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderStatusLineAlignsLabels(t *testing.T) {
	line := renderStatusLine("Schema version", statusInfo, "3", false)
	if !strings.Contains(line, "Schema version:") || !strings.Contains(line, "[INFO] 3") {
		t.Fatalf("unexpected line: %q", line)
	}
	if strings.Contains(line, ansiReset) {
		t.Fatalf("plain rendering must not carry ANSI codes: %q", line)
	}
}

func TestRenderStatusLineColorizes(t *testing.T) {
	line := renderStatusLine("Integrity", statusError, "integrity check failed", true)
	if !strings.HasPrefix(line, ansiRed) || !strings.HasSuffix(line, ansiReset) {
		t.Fatalf("expected red wrapping: %q", line)
	}
}

func TestRenderTablePlainWhenRedirected(t *testing.T) {
	var buf bytes.Buffer
	out := renderTable(&buf,
		[]string{"Table", "Total"},
		[][]string{{"movies", "10"}},
		[]columnAlignment{alignLeft, alignRight})
	if !strings.Contains(out, "movies") || !strings.Contains(out, "10") {
		t.Fatalf("missing row data:\n%s", out)
	}
	if strings.Contains(out, "╭") {
		t.Fatalf("redirected output must not use rounded borders:\n%s", out)
	}
}
