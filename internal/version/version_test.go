package version

import (
	"strings"
	"testing"
)

func TestInfoString(t *testing.T) {
	got := Info{Version: "1.2.0", Commit: "0123456789abcdef", GoVersion: "go1.25"}.String()
	if got != "dynchoice 1.2.0 (commit 0123456789ab, go1.25)" {
		t.Fatalf("got %q", got)
	}
	got = Info{Version: "dev", GoVersion: "go1.25", BuildDate: "2026-01-01"}.String()
	if !strings.Contains(got, "commit unknown") || !strings.HasSuffix(got, "built 2026-01-01") {
		t.Fatalf("got %q", got)
	}
}

func TestGet(t *testing.T) {
	if Get().Version == "" || Get().GoVersion == "" {
		t.Fatalf("version info incomplete: %+v", Get())
	}
}
