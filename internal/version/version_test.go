package version

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version == "" {
		t.Error("Get().Version is empty, expected embedded version")
	}
	if info.Version != strings.TrimSpace(info.Version) {
		t.Errorf("Get().Version = %q, contains surrounding whitespace", info.Version)
	}
	if parts := strings.SplitN(info.Version, ".", 3); len(parts) != 3 {
		t.Errorf("Get().Version = %q, expected MAJOR.MINOR.PATCH", info.Version)
	}
	if info.GitCommit == "" {
		t.Error("Get().GitCommit is empty, expected value or 'unknown'")
	}
	if info.BuildDate == "" {
		t.Error("Get().BuildDate is empty, expected value or 'unknown'")
	}
	if !strings.HasPrefix(info.GoVersion, "go") {
		t.Errorf("Get().GoVersion = %q, expected go toolchain version", info.GoVersion)
	}
}

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{
			name: "all fields",
			info: Info{Version: "1.0.0", GitCommit: "abc1234", BuildDate: "2026-01-10T15:04:05Z", GoVersion: "go1.25.1"},
			want: "Version:    1.0.0\nGit Commit: abc1234\nBuild Date: 2026-01-10T15:04:05Z\nGo Version: go1.25.1",
		},
		{
			name: "unknown values",
			info: Info{Version: "0.1.0", GitCommit: "unknown", BuildDate: "unknown", GoVersion: "go1.25.1"},
			want: "Version:    0.1.0\nGit Commit: unknown\nBuild Date: unknown\nGo Version: go1.25.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Errorf("Info.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInfoShort(t *testing.T) {
	info := Info{Version: "0.1.0", GitCommit: "def5678-dirty"}
	if got, want := info.Short(), "diary 0.1.0 (def5678-dirty)"; got != want {
		t.Errorf("Info.Short() = %q, want %q", got, want)
	}
}

func TestCommitFormat(t *testing.T) {
	got := commit()
	if got == unknown {
		return
	}
	for _, c := range strings.TrimSuffix(got, "-dirty") {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			t.Errorf("commit() = %q, contains non-hex character %q", got, c)
			return
		}
	}
}

func TestVCSRevisionShortened(t *testing.T) {
	revision, _ := vcsRevision()
	if len(revision) > 7 {
		t.Errorf("vcsRevision() = %q, expected at most 7 chars", revision)
	}
}

func TestDateFallback(t *testing.T) {
	got := date()
	if got == "" {
		t.Error("date() returned empty string, expected value or 'unknown'")
	}
	if got != unknown && !strings.Contains(got, "T") {
		t.Errorf("date() = %q, expected ISO 8601 format", got)
	}
}
