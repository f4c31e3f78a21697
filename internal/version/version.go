// Package version reports the diary build: the embedded release version plus
// commit and build date injected at link time.
package version

import (
	_ "embed"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var versionFile string

// Set via:
//
//	go build -ldflags "-X github.com/leefowlercu/diary/internal/version.gitCommit=VALUE"
var (
	gitCommit string
	buildDate string
)

const unknown = "unknown"

// Info describes the running binary.
type Info struct {
	Version   string `json:"version" yaml:"version" toml:"version"`
	GitCommit string `json:"git_commit" yaml:"git_commit" toml:"git_commit"`
	BuildDate string `json:"build_date" yaml:"build_date" toml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version" toml:"go_version"`
}

// String formats Info for human-readable display.
func (i Info) String() string {
	return fmt.Sprintf("Version:    %s\nGit Commit: %s\nBuild Date: %s\nGo Version: %s",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion)
}

// Short returns "diary <version> (<commit>)".
func (i Info) Short() string {
	return fmt.Sprintf("diary %s (%s)", i.Version, i.GitCommit)
}

// Get returns the build information of the running binary.
func Get() Info {
	return Info{
		Version:   strings.TrimSpace(versionFile),
		GitCommit: commit(),
		BuildDate: date(),
		GoVersion: runtime.Version(),
	}
}

// commit prefers the linker flag, then VCS settings recorded by the go tool.
func commit() string {
	if gitCommit != "" {
		return gitCommit
	}
	revision, dirty := vcsRevision()
	switch {
	case revision == "":
		return unknown
	case dirty:
		return revision + "-dirty"
	default:
		return revision
	}
}

func date() string {
	if buildDate != "" {
		return buildDate
	}
	return unknown
}

// vcsRevision returns the 7-character VCS revision and whether the tree was
// modified at build time.
func vcsRevision() (revision string, dirty bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	return revision, dirty
}
