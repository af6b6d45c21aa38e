// Package buildinfo reports the vizbind version.
//
// Release builds set the variables through ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/vizbind/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/vizbind/pkg/buildinfo.Commit=$(git rev-parse HEAD)" ./cmd/vizbind
//
// Builds without ldflags fall back to the module and VCS information the
// Go toolchain embeds.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var resolveOnce sync.Once

// resolve fills unset variables from the embedded build information.
func resolve() {
	resolveOnce.Do(func() {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if Commit == "none" {
					Commit = s.Value
				}
			case "vcs.time":
				if Date == "unknown" {
					Date = s.Value
				}
			}
		}
	})
}

// Short returns the version and an abbreviated commit, e.g. "v0.3.0 (1a2b3c4)".
func Short() string {
	resolve()
	commit := Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (%s)", Version, commit)
}

// String returns the formatted build information.
func String() string {
	resolve()
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	resolve()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
