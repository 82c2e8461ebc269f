// Package build holds build-time version information injected via ldflags.
//
// To inject values at build time:
//
//	go build -ldflags "-X github.com/haivivi/buzzerbox/cmd/buzzerbox/internal/build.Version=v1.0.0 \
//	  -X github.com/haivivi/buzzerbox/cmd/buzzerbox/internal/build.Commit=$(git rev-parse --short HEAD)" \
//	  ./cmd/buzzerbox
package build

import (
	"fmt"
	"runtime"
)

// These variables are set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

// Info is the version information as printed by "buzzerbox version".
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Go      string `json:"go" yaml:"go"`
	OS      string `json:"os" yaml:"os"`
	Arch    string `json:"arch" yaml:"arch"`
}

// Get returns the current build information.
func Get() Info {
	return Info{
		Version: Version,
		Commit:  Commit,
		Go:      runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
}

// String returns a formatted version string.
func String() string {
	return fmt.Sprintf("buzzerbox %s (%s) %s/%s",
		Version, Commit, runtime.GOOS, runtime.GOARCH)
}
