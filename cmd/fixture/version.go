package main

import (
	_ "embed"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var embeddedVersion string

// Version reports the module version of binaries built by `go install`.
// Local builds report the embedded VERSION marked as a development build,
// with the VCS revision when the build recorded one.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	return versionFrom(strings.TrimSpace(embeddedVersion), info, ok)
}

func versionFrom(base string, info *debug.BuildInfo, ok bool) string {
	base = "v" + strings.TrimPrefix(base, "v")
	if !ok {
		return base
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}

	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}
	rev := settings["vcs.revision"]
	if rev == "" {
		return base + "-dev"
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if settings["vcs.modified"] == "true" {
		rev += ".dirty"
	}
	return base + "-dev+" + rev
}
