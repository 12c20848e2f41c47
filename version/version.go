package version

import (
	"fmt"
	"runtime/debug"
)

// FromBuildInfo describes the running binary: its module version when installed with `go install`,
// otherwise the VCS revision it was built from.
func FromBuildInfo() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unavailable"
	}

	return describe(info)
}

func describe(info *debug.BuildInfo) string {
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}

	settings := make(map[string]string, len(info.Settings))

	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}

	revision := settings["vcs.revision"]
	if revision == "" {
		return "unavailable"
	}

	var dirty string

	if settings["vcs.modified"] == "true" {
		dirty = " (modified)"
	}

	if ts := settings["vcs.time"]; ts != "" {
		return fmt.Sprintf("built from %s revision %s%s at %s", settings["vcs"], revision, dirty, ts)
	}

	return fmt.Sprintf("built from %s revision %s%s", settings["vcs"], revision, dirty)
}
