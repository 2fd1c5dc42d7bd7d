// Where: deploy/internal/version/version.go
// What: Build revision of the orchestrator binary.
// Why: Let operators tell which orchestrator build ran a deployment.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version may be set at link time with -ldflags "-X .../version.Version=...".
var Version string

var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the link-time version when set, otherwise the short
// VCS revision from build info with "(dirty)" appended for modified trees.
// It returns "dev" when neither is available.
func GetVersion() string {
	if Version != "" {
		return Version
	}
	info, ok := readBuildInfo()
	if !ok {
		return "dev"
	}

	var revision string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}

	if revision == "" {
		return "dev"
	}
	if modified {
		return fmt.Sprintf("%s (dirty)", revision)
	}
	return revision
}
