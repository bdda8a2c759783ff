// Package version reports which build of pwmseq is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version can be set at link time:
// go build -ldflags "-X github.com/vsariola/pwmseq/version.Version=$(git describe --dirty)"
var Version string

// Hash is the short VCS revision of the build, suffixed with -dirty if the
// working tree had local changes; "" when built without VCS info.
var Hash = func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	return revision(info.Settings)
}()

var VersionOrHash = func() string {
	if Version != "" {
		return Version
	}
	return Hash
}()

// String is the line printed by the -v flags of the commands.
func String(command string) string {
	v := VersionOrHash
	if v == "" {
		v = "(devel)"
	}
	return fmt.Sprintf("%v %v %v/%v", command, v, runtime.GOOS, runtime.GOARCH)
}

func revision(settings []debug.BuildSetting) string {
	var hash string
	modified := false
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			hash = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if len(hash) > 7 {
		hash = hash[:7]
	}
	if hash != "" && modified {
		hash += "-dirty"
	}
	return hash
}
