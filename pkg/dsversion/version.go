package dsversion

import (
	"fmt"
	"regexp"

	"github.com/crowdsecurity/go-cs-lib/version"

	"github.com/crowdsecurity/debugstream/pkg/tailer"
)

var semverPrefix = regexp.MustCompile(`^v\d+\.\d+\.\d+`)

func FullString() string {
	ret := fmt.Sprintf("version: %s\n", version.String())
	ret += fmt.Sprintf("BuildDate: %s\n", version.BuildDate)
	ret += fmt.Sprintf("GoVersion: %s\n", version.GoVersion)
	ret += fmt.Sprintf("Platform: %s\n", version.System)
	ret += fmt.Sprintf("Tail modes: %s, %s, %s\n", tailer.ModeAuto, tailer.ModeInotify, tailer.ModePoll)

	return ret
}

// StripTags removes anything after the vX.Y.Z prefix of a version.
// Strings without such a prefix are returned unchanged.
func StripTags(v string) string {
	if m := semverPrefix.FindString(v); m != "" {
		return m
	}

	return v
}

func VersionStrip() string {
	return StripTags(version.Version)
}
