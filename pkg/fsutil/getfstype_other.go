//go:build !linux && !freebsd && !openbsd && !windows

package fsutil

import (
	"errors"
	"runtime"
)

func GetFSType(_ string) (string, error) {
	return "", errors.New("filesystem type detection is not supported on " + runtime.GOOS)
}
