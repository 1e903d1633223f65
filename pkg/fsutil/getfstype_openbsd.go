package fsutil

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func GetFSType(path string) (string, error) {
	var fsStat unix.Statfs_t

	if err := unix.Statfs(path, &fsStat); err != nil {
		return "", fmt.Errorf("failed to get filesystem type: %w", err)
	}

	name := make([]byte, 0, len(fsStat.F_fstypename))

	for _, c := range fsStat.F_fstypename {
		if c == 0 {
			break
		}

		name = append(name, byte(c))
	}

	return string(name), nil
}
