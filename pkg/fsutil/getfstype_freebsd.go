package fsutil

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// GetFSType reports the name the kernel gives to the filesystem holding
// path ("ufs", "zfs", "nfs", ...), which is what IsNetworkFS matches on.
func GetFSType(path string) (string, error) {
	var st unix.Statfs_t

	if err := unix.Statfs(path, &st); err != nil {
		return "", fmt.Errorf("statfs %s: %w", path, err)
	}

	fsType := unix.ByteSliceToString(st.Fstypename[:])
	if fsType == "" {
		return "", fmt.Errorf("statfs %s: empty filesystem name", path)
	}

	return fsType, nil
}
