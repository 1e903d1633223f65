package fsutil

import (
	"fmt"
	"path/filepath"

	"golang.org/x/sys/windows"
)

// GetFSType returns "remote" for mapped network drives and UNC paths,
// and the volume file system name (NTFS, ReFS...) otherwise.
func GetFSType(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	volumeRoot := filepath.VolumeName(absPath) + `\`

	rootPtr, err := windows.UTF16PtrFromString(volumeRoot)
	if err != nil {
		return "", err
	}

	if windows.GetDriveType(rootPtr) == windows.DRIVE_REMOTE {
		return "remote", nil
	}

	name := make([]uint16, windows.MAX_PATH+1)

	if err := windows.GetVolumeInformation(rootPtr, nil, 0, nil, nil, nil, &name[0], uint32(len(name))); err != nil {
		return "", fmt.Errorf("failed to get volume information for %s: %w", volumeRoot, err)
	}

	return windows.UTF16ToString(name), nil
}
