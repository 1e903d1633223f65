package fsutil

import (
	"strings"
)

var networkFSTypes = map[string]bool{
	"nfs":  true,
	"cifs": true,
	"smb":  true,
	"smb2": true,
	"v9fs": true,
	// bsd
	"smbfs": true,
	// windows mapped drives and UNC paths
	"remote": true,
}

// IsNetworkFS reports whether path lives on a filesystem where inotify
// events from other hosts are not delivered. The returned string is the
// filesystem type as detected, lowercased.
func IsNetworkFS(path string) (bool, string, error) {
	fsType, err := GetFSType(path)
	if err != nil {
		return false, "", err
	}

	fsType = strings.ToLower(fsType)

	return networkFSTypes[fsType], fsType, nil
}
