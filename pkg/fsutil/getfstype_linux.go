package fsutil

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Magic numbers from statfs(2). Only the filesystems a log file is
// realistically found on are listed.
var fsTypeMapping = map[int64]string{
	0x9123683e: "btrfs",
	0xff534d42: "cifs",
	0xef53:     "ext4",
	0xf2f52010: "f2fs",
	0x65735546: "fuse",
	0x6969:     "nfs",
	0x5346544e: "ntfs",
	0x794c7630: "overlayfs",
	0x517b:     "smb",
	0xfe534d42: "smb2",
	0x01021994: "tmpfs",
	0x01021997: "v9fs",
	0x58465342: "xfs",
	0x2fc12fc1: "zfs",
}

func GetFSType(path string) (string, error) {
	var buf unix.Statfs_t

	if err := unix.Statfs(path, &buf); err != nil {
		return "", err
	}

	fsType, ok := fsTypeMapping[int64(buf.Type)] //nolint:unconvert
	if !ok {
		return "", fmt.Errorf("unknown fstype %#x", buf.Type)
	}

	return fsType, nil
}
