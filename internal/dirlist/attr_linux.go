//go:build linux

package dirlist

import (
	"golang.org/x/sys/unix"
)

// fatIoctlGetAttributes is FAT_IOCTL_GET_ATTRIBUTES, _IOR('r', 0x10, __u32).
const fatIoctlGetAttributes = 0x80047210

// fatAttributes reads the FAT attribute byte of path. ok is false when the
// file cannot be opened or does not live on a vfat mount.
func fatAttributes(path string) (Attr, bool) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC|unix.O_NOFOLLOW, 0)
	if err != nil {
		return 0, false
	}
	defer unix.Close(fd)

	v, err := unix.IoctlGetUint32(fd, fatIoctlGetAttributes)
	if err != nil {
		return 0, false
	}
	return Attr(v), true
}
