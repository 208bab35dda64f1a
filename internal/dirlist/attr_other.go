//go:build !linux

package dirlist

// fatAttributes is only available on Linux vfat mounts.
func fatAttributes(string) (Attr, bool) {
	return 0, false
}
