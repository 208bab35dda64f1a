//go:build linux || darwin

package fileops

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Usage reports the size and usage of the filesystem that holds root.
func Usage(root string) (Storage, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(root, &st); err != nil {
		return Storage{}, fmt.Errorf("statfs %s: %w", root, err)
	}
	bsize := uint64(st.Bsize)
	return Storage{
		Total: st.Blocks * bsize,
		Used:  (st.Blocks - st.Bfree) * bsize,
		Free:  st.Bavail * bsize,
	}, nil
}
