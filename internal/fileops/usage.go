package fileops

import (
	"errors"
	"fmt"

	"github.com/Helaas/nextui-files-pak/internal/filekind"
)

// ErrUsageUnavailable is returned where the platform has no statfs.
var ErrUsageUnavailable = errors.New("storage usage not available")

// Storage is the space on the filesystem holding a path, in bytes.
type Storage struct {
	Total uint64
	Used  uint64
	Free  uint64 // available to unprivileged users
}

// Percent is how full the filesystem is, 0 to 100.
func (s Storage) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return int(s.Used * 100 / s.Total)
}

// String renders the usage as shown on the properties screen.
func (s Storage) String() string {
	return fmt.Sprintf("%s free of %s (%d%% used)",
		filekind.SizeString(s.Free), filekind.SizeString(s.Total), s.Percent())
}
