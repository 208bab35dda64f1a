package fileops

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/Helaas/nextui-files-pak/internal/dirlist"
)

// ErrProtected is returned when deleting a protected system path.
var ErrProtected = errors.New("path is protected")

// Deleter removes files and folders.
type Deleter struct {
	// RecycleBin, when set, receives deleted items instead of removing them.
	// Items already inside it are removed for good.
	RecycleBin string
	// Protected lists paths that cannot be deleted, together with their contents.
	Protected []string
}

// Delete removes path. It returns where the item was moved to, or "" when it
// was removed permanently.
func (d Deleter) Delete(path string) (string, error) {
	path = filepath.Clean(path)
	for _, p := range d.Protected {
		if dirlist.Within(path, p) {
			return "", fmt.Errorf("deleting %s: %w", path, ErrProtected)
		}
	}
	if _, err := os.Lstat(path); err != nil {
		return "", fmt.Errorf("deleting %s: %w", path, err)
	}

	if d.RecycleBin == "" || dirlist.Within(path, d.RecycleBin) || dirlist.Within(d.RecycleBin, path) {
		log.Printf("fileops: delete path=%s", path)
		if err := os.RemoveAll(path); err != nil {
			return "", fmt.Errorf("deleting %s: %w", path, err)
		}
		return "", nil
	}

	if err := os.MkdirAll(d.RecycleBin, 0o755); err != nil {
		return "", fmt.Errorf("creating recycle bin: %w", err)
	}
	dst := filepath.Join(d.RecycleBin, filepath.Base(path)+"."+uuid.NewString())
	log.Printf("fileops: recycle path=%s dst=%s", path, dst)
	if err := move(path, dst); err != nil {
		return "", fmt.Errorf("recycling %s: %w", path, err)
	}
	return dst, nil
}
