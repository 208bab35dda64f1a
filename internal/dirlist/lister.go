package dirlist

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Lister enumerates the items of one directory in the order the filesystem
// returns them.
type Lister interface {
	List(path string) ([]RawEntry, error)
}

// defaultBatchSize is how many items OSLister reads per ReadDir call.
const defaultBatchSize = 64

// OSLister reads directories from the local filesystem.
type OSLister struct {
	// BatchSize bounds each ReadDir call; zero means defaultBatchSize.
	BatchSize int
}

// List implements Lister. The result is in enumeration order, unsorted.
func (l OSLister) List(path string) ([]RawEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dir: %w", err)
	}
	defer f.Close()

	n := l.BatchSize
	if n <= 0 {
		n = defaultBatchSize
	}

	var items []RawEntry
	for {
		batch, err := f.ReadDir(n)
		for _, de := range batch {
			info, infoErr := de.Info()
			if errors.Is(infoErr, fs.ErrNotExist) {
				continue // removed while listing
			}
			if infoErr != nil {
				return nil, fmt.Errorf("stat %s: %w", de.Name(), infoErr)
			}
			items = append(items, rawFromInfo(path, info))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading dir: %w", err)
		}
	}
	return items, nil
}

func rawFromInfo(dir string, info fs.FileInfo) RawEntry {
	raw := RawEntry{
		Name:    info.Name(),
		ModTime: info.ModTime(),
	}
	if info.IsDir() {
		raw.Attr |= AttrDirectory
	} else {
		raw.Size = uint64(info.Size())
	}

	if fat, ok := fatAttributes(filepath.Join(dir, info.Name())); ok {
		raw.Attr |= fat &^ AttrDirectory
	} else if info.Mode().Perm()&0o200 == 0 {
		raw.Attr |= AttrReadOnly
	}
	if isConventionallyHidden(info.Name()) {
		raw.Attr |= AttrHidden
	}
	return raw
}

// isConventionallyHidden applies the NextUI naming convention for items the
// launcher hides: ".disabled" suffixes and the ROM folder's map.txt.
func isConventionallyHidden(name string) bool {
	return strings.HasSuffix(name, ".disabled") || name == "map.txt"
}
