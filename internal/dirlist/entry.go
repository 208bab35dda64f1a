// Package dirlist holds the entries of the directory being browsed.
//
// A Store is rebuilt from a Lister on every navigation step. The new listing is
// only published once the whole directory has been enumerated, so a failed
// read never leaves a half-filled list behind.
package dirlist

import (
	"path/filepath"
	"strings"
	"time"
)

// ParentName is the name of the synthesised entry that leads one level up.
const ParentName = ".."

// Attr is the attribute byte of a directory item. The bit values match the
// FAT on-disk attribute byte so the ioctl result can be used directly.
type Attr uint8

const (
	AttrReadOnly  Attr = 0x01
	AttrHidden    Attr = 0x02
	AttrSystem    Attr = 0x04
	AttrDirectory Attr = 0x10
	AttrArchive   Attr = 0x20
)

// Has reports whether all bits of flag are set.
func (a Attr) Has(flag Attr) bool {
	return a&flag == flag
}

// RawEntry is one item as reported by a Lister, before filtering.
type RawEntry struct {
	Name    string
	Size    uint64
	ModTime time.Time
	Attr    Attr
}

// Entry is one file or directory in a listing.
type Entry struct {
	Name       string    // e.g. "Pokemon (USA).gba"
	Ext        string    // extension as on disk without the dot, e.g. "gba"
	Size       uint64    // bytes, 0 for directories
	ModTime    time.Time // zero for the ".." entry
	IsDir      bool
	IsReadOnly bool
	IsHidden   bool
}

// IsParent reports whether e is the synthesised ".." entry.
func (e Entry) IsParent() bool {
	return e.Name == ParentName
}

func newEntry(raw RawEntry) Entry {
	isDir := raw.Attr.Has(AttrDirectory)
	e := Entry{
		Name:       raw.Name,
		Size:       raw.Size,
		ModTime:    raw.ModTime,
		IsDir:      isDir,
		IsReadOnly: raw.Attr.Has(AttrReadOnly),
		IsHidden:   raw.Attr.Has(AttrHidden),
	}
	if !isDir {
		e.Ext = strings.TrimPrefix(filepath.Ext(raw.Name), ".")
	} else {
		e.Size = 0
	}
	return e
}

func parentEntry() Entry {
	return Entry{Name: ParentName, IsDir: true}
}

// ── Path helpers ─────────────────────────────────────────────

// IsRoot reports whether dir is the browsing root.
func IsRoot(dir, root string) bool {
	return filepath.Clean(dir) == filepath.Clean(root)
}

// Parent returns the directory above dir, never leaving root.
// e.g. "/mnt/SDCARD/Roms/GBA" -> "/mnt/SDCARD/Roms"
func Parent(dir, root string) string {
	if IsRoot(dir, root) || !Within(dir, root) {
		return filepath.Clean(root)
	}
	return filepath.Dir(filepath.Clean(dir))
}

// Within reports whether path is root or lies below it.
func Within(path, root string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
