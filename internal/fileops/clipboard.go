// Package fileops implements the file operations offered by the browser:
// copy, cut and paste through a clipboard, delete with an optional recycle
// bin, zip extraction and the properties summary.
package fileops

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/Helaas/nextui-files-pak/internal/dirlist"
)

var (
	// ErrEmptyClipboard is returned by Paste when nothing was copied or cut.
	ErrEmptyClipboard = errors.New("clipboard is empty")
	// ErrExists is returned when the destination name is taken.
	ErrExists = errors.New("destination already exists")
	// ErrIntoSelf is returned when pasting a folder inside itself.
	ErrIntoSelf = errors.New("cannot paste a folder into itself")
)

// Mode is what Paste will do with the clipboard contents.
type Mode int

const (
	ModeNone Mode = iota
	ModeCopy
	ModeCut
)

func (m Mode) String() string {
	switch m {
	case ModeCopy:
		return "copy"
	case ModeCut:
		return "cut"
	default:
		return "none"
	}
}

// Clipboard holds one path waiting to be pasted.
type Clipboard struct {
	mode Mode
	src  string
}

// Copy marks path to be copied on the next Paste.
func (c *Clipboard) Copy(path string) {
	c.mode, c.src = ModeCopy, filepath.Clean(path)
}

// Cut marks path to be moved on the next Paste.
func (c *Clipboard) Cut(path string) {
	c.mode, c.src = ModeCut, filepath.Clean(path)
}

// Clear empties the clipboard.
func (c *Clipboard) Clear() {
	c.mode, c.src = ModeNone, ""
}

// Mode returns the pending operation.
func (c *Clipboard) Mode() Mode {
	return c.mode
}

// Source returns the pending path, empty when the clipboard is empty.
func (c *Clipboard) Source() string {
	return c.src
}

// Paste copies or moves the clipboard item into dstDir and returns the new
// path. A cut item is pasted once; a copied item can be pasted again.
func (c *Clipboard) Paste(dstDir string) (string, error) {
	if c.mode == ModeNone {
		return "", ErrEmptyClipboard
	}
	dst := filepath.Join(dstDir, filepath.Base(c.src))
	if _, err := os.Lstat(dst); err == nil {
		return "", fmt.Errorf("pasting %s: %w", dst, ErrExists)
	}
	if dirlist.Within(dst, c.src) {
		return "", fmt.Errorf("pasting %s: %w", c.src, ErrIntoSelf)
	}

	log.Printf("fileops: paste mode=%s src=%s dst=%s", c.mode, c.src, dst)
	switch c.mode {
	case ModeCut:
		if err := move(c.src, dst); err != nil {
			return "", err
		}
		c.Clear()
	default:
		if err := copyTree(c.src, dst); err != nil {
			return "", err
		}
	}
	return dst, nil
}

// move renames src to dst, falling back to copy and remove across devices.
func move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("moving %s: %w", src, err)
	}
	if err := copyTree(src, dst); err != nil {
		return err
	}
	if err := os.RemoveAll(src); err != nil {
		return fmt.Errorf("removing moved source: %w", err)
	}
	return nil
}

// copyTree copies a file or a directory tree. Symlinks are recreated, not
// followed. On failure the partial copy at dst is removed.
func copyTree(src, dst string) error {
	if err := walkCopy(src, dst); err != nil {
		if rmErr := os.RemoveAll(dst); rmErr != nil {
			log.Printf("fileops: cleanup failed dst=%s: %v", dst, rmErr)
		}
		return err
	}
	return nil
}

func walkCopy(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walking %s: %w", path, err)
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		switch {
		case d.IsDir():
			if err := os.MkdirAll(target, info.Mode().Perm()|0o700); err != nil {
				return fmt.Errorf("creating dir: %w", err)
			}
		case info.Mode()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return fmt.Errorf("reading link: %w", err)
			}
			if err := os.Symlink(link, target); err != nil {
				return fmt.Errorf("creating link: %w", err)
			}
		default:
			if err := copyFile(path, target, info.Mode().Perm()); err != nil {
				return err
			}
		}
		return nil
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open src: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("create dst: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy: %w", err)
	}
	return out.Close()
}
