package fileops

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/Helaas/nextui-files-pak/internal/dirlist"
)

// ErrUnsafeArchive is returned for zip entries that would land outside the
// destination folder.
var ErrUnsafeArchive = errors.New("archive entry escapes destination")

// ExtractZip unpacks archive into dstDir and returns the number of files
// written. Existing files are overwritten. Entries are never written through
// a symlink already present under dstDir.
func ExtractZip(archive, dstDir string) (int, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return 0, fmt.Errorf("opening zip: %w", err)
	}
	defer r.Close()

	files := 0
	for _, f := range r.File {
		target := filepath.Join(dstDir, f.Name)
		if !dirlist.Within(target, dstDir) {
			return files, fmt.Errorf("%s: %w", f.Name, ErrUnsafeArchive)
		}
		if err := checkNoSymlinks(dstDir, target); err != nil {
			return files, fmt.Errorf("%s: %w", f.Name, err)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return files, fmt.Errorf("creating dir: %w", err)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return files, err
		}
		files++
	}
	log.Printf("fileops: extracted archive=%s dst=%s files=%d", archive, dstDir, files)
	return files, nil
}

// checkNoSymlinks walks from dstDir down to target and fails on the first
// existing component that is a symlink. Components that do not exist yet are
// created by the extraction itself.
func checkNoSymlinks(dstDir, target string) error {
	rel, err := filepath.Rel(dstDir, target)
	if err != nil {
		return err
	}
	cur := dstDir
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if part == "" || part == "." {
			continue
		}
		cur = filepath.Join(cur, part)
		info, err := os.Lstat(cur)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("stat %s: %w", cur, err)
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			return ErrUnsafeArchive
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating dir: %w", err)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC|unix.O_NOFOLLOW, 0o644)
	if errors.Is(err, unix.ELOOP) {
		return fmt.Errorf("%s: %w", f.Name, ErrUnsafeArchive)
	}
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return out.Close()
}
