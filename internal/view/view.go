// Package view lays out the browser screen: which entries are visible on the
// current page and the text drawn for each of them.
package view

import (
	"fmt"
	"time"

	"github.com/Helaas/nextui-files-pak/internal/dirlist"
	"github.com/Helaas/nextui-files-pak/internal/filekind"
)

const (
	// FilesPerPage is how many rows fit on the browser screen.
	FilesPerPage = 8
	// maxHeaderLen is the longest current-path string drawn in the header.
	maxHeaderLen = 35
	// maxNameLen is the longest file name drawn on a row.
	maxNameLen = 45

	timeLayout = "2006/01/02 15:04"
)

// Row is one visible line of the listing.
type Row struct {
	Index    int // index into the store
	Kind     filekind.Kind
	Name     string
	Detail   string // modified time + permissions, or "Parent folder"
	Size     string // empty for directories
	Selected bool
}

// Text is the single-line form used by list widgets.
func (r Row) Text() string {
	if r.Size == "" {
		return fmt.Sprintf("%s %s", r.Kind.Icon(), r.Name)
	}
	return fmt.Sprintf("%s %s  (%s)", r.Kind.Icon(), r.Name, r.Size)
}

// Rows returns the rows of the page that contains the selection.
func Rows(store *dirlist.Store, perPage int) []Row {
	start, end := store.Page(perPage)
	rows := make([]Row, 0, end-start)
	for i := start; i < end; i++ {
		e, _ := store.At(i)
		rows = append(rows, NewRow(i, e, i == store.Selection()))
	}
	return rows
}

// AllRows returns a row for every entry, for widgets that page by themselves.
func AllRows(store *dirlist.Store) []Row {
	rows := make([]Row, 0, store.Len())
	for i, e := range store.Entries() {
		rows = append(rows, NewRow(i, e, i == store.Selection()))
	}
	return rows
}

// ListPosition returns the selected index and the first visible index for a
// list widget showing perPage rows, so a redrawn listing keeps its cursor and
// scroll offset.
func ListPosition(store *dirlist.Store, perPage int) (selected, start int) {
	start, _ = store.Page(perPage)
	return store.Selection(), start
}

// NewRow formats a single entry.
func NewRow(index int, e dirlist.Entry, selected bool) Row {
	r := Row{
		Index:    index,
		Kind:     filekind.ForName(e.Name, e.IsDir),
		Name:     truncate(e.Name, maxNameLen),
		Selected: selected,
	}
	switch {
	case e.IsParent():
		r.Detail = "Parent folder"
	default:
		r.Detail = fmt.Sprintf("%s %s", formatTime(e.ModTime), Permissions(e))
		if !e.IsDir {
			r.Size = filekind.SizeString(e.Size)
		}
	}
	return r
}

// Permissions renders the entry flags as a Unix-style mode string.
func Permissions(e dirlist.Entry) string {
	switch {
	case e.IsDir && e.IsReadOnly:
		return "dr-xr-x---"
	case e.IsDir:
		return "drwxr-x---"
	case e.IsReadOnly:
		return "-r--r-----"
	default:
		return "-rw-rw----"
	}
}

// Header returns the current path as drawn above the listing.
func Header(cwd string) string {
	return truncate(cwd, maxHeaderLen)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "----/--/-- --:--"
	}
	return t.Format(timeLayout)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
