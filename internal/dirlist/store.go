package dirlist

import (
	"cmp"
	"fmt"
	"log"
	"slices"
	"strings"
)

// SortMode controls the order of a listing.
type SortMode int

const (
	// SortNone keeps the filesystem's enumeration order.
	SortNone SortMode = iota
	// SortName puts directories first, then sorts case-insensitively by name.
	SortName
	// SortSize puts directories first, then the largest files.
	SortSize
)

func (m SortMode) String() string {
	switch m {
	case SortName:
		return "name"
	case SortSize:
		return "size"
	default:
		return "none"
	}
}

// Options configures how a Store filters and orders a listing.
type Options struct {
	Root       string // browsing root; no ".." entry is added here
	ShowHidden bool
	Sort       SortMode
}

// Store is the listing of the current directory plus the selected row.
// It is owned by a single goroutine.
type Store struct {
	lister    Lister
	opts      Options
	entries   []Entry
	selection int
}

// NewStore creates an empty store reading from lister.
func NewStore(lister Lister, opts Options) *Store {
	return &Store{lister: lister, opts: opts}
}

// Options returns the active options.
func (s *Store) Options() Options {
	return s.opts
}

// SetOptions replaces the options. They apply from the next Rebuild.
func (s *Store) SetOptions(opts Options) {
	s.opts = opts
}

// Rebuild replaces the listing with the contents of path.
//
// Names starting with "." are skipped; a ".." entry is added first at every
// path except the root. Hidden items are dropped unless ShowHidden is set.
// The selection is kept (clamped to the new length) unless resetSelection is
// true. If enumeration fails the previous listing and selection are left as
// they were.
func (s *Store) Rebuild(path string, resetSelection bool) error {
	raw, err := s.lister.List(path)
	if err != nil {
		return fmt.Errorf("listing %s: %w", path, err)
	}

	entries := make([]Entry, 0, len(raw)+1)
	if !IsRoot(path, s.opts.Root) {
		entries = append(entries, parentEntry())
	}
	hidden := 0
	for _, r := range raw {
		if r.Name == "" || strings.HasPrefix(r.Name, ".") {
			continue
		}
		e := newEntry(r)
		if e.IsHidden && !s.opts.ShowHidden {
			hidden++
			continue
		}
		entries = append(entries, e)
	}
	sortEntries(entries, s.opts.Sort)

	s.entries = entries
	if resetSelection {
		s.selection = 0
	} else {
		s.selection = clampSelection(s.selection, len(entries))
	}
	log.Printf("dirlist: rebuilt path=%s entries=%d hidden=%d", path, len(entries), hidden)
	return nil
}

func clampSelection(sel, n int) int {
	if sel >= n {
		sel = n - 1
	}
	if sel < 0 {
		sel = 0
	}
	return sel
}

func sortEntries(entries []Entry, mode SortMode) {
	if mode == SortNone {
		return
	}
	rest := entries
	if len(rest) > 0 && rest[0].IsParent() {
		rest = rest[1:]
	}
	slices.SortStableFunc(rest, func(a, b Entry) int {
		if a.IsDir != b.IsDir {
			if a.IsDir {
				return -1
			}
			return 1
		}
		if mode == SortSize && !a.IsDir {
			if c := cmp.Compare(b.Size, a.Size); c != 0 {
				return c
			}
		}
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}

// Len returns the number of entries, including "..".
func (s *Store) Len() int {
	return len(s.entries)
}

// At returns the entry at index i.
func (s *Store) At(i int) (Entry, bool) {
	if i < 0 || i >= len(s.entries) {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Entries returns a copy of the listing.
func (s *Store) Entries() []Entry {
	return slices.Clone(s.entries)
}

// Selection returns the selected index. It is 0 for an empty listing.
func (s *Store) Selection() int {
	return s.selection
}

// Selected returns the selected entry.
func (s *Store) Selected() (Entry, bool) {
	return s.At(s.selection)
}

// Select moves the selection to i, clamped to the listing.
func (s *Store) Select(i int) {
	s.selection = clampSelection(i, len(s.entries))
}

// Move shifts the selection by delta. Running off either end jumps to the
// opposite end.
func (s *Store) Move(delta int) {
	n := len(s.entries)
	if n == 0 {
		s.selection = 0
		return
	}
	p := s.selection + delta
	switch {
	case p > n-1:
		p = 0
	case p < 0:
		p = n - 1
	}
	s.selection = p
}

// Page returns the half-open range [start, end) of entries visible when
// perPage rows fit on screen. The window starts scrolling once the selection
// reaches the last row.
func (s *Store) Page(perPage int) (start, end int) {
	if perPage <= 0 {
		return 0, 0
	}
	if s.selection >= perPage {
		start = s.selection - perPage + 1
	}
	end = min(start+perPage, len(s.entries))
	return start, end
}

// Find returns the index of the entry called name.
func (s *Store) Find(name string) (int, bool) {
	for i, e := range s.entries {
		if e.Name == name {
			return i, true
		}
	}
	return 0, false
}
