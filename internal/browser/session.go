// Package browser ties the directory listing, clipboard, dialogs and settings
// into one browsing session driven by the UI loop.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Helaas/nextui-files-pak/internal/dialog"
	"github.com/Helaas/nextui-files-pak/internal/dirlist"
	"github.com/Helaas/nextui-files-pak/internal/filekind"
	"github.com/Helaas/nextui-files-pak/internal/fileops"
	"github.com/Helaas/nextui-files-pak/internal/settings"
)

var (
	// ErrNoSelection is returned when an action needs a real entry but the
	// listing is empty or ".." is selected.
	ErrNoSelection = errors.New("no file selected")
	// ErrAtRoot is returned by Back at the browsing root.
	ErrAtRoot = errors.New("already at root")
)

// Action is what the UI should do after Open.
type Action int

const (
	ActionNone Action = iota
	ActionNavigated
	ActionViewImage
	ActionViewText
	ActionExtractZip
	ActionPlayAudio
)

func (a Action) String() string {
	switch a {
	case ActionNavigated:
		return "navigated"
	case ActionViewImage:
		return "view_image"
	case ActionViewText:
		return "view_text"
	case ActionExtractZip:
		return "extract_zip"
	case ActionPlayAudio:
		return "play_audio"
	default:
		return "none"
	}
}

// Config describes the device layout a Session browses.
type Config struct {
	Root       string   // top of the browsable tree, e.g. /mnt/SDCARD
	StartDir   string   // optional first directory, must be inside Root
	RecycleBin string   // used when the recycle bin setting is on
	Protected  []string // used when system protection is on
	SystemDir  string   // last directory is not remembered below this path
	Lister     dirlist.Lister
	Prefs      *settings.Store
}

// Session is the state of one browsing session. It is owned by the UI loop.
type Session struct {
	Root      string
	Cwd       string
	Store     *dirlist.Store
	Clipboard fileops.Clipboard
	Settings  settings.Settings
	Dialog    dialog.Machine

	cfg Config
}

// New loads settings, picks the first directory and lists it.
//
// The first directory is StartDir when set, else the last remembered
// directory, else Root. A start directory that cannot be listed falls back
// to Root.
func New(cfg Config) (*Session, error) {
	if cfg.Lister == nil {
		cfg.Lister = dirlist.OSLister{}
	}
	s := &Session{
		Root: filepath.Clean(cfg.Root),
		cfg:  cfg,
	}
	if cfg.Prefs != nil {
		s.Settings = cfg.Prefs.Load()
	} else {
		s.Settings = settings.Defaults()
	}
	s.Store = dirlist.NewStore(cfg.Lister, s.storeOptions())

	s.Cwd = s.Root
	for _, dir := range []string{cfg.StartDir, s.Settings.LastDirectory} {
		if dir != "" && dirlist.Within(dir, s.Root) {
			s.Cwd = filepath.Clean(dir)
			break
		}
	}

	if err := s.Refresh(true); err != nil {
		if s.Cwd == s.Root {
			return nil, err
		}
		log.Printf("browser: start dir unavailable dir=%s: %v", s.Cwd, err)
		s.Cwd = s.Root
		if err := s.Refresh(true); err != nil {
			return nil, err
		}
	}
	log.Printf("browser: session started root=%s cwd=%s", s.Root, s.Cwd)
	return s, nil
}

func (s *Session) storeOptions() dirlist.Options {
	return dirlist.Options{
		Root:       s.Root,
		ShowHidden: s.Settings.ShowHidden,
		Sort:       s.Settings.Sort(),
	}
}

// Deleter returns the deleter matching the current settings.
func (s *Session) Deleter() fileops.Deleter {
	var d fileops.Deleter
	if s.Settings.RecycleBin {
		d.RecycleBin = s.cfg.RecycleBin
	}
	if s.Settings.SystemProtection {
		d.Protected = s.cfg.Protected
	}
	return d
}

// Refresh relists the current directory.
func (s *Session) Refresh(reset bool) error {
	return s.Store.Rebuild(s.Cwd, reset)
}

// Selected returns the selected entry and its full path.
func (s *Session) Selected() (dirlist.Entry, string, bool) {
	e, ok := s.Store.Selected()
	if !ok {
		return dirlist.Entry{}, "", false
	}
	return e, filepath.Join(s.Cwd, e.Name), true
}

func (s *Session) selectedItem() (dirlist.Entry, string, error) {
	e, path, ok := s.Selected()
	if !ok || e.IsParent() {
		return dirlist.Entry{}, "", ErrNoSelection
	}
	return e, path, nil
}

// Enter navigates into the selected directory, or up for "..".
func (s *Session) Enter() error {
	e, path, ok := s.Selected()
	if !ok {
		return ErrNoSelection
	}
	if e.IsParent() {
		return s.Back()
	}
	if !e.IsDir {
		return fmt.Errorf("entering %s: not a directory", e.Name)
	}
	return s.navigate(path, "")
}

// Back navigates to the parent directory and selects the folder it came from.
func (s *Session) Back() error {
	if dirlist.IsRoot(s.Cwd, s.Root) {
		return ErrAtRoot
	}
	from := filepath.Base(s.Cwd)
	return s.navigate(dirlist.Parent(s.Cwd, s.Root), from)
}

// navigate lists dir and makes it current. On failure the session stays
// where it was.
func (s *Session) navigate(dir, selectName string) error {
	prev := s.Cwd
	s.Cwd = dir
	if err := s.Refresh(true); err != nil {
		s.Cwd = prev
		return err
	}
	if selectName != "" {
		if i, ok := s.Store.Find(selectName); ok {
			s.Store.Select(i)
		}
	}
	log.Printf("browser: navigate from=%s to=%s", prev, dir)
	s.rememberDirectory()
	return nil
}

func (s *Session) rememberDirectory() {
	if s.cfg.Prefs == nil {
		return
	}
	if s.cfg.SystemDir != "" && dirlist.Within(s.Cwd, s.cfg.SystemDir) {
		return
	}
	s.Settings.LastDirectory = s.Cwd
	if err := s.cfg.Prefs.Save(context.Background(), s.Settings); err != nil {
		log.Printf("browser: saving last directory: %v", err)
	}
}

// Open acts on the selected entry. Directories are entered; files report
// the viewer the UI should show.
func (s *Session) Open() (Action, error) {
	e, _, ok := s.Selected()
	if !ok {
		return ActionNone, ErrNoSelection
	}
	if e.IsDir {
		if err := s.Enter(); err != nil {
			return ActionNone, err
		}
		return ActionNavigated, nil
	}
	switch filekind.ForName(e.Name, false) {
	case filekind.KindImage:
		return ActionViewImage, nil
	case filekind.KindText:
		return ActionViewText, nil
	case filekind.KindZip:
		return ActionExtractZip, nil
	case filekind.KindAudio:
		return ActionPlayAudio, nil
	default:
		return ActionNone, nil
	}
}

// Copy puts the selected entry on the clipboard. With cut set it is moved on
// paste instead of copied.
func (s *Session) Copy(cut bool) error {
	_, path, err := s.selectedItem()
	if err != nil {
		return err
	}
	if cut {
		s.Clipboard.Cut(path)
	} else {
		s.Clipboard.Copy(path)
	}
	return nil
}

// Paste pastes the clipboard into the current directory and selects the
// pasted item.
func (s *Session) Paste() (string, error) {
	dst, err := s.Clipboard.Paste(s.Cwd)
	if err != nil {
		return "", err
	}
	if err := s.Refresh(false); err != nil {
		return dst, err
	}
	if i, ok := s.Store.Find(filepath.Base(dst)); ok {
		s.Store.Select(i)
	}
	return dst, nil
}

// OpenDialog opens a modal about the selected entry.
func (s *Session) OpenDialog(kind dialog.Kind) (dirlist.Entry, error) {
	e, _, err := s.selectedItem()
	if err != nil {
		return dirlist.Entry{}, err
	}
	if err := s.Dialog.Open(kind, e); err != nil {
		return dirlist.Entry{}, err
	}
	return e, nil
}

// CloseDialog resolves the open modal. A confirmed delete removes the entry
// and relists with the selection reset; any closed delete dialog clears the
// clipboard.
func (s *Session) CloseDialog(confirm bool) (dialog.Result, error) {
	var (
		res dialog.Result
		err error
	)
	if confirm {
		res, err = s.Dialog.Confirm()
	} else {
		res, err = s.Dialog.Cancel()
	}
	if err != nil {
		return res, err
	}
	if res.Kind != dialog.KindDelete {
		return res, nil
	}
	s.Clipboard.Clear()
	if !res.Confirmed() {
		return res, nil
	}

	path := filepath.Join(s.Cwd, res.Entry.Name)
	if _, err := s.Deleter().Delete(path); err != nil {
		return res, err
	}
	return res, s.Refresh(true)
}

// Properties describes the selected entry.
func (s *Session) Properties() (fileops.Properties, error) {
	e, _, err := s.selectedItem()
	if err != nil {
		return fileops.Properties{}, err
	}
	return fileops.Describe(e, s.Cwd), nil
}

// Storage reports how full the card holding Root is.
func (s *Session) Storage() (fileops.Storage, error) {
	return fileops.Usage(s.Root)
}

// ExtractSelected unpacks the selected zip into the current directory.
func (s *Session) ExtractSelected() (int, error) {
	_, path, err := s.selectedItem()
	if err != nil {
		return 0, err
	}
	n, err := fileops.ExtractZip(path, s.Cwd)
	if rerr := s.Refresh(false); err == nil {
		err = rerr
	}
	return n, err
}

// ApplySettings saves new settings and relists the current directory with
// them.
func (s *Session) ApplySettings(ctx context.Context, st settings.Settings) error {
	st.LastDirectory = s.Settings.LastDirectory
	s.Settings = st
	s.Store.SetOptions(s.storeOptions())
	if s.cfg.Prefs != nil {
		if err := s.cfg.Prefs.Save(ctx, st); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
	}
	return s.Refresh(false)
}

// ReadLines returns the lines of the selected text file, reading at most
// maxBytes.
func (s *Session) ReadLines(maxBytes int64) ([]string, error) {
	_, path, err := s.selectedItem()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening text: %w", err)
	}
	defer f.Close()
	return readLines(f, maxBytes)
}
