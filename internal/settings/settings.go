// Package settings loads the environment the pak is launched with and
// persists the user's browser preferences.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/kelseyhightower/envconfig"

	"github.com/Helaas/nextui-files-pak/internal/dirlist"
)

// ErrLockTimeout is returned when another process holds the settings lock.
var ErrLockTimeout = errors.New("timed out waiting for settings lock")

// Env is the launch environment set by the NextUI launcher.
type Env struct {
	Platform string `envconfig:"PLATFORM"`
	SDCard   string `envconfig:"SDCARD_PATH" default:"/mnt/SDCARD"`
	StartDir string `envconfig:"FILES_START_DIR"`
}

// LoadEnv reads Env from the process environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := envconfig.Process("", &e); err != nil {
		return Env{}, fmt.Errorf("parsing environment variables: %w", err)
	}
	return e, nil
}

// Settings holds persistent user preferences.
type Settings struct {
	ShowHidden       bool   `json:"show_hidden"`
	RecycleBin       bool   `json:"recycle_bin"`
	SystemProtection bool   `json:"system_protection"`
	SortMode         string `json:"sort_mode"`
	LastDirectory    string `json:"last_directory,omitempty"`
}

// Defaults returns the settings used when no file exists yet.
func Defaults() Settings {
	return Settings{
		SystemProtection: true,
		SortMode:         dirlist.SortName.String(),
	}
}

// Sort maps SortMode onto the store's sort order, falling back to name order.
func (s Settings) Sort() dirlist.SortMode {
	for _, m := range []dirlist.SortMode{dirlist.SortNone, dirlist.SortName, dirlist.SortSize} {
		if m.String() == s.SortMode {
			return m
		}
	}
	return dirlist.SortName
}

// Store reads and writes the settings file.
type Store struct {
	Path        string
	LockTimeout time.Duration
}

// NewStore returns a Store for the settings file at path.
func NewStore(path string) *Store {
	return &Store{Path: path, LockTimeout: 2 * time.Second}
}

// Load reads settings from disk. Returns defaults on any error (missing file, parse error).
func (s *Store) Load() Settings {
	defaults := Defaults()
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("settings: read error: %v", err)
		}
		return defaults
	}
	out := defaults
	if err := json.Unmarshal(data, &out); err != nil {
		log.Printf("settings: parse error path=%s: %v", s.Path, err)
		return defaults
	}
	return out
}

// Save persists settings. The file is replaced atomically while holding an
// exclusive lock on a sibling lock file.
func (s *Store) Save(ctx context.Context, st Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}

	lock := flock.New(s.Path + ".lock")
	lockCtx, cancel := context.WithTimeout(ctx, s.LockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("acquiring settings lock: %w", err)
	}
	if !locked {
		return ErrLockTimeout
	}
	defer func() { _ = lock.Unlock() }()

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling settings: %w", err)
	}
	tmp := fmt.Sprintf("%s.%d.tmp", s.Path, os.Getpid())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp settings: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing settings: %w", err)
	}
	log.Printf("settings: saved path=%s", s.Path)
	return nil
}
