package main

import (
	"os"
	"path/filepath"

	"github.com/Helaas/nextui-files-pak/internal/browser"
	"github.com/Helaas/nextui-files-pak/internal/dirlist"
	"github.com/Helaas/nextui-files-pak/internal/settings"
)

// ── Device paths ─────────────────────────────────────────────

const defaultSDCard = "/mnt/SDCARD"

// recycleDirName is the recycle bin folder at the card root. The leading dot
// keeps it out of listings.
const recycleDirName = ".recycle"

// systemDirs are the card folders NextUI needs to boot. They cannot be deleted
// while system protection is on.
var systemDirs = []string{".system", ".userdata", ".tmp_update"}

// getSDCardPath returns the card root, adjusted for macOS development.
func getSDCardPath(env settings.Env) string {
	if platform == PlatformMac && env.SDCard == defaultSDCard {
		// Use a local mock directory structure for development
		cwd, _ := os.Getwd()
		return filepath.Join(cwd, "mock_sdcard")
	}
	return env.SDCard
}

func getUserdataPath(env settings.Env) string {
	return filepath.Join(getSDCardPath(env), ".userdata", string(platform))
}

func getLogPath(env settings.Env) string {
	return filepath.Join(getUserdataPath(env), "logs", "files.log")
}

// getSettingsPath returns the path to the settings JSON file.
func getSettingsPath(env settings.Env) string {
	return filepath.Join(getUserdataPath(env), "files_settings.json")
}

// sessionConfig describes the card layout for a browsing session.
func sessionConfig(env settings.Env) browser.Config {
	root := getSDCardPath(env)
	protected := make([]string, len(systemDirs))
	for i, d := range systemDirs {
		protected[i] = filepath.Join(root, d)
	}
	return browser.Config{
		Root:       root,
		StartDir:   env.StartDir,
		RecycleBin: filepath.Join(root, recycleDirName),
		Protected:  protected,
		SystemDir:  filepath.Join(root, ".system"),
		Lister:     dirlist.OSLister{},
		Prefs:      settings.NewStore(getSettingsPath(env)),
	}
}
