package main

import (
	"errors"
	"log"
	"strings"

	_ "github.com/BrandonKowalski/certifiable"
	gaba "github.com/BrandonKowalski/gabagool/v2/pkg/gabagool"

	"github.com/Helaas/nextui-files-pak/internal/browser"
	"github.com/Helaas/nextui-files-pak/internal/settings"
)

// Platform represents the target device.
type Platform string

const (
	PlatformMac    Platform = "mac"
	PlatformTG5040 Platform = "tg5040"
	PlatformTG5050 Platform = "tg5050"
)

var platform Platform

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.SetPrefix("files: ")

	env, err := settings.LoadEnv()
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	platform = detectPlatform(env.Platform)

	logPath := getLogPath(env)
	log.Printf("startup: platform=%s logPath=%s", platform, logPath)
	gaba.Init(gaba.Options{
		WindowTitle:    "Files",
		ShowBackground: true,
		LogPath:        logPath,
		IsNextUI:       platform != PlatformMac,
	})
	defer gaba.Close()

	session, err := browser.New(sessionConfig(env))
	if err != nil {
		logError("opening sd card", err)
		showError("Could not read the SD card.")
		return
	}
	runApp(session)
}

func detectPlatform(env string) Platform {
	env = strings.ToUpper(env)
	switch {
	case env == "MAC":
		return PlatformMac
	case strings.Contains(env, "TG5050"):
		return PlatformTG5050
	default:
		return PlatformTG5040
	}
}

func runApp(s *browser.Session) {
	for {
		switch showBrowser(s) {
		case browseQuit:
			return
		case browseEntry:
			showEntryMenu(s)
		}
	}
}

// isErrCancelled checks if the error is a Gabagool user-cancelled error.
func isErrCancelled(err error) bool {
	return errors.Is(err, gaba.ErrCancelled)
}

// logError logs a non-nil, non-cancelled error.
func logError(context string, err error) {
	if err != nil && !isErrCancelled(err) {
		log.Printf("%s: %v", context, err)
	}
}
