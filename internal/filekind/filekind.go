// Package filekind classifies files by extension for icons, viewers and the
// properties dialog.
package filekind

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind is the broad category a file belongs to.
type Kind int

const (
	KindFile Kind = iota
	KindDir
	KindApp
	KindAudio
	KindImage
	KindSystem
	KindText
	KindZip
	KindRar
)

var extKinds = map[string]Kind{
	"3ds":  KindApp,
	"cia":  KindApp,
	"elf":  KindApp,
	"sh":   KindApp,
	"mp3":  KindAudio,
	"ogg":  KindAudio,
	"wav":  KindAudio,
	"flac": KindAudio,
	"bcs":  KindAudio,
	"jpg":  KindImage,
	"jpeg": KindImage,
	"png":  KindImage,
	"gif":  KindImage,
	"bmp":  KindImage,
	"webp": KindImage,
	"bin":  KindSystem,
	"firm": KindSystem,
	"fir":  KindSystem,
	"txt":  KindText,
	"xml":  KindText,
	"log":  KindText,
	"ini":  KindText,
	"cfg":  KindText,
	"json": KindText,
	"m3u":  KindText,
	"zip":  KindZip,
	"rar":  KindRar,
}

// Ext returns the lower-cased extension of name without the leading dot.
func Ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Of classifies an extension (with or without the dot, any case).
func Of(ext string) Kind {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if k, ok := extKinds[ext]; ok {
		return k
	}
	return KindFile
}

// ForName classifies a file name, honouring the directory flag first.
func ForName(name string, isDir bool) Kind {
	if isDir {
		return KindDir
	}
	return Of(Ext(name))
}

// Icon is the short label drawn in front of a row.
func (k Kind) Icon() string {
	switch k {
	case KindDir:
		return "[DIR]"
	case KindApp:
		return "[APP]"
	case KindAudio:
		return "[AUD]"
	case KindImage:
		return "[IMG]"
	case KindSystem:
		return "[SYS]"
	case KindText:
		return "[TXT]"
	case KindZip, KindRar:
		return "[ZIP]"
	default:
		return "[---]"
	}
}

// Describe returns the human readable type shown in the properties dialog.
// Unlike Icon it distinguishes the individual image and audio formats.
func Describe(name string, isDir bool) string {
	if isDir {
		return "Folder"
	}
	switch ext := Ext(name); ext {
	case "png":
		return "PNG image"
	case "jpg", "jpeg":
		return "JPEG image"
	case "gif":
		return "GIF image"
	case "bmp":
		return "BMP image"
	case "mp3":
		return "MP3 audio"
	}
	switch Of(Ext(name)) {
	case KindApp:
		return "Application"
	case KindAudio:
		return "Audio file"
	case KindImage:
		return "Image"
	case KindSystem:
		return "System file"
	case KindText:
		return "Text file"
	case KindZip:
		return "ZIP archive"
	case KindRar:
		return "RAR archive"
	default:
		return "File"
	}
}

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// SizeString formats a byte count with binary units: "512 B", "1.50 KB".
func SizeString(size uint64) string {
	v := float64(size)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%.0f %s", v, sizeUnits[i])
	}
	return fmt.Sprintf("%.2f %s", v, sizeUnits[i])
}
