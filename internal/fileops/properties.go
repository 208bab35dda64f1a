package fileops

import (
	"github.com/Helaas/nextui-files-pak/internal/dirlist"
	"github.com/Helaas/nextui-files-pak/internal/filekind"
)

// Properties is what the properties dialog shows for an entry.
type Properties struct {
	Name   string
	Parent string
	Type   string
	Size   string // empty for folders
}

// Describe builds the properties of e, which lives in dir.
func Describe(e dirlist.Entry, dir string) Properties {
	p := Properties{
		Name:   e.Name,
		Parent: dir,
		Type:   filekind.Describe(e.Name, e.IsDir),
	}
	if !e.IsDir {
		p.Size = filekind.SizeString(e.Size)
	}
	return p
}
