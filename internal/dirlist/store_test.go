package dirlist

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	dirs  map[string][]RawEntry
	err   error
	calls int
}

func (f *fakeLister) List(path string) ([]RawEntry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	items, ok := f.dirs[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return items, nil
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func sampleLister() *fakeLister {
	return &fakeLister{dirs: map[string][]RawEntry{
		"/sd": {
			{Name: "Roms", Attr: AttrDirectory},
			{Name: ".system", Attr: AttrDirectory},
			{Name: "notes.txt", Size: 12},
		},
		"/sd/Roms": {
			{Name: "zelda.gba", Size: 300},
			{Name: ".", Attr: AttrDirectory},
			{Name: "..", Attr: AttrDirectory},
			{Name: "Secret", Attr: AttrDirectory | AttrHidden},
			{Name: "", Size: 1},
			{Name: "Mario.gba", Size: 900, Attr: AttrReadOnly},
			{Name: "old.gba", Size: 10, Attr: AttrHidden},
			{Name: ".DS_Store", Size: 5},
			{Name: "Castlevania.gba", Size: 500},
		},
	}}
}

func TestStore_RebuildNonRootAddsParent(t *testing.T) {
	s := NewStore(sampleLister(), Options{Root: "/sd"})

	require.NoError(t, s.Rebuild("/sd/Roms", true))

	assert.Equal(t, []string{"..", "zelda.gba", "Mario.gba", "Castlevania.gba"}, names(s.Entries()))
	parent, ok := s.At(0)
	require.True(t, ok)
	assert.True(t, parent.IsParent())
	assert.True(t, parent.IsDir)

	mario, _ := s.At(2)
	assert.Equal(t, "gba", mario.Ext)
	assert.Equal(t, uint64(900), mario.Size)
	assert.True(t, mario.IsReadOnly)
	assert.False(t, mario.IsDir)
}

func TestStore_RebuildRootHasNoParent(t *testing.T) {
	s := NewStore(sampleLister(), Options{Root: "/sd"})

	require.NoError(t, s.Rebuild("/sd", true))

	assert.Equal(t, []string{"Roms", "notes.txt"}, names(s.Entries()))
}

func TestStore_RebuildIsIdempotent(t *testing.T) {
	s := NewStore(sampleLister(), Options{Root: "/sd"})

	require.NoError(t, s.Rebuild("/sd/Roms", false))
	first := s.Entries()
	require.NoError(t, s.Rebuild("/sd/Roms", false))

	assert.Equal(t, len(first), s.Len())
	assert.Equal(t, first, s.Entries())
}

func TestStore_ShowHiddenKeepsRelativeOrder(t *testing.T) {
	lister := sampleLister()
	s := NewStore(lister, Options{Root: "/sd"})
	require.NoError(t, s.Rebuild("/sd/Roms", true))
	without := names(s.Entries())

	s.SetOptions(Options{Root: "/sd", ShowHidden: true})
	require.NoError(t, s.Rebuild("/sd/Roms", true))
	with := names(s.Entries())

	assert.Equal(t, []string{"..", "zelda.gba", "Secret", "Mario.gba", "old.gba", "Castlevania.gba"}, with)

	var visible []string
	for _, e := range s.Entries() {
		if !e.IsHidden {
			visible = append(visible, e.Name)
		}
	}
	assert.Equal(t, without, visible)
}

func TestStore_SelectionPreservedAndClamped(t *testing.T) {
	lister := sampleLister()
	s := NewStore(lister, Options{Root: "/sd"})
	require.NoError(t, s.Rebuild("/sd/Roms", true))

	s.Select(3)
	require.NoError(t, s.Rebuild("/sd/Roms", false))
	assert.Equal(t, 3, s.Selection())

	require.NoError(t, s.Rebuild("/sd", false))
	assert.Equal(t, 1, s.Selection(), "clamped to last entry")

	require.NoError(t, s.Rebuild("/sd/Roms", true))
	assert.Equal(t, 0, s.Selection())
}

func TestStore_EmptyListing(t *testing.T) {
	lister := &fakeLister{dirs: map[string][]RawEntry{"/sd": nil}}
	s := NewStore(lister, Options{Root: "/sd"})
	s.Select(5)

	require.NoError(t, s.Rebuild("/sd", false))

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.Selection())
	_, ok := s.Selected()
	assert.False(t, ok)
	s.Move(1)
	assert.Equal(t, 0, s.Selection())
}

func TestStore_FailedRebuildKeepsPreviousListing(t *testing.T) {
	lister := sampleLister()
	s := NewStore(lister, Options{Root: "/sd"})
	require.NoError(t, s.Rebuild("/sd/Roms", true))
	s.Select(2)
	before := s.Entries()

	boom := errors.New("card removed")
	lister.err = boom
	err := s.Rebuild("/sd/Roms", true)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, before, s.Entries())
	assert.Equal(t, 2, s.Selection())
}

func TestStore_SortModes(t *testing.T) {
	lister := &fakeLister{dirs: map[string][]RawEntry{
		"/sd/x": {
			{Name: "b.txt", Size: 1},
			{Name: "Zeta", Attr: AttrDirectory},
			{Name: "A.txt", Size: 50},
			{Name: "alpha", Attr: AttrDirectory},
			{Name: "c.txt", Size: 20},
		},
	}}

	s := NewStore(lister, Options{Root: "/sd", Sort: SortName})
	require.NoError(t, s.Rebuild("/sd/x", true))
	assert.Equal(t, []string{"..", "alpha", "Zeta", "A.txt", "b.txt", "c.txt"}, names(s.Entries()))

	s.SetOptions(Options{Root: "/sd", Sort: SortSize})
	require.NoError(t, s.Rebuild("/sd/x", true))
	assert.Equal(t, []string{"..", "alpha", "Zeta", "A.txt", "c.txt", "b.txt"}, names(s.Entries()))
}

func TestStore_MoveWrapsAround(t *testing.T) {
	s := NewStore(sampleLister(), Options{Root: "/sd"})
	require.NoError(t, s.Rebuild("/sd/Roms", true))

	s.Move(-1)
	assert.Equal(t, 3, s.Selection())
	s.Move(1)
	assert.Equal(t, 0, s.Selection())
	s.Move(2)
	assert.Equal(t, 2, s.Selection())
	s.Move(10)
	assert.Equal(t, 0, s.Selection())
}

func TestStore_Page(t *testing.T) {
	raw := make([]RawEntry, 12)
	for i := range raw {
		raw[i] = RawEntry{Name: string(rune('a' + i))}
	}
	s := NewStore(&fakeLister{dirs: map[string][]RawEntry{"/sd": raw}}, Options{Root: "/sd"})
	require.NoError(t, s.Rebuild("/sd", true))

	start, end := s.Page(5)
	assert.Equal(t, 0, start)
	assert.Equal(t, 5, end)

	s.Select(4)
	start, end = s.Page(5)
	assert.Equal(t, 0, start)
	assert.Equal(t, 5, end)

	s.Select(5)
	start, end = s.Page(5)
	assert.Equal(t, 1, start)
	assert.Equal(t, 6, end)

	s.Select(11)
	start, end = s.Page(5)
	assert.Equal(t, 7, start)
	assert.Equal(t, 12, end)
}

func TestStore_Find(t *testing.T) {
	s := NewStore(sampleLister(), Options{Root: "/sd"})
	require.NoError(t, s.Rebuild("/sd/Roms", true))

	i, ok := s.Find("Mario.gba")
	assert.True(t, ok)
	assert.Equal(t, 2, i)
	_, ok = s.Find("missing")
	assert.False(t, ok)
}

func TestOSLister_List(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "locked.txt"), []byte("x"), 0o444))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "game.gba.disabled"), []byte("x"), 0o644))

	items, err := OSLister{BatchSize: 1}.List(dir)
	require.NoError(t, err)
	require.Len(t, items, 4)

	byName := map[string]RawEntry{}
	for _, it := range items {
		byName[it.Name] = it
	}
	assert.True(t, byName["sub"].Attr.Has(AttrDirectory))
	assert.Equal(t, uint64(5), byName["a.txt"].Size)
	assert.False(t, byName["a.txt"].Attr.Has(AttrReadOnly))
	assert.True(t, byName["locked.txt"].Attr.Has(AttrReadOnly))
	assert.True(t, byName["game.gba.disabled"].Attr.Has(AttrHidden))
}

func TestOSLister_MissingDir(t *testing.T) {
	_, err := OSLister{}.List(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParent(t *testing.T) {
	tests := []struct {
		dir, root, want string
	}{
		{"/mnt/SDCARD/Roms/GBA", "/mnt/SDCARD", "/mnt/SDCARD/Roms"},
		{"/mnt/SDCARD/Roms/", "/mnt/SDCARD", "/mnt/SDCARD"},
		{"/mnt/SDCARD", "/mnt/SDCARD", "/mnt/SDCARD"},
		{"/etc", "/mnt/SDCARD", "/mnt/SDCARD"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Parent(tt.dir, tt.root), tt.dir)
	}
}

func TestWithin(t *testing.T) {
	assert.True(t, Within("/sd", "/sd"))
	assert.True(t, Within("/sd/a/b", "/sd"))
	assert.True(t, Within("/sd/..foo", "/sd"))
	assert.False(t, Within("/sdx", "/sd"))
	assert.False(t, Within("/", "/sd"))
}
