package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"

	gaba "github.com/BrandonKowalski/gabagool/v2/pkg/gabagool"
	"github.com/BrandonKowalski/gabagool/v2/pkg/gabagool/constants"

	"github.com/Helaas/nextui-files-pak/internal/browser"
	"github.com/Helaas/nextui-files-pak/internal/dialog"
	"github.com/Helaas/nextui-files-pak/internal/dirlist"
	"github.com/Helaas/nextui-files-pak/internal/filekind"
	"github.com/Helaas/nextui-files-pak/internal/fileops"
	"github.com/Helaas/nextui-files-pak/internal/texture"
	"github.com/Helaas/nextui-files-pak/internal/view"
)

// ── Browser ──────────────────────────────────────────────────

type browseAction int

const (
	browseQuit browseAction = iota
	browseRefresh
	browseEntry
)

// showBrowser draws the current directory with the cursor where it was left.
// A opens the selected entry (".." goes up a level), X opens the entry menu
// and B goes up or quits at the root.
func showBrowser(s *browser.Session) browseAction {
	if s.Store.Len() == 0 {
		// only the card root can be empty, every other folder lists ".."
		showEntryMenu(s)
		if s.Store.Len() == 0 {
			return browseQuit
		}
		return browseRefresh
	}

	rows := view.AllRows(s.Store)
	items := make([]gaba.MenuItem, len(rows))
	for i, r := range rows {
		items[i] = gaba.MenuItem{Text: r.Text()}
	}

	backText := "Up"
	if dirlist.IsRoot(s.Cwd, s.Root) {
		backText = "Quit"
	}
	opts := gaba.DefaultListOptions(view.Header(s.Cwd), items)
	opts.SelectedIndex, opts.VisibleStartIndex = view.ListPosition(s.Store, opts.MaxVisibleItems)
	opts.ActionButton = constants.VirtualButtonX
	opts.FooterHelpItems = []gaba.FooterHelpItem{
		{ButtonName: "B", HelpText: backText},
		{ButtonName: "X", HelpText: "Menu"},
		{ButtonName: "A", HelpText: "Open"},
	}

	result, err := gaba.List(opts)
	if isErrCancelled(err) {
		return goBack(s)
	}
	if err != nil {
		logError("browser", err)
		return browseQuit
	}
	if len(result.Selected) == 0 {
		return browseRefresh
	}

	s.Store.Select(result.Selected[0])
	e, _ := s.Store.Selected()
	log.Printf("ui: browser action=%d index=%d name=%s", result.Action, result.Selected[0], e.Name)
	if result.Action == gaba.ListActionTriggered {
		return browseEntry
	}
	if e.IsParent() {
		return goBack(s)
	}
	openSelected(s)
	return browseRefresh
}

func goBack(s *browser.Session) browseAction {
	err := s.Back()
	if errors.Is(err, browser.ErrAtRoot) {
		return browseQuit
	}
	if err != nil {
		logError("going up", err)
		showError("Could not open the parent folder.")
	}
	return browseRefresh
}

// ── Entry menu ───────────────────────────────────────────────

type entryAction int

const (
	entryOpen entryAction = iota
	entryCopy
	entryCut
	entryPaste
	entryDelete
	entryProperties
	entrySettings
)

type entryMenuItem struct {
	text   string
	action entryAction
}

// entryMenuItems lists what can be done with the selected entry. With no
// entry selected only folder-wide actions remain.
func entryMenuItems(s *browser.Session, e dirlist.Entry, ok bool) []entryMenuItem {
	var items []entryMenuItem
	if ok {
		if text := openLabel(e); text != "" {
			items = append(items, entryMenuItem{text, entryOpen})
		}
		items = append(items,
			entryMenuItem{"Copy", entryCopy},
			entryMenuItem{"Cut", entryCut},
		)
	}
	if s.Clipboard.Mode() != fileops.ModeNone {
		items = append(items, entryMenuItem{
			fmt.Sprintf("Paste %s here", filepath.Base(s.Clipboard.Source())), entryPaste,
		})
	}
	if ok {
		items = append(items,
			entryMenuItem{"Delete", entryDelete},
			entryMenuItem{"Properties", entryProperties},
		)
	}
	return append(items, entryMenuItem{"Settings", entrySettings})
}

func openLabel(e dirlist.Entry) string {
	switch filekind.ForName(e.Name, e.IsDir) {
	case filekind.KindDir:
		return "Open folder"
	case filekind.KindImage:
		return "View image"
	case filekind.KindText:
		return "View text"
	case filekind.KindZip:
		return "Extract here"
	case filekind.KindAudio:
		return "Play"
	default:
		return ""
	}
}

func showEntryMenu(s *browser.Session) {
	e, ok := s.Store.Selected()
	if ok && e.IsParent() {
		ok = false
	}
	entries := entryMenuItems(s, e, ok)

	title := filepath.Base(s.Cwd)
	if ok {
		title = e.Name
	}
	items := make([]gaba.MenuItem, len(entries))
	for i, m := range entries {
		items[i] = gaba.MenuItem{Text: m.text}
	}
	opts := gaba.DefaultListOptions(title, items)
	opts.FooterHelpItems = []gaba.FooterHelpItem{
		{ButtonName: "B", HelpText: "Back"},
		{ButtonName: "A", HelpText: "Select"},
	}

	result, err := gaba.List(opts)
	if isErrCancelled(err) {
		return
	}
	if err != nil || len(result.Selected) == 0 {
		logError("entry menu", err)
		return
	}

	action := entries[result.Selected[0]].action
	log.Printf("ui: entry menu -> %s entry=%s", entries[result.Selected[0]].text, e.Name)
	switch action {
	case entryOpen:
		openSelected(s)
	case entryCopy:
		logError("copy", s.Copy(false))
	case entryCut:
		logError("cut", s.Copy(true))
	case entryPaste:
		pasteFlow(s)
	case entryDelete:
		confirmDelete(s)
	case entryProperties:
		showProperties(s)
	case entrySettings:
		showSettingsScreen(s)
	}
}

// ── Open ─────────────────────────────────────────────────────

func openSelected(s *browser.Session) {
	action, err := s.Open()
	if err != nil {
		logError("opening entry", err)
		showError("Could not open this item.")
		return
	}
	_, path, _ := s.Selected()
	switch action {
	case browser.ActionNavigated:
		// the next browser draw lists the folder
	case browser.ActionViewImage:
		showImage(path)
	case browser.ActionViewText:
		showText(s)
	case browser.ActionExtractZip:
		extractZipFlow(s)
	case browser.ActionPlayAudio:
		showError("Audio playback is not supported.")
	case browser.ActionNone:
		showError("There is no viewer for this file type.")
	}
}

// showImage decodes the image into a texture and shows what was loaded.
func showImage(path string) {
	var (
		tex *texture.Texture
		err error
	)
	gaba.ProcessMessage("Loading image...",
		gaba.ProcessMessageOptions{ShowThemeBackground: true},
		func() (any, error) {
			tex, err = texture.NewLoader().Load(path)
			return nil, err
		},
	)
	if err != nil {
		logError("loading image", err)
		switch {
		case errors.Is(err, texture.ErrUnsupported):
			showError("This image format is not supported.")
		case errors.Is(err, texture.ErrTooLarge):
			showError("This image is too large to display.\n\nImages must be under 1024x1024.")
		default:
			showError("Could not decode this image.")
		}
		return
	}

	metadata := []gaba.MetadataItem{
		{Label: "Format", Value: texture.Classify(path).String()},
		{Label: "Size", Value: fmt.Sprintf("%d x %d", tex.Width, tex.Height)},
		{Label: "Texture", Value: fmt.Sprintf("%d x %d", tex.PowWidth, tex.PowHeight)},
		{Label: "UV", Value: fmt.Sprintf("%.3f, %.3f - %.3f, %.3f",
			tex.Sub.Left, tex.Sub.Top, tex.Sub.Right, tex.Sub.Bottom)},
		{Label: "Memory", Value: filekind.SizeString(uint64(len(tex.Data)))},
	}
	showDetail(filepath.Base(path), "Image", metadata)
}

func showText(s *browser.Session) {
	e, _ := s.Store.Selected()
	lines, err := s.ReadLines(browser.DefaultTextLimit)
	if err != nil {
		logError("reading text", err)
		showError("Could not read this file.")
		return
	}
	if len(lines) == 0 {
		showError(fmt.Sprintf("%s is empty.", e.Name))
		return
	}

	items := make([]gaba.MenuItem, len(lines))
	for i, l := range lines {
		if l == "" {
			l = " "
		}
		items[i] = gaba.MenuItem{Text: l}
	}
	opts := gaba.DefaultListOptions(e.Name, items)
	opts.FooterHelpItems = []gaba.FooterHelpItem{
		{ButtonName: "B", HelpText: "Back"},
	}
	_, err = gaba.List(opts)
	logError("text viewer", err)
}

func extractZipFlow(s *browser.Session) {
	e, _ := s.Store.Selected()
	msg := fmt.Sprintf("Extract archive?\n\n%s\n\ninto %s", e.Name, view.Header(s.Cwd))
	result, err := gaba.ConfirmationMessage(msg,
		[]gaba.FooterHelpItem{
			{ButtonName: "B", HelpText: "Cancel"},
			{ButtonName: "A", HelpText: "Extract", IsConfirmButton: true},
		},
		gaba.MessageOptions{ConfirmButton: constants.VirtualButtonA},
	)
	if isErrCancelled(err) || result == nil || !result.Confirmed {
		return
	}

	var files int
	gaba.ProcessMessage("Extracting...",
		gaba.ProcessMessageOptions{ShowThemeBackground: true},
		func() (any, error) {
			files, err = s.ExtractSelected()
			return nil, err
		},
	)
	if err != nil {
		logError("extracting zip", err)
		if errors.Is(err, fileops.ErrUnsafeArchive) {
			showError("This archive contains unsafe paths\nand was not fully extracted.")
		} else {
			showError("Could not extract this archive.")
		}
		return
	}
	showMessage(fmt.Sprintf("Extracted %d files.", files))
}

// ── Clipboard ────────────────────────────────────────────────

func pasteFlow(s *browser.Session) {
	var (
		dst string
		err error
	)
	label := "Copying..."
	if s.Clipboard.Mode() == fileops.ModeCut {
		label = "Moving..."
	}
	gaba.ProcessMessage(label,
		gaba.ProcessMessageOptions{ShowThemeBackground: true},
		func() (any, error) {
			dst, err = s.Paste()
			return nil, err
		},
	)
	switch {
	case err == nil:
		log.Printf("ui: pasted dst=%s", dst)
	case errors.Is(err, fileops.ErrExists):
		showError("An item with this name already exists here.")
	case errors.Is(err, fileops.ErrIntoSelf):
		showError("A folder cannot be pasted into itself.")
	default:
		logError("pasting", err)
		showError("Could not paste.")
	}
}

// ── Dialogs ──────────────────────────────────────────────────

func confirmDelete(s *browser.Session) {
	e, err := s.OpenDialog(dialog.KindDelete)
	if err != nil {
		logError("delete dialog", err)
		return
	}

	msg := fmt.Sprintf("Delete?\n\n%s\n\nThis cannot be undone.", e.Name)
	if s.Settings.RecycleBin {
		msg = fmt.Sprintf("Delete?\n\n%s\n\nIt will be moved to the recycle bin.", e.Name)
	}
	result, err := gaba.ConfirmationMessage(msg,
		[]gaba.FooterHelpItem{
			{ButtonName: "B", HelpText: "Cancel"},
			{ButtonName: "A", HelpText: "Delete", IsConfirmButton: true},
		},
		gaba.MessageOptions{
			ConfirmButton: constants.VirtualButtonA,
		},
	)
	if isErrCancelled(err) || result == nil || !result.Confirmed {
		_, err = s.CloseDialog(false)
		logError("delete dialog", err)
		return
	}

	gaba.ProcessMessage("Deleting...",
		gaba.ProcessMessageOptions{ShowThemeBackground: true},
		func() (any, error) {
			_, err = s.CloseDialog(true)
			return nil, err
		},
	)
	switch {
	case err == nil:
	case errors.Is(err, fileops.ErrProtected):
		showError("This is a system folder and cannot be deleted.\n\nTurn off system protection in Settings.")
	default:
		logError("deleting", err)
		showError(fmt.Sprintf("Could not delete %s.", e.Name))
	}
}

func showProperties(s *browser.Session) {
	if _, err := s.OpenDialog(dialog.KindProperties); err != nil {
		logError("properties dialog", err)
		return
	}
	defer func() {
		_, err := s.CloseDialog(false)
		logError("properties dialog", err)
	}()

	p, err := s.Properties()
	if err != nil {
		logError("properties", err)
		return
	}
	metadata := []gaba.MetadataItem{
		{Label: "Name", Value: p.Name},
		{Label: "Location", Value: p.Parent},
		{Label: "Type", Value: p.Type},
	}
	if p.Size != "" {
		metadata = append(metadata, gaba.MetadataItem{Label: "Size", Value: p.Size})
	}
	if u, err := s.Storage(); err == nil {
		metadata = append(metadata, gaba.MetadataItem{Label: "SD card", Value: u.String()})
	} else {
		logError("storage usage", err)
	}
	showDetail(p.Name, "Properties", metadata)
}

func showDetail(title, section string, metadata []gaba.MetadataItem) {
	detailOpts := gaba.DefaultInfoScreenOptions()
	detailOpts.Sections = []gaba.Section{
		gaba.NewInfoSection(section, metadata),
	}
	detailOpts.ShowThemeBackground = true
	detailOpts.ShowScrollbar = false
	detailOpts.ConfirmButton = constants.VirtualButtonA

	footer := []gaba.FooterHelpItem{
		{ButtonName: "B", HelpText: "Back"},
	}
	_, err := gaba.DetailScreen(title, detailOpts, footer)
	logError("detail screen", err)
}

// ── Settings screen ──────────────────────────────────────────

func onOff(b bool) int {
	if b {
		return 1
	}
	return 0
}

func boolOptions() []gaba.Option {
	return []gaba.Option{
		{DisplayName: "Off", Value: false},
		{DisplayName: "On", Value: true},
	}
}

// showSettingsScreen presents the browser settings.
// Users cycle Left/Right to change values and press A to save, or B to discard.
func showSettingsScreen(s *browser.Session) {
	st := s.Settings
	sortModes := []dirlist.SortMode{dirlist.SortName, dirlist.SortSize, dirlist.SortNone}
	sortOptions := []gaba.Option{
		{DisplayName: "Name", Value: dirlist.SortName.String()},
		{DisplayName: "Size", Value: dirlist.SortSize.String()},
		{DisplayName: "Unsorted", Value: dirlist.SortNone.String()},
	}
	selectedSort := 0
	for i, m := range sortModes {
		if m == st.Sort() {
			selectedSort = i
		}
	}

	items := []gaba.ItemWithOptions{
		{
			Item:           gaba.MenuItem{Text: "Show hidden files"},
			Options:        boolOptions(),
			SelectedOption: onOff(st.ShowHidden),
		},
		{
			Item:           gaba.MenuItem{Text: "Use recycle bin"},
			Options:        boolOptions(),
			SelectedOption: onOff(st.RecycleBin),
		},
		{
			Item:           gaba.MenuItem{Text: "Protect system folders"},
			Options:        boolOptions(),
			SelectedOption: onOff(st.SystemProtection),
		},
		{
			Item:           gaba.MenuItem{Text: "Sort by"},
			Options:        sortOptions,
			SelectedOption: selectedSort,
		},
	}

	listOpts := gaba.OptionListSettings{
		ConfirmButton: constants.VirtualButtonA,
		FooterHelpItems: []gaba.FooterHelpItem{
			{ButtonName: "B", HelpText: "Back"},
			{ButtonName: "←/→", HelpText: "Change"},
			{ButtonName: "A", HelpText: "Save"},
		},
	}

	result, err := gaba.OptionsList("Settings", listOpts, items)
	if isErrCancelled(err) {
		return // B pressed, discard changes
	}
	if err != nil {
		logError("settings screen", err)
		return
	}
	if result == nil {
		return
	}

	st.ShowHidden, _ = result.Items[0].Options[result.Items[0].SelectedOption].Value.(bool)
	st.RecycleBin, _ = result.Items[1].Options[result.Items[1].SelectedOption].Value.(bool)
	st.SystemProtection, _ = result.Items[2].Options[result.Items[2].SelectedOption].Value.(bool)
	st.SortMode, _ = result.Items[3].Options[result.Items[3].SelectedOption].Value.(string)
	log.Printf("ui: settings saving: showHidden=%v recycleBin=%v systemProtection=%v sort=%s",
		st.ShowHidden, st.RecycleBin, st.SystemProtection, st.SortMode)
	logError("saving settings", s.ApplySettings(context.Background(), st))
}

// ── Utility screens ──────────────────────────────────────────

func showMessage(message string) {
	gaba.ConfirmationMessage(message,
		[]gaba.FooterHelpItem{
			{ButtonName: "A", HelpText: "OK", IsConfirmButton: true},
		},
		gaba.MessageOptions{ConfirmButton: constants.VirtualButtonA},
	)
}

func showError(message string) {
	gaba.ConfirmationMessage(message,
		[]gaba.FooterHelpItem{
			{ButtonName: "B", HelpText: "Back"},
		},
		gaba.MessageOptions{},
	)
}
