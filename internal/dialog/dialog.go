// Package dialog tracks the modal dialog shown over the browser.
//
// The machine has two states. Idle means the browser has input; ModalOpen
// means a delete confirmation or properties dialog owns input until the user
// confirms or cancels it, which always returns to Idle.
package dialog

import (
	"errors"
	"fmt"
	"log"

	"github.com/Helaas/nextui-files-pak/internal/dirlist"
)

// State is the dialog state.
type State int

const (
	Idle State = iota
	ModalOpen
)

func (s State) String() string {
	if s == ModalOpen {
		return "modal_open"
	}
	return "idle"
}

// Kind is the modal being shown.
type Kind int

const (
	KindNone Kind = iota
	KindDelete
	KindProperties
)

func (k Kind) String() string {
	switch k {
	case KindDelete:
		return "delete"
	case KindProperties:
		return "properties"
	default:
		return "none"
	}
}

// Choice is how a modal was closed.
type Choice int

const (
	ChoiceCancel Choice = iota
	ChoiceConfirm
)

// Result describes a closed modal.
type Result struct {
	Kind   Kind
	Entry  dirlist.Entry
	Choice Choice
}

// Confirmed reports whether the user accepted the action. Closing a
// properties dialog never confirms anything.
func (r Result) Confirmed() bool {
	return r.Kind == KindDelete && r.Choice == ChoiceConfirm
}

var (
	// ErrModalOpen is returned by Open while another modal is showing.
	ErrModalOpen = errors.New("a dialog is already open")
	// ErrNoModal is returned when resolving while idle.
	ErrNoModal = errors.New("no dialog is open")
)

// Machine is the dialog state machine. The zero value is Idle.
type Machine struct {
	state State
	kind  Kind
	entry dirlist.Entry
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Current returns the open modal and its subject.
func (m *Machine) Current() (Kind, dirlist.Entry) {
	return m.kind, m.entry
}

// Open shows a modal about entry.
func (m *Machine) Open(kind Kind, entry dirlist.Entry) error {
	if m.state == ModalOpen {
		return fmt.Errorf("opening %s: %w", kind, ErrModalOpen)
	}
	if kind == KindNone {
		return errors.New("opening dialog: invalid kind")
	}
	if kind == KindDelete && entry.IsParent() {
		return fmt.Errorf("opening delete dialog: cannot delete %q", entry.Name)
	}
	m.state, m.kind, m.entry = ModalOpen, kind, entry
	log.Printf("dialog: open kind=%s entry=%s", kind, entry.Name)
	return nil
}

// Confirm closes the modal with the confirm button.
func (m *Machine) Confirm() (Result, error) {
	return m.resolve(ChoiceConfirm)
}

// Cancel closes the modal with the back button.
func (m *Machine) Cancel() (Result, error) {
	return m.resolve(ChoiceCancel)
}

func (m *Machine) resolve(c Choice) (Result, error) {
	if m.state != ModalOpen {
		return Result{}, ErrNoModal
	}
	r := Result{Kind: m.kind, Entry: m.entry, Choice: c}
	m.state, m.kind, m.entry = Idle, KindNone, dirlist.Entry{}
	log.Printf("dialog: closed kind=%s confirmed=%v", r.Kind, r.Confirmed())
	return r, nil
}
