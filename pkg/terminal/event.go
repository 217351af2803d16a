package terminal

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/go-drift/drift-tui/pkg/graphics"
)

// Event is terminal input: a KeyEvent, MouseEvent, ResizeEvent or
// PasteEvent.
type Event interface {
	isEvent()
}

// KeyEvent is a key press. For printable keys Key is tcell.KeyRune and
// Rune holds the character.
type KeyEvent struct {
	Key  tcell.Key
	Rune rune
	Mod  tcell.ModMask
}

// MouseEvent is a mouse button or motion report in cell coordinates.
type MouseEvent struct {
	X, Y    int
	Buttons tcell.ButtonMask
	Mod     tcell.ModMask
}

// ResizeEvent reports a new terminal size.
type ResizeEvent struct {
	Size graphics.Size
}

// PasteEvent marks the start or end of a bracketed paste.
type PasteEvent struct {
	Start bool
}

func (KeyEvent) isEvent()    {}
func (MouseEvent) isEvent()  {}
func (ResizeEvent) isEvent() {}
func (PasteEvent) isEvent()  {}

// IsRune reports whether the event is the printable character r without
// Ctrl or Alt.
func (k KeyEvent) IsRune(r rune) bool {
	return k.Key == tcell.KeyRune && k.Rune == r && k.Mod&(tcell.ModCtrl|tcell.ModAlt) == 0
}

// IsInterrupt reports whether the event is Ctrl-C, which terminals deliver
// either as a control key or as 'c' with the Ctrl modifier.
func (k KeyEvent) IsInterrupt() bool {
	if k.Key == tcell.KeyCtrlC {
		return true
	}
	return k.Key == tcell.KeyRune && (k.Rune == 'c' || k.Rune == 'C') && k.Mod&tcell.ModCtrl != 0
}

func (k KeyEvent) String() string {
	var b strings.Builder
	if k.Mod&tcell.ModCtrl != 0 && k.Key == tcell.KeyRune {
		b.WriteString("Ctrl+")
	}
	if k.Mod&tcell.ModAlt != 0 {
		b.WriteString("Alt+")
	}
	if k.Mod&tcell.ModShift != 0 && k.Key != tcell.KeyRune {
		b.WriteString("Shift+")
	}
	if k.Key == tcell.KeyRune {
		b.WriteRune(k.Rune)
		return b.String()
	}
	if name, ok := tcell.KeyNames[k.Key]; ok {
		b.WriteString(name)
		return b.String()
	}
	fmt.Fprintf(&b, "Key[%d]", int(k.Key))
	return b.String()
}

// keySource is the part of *tcell.EventKey the conversion reads.
type keySource interface {
	Key() tcell.Key
	Rune() rune
	Modifiers() tcell.ModMask
}

func keyFrom(ev keySource) KeyEvent {
	k := KeyEvent{Key: ev.Key(), Mod: ev.Modifiers()}
	if k.Key == tcell.KeyRune {
		k.Rune = ev.Rune()
	}
	return k
}

// FromTcell converts a tcell event. Events with no equivalent, such as
// interrupts and focus changes, return false.
func FromTcell(ev tcell.Event) (Event, bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return keyFrom(ev), true
	case *tcell.EventResize:
		w, h := ev.Size()
		return ResizeEvent{Size: graphics.Size{Width: w, Height: h}}, true
	case *tcell.EventMouse:
		x, y := ev.Position()
		return MouseEvent{X: x, Y: y, Buttons: ev.Buttons(), Mod: ev.Modifiers()}, true
	case *tcell.EventPaste:
		return PasteEvent{Start: ev.Start()}, true
	}
	return nil, false
}
