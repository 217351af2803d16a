package testing

import (
	"github.com/gdamore/tcell/v2"

	"github.com/go-drift/drift-tui/pkg/graphics"
	"github.com/go-drift/drift-tui/pkg/terminal"
)

// SendEvent publishes ev on the tester's event bus and pumps.
func (t *Tester) SendEvent(ev terminal.Event) error {
	t.bus.Publish(ev)
	return t.Pump()
}

// SendKey sends a special key such as tcell.KeyEnter.
func (t *Tester) SendKey(key tcell.Key, mod tcell.ModMask) error {
	return t.SendEvent(terminal.KeyEvent{Key: key, Mod: mod})
}

// SendRune sends a printable character.
func (t *Tester) SendRune(r rune) error {
	return t.SendEvent(terminal.KeyEvent{Key: tcell.KeyRune, Rune: r})
}

// TypeText sends each rune of text, pumping after each one.
func (t *Tester) TypeText(text string) error {
	for _, r := range text {
		if err := t.SendRune(r); err != nil {
			return err
		}
	}
	return nil
}

// Click sends a primary-button press followed by a release at (x, y).
func (t *Tester) Click(x, y int) error {
	if err := t.SendEvent(terminal.MouseEvent{X: x, Y: y, Buttons: tcell.Button1}); err != nil {
		return err
	}
	return t.SendEvent(terminal.MouseEvent{X: x, Y: y, Buttons: tcell.ButtonNone})
}

// Resize changes the screen size and publishes a ResizeEvent, as a terminal
// would.
func (t *Tester) Resize(size graphics.Size) error {
	t.SetSize(size)
	return t.SendEvent(terminal.ResizeEvent{Size: size})
}
