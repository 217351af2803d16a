package terminal

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/go-drift/drift-tui/pkg/errors"
	"github.com/go-drift/drift-tui/pkg/graphics"
	"github.com/go-drift/drift-tui/pkg/rendering"
)

// Screen is a rendering.Backend on top of a tcell screen.
type Screen struct {
	mu     sync.Mutex
	screen tcell.Screen
	buffer *rendering.CellBuffer

	eventsOnce sync.Once
	events     chan Event
	done       chan struct{}
	closeOnce  sync.Once
}

// Option configures a Screen.
type Option func(tcell.Screen)

// WithMouse enables mouse reporting.
func WithMouse() Option {
	return func(s tcell.Screen) {
		s.EnableMouse()
	}
}

// WithPaste enables bracketed paste reporting.
func WithPaste() Option {
	return func(s tcell.Screen) {
		s.EnablePaste()
	}
}

// Open initializes the controlling terminal.
func Open(opts ...Option) (*Screen, error) {
	scr, err := tcell.NewScreen()
	if err != nil {
		return nil, &errors.DriftError{Op: "terminal.Open", Kind: errors.KindTerminal, Err: err}
	}
	return NewScreen(scr, opts...)
}

// NewScreen wraps and initializes scr. Tests pass a
// tcell.NewSimulationScreen.
func NewScreen(scr tcell.Screen, opts ...Option) (*Screen, error) {
	if err := scr.Init(); err != nil {
		return nil, &errors.DriftError{
			Op:   "terminal.NewScreen",
			Kind: errors.KindTerminal,
			Err:  fmt.Errorf("init screen: %w", err),
		}
	}
	scr.HideCursor()
	scr.SetStyle(tcell.StyleDefault)
	scr.Clear()
	for _, opt := range opts {
		opt(scr)
	}
	w, h := scr.Size()
	return &Screen{
		screen: scr,
		buffer: rendering.NewCellBuffer(graphics.Size{Width: w, Height: h}),
		done:   make(chan struct{}),
	}, nil
}

// Size returns the terminal size in cells.
func (s *Screen) Size() graphics.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, h := s.screen.Size()
	return graphics.Size{Width: w, Height: h}
}

// Draw replaces the screen contents with list.
func (s *Screen) Draw(list *rendering.DisplayList) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, h := s.screen.Size()
	size := graphics.Size{Width: w, Height: h}
	if s.buffer.Size() != size {
		s.buffer.Resize(size)
	}
	if err := s.buffer.Draw(list); err != nil {
		return err
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cell := s.buffer.Cell(x, y)
			if cell.Width == 0 {
				continue
			}
			s.screen.SetContent(x, y, cell.Rune, nil, TcellStyle(cell.Style))
		}
	}
	s.screen.Show()
	return nil
}

// Sync redraws the whole terminal, for example after it was garbled by
// another program.
func (s *Screen) Sync() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen.Sync()
}

// Events returns the input channel. The first call starts the polling
// goroutine; the channel closes after Close.
func (s *Screen) Events() <-chan Event {
	s.eventsOnce.Do(func() {
		s.events = make(chan Event, 16)
		go s.poll()
	})
	return s.events
}

func (s *Screen) poll() {
	defer close(s.events)
	defer errors.Recover("terminal.poll", "")
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		converted, ok := FromTcell(ev)
		if !ok {
			continue
		}
		select {
		case s.events <- converted:
		case <-s.done:
			return
		}
	}
}

// Close restores the terminal. It is safe to call more than once.
func (s *Screen) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.screen.Fini()
	})
	return nil
}
