// Package focus provides keyboard focus management.
//
// A Scope owns a Manager and routes terminal key events to it. Components
// below the scope join the traversal order with UseFocus. Tab and Shift-Tab
// move focus linearly; arrow keys move it toward the nearest node on screen
// unless the focused node handles them first.
package focus

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/go-drift/drift-tui/pkg/graphics"
	"github.com/go-drift/drift-tui/pkg/terminal"
)

// TraversalDirection indicates the focus traversal direction.
type TraversalDirection int

const (
	// TraversalDirectionUp moves focus upward.
	TraversalDirectionUp TraversalDirection = iota

	// TraversalDirectionDown moves focus downward.
	TraversalDirectionDown

	// TraversalDirectionLeft moves focus leftward.
	TraversalDirectionLeft

	// TraversalDirectionRight moves focus rightward.
	TraversalDirectionRight
)

// KeyEventResult indicates how a key event was handled.
type KeyEventResult int

const (
	// KeyEventIgnored indicates the event was not handled.
	KeyEventIgnored KeyEventResult = iota

	// KeyEventHandled indicates the event was consumed.
	KeyEventHandled
)

// Node represents a focusable element in the tree.
type Node struct {
	CanRequestFocus bool
	SkipTraversal   bool
	DebugLabel      string

	OnFocusChange func(hasFocus bool)
	OnKey         func(event terminal.KeyEvent) KeyEventResult

	// Rect returns the node's screen rectangle for directional navigation.
	Rect func() graphics.Rect

	manager  *Manager
	hasFocus bool
}

// canReceiveFocus reports whether the node can receive focus.
func (n *Node) canReceiveFocus() bool {
	return n != nil && n.CanRequestFocus && !n.SkipTraversal
}

// HasFocus reports whether this node is the primary focus.
func (n *Node) HasFocus() bool {
	return n.hasFocus
}

// RequestFocus requests that this node receive primary focus.
func (n *Node) RequestFocus() {
	if !n.canReceiveFocus() || n.manager == nil {
		return
	}
	n.manager.setPrimaryFocus(n)
}

// Unfocus removes focus from this node if it has primary focus.
func (n *Node) Unfocus() {
	if n.manager != nil && n.manager.primary == n {
		n.manager.setPrimaryFocus(nil)
	}
}

// NextFocus moves focus to the next focusable node.
func (n *Node) NextFocus() bool {
	return n.manager != nil && n.manager.MoveFocus(1)
}

// PreviousFocus moves focus to the previous focusable node.
func (n *Node) PreviousFocus() bool {
	return n.manager != nil && n.manager.MoveFocus(-1)
}

// Manager tracks the focusable nodes of one scope in registration order.
// It is not safe for concurrent use; the frame loop owns it.
type Manager struct {
	// Autofocus gives focus to the first focusable node that registers
	// while nothing is focused.
	Autofocus bool

	nodes   []*Node
	primary *Node
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// Primary returns the focused node, or nil.
func (m *Manager) Primary() *Node {
	return m.primary
}

// Len returns the number of registered nodes.
func (m *Manager) Len() int {
	return len(m.nodes)
}

// Register adds n to the traversal order and returns a function that
// removes it. Removing the focused node clears focus.
func (m *Manager) Register(n *Node) func() {
	n.manager = m
	m.nodes = append(m.nodes, n)
	if m.Autofocus && m.primary == nil && n.canReceiveFocus() {
		m.setPrimaryFocus(n)
	}
	return func() {
		for i, node := range m.nodes {
			if node == n {
				m.nodes = append(m.nodes[:i], m.nodes[i+1:]...)
				break
			}
		}
		if m.primary == n {
			m.setPrimaryFocus(nil)
		}
		n.manager = nil
	}
}

// HandleKey offers ev to the focused node, then applies traversal keys.
// It reports whether the event was consumed.
func (m *Manager) HandleKey(ev terminal.KeyEvent) bool {
	if m.primary != nil && m.primary.OnKey != nil {
		if m.primary.OnKey(ev) == KeyEventHandled {
			return true
		}
	}
	switch ev.Key {
	case tcell.KeyTab:
		return m.MoveFocus(1)
	case tcell.KeyBacktab:
		return m.MoveFocus(-1)
	case tcell.KeyUp:
		return m.FocusInDirection(TraversalDirectionUp)
	case tcell.KeyDown:
		return m.FocusInDirection(TraversalDirectionDown)
	case tcell.KeyLeft:
		return m.FocusInDirection(TraversalDirectionLeft)
	case tcell.KeyRight:
		return m.FocusInDirection(TraversalDirectionRight)
	}
	return false
}

// MoveFocus moves focus by delta positions in registration order, skipping
// nodes that cannot take focus.
func (m *Manager) MoveFocus(delta int) bool {
	count := len(m.nodes)
	if count == 0 {
		return false
	}

	currentIndex := m.findCurrentFocusIndex()
	if currentIndex < 0 && delta < 0 {
		currentIndex = count
	}

	for step := 1; step <= count; step++ {
		candidate := m.nodes[wrapIndex(currentIndex+delta*step, count)]
		if candidate.canReceiveFocus() {
			m.setPrimaryFocus(candidate)
			return true
		}
	}
	return false
}

// FocusInDirection moves focus to the closest node in direction. Without
// geometry for the focused node it falls back to linear traversal.
func (m *Manager) FocusInDirection(direction TraversalDirection) bool {
	current := m.primary
	if current == nil {
		return m.MoveFocus(1)
	}

	currentRect, ok := rectOf(current)
	if !ok {
		return m.MoveFocus(linearDelta(direction))
	}

	var best *Node
	bestScore := math.MaxFloat64
	for _, candidate := range m.nodes {
		if candidate == current || !candidate.canReceiveFocus() {
			continue
		}
		rect, ok := rectOf(candidate)
		if !ok || !isInDirection(currentRect, rect, direction) {
			continue
		}
		if score := directionalScore(currentRect, rect, direction); score < bestScore {
			bestScore = score
			best = candidate
		}
	}

	if best == nil {
		return false
	}
	m.setPrimaryFocus(best)
	return true
}

func rectOf(n *Node) (graphics.Rect, bool) {
	if n.Rect == nil {
		return graphics.Rect{}, false
	}
	r := n.Rect()
	return r, r.Width > 0 && r.Height > 0
}

// linearDelta returns +1 or -1 for linear focus traversal based on direction.
func linearDelta(direction TraversalDirection) int {
	if direction == TraversalDirectionUp || direction == TraversalDirectionLeft {
		return -1
	}
	return 1
}

func center(r graphics.Rect) (x, y float64) {
	return float64(r.X) + float64(r.Width)/2, float64(r.Y) + float64(r.Height)/2
}

// isInDirection checks if target rect is in the specified direction from source.
func isInDirection(source, target graphics.Rect, direction TraversalDirection) bool {
	sourceCX, sourceCY := center(source)
	targetCX, targetCY := center(target)

	switch direction {
	case TraversalDirectionUp:
		return targetCY < sourceCY
	case TraversalDirectionDown:
		return targetCY > sourceCY
	case TraversalDirectionLeft:
		return targetCX < sourceCX
	case TraversalDirectionRight:
		return targetCX > sourceCX
	}
	return false
}

// directionalScore calculates a score for how good a target is for directional focus.
// Lower scores are better.
func directionalScore(source, target graphics.Rect, direction TraversalDirection) float64 {
	sourceCX, sourceCY := center(source)
	targetCX, targetCY := center(target)

	var primaryDist, crossDist float64

	switch direction {
	case TraversalDirectionUp, TraversalDirectionDown:
		primaryDist = math.Abs(targetCY - sourceCY)
		crossDist = math.Abs(targetCX - sourceCX)
	case TraversalDirectionLeft, TraversalDirectionRight:
		primaryDist = math.Abs(targetCX - sourceCX)
		crossDist = math.Abs(targetCY - sourceCY)
	}

	// Cross-axis distance counts double so aligned nodes win.
	return primaryDist + crossDist*2
}

// findCurrentFocusIndex returns the index of the currently focused node, or -1 if none.
func (m *Manager) findCurrentFocusIndex() int {
	for i, node := range m.nodes {
		if node == m.primary {
			return i
		}
	}
	return -1
}

// wrapIndex wraps an index to stay within [0, count).
func wrapIndex(index, count int) int {
	index = index % count
	if index < 0 {
		index += count
	}
	return index
}

// setPrimaryFocus updates the primary focus to the given node.
func (m *Manager) setPrimaryFocus(node *Node) {
	if m.primary == node {
		return
	}
	if m.primary != nil {
		m.primary.setFocusState(false)
	}
	m.primary = node
	if node != nil {
		node.setFocusState(true)
	}
}

// setFocusState updates the focus flag and notifies the callback.
func (n *Node) setFocusState(hasFocus bool) {
	n.hasFocus = hasFocus
	if n.OnFocusChange != nil {
		n.OnFocusChange(hasFocus)
	}
}
