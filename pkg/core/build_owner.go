package core

import (
	"slices"
	"sync"
)

// BuildOwner tracks instances whose state changed since the last pass.
// State setters may run on any goroutine; the owner is the hand-off point
// between them and the loop that calls Tree.FlushBuild.
type BuildOwner struct {
	dirty    []*instance
	dirtySet map[*instance]bool
	mu       sync.Mutex

	// OnNeedsFrame is called when an instance becomes dirty, signalling the
	// driving loop that a frame should be produced. It may be called from
	// any goroutine and must not block.
	OnNeedsFrame func()
}

// NewBuildOwner creates a new BuildOwner.
func NewBuildOwner() *BuildOwner {
	return &BuildOwner{}
}

func (b *BuildOwner) scheduleBuild(inst *instance) {
	added := func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.dirtySet[inst] {
			return false
		}
		if b.dirtySet == nil {
			b.dirtySet = make(map[*instance]bool)
		}
		b.dirtySet[inst] = true
		b.dirty = append(b.dirty, inst)
		return true
	}()

	if added && b.OnNeedsFrame != nil {
		b.OnNeedsFrame()
	}
}

// NeedsBuild reports whether any instance is waiting for a pass.
func (b *BuildOwner) NeedsBuild() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.dirty) > 0
}

// DirtyCount returns the number of instances waiting for a pass.
func (b *BuildOwner) DirtyCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.dirty)
}

// drain takes the dirty set in depth order, shallowest first. Instances
// scheduled after drain returns wait for the following pass.
func (b *BuildOwner) drain() []*instance {
	b.mu.Lock()
	dirty := b.dirty
	b.dirty = nil
	clear(b.dirtySet)
	b.mu.Unlock()

	slices.SortStableFunc(dirty, func(a, b *instance) int {
		return a.depth - b.depth
	})
	return dirty
}
