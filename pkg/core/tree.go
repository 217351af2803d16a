package core

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/go-drift/drift-tui/pkg/errors"
	"github.com/go-drift/drift-tui/pkg/graphics"
	"github.com/go-drift/drift-tui/pkg/layout"
	"github.com/go-drift/drift-tui/pkg/rendering"
)

// ErrReentrantRender is returned when a pass is started while another is
// running on the same tree, for example from inside a component update or
// an effect.
var ErrReentrantRender = stderrors.New("core: render pass already in progress")

// Tree owns a mounted instance tree and runs render passes over it.
// A Tree is not safe for concurrent use; only State setters and the
// BuildOwner may be used from other goroutines.
type Tree struct {
	owner    *BuildOwner
	pipeline *layout.PipelineOwner
	ctx      context.Context
	root     *instance
	nextID   uint64
	building bool
	passes   int
	updates  int
}

// TreeOption configures a Tree.
type TreeOption func(*Tree)

// WithBuildOwner makes the tree schedule through owner.
func WithBuildOwner(owner *BuildOwner) TreeOption {
	return func(t *Tree) {
		t.owner = owner
	}
}

// WithContext sets the parent context of UseTask goroutines.
func WithContext(ctx context.Context) TreeOption {
	return func(t *Tree) {
		t.ctx = ctx
	}
}

// NewTree creates an empty tree.
func NewTree(opts ...TreeOption) *Tree {
	t := &Tree{pipeline: &layout.PipelineOwner{}}
	for _, opt := range opts {
		opt(t)
	}
	if t.owner == nil {
		t.owner = NewBuildOwner()
	}
	return t
}

// Owner returns the tree's BuildOwner.
func (t *Tree) Owner() *BuildOwner {
	return t.owner
}

// Pipeline returns the layout and paint scheduler.
func (t *Tree) Pipeline() *layout.PipelineOwner {
	return t.pipeline
}

func (t *Tree) baseContext() context.Context {
	if t.ctx == nil {
		return context.Background()
	}
	return t.ctx
}

// TreeStats counts committed work.
type TreeStats struct {
	// Passes is the number of committed render passes.
	Passes int
	// Updates is the number of component updates in committed passes.
	Updates int
	// Mounted is the number of currently mounted instances.
	Mounted int
}

// Stats returns counters for committed work.
func (t *Tree) Stats() TreeStats {
	s := TreeStats{Passes: t.passes, Updates: t.updates}
	t.Walk(func(Mounted) bool {
		s.Mounted++
		return true
	})
	return s
}

// Render reconciles root against the mounted tree in a single pass. The
// whole tree updates; pending state changes anywhere are folded in. On
// error the mounted tree is left exactly as it was.
func (t *Tree) Render(root Element) error {
	if t.building {
		return ErrReentrantRender
	}
	t.building = true
	defer func() { t.building = false }()

	t.owner.drain()
	p := t.newPass()
	var old []*instance
	if t.root != nil {
		old = []*instance{t.root}
	}
	var elems []Element
	if !root.IsZero() {
		elems = []Element{root}
	}
	next, removed, err := p.reconcile(nil, old, elems)
	if err != nil {
		p.abort()
		return err
	}
	p.replaceRoot = true
	if len(next) > 0 {
		p.root = next[0]
	}
	p.rootRemoved = removed
	p.commit()
	return nil
}

// FlushBuild re-renders every instance with pending state changes, each
// with the properties it last committed. Dirty instances under another
// dirty instance are covered by their ancestor's update. All subtrees
// commit together or not at all.
func (t *Tree) FlushBuild() error {
	if t.building {
		return ErrReentrantRender
	}
	t.building = true
	defer func() { t.building = false }()

	dirty := t.owner.drain()
	if len(dirty) == 0 {
		return nil
	}
	p := t.newPass()
	for _, inst := range dirty {
		if !inst.mounted || p.covered(inst) {
			continue
		}
		p.stack = inst.ancestorContext()
		if err := p.update(inst, inst.props, inst.declared); err != nil {
			p.abort()
			return err
		}
	}
	if len(p.visited) > 0 {
		p.commit()
	}
	return nil
}

// Unmount removes the whole tree, running every effect cleanup.
func (t *Tree) Unmount() error {
	if t.building {
		return ErrReentrantRender
	}
	if t.root != nil {
		t.root.unmount()
		t.root = nil
	}
	return nil
}

// Root returns the root instance.
func (t *Tree) Root() (Mounted, bool) {
	if t.root == nil {
		return Mounted{}, false
	}
	return Mounted{inst: t.root}, true
}

// RootNode returns the root as a layout node, or nil when the tree is empty.
func (t *Tree) RootNode() layout.Node {
	if t.root == nil {
		return nil
	}
	return t.root
}

// Walk visits mounted instances depth-first, parents first. Returning false
// from fn skips that instance's children.
func (t *Tree) Walk(fn func(Mounted) bool) {
	if t.root != nil {
		walk(t.root, fn)
	}
}

func walk(inst *instance, fn func(Mounted) bool) {
	if !fn(Mounted{inst: inst}) {
		return
	}
	for _, c := range inst.children {
		walk(c, fn)
	}
}

// Layout runs engine over the tree if a pass committed or the available
// size changed since the last layout.
func (t *Tree) Layout(engine layout.Engine, available graphics.Size) bool {
	return t.pipeline.FlushLayout(t.RootNode(), available, engine)
}

// Paint records the tree into a display list of the given size.
func (t *Tree) Paint(size graphics.Size) *rendering.DisplayList {
	t.pipeline.FlushPaint()
	return rendering.Render(t.RootNode(), size)
}

func (t *Tree) newInstance(desc *typeDesc, id identity, parent *instance) *instance {
	t.nextID++
	inst := &instance{
		tree:   t,
		id:     t.nextID,
		desc:   desc,
		ident:  id,
		parent: parent,
	}
	if parent != nil {
		inst.depth = parent.depth + 1
	}
	inst.hooks = newHooks(inst)
	return inst
}

// ancestorContext rebuilds the context stack seen by inst from the frames
// its ancestors committed.
func (inst *instance) ancestorContext() *ContextStack {
	var chain []*instance
	for a := inst.parent; a != nil; a = a.parent {
		chain = append(chain, a)
	}
	s := NewContextStack()
	for i := len(chain) - 1; i >= 0; i-- {
		s.restore(chain[i].frames)
	}
	return s
}

// pass is one render pass. Nothing it stages is visible outside the pass
// until commit.
type pass struct {
	tree    *Tree
	stack   *ContextStack
	visited []*instance
	effects []*pendingEffect

	replaceRoot bool
	root        *instance
	rootRemoved []*instance
}

func (t *Tree) newPass() *pass {
	return &pass{tree: t, stack: NewContextStack()}
}

func (p *pass) covered(inst *instance) bool {
	for a := inst; a != nil; a = a.parent {
		if a.wip != nil {
			return true
		}
	}
	return false
}

// reconcile matches elems against the old children of parent by identity.
// It returns the new child list and the old children left unmatched.
func (p *pass) reconcile(parent *instance, old []*instance, elems []Element) ([]*instance, []*instance, error) {
	byIdent := make(map[identity]*instance, len(old))
	for _, o := range old {
		byIdent[o.ident] = o
	}
	ids := p.identities(parent, elems)
	next := make([]*instance, 0, len(elems))
	for i, el := range elems {
		inst, ok := byIdent[ids[i]]
		if ok {
			delete(byIdent, ids[i])
		} else {
			inst = p.tree.newInstance(el.typ, ids[i], parent)
		}
		if err := p.update(inst, el.props, el.children); err != nil {
			return nil, nil, err
		}
		next = append(next, inst)
	}
	var removed []*instance
	for _, o := range old {
		if byIdent[o.ident] == o {
			removed = append(removed, o)
		}
	}
	return next, removed, nil
}

// identities assigns each element its matching identity. Keyed elements
// match by key; unkeyed elements, and any repeat of a key already used by a
// same-type sibling, match by their index among same-type siblings. Each
// repeated key is reported once per sibling list.
func (p *pass) identities(parent *instance, elems []Element) []identity {
	ids := make([]identity, len(elems))
	var uses map[identity]int
	var repeated []identity
	positions := make(map[*typeDesc]int)
	for i, el := range elems {
		pos := positions[el.typ]
		positions[el.typ]++
		if el.hasKey {
			id := identity{desc: el.typ, keyed: true, key: el.key}
			if uses == nil {
				uses = make(map[identity]int)
			}
			uses[id]++
			switch uses[id] {
			case 1:
				ids[i] = id
				continue
			case 2:
				repeated = append(repeated, id)
			}
		}
		ids[i] = identity{desc: el.typ, index: pos}
	}
	if len(repeated) == 0 {
		return ids
	}
	owner := "root"
	if parent != nil {
		owner = parent.desc.name
	}
	for _, id := range repeated {
		errors.Report(&errors.DriftError{
			Op:        "core.reconcile",
			Kind:      errors.KindReconcile,
			Component: id.desc.name,
			Err: fmt.Errorf("key %v used %d times among children of %s; repeats match by position",
				id.key, uses[id], owner),
		})
	}
	return ids
}

// update runs the component of inst and reconciles the children it
// declares. Everything is staged in inst.wip.
func (p *pass) update(inst *instance, props any, declared []Element) error {
	w := &workInProgress{props: props, declared: declared}
	inst.wip = w
	p.visited = append(p.visited, inst)

	saved := p.stack.Depth()
	defer p.stack.popTo(saved)

	u := &Updater{inst: inst, pass: p, wip: w}
	inst.hooks.begin(p.stack)
	err := p.invoke(inst, props, u)
	u.done = true
	violation := inst.hooks.err
	endErr := inst.hooks.end()
	switch {
	case violation != nil:
		err = violation
	case err == nil:
		err = endErr
	}
	if err != nil {
		return p.fail(inst, err)
	}

	w.frames = p.stack.snapshot(saved)
	effects := inst.hooks.effects
	inst.hooks.effects = nil

	children, removed, err := p.reconcile(inst, inst.children, u.children)
	if err != nil {
		return err
	}
	w.children = children
	w.removed = removed
	// Children were reconciled first, so their effects are already queued.
	p.effects = append(p.effects, effects...)
	return nil
}

type panicked struct {
	value any
	stack string
}

func (e *panicked) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (p *pass) invoke(inst *instance, props any, u *Updater) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicked{value: r, stack: errors.CaptureStack()}
		}
	}()
	if inst.component == nil {
		inst.component = inst.desc.construct(props)
	}
	return inst.desc.update(inst.component, props, inst.hooks, u)
}

func (p *pass) fail(inst *instance, err error) error {
	buildErr := &errors.BuildError{
		Component: inst.desc.name,
		Timestamp: time.Now(),
	}
	if inst.ident.keyed {
		buildErr.Key = fmt.Sprint(inst.ident.key)
	}
	var pe *panicked
	if stderrors.As(err, &pe) {
		buildErr.Recovered = pe.value
		if DebugMode {
			buildErr.StackTrace = pe.stack
		}
	} else {
		buildErr.Err = err
	}
	errors.ReportBuildError(buildErr)
	return buildErr
}

func (p *pass) abort() {
	for _, inst := range p.visited {
		inst.wip = nil
		inst.hooks.discard()
	}
}

// commit makes the pass visible: staged fields replace committed ones,
// unmatched instances unmount, and then effects run children first.
func (p *pass) commit() {
	var removed []*instance
	for _, inst := range p.visited {
		w := inst.wip
		inst.wip = nil
		inst.props = w.props
		inst.declared = w.declared
		inst.children = w.children
		inst.measure = w.measure
		inst.style = w.style
		inst.paint = w.paint
		inst.frames = w.frames
		inst.hooks.commit()
		inst.mounted = true
		removed = append(removed, w.removed...)
	}
	if p.replaceRoot {
		p.tree.root = p.root
		removed = append(removed, p.rootRemoved...)
	}
	for _, r := range removed {
		r.unmount()
	}
	p.tree.passes++
	p.tree.updates += len(p.visited)
	p.tree.pipeline.MarkNeedsLayout()
	for _, e := range p.effects {
		e.run()
	}
}
