package selection

import (
	"sync"

	"github.com/viant/i18nlens/geometry"
)

// Registry keeps the live set of text fragments rendered under a root node.
//
// Every change builds a new fragment table and publishes it at once, readers never observe a partial update.
type Registry struct {
	host Host
	root Node
	*options

	update sync.Mutex // serializes writers
	mu     sync.RWMutex
	table  *table
	rect   *geometry.Box
	stale  bool

	listenerMu sync.Mutex
	listeners  map[int]func(selected []*Fragment)
	listenerID int
}

type table struct {
	order     []Node
	fragments map[Node]*Fragment
}

func newTable() *table {
	return &table{fragments: map[Node]*Fragment{}}
}

func (t *table) clone() *table {
	ret := &table{order: make([]Node, len(t.order)), fragments: make(map[Node]*Fragment, len(t.fragments))}
	copy(ret.order, t.order)
	for k, v := range t.fragments {
		ret.fragments[k] = v
	}
	return ret
}

func (t *table) add(fragment *Fragment) {
	if _, ok := t.fragments[fragment.Node]; !ok {
		t.order = append(t.order, fragment.Node)
	}
	t.fragments[fragment.Node] = fragment
}

func (t *table) remove(node Node) {
	if _, ok := t.fragments[node]; !ok {
		return
	}
	delete(t.fragments, node)
	for i, candidate := range t.order {
		if candidate == node {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

func (t *table) list() []*Fragment {
	result := make([]*Fragment, 0, len(t.order))
	for _, node := range t.order {
		result = append(result, t.fragments[node])
	}
	return result
}

// NewRegistry creates a registry for fragments under root, call Reset or start a Watcher to populate it
func NewRegistry(host Host, root Node, opts ...Option) *Registry {
	return &Registry{
		host:      host,
		root:      root,
		options:   newOptions(opts),
		table:     newTable(),
		listeners: map[int]func(selected []*Fragment){},
	}
}

// Root returns watched root
func (r *Registry) Root() Node {
	return r.root
}

// FindAllIn returns text leaves of node skipping blank ones (empty, a single space, newline or tab)
// and the ones inside excluded regions
func (r *Registry) FindAllIn(node Node) []Node {
	if r.Excluded(node) {
		return nil
	}
	var result []Node
	for _, textNode := range r.host.TextNodes(node) {
		switch r.host.Text(textNode) {
		case "", " ", "\n", "\t":
			continue
		}
		if r.Excluded(textNode) {
			continue
		}
		result = append(result, textNode)
	}
	return result
}

// Excluded returns true if node or any of its ancestors matches the exclusion predicate
func (r *Registry) Excluded(node Node) bool {
	for ; node != nil; node = r.host.Parent(node) {
		if r.exclude(node) {
			return true
		}
	}
	return false
}

// Host returns document host
func (r *Registry) Host() Host {
	return r.host
}

// Reset rebuilds the fragment set from the root subtree
func (r *Registry) Reset() {
	r.update.Lock()
	next := newTable()
	for _, node := range r.FindAllIn(r.root) {
		next.add(r.measure(node))
	}
	r.publish(next, false)
	r.update.Unlock()
	r.notify()
}

// Apply updates the fragment set with a batch of mutations. Child list changes add and remove
// fragments, attribute and character data changes only mark fragments for the next Refresh.
func (r *Registry) Apply(mutations []Mutation) {
	r.update.Lock()
	next := r.current().clone()
	stale := r.isStale()
	for _, mutation := range mutations {
		switch mutation.Kind {
		case MutationChildList:
			for _, added := range mutation.Added {
				for _, node := range r.FindAllIn(added) {
					next.add(r.measure(node))
				}
			}
			for _, removed := range mutation.Removed {
				for _, node := range r.host.TextNodes(removed) {
					next.remove(node)
				}
			}
		default:
			stale = true
		}
	}
	r.publish(next, stale)
	r.update.Unlock()
	r.logger.Debug().Int("mutations", len(mutations)).Bool("stale", stale).Msg("applied mutations")
	r.notify()
}

// Refresh recomputes geometry, stacking, visibility and text of every fragment and drops detached ones
func (r *Registry) Refresh() {
	r.update.Lock()
	current := r.current()
	next := newTable()
	detached := 0
	for _, node := range current.order {
		if !r.host.Attached(node) {
			detached++
			continue
		}
		next.add(r.measure(node))
	}
	r.publish(next, false)
	r.update.Unlock()
	r.logger.Debug().Int("fragments", len(next.order)).Int("detached", detached).Msg("refreshed fragments")
	r.notify()
}

// Select sets selection rectangle, only the selected flag is recomputed
func (r *Registry) Select(rect geometry.Box) {
	r.update.Lock()
	r.mu.Lock()
	r.rect = &rect
	r.mu.Unlock()
	r.publish(r.current().clone(), r.isStale())
	r.update.Unlock()
	r.notify()
}

// Clear removes selection rectangle
func (r *Registry) Clear() {
	r.update.Lock()
	r.mu.Lock()
	r.rect = nil
	r.mu.Unlock()
	r.publish(r.current().clone(), r.isStale())
	r.update.Unlock()
	r.notify()
}

// Rect returns current selection rectangle
func (r *Registry) Rect() (geometry.Box, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.rect == nil {
		return geometry.Null, false
	}
	return *r.rect, true
}

// Stale returns true if fragments changed since the last refresh
func (r *Registry) Stale() bool {
	return r.isStale()
}

// Fragments returns all fragments in discovery order
func (r *Registry) Fragments() []*Fragment {
	return r.current().list()
}

// Selected returns visible fragments intersecting the selection rectangle
func (r *Registry) Selected() []*Fragment {
	var result []*Fragment
	for _, fragment := range r.current().list() {
		if fragment.Selected {
			result = append(result, fragment)
		}
	}
	return result
}

// Len returns number of fragments
func (r *Registry) Len() int {
	return len(r.current().order)
}

// Subscribe registers a callback invoked with selected fragments after every change
func (r *Registry) Subscribe(fn func(selected []*Fragment)) (cancel func()) {
	r.listenerMu.Lock()
	defer r.listenerMu.Unlock()
	r.listenerID++
	id := r.listenerID
	r.listeners[id] = fn
	return func() {
		r.listenerMu.Lock()
		delete(r.listeners, id)
		r.listenerMu.Unlock()
	}
}

func (r *Registry) notify() {
	r.listenerMu.Lock()
	listeners := make([]func([]*Fragment), 0, len(r.listeners))
	for i := 1; i <= r.listenerID; i++ {
		if fn, ok := r.listeners[i]; ok {
			listeners = append(listeners, fn)
		}
	}
	r.listenerMu.Unlock()
	if len(listeners) == 0 {
		return
	}
	selected := r.Selected()
	for _, fn := range listeners {
		fn(selected)
	}
}

func (r *Registry) current() *table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.table
}

func (r *Registry) isStale() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stale
}

// publish recomputes selection flags and swaps the table, caller holds update lock
func (r *Registry) publish(next *table, stale bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for node, fragment := range next.fragments {
		next.fragments[node] = fragment.withSelection(r.rect)
	}
	r.table = next
	r.stale = stale
}

// measure snapshots text, document boxes, stacking order and visibility of a text leaf
func (r *Registry) measure(node Node) *Fragment {
	scroll := r.host.Scroll()
	rects := r.host.ClientRects(node)
	boxes := make([]geometry.Box, 0, len(rects))
	for _, rect := range rects {
		boxes = append(boxes, rect.Translate(scroll))
	}
	zIndex, visible := r.ancestry(node)
	return &Fragment{
		Node:    node,
		Boxes:   boxes,
		Text:    r.host.Text(node),
		ZIndex:  zIndex,
		Visible: visible,
	}
}

// ancestry walks from the text leaf parent up to root (inclusive) collecting max z-index and visibility
func (r *Registry) ancestry(node Node) (*int, bool) {
	var zIndex *int
	visible := true
	for element := r.host.Parent(node); element != nil; element = r.host.Parent(element) {
		style := r.host.Style(element)
		if style.ZIndex != nil && (zIndex == nil || *style.ZIndex > *zIndex) {
			value := *style.ZIndex
			zIndex = &value
		}
		if style.Hidden() {
			visible = false
		}
		if element == r.root {
			break
		}
	}
	return zIndex, visible
}
