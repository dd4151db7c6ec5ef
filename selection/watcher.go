package selection

import "sync"

// Watcher mirrors host subtree changes into a registry
type Watcher struct {
	registry *Registry
	*options

	mu   sync.Mutex
	stop func()
}

// NewWatcher creates a watcher for the registry root
func NewWatcher(registry *Registry, opts ...Option) *Watcher {
	return &Watcher{registry: registry, options: newOptions(opts)}
}

// Start collects existing fragments and subscribes to host changes, starting a running watcher is a no-op
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stop != nil {
		return
	}
	w.registry.Reset()
	w.stop = w.registry.Host().Watch(w.registry.Root(), w)
	w.logger.Debug().Int("fragments", w.registry.Len()).Msg("watcher started")
}

// Stop cancels host subscription
func (w *Watcher) Stop() {
	w.mu.Lock()
	stop := w.stop
	w.stop = nil
	w.mu.Unlock()
	if stop != nil {
		stop()
		w.logger.Debug().Msg("watcher stopped")
	}
}

// Running returns true between Start and Stop
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stop != nil
}

// OnMutations implements Listener
func (w *Watcher) OnMutations(mutations []Mutation) {
	if len(mutations) == 0 {
		return
	}
	w.registry.Apply(mutations)
}

// OnResize implements Listener
func (w *Watcher) OnResize() {
	w.registry.Refresh()
}

// OnScroll implements Listener
func (w *Watcher) OnScroll() {
	w.registry.Refresh()
}

// ForceRefresh recomputes all fragments
func (w *Watcher) ForceRefresh() {
	w.registry.Refresh()
}
