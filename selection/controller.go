package selection

import (
	"sync"

	"github.com/viant/i18nlens/geometry"
)

// State is a drag selection state
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// PointerEvent is a pointer down, move or up event in document coordinates
type PointerEvent struct {
	Point  geometry.Point
	Target Node
	// Modifier is true while the trigger key is held
	Modifier bool
	Pressure float64
}

// KeyEvent is a key event, Modifier is true for the trigger key
type KeyEvent struct {
	Modifier bool
}

// Controller turns pointer events into a selection rectangle over a registry
type Controller struct {
	registry *Registry
	*options

	mu      sync.Mutex
	state   State
	anchor  geometry.Point
	current geometry.Point
}

// NewController creates a controller
func NewController(registry *Registry, opts ...Option) *Controller {
	return &Controller{registry: registry, options: newOptions(opts)}
}

// PointerDown starts dragging when the trigger key is held outside excluded regions.
// Returned true means the event was handled and the host default action should be suppressed.
func (c *Controller) PointerDown(event PointerEvent) bool {
	if !event.Modifier {
		return false
	}
	if event.Target != nil && c.registry.Excluded(event.Target) {
		return false
	}
	c.mu.Lock()
	c.state = Dragging
	c.anchor = event.Point
	c.current = event.Point
	rect := geometry.FromPoints(c.anchor, c.current)
	c.mu.Unlock()
	c.logger.Debug().Stringer("anchor", rect).Msg("selection started")
	c.registry.Select(rect)
	return true
}

// PointerMove extends the rectangle while dragging with the trigger key held and enough pressure
func (c *Controller) PointerMove(event PointerEvent) bool {
	c.mu.Lock()
	if c.state != Dragging || !event.Modifier || event.Pressure < c.minPressure {
		c.mu.Unlock()
		return false
	}
	c.current = event.Point
	rect := geometry.FromPoints(c.anchor, c.current)
	c.mu.Unlock()
	c.registry.Select(rect)
	return true
}

// PointerUp ends dragging regardless of the trigger key, a click without movement leaves a zero size rectangle
func (c *Controller) PointerUp(event PointerEvent) bool {
	c.mu.Lock()
	if c.state != Dragging {
		c.mu.Unlock()
		return false
	}
	c.state = Idle
	c.current = event.Point
	rect := geometry.FromPoints(c.anchor, c.current)
	c.mu.Unlock()
	c.registry.Select(rect)
	c.logger.Debug().Stringer("rect", rect).Int("selected", len(c.registry.Selected())).Msg("selection finished")
	return true
}

// KeyDown refreshes fragments when the trigger key is pressed
func (c *Controller) KeyDown(event KeyEvent) bool {
	if !event.Modifier {
		return false
	}
	c.registry.Refresh()
	return true
}

// State returns current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Rect returns current selection rectangle
func (c *Controller) Rect() (geometry.Box, bool) {
	return c.registry.Rect()
}

// Selected returns selected fragments
func (c *Controller) Selected() []*Fragment {
	return c.registry.Selected()
}

// Clear stops dragging and removes the rectangle
func (c *Controller) Clear() {
	c.mu.Lock()
	c.state = Idle
	c.mu.Unlock()
	c.registry.Clear()
}

// Subscribe registers a listener of selected fragments
func (c *Controller) Subscribe(fn func(selected []*Fragment)) (cancel func()) {
	return c.registry.Subscribe(fn)
}

// Registry returns underlying registry
func (c *Controller) Registry() *Registry {
	return c.registry
}
