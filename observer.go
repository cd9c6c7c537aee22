package nasc

import "time"

// Observer receives notifications from a container while it builds and runs
// lifecycle hooks. Implementations must be cheap; they run inline.
type Observer interface {
	// ComponentBuilt is called once per component added to a container,
	// local or inherited, after instances exist.
	ComponentBuilt(c *Component)

	// ComponentAdvised is called when handler produced an advised instance
	// for c.
	ComponentAdvised(c *Component, handler *Component)

	// HookExecuted is called after every lifecycle hook attempt.
	HookExecuted(phase Phase, c *Component, elapsed time.Duration, err error)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) ComponentBuilt(*Component) {}

func (NopObserver) ComponentAdvised(*Component, *Component) {}

func (NopObserver) HookExecuted(Phase, *Component, time.Duration, error) {}
