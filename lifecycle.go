package nasc

import (
	"fmt"
	"reflect"
	"slices"
	"time"

	"go.uber.org/zap"
)

// Initialize runs every local post-construct hook, dependencies first.
// It is meant to be called once; calling it again runs the hooks again.
func (c *Container) Initialize() error {
	return c.runPhase(PhasePostConstruct)
}

// Shutdown runs every local pre-destroy hook, dependencies first. It does not
// require Initialize to have run and does not reach child containers.
func (c *Container) Shutdown() error {
	return c.runPhase(PhasePreDestroy)
}

func (c *Container) runPhase(phase Phase) error {
	queue, err := c.hookQueue(phase)
	if err != nil {
		c.logger.Error("Lifecycle ordering failed", zap.Stringer("phase", phase), zap.Error(err))
		return err
	}

	c.logger.Info("Lifecycle phase started", zap.Stringer("phase", phase), zap.Int("hooks", len(queue)))
	start := time.Now()

	for i, component := range queue {
		hook := component.hook(phase)

		component.setState(phase, HookRunning)
		hookStart := time.Now()
		err := invokeHook(hook, component.instance)
		elapsed := time.Since(hookStart)
		c.observer.HookExecuted(phase, component, elapsed, err)

		if err != nil {
			component.setState(phase, HookFailed)
			c.logger.Error("Lifecycle hook failed",
				zap.Stringer("phase", phase),
				zap.Stringer("type", component.typ),
				zap.String("hook", hook.Name),
				zap.Error(err),
			)
			return phaseError(phase, component, err, queue, i)
		}

		component.setState(phase, HookDone)
		c.logger.Debug("Lifecycle hook done",
			zap.Stringer("phase", phase),
			zap.Stringer("type", component.typ),
			zap.String("hook", hook.Name),
			zap.Duration("elapsed", elapsed),
		)
	}

	c.logger.Info("Lifecycle phase finished",
		zap.Stringer("phase", phase),
		zap.Int("hooks", len(queue)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func phaseError(phase Phase, failed *Component, cause error, queue []*Component, at int) error {
	done := slices.Clone(queue[:at])
	remaining := slices.Clone(queue[at:])
	if phase == PhasePreDestroy {
		return &ShutdownError{Component: failed, Cause: cause, Destroyed: done, Undestroyed: remaining}
	}
	return &InitializeError{Component: failed, Cause: cause, Initialized: done, Uninitialized: remaining}
}

type visitMark int

const (
	unvisited visitMark = iota
	visiting
	visited
)

// hookQueue returns the local components that have a hook for phase, each
// one after the components its hook depends on.
//
// Dependencies on inherited components are skipped: their hooks belong to
// the parent. A dependency on a type nothing in the container satisfies is
// an UnresolvedDependencyError.
func (c *Container) hookQueue(phase Phase) ([]*Component, error) {
	marks := make(map[*Component]visitMark)
	var (
		stack []*Component
		queue []*Component
	)

	var visit func(component *Component) error
	visit = func(component *Component) error {
		switch marks[component] {
		case visited:
			return nil
		case visiting:
			return cycleError(phase, stack, component)
		}

		hook := component.hook(phase)
		if hook == nil {
			marks[component] = visited
			return nil
		}

		marks[component] = visiting
		stack = append(stack, component)

		for _, depType := range hook.DependsOn {
			dep, ok := c.lookup(depType)
			if !ok {
				return &UnresolvedDependencyError{Owner: component.typ, Slot: hook.Name, Required: depType}
			}
			if !dep.local {
				continue
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		marks[component] = visited
		queue = append(queue, component)
		return nil
	}

	for _, component := range c.local.Values() {
		if err := visit(component); err != nil {
			return nil, err
		}
	}

	slices.SortStableFunc(queue, func(a, b *Component) int {
		aFirst := dependsOn(b.hook(phase), a.typ)
		bFirst := dependsOn(a.hook(phase), b.typ)
		switch {
		case aFirst && !bFirst:
			return -1
		case bFirst && !aFirst:
			return 1
		default:
			return 0
		}
	})

	return queue, nil
}

func dependsOn(hook *Hook, typ reflect.Type) bool {
	return hook != nil && slices.Contains(hook.DependsOn, typ)
}

// cycleError reports the path from the first occurrence of repeated on the
// stack back to repeated.
func cycleError(phase Phase, stack []*Component, repeated *Component) error {
	start := slices.Index(stack, repeated)
	path := make([]string, 0, len(stack)-start+1)
	for _, component := range stack[start:] {
		path = append(path, component.typ.String())
	}
	path = append(path, repeated.typ.String())
	return &CircularDependencyError{Phase: phase, Path: path}
}

func invokeHook(hook *Hook, instance any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hook %s panicked: %v", hook.Name, r)
		}
	}()
	return hook.Invoke(instance)
}
