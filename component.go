package nasc

import (
	"reflect"
	"slices"
)

// Slot is a point on a component instance that receives another component.
// The default resolver produces one Slot per tagged struct field.
type Slot struct {
	// Name identifies the slot in errors and logs, usually the field name.
	Name string

	// Type is the type a component must have, or be assignable to, to fill
	// the slot.
	Type reflect.Type

	// Index is the field index path used by FieldSetter.
	Index []int

	// Optional slots are left untouched when nothing satisfies them.
	Optional bool
}

// Hook is a lifecycle callable bound to a component type.
type Hook struct {
	// Name is the method name, for diagnostics.
	Name string

	// DependsOn lists the component types whose hook of the same phase must
	// run first.
	DependsOn []reflect.Type

	// Invoke calls the hook on an instance of the component type.
	Invoke func(instance any) error
}

// Descriptor is what a Resolver reports about a component type.
type Descriptor struct {
	Slots         []Slot
	PostConstruct *Hook
	PreDestroy    *Hook
}

// Markers names the metadata a Resolver looks for. Empty sets fall back to
// DefaultMarkers.
type Markers struct {
	// Inject lists struct tag keys that mark a dependency slot.
	Inject []string

	// PostConstruct lists method names recognized as post-construct hooks.
	PostConstruct []string

	// PreDestroy lists method names recognized as pre-destroy hooks.
	PreDestroy []string
}

// DefaultMarkers returns the marker sets used when none are configured.
func DefaultMarkers() Markers {
	return Markers{
		Inject:        []string{"inject"},
		PostConstruct: []string{"PostConstruct"},
		PreDestroy:    []string{"PreDestroy"},
	}
}

// withDefaults fills every empty set from DefaultMarkers.
func (m Markers) withDefaults() Markers {
	defaults := DefaultMarkers()
	if len(m.Inject) == 0 {
		m.Inject = defaults.Inject
	}
	if len(m.PostConstruct) == 0 {
		m.PostConstruct = defaults.PostConstruct
	}
	if len(m.PreDestroy) == 0 {
		m.PreDestroy = defaults.PreDestroy
	}
	return m
}

// Component is one resolved type inside a container together with its
// singleton instance.
//
// A child container holds an inherited view of each parent component it
// uses; the view shares the instance and the lifecycle state of the parent's
// component. After Build returns, only lifecycle state changes.
type Component struct {
	typ        reflect.Type
	instance   any
	advised    any
	local      bool
	handler    bool
	descriptor Descriptor

	postConstruct HookState
	preDestroy    HookState

	// origin is the parent's component when this one is an inherited view.
	origin *Component
}

func newComponent(typ reflect.Type, descriptor Descriptor) *Component {
	return &Component{
		typ:        typ,
		local:      true,
		descriptor: descriptor,
	}
}

// Type returns the component type.
func (c *Component) Type() reflect.Type { return c.typ }

// Instance returns the raw singleton instance. It stays the component's
// identity even when an advised instance exists.
func (c *Component) Instance() any { return c.instance }

// AdvisedInstance returns the instance produced by an aspect handler, or nil.
func (c *Component) AdvisedInstance() any { return c.advised }

// Effective returns the advised instance when present, otherwise the raw one.
// This is the value placed into dependency slots.
func (c *Component) Effective() any {
	if c.advised != nil {
		return c.advised
	}
	return c.instance
}

// IsLocal reports whether the component was created by the container it was
// looked up in, rather than inherited from a parent.
func (c *Component) IsLocal() bool { return c.local }

// IsAspectHandler reports whether the instance acts as an aspect handler.
func (c *Component) IsAspectHandler() bool { return c.handler }

// Slots returns the dependency slots declared by the component's type.
func (c *Component) Slots() []Slot { return slices.Clone(c.descriptor.Slots) }

// PostConstructHook returns the post-construct hook, or nil.
func (c *Component) PostConstructHook() *Hook { return c.descriptor.PostConstruct }

// PreDestroyHook returns the pre-destroy hook, or nil.
func (c *Component) PreDestroyHook() *Hook { return c.descriptor.PreDestroy }

// State returns the state of the hook for the given phase. Components
// without a hook for the phase stay HookPending. Inherited components report
// the state held by the parent that owns them.
func (c *Component) State(phase Phase) HookState {
	owner := c.owner()
	if phase == PhasePreDestroy {
		return owner.preDestroy
	}
	return owner.postConstruct
}

// IsInitialized reports whether the post-construct hook completed.
func (c *Component) IsInitialized() bool { return c.State(PhasePostConstruct) == HookDone }

// IsDestroyed reports whether the pre-destroy hook completed.
func (c *Component) IsDestroyed() bool { return c.State(PhasePreDestroy) == HookDone }

// owner returns the component that holds lifecycle state.
func (c *Component) owner() *Component {
	for c.origin != nil {
		c = c.origin
	}
	return c
}

// inherit returns the view of c registered in a child container: same
// instance, same advised instance, marked non-local.
func (c *Component) inherit() *Component {
	owner := c.owner()
	return &Component{
		typ:        owner.typ,
		instance:   owner.instance,
		advised:    owner.advised,
		local:      false,
		handler:    owner.handler,
		descriptor: owner.descriptor,
		origin:     owner,
	}
}

func (c *Component) hook(phase Phase) *Hook {
	if phase == PhasePreDestroy {
		return c.descriptor.PreDestroy
	}
	return c.descriptor.PostConstruct
}

func (c *Component) setState(phase Phase, state HookState) {
	owner := c.owner()
	if phase == PhasePreDestroy {
		owner.preDestroy = state
		return
	}
	owner.postConstruct = state
}

func (c *Component) String() string {
	if c == nil {
		return "<nil>"
	}
	return c.typ.String()
}
