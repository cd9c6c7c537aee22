package nasc

import (
	"fmt"
	"reflect"
	"slices"

	"go.uber.org/zap"

	"github.com/toutaio/toutago-nasc-container/registry"
)

// Container holds the components built from a set of root types plus every
// component inherited from its parents.
//
// A container is safe to read from several goroutines once Build returns.
// Initialize and Shutdown must not run concurrently with each other.
type Container struct {
	id      string
	parents []*Container

	// local holds components this container created.
	local *registry.Registry[*Component]

	// merged holds inherited views in parent order followed by local
	// components.
	merged *registry.Registry[*Component]

	edges      []*edge
	setter     SlotSetter
	assignable AssignabilityChecker
	logger     *zap.Logger
	observer   Observer
}

// ID returns the random identifier assigned when the container was built.
func (c *Container) ID() string { return c.id }

// Parents returns the parent containers in lookup order.
func (c *Container) Parents() []*Container { return slices.Clone(c.parents) }

// Component returns the component for typ. An exact type match wins;
// otherwise the first component in merged order that is assignable to typ is
// returned.
func (c *Container) Component(typ reflect.Type) (*Component, bool) {
	if typ == nil {
		return nil, false
	}
	return c.lookup(typ)
}

// LocalComponents returns the components created by this container in
// registration order.
func (c *Container) LocalComponents() []*Component { return c.local.Values() }

// Components returns every visible component: inherited ones in parent order
// first, then local ones.
func (c *Container) Components() []*Component { return c.merged.Values() }

// inheritParents registers a view of every component visible in each parent.
// The first parent to provide a type wins.
func (c *Container) inheritParents() {
	for _, parent := range c.parents {
		for _, component := range parent.merged.Values() {
			if c.merged.Has(component.typ) {
				continue
			}
			// Cannot fail: the type is non-nil and not yet present.
			_ = c.merged.Register(component.typ, component.inherit())
		}
	}
}

func (c *Container) lookup(typ reflect.Type) (*Component, bool) {
	if component, ok := c.merged.Get(typ); ok {
		return component, true
	}

	component, matches, ok := c.merged.Find(func(candidate reflect.Type) bool {
		return c.assignable.IsAssignable(typ, candidate)
	})
	if len(matches) > 1 {
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.String()
		}
		c.logger.Warn("Ambiguous lookup, using first match",
			zap.Stringer("required", typ),
			zap.Strings("candidates", names),
		)
	}
	return component, ok
}

// Get returns the effective instance of the component for T.
//
// Example:
//
//	svc, err := nasc.Get[*UserService](c)
//	repo, err := nasc.Get[UserRepository](c)
func Get[T any](c *Container) (T, error) {
	var zero T
	typ := TypeOf[T]()

	component, ok := c.Component(typ)
	if !ok {
		return zero, &ComponentNotFoundError{Type: typ}
	}

	if v, ok := component.Effective().(T); ok {
		return v, nil
	}
	if v, ok := component.Instance().(T); ok {
		return v, nil
	}
	return zero, fmt.Errorf("component %v cannot be used as %v", component.Type(), typ)
}

// MustGet is like Get but panics on error.
func MustGet[T any](c *Container) T {
	v, err := Get[T](c)
	if err != nil {
		panic(fmt.Sprintf("nasc: %v", err))
	}
	return v
}
