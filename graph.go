package nasc

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// edge is one dependency slot of a local component. target is set by wiring
// and stays nil for an unresolved optional slot.
type edge struct {
	owner  *Component
	slot   Slot
	target *Component
}

// graphBuilder walks root types and their slot types depth-first.
type graphBuilder struct {
	container *Container
	resolver  Resolver
	markers   Markers
	visited   map[reflect.Type]bool
	edges     []*edge
}

// visit adds typ, and everything it transitively needs, to the container.
// Types visible through a parent are reused. Interface types are abstract
// and never become components.
func (g *graphBuilder) visit(typ reflect.Type) error {
	if g.visited[typ] {
		return nil
	}
	g.visited[typ] = true

	c := g.container
	if existing, ok := c.merged.Get(typ); ok && !existing.local {
		c.logger.Debug("Reusing inherited component", zap.Stringer("type", typ))
		return nil
	}

	if typ.Kind() == reflect.Interface {
		return nil
	}

	descriptor, err := g.resolver.Resolve(typ, g.markers)
	if err != nil {
		var resErr *ResolutionError
		if errors.As(err, &resErr) {
			return err
		}
		return &ResolutionError{Type: typ, Cause: err}
	}

	component := newComponent(typ, descriptor)
	if err := c.local.Register(typ, component); err != nil {
		return &InvalidRegistrationError{Reason: err.Error()}
	}
	if err := c.merged.Register(typ, component); err != nil {
		return &InvalidRegistrationError{Reason: err.Error()}
	}
	c.logger.Debug("Component registered",
		zap.Stringer("type", typ),
		zap.Int("slots", len(descriptor.Slots)),
	)

	for _, slot := range descriptor.Slots {
		if slot.Type == nil {
			return &ResolutionError{
				Type:    typ,
				Cause:   fmt.Errorf("slot %s has no type", slot.Name),
				Context: "resolver returned an incomplete descriptor",
			}
		}
		if slot.Type != typ {
			if err := g.visit(slot.Type); err != nil {
				return err
			}
		}
		g.edges = append(g.edges, &edge{owner: component, slot: slot})
	}
	return nil
}

// instantiate creates one instance per local component in registration
// order.
func (c *Container) instantiate(constructors map[reflect.Type]*constructorInfo) error {
	for _, component := range c.local.Values() {
		instance, err := instantiate(component.typ, constructors)
		if err != nil {
			return err
		}
		component.instance = instance
	}
	return nil
}
