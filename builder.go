package nasc

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/toutaio/toutago-nasc-container/registry"
)

// Builder collects root types and collaborators and builds containers.
//
// A Builder may build several containers; each Build call produces an
// independent graph with fresh instances.
type Builder struct {
	roots        []reflect.Type
	parents      []*Container
	resolver     Resolver
	setter       SlotSetter
	assignable   AssignabilityChecker
	proxies      *ProxyRegistry
	generator    ProxyGenerator
	constructors map[reflect.Type]*constructorInfo
	markers      Markers
	logger       *zap.Logger
	observer     Observer
	modules      []Module
}

// NewBuilder creates a Builder with the default collaborators and applies
// options.
//
// Example:
//
//	b, err := nasc.NewBuilder(nasc.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	b.Register(nasc.TypeOf[*UserService]())
//	c, err := b.Build()
func NewBuilder(options ...Option) (*Builder, error) {
	b := &Builder{
		resolver:     NewTagResolver(),
		setter:       FieldSetter{},
		assignable:   ReflectAssignability,
		proxies:      NewProxyRegistry(),
		constructors: make(map[reflect.Type]*constructorInfo),
		markers:      DefaultMarkers(),
		logger:       zap.NewNop(),
		observer:     NopObserver{},
	}

	if err := b.Apply(options...); err != nil {
		return nil, err
	}
	return b, nil
}

// Apply applies options to an existing builder. Modules use it to contribute
// collaborators.
func (b *Builder) Apply(options ...Option) error {
	for _, opt := range options {
		if err := opt(b); err != nil {
			return fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return nil
}

// Register adds root types. Registering the same type twice is harmless.
func (b *Builder) Register(types ...reflect.Type) error {
	for i, typ := range types {
		if typ == nil {
			return &InvalidRegistrationError{Reason: fmt.Sprintf("root type %d is nil", i)}
		}
	}
	b.roots = append(b.roots, types...)
	return nil
}

// Build runs graph construction, instantiation, wiring and aspect weaving
// and returns a container that is built but not initialized.
func (b *Builder) Build() (*Container, error) {
	id := uuid.NewString()
	c := &Container{
		id:         id,
		parents:    append([]*Container(nil), b.parents...),
		local:      registry.New[*Component](),
		merged:     registry.New[*Component](),
		setter:     b.setter,
		assignable: b.assignable,
		logger:     b.logger.With(zap.String("container", id)),
		observer:   b.observer,
	}

	c.inheritParents()

	g := &graphBuilder{
		container: c,
		resolver:  b.resolver,
		markers:   b.markers,
		visited:   make(map[reflect.Type]bool),
	}
	for _, root := range b.roots {
		if err := g.visit(root); err != nil {
			return nil, err
		}
	}
	c.edges = g.edges

	if err := c.instantiate(b.constructors); err != nil {
		return nil, err
	}

	for _, component := range c.merged.Values() {
		c.observer.ComponentBuilt(component)
	}

	if err := c.wire(); err != nil {
		return nil, err
	}

	generator := b.generator
	if generator == nil {
		generator = b.proxies
	}
	if err := c.weave(generator); err != nil {
		return nil, err
	}

	c.logger.Info("Container built",
		zap.Int("components", c.merged.Len()),
		zap.Int("local", c.local.Len()),
		zap.Int("slots", len(c.edges)),
		zap.Int("parents", len(c.parents)),
	)

	return c, nil
}

// Build is the one-shot form of NewBuilder, Register and Builder.Build.
func Build(roots []reflect.Type, options ...Option) (*Container, error) {
	b, err := NewBuilder(options...)
	if err != nil {
		return nil, err
	}
	if err := b.Register(roots...); err != nil {
		return nil, err
	}
	return b.Build()
}
