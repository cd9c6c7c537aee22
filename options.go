package nasc

import (
	"fmt"

	"go.uber.org/zap"
)

// Option is a function that configures a Builder.
type Option func(*Builder) error

// WithParents makes the built container inherit every component visible in
// the given containers. Parents are consulted in order.
func WithParents(parents ...*Container) Option {
	return func(b *Builder) error {
		for i, parent := range parents {
			if parent == nil {
				return &InvalidRegistrationError{Reason: fmt.Sprintf("parent container %d is nil", i)}
			}
		}
		b.parents = append(b.parents, parents...)
		return nil
	}
}

// WithResolver replaces the default TagResolver.
func WithResolver(resolver Resolver) Option {
	return func(b *Builder) error {
		if resolver == nil {
			return &InvalidRegistrationError{Reason: "resolver cannot be nil"}
		}
		b.resolver = resolver
		return nil
	}
}

// WithSlotSetter replaces the default FieldSetter.
func WithSlotSetter(setter SlotSetter) Option {
	return func(b *Builder) error {
		if setter == nil {
			return &InvalidRegistrationError{Reason: "slot setter cannot be nil"}
		}
		b.setter = setter
		return nil
	}
}

// WithAssignability replaces ReflectAssignability.
func WithAssignability(checker AssignabilityChecker) Option {
	return func(b *Builder) error {
		if checker == nil {
			return &InvalidRegistrationError{Reason: "assignability checker cannot be nil"}
		}
		b.assignable = checker
		return nil
	}
}

// WithProxyGenerator replaces the builder's ProxyRegistry. Factories added
// with WithProxy are ignored once a custom generator is set.
func WithProxyGenerator(generator ProxyGenerator) Option {
	return func(b *Builder) error {
		if generator == nil {
			return &InvalidRegistrationError{Reason: "proxy generator cannot be nil"}
		}
		b.generator = generator
		return nil
	}
}

// WithProxy registers the wrapper factory used when an aspect handler
// intercepts component type T.
func WithProxy[T any](factory func(target T, handler AspectHandler) any) Option {
	return func(b *Builder) error {
		if factory == nil {
			return &InvalidRegistrationError{Reason: fmt.Sprintf("proxy factory for %v cannot be nil", TypeOf[T]())}
		}
		RegisterProxy(b.proxies, factory)
		return nil
	}
}

// WithConstructor registers a zero-argument constructor for the type it
// returns. The type still has to be registered as a root or reached through
// a dependency slot.
func WithConstructor(constructor ConstructorFunc) Option {
	return func(b *Builder) error {
		info, err := parseConstructor(constructor)
		if err != nil {
			return &InvalidRegistrationError{Reason: fmt.Sprintf("invalid constructor: %v", err)}
		}
		if _, exists := b.constructors[info.returnType]; exists {
			return &InvalidRegistrationError{Reason: fmt.Sprintf("constructor for %v already registered", info.returnType)}
		}
		b.constructors[info.returnType] = info
		return nil
	}
}

// WithMarkers sets the marker sets handed to the resolver. Empty sets keep
// their defaults.
func WithMarkers(markers Markers) Option {
	return func(b *Builder) error {
		b.markers = markers.withDefaults()
		return nil
	}
}

// WithConfig validates cfg and applies its marker sets.
func WithConfig(cfg Config) Option {
	return func(b *Builder) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		b.markers = cfg.Markers()
		return nil
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			return &InvalidRegistrationError{Reason: "logger cannot be nil"}
		}
		b.logger = logger
		return nil
	}
}

// WithObserver sets the build and lifecycle observer.
func WithObserver(observer Observer) Option {
	return func(b *Builder) error {
		if observer == nil {
			return &InvalidRegistrationError{Reason: "observer cannot be nil"}
		}
		b.observer = observer
		return nil
	}
}
