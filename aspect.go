package nasc

import (
	"errors"
	"fmt"
	"reflect"
)

// Invocation describes one call made through an advised instance.
type Invocation struct {
	// Type is the component type the call targets.
	Type reflect.Type

	// Target is the raw instance the proxy delegates to.
	Target any

	// Method is the name of the called method.
	Method string

	// Args holds the call arguments.
	Args []any
}

// AspectHandler is implemented by components that can intercept other
// components of the same container.
//
// WantsToIntercept is asked once per candidate component during Build.
// Invoke is called by advised instances, never by the container: it
// receives the invocation and a proceed function that performs the original
// call and returns its results.
type AspectHandler interface {
	WantsToIntercept(typ reflect.Type) bool
	Invoke(inv Invocation, proceed func() []any) []any
}

// Intercept routes a call through handler. Proxy implementations use it so
// every method body has the same shape:
//
//	func (p *greeterProxy) Greet(name string) string {
//	    out := nasc.Intercept(p.handler, p.target, "Greet", []any{name}, func() []any {
//	        return []any{p.target.Greet(name)}
//	    })
//	    return out[0].(string)
//	}
func Intercept(handler AspectHandler, target any, method string, args []any, proceed func() []any) []any {
	return handler.Invoke(Invocation{
		Type:   reflect.TypeOf(target),
		Target: target,
		Method: method,
		Args:   args,
	}, proceed)
}

// ProxyGenerator manufactures the advised instance of a component.
//
// Go cannot subclass at runtime, so an advised instance is a wrapper that
// delegates to target. It must be assignable to every slot type the raw
// instance is expected to fill, which in practice means slots typed by
// interface.
type ProxyGenerator interface {
	MakeAdvised(typ reflect.Type, target any, handler AspectHandler) (any, error)
}

// ProxyGeneratorFunc adapts a function to the ProxyGenerator interface.
type ProxyGeneratorFunc func(typ reflect.Type, target any, handler AspectHandler) (any, error)

// MakeAdvised implements ProxyGenerator.
func (f ProxyGeneratorFunc) MakeAdvised(typ reflect.Type, target any, handler AspectHandler) (any, error) {
	return f(typ, target, handler)
}

// ErrNoProxy is returned by ProxyRegistry when no factory is registered for
// the requested type.
var ErrNoProxy = errors.New("no proxy factory registered")

// ProxyRegistry is the default ProxyGenerator. It holds one wrapper factory
// per component type.
type ProxyRegistry struct {
	factories map[reflect.Type]func(target any, handler AspectHandler) (any, error)
}

// NewProxyRegistry creates an empty ProxyRegistry.
func NewProxyRegistry() *ProxyRegistry {
	return &ProxyRegistry{
		factories: make(map[reflect.Type]func(target any, handler AspectHandler) (any, error)),
	}
}

// RegisterProxy registers the wrapper factory for component type T.
// A later registration for the same type replaces the earlier one.
func RegisterProxy[T any](r *ProxyRegistry, factory func(target T, handler AspectHandler) any) {
	r.factories[TypeOf[T]()] = func(target any, handler AspectHandler) (any, error) {
		typed, ok := target.(T)
		if !ok {
			return nil, fmt.Errorf("proxy target is %T, want %v", target, TypeOf[T]())
		}
		return factory(typed, handler), nil
	}
}

// Has reports whether a factory is registered for typ.
func (r *ProxyRegistry) Has(typ reflect.Type) bool {
	_, ok := r.factories[typ]
	return ok
}

// MakeAdvised implements ProxyGenerator.
func (r *ProxyRegistry) MakeAdvised(typ reflect.Type, target any, handler AspectHandler) (any, error) {
	factory, ok := r.factories[typ]
	if !ok {
		return nil, fmt.Errorf("%w for %v", ErrNoProxy, typ)
	}

	advised, err := factory(target, handler)
	if err != nil {
		return nil, err
	}
	if advised == nil {
		return nil, fmt.Errorf("proxy factory for %v returned nil", typ)
	}
	return advised, nil
}

// TypeOf returns the reflect.Type for a given type T. Interface types are
// returned as the interface itself, not a pointer to it.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
