// Package nasc provides a lightweight dependency injection container for Go.
//
// Nasc (Old Irish: "Link" or "Bond") builds a graph of singleton components
// from a set of root types, wires their dependency slots, lets aspect
// handlers replace components with advised wrappers, and runs lifecycle
// hooks in dependency order.
//
// # Features
//
//   - One instance per type per container lineage
//   - Field injection through struct tags
//   - Parent containers whose components are shared, never re-created
//   - Aspect handlers with first-match-wins interception
//   - Post-construct and pre-destroy hooks ordered by declared dependencies
//   - Cycle detection that reports the full path
//   - Pluggable resolver, slot setter, assignability and proxy strategies
//
// # Quick Start
//
// Tag the fields a component needs and build a container from its type:
//
//	type UserService struct {
//	    Repo   UserRepository `inject:""`
//	    Cache  *Cache         `inject:"optional"`
//	}
//
//	c, err := nasc.Build([]reflect.Type{
//	    nasc.TypeOf[*UserService](),
//	    nasc.TypeOf[*PostgresRepository](),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := c.Initialize(); err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Shutdown()
//
//	svc := nasc.MustGet[*UserService](c)
//
// Interface-typed slots are filled by the first registered component whose
// type implements the interface.
//
// # Lifecycle Hooks
//
// A method named PostConstruct or PreDestroy with signature func() or
// func() error is a hook. A companion method declares hook dependencies:
//
//	func (s *UserService) PostConstruct() error { return s.Repo.Ping() }
//
//	func (s *UserService) PostConstructDependsOn() []reflect.Type {
//	    return []reflect.Type{nasc.TypeOf[*PostgresRepository]()}
//	}
//
// The companion method is called on a zero value and must not touch fields.
//
// # Parent Containers
//
//	child, err := nasc.Build(roots, nasc.WithParents(shared))
//
// A child reuses every component its parents already hold. Shutdown of a
// child never reaches components it inherited.
//
// # Aspects
//
// A component implementing AspectHandler is asked, for every other local
// component, whether it wants to intercept it. The advised instance comes
// from a ProxyGenerator; the default one uses factories registered with
// WithProxy:
//
//	nasc.WithProxy(func(target *Greeter, h nasc.AspectHandler) any {
//	    return &greeterProxy{target: target, handler: h}
//	})
//
// # Error Handling
//
// Errors are typed. Use errors.Is with ErrConfiguration,
// ErrCircularDependency or ErrLifecycle, and errors.As for details:
//
//	var initErr *nasc.InitializeError
//	if errors.As(err, &initErr) {
//	    log.Printf("%d hooks ran before %v failed", len(initErr.Initialized), initErr.Component)
//	}
//
// # Thread Safety
//
// Build, Initialize and Shutdown are not safe for concurrent use. Once Build
// returns, lookups may run from any number of goroutines.
package nasc
