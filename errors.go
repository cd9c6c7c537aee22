package nasc

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrConfiguration matches every build-time configuration error:
	// unresolved dependencies, failed instantiation, resolver failures,
	// slot assignment failures, proxy generation failures and invalid
	// builder input.
	ErrConfiguration = errors.New("container configuration error")

	// ErrCircularDependency matches lifecycle hook dependency cycles.
	ErrCircularDependency = errors.New("circular dependency detected")

	// ErrLifecycle matches a lifecycle hook that failed while a
	// post-construct or pre-destroy sequence was running.
	ErrLifecycle = errors.New("lifecycle hook failed")
)

// UnresolvedDependencyError is returned when no component satisfies a
// dependency slot or a declared hook dependency.
type UnresolvedDependencyError struct {
	Owner    reflect.Type
	Slot     string
	Required reflect.Type
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("unresolved dependency %v for %v.%s. Did you forget to register a concrete type for it?",
		e.Required, e.Owner, e.Slot)
}

func (e *UnresolvedDependencyError) Is(target error) bool { return target == ErrConfiguration }

// InstantiationError is returned when a component instance cannot be created.
type InstantiationError struct {
	Type  reflect.Type
	Cause error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("failed to instantiate %v: %v", e.Type, e.Cause)
}

func (e *InstantiationError) Unwrap() error { return e.Cause }

func (e *InstantiationError) Is(target error) bool { return target == ErrConfiguration }

// ResolutionError is returned when the descriptor resolver fails for a type.
type ResolutionError struct {
	Type    reflect.Type
	Cause   error
	Context string
}

func (e *ResolutionError) Error() string {
	typeStr := "unknown"
	if e.Type != nil {
		typeStr = e.Type.String()
	}

	contextStr := ""
	if e.Context != "" {
		contextStr = fmt.Sprintf(": %s", e.Context)
	}

	causeStr := ""
	if e.Cause != nil {
		causeStr = fmt.Sprintf(": %v", e.Cause)
	}

	return fmt.Sprintf("failed to resolve descriptor for %s%s%s", typeStr, contextStr, causeStr)
}

func (e *ResolutionError) Unwrap() error { return e.Cause }

func (e *ResolutionError) Is(target error) bool { return target == ErrConfiguration }

// InjectionError is returned when the slot setter rejects a value.
type InjectionError struct {
	Owner reflect.Type
	Slot  string
	Cause error
}

func (e *InjectionError) Error() string {
	return fmt.Sprintf("failed to inject %v.%s: %v", e.Owner, e.Slot, e.Cause)
}

func (e *InjectionError) Unwrap() error { return e.Cause }

func (e *InjectionError) Is(target error) bool { return target == ErrConfiguration }

// ProxyError is returned when an advised instance cannot be generated.
type ProxyError struct {
	Type    reflect.Type
	Handler reflect.Type
	Cause   error
}

func (e *ProxyError) Error() string {
	return fmt.Sprintf("failed to generate advised instance of %v for handler %v: %v", e.Type, e.Handler, e.Cause)
}

func (e *ProxyError) Unwrap() error { return e.Cause }

func (e *ProxyError) Is(target error) bool { return target == ErrConfiguration }

// InvalidRegistrationError is returned for invalid builder input.
type InvalidRegistrationError struct {
	Reason string
}

func (e *InvalidRegistrationError) Error() string {
	return fmt.Sprintf("invalid registration: %s", e.Reason)
}

func (e *InvalidRegistrationError) Is(target error) bool { return target == ErrConfiguration }

// ValidationError indicates a problem found while validating configuration.
type ValidationError struct {
	Errors []error
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation failed: %v", e.Errors[0])
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("validation failed with %d errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		b.WriteString(fmt.Sprintf("  %d. %v\n", i+1, err))
	}
	return b.String()
}

func (e *ValidationError) Unwrap() []error { return e.Errors }

func (e *ValidationError) Is(target error) bool { return target == ErrConfiguration }

// CircularDependencyError indicates a cycle among lifecycle hook dependencies.
// Path starts and ends with the same type.
type CircularDependencyError struct {
	Phase Phase
	Path  []string
}

func (e *CircularDependencyError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("cycle detected in %s dependencies", e.Phase)
	}
	return fmt.Sprintf("cycle detected in %s dependencies: %s", e.Phase, strings.Join(e.Path, " -> "))
}

func (e *CircularDependencyError) Is(target error) bool { return target == ErrCircularDependency }

// InitializeError is returned when a post-construct hook fails.
// Initialized lists the components whose hooks completed, in execution
// order. Uninitialized starts with the failed component and continues with
// every component that was not attempted.
type InitializeError struct {
	Component     *Component
	Cause         error
	Initialized   []*Component
	Uninitialized []*Component
}

func (e *InitializeError) Error() string {
	return fmt.Sprintf("post-construct of %v failed (%d initialized, %d uninitialized): %v",
		e.Component.Type(), len(e.Initialized), len(e.Uninitialized), e.Cause)
}

func (e *InitializeError) Unwrap() error { return e.Cause }

func (e *InitializeError) Is(target error) bool { return target == ErrLifecycle }

// ShutdownError is returned when a pre-destroy hook fails. Destroyed and
// Undestroyed partition the pre-destroy queue like InitializeError does.
type ShutdownError struct {
	Component   *Component
	Cause       error
	Destroyed   []*Component
	Undestroyed []*Component
}

func (e *ShutdownError) Error() string {
	return fmt.Sprintf("pre-destroy of %v failed (%d destroyed, %d undestroyed): %v",
		e.Component.Type(), len(e.Destroyed), len(e.Undestroyed), e.Cause)
}

func (e *ShutdownError) Unwrap() error { return e.Cause }

func (e *ShutdownError) Is(target error) bool { return target == ErrLifecycle }

// ComponentNotFoundError is returned by Get when no component of the
// requested type is visible in a container.
type ComponentNotFoundError struct {
	Type reflect.Type
}

func (e *ComponentNotFoundError) Error() string {
	return fmt.Sprintf("no component found for %v", e.Type)
}
