package nasc

import (
	"fmt"
	"reflect"
)

// Module groups related registrations so they can be reused across
// builders.
//
// Example:
//
//	type StorageModule struct{}
//
//	func (StorageModule) Configure(b *nasc.Builder) error {
//	    if err := b.Register(nasc.TypeOf[*PostgresStore]()); err != nil {
//	        return err
//	    }
//	    return b.Apply(nasc.WithConstructor(NewPostgresStore))
//	}
//
//	b.Install(StorageModule{})
type Module interface {
	Configure(b *Builder) error
}

// ModuleFunc adapts a function to the Module interface. Unlike named module
// types, function modules are never de-duplicated.
type ModuleFunc func(b *Builder) error

// Configure implements Module.
func (f ModuleFunc) Configure(b *Builder) error {
	return f(b)
}

var moduleFuncType = reflect.TypeOf(ModuleFunc(nil))

// Install configures the builder with each module in order. A module whose
// type was already installed is skipped.
func (b *Builder) Install(modules ...Module) error {
	for _, module := range modules {
		if module == nil {
			return &InvalidRegistrationError{Reason: "module cannot be nil"}
		}

		moduleType := reflect.TypeOf(module)
		if moduleType != moduleFuncType && b.installed(moduleType) {
			continue
		}

		if err := module.Configure(b); err != nil {
			return fmt.Errorf("module %v configuration failed: %w", moduleType, err)
		}
		b.modules = append(b.modules, module)
	}
	return nil
}

// Modules returns the installed modules in installation order.
func (b *Builder) Modules() []Module {
	modules := make([]Module, len(b.modules))
	copy(modules, b.modules)
	return modules
}

func (b *Builder) installed(moduleType reflect.Type) bool {
	for _, existing := range b.modules {
		if reflect.TypeOf(existing) == moduleType {
			return true
		}
	}
	return false
}
