package nasc

import (
	"fmt"
	"reflect"
)

// Resolver inspects a component type and reports its dependency slots and
// lifecycle hooks.
type Resolver interface {
	Resolve(typ reflect.Type, markers Markers) (Descriptor, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(typ reflect.Type, markers Markers) (Descriptor, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(typ reflect.Type, markers Markers) (Descriptor, error) {
	return f(typ, markers)
}

// SlotSetter places value into slot on owner.
type SlotSetter interface {
	Assign(slot Slot, owner any, value any) error
}

// SlotSetterFunc adapts a function to the SlotSetter interface.
type SlotSetterFunc func(slot Slot, owner any, value any) error

// Assign implements SlotSetter.
func (f SlotSetterFunc) Assign(slot Slot, owner any, value any) error {
	return f(slot, owner, value)
}

// AssignabilityChecker decides whether a component of type candidate may
// fill a slot that requires type required.
type AssignabilityChecker interface {
	IsAssignable(required, candidate reflect.Type) bool
}

// AssignabilityFunc adapts a function to the AssignabilityChecker interface.
type AssignabilityFunc func(required, candidate reflect.Type) bool

// IsAssignable implements AssignabilityChecker.
func (f AssignabilityFunc) IsAssignable(required, candidate reflect.Type) bool {
	return f(required, candidate)
}

// ReflectAssignability is the default AssignabilityChecker. It follows Go's
// assignability rules, so a concrete type satisfies any interface it
// implements.
var ReflectAssignability AssignabilityChecker = AssignabilityFunc(func(required, candidate reflect.Type) bool {
	return candidate.AssignableTo(required)
})

// FieldSetter is the default SlotSetter. It follows Slot.Index into the
// struct owner points to and sets the field. The field must be exported.
type FieldSetter struct{}

// Assign implements SlotSetter.
func (FieldSetter) Assign(slot Slot, owner any, value any) error {
	if owner == nil {
		return fmt.Errorf("cannot assign slot %s on nil owner", slot.Name)
	}

	ownerValue := reflect.ValueOf(owner)
	if ownerValue.Kind() != reflect.Ptr || ownerValue.IsNil() || ownerValue.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("owner must be a non-nil pointer to struct, got %T", owner)
	}
	if len(slot.Index) == 0 {
		return fmt.Errorf("slot %s has no field index", slot.Name)
	}

	field, err := ownerValue.Elem().FieldByIndexErr(slot.Index)
	if err != nil {
		return fmt.Errorf("slot %s: %w", slot.Name, err)
	}
	if !field.CanSet() {
		return fmt.Errorf("field %s is not settable (not exported?)", slot.Name)
	}

	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	resolved := reflect.ValueOf(value)
	if !resolved.Type().AssignableTo(field.Type()) {
		return fmt.Errorf("value of type %v is not assignable to field %s of type %v",
			resolved.Type(), slot.Name, field.Type())
	}

	field.Set(resolved)
	return nil
}
