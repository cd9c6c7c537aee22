package nasc

import (
	"fmt"
	"reflect"
	"strings"
)

// tagOptions represents parsed options from an inject tag.
type tagOptions struct {
	skip     bool // Don't inject this field
	optional bool // Leave the field untouched if nothing satisfies it
}

// parseInjectTag parses an inject struct tag and returns options.
// Supported formats:
//   - `inject:""` - basic injection
//   - `inject:"optional"` - optional injection
//   - `inject:"-"` - never injected
func parseInjectTag(tag string) tagOptions {
	opts := tagOptions{}

	if tag == "-" {
		opts.skip = true
		return opts
	}

	for _, part := range strings.Split(tag, ",") {
		if strings.TrimSpace(part) == "optional" {
			opts.optional = true
		}
	}

	return opts
}

var (
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	typeSliceType = reflect.TypeOf([]reflect.Type(nil))
)

// TagResolver is the default Resolver.
//
// Dependency slots are exported struct fields carrying one of the
// Markers.Inject tag keys. Fields of embedded structs are scanned too.
//
// Hooks are methods named by Markers.PostConstruct or Markers.PreDestroy
// with signature func() or func() error; the first name present wins. A
// hook declares dependencies with a companion method named after it with a
// DependsOn suffix:
//
//	func (s *Cache) PostConstruct() error { return s.warm() }
//	func (s *Cache) PostConstructDependsOn() []reflect.Type {
//	    return []reflect.Type{nasc.TypeOf[*Database]()}
//	}
//
// The companion method is called on a zero value of the type, so it must
// not depend on injected state.
type TagResolver struct {
	cache *reflectionCache
}

// NewTagResolver creates a TagResolver with an empty descriptor cache.
func NewTagResolver() *TagResolver {
	return &TagResolver{cache: newReflectionCache()}
}

// Resolve implements Resolver.
func (r *TagResolver) Resolve(typ reflect.Type, markers Markers) (Descriptor, error) {
	if typ == nil {
		return Descriptor{}, &ResolutionError{Context: "type cannot be nil"}
	}

	markers = markers.withDefaults()
	if r.cache == nil {
		return r.describe(typ, markers)
	}
	return r.cache.getOrCompute(typ, markers, func() (Descriptor, error) {
		return r.describe(typ, markers)
	})
}

func (r *TagResolver) describe(typ reflect.Type, markers Markers) (Descriptor, error) {
	var descriptor Descriptor

	slots, err := injectableFields(typ, markers.Inject)
	if err != nil {
		return Descriptor{}, &ResolutionError{Type: typ, Cause: err}
	}
	descriptor.Slots = slots

	descriptor.PostConstruct, err = findHook(typ, markers.PostConstruct)
	if err != nil {
		return Descriptor{}, &ResolutionError{Type: typ, Cause: err, Context: "post-construct hook"}
	}

	descriptor.PreDestroy, err = findHook(typ, markers.PreDestroy)
	if err != nil {
		return Descriptor{}, &ResolutionError{Type: typ, Cause: err, Context: "pre-destroy hook"}
	}

	return descriptor, nil
}

// injectableFields scans a struct, or a pointer to one, and returns a slot
// for every tagged field.
func injectableFields(typ reflect.Type, tagKeys []string) ([]Slot, error) {
	structType := typ
	if structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		return nil, nil
	}

	var slots []Slot
	if err := collectFields(structType, nil, tagKeys, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func collectFields(structType reflect.Type, prefix []int, tagKeys []string, slots *[]Slot) error {
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		index := append(append([]int(nil), prefix...), i)

		tag, tagged := lookupTag(field.Tag, tagKeys)
		if !tagged {
			if field.Anonymous && field.Type.Kind() == reflect.Struct {
				if err := collectFields(field.Type, index, tagKeys, slots); err != nil {
					return err
				}
			}
			continue
		}

		opts := parseInjectTag(tag)
		if opts.skip {
			continue
		}

		if !field.IsExported() {
			return fmt.Errorf("field %s is tagged for injection but not exported", field.Name)
		}

		*slots = append(*slots, Slot{
			Name:     field.Name,
			Type:     field.Type,
			Index:    index,
			Optional: opts.optional,
		})
	}
	return nil
}

func lookupTag(tag reflect.StructTag, keys []string) (string, bool) {
	for _, key := range keys {
		if value, ok := tag.Lookup(key); ok {
			return value, true
		}
	}
	return "", false
}

// findHook returns the first method in names that exists on typ.
func findHook(typ reflect.Type, names []string) (*Hook, error) {
	for _, name := range names {
		method, ok := typ.MethodByName(name)
		if !ok {
			continue
		}

		mt := method.Type
		if mt.NumIn() != 1 || mt.NumOut() > 1 || (mt.NumOut() == 1 && mt.Out(0) != errorType) {
			return nil, fmt.Errorf("method %s must have signature func() or func() error, got %v", name, mt)
		}

		deps, err := hookDependencies(typ, name+"DependsOn")
		if err != nil {
			return nil, err
		}

		return &Hook{
			Name:      name,
			DependsOn: deps,
			Invoke:    methodInvoker(name),
		}, nil
	}
	return nil, nil
}

func hookDependencies(typ reflect.Type, name string) (deps []reflect.Type, err error) {
	method, ok := typ.MethodByName(name)
	if !ok {
		return nil, nil
	}

	mt := method.Type
	if mt.NumIn() != 1 || mt.NumOut() != 1 || mt.Out(0) != typeSliceType {
		return nil, fmt.Errorf("method %s must have signature func() []reflect.Type, got %v", name, mt)
	}

	var receiver reflect.Value
	if typ.Kind() == reflect.Ptr {
		receiver = reflect.New(typ.Elem())
	} else {
		receiver = reflect.Zero(typ)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("method %s panicked: %v", name, r)
		}
	}()

	out := method.Func.Call([]reflect.Value{receiver})
	deps, _ = out[0].Interface().([]reflect.Type)
	for i, dep := range deps {
		if dep == nil {
			return nil, fmt.Errorf("method %s returned a nil type at position %d", name, i)
		}
	}
	return deps, nil
}

func methodInvoker(name string) func(instance any) error {
	return func(instance any) error {
		method := reflect.ValueOf(instance).MethodByName(name)
		if !method.IsValid() {
			return fmt.Errorf("method %s not found on %T", name, instance)
		}

		out := method.Call(nil)
		if len(out) == 1 && !out[0].IsNil() {
			return out[0].Interface().(error)
		}
		return nil
	}
}
