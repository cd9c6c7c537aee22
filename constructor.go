package nasc

import (
	"fmt"
	"reflect"
)

// ConstructorFunc represents a zero-argument constructor.
// Supported signatures:
//   - func() T
//   - func() (T, error)
type ConstructorFunc interface{}

// constructorInfo holds metadata about a constructor function.
type constructorInfo struct {
	fn           reflect.Value
	returnsError bool
	returnType   reflect.Type
}

// parseConstructor analyzes a constructor function and extracts metadata.
func parseConstructor(constructor ConstructorFunc) (*constructorInfo, error) {
	if constructor == nil {
		return nil, fmt.Errorf("constructor cannot be nil")
	}

	fnValue := reflect.ValueOf(constructor)
	fnType := fnValue.Type()

	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("constructor must be a function, got %v", fnType.Kind())
	}

	if fnType.NumIn() != 0 {
		return nil, fmt.Errorf("constructor must take no arguments, got %d", fnType.NumIn())
	}

	// Validate return values
	numOut := fnType.NumOut()
	if numOut == 0 || numOut > 2 {
		return nil, fmt.Errorf("constructor must return (T) or (T, error), got %d return values", numOut)
	}

	returnType := fnType.Out(0)
	if returnType.Kind() == reflect.Interface {
		return nil, fmt.Errorf("constructor must return a concrete type, got interface %v", returnType)
	}

	// Check if second return is error
	returnsError := false
	if numOut == 2 {
		if !fnType.Out(1).Implements(errorType) {
			return nil, fmt.Errorf("constructor's second return value must be error, got %v", fnType.Out(1))
		}
		returnsError = true
	}

	return &constructorInfo{
		fn:           fnValue,
		returnsError: returnsError,
		returnType:   returnType,
	}, nil
}

// invoke calls the constructor and converts a panic, an error result, or a
// nil result into an error.
func (info *constructorInfo) invoke() (instance any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("constructor panicked: %v", r)
		}
	}()

	results := info.fn.Call(nil)

	if info.returnsError {
		if errValue := results[1]; !errValue.IsNil() {
			return nil, fmt.Errorf("constructor returned error: %w", errValue.Interface().(error))
		}
	}

	if isNilValue(results[0]) {
		return nil, fmt.Errorf("constructor returned nil %v", info.returnType)
	}

	return results[0].Interface(), nil
}

// instantiate creates the single instance of typ, preferring a registered
// constructor over reflective allocation.
func instantiate(typ reflect.Type, constructors map[reflect.Type]*constructorInfo) (any, error) {
	if info, ok := constructors[typ]; ok {
		instance, err := info.invoke()
		if err != nil {
			return nil, &InstantiationError{Type: typ, Cause: err}
		}
		return instance, nil
	}

	if typ.Kind() == reflect.Ptr && typ.Elem().Kind() == reflect.Struct {
		return reflect.New(typ.Elem()).Interface(), nil
	}

	return nil, &InstantiationError{
		Type:  typ,
		Cause: fmt.Errorf("no zero-argument construction for %v values; register a constructor", typ.Kind()),
	}
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
