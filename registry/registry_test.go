package registry

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testInterface interface {
	DoSomething()
}

type testImplementation struct{}

func (t *testImplementation) DoSomething() {}

type otherImplementation struct{}

func (o *otherImplementation) DoSomething() {}

type unrelated struct{}

var (
	ifaceType     = reflect.TypeOf((*testInterface)(nil)).Elem()
	implType      = reflect.TypeOf(&testImplementation{})
	otherType     = reflect.TypeOf(&otherImplementation{})
	unrelatedType = reflect.TypeOf(&unrelated{})
)

func TestNew(t *testing.T) {
	reg := New[string]()
	require.NotNil(t, reg)
	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, reg.Types())
}

func TestRegister_Success(t *testing.T) {
	reg := New[string]()

	require.NoError(t, reg.Register(implType, "impl"))

	assert.True(t, reg.Has(implType))
	value, ok := reg.Get(implType)
	assert.True(t, ok)
	assert.Equal(t, "impl", value)
}

func TestRegister_Duplicate(t *testing.T) {
	reg := New[string]()
	require.NoError(t, reg.Register(implType, "first"))

	err := reg.Register(implType, "second")

	var dup *AlreadyRegisteredError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, implType, dup.Type)

	value, _ := reg.Get(implType)
	assert.Equal(t, "first", value, "duplicate registration must not replace the original")
}

func TestRegister_NilType(t *testing.T) {
	reg := New[int]()
	assert.Error(t, reg.Register(nil, 1))
}

func TestGet_Missing(t *testing.T) {
	reg := New[int]()
	value, ok := reg.Get(implType)
	assert.False(t, ok)
	assert.Zero(t, value)
	assert.False(t, reg.Has(implType))
}

func TestOrderIsPreserved(t *testing.T) {
	reg := New[string]()
	require.NoError(t, reg.Register(unrelatedType, "c"))
	require.NoError(t, reg.Register(implType, "a"))
	require.NoError(t, reg.Register(otherType, "b"))

	assert.Equal(t, []reflect.Type{unrelatedType, implType, otherType}, reg.Types())
	assert.Equal(t, []string{"c", "a", "b"}, reg.Values())
	assert.Equal(t, 3, reg.Len())
}

func TestTypes_ReturnsCopy(t *testing.T) {
	reg := New[string]()
	require.NoError(t, reg.Register(implType, "a"))

	types := reg.Types()
	types[0] = otherType

	assert.Equal(t, []reflect.Type{implType}, reg.Types())
}

func TestFind_FirstMatchInOrder(t *testing.T) {
	reg := New[string]()
	require.NoError(t, reg.Register(unrelatedType, "unrelated"))
	require.NoError(t, reg.Register(otherType, "other"))
	require.NoError(t, reg.Register(implType, "impl"))

	value, matches, ok := reg.Find(func(typ reflect.Type) bool {
		return typ.Implements(ifaceType)
	})

	require.True(t, ok)
	assert.Equal(t, "other", value)
	assert.Equal(t, []reflect.Type{otherType, implType}, matches)
}

func TestFind_NoMatch(t *testing.T) {
	reg := New[string]()
	require.NoError(t, reg.Register(unrelatedType, "unrelated"))

	value, matches, ok := reg.Find(func(typ reflect.Type) bool {
		return typ.Implements(ifaceType)
	})

	assert.False(t, ok)
	assert.Empty(t, value)
	assert.Empty(t, matches)
}
