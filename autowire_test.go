package nasc

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type embeddedDeps struct {
	Clock Clock `inject:""`
}

type taggedService struct {
	embeddedDeps
	Repo    *repository `inject:""`
	Audit   Auditor     `inject:"optional"`
	Ignored *repository `inject:"-"`
	Plain   *repository
}

type unexportedTagged struct {
	repo *repository `inject:""`
}

type hooked struct{}

func (h *hooked) PostConstruct() error { return nil }
func (h *hooked) Close()               {}

func (h *hooked) PostConstructDependsOn() []reflect.Type {
	return []reflect.Type{TypeOf[*repository]()}
}

type badHookSignature struct{}

func (b *badHookSignature) PostConstruct(int) {}

type badDependsOn struct{}

func (b *badDependsOn) PostConstruct() {}

func (b *badDependsOn) PostConstructDependsOn() []string { return nil }

type panickyDependsOn struct {
	deps []reflect.Type
}

func (p *panickyDependsOn) PreDestroy() {}

func (p *panickyDependsOn) PreDestroyDependsOn() []reflect.Type { return p.deps[:1] }

func TestTagResolver_Slots(t *testing.T) {
	r := NewTagResolver()

	d, err := r.Resolve(TypeOf[*taggedService](), Markers{})
	require.NoError(t, err)

	require.Len(t, d.Slots, 3)
	assert.Equal(t, Slot{Name: "Clock", Type: TypeOf[Clock](), Index: []int{0, 0}}, d.Slots[0])
	assert.Equal(t, Slot{Name: "Repo", Type: TypeOf[*repository](), Index: []int{1}}, d.Slots[1])
	assert.Equal(t, Slot{Name: "Audit", Type: TypeOf[Auditor](), Index: []int{2}, Optional: true}, d.Slots[2])
	assert.Nil(t, d.PostConstruct)
	assert.Nil(t, d.PreDestroy)
}

func TestTagResolver_NonStruct(t *testing.T) {
	d, err := NewTagResolver().Resolve(TypeOf[*int](), Markers{})
	require.NoError(t, err)
	assert.Empty(t, d.Slots)
}

func TestTagResolver_UnexportedTaggedField(t *testing.T) {
	_, err := NewTagResolver().Resolve(TypeOf[*unexportedTagged](), Markers{})

	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Contains(t, err.Error(), "not exported")
}

func TestTagResolver_NilType(t *testing.T) {
	_, err := NewTagResolver().Resolve(nil, Markers{})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestTagResolver_Hooks(t *testing.T) {
	r := NewTagResolver()

	t.Run("default names", func(t *testing.T) {
		d, err := r.Resolve(TypeOf[*hooked](), Markers{})
		require.NoError(t, err)

		require.NotNil(t, d.PostConstruct)
		assert.Equal(t, "PostConstruct", d.PostConstruct.Name)
		assert.Equal(t, typeList(TypeOf[*repository]()), d.PostConstruct.DependsOn)
		assert.NoError(t, d.PostConstruct.Invoke(&hooked{}))
		assert.Nil(t, d.PreDestroy)
	})

	t.Run("custom names", func(t *testing.T) {
		d, err := r.Resolve(TypeOf[*hooked](), Markers{PreDestroy: []string{"Shutdown", "Close"}})
		require.NoError(t, err)

		require.NotNil(t, d.PreDestroy)
		assert.Equal(t, "Close", d.PreDestroy.Name)
		assert.Empty(t, d.PreDestroy.DependsOn)
	})

	t.Run("bad signature", func(t *testing.T) {
		_, err := r.Resolve(TypeOf[*badHookSignature](), Markers{})

		var resErr *ResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Equal(t, "post-construct hook", resErr.Context)
	})

	t.Run("bad depends-on signature", func(t *testing.T) {
		_, err := r.Resolve(TypeOf[*badDependsOn](), Markers{})
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("depends-on panics", func(t *testing.T) {
		_, err := r.Resolve(TypeOf[*panickyDependsOn](), Markers{})

		var resErr *ResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Contains(t, err.Error(), "panicked")
	})
}

func TestTagResolver_CachesPerMarkers(t *testing.T) {
	r := NewTagResolver()

	_, err := r.Resolve(TypeOf[*taggedService](), Markers{})
	require.NoError(t, err)
	_, err = r.Resolve(TypeOf[*taggedService](), DefaultMarkers())
	require.NoError(t, err)
	assert.Equal(t, 1, r.cache.len())

	_, err = r.Resolve(TypeOf[*taggedService](), Markers{Inject: []string{"wire"}})
	require.NoError(t, err)
	assert.Equal(t, 2, r.cache.len())

	_, err = r.Resolve(TypeOf[*unexportedTagged](), Markers{})
	require.Error(t, err)
	assert.Equal(t, 2, r.cache.len(), "failures are not cached")

	r.cache.clear()
	assert.Equal(t, 0, r.cache.len())
}

func TestParseInjectTag(t *testing.T) {
	tests := []struct {
		tag  string
		want tagOptions
	}{
		{"", tagOptions{}},
		{"-", tagOptions{skip: true}},
		{"optional", tagOptions{optional: true}},
		{"name, optional", tagOptions{optional: true}},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, parseInjectTag(tt.tag))
		})
	}
}
