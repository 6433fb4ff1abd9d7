package grove

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServerParams struct {
	Params

	Addr    string
	Timeout int `name:"timeout"`
	Debug   bool
	secret  string
}

func TestReflectIntrospector_Signature(t *testing.T) {
	i := reflectIntrospector{}

	t.Run("positional then named", func(t *testing.T) {
		fn := reflect.TypeOf(func(p testServerParams, l *testLogger, s testStore) {})

		sig, err := i.Signature(fn)
		require.NoError(t, err)

		assert.Equal(t, fn, sig.Func)
		assert.False(t, sig.Variadic)
		assert.Equal(t, []Parameter{
			{Index: 1, Type: reflect.TypeFor[*testLogger]()},
			{Index: 2, Type: reflect.TypeFor[testStore]()},
			{Index: 0, Type: reflect.TypeFor[string](), Named: true, Name: "Addr", Field: []int{1}},
			{Index: 0, Type: reflect.TypeFor[int](), Named: true, Name: "timeout", Field: []int{2}},
			{Index: 0, Type: reflect.TypeFor[bool](), Named: true, Name: "Debug", Field: []int{3}},
		}, sig.Params)
	})

	t.Run("no parameters", func(t *testing.T) {
		sig, err := i.Signature(reflect.TypeOf(newTestLogger))
		require.NoError(t, err)
		assert.Empty(t, sig.Params)
	})

	t.Run("variadic", func(t *testing.T) {
		sig, err := i.Signature(reflect.TypeOf(func(l *testLogger, tags ...string) {}))
		require.NoError(t, err)
		assert.True(t, sig.Variadic)
		assert.Equal(t, reflect.TypeFor[[]string](), sig.Params[1].Type)
	})

	t.Run("struct without Params is positional", func(t *testing.T) {
		sig, err := i.Signature(reflect.TypeOf(func(cfg testConfig) {}))
		require.NoError(t, err)
		assert.Equal(t, []Parameter{{Index: 0, Type: reflect.TypeFor[testConfig]()}}, sig.Params)
	})

	untyped := []struct {
		name string
		give any
		want int
	}{
		{name: "any", give: func(l *testLogger, v any) {}, want: 1},
		{name: "empty interface", give: func(v interface{}) {}, want: 0},
		{name: "variadic any", give: func(l *testLogger, vs ...any) {}, want: 1},
	}
	for _, tt := range untyped {
		t.Run("untyped "+tt.name, func(t *testing.T) {
			_, err := i.Signature(reflect.TypeOf(tt.give))
			require.ErrorIs(t, err, ErrUntypedParameter)

			var pe *ParameterError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.want, pe.Index)
		})
	}

	t.Run("named any is allowed", func(t *testing.T) {
		type loose struct {
			Params

			Value any
		}
		sig, err := i.Signature(reflect.TypeOf(func(p loose) {}))
		require.NoError(t, err)
		assert.True(t, sig.Params[0].Named)
	})

	t.Run("not a function", func(t *testing.T) {
		_, err := i.Signature(reflect.TypeFor[*testLogger]())
		assert.ErrorIs(t, err, ErrNotFunc)

		_, err = i.Signature(nil)
		assert.ErrorIs(t, err, ErrNotFunc)
	})
}

func TestReflectIntrospector_Assignable(t *testing.T) {
	i := reflectIntrospector{}

	assert.True(t, i.Assignable(reflect.TypeFor[*diskStore](), reflect.TypeFor[testStore]()))
	assert.True(t, i.Assignable(reflect.TypeFor[*testLogger](), reflect.TypeFor[*testLogger]()))
	assert.False(t, i.Assignable(reflect.TypeFor[diskStore](), reflect.TypeFor[testStore]()))
	assert.False(t, i.Assignable(reflect.TypeFor[*testLogger](), reflect.TypeFor[testStore]()))
	assert.False(t, i.Assignable(nil, reflect.TypeFor[testStore]()))
}

// countingIntrospector counts the signatures it is asked for.
type countingIntrospector struct {
	reflectIntrospector
	calls int
}

func (p *countingIntrospector) Signature(fn reflect.Type) (Signature, error) {
	p.calls++
	return p.reflectIntrospector.Signature(fn)
}

func TestWithIntrospector(t *testing.T) {
	ix := &countingIntrospector{}
	c := New(WithIntrospector(ix))
	mustProvide(t, c, newTestConfig, newTestLogger, newTestDatabase)

	_, err := Make[*testDatabase](c)
	require.NoError(t, err)
	assert.Equal(t, 3, ix.calls)

	_, err = c.Call(func(*testLogger) {})
	require.NoError(t, err)
	assert.Equal(t, 5, ix.calls)
}
