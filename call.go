package grove

import (
	"fmt"
	"reflect"

	"github.com/ARTM2000/grove/event"
)

func (c *container) Call(fn any, opts ...Option) (any, error) {
	out, err := c.call(reflect.ValueOf(fn), opts)
	c.log.LogEvent(&event.Invoked{Function: fn, Err: err})
	return out, err
}

func (c *container) CallMethod(obj any, name string, opts ...Option) (any, error) {
	m, err := method(obj, name)
	if err != nil {
		c.log.LogEvent(&event.Invoked{MethodName: name, Err: err})
		return nil, err
	}

	out, err := c.call(m, opts)
	c.log.LogEvent(&event.Invoked{
		Function:   m.Interface(),
		MethodName: fmt.Sprintf("%T.%s", obj, name),
		Err:        err,
	})
	return out, err
}

// HasMethod reports whether obj has an exported method with the given name
// that CallMethod could invoke.
func HasMethod(obj any, name string) bool {
	_, err := method(obj, name)
	return err == nil
}

func (c *container) Curry(fn any, opts ...Option) func(args ...any) (any, error) {
	return func(args ...any) (any, error) {
		callOpts := make([]Option, 0, len(opts)+1)
		callOpts = append(callOpts, opts...)
		callOpts = append(callOpts, InjectValues(args...))
		return c.Call(fn, callOpts...)
	}
}

// Invoke is a generic helper that calls fn and converts its result to T:
//
//	n, err := grove.Invoke[int](c, func(repo *UserRepo) (int, error) {
//		return repo.Count()
//	})
func Invoke[T any](c Container, fn any, opts ...Option) (T, error) {
	var zero T

	out, err := c.Call(fn, opts...)
	if err != nil || out == nil {
		return zero, err
	}

	typed, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T to %v", ErrNotAssignable, out, reflect.TypeFor[T]())
	}
	return typed, nil
}

func (c *container) call(fn reflect.Value, opts []Option) (any, error) {
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, fmt.Errorf("%w: %v", ErrNotFunc, describe(fn))
	}

	o := newCallOptions(opts)
	if o.err != nil {
		return nil, o.err
	}

	out, err := c.invoke(fn, o.named, newResolution(o.overrides))
	if err != nil {
		return nil, err
	}

	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	}
	results := make([]any, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}
	return results, nil
}

func method(obj any, name string) (reflect.Value, error) {
	v := reflect.ValueOf(obj)
	if !v.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: %q on nil", ErrMethodNotFound, name)
	}

	m := v.MethodByName(name)
	if !m.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: %T has no method %q", ErrMethodNotFound, obj, name)
	}
	return m, nil
}

func describe(v reflect.Value) string {
	if !v.IsValid() {
		return "<nil>"
	}
	return v.Type().String()
}
