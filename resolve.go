package grove

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/ARTM2000/grove/event"
	"github.com/ARTM2000/grove/internal/reflectx"
)

// Injectable is implemented by types that need wiring after construction.
// InjectFunc returns a function whose parameters are resolved the same way
// constructor parameters are, including injected overrides. The function
// runs once per constructed instance, before decorators are applied; its
// results are discarded except for an error, which fails the resolution.
//
//	func (s *Service) InjectFunc() any {
//		return func(m *Metrics) { s.metrics = m }
//	}
//
// Registered singletons are never passed through InjectFunc.
type Injectable interface {
	InjectFunc() any
}

// ---------------------------------------------------------------------------
// Container methods
// ---------------------------------------------------------------------------

func (c *container) Make(t reflect.Type, opts ...Option) (reflect.Value, error) {
	start := time.Now()
	v, err := c.makeRoot(t, opts)

	ev := &event.Resolved{
		TypeName: reflectx.TypeName(t),
		Runtime:  time.Since(start),
		Err:      err,
	}
	if err == nil {
		ev.ResultName = v.Type().String()
	}
	c.log.LogEvent(ev)

	return v, err
}

func (c *container) makeRoot(t reflect.Type, opts []Option) (reflect.Value, error) {
	if t == nil {
		return reflect.Value{}, fmt.Errorf("%w: nil type", ErrNotInstantiable)
	}

	o := newCallOptions(opts)
	if o.err != nil {
		return reflect.Value{}, o.err
	}

	v, err := c.make(t, o.named, newResolution(o.overrides))
	if pe, ok := err.(*ParameterError); ok && pe.Target == nil {
		named := *pe
		named.Target = t
		err = &named
	}
	return v, err
}

// ---------------------------------------------------------------------------
// Generic helpers
// ---------------------------------------------------------------------------

// Make is a generic helper that builds a T from the container. It is the
// recommended way to retrieve values:
//
//	repo, err := grove.Make[UserRepository](c)
func Make[T any](c Container, opts ...Option) (T, error) {
	var zero T
	t := reflect.TypeFor[T]()

	val, err := c.Make(t, opts...)
	if err != nil {
		return zero, err
	}
	if val.Kind() == reflect.Interface && val.IsNil() {
		return zero, nil
	}

	out, ok := val.Interface().(T)
	if !ok {
		return zero, fmt.Errorf("cannot convert %s to %s", val.Type(), t)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Internal
// ---------------------------------------------------------------------------

// resolution is the state of a single top-level call. It is never shared
// between calls, which keeps the registry read-only during resolution.
type resolution struct {
	overrides map[reflect.Type]reflect.Value

	// building lists the types under construction, outermost first.
	building []reflect.Type
}

func newResolution(overrides map[reflect.Type]reflect.Value) *resolution {
	return &resolution{overrides: overrides}
}

// with returns a copy of r that also injects v for t.
func (r *resolution) with(t reflect.Type, v reflect.Value) *resolution {
	overrides := make(map[reflect.Type]reflect.Value, len(r.overrides)+1)
	for k, ov := range r.overrides {
		overrides[k] = ov
	}
	overrides[t] = v

	return &resolution{
		overrides: overrides,
		building:  append([]reflect.Type(nil), r.building...),
	}
}

func (r *resolution) isBuilding(t reflect.Type) bool {
	for _, b := range r.building {
		if b == t {
			return true
		}
	}
	return false
}

// make resolves t: base value, then decorators. Named parameters only reach
// the constructor of t itself.
func (c *container) make(t reflect.Type, named map[string]any, r *resolution) (reflect.Value, error) {
	if r.isBuilding(t) {
		return reflect.Value{}, failure(t, ErrCircularDependency, "%s", chain(append(r.building, t)))
	}
	r.building = append(r.building, t)
	defer func() { r.building = r.building[:len(r.building)-1] }()

	base, err := c.base(t, named, r)
	if err != nil {
		return reflect.Value{}, wrapResolution(t, err)
	}

	v, err := c.applyDecorators(t, base, r)
	if err != nil {
		return reflect.Value{}, wrapResolution(t, err)
	}
	return v, nil
}

// base follows singletons and bindings from t and constructs whatever type
// the chain ends on.
func (c *container) base(t reflect.Type, named map[string]any, r *resolution) (reflect.Value, error) {
	key := t
	seen := []reflect.Type{t}
	v, ok := c.singleton(key)
	for !ok {
		impl, bound := c.binding(key)
		if !bound {
			break
		}
		for _, s := range seen {
			if s == impl {
				return reflect.Value{}, failure(t, ErrCircularDependency, "bindings %s", chain(append(seen, impl)))
			}
		}
		seen = append(seen, impl)
		key = impl
		v, ok = c.singleton(key)
	}

	if !ok {
		var err error
		if v, err = c.construct(key, named, r); err != nil {
			return reflect.Value{}, err
		}
	}
	if key != t && !v.Type().AssignableTo(t) {
		return reflect.Value{}, failure(t, ErrNotAssignable, "%v is bound to %v", t, v.Type())
	}
	return v, nil
}

// construct builds a fresh u and runs its InjectFunc hook.
func (c *container) construct(u reflect.Type, named map[string]any, r *resolution) (reflect.Value, error) {
	var v reflect.Value

	if ctor, ok := c.constructor(u); ok {
		out, err := c.invoke(ctor, named, r)
		if err != nil {
			return reflect.Value{}, wrapResolution(u, err)
		}
		v = out[0]
		if v.Kind() == reflect.Interface && !v.IsNil() {
			v = v.Elem()
		}
	} else {
		switch {
		case u.Kind() == reflect.Pointer && u.Elem().Kind() == reflect.Struct:
			v = reflect.New(u.Elem())
		case u.Kind() == reflect.Struct:
			v = reflect.New(u).Elem()
		default:
			return reflect.Value{}, failure(u, ErrNotInstantiable, "%v has no binding, singleton or constructor", u)
		}
	}

	if err := c.runHook(u, v, r); err != nil {
		return reflect.Value{}, wrapResolution(u, err)
	}
	return v, nil
}

func (c *container) runHook(u reflect.Type, v reflect.Value, r *resolution) error {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil
		}
	}

	inj, ok := v.Interface().(Injectable)
	if !ok {
		return nil
	}

	hook := inj.InjectFunc()
	if hook == nil {
		return nil
	}
	fn := reflect.ValueOf(hook)
	if fn.Kind() != reflect.Func {
		return failure(u, ErrNotFunc, "InjectFunc returned %T", hook)
	}

	_, err := c.invoke(fn, nil, r)
	return err
}

// invoke resolves the parameters of fn and calls it. A trailing error
// result is returned as the error; the remaining results are returned.
func (c *container) invoke(fn reflect.Value, named map[string]any, r *resolution) ([]reflect.Value, error) {
	ft := fn.Type()
	sig, err := c.introspector.Signature(ft)
	if err != nil {
		return nil, err
	}

	args := make([]reflect.Value, ft.NumIn())
	for _, p := range sig.Params {
		if p.Named {
			if err := setNamed(args, ft, p, named); err != nil {
				return nil, err
			}
			continue
		}

		arg, err := c.argument(p, sig.Variadic && p.Index == ft.NumIn()-1, r)
		if err != nil {
			return nil, err
		}
		args[p.Index] = arg
	}
	for i, arg := range args {
		if !arg.IsValid() {
			args[i] = reflect.New(ft.In(i)).Elem()
		}
	}

	var out []reflect.Value
	if ft.IsVariadic() {
		out = fn.CallSlice(args)
	} else {
		out = fn.Call(args)
	}

	if n := len(out); n > 0 && reflectx.IsError(ft.Out(n-1)) {
		if errv := out[n-1]; !errv.IsZero() {
			return nil, errv.Interface().(error)
		}
		out = out[:n-1]
	}
	return out, nil
}

// argument produces the value of a positional parameter: the injected
// override for its type, or a fresh resolution with no named parameters.
func (c *container) argument(p Parameter, variadic bool, r *resolution) (reflect.Value, error) {
	if v, ok := r.overrides[p.Type]; ok {
		return v, nil
	}
	if variadic {
		return reflect.MakeSlice(p.Type, 0, 0), nil
	}
	return c.make(p.Type, nil, r)
}

// setNamed copies a named parameter into its Params struct argument.
func setNamed(args []reflect.Value, ft reflect.Type, p Parameter, named map[string]any) error {
	if !args[p.Index].IsValid() {
		args[p.Index] = reflect.New(ft.In(p.Index)).Elem()
	}

	value, ok := named[p.Name]
	if !ok {
		return nil
	}

	v := reflect.ValueOf(value)
	if value == nil {
		v = reflect.Zero(p.Type)
	}
	if !v.Type().AssignableTo(p.Type) {
		return failure(p.Type, ErrParamType, "named parameter %q of %v given %T", p.Name, ft, value)
	}
	args[p.Index].FieldByIndex(p.Field).Set(v)
	return nil
}

// applyDecorators runs the decorator pipeline registered for t.
func (c *container) applyDecorators(t reflect.Type, v reflect.Value, r *resolution) (reflect.Value, error) {
	for _, d := range c.decoratorsFor(t) {
		next, err := c.make(d, nil, r.with(t, v))
		if err != nil {
			return reflect.Value{}, err
		}
		v = next
	}
	return v, nil
}

func chain(types []reflect.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, " -> ")
}
