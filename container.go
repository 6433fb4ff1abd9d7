package grove

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"sync"

	"github.com/ARTM2000/grove/event"
	"github.com/ARTM2000/grove/internal/reflectx"
	"go.uber.org/multierr"
)

// Container is the dependency injection registry. It holds constructors,
// bindings, singletons and decorators, and builds values from them. Use
// [New] to create an instance.
//
// Register everything during startup, then resolve. Resolution never
// changes the registry, so concurrent calls to Make, Call and friends are
// safe.
type Container interface {
	// Provide registers constructor as the primary constructor of the type it
	// returns. The constructor must be a function with the signature
	// func(deps...) T or func(deps...) (T, error). Its parameters are
	// resolved by type when T is made; a parameter struct embedding [Params]
	// receives named parameters instead.
	//
	// Types without a constructor can still be made when they are structs or
	// pointers to structs: they are built as zero values.
	Provide(constructor any) error

	// ProvideAll calls Provide for each constructor and reports every
	// failure.
	ProvideAll(constructors ...any) error

	// Bind records that making abstract builds impl instead. A later Bind for
	// the same abstract replaces the earlier one. impl is not checked against
	// abstract here; a mismatch surfaces when abstract is made.
	Bind(abstract, impl reflect.Type)

	// Singleton registers a pre-built instance. It is stored under as when
	// given, otherwise under the instance's runtime type, and replaces any
	// earlier singleton for that type. Every Make of the type returns this
	// instance without running a constructor.
	Singleton(instance any, as ...reflect.Type) error

	// Decorate registers decorator types for target. Every Make of target
	// passes the built value through each decorator in registration order:
	// the decorator is made with the running value injected for target, and
	// its result becomes the new running value.
	//
	// Each decorator type must be assignable to target and differ from it.
	// Decorate fails with [ErrInvalidDecorator] when decorators is empty or
	// when any decorator is invalid, in which case none of them is
	// registered. Only interface targets can therefore be decorated.
	Decorate(target reflect.Type, decorators ...reflect.Type) error

	// Bound reports whether t has a singleton, a binding or a constructor.
	Bound(t reflect.Type) bool

	// Make builds a value of type t. A registered singleton is returned as
	// is; a binding substitutes its implementation; anything else is
	// constructed with its registered constructor, whose parameters are made
	// recursively. The decorators registered for t are applied last. Prefer
	// the generic [Make] helper over calling this method directly.
	//
	// Resolution failures are returned as a chain of [*ResolutionError].
	// Errors returned by constructors are returned unwrapped.
	Make(t reflect.Type, opts ...Option) (reflect.Value, error)

	// Call resolves the parameters of fn the same way constructor parameters
	// are resolved, calls fn, and returns its result. Named parameters apply
	// to fn itself only; injected overrides reach every nested dependency.
	//
	// A trailing error result of fn is returned unwrapped. Of the other
	// results, none yields nil, one yields that value and several yield a
	// []any.
	Call(fn any, opts ...Option) (any, error)

	// CallMethod is like Call for the exported method of obj with the given
	// name. It fails with [ErrMethodNotFound] when obj has no such method.
	CallMethod(obj any, name string, opts ...Option) (any, error)

	// Curry returns a function that calls fn through the container. Each
	// value handed to the returned function is injected under its runtime
	// type, on top of the overrides in opts. Values sharing a runtime type
	// collide and the last one wins.
	//
	//	send := c.Curry(func(m *Mailer, to string) error { return m.Send(to) })
	//	_, err := send("ops@example.com")
	Curry(fn any, opts ...Option) func(args ...any) (any, error)

	// Lifetime reports the lifetime of t: [Singleton] when t, or the type
	// its bindings lead to, has a registered singleton, [Transient]
	// otherwise. Decorators registered for t still build a new wrapper on
	// every Make.
	Lifetime(t reflect.Type) Lifetime

	// Shutdown closes every singleton that implements [io.Closer], in
	// reverse registration order. An instance registered under several types
	// is closed once. The context bounds the whole shutdown: once it is
	// done, remaining closers are skipped and the context error is included
	// in the result.
	//
	// After Shutdown no registrations are accepted. Subsequent calls return
	// [ErrAlreadyShutdown].
	Shutdown(ctx context.Context) error
}

type container struct {
	mu sync.RWMutex

	constructors map[reflect.Type]reflect.Value
	singletons   map[reflect.Type]reflect.Value
	bindings     map[reflect.Type]reflect.Type
	decorators   map[reflect.Type][]reflect.Type

	// supplied records singleton keys in registration order. Shutdown walks
	// it in reverse.
	supplied []reflect.Type

	introspector Introspector
	log          event.Logger

	shutdown bool
}

// New creates an empty [Container]. The container is registered as the
// singleton for Container, so constructors can depend on it.
func New(opts ...ContainerOption) Container {
	c := &container{
		constructors: make(map[reflect.Type]reflect.Value),
		singletons:   make(map[reflect.Type]reflect.Value),
		bindings:     make(map[reflect.Type]reflect.Type),
		decorators:   make(map[reflect.Type][]reflect.Type),
		introspector: reflectIntrospector{},
		log:          event.NopLogger,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.singletons[containerType] = reflect.ValueOf(c)
	return c
}

var (
	_             Container = (*container)(nil)
	containerType           = reflect.TypeFor[Container]()
)

// ---------------------------------------------------------------------------
// Registration
// ---------------------------------------------------------------------------

func (c *container) Provide(constructor any) error {
	t, err := c.provide(constructor)
	c.log.LogEvent(&event.Provided{
		Constructor: constructor,
		TypeName:    t,
		Err:         err,
	})
	return err
}

func (c *container) ProvideAll(constructors ...any) error {
	var err error
	for _, ctor := range constructors {
		err = multierr.Append(err, c.Provide(ctor))
	}
	return err
}

func (c *container) provide(constructor any) (string, error) {
	val := reflect.ValueOf(constructor)
	if val.Kind() != reflect.Func || val.IsNil() {
		return "", fmt.Errorf("%w: %T is not a function", ErrInvalidConstructor, constructor)
	}

	typ := val.Type()
	if typ.NumOut() == 0 || typ.NumOut() > 2 {
		return "", fmt.Errorf("%w: %v must return (T) or (T, error)", ErrInvalidConstructor, typ)
	}
	if typ.NumOut() == 2 && !reflectx.IsError(typ.Out(1)) {
		return "", fmt.Errorf("%w: second return value of %v must implement error", ErrInvalidConstructor, typ)
	}

	out := typ.Out(0)
	if reflectx.IsError(out) && typ.NumOut() == 1 {
		return "", fmt.Errorf("%w: %v returns only an error", ErrInvalidConstructor, typ)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.shutdown {
		return "", ErrAlreadyShutdown
	}
	if _, exists := c.constructors[out]; exists {
		return "", fmt.Errorf("%w: %v", ErrDuplicateConstructor, out)
	}
	c.constructors[out] = val
	return out.String(), nil
}

func (c *container) Bind(abstract, impl reflect.Type) {
	if abstract == nil || impl == nil {
		panic("grove: Bind with a nil type")
	}

	c.mu.Lock()
	c.bindings[abstract] = impl
	c.mu.Unlock()

	c.log.LogEvent(&event.Bound{
		Abstract:       abstract.String(),
		Implementation: impl.String(),
	})
}

func (c *container) Singleton(instance any, as ...reflect.Type) error {
	var key reflect.Type
	if len(as) > 0 {
		key = as[0]
	}
	key, err := c.supply(instance, key)
	c.log.LogEvent(&event.Supplied{
		TypeName: reflectx.TypeName(key),
		Err:      err,
	})
	return err
}

func (c *container) supply(instance any, key reflect.Type) (reflect.Type, error) {
	if instance == nil {
		return key, ErrNilInstance
	}

	val := reflect.ValueOf(instance)
	if key == nil {
		key = val.Type()
	}
	if !val.Type().AssignableTo(key) {
		return key, fmt.Errorf("%w: %v to %v", ErrNotAssignable, val.Type(), key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.shutdown {
		return key, ErrAlreadyShutdown
	}
	if _, exists := c.singletons[key]; !exists {
		c.supplied = append(c.supplied, key)
	}
	c.singletons[key] = val
	return key, nil
}

func (c *container) Decorate(target reflect.Type, decorators ...reflect.Type) error {
	err := c.decorate(target, decorators)

	names := make([]string, len(decorators))
	for i, d := range decorators {
		names[i] = reflectx.TypeName(d)
	}
	c.log.LogEvent(&event.Decorated{
		TargetName:     reflectx.TypeName(target),
		DecoratorNames: names,
		Err:            err,
	})
	return err
}

func (c *container) decorate(target reflect.Type, decorators []reflect.Type) error {
	if target == nil {
		return fmt.Errorf("%w: nil target", ErrInvalidDecorator)
	}
	if len(decorators) == 0 {
		return fmt.Errorf("%w: no decorators for %v", ErrInvalidDecorator, target)
	}

	var err error
	for _, d := range decorators {
		switch {
		case d == target:
			err = multierr.Append(err, fmt.Errorf("%w: %v cannot decorate itself", ErrInvalidDecorator, target))
		case !c.introspector.Assignable(d, target):
			err = multierr.Append(err, fmt.Errorf("%w: %v does not satisfy %v", ErrInvalidDecorator, reflectx.TypeName(d), target))
		}
	}
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.shutdown {
		return ErrAlreadyShutdown
	}
	c.decorators[target] = append(c.decorators[target], decorators...)
	return nil
}

func (c *container) Bound(t reflect.Type) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, hasSingleton := c.singletons[t]
	_, hasBinding := c.bindings[t]
	_, hasConstructor := c.constructors[t]
	return hasSingleton || hasBinding || hasConstructor
}

// ---------------------------------------------------------------------------
// Registry lookups
// ---------------------------------------------------------------------------

func (c *container) singleton(t reflect.Type) (reflect.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.singletons[t]
	return v, ok
}

func (c *container) binding(t reflect.Type) (reflect.Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	impl, ok := c.bindings[t]
	return impl, ok
}

func (c *container) constructor(t reflect.Type) (reflect.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ctor, ok := c.constructors[t]
	return ctor, ok
}

// decoratorsFor returns a copy so the pipeline runs without the lock.
func (c *container) decoratorsFor(t reflect.Type) []reflect.Type {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]reflect.Type(nil), c.decorators[t]...)
}

// ---------------------------------------------------------------------------
// Shutdown
// ---------------------------------------------------------------------------

func (c *container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	if c.shutdown {
		c.mu.Unlock()
		return ErrAlreadyShutdown
	}
	c.shutdown = true
	closers := c.closersLocked()
	c.mu.Unlock()

	var (
		errs   []error
		closed int
	)
	for i := len(closers) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		closed++
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}

	err := multierr.Combine(errs...)
	c.log.LogEvent(&event.Stopped{Closed: closed, Err: err})
	return err
}

// closersLocked lists singleton closers in registration order, skipping
// instances already listed under another type. c.mu must be held.
func (c *container) closersLocked() []io.Closer {
	var closers []io.Closer
	seen := make(map[any]struct{})
	for _, key := range c.supplied {
		v, ok := c.singletons[key]
		if !ok {
			continue
		}
		closer, ok := v.Interface().(io.Closer)
		if !ok {
			continue
		}
		if v.Comparable() {
			if _, dup := seen[closer]; dup {
				continue
			}
			seen[closer] = struct{}{}
		}
		closers = append(closers, closer)
	}
	return closers
}

// ---------------------------------------------------------------------------
// Generic helpers
// ---------------------------------------------------------------------------

// Bind is a generic helper that binds the abstraction A to the
// implementation I:
//
//	grove.Bind[Logger, *FileLogger](c)
func Bind[A, I any](c Container) {
	c.Bind(reflect.TypeFor[A](), reflect.TypeFor[I]())
}

// Supply is a generic helper that registers instance as the singleton for T
// rather than for its runtime type:
//
//	grove.Supply[Clock](c, realClock{})
func Supply[T any](c Container, instance T) error {
	return c.Singleton(instance, reflect.TypeFor[T]())
}

// Decorate is a generic helper that registers decorators for T.
func Decorate[T any](c Container, decorators ...reflect.Type) error {
	return c.Decorate(reflect.TypeFor[T](), decorators...)
}
