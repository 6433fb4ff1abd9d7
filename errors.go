package grove

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNotInstantiable is the root cause when a type has no binding, no
	// singleton and no constructor, and is not a struct the container can
	// build on its own. Interfaces without a binding end up here.
	ErrNotInstantiable = errors.New("type is not instantiable")

	// ErrUntypedParameter is returned when a constructor or function declares
	// a parameter whose type carries no information to resolve it by, such as
	// any. See [ParameterError].
	ErrUntypedParameter = errors.New("parameter has no resolvable type")

	// ErrCircularDependency is the root cause when a type depends on itself,
	// through constructors or through a cycle of bindings. The error message
	// includes the full chain.
	ErrCircularDependency = errors.New("circular dependency detected")

	// ErrInvalidDecorator is returned by Decorate when no decorators are given
	// or when a decorator type is not assignable to its target.
	ErrInvalidDecorator = errors.New("invalid decorator")

	// ErrParamType is the root cause when a named parameter or injected value
	// cannot be assigned to the slot it was given for.
	ErrParamType = errors.New("value not assignable to parameter")

	// ErrNotAssignable is returned when an instance or a bound implementation
	// does not satisfy the type it is registered or resolved as.
	ErrNotAssignable = errors.New("not assignable")

	// ErrMethodNotFound is returned by CallMethod when the object has no
	// exported method with the requested name.
	ErrMethodNotFound = errors.New("method not found")

	// ErrNotFunc is returned when a function was expected.
	ErrNotFunc = errors.New("not a function")

	// ErrInvalidConstructor is returned by Provide for functions that do not
	// have the shape func(deps...) T or func(deps...) (T, error).
	ErrInvalidConstructor = errors.New("invalid constructor")

	// ErrDuplicateConstructor is returned when a constructor for the same type
	// is provided more than once.
	ErrDuplicateConstructor = errors.New("duplicate constructor")

	// ErrNilInstance is returned when nil is registered as a singleton.
	ErrNilInstance = errors.New("nil instance")

	// ErrAlreadyShutdown is returned by Shutdown when called more than once,
	// and by registration methods after Shutdown.
	ErrAlreadyShutdown = errors.New("container already shut down")
)

// ResolutionError is one link in a chain of failed resolutions: the
// container could not build Type because of Err. Err is either another
// *ResolutionError, for the dependency that failed, or the root cause.
//
// Errors returned by constructors and functions themselves are never
// wrapped in a ResolutionError, so callers can tell "my code failed" from
// "the container could not wire it".
type ResolutionError struct {
	Type reflect.Type
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %v because: %v", e.Type, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Root returns the innermost cause of the chain.
func (e *ResolutionError) Root() error {
	var inner *ResolutionError
	if errors.As(e.Err, &inner) {
		return inner.Root()
	}
	return e.Err
}

// Chain lists the types of the chain from the outermost to the innermost.
func (e *ResolutionError) Chain() []reflect.Type {
	chain := []reflect.Type{e.Type}
	var inner *ResolutionError
	if errors.As(e.Err, &inner) {
		chain = append(chain, inner.Chain()...)
	}
	return chain
}

// ParameterError reports a parameter the container cannot resolve because
// its declared type is untyped. It points at an authoring mistake in Func,
// so it is returned as is and never wrapped into a resolution chain.
type ParameterError struct {
	// Func is the function type that declares the parameter.
	Func reflect.Type

	// Index is the position of the parameter.
	Index int

	// Type is the declared type.
	Type reflect.Type

	// Target is the type whose Make ran into the parameter. It is nil when
	// the function was called directly.
	Target reflect.Type
}

func (e *ParameterError) Error() string {
	msg := fmt.Sprintf("%v: parameter %d of %v has type %v", ErrUntypedParameter, e.Index, e.Func, e.Type)
	if e.Target != nil {
		return fmt.Sprintf("cannot resolve %v: %s", e.Target, msg)
	}
	return msg
}

func (e *ParameterError) Is(target error) bool { return target == ErrUntypedParameter }

// wrapResolution adds t to a resolution chain. Errors that are not
// resolution failures pass through untouched.
func wrapResolution(t reflect.Type, err error) error {
	re, ok := err.(*ResolutionError)
	if !ok || re.Type == t {
		return err
	}
	return &ResolutionError{Type: t, Err: err}
}

// failure starts a resolution chain for t.
func failure(t reflect.Type, cause error, format string, args ...any) *ResolutionError {
	return &ResolutionError{
		Type: t,
		Err:  fmt.Errorf("%w: "+format, append([]any{cause}, args...)...),
	}
}
