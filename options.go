package grove

import (
	"reflect"

	"github.com/ARTM2000/grove/event"
	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------
// Container options
// ---------------------------------------------------------------------------

// ContainerOption configures a [Container] in [New].
type ContainerOption func(*container)

// WithEventLogger sets the logger that receives container events. The
// default discards them.
func WithEventLogger(l event.Logger) ContainerOption {
	return func(c *container) {
		c.log = l
	}
}

// WithLogger logs container events to a zap logger.
func WithLogger(l *zap.Logger) ContainerOption {
	return WithEventLogger(&event.ZapLogger{Logger: l})
}

// WithIntrospector replaces the reflection-based [Introspector].
func WithIntrospector(i Introspector) ContainerOption {
	return func(c *container) {
		c.introspector = i
	}
}

// ---------------------------------------------------------------------------
// Call options
// ---------------------------------------------------------------------------

// callOptions holds what a single Make, Call or Curry was given.
type callOptions struct {
	named     map[string]any
	overrides map[reflect.Type]reflect.Value
	err       error
}

// Option configures a single resolution.
type Option func(*callOptions)

func newCallOptions(opts []Option) *callOptions {
	o := &callOptions{
		named:     make(map[string]any),
		overrides: make(map[reflect.Type]reflect.Value),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithParam supplies a named parameter for the function or constructor the
// call invokes directly. It does not reach nested dependencies.
func WithParam(name string, value any) Option {
	return func(o *callOptions) {
		o.named[name] = value
	}
}

// WithParams supplies several named parameters. See [WithParam].
func WithParams(params map[string]any) Option {
	return func(o *callOptions) {
		for k, v := range params {
			o.named[k] = v
		}
	}
}

// Inject overrides every parameter of type T, at any depth of the
// resolution, with value. The value is used as is: it is neither decorated
// nor constructed.
//
//	svc, err := grove.Make[*UserService](c, grove.Inject[Clock](fakeClock))
func Inject[T any](value T) Option {
	return InjectAs(reflect.TypeFor[T](), value)
}

// InjectAs is the non-generic form of [Inject]. A value that is not
// assignable to t makes the resolution fail with [ErrParamType].
func InjectAs(t reflect.Type, value any) Option {
	return func(o *callOptions) {
		v := reflect.ValueOf(value)
		if value == nil {
			v = zeroOf(t)
		}
		if !v.IsValid() || !v.Type().AssignableTo(t) {
			o.err = failure(t, ErrParamType, "injected %T", value)
			return
		}
		o.overrides[t] = v
	}
}

// InjectValues overrides parameters by the runtime type of each value.
// Values sharing a runtime type collide and the last one wins. Nil values
// are ignored.
func InjectValues(values ...any) Option {
	return func(o *callOptions) {
		for _, value := range values {
			if value == nil {
				continue
			}
			v := reflect.ValueOf(value)
			o.overrides[v.Type()] = v
		}
	}
}

// zeroOf returns the zero value of t, or an invalid value for a nil t.
func zeroOf(t reflect.Type) reflect.Value {
	if t == nil {
		return reflect.Value{}
	}
	return reflect.Zero(t)
}
