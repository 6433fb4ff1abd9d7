package event

import "time"

// Event is emitted by a grove container.
type Event interface {
	event() // Only this package can implement Event.
}

func (*Provided) event()  {}
func (*Bound) event()     {}
func (*Supplied) event()  {}
func (*Decorated) event() {}
func (*Resolved) event()  {}
func (*Invoked) event()   {}
func (*Stopped) event()   {}

// Provided is emitted when a constructor is registered.
type Provided struct {
	// Constructor is the function handed to Provide.
	Constructor any

	// TypeName is the type the constructor produces. It is empty when the
	// constructor was rejected.
	TypeName string

	Err error
}

// Bound is emitted when an abstraction is bound to an implementation.
type Bound struct {
	Abstract       string
	Implementation string
}

// Supplied is emitted when a pre-built singleton is registered.
type Supplied struct {
	TypeName string
	Err      error
}

// Decorated is emitted when decorators are registered for a target type.
type Decorated struct {
	TargetName     string
	DecoratorNames []string
	Err            error
}

// Resolved is emitted after a top-level Make returns.
type Resolved struct {
	// TypeName is the requested type.
	TypeName string

	// ResultName is the runtime type of the produced value, which differs
	// from TypeName when a binding substituted an implementation.
	ResultName string

	Runtime time.Duration
	Err     error
}

// Invoked is emitted after a function is called through the container.
type Invoked struct {
	Function any

	// MethodName is set when the function was looked up by name.
	MethodName string

	Err error
}

// Stopped is emitted after the container closed its singletons.
type Stopped struct {
	// Closed is the number of closers that ran.
	Closed int
	Err    error
}
