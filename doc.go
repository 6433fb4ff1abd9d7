// Package grove provides a reflection-based dependency injection registry
// for Go.
//
// Grove builds values from their constructors, resolving each constructor
// parameter by type, recursively. Register constructors, bind interfaces to
// implementations, supply pre-built singletons and stack decorators, then
// ask for fully wired values with [Make], [Invoke] or [Container.Call].
//
// # Quick Start
//
//	c := grove.New()
//	c.Provide(NewDatabase)
//	grove.Bind[Logger, *FileLogger](c)
//
//	db, err := grove.Make[*Database](c)
//
// Structs and pointers to structs need no constructor: without one they are
// built as zero values.
//
// # Singletons and Bindings
//
// A singleton is returned by every Make of its type and takes precedence
// over a binding for the same type:
//
//	c.Singleton(cfg)                   // under the runtime type of cfg
//	grove.Supply[Clock](c, realClock{}) // under Clock
//
// # Decorators
//
// Decorators wrap every value made for their target, in registration order.
// A decorator is a type assignable to the target whose constructor takes
// the target as a parameter:
//
//	c.Provide(func(next Store) *cachedStore { return &cachedStore{next: next} })
//	grove.Decorate[Store](c, reflect.TypeFor[*cachedStore]())
//
// # Overrides
//
// A single call can inject values by type, at any depth, and pass named
// parameters to the function it invokes directly:
//
//	svc, err := grove.Make[*Service](c,
//		grove.Inject[Clock](fakeClock),
//		grove.WithParam("Name", "billing"),
//	)
//
// Named parameters are the fields of a struct parameter embedding [Params].
//
// # Errors
//
// When the container cannot wire a type it returns a [*ResolutionError]
// chain naming each type on the way down: "cannot resolve A because: cannot
// resolve B because: ...". Errors returned by your own constructors and
// functions come back unwrapped.
//
// # Concurrency
//
// Register during startup. Once registration is done, Make, Call and the
// other resolution methods may be called from any number of goroutines.
package grove
