package grove

import "reflect"

// Lifetime tells whether making a type shares one instance or builds a new
// one every time.
type Lifetime int

const (
	// Transient means a new instance is constructed on every Make.
	Transient Lifetime = iota

	// Singleton means every Make returns the registered instance.
	Singleton
)

// String returns the human-readable name of the lifetime.
func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}

func (c *container) Lifetime(t reflect.Type) Lifetime {
	seen := make(map[reflect.Type]bool)
	for key := t; key != nil && !seen[key]; {
		seen[key] = true
		if _, ok := c.singleton(key); ok {
			return Singleton
		}
		key, _ = c.binding(key)
	}
	return Transient
}
