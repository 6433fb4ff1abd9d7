package grove

import (
	"fmt"
	"reflect"
)

// Params marks a struct parameter as a set of named parameters. Embed it in
// a struct and take that struct as a constructor or function parameter:
//
//	type ServerParams struct {
//		grove.Params
//
//		Addr    string
//		Timeout time.Duration `name:"timeout"`
//	}
//
//	func NewServer(log *Logger, p ServerParams) *Server
//
// Exported fields are filled from the named parameters of the current call,
// matched by field name or by the name tag. Fields without a value keep
// their zero value. Named parameters are never resolved from the container.
type Params struct{}

var paramsType = reflect.TypeFor[Params]()

// Parameter describes one slot of a function's parameter list.
type Parameter struct {
	// Index is the position of the parameter in the function signature.
	Index int

	// Type is the declared type of the slot.
	Type reflect.Type

	// Named is true for fields of a [Params] struct. Name and Field are only
	// set for named parameters.
	Named bool
	Name  string
	Field []int
}

// Signature is the introspected parameter list of a function.
type Signature struct {
	// Func is the introspected function type.
	Func reflect.Type

	// Params lists positional parameters in order, followed by the named
	// parameters of every Params struct.
	Params []Parameter

	// Variadic is true when the last positional parameter is variadic.
	Variadic bool
}

// Introspector reports the parameter lists the resolver fills in and the
// assignability rules it validates decorators with. The default
// implementation reads Go function signatures through reflection; supply
// another with [WithIntrospector].
type Introspector interface {
	// Signature returns the parameter list of the function type fn. It
	// returns a *ParameterError for slots that cannot be resolved by type.
	Signature(fn reflect.Type) (Signature, error)

	// Assignable reports whether a value of type from satisfies the contract
	// of type to.
	Assignable(from, to reflect.Type) bool
}

type reflectIntrospector struct{}

var _ Introspector = reflectIntrospector{}

func (reflectIntrospector) Signature(fn reflect.Type) (Signature, error) {
	if fn == nil || fn.Kind() != reflect.Func {
		return Signature{}, fmt.Errorf("%w: %v", ErrNotFunc, fn)
	}

	sig := Signature{Func: fn, Variadic: fn.IsVariadic()}
	var named []Parameter
	for i := 0; i < fn.NumIn(); i++ {
		in := fn.In(i)

		if isParamsStruct(in) {
			named = append(named, namedFields(i, in)...)
			continue
		}

		if isUntyped(in) {
			return Signature{}, &ParameterError{Func: fn, Index: i, Type: in}
		}
		sig.Params = append(sig.Params, Parameter{Index: i, Type: in})
	}
	sig.Params = append(sig.Params, named...)
	return sig, nil
}

func (reflectIntrospector) Assignable(from, to reflect.Type) bool {
	return from != nil && to != nil && from.AssignableTo(to)
}

// isUntyped reports whether t gives the resolver nothing to resolve by. The
// empty interface is Go's untyped slot; a variadic ...any is one too.
func isUntyped(t reflect.Type) bool {
	if t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	return t.Kind() == reflect.Interface && t.NumMethod() == 0
}

func isParamsStruct(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type == paramsType {
			return true
		}
	}
	return false
}

func namedFields(index int, t reflect.Type) []Parameter {
	var out []Parameter
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type == paramsType || !f.IsExported() {
			continue
		}

		name := f.Name
		if tag, ok := f.Tag.Lookup("name"); ok && tag != "" {
			name = tag
		}
		out = append(out, Parameter{
			Index: index,
			Type:  f.Type,
			Named: true,
			Name:  name,
			Field: f.Index,
		})
	}
	return out
}
