// Package reflectx holds small reflection helpers shared by grove and its
// event loggers.
package reflectx

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

var errorType = reflect.TypeFor[error]()

// IsError reports whether t implements error.
func IsError(t reflect.Type) bool {
	return t != nil && t.Implements(errorType)
}

// FuncName returns a formatted name for fn, or "n/a" when fn is not a
// function.
func FuncName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return "n/a"
	}

	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return "n/a"
	}
	return fmt.Sprintf("%s()", sanitize(f.Name()))
}

// TypeName returns t's string form, or "<nil>".
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// sanitize drops the "-fm" suffix the runtime gives method values.
func sanitize(name string) string {
	return strings.TrimSuffix(name, "-fm")
}
