package event

import (
	"fmt"
	"io"
	"strings"

	"github.com/ARTM2000/grove/internal/reflectx"
)

// ConsoleLogger is a grove event logger that writes human-readable messages
// to W.
//
// Use this during development.
type ConsoleLogger struct {
	W io.Writer
}

var _ Logger = (*ConsoleLogger)(nil)

func (l *ConsoleLogger) logf(msg string, args ...any) {
	fmt.Fprintf(l.W, "[grove] "+msg+"\n", args...)
}

// LogEvent writes the given event to W.
func (l *ConsoleLogger) LogEvent(event Event) {
	switch e := event.(type) {
	case *Provided:
		if e.Err != nil {
			l.logf("ERROR\t\tprovide %v failed: %v", reflectx.FuncName(e.Constructor), e.Err)
		} else {
			l.logf("PROVIDE\t%v <= %v", e.TypeName, reflectx.FuncName(e.Constructor))
		}
	case *Bound:
		l.logf("BIND\t\t%v => %v", e.Abstract, e.Implementation)
	case *Supplied:
		if e.Err != nil {
			l.logf("ERROR\t\tsupply %v failed: %v", e.TypeName, e.Err)
		} else {
			l.logf("SUPPLY\t%v", e.TypeName)
		}
	case *Decorated:
		if e.Err != nil {
			l.logf("ERROR\t\tdecorate %v failed: %v", e.TargetName, e.Err)
		} else {
			l.logf("DECORATE\t%v <= %v", e.TargetName, strings.Join(e.DecoratorNames, ", "))
		}
	case *Resolved:
		if e.Err != nil {
			l.logf("ERROR\t\tresolve %v failed: %v", e.TypeName, e.Err)
		} else {
			l.logf("RESOLVE\t%v => %v in %v", e.TypeName, e.ResultName, e.Runtime)
		}
	case *Invoked:
		name := reflectx.FuncName(e.Function)
		if e.MethodName != "" {
			name = e.MethodName
		}
		if e.Err != nil {
			l.logf("ERROR\t\tinvoke %v failed: %v", name, e.Err)
		} else {
			l.logf("INVOKE\t%v", name)
		}
	case *Stopped:
		if e.Err != nil {
			l.logf("ERROR\t\tstop failed after %d closers: %v", e.Closed, e.Err)
		} else {
			l.logf("STOPPED\t%d closers", e.Closed)
		}
	}
}
