package event

import (
	"github.com/ARTM2000/grove/internal/reflectx"
	"go.uber.org/zap"
)

// ZapLogger is a grove event logger that logs events to Zap.
//
// Successful registrations and resolutions are logged at debug level; every
// failure is logged at error level.
type ZapLogger struct {
	Logger *zap.Logger
}

var _ Logger = (*ZapLogger)(nil)

func (l *ZapLogger) logError(msg string, err error, fields ...zap.Field) {
	l.Logger.Error(msg, append(fields, zap.Error(err))...)
}

// LogEvent logs the given event to the provided Zap logger.
func (l *ZapLogger) LogEvent(event Event) {
	switch e := event.(type) {
	case *Provided:
		if e.Err != nil {
			l.logError("provide failed", e.Err,
				zap.String("constructor", reflectx.FuncName(e.Constructor)))
		} else {
			l.Logger.Debug("provided",
				zap.String("constructor", reflectx.FuncName(e.Constructor)),
				zap.String("type", e.TypeName))
		}
	case *Bound:
		l.Logger.Debug("bound",
			zap.String("abstract", e.Abstract),
			zap.String("implementation", e.Implementation))
	case *Supplied:
		if e.Err != nil {
			l.logError("supply failed", e.Err, zap.String("type", e.TypeName))
		} else {
			l.Logger.Debug("supplied", zap.String("type", e.TypeName))
		}
	case *Decorated:
		if e.Err != nil {
			l.logError("decorate failed", e.Err, zap.String("target", e.TargetName))
		} else {
			l.Logger.Debug("decorated",
				zap.String("target", e.TargetName),
				zap.Strings("decorators", e.DecoratorNames))
		}
	case *Resolved:
		if e.Err != nil {
			l.logError("resolve failed", e.Err, zap.String("type", e.TypeName))
		} else {
			l.Logger.Debug("resolved",
				zap.String("type", e.TypeName),
				zap.String("result", e.ResultName),
				zap.Duration("runtime", e.Runtime))
		}
	case *Invoked:
		fields := []zap.Field{zap.String("function", reflectx.FuncName(e.Function))}
		if e.MethodName != "" {
			fields = append(fields, zap.String("method", e.MethodName))
		}
		if e.Err != nil {
			l.logError("invoke failed", e.Err, fields...)
		} else {
			l.Logger.Debug("invoked", fields...)
		}
	case *Stopped:
		if e.Err != nil {
			l.logError("stop failed", e.Err, zap.Int("closed", e.Closed))
		} else {
			l.Logger.Info("stopped", zap.Int("closed", e.Closed))
		}
	}
}
