// Package event defines the events emitted by a grove container and the
// loggers that record them.
//
// A container reports every registration, top-level resolution, invocation
// and shutdown to its [Logger]. Pick [ZapLogger] in services that already log
// through zap, [ConsoleLogger] while developing, or leave the default
// [NopLogger] in place.
package event
