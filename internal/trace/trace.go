// Package trace wraps functions so that every call is logged before the
// wrapped function runs.
package trace

import (
	"context"

	"go.uber.org/zap"
)

// Func wraps a no-argument function.
func Func[T any](log *zap.Logger, name string, fn func() (T, error)) func() (T, error) {
	return func() (T, error) {
		called(log, name)
		return fn()
	}
}

// Func1 wraps a one-argument function.
func Func1[A, T any](log *zap.Logger, name string, fn func(A) (T, error)) func(A) (T, error) {
	return func(a A) (T, error) {
		called(log, name, a)
		return fn(a)
	}
}

// Func2 wraps a two-argument function.
func Func2[A, B, T any](log *zap.Logger, name string, fn func(A, B) (T, error)) func(A, B) (T, error) {
	return func(a A, b B) (T, error) {
		called(log, name, a, b)
		return fn(a, b)
	}
}

// Action2 wraps a two-argument function that only returns an error.
func Action2[A, B any](log *zap.Logger, name string, fn func(A, B) error) func(A, B) error {
	return func(a A, b B) error {
		called(log, name, a, b)
		return fn(a, b)
	}
}

// LogAndRun logs that it received fn and returns the result of calling it.
func LogAndRun[T any](log *zap.Logger, name string, fn func() T) T {
	log.Info("got function", zap.String("func", name))
	return fn()
}

// LogAndReturn logs that it received fn and returns fn uncalled.
func LogAndReturn[F any](log *zap.Logger, name string, fn F) F {
	log.Info("got function", zap.String("func", name))
	return fn
}

func called(log *zap.Logger, name string, args ...any) {
	if ce := log.Check(zap.DebugLevel, "called"); ce != nil {
		ce.Write(zap.String("func", name), zap.Any("args", printable(args)))
	}
}

// printable replaces contexts, which carry no useful detail, with a placeholder.
func printable(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if _, ok := a.(context.Context); ok {
			out[i] = "ctx"
			continue
		}
		out[i] = a
	}
	return out
}
