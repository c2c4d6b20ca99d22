// Package fallback runs a backend operation and degrades to a pure local
// default when the backend cannot answer.
package fallback

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Jamolkhon5/sprintkit/internal/metrics"
)

type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// Result carries the value and which path produced it. Err is the remote
// failure that triggered the fallback, if any.
type Result[T any] struct {
	Value  T
	Source Source
	Err    error
}

func (r Result[T]) FromRemote() bool {
	return r.Source == SourceRemote
}

// Operation pairs a remote call with its local default. Local must be pure.
type Operation[T any] struct {
	Name    string
	Remote  func(ctx context.Context) (T, error)
	Local   func() T
	Metrics *metrics.Metrics
}

// Run never fails: a remote error yields the local value
func (op Operation[T]) Run(ctx context.Context) Result[T] {
	if op.Remote != nil {
		v, err := op.Remote(ctx)
		if err == nil {
			op.Metrics.RemoteCall(op.Name, string(SourceRemote))
			return Result[T]{Value: v, Source: SourceRemote}
		}
		zerolog.Ctx(ctx).Warn().Err(err).Str("operation", op.Name).Msg("backend unavailable, using local default")
		op.Metrics.RemoteCall(op.Name, string(SourceFallback))
		return Result[T]{Value: op.local(), Source: SourceFallback, Err: err}
	}
	op.Metrics.RemoteCall(op.Name, string(SourceFallback))
	return Result[T]{Value: op.local(), Source: SourceFallback}
}

func (op Operation[T]) local() T {
	if op.Local == nil {
		var zero T
		return zero
	}
	return op.Local()
}
