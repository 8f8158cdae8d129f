// Package resource folds a backend fetch into one result value the portal
// renders uniformly.
package resource

import (
	"context"
	"errors"
	"sync"
)

// Kind classifies the outcome of a fetch.
type Kind int

const (
	OK Kind = iota
	Forbidden
	NotFound
	Failed
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case OK:
		return "ok"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	default:
		return "failed"
	}
}

type forbiddenError interface{ Forbidden() bool }

type notFoundError interface{ NotFound() bool }

// Classify maps an error onto a Kind. Errors exposing Forbidden() or
// NotFound() (backend.Error does) are terminal; everything else is Failed.
func Classify(err error) Kind {
	if err == nil {
		return OK
	}
	var fe forbiddenError
	if errors.As(err, &fe) && fe.Forbidden() {
		return Forbidden
	}
	var ne notFoundError
	if errors.As(err, &ne) && ne.NotFound() {
		return NotFound
	}
	return Failed
}

// Result is the state of one fetch.
type Result[T any] struct {
	Data    T
	Loading bool
	Err     error
	Kind    Kind
}

// OK reports whether the fetch succeeded.
func (r Result[T]) OK() bool {
	return !r.Loading && r.Kind == OK && r.Err == nil
}

// Fetch loads one resource.
type Fetch[T any] func(ctx context.Context) (T, error)

// Load runs fetch once.
// POST: Kind is OK exactly when Err is nil
func Load[T any](ctx context.Context, fetch Fetch[T]) Result[T] {
	data, err := fetch(ctx)
	if err != nil {
		var zero T
		return Result[T]{Data: zero, Err: err, Kind: Classify(err)}
	}
	return Result[T]{Data: data, Kind: OK}
}

// Query is a re-runnable fetch with its latest result.
type Query[T any] struct {
	mu    sync.Mutex
	fetch Fetch[T]
	last  Result[T]
}

// NewQuery binds fetch. Result reports Loading until the first run finishes.
func NewQuery[T any](fetch Fetch[T]) *Query[T] {
	return &Query[T]{fetch: fetch, last: Result[T]{Loading: true}}
}

// Refetch runs the fetch again with the same parameters.
func (q *Query[T]) Refetch(ctx context.Context) Result[T] {
	r := Load(ctx, q.fetch)
	q.mu.Lock()
	q.last = r
	q.mu.Unlock()
	return r
}

// Result returns the latest result.
func (q *Query[T]) Result() Result[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.last
}
