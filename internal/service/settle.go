package service

import (
	"context"
	"fmt"

	"github.com/dtroode/recipai/internal/model"
)

// settle runs call detached from ctx cancellation so the request always runs
// to completion. When ctx ends first, settle returns ErrCancelled at once and
// the late result is dropped, unless that result is already waiting.
func settle[T any](ctx context.Context, call func(context.Context) (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}

	done := make(chan result, 1)
	go func() {
		v, err := call(context.WithoutCancel(ctx))
		done <- result{value: v, err: err}
	}()

	var zero T
	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		select {
		case r := <-done:
			return r.value, r.err
		default:
		}
		return zero, fmt.Errorf("%w: %w", model.ErrCancelled, context.Cause(ctx))
	}
}
