package api

import (
	"context"
	"fmt"
)

// TypedStage wraps a strongly-typed stage function into a StageFunc.
// The run fails with a type error if the state flowing into the stage is not
// an S; graphs built from a single state type never hit that path.
//
// Example:
//
//	api.TypedStage(func(ctx context.Context, s PlanState) (PlanState, error) { ... })
func TypedStage[S any](fn func(context.Context, S) (S, error)) StageFunc {
	return func(ctx context.Context, state any) (any, error) {
		s, ok := state.(S)
		if !ok {
			var want S
			return nil, fmt.Errorf("stage expected state %T, got %T", want, state)
		}
		return fn(ctx, s)
	}
}

// TypedBranch wraps a strongly-typed branch function into a BranchFunc.
// A state of an unexpected type routes to End so the mismatch surfaces as a
// truncated run in tests rather than a panic.
func TypedBranch[S any](fn func(S) Transition) BranchFunc {
	return func(state any) Transition {
		s, ok := state.(S)
		if !ok {
			return Proceed(End)
		}
		return fn(s)
	}
}
