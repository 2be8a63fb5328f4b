package api

import (
	"context"

	"github.com/devantler-tech/apidelta/pkg/utils/parallel"
)

// Call is one entry of a batch sent with SendAll.
type Call struct {
	Spec    RequestSpec `json:"request"           yaml:"request"`
	Payload any         `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// SendAll sends every call with at most concurrency requests in flight and
// returns one Result per call, in input order. Calls are independent: a
// failure in one does not cancel the others. Calls that never started
// because ctx ended report Canceled. concurrency <= 0 selects the default.
func SendAll[R any](ctx context.Context, client *Client, calls []Call, concurrency int64) []Result[R] {
	return SendEach[R](ctx, client, calls, concurrency, nil)
}

// SendEach behaves like SendAll and also hands every result to onResult as
// soon as it is known. onResult runs on the worker goroutines, concurrently
// and in completion order, so it must be safe for concurrent use. A nil
// onResult is ignored.
func SendEach[R any](
	ctx context.Context,
	client *Client,
	calls []Call,
	concurrency int64,
	onResult func(index int, result Result[R]),
) []Result[R] {
	report := func(index int, result Result[R]) Result[R] {
		if onResult != nil {
			onResult(index, result)
		}

		return result
	}

	results, err := parallel.Collect(
		ctx,
		parallel.NewExecutor(concurrency),
		len(calls),
		func(ctx context.Context, index int) Result[R] {
			return report(index, Send[R](ctx, client, calls[index].Spec, calls[index].Payload))
		},
	)
	if err != nil {
		for index, result := range results {
			if result == nil {
				results[index] = report(index, wrapError(Canceled, err))
			}
		}
	}

	return results
}
