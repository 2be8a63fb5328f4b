package api

// Result is the outcome of a single request: either Success[R] or *Error.
// The set of implementations is closed.
type Result[R any] interface {
	isResult()
}

// Success carries a response whose envelope reported business code 0.
// Data is nil when the service sent no data.
type Success[R any] struct {
	StatusCode int
	Message    string
	Data       *R
}

func (Success[R]) isResult() {}

func (*Error) isResult() {}

// IsSuccess reports whether result is a Success.
func IsSuccess[R any](result Result[R]) bool {
	_, ok := result.(Success[R])

	return ok
}

// AsError returns the *Error held by result, if any.
func AsError[R any](result Result[R]) (*Error, bool) {
	failure, ok := result.(*Error)

	return failure, ok
}

// OnSuccess calls callback when result is a Success and returns result
// unchanged, so calls can be chained with OnFailure.
func OnSuccess[R any](result Result[R], callback func(Success[R])) Result[R] {
	if success, ok := result.(Success[R]); ok {
		callback(success)
	}

	return result
}

// OnFailure calls callback when result is an *Error and returns result unchanged.
func OnFailure[R any](result Result[R], callback func(*Error)) Result[R] {
	if failure, ok := result.(*Error); ok {
		callback(failure)
	}

	return result
}
