package api

import (
	"encoding/json"
	"fmt"
)

// Envelope is the wire shape every response body uses. Code and Message
// are required; Data may be absent or null.
type Envelope[R any] struct {
	Code    *int    `json:"code"`
	Message *string `json:"message"`
	Data    *R      `json:"data,omitempty"`
}

// rawEnvelope defers decoding of data until the code says it is a success,
// so a business error with an unexpected data shape still classifies as a
// business error.
type rawEnvelope = Envelope[json.RawMessage]

// decode parses body and checks the required fields.
func (env *Envelope[R]) decode(body []byte) error {
	err := json.Unmarshal(body, env)
	if err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}

	if env.Code == nil {
		return fmt.Errorf("%w %q", ErrMissingField, "code")
	}

	if env.Message == nil {
		return fmt.Errorf("%w %q", ErrMissingField, "message")
	}

	return nil
}

// NewEnvelope renders a result in the wire shape. A Success keeps its data,
// a business error keeps its code, and any other failure gets code -1 with
// its message.
func NewEnvelope[R any](result Result[R]) Envelope[R] {
	switch outcome := result.(type) {
	case Success[R]:
		return Envelope[R]{Code: &outcome.StatusCode, Message: &outcome.Message, Data: outcome.Data}
	case *Error:
		code := -1
		if outcome.Kind == BusinessError {
			code = outcome.Code()
		}

		return Envelope[R]{Code: &code, Message: &outcome.Message}
	default:
		code, message := -1, "no result"

		return Envelope[R]{Code: &code, Message: &message}
	}
}

func decodeResult[R any](body []byte) Result[R] {
	var env rawEnvelope

	err := env.decode(body)
	if err != nil {
		return wrapError(ParseFailure, err)
	}

	if *env.Code != 0 {
		return businessError(*env.Code, *env.Message)
	}

	success := Success[R]{StatusCode: *env.Code, Message: *env.Message}

	if env.Data == nil || string(*env.Data) == "null" {
		return success
	}

	var data R

	err = json.Unmarshal(*env.Data, &data)
	if err != nil {
		return wrapError(ParseFailure, fmt.Errorf("decode data: %w", err))
	}

	success.Data = &data

	return success
}
