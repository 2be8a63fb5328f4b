package api

import (
	"fmt"
	"net/http"
)

// DefaultStatusObserver is a ResponseObserver that turns common HTTP error
// statuses into short, user-facing errors before the body is read. Any
// status below 400 lets the response through.
func DefaultStatusObserver(resp *http.Response) *Error {
	code := resp.StatusCode

	var message string

	switch code {
	case http.StatusBadRequest:
		message = "Bad Request"
	case http.StatusUnauthorized:
		message = "Unauthorized"
	case http.StatusForbidden:
		message = "Forbidden"
	case http.StatusNotFound:
		message = "Not Found"
	case http.StatusInternalServerError:
		message = "Internal Server Error"
	case http.StatusBadGateway:
		message = "Bad Gateway"
	case http.StatusServiceUnavailable:
		message = "Service Unavailable"
	default:
		if code < http.StatusBadRequest {
			return nil
		}

		message = fmt.Sprintf("HTTP Error: %d %s", code, http.StatusText(code))
	}

	kind := ClientError
	if code >= http.StatusInternalServerError {
		kind = ServerError
	}

	return NewError(kind, &code, message)
}
