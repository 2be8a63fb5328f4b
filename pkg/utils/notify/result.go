package notify

import (
	"io"

	"github.com/devantler-tech/apidelta/pkg/client/api"
)

// WriteResult writes one line for a request outcome, prefixed with label.
// Successes show the service message; business errors show the code the
// service returned.
func WriteResult[R any](writer io.Writer, label string, result api.Result[R]) {
	switch outcome := result.(type) {
	case api.Success[R]:
		Successf(writer, "%s: %s", label, outcome.Message)
	case *api.Error:
		if outcome.Kind == api.BusinessError {
			Errorf(writer, "%s: business error %d: %s", label, outcome.Code(), outcome.Message)

			return
		}

		Errorf(writer, "%s: %s", label, outcome.Message)
	default:
		Warningf(writer, "%s: no result", label)
	}
}
